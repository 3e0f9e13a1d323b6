package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/sc2ranks/lookup"
	"github.com/s0up4200/sc2ranks/sc2ranks"
)

var (
	regionName string
	searchType string
	offset     int
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search NAME",
	Short: "Search for characters by name",
	Long: `Search a region for characters with the given name.

The --type flag selects how the name is matched (exact, contains, starts, ends).
Names shared by many characters are paged; use --offset to skip ahead.`,
	Args:    cobra.ExactArgs(1),
	PreRunE: initializeApp,
	RunE:    runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVarP(&regionName, "region", "r", "us", "region code (all, eu, ru, cn, ln, us, tw, kr, sea)")
	searchCmd.Flags().StringVarP(&searchType, "type", "t", "exact", "match type (exact, contains, starts, ends)")
	searchCmd.Flags().IntVar(&offset, "offset", 0, "result offset for duplicate names")
}

func runSearch(cmd *cobra.Command, args []string) error {
	name := args[0]

	region, err := regionFlag(cmd, regionName)
	if err != nil {
		return err
	}
	st, err := sc2ranks.ParseSearchType(searchType)
	if err != nil {
		return err
	}

	logger.Info().Str("name", name).Str("region", region.String()).Str("type", st.String()).Msg("Searching characters")

	result, err := operations.Search(cmd.Context(), lookup.Options{
		Name:       name,
		Region:     region,
		SearchType: st,
		Offset:     offsetFlag(cmd, offset),
	})
	if errors.Is(err, sc2ranks.ErrCharacterNotFound) {
		result = &sc2ranks.SearchResult{}
	} else if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	return printResult(cmd, result, func() string {
		return formatter.FormatSearch(name, region, result)
	})
}
