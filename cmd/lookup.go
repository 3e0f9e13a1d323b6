package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/sc2ranks/filter"
	"github.com/s0up4200/sc2ranks/lookup"
	"github.com/s0up4200/sc2ranks/sc2ranks"
)

var (
	filterExpr    string
	preset        string
	concurrency   int
	lookupDetails string
)

var compiler = filter.NewCompiler(filter.WithCache(16))

// lookupCmd represents the lookup command
var lookupCmd = &cobra.Command{
	Use:   "lookup NAME",
	Short: "Search for a name and fetch every matching character",
	Long: `Search a region for the given name, then fetch profile and team data for
each hit. Hits can be narrowed with a filter expression before fetching:

  sc2ranks lookup Bacon --type starts --filter 'Name startsWith "BaconE" and hasBnetID()'

Fields: Name, BnetID, Code, Region.
Helpers: hasBnetID(), hasCode(), containsFold(s, sub), prefixFold(s, p), suffixFold(s, p).`,
	Args:    cobra.ExactArgs(1),
	PreRunE: initializeApp,
	RunE:    runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)

	lookupCmd.Flags().StringVarP(&regionName, "region", "r", "us", "region code")
	lookupCmd.Flags().StringVarP(&searchType, "type", "t", "exact", "match type (exact, contains, starts, ends)")
	lookupCmd.Flags().IntVar(&offset, "offset", 0, "result offset for duplicate names")
	lookupCmd.Flags().StringVar(&lookupDetails, "details", "", "detail level (char or teams, default from config)")
	lookupCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	lookupCmd.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
	lookupCmd.Flags().IntVarP(&concurrency, "concurrency", "c", 0, "parallel character lookups (default from config)")
}

func runLookup(cmd *cobra.Command, args []string) error {
	name := args[0]

	region, err := regionFlag(cmd, regionName)
	if err != nil {
		return err
	}
	st, err := sc2ranks.ParseSearchType(searchType)
	if err != nil {
		return err
	}

	detailLevel := lookupDetails
	if detailLevel == "" {
		detailLevel = cfg.Lookup.Details
	}
	d, err := sc2ranks.ParseCharacterDetails(detailLevel)
	if err != nil {
		return err
	}

	f, err := getFilter()
	if err != nil {
		return err
	}

	if concurrency > 0 {
		operations.SetConcurrency(concurrency)
	}

	event := logger.Info().Str("name", name).Str("region", region.String())
	if f != nil {
		event = event.Str("filter", f.String())
	}
	event.Msg("Looking up characters")

	report, err := operations.Lookup(cmd.Context(), lookup.Options{
		Name:       name,
		Region:     region,
		SearchType: st,
		Offset:     offsetFlag(cmd, offset),
		Details:    d,
		Filter:     f,
	})
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}

	if failed := report.Failed(); len(failed) > 0 {
		logger.Warn().Int("failed", len(failed)).Int("total", len(report.Results)).Msg("Some characters could not be fetched")
	}

	return printResult(cmd, reportJSON(report), func() string {
		return formatter.FormatReport(report)
	})
}

// getFilter determines the filter to use: --filter, then --preset, else none
func getFilter() (*filter.Filter, error) {
	expr := filterExpr
	if expr == "" && preset != "" {
		presetExpr, ok := cfg.Filter.Presets[preset]
		if !ok {
			return nil, fmt.Errorf("preset '%s' not found in config", preset)
		}
		expr = presetExpr
	}
	if expr == "" {
		return nil, nil
	}

	f, err := compiler.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}
	return f, nil
}

type resultJSON struct {
	Character sc2ranks.CharacterSummary `json:"character"`
	Data      any                       `json:"data,omitempty"`
	Error     string                    `json:"error,omitempty"`
}

func reportJSON(report *lookup.Report) map[string]any {
	results := make([]resultJSON, 0, len(report.Results))
	for _, res := range report.Results {
		r := resultJSON{Character: res.Character}
		if res.Err != nil {
			r.Error = res.Err.Error()
		} else {
			r.Data = res.Response.Value
		}
		results = append(results, r)
	}

	return map[string]any{
		"name":    report.Name,
		"region":  report.Region,
		"total":   report.Total,
		"matched": report.Matched,
		"results": results,
	}
}
