package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/sc2ranks/sc2ranks"
)

var (
	bnetID  int64
	code    string
	details string
)

// characterCmd represents the character command
var characterCmd = &cobra.Command{
	Use:   "character NAME",
	Short: "Fetch a character's profile",
	Long: `Fetch a character by name and either its battle.net id or its character code.
If both are given the battle.net id is used.`,
	Args:    cobra.ExactArgs(1),
	PreRunE: initializeApp,
	RunE:    runCharacter,
}

func init() {
	rootCmd.AddCommand(characterCmd)

	characterCmd.Flags().StringVarP(&regionName, "region", "r", "us", "region code")
	characterCmd.Flags().Int64Var(&bnetID, "bnet-id", 0, "battle.net identifier")
	characterCmd.Flags().StringVar(&code, "code", "", "character code")
	characterCmd.Flags().StringVar(&details, "details", "char", "detail level (char or teams)")
}

func runCharacter(cmd *cobra.Command, args []string) error {
	name := args[0]

	region, err := regionFlag(cmd, regionName)
	if err != nil {
		return err
	}
	ref, err := sc2ranks.RefFromFields(bnetID, code)
	if err != nil {
		return err
	}
	d, err := sc2ranks.ParseCharacterDetails(details)
	if err != nil {
		return err
	}

	resp, err := client.GetCharacter(cmd.Context(), name, region, ref, d)
	if err != nil {
		return fmt.Errorf("failed to get character %s (%s): %w", name, ref, err)
	}

	return printResult(cmd, resp.Value, func() string {
		return formatter.FormatResponse(resp)
	})
}
