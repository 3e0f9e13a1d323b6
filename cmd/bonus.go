package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// bonusCmd represents the bonus command
var bonusCmd = &cobra.Command{
	Use:     "bonus",
	Short:   "Show the maximum bonus pool",
	Args:    cobra.NoArgs,
	PreRunE: initializeApp,
	RunE:    runBonus,
}

func init() {
	rootCmd.AddCommand(bonusCmd)
}

func runBonus(cmd *cobra.Command, args []string) error {
	resp, err := client.MaximumBonusPool(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get bonus pool: %w", err)
	}

	return printResult(cmd, resp.Value, func() string {
		return formatter.FormatBonusPool(resp)
	})
}
