package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/concordhq/concord/cmd/concord/app"
	"github.com/concordhq/concord/internal/cmd/output"
)

var weightsCmd = &cobra.Command{
	Use:   "weights",
	Short: "Show the effective scoring configuration",
	Long: `Weights prints the parser weights, source multipliers, and excerpt
bonus that scoring will use, after applying any overrides from the
config file.`,
	RunE: runWeights,
}

func init() {
	rootCmd.AddCommand(weightsCmd)
}

func runWeights(_ *cobra.Command, _ []string) error {
	cfg, err := app.ScoringConfig()
	if err != nil {
		return err
	}

	format, err := output.ParseFormat(globalFlags.Output)
	if err != nil {
		return err
	}
	formatter := output.NewFormatter(format)

	if format == output.FormatTable {
		return formatter.Format(os.Stdout, output.WeightsToTableData(cfg))
	}
	return formatter.Format(os.Stdout, cfg)
}
