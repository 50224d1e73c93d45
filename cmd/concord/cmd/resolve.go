package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	concord "github.com/concordhq/concord"
	"github.com/concordhq/concord/cmd/concord/app"
	"github.com/concordhq/concord/internal/cmd/output"
	"github.com/concordhq/concord/pkg/candidate"
	"github.com/concordhq/concord/pkg/history"
)

var (
	resolveTolerance float64
	resolveHistory   string
	resolveAudit     string
	resolveTrace     bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <candidates-file>",
	Short: "Resolve candidate values into one decision per field",
	Long: `Resolve reads a YAML file of per-field candidates, runs the strategy
chain over each field, and prints one decision per field.

Fields that reach no decision through consensus, voting, or scoring
fall through to source priority, historical match (when a history file
is supplied), and finally first-available.`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().Float64VarP(&resolveTolerance, "tolerance", "t", 0,
		"numeric clustering tolerance (overrides config)")
	resolveCmd.Flags().StringVar(&resolveHistory, "history", "",
		"historical records file for the historical-match strategy")
	resolveCmd.Flags().StringVar(&resolveAudit, "audit", "",
		"write the decision audit trail to this file")
	resolveCmd.Flags().BoolVar(&resolveTrace, "trace", false,
		"print the audit trail report after the decisions")
}

func runResolve(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	file, err := candidate.LoadFile(args[0])
	if err != nil {
		return err
	}

	cfg, err := app.ScoringConfig()
	if err != nil {
		return err
	}

	opts := []concord.Option{
		concord.WithTolerance(app.Tolerance(resolveTolerance, cmd.Flags().Changed("tolerance"))),
		concord.WithScoring(cfg),
	}
	if resolveHistory != "" {
		store, err := history.Load(resolveHistory)
		if err != nil {
			return err
		}
		opts = append(opts, concord.WithHistory(store))
	}

	engine, err := concord.New(opts...)
	if err != nil {
		return err
	}

	decisions, err := engine.ResolveFile(ctx, file)
	if err != nil {
		return err
	}

	format, err := output.ParseFormat(globalFlags.Output)
	if err != nil {
		return err
	}
	formatter := output.NewFormatter(format)

	var data any = decisions
	if format == output.FormatTable {
		data = output.DecisionsToTableData(decisions)
	}
	if err := formatter.Format(os.Stdout, data); err != nil {
		return err
	}

	trail := engine.Trail()
	if resolveTrace {
		fmt.Println(trail.String())
	}
	if resolveAudit != "" {
		if err := trail.Save(resolveAudit); err != nil {
			return err
		}
		if globalFlags.Verbose {
			fmt.Fprintln(os.Stderr, "Audit trail written to", resolveAudit)
		}
	}

	return nil
}
