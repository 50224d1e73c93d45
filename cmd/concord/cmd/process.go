package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	concord "github.com/concordhq/concord"
	"github.com/concordhq/concord/cmd/concord/app"
	"github.com/concordhq/concord/internal/cmd/output"
	"github.com/concordhq/concord/pkg/errors"
	"github.com/concordhq/concord/pkg/extract"
	"github.com/concordhq/concord/pkg/history"
)

var (
	processAttachment string
	processLLM        bool
	processModel      string
	processHistory    string
	processTrace      bool
)

var processCmd = &cobra.Command{
	Use:   "process <document-file>",
	Short: "Extract and resolve a document end to end",
	Long: `Process runs the available parsers over a document, reconciles their
candidates field by field, and prints one decision per field.

It is the one-shot combination of extract and resolve.`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVarP(&processAttachment, "attachment", "a", "",
		"attachment text file to extract from alongside the body")
	processCmd.Flags().BoolVar(&processLLM, "llm", false,
		"also run the LLM parser (requires an API key)")
	processCmd.Flags().StringVar(&processModel, "model", extract.DefaultLLMModel,
		"LLM model to use with --llm")
	processCmd.Flags().StringVar(&processHistory, "history", "",
		"historical records file for the historical-match strategy")
	processCmd.Flags().BoolVar(&processTrace, "trace", false,
		"print the audit trail report after the decisions")
}

func runProcess(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	body, err := os.ReadFile(args[0])
	if err != nil {
		return &errors.IOError{Operation: "read", Path: args[0], Err: err}
	}
	doc := extract.Document{Body: string(body)}

	if processAttachment != "" {
		attachment, err := os.ReadFile(processAttachment)
		if err != nil {
			return &errors.IOError{Operation: "read", Path: processAttachment, Err: err}
		}
		doc.AttachmentText = string(attachment)
	}

	cfg, err := app.ScoringConfig()
	if err != nil {
		return err
	}

	opts := []concord.Option{concord.WithScoring(cfg)}

	extractors := []extract.Extractor{extract.NewPattern()}
	if processLLM {
		llm, err := extract.NewLLM(ctx, processModel)
		if err != nil {
			if errors.IsAPIKeyError(err) {
				return fmt.Errorf("--llm requires GEMINI_API_KEY or GOOGLE_API_KEY: %w", err)
			}
			return err
		}
		extractors = append(extractors, llm)
	}
	opts = append(opts, concord.WithExtractors(extractors...))

	if processHistory != "" {
		store, err := history.Load(processHistory)
		if err != nil {
			return err
		}
		opts = append(opts, concord.WithHistory(store))
	}

	engine, err := concord.New(opts...)
	if err != nil {
		return err
	}

	decisions, err := engine.Process(ctx, doc)
	if err != nil {
		return err
	}
	if len(decisions) == 0 {
		fmt.Fprintln(os.Stderr, "No fields resolved")
		return nil
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

	if processTrace {
		fmt.Println(engine.Trail().String())
	}
	return nil
}
