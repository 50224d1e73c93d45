package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/concordhq/concord/cmd/concord/app"
	"github.com/concordhq/concord/internal/cmd/output"
	"github.com/concordhq/concord/pkg/candidate"
	"github.com/concordhq/concord/pkg/errors"
	"github.com/concordhq/concord/pkg/extract"
	"github.com/concordhq/concord/pkg/score"
)

var (
	extractAttachment string
	extractLLM        bool
	extractModel      string
)

var extractCmd = &cobra.Command{
	Use:   "extract <document-file>",
	Short: "Extract field candidates from a document",
	Long: `Extract runs the available parsers over a document and prints the
candidates they produce, grouped by field.

The pattern parser always runs. The LLM parser runs when --llm is set
and a GEMINI_API_KEY or GOOGLE_API_KEY is configured.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVarP(&extractAttachment, "attachment", "a", "",
		"attachment text file to extract from alongside the body")
	extractCmd.Flags().BoolVar(&extractLLM, "llm", false,
		"also run the LLM parser (requires an API key)")
	extractCmd.Flags().StringVar(&extractModel, "model", extract.DefaultLLMModel,
		"LLM model to use with --llm")
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	body, err := os.ReadFile(args[0])
	if err != nil {
		return &errors.IOError{Operation: "read", Path: args[0], Err: err}
	}
	doc := extract.Document{Body: string(body)}

	if extractAttachment != "" {
		attachment, err := os.ReadFile(extractAttachment)
		if err != nil {
			return &errors.IOError{Operation: "read", Path: extractAttachment, Err: err}
		}
		doc.AttachmentText = string(attachment)
	}

	extractors := []extract.Extractor{extract.NewPattern()}
	if extractLLM {
		llm, err := extract.NewLLM(ctx, extractModel)
		if err != nil {
			if errors.IsAPIKeyError(err) {
				return fmt.Errorf("--llm requires GEMINI_API_KEY or GOOGLE_API_KEY: %w", err)
			}
			return err
		}
		extractors = append(extractors, llm)
	}

	candidates := extract.Collect(ctx, doc, extractors...)
	if len(candidates) == 0 {
		fmt.Fprintln(os.Stderr, "No candidates extracted")
		return nil
	}

	cfg, err := app.ScoringConfig()
	if err != nil {
		return err
	}
	scorer, err := score.New(cfg)
	if err != nil {
		return err
	}

	format, err := output.ParseFormat(globalFlags.Output)
	if err != nil {
		return err
	}
	formatter := output.NewFormatter(format)

	if format == output.FormatTable {
		return formatter.Format(os.Stdout, candidatesTable(candidates, scorer))
	}

	// Key by field name for structured output
	byName := make(map[string][]candidate.Candidate, len(candidates))
	for field, cands := range candidates {
		byName[field.Name] = cands
	}
	return formatter.Format(os.Stdout, byName)
}

func candidatesTable(candidates map[candidate.Field][]candidate.Candidate, scorer *score.Scorer) output.Data {
	fields := make([]candidate.Field, 0, len(candidates))
	for field := range candidates {
		fields = append(fields, field)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })

	data := output.Data{
		Headers:         []string{"Field", "Parser", "Value", "Source", "Score"},
		ColumnAlignment: []output.Align{output.AlignLeft, output.AlignLeft, output.AlignRight, output.AlignLeft, output.AlignRight},
	}
	for _, field := range fields {
		per := output.CandidatesToTableData(field, candidates[field], scorer)
		for _, row := range per.Rows {
			// per rows are parser, value, source, excerpt, score
			data.Rows = append(data.Rows, []string{field.Name, row[0], row[1], row[2], row[4]})
		}
	}
	return data
}
