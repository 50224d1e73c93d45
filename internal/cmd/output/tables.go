package output

import (
	"fmt"
	"sort"
	"strings"

	"github.com/concordhq/concord/pkg/candidate"
	"github.com/concordhq/concord/pkg/resolve"
	"github.com/concordhq/concord/pkg/score"
)

// DecisionsToTableData converts resolution decisions to table format.
func DecisionsToTableData(decisions []*resolve.Decision) Data {
	data := Data{
		Headers:         []string{"Field", "Value", "Method", "Parsers", "Rationale"},
		Rows:            make([][]string, 0, len(decisions)),
		ColumnAlignment: []Align{AlignLeft, AlignRight, AlignLeft, AlignLeft, AlignLeft},
	}

	for _, d := range decisions {
		if d == nil {
			continue
		}
		parsers := make([]string, 0, len(d.ContributingParsers))
		for _, p := range d.ContributingParsers {
			parsers = append(parsers, string(p))
		}
		data.Rows = append(data.Rows, []string{
			d.Field,
			formatValue(d.SelectedValue),
			string(d.Method),
			strings.Join(parsers, ", "),
			d.Rationale,
		})
	}

	return data
}

// CandidatesToTableData converts a field's candidates to table format,
// with per-candidate scores from the given scorer.
func CandidatesToTableData(field candidate.Field, cands []candidate.Candidate, scorer *score.Scorer) Data {
	data := Data{
		Headers:         []string{"Parser", "Value", "Source", "Excerpt", "Score"},
		Rows:            make([][]string, 0, len(cands)),
		ColumnAlignment: []Align{AlignLeft, AlignRight, AlignLeft, AlignLeft, AlignRight},
	}

	for _, c := range cands {
		excerpt := ""
		if c.HasRawExcerpt {
			excerpt = "yes"
		}
		scoreCell := ""
		if scorer != nil {
			scoreCell = fmt.Sprintf("%.3f", scorer.Score(c))
		}
		data.Rows = append(data.Rows, []string{
			string(c.ParserID),
			formatValue(c.Value),
			string(c.SourceType),
			excerpt,
			scoreCell,
		})
	}

	return data
}

// WeightsToTableData converts a scoring configuration to table format.
func WeightsToTableData(cfg score.Config) Data {
	data := Data{
		Headers:         []string{"Kind", "Key", "Weight"},
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignRight},
	}

	parsers := make([]string, 0, len(cfg.ParserWeights))
	for id := range cfg.ParserWeights {
		parsers = append(parsers, id)
	}
	sort.Strings(parsers)
	for _, id := range parsers {
		data.Rows = append(data.Rows, []string{"parser", id, fmt.Sprintf("%.2f", cfg.ParserWeights[id])})
	}

	sources := make([]string, 0, len(cfg.SourceMultipliers))
	for src := range cfg.SourceMultipliers {
		sources = append(sources, src)
	}
	sort.Strings(sources)
	for _, src := range sources {
		data.Rows = append(data.Rows, []string{"source", src, fmt.Sprintf("%.2f", cfg.SourceMultipliers[src])})
	}

	data.Rows = append(data.Rows,
		[]string{"parser", "(default)", fmt.Sprintf("%.2f", cfg.DefaultParserWeight)},
		[]string{"bonus", "excerpt", fmt.Sprintf("%.2f", cfg.ExcerptBonus)},
	)

	return data
}

func formatValue(v any) string {
	if n, ok := candidate.Number(v); ok {
		return fmt.Sprintf("%.2f", n)
	}
	return fmt.Sprint(v)
}
