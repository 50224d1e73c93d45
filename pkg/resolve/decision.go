package resolve

import (
	"fmt"
	"strings"

	"github.com/concordhq/concord/pkg/candidate"
)

// Method identifies the strategy that produced a decision.
type Method string

const (
	// MethodFuzzyConsensus selects the representative of the strictly
	// largest tolerance cluster of size >= 2.
	MethodFuzzyConsensus Method = "fuzzy_consensus"
	// MethodMajorityVote selects a value holding a strict exact-equality
	// majority.
	MethodMajorityVote Method = "majority_vote"
	// MethodHighestScore selects the candidate with the strictly highest
	// composite score.
	MethodHighestScore Method = "highest_score"
	// MethodSourcePriority breaks ties by evidence source,
	// attachment > both > body.
	MethodSourcePriority Method = "source_priority"
	// MethodHistoricalMatch selects the candidate closest to a
	// caller-supplied reference value.
	MethodHistoricalMatch Method = "historical_match"
	// MethodFirstAvailable selects the first usable candidate. Terminal.
	MethodFirstAvailable Method = "first_available"
)

// Decision is the engine's output for one field: the selected value plus an
// audit trail of why it was chosen. The value is always drawn verbatim from
// one of the input candidates, never synthesized. Decisions are immutable
// and carry no persistence responsibility; callers decide whether to store
// them.
type Decision struct {
	// Field names the semantic field this decision resolves.
	Field string `json:"field" yaml:"field"`

	// SelectedValue is the chosen value.
	SelectedValue any `json:"selected_value" yaml:"selected_value"`

	// Method names the strategy that produced the decision.
	Method Method `json:"method" yaml:"method"`

	// Rationale is a short human-readable explanation.
	Rationale string `json:"rationale" yaml:"rationale"`

	// ContributingParsers lists the parsers whose candidates support the
	// selected value, in the order they were encountered.
	ContributingParsers []candidate.ParserID `json:"contributing_parsers" yaml:"contributing_parsers"`
}

// String renders a one-line summary for logs and CLI output.
func (d *Decision) String() string {
	parsers := make([]string, len(d.ContributingParsers))
	for i, p := range d.ContributingParsers {
		parsers[i] = string(p)
	}
	return fmt.Sprintf("%s = %v via %s [%s]", d.Field, d.SelectedValue, d.Method, strings.Join(parsers, ", "))
}

// Considered is the audit view of one candidate the engine weighed: its
// claim plus the composite score it was assigned.
type Considered struct {
	Parser candidate.ParserID   `json:"parser" yaml:"parser"`
	Value  any                  `json:"value" yaml:"value"`
	Source candidate.SourceType `json:"source" yaml:"source"`
	Score  float64              `json:"score" yaml:"score"`
}

// Recorder receives every decision the engine makes, together with the
// candidates it considered. Implementations must be safe for concurrent use;
// the engine itself holds no state between calls.
type Recorder interface {
	Record(field candidate.Field, decision *Decision, considered []Considered)
}
