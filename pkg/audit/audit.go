// Package audit provides field-level tracking of reconciliation decisions.
// A Trail accumulates one record per resolved field — the selected value,
// the deciding strategy, its rationale, and every candidate that was
// weighed — and renders a human-readable report or persists to YAML.
package audit

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/concordhq/concord/pkg/candidate"
	"github.com/concordhq/concord/pkg/errors"
	"github.com/concordhq/concord/pkg/resolve"
)

// trailFilePermissions is the mode used when saving a trail to disk.
const trailFilePermissions = 0o644

// Candidate is the recorded view of one weighed candidate.
type Candidate struct {
	Parser string  `yaml:"parser" json:"parser"`
	Value  any     `yaml:"value" json:"value"`
	Source string  `yaml:"source" json:"source"`
	Score  float64 `yaml:"score" json:"score"`
}

// Record captures why one field resolved the way it did.
type Record struct {
	Field               string      `yaml:"field" json:"field"`
	Kind                string      `yaml:"kind" json:"kind"`
	SelectedValue       any         `yaml:"selected_value" json:"selected_value"`
	Method              string      `yaml:"method" json:"method"`
	Rationale           string      `yaml:"rationale" json:"rationale"`
	ContributingParsers []string    `yaml:"contributing_parsers" json:"contributing_parsers"`
	Considered          []Candidate `yaml:"considered" json:"considered"`
	Timestamp           time.Time   `yaml:"timestamp" json:"timestamp"`
}

// Trail accumulates decision records. Safe for concurrent recording from
// resolutions running across independent fields and documents.
type Trail struct {
	mu      sync.Mutex
	records []Record
}

// NewTrail creates an empty audit trail.
func NewTrail() *Trail {
	return &Trail{}
}

// Record implements resolve.Recorder.
func (t *Trail) Record(field candidate.Field, decision *resolve.Decision, considered []resolve.Considered) {
	parsers := make([]string, len(decision.ContributingParsers))
	for i, p := range decision.ContributingParsers {
		parsers[i] = string(p)
	}

	cands := make([]Candidate, len(considered))
	for i, c := range considered {
		cands[i] = Candidate{
			Parser: string(c.Parser),
			Value:  c.Value,
			Source: string(c.Source),
			Score:  c.Score,
		}
	}

	rec := Record{
		Field:               field.Name,
		Kind:                string(field.Kind),
		SelectedValue:       decision.SelectedValue,
		Method:              string(decision.Method),
		Rationale:           decision.Rationale,
		ContributingParsers: parsers,
		Considered:          cands,
		Timestamp:           time.Now().UTC(),
	}

	t.mu.Lock()
	t.records = append(t.records, rec)
	t.mu.Unlock()
}

// Records returns a copy of the accumulated records.
func (t *Trail) Records() []Record {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Record{}, t.records...)
}

// FindByField returns the records for a specific field.
func (t *Trail) FindByField(field string) []Record {
	t.mu.Lock()
	defer t.mu.Unlock()

	var matches []Record
	for _, rec := range t.records {
		if rec.Field == field {
			matches = append(matches, rec)
		}
	}
	return matches
}

// Clear removes all records.
func (t *Trail) Clear() {
	t.mu.Lock()
	t.records = nil
	t.mu.Unlock()
}

// String generates a human-readable report of the trail, grouped by field.
func (t *Trail) String() string {
	records := t.Records()

	var sb strings.Builder
	sb.WriteString("Decision Audit Trail\n")
	sb.WriteString("====================\n\n")

	// Sort by field for consistent output; records within a field keep
	// recording order.
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Field < records[j].Field
	})

	for _, rec := range records {
		sb.WriteString(fmt.Sprintf("%s: %v\n", rec.Field, rec.SelectedValue))
		sb.WriteString(strings.Repeat("-", 40))
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("  Method: %s\n", rec.Method))
		sb.WriteString(fmt.Sprintf("  Rationale: %s\n", rec.Rationale))
		sb.WriteString(fmt.Sprintf("  Contributing: %s\n", strings.Join(rec.ContributingParsers, ", ")))

		if len(rec.Considered) > 0 {
			sb.WriteString("  Considered:\n")
			for _, c := range rec.Considered {
				sb.WriteString(fmt.Sprintf("    - %s: %v (source: %s, score: %.4g)\n",
					c.Parser, c.Value, c.Source, c.Score))
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// trailFile is the on-disk representation of a trail.
type trailFile struct {
	Decisions []Record `yaml:"decisions"`
}

// Save writes the trail to a YAML file.
func (t *Trail) Save(path string) error {
	data, err := yaml.Marshal(trailFile{Decisions: t.Records()})
	if err != nil {
		return errors.WrapParse("yaml", path, err)
	}
	if err := os.WriteFile(path, data, trailFilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

// Load reads a trail from a YAML file.
// Returns an empty trail if the file doesn't exist (not an error).
func Load(path string) (*Trail, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return NewTrail(), nil
	}

	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var tf trailFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}

	return &Trail{records: tf.Decisions}, nil
}
