// Package candidate defines the data contract between upstream extractors and
// the reconciliation engine. Every extractor, whatever its mechanism, reduces
// its output for one field of one document to a Candidate; the engine is
// agnostic to how the value was produced.
package candidate

import (
	"math"
	"strings"

	"github.com/concordhq/concord/pkg/errors"
)

// ParserID identifies the extractor that produced a candidate.
type ParserID string

// Well-known parser IDs. The engine accepts arbitrary IDs; these are the ones
// the default scoring configuration carries weights for.
const (
	ParserLLM    ParserID = "llm"
	ParserNER    ParserID = "ner"
	ParserOCR    ParserID = "ocr"
	ParserVision ParserID = "vision"
)

// SourceType describes where the evidence for a candidate value originated.
type SourceType string

const (
	// SourceBody means the value was found in the document body text.
	SourceBody SourceType = "body"
	// SourceAttachment means the value came from an attached document.
	SourceAttachment SourceType = "attachment"
	// SourceBoth means the value was corroborated in body and attachment.
	SourceBoth SourceType = "both"
)

// Kind describes how a field's values compare to each other.
type Kind string

const (
	// KindMoney is a signed decimal quantity, a currency amount in millions.
	KindMoney Kind = "money"
	// KindText is a free-text value compared by folded exact equality.
	KindText Kind = "text"
)

// Field identifies one semantic field under reconciliation.
type Field struct {
	Name string `json:"name" yaml:"name"`
	Kind Kind   `json:"kind" yaml:"kind"`
}

// Candidate is one extractor's claim about one field's value.
// Candidates are immutable once constructed; the engine never mutates them.
type Candidate struct {
	// ParserID identifies the producing extractor. Unique within a set.
	ParserID ParserID `json:"parser" yaml:"parser"`

	// Value is the claimed value: a numeric type for money fields, a
	// string for text fields.
	Value any `json:"value" yaml:"value"`

	// Confidence is the extractor's self-reported certainty in [0,1].
	// Nil when the extractor does not report one. The composite scorer
	// does not consume it; it is retained for audit display.
	Confidence *float64 `json:"confidence,omitempty" yaml:"confidence,omitempty"`

	// SourceType records where the evidence originated.
	SourceType SourceType `json:"source" yaml:"source"`

	// HasRawExcerpt reports whether a verbatim supporting snippet
	// accompanies the value. Stronger evidence than an inferred value.
	HasRawExcerpt bool `json:"has_raw_excerpt,omitempty" yaml:"has_raw_excerpt,omitempty"`

	// RawExcerpt is the original text fragment, kept for audit display
	// and never used in value comparison.
	RawExcerpt string `json:"raw_excerpt,omitempty" yaml:"raw_excerpt,omitempty"`
}

// Number extracts a float64 from a candidate value. YAML and JSON decoders
// hand back a mix of integer and float types, so all of them are accepted.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// Text extracts a string from a candidate value.
func Text(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// Usable reports whether a candidate carries a real observation for a field
// of the given kind. Money values must be finite and non-negative; text
// values must be non-empty after trimming. Anything else is the extractor's
// "not found" sentinel and is filtered before any strategy runs.
func (c Candidate) Usable(kind Kind) bool {
	if c.Value == nil {
		return false
	}
	switch kind {
	case KindMoney:
		n, ok := Number(c.Value)
		if !ok {
			return false
		}
		return !math.IsNaN(n) && !math.IsInf(n, 0) && n >= 0
	case KindText:
		s, ok := Text(c.Value)
		return ok && strings.TrimSpace(s) != ""
	default:
		return false
	}
}

// Validate checks structural invariants that Usable does not cover.
func (c Candidate) Validate() error {
	if c.ParserID == "" {
		return &errors.ValidationError{Field: "parser", Message: "cannot be empty"}
	}
	switch c.SourceType {
	case SourceBody, SourceAttachment, SourceBoth:
	default:
		return &errors.ValidationError{
			Field:   "source",
			Value:   string(c.SourceType),
			Message: "must be one of: body, attachment, both",
		}
	}
	if c.Confidence != nil && (*c.Confidence < 0 || *c.Confidence > 1) {
		return &errors.ValidationError{
			Field:   "confidence",
			Value:   *c.Confidence,
			Message: "must be in [0,1]",
		}
	}
	return nil
}

// FilterUsable returns the usable candidates in their original order.
func FilterUsable(kind Kind, cands []Candidate) []Candidate {
	usable := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		if c.Usable(kind) {
			usable = append(usable, c)
		}
	}
	return usable
}
