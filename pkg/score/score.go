// Package score computes composite confidence scores for candidates from
// static configuration: extractor trust, evidence source, and grounding
// quality. Scoring is a pure function of candidate and configuration, so
// identical inputs always produce identical scores regardless of call order.
package score

import (
	"github.com/concordhq/concord/pkg/candidate"
	"github.com/concordhq/concord/pkg/errors"
)

// Config holds the static scoring weights. It is an explicit immutable value
// passed into every resolver rather than process-wide state, so concurrent
// resolutions with different configurations never interfere.
type Config struct {
	// ParserWeights maps parser IDs to trust weights.
	ParserWeights map[string]float64 `json:"parser_weights" yaml:"parser_weights" mapstructure:"parser_weights"`

	// DefaultParserWeight is used for parser IDs absent from ParserWeights.
	// An unknown parser is a configuration gap, never an error.
	DefaultParserWeight float64 `json:"default_parser_weight" yaml:"default_parser_weight" mapstructure:"default_parser_weight"`

	// SourceMultipliers maps source types to evidence multipliers.
	SourceMultipliers map[string]float64 `json:"source_multipliers" yaml:"source_multipliers" mapstructure:"source_multipliers"`

	// ExcerptBonus multiplies the score when a candidate carries a verbatim
	// supporting excerpt. Identity (1.0) disables it.
	ExcerptBonus float64 `json:"excerpt_bonus" yaml:"excerpt_bonus" mapstructure:"excerpt_bonus"`
}

// DefaultConfig returns the documented baseline configuration.
func DefaultConfig() Config {
	return Config{
		ParserWeights: map[string]float64{
			string(candidate.ParserLLM):    1.0,
			string(candidate.ParserVision): 0.9,
			string(candidate.ParserNER):    0.7,
			string(candidate.ParserOCR):    0.5,
		},
		DefaultParserWeight: 0.5,
		SourceMultipliers: map[string]float64{
			string(candidate.SourceAttachment): 1.2,
			string(candidate.SourceBoth):       1.1,
			string(candidate.SourceBody):       1.0,
		},
		ExcerptBonus: 1.1,
	}
}

// Validate checks that the configuration can produce meaningful scores.
func (c Config) Validate() error {
	if c.DefaultParserWeight <= 0 {
		return errors.NewValidationError("default_parser_weight", c.DefaultParserWeight, "must be positive")
	}
	if c.ExcerptBonus <= 0 {
		return errors.NewValidationError("excerpt_bonus", c.ExcerptBonus, "must be positive")
	}
	for id, w := range c.ParserWeights {
		if w <= 0 {
			return errors.NewValidationError("parser_weights."+id, w, "must be positive")
		}
	}
	for st, m := range c.SourceMultipliers {
		if m <= 0 {
			return errors.NewValidationError("source_multipliers."+st, m, "must be positive")
		}
	}
	return nil
}

// Scorer computes composite scores under one immutable configuration.
type Scorer struct {
	cfg Config
}

// New creates a Scorer. A nil-equivalent (zero) config gets the defaults.
func New(cfg Config) (*Scorer, error) {
	if cfg.ParserWeights == nil && cfg.SourceMultipliers == nil &&
		cfg.DefaultParserWeight == 0 && cfg.ExcerptBonus == 0 {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{cfg: cfg}, nil
}

// Config returns the scorer's configuration.
func (s *Scorer) Config() Config {
	return s.cfg
}

// Score computes parser_weight × source_multiplier × excerpt_bonus for one
// candidate. Unknown parser IDs fall back to the default weight; unknown
// source types to the identity multiplier.
func (s *Scorer) Score(c candidate.Candidate) float64 {
	weight, ok := s.cfg.ParserWeights[string(c.ParserID)]
	if !ok {
		weight = s.cfg.DefaultParserWeight
	}

	multiplier, ok := s.cfg.SourceMultipliers[string(c.SourceType)]
	if !ok {
		multiplier = 1.0
	}

	score := weight * multiplier
	if c.HasRawExcerpt {
		score *= s.cfg.ExcerptBonus
	}
	return score
}

// Knows reports whether a parser ID has an explicit configured weight.
// The resolver uses it to surface configuration gaps as warnings.
func (s *Scorer) Knows(id candidate.ParserID) bool {
	_, ok := s.cfg.ParserWeights[string(id)]
	return ok
}
