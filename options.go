package concord

import (
	"github.com/concordhq/concord/pkg/errors"
	"github.com/concordhq/concord/pkg/extract"
	"github.com/concordhq/concord/pkg/history"
	"github.com/concordhq/concord/pkg/resolve"
	"github.com/concordhq/concord/pkg/score"
)

// config holds facade construction settings.
type config struct {
	tolerance  *float64
	scoring    *score.Config
	strategies []resolve.Strategy
	history    *history.Store
	extractors []extract.Extractor
}

func defaultConfig() *config {
	return &config{
		extractors: []extract.Extractor{extract.NewPattern()},
	}
}

// Option configures a Concord instance.
type Option func(*config) error

// WithTolerance sets the numeric clustering tolerance.
func WithTolerance(tolerance float64) Option {
	return func(c *config) error {
		c.tolerance = &tolerance
		return nil
	}
}

// WithScoring sets the scoring configuration.
func WithScoring(cfg score.Config) Option {
	return func(c *config) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		c.scoring = &cfg
		return nil
	}
}

// WithStrategies replaces the resolution strategy chain.
func WithStrategies(strategies ...resolve.Strategy) Option {
	return func(c *config) error {
		if len(strategies) == 0 {
			return &errors.ValidationError{Field: "strategies", Message: "cannot be empty"}
		}
		c.strategies = strategies
		return nil
	}
}

// WithHistory attaches a store of confirmed historical values, enabling
// per-field reference lookup during ResolveFile and Process.
func WithHistory(store *history.Store) Option {
	return func(c *config) error {
		c.history = store
		return nil
	}
}

// WithExtractors replaces the extractors Process runs. The default is the
// pattern extractor alone.
func WithExtractors(extractors ...extract.Extractor) Option {
	return func(c *config) error {
		if len(extractors) == 0 {
			return &errors.ValidationError{Field: "extractors", Message: "cannot be empty"}
		}
		c.extractors = extractors
		return nil
	}
}
