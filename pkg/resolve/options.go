package resolve

import (
	"github.com/concordhq/concord/pkg/cluster"
	"github.com/concordhq/concord/pkg/errors"
	"github.com/concordhq/concord/pkg/score"
)

// options configures a resolver.
type options struct {
	tolerance  float64
	scorer     *score.Scorer
	strategies []Strategy
	recorder   Recorder
}

func defaultOptions() (*options, error) {
	scorer, err := score.New(score.DefaultConfig())
	if err != nil {
		return nil, err
	}
	return &options{
		tolerance:  cluster.DefaultTolerance,
		scorer:     scorer,
		strategies: DefaultChain(),
	}, nil
}

// Option is a function that configures a Resolver.
type Option func(*options) error

func (options *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}
	return options, nil
}

// newOptions returns resolver options with default values.
func newOptions(opts ...Option) (*options, error) {
	options, err := defaultOptions()
	if err != nil {
		return nil, err
	}
	return options.apply(opts...)
}

// WithTolerance sets the clustering tolerance.
func WithTolerance(tolerance float64) Option {
	return func(o *options) error {
		if tolerance < 0 {
			return &errors.ValidationError{
				Field:   "tolerance",
				Value:   tolerance,
				Message: "cannot be negative",
			}
		}
		o.tolerance = tolerance
		return nil
	}
}

// WithScoreConfig sets the static scoring configuration.
func WithScoreConfig(cfg score.Config) Option {
	return func(o *options) error {
		scorer, err := score.New(cfg)
		if err != nil {
			return err
		}
		o.scorer = scorer
		return nil
	}
}

// WithStrategies replaces the strategy chain. The chain is evaluated in
// order; callers appending custom strategies should keep FirstAvailable
// last if they want the always-terminates guarantee.
func WithStrategies(strategies ...Strategy) Option {
	return func(o *options) error {
		if len(strategies) == 0 {
			return &errors.ValidationError{
				Field:   "strategies",
				Message: "cannot be empty",
			}
		}
		o.strategies = strategies
		return nil
	}
}

// WithRecorder attaches an audit recorder that receives every decision.
func WithRecorder(recorder Recorder) Option {
	return func(o *options) error {
		if recorder == nil {
			return &errors.ValidationError{
				Field:   "recorder",
				Message: "cannot be nil",
			}
		}
		o.recorder = recorder
		return nil
	}
}
