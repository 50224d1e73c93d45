// Package resolve reconciles multiple independent, possibly-conflicting
// extractions of the same semantic field into one defensible final value
// with an audit trail of why it was chosen. Strategies run in a fixed order
// and the first one that succeeds wins; all tie-breaking is deterministic,
// so identical inputs always produce identical decisions.
package resolve

import (
	"context"

	"github.com/concordhq/concord/pkg/candidate"
	"github.com/concordhq/concord/pkg/errors"
	"github.com/concordhq/concord/pkg/logging"
	"github.com/concordhq/concord/pkg/score"
)

// Resolver runs candidate sets through the strategy chain. It is immutable
// after construction and holds no shared mutable state across invocations:
// each Resolve call is a pure function of its inputs and the configuration,
// so one Resolver may serve many goroutines without locking.
type Resolver struct {
	tolerance  float64
	scorer     *score.Scorer
	strategies []Strategy
	recorder   Recorder
}

// New creates a Resolver with options.
func New(opts ...Option) (*Resolver, error) {
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}

	return &Resolver{
		tolerance:  options.tolerance,
		scorer:     options.scorer,
		strategies: options.strategies,
		recorder:   options.recorder,
	}, nil
}

// Tolerance returns the clustering tolerance the resolver was built with.
func (r *Resolver) Tolerance() float64 {
	return r.tolerance
}

// Scorer returns the resolver's composite scorer.
func (r *Resolver) Scorer() *score.Scorer {
	return r.scorer
}

// Resolve selects one value for a field from the candidates produced by all
// available extractors. It returns a NoCandidatesError when zero usable
// candidates remain after filtering; every other input, however
// contradictory, yields a Decision.
func (r *Resolver) Resolve(ctx context.Context, field candidate.Field, cands []candidate.Candidate, opts ...ResolveOption) (*Decision, error) {
	logger := logging.FromContext(ctx)

	var ro resolveOptions
	for _, opt := range opts {
		opt(&ro)
	}

	usable := candidate.FilterUsable(field.Kind, cands)
	if len(usable) == 0 {
		logger.Debug().
			Str("field", field.Name).
			Int("input_count", len(cands)).
			Msg("No usable candidates after filtering")
		return nil, errors.NewNoCandidatesError(field.Name)
	}

	// A parser without a configured weight is a configuration gap: it
	// resolves to the default weight and is never surfaced as an error.
	for _, c := range usable {
		if !r.scorer.Knows(c.ParserID) {
			logger.Warn().
				Str("field", field.Name).
				Str("parser", string(c.ParserID)).
				Msg("Unknown parser ID, using default weight")
		}
	}

	req := &Request{
		Field:      field,
		Candidates: usable,
		Tolerance:  r.tolerance,
		Scorer:     r.scorer,
		Reference:  ro.reference,
	}

	for _, strategy := range r.strategies {
		decision, ok := strategy.Attempt(req)
		if !ok {
			logger.Debug().
				Str("field", field.Name).
				Str("strategy", string(strategy.Method())).
				Msg("Strategy declined")
			continue
		}

		logger.Info().
			Str("field", field.Name).
			Str("method", string(decision.Method)).
			Interface("value", decision.SelectedValue).
			Str("rationale", decision.Rationale).
			Msg("Field resolved")

		if r.recorder != nil {
			r.recorder.Record(field, decision, r.considered(usable))
		}
		return decision, nil
	}

	// Unreachable with the default chain: first_available never declines.
	return nil, errors.NewNoCandidatesError(field.Name)
}

// considered builds the audit view of the weighed candidates.
func (r *Resolver) considered(usable []candidate.Candidate) []Considered {
	considered := make([]Considered, len(usable))
	for i, c := range usable {
		considered[i] = Considered{
			Parser: c.ParserID,
			Value:  c.Value,
			Source: c.SourceType,
			Score:  r.scorer.Score(c),
		}
	}
	return considered
}

// resolveOptions holds per-call options.
type resolveOptions struct {
	reference *float64
}

// ResolveOption configures a single Resolve call.
type ResolveOption func(*resolveOptions)

// WithReference supplies an externally confirmed value for this field,
// enabling the historical_match strategy.
func WithReference(value float64) ResolveOption {
	return func(o *resolveOptions) {
		o.reference = &value
	}
}
