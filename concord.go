// Package concord reconciles conflicting field values extracted from
// documents by independent parsers into one defensible value per field.
//
// The root package is a convenience facade over the engine packages: it
// wires extraction, historical lookup, resolution, and audit recording
// together for the common document-processing flow. Callers needing finer
// control use pkg/resolve and friends directly.
package concord

import (
	"context"
	"fmt"
	"sort"

	"github.com/concordhq/concord/pkg/audit"
	"github.com/concordhq/concord/pkg/candidate"
	"github.com/concordhq/concord/pkg/errors"
	"github.com/concordhq/concord/pkg/extract"
	"github.com/concordhq/concord/pkg/logging"
	"github.com/concordhq/concord/pkg/resolve"
)

// Concord resolves candidate sets into decisions and accumulates an audit
// trail across calls.
type Concord interface {
	// Resolve selects one value for a single field's candidate set.
	Resolve(ctx context.Context, field candidate.Field, cands []candidate.Candidate, opts ...resolve.ResolveOption) (*resolve.Decision, error)

	// ResolveFile resolves every candidate set in a loaded file, in file
	// order. Fields with no usable candidates are skipped with a warning;
	// the historical reference is looked up per field when a history store
	// and a company name are available.
	ResolveFile(ctx context.Context, file *candidate.File) ([]*resolve.Decision, error)

	// Process runs the configured extractors over a document and resolves
	// each extracted field.
	Process(ctx context.Context, doc extract.Document) ([]*resolve.Decision, error)

	// Trail returns the audit trail accumulated so far.
	Trail() *audit.Trail
}

// concord is the internal implementation of the Concord interface.
type concord struct {
	config   *config
	resolver *resolve.Resolver
	trail    *audit.Trail
}

// New creates a Concord instance with the given options.
func New(opts ...Option) (Concord, error) {
	c := &concord{
		config: defaultConfig(),
		trail:  audit.NewTrail(),
	}

	if err := c.options(opts...); err != nil {
		return nil, fmt.Errorf("applying options: %w", err)
	}

	resolver, err := resolve.New(c.resolverOptions()...)
	if err != nil {
		return nil, fmt.Errorf("building resolver: %w", err)
	}
	c.resolver = resolver

	return c, nil
}

func (c *concord) options(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c.config); err != nil {
			return err
		}
	}
	return nil
}

func (c *concord) resolverOptions() []resolve.Option {
	opts := []resolve.Option{resolve.WithRecorder(c.trail)}
	if c.config.tolerance != nil {
		opts = append(opts, resolve.WithTolerance(*c.config.tolerance))
	}
	if c.config.scoring != nil {
		opts = append(opts, resolve.WithScoreConfig(*c.config.scoring))
	}
	if len(c.config.strategies) > 0 {
		opts = append(opts, resolve.WithStrategies(c.config.strategies...))
	}
	return opts
}

// Resolve selects one value for a single field's candidate set.
func (c *concord) Resolve(ctx context.Context, field candidate.Field, cands []candidate.Candidate, opts ...resolve.ResolveOption) (*resolve.Decision, error) {
	return c.resolver.Resolve(ctx, field, cands, opts...)
}

// ResolveFile resolves every candidate set in a loaded file.
func (c *concord) ResolveFile(ctx context.Context, file *candidate.File) ([]*resolve.Decision, error) {
	logger := logging.FromContext(ctx)

	decisions := make([]*resolve.Decision, 0, len(file.Sets))
	for _, set := range file.Sets {
		var opts []resolve.ResolveOption
		if ref, ok := c.reference(file.Company, set.Field.Name); ok {
			opts = append(opts, resolve.WithReference(ref))
		}

		decision, err := c.resolver.Resolve(ctx, set.Field, set.Candidates, opts...)
		if err != nil {
			if errors.IsNoCandidates(err) {
				logger.Warn().
					Str("field", set.Field.Name).
					Msg("Field skipped, no usable candidates")
				continue
			}
			return nil, err
		}
		decisions = append(decisions, decision)
	}

	return decisions, nil
}

// Process runs the configured extractors over a document and resolves each
// extracted field. Fields resolve in name order so output is stable.
func (c *concord) Process(ctx context.Context, doc extract.Document) ([]*resolve.Decision, error) {
	collected := extract.Collect(ctx, doc, c.config.extractors...)

	fields := make([]candidate.Field, 0, len(collected))
	for field := range collected {
		fields = append(fields, field)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })

	sets := make([]candidate.Set, len(fields))
	for i, field := range fields {
		sets[i] = candidate.Set{Field: field, Candidates: collected[field]}
	}

	file := &candidate.File{Sets: sets}
	// An extracted company name keys the historical lookup.
	if cands := collected[extract.FieldCompany]; len(cands) > 0 {
		if name, ok := candidate.Text(cands[0].Value); ok {
			file.Company = name
		}
	}
	return c.ResolveFile(ctx, file)
}

// Trail returns the audit trail accumulated so far.
func (c *concord) Trail() *audit.Trail {
	return c.trail
}

// reference looks up a confirmed historical value for a company's field.
func (c *concord) reference(company, field string) (float64, bool) {
	if c.config.history == nil {
		return 0, false
	}
	return c.config.history.Reference(company, field)
}
