package resolve

import (
	"fmt"
	"math"

	"github.com/concordhq/concord/pkg/candidate"
	"github.com/concordhq/concord/pkg/cluster"
	"github.com/concordhq/concord/pkg/score"
)

// Request carries the shared state one resolution call threads through the
// strategy chain. Strategies may read everything; the only write any of them
// performs is highest_score publishing its tied set for source_priority.
type Request struct {
	// Field under resolution.
	Field candidate.Field

	// Candidates are the usable candidates in original input order.
	Candidates []candidate.Candidate

	// Tolerance is the clustering closeness threshold.
	Tolerance float64

	// Scorer computes composite scores.
	Scorer *score.Scorer

	// Reference is an optional externally confirmed value for this field,
	// enabling historical_match.
	Reference *float64

	// TiedTop holds the candidates tied at the maximum composite score
	// when highest_score declined. Consumed by source_priority.
	TiedTop []candidate.Candidate
}

// Strategy is one resolution policy: total over "either decide or decline".
// Disagreement and ties are normal control flow, never errors; a strategy
// that cannot decide returns false and the chain moves on.
type Strategy interface {
	// Method returns the strategy's identifying name.
	Method() Method

	// Description returns a human-readable description.
	Description() string

	// Attempt tries to resolve the request. It returns the decision and
	// true on success, or nil and false to decline.
	Attempt(req *Request) (*Decision, bool)
}

// DefaultChain returns the standard ordered strategy sequence. The ordering
// is policy: emergent agreement between independent extractors beats
// single-source confidence, and confidence-weighted judgment beats arbitrary
// priority only once extractors truly disagree. The chain stops at the
// first non-declining strategy; first_available guarantees termination.
func DefaultChain() []Strategy {
	return []Strategy{
		FuzzyConsensus{},
		MajorityVote{},
		HighestScore{},
		SourcePriority{},
		HistoricalMatch{},
		FirstAvailable{},
	}
}

// FuzzyConsensus groups near-equal values into tolerance clusters and
// decides the strictly largest cluster's representative value.
type FuzzyConsensus struct{}

// Method returns the strategy's identifying name.
func (FuzzyConsensus) Method() Method { return MethodFuzzyConsensus }

// Description returns a human-readable description.
func (FuzzyConsensus) Description() string {
	return "Selects the representative of the strictly largest tolerance cluster of size >= 2"
}

// Attempt declines when the largest cluster has size 1 or two clusters tie
// for largest. A tie for largest must fall through rather than be broken
// arbitrarily; that is the auditable behavior for a financial decision.
func (FuzzyConsensus) Attempt(req *Request) (*Decision, bool) {
	clusters := cluster.New(req.Tolerance).Partition(req.Field.Kind, req.Candidates)

	largest := clusters[0]
	largestCount := 1
	for _, cl := range clusters[1:] {
		switch {
		case cl.Size() > largest.Size():
			largest = cl
			largestCount = 1
		case cl.Size() == largest.Size():
			largestCount++
		}
	}

	if largest.Size() < 2 || largestCount > 1 {
		return nil, false
	}

	rep := largest.Representative(req.Scorer.Score)
	parsers := make([]candidate.ParserID, len(largest.Members))
	for i, m := range largest.Members {
		parsers[i] = m.ParserID
	}

	return &Decision{
		Field:         req.Field.Name,
		SelectedValue: rep.Value,
		Method:        MethodFuzzyConsensus,
		Rationale: fmt.Sprintf("cluster of %d of %d candidates agrees within tolerance %g (values: %s)",
			largest.Size(), len(req.Candidates), req.Tolerance, largest.Values()),
		ContributingParsers: parsers,
	}, true
}

// MajorityVote groups candidates by exact value equality, no tolerance, and
// decides a value holding a strict majority of the usable candidates. It is
// the stricter complement to fuzzy consensus for fields where exact equality
// is meaningful, such as enumerations.
type MajorityVote struct{}

// Method returns the strategy's identifying name.
func (MajorityVote) Method() Method { return MethodMajorityVote }

// Description returns a human-readable description.
func (MajorityVote) Description() string {
	return "Selects a value claimed by a strict majority of candidates under exact equality"
}

// Attempt declines unless one exact-equality group exceeds half the count.
func (MajorityVote) Attempt(req *Request) (*Decision, bool) {
	groups := make(map[any][]candidate.Candidate)
	var order []any

	for _, c := range req.Candidates {
		key := exactKey(req.Field.Kind, c.Value)
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], c)
	}

	for _, key := range order {
		group := groups[key]
		if len(group)*2 <= len(req.Candidates) {
			continue
		}

		parsers := make([]candidate.ParserID, len(group))
		for i, m := range group {
			parsers[i] = m.ParserID
		}
		return &Decision{
			Field:         req.Field.Name,
			SelectedValue: group[0].Value,
			Method:        MethodMajorityVote,
			Rationale: fmt.Sprintf("%d of %d candidates claim exactly %v",
				len(group), len(req.Candidates), group[0].Value),
			ContributingParsers: parsers,
		}, true
	}

	return nil, false
}

// exactKey normalizes a value for exact-equality grouping.
func exactKey(kind candidate.Kind, v any) any {
	if kind == candidate.KindText {
		if s, ok := candidate.Text(v); ok {
			return cluster.Fold(s)
		}
		return v
	}
	if n, ok := candidate.Number(v); ok {
		return n
	}
	return v
}

// HighestScore decides the single candidate with the strictly highest
// composite score. An exact tie at the maximum declines and hands the tied
// set to SourcePriority, so the chain stays deterministic and explainable.
type HighestScore struct{}

// Method returns the strategy's identifying name.
func (HighestScore) Method() Method { return MethodHighestScore }

// Description returns a human-readable description.
func (HighestScore) Description() string {
	return "Selects the candidate with the strictly highest composite score"
}

// Attempt computes scores for every remaining candidate.
func (HighestScore) Attempt(req *Request) (*Decision, bool) {
	best := math.Inf(-1)
	for _, c := range req.Candidates {
		if s := req.Scorer.Score(c); s > best {
			best = s
		}
	}

	var tied []candidate.Candidate
	for _, c := range req.Candidates {
		if req.Scorer.Score(c) == best {
			tied = append(tied, c)
		}
	}

	if len(tied) > 1 {
		req.TiedTop = tied
		return nil, false
	}

	winner := tied[0]
	return &Decision{
		Field:         req.Field.Name,
		SelectedValue: winner.Value,
		Method:        MethodHighestScore,
		Rationale: fmt.Sprintf("parser %s scored %.4g, highest of %d candidates",
			winner.ParserID, best, len(req.Candidates)),
		ContributingParsers: []candidate.ParserID{winner.ParserID},
	}, true
}

// sourceTiers is the evidence preference order for SourcePriority.
var sourceTiers = []candidate.SourceType{
	candidate.SourceAttachment,
	candidate.SourceBoth,
	candidate.SourceBody,
}

// SourcePriority prefers attachment evidence over corroborated over body,
// among the score-tied candidates when HighestScore declined, otherwise
// among all usable candidates. Within the winning tier the first candidate
// in stable input order is decided.
type SourcePriority struct{}

// Method returns the strategy's identifying name.
func (SourcePriority) Method() Method { return MethodSourcePriority }

// Description returns a human-readable description.
func (SourcePriority) Description() string {
	return "Breaks ties by evidence source: attachment > both > body"
}

// Attempt declines only on an empty pool, which cannot happen with
// non-empty usable input; it is effectively terminal among tie-break paths.
func (SourcePriority) Attempt(req *Request) (*Decision, bool) {
	pool := req.TiedTop
	pooled := "all"
	if len(pool) > 0 {
		pooled = "score-tied"
	} else {
		pool = req.Candidates
	}
	if len(pool) == 0 {
		return nil, false
	}

	for _, tier := range sourceTiers {
		for _, c := range pool {
			if c.SourceType != tier {
				continue
			}
			return &Decision{
				Field:         req.Field.Name,
				SelectedValue: c.Value,
				Method:        MethodSourcePriority,
				Rationale: fmt.Sprintf("parser %s has the highest-priority evidence source (%s) among %d %s candidates",
					c.ParserID, c.SourceType, len(pool), pooled),
				ContributingParsers: []candidate.ParserID{c.ParserID},
			}, true
		}
	}

	return nil, false
}

// HistoricalMatch decides the candidate numerically closest to an external
// reference value, such as a previously confirmed figure. It declines when
// the caller supplied no reference, or for non-numeric fields.
type HistoricalMatch struct{}

// Method returns the strategy's identifying name.
func (HistoricalMatch) Method() Method { return MethodHistoricalMatch }

// Description returns a human-readable description.
func (HistoricalMatch) Description() string {
	return "Selects the candidate closest to a caller-supplied reference value"
}

// Attempt picks the minimum absolute distance; ties go to input order.
func (HistoricalMatch) Attempt(req *Request) (*Decision, bool) {
	if req.Reference == nil || req.Field.Kind != candidate.KindMoney {
		return nil, false
	}

	ref := *req.Reference
	var winner *candidate.Candidate
	best := math.Inf(1)
	for i := range req.Candidates {
		n, ok := candidate.Number(req.Candidates[i].Value)
		if !ok {
			continue
		}
		if d := math.Abs(n - ref); d < best {
			best = d
			winner = &req.Candidates[i]
		}
	}
	if winner == nil {
		return nil, false
	}

	return &Decision{
		Field:         req.Field.Name,
		SelectedValue: winner.Value,
		Method:        MethodHistoricalMatch,
		Rationale: fmt.Sprintf("parser %s is closest to reference value %g (distance %.4g)",
			winner.ParserID, ref, best),
		ContributingParsers: []candidate.ParserID{winner.ParserID},
	}, true
}

// FirstAvailable decides the first usable candidate in original input order.
// It never declines, so the chain always terminates with a Decision whenever
// at least one usable candidate exists.
type FirstAvailable struct{}

// Method returns the strategy's identifying name.
func (FirstAvailable) Method() Method { return MethodFirstAvailable }

// Description returns a human-readable description.
func (FirstAvailable) Description() string {
	return "Selects the first usable candidate; never declines"
}

// Attempt always decides.
func (FirstAvailable) Attempt(req *Request) (*Decision, bool) {
	first := req.Candidates[0]
	return &Decision{
		Field:         req.Field.Name,
		SelectedValue: first.Value,
		Method:        MethodFirstAvailable,
		Rationale: fmt.Sprintf("no earlier strategy decided; parser %s was first of %d candidates",
			first.ParserID, len(req.Candidates)),
		ContributingParsers: []candidate.ParserID{first.ParserID},
	}, true
}
