// Package cluster groups candidates whose values are close enough to count
// as the same observation. Grouping is a greedy single-link agglomeration:
// deliberately cheap and deterministic under fixed input order rather than
// globally optimal. Chains transit — if A is within tolerance of B and B of
// C, all three land in one cluster even when A and C are not within
// tolerance of each other.
package cluster

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"

	"github.com/concordhq/concord/pkg/candidate"
)

// DefaultTolerance is the baseline closeness threshold for money fields,
// in the value's own unit (millions).
const DefaultTolerance = 0.5

var folder = cases.Fold()

// Fold normalizes a text value for comparison: trimmed and case-folded.
func Fold(s string) string {
	return folder.String(strings.TrimSpace(s))
}

// Cluster is a maximal group of candidates within tolerance of each other.
// Members keep the order they were encountered during clustering.
type Cluster struct {
	Members []candidate.Candidate
}

// Size returns the number of members.
func (c Cluster) Size() int {
	return len(c.Members)
}

// Representative returns the member whose value speaks for the cluster: the
// one with the highest composite score, ties broken by first-encountered.
func (c Cluster) Representative(score func(candidate.Candidate) float64) candidate.Candidate {
	best := c.Members[0]
	bestScore := score(best)
	for _, m := range c.Members[1:] {
		if s := score(m); s > bestScore {
			best = m
			bestScore = s
		}
	}
	return best
}

// Values renders member values for rationale text.
func (c Cluster) Values() string {
	parts := make([]string, len(c.Members))
	for i, m := range c.Members {
		parts[i] = fmt.Sprintf("%v", m.Value)
	}
	return strings.Join(parts, ", ")
}

// Partitioner partitions candidate lists into clusters.
type Partitioner struct {
	// Tolerance is the absolute closeness threshold for money values.
	Tolerance float64
}

// New creates a Partitioner with the given tolerance.
func New(tolerance float64) *Partitioner {
	return &Partitioner{Tolerance: tolerance}
}

// Partition groups usable candidates into clusters. Candidates are processed
// in input order; the first candidate opens the first cluster, and each
// subsequent candidate joins the first existing cluster with at least one
// member within tolerance, else opens a new cluster. The result partitions
// the input exactly: every candidate lands in exactly one cluster.
//
// For text fields tolerance degrades to exact equality after trimming and
// case folding.
func (p *Partitioner) Partition(kind candidate.Kind, cands []candidate.Candidate) []Cluster {
	var clusters []Cluster

	for _, c := range cands {
		placed := false
		for i := range clusters {
			if p.belongs(kind, clusters[i], c) {
				clusters[i].Members = append(clusters[i].Members, c)
				placed = true
				break
			}
		}
		if !placed {
			clusters = append(clusters, Cluster{Members: []candidate.Candidate{c}})
		}
	}

	return clusters
}

// belongs reports whether a candidate is within tolerance of at least one
// already-placed member of the cluster.
func (p *Partitioner) belongs(kind candidate.Kind, cl Cluster, c candidate.Candidate) bool {
	for _, m := range cl.Members {
		if p.close(kind, m.Value, c.Value) {
			return true
		}
	}
	return false
}

// close compares two values under the partitioner's tolerance.
func (p *Partitioner) close(kind candidate.Kind, a, b any) bool {
	if kind == candidate.KindText {
		as, aok := candidate.Text(a)
		bs, bok := candidate.Text(b)
		return aok && bok && Fold(as) == Fold(bs)
	}

	an, aok := candidate.Number(a)
	bn, bok := candidate.Number(b)
	return aok && bok && math.Abs(an-bn) <= p.Tolerance
}
