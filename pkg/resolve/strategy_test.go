package resolve_test

import (
	"testing"

	"github.com/concordhq/concord/pkg/candidate"
	"github.com/concordhq/concord/pkg/resolve"
	"github.com/concordhq/concord/pkg/score"
)

func defaultScorer(t *testing.T) *score.Scorer {
	t.Helper()
	scorer, err := score.New(score.DefaultConfig())
	if err != nil {
		t.Fatalf("Failed to create scorer: %v", err)
	}
	return scorer
}

func TestFuzzyConsensusDeclinesOnSingletons(t *testing.T) {
	req := &resolve.Request{
		Field: ebitda,
		Candidates: []candidate.Candidate{
			money(candidate.ParserLLM, 10.0, candidate.SourceBody, false),
			money(candidate.ParserNER, 20.0, candidate.SourceBody, false),
		},
		Tolerance: 0.5,
		Scorer:    defaultScorer(t),
	}

	if _, ok := (resolve.FuzzyConsensus{}).Attempt(req); ok {
		t.Error("consensus decided with no cluster of size >= 2")
	}
}

func TestFuzzyConsensusChainsTransitively(t *testing.T) {
	// 10.0 and 10.8 are not within 0.5 of each other, but 10.4 links them.
	req := &resolve.Request{
		Field: ebitda,
		Candidates: []candidate.Candidate{
			money(candidate.ParserOCR, 10.0, candidate.SourceBody, false),
			money(candidate.ParserNER, 10.4, candidate.SourceBody, false),
			money(candidate.ParserLLM, 10.8, candidate.SourceBody, false),
		},
		Tolerance: 0.5,
		Scorer:    defaultScorer(t),
	}

	decision, ok := (resolve.FuzzyConsensus{}).Attempt(req)
	if !ok {
		t.Fatal("consensus declined a single-link chain")
	}
	if len(decision.ContributingParsers) != 3 {
		t.Errorf("ContributingParsers = %v, want all three", decision.ContributingParsers)
	}
	if got, _ := candidate.Number(decision.SelectedValue); got != 10.8 {
		t.Errorf("SelectedValue = %v, want 10.8 (llm is highest scored)", decision.SelectedValue)
	}
}

func TestMajorityVote(t *testing.T) {
	req := &resolve.Request{
		Field: ebitda,
		Candidates: []candidate.Candidate{
			money(candidate.ParserLLM, 12.5, candidate.SourceBody, false),
			money(candidate.ParserNER, 12.5, candidate.SourceBody, false),
			money(candidate.ParserOCR, 9.0, candidate.SourceBody, false),
		},
		Scorer: defaultScorer(t),
	}

	decision, ok := (resolve.MajorityVote{}).Attempt(req)
	if !ok {
		t.Fatal("vote declined a 2-of-3 strict majority")
	}
	if got, _ := candidate.Number(decision.SelectedValue); got != 12.5 {
		t.Errorf("SelectedValue = %v, want 12.5", decision.SelectedValue)
	}

	// Exactly half is not a strict majority.
	req.Candidates = append(req.Candidates, money(candidate.ParserVision, 9.0, candidate.SourceBody, false))
	if _, ok := (resolve.MajorityVote{}).Attempt(req); ok {
		t.Error("vote decided on a 2-of-4 split")
	}
}

func TestMajorityVoteFoldsTextValues(t *testing.T) {
	field := candidate.Field{Name: "company_name", Kind: candidate.KindText}
	req := &resolve.Request{
		Field: field,
		Candidates: []candidate.Candidate{
			text(candidate.ParserNER, "Acme Corp", candidate.SourceBody),
			text(candidate.ParserLLM, "ACME CORP", candidate.SourceBody),
			text(candidate.ParserOCR, "Apex Inc", candidate.SourceBody),
		},
		Scorer: defaultScorer(t),
	}

	decision, ok := (resolve.MajorityVote{}).Attempt(req)
	if !ok {
		t.Fatal("vote declined case-folded equal values")
	}
	// First member of the majority group in input order.
	if decision.SelectedValue != "Acme Corp" {
		t.Errorf("SelectedValue = %v, want %q", decision.SelectedValue, "Acme Corp")
	}
}

func TestHighestScorePublishesTiedSet(t *testing.T) {
	req := &resolve.Request{
		Field: ebitda,
		Candidates: []candidate.Candidate{
			money("alpha", 10.0, candidate.SourceBody, false),
			money("beta", 20.0, candidate.SourceBody, false),
			money(candidate.ParserOCR, 30.0, candidate.SourceBody, false),
		},
		Scorer: defaultScorer(t),
	}

	// alpha, beta, and ocr all score 0.5: a three-way tie.
	_, ok := (resolve.HighestScore{}).Attempt(req)
	if ok {
		t.Fatal("highest score decided an exact tie")
	}
	if len(req.TiedTop) != 3 {
		t.Fatalf("TiedTop has %d candidates, want 3", len(req.TiedTop))
	}

	decision, ok := (resolve.SourcePriority{}).Attempt(req)
	if !ok {
		t.Fatal("source priority declined a non-empty pool")
	}
	if got, _ := candidate.Number(decision.SelectedValue); got != 10.0 {
		t.Errorf("SelectedValue = %v, want 10.0 (first body candidate)", decision.SelectedValue)
	}
}

func TestSourcePriorityTiers(t *testing.T) {
	scorer := defaultScorer(t)

	tests := []struct {
		name  string
		cands []candidate.Candidate
		want  float64
	}{
		{
			name: "attachment beats both and body",
			cands: []candidate.Candidate{
				money(candidate.ParserLLM, 1.0, candidate.SourceBody, false),
				money(candidate.ParserNER, 2.0, candidate.SourceBoth, false),
				money(candidate.ParserOCR, 3.0, candidate.SourceAttachment, false),
			},
			want: 3.0,
		},
		{
			name: "both beats body",
			cands: []candidate.Candidate{
				money(candidate.ParserLLM, 1.0, candidate.SourceBody, false),
				money(candidate.ParserNER, 2.0, candidate.SourceBoth, false),
			},
			want: 2.0,
		},
		{
			name: "same tier keeps input order",
			cands: []candidate.Candidate{
				money(candidate.ParserOCR, 1.0, candidate.SourceBody, false),
				money(candidate.ParserLLM, 2.0, candidate.SourceBody, false),
			},
			want: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &resolve.Request{Field: ebitda, Candidates: tt.cands, Scorer: scorer}
			decision, ok := (resolve.SourcePriority{}).Attempt(req)
			if !ok {
				t.Fatal("source priority declined")
			}
			if got, _ := candidate.Number(decision.SelectedValue); got != tt.want {
				t.Errorf("SelectedValue = %v, want %v", decision.SelectedValue, tt.want)
			}
		})
	}
}

func TestHistoricalMatchDeclines(t *testing.T) {
	scorer := defaultScorer(t)
	ref := 12.0

	// No reference supplied.
	req := &resolve.Request{
		Field:      ebitda,
		Candidates: []candidate.Candidate{money(candidate.ParserLLM, 10.0, candidate.SourceBody, false)},
		Scorer:     scorer,
	}
	if _, ok := (resolve.HistoricalMatch{}).Attempt(req); ok {
		t.Error("historical match decided without a reference")
	}

	// Non-numeric field kind.
	req = &resolve.Request{
		Field:      candidate.Field{Name: "hq_location", Kind: candidate.KindText},
		Candidates: []candidate.Candidate{text(candidate.ParserLLM, "Austin", candidate.SourceBody)},
		Scorer:     scorer,
		Reference:  &ref,
	}
	if _, ok := (resolve.HistoricalMatch{}).Attempt(req); ok {
		t.Error("historical match decided a text field")
	}
}

func TestFirstAvailableNeverDeclines(t *testing.T) {
	req := &resolve.Request{
		Field:      ebitda,
		Candidates: []candidate.Candidate{money(candidate.ParserOCR, 7.0, candidate.SourceBody, false)},
		Scorer:     defaultScorer(t),
	}

	decision, ok := (resolve.FirstAvailable{}).Attempt(req)
	if !ok {
		t.Fatal("first available declined")
	}
	if decision.Method != resolve.MethodFirstAvailable {
		t.Errorf("Method = %s, want %s", decision.Method, resolve.MethodFirstAvailable)
	}
	if got, _ := candidate.Number(decision.SelectedValue); got != 7.0 {
		t.Errorf("SelectedValue = %v, want 7.0", decision.SelectedValue)
	}
}

func TestDefaultChainOrder(t *testing.T) {
	want := []resolve.Method{
		resolve.MethodFuzzyConsensus,
		resolve.MethodMajorityVote,
		resolve.MethodHighestScore,
		resolve.MethodSourcePriority,
		resolve.MethodHistoricalMatch,
		resolve.MethodFirstAvailable,
	}

	chain := resolve.DefaultChain()
	if len(chain) != len(want) {
		t.Fatalf("chain has %d strategies, want %d", len(chain), len(want))
	}
	for i, s := range chain {
		if s.Method() != want[i] {
			t.Errorf("chain[%d] = %s, want %s", i, s.Method(), want[i])
		}
		if s.Description() == "" {
			t.Errorf("chain[%d] has no description", i)
		}
	}
}
