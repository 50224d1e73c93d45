package concord_test

import (
	"context"
	"testing"

	concord "github.com/concordhq/concord"
	"github.com/concordhq/concord/pkg/candidate"
	"github.com/concordhq/concord/pkg/extract"
	"github.com/concordhq/concord/pkg/history"
	"github.com/concordhq/concord/pkg/resolve"
)

func testFile() *candidate.File {
	return &candidate.File{
		Company: "Acme Industrial",
		Sets: []candidate.Set{
			{
				Field: candidate.Field{Name: "ebitda", Kind: candidate.KindMoney},
				Candidates: []candidate.Candidate{
					{ParserID: candidate.ParserLLM, Value: 12.5, SourceType: candidate.SourceBody},
					{ParserID: candidate.ParserNER, Value: 12.3, SourceType: candidate.SourceAttachment},
					{ParserID: candidate.ParserOCR, Value: 15.0, SourceType: candidate.SourceBody},
				},
			},
			{
				Field: candidate.Field{Name: "hq_location", Kind: candidate.KindText},
				Candidates: []candidate.Candidate{
					{ParserID: candidate.ParserLLM, Value: "Austin, TX", SourceType: candidate.SourceBody},
				},
			},
			{
				Field:      candidate.Field{Name: "revenue", Kind: candidate.KindMoney},
				Candidates: []candidate.Candidate{{ParserID: candidate.ParserOCR, Value: nil, SourceType: candidate.SourceBody}},
			},
		},
	}
}

func TestResolveFile(t *testing.T) {
	ctx := context.Background()

	c, err := concord.New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	decisions, err := c.ResolveFile(ctx, testFile())
	if err != nil {
		t.Fatalf("ResolveFile failed: %v", err)
	}

	// The revenue set has no usable candidates and is skipped, not fatal.
	if len(decisions) != 2 {
		t.Fatalf("got %d decisions, want 2", len(decisions))
	}
	if decisions[0].Field != "ebitda" || decisions[1].Field != "hq_location" {
		t.Errorf("decisions out of file order: %s, %s", decisions[0].Field, decisions[1].Field)
	}
	if decisions[0].Method != resolve.MethodFuzzyConsensus {
		t.Errorf("ebitda method = %s, want %s", decisions[0].Method, resolve.MethodFuzzyConsensus)
	}

	// Every decision was recorded.
	if got := len(c.Trail().Records()); got != 2 {
		t.Errorf("trail has %d records, want 2", got)
	}
}

func TestResolveFileWithHistory(t *testing.T) {
	ctx := context.Background()

	store := history.NewStore([]history.Record{
		{Company: "Acme", Fields: map[string]float64{"ebitda": 15.1}},
	})

	// A chain without tie-breakers forces the historical reference to decide.
	c, err := concord.New(
		concord.WithHistory(store),
		concord.WithStrategies(resolve.HistoricalMatch{}, resolve.FirstAvailable{}),
	)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	decisions, err := c.ResolveFile(ctx, testFile())
	if err != nil {
		t.Fatalf("ResolveFile failed: %v", err)
	}

	if decisions[0].Method != resolve.MethodHistoricalMatch {
		t.Errorf("ebitda method = %s, want %s", decisions[0].Method, resolve.MethodHistoricalMatch)
	}
	if got, _ := candidate.Number(decisions[0].SelectedValue); got != 15.0 {
		t.Errorf("ebitda = %v, want 15.0 (closest to confirmed 15.1)", decisions[0].SelectedValue)
	}
}

func TestProcess(t *testing.T) {
	ctx := context.Background()

	c, err := concord.New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	doc := extract.Document{
		Body: "Acme is based in Austin, Texas. They reported EBITDA of $12.5M last year.",
	}
	decisions, err := c.Process(ctx, doc)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if len(decisions) != 2 {
		t.Fatalf("got %d decisions, want 2 (ebitda and location)", len(decisions))
	}
	// Name order: ebitda before hq_location.
	if got, _ := candidate.Number(decisions[0].SelectedValue); got != 12.5 {
		t.Errorf("ebitda = %v, want 12.5", decisions[0].SelectedValue)
	}
	if decisions[1].SelectedValue != "Austin, Texas" {
		t.Errorf("location = %v, want %q", decisions[1].SelectedValue, "Austin, Texas")
	}
}

func TestOptionValidation(t *testing.T) {
	if _, err := concord.New(concord.WithStrategies()); err == nil {
		t.Error("empty strategy chain accepted")
	}
	if _, err := concord.New(concord.WithExtractors()); err == nil {
		t.Error("empty extractor list accepted")
	}
	if _, err := concord.New(concord.WithTolerance(-2)); err == nil {
		t.Error("negative tolerance accepted")
	}
}
