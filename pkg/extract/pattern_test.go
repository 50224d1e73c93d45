package extract_test

import (
	"context"
	"testing"

	"github.com/concordhq/concord/pkg/candidate"
	"github.com/concordhq/concord/pkg/extract"
)

func TestPatternEBITDA(t *testing.T) {
	tests := []struct {
		name string
		body string
		want float64
	}{
		{"dollar M prefix", "The company did $12.5M EBITDA last year.", 12.5},
		{"labeled", "Financials: EBITDA: $8M on $40M revenue.", 8.0},
		{"of phrasing", "They reported EBITDA of $10.2M for the period.", 10.2},
		{"mm suffix", "Approximately $6.8mm EBITDA expected.", 6.8},
		{"million spelled out", "Around $7 million EBITDA run rate.", 7.0},
		{"parenthesized", "Strong margins ($4.5M) across the board.", 4.5},
	}

	extractor := extract.NewPattern()
	ctx := context.Background()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := extractor.Extract(ctx, extract.Document{Body: tt.body})
			if err != nil {
				t.Fatalf("Extract failed: %v", err)
			}

			c, ok := results[extract.FieldEBITDA]
			if !ok {
				t.Fatalf("no EBITDA candidate extracted from %q", tt.body)
			}
			if got, _ := candidate.Number(c.Value); got != tt.want {
				t.Errorf("value = %v, want %v", c.Value, tt.want)
			}
			if !c.HasRawExcerpt || c.RawExcerpt == "" {
				t.Error("pattern match must carry its excerpt")
			}
			if c.ParserID != candidate.ParserNER {
				t.Errorf("ParserID = %s, want ner", c.ParserID)
			}
		})
	}
}

func TestPatternLocation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"based in", "A distributor based in Austin, Texas.", "Austin, Texas"},
		{"headquartered in", "The company is headquartered in Dallas.", "Dallas"},
		{"hyphenated", "Target: Chicago-based manufacturer of fasteners.", "Chicago"},
		{"hq label", "HQ: Nashville. Founded 1987.", "Nashville"},
	}

	extractor := extract.NewPattern()
	ctx := context.Background()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := extractor.Extract(ctx, extract.Document{Body: tt.body})
			if err != nil {
				t.Fatalf("Extract failed: %v", err)
			}

			c, ok := results[extract.FieldLocation]
			if !ok {
				t.Fatalf("no location candidate extracted from %q", tt.body)
			}
			if c.Value != tt.want {
				t.Errorf("value = %q, want %q", c.Value, tt.want)
			}
		})
	}
}

func TestPatternAttachmentOnly(t *testing.T) {
	extractor := extract.NewPattern()

	results, err := extractor.Extract(context.Background(), extract.Document{
		Body:           "Please see the attached financials.",
		AttachmentText: "Summary P&L. EBITDA: $12.5M on $60M revenue.",
	})
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	c, ok := results[extract.FieldEBITDA]
	if !ok {
		t.Fatal("no EBITDA candidate from attachment text")
	}
	if got, _ := candidate.Number(c.Value); got != 12.5 {
		t.Errorf("value = %v, want 12.5", c.Value)
	}
	if c.SourceType != candidate.SourceAttachment {
		t.Errorf("SourceType = %s, want attachment", c.SourceType)
	}
}

func TestPatternBodyAndAttachmentAgree(t *testing.T) {
	extractor := extract.NewPattern()

	results, err := extractor.Extract(context.Background(), extract.Document{
		Body:           "Acme is based in Austin, Texas. They reported EBITDA of $8M.",
		AttachmentText: "HQ: AUSTIN, TEXAS. LTM EBITDA: $8M.",
	})
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	e, ok := results[extract.FieldEBITDA]
	if !ok {
		t.Fatal("no EBITDA candidate extracted")
	}
	if e.SourceType != candidate.SourceBoth {
		t.Errorf("EBITDA SourceType = %s, want both", e.SourceType)
	}

	// Location corroboration is case-insensitive.
	l, ok := results[extract.FieldLocation]
	if !ok {
		t.Fatal("no location candidate extracted")
	}
	if l.SourceType != candidate.SourceBoth {
		t.Errorf("location SourceType = %s, want both", l.SourceType)
	}
	if l.Value != "Austin, Texas" {
		t.Errorf("location = %q, want body spelling", l.Value)
	}
}

func TestPatternBodyAndAttachmentDisagree(t *testing.T) {
	extractor := extract.NewPattern()

	results, err := extractor.Extract(context.Background(), extract.Document{
		Body:           "They reported EBITDA of $10M last year.",
		AttachmentText: "Adjusted EBITDA: $12.5M.",
	})
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	c, ok := results[extract.FieldEBITDA]
	if !ok {
		t.Fatal("no EBITDA candidate extracted")
	}
	if got, _ := candidate.Number(c.Value); got != 12.5 {
		t.Errorf("value = %v, want the attachment figure 12.5", c.Value)
	}
	if c.SourceType != candidate.SourceAttachment {
		t.Errorf("SourceType = %s, want attachment", c.SourceType)
	}
}

func TestPatternNoMatch(t *testing.T) {
	extractor := extract.NewPattern()

	results, err := extractor.Extract(context.Background(), extract.Document{
		Body: "Please find attached the teaser for this opportunity.",
	})
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d candidates from a body with no figures, want 0", len(results))
	}
}
