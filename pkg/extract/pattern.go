package extract

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/concordhq/concord/pkg/candidate"
	"github.com/concordhq/concord/pkg/cluster"
)

// ebitdaPatterns match the EBITDA phrasings that show up in deal emails.
// The first submatch is always the numeric amount in millions.
var ebitdaPatterns = []*regexp.Regexp{
	// "$X.XM EBITDA" or "$XM EBITDA"
	regexp.MustCompile(`(?i)\$\s*(\d+\.?\d*)\s*M\s+EBITDA`),
	// "EBITDA: $X.XM" or "EBITDA $XM"
	regexp.MustCompile(`(?i)EBITDA[:\s]+\$\s*(\d+\.?\d*)\s*M`),
	// "LTM EBITDA $X.XM"
	regexp.MustCompile(`(?i)LTM\s+EBITDA[:\s]+\$\s*(\d+\.?\d*)\s*M`),
	// "EBITDA of $X.XM"
	regexp.MustCompile(`(?i)EBITDA\s+of\s+\$\s*(\d+\.?\d*)\s*M`),
	// "$Xmm EBITDA" or "$X million EBITDA"
	regexp.MustCompile(`(?i)\$\s*(\d+\.?\d*)\s*(?:mm|million)\s+EBITDA`),
	// "($Xm)" format
	regexp.MustCompile(`\(\$(\d+\.?\d*)[Mm]\)`),
}

// locationPatterns match common headquarters phrasings.
var locationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`based in ([A-Z][a-zA-Z\s,]+)`),
	regexp.MustCompile(`located in ([A-Z][a-zA-Z\s,]+)`),
	regexp.MustCompile(`headquartered in ([A-Z][a-zA-Z\s,]+)`),
	regexp.MustCompile(`HQ[:\s]+([A-Z][a-zA-Z\s,]+)`),
	regexp.MustCompile(`([A-Z][a-zA-Z\s]+)-based`),
}

// locationMaxWords caps how much of a match is kept as the location.
const locationMaxWords = 3

// PatternExtractor extracts fields from the document body and attachment
// text with regular expressions. It always carries a verbatim excerpt: a
// matched fragment is by definition grounded in the text.
type PatternExtractor struct{}

// NewPattern creates a pattern extractor.
func NewPattern() *PatternExtractor {
	return &PatternExtractor{}
}

// ParserID identifies this extractor in candidate provenance.
func (e *PatternExtractor) ParserID() candidate.ParserID {
	return candidate.ParserNER
}

// Extract scans the body and any attachment text for EBITDA and location
// mentions. A value found in both sources is reported as SourceBoth; when
// the two disagree the attachment wins, since attachments carry the
// authoritative financials in this corpus.
func (e *PatternExtractor) Extract(_ context.Context, doc Document) (map[candidate.Field]candidate.Candidate, error) {
	results := make(map[candidate.Field]candidate.Candidate)

	bodyVal, bodyExcerpt, inBody := matchEBITDA(doc.Body)
	attVal, attExcerpt, inAttachment := matchEBITDA(doc.AttachmentText)
	switch {
	case inBody && inAttachment && bodyVal == attVal:
		results[FieldEBITDA] = e.candidate(bodyVal, candidate.SourceBoth, bodyExcerpt)
	case inAttachment:
		results[FieldEBITDA] = e.candidate(attVal, candidate.SourceAttachment, attExcerpt)
	case inBody:
		results[FieldEBITDA] = e.candidate(bodyVal, candidate.SourceBody, bodyExcerpt)
	}

	bodyLoc, bodyExcerpt, inBody := matchLocation(doc.Body)
	attLoc, attExcerpt, inAttachment := matchLocation(doc.AttachmentText)
	switch {
	case inBody && inAttachment && cluster.Fold(bodyLoc) == cluster.Fold(attLoc):
		results[FieldLocation] = e.candidate(bodyLoc, candidate.SourceBoth, bodyExcerpt)
	case inAttachment:
		results[FieldLocation] = e.candidate(attLoc, candidate.SourceAttachment, attExcerpt)
	case inBody:
		results[FieldLocation] = e.candidate(bodyLoc, candidate.SourceBody, bodyExcerpt)
	}

	return results, nil
}

func (e *PatternExtractor) candidate(value any, source candidate.SourceType, excerpt string) candidate.Candidate {
	return candidate.Candidate{
		ParserID:      e.ParserID(),
		Value:         value,
		SourceType:    source,
		HasRawExcerpt: true,
		RawExcerpt:    excerpt,
	}
}

// matchEBITDA returns the first EBITDA amount found in the text, in
// millions, with the matched fragment.
func matchEBITDA(text string) (float64, string, bool) {
	if text == "" {
		return 0, "", false
	}

	for _, pattern := range ebitdaPatterns {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		value, err := strconv.ParseFloat(match[1], 64)
		if err != nil {
			continue
		}
		return value, match[0], true
	}
	return 0, "", false
}

// matchLocation returns the first location phrase found in the text,
// capped at locationMaxWords words.
func matchLocation(text string) (string, string, bool) {
	if text == "" {
		return "", "", false
	}

	for _, pattern := range locationPatterns {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		location := strings.TrimSpace(match[1])
		words := strings.Fields(location)
		if len(words) > locationMaxWords {
			words = words[:locationMaxWords]
		}
		location = strings.TrimRight(strings.Join(words, " "), ",.")
		if location == "" {
			continue
		}
		return location, match[0], true
	}
	return "", "", false
}
