// Package extract provides reference extractors that produce the candidate
// schema the reconciliation engine consumes. The engine never calls these —
// extraction happens entirely before candidates are handed to the resolver —
// but the repo ships them so a document can be taken from raw text to a
// reconciled decision end to end.
package extract

import (
	"context"

	"github.com/concordhq/concord/pkg/candidate"
	"github.com/concordhq/concord/pkg/logging"
)

// Well-known fields the bundled extractors produce.
var (
	// FieldEBITDA is the primary monetary field, in millions.
	FieldEBITDA = candidate.Field{Name: "ebitda", Kind: candidate.KindMoney}

	// FieldLocation is the headquarters location.
	FieldLocation = candidate.Field{Name: "location", Kind: candidate.KindText}

	// FieldCompany is the company or project name.
	FieldCompany = candidate.Field{Name: "company", Kind: candidate.KindText}
)

// Document is the plain-text input an extractor works on. Attachment and
// email-format parsing happen upstream; by the time a Document exists the
// content is already text.
type Document struct {
	// Body is the document body text.
	Body string

	// AttachmentText is text recovered from attachments, when present.
	AttachmentText string
}

// Extractor turns a document into at most one candidate per field.
// Extractors failing to find a value for a field omit that field rather
// than emit a malformed candidate.
type Extractor interface {
	// ParserID identifies this extractor in candidate provenance.
	ParserID() candidate.ParserID

	// Extract produces candidates keyed by field. Missing fields are
	// simply absent from the map.
	Extract(ctx context.Context, doc Document) (map[candidate.Field]candidate.Candidate, error)
}

// Collect runs every extractor over a document and groups the produced
// candidates into per-field sets, preserving extractor order. Extractor
// failures skip that extractor; reconciliation proceeds with whoever
// answered.
func Collect(ctx context.Context, doc Document, extractors ...Extractor) map[candidate.Field][]candidate.Candidate {
	sets := make(map[candidate.Field][]candidate.Candidate)
	for _, e := range extractors {
		results, err := e.Extract(ctx, doc)
		if err != nil {
			logging.FromContext(ctx).Warn().
				Err(err).
				Str("parser", string(e.ParserID())).
				Msg("Extractor failed, continuing with remaining extractors")
			continue
		}
		for field, c := range results {
			sets[field] = append(sets[field], c)
		}
	}
	return sets
}
