package extract

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"google.golang.org/genai"

	"github.com/concordhq/concord/pkg/candidate"
	"github.com/concordhq/concord/pkg/errors"
)

// DefaultLLMModel is the Gemini model used when none is configured.
const DefaultLLMModel = "gemini-2.0-flash"

const llmPrompt = `You extract structured deal data from investment emails.
Read the email body below and return ONLY a JSON object with these keys:
  "company_name": string or null — the company or project name
  "ebitda_millions": number or null — EBITDA in millions of USD
  "hq_location": string or null — headquarters city/region
  "ebitda_excerpt": string or null — the verbatim sentence fragment the EBITDA came from
  "confidence": number between 0 and 1 — your certainty in the EBITDA value

Use null for anything not present. Do not guess values absent from the text.

Email body:
`

// llmResponse is the JSON shape the model is instructed to return.
type llmResponse struct {
	CompanyName    *string  `json:"company_name"`
	EBITDAMillions *float64 `json:"ebitda_millions"`
	HQLocation     *string  `json:"hq_location"`
	EBITDAExcerpt  *string  `json:"ebitda_excerpt"`
	Confidence     *float64 `json:"confidence"`
}

// LLMExtractor extracts fields from body text with a Gemini model.
type LLMExtractor struct {
	client *genai.Client
	model  string
}

// NewLLM creates an LLM extractor using the GEMINI_API_KEY environment
// variable. Model may be empty to use the default.
func NewLLM(ctx context.Context, model string) (*LLMExtractor, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("GOOGLE_API_KEY")
	}
	if apiKey == "" {
		return nil, errors.ErrAPIKeyRequired
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.NewExtractionError(string(candidate.ParserLLM), "failed to create client", err)
	}

	if model == "" {
		model = DefaultLLMModel
	}
	return &LLMExtractor{client: client, model: model}, nil
}

// ParserID identifies this extractor in candidate provenance.
func (e *LLMExtractor) ParserID() candidate.ParserID {
	return candidate.ParserLLM
}

// Extract asks the model for a JSON-constrained extraction of the body.
func (e *LLMExtractor) Extract(ctx context.Context, doc Document) (map[candidate.Field]candidate.Candidate, error) {
	resp, err := e.client.Models.GenerateContent(ctx, e.model,
		genai.Text(llmPrompt+doc.Body),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			Temperature:      genai.Ptr[float32](0),
		})
	if err != nil {
		return nil, errors.NewExtractionError(string(e.ParserID()), "generation failed", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return nil, errors.NewExtractionError(string(e.ParserID()), "empty model response", nil)
	}

	var parsed llmResponse
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, errors.NewExtractionError(string(e.ParserID()), "malformed model response", err)
	}

	results := make(map[candidate.Field]candidate.Candidate)

	if parsed.EBITDAMillions != nil {
		c := candidate.Candidate{
			ParserID:   e.ParserID(),
			Value:      *parsed.EBITDAMillions,
			Confidence: parsed.Confidence,
			SourceType: candidate.SourceBody,
		}
		if parsed.EBITDAExcerpt != nil && *parsed.EBITDAExcerpt != "" {
			c.HasRawExcerpt = true
			c.RawExcerpt = *parsed.EBITDAExcerpt
		}
		results[FieldEBITDA] = c
	}

	if parsed.HQLocation != nil && strings.TrimSpace(*parsed.HQLocation) != "" {
		results[FieldLocation] = candidate.Candidate{
			ParserID:   e.ParserID(),
			Value:      strings.TrimSpace(*parsed.HQLocation),
			Confidence: parsed.Confidence,
			SourceType: candidate.SourceBody,
		}
	}

	if parsed.CompanyName != nil && strings.TrimSpace(*parsed.CompanyName) != "" {
		results[FieldCompany] = candidate.Candidate{
			ParserID:   e.ParserID(),
			Value:      strings.TrimSpace(*parsed.CompanyName),
			Confidence: parsed.Confidence,
			SourceType: candidate.SourceBody,
		}
	}

	return results, nil
}
