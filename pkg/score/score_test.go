package score_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/concordhq/concord/pkg/candidate"
	"github.com/concordhq/concord/pkg/score"
)

func TestDefaultConfig(t *testing.T) {
	cfg := score.DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 1.0, cfg.ParserWeights[string(candidate.ParserLLM)])
	assert.Equal(t, 0.9, cfg.ParserWeights[string(candidate.ParserVision)])
	assert.Equal(t, 0.7, cfg.ParserWeights[string(candidate.ParserNER)])
	assert.Equal(t, 0.5, cfg.ParserWeights[string(candidate.ParserOCR)])
	assert.Equal(t, 1.2, cfg.SourceMultipliers[string(candidate.SourceAttachment)])
	assert.Equal(t, 1.1, cfg.SourceMultipliers[string(candidate.SourceBoth)])
	assert.Equal(t, 1.0, cfg.SourceMultipliers[string(candidate.SourceBody)])
	assert.Equal(t, 1.1, cfg.ExcerptBonus)
}

func TestScore(t *testing.T) {
	scorer, err := score.New(score.DefaultConfig())
	require.NoError(t, err)

	tests := []struct {
		name string
		cand candidate.Candidate
		want float64
	}{
		{
			name: "llm from body",
			cand: candidate.Candidate{ParserID: candidate.ParserLLM, Value: 10.0, SourceType: candidate.SourceBody},
			want: 1.0,
		},
		{
			name: "vision from attachment",
			cand: candidate.Candidate{ParserID: candidate.ParserVision, Value: 10.0, SourceType: candidate.SourceAttachment},
			want: 0.9 * 1.2,
		},
		{
			name: "ner with excerpt",
			cand: candidate.Candidate{ParserID: candidate.ParserNER, Value: 10.0, SourceType: candidate.SourceBody, HasRawExcerpt: true},
			want: 0.7 * 1.1,
		},
		{
			name: "ocr corroborated with excerpt",
			cand: candidate.Candidate{ParserID: candidate.ParserOCR, Value: 10.0, SourceType: candidate.SourceBoth, HasRawExcerpt: true},
			want: 0.5 * 1.1 * 1.1,
		},
		{
			name: "unknown parser falls back to default weight",
			cand: candidate.Candidate{ParserID: "tesseract", Value: 10.0, SourceType: candidate.SourceBody},
			want: 0.5,
		},
		{
			name: "unknown source falls back to identity",
			cand: candidate.Candidate{ParserID: candidate.ParserLLM, Value: 10.0, SourceType: "forwarded"},
			want: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, scorer.Score(tt.cand), 1e-12)
		})
	}
}

func TestScoreIsPure(t *testing.T) {
	scorer, err := score.New(score.DefaultConfig())
	require.NoError(t, err)

	c := candidate.Candidate{
		ParserID:      candidate.ParserVision,
		Value:         12.5,
		SourceType:    candidate.SourceAttachment,
		HasRawExcerpt: true,
	}

	first := scorer.Score(c)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, scorer.Score(c))
	}
}

func TestZeroConfigGetsDefaults(t *testing.T) {
	scorer, err := score.New(score.Config{})
	require.NoError(t, err)

	assert.Equal(t, score.DefaultConfig(), scorer.Config())
	assert.True(t, scorer.Knows(candidate.ParserLLM))
	assert.False(t, scorer.Knows("tesseract"))
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*score.Config)
	}{
		{"zero default weight", func(c *score.Config) { c.DefaultParserWeight = 0 }},
		{"negative excerpt bonus", func(c *score.Config) { c.ExcerptBonus = -1 }},
		{"zero parser weight", func(c *score.Config) { c.ParserWeights["llm"] = 0 }},
		{"negative source multiplier", func(c *score.Config) { c.SourceMultipliers["body"] = -0.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := score.DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
