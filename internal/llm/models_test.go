package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetModel(t *testing.T) {
	tests := []struct {
		name   string
		lookup string
		wantID string
	}{
		{"by id", "gpt-4o-mini", "gpt-4o-mini"},
		{"by display name", "Claude-3-Opus", "claude-3-opus-latest"},
		{"by alias", "gpt-4o-2024-08-06", "gpt-4o"},
		{"case insensitive", "GEMINI-1.5-PRO", "gemini-1.5-pro"},
		{"unknown", "mystery", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := GetModel(tt.lookup)
			if tt.wantID == "" {
				assert.Nil(t, m)
				return
			}
			require.NotNil(t, m)
			assert.Equal(t, tt.wantID, m.ID)
		})
	}
}

func TestModelForTier(t *testing.T) {
	assert.Equal(t, "gpt-4o-mini", ModelForTier(ProviderOpenAI, TierCheap).ID)
	assert.Equal(t, "gpt-4-turbo", ModelForTier(ProviderOpenAI, TierCode).ID)
	assert.Equal(t, "gpt-4o", ModelForTier(ProviderOpenAI, TierCapable).ID)
	assert.Nil(t, ModelForTier(ProviderGemini, TierCode))
}

func TestInferProvider(t *testing.T) {
	p, ok := InferProvider("Claude-3-Sonnet")
	assert.True(t, ok)
	assert.Equal(t, ProviderAnthropic, p)

	p, ok = InferProvider("gpt-5-preview")
	assert.True(t, ok)
	assert.Equal(t, ProviderOpenAI, p)

	_, ok = InferProvider("mistral")
	assert.False(t, ok)
}

func TestCalculateCost(t *testing.T) {
	assert.InDelta(t, 2.5+10.0, CalculateCost("gpt-4o", 1_000_000, 1_000_000), 1e-9)
	assert.InDelta(t, 0.01, CalculateCost("GPT-4o", 0, 1000), 1e-9)
	assert.Zero(t, CalculateCost("unknown", 1000, 1000))
	assert.Zero(t, CalculateCost("llama3.2", 1000, 1000))
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(""))
	assert.Equal(t, 1, EstimateTokens("abc"))
	assert.Equal(t, 2, EstimateTokens("abcde"))
}
