package llm

import (
	"strings"
)

// Tier groups models by what the classifier needs from them.
type Tier string

const (
	// TierCheap is the default for short, plain requests.
	TierCheap Tier = "cheap"
	// TierCode handles requests that contain code.
	TierCode Tier = "code"
	// TierCapable is reserved for long, comparative or time-sensitive requests.
	TierCapable Tier = "capable"
)

// Model describes one generative model: how providers name it, how
// frameworks name it, what it costs and which tier it serves.
type Model struct {
	// ID is the provider's model ID, e.g. "gpt-4o-mini".
	ID string
	// DisplayName is how frameworks refer to the model, e.g. "GPT-4o-mini".
	DisplayName string
	Provider    Provider
	Aliases     []string
	Tier        Tier

	// USD per 1M tokens
	InputPer1M  float64
	OutputPer1M float64
}

// Prices last updated: 2025-12
var ModelRegistry = []Model{
	// ============================================
	// OpenAI
	// ============================================
	{ID: "gpt-4o-mini", DisplayName: "GPT-4o-mini", Provider: ProviderOpenAI, Aliases: []string{"gpt-4o-mini-2024-07-18"}, Tier: TierCheap, InputPer1M: 0.15, OutputPer1M: 0.60},
	{ID: "gpt-4-turbo", DisplayName: "GPT-4-turbo", Provider: ProviderOpenAI, Tier: TierCode, InputPer1M: 10.00, OutputPer1M: 30.00},
	{ID: "gpt-4o", DisplayName: "GPT-4o", Provider: ProviderOpenAI, Aliases: []string{"gpt-4o-2024-08-06"}, Tier: TierCapable, InputPer1M: 2.50, OutputPer1M: 10.00},

	// ============================================
	// Anthropic
	// ============================================
	{ID: "claude-3-haiku-20240307", DisplayName: "Claude-3-Haiku", Provider: ProviderAnthropic, Aliases: []string{"claude-3-haiku"}, Tier: TierCheap, InputPer1M: 0.25, OutputPer1M: 1.25},
	{ID: "claude-3-sonnet-20240229", DisplayName: "Claude-3-Sonnet", Provider: ProviderAnthropic, Aliases: []string{"claude-3-sonnet"}, Tier: TierCode, InputPer1M: 3.00, OutputPer1M: 15.00},
	{ID: "claude-3-opus-latest", DisplayName: "Claude-3-Opus", Provider: ProviderAnthropic, Aliases: []string{"claude-3-opus"}, Tier: TierCapable, InputPer1M: 15.00, OutputPer1M: 75.00},

	// ============================================
	// Google
	// ============================================
	{ID: "gemini-1.5-flash", DisplayName: "Gemini-1.5-Flash", Provider: ProviderGemini, Tier: TierCheap, InputPer1M: 0.075, OutputPer1M: 0.30},
	{ID: "gemini-1.5-pro", DisplayName: "Gemini-1.5-Pro", Provider: ProviderGemini, Tier: TierCapable, InputPer1M: 1.25, OutputPer1M: 5.00},

	// ============================================
	// Ollama (local, free)
	// ============================================
	{ID: "llama3.2", DisplayName: "Llama-3.2", Provider: ProviderOllama, Tier: TierCheap},
	{ID: "qwen2.5-coder", DisplayName: "Qwen-2.5-Coder", Provider: ProviderOllama, Tier: TierCode},
	{ID: "llama3.1:70b", DisplayName: "Llama-3.1-70B", Provider: ProviderOllama, Tier: TierCapable},
}

var modelIndex map[string]*Model

func init() {
	modelIndex = make(map[string]*Model, len(ModelRegistry)*3)
	for i := range ModelRegistry {
		m := &ModelRegistry[i]
		modelIndex[strings.ToLower(m.ID)] = m
		modelIndex[strings.ToLower(m.DisplayName)] = m
		for _, alias := range m.Aliases {
			modelIndex[strings.ToLower(alias)] = m
		}
	}
}

// GetModel looks a model up by ID, alias or display name, case-insensitively.
func GetModel(name string) *Model {
	return modelIndex[strings.ToLower(strings.TrimSpace(name))]
}

// ModelForTier returns the registered model of provider serving tier, or nil.
func ModelForTier(provider Provider, tier Tier) *Model {
	for i := range ModelRegistry {
		if ModelRegistry[i].Provider == provider && ModelRegistry[i].Tier == tier {
			return &ModelRegistry[i]
		}
	}
	return nil
}

// InferProvider guesses the provider from a model name.
func InferProvider(name string) (Provider, bool) {
	if m := GetModel(name); m != nil {
		return m.Provider, true
	}
	lower := strings.ToLower(name)
	switch {
	case strings.HasPrefix(lower, "gpt-"), strings.HasPrefix(lower, "o1"), strings.HasPrefix(lower, "o3"):
		return ProviderOpenAI, true
	case strings.HasPrefix(lower, "claude"):
		return ProviderAnthropic, true
	case strings.HasPrefix(lower, "gemini"):
		return ProviderGemini, true
	}
	return "", false
}

// CalculateCost returns the USD cost of a call, or 0 for unknown models.
func CalculateCost(name string, inputTokens, outputTokens int) float64 {
	m := GetModel(name)
	if m == nil {
		return 0
	}
	return float64(inputTokens)/1_000_000*m.InputPer1M + float64(outputTokens)/1_000_000*m.OutputPer1M
}
