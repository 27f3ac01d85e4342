package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/Freekyn/Promptin/internal/llm"
)

// TierModels names the classification model for each tier.
type TierModels struct {
	Cheap   string `mapstructure:"cheap" validate:"required"`
	Code    string `mapstructure:"code" validate:"required"`
	Capable string `mapstructure:"capable" validate:"required"`
}

// DefaultTierModels returns the OpenAI tier defaults.
func DefaultTierModels() TierModels {
	return TierModels{Cheap: DefaultCheapModel, Code: DefaultCodeModel, Capable: DefaultCapableModel}
}

// TierModelsFor derives tier models for provider from the registry, keeping
// the OpenAI defaults for tiers the provider does not serve.
func TierModelsFor(provider llm.Provider) TierModels {
	tm := DefaultTierModels()
	if m := llm.ModelForTier(provider, llm.TierCheap); m != nil {
		tm.Cheap = m.ID
	}
	if m := llm.ModelForTier(provider, llm.TierCode); m != nil {
		tm.Code = m.ID
	}
	if m := llm.ModelForTier(provider, llm.TierCapable); m != nil {
		tm.Capable = m.ID
	}
	return tm
}

// Model returns the model ID configured for tier.
func (tm TierModels) Model(tier llm.Tier) string {
	switch tier {
	case llm.TierCode:
		return tm.Code
	case llm.TierCapable:
		return tm.Capable
	default:
		return tm.Cheap
	}
}

// LLMSettings is the provider configuration plus the tier models.
type LLMSettings struct {
	llm.Config
	Tiers TierModels
}

// LoadLLMConfig loads LLM configuration from Viper and Environment variables.
// It handles precedence: Explicit Viper Config > Environment Variables > Defaults.
func LoadLLMConfig() (LLMSettings, error) {
	// 1. Provider
	provider := viper.GetString("llm.provider")
	if provider == "" {
		provider = string(llm.DefaultProvider)
	}

	llmProvider, err := llm.ValidateProvider(provider)
	if err != nil {
		return LLMSettings{}, fmt.Errorf("invalid provider: %w", err)
	}

	// 2. API Key. Missing keys are not an error: Ollama needs none, and the
	// engine falls back to keyword classification without a provider.
	apiKey := ResolveAPIKey(llmProvider)

	// 3. Base URL
	baseURL := viper.GetString("llm.baseURL")
	if baseURL == "" && llmProvider == llm.ProviderOllama {
		baseURL = llm.DefaultOllamaURL
	}

	// 4. Embeddings
	embeddingProvider := llm.Provider(viper.GetString("llm.embeddingProvider"))
	if embeddingProvider == "" {
		embeddingProvider = llmProvider
	}
	embeddingModel := viper.GetString("llm.embeddingModel")
	if embeddingModel == "" {
		switch embeddingProvider {
		case llm.ProviderOpenAI:
			embeddingModel = llm.DefaultOpenAIEmbeddingModel
		case llm.ProviderOllama:
			embeddingModel = llm.DefaultOllamaEmbeddingModel
		case llm.ProviderGemini:
			embeddingModel = llm.DefaultGeminiEmbeddingModel
		}
	}

	// 5. Tier models: explicit keys, then the provider's registry models
	tiers := TierModelsFor(llmProvider)
	tiers.Cheap = getStringWithDefault("llm.tiers.cheap", tiers.Cheap)
	tiers.Code = getStringWithDefault("llm.tiers.code", tiers.Code)
	tiers.Capable = getStringWithDefault("llm.tiers.capable", tiers.Capable)
	if err := validate.Struct(tiers); err != nil {
		return LLMSettings{}, fmt.Errorf("invalid tier models: %w", err)
	}

	// 6. Model. Empty means the tier decides.
	model := viper.GetString("llm.model")

	return LLMSettings{
		Config: llm.Config{
			Provider:          llmProvider,
			Model:             model,
			APIKey:            apiKey,
			BaseURL:           baseURL,
			MaxTokens:         getIntWithDefault("llm.maxTokens", 0),
			EmbeddingProvider: embeddingProvider,
			EmbeddingModel:    embeddingModel,
			EmbeddingURL:      viper.GetString("llm.embeddingURL"),
		},
		Tiers: tiers,
	}, nil
}

// HasCredentials reports whether the configured provider can be called.
func (s LLMSettings) HasCredentials() bool {
	return s.Provider == llm.ProviderOllama || s.APIKey != ""
}

// ResolveAPIKey returns the best API key for the given provider using
// per-provider config keys, then provider-specific env vars.
func ResolveAPIKey(provider llm.Provider) string {
	if viper.IsSet(fmt.Sprintf("llm.apiKeys.%s", provider)) {
		if key := strings.TrimSpace(viper.GetString(fmt.Sprintf("llm.apiKeys.%s", provider))); key != "" {
			return key
		}
	}
	return providerEnvKey(provider)
}

func providerEnvKey(provider llm.Provider) string {
	switch provider {
	case llm.ProviderOpenAI:
		return strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	case llm.ProviderAnthropic:
		return strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY"))
	case llm.ProviderGemini:
		key := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
		if key == "" {
			key = strings.TrimSpace(os.Getenv("GOOGLE_API_KEY"))
		}
		return key
	default:
		return ""
	}
}
