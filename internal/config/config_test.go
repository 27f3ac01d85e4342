package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/Freekyn/Promptin/internal/llm"
	"github.com/Freekyn/Promptin/internal/scoring"
)

func resetViperForTest(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestLoadLLMConfigDefaults(t *testing.T) {
	resetViperForTest(t)
	t.Setenv("OPENAI_API_KEY", " sk-env ")

	got, err := LoadLLMConfig()
	if err != nil {
		t.Fatalf("LoadLLMConfig() error = %v", err)
	}
	if got.Provider != llm.ProviderOpenAI {
		t.Errorf("Provider = %q, want openai", got.Provider)
	}
	if got.APIKey != "sk-env" {
		t.Errorf("APIKey = %q, want trimmed env key", got.APIKey)
	}
	if got.EmbeddingModel != llm.DefaultOpenAIEmbeddingModel {
		t.Errorf("EmbeddingModel = %q", got.EmbeddingModel)
	}
	want := TierModels{Cheap: "gpt-4o-mini", Code: "gpt-4-turbo", Capable: "gpt-4o"}
	if got.Tiers != want {
		t.Errorf("Tiers = %+v, want %+v", got.Tiers, want)
	}
	if !got.HasCredentials() {
		t.Error("HasCredentials() = false with an API key")
	}
}

func TestLoadLLMConfigOverrides(t *testing.T) {
	resetViperForTest(t)
	t.Setenv("ANTHROPIC_API_KEY", "env-key")
	viper.Set("llm.provider", "anthropic")
	viper.Set("llm.apiKeys.anthropic", "config-key")
	viper.Set("llm.tiers.cheap", "claude-3-haiku")

	got, err := LoadLLMConfig()
	if err != nil {
		t.Fatal(err)
	}
	if got.APIKey != "config-key" {
		t.Errorf("APIKey = %q, config must win over env", got.APIKey)
	}
	if got.Tiers.Cheap != "claude-3-haiku" {
		t.Errorf("Tiers.Cheap = %q", got.Tiers.Cheap)
	}
	if got.Tiers.Capable != "claude-3-opus-latest" {
		t.Errorf("Tiers.Capable = %q, want registry model", got.Tiers.Capable)
	}
}

func TestLoadLLMConfigInvalidProvider(t *testing.T) {
	resetViperForTest(t)
	viper.Set("llm.provider", "bedrock")
	if _, err := LoadLLMConfig(); err == nil {
		t.Fatal("expected error for unsupported provider")
	}
}

func TestOllamaNeedsNoKey(t *testing.T) {
	resetViperForTest(t)
	viper.Set("llm.provider", "ollama")

	got, err := LoadLLMConfig()
	if err != nil {
		t.Fatal(err)
	}
	if got.BaseURL != llm.DefaultOllamaURL {
		t.Errorf("BaseURL = %q", got.BaseURL)
	}
	if !got.HasCredentials() {
		t.Error("ollama must not need credentials")
	}
}

func TestTierModels(t *testing.T) {
	tests := []struct {
		name string
		tm   TierModels
		tier llm.Tier
		want string
	}{
		{"default cheap", DefaultTierModels(), llm.TierCheap, "gpt-4o-mini"},
		{"default code", DefaultTierModels(), llm.TierCode, "gpt-4-turbo"},
		{"default capable", DefaultTierModels(), llm.TierCapable, "gpt-4o"},
		{"anthropic capable", TierModelsFor(llm.ProviderAnthropic), llm.TierCapable, "claude-3-opus-latest"},
		{"unserved tier keeps default", TierModelsFor(llm.ProviderGemini), llm.TierCode, "gpt-4-turbo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tm.Model(tt.tier); got != tt.want {
				t.Errorf("Model(%v) = %q, want %q", tt.tier, got, tt.want)
			}
		})
	}
}

func TestResolveAPIKeyGeminiFallsBackToGoogle(t *testing.T) {
	resetViperForTest(t)
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "google-key")
	if got := ResolveAPIKey(llm.ProviderGemini); got != "google-key" {
		t.Errorf("ResolveAPIKey() = %q", got)
	}
}

func TestLoadEngineConfig(t *testing.T) {
	tests := []struct {
		name    string
		set     map[string]any
		check   func(t *testing.T, cfg EngineConfig)
		wantErr bool
	}{
		{
			name: "defaults",
			check: func(t *testing.T, cfg EngineConfig) {
				if cfg != DefaultEngineConfig() {
					t.Errorf("got %+v, want defaults", cfg)
				}
			},
		},
		{
			name: "overrides",
			set:  map[string]any{"engine.classifyTimeout": "3s", "engine.cacheSize": 10, "retrieval.synthesisThreshold": 60},
			check: func(t *testing.T, cfg EngineConfig) {
				if cfg.ClassifyTimeout != 3*time.Second || cfg.CacheSize != 10 || cfg.SynthesisThreshold != 60 {
					t.Errorf("overrides not applied: %+v", cfg)
				}
			},
		},
		{
			name:    "zero batch size rejected",
			set:     map[string]any{"engine.embedBatchSize": 0},
			wantErr: true,
		},
		{
			name:    "threshold above 100 rejected",
			set:     map[string]any{"retrieval.synthesisThreshold": 120},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViperForTest(t)
			for k, v := range tt.set {
				viper.Set(k, v)
			}
			cfg, err := LoadEngineConfig()
			if (err != nil) != tt.wantErr {
				t.Fatalf("LoadEngineConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestLoadRetrievalOptions(t *testing.T) {
	resetViperForTest(t)
	viper.Set("retrieval.topKeywords", 5)

	engine := DefaultEngineConfig()
	engine.EmbedBatchSize = 20
	opts, err := LoadRetrievalOptions(engine)
	if err != nil {
		t.Fatal(err)
	}
	if opts.TopKeywords != 5 || opts.BatchSize != 20 || opts.Threshold != 0.6 {
		t.Errorf("unexpected options %+v", opts)
	}

	viper.Set("retrieval.threshold", 1.5)
	if _, err := LoadRetrievalOptions(engine); err == nil {
		t.Error("threshold above 1 must be rejected")
	}
}

func TestLoadScoringWeights(t *testing.T) {
	resetViperForTest(t)
	w, err := LoadScoringWeights()
	if err != nil || w != scoring.DefaultWeights() {
		t.Fatalf("LoadScoringWeights() = %+v, %v", w, err)
	}

	viper.Set("scoring.weights", map[string]any{"domain": 0.5})
	if _, err := LoadScoringWeights(); err == nil {
		t.Error("weights that do not sum to 1 must be rejected")
	}

	viper.Set("scoring.weights", map[string]any{
		"domain": 0.25, "intent": 0.25, "complexity": 0.1,
		"output": 0.15, "semantic": 0.15, "success": 0.1,
	})
	w, err = LoadScoringWeights()
	if err != nil {
		t.Fatal(err)
	}
	if w.Domain != 0.25 {
		t.Errorf("Domain = %v", w.Domain)
	}
}

func TestGetStorageDir(t *testing.T) {
	resetViperForTest(t)
	t.Chdir(t.TempDir())

	viper.Set("storage.path", ":memory:")
	if got := GetStorageDir(); got != ":memory:" {
		t.Errorf("explicit path ignored: %q", got)
	}
	viper.Reset()

	t.Setenv("XDG_DATA_HOME", "/xdg")
	if got := GetStorageDir(); got != filepath.Join("/xdg", AppDirName) {
		t.Errorf("XDG path = %q", got)
	}

	if err := os.Mkdir(LocalDirName, 0o755); err != nil {
		t.Fatal(err)
	}
	if got := GetStorageDir(); got != filepath.Join(LocalDirName, "data") {
		t.Errorf("local dir must win over XDG: %q", got)
	}
}

func TestSaveGlobalLLMConfig(t *testing.T) {
	dir := t.TempDir()
	orig := GetGlobalConfigDir
	GetGlobalConfigDir = func() (string, error) { return dir, nil }
	t.Cleanup(func() { GetGlobalConfigDir = orig })

	if err := SetGlobalValue("telemetry.enabled", true); err != nil {
		t.Fatal(err)
	}
	if err := SaveGlobalLLMConfig("openai", "gpt-4o", "sk-a:b#c"); err != nil {
		t.Fatalf("SaveGlobalLLMConfig() error = %v", err)
	}
	if err := SaveGlobalLLMConfig("nope", "", ""); err == nil {
		t.Error("unsupported provider must be rejected")
	}

	path := filepath.Join(dir, ConfigFileName)
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatal(err)
	}
	if v.GetString("llm.apikeys.openai") != "sk-a:b#c" {
		t.Errorf("api key not round-tripped: %q", v.GetString("llm.apikeys.openai"))
	}
	if !v.GetBool("telemetry.enabled") {
		t.Error("existing settings must be preserved")
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("permissions = %o, want 600", info.Mode().Perm())
	}
}
