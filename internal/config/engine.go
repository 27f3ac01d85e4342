package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/Freekyn/Promptin/internal/retrieval"
	"github.com/Freekyn/Promptin/internal/scoring"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// EngineConfig holds timeouts, cache sizes and the synthesis threshold.
type EngineConfig struct {
	ClassifyTimeout    time.Duration `mapstructure:"classifyTimeout" validate:"gt=0"`
	SynthTimeout       time.Duration `mapstructure:"synthTimeout" validate:"gt=0"`
	EmbedBatchTimeout  time.Duration `mapstructure:"embedBatchTimeout" validate:"gt=0"`
	EmbedBatchSize     int           `mapstructure:"embedBatchSize" validate:"gt=0"`
	EmbedConcurrency   int           `mapstructure:"embedConcurrency" validate:"gt=0"`
	IntentCacheTTL     time.Duration `mapstructure:"intentCacheTTL" validate:"gt=0"`
	EmbeddingCacheTTL  time.Duration `mapstructure:"embeddingCacheTTL" validate:"gt=0"`
	CacheSize          int           `mapstructure:"cacheSize" validate:"gt=0"`
	SynthesisThreshold float64       `mapstructure:"synthesisThreshold" validate:"gte=0,lte=100"`
}

// DefaultEngineConfig returns the default engine configuration.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		ClassifyTimeout:    DefaultClassifyTimeout,
		SynthTimeout:       DefaultSynthTimeout,
		EmbedBatchTimeout:  DefaultEmbedBatchTimeout,
		EmbedBatchSize:     DefaultEmbedBatchSize,
		EmbedConcurrency:   DefaultEmbedConcurrency,
		IntentCacheTTL:     DefaultIntentCacheTTL,
		EmbeddingCacheTTL:  DefaultEmbeddingCacheTTL,
		CacheSize:          DefaultCacheSize,
		SynthesisThreshold: DefaultSynthesisThreshold,
	}
}

// LoadEngineConfig loads engine configuration from Viper with defaults.
func LoadEngineConfig() (EngineConfig, error) {
	d := DefaultEngineConfig()
	cfg := EngineConfig{
		ClassifyTimeout:   getDurationWithDefault("engine.classifyTimeout", d.ClassifyTimeout),
		SynthTimeout:      getDurationWithDefault("engine.synthTimeout", d.SynthTimeout),
		EmbedBatchTimeout: getDurationWithDefault("engine.embedBatchTimeout", d.EmbedBatchTimeout),
		EmbedBatchSize:    getIntWithDefault("engine.embedBatchSize", d.EmbedBatchSize),
		EmbedConcurrency:  getIntWithDefault("engine.embedConcurrency", d.EmbedConcurrency),
		IntentCacheTTL:    getDurationWithDefault("engine.intentCacheTTL", d.IntentCacheTTL),
		EmbeddingCacheTTL: getDurationWithDefault("engine.embeddingCacheTTL", d.EmbeddingCacheTTL),
		CacheSize:         getIntWithDefault("engine.cacheSize", d.CacheSize),
		// Lives under retrieval because it gates what retrieval found.
		SynthesisThreshold: getFloat64WithDefault("retrieval.synthesisThreshold", d.SynthesisThreshold),
	}
	if err := validate.Struct(cfg); err != nil {
		return EngineConfig{}, fmt.Errorf("invalid engine config: %w", err)
	}
	return cfg, nil
}

// LoadRetrievalOptions loads retrieval tuning. Batch settings come from the
// engine section.
func LoadRetrievalOptions(engine EngineConfig) (retrieval.Options, error) {
	d := retrieval.DefaultOptions()
	opts := retrieval.Options{
		TopKeywords:           getIntWithDefault("retrieval.topKeywords", d.TopKeywords),
		MaxPerKeyword:         getIntWithDefault("retrieval.maxPerKeyword", d.MaxPerKeyword),
		Threshold:             getFloat64WithDefault("retrieval.threshold", d.Threshold),
		SemanticMinScore:      getFloat64WithDefault("retrieval.semanticMinScore", d.SemanticMinScore),
		SemanticMinCandidates: getIntWithDefault("retrieval.semanticMinCandidates", d.SemanticMinCandidates),
		SimilarityThreshold:   getFloat64WithDefault("retrieval.similarityThreshold", d.SimilarityThreshold),
		BatchSize:             engine.EmbedBatchSize,
		BatchTimeout:          engine.EmbedBatchTimeout,
		Concurrency:           engine.EmbedConcurrency,
		PrefilterFallback:     d.PrefilterFallback,
	}
	if err := validate.Struct(opts); err != nil {
		return retrieval.Options{}, fmt.Errorf("invalid retrieval config: %w", err)
	}
	return opts, nil
}

// LoadScoringWeights loads the six factor weights; they must sum to 1.
func LoadScoringWeights() (scoring.Weights, error) {
	d := scoring.DefaultWeights()
	if !viper.IsSet("scoring.weights") {
		return d, nil
	}
	w := d
	if err := viper.UnmarshalKey("scoring.weights", &w); err != nil {
		return scoring.Weights{}, fmt.Errorf("decode scoring weights: %w", err)
	}
	if err := validate.Struct(w); err != nil {
		return scoring.Weights{}, fmt.Errorf("invalid scoring weights: %w", err)
	}
	if err := w.Validate(); err != nil {
		return scoring.Weights{}, err
	}
	return w, nil
}

// StorageConfig locates the corpus database and seed file.
type StorageConfig struct {
	Dir             string // sqlite directory, or ":memory:"
	Seed            string // optional YAML/JSON seed file
	Watch           bool   // reload the seed file when it changes
	PersistFeedback bool
}

// LoadStorageConfig loads storage configuration from Viper with defaults.
func LoadStorageConfig() StorageConfig {
	return StorageConfig{
		Dir:             GetStorageDir(),
		Seed:            GetSeedPath(),
		Watch:           getBoolWithDefault("storage.watch", false),
		PersistFeedback: getBoolWithDefault("feedback.persist", true),
	}
}

// Helper functions for Viper with defaults

func getFloat64WithDefault(key string, defaultVal float64) float64 {
	if viper.IsSet(key) {
		return viper.GetFloat64(key)
	}
	return defaultVal
}

func getIntWithDefault(key string, defaultVal int) int {
	if viper.IsSet(key) {
		return viper.GetInt(key)
	}
	return defaultVal
}

func getBoolWithDefault(key string, defaultVal bool) bool {
	if viper.IsSet(key) {
		return viper.GetBool(key)
	}
	return defaultVal
}

func getStringWithDefault(key string, defaultVal string) string {
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultVal
}

func getDurationWithDefault(key string, defaultVal time.Duration) time.Duration {
	if viper.IsSet(key) {
		return viper.GetDuration(key)
	}
	return defaultVal
}
