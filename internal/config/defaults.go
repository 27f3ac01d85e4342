// Package config loads Promptin settings from flags, environment variables
// and config files. All default values are defined here so there is a
// single source of truth.
package config

import "time"

// EnvPrefix prefixes every environment variable, e.g. PROMPTIN_LLM_PROVIDER.
const EnvPrefix = "PROMPTIN"

// File and directory names
const (
	AppDirName     = "promptin"
	LocalDirName   = ".promptin"
	ConfigFileName = "config.yaml"

	dataDirName = "data"
)

// Engine defaults
const (
	DefaultClassifyTimeout    = 10 * time.Second
	DefaultSynthTimeout       = 15 * time.Second
	DefaultEmbedBatchTimeout  = 5 * time.Second
	DefaultEmbedBatchSize     = 10
	DefaultEmbedConcurrency   = 4
	DefaultIntentCacheTTL     = time.Hour
	DefaultEmbeddingCacheTTL  = 24 * time.Hour
	DefaultCacheSize          = 1024
	DefaultSynthesisThreshold = 70
)

// Default tier models for OpenAI.
const (
	DefaultCheapModel   = "gpt-4o-mini"
	DefaultCodeModel    = "gpt-4-turbo"
	DefaultCapableModel = "gpt-4o"
)
