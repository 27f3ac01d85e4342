package llm

// Provider identifies a generative or embedding backend.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderOllama    Provider = "ollama"
	ProviderAnthropic Provider = "anthropic"
	ProviderGemini    Provider = "gemini"

	// ProviderTEI is Hugging Face Text Embeddings Inference. Embeddings only.
	ProviderTEI Provider = "tei"
)

// DefaultProvider is used when nothing is configured.
const DefaultProvider = ProviderOpenAI

const (
	DefaultOllamaURL = "http://localhost:11434"
	DefaultTEIURL    = "http://localhost:8080"
)

// Embedding model defaults per provider.
const (
	DefaultOpenAIEmbeddingModel = "text-embedding-3-small"
	DefaultOllamaEmbeddingModel = "nomic-embed-text"
	DefaultGeminiEmbeddingModel = "text-embedding-004"
)
