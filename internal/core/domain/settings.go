package domain

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// SupportsEmbeddings returns true if this provider offers an embeddings API.
func (p AIProvider) SupportsEmbeddings() bool {
	return p == AIProviderOllama || p == AIProviderOpenAI
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint override.
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Dimensions is the requested vector size.
	Dimensions int
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the default model name. Callers may override it per request.
	Model string

	// BaseURL is the API endpoint override.
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string

	// RequestsPerSecond throttles calls to the provider. Zero disables throttling.
	RequestsPerSecond float64
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// StoreBackend selects where originals and processed records are kept.
type StoreBackend string

// Available document store backends.
const (
	StoreFilesystem StoreBackend = "filesystem"
	StoreSQLite     StoreBackend = "sqlite"
	StoreBolt       StoreBackend = "bolt"
	StoreGCS        StoreBackend = "gcs"
	StoreMemory     StoreBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b StoreBackend) IsValid() bool {
	switch b {
	case StoreFilesystem, StoreSQLite, StoreBolt, StoreGCS, StoreMemory:
		return true
	default:
		return false
	}
}

// StoreSettings configures the document store.
type StoreSettings struct {
	Backend StoreBackend

	// Path is the directory or database file for local backends.
	Path string

	// Bucket is the GCS bucket name.
	Bucket string

	// CredentialsFile is a service account JSON file for GCS.
	CredentialsFile string

	// AccessToken is a static OAuth2 access token for GCS.
	AccessToken string
}

// IndexBackend selects the similarity index implementation.
type IndexBackend string

// Available vector index backends.
const (
	IndexSQLite   IndexBackend = "sqlite"
	IndexPostgres IndexBackend = "postgres"
	IndexQdrant   IndexBackend = "qdrant"
	IndexMemory   IndexBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b IndexBackend) IsValid() bool {
	switch b {
	case IndexSQLite, IndexPostgres, IndexQdrant, IndexMemory:
		return true
	default:
		return false
	}
}

// IndexSettings configures the similarity index.
type IndexSettings struct {
	Backend IndexBackend

	// Path is the sqlite database file.
	Path string

	// DSN is the Postgres connection string.
	DSN string

	// URL is the Qdrant base URL.
	URL string

	// APIKey is the Qdrant API key.
	APIKey string

	// Collection is the Qdrant collection or Postgres table name.
	Collection string
}

// DefaultServerAddr is the HTTP listen address when none is configured.
const DefaultServerAddr = ":8000"

// AppSettings holds all application settings.
type AppSettings struct {
	Embedding EmbeddingSettings
	LLM       LLMSettings
	Store     StoreSettings
	Index     IndexSettings

	// KeywordIndexPath enables the keyword index when non-empty.
	KeywordIndexPath string

	// ServerAddr is the HTTP listen address.
	ServerAddr string

	// LogFile mirrors log output to a file when non-empty.
	LogFile string
}

// DefaultAppSettings returns settings with sensible defaults.
// Paths are left empty and resolved against the data directory by the caller.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider:   AIProviderOpenAI,
			Model:      DefaultEmbeddingModel,
			Dimensions: DefaultEmbeddingDimensions,
		},
		LLM: LLMSettings{
			Provider:          AIProviderOpenAI,
			Model:             DefaultGeneratorModel,
			RequestsPerSecond: 5,
		},
		Store: StoreSettings{
			Backend: StoreFilesystem,
		},
		Index: IndexSettings{
			Backend:    IndexSQLite,
			Collection: "chunks",
		},
		ServerAddr: DefaultServerAddr,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: DefaultEmbeddingModel,
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2-vision",
		AIProviderOpenAI:    DefaultGeneratorModel,
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// EmbeddingDimensions returns the native vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
