package file

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/ports/driven"
)

// Config keys, in dot notation.
const (
	KeyEmbeddingProvider   = "embedding.provider"
	KeyEmbeddingModel      = "embedding.model"
	KeyEmbeddingBaseURL    = "embedding.base_url"
	KeyEmbeddingAPIKey     = "embedding.api_key"
	KeyEmbeddingDimensions = "embedding.dimensions"

	KeyLLMProvider          = "llm.provider"
	KeyLLMModel             = "llm.model"
	KeyLLMBaseURL           = "llm.base_url"
	KeyLLMAPIKey            = "llm.api_key"
	KeyLLMRequestsPerSecond = "llm.requests_per_second"

	KeyStoreBackend         = "store.backend"
	KeyStorePath            = "store.path"
	KeyStoreBucket          = "store.bucket"
	KeyStoreCredentialsFile = "store.credentials_file"
	KeyStoreAccessToken     = "store.access_token"

	KeyIndexBackend    = "index.backend"
	KeyIndexPath       = "index.path"
	KeyIndexDSN        = "index.dsn"
	KeyIndexURL        = "index.url"
	KeyIndexAPIKey     = "index.api_key"
	KeyIndexCollection = "index.collection"

	KeyKeywordPath = "keyword.path"
	KeyServerAddr  = "server.addr"
	KeyLogFile     = "log.file"

	KeyChunkSize          = "pipeline.chunk_size"
	KeyChunkOverlap       = "pipeline.chunk_overlap"
	KeyTopK               = "pipeline.top_k"
	KeyMaxContextChars    = "pipeline.max_context_chars"
	KeyMaxTags            = "pipeline.max_tags"
	KeyClassifyInputChars = "pipeline.classify_input_chars"
	KeyConcurrency        = "pipeline.concurrency"
	KeySummarise          = "pipeline.summarise"

	KeyClassifierModel = "models.classifier"
	KeyVisionModel     = "models.vision"
	KeyGeneratorModel  = "models.generator"

	KeyRetryMaxAttempts    = "retry.max_attempts"
	KeyRetryInitialBackoff = "retry.initial_backoff"
	KeyRetryMaxBackoff     = "retry.max_backoff"

	KeyTaxonomyFile = "taxonomy_file"
)

// LoadSettings maps the config store and environment onto provider and
// backend settings. Values in the config file take precedence over the
// environment.
func LoadSettings(store driven.ConfigStore, env Env) (domain.AppSettings, error) {
	s := domain.DefaultAppSettings()

	if v := store.GetString(KeyEmbeddingProvider); v != "" {
		s.Embedding.Provider = domain.AIProvider(v)
		s.Embedding.Model = domain.DefaultEmbeddingModels()[s.Embedding.Provider]
	}
	if !s.Embedding.Provider.SupportsEmbeddings() {
		return s, fmt.Errorf("%w: %s does not provide embeddings", domain.ErrInvalidInput, s.Embedding.Provider)
	}
	setString(store, KeyEmbeddingModel, &s.Embedding.Model)
	setString(store, KeyEmbeddingBaseURL, &s.Embedding.BaseURL)
	setString(store, KeyEmbeddingAPIKey, &s.Embedding.APIKey)
	if n := store.GetInt(KeyEmbeddingDimensions); n > 0 {
		s.Embedding.Dimensions = n
	} else if s.Embedding.Provider != domain.AIProviderOpenAI {
		// Only OpenAI can shorten vectors, others return their native size.
		if n, ok := domain.EmbeddingDimensions()[s.Embedding.Model]; ok {
			s.Embedding.Dimensions = n
		}
	}

	if v := store.GetString(KeyLLMProvider); v != "" {
		s.LLM.Provider = domain.AIProvider(v)
		s.LLM.Model = domain.DefaultLLMModels()[s.LLM.Provider]
	}
	if !s.LLM.Provider.IsValid() {
		return s, fmt.Errorf("%w: unknown LLM provider %q", domain.ErrInvalidInput, s.LLM.Provider)
	}
	setString(store, KeyLLMModel, &s.LLM.Model)
	setString(store, KeyLLMBaseURL, &s.LLM.BaseURL)
	setString(store, KeyLLMAPIKey, &s.LLM.APIKey)
	if f, ok := store.GetFloat(KeyLLMRequestsPerSecond); ok {
		s.LLM.RequestsPerSecond = f
	}

	if v := store.GetString(KeyStoreBackend); v != "" {
		s.Store.Backend = domain.StoreBackend(v)
	}
	if !s.Store.Backend.IsValid() {
		return s, fmt.Errorf("%w: unknown store backend %q", domain.ErrInvalidInput, s.Store.Backend)
	}
	setString(store, KeyStorePath, &s.Store.Path)
	setString(store, KeyStoreBucket, &s.Store.Bucket)
	setString(store, KeyStoreCredentialsFile, &s.Store.CredentialsFile)
	setString(store, KeyStoreAccessToken, &s.Store.AccessToken)

	if v := store.GetString(KeyIndexBackend); v != "" {
		s.Index.Backend = domain.IndexBackend(v)
	}
	if !s.Index.Backend.IsValid() {
		return s, fmt.Errorf("%w: unknown index backend %q", domain.ErrInvalidInput, s.Index.Backend)
	}
	setString(store, KeyIndexPath, &s.Index.Path)
	setString(store, KeyIndexDSN, &s.Index.DSN)
	setString(store, KeyIndexURL, &s.Index.URL)
	setString(store, KeyIndexAPIKey, &s.Index.APIKey)
	setString(store, KeyIndexCollection, &s.Index.Collection)

	setString(store, KeyKeywordPath, &s.KeywordIndexPath)
	setString(store, KeyServerAddr, &s.ServerAddr)
	setString(store, KeyLogFile, &s.LogFile)

	applyEnv(&s, env)
	return s, nil
}

// applyEnv fills settings the config file left empty.
func applyEnv(s *domain.AppSettings, env Env) {
	if env == nil {
		return
	}
	keyFor := func(p domain.AIProvider) string {
		switch p {
		case domain.AIProviderOpenAI:
			return env(EnvOpenAIKey)
		case domain.AIProviderAnthropic:
			return env(EnvAnthropicKey)
		default:
			return ""
		}
	}
	fill := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}

	fill(&s.Embedding.APIKey, keyFor(s.Embedding.Provider))
	fill(&s.LLM.APIKey, keyFor(s.LLM.Provider))
	if s.Embedding.Provider == domain.AIProviderOllama {
		fill(&s.Embedding.BaseURL, env(EnvOllamaHost))
	}
	if s.LLM.Provider == domain.AIProviderOllama {
		fill(&s.LLM.BaseURL, env(EnvOllamaHost))
	}
	fill(&s.Store.Bucket, env(EnvGCSBucket))
	fill(&s.Store.AccessToken, env(EnvGCSToken))
	fill(&s.Store.CredentialsFile, env(EnvGCSCreds))
	fill(&s.Index.DSN, env(EnvDatabaseURL))
	fill(&s.Index.URL, env(EnvQdrantURL))
	fill(&s.Index.APIKey, env(EnvQdrantKey))
}

// LoadConfig builds the pipeline configuration from the config store and
// the already-resolved settings. Relative taxonomy paths resolve against
// the config file's directory.
func LoadConfig(store driven.ConfigStore, settings domain.AppSettings) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	setInt(store, KeyChunkSize, &cfg.ChunkSize)
	setInt(store, KeyChunkOverlap, &cfg.ChunkOverlap)
	setInt(store, KeyTopK, &cfg.TopK)
	setInt(store, KeyMaxContextChars, &cfg.MaxContextChars)
	setInt(store, KeyMaxTags, &cfg.MaxTags)
	setInt(store, KeyClassifyInputChars, &cfg.ClassifyInputChars)
	setInt(store, KeyConcurrency, &cfg.Concurrency)
	if b, ok := store.GetBool(KeySummarise); ok {
		cfg.Summarise = b
	}

	cfg.EmbeddingModel = settings.Embedding.Model
	cfg.EmbeddingDimensions = settings.Embedding.Dimensions

	// The built-in model ids are OpenAI's. Other providers use their own
	// model for every capability unless told otherwise.
	if settings.LLM.Provider != domain.AIProviderOpenAI {
		cfg.ClassifierModel = settings.LLM.Model
		cfg.VisionModel = settings.LLM.Model
	}
	cfg.GeneratorModel = settings.LLM.Model
	setString(store, KeyClassifierModel, &cfg.ClassifierModel)
	setString(store, KeyVisionModel, &cfg.VisionModel)
	setString(store, KeyGeneratorModel, &cfg.GeneratorModel)

	setInt(store, KeyRetryMaxAttempts, &cfg.Retry.MaxAttempts)
	if err := setDuration(store, KeyRetryInitialBackoff, &cfg.Retry.InitialBackoff); err != nil {
		return cfg, err
	}
	if err := setDuration(store, KeyRetryMaxBackoff, &cfg.Retry.MaxBackoff); err != nil {
		return cfg, err
	}

	if path := store.GetString(KeyTaxonomyFile); path != "" {
		if !filepath.IsAbs(path) {
			path = filepath.Join(filepath.Dir(store.Path()), path)
		}
		tax, err := LoadTaxonomy(path)
		if err != nil {
			return cfg, err
		}
		cfg.Taxonomy = tax
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func setString(store driven.ConfigStore, key string, dst *string) {
	if v := store.GetString(key); v != "" {
		*dst = v
	}
}

func setInt(store driven.ConfigStore, key string, dst *int) {
	if _, ok := store.Get(key); ok {
		*dst = store.GetInt(key)
	}
}

func setDuration(store driven.ConfigStore, key string, dst *time.Duration) error {
	d, err := store.GetDuration(key)
	if err != nil {
		return err
	}
	if d != 0 {
		*dst = d
	}
	return nil
}
