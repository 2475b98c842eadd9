// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	ollamaembed "github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driven/llm/ollama"
	openaillm "github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driven/llm/openai"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/ports/driven"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/ratelimit"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// Services holds the model providers used by the pipeline.
type Services struct {
	Embedding driven.EmbeddingService
	LLM       driven.LLMService
}

// Close releases all resources held by Services.
func (s *Services) Close() {
	if s.Embedding != nil {
		s.Embedding.Close()
	}
	if s.LLM != nil {
		s.LLM.Close()
	}
}

// NewServices creates both providers from settings. Calls to the same
// provider share one rate limiter so a 429 on embeddings also slows generation.
func NewServices(settings domain.AppSettings) (*Services, error) {
	limiters := map[domain.AIProvider]*ratelimit.Limiter{}
	limiterFor := func(p domain.AIProvider) *ratelimit.Limiter {
		if l, ok := limiters[p]; ok {
			return l
		}
		l := ratelimit.New(ratelimit.Config{RequestsPerSecond: settings.LLM.RequestsPerSecond})
		limiters[p] = l
		return l
	}

	embedding, err := CreateEmbeddingService(&settings.Embedding, limiterFor(settings.Embedding.Provider))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	if embedding == nil {
		return nil, fmt.Errorf("%w: embedding provider %q is not configured",
			domain.ErrEmbeddingUnavailable, settings.Embedding.Provider)
	}

	llm, err := CreateLLMService(&settings.LLM, limiterFor(settings.LLM.Provider))
	if err != nil {
		embedding.Close()
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}
	if llm == nil {
		embedding.Close()
		return nil, fmt.Errorf("%w: LLM provider %q is not configured",
			domain.ErrLLMUnavailable, settings.LLM.Provider)
	}

	return &Services{Embedding: embedding, LLM: llm}, nil
}

// Validate pings both providers.
func (s *Services) Validate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := s.Embedding.Ping(ctx); err != nil {
		return fmt.Errorf("%w: service unreachable (%w). Check 'heartgpt config show'",
			domain.ErrEmbeddingUnavailable, err)
	}
	if err := s.LLM.Ping(ctx); err != nil {
		return fmt.Errorf("%w: service unreachable (%w). Check 'heartgpt config show'",
			domain.ErrLLMUnavailable, err)
	}
	return nil
}

// CreateEmbeddingService creates the appropriate embedding service based on settings.
// Returns nil if the provider is not configured.
func CreateEmbeddingService(settings *domain.EmbeddingSettings, limiter *ratelimit.Limiter) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return createOllamaEmbedding(settings, limiter), nil

	case domain.AIProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: settings.Dimensions,
			Limiter:    limiter,
		})

	case domain.AIProviderAnthropic:
		return nil, fmt.Errorf("anthropic does not support embeddings, use ollama or openai")

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateLLMService creates the appropriate LLM service based on settings.
// Returns nil if the provider is not configured.
func CreateLLMService(settings *domain.LLMSettings, limiter *ratelimit.Limiter) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Limiter: limiter,
		}), nil

	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Limiter: limiter,
		})

	case domain.AIProviderAnthropic:
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Limiter: limiter,
		})

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}

func createOllamaEmbedding(settings *domain.EmbeddingSettings, limiter *ratelimit.Limiter) driven.EmbeddingService {
	dimensions := settings.Dimensions
	if dimensions == 0 {
		dimensions = domain.EmbeddingDimensions()[settings.Model]
	}
	if dimensions == 0 {
		dimensions = ollamaembed.DefaultDimensions
	}

	return ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: dimensions,
		Limiter:    limiter,
	})
}
