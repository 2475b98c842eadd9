package driving

import (
	"context"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
)

// AnswerService answers natural-language queries from indexed chunks.
type AnswerService interface {
	// Answer retrieves relevant chunks and generates a reply.
	Answer(ctx context.Context, query string, opts domain.QueryOptions) (*domain.QueryResult, error)
}
