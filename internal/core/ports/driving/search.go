package driving

import (
	"context"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/ports/driven"
)

// SearchService provides keyword search over chunk text.
type SearchService interface {
	// Search returns chunks whose text matches the query terms.
	Search(ctx context.Context, query string, limit int) ([]driven.KeywordHit, error)
}
