package driving

import (
	"context"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
)

// LibraryService exposes processed documents.
type LibraryService interface {
	// List returns the filenames of processed documents.
	List(ctx context.Context) ([]string, error)

	// Get returns one processed document.
	Get(ctx context.Context, filename string) (*domain.ProcessedDocument, error)
}
