package driven

import (
	"context"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
)

// DocumentStore persists original uploads and processed records.
//
// Paths follow the layout documents/<filename> for originals and
// processed/<filename>.json for processed records. Writes are atomic per
// path; a second write for the same filename fully replaces the first.
type DocumentStore interface {
	// UploadOriginal stores the uploaded bytes and returns their path.
	UploadOriginal(ctx context.Context, filename string, data []byte) (string, error)

	// StoreProcessed stores the processed record and returns its path.
	StoreProcessed(ctx context.Context, doc *domain.ProcessedDocument) (string, error)

	// ListProcessed returns the filenames that have a processed record.
	ListProcessed(ctx context.Context) ([]string, error)

	// GetProcessed returns a processed record, domain.ErrNotFound if absent.
	GetProcessed(ctx context.Context, filename string) (*domain.ProcessedDocument, error)

	// Close releases resources.
	Close() error
}
