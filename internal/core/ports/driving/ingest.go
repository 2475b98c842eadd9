package driving

import (
	"context"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
)

// IngestService runs an uploaded file through the document pipeline.
type IngestService interface {
	// Ingest extracts, chunks, classifies, embeds and indexes one file,
	// then stores the original and the processed record.
	Ingest(ctx context.Context, filename string, data []byte) (*domain.UploadResult, error)

	// Supported reports whether the filename has an extension the pipeline accepts.
	Supported(filename string) bool
}
