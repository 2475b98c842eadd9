package driven

import (
	"context"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
)

// Extractor normalises raw file bytes into text, pages or an image.
// Each extractor handles a fixed set of file extensions.
type Extractor interface {
	// Extensions returns the lower-case extensions handled, without the dot.
	Extensions() []string

	// Kind is the content kind Extract produces.
	Kind() domain.ContentKind

	// Extract normalises data. Invalid bytes yield domain.ErrDecode.
	Extract(ctx context.Context, filename string, data []byte) (*domain.ExtractedContent, error)
}

// ExtractorRegistry dispatches extraction by file extension.
type ExtractorRegistry interface {
	// Register adds an extractor for its extensions, replacing earlier ones.
	Register(e Extractor)

	// Detect returns the content kind a filename would produce,
	// domain.KindUnsupported when no extractor handles it.
	Detect(filename string) domain.ContentKind

	// Extract dispatches to the registered extractor.
	// Unknown extensions yield domain.ErrUnsupportedFormat.
	Extract(ctx context.Context, filename string, data []byte) (*domain.ExtractedContent, error)
}
