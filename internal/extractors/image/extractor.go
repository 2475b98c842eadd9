// Package image passes image bytes through for vision classification.
package image

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles JPEG and PNG images.
type Extractor struct{}

// New creates a new image extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the handled extensions.
func (e *Extractor) Extensions() []string {
	return []string{"jpg", "jpeg", "png"}
}

// Kind returns domain.KindImage.
func (e *Extractor) Kind() domain.ContentKind {
	return domain.KindImage
}

// Extract sniffs the content type and rejects bytes that are not an image.
func (e *Extractor) Extract(_ context.Context, filename string, data []byte) (*domain.ExtractedContent, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", domain.ErrDecode, filename)
	}

	mimeType := http.DetectContentType(data)
	if mimeType != "image/jpeg" && mimeType != "image/png" {
		return nil, fmt.Errorf("%w: %s does not look like a JPEG or PNG (%s)",
			domain.ErrDecode, filename, strings.SplitN(mimeType, ";", 2)[0])
	}

	return &domain.ExtractedContent{
		Kind:     domain.KindImage,
		Image:    data,
		MIMEType: mimeType,
	}, nil
}
