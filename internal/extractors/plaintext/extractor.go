// Package plaintext extracts UTF-8 text files.
package plaintext

import (
	"bytes"
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Extractor handles plain text.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the handled extensions.
func (e *Extractor) Extensions() []string {
	return []string{"txt"}
}

// Kind returns domain.KindText.
func (e *Extractor) Kind() domain.ContentKind {
	return domain.KindText
}

// Extract validates data as UTF-8.
func (e *Extractor) Extract(_ context.Context, filename string, data []byte) (*domain.ExtractedContent, error) {
	text, err := Decode(filename, data)
	if err != nil {
		return nil, err
	}
	return &domain.ExtractedContent{
		Kind:     domain.KindText,
		Text:     text,
		MIMEType: "text/plain; charset=utf-8",
	}, nil
}

// Decode returns data as a string. A leading byte order mark is stripped
// and CRLF line endings are normalised.
func Decode(filename string, data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s is not valid UTF-8", domain.ErrDecode, filename)
	}
	return string(bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))), nil
}
