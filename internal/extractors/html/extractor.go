// Package html extracts readable text from HTML pages.
package html

import (
	"context"
	"html"
	"regexp"
	"strings"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/ports/driven"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/extractors/plaintext"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

var (
	dropped       = regexp.MustCompile(`(?is)<(script|style|noscript|head|svg)\b[^>]*>.*?</(script|style|noscript|head|svg)>`)
	comments      = regexp.MustCompile(`(?s)<!--.*?-->`)
	paragraphs    = regexp.MustCompile(`(?i)</?(p|div|h[1-6]|blockquote|pre|table|section|article|ul|ol)\b[^>]*>`)
	lineBreaks    = regexp.MustCompile(`(?i)<(br|hr|li|tr)\b[^>]*>`)
	tags          = regexp.MustCompile(`<[^>]+>`)
	spaces        = regexp.MustCompile(`[ \t\f\v]+`)
	multiNewlines = regexp.MustCompile(`\n{3,}`)
)

// Extractor handles HTML.
type Extractor struct{}

// New creates a new HTML extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the handled extensions.
func (e *Extractor) Extensions() []string {
	return []string{"html", "htm"}
}

// Kind returns domain.KindText.
func (e *Extractor) Kind() domain.ContentKind {
	return domain.KindText
}

// Extract decodes data and reduces the markup to text.
func (e *Extractor) Extract(_ context.Context, filename string, data []byte) (*domain.ExtractedContent, error) {
	text, err := plaintext.Decode(filename, data)
	if err != nil {
		return nil, err
	}
	return &domain.ExtractedContent{
		Kind:     domain.KindText,
		Text:     Strip(text),
		MIMEType: "text/html; charset=utf-8",
	}, nil
}

// Strip removes markup. Block elements become blank lines so paragraph
// boundaries survive for chunking; list items and breaks become newlines.
func Strip(content string) string {
	content = dropped.ReplaceAllString(content, "")
	content = comments.ReplaceAllString(content, "")
	content = paragraphs.ReplaceAllString(content, "\n\n")
	content = lineBreaks.ReplaceAllString(content, "\n")
	content = tags.ReplaceAllString(content, "")
	content = html.UnescapeString(content)
	content = spaces.ReplaceAllString(content, " ")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	content = strings.Join(lines, "\n")
	content = multiNewlines.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}
