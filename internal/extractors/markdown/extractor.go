// Package markdown extracts readable text from Markdown files.
package markdown

import (
	"context"
	"regexp"
	"strings"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/ports/driven"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/extractors/plaintext"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

var (
	codeFence     = regexp.MustCompile("(?s)```[^\n]*\n(.*?)```")
	inlineCode    = regexp.MustCompile("`([^`]+)`")
	images        = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	links         = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	headings      = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	emphasis      = regexp.MustCompile(`(\*\*|__|\*|\b_)([^*_\n]+)(\*\*|__|\*|_\b)`)
	blockquote    = regexp.MustCompile(`(?m)^>\s?`)
	rule          = regexp.MustCompile(`(?m)^\s*([-*_]\s*){3,}$`)
	bullets       = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	numbered      = regexp.MustCompile(`(?m)^\s*\d+[.)]\s+`)
	multiNewlines = regexp.MustCompile(`\n{3,}`)
)

// Extractor handles Markdown.
type Extractor struct{}

// New creates a new Markdown extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the handled extensions.
func (e *Extractor) Extensions() []string {
	return []string{"md", "markdown"}
}

// Kind returns domain.KindText.
func (e *Extractor) Kind() domain.ContentKind {
	return domain.KindText
}

// Extract decodes data and strips Markdown syntax. Paragraph breaks are
// kept so the chunker still sees them.
func (e *Extractor) Extract(_ context.Context, filename string, data []byte) (*domain.ExtractedContent, error) {
	text, err := plaintext.Decode(filename, data)
	if err != nil {
		return nil, err
	}
	return &domain.ExtractedContent{
		Kind:     domain.KindText,
		Text:     Strip(text),
		MIMEType: "text/markdown; charset=utf-8",
	}, nil
}

// Strip removes common Markdown formatting. Code blocks keep their
// contents and links keep their text.
func Strip(content string) string {
	content = codeFence.ReplaceAllString(content, "$1")
	content = inlineCode.ReplaceAllString(content, "$1")
	content = images.ReplaceAllString(content, "")
	content = links.ReplaceAllString(content, "$1")
	content = headings.ReplaceAllString(content, "")
	content = rule.ReplaceAllString(content, "")
	content = emphasis.ReplaceAllString(content, "$2")
	content = blockquote.ReplaceAllString(content, "")
	content = bullets.ReplaceAllString(content, "")
	content = numbered.ReplaceAllString(content, "")
	content = multiNewlines.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}
