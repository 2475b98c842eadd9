// Package pdf extracts per-page text from PDF files using pdftotext (poppler).
package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// ErrPDFToolNotFound is returned when pdftotext is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

// pageBreak separates pages in pdftotext output.
const pageBreak = "\f"

// CommandRunner runs an external command and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	if _, err := exec.LookPath(name); err != nil {
		return nil, ErrPDFToolNotFound
	}
	return exec.CommandContext(ctx, name, args...).Output()
}

// Extractor handles PDF documents.
type Extractor struct {
	runner CommandRunner
}

// New creates a PDF extractor that shells out to pdftotext.
func New() *Extractor {
	return &Extractor{runner: execRunner{}}
}

// NewWithRunner creates a PDF extractor with a custom command runner.
func NewWithRunner(runner CommandRunner) *Extractor {
	return &Extractor{runner: runner}
}

// Extensions returns the handled extensions.
func (e *Extractor) Extensions() []string {
	return []string{"pdf"}
}

// Kind returns domain.KindPagedText.
func (e *Extractor) Kind() domain.ContentKind {
	return domain.KindPagedText
}

// Extract runs pdftotext once over the whole document and splits the output
// on form feeds. Blank pages are kept as empty strings so page numbers stay
// aligned with the source.
func (e *Extractor) Extract(ctx context.Context, filename string, data []byte) (*domain.ExtractedContent, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", domain.ErrDecode, filename)
	}

	tmp, err := os.CreateTemp("", "heartgpt-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	out, err := e.runner.Run(ctx, "pdftotext", "-layout", "-enc", "UTF-8", tmp.Name(), "-")
	if err != nil {
		if errors.Is(err, ErrPDFToolNotFound) {
			return nil, fmt.Errorf("%w\n%s", err, InstallInstructions())
		}
		return nil, fmt.Errorf("%w: pdftotext failed on %s: %v", domain.ErrDecode, filename, err)
	}

	return &domain.ExtractedContent{
		Kind:     domain.KindPagedText,
		Pages:    SplitPages(string(out)),
		MIMEType: "application/pdf",
	}, nil
}

// SplitPages splits pdftotext output into pages. pdftotext terminates every
// page with a form feed, so the empty segment after the last one is dropped.
func SplitPages(out string) []string {
	if out == "" {
		return nil
	}
	pages := strings.Split(out, pageBreak)
	if len(pages) > 1 && strings.TrimSpace(pages[len(pages)-1]) == "" {
		pages = pages[:len(pages)-1]
	}
	for i, p := range pages {
		pages[i] = strings.TrimSpace(p)
	}
	return pages
}

// InstallInstructions returns platform hints for installing pdftotext.
func InstallInstructions() string {
	return `pdftotext is part of poppler-utils. Install it with:
  macOS:         brew install poppler
  Debian/Ubuntu: sudo apt-get install poppler-utils
  Fedora:        sudo dnf install poppler-utils`
}
