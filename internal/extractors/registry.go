package extractors

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/ports/driven"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/extractors/docx"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/extractors/html"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/extractors/image"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/extractors/markdown"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/extractors/pdf"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/extractors/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry maps file extensions to extractors.
type Registry struct {
	mu         sync.RWMutex
	extractors map[string]driven.Extractor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		extractors: make(map[string]driven.Extractor),
	}
}

// NewDefaultRegistry creates a registry with all built-in extractors.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(pdf.New())
	r.Register(docx.New())
	r.Register(plaintext.New())
	r.Register(markdown.New())
	r.Register(html.New())
	r.Register(image.New())
	return r
}

// Register adds an extractor for each of its extensions.
func (r *Registry) Register(e driven.Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ext := range e.Extensions() {
		r.extractors[strings.ToLower(ext)] = e
	}
}

// Detect returns the content kind for filename.
func (r *Registry) Detect(filename string) domain.ContentKind {
	e, ok := r.lookup(filename)
	if !ok {
		return domain.KindUnsupported
	}
	return e.Kind()
}

// Extract dispatches to the extractor registered for filename's extension.
func (r *Registry) Extract(ctx context.Context, filename string, data []byte) (*domain.ExtractedContent, error) {
	e, ok := r.lookup(filename)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, filename)
	}
	return e.Extract(ctx, filename, data)
}

// Extensions returns all registered extensions, sorted.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exts := make([]string, 0, len(r.extractors))
	for ext := range r.extractors {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

func (r *Registry) lookup(filename string) (driven.Extractor, bool) {
	ext := Ext(filename)
	if ext == "" {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.extractors[ext]
	return e, ok
}

// Ext returns the lower-case extension of filename without the dot.
func Ext(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}
