// Package bleve implements the keyword index on a bleve full-text index.
package bleve

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.KeywordIndex = (*Index)(nil)

// document is the indexed shape of a chunk.
type document struct {
	Filename string   `json:"filename"`
	Text     string   `json:"text"`
	Summary  string   `json:"summary"`
	Tags     []string `json:"tags"`
}

// Index is a bleve-backed driven.KeywordIndex.
type Index struct {
	index bleve.Index
}

// Open opens the index at dir, creating it when missing.
// An empty dir gives an in-memory index.
func Open(dir string) (*Index, error) {
	if dir == "" {
		idx, err := bleve.NewMemOnly(buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create bleve index: %w", err)
		}
		return &Index{index: idx}, nil
	}

	idx, err := bleve.Open(dir)
	if err == nil {
		return &Index{index: idx}, nil
	}
	if !errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
		return nil, fmt.Errorf("open bleve index: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(dir), 0o700); err != nil {
		return nil, fmt.Errorf("create index dir: %w", err)
	}
	idx, err = bleve.New(dir, buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create bleve index: %w", err)
	}
	return &Index{index: idx}, nil
}

// Index adds or replaces chunks in one batch.
func (i *Index) Index(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	batch := i.index.NewBatch()
	for _, c := range chunks {
		doc := document{
			Filename: c.SourceFilename,
			Text:     c.Text,
			Summary:  c.Summary,
			Tags:     domain.Strings(c.Tags),
		}
		if err := batch.Index(c.ID, doc); err != nil {
			return fmt.Errorf("index %s: %w", c.ID, err)
		}
	}
	if err := i.index.Batch(batch); err != nil {
		return fmt.Errorf("apply batch: %w", err)
	}
	return nil
}

// Search matches the query against chunk text, summary and filename.
func (i *Index) Search(ctx context.Context, query string, limit int) ([]driven.KeywordHit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = 10
	}

	textQuery := bleve.NewMatchQuery(query)
	textQuery.SetField("text")
	summaryQuery := bleve.NewMatchQuery(query)
	summaryQuery.SetField("summary")
	filenameQuery := bleve.NewMatchQuery(query)
	filenameQuery.SetField("filename")
	disjunction := bleve.NewDisjunctionQuery(textQuery, summaryQuery, filenameQuery)

	req := bleve.NewSearchRequestOptions(disjunction, limit, 0, false)
	req.Fields = []string{"filename", "text", "tags"}

	res, err := i.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	hits := make([]driven.KeywordHit, 0, len(res.Hits))
	for _, h := range res.Hits {
		filename, _ := h.Fields["filename"].(string)
		text, _ := h.Fields["text"].(string)
		tags := domain.DecodeTags(h.Fields["tags"])
		if tags == nil {
			tags = []string{}
		}
		hits = append(hits, driven.KeywordHit{
			ChunkID:  h.ID,
			Filename: filename,
			Text:     text,
			Tags:     tags,
			Score:    h.Score,
		})
	}
	return hits, nil
}

// Delete removes chunks by id. Missing ids are ignored.
func (i *Index) Delete(_ context.Context, chunkIDs []string) error {
	if len(chunkIDs) == 0 {
		return nil
	}
	batch := i.index.NewBatch()
	for _, id := range chunkIDs {
		batch.Delete(id)
	}
	if err := i.index.Batch(batch); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

// Count returns the number of indexed chunks.
func (i *Index) Count() (uint64, error) {
	return i.index.DocCount()
}

// Close closes the underlying index.
func (i *Index) Close() error {
	return i.index.Close()
}

func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = "en"
	indexMapping.DefaultField = "text"

	docMapping := bleve.NewDocumentMapping()

	textField := bleve.NewTextFieldMapping()
	textField.Store = true
	textField.Index = true
	docMapping.AddFieldMappingsAt("text", textField)

	summaryField := bleve.NewTextFieldMapping()
	summaryField.Store = false
	summaryField.Index = true
	docMapping.AddFieldMappingsAt("summary", summaryField)

	filenameField := bleve.NewTextFieldMapping()
	filenameField.Store = true
	filenameField.Index = true
	docMapping.AddFieldMappingsAt("filename", filenameField)

	tagsField := bleve.NewTextFieldMapping()
	tagsField.Store = true
	tagsField.Index = true
	tagsField.Analyzer = "keyword"
	docMapping.AddFieldMappingsAt("tags", tagsField)

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}
