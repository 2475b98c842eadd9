package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/chunker"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/ports/driven"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/ports/driving"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService runs the document pipeline:
// extract, chunk, classify, embed, index, store.
type IngestService struct {
	extractors driven.ExtractorRegistry
	classifier *Classifier
	gateway    *Gateway
	store      driven.DocumentStore
	keyword    driven.KeywordIndex
	chunker    *chunker.Chunker
	cfg        domain.Config
	now        func() time.Time
}

// NewIngestService creates an ingest service.
func NewIngestService(
	extractors driven.ExtractorRegistry,
	classifier *Classifier,
	gateway *Gateway,
	store driven.DocumentStore,
	cfg domain.Config,
) *IngestService {
	return &IngestService{
		extractors: extractors,
		classifier: classifier,
		gateway:    gateway,
		store:      store,
		chunker:    chunker.New(chunker.WithChunkSize(cfg.ChunkSize), chunker.WithOverlap(cfg.ChunkOverlap)),
		cfg:        cfg,
		now:        time.Now,
	}
}

// SetKeywordIndex enables keyword indexing of chunk text. Optional.
func (s *IngestService) SetKeywordIndex(idx driven.KeywordIndex) {
	s.keyword = idx
}

// Supported reports whether filename has a known extension.
func (s *IngestService) Supported(filename string) bool {
	return s.extractors.Detect(filename) != domain.KindUnsupported
}

// Ingest processes one uploaded file end to end.
//
// Chunk-local classification failures are absorbed (empty tags). Extraction,
// embedding, index and storage failures abort the document. There is no
// rollback: chunks upserted before a failure stay in the index and are
// overwritten by id when the upload is retried.
func (s *IngestService) Ingest(ctx context.Context, filename string, data []byte) (*domain.UploadResult, error) {
	logger.Section("Ingest")

	name, err := cleanFilename(filename)
	if err != nil {
		return nil, err
	}
	logger.Info("Processing %s (%d bytes)", name, len(data))

	// 1. Detect format
	if s.extractors.Detect(name) == domain.KindUnsupported {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, name)
	}

	// 2. Extract
	content, err := s.extractors.Extract(ctx, name, data)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", name, err)
	}

	// 3. Store original
	storagePath, err := s.store.UploadOriginal(ctx, name, data)
	if err != nil {
		return nil, fmt.Errorf("store original %s: %w", name, err)
	}
	logger.Debug("Original stored at %s", storagePath)

	// 4. Chunk
	segments := s.segments(content)
	logger.Debug("%d chunks from %s content (size %d, overlap %d)",
		len(segments), content.Kind, s.chunker.ChunkSize(), s.chunker.Overlap())

	// 5. Classify each chunk concurrently
	chunks, err := s.processChunks(ctx, name, content, segments)
	if err != nil {
		return nil, err
	}

	// 6. Embed every chunk text in one batch
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	var vectors [][]float32
	if len(texts) > 0 {
		err = Retry(ctx, s.cfg.Retry, "embed "+name, func(ctx context.Context) error {
			var err error
			vectors, err = s.gateway.EmbedBatch(ctx, texts)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("embed %s: %w", name, err)
		}
	}

	// 7. Index
	err = Retry(ctx, s.cfg.Retry, "upsert", func(ctx context.Context) error {
		return s.gateway.UpsertBatch(ctx, chunks, vectors)
	})
	if err != nil {
		return nil, err
	}
	s.deleteStaleChunks(ctx, name, len(chunks))

	if s.keyword != nil {
		if err := s.keyword.Index(ctx, chunks); err != nil {
			logger.Warn("Keyword indexing failed for %s: %v", name, err)
		}
	}

	// 8. Store processed record
	processed := &domain.ProcessedDocument{
		Filename:      name,
		StoragePath:   storagePath,
		Chunks:        chunks,
		ProcessedDate: s.now().UTC(),
	}
	processed.Tags = s.cfg.Taxonomy.Group(processed.AllTags())

	if _, err := s.store.StoreProcessed(ctx, processed); err != nil {
		return nil, fmt.Errorf("store processed %s: %w", name, err)
	}

	logger.Info("Processed %s: %d chunks", name, len(chunks))
	return &domain.UploadResult{
		Filename:        name,
		ChunksProcessed: len(chunks),
		Tags:            processed.Tags,
		StoragePath:     storagePath,
	}, nil
}

func (s *IngestService) segments(content *domain.ExtractedContent) []chunker.Segment {
	switch content.Kind {
	case domain.KindPagedText:
		return s.chunker.Pages(content.Pages)
	case domain.KindImage:
		return []chunker.Segment{{}}
	default:
		return s.chunker.Segments(content.Text)
	}
}

// processChunks fans out one classification task per segment, bounded by Config.Concurrency,
// and joins before returning. Results keep segment order. The first
// document-level error cancels the remaining tasks.
func (s *IngestService) processChunks(
	ctx context.Context,
	filename string,
	content *domain.ExtractedContent,
	segments []chunker.Segment,
) ([]domain.Chunk, error) {
	parent := ctx
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	results := make([]domain.Chunk, len(segments))
	sem := make(chan struct{}, max(s.cfg.Concurrency, 1))

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)

	for i, seg := range segments {
		wg.Add(1)
		go func(i int, seg chunker.Segment) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			c, err := s.processChunk(ctx, filename, i, seg, content)
			if err != nil {
				errOnce.Do(func() {
					firstErr = err
					cancel()
				})
				return
			}
			results[i] = c
		}(i, seg)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, fmt.Errorf("process %s: %w", filename, firstErr)
	}
	if err := parent.Err(); err != nil {
		return nil, fmt.Errorf("process %s: %w", filename, err)
	}
	return results, nil
}

func (s *IngestService) processChunk(
	ctx context.Context,
	filename string,
	index int,
	seg chunker.Segment,
	content *domain.ExtractedContent,
) (domain.Chunk, error) {
	chunk := domain.Chunk{
		ID:             domain.ChunkID(filename, index),
		Index:          index,
		Text:           seg.Text,
		SourceFilename: filename,
		Page:           seg.Page,
	}

	if content.Kind == domain.KindImage {
		text, tags := s.classifier.ClassifyImage(ctx, driven.Image{MIMEType: content.MIMEType, Data: content.Image})
		if text == "" {
			text = "[image] " + filename
		}
		chunk.Text = text
		chunk.Tags = tags
	} else {
		chunk.Tags = s.classifier.Classify(ctx, chunk.Text)
	}

	if s.cfg.Summarise {
		chunk.Summary, chunk.Context = s.classifier.Summarize(ctx, chunk.Text)
	}

	if err := ctx.Err(); err != nil {
		return domain.Chunk{}, err
	}

	logger.Debug("Chunk %s: %d tags", chunk.ID, len(chunk.Tags))
	return chunk, nil
}

// deleteStaleChunks removes index entries left over from a previous upload
// of the same file that produced more chunks.
func (s *IngestService) deleteStaleChunks(ctx context.Context, filename string, count int) {
	prev, err := s.store.GetProcessed(ctx, filename)
	if err != nil || prev == nil || len(prev.Chunks) <= count {
		return
	}

	stale := make([]string, 0, len(prev.Chunks)-count)
	for i := count; i < len(prev.Chunks); i++ {
		stale = append(stale, domain.ChunkID(filename, i))
	}
	if err := s.gateway.Delete(ctx, stale); err != nil {
		logger.Warn("Failed to delete %d stale chunks of %s: %v", len(stale), filename, err)
		return
	}
	if s.keyword != nil {
		if err := s.keyword.Delete(ctx, stale); err != nil {
			logger.Warn("Failed to delete stale keyword entries of %s: %v", filename, err)
		}
	}
	logger.Debug("Deleted %d stale chunks of %s", len(stale), filename)
}

// cleanFilename reduces filename to its base name and rejects empty or
// traversal names.
func cleanFilename(filename string) (string, error) {
	name := filepath.Base(strings.ReplaceAll(strings.TrimSpace(filename), "\\", "/"))
	if name == "" || name == "." || name == ".." || name == "/" {
		return "", fmt.Errorf("%w: filename is required", domain.ErrInvalidInput)
	}
	return name, nil
}
