package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/ports/driven"
)

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store     *Store
	closeOnce sync.Once
}

var _ driven.DocumentStore = (*documentStore)(nil)

// UploadOriginal stores or replaces the uploaded bytes.
func (s *documentStore) UploadOriginal(ctx context.Context, filename string, data []byte) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("%w: filename is required", domain.ErrInvalidInput)
	}
	if data == nil {
		data = []byte{}
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO originals (filename, data, uploaded_at)
		VALUES (?, ?, ?)
		ON CONFLICT(filename) DO UPDATE SET
			data = excluded.data,
			uploaded_at = excluded.uploaded_at
	`, filename, data, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("saving original: %w", err)
	}
	return domain.OriginalPath(filename), nil
}

// Original returns the stored upload bytes.
func (s *documentStore) Original(ctx context.Context, filename string) ([]byte, error) {
	var data []byte
	err := s.store.db.QueryRowContext(ctx, "SELECT data FROM originals WHERE filename = ?", filename).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading original: %w", err)
	}
	return data, nil
}

// StoreProcessed stores or replaces the processed record.
func (s *documentStore) StoreProcessed(ctx context.Context, doc *domain.ProcessedDocument) (string, error) {
	if doc == nil || doc.Filename == "" {
		return "", fmt.Errorf("%w: processed document requires a filename", domain.ErrInvalidInput)
	}
	record, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshalling processed document: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO processed (filename, record, processed_at)
		VALUES (?, ?, ?)
		ON CONFLICT(filename) DO UPDATE SET
			record = excluded.record,
			processed_at = excluded.processed_at
	`, doc.Filename, string(record), doc.ProcessedDate.UTC())
	if err != nil {
		return "", fmt.Errorf("saving processed document: %w", err)
	}
	return domain.ProcessedPath(doc.Filename), nil
}

// ListProcessed returns processed filenames in lexical order.
func (s *documentStore) ListProcessed(ctx context.Context) ([]string, error) {
	rows, err := s.store.db.QueryContext(ctx, "SELECT filename FROM processed ORDER BY filename")
	if err != nil {
		return nil, fmt.Errorf("querying processed documents: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning filename: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// GetProcessed returns a processed record or domain.ErrNotFound.
func (s *documentStore) GetProcessed(ctx context.Context, filename string) (*domain.ProcessedDocument, error) {
	var record string
	err := s.store.db.QueryRowContext(ctx, "SELECT record FROM processed WHERE filename = ?", filename).Scan(&record)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading processed document: %w", err)
	}

	var doc domain.ProcessedDocument
	if err := json.Unmarshal([]byte(record), &doc); err != nil {
		return nil, fmt.Errorf("unmarshalling processed document: %w", err)
	}
	return &doc, nil
}

// Close releases this adapter's hold on the database.
func (s *documentStore) Close() error {
	var err error
	s.closeOnce.Do(func() { err = s.store.release() })
	return err
}
