// Package bolt stores originals and processed records in a single bbolt
// file, one bucket per kind.
package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/ports/driven"
)

var (
	bucketOriginals = []byte("originals")
	bucketProcessed = []byte("processed")
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is a bbolt-backed driven.DocumentStore.
// Keys are filenames; a second write for a key replaces the first.
type DocumentStore struct {
	db *bbolt.DB
}

// NewDocumentStore opens or creates the database at path.
func NewDocumentStore(path string) (*DocumentStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketOriginals, bucketProcessed} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &DocumentStore{db: db}, nil
}

// UploadOriginal stores the uploaded bytes.
func (s *DocumentStore) UploadOriginal(_ context.Context, filename string, data []byte) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("%w: filename is required", domain.ErrInvalidInput)
	}
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketOriginals).Put([]byte(filename), data)
	})
	if err != nil {
		return "", fmt.Errorf("saving original: %w", err)
	}
	return domain.OriginalPath(filename), nil
}

// Original returns a copy of the stored upload bytes.
func (s *DocumentStore) Original(filename string) ([]byte, error) {
	var out []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketOriginals).Get([]byte(filename))
		if data == nil {
			return domain.ErrNotFound
		}
		// Values are only valid inside the transaction.
		out = append([]byte{}, data...)
		return nil
	})
	return out, err
}

// StoreProcessed stores the processed record as JSON.
func (s *DocumentStore) StoreProcessed(_ context.Context, doc *domain.ProcessedDocument) (string, error) {
	if doc == nil || doc.Filename == "" {
		return "", fmt.Errorf("%w: processed document requires a filename", domain.ErrInvalidInput)
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshalling processed document: %w", err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketProcessed).Put([]byte(doc.Filename), data)
	})
	if err != nil {
		return "", fmt.Errorf("saving processed document: %w", err)
	}
	return domain.ProcessedPath(doc.Filename), nil
}

// ListProcessed returns processed filenames. Bolt keeps keys sorted.
func (s *DocumentStore) ListProcessed(_ context.Context) ([]string, error) {
	names := []string{}
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketProcessed).ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("listing processed documents: %w", err)
	}
	return names, nil
}

// GetProcessed returns a processed record or domain.ErrNotFound.
func (s *DocumentStore) GetProcessed(_ context.Context, filename string) (*domain.ProcessedDocument, error) {
	var doc domain.ProcessedDocument
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketProcessed).Get([]byte(filename))
		if data == nil {
			return domain.ErrNotFound
		}
		return json.Unmarshal(data, &doc)
	})
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// Close closes the database file.
func (s *DocumentStore) Close() error {
	return s.db.Close()
}
