// Package filesystem stores originals and processed records under a local
// directory, mirroring the object layout used by the cloud store.
package filesystem

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore writes documents/<name> and processed/<name>.json below root.
type DocumentStore struct {
	root string
}

// NewDocumentStore creates the directory layout under root.
// If root is empty, defaults to ~/.heartgpt/data/store.
func NewDocumentStore(root string) (*DocumentStore, error) {
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		root = filepath.Join(home, ".heartgpt", "data", "store")
	}

	for _, dir := range []string{domain.OriginalsPrefix, domain.ProcessedPrefix} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0700); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}
	return &DocumentStore{root: root}, nil
}

// Root returns the store directory.
func (s *DocumentStore) Root() string {
	return s.root
}

// UploadOriginal writes the uploaded bytes.
func (s *DocumentStore) UploadOriginal(_ context.Context, filename string, data []byte) (string, error) {
	if err := checkName(filename); err != nil {
		return "", err
	}
	rel := domain.OriginalPath(filename)
	if err := writeAtomic(filepath.Join(s.root, filepath.FromSlash(rel)), data); err != nil {
		return "", fmt.Errorf("saving original: %w", err)
	}
	return rel, nil
}

// StoreProcessed writes the processed record as indented JSON.
func (s *DocumentStore) StoreProcessed(_ context.Context, doc *domain.ProcessedDocument) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("%w: processed document is nil", domain.ErrInvalidInput)
	}
	if err := checkName(doc.Filename); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshalling processed document: %w", err)
	}

	rel := domain.ProcessedPath(doc.Filename)
	if err := writeAtomic(filepath.Join(s.root, filepath.FromSlash(rel)), data); err != nil {
		return "", fmt.Errorf("saving processed document: %w", err)
	}
	return rel, nil
}

// ListProcessed returns processed filenames in lexical order.
func (s *DocumentStore) ListProcessed(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, domain.ProcessedPrefix))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("reading processed directory: %w", err)
	}

	names := []string{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, domain.ProcessedSuffix) || strings.HasPrefix(name, ".") {
			continue
		}
		names = append(names, strings.TrimSuffix(name, domain.ProcessedSuffix))
	}
	sort.Strings(names)
	return names, nil
}

// GetProcessed reads a processed record or returns domain.ErrNotFound.
func (s *DocumentStore) GetProcessed(_ context.Context, filename string) (*domain.ProcessedDocument, error) {
	if err := checkName(filename); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(s.root, filepath.FromSlash(domain.ProcessedPath(filename))))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("reading processed document: %w", err)
	}

	var doc domain.ProcessedDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshalling processed document: %w", err)
	}
	return &doc, nil
}

// Close is a no-op.
func (s *DocumentStore) Close() error {
	return nil
}

// checkName rejects names that would escape their directory.
func checkName(filename string) error {
	if filename == "" || filename == "." || filename == ".." ||
		strings.ContainsAny(filename, `/\`) {
		return fmt.Errorf("%w: invalid filename %q", domain.ErrInvalidInput, filename)
	}
	return nil
}

// writeAtomic writes data to a temp file in the target directory and renames
// it into place, so readers never observe a partial record.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
