// Package gcs stores originals and processed records in a Google Cloud
// Storage bucket using the JSON API client.
package gcs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	storage "google.golang.org/api/storage/v1"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// Config configures the bucket and credentials.
type Config struct {
	// Bucket is the target bucket name.
	Bucket string

	// CredentialsFile is a service account JSON key. Optional.
	CredentialsFile string

	// AccessToken is a static OAuth2 token. Used when CredentialsFile is empty.
	AccessToken string

	// Options are appended to the client options, e.g. an endpoint override.
	Options []option.ClientOption
}

// DocumentStore is a GCS-backed driven.DocumentStore.
type DocumentStore struct {
	svc    *storage.Service
	bucket string
}

// NewDocumentStore creates a store for cfg.Bucket. Without a credentials file
// or access token the client falls back to application default credentials.
func NewDocumentStore(ctx context.Context, cfg Config) (*DocumentStore, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("%w: GCS bucket name is required", domain.ErrInvalidInput)
	}

	var opts []option.ClientOption
	switch {
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	case cfg.AccessToken != "":
		opts = append(opts, option.WithTokenSource(StaticTokenSource(cfg.AccessToken)))
	}
	opts = append(opts, cfg.Options...)

	svc, err := storage.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage service: %w", err)
	}
	return &DocumentStore{svc: svc, bucket: cfg.Bucket}, nil
}

// StaticTokenSource wraps a fixed access token.
func StaticTokenSource(accessToken string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	})
}

// UploadOriginal uploads the bytes to documents/<filename>.
func (s *DocumentStore) UploadOriginal(ctx context.Context, filename string, data []byte) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("%w: filename is required", domain.ErrInvalidInput)
	}
	path := domain.OriginalPath(filename)
	if err := s.put(ctx, path, "application/octet-stream", data); err != nil {
		return "", fmt.Errorf("upload original: %w", err)
	}
	return path, nil
}

// StoreProcessed uploads the processed record to processed/<filename>.json.
func (s *DocumentStore) StoreProcessed(ctx context.Context, doc *domain.ProcessedDocument) (string, error) {
	if doc == nil || doc.Filename == "" {
		return "", fmt.Errorf("%w: processed document requires a filename", domain.ErrInvalidInput)
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal processed document: %w", err)
	}

	path := domain.ProcessedPath(doc.Filename)
	if err := s.put(ctx, path, "application/json", data); err != nil {
		return "", fmt.Errorf("upload processed document: %w", err)
	}
	return path, nil
}

func (s *DocumentStore) put(ctx context.Context, path, contentType string, data []byte) error {
	obj := &storage.Object{Name: path, ContentType: contentType}
	_, err := s.svc.Objects.Insert(s.bucket, obj).
		Name(path).
		Media(bytes.NewReader(data), googleapi.ContentType(contentType)).
		Context(ctx).
		Do()
	return mapError(err)
}

// ListProcessed lists processed/ and returns the filenames in lexical order.
func (s *DocumentStore) ListProcessed(ctx context.Context) ([]string, error) {
	names := []string{}
	err := s.svc.Objects.List(s.bucket).
		Prefix(domain.ProcessedPrefix).
		Fields("nextPageToken", "items(name)").
		Pages(ctx, func(page *storage.Objects) error {
			for _, obj := range page.Items {
				name := strings.TrimPrefix(obj.Name, domain.ProcessedPrefix)
				if !strings.HasSuffix(name, domain.ProcessedSuffix) || strings.Contains(name, "/") {
					continue
				}
				names = append(names, strings.TrimSuffix(name, domain.ProcessedSuffix))
			}
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("list processed documents: %w", mapError(err))
	}
	sort.Strings(names)
	return names, nil
}

// GetProcessed downloads and decodes a processed record.
func (s *DocumentStore) GetProcessed(ctx context.Context, filename string) (*domain.ProcessedDocument, error) {
	resp, err := s.svc.Objects.Get(s.bucket, domain.ProcessedPath(filename)).Context(ctx).Download()
	if err != nil {
		return nil, mapError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read processed document: %w", err)
	}

	var doc domain.ProcessedDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal processed document: %w", err)
	}
	return &doc, nil
}

// Close is a no-op; the client holds no resources that need releasing.
func (s *DocumentStore) Close() error {
	return nil
}
