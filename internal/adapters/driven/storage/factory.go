// Package storage provides factory functions for the document store,
// similarity index and keyword index backends.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driven/keyword/bleve"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driven/storage/bolt"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driven/storage/filesystem"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driven/storage/gcs"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driven/storage/memory"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driven/storage/postgres"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driven/storage/qdrant"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driven/storage/sqlite"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/ports/driven"
)

// Default file names under the data directory.
const (
	DefaultStoreDir     = "store"
	DefaultBoltFile     = "documents.bolt"
	DefaultKeywordIndex = "keyword.bleve"
)

// Backends holds the opened persistence adapters.
type Backends struct {
	Store   driven.DocumentStore
	Index   driven.VectorIndex
	Keyword driven.KeywordIndex
}

// Close releases every opened backend.
func (b *Backends) Close() error {
	var errs []error
	if b.Keyword != nil {
		errs = append(errs, b.Keyword.Close())
	}
	if b.Index != nil {
		errs = append(errs, b.Index.Close())
	}
	if b.Store != nil {
		errs = append(errs, b.Store.Close())
	}
	return errors.Join(errs...)
}

// Open creates the backends selected by settings. Relative and empty paths
// resolve against dataDir. When both the store and the index use sqlite
// at the same path they share one database.
func Open(ctx context.Context, settings domain.AppSettings, dims int, dataDir string) (*Backends, error) {
	b := &Backends{}

	var shared *sqlite.Store
	sqlitePath := func(p string) string { return resolve(dataDir, p, sqlite.DefaultFilename) }
	openShared := func(path string) (*sqlite.Store, error) {
		if shared != nil && shared.Path() == path {
			return shared, nil
		}
		s, err := sqlite.NewStore(path)
		if err != nil {
			return nil, err
		}
		shared = s
		return s, nil
	}

	store, err := createDocumentStore(ctx, settings.Store, dataDir, func() (*sqlite.Store, error) {
		return openShared(sqlitePath(settings.Store.Path))
	})
	if err != nil {
		return nil, fmt.Errorf("open document store: %w", err)
	}
	b.Store = store

	index, err := createVectorIndex(ctx, settings.Index, dims, func() (*sqlite.Store, error) {
		return openShared(sqlitePath(settings.Index.Path))
	})
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("open vector index: %w", err)
	}
	b.Index = index

	if settings.KeywordIndexPath != "" {
		kw, err := bleve.Open(resolve(dataDir, settings.KeywordIndexPath, DefaultKeywordIndex))
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("open keyword index: %w", err)
		}
		b.Keyword = kw
	}

	return b, nil
}

// CreateDocumentStore creates the document store selected by settings.
func CreateDocumentStore(ctx context.Context, settings domain.StoreSettings, dataDir string) (driven.DocumentStore, error) {
	return createDocumentStore(ctx, settings, dataDir, func() (*sqlite.Store, error) {
		return sqlite.NewStore(resolve(dataDir, settings.Path, sqlite.DefaultFilename))
	})
}

func createDocumentStore(
	ctx context.Context, settings domain.StoreSettings, dataDir string, openSQLite func() (*sqlite.Store, error),
) (driven.DocumentStore, error) {
	switch settings.Backend {
	case domain.StoreFilesystem, "":
		return filesystem.NewDocumentStore(resolve(dataDir, settings.Path, DefaultStoreDir))
	case domain.StoreSQLite:
		s, err := openSQLite()
		if err != nil {
			return nil, err
		}
		return s.DocumentStore(), nil
	case domain.StoreBolt:
		return bolt.NewDocumentStore(resolve(dataDir, settings.Path, DefaultBoltFile))
	case domain.StoreGCS:
		return gcs.NewDocumentStore(ctx, gcs.Config{
			Bucket:          settings.Bucket,
			CredentialsFile: settings.CredentialsFile,
			AccessToken:     settings.AccessToken,
		})
	case domain.StoreMemory:
		return memory.NewDocumentStore(), nil
	default:
		return nil, fmt.Errorf("%w: unknown store backend %q", domain.ErrInvalidInput, settings.Backend)
	}
}

func createVectorIndex(
	ctx context.Context, settings domain.IndexSettings, dims int, openSQLite func() (*sqlite.Store, error),
) (driven.VectorIndex, error) {
	switch settings.Backend {
	case domain.IndexSQLite, "":
		s, err := openSQLite()
		if err != nil {
			return nil, err
		}
		return s.VectorIndex(dims), nil
	case domain.IndexPostgres:
		if settings.DSN == "" {
			return nil, fmt.Errorf("%w: postgres index needs a DSN (index.dsn or DATABASE_URL)", domain.ErrInvalidInput)
		}
		return postgres.NewVectorIndex(ctx, settings.DSN, settings.Collection, dims)
	case domain.IndexQdrant:
		return qdrant.NewVectorIndex(ctx, qdrant.Config{
			URL:        settings.URL,
			APIKey:     settings.APIKey,
			Collection: settings.Collection,
			Dimensions: dims,
		})
	case domain.IndexMemory:
		return memory.NewVectorIndex(dims), nil
	default:
		return nil, fmt.Errorf("%w: unknown index backend %q", domain.ErrInvalidInput, settings.Backend)
	}
}

// resolve returns p when absolute, p joined to dataDir when relative,
// and dataDir/fallback when empty.
func resolve(dataDir, p, fallback string) string {
	switch {
	case p == "":
		return filepath.Join(dataDir, fallback)
	case filepath.IsAbs(p):
		return p
	default:
		return filepath.Join(dataDir, p)
	}
}
