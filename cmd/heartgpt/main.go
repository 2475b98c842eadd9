// Command heartgpt ingests teaching documents, tags them with competencies
// and answers questions from the tagged library.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driven/ai"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driven/config/file"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driven/storage"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driving/cli"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/services"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/extractors"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=v1.2.3".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.SetLoader(load)

	if err := cli.Execute(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// load is the composition root: config, providers, storage and services.
func load(ctx context.Context, configDir string) (*cli.Services, error) {
	if configDir == "" {
		dir, err := file.DefaultConfigDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}

	if err := file.LoadEnv(configDir); err != nil {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	settings, err := file.LoadSettings(store, file.OSEnv())
	if err != nil {
		return nil, err
	}
	cfg, err := file.LoadConfig(store, settings)
	if err != nil {
		return nil, err
	}

	var closers []func() error
	closeAll := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}

	if settings.LogFile != "" {
		path := settings.LogFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(configDir, path)
		}
		closeLog, err := logger.SetLogFile(path)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		closers = append(closers, closeLog)
	}

	providers, err := ai.NewServices(settings)
	if err != nil {
		_ = closeAll()
		return nil, err
	}
	closers = append(closers, func() error {
		providers.Close()
		return nil
	})

	backends, err := storage.Open(ctx, settings, cfg.EmbeddingDimensions, configDir)
	if err != nil {
		_ = closeAll()
		return nil, err
	}
	closers = append(closers, backends.Close)

	prompts, err := file.NewPromptStore(filepath.Join(configDir, "prompts"))
	if err != nil {
		_ = closeAll()
		return nil, err
	}

	gateway := services.NewGateway(providers.Embedding, backends.Index, cfg.EmbeddingDimensions)
	classifier := services.NewClassifier(providers.LLM, prompts, cfg)
	ingest := services.NewIngestService(extractors.NewDefaultRegistry(), classifier, gateway, backends.Store, cfg)
	if backends.Keyword != nil {
		ingest.SetKeywordIndex(backends.Keyword)
	}

	logger.Debug("Loaded config from %s", store.Path())

	return &cli.Services{
		Ingest:     ingest,
		Answer:     services.NewAnswerer(gateway, providers.LLM, prompts, cfg),
		Library:    services.NewLibraryService(backends.Store),
		Search:     services.NewSearchService(backends.Keyword),
		Taxonomy:   cfg.Taxonomy,
		TopK:       cfg.TopK,
		ServerAddr: settings.ServerAddr,
		Check:      providers.Validate,
		Close:      closeAll,
	}, nil
}
