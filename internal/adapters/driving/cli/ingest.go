package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/connectors/filesystem"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/logger"
)

var ingestGlob string

var ingestCmd = &cobra.Command{
	Use:   "ingest [dir]",
	Short: "Process every supported document under a directory",
	Long: `Walks a directory and uploads every supported file. Hidden files and
directories are skipped. Use --glob to narrow the selection, for example
--glob "term1/**/*.pdf".

A file that fails is reported and the run continues.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Process documents as they appear in a directory",
	Long: `Watches a directory tree and uploads supported files when they are
created or modified. Deletions are logged; processed records are kept.
Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestGlob, "glob", "g", filesystem.DefaultPattern,
		"doublestar pattern relative to dir")
	watchCmd.Flags().StringVarP(&ingestGlob, "glob", "g", filesystem.DefaultPattern,
		"doublestar pattern relative to dir")
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(watchCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errIngestNotConfigured
	}

	ctx := cmd.Context()
	conn := filesystem.New(args[0], ingestGlob)
	files, err := conn.Scan(ctx)
	if err != nil {
		return err
	}

	var supported []string
	for _, f := range files {
		if ingestService.Supported(filepath.Base(f)) {
			supported = append(supported, f)
		}
	}
	if len(supported) == 0 {
		cmd.Println("No supported documents found.")
		return nil
	}

	bar := progressbar.NewOptions(len(supported),
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionSetDescription("ingesting"),
		progressbar.OptionSetWidth(32),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)

	var failed, chunks int
	for _, path := range supported {
		if ctx.Err() != nil {
			break
		}
		n, err := ingestFile(ctx, path)
		if err != nil {
			failed++
			logger.Warn("Ingest failed for %s: %v", path, err)
		}
		chunks += n
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	cmd.Printf("Processed %d of %d documents (%d chunks)\n", len(supported)-failed, len(supported), chunks)
	if err := ctx.Err(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d documents failed", failed)
	}
	return nil
}

func ingestFile(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	result, err := ingestService.Ingest(ctx, filepath.Base(path), data)
	if err != nil {
		return 0, err
	}
	return result.ChunksProcessed, nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errIngestNotConfigured
	}

	ctx := cmd.Context()
	conn := filesystem.New(args[0], ingestGlob)
	changes, err := conn.Watch(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	cmd.Printf("Watching %s (ctrl+c to stop)\n", conn.Root())

	for change := range changes {
		name := filepath.Base(change.Path)
		switch change.Type {
		case filesystem.ChangeDeleted:
			logger.Info("Removed %s; its processed record is kept", name)
		case filesystem.ChangeCreated, filesystem.ChangeUpdated:
			if !ingestService.Supported(name) {
				logger.Debug("Skipping unsupported file %s", name)
				continue
			}
			n, err := ingestFile(ctx, change.Path)
			if err != nil {
				logger.Warn("Ingest failed for %s: %v", name, err)
				continue
			}
			cmd.Printf("%s %s: %d chunks\n", change.Type, name, n)
		}
	}
	return nil
}
