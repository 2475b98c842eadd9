package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driving/tui/render"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
)

var uploadJSON bool

var uploadCmd = &cobra.Command{
	Use:   "upload [file]",
	Short: "Process one document into the library",
	Long: `Extracts, chunks, classifies and embeds a PDF, Word or text file.
The original is stored under documents/ and the processed record with
per-chunk competency tags under processed/.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().BoolVar(&uploadJSON, "json", false, "output the result as JSON")
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errIngestNotConfigured
	}

	path := args[0]
	name := filepath.Base(path)
	if !ingestService.Supported(name) {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, name)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	result, err := ingestService.Ingest(cmd.Context(), name, data)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	if uploadJSON {
		return writeJSON(cmd, result)
	}

	cmd.Printf("Processed %s: %d chunks\n", result.Filename, result.ChunksProcessed)
	cmd.Printf("Stored at %s\n", result.StoragePath)
	cmd.Println()
	cmd.Println(render.Grouped(outputStyles(cmd), taxonomy, result.Tags))
	return nil
}
