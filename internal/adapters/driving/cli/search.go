package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
)

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [terms]",
	Short: "Keyword search over chunk text",
	Long: `Runs a keyword (BM25) query over the text of processed chunks. This
needs keyword.path set in the config; it does not call the generator.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errSearchNotConfigured
	}

	hits, err := searchService.Search(cmd.Context(), strings.Join(args, " "), searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return writeJSON(cmd, hits)
	}

	if len(hits) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range hits {
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, hits[i].ChunkID, hits[i].Score)
		if hits[i].Filename != "" {
			cmd.Printf("      Document: %s\n", hits[i].Filename)
		}
		if len(hits[i].Tags) > 0 {
			cmd.Printf("      Tags: %s\n", strings.Join(hits[i].Tags, ", "))
		}
		if preview := domain.Preview(hits[i].Text, 160); preview != "" {
			cmd.Printf("      %s\n", preview)
		}
		cmd.Println()
	}
	return nil
}
