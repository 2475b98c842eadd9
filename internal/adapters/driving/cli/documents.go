package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driving/tui/render"
)

var documentsJSON bool

var documentsCmd = &cobra.Command{
	Use:     "documents",
	Aliases: []string{"docs"},
	Short:   "Browse processed documents",
}

var documentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List processed documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentsList,
}

var documentsShowCmd = &cobra.Command{
	Use:   "show [filename]",
	Short: "Show the chunks and tags of a processed document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentsShow,
}

func init() {
	documentsCmd.PersistentFlags().BoolVar(&documentsJSON, "json", false, "output as JSON")
	documentsCmd.AddCommand(documentsListCmd)
	documentsCmd.AddCommand(documentsShowCmd)
	rootCmd.AddCommand(documentsCmd)
}

func runDocumentsList(cmd *cobra.Command, _ []string) error {
	if libraryService == nil {
		return errLibraryNotConfigured
	}

	names, err := libraryService.List(cmd.Context())
	if err != nil {
		return err
	}

	if documentsJSON {
		if names == nil {
			names = []string{}
		}
		return writeJSON(cmd, names)
	}

	if len(names) == 0 {
		cmd.Println("No documents processed yet.")
		return nil
	}
	for _, name := range names {
		cmd.Printf("  %s\n", name)
	}
	cmd.Println()
	cmd.Printf("Total: %d documents\n", len(names))
	return nil
}

func runDocumentsShow(cmd *cobra.Command, args []string) error {
	if libraryService == nil {
		return errLibraryNotConfigured
	}

	doc, err := libraryService.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if documentsJSON {
		return writeJSON(cmd, doc)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), render.Document(outputStyles(cmd), taxonomy, doc, outputWidth(cmd)))
	return err
}
