package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driving/tui"
)

// runApp starts the TUI. Tests replace it to avoid taking over the terminal.
var runApp = func(app *tui.App) error {
	return app.Run()
}

var askCmd = &cobra.Command{
	Use:     "ask",
	Aliases: []string{"tui"},
	Short:   "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal UI for asking questions and browsing
processed documents.

Controls:
  Enter    - Ask / Select
  Tab      - Cycle the category filter
  n        - New question
  PgUp/Dn  - Scroll the answer
  Esc      - Back
  ctrl+c   - Quit`,
	Args: cobra.NoArgs,
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	ports := tui.NewPorts(answerService, libraryService)
	ports.Taxonomy = taxonomy
	ports.TopK = defaultTopK

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	if err := runApp(app); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
