package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driving/tui/styles"
)

// defaultWidth is used when the output is not a terminal.
const defaultWidth = 100

// terminalFd returns the file descriptor of w when it is a terminal.
func terminalFd(w io.Writer) (int, bool) {
	f, ok := w.(*os.File)
	if !ok {
		return 0, false
	}
	fd := int(f.Fd())
	return fd, term.IsTerminal(fd)
}

// outputStyles colours output only when it goes to a terminal.
func outputStyles(cmd *cobra.Command) *styles.Styles {
	if _, ok := terminalFd(cmd.OutOrStdout()); ok {
		return styles.DefaultStyles()
	}
	return styles.PlainStyles()
}

func outputWidth(cmd *cobra.Command) int {
	if fd, ok := terminalFd(cmd.OutOrStdout()); ok {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w
		}
	}
	return defaultWidth
}

// writeJSON writes to stdout; cmd.Print falls back to stderr.
func writeJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
