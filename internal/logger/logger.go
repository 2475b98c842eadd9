// Package logger provides leveled logging for heartgpt.
// Debug, Info, Warn and Section output is printed only in verbose mode
// (--verbose). Errors are always printed. Output goes to stderr and can be
// mirrored to a log file.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	mu      sync.Mutex
	verbose bool
	output  io.Writer = os.Stderr
	logFile *os.File
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.Lock()
	defer mu.Unlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// SetLogFile mirrors all output to the file at path (appending), in
// addition to stderr. The returned function closes the file and restores
// stderr-only output.
func SetLogFile(path string) (func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	mu.Lock()
	logFile = f
	output = io.MultiWriter(os.Stderr, &timestamped{w: f})
	mu.Unlock()

	return func() error {
		mu.Lock()
		defer mu.Unlock()
		if logFile != f {
			return nil
		}
		output = os.Stderr
		logFile = nil
		return f.Close()
	}, nil
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	logf(false, "[DEBUG] ", format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	logf(false, "[INFO] ", format, args...)
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	logf(false, "[WARN] ", format, args...)
}

// Error prints an error message regardless of verbose mode.
func Error(format string, args ...any) {
	logf(true, "[ERROR] ", format, args...)
}

func logf(always bool, prefix, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if always || verbose {
		fmt.Fprintf(output, prefix+format+"\n", args...)
	}
}

// timestamped prefixes each write with an RFC 3339 timestamp.
type timestamped struct {
	w io.Writer
}

func (t *timestamped) Write(p []byte) (int, error) {
	if _, err := fmt.Fprintf(t.w, "%s ", time.Now().Format(time.RFC3339)); err != nil {
		return 0, err
	}
	return t.w.Write(p)
}
