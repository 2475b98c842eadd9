package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
)

func TestRootCmd_Commands(t *testing.T) {
	names := map[string]bool{}
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}

	for _, want := range []string{
		"serve", "upload", "ingest", "watch", "query", "ask",
		"documents", "search", "taxonomy", "config", "mcp", "check", "version",
	} {
		assert.True(t, names[want], "missing command %q", want)
	}
}

func TestRootCmd_GlobalFlags(t *testing.T) {
	require.NotNil(t, rootCmd.PersistentFlags().Lookup("verbose"))
	require.NotNil(t, rootCmd.PersistentFlags().Lookup("config-dir"))
}

func TestLoader_CalledOnceAndClosed(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	var calls, closes int
	var gotDir string
	library := &mockLibraryService{docs: map[string]*domain.ProcessedDocument{"a.pdf": {Filename: "a.pdf"}}}

	loaded = false
	SetLoader(func(_ context.Context, dir string) (*Services, error) {
		calls++
		gotDir = dir
		return &Services{
			Answer:     &mockAnswerService{},
			Library:    library,
			TopK:       9,
			ServerAddr: ":9999",
			Close: func() error {
				closes++
				return nil
			},
		}, nil
	})

	dir := t.TempDir()
	out, err := execute(t, "--config-dir", dir, "documents", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "a.pdf")

	_, err = execute(t, "documents", "list")
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, dir, gotDir)
	assert.Equal(t, 1, closes)
	assert.Equal(t, 9, defaultTopK)
	assert.Equal(t, ":9999", serverAddr)
	assert.Equal(t, 16, taxonomy.Len())
}

func TestLoader_Error(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	loaded = false
	SetLoader(func(context.Context, string) (*Services, error) {
		return nil, domain.ErrAuthInvalid
	})

	_, err := execute(t, "documents", "list")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAuthInvalid))
	assert.Contains(t, err.Error(), "initialising")
}

func TestLoader_SkippedForStandaloneCommands(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	loaded = false
	SetLoader(func(context.Context, string) (*Services, error) {
		t.Fatal("loader must not run for standalone commands")
		return nil, nil
	})

	_, err := execute(t, "version")
	require.NoError(t, err)

	_, err = execute(t, "--config-dir", t.TempDir(), "config", "path")
	require.NoError(t, err)
}

func TestExecute(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	rootCmd.SetArgs([]string{"version"})
	defer rootCmd.SetArgs(nil)

	assert.NoError(t, Execute(context.Background()))
}
