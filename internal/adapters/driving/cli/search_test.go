package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/ports/driven"
)

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [terms]", searchCmd.Use)
	assert.Contains(t, searchCmd.Long, "BM25")
}

func TestSearchCmd_HasLimitFlag(t *testing.T) {
	flag := searchCmd.Flags().Lookup("limit")
	require.NotNil(t, flag)
	assert.Equal(t, "n", flag.Shorthand)
	assert.Equal(t, "10", flag.DefValue)
}

func TestSearchCmd_Results(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	mocks.search.hits = []driven.KeywordHit{
		{ChunkID: "plan.pdf#0", Filename: "plan.pdf", Text: "Plan the week.", Tags: []string{"Planning"}, Score: 1.5},
	}

	out, err := execute(t, "search", "-n", "5", "plan", "week")

	require.NoError(t, err)
	assert.Equal(t, 5, mocks.search.lastLimit)
	assert.Contains(t, out, "[1] plan.pdf#0 (1.50)")
	assert.Contains(t, out, "Document: plan.pdf")
	assert.Contains(t, out, "Tags: Planning")
}

func TestSearchCmd_NoResults(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "search", "nothing")

	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}

func TestSearchCmd_JSON(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	mocks.search.hits = []driven.KeywordHit{{ChunkID: "plan.pdf#0", Score: 1}}

	out, err := execute(t, "search", "--json", "plan")

	require.NoError(t, err)
	assert.Contains(t, out, `"ChunkID": "plan.pdf#0"`)
}

func TestSearchCmd_NotConfigured(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	searchService = nil

	_, err := execute(t, "search", "plan")

	assert.ErrorIs(t, err, errSearchNotConfigured)
}
