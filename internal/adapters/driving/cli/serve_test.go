package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driving/http"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driving/mcp"
)

func TestServeCmd_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("addr")
	require.NotNil(t, flag)
	assert.Equal(t, "", flag.DefValue)
	require.NotNil(t, serveCmd.Flags().Lookup("max-upload"))
}

func TestServeCmd_RequiresServices(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	ingestService = nil

	_, err := execute(t, "serve")

	assert.ErrorIs(t, err, httpadapter.ErrMissingService)
}

func TestMCPServeCmd_HTTPFlag(t *testing.T) {
	flag := mcpServeCmd.Flags().Lookup("http")
	require.NotNil(t, flag)
	assert.Equal(t, "", flag.DefValue)
}

func TestMCPServeCmd_RequiresAnswerService(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	answerService = nil

	_, err := execute(t, "mcp", "serve")

	assert.ErrorIs(t, err, mcp.ErrMissingAnswerService)
}
