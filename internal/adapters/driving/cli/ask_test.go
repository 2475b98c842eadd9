package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driving/tui"
)

func stubRunApp(t *testing.T, err error) *[]*tui.App {
	t.Helper()
	var apps []*tui.App
	old := runApp
	runApp = func(app *tui.App) error {
		apps = append(apps, app)
		return err
	}
	t.Cleanup(func() { runApp = old })
	return &apps
}

func TestAskCmd_StartsApp(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	apps := stubRunApp(t, nil)

	_, err := execute(t, "ask")

	require.NoError(t, err)
	require.Len(t, *apps, 1)
}

func TestAskCmd_TUIAlias(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	apps := stubRunApp(t, nil)

	_, err := execute(t, "tui")

	require.NoError(t, err)
	assert.Len(t, *apps, 1)
}

func TestAskCmd_RunError(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	stubRunApp(t, errors.New("no tty"))

	_, err := execute(t, "ask")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "TUI error: no tty")
}

func TestAskCmd_RequiresAnswerService(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	apps := stubRunApp(t, nil)
	answerService = nil

	_, err := execute(t, "ask")

	assert.ErrorIs(t, err, tui.ErrMissingAnswerService)
	assert.Empty(t, *apps)
}
