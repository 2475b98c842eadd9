package menu

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driving/tui/messages"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driving/tui/styles"
)

func labels(v *View) []string {
	out := make([]string, 0, len(v.Items()))
	for _, item := range v.Items() {
		out = append(out, item.Label)
	}
	return out
}

func TestNewView(t *testing.T) {
	view := NewView(styles.DefaultStyles(), true)

	require.NotNil(t, view)
	assert.Equal(t, []string{"Ask", "Documents", "Help", "Quit"}, labels(view))
	assert.Equal(t, 0, view.Selected())
	assert.Nil(t, view.Init())
}

func TestNewView_WithoutLibrary(t *testing.T) {
	view := NewView(nil, false)

	assert.NotNil(t, view.styles)
	assert.Equal(t, []string{"Ask", "Help", "Quit"}, labels(view))
}

func TestView_Update_WindowSize(t *testing.T) {
	view := NewView(nil, true)

	updated, cmd := view.Update(tea.WindowSizeMsg{Width: 100, Height: 50})

	assert.Equal(t, view, updated)
	assert.Nil(t, cmd)
	assert.True(t, view.ready)
	assert.Equal(t, 100, view.width)
	assert.Equal(t, 50, view.height)
}

func TestView_Update_Navigation(t *testing.T) {
	view := NewView(nil, true)

	view.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, view.Selected())

	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 3, view.Selected(), "stops at last item")

	view.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 2, view.Selected())

	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	assert.Equal(t, 0, view.Selected(), "stops at first item")
}

func TestView_Update_EnterChangesView(t *testing.T) {
	tests := []struct {
		name  string
		moves int
		want  messages.ViewType
	}{
		{"ask", 0, messages.ViewAsk},
		{"documents", 1, messages.ViewDocuments},
		{"help", 2, messages.ViewHelp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := NewView(nil, true)
			for i := 0; i < tt.moves; i++ {
				view.Update(tea.KeyMsg{Type: tea.KeyDown})
			}

			_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})

			require.NotNil(t, cmd)
			msg, ok := cmd().(messages.ViewChanged)
			require.True(t, ok)
			assert.Equal(t, tt.want, msg.View)
		})
	}
}

func TestView_Update_Quit(t *testing.T) {
	view := NewView(nil, true)

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	for i := 0; i < 3; i++ {
		view.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	_, cmd = view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestView_View(t *testing.T) {
	view := NewView(nil, true)
	assert.Equal(t, "Initialising...", view.View())

	view.SetDimensions(80, 24)
	out := view.View()

	assert.Contains(t, out, "heartgpt")
	assert.Contains(t, out, "> Ask")
	assert.Contains(t, out, "Documents")
	assert.Contains(t, out, "[q] Quit")
}
