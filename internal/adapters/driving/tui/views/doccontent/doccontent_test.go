package doccontent

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driving/tui/messages"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driving/tui/styles"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
)

// mockLibrary implements driving.LibraryService for testing.
type mockLibrary struct {
	docs map[string]*domain.ProcessedDocument
}

func (m *mockLibrary) List(_ context.Context) ([]string, error) {
	return nil, nil
}

func (m *mockLibrary) Get(_ context.Context, filename string) (*domain.ProcessedDocument, error) {
	doc, ok := m.docs[filename]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

func sampleDoc() *domain.ProcessedDocument {
	return &domain.ProcessedDocument{
		Filename:      "plan.pdf",
		StoragePath:   "documents/plan.pdf",
		ProcessedDate: time.Date(2024, 5, 6, 7, 8, 0, 0, time.UTC),
		Tags: map[domain.Category][]domain.Competency{
			domain.CategoryDiscipline: {"Planning"},
		},
		Chunks: []domain.Chunk{
			{ID: "plan.pdf#0", Index: 0, Page: 1, Text: "Plan the week.", Tags: []domain.Competency{"Planning"}},
		},
	}
}

func newView() *View {
	lib := &mockLibrary{docs: map[string]*domain.ProcessedDocument{"plan.pdf": sampleDoc()}}
	view := NewView(styles.PlainStyles(), lib, domain.DefaultTaxonomy())
	view.SetDimensions(100, 30)
	return view
}

func TestNewView(t *testing.T) {
	view := NewView(nil, nil, domain.DefaultTaxonomy())

	require.NotNil(t, view)
	assert.NotNil(t, view.styles)
	assert.Nil(t, view.Document())
	assert.Nil(t, view.Init())
}

func TestView_SetDocument(t *testing.T) {
	view := newView()

	cmd := view.SetDocument("plan.pdf")
	require.NotNil(t, cmd)
	assert.True(t, view.Loading())
	assert.Equal(t, "plan.pdf", view.Filename())
	assert.Contains(t, view.View(), "Loading document...")

	msg, ok := cmd().(messages.DocumentLoaded)
	require.True(t, ok)
	require.NoError(t, msg.Err)

	view.Update(msg)
	assert.False(t, view.Loading())
	require.NotNil(t, view.Document())

	out := view.View()
	assert.Contains(t, out, "plan.pdf")
	assert.Contains(t, out, "Planning")
	assert.Contains(t, out, "Plan the week.")
}

func TestView_SetDocument_NotFound(t *testing.T) {
	view := newView()

	view.Update(view.SetDocument("missing.pdf")())

	assert.ErrorIs(t, view.Err(), domain.ErrNotFound)
	assert.Contains(t, view.View(), "Error:")
}

func TestView_SetDocument_NoLibrary(t *testing.T) {
	view := NewView(nil, nil, domain.DefaultTaxonomy())

	msg := view.SetDocument("plan.pdf")().(messages.DocumentLoaded)

	assert.ErrorIs(t, msg.Err, ErrNoLibrary)
}

func TestView_StaleLoadIgnored(t *testing.T) {
	view := newView()
	first := view.SetDocument("plan.pdf")
	view.SetDocument("other.pdf")

	view.Update(first())

	assert.True(t, view.Loading())
	assert.Nil(t, view.Document())
}

func TestView_Esc_ReturnsToDocuments(t *testing.T) {
	view := newView()

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)

	assert.Equal(t, messages.ViewChanged{View: messages.ViewDocuments}, cmd())
}

func TestView_WindowSize(t *testing.T) {
	view := newView()

	view.Update(tea.WindowSizeMsg{Width: 60, Height: 20})

	assert.Equal(t, 60, view.viewport.Width)
	assert.Equal(t, 13, view.viewport.Height)
}
