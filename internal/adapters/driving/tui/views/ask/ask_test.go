package ask

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driving/tui/components/status"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driving/tui/messages"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driving/tui/styles"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
)

// mockAnswerService implements driving.AnswerService for testing.
type mockAnswerService struct {
	result    *domain.QueryResult
	err       error
	lastQuery string
	lastOpts  domain.QueryOptions
}

func (m *mockAnswerService) Answer(_ context.Context, query string, opts domain.QueryOptions) (*domain.QueryResult, error) {
	m.lastQuery = query
	m.lastOpts = opts
	return m.result, m.err
}

func sampleResult() *domain.QueryResult {
	return &domain.QueryResult{
		Query: "how do I plan?",
		Reply: "raw",
		Answer: &domain.StructuredAnswer{
			Competency: "Planning",
			Category:   "Discipline",
			Extracts: []domain.Extract{
				{Content: "Plan the week.", Reference: "plan.pdf p1", TeachingSuggestion: "Draft a weekly plan."},
			},
		},
		Matches: []domain.Match{
			{ChunkID: "plan.pdf#0", Score: 0.9, Metadata: domain.ChunkMetadata{Filename: "plan.pdf", ChunkText: "Plan the week.", Tags: []string{"Planning"}}},
		},
	}
}

func newView(svc *mockAnswerService) *View {
	view := NewView(styles.PlainStyles(), nil, svc, domain.DefaultTaxonomy(), 3)
	view.SetDimensions(100, 40)
	return view
}

func typeText(view *View, text string) {
	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func enter(view *View) tea.Cmd {
	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return cmd
}

// runAsk executes the answer command directly, skipping the spinner tick.
func runAsk(t *testing.T, view *View, question string) messages.AnswerCompleted {
	t.Helper()
	typeText(view, question)
	require.NotNil(t, enter(view))
	msg, ok := view.ask(question)().(messages.AnswerCompleted)
	require.True(t, ok)
	return msg
}

func TestNewView(t *testing.T) {
	view := NewView(nil, nil, nil, domain.DefaultTaxonomy(), 0)

	require.NotNil(t, view)
	assert.NotNil(t, view.styles)
	assert.NotNil(t, view.keymap)
	assert.True(t, view.InputFocused())
	assert.Equal(t, "", view.Filter())
	assert.Len(t, view.filters, 5)
}

func TestView_NotReady(t *testing.T) {
	view := NewView(nil, nil, nil, domain.DefaultTaxonomy(), 0)

	assert.Equal(t, "Initialising...", view.View())
}

func TestView_Enter_EmptyQuestion(t *testing.T) {
	view := newView(&mockAnswerService{})

	cmd := enter(view)

	assert.Nil(t, cmd)
	assert.False(t, view.Thinking())
}

func TestView_Ask_Success(t *testing.T) {
	svc := &mockAnswerService{result: sampleResult()}
	view := newView(svc)

	msg := runAsk(t, view, "how do I plan?")
	assert.True(t, view.Thinking())
	assert.False(t, view.InputFocused())
	assert.Contains(t, view.View(), "Retrieving and generating...")

	view.Update(msg)

	assert.False(t, view.Thinking())
	assert.Equal(t, "how do I plan?", svc.lastQuery)
	assert.Equal(t, 3, svc.lastOpts.TopK)
	assert.Empty(t, svc.lastOpts.Filter.Tags)
	require.NotNil(t, view.Result())
	assert.Equal(t, status.StateAnswered, view.statusbar.State())
	assert.Equal(t, 1, view.statusbar.MatchCount())

	out := view.View()
	assert.Contains(t, out, "Planning")
	assert.Contains(t, out, "Draft a weekly plan.")
	assert.Contains(t, out, "plan.pdf#0")
}

func TestView_Ask_Error(t *testing.T) {
	view := newView(&mockAnswerService{err: domain.ErrLLMUnavailable})

	view.Update(runAsk(t, view, "anything"))

	assert.ErrorIs(t, view.Err(), domain.ErrLLMUnavailable)
	assert.True(t, view.InputFocused())
	assert.Equal(t, status.StateError, view.statusbar.State())
	assert.Contains(t, view.View(), "Error:")
}

func TestView_Ask_NoService(t *testing.T) {
	view := NewView(styles.PlainStyles(), nil, nil, domain.DefaultTaxonomy(), 0)
	view.SetDimensions(80, 24)

	msg := view.ask("hello")()

	occurred, ok := msg.(messages.ErrorOccurred)
	require.True(t, ok)
	assert.ErrorIs(t, occurred.Err, ErrNoAnswerService)

	view.Update(msg)
	assert.ErrorIs(t, view.Err(), ErrNoAnswerService)
}

func TestView_Tab_CyclesCategoryFilter(t *testing.T) {
	svc := &mockAnswerService{result: sampleResult()}
	view := newView(svc)

	view.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "Action", view.Filter())

	view.Update(runAsk(t, view, "results"))
	assert.Equal(t, []domain.Competency{"Results", "Execution", "Fearless Presenter", "Seize Opportunities"},
		svc.lastOpts.Filter.Tags)

	for range 4 {
		view.Update(tea.KeyMsg{Type: tea.KeyTab})
	}
	assert.Equal(t, "", view.Filter())
}

func TestView_NewQuestion(t *testing.T) {
	view := newView(&mockAnswerService{result: sampleResult()})
	view.Update(runAsk(t, view, "first"))
	require.False(t, view.InputFocused())

	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})

	assert.True(t, view.InputFocused())
	assert.Equal(t, "", view.Question())
}

func TestView_KeysIgnoredWhileThinking(t *testing.T) {
	view := newView(&mockAnswerService{result: sampleResult()})
	runAsk(t, view, "first")

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyTab})

	assert.Nil(t, cmd)
	assert.Equal(t, "", view.Filter())
}

func TestView_Esc_ReturnsToMenu(t *testing.T) {
	view := newView(&mockAnswerService{})

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)

	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
}

func TestView_ErrorOccurred(t *testing.T) {
	view := newView(&mockAnswerService{})

	view.Update(messages.ErrorOccurred{Err: errors.New("boom")})

	assert.EqualError(t, view.Err(), "boom")
	assert.Equal(t, "boom", view.statusbar.Message())
}

func TestView_Reset(t *testing.T) {
	view := newView(&mockAnswerService{result: sampleResult()})
	view.Update(tea.KeyMsg{Type: tea.KeyTab})
	view.Update(runAsk(t, view, "first"))

	view.Reset()

	assert.Nil(t, view.Result())
	assert.True(t, view.InputFocused())
	assert.Equal(t, "Action", view.Filter())
	assert.Equal(t, status.StateReady, view.statusbar.State())
}
