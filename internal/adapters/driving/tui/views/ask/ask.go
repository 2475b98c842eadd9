// Package ask provides the question and answer view for the TUI.
package ask

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driving/tui/components/input"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driving/tui/components/list"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driving/tui/components/status"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driving/tui/keymap"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driving/tui/messages"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driving/tui/render"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driving/tui/styles"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/ports/driving"
)

// View is the ask view: a question input, the rendered answer and the
// retrieved sources.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QuestionInput
	answer    viewport.Model
	list      *list.MatchList
	statusbar *status.Bar
	spinner   spinner.Model

	answerService driving.AnswerService
	taxonomy      domain.Taxonomy
	topK          int
	ctx           context.Context

	// filters holds "" followed by every category name; filter indexes it.
	filters []string
	filter  int

	result     *domain.QueryResult
	width      int
	height     int
	ready      bool
	thinking   bool
	err        error
	focusInput bool
}

// NewView creates a new ask view. A topK of zero uses the service default.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	answerService driving.AnswerService,
	taxonomy domain.Taxonomy,
	topK int,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	filters := []string{""}
	for _, cat := range taxonomy.Categories() {
		filters = append(filters, string(cat))
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Title

	return &View{
		styles:        s,
		keymap:        km,
		input:         input.NewQuestionInput(s),
		answer:        viewport.New(80, 8),
		list:          list.NewMatchList(s),
		statusbar:     status.NewBar(s, km),
		spinner:       sp,
		answerService: answerService,
		taxonomy:      taxonomy,
		topK:          topK,
		ctx:           context.Background(),
		filters:       filters,
		width:         80,
		height:        24,
		focusInput:    true,
	}
}

// WithContext sets the context used for answer calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the ask view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case spinner.TickMsg:
		if !v.thinking {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case messages.AnswerCompleted:
		v.handleAnswerCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.thinking = false
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	var cmd tea.Cmd
	if v.focusInput {
		v.input, cmd = v.input.Update(msg)
	}
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	if v.thinking {
		return v, nil
	}

	if msg.Type == tea.KeyTab {
		v.cycleFilter()
		return v, nil
	}

	if v.focusInput {
		if msg.Type == tea.KeyEnter {
			question := strings.TrimSpace(v.input.Value())
			if question == "" {
				return v, nil
			}
			v.thinking = true
			v.err = nil
			v.input.Blur()
			v.focusInput = false
			v.statusbar.SetState(status.StateThinking)
			return v, tea.Batch(v.spinner.Tick, v.ask(question))
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	switch msg.String() {
	case "n":
		v.focusInput = true
		v.input.SetValue("")
		return v, v.input.Focus()
	case "up", "k":
		v.list.MoveUp()
	case "down", "j":
		v.list.MoveDown()
	case "pgup", "pgdown":
		var cmd tea.Cmd
		v.answer, cmd = v.answer.Update(msg)
		return v, cmd
	}
	return v, nil
}

// ask returns a command that runs retrieval and generation.
func (v *View) ask(question string) tea.Cmd {
	opts := domain.QueryOptions{TopK: v.topK}
	if f := v.filters[v.filter]; f != "" {
		opts.Filter = v.taxonomy.Filter([]string{f})
	}
	ctx := v.ctx
	svc := v.answerService

	return func() tea.Msg {
		if svc == nil {
			return messages.ErrorOccurred{Err: ErrNoAnswerService}
		}
		result, err := svc.Answer(ctx, question, opts)
		return messages.AnswerCompleted{Result: result, Err: err}
	}
}

func (v *View) handleAnswerCompleted(msg messages.AnswerCompleted) {
	v.thinking = false
	if msg.Err != nil {
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		v.focusInput = true
		v.input.Focus()
		return
	}

	v.err = nil
	v.result = msg.Result
	v.answer.SetContent(render.Answer(v.styles, msg.Result, v.width))
	v.answer.GotoTop()
	v.list.SetMatches(msg.Result.Matches)
	v.statusbar.SetState(status.StateAnswered)
	v.statusbar.SetMatchCount(len(msg.Result.Matches))
}

func (v *View) cycleFilter() {
	v.filter = (v.filter + 1) % len(v.filters)
	v.statusbar.SetFilter(v.filters[v.filter])
}

// View renders the ask view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := []string{v.styles.Title.Render("Ask the library"), "", v.input.View(), ""}

	switch {
	case v.thinking:
		sections = append(sections, v.spinner.View()+" "+v.styles.Muted.Render("Retrieving and generating..."))
	case v.err != nil:
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()))
	case v.result != nil:
		sections = append(sections, v.answer.View(), "", v.list.View())
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions splits the height between the answer and the sources.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	body := height - 9
	if body < 6 {
		body = 6
	}
	v.input.SetWidth(width)
	v.answer.Width = width
	v.answer.Height = body / 2
	v.list.SetDimensions(width, body-body/2)
	v.statusbar.SetWidth(width)
	if v.result != nil {
		v.answer.SetContent(render.Answer(v.styles, v.result, width))
	}
}

// Reset returns the view to an empty question. The filter is kept.
func (v *View) Reset() {
	v.focusInput = true
	v.thinking = false
	v.input.SetValue("")
	v.input.Focus()
	v.result = nil
	v.err = nil
	v.list.SetMatches(nil)
	v.statusbar.Clear()
}

// Question returns the current input value.
func (v *View) Question() string {
	return v.input.Value()
}

// Result returns the last answer, or nil.
func (v *View) Result() *domain.QueryResult {
	return v.result
}

// Filter returns the active category filter, or "" for none.
func (v *View) Filter() string {
	return v.filters[v.filter]
}

// Err returns the last error, if any.
func (v *View) Err() error {
	return v.err
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// Thinking reports whether an answer is in flight.
func (v *View) Thinking() bool {
	return v.thinking
}
