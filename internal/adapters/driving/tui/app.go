package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driving/tui/keymap"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driving/tui/messages"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driving/tui/styles"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driving/tui/views/ask"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driving/tui/views/doccontent"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driving/tui/views/documents"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driving/tui/views/menu"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	menuView       *menu.View
	askView        *ask.View
	documentsView  *documents.View
	docContentView *doccontent.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	err    error
	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if ports == nil {
		return nil, fmt.Errorf("creating app: %w", ErrMissingAnswerService)
	}
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	taxonomy := ports.taxonomy()

	return &App{
		ports:          ports,
		ctx:            context.Background(),
		styles:         s,
		keymap:         km,
		menuView:       menu.NewView(s, ports.Library != nil),
		askView:        ask.NewView(s, km, ports.Answer, taxonomy, ports.TopK),
		documentsView:  documents.NewView(s, ports.Library),
		docContentView: doccontent.NewView(s, ports.Library, taxonomy),
		currentView:    messages.ViewMenu,
	}, nil
}

// WithContext sets the context used by every view for service calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.askView.WithContext(ctx)
	a.documentsView.WithContext(ctx)
	a.docContentView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("heartgpt"),
	)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a.forwardKey(msg)

	case messages.ViewChanged:
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewAsk:
			a.askView.Reset()
			return a, a.askView.Init()
		case messages.ViewDocuments:
			return a, a.documentsView.Load()
		case messages.ViewMenu, messages.ViewDocContent, messages.ViewHelp:
		}
		return a, nil

	case messages.DocumentSelected:
		a.currentView = messages.ViewDocContent
		return a, a.docContentView.SetDocument(msg.Filename)

	case messages.DocumentsLoaded:
		a.documentsView, cmd = a.documentsView.Update(msg)
		return a, cmd

	case messages.DocumentLoaded:
		a.docContentView, cmd = a.docContentView.Update(msg)
		return a, cmd

	case messages.AnswerCompleted:
		a.err = msg.Err
		a.askView, cmd = a.askView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		if a.currentView == messages.ViewAsk {
			a.askView, cmd = a.askView.Update(msg)
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	// Spinner ticks and cursor blinks go to the active view.
	switch a.currentView {
	case messages.ViewAsk:
		a.askView, cmd = a.askView.Update(msg)
	case messages.ViewDocuments:
		a.documentsView, cmd = a.documentsView.Update(msg)
	case messages.ViewDocContent:
		a.docContentView, cmd = a.docContentView.Update(msg)
	case messages.ViewMenu, messages.ViewHelp:
	}
	return a, cmd
}

func (a *App) forwardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewAsk:
		a.askView, cmd = a.askView.Update(msg)
	case messages.ViewDocuments:
		a.documentsView, cmd = a.documentsView.Update(msg)
	case messages.ViewDocContent:
		a.docContentView, cmd = a.docContentView.Update(msg)
	case messages.ViewHelp:
		if msg.Type == tea.KeyEsc {
			a.currentView = messages.ViewMenu
		}
	}
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewAsk:
		return a.askView.View()
	case messages.ViewDocuments:
		return a.documentsView.View()
	case messages.ViewDocContent:
		return a.docContentView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

// viewHelp renders the keybinding groups and the taxonomy.
func (a *App) viewHelp() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")

	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			b.WriteString(a.renderBinding(binding))
		}
		b.WriteString("\n")
	}

	b.WriteString(a.styles.Subtitle.Render("Competencies"))
	b.WriteString("\n")
	taxonomy := a.ports.taxonomy()
	for _, cat := range taxonomy.Categories() {
		b.WriteString(fmt.Sprintf("  %-14s %s\n", cat,
			strings.Join(domain.Strings(taxonomy.Labels(cat)), ", ")))
	}

	b.WriteString("\n")
	b.WriteString(a.styles.Muted.Render("[esc] back to menu"))
	return b.String()
}

func (a *App) renderBinding(binding key.Binding) string {
	h := binding.Help()
	return fmt.Sprintf("  %-12s %s\n", h.Key, h.Desc)
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.askView.SetDimensions(width, height)
	a.documentsView.SetDimensions(width, height)
	a.docContentView.SetDimensions(width, height)
}
