// Package documents provides the processed documents list view for the TUI.
package documents

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driving/tui/messages"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driving/tui/styles"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/ports/driving"
)

// ErrNoLibrary is returned when no library service is wired.
var ErrNoLibrary = errors.New("library service not available")

// View is the documents list view.
type View struct {
	styles  *styles.Styles
	library driving.LibraryService
	ctx     context.Context

	filenames    []string
	selected     int
	scrollOffset int
	width        int
	height       int
	ready        bool
	loading      bool
	err          error
}

// NewView creates a new documents view.
func NewView(s *styles.Styles, library driving.LibraryService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:    s,
		library:   library,
		ctx:       context.Background(),
		filenames: []string{},
		width:     80,
		height:    24,
	}
}

// WithContext sets the context used for library calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Load marks the view as loading and returns a command listing documents.
func (v *View) Load() tea.Cmd {
	v.loading = true
	v.err = nil
	ctx := v.ctx
	library := v.library

	return func() tea.Msg {
		if library == nil {
			return messages.DocumentsLoaded{Err: ErrNoLibrary}
		}
		names, err := library.List(ctx)
		return messages.DocumentsLoaded{Filenames: names, Err: err}
	}
}

// Update handles messages for the documents view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.DocumentsLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.filenames = msg.Filenames
		if v.filenames == nil {
			v.filenames = []string{}
		}
		v.selected = 0
		v.scrollOffset = 0
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
			v.adjustScroll()
		}
	case "down", "j":
		if v.selected < len(v.filenames)-1 {
			v.selected++
			v.adjustScroll()
		}
	case "enter":
		if v.selected < len(v.filenames) {
			name := v.filenames[v.selected]
			return v, func() tea.Msg {
				return messages.DocumentSelected{Filename: name}
			}
		}
	case "r":
		return v, v.Load()
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}
	return v, nil
}

func (v *View) adjustScroll() {
	visible := v.visibleItemCount()
	if v.selected < v.scrollOffset {
		v.scrollOffset = v.selected
	} else if v.selected >= v.scrollOffset+visible {
		v.scrollOffset = v.selected - visible + 1
	}
}

func (v *View) visibleItemCount() int {
	// title, blank, scroll indicator, help
	available := v.height - 7
	if available < 1 {
		available = 1
	}
	return available
}

// View renders the documents view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Documents (%d)", len(v.filenames))))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading documents..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case len(v.filenames) == 0:
		b.WriteString(v.styles.Muted.Render("No documents processed yet. Upload one with `heartgpt upload`."))
	default:
		visible := v.visibleItemCount()
		end := min(v.scrollOffset+visible, len(v.filenames))
		for i := v.scrollOffset; i < end; i++ {
			if i == v.selected {
				b.WriteString(v.styles.Selected.Render("> " + v.filenames[i]))
			} else {
				b.WriteString(v.styles.Normal.Render("  " + v.filenames[i]))
			}
			b.WriteString("\n")
		}
		if len(v.filenames) > visible {
			b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d-%d of %d]",
				v.scrollOffset+1, end, len(v.filenames))))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Muted.Render("[↑/↓] navigate  [enter] open  [r] reload  [esc] back"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Filenames returns the listed documents.
func (v *View) Filenames() []string {
	return v.filenames
}

// SelectedIndex returns the selected row.
func (v *View) SelectedIndex() int {
	return v.selected
}

// Loading reports whether a list call is in flight.
func (v *View) Loading() bool {
	return v.loading
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
