// Package doccontent shows the chunks and tags of one processed document.
package doccontent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driving/tui/messages"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driving/tui/render"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driving/tui/styles"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/ports/driving"
)

// ErrNoLibrary is returned when no library service is wired.
var ErrNoLibrary = errors.New("library service not available")

// View is the document content view.
type View struct {
	styles   *styles.Styles
	library  driving.LibraryService
	taxonomy domain.Taxonomy
	ctx      context.Context
	viewport viewport.Model

	filename string
	document *domain.ProcessedDocument
	width    int
	height   int
	ready    bool
	loading  bool
	err      error
}

// NewView creates a new document content view.
func NewView(s *styles.Styles, library driving.LibraryService, taxonomy domain.Taxonomy) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:   s,
		library:  library,
		taxonomy: taxonomy,
		ctx:      context.Background(),
		viewport: viewport.New(80, 18),
		width:    80,
		height:   24,
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

// SetDocument clears the view and returns a command loading the document.
func (v *View) SetDocument(filename string) tea.Cmd {
	v.filename = filename
	v.document = nil
	v.err = nil
	v.loading = true
	v.viewport.SetContent("")
	v.viewport.GotoTop()

	ctx := v.ctx
	library := v.library
	return func() tea.Msg {
		if library == nil {
			return messages.DocumentLoaded{Filename: filename, Err: ErrNoLibrary}
		}
		doc, err := library.Get(ctx, filename)
		return messages.DocumentLoaded{Filename: filename, Document: doc, Err: err}
	}
}

// Update handles messages for the document content view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewDocuments}
			}
		}
		var cmd tea.Cmd
		v.viewport, cmd = v.viewport.Update(msg)
		return v, cmd

	case messages.DocumentLoaded:
		// A slow load for a previous selection is dropped.
		if msg.Filename != v.filename {
			return v, nil
		}
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.document = msg.Document
		v.refresh()
		return v, nil
	}

	return v, nil
}

func (v *View) refresh() {
	if v.document == nil {
		return
	}
	v.viewport.SetContent(render.Document(v.styles, v.taxonomy, v.document, v.width))
}

// View renders the document content view.
func (v *View) View() string {
	var b strings.Builder

	title := v.filename
	if title == "" {
		title = "Document"
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading document..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case v.document == nil:
		b.WriteString(v.styles.Muted.Render("(No document)"))
	default:
		b.WriteString(v.viewport.View())
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%3.f%%]", v.viewport.ScrollPercent()*100)))
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Muted.Render("[↑/↓/PgUp/PgDn] scroll  [esc] back"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.viewport.Width = width
	v.viewport.Height = max(height-7, 1)
	v.refresh()
}

// Filename returns the selected document name.
func (v *View) Filename() string {
	return v.filename
}

// Document returns the loaded document, or nil.
func (v *View) Document() *domain.ProcessedDocument {
	return v.document
}

// Loading reports whether a load is in flight.
func (v *View) Loading() bool {
	return v.loading
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
