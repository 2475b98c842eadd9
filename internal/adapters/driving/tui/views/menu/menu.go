// Package menu provides the main navigation menu view for the TUI.
package menu

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driving/tui/messages"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driving/tui/styles"
)

// Item represents a single menu option.
type Item struct {
	Label       string
	Description string
	View        messages.ViewType
	Quit        bool
}

// View represents the main menu view.
type View struct {
	styles   *styles.Styles
	items    []Item
	selected int
	width    int
	height   int
	ready    bool
}

// NewView creates a new menu view. The Documents entry is omitted when
// the library is not available.
func NewView(s *styles.Styles, withLibrary bool) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	items := []Item{
		{Label: "Ask", Description: "Answer a question from the tagged library", View: messages.ViewAsk},
	}
	if withLibrary {
		items = append(items, Item{
			Label: "Documents", Description: "Browse processed documents and their tags", View: messages.ViewDocuments,
		})
	}
	items = append(items,
		Item{Label: "Help", Description: "Keybindings", View: messages.ViewHelp},
		Item{Label: "Quit", Quit: true},
	)

	return &View{
		styles: s,
		items:  items,
		width:  80,
		height: 24,
	}
}

// Init initialises the menu view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if v.selected > 0 {
				v.selected--
			}
		case "down", "j":
			if v.selected < len(v.items)-1 {
				v.selected++
			}
		case "enter":
			item := v.items[v.selected]
			if item.Quit {
				return v, tea.Quit
			}
			return v, func() tea.Msg {
				return messages.ViewChanged{View: item.View}
			}
		case "q":
			return v, tea.Quit
		}
	}

	return v, nil
}

// View renders the menu.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder

	b.WriteString(v.styles.Title.Render("heartgpt"))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render("Competency library for teachers"))
	b.WriteString("\n\n")

	for i, item := range v.items {
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render("> " + item.Label))
		} else {
			b.WriteString(v.styles.Normal.Render("  " + item.Label))
		}
		if item.Description != "" {
			b.WriteString("  ")
			b.WriteString(v.styles.Muted.Render(item.Description))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render("[j/k] Navigate  [Enter] Select  [q] Quit"))

	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Selected returns the currently selected index.
func (v *View) Selected() int {
	return v.selected
}

// Items returns the menu entries.
func (v *View) Items() []Item {
	return v.items
}
