// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driving/tui/keymap"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driving/tui/styles"
)

// State represents the current application state for display.
type State string

const (
	StateReady    State = "ready"
	StateThinking State = "thinking"
	StateError    State = "error"
	StateAnswered State = "answered"
)

// Bar displays application status, the active filter and keybinding hints.
type Bar struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	state      State
	message    string
	filter     string
	matchCount int
	width      int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update is a no-op; the bar is driven through its setters.
func (s *Bar) Update(_ tea.Msg) (*Bar, tea.Cmd) {
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(left + strings.Repeat(" ", padding) + right)
}

func (s *Bar) renderLeft() string {
	var parts []string

	switch s.state {
	case StateThinking:
		parts = append(parts, s.styles.Muted.Render("Thinking..."))
	case StateError:
		msg := "Error"
		if s.message != "" {
			msg = "Error: " + s.message
		}
		parts = append(parts, s.styles.Error.Render(msg))
	case StateAnswered:
		parts = append(parts, s.styles.Normal.Render(fmt.Sprintf("%d sources", s.matchCount)))
	case StateReady:
		label := "Ready"
		if s.message != "" {
			label = s.message
		}
		parts = append(parts, s.styles.Muted.Render(label))
	}

	if s.filter != "" {
		parts = append(parts, s.styles.Tag.Render("filter: "+s.filter))
	}
	return strings.Join(parts, "  ")
}

func (s *Bar) renderRight() string {
	var bindings []key.Binding
	if s.state == StateAnswered {
		bindings = s.keymap.AnswerHelp()
	} else {
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetFilter sets the filter label shown next to the state. Empty hides it.
func (s *Bar) SetFilter(filter string) {
	s.filter = filter
}

// SetMatchCount sets the number of retrieved sources.
func (s *Bar) SetMatchCount(count int) {
	s.matchCount = count
}

// MatchCount returns the number of retrieved sources.
func (s *Bar) MatchCount() int {
	return s.matchCount
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Clear resets the status bar to the ready state. The filter is kept.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.matchCount = 0
}
