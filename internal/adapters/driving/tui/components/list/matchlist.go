// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driving/tui/styles"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
)

// linesPerMatch is the rendered height of one match.
const linesPerMatch = 3

// MatchList displays retrieved chunks in a navigable list.
type MatchList struct {
	matches  []domain.Match
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewMatchList creates a new match list component.
func NewMatchList(s *styles.Styles) *MatchList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &MatchList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the list.
func (r *MatchList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *MatchList) Update(msg tea.Msg) (*MatchList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the visible window of matches.
func (r *MatchList) View() string {
	if len(r.matches) == 0 {
		return r.styles.Muted.Render("No sources")
	}

	lines := make([]string, 0, len(r.matches)*linesPerMatch+2)
	lines = append(lines, r.styles.Subtitle.Render(fmt.Sprintf("Sources (%d)", len(r.matches))), "")

	visible := (r.height - 2) / linesPerMatch
	if visible < 1 {
		visible = 1
	}
	start := 0
	if r.selected >= visible {
		start = r.selected - visible + 1
	}
	end := start + visible
	if end > len(r.matches) {
		end = len(r.matches)
	}

	for i := start; i < end; i++ {
		lines = append(lines, r.renderMatch(i, &r.matches[i]))
	}

	return strings.Join(lines, "\n")
}

// renderMatch formats one match as a title, tag and preview line.
func (r *MatchList) renderMatch(index int, m *domain.Match) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	title := m.ChunkID
	maxTitle := r.width - 12
	if maxTitle < 10 {
		maxTitle = 10
	}
	title = domain.Preview(title, maxTitle)
	score := fmt.Sprintf("%.2f", m.Score)

	var titleLine string
	if index == r.selected {
		titleLine = r.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, maxTitle, title, score))
	} else {
		titleLine = r.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, maxTitle, title)) +
			r.styles.Muted.Render(score)
	}

	tags := "untagged"
	if len(m.Metadata.Tags) > 0 {
		tags = strings.Join(m.Metadata.Tags, ", ")
	}
	tagLine := r.styles.Tag.Render("    " + tags)

	text := m.Preview
	if text == "" {
		text = m.Metadata.ChunkText
	}
	text = strings.Join(strings.Fields(text), " ")
	maxPreview := r.width - 6
	if maxPreview < 20 {
		maxPreview = 20
	}
	previewLine := r.styles.Muted.Render("    " + domain.Preview(text, maxPreview))

	return titleLine + "\n" + tagLine + "\n" + previewLine
}

// SetMatches replaces the list contents and resets the selection.
func (r *MatchList) SetMatches(matches []domain.Match) {
	r.matches = matches
	r.selected = 0
}

// Matches returns the current matches.
func (r *MatchList) Matches() []domain.Match {
	return r.matches
}

// Selected returns the index of the selected match.
func (r *MatchList) Selected() int {
	return r.selected
}

// SelectedMatch returns the selected match, or nil if the list is empty.
func (r *MatchList) SelectedMatch() *domain.Match {
	if len(r.matches) == 0 {
		return nil
	}
	return &r.matches[r.selected]
}

// MoveUp moves selection up.
func (r *MatchList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *MatchList) MoveDown() {
	if r.selected < len(r.matches)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *MatchList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of matches.
func (r *MatchList) Count() int {
	return len(r.matches)
}
