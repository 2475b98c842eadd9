// Package render formats answers and processed documents with lipgloss
// styles. It is shared by the TUI and the plain command output.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driving/tui/styles"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
)

// minWidth keeps wrapping readable on very narrow terminals.
const minWidth = 20

// Answer renders the reply of a query result. Structured answers are laid
// out extract by extract; anything else is shown as the raw reply.
func Answer(s *styles.Styles, result *domain.QueryResult, width int) string {
	width = clamp(width)

	if result.Answer == nil {
		return s.Answer.Render(lipgloss.NewStyle().Width(width - 4).Render(result.Reply))
	}

	a := result.Answer
	var b strings.Builder
	b.WriteString(s.Title.Render(a.Competency))
	if a.Category != "" {
		b.WriteString(s.Muted.Render("  " + a.Category))
	}
	b.WriteString("\n")

	for i, e := range a.Extracts {
		b.WriteString("\n")
		b.WriteString(s.Normal.Width(width - 4).Render(fmt.Sprintf("%d. %q", i+1, strings.TrimSpace(e.Content))))
		b.WriteString("\n")
		reference := strings.TrimSpace(e.Reference)
		if reference == "" {
			reference = "location unknown"
		}
		b.WriteString(s.Muted.Render("   Reference: " + reference))
		b.WriteString("\n")
		if suggestion := strings.TrimSpace(e.TeachingSuggestion); suggestion != "" {
			b.WriteString(s.Success.Width(width - 4).Render("   Teaching suggestion: " + suggestion))
			b.WriteString("\n")
		}
	}

	return s.Answer.Render(strings.TrimRight(b.String(), "\n"))
}

// Matches renders retrieved chunks as a numbered source list.
func Matches(s *styles.Styles, matches []domain.Match, width int) string {
	if len(matches) == 0 {
		return s.Muted.Render("No sources.")
	}
	width = clamp(width)

	var b strings.Builder
	b.WriteString(s.Subtitle.Render(fmt.Sprintf("Sources (%d)", len(matches))))
	b.WriteString("\n")
	for i := range matches {
		m := &matches[i]
		fmt.Fprintf(&b, "  [%d] %s %s\n", i+1, s.Normal.Render(m.ChunkID), s.Muted.Render(fmt.Sprintf("(%.2f)", m.Score)))
		if tags := Tags(s, m.Metadata.Tags); tags != "" {
			b.WriteString("      " + tags + "\n")
		}
		text := m.Preview
		if text == "" {
			text = m.Metadata.ChunkText
		}
		text = strings.Join(strings.Fields(text), " ")
		b.WriteString(s.Muted.Render("      " + domain.Preview(text, width-8)))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// Tags renders a comma separated tag list, or "" when empty.
func Tags(s *styles.Styles, tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return s.Tag.Render(strings.Join(tags, ", "))
}

// Grouped renders category-grouped tags in taxonomy order. Categories the
// taxonomy does not know are appended in map order.
func Grouped(s *styles.Styles, taxonomy domain.Taxonomy, grouped map[domain.Category][]domain.Competency) string {
	if len(grouped) == 0 {
		return s.Muted.Render("untagged")
	}

	var lines []string
	seen := make(map[domain.Category]bool)
	line := func(cat domain.Category) {
		seen[cat] = true
		lines = append(lines, s.Subtitle.Render(string(cat)+": ")+Tags(s, domain.Strings(grouped[cat])))
	}
	for _, cat := range taxonomy.Categories() {
		if len(grouped[cat]) > 0 {
			line(cat)
		}
	}
	for cat, tags := range grouped {
		if !seen[cat] && len(tags) > 0 {
			line(cat)
		}
	}
	return strings.Join(lines, "\n")
}

// Document renders a processed document: header, grouped tags and every
// chunk with its own tags and summary.
func Document(s *styles.Styles, taxonomy domain.Taxonomy, doc *domain.ProcessedDocument, width int) string {
	width = clamp(width)

	var b strings.Builder
	b.WriteString(s.Title.Render(doc.Filename))
	b.WriteString("\n")
	b.WriteString(s.Muted.Render(fmt.Sprintf("%s  processed %s  %d chunks",
		doc.StoragePath, doc.ProcessedDate.Format("2006-01-02 15:04"), len(doc.Chunks))))
	b.WriteString("\n\n")
	b.WriteString(Grouped(s, taxonomy, doc.Tags))
	b.WriteString("\n")

	for i := range doc.Chunks {
		c := &doc.Chunks[i]
		b.WriteString("\n")
		header := fmt.Sprintf("#%d", c.Index)
		if c.Page > 0 {
			header += fmt.Sprintf(" (page %d)", c.Page)
		}
		b.WriteString(s.Subtitle.Render(header))
		if tags := Tags(s, domain.Strings(c.Tags)); tags != "" {
			b.WriteString("  " + tags)
		}
		b.WriteString("\n")
		if c.Summary != "" {
			b.WriteString(s.Muted.Width(width - 4).Render("Summary: " + c.Summary))
			b.WriteString("\n")
		}
		b.WriteString(s.Normal.Width(width - 4).Render(strings.TrimSpace(c.Text)))
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func clamp(width int) int {
	if width < minWidth {
		return minWidth
	}
	return width
}
