// Package styles provides colour themes and styling for the TUI and for
// styled command output.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colour palette.
type Theme struct {
	// Primary is the main accent colour.
	Primary lipgloss.Color

	// Secondary is used for category headings and filenames.
	Secondary lipgloss.Color

	// Foreground is the default text colour.
	Foreground lipgloss.Color

	// Muted is for less important text.
	Muted lipgloss.Color

	// Tag is the competency tag colour.
	Tag lipgloss.Color

	// Success indicates positive outcomes.
	Success lipgloss.Color

	// Warning indicates caution.
	Warning lipgloss.Color

	// Error indicates problems.
	Error lipgloss.Color

	// Border is the border colour.
	Border lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#E0607E"), // Rose
		Secondary:  lipgloss.Color("#5EA3D6"), // Blue
		Foreground: lipgloss.Color("#E6E1DC"), // Warm white
		Muted:      lipgloss.Color("#8A8580"), // Stone
		Tag:        lipgloss.Color("#C9A227"), // Ochre
		Success:    lipgloss.Color("#7FB069"), // Green
		Warning:    lipgloss.Color("#F2C14E"), // Yellow
		Error:      lipgloss.Color("#D1495B"), // Red
		Border:     lipgloss.Color("#4A4541"), // Dark stone
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	// Title style for headers.
	Title lipgloss.Style

	// Subtitle style for secondary headers and filenames.
	Subtitle lipgloss.Style

	// Normal style for regular text.
	Normal lipgloss.Style

	// Muted style for less important text.
	Muted lipgloss.Style

	// Selected style for highlighted items.
	Selected lipgloss.Style

	// Tag style for competency labels.
	Tag lipgloss.Style

	// Error style for error messages.
	Error lipgloss.Style

	// Success style for success messages.
	Success lipgloss.Style

	// Warning style for warning messages.
	Warning lipgloss.Style

	// InputField style for input areas.
	InputField lipgloss.Style

	// Answer style for the generated reply box.
	Answer lipgloss.Style

	// StatusBar style for the status bar.
	StatusBar lipgloss.Style

	// Border style for bordered containers.
	Border lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme: theme,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Subtitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Secondary),

		Normal: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Foreground).
			Background(theme.Primary),

		Tag: lipgloss.NewStyle().
			Foreground(theme.Tag),

		Error: lipgloss.NewStyle().
			Foreground(theme.Error),

		Success: lipgloss.NewStyle().
			Foreground(theme.Success),

		Warning: lipgloss.NewStyle().
			Foreground(theme.Warning),

		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		Answer: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(theme.Primary).
			PaddingLeft(1),

		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 1),

		Border: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// PlainStyles returns styles that render text unchanged, for output that
// is not a terminal.
func PlainStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		theme:      DefaultTheme(),
		Title:      plain,
		Subtitle:   plain,
		Normal:     plain,
		Muted:      plain,
		Selected:   plain,
		Tag:        plain,
		Error:      plain,
		Success:    plain,
		Warning:    plain,
		InputField: plain,
		Answer:     plain,
		StatusBar:  plain,
		Border:     plain,
	}
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}
