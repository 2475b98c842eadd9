package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTheme(t *testing.T) {
	theme := DefaultTheme()

	require.NotNil(t, theme)
	assert.NotEmpty(t, string(theme.Primary))
	assert.NotEmpty(t, string(theme.Secondary))
	assert.NotEmpty(t, string(theme.Foreground))
	assert.NotEmpty(t, string(theme.Muted))
	assert.NotEmpty(t, string(theme.Tag))
	assert.NotEmpty(t, string(theme.Success))
	assert.NotEmpty(t, string(theme.Warning))
	assert.NotEmpty(t, string(theme.Error))
	assert.NotEmpty(t, string(theme.Border))
}

func TestDefaultTheme_AccentsAreDistinct(t *testing.T) {
	theme := DefaultTheme()

	accents := []lipgloss.Color{
		theme.Primary,
		theme.Secondary,
		theme.Tag,
		theme.Success,
		theme.Warning,
		theme.Error,
	}

	seen := make(map[string]bool)
	for _, c := range accents {
		s := string(c)
		assert.False(t, seen[s], "duplicate accent: %s", s)
		seen[s] = true
	}
}

func TestNewStyles_WithTheme(t *testing.T) {
	theme := DefaultTheme()
	styles := NewStyles(theme)

	require.NotNil(t, styles)
	assert.Equal(t, theme, styles.Theme())
}

func TestNewStyles_NilTheme(t *testing.T) {
	styles := NewStyles(nil)

	require.NotNil(t, styles)
	assert.NotNil(t, styles.Theme())
}

func TestDefaultStyles_Render(t *testing.T) {
	s := DefaultStyles()

	assert.Contains(t, s.Title.Render("Heart"), "Heart")
	assert.Contains(t, s.Tag.Render("Vision"), "Vision")
	assert.Contains(t, s.Answer.Render("reply"), "reply")
}

func TestPlainStyles_RenderUnchanged(t *testing.T) {
	s := PlainStyles()

	assert.Equal(t, "Heart", s.Title.Render("Heart"))
	assert.Equal(t, "Vision", s.Tag.Render("Vision"))
	assert.Equal(t, "reply", s.Answer.Render("reply"))
	assert.NotNil(t, s.Theme())
}
