package components

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/opencode-ai/shade/internal/theme"
	"github.com/opencode-ai/shade/internal/tui/styles"
)

func typeText(f InputField, text string) InputField {
	for _, r := range text {
		f, _ = f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return f
}

func TestInputFieldSubmit(t *testing.T) {
	f := NewInputField(InputFieldOptions{Label: "Message", Placeholder: "Type"}, styles.DefaultStyles())
	require.True(t, f.Focused())

	f = typeText(f, "hello")
	require.Equal(t, "hello", f.Value())

	f, cmd := f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	require.Equal(t, InputSubmittedMsg{Value: "hello"}, cmd())
	require.Equal(t, "", f.Value())
	require.Equal(t, []string{"hello"}, f.History())
}

func TestInputFieldRequired(t *testing.T) {
	f := NewInputField(InputFieldOptions{Required: true}, styles.DefaultStyles())

	f, cmd := f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Nil(t, cmd)
	require.Equal(t, "A value is required.", f.Err())
	require.True(t, strings.Contains(f.View(), "A value is required."))

	f = typeText(f, "x")
	require.Empty(t, f.Err())
}

func TestInputFieldOptionalBlankIsIgnored(t *testing.T) {
	f := NewInputField(InputFieldOptions{}, styles.DefaultStyles())
	f = typeText(f, "   ")

	f, cmd := f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Nil(t, cmd)
	require.Empty(t, f.Err())
	require.Empty(t, f.History())
}

func TestInputFieldCharLimit(t *testing.T) {
	f := NewInputField(InputFieldOptions{CharLimit: 3}, styles.DefaultStyles())
	f = typeText(f, "abcdef")
	require.Equal(t, "abc", f.Value())
}

func TestInputFieldBlurIgnoresEnter(t *testing.T) {
	f := NewInputField(InputFieldOptions{}, styles.DefaultStyles())
	f = f.SetValue("kept").Blur()
	require.False(t, f.Focused())

	f, cmd := f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Nil(t, cmd)
	require.Equal(t, "kept", f.Value())

	f, _ = f.Focus()
	require.True(t, f.Focused())
}

func TestInputFieldRestyle(t *testing.T) {
	f := NewInputField(InputFieldOptions{Label: "Message"}, styles.DefaultStyles())

	dark, err := theme.GetPalette(theme.Dark)
	require.NoError(t, err)
	f.SetStyles(styles.BuildStyles(theme.State{Theme: theme.Dark, Palette: dark}))
	require.Equal(t, theme.Dark, f.styles.Theme)
	require.True(t, strings.Contains(f.View(), "Message"))
}

func TestRenderPaletteSwatches(t *testing.T) {
	out := RenderPaletteSwatches(styles.DefaultStyles())
	require.True(t, strings.Contains(out, "Palette: light"), out)

	light, err := theme.GetPalette(theme.Light)
	require.NoError(t, err)
	for _, role := range light.Roles() {
		require.True(t, strings.Contains(out, string(role)), "missing role %s", role)
		require.True(t, strings.Contains(out, light.Color(role)), "missing colour for %s", role)
	}
}
