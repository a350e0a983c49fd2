// Package styles derives lipgloss styles from the active theme palette.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/opencode-ai/shade/internal/theme"
)

// Styles contains lipgloss styles derived from a palette.
type Styles struct {
	Theme   theme.Theme
	Palette theme.Palette

	App     lipgloss.Style
	Title   lipgloss.Style
	Text    lipgloss.Style
	Muted   lipgloss.Style
	Accent  lipgloss.Style
	Panel   lipgloss.Style
	Border  lipgloss.Style
	Focus   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style

	TabActive   lipgloss.Style
	TabInactive lipgloss.Style

	InputLabel       lipgloss.Style
	InputText        lipgloss.Style
	InputPlaceholder lipgloss.Style
	InputCursor      lipgloss.Style
	InputBox         lipgloss.Style
	InputBoxFocused  lipgloss.Style
}

// DefaultStyles builds styles from the built-in light palette.
func DefaultStyles() Styles {
	palette, err := theme.GetPalette(theme.Light)
	if err != nil {
		// The built-in registry always carries both themes.
		panic(err)
	}
	return BuildStyles(theme.State{Theme: theme.Light, Palette: palette})
}

// BuildStyles converts a theme state into lipgloss styles.
func BuildStyles(state theme.State) Styles {
	p := state.Palette
	color := func(role theme.Role) lipgloss.Color {
		return lipgloss.Color(p.Color(role))
	}

	return Styles{
		Theme:   state.Theme,
		Palette: p,

		App:     lipgloss.NewStyle().Foreground(color(theme.RoleText)).Background(color(theme.RoleBackground)),
		Title:   lipgloss.NewStyle().Foreground(color(theme.RoleText)).Bold(true),
		Text:    lipgloss.NewStyle().Foreground(color(theme.RoleText)),
		Muted:   lipgloss.NewStyle().Foreground(color(theme.RoleTextMuted)),
		Accent:  lipgloss.NewStyle().Foreground(color(theme.RoleAccent)),
		Panel:   lipgloss.NewStyle().Foreground(color(theme.RoleText)).Background(color(theme.RoleSurface)).BorderStyle(lipgloss.NormalBorder()).BorderForeground(color(theme.RoleBorder)),
		Border:  lipgloss.NewStyle().Foreground(color(theme.RoleBorder)),
		Focus:   lipgloss.NewStyle().Foreground(color(theme.RoleFocus)).Bold(true),
		Success: lipgloss.NewStyle().Foreground(color(theme.RoleSuccess)),
		Warning: lipgloss.NewStyle().Foreground(color(theme.RoleWarning)),
		Error:   lipgloss.NewStyle().Foreground(color(theme.RoleError)),
		Info:    lipgloss.NewStyle().Foreground(color(theme.RoleInfo)),

		TabActive:   lipgloss.NewStyle().Foreground(color(theme.RoleBackground)).Background(color(theme.RoleAccent)).Bold(true).Padding(0, 1),
		TabInactive: lipgloss.NewStyle().Foreground(color(theme.RoleTextMuted)).Padding(0, 1),

		InputLabel:       lipgloss.NewStyle().Foreground(color(theme.RoleAccent)).Bold(true),
		InputText:        lipgloss.NewStyle().Foreground(color(theme.RoleText)),
		InputPlaceholder: lipgloss.NewStyle().Foreground(color(theme.RoleTextMuted)),
		InputCursor:      lipgloss.NewStyle().Foreground(color(theme.RoleFocus)),
		InputBox:         lipgloss.NewStyle().Background(color(theme.RoleInputBackground)).Border(lipgloss.RoundedBorder()).BorderForeground(color(theme.RoleBorder)).Padding(0, 1),
		InputBoxFocused:  lipgloss.NewStyle().Background(color(theme.RoleInputBackground)).Border(lipgloss.RoundedBorder()).BorderForeground(color(theme.RoleFocus)).Padding(0, 1),
	}
}

// Swatch renders a two-cell colour block for role.
func (s Styles) Swatch(role theme.Role) string {
	return lipgloss.NewStyle().Background(lipgloss.Color(s.Palette.Color(role))).Render("  ")
}
