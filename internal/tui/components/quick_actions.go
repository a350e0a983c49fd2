package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/opencode-ai/shade/internal/theme"
	"github.com/opencode-ai/shade/internal/tui/styles"
)

// QuickAction represents a keyboard-triggered action.
type QuickAction struct {
	Key     string // Keyboard key (e.g., "q", "tab")
	Label   string // Display label (e.g., "Quit")
	Enabled bool   // Whether the action is available
}

// RenderQuickActionBar renders a horizontal bar of available quick actions.
// Format: "1:Home  2:Palette  3:About  q:Quit"
func RenderQuickActionBar(styleSet styles.Styles, actions []QuickAction) string {
	if len(actions) == 0 {
		return ""
	}

	var parts []string
	for _, action := range actions {
		if !action.Enabled {
			continue
		}
		keyStyle := styleSet.Accent.Bold(true)
		part := fmt.Sprintf("%s:%s", keyStyle.Render(action.Key), styleSet.Muted.Render(action.Label))
		parts = append(parts, part)
	}

	if len(parts) == 0 {
		return ""
	}

	return strings.Join(parts, "  ")
}

// ShellQuickActions returns the footer actions. Typing keys are left to
// the input field while it has focus.
func ShellQuickActions(inputFocused bool) []QuickAction {
	return []QuickAction{
		{Key: "tab", Label: "Next view", Enabled: true},
		{Key: "1", Label: "Home", Enabled: !inputFocused},
		{Key: "2", Label: "Palette", Enabled: !inputFocused},
		{Key: "3", Label: "About", Enabled: !inputFocused},
		{Key: "esc", Label: "Blur input", Enabled: inputFocused},
		{Key: "q", Label: "Quit", Enabled: !inputFocused},
		{Key: "ctrl+c", Label: "Quit", Enabled: inputFocused},
	}
}

// RenderFooter renders the centred quick action bar.
func RenderFooter(styleSet styles.Styles, actions []QuickAction, width int) string {
	bar := RenderQuickActionBar(styleSet, actions)
	if bar == "" || width <= 0 {
		return bar
	}

	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(styleSet.Palette.Color(theme.RoleTextMuted))).
		Width(width).
		Align(lipgloss.Center).
		Render(bar)
}
