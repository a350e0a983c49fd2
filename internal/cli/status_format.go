package cli

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"

	"github.com/opencode-ai/shade/internal/theme"
)

const swatchWidth = 4

// formatSwatch renders a block in hex using the colour support of the
// output. Without colour support it renders blanks.
func formatSwatch(profile termenv.Profile, hex string) string {
	block := strings.Repeat(" ", swatchWidth)
	if profile == termenv.Ascii {
		return block
	}
	return termenv.String(block).Background(profile.Color(hex)).String()
}

// formatThemeLabel renders the theme name in its own palette's accent on
// its own background.
func formatThemeLabel(profile termenv.Profile, state theme.State) string {
	label := fmt.Sprintf(" %s ", strings.ToUpper(state.Theme.String()))
	if profile == termenv.Ascii {
		return strings.TrimSpace(label)
	}
	return termenv.String(label).
		Foreground(profile.Color(state.Palette.Color(theme.RoleText))).
		Background(profile.Color(state.Palette.Color(theme.RoleBackground))).
		Bold().
		String()
}
