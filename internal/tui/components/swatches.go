package components

import (
	"fmt"
	"strings"

	"github.com/opencode-ai/shade/internal/tui/styles"
)

// RenderPaletteSwatches lists every palette role with a colour block and
// its hex value.
func RenderPaletteSwatches(styleSet styles.Styles) string {
	roles := styleSet.Palette.Roles()
	width := 0
	for _, role := range roles {
		if len(role) > width {
			width = len(role)
		}
	}

	lines := make([]string, 0, len(roles)+1)
	lines = append(lines, styleSet.Title.Render(fmt.Sprintf("Palette: %s", styleSet.Theme)))
	for _, role := range roles {
		lines = append(lines, fmt.Sprintf("%s %s %s",
			styleSet.Swatch(role),
			styleSet.Text.Render(fmt.Sprintf("%-*s", width, role)),
			styleSet.Muted.Render(styleSet.Palette.Color(role)),
		))
	}
	return strings.Join(lines, "\n")
}
