package tui

import (
	"fmt"

	"github.com/opencode-ai/shade/internal/tui/components"
)

type viewID int

const (
	viewHome viewID = iota
	viewPalette
	viewAbout
)

var views = [...]viewID{viewHome, viewPalette, viewAbout}

func (v viewID) title() string {
	switch v {
	case viewPalette:
		return "2 Palette"
	case viewAbout:
		return "3 About"
	default:
		return "1 Home"
	}
}

func nextView(current viewID) viewID {
	switch current {
	case viewHome:
		return viewPalette
	case viewPalette:
		return viewAbout
	default:
		return viewHome
	}
}

func (m model) viewLines() []string {
	switch m.view {
	case viewPalette:
		return []string{components.RenderPaletteSwatches(m.styles)}
	case viewAbout:
		return []string{m.about.render(m.styles.Theme, m.width)}
	default:
		return m.homeLines()
	}
}

func (m model) homeLines() []string {
	lines := []string{m.input.View(), ""}

	history := m.input.History()
	if len(history) == 0 {
		return append(lines, components.EmptyHistory().Render(m.styles))
	}

	lines = append(lines, m.styles.Text.Render("Submitted:"))
	start := 0
	if len(history) > 5 {
		start = len(history) - 5
	}
	for i := len(history) - 1; i >= start; i-- {
		lines = append(lines, m.styles.Muted.Render(fmt.Sprintf("  %d. ", i+1))+m.styles.Text.Render(history[i]))
	}
	return lines
}
