package tui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"

	"github.com/opencode-ai/shade/internal/theme"
)

const aboutMarkdown = `# About shade

shade follows your **light/dark preference** and restyles itself when it
changes. Nothing here needs a restart.

## Where the preference comes from

1. ` + "`SHADE_APPEARANCE`" + ` or ` + "`COLORFGBG`" + ` in the environment
2. The desktop colour scheme (GNOME ` + "`color-scheme`" + `, macOS appearance)
3. The terminal background colour

Set ` + "`theme.mode`" + ` to ` + "`light`" + ` or ` + "`dark`" + ` in the config
file to pin a theme; edits apply live.
`

const defaultAboutWidth = 80

// aboutPage caches glamour output per theme and width. It is shared by
// model copies, so it is held by pointer.
type aboutPage struct {
	cache *aboutCache
}

type aboutCache struct {
	mu    sync.Mutex
	theme theme.Theme
	width int
	out   string
}

func (a *aboutPage) render(t theme.Theme, width int) string {
	if a.cache == nil {
		a.cache = &aboutCache{}
	}
	if width <= 0 {
		width = defaultAboutWidth
	}

	c := a.cache
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.out != "" && c.theme == t && c.width == width {
		return c.out
	}

	c.out = renderMarkdown(aboutMarkdown, t, width)
	c.theme = t
	c.width = width
	return c.out
}

// renderMarkdown renders md with the glamour standard style named after
// the theme. Rendering failures fall back to the raw markdown.
func renderMarkdown(md string, t theme.Theme, width int) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(t.String()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}
