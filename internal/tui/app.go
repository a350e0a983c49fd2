// Package tui implements the shade terminal application shell.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/opencode-ai/shade/internal/theme"
	"github.com/opencode-ai/shade/internal/tui/components"
	"github.com/opencode-ai/shade/internal/tui/styles"
)

// Config configures the TUI program.
type Config struct {
	// Provider supplies the theme. It is required.
	Provider *theme.Provider
	Logger   zerolog.Logger
	Input    components.InputFieldOptions

	// ProgramOptions are appended to the defaults (alt screen).
	ProgramOptions []tea.ProgramOption
}

// Run launches the shell and blocks until the user quits. The provider
// subscription is released on every exit path.
func Run(cfg Config) error {
	state, err := theme.UseCurrentTheme(cfg.Provider)
	if err != nil {
		return fmt.Errorf("launch tui: %w", err)
	}

	opts := append([]tea.ProgramOption{tea.WithAltScreen()}, cfg.ProgramOptions...)
	m := newModel(state, cfg.Input)
	m.current = cfg.Provider.State
	program := tea.NewProgram(m, opts...)

	sub := subscribeToTheme(cfg.Provider, program, state.Theme)
	defer sub.Cancel()

	cfg.Logger.Info().Str("theme", state.Theme.String()).Str("subscription_id", sub.ID).Msg("tui starting")
	_, err = program.Run()
	cfg.Logger.Info().Err(err).Msg("tui exited")
	return err
}

type model struct {
	width       int
	height      int
	styles      styles.Styles
	view        viewID
	input       components.InputField
	about       aboutPage
	flips       int
	lastChanged time.Time
	now         func() time.Time

	// current reads the provider. Flip messages can arrive out of order, so
	// the model applies the provider's state rather than the message's.
	current func() theme.State
}

const (
	minWidth  = 40
	minHeight = 12
)

func newModel(state theme.State, input components.InputFieldOptions) model {
	if input.Label == "" {
		input.Label = "Message"
	}
	styleSet := styles.BuildStyles(state)
	return model{
		styles: styleSet,
		view:   viewHome,
		input:  components.NewInputField(input, styleSet),
		about:  aboutPage{cache: &aboutCache{}},
		now:    time.Now,
	}
}

func (m model) Init() tea.Cmd {
	return m.input.Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ThemeChangedMsg:
		state := msg.State
		if m.current != nil {
			state = m.current()
		}
		m.applyTheme(state)
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case components.InputSubmittedMsg:
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}
	if key == "tab" {
		m.view = nextView(m.view)
		m.input = m.input.Blur()
		return m, nil
	}

	if m.input.Focused() {
		if key == "esc" {
			m.input = m.input.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch key {
	case "1":
		m.view = viewHome
	case "2":
		m.view = viewPalette
	case "3":
		m.view = viewAbout
	case "enter", "i":
		if m.view == viewHome {
			var cmd tea.Cmd
			m.input, cmd = m.input.Focus()
			return m, cmd
		}
	case "q", "esc":
		return m, tea.Quit
	}
	return m, nil
}

func (m *model) applyTheme(state theme.State) {
	if state.Theme == m.styles.Theme {
		return
	}
	m.styles = styles.BuildStyles(state)
	m.input.SetStyles(m.styles)
	m.flips++
	m.lastChanged = m.now()
}

func (m model) View() string {
	if m.width > 0 && m.height > 0 {
		if m.width < minWidth || m.height < minHeight {
			return fmt.Sprintf("%s\n", strings.Join(m.smallViewLines(), "\n"))
		}
	}

	lines := []string{
		m.headerLine(),
		m.tabsLine(),
		"",
	}
	lines = append(lines, m.viewLines()...)
	lines = append(lines, "", m.styles.Muted.Render(m.lastChangedLine()))
	lines = append(lines, "", components.RenderFooter(m.styles, components.ShellQuickActions(m.input.Focused()), m.width))

	return fmt.Sprintf("%s\n", strings.Join(lines, "\n"))
}

func (m model) headerLine() string {
	return m.styles.Title.Render("shade") + "  " + m.styles.Muted.Render(fmt.Sprintf("theme: %s", m.styles.Theme))
}

func (m model) tabsLine() string {
	parts := make([]string, 0, len(views))
	for _, v := range views {
		style := m.styles.TabInactive
		if v == m.view {
			style = m.styles.TabActive
		}
		parts = append(parts, style.Render(v.title()))
	}
	return strings.Join(parts, " ")
}

func (m model) smallViewLines() []string {
	message := fmt.Sprintf("Terminal too small (%dx%d).", m.width, m.height)
	hint := fmt.Sprintf("Resize to at least %dx%d.", minWidth, minHeight)

	return []string{
		m.styles.Warning.Render(message),
		m.styles.Muted.Render(hint),
		m.styles.Muted.Render("Press q to quit."),
	}
}

func (m model) lastChangedLine() string {
	if m.lastChanged.IsZero() {
		return "Theme last changed: --"
	}
	return fmt.Sprintf("Theme last changed: %s (%d change(s) this session)", m.lastChanged.Format("15:04:05"), m.flips)
}
