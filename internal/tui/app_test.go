package tui

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/opencode-ai/shade/internal/theme"
	"github.com/opencode-ai/shade/internal/tui/components"
)

func stateFor(t *testing.T, th theme.Theme) theme.State {
	t.Helper()
	palette, err := theme.GetPalette(th)
	require.NoError(t, err)
	return theme.State{Theme: th, Palette: palette}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	updated, ok := next.(model)
	require.True(t, ok)
	return updated, cmd
}

func TestRunWithoutProvider(t *testing.T) {
	err := Run(Config{Logger: zerolog.Nop()})
	require.ErrorIs(t, err, theme.ErrContextUnavailable)
}

func TestRunWithClosedProvider(t *testing.T) {
	provider, err := theme.NewProvider(theme.NewMemoryHost(true))
	require.NoError(t, err)
	require.NoError(t, provider.Close())

	err = Run(Config{Provider: provider, Logger: zerolog.Nop()})
	require.True(t, errors.Is(err, theme.ErrContextUnavailable))
}

func TestModelStartsWithProviderTheme(t *testing.T) {
	m := newModel(stateFor(t, theme.Dark), components.InputFieldOptions{})
	require.Equal(t, theme.Dark, m.styles.Theme)
	require.True(t, m.input.Focused())

	view := m.View()
	require.Contains(t, view, "theme: dark")
	require.Contains(t, view, "Message")
	require.Contains(t, view, "Theme last changed: --")
}

func TestThemeChangedRestyles(t *testing.T) {
	m := newModel(stateFor(t, theme.Dark), components.InputFieldOptions{})
	fixed := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)
	m.now = func() time.Time { return fixed }

	m, _ = update(t, m, ThemeChangedMsg{State: stateFor(t, theme.Light)})
	require.Equal(t, theme.Light, m.styles.Theme)
	require.Equal(t, 1, m.flips)
	require.Contains(t, m.View(), "theme: light")
	require.Contains(t, m.View(), "15:04:05")

	m, _ = update(t, m, ThemeChangedMsg{State: stateFor(t, theme.Light)})
	require.Equal(t, 1, m.flips)
}

func TestThemeChangedAppliesProviderState(t *testing.T) {
	host := theme.NewMemoryHost(false)
	provider, err := theme.NewProvider(host)
	require.NoError(t, err)
	defer provider.Close()

	m := newModel(stateFor(t, theme.Light), components.InputFieldOptions{})
	m.current = provider.State

	host.Set(true)
	host.Set(false)
	host.Set(true)

	// The light message is stale; the provider already moved on to dark.
	m, _ = update(t, m, ThemeChangedMsg{State: stateFor(t, theme.Light)})
	require.Equal(t, theme.Dark, m.styles.Theme)

	m, _ = update(t, m, ThemeChangedMsg{State: stateFor(t, theme.Dark)})
	require.Equal(t, theme.Dark, m.styles.Theme)
	require.Equal(t, 1, m.flips)
}

func TestKeysRouteToInputWhileFocused(t *testing.T) {
	m := newModel(stateFor(t, theme.Light), components.InputFieldOptions{})

	m, _ = update(t, m, key("2"))
	require.Equal(t, viewHome, m.view)
	require.Equal(t, "2", m.input.Value())

	m, _ = update(t, m, key("esc"))
	require.False(t, m.input.Focused())

	m, _ = update(t, m, key("2"))
	require.Equal(t, viewPalette, m.view)
	require.Contains(t, m.View(), "accent")
}

func TestTabCyclesViews(t *testing.T) {
	m := newModel(stateFor(t, theme.Light), components.InputFieldOptions{})

	m, _ = update(t, m, key("tab"))
	require.Equal(t, viewPalette, m.view)
	require.False(t, m.input.Focused())

	m, _ = update(t, m, key("tab"))
	require.Equal(t, viewAbout, m.view)

	m, _ = update(t, m, key("tab"))
	require.Equal(t, viewHome, m.view)

	m, _ = update(t, m, key("enter"))
	require.True(t, m.input.Focused())
}

func TestQuitKeys(t *testing.T) {
	m := newModel(stateFor(t, theme.Light), components.InputFieldOptions{})

	typed, _ := update(t, m, key("q"))
	require.Equal(t, "q", typed.input.Value())

	_, cmd := update(t, m, key("ctrl+c"))
	require.NotNil(t, cmd)
	require.Equal(t, tea.QuitMsg{}, cmd())

	m, _ = update(t, m, key("esc"))
	_, cmd = update(t, m, key("q"))
	require.NotNil(t, cmd)
	require.Equal(t, tea.QuitMsg{}, cmd())
}

func TestHomeShowsSubmittedHistory(t *testing.T) {
	m := newModel(stateFor(t, theme.Light), components.InputFieldOptions{})
	require.Contains(t, m.View(), "Nothing submitted yet")

	for _, r := range "hello" {
		m, _ = update(t, m, key(string(r)))
	}
	m, _ = update(t, m, key("enter"))

	view := m.View()
	require.Contains(t, view, "Submitted:")
	require.Contains(t, view, "hello")
}

func TestSmallTerminal(t *testing.T) {
	m := newModel(stateFor(t, theme.Light), components.InputFieldOptions{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 20, Height: 5})
	require.Contains(t, m.View(), "Terminal too small (20x5).")
}

func TestAboutRendersMarkdown(t *testing.T) {
	m := newModel(stateFor(t, theme.Dark), components.InputFieldOptions{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	m.view = viewAbout

	view := m.View()
	require.Contains(t, view, "COLORFGBG")

	first := m.about.render(theme.Dark, 100)
	require.Equal(t, first, m.about.render(theme.Dark, 100))
}

type recordingSender struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (r *recordingSender) Send(msg tea.Msg) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func (r *recordingSender) themes() []theme.Theme {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]theme.Theme, 0, len(r.msgs))
	for _, msg := range r.msgs {
		if changed, ok := msg.(ThemeChangedMsg); ok {
			out = append(out, changed.State.Theme)
		}
	}
	return out
}

func TestSubscribeToThemeForwardsFlips(t *testing.T) {
	host := theme.NewMemoryHost(false)
	provider, err := theme.NewProvider(host)
	require.NoError(t, err)
	defer provider.Close()

	sender := &recordingSender{}
	sub := subscribeToTheme(provider, sender, theme.Light)

	host.Set(true)
	host.Set(false)
	require.Equal(t, []theme.Theme{theme.Dark, theme.Light}, sender.themes())

	sub.Cancel()
	host.Set(true)
	require.Len(t, sender.themes(), 2)
}

func TestSubscribeToThemeReplaysMissedFlip(t *testing.T) {
	provider, err := theme.NewProvider(theme.NewMemoryHost(true))
	require.NoError(t, err)
	defer provider.Close()

	sender := &recordingSender{}
	sub := subscribeToTheme(provider, sender, theme.Light)
	defer sub.Cancel()

	require.Eventually(t, func() bool {
		got := sender.themes()
		return len(got) == 1 && got[0] == theme.Dark
	}, time.Second, 10*time.Millisecond)
}

func TestViewEndsWithNewline(t *testing.T) {
	m := newModel(stateFor(t, theme.Light), components.InputFieldOptions{})
	require.True(t, strings.HasSuffix(m.View(), "\n"))
}
