package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/opencode-ai/shade/internal/theme"
)

// ThemeChangedMsg carries a theme flip from the provider into the program.
type ThemeChangedMsg struct {
	State theme.State
}

// messageSender is the part of *tea.Program the bridge needs.
type messageSender interface {
	Send(msg tea.Msg)
}

// themeSubscriber bridges provider flips to the program.
type themeSubscriber struct {
	program messageSender
}

// OnThemeChange implements theme.Listener.
func (s *themeSubscriber) OnThemeChange(state theme.State) {
	if s.program != nil {
		s.program.Send(ThemeChangedMsg{State: state})
	}
}

// subscribeToTheme registers the bridge and replays a flip that happened
// after seen was read. The caller must cancel the returned subscription.
func subscribeToTheme(provider *theme.Provider, program messageSender, seen theme.Theme) *theme.Subscription {
	subscriber := &themeSubscriber{program: program}
	sub := provider.Subscribe(subscriber.OnThemeChange)

	if current := provider.State(); current.Theme != seen {
		// Send blocks until the event loop is running. The model re-reads
		// the provider, so this may race a later flip.
		go subscriber.OnThemeChange(current)
	}
	return sub
}
