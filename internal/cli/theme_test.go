package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"github.com/opencode-ai/shade/internal/config"
	"github.com/opencode-ai/shade/internal/theme"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	text := strings.TrimSpace(b.buf.String())
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

func decodeEvents(t *testing.T, lines []string) []themeEvent {
	t.Helper()
	events := make([]themeEvent, 0, len(lines))
	for _, line := range lines {
		var event themeEvent
		require.NoError(t, json.Unmarshal([]byte(line), &event))
		events = append(events, event)
	}
	return events
}

func TestStreamThemeChanges(t *testing.T) {
	host := theme.NewMemoryHost(false)
	provider, err := theme.NewProvider(host)
	require.NoError(t, err)
	defer provider.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := &syncBuffer{}
	done := make(chan error, 1)
	go func() {
		done <- streamThemeChanges(ctx, provider, out, true)
	}()

	require.Eventually(t, func() bool { return len(out.lines()) == 1 }, time.Second, 5*time.Millisecond)

	host.Set(true)
	host.Emit(true)
	host.Set(false)

	require.Eventually(t, func() bool { return len(out.lines()) == 3 }, time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	events := decodeEvents(t, out.lines())
	require.Equal(t, theme.Light, events[0].Theme)
	require.Empty(t, events[0].Previous)
	require.Equal(t, theme.Dark, events[1].Theme)
	require.Equal(t, theme.Light, events[1].Previous)
	require.Equal(t, theme.Light, events[2].Theme)
	require.Equal(t, theme.Dark, events[2].Previous)
}

func TestStreamThemeChangesClosedProvider(t *testing.T) {
	provider, err := theme.NewProvider(theme.NewMemoryHost(true))
	require.NoError(t, err)
	require.NoError(t, provider.Close())

	err = streamThemeChanges(context.Background(), provider, &bytes.Buffer{}, false)
	require.ErrorIs(t, err, theme.ErrContextUnavailable)
}

func TestThemeSessionFollowsOverride(t *testing.T) {
	t.Setenv(theme.EnvAppearanceVar, "light")
	cfg := config.DefaultConfig()
	cfg.Theme.Probes = []string{"env"}

	session, err := openThemeSession(context.Background(), cfg, sessionOptions{})
	require.NoError(t, err)
	defer session.Close()

	require.Equal(t, theme.Light, session.provider.State().Theme)
	require.Equal(t, "host", session.source())

	dark := true
	session.host.SetOverride(&dark)
	require.Equal(t, theme.Dark, session.provider.State().Theme)
	require.Equal(t, "config", session.source())

	session.host.SetOverride(nil)
	require.Equal(t, theme.Light, session.provider.State().Theme)
}

func TestThemeSessionPollingCloses(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Theme.Probes = []string{"env"}
	cfg.Theme.PollInterval = 10 * time.Millisecond

	session, err := openThemeSession(context.Background(), cfg, sessionOptions{Poll: true})
	require.NoError(t, err)
	require.True(t, session.polling)

	session.Close()
	require.False(t, session.polling)
	require.True(t, session.provider.Closed())
	session.Close()
}

func TestWriteThemeReportPlain(t *testing.T) {
	palette, err := theme.GetPalette(theme.Light)
	require.NoError(t, err)
	state := theme.State{Theme: theme.Light, Palette: palette}

	var buf bytes.Buffer
	report := themeReport{Theme: theme.Light, Source: "default", Mode: config.ModeAuto, Palette: palette}
	require.NoError(t, writeThemeReport(&buf, termenv.Ascii, report, state))

	out := buf.String()
	require.Contains(t, out, "Theme:  LIGHT")
	require.Contains(t, out, "Forced: no")
	for _, role := range palette.Roles() {
		require.Contains(t, out, string(role))
	}
	require.NotContains(t, out, "\x1b[")
}

func TestThemeStreamerCatchUp(t *testing.T) {
	host := theme.NewMemoryHost(false)
	provider, err := theme.NewProvider(host)
	require.NoError(t, err)
	defer provider.Close()

	out := &syncBuffer{}
	streamer := newThemeStreamer(out, theme.Light)

	host.Set(true)
	streamer.catchUp(provider.State)
	streamer.OnThemeChange(provider.State())
	streamer.catchUp(provider.State)

	events := decodeEvents(t, out.lines())
	require.Len(t, events, 1)
	require.Equal(t, theme.Dark, events[0].Theme)
	require.Equal(t, theme.Light, events[0].Previous)
	require.NoError(t, streamer.Err())
}

func TestThemeWatchFailsFastOnBusyMetricsAddr(t *testing.T) {
	configLoader = nil
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer busy.Close()

	cfg := config.DefaultConfig()
	cfg.Theme.Probes = []string{"env"}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = runThemeWatch(ctx, cfg, &bytes.Buffer{}, watchOptions{MetricsAddr: busy.Addr().String()})
	require.ErrorContains(t, err, "metrics endpoint")
	require.NoError(t, ctx.Err(), "watch must fail before the context ends")
}

func TestThemeWatchStopsWithContext(t *testing.T) {
	configLoader = nil
	cfg := config.DefaultConfig()
	cfg.Theme.Probes = []string{"env"}
	cfg.Theme.PollInterval = 10 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	out := &syncBuffer{}
	require.NoError(t, runThemeWatch(ctx, cfg, out, watchOptions{MetricsAddr: "127.0.0.1:0", Initial: true}))
	require.Len(t, out.lines(), 1)
}
