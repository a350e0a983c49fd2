package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/opencode-ai/shade/internal/config"
	"github.com/opencode-ai/shade/internal/logging"
	"github.com/opencode-ai/shade/internal/metrics"
	"github.com/opencode-ai/shade/internal/theme"
)

var (
	themeWatchMetricsAddr string
	themeWatchInitial     bool
)

func init() {
	rootCmd.AddCommand(themeCmd)
	themeCmd.AddCommand(themeShowCmd)
	themeCmd.AddCommand(themeWatchCmd)

	themeWatchCmd.Flags().StringVar(&themeWatchMetricsAddr, "metrics-addr", "", "serve prometheus metrics on this address (e.g. :9464)")
	themeWatchCmd.Flags().BoolVar(&themeWatchInitial, "initial", false, "emit the current theme before the first change")
}

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Inspect the resolved theme",
}

var themeShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the resolved theme and palette",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := commandConfig()

		progress := startProgress(cmd.ErrOrStderr(), "Detecting theme")
		session, err := openThemeSession(cmd.Context(), cfg, sessionOptions{
			Logger: logging.Component("theme"),
		})
		if err != nil {
			progress.Fail(err)
			return err
		}
		defer session.Close()
		progress.Done()

		state, err := theme.UseCurrentTheme(session.provider)
		if err != nil {
			return err
		}

		report := themeReport{
			Theme:   state.Theme,
			Source:  session.source(),
			Mode:    cfg.Theme.Mode,
			Palette: state.Palette,
		}
		out := cmd.OutOrStdout()
		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(out, report)
		}
		return writeThemeReport(out, termenv.NewOutput(out).EnvColorProfile(), report, state)
	},
}

var themeWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream theme changes as JSON Lines",
	Long:  "Stream one JSON record per theme change until interrupted.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runThemeWatch(ctx, commandConfig(), cmd.OutOrStdout(), watchOptions{
			MetricsAddr: themeWatchMetricsAddr,
			Initial:     themeWatchInitial,
		})
	},
}

type watchOptions struct {
	MetricsAddr string
	Initial     bool
}

// runThemeWatch streams flips to out until ctx is done or the metrics
// endpoint fails.
func runThemeWatch(ctx context.Context, cfg *config.Config, out io.Writer, opts watchOptions) error {
	logger := logging.Component("watch")

	addr := opts.MetricsAddr
	if addr == "" {
		addr = cfg.Metrics.Addr
	}

	var (
		observers    []theme.Listener
		themeMetrics *metrics.ThemeMetrics
		listener     net.Listener
	)
	if addr != "" {
		var err error
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("metrics endpoint: %w", err)
		}
		themeMetrics = metrics.NewThemeMetrics()
		observers = append(observers, themeMetrics.Observe)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	session, err := openThemeSession(ctx, cfg, sessionOptions{
		Poll:      true,
		Observers: observers,
		Logger:    logging.Component("theme"),
	})
	if err != nil {
		if listener != nil {
			_ = listener.Close()
		}
		return err
	}
	defer session.Close()
	session.followConfig(configLoader, logger)

	errCh := make(chan error, 1)
	if themeMetrics != nil {
		themeMetrics.SetCurrent(session.provider.State().Theme)
		go func() {
			err := themeMetrics.ServeListener(ctx, listener, logger)
			if err != nil {
				cancel()
			}
			errCh <- err
		}()
	}

	logger.Info().Str("source", session.source()).Msg("watching theme changes")
	streamErr := streamThemeChanges(ctx, session.provider, out, opts.Initial)
	cancel()
	if themeMetrics != nil {
		if err := <-errCh; err != nil {
			return fmt.Errorf("metrics endpoint: %w", err)
		}
	}
	return streamErr
}

func commandConfig() *config.Config {
	if cfg := GetConfig(); cfg != nil {
		return cfg
	}
	return config.DefaultConfig()
}

type themeReport struct {
	Theme   theme.Theme   `json:"theme"`
	Source  string        `json:"source"`
	Mode    string        `json:"mode"`
	Palette theme.Palette `json:"palette"`
}

func writeThemeReport(out io.Writer, profile termenv.Profile, report themeReport, state theme.State) error {
	fmt.Fprintf(out, "Theme:  %s\n", formatThemeLabel(profile, state))
	fmt.Fprintf(out, "Source: %s\n", report.Source)
	fmt.Fprintf(out, "Forced: %s\n\n", formatYesNo(report.Mode != config.ModeAuto))

	tbl := newTable("ROLE", "COLOR", "SWATCH")
	for _, role := range report.Palette.Roles() {
		hex := report.Palette.Color(role)
		tbl.addRow(string(role), hex, formatSwatch(profile, hex))
	}
	return tbl.render(out)
}

// themeEvent is one JSON Lines record of theme watch.
type themeEvent struct {
	Time     time.Time   `json:"time"`
	Theme    theme.Theme `json:"theme"`
	Previous theme.Theme `json:"previous,omitempty"`
}

// themeStreamer writes a themeEvent per provider notification.
type themeStreamer struct {
	mu       sync.Mutex
	out      io.Writer
	previous theme.Theme
	now      func() time.Time
	err      error
}

func newThemeStreamer(out io.Writer, current theme.Theme) *themeStreamer {
	return &themeStreamer{
		out:      out,
		previous: current,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// OnThemeChange implements theme.Listener.
func (s *themeStreamer) OnThemeChange(state theme.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recordLocked(state.Theme)
}

// catchUp records a flip that happened before the subscription existed.
// current is read under the streamer lock, so a concurrent notification
// for the same flip is written once.
func (s *themeStreamer) catchUp(current func() theme.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recordLocked(current().Theme)
}

func (s *themeStreamer) recordLocked(next theme.Theme) {
	if next == s.previous {
		return
	}
	event := themeEvent{Time: s.now(), Theme: next, Previous: s.previous}
	s.previous = next
	if err := s.writeEvent(event); err != nil && s.err == nil {
		s.err = err
	}
}

func (s *themeStreamer) writeEvent(event themeEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = s.out.Write(data)
	return err
}

func (s *themeStreamer) writeInitial(current theme.Theme) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeEvent(themeEvent{Time: s.now(), Theme: current})
}

func (s *themeStreamer) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// streamThemeChanges writes provider flips to out until ctx is done.
func streamThemeChanges(ctx context.Context, provider *theme.Provider, out io.Writer, initial bool) error {
	state, err := theme.UseCurrentTheme(provider)
	if err != nil {
		return err
	}

	streamer := newThemeStreamer(out, state.Theme)
	if initial {
		if err := streamer.writeInitial(state.Theme); err != nil {
			return err
		}
	}

	sub := provider.Subscribe(streamer.OnThemeChange)
	defer sub.Cancel()
	streamer.catchUp(provider.State)

	<-ctx.Done()
	return streamer.Err()
}
