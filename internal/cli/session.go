package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/opencode-ai/shade/internal/config"
	"github.com/opencode-ai/shade/internal/theme"
)

// themeSession owns the host stack and provider for one command.
type themeSession struct {
	poller   *theme.PollingHost
	host     *theme.OverrideHost
	provider *theme.Provider
	polling  bool
}

type sessionOptions struct {
	// Poll keeps probing in the background. Without it the host is probed
	// once.
	Poll bool

	// TTY enables the terminal probe against the given terminal.
	TTY *os.File

	Observers []theme.Listener
	Logger    zerolog.Logger
}

func openThemeSession(ctx context.Context, cfg *config.Config, opts sessionOptions) (*themeSession, error) {
	probes, err := theme.NewProbes(cfg.Theme.Probes, opts.TTY)
	if err != nil {
		return nil, err
	}

	poller := theme.NewPollingHost(cfg.Theme.PollInterval, opts.Logger, probes...)
	s := &themeSession{poller: poller}
	if opts.Poll {
		if err := poller.Start(ctx); err != nil {
			return nil, fmt.Errorf("start preference poller: %w", err)
		}
		s.polling = true
	} else {
		poller.Poll(ctx)
	}

	s.host = theme.NewOverrideHost(poller, cfg.Theme.Override())

	providerOpts := []theme.Option{theme.WithLogger(opts.Logger)}
	for _, observer := range opts.Observers {
		providerOpts = append(providerOpts, theme.WithObserver(observer))
	}
	provider, err := theme.NewProvider(s.host, providerOpts...)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.provider = provider
	return s, nil
}

// followConfig applies live edits of theme.mode to the override host.
func (s *themeSession) followConfig(loader *config.Loader, logger zerolog.Logger) {
	if loader == nil {
		return
	}
	loader.Watch(func(cfg *config.Config, err error) {
		if err != nil {
			logger.Warn().Err(err).Msg("ignoring invalid config change")
			return
		}
		logger.Info().Str("theme_mode", cfg.Theme.Mode).Msg("config reloaded")
		s.host.SetOverride(cfg.Theme.Override())
	})
}

// source describes where the current preference comes from.
func (s *themeSession) source() string {
	if s.host.Override() != nil {
		return "config"
	}
	if _, ok := s.poller.PrefersDark(); ok {
		return "host"
	}
	return "default"
}

func (s *themeSession) Close() {
	if s.provider != nil {
		_ = s.provider.Close()
	}
	if s.host != nil {
		s.host.Close()
	}
	if s.polling {
		_ = s.poller.Stop()
		s.polling = false
	}
}
