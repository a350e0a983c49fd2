// Package metrics exposes theme activity as prometheus metrics.
package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/opencode-ai/shade/internal/theme"
)

// ThemeMetrics tracks theme transitions and the active theme.
type ThemeMetrics struct {
	registry    *prometheus.Registry
	transitions *prometheus.CounterVec
	current     *prometheus.GaugeVec
}

// NewThemeMetrics registers the theme collectors on a private registry.
func NewThemeMetrics() *ThemeMetrics {
	m := &ThemeMetrics{
		registry: prometheus.NewRegistry(),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shade",
			Subsystem: "theme",
			Name:      "transitions_total",
			Help:      "Number of theme flips, by destination theme.",
		}, []string{"to"}),
		current: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "shade",
			Subsystem: "theme",
			Name:      "current",
			Help:      "1 for the active theme, 0 otherwise.",
		}, []string{"theme"}),
	}
	m.registry.MustRegister(m.transitions, m.current)
	for _, t := range theme.Themes {
		m.transitions.WithLabelValues(t.String())
		m.current.WithLabelValues(t.String()).Set(0)
	}
	return m
}

// SetCurrent records t as the active theme without counting a transition.
func (m *ThemeMetrics) SetCurrent(t theme.Theme) {
	for _, candidate := range theme.Themes {
		value := 0.0
		if candidate == t {
			value = 1
		}
		m.current.WithLabelValues(candidate.String()).Set(value)
	}
}

// Observe is a theme.Listener that counts a transition to s.Theme.
func (m *ThemeMetrics) Observe(s theme.State) {
	m.transitions.WithLabelValues(s.Theme.String()).Inc()
	m.SetCurrent(s.Theme)
}

// Handler serves the collectors in the prometheus text format.
func (m *ThemeMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ServeListener exposes /metrics on a bound listener until ctx is canceled.
// Callers bind first so address errors surface before any work starts.
func (m *ThemeMetrics) ServeListener(ctx context.Context, listener net.Listener, logger zerolog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()

	logger.Info().Str("addr", listener.Addr().String()).Msg("metrics endpoint listening")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
