package theme

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Polling host errors.
var (
	ErrPollerAlreadyRunning = errors.New("preference poller already running")
	ErrPollerNotRunning     = errors.New("preference poller not running")
)

const (
	// DefaultPollInterval is how often host probes are re-run.
	DefaultPollInterval = 2 * time.Second

	probeTimeout = time.Second
)

// PollingHost turns one-shot probes into a change stream by re-running them
// on an interval. The first probe that can decide wins.
type PollingHost struct {
	probes   []Probe
	interval time.Duration
	logger   zerolog.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	stateMu  sync.Mutex
	dark     bool
	known    bool
	polled   bool
	pollMu   sync.Mutex
	listener listenerSet
}

// NewPollingHost creates a polling host. A non-positive interval uses
// DefaultPollInterval.
func NewPollingHost(interval time.Duration, logger zerolog.Logger, probes ...Probe) *PollingHost {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &PollingHost{
		probes:   probes,
		interval: interval,
		logger:   logger.With().Str("component", "theme.poller").Logger(),
	}
}

// PrefersDark implements PreferenceSource. Once the poller has a baseline
// it answers from that; before then it probes directly.
func (h *PollingHost) PrefersDark() (bool, bool) {
	h.stateMu.Lock()
	dark, known := h.dark, h.known
	h.stateMu.Unlock()
	if known {
		return dark, true
	}

	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()
	dark, ok, _ := h.detect(ctx)
	return dark, ok
}

// Subscribe implements Host.
func (h *PollingHost) Subscribe(fn func(bool)) func() {
	return h.listener.add(fn)
}

// Start records a baseline synchronously and begins polling in the
// background until ctx is done or Stop is called.
func (h *PollingHost) Start(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.running {
		return ErrPollerAlreadyRunning
	}

	h.Poll(ctx)

	loopCtx, cancel := context.WithCancel(ctx)
	h.cancel = cancel
	h.running = true

	h.logger.Debug().
		Dur("interval", h.interval).
		Int("probes", len(h.probes)).
		Msg("preference poller starting")

	h.wg.Add(1)
	go h.runLoop(loopCtx)
	return nil
}

// Stop halts polling and waits for the loop to exit.
func (h *PollingHost) Stop() error {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return ErrPollerNotRunning
	}
	h.cancel()
	h.running = false
	h.mu.Unlock()

	h.wg.Wait()
	h.logger.Debug().Msg("preference poller stopped")
	return nil
}

func (h *PollingHost) runLoop(ctx context.Context) {
	defer h.wg.Done()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.Poll(ctx)
		}
	}
}

// Poll runs the probes once and notifies listeners if the preference
// flipped. An undecidable round leaves the last known preference in place.
func (h *PollingHost) Poll(ctx context.Context) {
	h.pollMu.Lock()
	defer h.pollMu.Unlock()

	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	dark, ok, source := h.detect(probeCtx)
	cancel()

	h.stateMu.Lock()
	baseline := !h.polled
	h.polled = true
	if !ok {
		h.stateMu.Unlock()
		return
	}
	first := !h.known
	changed := h.known && h.dark != dark
	h.dark = dark
	h.known = true
	h.stateMu.Unlock()

	if first {
		h.logger.Debug().Str("source", source).Str("theme", FromPreference(dark).String()).Msg("host preference detected")
		// Consumers seeded from an undecided host defaulted to light.
		if !baseline {
			h.listener.emit(dark)
		}
		return
	}
	if changed {
		h.logger.Debug().Str("source", source).Str("theme", FromPreference(dark).String()).Msg("host preference changed")
		h.listener.emit(dark)
	}
}

func (h *PollingHost) detect(ctx context.Context) (bool, bool, string) {
	for _, probe := range h.probes {
		if probe == nil {
			continue
		}
		if dark, ok := probe.Detect(ctx); ok {
			return dark, true, probe.Name()
		}
	}
	return false, false, ""
}
