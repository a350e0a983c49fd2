package theme

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// State is the value exposed to consumers: the active theme and its palette.
type State struct {
	Theme   Theme
	Palette Palette
}

// Listener receives the new state after each theme flip.
type Listener func(State)

// Initialize resolves the starting theme from the host preference. An
// undetectable preference (or no host at all) resolves to Light.
func Initialize(host PreferenceSource) Theme {
	if host == nil {
		return Light
	}
	dark, ok := host.PrefersDark()
	if !ok {
		return Light
	}
	return FromPreference(dark)
}

// Option configures a Provider.
type Option func(*Provider)

// WithLogger sets the provider's logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Provider) {
		p.logger = logger
	}
}

// WithRegistry replaces the built-in palettes.
func WithRegistry(registry *Registry) Option {
	return func(p *Provider) {
		p.registry = registry
	}
}

// WithObserver registers a listener before the host subscription is taken,
// so it sees every flip for the provider's whole lifetime.
func WithObserver(fn Listener) Option {
	return func(p *Provider) {
		if fn != nil {
			p.observers = append(p.observers, fn)
		}
	}
}

// Provider owns the theme state for one application instance. It is the
// only writer of that state; consumers read it through UseCurrentTheme or
// subscribe to flips.
type Provider struct {
	registry  *Registry
	logger    zerolog.Logger
	observers []Listener

	// dispatchMu serialises host events so listeners see flips in the
	// order the host emitted them.
	dispatchMu sync.Mutex

	mu         sync.RWMutex
	state      State
	closed     bool
	hostCancel func()
	subs       []*Subscription
}

// NewProvider mounts a provider on host: it validates the palettes, seeds
// the state synchronously from the host and subscribes to changes. Close
// must be called to release the host subscription.
func NewProvider(host Host, opts ...Option) (*Provider, error) {
	p := &Provider{
		registry: DefaultRegistry(),
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}

	if err := p.registry.Validate(); err != nil {
		return nil, err
	}

	t := Initialize(host)
	palette, err := p.registry.Palette(t)
	if err != nil {
		return nil, err
	}
	p.state = State{Theme: t, Palette: palette}

	for _, fn := range p.observers {
		p.Subscribe(fn)
	}

	if host != nil {
		p.hostCancel = host.Subscribe(p.onHostChange)
	}

	p.logger.Debug().Str("theme", t.String()).Msg("theme provider mounted")
	return p, nil
}

// State returns a snapshot of the current theme state.
func (p *Provider) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return State{Theme: p.state.Theme, Palette: p.state.Palette.Clone()}
}

// Closed reports whether the provider has been unmounted.
func (p *Provider) Closed() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.closed
}

// Subscribe registers fn to be called once per theme flip. Subscribing to a
// closed provider returns an already-cancelled subscription.
func (p *Provider) Subscribe(fn Listener) *Subscription {
	sub := &Subscription{ID: uuid.NewString(), provider: p, fn: fn}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || fn == nil {
		sub.cancelled.Store(true)
		return sub
	}
	p.subs = append(p.subs, sub)
	p.logger.Debug().Str("subscription_id", sub.ID).Msg("theme listener subscribed")
	return sub
}

// Close unmounts the provider, releasing the host subscription and all
// listeners. It is safe to call more than once.
func (p *Provider) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	cancel := p.hostCancel
	p.hostCancel = nil
	subs := p.subs
	p.subs = nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	for _, sub := range subs {
		sub.cancelled.Store(true)
	}

	p.logger.Debug().Msg("theme provider unmounted")
	return nil
}

func (p *Provider) onHostChange(dark bool) {
	p.dispatchMu.Lock()
	defer p.dispatchMu.Unlock()

	next := FromPreference(dark)

	p.mu.Lock()
	if p.closed || next == p.state.Theme {
		p.mu.Unlock()
		return
	}
	palette, err := p.registry.Palette(next)
	if err != nil {
		p.mu.Unlock()
		p.logger.Error().Err(err).Str("theme", next.String()).Msg("theme flip rejected")
		return
	}
	previous := p.state.Theme
	p.state = State{Theme: next, Palette: palette}
	subs := make([]*Subscription, len(p.subs))
	copy(subs, p.subs)
	p.mu.Unlock()

	p.logger.Info().
		Str("from", previous.String()).
		Str("to", next.String()).
		Msg("theme changed")

	for _, sub := range subs {
		if sub.cancelled.Load() {
			continue
		}
		sub.fn(State{Theme: next, Palette: palette.Clone()})
	}
}

func (p *Provider) unsubscribe(sub *Subscription) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, s := range p.subs {
		if s == sub {
			p.subs = append(p.subs[:i:i], p.subs[i+1:]...)
			p.logger.Debug().Str("subscription_id", sub.ID).Msg("theme listener unsubscribed")
			return
		}
	}
}

// Subscription is a handle to a registered Listener.
type Subscription struct {
	ID string

	provider  *Provider
	fn        Listener
	cancelled atomic.Bool
}

// Cancel stops further notifications. Calling it again has no effect.
func (s *Subscription) Cancel() {
	if s == nil || s.cancelled.Swap(true) {
		return
	}
	s.provider.unsubscribe(s)
}

// Active reports whether the subscription still receives notifications.
func (s *Subscription) Active() bool {
	return s != nil && !s.cancelled.Load()
}

// UseCurrentTheme returns the state held by p. It fails with
// ErrContextUnavailable when p is nil or already closed; callers should
// surface that error rather than fall back to a default theme.
func UseCurrentTheme(p *Provider) (State, error) {
	if p == nil || p.Closed() {
		return State{}, ErrContextUnavailable
	}
	return p.State(), nil
}

type providerKey struct{}

// WithProvider returns a context carrying p.
func WithProvider(ctx context.Context, p *Provider) context.Context {
	return context.WithValue(ctx, providerKey{}, p)
}

// ProviderFromContext returns the provider carried by ctx.
func ProviderFromContext(ctx context.Context) (*Provider, error) {
	if ctx == nil {
		return nil, ErrContextUnavailable
	}
	p, ok := ctx.Value(providerKey{}).(*Provider)
	if !ok || p == nil {
		return nil, ErrContextUnavailable
	}
	return p, nil
}

// CurrentFromContext is UseCurrentTheme for a provider carried by ctx.
func CurrentFromContext(ctx context.Context) (State, error) {
	p, err := ProviderFromContext(ctx)
	if err != nil {
		return State{}, err
	}
	return UseCurrentTheme(p)
}
