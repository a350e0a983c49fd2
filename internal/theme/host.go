package theme

import "sync"

// PreferenceSource reports the host's current colour-scheme preference.
type PreferenceSource interface {
	// PrefersDark returns the preference and whether one could be detected.
	PrefersDark() (dark bool, ok bool)
}

// Host is a preference source that can also notify on changes.
//
// Subscribe registers fn for change notifications and returns a function
// that releases the registration. Releasing more than once is a no-op.
type Host interface {
	PreferenceSource
	Subscribe(fn func(dark bool)) (cancel func())
}

// listenerSet is an ordered set of host callbacks.
type listenerSet struct {
	mu      sync.Mutex
	next    uint64
	entries []listenerEntry
}

type listenerEntry struct {
	id uint64
	fn func(bool)
}

func (s *listenerSet) add(fn func(bool)) func() {
	s.mu.Lock()
	s.next++
	id := s.next
	s.entries = append(s.entries, listenerEntry{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(id) })
	}
}

func (s *listenerSet) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, entry := range s.entries {
		if entry.id == id {
			s.entries = append(s.entries[:i:i], s.entries[i+1:]...)
			return
		}
	}
}

func (s *listenerSet) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *listenerSet) emit(dark bool) {
	s.mu.Lock()
	fns := make([]func(bool), len(s.entries))
	for i, entry := range s.entries {
		fns[i] = entry.fn
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(dark)
	}
}

// MemoryHost is an in-process host whose preference is set by the caller.
// It backs forced theme modes and simulates preference flips in tests.
type MemoryHost struct {
	mu        sync.Mutex
	emitMu    sync.Mutex
	dark      bool
	known     bool
	listeners listenerSet
}

// NewMemoryHost returns a host that reports dark as its preference.
func NewMemoryHost(dark bool) *MemoryHost {
	return &MemoryHost{dark: dark, known: true}
}

// NewUnknownHost returns a host with no detectable preference.
func NewUnknownHost() *MemoryHost {
	return &MemoryHost{}
}

// PrefersDark implements PreferenceSource.
func (h *MemoryHost) PrefersDark() (bool, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dark, h.known
}

// Subscribe implements Host.
func (h *MemoryHost) Subscribe(fn func(bool)) func() {
	return h.listeners.add(fn)
}

// Set changes the preference and notifies listeners if it flipped.
func (h *MemoryHost) Set(dark bool) {
	h.emitMu.Lock()
	defer h.emitMu.Unlock()

	h.mu.Lock()
	changed := !h.known || h.dark != dark
	h.dark = dark
	h.known = true
	h.mu.Unlock()

	if changed {
		h.listeners.emit(dark)
	}
}

// Emit records dark and notifies listeners even if nothing changed.
func (h *MemoryHost) Emit(dark bool) {
	h.emitMu.Lock()
	defer h.emitMu.Unlock()

	h.mu.Lock()
	h.dark = dark
	h.known = true
	h.mu.Unlock()

	h.listeners.emit(dark)
}

// Listeners returns the number of live subscriptions.
func (h *MemoryHost) Listeners() int {
	return h.listeners.len()
}

// OverrideHost layers an optional forced preference over a base host.
// It notifies whenever the effective preference changes, whether from an
// override change or a base flip.
type OverrideHost struct {
	base Host

	emitMu     sync.Mutex
	mu         sync.Mutex
	override   *bool
	effective  bool
	closed     bool
	baseCancel func()
	listeners  listenerSet
}

// NewOverrideHost wraps base. A nil override follows base unchanged.
func NewOverrideHost(base Host, override *bool) *OverrideHost {
	h := &OverrideHost{base: base, override: copyBool(override)}
	h.effective, _ = h.PrefersDark()
	if base != nil {
		h.baseCancel = base.Subscribe(h.onBaseChange)
	}
	return h
}

// PrefersDark implements PreferenceSource.
func (h *OverrideHost) PrefersDark() (bool, bool) {
	h.mu.Lock()
	override := copyBool(h.override)
	h.mu.Unlock()

	if override != nil {
		return *override, true
	}
	if h.base == nil {
		return false, false
	}
	return h.base.PrefersDark()
}

// Subscribe implements Host.
func (h *OverrideHost) Subscribe(fn func(bool)) func() {
	return h.listeners.add(fn)
}

// SetOverride forces the preference, or follows the base again when nil.
func (h *OverrideHost) SetOverride(override *bool) {
	h.mu.Lock()
	h.override = copyBool(override)
	h.mu.Unlock()
	h.reconcile()
}

// Override returns the forced preference, if any.
func (h *OverrideHost) Override() *bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return copyBool(h.override)
}

// Close releases the base subscription.
func (h *OverrideHost) Close() {
	h.mu.Lock()
	h.closed = true
	cancel := h.baseCancel
	h.baseCancel = nil
	h.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (h *OverrideHost) onBaseChange(bool) {
	h.reconcile()
}

func (h *OverrideHost) reconcile() {
	h.emitMu.Lock()
	defer h.emitMu.Unlock()

	dark, _ := h.PrefersDark()

	h.mu.Lock()
	if h.closed || dark == h.effective {
		h.mu.Unlock()
		return
	}
	h.effective = dark
	h.mu.Unlock()

	h.listeners.emit(dark)
}

func copyBool(v *bool) *bool {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
