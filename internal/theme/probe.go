package theme

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// EnvAppearanceVar forces the detected preference when set to light or dark.
const EnvAppearanceVar = "SHADE_APPEARANCE"

// Probe queries one host signal for a dark/light preference.
type Probe interface {
	Name() string
	// Detect returns the preference and whether this probe could decide.
	Detect(ctx context.Context) (dark bool, ok bool)
}

// EnvProbe reads SHADE_APPEARANCE and the rxvt-style COLORFGBG variable.
type EnvProbe struct {
	Lookup func(key string) (string, bool)
}

// Name implements Probe.
func (EnvProbe) Name() string { return "env" }

// Detect implements Probe.
func (p EnvProbe) Detect(context.Context) (bool, bool) {
	lookup := p.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}

	if value, ok := lookup(EnvAppearanceVar); ok && strings.TrimSpace(value) != "" {
		if t, err := ParseTheme(value); err == nil {
			return t.IsDark(), true
		}
	}

	if value, ok := lookup("COLORFGBG"); ok {
		return parseColorFGBG(value)
	}
	return false, false
}

// parseColorFGBG interprets "fg;bg" (or "fg;default;bg"). Background
// indices 0-6 and 8 are the dark half of the 16-colour table.
func parseColorFGBG(value string) (bool, bool) {
	parts := strings.Split(strings.TrimSpace(value), ";")
	if len(parts) < 2 {
		return false, false
	}
	bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1]))
	if err != nil || bg < 0 || bg > 15 {
		return false, false
	}
	return bg <= 6 || bg == 8, true
}

// CommandRunner executes a command and returns its standard output.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// DesktopProbe asks the desktop environment for its colour scheme:
// gsettings on Linux and the AppleInterfaceStyle default on macOS.
type DesktopProbe struct {
	GOOS string
	Run  CommandRunner
}

// Name implements Probe.
func (DesktopProbe) Name() string { return "desktop" }

// Detect implements Probe.
func (p DesktopProbe) Detect(ctx context.Context) (bool, bool) {
	goos := p.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	run := p.Run
	if run == nil {
		run = runCommand
	}

	switch goos {
	case "linux", "freebsd", "openbsd":
		out, err := run(ctx, "gsettings", "get", "org.gnome.desktop.interface", "color-scheme")
		if err != nil {
			return false, false
		}
		switch strings.Trim(strings.TrimSpace(string(out)), "'\"") {
		case "prefer-dark":
			return true, true
		case "prefer-light", "default":
			return false, true
		}
		return false, false
	case "darwin":
		out, err := run(ctx, "defaults", "read", "-g", "AppleInterfaceStyle")
		if err != nil {
			// The key is absent in light mode, which defaults reports as a
			// non-zero exit.
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				return false, true
			}
			return false, false
		}
		return strings.EqualFold(strings.TrimSpace(string(out)), "dark"), true
	default:
		return false, false
	}
}

// TerminalProbe queries the terminal's background colour over OSC 11.
type TerminalProbe struct {
	Output     *termenv.Output
	IsTerminal func() bool
}

// NewTerminalProbe builds a probe for the terminal attached to f.
func NewTerminalProbe(f *os.File) TerminalProbe {
	return TerminalProbe{
		Output:     termenv.NewOutput(f),
		IsTerminal: func() bool { return term.IsTerminal(int(f.Fd())) },
	}
}

// Name implements Probe.
func (TerminalProbe) Name() string { return "terminal" }

// Detect implements Probe.
func (p TerminalProbe) Detect(context.Context) (bool, bool) {
	if p.Output == nil || p.IsTerminal == nil || !p.IsTerminal() {
		return false, false
	}
	return p.Output.HasDarkBackground(), true
}

// OnceProbe runs the wrapped probe once and replays its answer. Use it for
// probes that must not run while another component owns the terminal.
type OnceProbe struct {
	probe Probe
	once  sync.Once
	dark  bool
	ok    bool
}

// NewOnceProbe wraps p.
func NewOnceProbe(p Probe) *OnceProbe {
	return &OnceProbe{probe: p}
}

// Name implements Probe.
func (p *OnceProbe) Name() string { return p.probe.Name() }

// Detect implements Probe.
func (p *OnceProbe) Detect(ctx context.Context) (bool, bool) {
	p.once.Do(func() {
		p.dark, p.ok = p.probe.Detect(ctx)
	})
	return p.dark, p.ok
}

// Probe names accepted by NewProbes.
const (
	ProbeEnv      = "env"
	ProbeDesktop  = "desktop"
	ProbeTerminal = "terminal"
)

// ProbeNames lists every probe name in default priority order.
var ProbeNames = []string{ProbeEnv, ProbeDesktop, ProbeTerminal}

// NewProbes builds probes by name, in the given order. The terminal probe
// is skipped when tty is nil and runs only once otherwise, since the shell
// owns the terminal after startup.
func NewProbes(names []string, tty *os.File) ([]Probe, error) {
	probes := make([]Probe, 0, len(names))
	for _, name := range names {
		switch name {
		case ProbeEnv:
			probes = append(probes, EnvProbe{})
		case ProbeDesktop:
			probes = append(probes, DesktopProbe{})
		case ProbeTerminal:
			if tty != nil {
				probes = append(probes, NewOnceProbe(NewTerminalProbe(tty)))
			}
		default:
			return nil, fmt.Errorf("unknown theme probe %q", name)
		}
	}
	return probes, nil
}
