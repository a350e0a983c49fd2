// Package logging configures the process-wide zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Format selects the log encoding.
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

// Options control logger construction.
type Options struct {
	Level  string
	Format Format

	// File, when set, sends logs to a rolling file instead of Stderr.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int

	// Quiet discards logs that would otherwise reach Stderr. The TUI sets
	// it so log lines never land on the alternate screen.
	Quiet bool

	Stderr io.Writer
}

var (
	mu     sync.RWMutex
	logger = zerolog.Nop()
)

// Setup builds the logger described by opts and installs it as the default
// returned by Logger and Component. The returned cleanup closes any file.
func Setup(opts Options) (zerolog.Logger, func(), error) {
	level := zerolog.InfoLevel
	if strings.TrimSpace(opts.Level) != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(opts.Level)))
		if err != nil {
			return zerolog.Nop(), func() {}, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	var (
		out     io.Writer
		cleanup = func() {}
	)

	switch {
	case opts.File != "":
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return zerolog.Nop(), cleanup, fmt.Errorf("create log directory: %w", err)
		}
		file := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
		}
		out = file
		cleanup = func() { _ = file.Close() }
	case opts.Quiet:
		install(zerolog.Nop())
		return zerolog.Nop(), cleanup, nil
	default:
		out = opts.Stderr
		if out == nil {
			out = os.Stderr
		}
	}

	switch opts.Format {
	case FormatJSON:
	case FormatConsole, "":
		// A rolling file gets plain text; colour codes belong on a terminal.
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: opts.File != ""}
	default:
		cleanup()
		return zerolog.Nop(), func() {}, fmt.Errorf("invalid log format %q", opts.Format)
	}

	l := zerolog.New(out).Level(level).With().Timestamp().Logger()
	install(l)
	return l, cleanup, nil
}

func install(l zerolog.Logger) {
	mu.Lock()
	logger = l
	mu.Unlock()
}

// Logger returns the installed logger. It is a no-op logger until Setup runs.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Component returns the installed logger tagged with a component name.
func Component(name string) zerolog.Logger {
	return Logger().With().Str("component", name).Logger()
}
