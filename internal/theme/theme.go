// Package theme resolves the light/dark theme from the host's colour-scheme
// preference and keeps it in sync as that preference changes.
package theme

import (
	"errors"
	"fmt"
	"strings"
)

// Theme is the two-valued display theme.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Themes lists every valid theme in a stable order.
var Themes = [...]Theme{Light, Dark}

// Theme errors.
var (
	// ErrContextUnavailable is returned when the current theme is requested
	// without a live Provider.
	ErrContextUnavailable = errors.New("theme context unavailable: no active theme provider")

	// ErrConfiguration is returned when a theme has no registered palette or
	// the registered palettes disagree on their role sets.
	ErrConfiguration = errors.New("theme configuration error")

	// ErrInvalidTheme is returned when parsing a value outside the enum.
	ErrInvalidTheme = errors.New("invalid theme")
)

// ParseTheme converts a user-supplied string into a Theme.
func ParseTheme(value string) (Theme, error) {
	t := Theme(strings.ToLower(strings.TrimSpace(value)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidTheme, value)
	}
	return t, nil
}

// Valid reports whether t is one of the enum members.
func (t Theme) Valid() bool {
	return t == Light || t == Dark
}

// IsDark reports whether t is the dark theme.
func (t Theme) IsDark() bool {
	return t == Dark
}

// String implements fmt.Stringer.
func (t Theme) String() string {
	return string(t)
}

// FromPreference maps a host "prefers dark" signal onto a Theme.
func FromPreference(prefersDark bool) Theme {
	if prefersDark {
		return Dark
	}
	return Light
}
