package cli

import (
	"os"

	"golang.org/x/term"
)

// IsNonInteractive reports whether the TUI must be skipped: the flag, the
// SHADE_NON_INTERACTIVE variable, or a missing TTY.
func IsNonInteractive() bool {
	if nonInteractive {
		return true
	}
	if _, ok := os.LookupEnv("SHADE_NON_INTERACTIVE"); ok {
		return true
	}
	return !hasTTY()
}

func hasTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
