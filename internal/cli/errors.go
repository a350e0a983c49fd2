package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/opencode-ai/shade/internal/theme"
)

// PreflightError reports a precondition the user can fix before retrying.
type PreflightError struct {
	Message  string
	Hint     string
	NextStep string
}

func (e *PreflightError) Error() string {
	return e.Message
}

// FormatError renders err for the terminal, including preflight hints.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	var preflight *PreflightError
	if errors.As(err, &preflight) {
		lines := []string{fmt.Sprintf("Error: %s", preflight.Message)}
		if preflight.Hint != "" {
			lines = append(lines, fmt.Sprintf("Hint: %s", preflight.Hint))
		}
		if preflight.NextStep != "" {
			lines = append(lines, fmt.Sprintf("Next: %s", preflight.NextStep))
		}
		return strings.Join(lines, "\n")
	}

	if errors.Is(err, theme.ErrConfiguration) {
		return fmt.Sprintf("Error: %v\nHint: the palette registry is inconsistent; this is a build defect", err)
	}
	return fmt.Sprintf("Error: %v", err)
}
