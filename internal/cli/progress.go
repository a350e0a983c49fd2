package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"
)

// progressStep prints "label... done (42ms)" around a slow step. A nil
// step is valid and prints nothing.
type progressStep struct {
	out     io.Writer
	started time.Time
}

func startProgress(out io.Writer, label string) *progressStep {
	if !progressEnabled(out) {
		return nil
	}
	fmt.Fprintf(out, "%s... ", label)
	return &progressStep{out: out, started: time.Now()}
}

func (p *progressStep) Done() {
	if p == nil {
		return
	}
	fmt.Fprintf(p.out, "done (%s)\n", formatDuration(time.Since(p.started)))
}

func (p *progressStep) Fail(err error) {
	if p == nil {
		return
	}
	if err != nil {
		fmt.Fprintf(p.out, "failed: %v\n", err)
		return
	}
	fmt.Fprintln(p.out, "failed")
}

// progressEnabled reports whether out is a terminal that wants progress.
// Structured output and the opt-out variables disable it.
func progressEnabled(out io.Writer) bool {
	if noProgress || IsJSONOutput() || IsJSONLOutput() {
		return false
	}
	for _, key := range []string{"SHADE_NO_PROGRESS", "NO_PROGRESS"} {
		if _, ok := os.LookupEnv(key); ok {
			return false
		}
	}
	f, ok := out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return d.String()
	case d < time.Second:
		return d.Round(time.Millisecond).String()
	default:
		return d.Round(100 * time.Millisecond).String()
	}
}
