// Command shade is a terminal shell that follows the host light/dark preference.
package main

import (
	"os"

	"github.com/opencode-ai/shade/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.SetVersionInfo(version, commit, date)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
