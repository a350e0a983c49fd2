package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/shade/internal/config"
	"github.com/opencode-ai/shade/internal/logging"
	"github.com/opencode-ai/shade/internal/tui"
	"github.com/opencode-ai/shade/internal/tui/components"
)

func init() {
	rootCmd.AddCommand(uiCmd)
}

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Launch the shade TUI",
	Long:  "Launch the shade terminal user interface. The theme follows the host preference while it runs.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd)
	},
}

func runTUI(cmd *cobra.Command) error {
	if IsNonInteractive() {
		return &PreflightError{
			Message:  "TUI requires an interactive terminal",
			Hint:     "Run without --non-interactive and with a TTY, or use CLI subcommands",
			NextStep: "shade theme show",
		}
	}

	cfg := GetConfig()
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := logging.Component("tui")

	session, err := openThemeSession(cmd.Context(), cfg, sessionOptions{
		Poll:   true,
		TTY:    os.Stdout,
		Logger: logging.Component("theme"),
	})
	if err != nil {
		return err
	}
	defer session.Close()
	session.followConfig(configLoader, logger)

	return tui.Run(tui.Config{
		Provider: session.provider,
		Logger:   logger,
		Input: components.InputFieldOptions{
			Label:       "Message",
			Placeholder: cfg.TUI.Placeholder,
			CharLimit:   cfg.TUI.CharLimit,
			Width:       cfg.TUI.InputWidth,
		},
	})
}
