// Package cli implements the shade command line.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/shade/internal/config"
	"github.com/opencode-ai/shade/internal/logging"
)

var (
	cfgFile        string
	logLevel       string
	logFormat      string
	jsonOutput     bool
	jsonlOutput    bool
	nonInteractive bool
	noProgress     bool

	appConfig    *config.Config
	configLoader *config.Loader
	closeLogs    = func() {}
)

var rootCmd = &cobra.Command{
	Use:           "shade",
	Short:         "Terminal shell that follows your light/dark preference",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initRuntime(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		closeLogs()
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", configFlagUsage())
	flags.StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	flags.StringVar(&logFormat, "log-format", "", "log format override (console, json)")
	flags.BoolVar(&jsonOutput, "json", false, "output in JSON format")
	flags.BoolVar(&jsonlOutput, "jsonl", false, "output in JSON Lines format")
	flags.BoolVar(&nonInteractive, "non-interactive", false, "never prompt or open the TUI")
	flags.BoolVar(&noProgress, "no-progress", false, "disable progress output")
}

func configFlagUsage() string {
	if path := config.DefaultPath(); path != "" {
		return fmt.Sprintf("config file (default %s)", path)
	}
	return "config file"
}

// Execute runs the root command and prints any error to stderr.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, FormatError(err))
	}
	return err
}

// GetConfig returns the loaded configuration, or nil before a command runs.
func GetConfig() *config.Config {
	return appConfig
}

func initRuntime(cmd *cobra.Command) error {
	if jsonOutput && jsonlOutput {
		return fmt.Errorf("--json and --jsonl are mutually exclusive")
	}

	loader := config.NewLoader(cfgFile)
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}

	logger, cleanup, err := logging.Setup(logging.Options{
		Level:      cfg.Logging.Level,
		Format:     logging.Format(cfg.Logging.Format),
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Quiet:      cmd == uiCmd,
		Stderr:     cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	appConfig = cfg
	configLoader = loader
	closeLogs = cleanup

	logger.Debug().
		Str("command", cmd.CommandPath()).
		Str("config_file", loader.ConfigFile()).
		Str("theme_mode", cfg.Theme.Mode).
		Msg("configuration loaded")
	return nil
}
