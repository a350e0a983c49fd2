// Package config loads shade's configuration from file and environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/opencode-ai/shade/internal/theme"
)

const (
	envPrefix = "SHADE"

	ModeAuto  = "auto"
	ModeLight = "light"
	ModeDark  = "dark"

	defaultPollInterval = 2 * time.Second
	minPollInterval     = 100 * time.Millisecond
)

// Config is the full application configuration.
type Config struct {
	Theme   ThemeConfig   `mapstructure:"theme"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	TUI     TUIConfig     `mapstructure:"tui"`
}

// ThemeConfig controls how the theme is resolved.
type ThemeConfig struct {
	// Mode is auto, light or dark. Auto follows the host preference.
	Mode string `mapstructure:"mode"`

	// PollInterval is how often host probes are re-run in auto mode.
	PollInterval time.Duration `mapstructure:"poll_interval"`

	// Probes lists the host probes to consult, in priority order.
	Probes []string `mapstructure:"probes"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// MetricsConfig controls the prometheus endpoint.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// TUIConfig controls the application shell.
type TUIConfig struct {
	Placeholder string `mapstructure:"placeholder"`
	CharLimit   int    `mapstructure:"char_limit"`
	InputWidth  int    `mapstructure:"input_width"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Theme: ThemeConfig{
			Mode:         ModeAuto,
			PollInterval: defaultPollInterval,
			Probes:       append([]string(nil), theme.ProbeNames...),
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		TUI: TUIConfig{
			Placeholder: "Type something...",
			CharLimit:   256,
			InputWidth:  40,
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	switch c.Theme.Mode {
	case ModeAuto, ModeLight, ModeDark:
	default:
		return fmt.Errorf("theme.mode must be one of auto, light, dark (got %q)", c.Theme.Mode)
	}
	if c.Theme.PollInterval < minPollInterval {
		return fmt.Errorf("theme.poll_interval must be at least %s", minPollInterval)
	}
	for _, probe := range c.Theme.Probes {
		if !slices.Contains(theme.ProbeNames, probe) {
			return fmt.Errorf("theme.probes: unknown probe %q", probe)
		}
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	if c.TUI.CharLimit < 0 {
		return errors.New("tui.char_limit must not be negative")
	}
	if c.TUI.InputWidth < 0 {
		return errors.New("tui.input_width must not be negative")
	}
	return nil
}

// Override translates the theme mode into a forced preference. Auto
// returns nil.
func (t ThemeConfig) Override() *bool {
	var dark bool
	switch t.Mode {
	case ModeDark:
		dark = true
	case ModeLight:
		dark = false
	default:
		return nil
	}
	return &dark
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "shade", "config.yaml")
}

// Loader reads configuration with viper and can watch the file for edits.
type Loader struct {
	v        *viper.Viper
	explicit bool
}

// NewLoader creates a loader. An empty path searches the default location
// and tolerates a missing file; an explicit path must exist.
func NewLoader(path string) *Loader {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	l := &Loader{v: v}
	if path != "" {
		v.SetConfigFile(path)
		l.explicit = true
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if path := DefaultPath(); path != "" {
			v.AddConfigPath(filepath.Dir(path))
		}
	}
	return l
}

// Load reads the file (if any), applies environment overrides and
// validates the result.
func (l *Loader) Load() (*Config, error) {
	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if l.explicit || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return l.decode()
}

// ConfigFile returns the file in use, or "" when running on defaults.
func (l *Loader) ConfigFile() string {
	return l.v.ConfigFileUsed()
}

// Watch re-decodes the config whenever the file changes and passes the
// result to fn. It does nothing when no file is in use.
func (l *Loader) Watch(fn func(*Config, error)) {
	if l.ConfigFile() == "" {
		return
	}
	l.v.OnConfigChange(func(fsnotify.Event) {
		fn(l.decode())
	})
	l.v.WatchConfig()
}

func (l *Loader) decode() (*Config, error) {
	cfg := DefaultConfig()
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Theme.Mode = strings.ToLower(strings.TrimSpace(cfg.Theme.Mode))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("theme.mode", d.Theme.Mode)
	v.SetDefault("theme.poll_interval", d.Theme.PollInterval)
	v.SetDefault("theme.probes", d.Theme.Probes)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("logging.max_size_mb", d.Logging.MaxSizeMB)
	v.SetDefault("logging.max_backups", d.Logging.MaxBackups)
	v.SetDefault("logging.max_age_days", d.Logging.MaxAgeDays)
	v.SetDefault("metrics.addr", d.Metrics.Addr)
	v.SetDefault("tui.placeholder", d.TUI.Placeholder)
	v.SetDefault("tui.char_limit", d.TUI.CharLimit)
	v.SetDefault("tui.input_width", d.TUI.InputWidth)
}
