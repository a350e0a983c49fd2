package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	require.Nil(t, cfg.Theme.Override())
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
theme:
  mode: Dark
  poll_interval: 5s
  probes: [env, desktop]
logging:
  level: debug
  format: json
tui:
  placeholder: "Say hi"
`)

	loader := NewLoader(path)
	cfg, err := loader.Load()
	require.NoError(t, err)
	require.Equal(t, path, loader.ConfigFile())

	require.Equal(t, ModeDark, cfg.Theme.Mode)
	require.Equal(t, 5*time.Second, cfg.Theme.PollInterval)
	require.Equal(t, []string{"env", "desktop"}, cfg.Theme.Probes)
	require.Equal(t, "debug", cfg.Logging.Level)
	require.Equal(t, "json", cfg.Logging.Format)
	require.Equal(t, "Say hi", cfg.TUI.Placeholder)
	require.Equal(t, 256, cfg.TUI.CharLimit)

	override := cfg.Theme.Override()
	require.NotNil(t, override)
	require.True(t, *override)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "theme:\n  mode: dark\n")
	t.Setenv("SHADE_THEME_MODE", "light")
	t.Setenv("SHADE_METRICS_ADDR", "127.0.0.1:9099")

	cfg, err := NewLoader(path).Load()
	require.NoError(t, err)
	require.Equal(t, ModeLight, cfg.Theme.Mode)
	require.Equal(t, "127.0.0.1:9099", cfg.Metrics.Addr)
	require.False(t, *cfg.Theme.Override())
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := NewLoader(filepath.Join(t.TempDir(), "nope.yaml")).Load()
	require.Error(t, err)
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	loader := NewLoader("")
	cfg, err := loader.Load()
	require.NoError(t, err)
	require.Equal(t, "", loader.ConfigFile())
	require.Equal(t, ModeAuto, cfg.Theme.Mode)
}

func TestLoadFindsDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	path := DefaultPath()
	require.NotEmpty(t, path)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("theme:\n  mode: light\n"), 0o600))

	loader := NewLoader("")
	cfg, err := loader.Load()
	require.NoError(t, err)
	require.Equal(t, path, loader.ConfigFile())
	require.Equal(t, ModeLight, cfg.Theme.Mode)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "mode", mutate: func(c *Config) { c.Theme.Mode = "sepia" }},
		{name: "poll interval", mutate: func(c *Config) { c.Theme.PollInterval = time.Millisecond }},
		{name: "probe", mutate: func(c *Config) { c.Theme.Probes = []string{"registry"} }},
		{name: "log format", mutate: func(c *Config) { c.Logging.Format = "xml" }},
		{name: "char limit", mutate: func(c *Config) { c.TUI.CharLimit = -1 }},
		{name: "input width", mutate: func(c *Config) { c.TUI.InputWidth = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestWatchReloadsOnEdit(t *testing.T) {
	path := writeConfig(t, "theme:\n  mode: light\n")
	loader := NewLoader(path)
	_, err := loader.Load()
	require.NoError(t, err)

	changes := make(chan *Config, 4)
	loader.Watch(func(cfg *Config, err error) {
		if err != nil {
			return
		}
		select {
		case changes <- cfg:
		default:
		}
	})

	require.NoError(t, os.WriteFile(path, []byte("theme:\n  mode: dark\n"), 0o600))

	select {
	case cfg := <-changes:
		require.Equal(t, ModeDark, cfg.Theme.Mode)
	case <-time.After(5 * time.Second):
		t.Fatal("config change was not observed")
	}
}
