package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.Equal(t, "caffeine8", cfg.Inhibit.AppName)
	require.Equal(t, "caffeine8 prevents automatic locking", cfg.Inhibit.ScreenSaverReason)
	require.Equal(t, "caffeine8 is preventing automatic sleep", cfg.Inhibit.SleepReason)
	require.Equal(t, time.Second, cfg.Inhibit.RepublishInterval)

	// Paths stay empty until normalize resolves them against XDG dirs.
	require.Empty(t, cfg.Files.PidFile)
	require.Empty(t, cfg.Files.StatusFile)

	require.True(t, cfg.History.Enabled)
	require.Equal(t, 1000, cfg.History.MaxEntries)
	require.Equal(t, 30, cfg.History.RetentionDays)

	require.Equal(t, "info", cfg.Logging.Level)
	require.Equal(t, "console", cfg.Logging.Format)
}

func TestNormalizeFillsDerivedPaths(t *testing.T) {
	home := t.TempDir()
	runtime := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("ENV", "")
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_STATE_HOME", "")
	t.Setenv("XDG_RUNTIME_DIR", runtime)

	cfg := DefaultConfig()
	require.NoError(t, normalize(cfg))

	require.Equal(t, filepath.Join(runtime, "caffeine8.pid"), cfg.Files.PidFile)
	require.Equal(t, filepath.Join(runtime, "caffeine8.status"), cfg.Files.StatusFile)
	require.Equal(t, filepath.Join(home, ".local", "state", "caffeine8", "caffeine8.log"), cfg.Files.LogFile)
	require.Equal(t, filepath.Join(home, ".local", "state", "caffeine8", "history.sqlite"), cfg.History.Path)
}

func TestNormalizeKeepsExplicitValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Files.PidFile = "/custom/caffeine8.pid"
	cfg.Files.StatusFile = "/custom/caffeine8.status"
	cfg.Files.LogFile = "/custom/caffeine8.log"
	cfg.History.Path = "/custom/history.sqlite"
	cfg.Inhibit.RepublishInterval = 5 * time.Second

	require.NoError(t, normalize(cfg))

	require.Equal(t, "/custom/caffeine8.pid", cfg.Files.PidFile)
	require.Equal(t, "/custom/caffeine8.status", cfg.Files.StatusFile)
	require.Equal(t, "/custom/caffeine8.log", cfg.Files.LogFile)
	require.Equal(t, "/custom/history.sqlite", cfg.History.Path)
	require.Equal(t, 5*time.Second, cfg.Inhibit.RepublishInterval)
}

func TestNormalizeClampsInterval(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Inhibit.RepublishInterval = -time.Second

	require.NoError(t, normalize(cfg))
	require.Equal(t, defaultRepublishInterval, cfg.Inhibit.RepublishInterval)
}

func TestManagerLoadCreatesDefaultConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("ENV", "")
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_STATE_HOME", "")
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())

	m, err := NewManager()
	require.NoError(t, err)
	require.NoError(t, m.Load())

	cfg := m.Get()
	require.Equal(t, "caffeine8", cfg.Inhibit.AppName)
	require.NotEmpty(t, cfg.Files.StatusFile)

	// The default config and its schema are written alongside each other.
	configDir := filepath.Join(home, ".config", "caffeine8")
	require.FileExists(t, filepath.Join(configDir, "config.json"))
	require.FileExists(t, filepath.Join(configDir, "config.schema.json"))
}

func TestManagerEnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ENV", "")
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_STATE_HOME", "")
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())
	t.Setenv("CAFFEINE8_LOGGING_LEVEL", "debug")
	t.Setenv("CAFFEINE8_INHIBIT_APP_NAME", "caffeine8-test")

	m, err := NewManager()
	require.NoError(t, err)
	require.NoError(t, m.Load())

	cfg := m.Get()
	require.Equal(t, "debug", cfg.Logging.Level)
	require.Equal(t, "caffeine8-test", cfg.Inhibit.AppName)
}

func TestGetReturnsCopy(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ENV", "")
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_STATE_HOME", "")
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())

	m, err := NewManager()
	require.NoError(t, err)
	require.NoError(t, m.Load())

	first := m.Get()
	first.Inhibit.AppName = "mutated"
	require.Equal(t, "caffeine8", m.Get().Inhibit.AppName)
}

func TestSchema(t *testing.T) {
	data, err := Schema()
	require.NoError(t, err)
	require.Contains(t, string(data), "caffeine8 Configuration")
	require.Contains(t, string(data), "inhibit")
	require.Contains(t, string(data), "status_file")
}
