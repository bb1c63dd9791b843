// Package config provides configuration management for caffeine8 with Viper integration.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// File permission constants
const (
	dirPerm  = 0755 // Standard directory permissions (rwxr-xr-x)
	filePerm = 0644 // Standard file permissions (rw-r--r--)
)

// Config represents the complete configuration for caffeine8.
type Config struct {
	Inhibit InhibitConfig `mapstructure:"inhibit" yaml:"inhibit"`
	Files   FilesConfig   `mapstructure:"files" yaml:"files"`
	History HistoryConfig `mapstructure:"history" yaml:"history"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// InhibitConfig holds lease acquisition parameters.
type InhibitConfig struct {
	// AppName is sent as the "who" of every inhibit call.
	AppName string `mapstructure:"app_name" yaml:"app_name"`
	// ScreenSaverReason is the human-readable reason for the screen-saver lease.
	ScreenSaverReason string `mapstructure:"screen_saver_reason" yaml:"screen_saver_reason"`
	// SleepReason is the human-readable reason for the login1 idle/sleep leases.
	SleepReason string `mapstructure:"sleep_reason" yaml:"sleep_reason"`
	// RepublishInterval is the cadence of the controller's housekeeping tick.
	RepublishInterval time.Duration `mapstructure:"republish_interval" yaml:"republish_interval"`
}

// FilesConfig holds the paths of the files the daemon maintains.
type FilesConfig struct {
	PidFile    string `mapstructure:"pid_file" yaml:"pid_file"`
	StatusFile string `mapstructure:"status_file" yaml:"status_file"`
	LogFile    string `mapstructure:"log_file" yaml:"log_file"`
}

// HistoryConfig holds transition history configuration.
type HistoryConfig struct {
	Enabled       bool   `mapstructure:"enabled" yaml:"enabled"`
	Path          string `mapstructure:"path" yaml:"path"`
	MaxEntries    int    `mapstructure:"max_entries" yaml:"max_entries"`
	RetentionDays int    `mapstructure:"retention_days" yaml:"retention_days"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Manager handles configuration loading, watching, and reloading.
type Manager struct {
	config    *Config
	viper     *viper.Viper
	mu        sync.RWMutex
	callbacks []func(*Config)
	watching  bool
}

// NewManager creates a new configuration manager.
func NewManager() (*Manager, error) {
	v := viper.New()

	// Configure Viper - supports yaml, json, toml automatically
	v.SetConfigName("config") // Will find config.yaml, config.json, config.toml, etc.

	configDir, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}
	v.AddConfigPath(configDir)
	v.AddConfigPath(".") // Current directory for development

	// Set up environment variable support
	v.SetEnvPrefix("CAFFEINE8")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindings := map[string]string{
		"inhibit.app_name":            "INHIBIT_APP_NAME",
		"inhibit.screen_saver_reason": "INHIBIT_SCREEN_SAVER_REASON",
		"inhibit.sleep_reason":        "INHIBIT_SLEEP_REASON",
		"inhibit.republish_interval":  "INHIBIT_REPUBLISH_INTERVAL",
		"files.pid_file":              "PID_FILE",
		"files.status_file":           "STATUS_FILE",
		"files.log_file":              "LOG_FILE",
		"history.enabled":             "HISTORY_ENABLED",
		"history.path":                "HISTORY_PATH",
		"history.max_entries":         "HISTORY_MAX_ENTRIES",
		"history.retention_days":      "HISTORY_RETENTION_DAYS",
		"logging.level":               "LOGGING_LEVEL",
		"logging.format":              "LOGGING_FORMAT",
	}

	for key, env := range bindings {
		if err := v.BindEnv(key, "CAFFEINE8_"+env); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable %s: %w", env, err)
		}
	}

	return &Manager{
		viper:     v,
		callbacks: make([]func(*Config), 0),
	}, nil
}

// Load loads the configuration from file and environment variables.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to ensure directories: %w", err)
	}

	m.setDefaults()

	// Read config file if it exists
	if err := m.viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			// Config file not found, create default one
			if err := m.createDefaultConfig(); err != nil {
				return fmt.Errorf("failed to create default config: %w", err)
			}
		} else {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := normalize(config); err != nil {
		return err
	}

	m.config = config
	return nil
}

// Get returns the current configuration (thread-safe).
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Return a copy to prevent external modification
	configCopy := *m.config
	return &configCopy
}

// Watch starts watching the config file for changes and reloads automatically.
func (m *Manager) Watch() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.watching {
		return nil // Already watching
	}

	m.viper.WatchConfig()
	m.viper.OnConfigChange(func(_ fsnotify.Event) {
		if err := m.reload(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to reload config: %v\n", err)
			return
		}

		m.mu.RLock()
		config := m.config
		callbacks := make([]func(*Config), len(m.callbacks))
		copy(callbacks, m.callbacks)
		m.mu.RUnlock()

		for _, callback := range callbacks {
			callback(config)
		}
	})

	m.watching = true
	return nil
}

// OnConfigChange registers a callback function to be called when config changes.
func (m *Manager) OnConfigChange(callback func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.callbacks = append(m.callbacks, callback)
}

// reload reloads the configuration.
func (m *Manager) reload() error {
	if err := m.viper.ReadInConfig(); err != nil {
		return err
	}

	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return err
	}

	if err := normalize(config); err != nil {
		return err
	}

	m.mu.Lock()
	m.config = config
	m.mu.Unlock()
	return nil
}

// normalize fills in derived path defaults and clamps odd values.
func normalize(config *Config) error {
	if config.Files.PidFile == "" {
		path, err := GetPidFile()
		if err != nil {
			return fmt.Errorf("failed to get pid file path: %w", err)
		}
		config.Files.PidFile = path
	}
	if config.Files.StatusFile == "" {
		path, err := GetStatusFile()
		if err != nil {
			return fmt.Errorf("failed to get status file path: %w", err)
		}
		config.Files.StatusFile = path
	}
	if config.Files.LogFile == "" {
		path, err := GetLogFile()
		if err != nil {
			return fmt.Errorf("failed to get log file path: %w", err)
		}
		config.Files.LogFile = path
	}
	if config.History.Path == "" {
		path, err := GetHistoryFile()
		if err != nil {
			return fmt.Errorf("failed to get history path: %w", err)
		}
		config.History.Path = path
	}
	if config.Inhibit.RepublishInterval <= 0 {
		config.Inhibit.RepublishInterval = defaultRepublishInterval
	}
	return nil
}

// setDefaults sets default configuration values in Viper.
func (m *Manager) setDefaults() {
	defaults := DefaultConfig()

	m.viper.SetDefault("inhibit.app_name", defaults.Inhibit.AppName)
	m.viper.SetDefault("inhibit.screen_saver_reason", defaults.Inhibit.ScreenSaverReason)
	m.viper.SetDefault("inhibit.sleep_reason", defaults.Inhibit.SleepReason)
	m.viper.SetDefault("inhibit.republish_interval", defaults.Inhibit.RepublishInterval)

	m.viper.SetDefault("files.pid_file", defaults.Files.PidFile)
	m.viper.SetDefault("files.status_file", defaults.Files.StatusFile)
	m.viper.SetDefault("files.log_file", defaults.Files.LogFile)

	m.viper.SetDefault("history.enabled", defaults.History.Enabled)
	m.viper.SetDefault("history.path", defaults.History.Path)
	m.viper.SetDefault("history.max_entries", defaults.History.MaxEntries)
	m.viper.SetDefault("history.retention_days", defaults.History.RetentionDays)

	m.viper.SetDefault("logging.level", defaults.Logging.Level)
	m.viper.SetDefault("logging.format", defaults.Logging.Format)
}

// createDefaultConfig creates a default configuration file.
func (m *Manager) createDefaultConfig() error {
	configFile, err := GetConfigFile()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configFile), dirPerm); err != nil {
		return err
	}

	defaultConfig := DefaultConfig()

	configData, err := json.MarshalIndent(defaultConfig, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal default config: %w", err)
	}

	if err := os.WriteFile(configFile, configData, filePerm); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	// Keep the editor-facing schema next to the file it describes.
	if err := GenerateSchemaFile(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to generate config schema: %v\n", err)
	}

	return nil
}

// GetConfigFileUsed returns the path to the configuration file being used.
func (m *Manager) GetConfigFileUsed() string {
	return m.viper.ConfigFileUsed()
}

// Global configuration manager instance
var globalManager *Manager
var globalManagerOnce sync.Once

// Init initializes the global configuration manager.
func Init() error {
	var err error
	globalManagerOnce.Do(func() {
		globalManager, err = NewManager()
		if err != nil {
			return
		}
		err = globalManager.Load()
	})
	return err
}

// Get returns the global configuration.
func Get() *Config {
	if globalManager == nil {
		// Return defaults if not initialized
		return DefaultConfig()
	}
	return globalManager.Get()
}

// Watch starts watching the global configuration for changes.
func Watch() error {
	if globalManager == nil {
		return fmt.Errorf("configuration not initialized")
	}
	return globalManager.Watch()
}

// OnConfigChange registers a callback for global configuration changes.
func OnConfigChange(callback func(*Config)) {
	if globalManager == nil {
		return
	}
	globalManager.OnConfigChange(callback)
}

// FileUsed returns the path of the configuration file the global manager
// loaded, or "" when none was read.
func FileUsed() string {
	if globalManager == nil {
		return ""
	}
	return globalManager.GetConfigFileUsed()
}
