// Package config provides default configuration values for caffeine8.
package config

import (
	"time"
)

// Default configuration constants
const (
	// Controller housekeeping cadence
	defaultRepublishInterval = time.Second

	// History defaults
	defaultMaxHistoryEntries = 1000 // entries
	defaultRetentionDays     = 30   // days
)

// DefaultConfig returns the default configuration values for caffeine8.
// File paths are left empty here and resolved against the XDG directories
// at load time, so the generated config file stays machine-independent.
func DefaultConfig() *Config {
	return &Config{
		Inhibit: InhibitConfig{
			AppName:           appName,
			ScreenSaverReason: "caffeine8 prevents automatic locking",
			SleepReason:       "caffeine8 is preventing automatic sleep",
			RepublishInterval: defaultRepublishInterval,
		},
		Files: FilesConfig{},
		History: HistoryConfig{
			Enabled:       true,
			MaxEntries:    defaultMaxHistoryEntries,
			RetentionDays: defaultRetentionDays,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
