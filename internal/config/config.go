package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Engine  EngineConfig  `yaml:"engine"`
	Tools   ToolsConfig   `yaml:"tools"`
	Output  OutputConfig  `yaml:"output"`
	Exclude []string      `yaml:"exclude,omitempty"` // entry names never mirrored into staging
	Watch   WatchConfig   `yaml:"watch,omitempty"`
	Notify  NotifyConfig  `yaml:"notify,omitempty"`
	History HistoryConfig `yaml:"history,omitempty"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
}

// EngineConfig selects the typesetting engine
type EngineConfig struct {
	Command   string   `yaml:"command"`
	ExtraArgs []string `yaml:"extra_args,omitempty"`
}

// ToolsConfig names the auxiliary tool binaries
type ToolsConfig struct {
	CodeExec     string `yaml:"code_exec"`
	Bibliography string `yaml:"bibliography"`
	// BibliographyOKExits lists exit statuses of the bibliography tool that
	// solely indicate "nothing to process" and are not build failures.
	BibliographyOKExits []int `yaml:"bibliography_ok_exits,omitempty"`
}

// OutputConfig represents output configuration
type OutputConfig struct {
	Directory string `yaml:"directory"`
}

// WatchConfig configures the watch daemon
type WatchConfig struct {
	Debounce      string `yaml:"debounce,omitempty"` // e.g. "500ms"
	Interval      string `yaml:"interval,omitempty"` // periodic rebuild, "0s" disables
	MetricsListen string `yaml:"metrics_listen,omitempty"`
}

// NotifyConfig configures optional build-event publishing
type NotifyConfig struct {
	NATSURL string `yaml:"nats_url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// HistoryConfig configures the persistent build history
type HistoryConfig struct {
	Path string `yaml:"path,omitempty"` // empty disables history recording
}

// LoggingConfig configures optional rotating file logging
type LoggingConfig struct {
	File       string `yaml:"file,omitempty"`
	MaxSizeMB  int    `yaml:"max_size_mb,omitempty"`
	MaxBackups int    `yaml:"max_backups,omitempty"`
}

// DebounceDuration returns the parsed watch debounce interval.
// Validate guarantees the value parses; a zero config falls back to the default.
func (w WatchConfig) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(w.Debounce)
	if err != nil || d <= 0 {
		return defaultDebounce
	}
	return d
}

// IntervalDuration returns the periodic rebuild interval, 0 when disabled.
func (w WatchConfig) IntervalDuration() time.Duration {
	d, err := time.ParseDuration(w.Interval)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// Load loads configuration from the specified file
func Load(configPath string) (*Config, error) {
	// Load .env/.env.local if present; existing variables win.
	for _, envPath := range []string{".env", ".env.local"} {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				fmt.Fprintf(os.Stderr, "Note: %s couldn't be loaded: %v\n", envPath, err)
			}
			break
		}
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
