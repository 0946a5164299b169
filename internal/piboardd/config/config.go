// Package config provides configuration management for the PiBoard daemon
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the daemon
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Pairing PairingConfig `mapstructure:"pairing"`
	Sync    SyncConfig    `mapstructure:"sync"`
	Display DisplayConfig `mapstructure:"display"`
	Status  StatusConfig  `mapstructure:"status"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig holds remote service endpoints
type ServerConfig struct {
	// DirectoryURL is the device directory service base URL
	DirectoryURL string `mapstructure:"directoryUrl"`
	// ContentURL is the content repository base URL
	ContentURL string `mapstructure:"contentUrl"`
	// Token is the device bearer token, if the deployment requires one
	Token string `mapstructure:"token"`
}

// StorageConfig holds local persistence settings
type StorageConfig struct {
	// Path is the SQLite database file location
	Path string `mapstructure:"path"`
}

// PairingConfig holds pairing flow settings
type PairingConfig struct {
	// RotateInterval is how often an unpaired device issues a new code
	RotateInterval time.Duration `mapstructure:"rotateInterval"`
	// PollInterval is the directory poll fallback cadence
	PollInterval time.Duration `mapstructure:"pollInterval"`
}

// SyncConfig holds content synchronization settings
type SyncConfig struct {
	// DebounceWindow is the notification coalescing quiet period
	DebounceWindow time.Duration `mapstructure:"debounceWindow"`
	// ResubscribeDelay is the fixed backoff after a stream drop
	ResubscribeDelay time.Duration `mapstructure:"resubscribeDelay"`
	// CacheFreshness is how long a cached playlist counts as fresh
	CacheFreshness time.Duration `mapstructure:"cacheFreshness"`
}

// DisplayConfig holds playback settings
type DisplayConfig struct {
	// DefaultDuration applies to items without a duration
	DefaultDuration time.Duration `mapstructure:"defaultDuration"`
	// TransitionDelay is the fade window between items
	TransitionDelay time.Duration `mapstructure:"transitionDelay"`
	// FallbackContentPath optionally replaces the built-in default set
	FallbackContentPath string `mapstructure:"fallbackContentPath"`
}

// StatusConfig holds the local status endpoint settings
type StatusConfig struct {
	// Enabled controls whether the endpoint is served at all
	Enabled bool `mapstructure:"enabled"`
	// Addr is the listen address
	Addr string `mapstructure:"addr"`
}

// LoggingConfig holds log output settings
type LoggingConfig struct {
	// Format selects "json" or "console" output
	Format string `mapstructure:"format"`
	// Level is the minimum level emitted
	Level string `mapstructure:"level"`
}

// Load reads configuration from the optional file at path, overlaying
// PIBOARD_* environment variables on the defaults
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.directoryUrl", "http://localhost:8080")
	v.SetDefault("server.contentUrl", "http://localhost:8080")
	v.SetDefault("storage.path", "/var/lib/piboard/piboard.db")
	v.SetDefault("pairing.rotateInterval", 600*time.Second)
	v.SetDefault("pairing.pollInterval", 30*time.Second)
	v.SetDefault("sync.debounceWindow", 500*time.Millisecond)
	v.SetDefault("sync.resubscribeDelay", 5*time.Second)
	v.SetDefault("sync.cacheFreshness", time.Hour)
	v.SetDefault("display.defaultDuration", 10*time.Second)
	v.SetDefault("display.transitionDelay", 300*time.Millisecond)
	v.SetDefault("status.enabled", true)
	v.SetDefault("status.addr", "127.0.0.1:9090")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.level", "info")

	v.SetEnvPrefix("PIBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.DirectoryURL == "" {
		return fmt.Errorf("server.directoryUrl is required")
	}
	if c.Server.ContentURL == "" {
		return fmt.Errorf("server.contentUrl is required")
	}
	if c.Pairing.RotateInterval <= 0 {
		return fmt.Errorf("pairing.rotateInterval must be positive")
	}
	if c.Sync.DebounceWindow <= 0 {
		return fmt.Errorf("sync.debounceWindow must be positive")
	}
	return nil
}
