package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the complete karmad application configuration.
// This is the daemon's own config, not the karma ranges file it points at.
type Config struct {
	Version    int    `json:"version" mapstructure:"version"`
	RangesPath string `json:"rangesPath" mapstructure:"rangesPath"`

	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
	Watch   WatchConfig   `json:"watch" mapstructure:"watch"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string `json:"level" mapstructure:"level"`
	File       string `json:"file" mapstructure:"file"`
	MaxSize    string `json:"maxSize" mapstructure:"maxSize"`
	MaxBackups int    `json:"maxBackups" mapstructure:"maxBackups"`
	Compress   bool   `json:"compress" mapstructure:"compress"`
}

// WatchConfig contains ranges-file watching configuration
type WatchConfig struct {
	Enabled    bool `json:"enabled" mapstructure:"enabled"`
	PollMs     int  `json:"pollMs" mapstructure:"pollMs"`
	DebounceMs int  `json:"debounceMs" mapstructure:"debounceMs"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:    1,
		RangesPath: "karma.conf",
		Logging: LoggingConfig{
			Level:      "info",
			MaxSize:    "10MB",
			MaxBackups: 3,
			Compress:   true,
		},
		Watch: WatchConfig{
			Enabled:    true,
			PollMs:     2000,
			DebounceMs: 500,
		},
	}
}

// LoadConfig loads configuration from <dir>/.karmad/config.json.
// A missing config file yields the defaults.
func LoadConfig(dir string) (*Config, error) {
	v := viper.New()

	v.SetDefault("version", 1)
	v.SetDefault("rangesPath", "karma.conf")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.maxSize", "10MB")
	v.SetDefault("logging.maxBackups", 3)
	v.SetDefault("logging.compress", true)
	v.SetDefault("watch.enabled", true)
	v.SetDefault("watch.pollMs", 2000)
	v.SetDefault("watch.debounceMs", 500)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(dir, ".karmad"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to <dir>/.karmad/config.json
func (c *Config) Save(dir string) error {
	configDir := filepath.Join(dir, ".karmad")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(configDir, "config.json"), data, 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != 1 {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}
	if c.RangesPath == "" {
		return &ConfigError{Field: "rangesPath", Message: "must not be empty"}
	}
	if c.Watch.PollMs <= 0 {
		return &ConfigError{Field: "watch.pollMs", Message: "must be positive"}
	}
	if c.Watch.DebounceMs < 0 {
		return &ConfigError{Field: "watch.debounceMs", Message: "must not be negative"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
