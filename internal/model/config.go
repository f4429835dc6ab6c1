package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// ServerConfig holds connection settings for the TaskMaster API.
type ServerConfig struct {
	// BaseURL is the root URL of the API server.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// RequestTimeoutSec bounds every API call.
	RequestTimeoutSec int `mapstructure:"request_timeout_sec" yaml:"request_timeout_sec"`
}

// GeoConfig holds the position source settings. A terminal has no GPS;
// coordinates come from the config file (or stay unset, in which case
// location features report that positioning is unsupported).
type GeoConfig struct {
	// Latitude/Longitude are the configured position in decimal degrees.
	Latitude  float64 `mapstructure:"latitude" yaml:"latitude"`
	Longitude float64 `mapstructure:"longitude" yaml:"longitude"`

	// Enabled marks the coordinates above as valid. Zero values are
	// real coordinates, so presence is tracked explicitly.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Watch re-reads the position on an interval and re-evaluates the
	// nearest-location match on every update.
	Watch            bool `mapstructure:"watch" yaml:"watch"`
	WatchIntervalSec int  `mapstructure:"watch_interval_sec" yaml:"watch_interval_sec"`

	// TimeoutSec bounds a one-shot position read.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme              string `mapstructure:"theme" yaml:"theme"`
	RefreshIntervalSec int    `mapstructure:"refresh_interval_sec" yaml:"refresh_interval_sec"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Geo     GeoConfig     `mapstructure:"geo" yaml:"geo"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/taskmaster/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "taskmaster", "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			BaseURL:           "http://localhost:8000",
			RequestTimeoutSec: 30,
		},
		Geo: GeoConfig{
			WatchIntervalSec: 60,
			TimeoutSec:       10,
		},
		Display: DisplayConfig{
			Theme:              "default",
			RefreshIntervalSec: 60,
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("server.base_url", "http://localhost:8000")
	v.SetDefault("server.request_timeout_sec", 30)
	v.SetDefault("geo.watch_interval_sec", 60)
	v.SetDefault("geo.timeout_sec", 10)
	v.SetDefault("display.theme", "default")
	v.SetDefault("display.refresh_interval_sec", 60)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("server", cfg.Server)
	v.Set("geo", cfg.Geo)
	v.Set("display", cfg.Display)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
