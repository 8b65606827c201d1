package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Backend  BackendConfig  `mapstructure:"backend"`
	Resolver ResolverConfig `mapstructure:"resolver"`
	Feed     FeedConfig     `mapstructure:"feed"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// BackendConfig points at the hosted catalog/auth backend
type BackendConfig struct {
	URL    string `mapstructure:"url"`     // Base URL, e.g. https://xyz.supabase.co
	APIKey string `mapstructure:"api_key"` // Static anon key sent on every request
}

// ResolverConfig points at the stream-resolution helper service
type ResolverConfig struct {
	URL string `mapstructure:"url"` // e.g. http://127.0.0.1:5000
}

// FeedConfig tunes pagination and enrichment
type FeedConfig struct {
	PageSize          int `mapstructure:"page_size"`           // Records per catalog page
	MaxEnrichInFlight int `mapstructure:"max_enrich_inflight"` // Concurrent resolver calls
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{},
		Resolver: ResolverConfig{
			URL: "http://127.0.0.1:5000",
		},
		Feed: FeedConfig{
			PageSize:          20,
			MaxEnrichInFlight: 8,
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "podscout", "podscout.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "podscout", "podscout.log")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "podscout")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "podscout")
	}
}

// DataPath returns the directory holding the local session/library store
func DataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "podscout")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "podscout")
	}
}

// Load reads configuration from file and environment
func Load() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(defaultConfigPath())
	viper.AddConfigPath(".")

	// Environment variable overrides (PODSCOUT_BACKEND_URL etc.)
	viper.SetEnvPrefix("PODSCOUT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the current configuration to file
func Save(cfg *Config) error {
	configPath := defaultConfigPath()
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to keep snake_case key names
	viper.Set("backend.url", cfg.Backend.URL)
	viper.Set("backend.api_key", cfg.Backend.APIKey)
	viper.Set("resolver.url", cfg.Resolver.URL)
	viper.Set("feed.page_size", cfg.Feed.PageSize)
	viper.Set("feed.max_enrich_inflight", cfg.Feed.MaxEnrichInFlight)
	viper.Set("logging.file", cfg.Logging.File)
	viper.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(configPath, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// IsConfigured returns true if the backend URL and API key are set
func (c *Config) IsConfigured() bool {
	return c.Backend.URL != "" && c.Backend.APIKey != ""
}
