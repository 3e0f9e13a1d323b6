package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/s0up4200/sc2ranks/sc2ranks"
)

// EnvPrefix prefixes environment overrides, e.g. SC2RANKS_API_KEY
const EnvPrefix = "SC2RANKS"

// DefaultRepository is the GitHub repository releases are fetched from
const DefaultRepository = "s0up4200/sc2ranks"

// Load loads the configuration from file and environment. A missing config
// file is fine as long as the environment supplies the API key.
func Load(configPath string) (*Config, error) {
	cfg, err := read(configPath)
	if err != nil {
		return nil, err
	}

	// Validate configuration
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadUpdate loads only the update section. It needs no API key, so the
// update command works before the CLI is configured.
func LoadUpdate(configPath string) (UpdateConfig, error) {
	cfg, err := read(configPath)
	if err != nil {
		return UpdateConfig{}, err
	}
	if strings.TrimSpace(cfg.Update.Repository) == "" {
		return UpdateConfig{}, fmt.Errorf("invalid configuration: update.repository must not be empty")
	}
	return cfg.Update, nil
}

// read merges defaults, the config file and the environment without
// validating the result
func read(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".sc2ranks"))
		}

		// Check /etc
		v.AddConfigPath("/etc/sc2ranks/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configPath != "" {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// API defaults
	v.SetDefault("api.key", "")
	v.SetDefault("api.endpoint", sc2ranks.DefaultEndpoint)
	v.SetDefault("api.timeout", sc2ranks.DefaultTimeout)
	v.SetDefault("api.user_agent", "sc2ranks-cli")

	// Lookup defaults
	v.SetDefault("lookup.region", "us")
	v.SetDefault("lookup.details", "teams")
	v.SetDefault("lookup.concurrency", 4)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)

	v.SetDefault("update.repository", DefaultRepository)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if strings.TrimSpace(cfg.API.Key) == "" || cfg.API.Key == "your-app-key-here" {
		return fmt.Errorf("api.key must be set to a valid API key (or %s_API_KEY)", EnvPrefix)
	}

	if cfg.API.Endpoint == "" {
		return fmt.Errorf("api.endpoint is required")
	}

	if cfg.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative")
	}

	if _, err := sc2ranks.ParseRegion(cfg.Lookup.Region); err != nil {
		return fmt.Errorf("invalid lookup.region: %s", cfg.Lookup.Region)
	}

	if _, err := sc2ranks.ParseCharacterDetails(cfg.Lookup.Details); err != nil {
		return fmt.Errorf("invalid lookup.details: %s (must be 'char' or 'teams')", cfg.Lookup.Details)
	}

	if cfg.Lookup.Concurrency < 1 {
		return fmt.Errorf("lookup.concurrency must be at least 1")
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
