package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Lookup  LookupConfig  `mapstructure:"lookup"`
	Filter  FilterConfig  `mapstructure:"filter"`
	Logging LoggingConfig `mapstructure:"logging"`
	Update  UpdateConfig  `mapstructure:"update"`
}

// APIConfig holds sc2ranks API connection details
type APIConfig struct {
	Key       string        `mapstructure:"key"`
	Endpoint  string        `mapstructure:"endpoint"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// LookupConfig contains defaults for the lookup command
type LookupConfig struct {
	Region      string `mapstructure:"region"`
	Details     string `mapstructure:"details"`
	Concurrency int    `mapstructure:"concurrency"`
}

// FilterConfig contains named filter expressions
type FilterConfig struct {
	Presets map[string]string `mapstructure:"presets"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}

// UpdateConfig points the update command at a release repository
type UpdateConfig struct {
	Repository string `mapstructure:"repository"`
}
