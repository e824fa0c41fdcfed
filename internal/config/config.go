// Package config loads tool configuration from environment variables
// (TABPROC_ prefix) merged with an optional YAML file. Environment
// values take precedence over file values.
package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix is the environment variable prefix for all settings.
const EnvPrefix = "TABPROC"

// DefaultConfigFile is looked up in the working directory when no
// explicit path is given.
const DefaultConfigFile = "tabproc.yml"

// Config represents the complete tool configuration
type Config struct {
	Logging    LoggingConfig    `yaml:"logging" envconfig:"LOGGING"`
	Processing ProcessingConfig `yaml:"processing" envconfig:"PROCESSING"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/tabproc.log"`
}

// ProcessingConfig contains defaults applied when the caller does not
// specify the corresponding option.
type ProcessingConfig struct {
	Delimiter string `yaml:"delimiter" envconfig:"DELIMITER" default:","`
	Encoding  string `yaml:"encoding" envconfig:"ENCODING" default:"utf-8"`
	FillValue string `yaml:"fill_value" envconfig:"FILL_VALUE" default:"0"`
}

// Load loads configuration from environment variables and the optional
// config file.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom loads configuration, reading the YAML file at configFile if
// it exists.
func LoadFrom(configFile string) (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Load from config file if exists
	if _, err := os.Stat(configFile); err == nil {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config. Env values win, but
// envconfig fills defaults for unset variables, so a field only falls
// back to the file value when it still holds the envconfig default and
// the file sets something else.
func mergeConfigs(fileConfig, envConfig Config) Config {
	defaults := defaultConfig()

	if envConfig.Logging.Level == defaults.Logging.Level && fileConfig.Logging.Level != "" {
		envConfig.Logging.Level = fileConfig.Logging.Level
	}
	if envConfig.Logging.Format == defaults.Logging.Format && fileConfig.Logging.Format != "" {
		envConfig.Logging.Format = fileConfig.Logging.Format
	}
	if envConfig.Logging.Output == defaults.Logging.Output && fileConfig.Logging.Output != "" {
		envConfig.Logging.Output = fileConfig.Logging.Output
	}
	if envConfig.Logging.FilePath == defaults.Logging.FilePath && fileConfig.Logging.FilePath != "" {
		envConfig.Logging.FilePath = fileConfig.Logging.FilePath
	}
	if envConfig.Processing.Delimiter == defaults.Processing.Delimiter && fileConfig.Processing.Delimiter != "" {
		envConfig.Processing.Delimiter = fileConfig.Processing.Delimiter
	}
	if envConfig.Processing.Encoding == defaults.Processing.Encoding && fileConfig.Processing.Encoding != "" {
		envConfig.Processing.Encoding = fileConfig.Processing.Encoding
	}
	if envConfig.Processing.FillValue == defaults.Processing.FillValue && fileConfig.Processing.FillValue != "" {
		envConfig.Processing.FillValue = fileConfig.Processing.FillValue
	}

	return envConfig
}

// Default returns the configuration with every field at its struct-tag
// default, ignoring both the environment and any config file.
func Default() *Config {
	cfg := defaultConfig()
	return &cfg
}

func defaultConfig() Config {
	var cfg Config
	// Processing an empty environment yields pure struct-tag defaults.
	_ = envconfig.Process("TABPROC_DEFAULTS_PROBE", &cfg)
	return cfg
}

// validate checks configuration values
func (c *Config) validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	switch c.Logging.Output {
	case "console", "file", "both":
	default:
		return fmt.Errorf("invalid log output: %s", c.Logging.Output)
	}

	if len([]rune(c.Processing.Delimiter)) != 1 {
		return fmt.Errorf("delimiter must be a single character, got %q", c.Processing.Delimiter)
	}

	return nil
}
