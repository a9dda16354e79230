package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	HIEv      HIEvConfig      `yaml:"hiev" envconfig:"HIEV"`
	Converter ConverterConfig `yaml:"converter" envconfig:"CONVERTER"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
}

// HIEvConfig contains the HIEv repository connection settings. The API key
// is read from the HIEV_API_KEY environment variable only, never from the
// config file, and must not appear in logs.
type HIEvConfig struct {
	BaseURL       string        `yaml:"base_url" envconfig:"BASE_URL" default:"https://hiev.westernsydney.edu.au"`
	APIKey        string        `yaml:"-" envconfig:"API_KEY"`
	UploadTimeout time.Duration `yaml:"upload_timeout" envconfig:"UPLOAD_TIMEOUT" default:"5m"`
}

// ConverterConfig contains the external conversion tool settings
type ConverterConfig struct {
	Command string        `yaml:"command" envconfig:"COMMAND" default:"Rscript"`
	Script  string        `yaml:"script" envconfig:"SCRIPT" default:"FACE_SCRIPT_NEUTRON_TXT-2-CSV.r"`
	Timeout time.Duration `yaml:"timeout" envconfig:"TIMEOUT" default:"10m"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/neutron_upload.log"`
}

// PathsConfig contains file system paths configuration. WorkingRoot
// overrides the executable-relative root, which the scheduled production
// deployment never needs but tests and manual runs do.
type PathsConfig struct {
	WorkingRoot string `yaml:"working_root" envconfig:"WORKING_ROOT"`
	DataDir     string `yaml:"data_dir" envconfig:"DATA_DIR" default:"Data"`
	RenamedDir  string `yaml:"renamed_dir" envconfig:"RENAMED_DIR" default:"Renamed"`
	BackupsDir  string `yaml:"backups_dir" envconfig:"BACKUPS_DIR" default:"Backups"`
	LogsDir     string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// Load loads configuration from environment variables and config file.
// Environment variables use no application prefix so the credential is
// read from exactly HIEV_API_KEY.
func Load() (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Load from config file if exists
	configFile := getConfigFilePath()
	if configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
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

// mergeConfigs merges file config with env config (env takes precedence).
// envconfig fills struct-tag defaults for unset variables, so a file value
// wins only when its variable was never set in the environment.
func mergeConfigs(fileConfig, envConfig Config) Config {
	if envUnset("HIEV_BASE_URL") && fileConfig.HIEv.BaseURL != "" {
		envConfig.HIEv.BaseURL = fileConfig.HIEv.BaseURL
	}
	if envUnset("HIEV_UPLOAD_TIMEOUT") && fileConfig.HIEv.UploadTimeout != 0 {
		envConfig.HIEv.UploadTimeout = fileConfig.HIEv.UploadTimeout
	}
	if envUnset("CONVERTER_COMMAND") && fileConfig.Converter.Command != "" {
		envConfig.Converter.Command = fileConfig.Converter.Command
	}
	if envUnset("CONVERTER_SCRIPT") && fileConfig.Converter.Script != "" {
		envConfig.Converter.Script = fileConfig.Converter.Script
	}
	if envUnset("CONVERTER_TIMEOUT") && fileConfig.Converter.Timeout != 0 {
		envConfig.Converter.Timeout = fileConfig.Converter.Timeout
	}
	if envUnset("LOGGING_LEVEL") && fileConfig.Logging.Level != "" {
		envConfig.Logging.Level = fileConfig.Logging.Level
	}
	if envUnset("LOGGING_FILE_PATH") && fileConfig.Logging.FilePath != "" {
		envConfig.Logging.FilePath = fileConfig.Logging.FilePath
	}
	if envUnset("PATHS_WORKING_ROOT") && fileConfig.Paths.WorkingRoot != "" {
		envConfig.Paths.WorkingRoot = fileConfig.Paths.WorkingRoot
	}
	if envUnset("PATHS_DATA_DIR") && fileConfig.Paths.DataDir != "" {
		envConfig.Paths.DataDir = fileConfig.Paths.DataDir
	}
	if envUnset("PATHS_RENAMED_DIR") && fileConfig.Paths.RenamedDir != "" {
		envConfig.Paths.RenamedDir = fileConfig.Paths.RenamedDir
	}
	if envUnset("PATHS_BACKUPS_DIR") && fileConfig.Paths.BackupsDir != "" {
		envConfig.Paths.BackupsDir = fileConfig.Paths.BackupsDir
	}
	if envUnset("PATHS_LOGS_DIR") && fileConfig.Paths.LogsDir != "" {
		envConfig.Paths.LogsDir = fileConfig.Paths.LogsDir
	}

	return envConfig
}

func envUnset(key string) bool {
	_, set := os.LookupEnv(key)
	return !set
}

// validate validates the configuration. A missing API key is fatal: the
// run cannot upload anything without it.
func (c *Config) validate() error {
	if c.HIEv.APIKey == "" {
		return fmt.Errorf("HIEV_API_KEY environment variable is not set")
	}

	if c.HIEv.BaseURL == "" {
		return fmt.Errorf("hiev base_url must not be empty")
	}

	if c.HIEv.UploadTimeout <= 0 {
		return fmt.Errorf("hiev upload_timeout must be positive")
	}

	if c.Converter.Command == "" {
		return fmt.Errorf("converter command must not be empty")
	}

	if c.Converter.Script == "" {
		return fmt.Errorf("converter script must not be empty")
	}

	if c.Converter.Timeout <= 0 {
		return fmt.Errorf("converter timeout must be positive")
	}

	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}

	if c.Logging.Output != "both" && c.Logging.Output != "file" {
		c.Logging.Output = "both"
	}

	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/neutron_upload.log"
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		HIEv: HIEvConfig{
			BaseURL:       "https://hiev.westernsydney.edu.au",
			UploadTimeout: 5 * time.Minute,
		},
		Converter: ConverterConfig{
			Command: "Rscript",
			Script:  "FACE_SCRIPT_NEUTRON_TXT-2-CSV.r",
			Timeout: 10 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "both",
			FilePath: "logs/neutron_upload.log",
		},
		Paths: PathsConfig{
			DataDir:    "Data",
			RenamedDir: "Renamed",
			BackupsDir: "Backups",
			LogsDir:    "logs",
		},
	}
}
