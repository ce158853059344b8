package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Mail     MailConfig     `yaml:"mail" envconfig:"MAIL"`
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
	Watch    WatchConfig    `yaml:"watch" envconfig:"WATCH"`
}

// LoggingConfig contains logging configuration.
// No envconfig default tags anywhere in this file: envconfig applies
// them whenever the variable is unset, which would clobber values
// already loaded from the YAML file. Default() seeds defaults instead.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	BaseDir   string `yaml:"base_dir" envconfig:"BASE_DIR"`
	InputDir  string `yaml:"input_dir" envconfig:"INPUT_DIR" validate:"required"`
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" validate:"required"`
	LogsDir   string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// MailConfig contains outbound notification mail configuration.
// Mail is optional: with an empty APIKey the notify stage is skipped.
type MailConfig struct {
	APIKey   string   `yaml:"api_key" envconfig:"API_KEY"`
	From     string   `yaml:"from" envconfig:"FROM" validate:"omitempty,email"`
	FromName string   `yaml:"from_name" envconfig:"FROM_NAME"`
	To       []string `yaml:"to" envconfig:"TO" validate:"dive,email"`
	Subject  string   `yaml:"subject" envconfig:"SUBJECT"`
}

// Enabled reports whether notification mail is configured.
func (m MailConfig) Enabled() bool {
	return m.APIKey != "" && m.From != "" && len(m.To) > 0
}

// PipelineConfig drives the built-in four-stage pipeline.
type PipelineConfig struct {
	LookupFile  string `yaml:"lookup_file" envconfig:"LOOKUP_FILE"`
	JoinKey     string `yaml:"join_key" envconfig:"JOIN_KEY"`
	GroupColumn string `yaml:"group_column" envconfig:"GROUP_COLUMN"`
	ValueColumn string `yaml:"value_column" envconfig:"VALUE_COLUMN"`
	ReportName  string `yaml:"report_name" envconfig:"REPORT_NAME"`
	SheetName   string `yaml:"sheet_name" envconfig:"SHEET_NAME"`
	ChartType   string `yaml:"chart_type" envconfig:"CHART_TYPE" validate:"oneof=bar line pie"`
}

// WatchConfig configures the directory watcher.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce" envconfig:"DEBOUNCE" validate:"gt=0"`
}

// Load loads configuration from environment variables and config file.
// Environment variables take precedence over file values.
func Load() (*Config, error) {
	cfg := Default()

	configFile := getConfigFilePath()
	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process("SHEET", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays YAML file values onto cfg.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
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
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/sheetcli.log",
		},
		Paths: PathsConfig{
			BaseDir:   ".",
			InputDir:  "data/input",
			OutputDir: "data/output",
			LogsDir:   "logs",
		},
		Mail: MailConfig{
			FromName: "sheetcli",
			Subject:  "Data pipeline report",
		},
		Pipeline: PipelineConfig{
			JoinKey:    "customer_id",
			ReportName: "report.xlsx",
			SheetName:  "Summary",
			ChartType:  "bar",
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
	}
}
