// Package config loads the mhsurvey configuration from YAML, .env files and
// environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration
type Config struct {
	Source   SourceConfig   `yaml:"source"`
	Output   OutputConfig   `yaml:"output"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Telegram TelegramConfig `yaml:"telegram"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// SourceConfig points at the survey store
type SourceConfig struct {
	Driver string `yaml:"driver"` // sqlite3, sqlite or postgres
	DSN    string `yaml:"dsn"`    // file path for SQLite, connection string for Postgres
}

// OutputConfig controls where and how reports are written
type OutputConfig struct {
	Dir     string   `yaml:"dir"`
	Formats []string `yaml:"formats"` // console, csv, xlsx, dataset
}

// AnalysisConfig describes the analyses a report runs
type AnalysisConfig struct {
	MissingValue    string             `yaml:"missing_value"`
	UnknownLabel    string             `yaml:"unknown_label"`
	OtherLabel      string             `yaml:"other_label"`
	ConfidenceLevel float64            `yaml:"confidence_level"`
	MaxDisplay      int                `yaml:"max_display"`
	Years           []int              `yaml:"years"`
	Aliases         map[int]string     `yaml:"aliases"`
	Summaries       []SummaryConfig    `yaml:"summaries"`
	CrossTabs       []CrossTabConfig   `yaml:"crosstabs"`
	Prevalence      []PrevalenceConfig `yaml:"prevalence"`
	Counts          []CountConfig      `yaml:"counts"`
}

// SummaryConfig groups one or more questions into mapped categories
type SummaryConfig struct {
	Name        string            `yaml:"name"`
	QuestionIDs []int             `yaml:"questions"`
	ByYear      bool              `yaml:"by_year"`
	Mapping     map[string]string `yaml:"mapping"`
}

// CrossTabConfig pairs two questions answered by the same respondent
type CrossTabConfig struct {
	Name           string            `yaml:"name"`
	RowQuestion    int               `yaml:"row_question"`
	ColumnQuestion int               `yaml:"column_question"`
	RowMapping     map[string]string `yaml:"row_mapping"`
	ColumnMapping  map[string]string `yaml:"column_mapping"`
}

// PrevalenceConfig computes condition rates for a (possibly multi-answer) question
type PrevalenceConfig struct {
	Name       string            `yaml:"name"`
	QuestionID int               `yaml:"question"`
	Mapping    map[string]string `yaml:"mapping"`
}

// CountConfig lists the raw value counts of a question
type CountConfig struct {
	Name       string `yaml:"name"`
	QuestionID int    `yaml:"question"`
}

// ScheduleConfig controls periodic report refresh
type ScheduleConfig struct {
	Every string `yaml:"every"`
}

// TelegramConfig enables report delivery to a chat
type TelegramConfig struct {
	Token  string `yaml:"token"`
	ChatID int64  `yaml:"chat_id"`
}

// LoggingConfig controls the zap logger
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// DefaultConfig returns the configuration used when no file is present
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			Driver: "sqlite3",
			DSN:    filepath.Join("data", "mental_health.sqlite"),
		},
		Output: OutputConfig{
			Dir:     "out",
			Formats: []string{"console"},
		},
		Analysis: AnalysisConfig{
			MissingValue:    "-1",
			UnknownLabel:    "Unknown",
			OtherLabel:      "Other",
			ConfidenceLevel: 0.95,
			MaxDisplay:      5,
		},
		Schedule: ScheduleConfig{
			Every: "1h",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the YAML file at path on top of the defaults. A missing file is
// not an error. Environment overrides are applied last. The result is not
// validated so callers can layer flags on top before calling Validate.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnvFile loads variables from a .env file into the process environment.
// Variables that are already set win. A missing file is ignored.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// Save writes the configuration as YAML
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides
func (c *Config) applyEnvOverrides() error {
	if dsn := os.Getenv("MHSURVEY_DB"); dsn != "" {
		c.Source.DSN = dsn
	}
	if driver := os.Getenv("MHSURVEY_DRIVER"); driver != "" {
		c.Source.Driver = driver
	}
	if dir := os.Getenv("MHSURVEY_OUTPUT_DIR"); dir != "" {
		c.Output.Dir = dir
	}
	if every := os.Getenv("MHSURVEY_SCHEDULE"); every != "" {
		c.Schedule.Every = every
	}
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		c.Telegram.Token = token
	}
	if chatStr := os.Getenv("TELEGRAM_CHAT_ID"); chatStr != "" {
		chatID, err := strconv.ParseInt(strings.TrimSpace(chatStr), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_CHAT_ID %q: %w", chatStr, err)
		}
		c.Telegram.ChatID = chatID
	}
	return nil
}

// Validate checks the values that would otherwise fail deep inside a run
func (c *Config) Validate() error {
	switch c.Source.Driver {
	case "sqlite3", "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported driver %q", c.Source.Driver)
	}
	if c.Source.DSN == "" {
		return fmt.Errorf("source dsn is required")
	}

	level := c.Analysis.ConfidenceLevel
	if level <= 0 || level >= 1 {
		return fmt.Errorf("confidence_level must be between 0 and 1, got %v", level)
	}

	for _, f := range c.Output.Formats {
		switch f {
		case "console", "csv", "xlsx", "dataset":
		default:
			return fmt.Errorf("unsupported output format %q", f)
		}
	}

	if _, err := c.ScheduleInterval(); err != nil {
		return err
	}
	return nil
}

// ScheduleInterval parses the refresh interval
func (c *Config) ScheduleInterval() (time.Duration, error) {
	d, err := time.ParseDuration(c.Schedule.Every)
	if err != nil {
		return 0, fmt.Errorf("invalid schedule interval %q: %w", c.Schedule.Every, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("schedule interval must be positive, got %s", d)
	}
	return d, nil
}

// HasFormat reports whether an output format is enabled
func (c *Config) HasFormat(format string) bool {
	for _, f := range c.Output.Formats {
		if f == format {
			return true
		}
	}
	return false
}

// TelegramEnabled reports whether report delivery is configured
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.Token != "" && c.Telegram.ChatID != 0
}
