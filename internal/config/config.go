package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"dish-analyzer/internal/model"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
// Nested fields are read from PREFIX_FIELD variables, for example DB_HOST.
type Config struct {
	Server    ServerConfig    `envconfig:"SERVER"`
	Database  DatabaseConfig  `envconfig:"DB"`
	Logger    LoggerConfig    `envconfig:"LOG"`
	Auth      AuthConfig      `envconfig:"API"`
	S3        S3Config        `envconfig:"S3"`
	Sheets    SheetsConfig    `envconfig:"SHEETS"`
	Analysis  AnalysisConfig  `envconfig:"ANALYSIS"`
	Upload    UploadConfig    `envconfig:"UPLOAD"`
	RateLimit RateLimitConfig `envconfig:"RATE_LIMIT"`
	ThemeFile string          `envconfig:"THEME_FILE"`

	Theme Theme `ignored:"true"`
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host            string        `default:"0.0.0.0"`
	Port            int           `default:"8080"`
	ReadTimeout     time.Duration `split_words:"true" default:"30s"`
	WriteTimeout    time.Duration `split_words:"true" default:"60s"`
	IdleTimeout     time.Duration `split_words:"true" default:"60s"`
	ShutdownTimeout time.Duration `split_words:"true" default:"30s"`
}

// DatabaseConfig holds the reference catalogue database configuration.
// The database is only used when Enabled is set.
type DatabaseConfig struct {
	Enabled         bool   `default:"false"`
	Host            string `default:"localhost"`
	Port            int    `default:"5432"`
	User            string `default:"postgres"`
	Password        string
	Name            string `default:"dishanalyzer"`
	MaxConnections  int    `split_words:"true" default:"10"`
	MinConnections  int    `split_words:"true" default:"2"`
	MaxConnLifetime int    `split_words:"true" default:"300"` // seconds
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string `default:"info"`
	Format string `default:"json"` // "json" or "console"
}

// AuthConfig holds authentication configuration for /api routes.
type AuthConfig struct {
	Key string
}

// S3Config holds AWS S3 configuration for spreadsheet sources.
type S3Config struct {
	Enabled bool   `default:"false"`
	Bucket  string
	Region  string `default:"eu-west-1"`
	Prefix  string `default:"sheets/"` // Path prefix within bucket
}

// SheetsConfig holds the local directory spreadsheet keys resolve against.
type SheetsConfig struct {
	Dir string `default:"data"`
}

// AnalysisConfig holds thresholds and options for an analysis pass.
type AnalysisConfig struct {
	LowMargin      float64       `split_words:"true" default:"0.60"`
	HighCarbon     float64       `split_words:"true" default:"3.0"`
	UseCatalogue   bool          `split_words:"true" default:"true"`
	TemplateGroups int           `split_words:"true" default:"5"`
	Timeout        time.Duration `default:"30s"`
}

// UploadConfig bounds uploaded workbooks.
type UploadConfig struct {
	MaxBytes int64 `split_words:"true" default:"10485760"`
}

// RateLimitConfig configures the token bucket guarding analysis endpoints.
type RateLimitConfig struct {
	Enabled bool    `default:"true"`
	RPS     float64 `default:"5"`
	Burst   int     `default:"10"`
}

// Read loads a .env file when present and processes environment variables
// without validating the result.
func Read() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	theme, err := LoadTheme(cfg.ThemeFile)
	if err != nil {
		return nil, err
	}
	cfg.Theme = theme

	return &cfg, nil
}

// Load loads and validates the server configuration.
func Load() (*Config, error) {
	cfg, err := Read()
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Enabled {
		if err := c.Database.Validate(); err != nil {
			return err
		}
	}

	if c.Auth.Key == "" {
		return fmt.Errorf("API key is required")
	}

	if err := c.Logger.Validate(); err != nil {
		return err
	}

	if c.S3.Enabled {
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket is required when S3 is enabled")
		}
		if c.S3.Region == "" {
			return fmt.Errorf("S3 region is required when S3 is enabled")
		}
	}

	if err := c.Analysis.Validate(); err != nil {
		return err
	}

	if c.Upload.MaxBytes < 1 {
		return fmt.Errorf("upload max bytes must be positive")
	}

	if c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst < 1) {
		return fmt.Errorf("rate limit requires a positive rps and a burst of at least 1")
	}

	return nil
}

// Validate validates the database section.
func (c *DatabaseConfig) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Port)
	}

	if c.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Name == "" {
		return fmt.Errorf("database name is required")
	}

	if c.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.MinConnections > c.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	return nil
}

// Validate validates the logger section.
func (c *LoggerConfig) Validate() error {
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Level)
	}

	if c.Format != "json" && c.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Format)
	}

	return nil
}

// Validate validates the analysis section.
func (c *AnalysisConfig) Validate() error {
	if c.LowMargin < 0 || c.LowMargin > 1 {
		return fmt.Errorf("low margin threshold must be between 0 and 1: %g", c.LowMargin)
	}

	if c.HighCarbon < 0 {
		return fmt.Errorf("high carbon threshold cannot be negative: %g", c.HighCarbon)
	}

	if c.TemplateGroups < 1 || c.TemplateGroups > 50 {
		return fmt.Errorf("template groups must be between 1 and 50: %d", c.TemplateGroups)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("analysis timeout must be positive")
	}

	return nil
}

// Thresholds returns the flagging thresholds.
func (c *AnalysisConfig) Thresholds() model.Thresholds {
	return model.Thresholds{
		LowMargin:  c.LowMargin,
		HighCarbon: c.HighCarbon,
	}
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Name,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
