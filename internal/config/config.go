// Package config loads inlet configuration from the environment, with an
// optional YAML file for non-secret settings. Environment variables always
// win over file values; the webhook secret is only ever read from the
// environment or the file, never logged.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Defaults applied when neither the environment nor a config file sets a value.
const (
	DefaultListen      = ":8080"
	DefaultDatabaseURL = "sqlite:///./data/inlet.db"
	DefaultLogLevel    = "INFO"
	DefaultMaxPageSize = 500
)

// Config holds all process configuration. Constructed once at startup and
// passed by reference into components; no package-level singleton.
type Config struct {
	// Listen is the HTTP listen address (host:port).
	Listen string `yaml:"listen"`

	// WebhookSecret is the shared HMAC-SHA256 secret. Required to serve.
	WebhookSecret string `yaml:"webhook_secret"`

	// DatabaseURL is the storage location, e.g. "sqlite:///./data/inlet.db"
	// or a plain filesystem path.
	DatabaseURL string `yaml:"database_url"`

	// LogLevel is one of DEBUG, INFO, WARN, ERROR.
	LogLevel string `yaml:"log_level"`

	// MaxPageSize caps the limit parameter on message listing.
	MaxPageSize int `yaml:"max_page_size"`
}

// Load builds a Config from defaults, an optional YAML file, and the
// environment, in that order of precedence (environment wins), then validates
// it. A .env file in the working directory is loaded into the environment
// first if present. configPath may be empty.
func Load(configPath string) (*Config, error) {
	cfg, err := Gather(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Gather collects configuration without validating it. Used by doctor, which
// reports problems as findings instead of refusing to run.
func Gather(configPath string) (*Config, error) {
	// Best-effort: absence of .env is the normal case.
	_ = godotenv.Load()

	cfg := &Config{
		Listen:      DefaultListen,
		DatabaseURL: DefaultDatabaseURL,
		LogLevel:    DefaultLogLevel,
		MaxPageSize: DefaultMaxPageSize,
	}

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("read config file %q: %w", configPath, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %q: %w", configPath, err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("LISTEN"); v != "" {
		cfg.Listen = v
	}
	if v := os.Getenv("WEBHOOK_SECRET"); v != "" {
		cfg.WebhookSecret = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("MAX_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxPageSize = n
		}
	}
}

// Validate checks settings needed before the process can serve traffic.
func (c *Config) Validate() error {
	if c.WebhookSecret == "" {
		return fmt.Errorf("WEBHOOK_SECRET is required")
	}
	if c.Listen == "" {
		return fmt.Errorf("listen address is empty")
	}
	if c.MaxPageSize <= 0 {
		return fmt.Errorf("max_page_size must be positive")
	}
	return nil
}

// DatabasePath resolves DatabaseURL to a local filesystem path, stripping the
// sqlite:/// URL prefix if present.
func (c *Config) DatabasePath() string {
	path := c.DatabaseURL
	if strings.HasPrefix(path, "sqlite:///") {
		path = strings.TrimPrefix(path, "sqlite:///")
	}
	return path
}
