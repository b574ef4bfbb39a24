// Package config loads the advisor application configuration.
//
// Settings live in a YAML file; secrets are referenced with ${ENV_VAR}
// placeholders or taken straight from the environment so API keys never
// sit in the file itself.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables consulted for credentials and overrides.
const (
	EnvAPIKey  = "FUNDING_ARB_API_KEY"
	EnvBaseURL = "FUNDING_ARB_BASE_URL"
)

// Config is the root application configuration.
type Config struct {
	Platform  PlatformConfig  `yaml:"platform"`
	Profile   ProfileConfig   `yaml:"profile"`
	Scan      ScanConfig      `yaml:"scan"`
	Log       LogConfig       `yaml:"log"`
	Dashboard DashboardConfig `yaml:"dashboard"`
}

// PlatformConfig describes how to reach the arbitrage platform API.
type PlatformConfig struct {
	BaseURL          string  `yaml:"base_url"`
	APIKey           string  `yaml:"api_key"`
	TimeoutSeconds   int     `yaml:"timeout_seconds"`
	RequestsPerSec   float64 `yaml:"requests_per_sec"`
	Burst            int     `yaml:"burst"`
	MaxRetries       int     `yaml:"max_retries"`
	RetryInitialWait string  `yaml:"retry_initial_wait"`
	RetryMaxWait     string  `yaml:"retry_max_wait"`
}

// ProfileConfig locates the capital profile document on disk.
type ProfileConfig struct {
	Path string `yaml:"path"`
}

// ScanConfig controls opportunity fetching during recommendation runs.
type ScanConfig struct {
	PerPairLimit int    `yaml:"per_pair_limit"`
	SortBy       string `yaml:"sort_by"`
}

// LogConfig controls logger construction.
type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// DashboardConfig controls the live dashboard binary.
type DashboardConfig struct {
	RefreshSeconds int `yaml:"refresh_seconds"`
	MetricsPort    int `yaml:"metrics_port"`
}

// Load reads the YAML file at path and applies defaults, environment
// overrides and validation. An empty path yields the default config so
// the binaries work without a config file present.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.setDefaults()
	cfg.applyEnvironment()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.Platform.BaseURL == "" {
		c.Platform.BaseURL = "https://api.fundingarb.io"
	}
	if c.Platform.TimeoutSeconds <= 0 {
		c.Platform.TimeoutSeconds = 15
	}
	if c.Platform.RequestsPerSec <= 0 {
		c.Platform.RequestsPerSec = 5
	}
	if c.Platform.Burst <= 0 {
		c.Platform.Burst = 10
	}
	if c.Platform.MaxRetries <= 0 {
		c.Platform.MaxRetries = 3
	}
	if c.Platform.RetryInitialWait == "" {
		c.Platform.RetryInitialWait = "500ms"
	}
	if c.Platform.RetryMaxWait == "" {
		c.Platform.RetryMaxWait = "10s"
	}
	if c.Profile.Path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		c.Profile.Path = filepath.Join(home, ".funding-arb", "profile.json")
	}
	if c.Scan.PerPairLimit <= 0 {
		c.Scan.PerPairLimit = 10
	}
	if c.Scan.SortBy == "" {
		c.Scan.SortBy = "spread"
	}
	if c.Log.Level == "" {
		c.Log.Level = getEnv("LOG_LEVEL", "info")
	}
	if c.Dashboard.RefreshSeconds <= 0 {
		c.Dashboard.RefreshSeconds = 30
	}
}

// applyEnvironment resolves ${VAR} placeholders and environment overrides.
// Placeholders always resolve; otherwise values set in the file win.
func (c *Config) applyEnvironment() {
	if strings.HasPrefix(c.Platform.APIKey, "${") && strings.HasSuffix(c.Platform.APIKey, "}") {
		name := strings.TrimSuffix(strings.TrimPrefix(c.Platform.APIKey, "${"), "}")
		c.Platform.APIKey = os.Getenv(name)
	}
	if c.Platform.APIKey == "" {
		c.Platform.APIKey = os.Getenv(EnvAPIKey)
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.Platform.BaseURL = v
	}
}

// Validate reports configuration problems that should stop startup.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.Platform.BaseURL, "http://") && !strings.HasPrefix(c.Platform.BaseURL, "https://") {
		return fmt.Errorf("platform.base_url must be an http(s) URL, got %q", c.Platform.BaseURL)
	}
	if _, err := time.ParseDuration(c.Platform.RetryInitialWait); err != nil {
		return fmt.Errorf("platform.retry_initial_wait: %w", err)
	}
	if _, err := time.ParseDuration(c.Platform.RetryMaxWait); err != nil {
		return fmt.Errorf("platform.retry_max_wait: %w", err)
	}
	switch c.Scan.SortBy {
	case "spread", "score", "volume":
	default:
		return fmt.Errorf("scan.sort_by must be spread, score or volume, got %q", c.Scan.SortBy)
	}
	return nil
}

// Timeout returns the platform request timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Platform.TimeoutSeconds) * time.Second
}

// RetryInitial returns the parsed initial retry backoff.
func (c *Config) RetryInitial() time.Duration {
	d, _ := time.ParseDuration(c.Platform.RetryInitialWait)
	return d
}

// RetryMax returns the parsed retry backoff ceiling.
func (c *Config) RetryMax() time.Duration {
	d, _ := time.ParseDuration(c.Platform.RetryMaxWait)
	return d
}

// RefreshInterval returns the dashboard redraw interval.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.Dashboard.RefreshSeconds) * time.Second
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
