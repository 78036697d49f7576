// Package config resolves the Audiobookshelf connection settings.
//
// Values are layered with priority: flags > environment > config file >
// defaults.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	EnvBaseURL = "ABS_BASE_URL"
	EnvAPIKey  = "ABS_API_KEY"
	EnvTimeout = "ABS_TIMEOUT_SECONDS"

	defaultTimeoutSeconds = 10
)

type Config struct {
	BaseURL        string `yaml:"base_url"`
	APIKey         string `yaml:"api_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// DefaultConfig returns configuration with defaults for optional fields.
func DefaultConfig() *Config {
	return &Config{TimeoutSeconds: defaultTimeoutSeconds}
}

// Timeout returns the request timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LoadConfigFile loads configuration from a YAML file on top of the defaults.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// FindConfigFile returns the first config file found in the standard
// locations, or "" when there is none.
func FindConfigFile() string {
	locations := []string{
		"./abs-chapters.yaml",
		"./abs-chapters.yml",
	}
	if home, err := os.UserHomeDir(); err == nil {
		locations = append(locations,
			filepath.Join(home, ".config", "abs-chapters", "config.yaml"),
			filepath.Join(home, ".config", "abs-chapters", "config.yml"),
		)
	}

	for _, path := range locations {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// Load reads the config file (path, or a discovered one when path is empty)
// and applies the environment on top.
func Load(path string) (*Config, error) {
	if path == "" {
		path = FindConfigFile()
	}

	cfg := DefaultConfig()
	if path != "" {
		fileCfg, err := LoadConfigFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		cfg = fileCfg
	}

	if err := cfg.MergeEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MergeEnv overrides fields set in the environment.
func (c *Config) MergeEnv() error {
	if v := strings.TrimSpace(os.Getenv(EnvBaseURL)); v != "" {
		c.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAPIKey)); v != "" {
		c.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTimeout)); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvTimeout, v, err)
		}
		c.TimeoutSeconds = seconds
	}
	return nil
}

// Validate checks the settings needed to reach the server.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base url is required (flag --base-url, %s or base_url in config)", EnvBaseURL)
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base url %q: %w", c.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid base url %q: scheme must be http or https", c.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid base url %q: missing host", c.BaseURL)
	}
	if c.APIKey == "" {
		return fmt.Errorf("api key is required (flag --api-key, %s or api_key in config)", EnvAPIKey)
	}
	if c.TimeoutSeconds <= 0 {
		return errors.New("timeout must be positive")
	}
	return nil
}
