package config

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

const (
	DefaultAPIBaseURL      = "http://localhost:8081"
	DefaultPollInterval    = 2 * time.Second
	DefaultPollMaxAttempts = 60
)

// Config holds runtime settings for the spillway client.
//
// DatabasePath may be empty, in which case the caller picks the per-user
// default location. RequestTimeout and RequestsPerSecond of zero disable
// the respective limit.
type Config struct {
	APIBaseURL        string
	DatabasePath      string
	RequestTimeout    time.Duration
	RequestsPerSecond float64
	Burst             int
	PollInterval      time.Duration
	PollMaxAttempts   int
	LogLevel          string
	LogBackend        string
	LogFormat         string
	S3Bucket          string
	S3Region          string
	S3BaseEndpoint    string
	S3AccessKey       string
	S3SecretKey       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = DefaultAPIBaseURL
	c.DatabasePath = ""
	c.RequestTimeout = 0
	c.RequestsPerSecond = 0
	c.Burst = 1
	c.PollInterval = DefaultPollInterval
	c.PollMaxAttempts = DefaultPollMaxAttempts
	c.LogLevel = "info"
	c.LogBackend = "slog"
	c.LogFormat = "text"
	c.S3Region = "us-east-1"
}

// Validate reports settings no component can work with.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("api base url must not be empty")
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request timeout must not be negative: %s", c.RequestTimeout)
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("requests per second must not be negative: %v", c.RequestsPerSecond)
	}
	if c.PollInterval < 0 {
		return fmt.Errorf("poll interval must not be negative: %s", c.PollInterval)
	}
	if c.PollMaxAttempts < 1 {
		return fmt.Errorf("poll max attempts must be at least 1: %d", c.PollMaxAttempts)
	}
	return nil
}

// Load builds a Config by applying defaults, then the JSON file, then the
// environment, then the flags explicitly set on fs. fs may be nil; it is
// expected to carry the flags registered by RegisterFlags.
func Load(fs *pflag.FlagSet) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	loadDotEnv()

	path := configPath(fs)
	if path != "" {
		if err := parseJSON(cfg, path); err != nil {
			return nil, err
		}
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if fs != nil {
		if err := parseFlags(cfg, fs); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
