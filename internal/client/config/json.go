package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/spillway/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It is seeded
// from the current Config so that keys missing from the file keep their
// earlier value.
type JsonConfig struct {
	APIBaseURL        string         `json:"api_base_url"`
	DatabasePath      string         `json:"db_path"`
	RequestTimeout    timex.Duration `json:"request_timeout"`
	RequestsPerSecond float64        `json:"requests_per_second"`
	Burst             int            `json:"burst"`
	PollInterval      timex.Duration `json:"poll_interval"`
	PollMaxAttempts   int            `json:"poll_max_attempts"`
	LogLevel          string         `json:"log_level"`
	LogBackend        string         `json:"log_backend"`
	LogFormat         string         `json:"log_format"`
	S3Bucket          string         `json:"s3_bucket"`
	S3Region          string         `json:"s3_region"`
	S3BaseEndpoint    string         `json:"s3_base_endpoint"`
	S3AccessKey       string         `json:"s3_access_key"`
	S3SecretKey       string         `json:"s3_secret_key"`
}

// parseJSON overlays cfg with values read from the JSON file at path.
func parseJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	jc := JsonConfig{
		APIBaseURL:        cfg.APIBaseURL,
		DatabasePath:      cfg.DatabasePath,
		RequestTimeout:    timex.Duration{Duration: cfg.RequestTimeout},
		RequestsPerSecond: cfg.RequestsPerSecond,
		Burst:             cfg.Burst,
		PollInterval:      timex.Duration{Duration: cfg.PollInterval},
		PollMaxAttempts:   cfg.PollMaxAttempts,
		LogLevel:          cfg.LogLevel,
		LogBackend:        cfg.LogBackend,
		LogFormat:         cfg.LogFormat,
		S3Bucket:          cfg.S3Bucket,
		S3Region:          cfg.S3Region,
		S3BaseEndpoint:    cfg.S3BaseEndpoint,
		S3AccessKey:       cfg.S3AccessKey,
		S3SecretKey:       cfg.S3SecretKey,
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.APIBaseURL = jc.APIBaseURL
	cfg.DatabasePath = jc.DatabasePath
	cfg.RequestTimeout = jc.RequestTimeout.Duration
	cfg.RequestsPerSecond = jc.RequestsPerSecond
	cfg.Burst = jc.Burst
	cfg.PollInterval = jc.PollInterval.Duration
	cfg.PollMaxAttempts = jc.PollMaxAttempts
	cfg.LogLevel = jc.LogLevel
	cfg.LogBackend = jc.LogBackend
	cfg.LogFormat = jc.LogFormat
	cfg.S3Bucket = jc.S3Bucket
	cfg.S3Region = jc.S3Region
	cfg.S3BaseEndpoint = jc.S3BaseEndpoint
	cfg.S3AccessKey = jc.S3AccessKey
	cfg.S3SecretKey = jc.S3SecretKey
	return nil
}
