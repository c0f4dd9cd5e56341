package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "SPILLWAY_"

// dotEnvFile is loaded into the process environment before parsing.
var dotEnvFile = ".env"

func loadDotEnv() {
	// Load never overrides variables that are already set.
	if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "spillway: ignoring %s: %v\n", dotEnvFile, err)
	}
}

// parseEnv overlays cfg with SPILLWAY_* variables.
func parseEnv(cfg *Config) error {
	str := func(name string, dst *string) {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			*dst = v
		}
	}
	str("API_BASE_URL", &cfg.APIBaseURL)
	str("DB_PATH", &cfg.DatabasePath)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("LOG_BACKEND", &cfg.LogBackend)
	str("LOG_FORMAT", &cfg.LogFormat)
	str("S3_BUCKET", &cfg.S3Bucket)
	str("S3_REGION", &cfg.S3Region)
	str("S3_BASE_ENDPOINT", &cfg.S3BaseEndpoint)
	str("S3_ACCESS_KEY", &cfg.S3AccessKey)
	str("S3_SECRET_KEY", &cfg.S3SecretKey)

	var err error
	dur := func(name string, dst *time.Duration) {
		v, ok := os.LookupEnv(envPrefix + name)
		if !ok || err != nil {
			return
		}
		d, perr := time.ParseDuration(v)
		if perr != nil {
			err = fmt.Errorf("%s%s: %w", envPrefix, name, perr)
			return
		}
		*dst = d
	}
	num := func(name string, dst *int) {
		v, ok := os.LookupEnv(envPrefix + name)
		if !ok || err != nil {
			return
		}
		n, perr := strconv.Atoi(v)
		if perr != nil {
			err = fmt.Errorf("%s%s: %w", envPrefix, name, perr)
			return
		}
		*dst = n
	}
	dur("REQUEST_TIMEOUT", &cfg.RequestTimeout)
	dur("POLL_INTERVAL", &cfg.PollInterval)
	num("BURST", &cfg.Burst)
	num("POLL_MAX_ATTEMPTS", &cfg.PollMaxAttempts)

	if v, ok := os.LookupEnv(envPrefix + "REQUESTS_PER_SECOND"); ok && err == nil {
		f, perr := strconv.ParseFloat(v, 64)
		if perr != nil {
			return fmt.Errorf("%sREQUESTS_PER_SECOND: %w", envPrefix, perr)
		}
		cfg.RequestsPerSecond = f
	}
	return err
}
