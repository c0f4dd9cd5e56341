// Package config loads runtime configuration for the spillway client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c/--config or SPILLWAY_CONFIG.
//  3. Environment variables prefixed with SPILLWAY_. A .env file in the
//     working directory is loaded first and never overrides the real
//     environment.
//  4. Command-line flags, which override everything else. Only flags the
//     user actually set are applied.
//
// # JSON schema
//
// Intervals use timex.Duration, so values can be strings like "2s" or
// integer nanoseconds. Missing keys keep their previous value:
//
//	{
//	  "api_base_url": "http://localhost:8081",
//	  "db_path": "/home/me/.config/spillway/client.db",
//	  "request_timeout": "30s",
//	  "requests_per_second": 10,
//	  "burst": 5,
//	  "poll_interval": "2s",
//	  "poll_max_attempts": 60,
//	  "log_level": "info",
//	  "log_backend": "slog",
//	  "log_format": "text",
//	  "s3_bucket": "spillway-keys",
//	  "s3_region": "us-east-1",
//	  "s3_base_endpoint": "http://127.0.0.1:9000",
//	  "s3_access_key": "...",
//	  "s3_secret_key": "..."
//	}
package config
