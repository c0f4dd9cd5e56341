package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJSON(t *testing.T) {
	dir := t.TempDir()

	t.Run("overlays known keys", func(t *testing.T) {
		path := writeTempJSON(t, dir, "full.json", map[string]any{
			"api_base_url":        "http://api.example:9000",
			"request_timeout":     "30s",
			"requests_per_second": 2.5,
			"burst":               4,
			"poll_interval":       int64(500 * time.Millisecond),
			"poll_max_attempts":   10,
			"log_backend":         "zap",
			"s3_base_endpoint":    "http://127.0.0.1:9000",
		})

		cfg := &Config{}
		cfg.LoadDefaults()
		require.NoError(t, parseJSON(cfg, path))

		assert.Equal(t, "http://api.example:9000", cfg.APIBaseURL)
		assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
		assert.Equal(t, 2.5, cfg.RequestsPerSecond)
		assert.Equal(t, 4, cfg.Burst)
		assert.Equal(t, 500*time.Millisecond, cfg.PollInterval)
		assert.Equal(t, 10, cfg.PollMaxAttempts)
		assert.Equal(t, "zap", cfg.LogBackend)
		assert.Equal(t, "http://127.0.0.1:9000", cfg.S3BaseEndpoint)
		assert.Equal(t, "info", cfg.LogLevel, "missing keys keep their value")
	})

	t.Run("invalid JSON", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		cfg := &Config{}
		require.Error(t, parseJSON(cfg, bad))
	})

	t.Run("invalid duration", func(t *testing.T) {
		path := writeTempJSON(t, dir, "dur.json", map[string]any{"poll_interval": "often"})
		require.Error(t, parseJSON(&Config{}, path))
	})

	t.Run("missing file", func(t *testing.T) {
		require.Error(t, parseJSON(&Config{}, filepath.Join(dir, "nope.json")))
	})
}
