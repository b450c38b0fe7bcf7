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

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	t.Run("loads all fields", func(t *testing.T) {
		path := writeTempJSON(t, map[string]any{
			"server_url":      "http://example:8081",
			"token_file":      "/var/tok",
			"request_timeout": "30s",
		})
		cfg := &Config{}
		parseJson(cfg, []string{"-config", path})

		assert.Equal(t, "http://example:8081", cfg.ServerURL)
		assert.Equal(t, "/var/tok", cfg.TokenFile)
		assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	})

	t.Run("partial file keeps other values", func(t *testing.T) {
		path := writeTempJSON(t, map[string]any{"token_file": "/only"})
		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg, []string{"-c", path})

		assert.Equal(t, "/only", cfg.TokenFile)
		assert.Equal(t, "http://127.0.0.1:8081/api/v1", cfg.ServerURL)
	})

	t.Run("no flag is a no-op", func(t *testing.T) {
		cfg := &Config{ServerURL: "keep"}
		parseJson(cfg, nil)
		assert.Equal(t, "keep", cfg.ServerURL)
	})

	t.Run("missing file panics", func(t *testing.T) {
		require.Panics(t, func() {
			parseJson(&Config{}, []string{"-c", filepath.Join(t.TempDir(), "nope.json")})
		})
	})

	t.Run("invalid json panics", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))
		require.Panics(t, func() { parseJson(&Config{}, []string{"-c", path}) })
	})
}
