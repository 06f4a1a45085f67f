package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseFile(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		path := writeTempFile(t, "cfg.json", `{
			"server_url": "http://www.example:9000",
			"request_timeout": "10s",
			"status_poll_interval": 2000000000,
			"max_upload_bytes": 4096
		}`)

		cfg := &Config{}
		cfg.LoadDefaults()
		require.NoError(t, parseFile(cfg, []string{"-config", path}))

		assert.Equal(t, "http://www.example:9000", cfg.ServerURL)
		assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
		assert.Equal(t, 2*time.Second, cfg.StatusPollInterval)
		assert.Equal(t, int64(4096), cfg.MaxUploadBytes)
		assert.Equal(t, "docassist.db", cfg.DatabasePath, "absent fields keep their value")
	})

	t.Run("toml", func(t *testing.T) {
		path := writeTempFile(t, "cfg.toml", `
server_url = "http://toml:1"
database_path = "/var/lib/docassist.db"
credential_key_file = "/var/lib/docassist.key"
log_file = "/var/log/docassist.log"
log_level = "warn"
status_poll_interval = "500ms"
`)

		cfg := &Config{}
		require.NoError(t, parseFile(cfg, []string{"-c", path}))

		assert.Equal(t, "http://toml:1", cfg.ServerURL)
		assert.Equal(t, "/var/lib/docassist.db", cfg.DatabasePath)
		assert.Equal(t, "/var/lib/docassist.key", cfg.CredentialKeyFile)
		assert.Equal(t, "/var/log/docassist.log", cfg.LogFile)
		assert.Equal(t, "warn", cfg.LogLevel)
		assert.Equal(t, 500*time.Millisecond, cfg.StatusPollInterval)
	})

	t.Run("no config flag leaves config untouched", func(t *testing.T) {
		cfg := &Config{ServerURL: "defaults:1234", RequestTimeout: 42 * time.Second}
		require.NoError(t, parseFile(cfg, []string{"-a", "x"}))

		assert.Equal(t, "defaults:1234", cfg.ServerURL)
		assert.Equal(t, 42*time.Second, cfg.RequestTimeout)
	})

	t.Run("invalid json", func(t *testing.T) {
		path := writeTempFile(t, "bad.json", `{ this is not valid json`)
		assert.Error(t, parseFile(&Config{}, []string{"-c", path}))
	})

	t.Run("invalid duration in toml", func(t *testing.T) {
		path := writeTempFile(t, "bad.toml", `request_timeout = "forever"`)
		assert.Error(t, parseFile(&Config{}, []string{"-c", path}))
	})
}
