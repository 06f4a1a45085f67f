package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8080", c.ServerURL)
	assert.Equal(t, 30*time.Second, c.RequestTimeout)
	assert.Equal(t, "docassist.db", c.DatabasePath)
	assert.Empty(t, c.CredentialKeyFile)
	assert.Equal(t, int64(50<<20), c.MaxUploadBytes)
	assert.Equal(t, 3*time.Second, c.StatusPollInterval)
	assert.Empty(t, c.LogFile)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoadConfig_NoArgsGivesDefaults(t *testing.T) {
	cfg, err := LoadConfig(nil)
	require.NoError(t, err)

	var want Config
	want.LoadDefaults()
	assert.Equal(t, want, *cfg)
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	path := writeTempFile(t, "cfg.json", `{"server_url":"http://file:1","log_level":"debug"}`)

	cfg, err := LoadConfig([]string{"-c", path, "-a", "http://flag:2"})
	require.NoError(t, err)

	assert.Equal(t, "http://flag:2", cfg.ServerURL)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig([]string{"-config", "/does/not/exist.json"})
	assert.Error(t, err)

	_, err = LoadConfig([]string{"-t", "abc"})
	assert.Error(t, err)
}
