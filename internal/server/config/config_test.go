package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8080", c.Addr)
	assert.Equal(t, "secretKey", c.SecretKey)
	assert.Equal(t, 15*time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, 24*time.Hour, c.RefreshTokenValidityDuration)
	assert.Equal(t, int64(50<<20), c.MaxUploadBytes)
	assert.Equal(t, 2*time.Second, c.ProcessingStepInterval)
	assert.Equal(t, "info", c.LogLevel)
}

func TestParseFlags(t *testing.T) {
	config := &Config{}
	err := parseFlags(config, []string{
		"-a", "127.0.0.1:9090", "-s", "secret", "-t", "1", "-r", "3",
		"-m", "2048", "-p", "250", "-v", "debug",
	})
	require.NoError(t, err)

	want := &Config{
		Addr:                         "127.0.0.1:9090",
		SecretKey:                    "secret",
		AccessTokenValidityDuration:  time.Minute,
		RefreshTokenValidityDuration: 3 * time.Minute,
		MaxUploadBytes:               2048,
		ProcessingStepInterval:       250 * time.Millisecond,
		LogLevel:                     "debug",
	}
	assert.Empty(t, cmp.Diff(want, config))

	assert.Error(t, parseFlags(&Config{}, []string{"-t", "soon"}))
}

func TestLoadConfig_JSONThenFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"addr": ":9000",
		"secret_key": "from-file",
		"access_token_validity_duration": "1m",
		"processing_step_interval": "100ms"
	}`), 0o600))

	c, err := LoadConfig([]string{"-config", path, "-s", "from-flag"})
	require.NoError(t, err)

	assert.Equal(t, ":9000", c.Addr)
	assert.Equal(t, "from-flag", c.SecretKey)
	assert.Equal(t, time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, 24*time.Hour, c.RefreshTokenValidityDuration)
	assert.Equal(t, 100*time.Millisecond, c.ProcessingStepInterval)
}

func TestLoadConfig_BadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{ nope`), 0o600))

	_, err := LoadConfig([]string{"-c", path})
	assert.Error(t, err)
}
