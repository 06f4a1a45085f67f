package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected  *Config
		name      string
		args      []string
		expectErr bool
	}{
		{
			name: "all flags",
			args: []string{
				"-a", "http://api:9090", "-t", "5", "-d", "/tmp/x.db", "-k", "/tmp/key",
				"-l", "/tmp/x.log", "-v", "debug", "-m", "1024", "-i", "10",
			},
			expected: &Config{
				ServerURL:          "http://api:9090",
				RequestTimeout:     5 * time.Second,
				DatabasePath:       "/tmp/x.db",
				CredentialKeyFile:  "/tmp/key",
				MaxUploadBytes:     1024,
				StatusPollInterval: 10 * time.Second,
				LogFile:            "/tmp/x.log",
				LogLevel:           "debug",
			},
		},
		{
			name: "unknown flags are ignored",
			args: []string{"-c", "cfg.json", "-x", "-a", "http://api:1"},
			expected: &Config{
				ServerURL: "http://api:1",
			},
		},
		{name: "incorrect poll interval", args: []string{"-i", "abc"}, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			err := parseFlags(cfg, tt.args)
			if tt.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, cfg))
		})
	}
}
