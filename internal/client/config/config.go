package config

import "time"

// Config holds runtime settings for the DocAssist CLI.
//
// Fields:
//   - ServerURL: base URL of the DocAssist API.
//   - RequestTimeout: per-request HTTP timeout.
//   - DatabasePath: local SQLite file holding the credential pair.
//   - CredentialKeyFile: key used to seal tokens at rest; empty stores them unsealed.
//   - MaxUploadBytes: largest file the client will try to upload.
//   - StatusPollInterval: how often in-progress documents are re-checked.
//   - LogFile: rotating JSON log file; empty logs text to stderr.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	ServerURL          string
	RequestTimeout     time.Duration
	DatabasePath       string
	CredentialKeyFile  string
	MaxUploadBytes     int64
	StatusPollInterval time.Duration
	LogFile            string
	LogLevel           string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.RequestTimeout = 30 * time.Second
	c.DatabasePath = "docassist.db"
	c.CredentialKeyFile = ""
	c.MaxUploadBytes = 50 << 20
	c.StatusPollInterval = 3 * time.Second
	c.LogFile = ""
	c.LogLevel = "info"
}

// LoadConfig builds a Config from defaults, then the optional config file
// named by -c/-config, then the remaining flags. Later sources win.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
