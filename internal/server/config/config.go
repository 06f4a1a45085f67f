// Package config handles configuration for the fake DocAssist backend:
// defaults, an optional JSON file and command-line flags.
package config

import "time"

// Config holds runtime settings for the backend.
//
// Fields:
//   - Addr: HTTP bind address.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use the default outside development.
//   - AccessTokenValidityDuration / RefreshTokenValidityDuration: token lifetimes.
//   - MaxUploadBytes: largest accepted document.
//   - ProcessingStepInterval: how often uploaded documents advance one pipeline step.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	Addr                         string
	SecretKey                    string
	AccessTokenValidityDuration  time.Duration
	RefreshTokenValidityDuration time.Duration
	MaxUploadBytes               int64
	ProcessingStepInterval       time.Duration
	LogLevel                     string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.Addr = ":8080"
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 15 * time.Minute
	c.RefreshTokenValidityDuration = 24 * time.Hour
	c.MaxUploadBytes = 50 << 20
	c.ProcessingStepInterval = 2 * time.Second
	c.LogLevel = "info"
}

// LoadConfig applies defaults, then the JSON file named by -c/-config, then
// flags.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
