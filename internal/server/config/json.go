package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/docassist/internal/flagx"
	"github.com/dmitrijs2005/docassist/internal/timex"
)

// jsonConfig is the file form of Config. Durations are strings such as "1m"
// or integer nanoseconds.
type jsonConfig struct {
	Addr                         string         `json:"addr"`
	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	MaxUploadBytes               int64          `json:"max_upload_bytes"`
	ProcessingStepInterval       timex.Duration `json:"processing_step_interval"`
	LogLevel                     string         `json:"log_level"`
}

func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var c jsonConfig
	if err := json.Unmarshal(data, &c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if c.Addr != "" {
		cfg.Addr = c.Addr
	}
	if c.SecretKey != "" {
		cfg.SecretKey = c.SecretKey
	}
	if c.AccessTokenValidityDuration.Duration > 0 {
		cfg.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration.Duration > 0 {
		cfg.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	if c.MaxUploadBytes > 0 {
		cfg.MaxUploadBytes = c.MaxUploadBytes
	}
	if c.ProcessingStepInterval.Duration > 0 {
		cfg.ProcessingStepInterval = c.ProcessingStepInterval.Duration
	}
	if c.LogLevel != "" {
		cfg.LogLevel = c.LogLevel
	}
	return nil
}
