package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/dmitrijs2005/docassist/internal/flagx"
	"github.com/dmitrijs2005/docassist/internal/timex"
)

// fileConfig is the on-disk shape of Config. Empty fields leave the current
// value untouched.
type fileConfig struct {
	ServerURL          string         `json:"server_url" toml:"server_url"`
	RequestTimeout     timex.Duration `json:"request_timeout" toml:"request_timeout"`
	DatabasePath       string         `json:"database_path" toml:"database_path"`
	CredentialKeyFile  string         `json:"credential_key_file" toml:"credential_key_file"`
	MaxUploadBytes     int64          `json:"max_upload_bytes" toml:"max_upload_bytes"`
	StatusPollInterval timex.Duration `json:"status_poll_interval" toml:"status_poll_interval"`
	LogFile            string         `json:"log_file" toml:"log_file"`
	LogLevel           string         `json:"log_level" toml:"log_level"`
}

func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var fc fileConfig
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(data, &fc)
	} else {
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc fileConfig) apply(cfg *Config) {
	if fc.ServerURL != "" {
		cfg.ServerURL = fc.ServerURL
	}
	if fc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.DatabasePath != "" {
		cfg.DatabasePath = fc.DatabasePath
	}
	if fc.CredentialKeyFile != "" {
		cfg.CredentialKeyFile = fc.CredentialKeyFile
	}
	if fc.MaxUploadBytes > 0 {
		cfg.MaxUploadBytes = fc.MaxUploadBytes
	}
	if fc.StatusPollInterval.Duration > 0 {
		cfg.StatusPollInterval = fc.StatusPollInterval.Duration
	}
	if fc.LogFile != "" {
		cfg.LogFile = fc.LogFile
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
}
