package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/docassist/internal/flagx"
)

// parseFlags overlays cfg with command-line flags. Arguments it does not know
// about (the config file flag among them) are filtered out first.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-t", "-d", "-k", "-l", "-v", "-m", "-i"})

	fs := flag.NewFlagSet("docassist", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the API")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path of the local database")
	fs.StringVar(&cfg.CredentialKeyFile, "k", cfg.CredentialKeyFile, "credential key file")
	fs.StringVar(&cfg.LogFile, "l", cfg.LogFile, "log file")
	fs.StringVar(&cfg.LogLevel, "v", cfg.LogLevel, "log level")
	fs.Int64Var(&cfg.MaxUploadBytes, "m", cfg.MaxUploadBytes, "maximum upload size (in bytes)")
	poll := fs.Int("i", int(cfg.StatusPollInterval.Seconds()), "status poll interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	cfg.StatusPollInterval = time.Duration(*poll) * time.Second
	return nil
}
