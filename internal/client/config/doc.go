// Package config loads runtime configuration for the DocAssist CLI.
//
// Sources, lowest precedence first:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. An optional config file selected with -c or -config. Files ending in
//     .toml are read as TOML, anything else as JSON.
//  3. Command-line flags (see parseFlags).
//
// Supported flags
//
//	-a string   base URL of the API
//	-t int      request timeout (seconds)
//	-d string   path of the local database
//	-k string   credential key file
//	-l string   log file
//	-v string   log level
//	-m int      maximum upload size (bytes)
//	-i int      status poll interval (seconds)
//
// Durations in files are strings such as "3s"; JSON also accepts integer
// nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "request_timeout": "30s",
//	  "status_poll_interval": "3s"
//	}
package config
