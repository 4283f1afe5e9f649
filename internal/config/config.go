// Package config holds runtime settings for the Haven terminal client and
// the defaults -> JSON file -> flags loading chain.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the Haven client.
//
// Fields:
//   - ServerURL: base URL of the backend REST API, including the /api prefix.
//   - SessionFile: path of the JSON file holding the bearer token and device id.
//   - LogFile: path of the log file; empty disables logging (the terminal is
//     owned by the UI, so logs never go to stdout/stderr).
//   - RequestTimeout: per-request HTTP timeout.
//   - Debug: enables debug-level logging.
type Config struct {
	ServerURL      string
	SessionFile    string
	LogFile        string
	RequestTimeout time.Duration
	Debug          bool
}

// LoadDefaults populates c with sensible defaults. The session file lives
// under the user config dir when resolvable, falling back to the working
// directory.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080/api"
	c.SessionFile = defaultSessionFile()
	c.LogFile = ""
	c.RequestTimeout = 10 * time.Second
	c.Debug = false
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "session.json"
	}
	return filepath.Join(dir, "havencli", "session.json")
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
