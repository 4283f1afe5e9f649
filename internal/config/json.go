package config

import (
	"encoding/json"
	"os"
	"time"

	"havencli/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations are
// given as strings like "10s". Parsed values are copied into the runtime
// Config; empty fields leave the current value untouched.
type JsonConfig struct {
	ServerURL      string `json:"server_url"`
	SessionFile    string `json:"session_file"`
	LogFile        string `json:"log_file"`
	RequestTimeout string `json:"request_timeout"`
	Debug          *bool  `json:"debug"`
}

// parseJson overlays Config with values loaded from a JSON file. The file
// path comes from the -c/-config flags via flagx.JsonConfigFlags; if none is
// given the function is a no-op. Read or unmarshal errors panic (caller may
// recover), matching the fail-fast posture of startup configuration.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.SessionFile != "" {
		cfg.SessionFile = jc.SessionFile
	}
	if jc.LogFile != "" {
		cfg.LogFile = jc.LogFile
	}
	if jc.RequestTimeout != "" {
		d, err := time.ParseDuration(jc.RequestTimeout)
		if err != nil {
			panic(err)
		}
		cfg.RequestTimeout = d
	}
	if jc.Debug != nil {
		cfg.Debug = *jc.Debug
	}
}
