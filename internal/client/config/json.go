package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/localmart-users/internal/flagx"
	"github.com/dmitrijs2005/localmart-users/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Fields left
// out of the file keep their current value.
type JsonConfig struct {
	ServerURL      *string         `json:"server_url"`
	TokenFile      *string         `json:"token_file"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
}

// parseJson overlays cfg with values from the file named by -c/-config.
// Read or unmarshal errors panic.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigFile(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerURL != nil {
		cfg.ServerURL = *jc.ServerURL
	}
	if jc.TokenFile != nil {
		cfg.TokenFile = *jc.TokenFile
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
}
