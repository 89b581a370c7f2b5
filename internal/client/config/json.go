package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/dutybadge/internal/flagx"
	"github.com/dmitrijs2005/dutybadge/internal/timex"
)

// JsonConfig is a DTO used only for unmarshalling the config file.
// Fields are pointers so a key missing from the file can be told apart from
// a zero value. RequestTimeout uses timex.Duration, which accepts either a
// string like "5s" or integer nanoseconds.
type JsonConfig struct {
	ServerEndpointAddr *string         `json:"server_endpoint_addr"`
	AccessToken        *string         `json:"access_token"`
	RequestTimeout     *timex.Duration `json:"request_timeout"`
}

// parseJson overlays cfg with values from a JSON file.
//
// Behavior:
//   - The path comes from -c or -config (flagx.ConfigFileFlag); without one
//     nothing is loaded.
//   - Only keys present in the file are copied; the rest keep their values.
//   - Read or unmarshal errors panic.
//
// Intended usage is defaults -> parseJson -> parseEnv -> parseFlags.
func parseJson(cfg *Config) {
	// resolve the file path from flags
	path := flagx.ConfigFileFlag()
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

	if jc.ServerEndpointAddr != nil {
		cfg.ServerEndpointAddr = *jc.ServerEndpointAddr
	}
	if jc.AccessToken != nil {
		cfg.AccessToken = *jc.AccessToken
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
}
