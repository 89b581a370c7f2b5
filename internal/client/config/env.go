package config

import "github.com/caarlos0/env/v11"

// parseEnv overlays cfg with the variables named in the Config env tags.
// Unset variables leave the current values alone; a value that does not
// parse (e.g. DUTYBADGE_REQUEST_TIMEOUT=soon) panics.
func parseEnv(cfg *Config) {
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}
}
