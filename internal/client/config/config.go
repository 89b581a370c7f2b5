package config

import "time"

// Config holds runtime settings for the dutybadge CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the backend gRPC endpoint.
//   - AccessToken: signed token sent with every call; minted by tokengen.
//   - RequestTimeout: upper bound for a single call to the server.
//
// Every field can also be set from the environment; the variable names are
// in the env tags.
type Config struct {
	ServerEndpointAddr string        `env:"DUTYBADGE_SERVER_ADDR"`
	AccessToken        string        `env:"DUTYBADGE_TOKEN"`
	RequestTimeout     time.Duration `env:"DUTYBADGE_REQUEST_TIMEOUT"`
}

// LoadDefaults points c at a local server with a five second request
// timeout. There is no default token.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.RequestTimeout = 5 * time.Second
}

// LoadConfig constructs a Config from all sources.
//
// Order of application:
//  1. Defaults (LoadDefaults).
//  2. JSON file named by -c or -config, if any.
//  3. DUTYBADGE_* environment variables.
//  4. Command-line flags.
//
// Later sources take precedence over earlier ones. Malformed input in any
// source panics.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
