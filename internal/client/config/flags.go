package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/dutybadge/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string    address and port of the backend server
//	-t string    access token
//	-r duration  per-request timeout, e.g. 10s
//
// Defaults come from the values already in cfg. os.Args is filtered with
// flagx.FilterArgs first, so flags owned by other layers (-c) do not make
// the parse fail. A malformed value panics.
func parseFlags(cfg *Config) {
	// keep only the flags handled here
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-r"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.StringVar(&cfg.AccessToken, "t", cfg.AccessToken, "access token")
	fs.DurationVar(&cfg.RequestTimeout, "r", cfg.RequestTimeout, "request timeout")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
