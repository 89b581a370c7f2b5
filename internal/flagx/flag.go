// Package flagx contains helpers that let several configuration layers
// share os.Args without tripping over each other's flags.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs returns the subset of args made of the flags listed in
// allowed, together with their values.
//
// Supported forms:
//  1. Flag and value as separate arguments:  -f state.json
//  2. Flag and value joined with '=':        -f=state.json
//
// A value is only taken from the next argument when that argument does not
// itself start with a dash, so boolean-looking flags followed by another
// flag keep working.
//
// Parameters:
//
//	args    - the command-line arguments, usually os.Args[1:]
//	allowed - flag names to keep, with their dashes (e.g. []string{"-f", "-file"})
//
// Returns:
//
//	A non-nil slice with the kept flags and values in their original order.
func FilterArgs(args []string, allowed []string) []string {
	// set of flag names for constant-time lookup
	known := make(map[string]struct{}, len(allowed))
	for _, f := range allowed {
		known[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		// "-f=value": keep or drop the argument as a whole
		if name, _, ok := strings.Cut(arg, "="); ok && strings.HasPrefix(arg, "-") {
			if _, keep := known[name]; keep {
				filtered = append(filtered, arg)
			}
			continue
		}

		// "-f value": the value, if any, is the next argument
		if _, keep := known[arg]; !keep {
			continue
		}
		filtered = append(filtered, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++ // value consumed
		}
	}

	return filtered
}

// ConfigFileFlag extracts the configuration file path given with -c or
// -config.
//
// Only those two flags are parsed, so the caller can still define and parse
// its own flag set over the same os.Args afterwards.
//
// Returns:
//
//	The path, or an empty string when neither flag is present. When both
//	are given the last one wins.
func ConfigFileFlag() string {
	var path string

	args := FilterArgs(os.Args[1:], []string{"-c", "-config"})

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "path to config file (json or yaml)")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(args)

	return path
}
