package cli

import (
	"io"
	"os"

	"golang.org/x/term"
)

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

// interactive reports whether r is a terminal. Prompts are only shown to
// a human; piped input runs silently.
func interactive(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && isTerminal(int(f.Fd()))
}
