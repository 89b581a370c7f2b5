// Package cli provides the interactive dutybadge command-line client.
//
// It connects to the gRPC service with a pre-issued access token and runs a
// small REPL: start and stop a duty session, show your own totals, and, with
// an admin token, list who is on duty or print another user's report.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits
// or stdin is closed. See runREPL for the command list.
package cli
