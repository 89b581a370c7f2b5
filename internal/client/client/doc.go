// Package client talks to the dutybadge gRPC service on behalf of the
// terminal client.
//
// GRPCClient attaches the configured access token to every call and maps
// gRPC status codes back to sentinel errors: the domain errors from
// internal/common for rejected start/stop/report requests, and
// ErrUnauthorized, ErrForbidden or ErrUnavailable for everything the user
// cannot fix by retrying the same command.
package client
