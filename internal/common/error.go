// Package common defines shared constants and sentinel errors used across
// the server, its adapters and the terminal client. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Domain errors. Expected outcomes of start/stop/report requests; they are
	// returned to the caller unchanged and never retried.
	ErrAlreadyOnDuty = errors.New("already on duty")
	ErrNotOnDuty     = errors.New("not on duty")
	ErrClockSkew     = errors.New("clock moved backwards")
	ErrUnknownUser   = errors.New("unknown user")

	// Infrastructure errors.
	ErrCorruptState = errors.New("corrupt state")
	ErrIOFailure    = errors.New("storage failure")

	// Adapter errors (invalid or missing token, missing permissions).
	ErrInvalidToken = errors.New("invalid token")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrUnavailable  = errors.New("server unavailable")
)

// IsDomain reports whether err is one of the expected domain outcomes.
func IsDomain(err error) bool {
	return errors.Is(err, ErrAlreadyOnDuty) ||
		errors.Is(err, ErrNotOnDuty) ||
		errors.Is(err, ErrClockSkew) ||
		errors.Is(err, ErrUnknownUser)
}
