package views

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/dutybadge/internal/common"
)

// Kind groups errors by how an adapter should answer them.
type Kind string

const (
	KindAlreadyOnDuty Kind = "already_on_duty"
	KindNotOnDuty     Kind = "not_on_duty"
	KindClockSkew     Kind = "clock_skew"
	KindUnknownUser   Kind = "unknown_user"
	KindUnavailable   Kind = "unavailable"
	KindCanceled      Kind = "canceled"
	KindInternal      Kind = "internal"
)

// Problem is a classified error with a message safe to show to a caller.
type Problem struct {
	Kind    Kind
	Message string
}

// Classify maps err to a Problem. Domain errors name the rule that blocked
// the request; storage details are never exposed.
func Classify(err error) Problem {
	switch {
	case errors.Is(err, common.ErrAlreadyOnDuty):
		return Problem{KindAlreadyOnDuty, "already on duty: a user can have only one open session"}
	case errors.Is(err, common.ErrNotOnDuty):
		return Problem{KindNotOnDuty, "not on duty: there is no open session to stop"}
	case errors.Is(err, common.ErrClockSkew):
		return Problem{KindClockSkew, "clock moved backwards: stop time precedes the session start, session left open"}
	case errors.Is(err, common.ErrUnknownUser):
		return Problem{KindUnknownUser, "unknown user: no attendance record"}
	case errors.Is(err, common.ErrIOFailure), errors.Is(err, common.ErrCorruptState):
		return Problem{KindUnavailable, "storage unavailable"}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return Problem{KindCanceled, "request canceled"}
	default:
		return Problem{KindInternal, "internal error"}
	}
}
