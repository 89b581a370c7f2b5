// Package models defines the attendance data kept for every user: the
// closed sessions, the running total and the current duty status.
package models

import (
	"fmt"
	"time"
)

// Session is one closed interval of service. Duration is stored alongside
// the bounds and always equals End - Start.
type Session struct {
	Start    time.Time
	End      time.Time
	Duration time.Duration
}

// NewSession closes an interval. end must not precede start.
func NewSession(start, end time.Time) (Session, error) {
	if end.Before(start) {
		return Session{}, fmt.Errorf("session end %s precedes start %s", end.Format(time.RFC3339Nano), start.Format(time.RFC3339Nano))
	}
	start, end = start.Round(0), end.Round(0)
	return Session{Start: start, End: end, Duration: end.Sub(start)}, nil
}

// Status is either OffDuty or OnDuty. The open session's start only exists
// on the OnDuty variant, so it can never be read while off duty.
type Status interface {
	isStatus()
}

type OffDuty struct{}

// OnDuty carries the instant the open session began.
type OnDuty struct {
	Since time.Time
}

func (OffDuty) isStatus() {}
func (OnDuty) isStatus()  {}
