package models

import (
	"errors"
	"fmt"
	"time"
)

// UserRecord is everything known about one user. Sessions holds closed
// sessions in chronological order and Total is the sum of their durations;
// the open session is never part of Total.
//
// Records are treated as immutable values once published: Started and
// Stopped return new records and never touch the receiver, so readers can
// hold a record without locking.
type UserRecord struct {
	UserID      string
	DisplayName string
	Sessions    []Session
	Total       time.Duration
	Status      Status
}

// NewUserRecord returns an off-duty record with no history.
func NewUserRecord(userID, displayName string) *UserRecord {
	return &UserRecord{UserID: userID, DisplayName: displayName, Status: OffDuty{}}
}

// OpenSince returns the start of the open session, if any.
func (r *UserRecord) OpenSince() (time.Time, bool) {
	if on, ok := r.Status.(OnDuty); ok {
		return on.Since, true
	}
	return time.Time{}, false
}

func (r *UserRecord) IsOnDuty() bool {
	_, ok := r.Status.(OnDuty)
	return ok
}

// Elapsed is the age of the open session at now, or zero when off duty.
// A clock that went backwards yields zero rather than a negative value.
func (r *UserRecord) Elapsed(now time.Time) time.Duration {
	since, ok := r.OpenSince()
	if !ok {
		return 0
	}
	if d := now.Sub(since); d > 0 {
		return d
	}
	return 0
}

// LiveTotal is the persisted total plus the elapsed time of the open session.
func (r *UserRecord) LiveTotal(now time.Time) time.Duration {
	return r.Total + r.Elapsed(now)
}

// Recent returns up to limit sessions from the end of the history, most
// recent first. The result is a fresh slice.
func (r *UserRecord) Recent(limit int) []Session {
	if limit <= 0 || len(r.Sessions) == 0 {
		return []Session{}
	}
	if limit > len(r.Sessions) {
		limit = len(r.Sessions)
	}
	out := make([]Session, 0, limit)
	for i := len(r.Sessions) - 1; i >= len(r.Sessions)-limit; i-- {
		out = append(out, r.Sessions[i])
	}
	return out
}

// Started returns a copy of r that is on duty since at, with the display
// name refreshed. A nil receiver yields a brand new record.
func (r *UserRecord) Started(userID, displayName string, at time.Time) *UserRecord {
	next := NewUserRecord(userID, displayName)
	if r != nil {
		next.Sessions = r.Sessions
		next.Total = r.Total
	}
	next.Status = OnDuty{Since: at.Round(0)}
	return next
}

// Stopped returns a copy of r with the open session closed at at, and the
// session that was appended. The history slice is reallocated so the
// receiver's backing array is never shared with the copy.
func (r *UserRecord) Stopped(at time.Time) (*UserRecord, Session, error) {
	since, ok := r.OpenSince()
	if !ok {
		return nil, Session{}, errors.New("no open session")
	}
	s, err := NewSession(since, at)
	if err != nil {
		return nil, Session{}, err
	}

	sessions := make([]Session, len(r.Sessions), len(r.Sessions)+1)
	copy(sessions, r.Sessions)

	next := &UserRecord{
		UserID:      r.UserID,
		DisplayName: r.DisplayName,
		Sessions:    append(sessions, s),
		Total:       r.Total + s.Duration,
		Status:      OffDuty{},
	}
	return next, s, nil
}

// Validate checks the record's invariants: a known status, well-formed
// sessions and a total equal to the sum of session durations.
func (r *UserRecord) Validate() error {
	if r.UserID == "" {
		return errors.New("empty user id")
	}
	switch st := r.Status.(type) {
	case OffDuty:
	case OnDuty:
		if st.Since.IsZero() {
			return errors.New("on duty without a start instant")
		}
	default:
		return fmt.Errorf("unknown status %T", r.Status)
	}

	var sum time.Duration
	for i, s := range r.Sessions {
		if s.End.Before(s.Start) {
			return fmt.Errorf("session %d ends before it starts", i)
		}
		if s.Duration != s.End.Sub(s.Start) {
			return fmt.Errorf("session %d duration %s does not match its bounds", i, s.Duration)
		}
		sum += s.Duration
	}
	if sum != r.Total {
		return fmt.Errorf("total %s does not match sum of sessions %s", r.Total, sum)
	}
	return nil
}
