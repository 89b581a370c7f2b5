package records

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/dutybadge/internal/common"
	"github.com/dmitrijs2005/dutybadge/internal/server/models"
)

const (
	// sessionTolerance absorbs float rounding of per-session seconds.
	sessionTolerance = time.Microsecond
	// totalTolerance absorbs float drift of a running total.
	totalTolerance = time.Millisecond
)

// rawSession and rawRecord are what a backend decoded before any checks.
type rawSession struct {
	start    time.Time
	end      time.Time
	duration time.Duration
}

type rawRecord struct {
	userID       string
	displayName  string
	sessions     []rawSession
	total        time.Duration
	onDuty       bool
	currentStart *time.Time
}

// build validates a decoded record and normalises stored durations to the
// exact value implied by the session bounds.
func (r rawRecord) build() (*models.UserRecord, error) {
	if r.userID == "" {
		return nil, corrupt("empty user id")
	}
	if r.onDuty != (r.currentStart != nil) {
		return nil, corrupt("user %s: onDuty=%t disagrees with currentStart", r.userID, r.onDuty)
	}

	rec := &models.UserRecord{
		UserID:      r.userID,
		DisplayName: r.displayName,
		Sessions:    make([]models.Session, 0, len(r.sessions)),
		Status:      models.OffDuty{},
	}
	if r.onDuty {
		rec.Status = models.OnDuty{Since: *r.currentStart}
	}

	for i, s := range r.sessions {
		exact, err := models.NewSession(s.start, s.end)
		if err != nil {
			return nil, corrupt("user %s session %d: %v", r.userID, i, err)
		}
		if absDiff(exact.Duration, s.duration) > sessionTolerance {
			return nil, corrupt("user %s session %d: duration %s does not match bounds %s", r.userID, i, s.duration, exact.Duration)
		}
		rec.Sessions = append(rec.Sessions, exact)
		rec.Total += exact.Duration
	}
	if absDiff(rec.Total, r.total) > totalTolerance {
		return nil, corrupt("user %s: total %s does not match sum of sessions %s", r.userID, r.total, rec.Total)
	}

	if err := rec.Validate(); err != nil {
		return nil, corrupt("user %s: %v", r.userID, err)
	}
	return rec, nil
}

func buildAll(raws []rawRecord) (map[string]*models.UserRecord, error) {
	out := make(map[string]*models.UserRecord, len(raws))
	for _, raw := range raws {
		rec, err := raw.build()
		if err != nil {
			return nil, err
		}
		out[rec.UserID] = rec
	}
	return out, nil
}

func absDiff(a, b time.Duration) time.Duration {
	if a > b {
		return a - b
	}
	return b - a
}

func corrupt(format string, args ...any) error {
	return fmt.Errorf("%w: %s", common.ErrCorruptState, fmt.Sprintf(format, args...))
}

func ioFailure(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", common.ErrIOFailure, op, err)
}
