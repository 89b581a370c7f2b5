package tracker

import (
	"time"

	"github.com/dmitrijs2005/dutybadge/internal/server/models"
)

// StartInfo acknowledges an opened session.
type StartInfo struct {
	UserID      string
	DisplayName string
	Start       time.Time
}

// StopInfo describes the session that was just closed. Total is the
// persisted total after the session was added.
type StopInfo struct {
	UserID      string
	DisplayName string
	Session     models.Session
	Breakdown   models.Breakdown
	Total       time.Duration
}

// UserStatus is a point-in-time view of one user. CurrentStart and Elapsed
// are zero while off duty. Total excludes the open session, LiveTotal
// includes it.
type UserStatus struct {
	Known        bool
	UserID       string
	DisplayName  string
	OnDuty       bool
	CurrentStart time.Time
	Elapsed      time.Duration
	Total        time.Duration
	LiveTotal    time.Duration
	SessionCount int
}

type OnDutyEntry struct {
	UserID      string
	DisplayName string
	Start       time.Time
	Elapsed     time.Duration
}

// Report is a status plus the most recent closed sessions, newest first.
type Report struct {
	UserStatus
	Recent []models.Session
}
