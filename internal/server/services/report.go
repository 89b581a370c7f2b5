package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/dutybadge/internal/clock"
	"github.com/dmitrijs2005/dutybadge/internal/logging"
	"github.com/dmitrijs2005/dutybadge/internal/server/tracker"
)

// ReportTracker is the read-only half of the tracker.
type ReportTracker interface {
	GetStatus(userID string, now time.Time) tracker.UserStatus
	ListOnDuty(now time.Time) []tracker.OnDutyEntry
	GetReport(userID string, now time.Time, recentLimit int) (tracker.Report, error)
}

type ReportService struct {
	tracker       ReportTracker
	clock         clock.Clock
	logger        logging.Logger
	defaultRecent int
}

// NewReportService returns a ReportService. defaultRecent is the number of
// sessions a report shows when the caller does not ask for a limit.
func NewReportService(t ReportTracker, c clock.Clock, l logging.Logger, defaultRecent int) *ReportService {
	return &ReportService{tracker: t, clock: c, logger: l.With("module", "report"), defaultRecent: defaultRecent}
}

func (s *ReportService) Status(ctx context.Context, userID string) tracker.UserStatus {
	return s.tracker.GetStatus(userID, s.clock.Now())
}

func (s *ReportService) OnDuty(ctx context.Context) []tracker.OnDutyEntry {
	return s.tracker.ListOnDuty(s.clock.Now())
}

// Report returns the user's summary with up to limit recent sessions.
// limit <= 0 falls back to the configured default.
func (s *ReportService) Report(ctx context.Context, userID string, limit int) (tracker.Report, error) {
	if limit <= 0 {
		limit = s.defaultRecent
	}
	rep, err := s.tracker.GetReport(userID, s.clock.Now(), limit)
	if err != nil {
		s.logger.Debug(ctx, "report unavailable", "user_id", userID, "reason", err.Error())
		return tracker.Report{}, err
	}
	return rep, nil
}
