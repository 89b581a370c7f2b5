// Package services contains the server-side use cases. DutyService is the
// write path (start/stop), ReportService the read path. Both take the
// current instant from a clock.Clock and hold no state of their own.
package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/dutybadge/internal/clock"
	"github.com/dmitrijs2005/dutybadge/internal/common"
	"github.com/dmitrijs2005/dutybadge/internal/logging"
	"github.com/dmitrijs2005/dutybadge/internal/server/tracker"
)

// DutyTracker is the mutating half of the tracker.
type DutyTracker interface {
	StartService(ctx context.Context, userID, displayName string, now time.Time) (tracker.StartInfo, error)
	StopService(ctx context.Context, userID string, now time.Time) (tracker.StopInfo, error)
}

type DutyService struct {
	tracker DutyTracker
	clock   clock.Clock
	logger  logging.Logger
}

func NewDutyService(t DutyTracker, c clock.Clock, l logging.Logger) *DutyService {
	return &DutyService{tracker: t, clock: c, logger: l.With("module", "duty")}
}

// Start opens a session for the user now.
func (s *DutyService) Start(ctx context.Context, userID, displayName string) (tracker.StartInfo, error) {
	info, err := s.tracker.StartService(ctx, userID, displayName, s.clock.Now())
	if err != nil {
		s.logOutcome(ctx, "start", userID, err)
		return tracker.StartInfo{}, err
	}

	s.logger.Info(ctx, "service started", "user_id", userID, "start", info.Start)
	return info, nil
}

// Stop closes the user's open session now.
func (s *DutyService) Stop(ctx context.Context, userID string) (tracker.StopInfo, error) {
	info, err := s.tracker.StopService(ctx, userID, s.clock.Now())
	if err != nil {
		s.logOutcome(ctx, "stop", userID, err)
		return tracker.StopInfo{}, err
	}

	s.logger.Info(ctx, "service stopped", "user_id", userID, "duration", info.Session.Duration.String())
	return info, nil
}

func (s *DutyService) logOutcome(ctx context.Context, op, userID string, err error) {
	if common.IsDomain(err) {
		s.logger.Info(ctx, op+" rejected", "user_id", userID, "reason", err.Error())
		return
	}
	s.logger.Error(ctx, op+" failed", "user_id", userID, "error", err)
}
