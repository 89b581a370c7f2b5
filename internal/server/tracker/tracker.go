// Package tracker owns the in-memory attendance state and its write-through
// persistence.
//
// Mutations are serialised by a single writer semaphore. Each mutation
// builds a new snapshot, saves it, and only then publishes it, so a failed
// save leaves memory exactly as it was. Readers grab the current snapshot
// under a short read lock; records inside a snapshot are never modified.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/dmitrijs2005/dutybadge/internal/common"
	"github.com/dmitrijs2005/dutybadge/internal/logging"
	"github.com/dmitrijs2005/dutybadge/internal/server/models"
	"github.com/dmitrijs2005/dutybadge/internal/server/repositories/records"
)

type Tracker struct {
	store  records.Store
	logger logging.Logger

	writer *semaphore.Weighted

	mu   sync.RWMutex
	recs map[string]*models.UserRecord
}

// New loads the persisted state. A corrupt store aborts construction.
func New(ctx context.Context, store records.Store, logger logging.Logger) (*Tracker, error) {
	recs, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	if recs == nil {
		recs = map[string]*models.UserRecord{}
	}

	logger.Info(ctx, "state loaded", "users", len(recs))

	return &Tracker{
		store:  store,
		logger: logger,
		writer: semaphore.NewWeighted(1),
		recs:   recs,
	}, nil
}

func (t *Tracker) snapshot() map[string]*models.UserRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.recs
}

// mutate applies fn to the user's current record (nil when unknown), saves
// the resulting snapshot and publishes it. Nothing is published when fn or
// the save fails.
func (t *Tracker) mutate(ctx context.Context, userID string, fn func(cur *models.UserRecord) (*models.UserRecord, error)) (*models.UserRecord, error) {
	if err := t.writer.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("wait for writer: %w", err)
	}
	defer t.writer.Release(1)

	cur := t.snapshot()
	next, err := fn(cur[userID])
	if err != nil {
		return nil, err
	}

	updated := maps.Clone(cur)
	updated[userID] = next

	// the caller may give up waiting, but a save in flight always finishes
	if err := t.store.Save(context.WithoutCancel(ctx), updated); err != nil {
		t.logger.Error(ctx, "save failed, state unchanged", "user_id", userID, "error", err)
		if !errors.Is(err, common.ErrIOFailure) {
			err = fmt.Errorf("%w: %w", common.ErrIOFailure, err)
		}
		return nil, err
	}

	t.mu.Lock()
	t.recs = updated
	t.mu.Unlock()

	return next, nil
}

// StartService opens a session for the user at now. The record is created
// on first use and its display name refreshed on every start.
func (t *Tracker) StartService(ctx context.Context, userID, displayName string, now time.Time) (StartInfo, error) {
	rec, err := t.mutate(ctx, userID, func(cur *models.UserRecord) (*models.UserRecord, error) {
		if cur != nil && cur.IsOnDuty() {
			return nil, common.ErrAlreadyOnDuty
		}
		return cur.Started(userID, displayName, now), nil
	})
	if err != nil {
		return StartInfo{}, err
	}

	since, _ := rec.OpenSince()
	return StartInfo{UserID: userID, DisplayName: rec.DisplayName, Start: since}, nil
}

// StopService closes the user's open session at now. A now earlier than
// the session start is rejected with ErrClockSkew and the session stays open.
func (t *Tracker) StopService(ctx context.Context, userID string, now time.Time) (StopInfo, error) {
	var closed models.Session

	rec, err := t.mutate(ctx, userID, func(cur *models.UserRecord) (*models.UserRecord, error) {
		if cur == nil {
			return nil, common.ErrNotOnDuty
		}
		since, ok := cur.OpenSince()
		if !ok {
			return nil, common.ErrNotOnDuty
		}
		if now.Before(since) {
			return nil, fmt.Errorf("%w: stop at %s precedes start at %s", common.ErrClockSkew,
				now.Format(time.RFC3339), since.Format(time.RFC3339))
		}
		next, s, err := cur.Stopped(now)
		if err != nil {
			return nil, err
		}
		closed = s
		return next, nil
	})
	if err != nil {
		return StopInfo{}, err
	}

	return StopInfo{
		UserID:      userID,
		DisplayName: rec.DisplayName,
		Session:     closed,
		Breakdown:   models.BreakdownOf(closed.Duration),
		Total:       rec.Total,
	}, nil
}

// GetStatus reports the user's status at now. It never fails; an unknown
// user yields a zero status with Known false.
func (t *Tracker) GetStatus(userID string, now time.Time) UserStatus {
	rec, ok := t.snapshot()[userID]
	if !ok {
		return UserStatus{UserID: userID}
	}
	return statusOf(rec, now)
}

// ListOnDuty returns everyone currently on duty, earliest start first.
func (t *Tracker) ListOnDuty(now time.Time) []OnDutyEntry {
	out := []OnDutyEntry{}
	for _, rec := range t.snapshot() {
		since, ok := rec.OpenSince()
		if !ok {
			continue
		}
		out = append(out, OnDutyEntry{
			UserID:      rec.UserID,
			DisplayName: rec.DisplayName,
			Start:       since,
			Elapsed:     rec.Elapsed(now),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		return out[i].UserID < out[j].UserID
	})
	return out
}

// GetReport summarises one user's history. recentLimit <= 0 selects
// common.DefaultRecentSessions.
func (t *Tracker) GetReport(userID string, now time.Time, recentLimit int) (Report, error) {
	rec, ok := t.snapshot()[userID]
	if !ok {
		return Report{}, fmt.Errorf("%w: %s", common.ErrUnknownUser, userID)
	}
	if recentLimit <= 0 {
		recentLimit = common.DefaultRecentSessions
	}

	return Report{
		UserStatus: statusOf(rec, now),
		Recent:     rec.Recent(recentLimit),
	}, nil
}

// Users returns the number of known users.
func (t *Tracker) Users() int {
	return len(t.snapshot())
}

func statusOf(rec *models.UserRecord, now time.Time) UserStatus {
	st := UserStatus{
		Known:        true,
		UserID:       rec.UserID,
		DisplayName:  rec.DisplayName,
		Total:        rec.Total,
		LiveTotal:    rec.LiveTotal(now),
		SessionCount: len(rec.Sessions),
	}
	if since, ok := rec.OpenSince(); ok {
		st.OnDuty = true
		st.CurrentStart = since
		st.Elapsed = rec.Elapsed(now)
	}
	return st
}
