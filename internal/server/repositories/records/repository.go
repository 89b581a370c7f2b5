// Package records persists the full set of user records. Every backend
// replaces the whole snapshot atomically on Save, so after a crash either the
// previous or the new state is visible, never a mix.
package records

import (
	"context"

	"github.com/dmitrijs2005/dutybadge/internal/server/models"
)

// Store loads and saves complete snapshots keyed by user id.
//
// Load returns an empty map when nothing has been persisted yet and an error
// wrapping common.ErrCorruptState when data exists but is malformed. Save
// failures wrap common.ErrIOFailure.
type Store interface {
	Load(ctx context.Context) (map[string]*models.UserRecord, error)
	Save(ctx context.Context, records map[string]*models.UserRecord) error
	Close() error
}
