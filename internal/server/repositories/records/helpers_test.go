package records

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/dutybadge/internal/server/models"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// sampleRecords has one user on duty with history, one off duty and one on
// duty without any closed session. Durations carry nanosecond precision.
func sampleRecords(t *testing.T) map[string]*models.UserRecord {
	t.Helper()

	alice := models.NewUserRecord("111", "alice").Started("111", "alice", base)
	alice, _, err := alice.Stopped(base.Add(3661*time.Second + 123456789))
	require.NoError(t, err)
	alice = alice.Started("111", "alice", base.Add(5*time.Hour))

	bob := models.NewUserRecord("222", "bob")
	for i := 0; i < 2; i++ {
		start := base.Add(time.Duration(i) * 24 * time.Hour)
		bob, _, err = bob.Started("222", "bob", start).Stopped(start.Add(90*time.Minute + time.Duration(i+1)))
		require.NoError(t, err)
	}

	carol := models.NewUserRecord("333", "carol").Started("333", "carol", base.Add(time.Minute))

	return map[string]*models.UserRecord{"111": alice, "222": bob, "333": carol}
}

func requireSameRecords(t *testing.T, want, got map[string]*models.UserRecord) {
	t.Helper()
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}
}
