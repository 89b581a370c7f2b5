package records

import (
	"context"
	"maps"
	"sync"

	"github.com/dmitrijs2005/dutybadge/internal/server/models"
)

// MemoryStore keeps the last saved snapshot in process memory. Records are
// immutable, so copying the map is enough to isolate callers.
type MemoryStore struct {
	mu   sync.Mutex
	recs map[string]*models.UserRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{recs: map[string]*models.UserRecord{}}
}

func (s *MemoryStore) Load(ctx context.Context) (map[string]*models.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.recs), nil
}

func (s *MemoryStore) Save(ctx context.Context, recs map[string]*models.UserRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = maps.Clone(recs)
	if s.recs == nil {
		s.recs = map[string]*models.UserRecord{}
	}
	return nil
}

func (s *MemoryStore) Close() error { return nil }
