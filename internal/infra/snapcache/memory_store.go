package snapcache

import (
	"context"
	"sync"
	"time"

	"github.com/finsight/coverage-console/internal/domain/coverage"
)

// MemoryStore is the in-process snapshot cache used for tests and deployments
// without a Valkey instance.
type MemoryStore struct {
	mu        sync.RWMutex
	snap      *coverage.RawSnapshot
	expiresAt time.Time
	ttl       time.Duration
	now       func() time.Time
}

// NewMemoryStore constructs the store; ttl <= 0 disables expiry.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, now: time.Now}
}

func (s *MemoryStore) Load(_ context.Context) (*coverage.RawSnapshot, bool, error) {
	s.mu.RLock()
	snap := s.snap
	expiresAt := s.expiresAt
	s.mu.RUnlock()

	if snap == nil {
		return nil, false, nil
	}
	if !expiresAt.IsZero() && s.now().After(expiresAt) {
		s.mu.Lock()
		s.snap = nil
		s.mu.Unlock()
		return nil, false, nil
	}
	return snap, true, nil
}

func (s *MemoryStore) Store(_ context.Context, snap *coverage.RawSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
	if s.ttl > 0 {
		s.expiresAt = s.now().Add(s.ttl)
	}
	return nil
}

var _ coverage.SnapshotCache = (*MemoryStore)(nil)
