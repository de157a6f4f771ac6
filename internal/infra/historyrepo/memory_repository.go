package historyrepo

import (
	"context"
	"sync"

	"github.com/finsight/coverage-console/internal/domain/coverage"
)

// MemoryRepository keeps coverage samples in process memory, bounded to the
// configured retention. Used for tests and deployments without Postgres.
type MemoryRepository struct {
	mu        sync.RWMutex
	entries   []coverage.HistoryEntry
	retention int
}

// NewMemoryRepository constructs the repository; retention <= 0 keeps 500.
func NewMemoryRepository(retention int) *MemoryRepository {
	if retention <= 0 {
		retention = 500
	}
	return &MemoryRepository{retention: retention}
}

func (r *MemoryRepository) Append(_ context.Context, entry coverage.HistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	if len(r.entries) > r.retention {
		r.entries = r.entries[len(r.entries)-r.retention:]
	}
	return nil
}

func (r *MemoryRepository) Recent(_ context.Context, limit int) ([]coverage.HistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	start := 0
	if len(r.entries) > limit {
		start = len(r.entries) - limit
	}
	out := make([]coverage.HistoryEntry, len(r.entries)-start)
	copy(out, r.entries[start:])
	return out, nil
}

var _ coverage.HistoryRepository = (*MemoryRepository)(nil)
