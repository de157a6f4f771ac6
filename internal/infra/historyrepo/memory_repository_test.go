package historyrepo

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/finsight/coverage-console/internal/domain/coverage"
)

func entryAt(i int) coverage.HistoryEntry {
	ts := fmt.Sprintf("t%d", i)
	pct := coverage.Number(i)
	return coverage.HistoryEntry{TS: &ts, DailyPct: &pct}
}

func TestMemoryRepositoryRecentChronological(t *testing.T) {
	repo := NewMemoryRepository(10)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Append(ctx, entryAt(i)))
	}

	got, err := repo.Recent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, "t2", *got[0].TS)
	require.Equal(t, "t4", *got[2].TS)
}

func TestMemoryRepositoryRetentionBound(t *testing.T) {
	repo := NewMemoryRepository(3)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		require.NoError(t, repo.Append(ctx, entryAt(i)))
	}

	got, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, "t3", *got[0].TS)
}

func TestMemoryRepositoryEmpty(t *testing.T) {
	got, err := NewMemoryRepository(0).Recent(context.Background(), 5)
	require.NoError(t, err)
	require.Empty(t, got)
}
