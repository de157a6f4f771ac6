package snapcache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/finsight/coverage-console/internal/domain/coverage"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	_, ok, err := store.Load(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	tracked := coverage.Number(42)
	snap := &coverage.RawSnapshot{TrackedCount: &tracked}
	require.NoError(t, store.Store(ctx, snap))

	got, ok, err := store.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 42, got.TrackedCount.Int())
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	current := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }
	ctx := context.Background()

	require.NoError(t, store.Store(ctx, &coverage.RawSnapshot{}))

	_, ok, err := store.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	current = current.Add(2 * time.Minute)
	_, ok, err = store.Load(ctx)
	require.NoError(t, err)
	require.False(t, ok)
}
