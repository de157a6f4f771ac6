package coverage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildKPIsPassthrough(t *testing.T) {
	supplied := []KPI{{ID: "custom", Label: "Custom", Value: "n/a"}}

	got := BuildKPIs(supplied, &RawSnapshot{TrackedCount: numPtr(3)}, &RawStatus{DailyPct: numPtr(75)})
	require.Equal(t, supplied, got)
}

func TestBuildKPIsSynthesizeDefaults(t *testing.T) {
	snap := &RawSnapshot{
		TrackedCount: numPtr(3),
		Symbols:      numPtr(4),
		Daily:        &RawInterval{Count: numPtr(3)},
		M5:           &RawInterval{Count: numPtr(2)},
	}
	status := &RawStatus{
		DailyPct:   numPtr(75),
		M5Pct:      numPtr(50),
		StaleDaily: numPtr(1),
		StaleM5:    numPtr(1),
	}

	got := BuildKPIs(nil, snap, status)
	require.Len(t, got, 4)

	require.Equal(t, "tracked", got[0].ID)
	require.Equal(t, 3, got[0].Value)
	require.Equal(t, "Universe size", got[0].Help)

	require.Equal(t, "daily_pct", got[1].ID)
	require.Equal(t, 75.0, got[1].Value)
	require.Equal(t, "%", got[1].Unit)
	require.Equal(t, "3 / 4 bars", got[1].Help)

	require.Equal(t, "m5_pct", got[2].ID)
	require.Equal(t, 50.0, got[2].Value)
	require.Equal(t, "2 / 4 bars", got[2].Help)

	require.Equal(t, "stale", got[3].ID)
	require.Equal(t, 1, got[3].Value)
	require.Equal(t, "1 missing 5m", got[3].Help)
}

func TestBuildKPIsAll5mCovered(t *testing.T) {
	got := BuildKPIs(nil, &RawSnapshot{}, &RawStatus{StaleDaily: numPtr(2)})
	require.Equal(t, "All 5m covered", got[3].Help)
	require.Equal(t, 2, got[3].Value)
}

func TestBuildKPIsZeroSymbolsRendersDash(t *testing.T) {
	got := BuildKPIs(nil, &RawSnapshot{Daily: &RawInterval{Count: numPtr(5)}}, nil)
	require.Equal(t, "5 / — bars", got[1].Help)
}

func TestBuildKPIsTotalOverNilInputs(t *testing.T) {
	got := BuildKPIs(nil, nil, nil)
	require.Len(t, got, 4)
	for _, kpi := range got {
		require.NotNil(t, kpi.Value)
	}
	require.Equal(t, 0, got[0].Value)
	require.Equal(t, 0.0, got[1].Value)
}
