package restclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/finsight/coverage-console/internal/domain/coverage"
)

func TestFetchCoverageForwardsQueryParams(t *testing.T) {
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/market-data/coverage", r.URL.Path)
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": {"label": "ok", "daily_pct": "97.5", "stale_daily": 2},
			"tracked_count": "150",
			"symbols": 160,
			"daily": {"count": 148, "freshness": {"<=24h": 140, "none": "8"}},
			"meta": {"updated_at": "2025-06-02T10:00:00Z", "source": "db"}
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	window, lookback := 30, 365
	snap, raw, err := client.FetchCoverage(context.Background(), coverage.Query{
		FillTradingDaysWindow: &window,
		FillLookbackDays:      &lookback,
	})
	require.NoError(t, err)
	require.NotEmpty(t, raw)
	require.Equal(t, []string{"30"}, gotQuery["fill_trading_days_window"])
	require.Equal(t, []string{"365"}, gotQuery["fill_lookback_days"])

	require.Equal(t, "ok", snap.Status.Label)
	require.Equal(t, 97.5, snap.Status.DailyPct.Float())
	require.Equal(t, 150, snap.TrackedCount.Int())
	require.Equal(t, 160, snap.Symbols.Int())
	require.Equal(t, coverage.Number(8), snap.Daily.Freshness["none"])
}

func TestFetchCoverageOmitsAbsentParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Empty(t, r.URL.RawQuery)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	snap, _, err := NewClient(server.URL, time.Second).FetchCoverage(context.Background(), coverage.Query{})
	require.NoError(t, err)
	require.Nil(t, snap.Status)
	require.Nil(t, snap.Meta)
}

func TestFetchCoverageErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer server.Close()

	_, _, err := NewClient(server.URL, time.Second).FetchCoverage(context.Background(), coverage.Query{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "status=502")
}

func TestFetchCoverageMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	_, _, err := NewClient(server.URL, time.Second).FetchCoverage(context.Background(), coverage.Query{})
	require.Error(t, err)
}
