package coverage

import "fmt"

// BuildKPIs returns the headline metrics for a snapshot. A non-empty
// server-supplied list is authoritative and passes through untouched;
// otherwise exactly four defaults are synthesized from the snapshot and
// status counters with missing inputs treated as 0.
func BuildKPIs(supplied []KPI, snap *RawSnapshot, status *RawStatus) []KPI {
	if len(supplied) > 0 {
		return supplied
	}

	var (
		tracked    int
		symbols    int
		dailyBars  int
		m5Bars     int
		dailyPct   float64
		m5Pct      float64
		staleDaily int
		staleM5    int
	)
	if snap != nil {
		tracked = snap.TrackedCount.Int()
		symbols = snap.Symbols.Int()
		if snap.Daily != nil {
			dailyBars = snap.Daily.Count.Int()
		}
		if snap.M5 != nil {
			m5Bars = snap.M5.Count.Int()
		}
	}
	if status != nil {
		dailyPct = status.DailyPct.Float()
		m5Pct = status.M5Pct.Float()
		staleDaily = status.StaleDaily.Int()
		staleM5 = status.StaleM5.Int()
	}

	staleHelp := "All 5m covered"
	if staleM5 != 0 {
		staleHelp = fmt.Sprintf("%d missing 5m", staleM5)
	}

	return []KPI{
		{ID: "tracked", Label: "Tracked symbols", Value: tracked, Help: "Universe size"},
		{ID: "daily_pct", Label: "Daily coverage", Value: dailyPct, Unit: "%", Help: fmt.Sprintf("%d / %s bars", dailyBars, totalSymbolsDisplay(symbols))},
		{ID: "m5_pct", Label: "5m coverage", Value: m5Pct, Unit: "%", Help: fmt.Sprintf("%d / %s bars", m5Bars, totalSymbolsDisplay(symbols))},
		{ID: "stale", Label: "Stale daily", Value: staleDaily, Help: staleHelp},
	}
}

// totalSymbolsDisplay renders a zero universe as an em dash rather than "0"
// so empty deployments do not read as a measured total.
func totalSymbolsDisplay(symbols int) string {
	if symbols == 0 {
		return "—"
	}
	return fmt.Sprintf("%d", symbols)
}
