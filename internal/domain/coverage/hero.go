package coverage

import (
	"fmt"
	"strings"
	"time"
)

// DefaultStaleThreshold is how old a snapshot may get before the dashboards
// flag the data itself as stale.
const DefaultStaleThreshold = 30 * time.Minute

var statusColors = map[string]string{
	"ok":       "green",
	"warning":  "yellow",
	"idle":     "gray",
	"degraded": "orange",
	"error":    "red",
}

// StatusColor maps a status label to its display color. Unrecognized or
// missing labels resolve to orange so an unclassified state is never shown
// as healthy.
func StatusColor(label string) string {
	if color, ok := statusColors[strings.ToLower(strings.TrimSpace(label))]; ok {
		return color
	}
	return "orange"
}

// BuildHero assembles the top-level view model from one raw snapshot. It is
// total over its input: a nil snapshot yields the typed "no data" defaults.
func BuildHero(snap *RawSnapshot, staleThreshold time.Duration, now time.Time) HeroMeta {
	var (
		status *RawStatus
		meta   *RawMeta
	)
	if snap != nil {
		status = snap.Status
		meta = snap.Meta
	}

	label := "UNKNOWN"
	summary := ""
	staleDaily := 0
	staleM5 := 0
	rawLabel := ""
	if status != nil {
		rawLabel = strings.ToLower(strings.TrimSpace(status.Label))
		if rawLabel != "" {
			label = strings.ToUpper(rawLabel)
		}
		summary = status.Summary
		staleDaily = status.StaleDaily.Int()
		staleM5 = status.StaleM5.Int()
	}

	// Daily-bar staleness is the primary SLA signal and must never be masked
	// by a generic server summary, so the counters win over status.summary.
	switch {
	case staleDaily > 0:
		summary = fmt.Sprintf("%d symbols have daily bars older than 48h.", staleDaily)
	case staleM5 > 0:
		summary = fmt.Sprintf("%d symbols missing 5m data.", staleM5)
	case strings.TrimSpace(summary) == "":
		summary = "Coverage healthy across daily + 5m intervals."
	}

	updatedISO := ""
	source := "db"
	var explicitAge *Number
	var sla *SLA
	if meta != nil {
		updatedISO = meta.UpdatedAt
		if strings.TrimSpace(meta.Source) != "" {
			source = meta.Source
		}
		explicitAge = meta.SnapshotAgeSeconds
		if meta.SLA != nil {
			slaCopy := *meta.SLA
			sla = &slaCopy
		}
	}
	if strings.TrimSpace(updatedISO) == "" && snap != nil {
		updatedISO = snap.GeneratedAt
	}
	updatedISO = strings.TrimSpace(updatedISO)

	updatedAt := parseTimestamp(updatedISO)
	var age *float64
	if explicitAge != nil {
		v := explicitAge.Float()
		age = &v
	} else if !updatedAt.IsZero() {
		v := now.Sub(updatedAt).Seconds()
		age = &v
	}

	updatedDisplay := "—"
	if !updatedAt.IsZero() {
		updatedDisplay = updatedAt.UTC().Format("2006-01-02 15:04:05 MST")
	}

	updatedRelative := "unknown age"
	if age != nil {
		updatedRelative = relativeAge(*age)
	}

	isStale := age != nil && *age > staleThreshold.Seconds()

	var banner *Banner
	switch {
	case isStale:
		// Operators must learn the data may be outdated before reading what
		// it says, so this banner outranks any status-derived one.
		banner = &Banner{
			Severity:    "warning",
			Title:       "Snapshot is stale",
			Description: fmt.Sprintf("Last refresh %s (%s). Data may be outdated.", updatedDisplay, updatedRelative),
		}
	case rawLabel == "degraded":
		banner = &Banner{Severity: "error", Title: "Coverage degraded", Description: summary}
	case rawLabel == "warning":
		banner = &Banner{Severity: "warning", Title: "Coverage warning", Description: summary}
	}

	var dailyFreshness, m5Freshness map[string]Number
	tracked := 0
	symbols := 0
	historySamples := 0
	if snap != nil {
		if snap.Daily != nil {
			dailyFreshness = snap.Daily.Freshness
		}
		if snap.M5 != nil {
			m5Freshness = snap.M5.Freshness
		}
		tracked = snap.TrackedCount.Int()
		symbols = snap.Symbols.Int()
		historySamples = len(snap.History)
		if historySamples == 0 && meta != nil {
			historySamples = len(meta.History)
		}
	}

	return HeroMeta{
		StatusLabel:        label,
		StatusColor:        StatusColor(rawLabel),
		Summary:            summary,
		UpdatedAtISO:       updatedISO,
		UpdatedDisplay:     updatedDisplay,
		UpdatedRelative:    updatedRelative,
		Source:             source,
		SnapshotAgeSeconds: age,
		IsSnapshotStale:    isStale,
		StaleCounts:        StaleCounts{Daily: staleDaily, M5: staleM5},
		TrackedCount:       tracked,
		TotalSymbols:       symbols,
		HistorySamples:     historySamples,
		Buckets: []BucketGroup{
			BuildBucketGroup("daily", dailyFreshness),
			BuildBucketGroup("m5", m5Freshness),
		},
		WarningBanner: banner,
		SLA:           sla,
	}
}

// relativeAge renders an age in seconds as a compact human string.
func relativeAge(seconds float64) string {
	switch {
	case seconds < 60:
		return fmt.Sprintf("%ds ago", int(seconds))
	case seconds < 3600:
		return fmt.Sprintf("%dm ago", int(seconds/60))
	case seconds < 86400:
		return fmt.Sprintf("%.1fh ago", seconds/3600)
	default:
		return fmt.Sprintf("%.1fd ago", seconds/86400)
	}
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseTimestamp(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts
		}
	}
	return time.Time{}
}
