package coverage

import (
	"strconv"
	"strings"
)

// Number is a JSON value that may arrive as a number, a numeric string, or
// garbage. Anything that does not parse decodes to 0; decoding never fails.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	s = strings.Trim(s, `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = Number(f)
	return nil
}

// Float returns the value, treating an absent pointer as 0.
func (n *Number) Float() float64 {
	if n == nil {
		return 0
	}
	return float64(*n)
}

// Int truncates the value, treating an absent pointer as 0.
func (n *Number) Int() int {
	if n == nil {
		return 0
	}
	return int(*n)
}

// RawSnapshot is the upstream coverage payload. Every field is optional: a
// missing field is contract-compatible and degrades to a typed default in the
// derivation functions, never to an error.
type RawSnapshot struct {
	Status       *RawStatus     `json:"status"`
	TrackedCount *Number        `json:"tracked_count"`
	Symbols      *Number        `json:"symbols"`
	GeneratedAt  string         `json:"generated_at"`
	Daily        *RawInterval   `json:"daily"`
	M5           *RawInterval   `json:"m5"`
	History      []HistoryEntry `json:"history"`
	Meta         *RawMeta       `json:"meta"`
}

// RawStatus carries the upstream health verdict plus staleness counters.
type RawStatus struct {
	Label      string  `json:"label"`
	Summary    string  `json:"summary"`
	DailyPct   *Number `json:"daily_pct"`
	M5Pct      *Number `json:"m5_pct"`
	StaleDaily *Number `json:"stale_daily"`
	StaleM5    *Number `json:"stale_m5"`
}

// RawInterval holds per-granularity counts and the freshness frequency map.
type RawInterval struct {
	Count     *Number           `json:"count"`
	Freshness map[string]Number `json:"freshness"`
}

// RawMeta is the grab bag of server-side extras attached to a snapshot.
type RawMeta struct {
	UpdatedAt          string         `json:"updated_at"`
	Source             string         `json:"source"`
	SnapshotAgeSeconds *Number        `json:"snapshot_age_seconds"`
	SLA                *SLA           `json:"sla"`
	History            []HistoryEntry `json:"history"`
	Sparkline          *Sparkline     `json:"sparkline"`
	KPIs               []KPI          `json:"kpis"`
	Actions            []Action       `json:"actions"`
}

// SLA mirrors the upstream service-level expectations verbatim.
type SLA struct {
	DailyPct      *Number `json:"daily_pct"`
	M5Expectation string  `json:"m5_expectation"`
}

// HistoryEntry is one historical coverage sample. TS is used verbatim as a
// sparkline label and may legitimately be nil.
type HistoryEntry struct {
	TS         *string `json:"ts"`
	DailyPct   *Number `json:"daily_pct"`
	M5Pct      *Number `json:"m5_pct"`
	StaleDaily *Number `json:"stale_daily"`
	StaleM5    *Number `json:"stale_m5"`
}

// Sparkline is the fixed-shape multi-series trend line. All populated arrays
// share the label length; an all-empty sparkline is a valid terminal value.
type Sparkline struct {
	DailyPct   []Number  `json:"daily_pct"`
	M5Pct      []Number  `json:"m5_pct"`
	Labels     []*string `json:"labels"`
	StaleDaily []Number  `json:"stale_daily"`
	StaleM5    []Number  `json:"stale_m5"`
}

// KPI is a labeled, unit-annotated headline metric. Value is numeric or a
// display string and is never nil after synthesis.
type KPI struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Value any    `json:"value"`
	Unit  string `json:"unit,omitempty"`
	Help  string `json:"help,omitempty"`
}

// Bucket is one freshness histogram category.
type Bucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// BucketGroup is a per-interval histogram whose buckets are always the
// canonical four labels in canonical order.
type BucketGroup struct {
	Interval string   `json:"interval"`
	Title    string   `json:"title"`
	Buckets  []Bucket `json:"buckets"`
}

// Action is an operator-triggerable remediation task. TaskName is the
// identity key and is unique within any merged list.
type Action struct {
	Label       string `json:"label"`
	TaskName    string `json:"task_name"`
	Description string `json:"description,omitempty"`
	Disabled    bool   `json:"disabled,omitempty"`
}

// Banner is the warning strip shown above the dashboards.
type Banner struct {
	Severity    string `json:"severity"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// StaleCounts groups the per-granularity stale symbol counters.
type StaleCounts struct {
	Daily int `json:"daily"`
	M5    int `json:"m5"`
}

// HeroMeta is the denormalized top-of-page view model. It is a pure function
// of one snapshot plus the staleness threshold and is rebuilt in full on every
// snapshot change.
type HeroMeta struct {
	StatusLabel        string        `json:"statusLabel"`
	StatusColor        string        `json:"statusColor"`
	Summary            string        `json:"summary"`
	UpdatedAtISO       string        `json:"updatedAtIso,omitempty"`
	UpdatedDisplay     string        `json:"updatedDisplay"`
	UpdatedRelative    string        `json:"updatedRelative"`
	Source             string        `json:"source"`
	SnapshotAgeSeconds *float64      `json:"snapshotAgeSeconds"`
	IsSnapshotStale    bool          `json:"isSnapshotStale"`
	StaleCounts        StaleCounts   `json:"staleCounts"`
	TrackedCount       int           `json:"trackedCount"`
	TotalSymbols       int           `json:"totalSymbols"`
	HistorySamples     int           `json:"historySamples"`
	Buckets            []BucketGroup `json:"buckets"`
	WarningBanner      *Banner       `json:"warningBanner"`
	SLA                *SLA          `json:"sla,omitempty"`
}

// Overview bundles every derived structure for one snapshot. Consumers render
// it directly and never reach into the raw snapshot.
type Overview struct {
	State       string    `json:"state"`
	Loading     bool      `json:"loading"`
	HasSnapshot bool      `json:"hasSnapshot"`
	Hero        HeroMeta  `json:"hero"`
	Sparkline   Sparkline `json:"sparkline"`
	KPIs        []KPI     `json:"kpis"`
	Actions     []Action  `json:"actions"`
}
