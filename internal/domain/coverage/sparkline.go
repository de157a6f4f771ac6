package coverage

// BuildSparkline resolves the trend line for a snapshot. A structurally valid
// pre-shaped sparkline always wins, even when history is also supplied;
// otherwise the history list is mapped point-wise into the parallel arrays.
// With neither source the canonical empty sparkline is returned, never nil.
func BuildSparkline(pre *Sparkline, history []HistoryEntry) Sparkline {
	if pre != nil && pre.DailyPct != nil {
		return pre.clone()
	}

	if len(history) > 0 {
		out := Sparkline{
			DailyPct:   make([]Number, 0, len(history)),
			M5Pct:      make([]Number, 0, len(history)),
			Labels:     make([]*string, 0, len(history)),
			StaleDaily: make([]Number, 0, len(history)),
			StaleM5:    make([]Number, 0, len(history)),
		}
		for _, entry := range history {
			out.DailyPct = append(out.DailyPct, Number(entry.DailyPct.Float()))
			out.M5Pct = append(out.M5Pct, Number(entry.M5Pct.Float()))
			out.Labels = append(out.Labels, entry.TS)
			out.StaleDaily = append(out.StaleDaily, Number(entry.StaleDaily.Float()))
			out.StaleM5 = append(out.StaleM5, Number(entry.StaleM5.Float()))
		}
		return out
	}

	return emptySparkline()
}

func emptySparkline() Sparkline {
	return Sparkline{
		DailyPct:   []Number{},
		M5Pct:      []Number{},
		Labels:     []*string{},
		StaleDaily: []Number{},
		StaleM5:    []Number{},
	}
}

// clone deep-copies the sparkline, defaulting any missing sub-array to empty
// so callers can mutate the result without touching the source snapshot.
func (s *Sparkline) clone() Sparkline {
	return Sparkline{
		DailyPct:   copyNumbers(s.DailyPct),
		M5Pct:      copyNumbers(s.M5Pct),
		Labels:     copyLabels(s.Labels),
		StaleDaily: copyNumbers(s.StaleDaily),
		StaleM5:    copyNumbers(s.StaleM5),
	}
}

func copyNumbers(values []Number) []Number {
	out := make([]Number, len(values))
	copy(out, values)
	return out
}

func copyLabels(labels []*string) []*string {
	out := make([]*string, len(labels))
	copy(out, labels)
	return out
}
