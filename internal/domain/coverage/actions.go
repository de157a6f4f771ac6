package coverage

import "strings"

// defaultActions is the built-in remediation catalog. Entries are keyed by
// task_name; a server-supplied action with the same task_name replaces the
// built-in label/description.
var defaultActions = []Action{
	{
		Label:       "Restore Daily Coverage",
		TaskName:    "restore_daily_coverage_tracked",
		Description: "Bootstrap the tracked daily coverage universe.",
	},
	{
		Label:       "Schedule Hourly Monitor",
		TaskName:    "schedule_hourly_monitor",
		Description: "Register the hourly coverage monitor task.",
	},
	{
		Label:       "Recompute Indicators",
		TaskName:    "recompute_indicators",
		Description: "Recompute derived indicators for tracked symbols.",
	},
	{
		Label:       "Record Daily History",
		TaskName:    "record_daily_history",
		Description: "Record today's coverage sample into the history series.",
	},
}

// DefaultActions returns a copy of the built-in catalog.
func DefaultActions() []Action {
	out := make([]Action, len(defaultActions))
	copy(out, defaultActions)
	return out
}

// MergeActions deduplicates server-supplied actions against the built-in
// catalog. Server actions come first in input order, then any defaults not
// already present in catalog order; first seen per task_name wins. Actions
// without a task_name are dropped.
func MergeActions(supplied []Action) []Action {
	out := make([]Action, 0, len(supplied)+len(defaultActions))
	seen := make(map[string]struct{}, len(supplied)+len(defaultActions))

	appendUnique := func(action Action) {
		name := strings.TrimSpace(action.TaskName)
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		out = append(out, action)
	}

	for _, action := range supplied {
		appendUnique(action)
	}
	for _, action := range defaultActions {
		appendUnique(action)
	}
	return out
}
