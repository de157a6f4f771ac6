package coverage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMergeActionsNoSupplied(t *testing.T) {
	got := MergeActions(nil)
	require.Equal(t, DefaultActions(), got)
}

func TestMergeActionsServerOverrideWins(t *testing.T) {
	supplied := []Action{
		{Label: "Custom", TaskName: "custom_task"},
		{Label: "Restore Daily Coverage Override", TaskName: "restore_daily_coverage_tracked"},
	}

	got := MergeActions(supplied)

	restores := 0
	for _, action := range got {
		if action.TaskName == "restore_daily_coverage_tracked" {
			restores++
			require.Equal(t, "Restore Daily Coverage Override", action.Label)
		}
	}
	require.Equal(t, 1, restores)

	// Server actions lead in input order.
	require.Equal(t, "custom_task", got[0].TaskName)
	require.Equal(t, "restore_daily_coverage_tracked", got[1].TaskName)

	records := 0
	for _, action := range got {
		if action.TaskName == "record_daily_history" {
			records++
		}
	}
	require.Equal(t, 1, records)
}

func TestMergeActionsDropsEmptyTaskNames(t *testing.T) {
	supplied := []Action{
		{Label: "No identity"},
		{Label: "Blank identity", TaskName: "   "},
		{Label: "Kept", TaskName: "kept_task"},
	}

	got := MergeActions(supplied)
	require.Equal(t, "kept_task", got[0].TaskName)
	require.Len(t, got, 1+len(DefaultActions()))
	for _, action := range got {
		require.NotEmpty(t, action.TaskName)
	}
}

func TestMergeActionsIdempotent(t *testing.T) {
	supplied := []Action{{Label: "Custom", TaskName: "custom_task"}}
	require.Equal(t, MergeActions(supplied), MergeActions(supplied))
}

func TestDefaultActionsReturnsCopy(t *testing.T) {
	first := DefaultActions()
	first[0].Label = "mutated"
	require.NotEqual(t, first[0].Label, DefaultActions()[0].Label)
}
