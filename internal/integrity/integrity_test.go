package integrity_test

import (
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/planner/internal/constants"
	"github.com/julianstephens/planner/internal/integrity"
	"github.com/julianstephens/planner/internal/models"
	"github.com/julianstephens/planner/internal/storage/storagetest"
)

func day(d, hour int) int64 {
	return time.Date(2026, 10, d, hour, 0, 0, 0, time.UTC).UnixMilli()
}

func TestCheckCleanSnapshot(t *testing.T) {
	snap := integrity.Snapshot{
		Goals:  []models.Goal{{ID: "g1", Title: "Goal", Milestones: []models.Milestone{{ID: "m1", IsCompleted: true}}, Progress: 1}},
		Tasks:  []models.Task{{ID: "t1", Title: "Task", LinkedGoalID: "g1"}},
		Habits: []models.Habit{{ID: "h1", Title: "Habit", GoalID: "g1"}},
		HabitEntries: []models.HabitEntry{
			{ID: "e1", HabitID: "h1", Date: day(1, 9)},
			{ID: "e2", HabitID: "h1", Date: day(2, 9)},
		},
	}

	result := integrity.New(time.UTC).Check(snap)
	if result.HasConflicts() {
		t.Errorf("Check() found conflicts in clean data: %s", result.FormatReport())
	}
	if !strings.Contains(result.FormatReport(), "No integrity problems") {
		t.Errorf("FormatReport() = %q", result.FormatReport())
	}
}

func TestCheckDetectsConflicts(t *testing.T) {
	tests := []struct {
		name string
		snap integrity.Snapshot
		want integrity.ConflictType
	}{
		{
			name: "duplicate id",
			snap: integrity.Snapshot{Notes: []models.Note{{ID: "n1", Title: "a"}, {ID: "n1", Title: "b"}}},
			want: integrity.ConflictDuplicateID,
		},
		{
			name: "invalid record",
			snap: integrity.Snapshot{JournalEntries: []models.JournalEntry{{ID: "j1", Content: "x", Mood: "ECSTATIC"}}},
			want: integrity.ConflictInvalidRecord,
		},
		{
			name: "dangling task goal",
			snap: integrity.Snapshot{Tasks: []models.Task{{ID: "t1", Title: "Task", LinkedGoalID: "missing"}}},
			want: integrity.ConflictDanglingLink,
		},
		{
			name: "dangling event task",
			snap: integrity.Snapshot{Events: []models.CalendarEvent{{ID: "ev1", Title: "Event", LinkedTaskID: "missing"}}},
			want: integrity.ConflictDanglingLink,
		},
		{
			name: "orphaned habit entry",
			snap: integrity.Snapshot{HabitEntries: []models.HabitEntry{{ID: "e1", HabitID: "gone", Date: day(1, 9)}}},
			want: integrity.ConflictOrphanedHabitEntry,
		},
		{
			name: "duplicate habit entry",
			snap: integrity.Snapshot{
				Habits: []models.Habit{{ID: "h1", Title: "Habit"}},
				HabitEntries: []models.HabitEntry{
					{ID: "e1", HabitID: "h1", Date: day(1, 9)},
					{ID: "e2", HabitID: "h1", Date: day(1, 20)},
				},
			},
			want: integrity.ConflictDuplicateHabitEntry,
		},
		{
			name: "progress drift",
			snap: integrity.Snapshot{Goals: []models.Goal{{ID: "g1", Title: "Goal", Progress: 0.9, Milestones: []models.Milestone{{ID: "m1"}, {ID: "m2", IsCompleted: true}}}}},
			want: integrity.ConflictProgressDrift,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := integrity.New(time.UTC).Check(tt.snap)
			if result.Count(tt.want) != 1 {
				t.Errorf("Check() %s count = %d, want 1\n%s", tt.want, result.Count(tt.want), result.FormatReport())
			}
		})
	}
}

func TestAutoFix(t *testing.T) {
	clock := &storagetest.Clock{T: time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)}
	store := storagetest.NewSerialized(t, clock)

	seed := []error{
		store.Goals.SaveAll([]models.Goal{{ID: "g1", Title: "Goal", Progress: 0, Milestones: []models.Milestone{{ID: "m1", IsCompleted: true}}}}),
		store.Tasks.SaveAll([]models.Task{{ID: "t1", Title: "Task", LinkedGoalID: "deleted-goal", LinkedNoteID: "deleted-note"}}),
		store.Habits.SaveAll([]models.Habit{{ID: "h1", Title: "Habit", GoalID: "g1"}}),
		store.HabitEntries.SaveAll([]models.HabitEntry{
			{ID: "newer", HabitID: "h1", Date: day(3, 20), IsCompleted: true},
			{ID: "older", HabitID: "h1", Date: day(3, 8)},
			{ID: "orphan", HabitID: "gone", Date: day(3, 8)},
			{ID: "other-day", HabitID: "h1", Date: day(4, 8)},
		}),
	}
	for _, err := range seed {
		if err != nil {
			t.Fatalf("seed error = %v", err)
		}
	}

	snap, err := integrity.LoadSnapshot(store)
	if err != nil {
		t.Fatalf("LoadSnapshot() error = %v", err)
	}
	checker := integrity.New(time.UTC)
	before := checker.Check(snap)
	if len(before.Conflicts) != 5 {
		t.Fatalf("Check() found %d conflicts, want 5:\n%s", len(before.Conflicts), before.FormatReport())
	}

	actions := integrity.AutoFix(store, before.Conflicts)
	if len(actions) != 5 {
		t.Errorf("AutoFix() returned %d actions, want 5", len(actions))
	}
	for _, a := range actions {
		if strings.HasPrefix(a.Action, "Failed") {
			t.Errorf("AutoFix() action failed: %s", a.Action)
		}
	}

	snap, err = integrity.LoadSnapshot(store)
	if err != nil {
		t.Fatalf("LoadSnapshot() error = %v", err)
	}
	after := checker.Check(snap)
	if after.HasConflicts() {
		t.Errorf("Check() after AutoFix:\n%s", after.FormatReport())
	}

	entries, _ := store.HabitEntries.GetAll()
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	if strings.Join(ids, ",") != "newer,other-day" {
		t.Errorf("habit entries after AutoFix = %v, want [newer other-day]", ids)
	}

	goal, _, _ := store.Goals.Find("g1")
	if goal.Progress != 1 {
		t.Errorf("goal progress after AutoFix = %v, want 1", goal.Progress)
	}
	if goal.UpdatedAt != clock.T.UnixMilli() {
		t.Errorf("goal UpdatedAt after AutoFix = %d, want %d", goal.UpdatedAt, clock.T.UnixMilli())
	}
	task, _, _ := store.Tasks.Find("t1")
	if task.LinkedGoalID != "" || task.LinkedNoteID != "" {
		t.Errorf("task links after AutoFix = %q/%q, want cleared", task.LinkedGoalID, task.LinkedNoteID)
	}
	if task.UpdatedAt != clock.T.UnixMilli() {
		t.Errorf("task UpdatedAt after AutoFix = %d, want %d", task.UpdatedAt, clock.T.UnixMilli())
	}
}

func TestAutoFixSkipsUnfixable(t *testing.T) {
	store := storagetest.NewSerialized(t, nil)
	conflicts := []integrity.Conflict{{Type: integrity.ConflictDuplicateID, Collection: constants.KeyNotes, IDs: []string{"n1"}}}
	if actions := integrity.AutoFix(store, conflicts); len(actions) != 0 {
		t.Errorf("AutoFix() = %v, want no actions", actions)
	}
}
