package integrity

import (
	"fmt"

	"github.com/julianstephens/planner/internal/constants"
	"github.com/julianstephens/planner/internal/models"
	"github.com/julianstephens/planner/internal/storage"
)

// AutoFix repairs the conflicts it knows how to fix and returns what it did.
// Duplicate habit entries collapse to the first entry in store order, orphaned
// entries are removed, goal progress is recomputed and dangling links are
// cleared. Duplicate ids and invalid records are left for the user.
// A failed repair is reported in its action and does not stop the others.
func AutoFix(store *storage.Store, conflicts []Conflict) []FixAction {
	actions := []FixAction{}

	for _, conflict := range conflicts {
		var (
			n   int
			err error
			msg string
		)

		switch conflict.Type {
		case ConflictDuplicateHabitEntry:
			n, err = removeEntries(store, conflict.IDs, true)
			msg = fmt.Sprintf("Removed %d duplicate habit entries (kept %s)", n, conflict.IDs[0])
		case ConflictOrphanedHabitEntry:
			n, err = removeEntries(store, conflict.IDs, false)
			msg = fmt.Sprintf("Removed %d orphaned habit entries", n)
		case ConflictProgressDrift:
			n, err = recomputeProgress(store, conflict.IDs)
			msg = fmt.Sprintf("Recomputed progress for %d goal(s)", n)
		case ConflictDanglingLink:
			n, err = clearLinks(store, conflict.Collection, conflict.IDs)
			msg = fmt.Sprintf("Cleared dangling links on %d record(s) in %s", n, conflict.Collection)
		default:
			continue
		}

		if err != nil {
			msg = fmt.Sprintf("Failed to fix %q: %v", conflict.Description, err)
		}
		actions = append(actions, FixAction{Action: msg, SourceConflict: conflict})
	}
	return actions
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// removeEntries drops habit entries whose id is in ids. With keepFirst the
// first matching entry in store order survives.
func removeEntries(store *storage.Store, ids []string, keepFirst bool) (int, error) {
	drop := toSet(ids)
	removed := 0
	_, err := store.HabitEntries.Mutate(func(entries []models.HabitEntry) ([]models.HabitEntry, bool, error) {
		kept := make([]models.HabitEntry, 0, len(entries))
		for _, e := range entries {
			if _, ok := drop[e.ID]; ok {
				if keepFirst {
					keepFirst = false
					kept = append(kept, e)
					continue
				}
				removed++
				continue
			}
			kept = append(kept, e)
		}
		return kept, removed > 0, nil
	})
	return removed, err
}

func recomputeProgress(store *storage.Store, ids []string) (int, error) {
	targets := toSet(ids)
	now := store.Now().UnixMilli()
	fixed := 0
	_, err := store.Goals.Mutate(func(goals []models.Goal) ([]models.Goal, bool, error) {
		for i, g := range goals {
			if _, ok := targets[g.ID]; !ok {
				continue
			}
			if want := g.ComputeProgress(); g.Progress != want {
				goals[i].Progress = want
				goals[i].UpdatedAt = now
				fixed++
			}
		}
		return goals, fixed > 0, nil
	})
	return fixed, err
}

func clearLinks(store *storage.Store, collection string, ids []string) (int, error) {
	snap, err := LoadSnapshot(store)
	if err != nil {
		return 0, err
	}
	targets := toSet(ids)
	now := store.Now().UnixMilli()
	goals, tasks := idSet(snap.Goals), idSet(snap.Tasks)
	notes, reminders := idSet(snap.Notes), idSet(snap.Reminders)

	missing := func(set map[string]struct{}, id string) bool {
		if id == "" {
			return false
		}
		_, ok := set[id]
		return !ok
	}

	cleared := 0
	switch collection {
	case constants.KeyTasks:
		_, err = store.Tasks.Mutate(func(items []models.Task) ([]models.Task, bool, error) {
			for i, t := range items {
				if _, ok := targets[t.ID]; !ok {
					continue
				}
				changed := false
				if missing(goals, t.LinkedGoalID) {
					items[i].LinkedGoalID, changed = "", true
				}
				if missing(notes, t.LinkedNoteID) {
					items[i].LinkedNoteID, changed = "", true
				}
				if missing(reminders, t.LinkedReminderID) {
					items[i].LinkedReminderID, changed = "", true
				}
				if changed {
					items[i].UpdatedAt = now
					cleared++
				}
			}
			return items, cleared > 0, nil
		})
	case constants.KeyNotes:
		_, err = store.Notes.Mutate(func(items []models.Note) ([]models.Note, bool, error) {
			for i, n := range items {
				if _, ok := targets[n.ID]; ok && missing(goals, n.LinkedGoalID) {
					items[i].LinkedGoalID = ""
					items[i].UpdatedAt = now
					cleared++
				}
			}
			return items, cleared > 0, nil
		})
	case constants.KeyEvents:
		_, err = store.Events.Mutate(func(items []models.CalendarEvent) ([]models.CalendarEvent, bool, error) {
			for i, e := range items {
				if _, ok := targets[e.ID]; !ok {
					continue
				}
				changed := false
				if missing(goals, e.LinkedGoalID) {
					items[i].LinkedGoalID, changed = "", true
				}
				if missing(tasks, e.LinkedTaskID) {
					items[i].LinkedTaskID, changed = "", true
				}
				if changed {
					cleared++
				}
			}
			return items, cleared > 0, nil
		})
	case constants.KeyReminders:
		_, err = store.Reminders.Mutate(func(items []models.Reminder) ([]models.Reminder, bool, error) {
			for i, r := range items {
				if _, ok := targets[r.ID]; ok && missing(goals, r.LinkedGoalID) {
					items[i].LinkedGoalID = ""
					items[i].UpdatedAt = now
					cleared++
				}
			}
			return items, cleared > 0, nil
		})
	case constants.KeyHabits:
		_, err = store.Habits.Mutate(func(items []models.Habit) ([]models.Habit, bool, error) {
			for i, h := range items {
				if _, ok := targets[h.ID]; ok && missing(goals, h.GoalID) {
					items[i].GoalID = ""
					items[i].UpdatedAt = now
					cleared++
				}
			}
			return items, cleared > 0, nil
		})
	default:
		return 0, fmt.Errorf("unknown collection: %s", collection)
	}
	return cleared, err
}
