// Package integrity inspects stored collections for broken references,
// duplicate day entries and derived values that no longer match their inputs.
package integrity

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/planner/internal/constants"
	"github.com/julianstephens/planner/internal/models"
	"github.com/julianstephens/planner/internal/storage"
	"github.com/julianstephens/planner/internal/utils"
)

// ConflictType represents the kind of integrity problem
type ConflictType string

const (
	ConflictDuplicateID         ConflictType = "duplicate_id"
	ConflictInvalidRecord       ConflictType = "invalid_record"
	ConflictDanglingLink        ConflictType = "dangling_link"
	ConflictOrphanedHabitEntry  ConflictType = "orphaned_habit_entry"
	ConflictDuplicateHabitEntry ConflictType = "duplicate_habit_entry"
	ConflictProgressDrift       ConflictType = "progress_drift"
)

// progressTolerance absorbs float32 rounding in stored progress values.
const progressTolerance = 1e-4

// Conflict is one detected problem
type Conflict struct {
	Type        ConflictType
	Description string
	Collection  string   // collection key holding the affected records
	IDs         []string // affected record ids
}

// Result contains all detected conflicts
type Result struct {
	Conflicts []Conflict
}

// FixAction describes one repair made by AutoFix
type FixAction struct {
	Action         string
	SourceConflict Conflict
}

func (r *Result) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

// Count returns the number of conflicts of type t.
func (r *Result) Count(t ConflictType) int {
	n := 0
	for _, c := range r.Conflicts {
		if c.Type == t {
			n++
		}
	}
	return n
}

// FormatReport returns a human-readable report of all conflicts
func (r *Result) FormatReport() string {
	if !r.HasConflicts() {
		return "No integrity problems detected."
	}

	var b strings.Builder
	b.WriteString("Integrity problems detected:\n")
	for _, c := range r.Conflicts {
		fmt.Fprintf(&b, "- %s\n", c.Description)
	}
	return b.String()
}

// Snapshot holds the collections the checker reads.
type Snapshot struct {
	Goals          []models.Goal
	Tasks          []models.Task
	Notes          []models.Note
	Events         []models.CalendarEvent
	Reminders      []models.Reminder
	Habits         []models.Habit
	HabitEntries   []models.HabitEntry
	JournalEntries []models.JournalEntry
	Transactions   []models.Transaction
	Budgets        []models.Budget
}

// LoadSnapshot reads every checked collection from store.
func LoadSnapshot(store *storage.Store) (Snapshot, error) {
	var snap Snapshot
	var err error
	if snap.Goals, err = store.Goals.GetAll(); err != nil {
		return snap, err
	}
	if snap.Tasks, err = store.Tasks.GetAll(); err != nil {
		return snap, err
	}
	if snap.Notes, err = store.Notes.GetAll(); err != nil {
		return snap, err
	}
	if snap.Events, err = store.Events.GetAll(); err != nil {
		return snap, err
	}
	if snap.Reminders, err = store.Reminders.GetAll(); err != nil {
		return snap, err
	}
	if snap.Habits, err = store.Habits.GetAll(); err != nil {
		return snap, err
	}
	if snap.HabitEntries, err = store.HabitEntries.GetAll(); err != nil {
		return snap, err
	}
	if snap.JournalEntries, err = store.JournalEntries.GetAll(); err != nil {
		return snap, err
	}
	if snap.Transactions, err = store.Transactions.GetAll(); err != nil {
		return snap, err
	}
	if snap.Budgets, err = store.Budgets.GetAll(); err != nil {
		return snap, err
	}
	return snap, nil
}

// Checker validates a snapshot. Day buckets use loc.
type Checker struct {
	loc *time.Location
}

func New(loc *time.Location) *Checker {
	if loc == nil {
		loc = time.Local
	}
	return &Checker{loc: loc}
}

// Check runs every rule over snap.
func (c *Checker) Check(snap Snapshot) Result {
	result := Result{Conflicts: []Conflict{}}

	checkIDs(&result, constants.KeyGoals, snap.Goals)
	checkIDs(&result, constants.KeyTasks, snap.Tasks)
	checkIDs(&result, constants.KeyNotes, snap.Notes)
	checkIDs(&result, constants.KeyEvents, snap.Events)
	checkIDs(&result, constants.KeyReminders, snap.Reminders)
	checkIDs(&result, constants.KeyHabits, snap.Habits)
	checkIDs(&result, constants.KeyHabitEntries, snap.HabitEntries)
	checkIDs(&result, constants.KeyJournalEntries, snap.JournalEntries)
	checkIDs(&result, constants.KeyTransactions, snap.Transactions)
	checkIDs(&result, constants.KeyBudgets, snap.Budgets)

	c.checkRecords(&result, snap)
	c.checkLinks(&result, snap)
	c.checkHabitEntries(&result, snap)
	c.checkProgress(&result, snap)
	return result
}

func checkIDs[T models.Record](result *Result, collection string, items []T) {
	seen := make(map[string]int)
	for _, item := range items {
		seen[item.GetID()]++
	}
	ids := make([]string, 0)
	for id, n := range seen {
		if n > 1 || id == "" {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	for _, id := range ids {
		desc := fmt.Sprintf("Duplicate id %q in %s (%d records)", id, collection, seen[id])
		if id == "" {
			desc = fmt.Sprintf("%d record(s) in %s have no id", seen[id], collection)
		}
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictDuplicateID,
			Description: desc,
			Collection:  collection,
			IDs:         []string{id},
		})
	}
}

type validatable interface {
	Validate() error
}

func (c *Checker) checkRecords(result *Result, snap Snapshot) {
	report := func(collection, id string, v validatable) {
		if err := v.Validate(); err != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidRecord,
				Description: fmt.Sprintf("Invalid record %s in %s: %v", id, collection, err),
				Collection:  collection,
				IDs:         []string{id},
			})
		}
	}
	for i := range snap.Goals {
		report(constants.KeyGoals, snap.Goals[i].ID, &snap.Goals[i])
	}
	for i := range snap.Tasks {
		report(constants.KeyTasks, snap.Tasks[i].ID, &snap.Tasks[i])
	}
	for i := range snap.Notes {
		report(constants.KeyNotes, snap.Notes[i].ID, &snap.Notes[i])
	}
	for i := range snap.Events {
		report(constants.KeyEvents, snap.Events[i].ID, &snap.Events[i])
	}
	for i := range snap.Reminders {
		report(constants.KeyReminders, snap.Reminders[i].ID, &snap.Reminders[i])
	}
	for i := range snap.Habits {
		report(constants.KeyHabits, snap.Habits[i].ID, &snap.Habits[i])
	}
	for i := range snap.JournalEntries {
		report(constants.KeyJournalEntries, snap.JournalEntries[i].ID, &snap.JournalEntries[i])
	}
	for i := range snap.Transactions {
		report(constants.KeyTransactions, snap.Transactions[i].ID, &snap.Transactions[i])
	}
	for i := range snap.Budgets {
		report(constants.KeyBudgets, snap.Budgets[i].ID, &snap.Budgets[i])
	}
}

func idSet[T models.Record](items []T) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item.GetID()] = struct{}{}
	}
	return set
}

func (c *Checker) checkLinks(result *Result, snap Snapshot) {
	goals := idSet(snap.Goals)
	tasks := idSet(snap.Tasks)
	notes := idSet(snap.Notes)
	reminders := idSet(snap.Reminders)

	dangling := func(collection, field string, set map[string]struct{}, refs map[string]string) {
		var ids []string
		for id, target := range refs {
			if target == "" {
				continue
			}
			if _, ok := set[target]; !ok {
				ids = append(ids, id)
			}
		}
		if len(ids) == 0 {
			return
		}
		sort.Strings(ids)
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictDanglingLink,
			Description: fmt.Sprintf("%d record(s) in %s reference a missing %s: %v", len(ids), collection, field, ids),
			Collection:  collection,
			IDs:         ids,
		})
	}

	taskGoals, taskNotes, taskReminders := map[string]string{}, map[string]string{}, map[string]string{}
	for _, t := range snap.Tasks {
		taskGoals[t.ID] = t.LinkedGoalID
		taskNotes[t.ID] = t.LinkedNoteID
		taskReminders[t.ID] = t.LinkedReminderID
	}
	dangling(constants.KeyTasks, "goal", goals, taskGoals)
	dangling(constants.KeyTasks, "note", notes, taskNotes)
	dangling(constants.KeyTasks, "reminder", reminders, taskReminders)

	noteGoals := map[string]string{}
	for _, n := range snap.Notes {
		noteGoals[n.ID] = n.LinkedGoalID
	}
	dangling(constants.KeyNotes, "goal", goals, noteGoals)

	eventGoals, eventTasks := map[string]string{}, map[string]string{}
	for _, e := range snap.Events {
		eventGoals[e.ID] = e.LinkedGoalID
		eventTasks[e.ID] = e.LinkedTaskID
	}
	dangling(constants.KeyEvents, "goal", goals, eventGoals)
	dangling(constants.KeyEvents, "task", tasks, eventTasks)

	reminderGoals := map[string]string{}
	for _, r := range snap.Reminders {
		reminderGoals[r.ID] = r.LinkedGoalID
	}
	dangling(constants.KeyReminders, "goal", goals, reminderGoals)

	habitGoals := map[string]string{}
	for _, h := range snap.Habits {
		habitGoals[h.ID] = h.GoalID
	}
	dangling(constants.KeyHabits, "goal", goals, habitGoals)
}

func (c *Checker) checkHabitEntries(result *Result, snap Snapshot) {
	habits := idSet(snap.Habits)

	var orphaned []string
	type habitDay struct {
		habitID string
		day     int64
	}
	byDay := make(map[habitDay][]string)
	var order []habitDay

	for _, e := range snap.HabitEntries {
		if _, ok := habits[e.HabitID]; !ok {
			orphaned = append(orphaned, e.ID)
			continue
		}
		key := habitDay{e.HabitID, utils.StartOfDay(e.Date, c.loc)}
		if _, ok := byDay[key]; !ok {
			order = append(order, key)
		}
		byDay[key] = append(byDay[key], e.ID)
	}

	if len(orphaned) > 0 {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictOrphanedHabitEntry,
			Description: fmt.Sprintf("Found %d habit entries referencing non-existent habits", len(orphaned)),
			Collection:  constants.KeyHabitEntries,
			IDs:         orphaned,
		})
	}

	for _, key := range order {
		ids := byDay[key]
		if len(ids) < 2 {
			continue
		}
		result.Conflicts = append(result.Conflicts, Conflict{
			Type: ConflictDuplicateHabitEntry,
			Description: fmt.Sprintf("Habit %s has %d entries on %s",
				key.habitID, len(ids), utils.FormatDay(key.day, c.loc)),
			Collection: constants.KeyHabitEntries,
			IDs:        ids,
		})
	}
}

func (c *Checker) checkProgress(result *Result, snap Snapshot) {
	for _, g := range snap.Goals {
		want := g.ComputeProgress()
		if math.Abs(float64(g.Progress-want)) <= progressTolerance {
			continue
		}
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictProgressDrift,
			Description: fmt.Sprintf("Goal %q stores progress %.2f but milestones give %.2f", g.Title, g.Progress, want),
			Collection:  constants.KeyGoals,
			IDs:         []string{g.ID},
		})
	}
}
