// Package search finds records across every collection by case-insensitive
// substring match.
package search

import (
	"fmt"
	"sort"
	"strings"

	"github.com/julianstephens/planner/internal/models"
	"github.com/julianstephens/planner/internal/storage"
)

type ResultType string

const (
	TypeGoal      ResultType = "GOAL"
	TypeMilestone ResultType = "MILESTONE"
	TypeTask      ResultType = "TASK"
	TypeNote      ResultType = "NOTE"
	TypeEvent     ResultType = "EVENT"
	TypeReminder  ResultType = "REMINDER"
	TypeHabit     ResultType = "HABIT"
	TypeJournal   ResultType = "JOURNAL"
	TypeFinance   ResultType = "FINANCE"
)

// AllTypes lists every searchable type in display order.
var AllTypes = []ResultType{
	TypeGoal, TypeMilestone, TypeTask, TypeNote, TypeEvent,
	TypeReminder, TypeHabit, TypeJournal, TypeFinance,
}

// ParseType accepts a type name case-insensitively.
func ParseType(s string) (ResultType, error) {
	t := ResultType(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range AllTypes {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("invalid search type: %s", s)
}

type Result struct {
	Type         ResultType `json:"type"`
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Subtitle     string     `json:"subtitle"`
	Date         int64      `json:"date,omitempty"`
	LinkedGoalID string     `json:"linkedGoalId,omitempty"`
}

// Filters narrows a search. A zero Filters matches everything.
type Filters struct {
	Types []ResultType
	// Start and End bound dated records when non-zero. Undated records
	// (goals, habits, milestones) are unaffected.
	Start int64
	End   int64
}

func (f Filters) wants(t ResultType) bool {
	if len(f.Types) == 0 {
		return true
	}
	for _, want := range f.Types {
		if want == t {
			return true
		}
	}
	return false
}

func (f Filters) inRange(date int64) bool {
	if f.Start != 0 && date < f.Start {
		return false
	}
	if f.End != 0 && date > f.End {
		return false
	}
	return true
}

// Snapshot is the data a search runs over.
type Snapshot struct {
	Goals          []models.Goal
	Tasks          []models.Task
	Notes          []models.Note
	Events         []models.CalendarEvent
	Reminders      []models.Reminder
	Habits         []models.Habit
	JournalEntries []models.JournalEntry
	Transactions   []models.Transaction
}

func matches(query string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}

func matchesTags(query string, tags []string) bool {
	return matches(query, tags...)
}

// Match runs query over snap. Results are grouped by type in AllTypes order and
// keep collection order within a type. A blank query yields nothing.
func Match(snap Snapshot, query string, filters Filters) []Result {
	q := strings.ToLower(strings.TrimSpace(query))
	results := []Result{}
	if q == "" {
		return results
	}

	if filters.wants(TypeGoal) || filters.wants(TypeMilestone) {
		for _, g := range snap.Goals {
			if filters.wants(TypeGoal) && matches(q, g.Title, g.Description, string(g.Category)) {
				results = append(results, Result{Type: TypeGoal, ID: g.ID, Title: g.Title, Subtitle: g.Description})
			}
			if !filters.wants(TypeMilestone) {
				continue
			}
			for _, m := range g.Milestones {
				if matches(q, m.Title) {
					results = append(results, Result{Type: TypeMilestone, ID: m.ID, Title: m.Title, Subtitle: g.Title, LinkedGoalID: g.ID})
				}
			}
		}
	}

	if filters.wants(TypeTask) {
		for _, t := range snap.Tasks {
			var date int64
			if t.DueDate != nil {
				date = *t.DueDate
			}
			if date != 0 && !filters.inRange(date) {
				continue
			}
			if matches(q, t.Title, t.Description) || matchesTags(q, t.Tags) {
				results = append(results, Result{Type: TypeTask, ID: t.ID, Title: t.Title, Subtitle: t.Description, Date: date, LinkedGoalID: t.LinkedGoalID})
			}
		}
	}

	if filters.wants(TypeNote) {
		for _, n := range snap.Notes {
			if !filters.inRange(n.UpdatedAt) {
				continue
			}
			if matches(q, n.Title, n.Content) || matchesTags(q, n.Tags) {
				results = append(results, Result{Type: TypeNote, ID: n.ID, Title: n.Title, Subtitle: firstLine(n.Content), Date: n.UpdatedAt, LinkedGoalID: n.LinkedGoalID})
			}
		}
	}

	if filters.wants(TypeEvent) {
		for _, e := range snap.Events {
			if filters.inRange(e.Date) && matches(q, e.Title, e.Description) {
				results = append(results, Result{Type: TypeEvent, ID: e.ID, Title: e.Title, Subtitle: e.Description, Date: e.Date, LinkedGoalID: e.LinkedGoalID})
			}
		}
	}

	if filters.wants(TypeReminder) {
		for _, r := range snap.Reminders {
			if filters.inRange(r.ReminderTime) && matches(q, r.Title, r.Description) {
				results = append(results, Result{Type: TypeReminder, ID: r.ID, Title: r.Title, Subtitle: r.Description, Date: r.ReminderTime, LinkedGoalID: r.LinkedGoalID})
			}
		}
	}

	if filters.wants(TypeHabit) {
		for _, h := range snap.Habits {
			if matches(q, h.Title, h.Description) {
				results = append(results, Result{Type: TypeHabit, ID: h.ID, Title: h.Title, Subtitle: h.Description, LinkedGoalID: h.GoalID})
			}
		}
	}

	if filters.wants(TypeJournal) {
		for _, e := range snap.JournalEntries {
			if filters.inRange(e.Date) && (matches(q, e.Title, e.Content) || matchesTags(q, e.Tags)) {
				results = append(results, Result{Type: TypeJournal, ID: e.ID, Title: e.Title, Subtitle: firstLine(e.Content), Date: e.Date})
			}
		}
	}

	if filters.wants(TypeFinance) {
		for _, t := range snap.Transactions {
			if filters.inRange(t.Date) && matches(q, t.Note, t.PersonName, string(t.Category), string(t.Type)) {
				results = append(results, Result{
					Type:     TypeFinance,
					ID:       t.ID,
					Title:    fmt.Sprintf("%s %s", t.Type, t.Amount.StringFixed(2)),
					Subtitle: t.Note,
					Date:     t.Date,
				})
			}
		}
	}

	order := make(map[ResultType]int, len(AllTypes))
	for i, t := range AllTypes {
		order[t] = i
	}
	sort.SliceStable(results, func(i, j int) bool { return order[results[i].Type] < order[results[j].Type] })
	return results
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

// Searcher runs searches against a Store and records queries.
type Searcher struct {
	store *storage.Store
}

func New(store *storage.Store) *Searcher {
	return &Searcher{store: store}
}

// Search loads the searchable collections, matches query and, when the query
// is not blank, records it as a recent search.
func (s *Searcher) Search(query string, filters Filters) ([]Result, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	results := Match(snap, query, filters)
	if strings.TrimSpace(query) != "" {
		if err := s.store.AddRecentSearch(query); err != nil {
			return results, fmt.Errorf("failed to record recent search: %w", err)
		}
	}
	return results, nil
}

func (s *Searcher) snapshot() (Snapshot, error) {
	var snap Snapshot
	var err error
	if snap.Goals, err = s.store.Goals.GetAll(); err != nil {
		return snap, err
	}
	if snap.Tasks, err = s.store.Tasks.GetAll(); err != nil {
		return snap, err
	}
	if snap.Notes, err = s.store.Notes.GetAll(); err != nil {
		return snap, err
	}
	if snap.Events, err = s.store.Events.GetAll(); err != nil {
		return snap, err
	}
	if snap.Reminders, err = s.store.Reminders.GetAll(); err != nil {
		return snap, err
	}
	if snap.Habits, err = s.store.Habits.GetAll(); err != nil {
		return snap, err
	}
	if snap.JournalEntries, err = s.store.JournalEntries.GetAll(); err != nil {
		return snap, err
	}
	if snap.Transactions, err = s.store.Transactions.GetAll(); err != nil {
		return snap, err
	}
	return snap, nil
}
