package storage

import (
	"github.com/julianstephens/planner/internal/models"
	"github.com/julianstephens/planner/internal/utils"
)

// TasksForDate returns tasks whose due date falls on the day containing date.
// Tasks without a due date never match.
func (s *Store) TasksForDate(date int64) ([]models.Task, error) {
	start, end := utils.DayBounds(date, s.loc)
	return s.TasksForRange(start, end)
}

// TasksForRange returns tasks due within the inclusive [start, end] range.
func (s *Store) TasksForRange(start, end int64) ([]models.Task, error) {
	return s.Tasks.Filter(func(t models.Task) bool {
		return t.DueDate != nil && utils.InRange(*t.DueDate, start, end)
	})
}

// TasksForGoal returns tasks linked to goalID.
func (s *Store) TasksForGoal(goalID string) ([]models.Task, error) {
	return s.Tasks.Filter(func(t models.Task) bool {
		return t.LinkedGoalID == goalID
	})
}

func (s *Store) NotesForGoal(goalID string) ([]models.Note, error) {
	return s.Notes.Filter(func(n models.Note) bool {
		return n.LinkedGoalID == goalID
	})
}

// EventsForDate returns events whose date falls on the day containing date.
func (s *Store) EventsForDate(date int64) ([]models.CalendarEvent, error) {
	start, end := utils.DayBounds(date, s.loc)
	return s.EventsForRange(start, end)
}

func (s *Store) EventsForRange(start, end int64) ([]models.CalendarEvent, error) {
	return s.Events.Filter(func(e models.CalendarEvent) bool {
		return utils.InRange(e.Date, start, end)
	})
}

// RemindersForDate returns reminders scheduled on the day containing date.
func (s *Store) RemindersForDate(date int64) ([]models.Reminder, error) {
	start, end := utils.DayBounds(date, s.loc)
	return s.Reminders.Filter(func(r models.Reminder) bool {
		return utils.InRange(r.ReminderTime, start, end)
	})
}

// NotesWithRemindersForDate returns notes whose reminder falls on the day containing date.
func (s *Store) NotesWithRemindersForDate(date int64) ([]models.Note, error) {
	start, end := utils.DayBounds(date, s.loc)
	return s.Notes.Filter(func(n models.Note) bool {
		return n.ReminderTime != nil && utils.InRange(*n.ReminderTime, start, end)
	})
}

// HabitEntriesForDate returns all entries recorded on the day containing date.
func (s *Store) HabitEntriesForDate(date int64) ([]models.HabitEntry, error) {
	start, end := utils.DayBounds(date, s.loc)
	return s.HabitEntriesForRange(start, end)
}

func (s *Store) HabitEntriesForRange(start, end int64) ([]models.HabitEntry, error) {
	return s.HabitEntries.Filter(func(e models.HabitEntry) bool {
		return utils.InRange(e.Date, start, end)
	})
}

func (s *Store) HabitEntriesForHabit(habitID string) ([]models.HabitEntry, error) {
	return s.HabitEntries.Filter(func(e models.HabitEntry) bool {
		return e.HabitID == habitID
	})
}

// JournalEntryForDate returns the first journal entry on the day containing
// date, or nil when there is none.
func (s *Store) JournalEntryForDate(date int64) (*models.JournalEntry, error) {
	start, end := utils.DayBounds(date, s.loc)
	entries, err := s.JournalEntriesForRange(start, end)
	if err != nil || len(entries) == 0 {
		return nil, err
	}
	return &entries[0], nil
}

func (s *Store) JournalEntriesForRange(start, end int64) ([]models.JournalEntry, error) {
	return s.JournalEntries.Filter(func(e models.JournalEntry) bool {
		return utils.InRange(e.Date, start, end)
	})
}

// TransactionsForRange returns transactions dated within [start, end].
func (s *Store) TransactionsForRange(start, end int64) ([]models.Transaction, error) {
	return s.Transactions.Filter(func(t models.Transaction) bool {
		return utils.InRange(t.Date, start, end)
	})
}
