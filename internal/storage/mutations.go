package storage

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/julianstephens/planner/internal/models"
	"github.com/julianstephens/planner/internal/utils"
)

// ToggleMilestone flips one milestone of a goal and recomputes its progress.
// It reports false when either id is unknown.
func (s *Store) ToggleMilestone(goalID, milestoneID string) (bool, error) {
	now := s.nowMillis()
	return s.Goals.Mutate(func(goals []models.Goal) ([]models.Goal, bool, error) {
		for i := range goals {
			if goals[i].ID != goalID {
				continue
			}
			toggled, ok := goals[i].ToggleMilestone(milestoneID, now)
			if !ok {
				return goals, false, nil
			}
			goals[i] = toggled
			return goals, true, nil
		}
		return goals, false, nil
	})
}

// SaveTask updates an existing task (refreshing updatedAt) or inserts a new
// one at the front of the list.
func (s *Store) SaveTask(task models.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}
	now := s.nowMillis()
	_, err := s.Tasks.Mutate(func(tasks []models.Task) ([]models.Task, bool, error) {
		for i := range tasks {
			if tasks[i].ID == task.ID {
				task.UpdatedAt = now
				tasks[i] = task
				return tasks, true, nil
			}
		}
		if task.CreatedAt == 0 {
			task.CreatedAt = now
		}
		task.UpdatedAt = now
		return append([]models.Task{task}, tasks...), true, nil
	})
	return err
}

func (s *Store) ToggleTaskCompletion(taskID string) (bool, error) {
	now := s.nowMillis()
	return s.Tasks.Mutate(func(tasks []models.Task) ([]models.Task, bool, error) {
		for i := range tasks {
			if tasks[i].ID == taskID {
				tasks[i] = tasks[i].ToggleCompletion(now)
				return tasks, true, nil
			}
		}
		return tasks, false, nil
	})
}

func (s *Store) ToggleNotePin(noteID string) (bool, error) {
	now := s.nowMillis()
	return s.Notes.Mutate(func(notes []models.Note) ([]models.Note, bool, error) {
		for i := range notes {
			if notes[i].ID == noteID {
				notes[i].IsPinned = !notes[i].IsPinned
				notes[i].UpdatedAt = now
				return notes, true, nil
			}
		}
		return notes, false, nil
	})
}

func (s *Store) ToggleReminderEnabled(reminderID string) (bool, error) {
	now := s.nowMillis()
	return s.Reminders.Mutate(func(reminders []models.Reminder) ([]models.Reminder, bool, error) {
		for i := range reminders {
			if reminders[i].ID == reminderID {
				reminders[i].IsEnabled = !reminders[i].IsEnabled
				reminders[i].UpdatedAt = now
				return reminders, true, nil
			}
		}
		return reminders, false, nil
	})
}

// DeleteHabit removes a habit together with its entries.
func (s *Store) DeleteHabit(habitID string) (bool, error) {
	changed, err := s.Habits.Delete(habitID)
	if err != nil || !changed {
		return changed, err
	}
	_, err = s.HabitEntries.Mutate(func(entries []models.HabitEntry) ([]models.HabitEntry, bool, error) {
		kept := entries[:0]
		for _, e := range entries {
			if e.HabitID != habitID {
				kept = append(kept, e)
			}
		}
		return kept, len(kept) != len(entries), nil
	})
	return true, err
}

// ToggleHabitEntry flips completion for habitID on the day containing date,
// creating a completed entry when none exists. Any duplicate entries for the
// same day collapse into the returned one.
func (s *Store) ToggleHabitEntry(habitID string, date int64) (models.HabitEntry, error) {
	day := utils.StartOfDay(date, s.loc)
	var result models.HabitEntry
	_, err := s.HabitEntries.Mutate(func(entries []models.HabitEntry) ([]models.HabitEntry, bool, error) {
		var existing *models.HabitEntry
		kept := make([]models.HabitEntry, 0, len(entries)+1)
		for _, e := range entries {
			if e.HabitID == habitID && utils.StartOfDay(e.Date, s.loc) == day {
				if existing == nil {
					found := e
					existing = &found
				}
				continue
			}
			kept = append(kept, e)
		}

		if existing != nil {
			result = *existing
			result.IsCompleted = !result.IsCompleted
		} else {
			result = models.HabitEntry{
				ID:          uuid.New().String(),
				HabitID:     habitID,
				Date:        day,
				IsCompleted: true,
			}
		}
		return append([]models.HabitEntry{result}, kept...), true, nil
	})
	return result, err
}

// UpsertHabitEntry stores entry as the only entry for its (habit, day).
// The last write wins.
func (s *Store) UpsertHabitEntry(entry models.HabitEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	day := utils.StartOfDay(entry.Date, s.loc)
	_, err := s.HabitEntries.Mutate(func(entries []models.HabitEntry) ([]models.HabitEntry, bool, error) {
		kept := make([]models.HabitEntry, 0, len(entries)+1)
		for _, e := range entries {
			if e.HabitID == entry.HabitID && utils.StartOfDay(e.Date, s.loc) == day {
				continue
			}
			kept = append(kept, e)
		}
		return append([]models.HabitEntry{entry}, kept...), true, nil
	})
	return err
}

func (s *Store) appendFinanceLog(action, entity, description string) error {
	return s.FinanceLogs.Add(models.FinanceLog{
		ID:          uuid.New().String(),
		Action:      action,
		EntityType:  entity,
		Timestamp:   s.nowMillis(),
		Description: description,
	})
}

func (s *Store) AddTransaction(tx models.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	if tx.CreatedAt == 0 {
		tx.CreatedAt = s.nowMillis()
	}
	if err := s.Transactions.Add(tx); err != nil {
		return err
	}
	return s.appendFinanceLog(models.FinanceActionAdd, models.FinanceEntityTransaction,
		fmt.Sprintf("Added %s of %s (%s)", tx.Type, tx.Amount.StringFixed(2), tx.Category))
}

func (s *Store) UpdateTransaction(tx models.Transaction) (bool, error) {
	if err := tx.Validate(); err != nil {
		return false, err
	}
	changed, err := s.Transactions.Update(tx)
	if err != nil || !changed {
		return changed, err
	}
	return true, s.appendFinanceLog(models.FinanceActionUpdate, models.FinanceEntityTransaction,
		fmt.Sprintf("Updated %s of %s (%s)", tx.Type, tx.Amount.StringFixed(2), tx.Category))
}

func (s *Store) DeleteTransaction(id string) (bool, error) {
	tx, found, err := s.Transactions.Find(id)
	if err != nil || !found {
		return false, err
	}
	changed, err := s.Transactions.Delete(id)
	if err != nil || !changed {
		return changed, err
	}
	return true, s.appendFinanceLog(models.FinanceActionRemove, models.FinanceEntityTransaction,
		fmt.Sprintf("Removed %s of %s (%s)", tx.Type, tx.Amount.StringFixed(2), tx.Category))
}

// SettleDebt marks a BORROWED or LENT transaction settled and records a
// SETTLED log entry. It reports false for unknown or already settled ids.
func (s *Store) SettleDebt(id string) (bool, error) {
	var settled models.Transaction
	changed, err := s.Transactions.Mutate(func(txs []models.Transaction) ([]models.Transaction, bool, error) {
		for i := range txs {
			if txs[i].ID != id {
				continue
			}
			if !txs[i].Type.IsDebt() {
				return txs, false, fmt.Errorf("transaction %s is %s, not a debt", id, txs[i].Type)
			}
			if txs[i].IsSettled {
				return txs, false, nil
			}
			txs[i].IsSettled = true
			settled = txs[i]
			return txs, true, nil
		}
		return txs, false, nil
	})
	if err != nil || !changed {
		return changed, err
	}

	person := settled.PersonName
	if person == "" {
		person = "someone"
	}
	return true, s.appendFinanceLog(models.FinanceActionSettled, models.FinanceEntityTransaction,
		fmt.Sprintf("Settled %s of %s with %s", settled.Type, settled.Amount.StringFixed(2), person))
}

func budgetLabel(b models.Budget) string {
	if b.Category == nil {
		return fmt.Sprintf("%s overall budget of %s", b.Period, b.LimitAmount.StringFixed(2))
	}
	return fmt.Sprintf("%s %s budget of %s", b.Period, *b.Category, b.LimitAmount.StringFixed(2))
}

func (s *Store) AddBudget(b models.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if err := s.Budgets.Add(b); err != nil {
		return err
	}
	return s.appendFinanceLog(models.FinanceActionAdd, models.FinanceEntityBudget, "Added "+budgetLabel(b))
}

func (s *Store) UpdateBudget(b models.Budget) (bool, error) {
	if err := b.Validate(); err != nil {
		return false, err
	}
	changed, err := s.Budgets.Update(b)
	if err != nil || !changed {
		return changed, err
	}
	return true, s.appendFinanceLog(models.FinanceActionUpdate, models.FinanceEntityBudget, "Updated "+budgetLabel(b))
}

func (s *Store) DeleteBudget(id string) (bool, error) {
	b, found, err := s.Budgets.Find(id)
	if err != nil || !found {
		return false, err
	}
	changed, err := s.Budgets.Delete(id)
	if err != nil || !changed {
		return changed, err
	}
	return true, s.appendFinanceLog(models.FinanceActionRemove, models.FinanceEntityBudget, "Removed "+budgetLabel(b))
}
