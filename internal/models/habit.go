package models

import "fmt"

type Habit struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	GoalID      string `json:"goalId,omitempty"`
	Icon        string `json:"icon"`
	Color       int64  `json:"color"`
	CreatedAt   int64  `json:"createdAt"`
	UpdatedAt   int64  `json:"updatedAt"`
}

func (h *Habit) Validate() error {
	if h.Title == "" {
		return fmt.Errorf("habit title cannot be empty")
	}
	return nil
}

// HabitEntry records the outcome of one habit on one calendar day.
// The store keeps at most one entry per (HabitID, day bucket).
type HabitEntry struct {
	ID          string `json:"id"`
	HabitID     string `json:"habitId"`
	Date        int64  `json:"date"`
	IsCompleted bool   `json:"isCompleted"`
	Notes       string `json:"notes"`
}
