package models

import "fmt"

type CalendarEvent struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Date         int64  `json:"date"`
	StartTime    *int64 `json:"startTime,omitempty"`
	EndTime      *int64 `json:"endTime,omitempty"`
	Color        int64  `json:"color"`
	LinkedGoalID string `json:"linkedGoalId,omitempty"`
	LinkedTaskID string `json:"linkedTaskId,omitempty"`
	IsAllDay     bool   `json:"isAllDay"`
	CreatedAt    int64  `json:"createdAt"`
}

func (e *CalendarEvent) Validate() error {
	if e.Title == "" {
		return fmt.Errorf("event title cannot be empty")
	}
	if e.StartTime != nil && e.EndTime != nil && *e.EndTime < *e.StartTime {
		return fmt.Errorf("event end time must not precede start time")
	}
	return nil
}

type Reminder struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ReminderTime int64  `json:"reminderTime"`
	IsEnabled    bool   `json:"isEnabled"`
	IsCompleted  bool   `json:"isCompleted"`
	Color        int64  `json:"color"`
	LinkedGoalID string `json:"linkedGoalId,omitempty"`
	CreatedAt    int64  `json:"createdAt"`
	UpdatedAt    int64  `json:"updatedAt"`
}

func (r *Reminder) Validate() error {
	if r.Title == "" {
		return fmt.Errorf("reminder title cannot be empty")
	}
	if r.ReminderTime <= 0 {
		return fmt.Errorf("reminder time must be set")
	}
	return nil
}

// CalendarItemType identifies the collection a calendar item came from
type CalendarItemType string

const (
	CalendarItemTask     CalendarItemType = "TASK"
	CalendarItemEvent    CalendarItemType = "EVENT"
	CalendarItemReminder CalendarItemType = "REMINDER"
	CalendarItemNote     CalendarItemType = "NOTE"
)

// CalendarItem is a read-only projection used by the unified day view
type CalendarItem struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	Date         int64            `json:"date"`
	Type         CalendarItemType `json:"type"`
	Color        int64            `json:"color"`
	IsCompleted  bool             `json:"isCompleted"`
	LinkedGoalID string           `json:"linkedGoalId,omitempty"`
}
