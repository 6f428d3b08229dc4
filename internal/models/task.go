package models

import (
	"fmt"
	"strings"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
	PriorityUrgent TaskPriority = "URGENT"
)

var priorityColors = map[TaskPriority]int64{
	PriorityLow:    0xFF4CAF50, // green
	PriorityMedium: 0xFFFF9800, // orange
	PriorityHigh:   0xFFE91E63, // pink
	PriorityUrgent: 0xFFF44336, // red
}

// Color returns the fixed ARGB color for a priority. Unknown priorities map to MEDIUM.
func (p TaskPriority) Color() int64 {
	if c, ok := priorityColors[p]; ok {
		return c
	}
	return priorityColors[PriorityMedium]
}

func (p TaskPriority) Valid() bool {
	_, ok := priorityColors[p]
	return ok
}

func ParsePriority(s string) (TaskPriority, error) {
	p := TaskPriority(strings.ToUpper(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("invalid task priority: %s", s)
	}
	return p, nil
}

type RepeatType string

const (
	RepeatNone    RepeatType = "NONE"
	RepeatDaily   RepeatType = "DAILY"
	RepeatWeekly  RepeatType = "WEEKLY"
	RepeatMonthly RepeatType = "MONTHLY"
	RepeatYearly  RepeatType = "YEARLY"
)

func ParseRepeatType(s string) (RepeatType, error) {
	r := RepeatType(strings.ToUpper(strings.TrimSpace(s)))
	switch r {
	case RepeatNone, RepeatDaily, RepeatWeekly, RepeatMonthly, RepeatYearly:
		return r, nil
	}
	return "", fmt.Errorf("invalid repeat type: %s", s)
}

type Subtask struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	IsCompleted bool   `json:"isCompleted"`
	CompletedAt *int64 `json:"completedAt,omitempty"`
}

type Task struct {
	ID               string       `json:"id"`
	Title            string       `json:"title"`
	Description      string       `json:"description"`
	IsCompleted      bool         `json:"isCompleted"`
	Priority         TaskPriority `json:"priority"`
	DueDate          *int64       `json:"dueDate,omitempty"`
	LinkedGoalID     string       `json:"linkedGoalId,omitempty"`
	LinkedNoteID     string       `json:"linkedNoteId,omitempty"`
	LinkedReminderID string       `json:"linkedReminderId,omitempty"`
	Tags             []string     `json:"tags"`
	RepeatType       RepeatType   `json:"repeatType"`
	Subtasks         []Subtask    `json:"subtasks,omitempty"`
	CompletedAt      *int64       `json:"completedAt,omitempty"`
	CreatedAt        int64        `json:"createdAt"`
	UpdatedAt        int64        `json:"updatedAt"`
}

func (t *Task) Validate() error {
	if t.Title == "" {
		return fmt.Errorf("task title cannot be empty")
	}
	if t.Priority != "" && !t.Priority.Valid() {
		return fmt.Errorf("invalid task priority: %s", t.Priority)
	}
	return nil
}

// ToggleCompletion flips the completion flag, stamping or clearing completedAt.
func (t Task) ToggleCompletion(now int64) Task {
	t.IsCompleted = !t.IsCompleted
	if t.IsCompleted {
		ts := now
		t.CompletedAt = &ts
	} else {
		t.CompletedAt = nil
	}
	t.UpdatedAt = now
	return t
}
