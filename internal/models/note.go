package models

import "fmt"

type Note struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Content      string   `json:"content"`
	Color        int64    `json:"color"`
	IsPinned     bool     `json:"isPinned"`
	LinkedGoalID string   `json:"linkedGoalId,omitempty"`
	Tags         []string `json:"tags"`
	ReminderTime *int64   `json:"reminderTime,omitempty"`
	CreatedAt    int64    `json:"createdAt"`
	UpdatedAt    int64    `json:"updatedAt"`
}

// NoteColors are the predefined note background colors
var NoteColors = []int64{
	0xFFFFFFFF, // white
	0xFFFFF9C4, // light yellow
	0xFFFFCCBC, // light orange
	0xFFE1BEE7, // light purple
	0xFFB3E5FC, // light blue
	0xFFC8E6C9, // light green
}

func (n *Note) Validate() error {
	if n.Title == "" && n.Content == "" {
		return fmt.Errorf("note must have a title or content")
	}
	return nil
}

// HasReminder reports whether the note should appear on the calendar.
func (n Note) HasReminder() bool {
	return n.ReminderTime != nil
}
