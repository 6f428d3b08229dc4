package models

import (
	"fmt"
	"strings"
)

// Mood is ordered; its ordinal doubles as the numeric mood score.
type Mood string

const (
	MoodTerrible Mood = "TERRIBLE"
	MoodBad      Mood = "BAD"
	MoodOkay     Mood = "OKAY"
	MoodGood     Mood = "GOOD"
	MoodAmazing  Mood = "AMAZING"
)

var moodOrder = []Mood{MoodTerrible, MoodBad, MoodOkay, MoodGood, MoodAmazing}

var moodEmoji = map[Mood]string{
	MoodTerrible: "😢",
	MoodBad:      "😕",
	MoodOkay:     "😐",
	MoodGood:     "🙂",
	MoodAmazing:  "🤩",
}

// Ordinal returns the mood's position in the ordering, or -1 when unknown.
func (m Mood) Ordinal() int {
	for i, candidate := range moodOrder {
		if candidate == m {
			return i
		}
	}
	return -1
}

func (m Mood) Emoji() string {
	return moodEmoji[m]
}

// ParseMood accepts a mood name case-insensitively.
func ParseMood(s string) (Mood, error) {
	m := Mood(strings.ToUpper(strings.TrimSpace(s)))
	if m.Ordinal() < 0 {
		return "", fmt.Errorf("invalid mood: %s", s)
	}
	return m, nil
}

type JournalEntry struct {
	ID        string   `json:"id"`
	Date      int64    `json:"date"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Mood      Mood     `json:"mood"`
	Tags      []string `json:"tags"`
	CreatedAt int64    `json:"createdAt"`
	UpdatedAt int64    `json:"updatedAt"`
}

func (e *JournalEntry) Validate() error {
	if e.Content == "" {
		return fmt.Errorf("journal content cannot be empty")
	}
	if e.Mood.Ordinal() < 0 {
		return fmt.Errorf("invalid mood: %s", e.Mood)
	}
	return nil
}
