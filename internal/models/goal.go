package models

import (
	"fmt"
	"strings"
)

type GoalCategory string

const (
	GoalCategoryHealth    GoalCategory = "HEALTH"
	GoalCategoryCareer    GoalCategory = "CAREER"
	GoalCategoryLearning  GoalCategory = "LEARNING"
	GoalCategoryFinance   GoalCategory = "FINANCE"
	GoalCategoryPersonal  GoalCategory = "PERSONAL"
	GoalCategoryRelations GoalCategory = "RELATIONSHIPS"
	GoalCategoryOther     GoalCategory = "OTHER"
)

var goalCategories = []GoalCategory{
	GoalCategoryHealth, GoalCategoryCareer, GoalCategoryLearning, GoalCategoryFinance,
	GoalCategoryPersonal, GoalCategoryRelations, GoalCategoryOther,
}

// ParseGoalCategory accepts a category name case-insensitively.
func ParseGoalCategory(s string) (GoalCategory, error) {
	c := GoalCategory(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range goalCategories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("invalid goal category: %s", s)
}

// Milestone is a checkpoint within a goal
type Milestone struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	IsCompleted bool   `json:"isCompleted"`
	CompletedAt *int64 `json:"completedAt,omitempty"`
}

type Goal struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Category    GoalCategory `json:"category"`
	Color       int64        `json:"color"`
	Icon        string       `json:"icon"`
	Progress    float32      `json:"progress"` // derived from milestones, 0..1
	Milestones  []Milestone  `json:"milestones"`
	CreatedAt   int64        `json:"createdAt"`
	UpdatedAt   int64        `json:"updatedAt"`
}

func (g *Goal) Validate() error {
	if g.Title == "" {
		return fmt.Errorf("goal title cannot be empty")
	}
	return nil
}

// CompletedMilestones returns the number of completed milestones.
func (g Goal) CompletedMilestones() int {
	count := 0
	for _, m := range g.Milestones {
		if m.IsCompleted {
			count++
		}
	}
	return count
}

// ComputeProgress returns completed/total milestones, 0 when there are none.
func (g Goal) ComputeProgress() float32 {
	if len(g.Milestones) == 0 {
		return 0
	}
	return float32(g.CompletedMilestones()) / float32(len(g.Milestones))
}

// ToggleMilestone returns a copy of the goal with the given milestone flipped and
// progress recomputed. The second return is false when no milestone matched.
func (g Goal) ToggleMilestone(milestoneID string, now int64) (Goal, bool) {
	found := false
	milestones := make([]Milestone, len(g.Milestones))
	for i, m := range g.Milestones {
		if m.ID == milestoneID {
			found = true
			m.IsCompleted = !m.IsCompleted
			if m.IsCompleted {
				ts := now
				m.CompletedAt = &ts
			} else {
				m.CompletedAt = nil
			}
		}
		milestones[i] = m
	}
	if !found {
		return g, false
	}

	g.Milestones = milestones
	g.Progress = g.ComputeProgress()
	g.UpdatedAt = now
	return g, true
}
