package storage

import (
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/planner/internal/models"
	"github.com/julianstephens/planner/internal/utils"
)

type defaultGoal struct {
	title       string
	description string
	category    models.GoalCategory
	color       int64
	icon        string
	milestones  []string
}

var defaultGoals = []defaultGoal{
	{
		title:       "Build a healthy routine",
		description: "Exercise, sleep and eat well consistently",
		category:    models.GoalCategoryHealth,
		color:       0xFF4CAF50,
		icon:        "fitness",
		milestones:  []string{"Exercise 3x a week for a month", "Sleep 7+ hours for two weeks", "Cook at home 5 days a week"},
	},
	{
		title:       "Grow in my career",
		description: "Deepen skills and take on bigger responsibilities",
		category:    models.GoalCategoryCareer,
		color:       0xFF2196F3,
		icon:        "work",
		milestones:  []string{"Finish a certification", "Lead a project", "Update portfolio"},
	},
	{
		title:       "Learn something new",
		description: "Read widely and pick up a new skill",
		category:    models.GoalCategoryLearning,
		color:       0xFF9C27B0,
		icon:        "school",
		milestones:  []string{"Read 12 books", "Complete an online course"},
	},
	{
		title:       "Get finances in order",
		description: "Track spending and build savings",
		category:    models.GoalCategoryFinance,
		color:       0xFFFF9800,
		icon:        "savings",
		milestones:  []string{"Track expenses for 3 months", "Build an emergency fund", "Pay off a debt"},
	},
}

type defaultTask struct {
	title       string
	description string
	priority    models.TaskPriority
	hour        int
	tag         string
}

var defaultTasks = []defaultTask{
	{"Plan my goals", "Outline the key achievements for this year", models.PriorityHigh, 9, "personal"},
	{"Check weekly grocery", "Milk, fruits and vegetables", models.PriorityMedium, 18, "shopping"},
	{"Morning focused work block", "Complete the most important task of the day", models.PriorityUrgent, 10, "office"},
	{"Evening walk or exercise", "Stay healthy and active", models.PriorityLow, 19, "health"},
}

// SeedDefaults populates default goals and starter tasks on the first launch of
// a device that has not completed onboarding. It is idempotent through the
// first-launch flag and never overwrites existing records. It reports whether
// anything was seeded.
func (s *Store) SeedDefaults() (bool, error) {
	done, err := s.IsFirstLaunchDone()
	if err != nil {
		return false, err
	}
	if done {
		return false, nil
	}
	onboarded, err := s.IsOnboardingComplete()
	if err != nil {
		return false, err
	}

	seeded := false
	if !onboarded {
		nowMs := s.nowMillis()

		goals, err := s.Goals.GetAll()
		if err != nil {
			return false, err
		}
		if len(goals) == 0 {
			if err := s.Goals.SaveAll(buildDefaultGoals(nowMs)); err != nil {
				return false, err
			}
			seeded = true
		}

		tasks, err := s.Tasks.GetAll()
		if err != nil {
			return false, err
		}
		if len(tasks) == 0 {
			today := utils.StartOfDay(nowMs, s.loc)
			if err := s.Tasks.SaveAll(buildDefaultTasks(today, nowMs, s.loc)); err != nil {
				return false, err
			}
			seeded = true
		}
	}

	return seeded, s.SetFirstLaunchDone()
}

func buildDefaultGoals(now int64) []models.Goal {
	goals := make([]models.Goal, 0, len(defaultGoals))
	for _, d := range defaultGoals {
		milestones := make([]models.Milestone, 0, len(d.milestones))
		for _, title := range d.milestones {
			milestones = append(milestones, models.Milestone{ID: uuid.New().String(), Title: title})
		}
		goals = append(goals, models.Goal{
			ID:          uuid.New().String(),
			Title:       d.title,
			Description: d.description,
			Category:    d.category,
			Color:       d.color,
			Icon:        d.icon,
			Milestones:  milestones,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
	return goals
}

func buildDefaultTasks(today, now int64, loc *time.Location) []models.Task {
	tasks := make([]models.Task, 0, len(defaultTasks))
	for _, d := range defaultTasks {
		day := utils.FromMillis(today, loc)
		dueMs := time.Date(day.Year(), day.Month(), day.Day(), d.hour, 0, 0, 0, loc).UnixMilli()
		tasks = append(tasks, models.Task{
			ID:          uuid.New().String(),
			Title:       d.title,
			Description: d.description,
			Priority:    d.priority,
			DueDate:     &dueMs,
			Tags:        []string{d.tag},
			RepeatType:  models.RepeatNone,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
	return tasks
}
