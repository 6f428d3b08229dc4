package stats

import (
	"time"

	"github.com/julianstephens/planner/internal/models"
	"github.com/julianstephens/planner/internal/utils"
)

// DashboardStats builds the home-screen summary. Streaks run over the days on
// which any habit was completed; overall progress is the unweighted mean of
// goal progress.
func DashboardStats(goals []models.Goal, tasks []models.Task, habitEntries []models.HabitEntry, now time.Time) models.DashboardStats {
	stats := models.DashboardStats{TotalGoals: len(goals)}

	var progressSum float32
	for _, g := range goals {
		stats.TotalMilestones += len(g.Milestones)
		stats.CompletedMilestones += g.CompletedMilestones()
		progressSum += g.ComputeProgress()
	}
	if len(goals) > 0 {
		stats.OverallProgress = progressSum / float32(len(goals))
	}

	start, end := utils.DayBounds(now.UnixMilli(), now.Location())
	for _, t := range tasks {
		if t.DueDate == nil || !utils.InRange(*t.DueDate, start, end) {
			continue
		}
		stats.TotalTasksToday++
		if t.IsCompleted {
			stats.TasksCompletedToday++
		}
	}

	stats.CurrentStreak, stats.LongestStreak = Streaks(completedDays("", habitEntries), now)
	return stats
}

// TodayCompletion returns the fraction of today's tasks that are done.
func TodayCompletion(s models.DashboardStats) float64 {
	return ratio(s.TasksCompletedToday, s.TotalTasksToday)
}
