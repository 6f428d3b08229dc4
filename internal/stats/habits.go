package stats

import (
	"time"

	"github.com/julianstephens/planner/internal/models"
	"github.com/julianstephens/planner/internal/utils"
)

// completedDays returns the timestamps of completed entries belonging to habitID.
// An empty habitID matches every habit.
func completedDays(habitID string, entries []models.HabitEntry) []int64 {
	var out []int64
	for _, e := range entries {
		if !e.IsCompleted {
			continue
		}
		if habitID != "" && e.HabitID != habitID {
			continue
		}
		out = append(out, e.Date)
	}
	return out
}

// HabitStats summarises one habit. Completions are counted once per day, and
// the completion rate is completed days over calendar days since creation
// (at least one), capped at 1.
func HabitStats(habit models.Habit, entries []models.HabitEntry, now time.Time) models.HabitStats {
	loc := now.Location()
	days := DistinctDays(completedDays(habit.ID, entries), loc)

	stats := models.HabitStats{HabitID: habit.ID}
	stats.CurrentStreak, stats.LongestStreak = Streaks(days, now)
	stats.TotalCompletions = len(days)

	totalDays := 1
	if habit.CreatedAt > 0 {
		if n := utils.DaysBetween(habit.CreatedAt, now.UnixMilli(), loc) + 1; n > totalDays {
			totalDays = n
		}
	}
	stats.TotalDays = totalDays
	stats.CompletionRate = min(ratio(stats.TotalCompletions, totalDays), 1)

	if len(days) > 0 {
		var last int64
		for _, e := range entries {
			if e.HabitID == habit.ID && e.IsCompleted && e.Date > last {
				last = e.Date
			}
		}
		stats.LastCompletedDate = &last
	}
	return stats
}

// HabitCalendar maps each day start in the given month to the habit's entry
// for that day. When a day holds more than one entry the earliest in the slice
// wins, which is the most recently added one in store order.
func HabitCalendar(habitID string, entries []models.HabitEntry, year int, month time.Month, loc *time.Location) map[int64]models.HabitEntry {
	start, end := utils.MonthBounds(year, month, loc)
	calendar := make(map[int64]models.HabitEntry)
	for _, e := range entries {
		if e.HabitID != habitID || !utils.InRange(e.Date, start, end) {
			continue
		}
		day := utils.StartOfDay(e.Date, loc)
		if _, ok := calendar[day]; ok {
			continue
		}
		calendar[day] = e
	}
	return calendar
}
