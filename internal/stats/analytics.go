package stats

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/julianstephens/planner/internal/models"
	"github.com/julianstephens/planner/internal/utils"
)

// AnalyticsInput is the set of collections the analytics view reads.
type AnalyticsInput struct {
	Tasks          []models.Task
	Habits         []models.Habit
	HabitEntries   []models.HabitEntry
	JournalEntries []models.JournalEntry
	Transactions   []models.Transaction
}

// Analytics computes per-day series over the inclusive range [start, end].
// Task completions and spending carry one point per day; the mood trend only
// has points on days with journal entries.
func Analytics(start, end int64, loc *time.Location, in AnalyticsInput) models.AnalyticsData {
	data := models.AnalyticsData{
		Start:           start,
		End:             end,
		TaskCompletions: []models.DayValue{},
		MoodTrend:       []models.DayValue{},
		Spending:        []models.DayValue{},
	}
	if end < start {
		return data
	}

	firstDay := utils.StartOfDay(start, loc)
	var days []int64
	for d := firstDay; d <= end; d = utils.AddDays(d, 1, loc) {
		days = append(days, d)
	}

	completions := make(map[int64]int)
	for _, t := range in.Tasks {
		if t.IsCompleted && t.CompletedAt != nil && utils.InRange(*t.CompletedAt, start, end) {
			completions[utils.StartOfDay(*t.CompletedAt, loc)]++
		}
	}

	spending := make(map[int64]decimal.Decimal)
	for _, t := range in.Transactions {
		if t.Type == models.TransactionExpense && utils.InRange(t.Date, start, end) {
			day := utils.StartOfDay(t.Date, loc)
			spending[day] = spending[day].Add(t.Amount)
		}
	}

	for _, d := range days {
		data.TaskCompletions = append(data.TaskCompletions, models.DayValue{Day: d, Value: float64(completions[d])})
		data.Spending = append(data.Spending, models.DayValue{Day: d, Value: spending[d].InexactFloat64()})
	}

	type moodAcc struct{ sum, n int }
	moods := make(map[int64]*moodAcc)
	for _, e := range in.JournalEntries {
		ord := e.Mood.Ordinal()
		if ord < 0 || !utils.InRange(e.Date, start, end) {
			continue
		}
		day := utils.StartOfDay(e.Date, loc)
		acc, ok := moods[day]
		if !ok {
			acc = &moodAcc{}
			moods[day] = acc
		}
		acc.sum += ord
		acc.n++
	}
	for _, d := range days {
		if acc, ok := moods[d]; ok {
			data.MoodTrend = append(data.MoodTrend, models.DayValue{Day: d, Value: ratio(acc.sum, acc.n)})
		}
	}

	data.HabitCompletionRate = habitCompletionRate(in.Habits, in.HabitEntries, start, end, len(days), loc)
	return data
}

// habitCompletionRate is completed (habit, day) pairs over habits times days.
func habitCompletionRate(habits []models.Habit, entries []models.HabitEntry, start, end int64, numDays int, loc *time.Location) float64 {
	known := make(map[string]struct{}, len(habits))
	for _, h := range habits {
		known[h.ID] = struct{}{}
	}

	type habitDay struct {
		habitID string
		day     int64
	}
	done := make(map[habitDay]struct{})
	for _, e := range entries {
		if !e.IsCompleted || !utils.InRange(e.Date, start, end) {
			continue
		}
		if _, ok := known[e.HabitID]; !ok {
			continue
		}
		done[habitDay{e.HabitID, utils.StartOfDay(e.Date, loc)}] = struct{}{}
	}
	return ratio(len(done), len(habits)*numDays)
}
