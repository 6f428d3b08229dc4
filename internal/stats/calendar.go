package stats

import (
	"sort"
	"time"

	"github.com/julianstephens/planner/internal/constants"
	"github.com/julianstephens/planner/internal/models"
	"github.com/julianstephens/planner/internal/utils"
)

const noteExcerptLength = 100

// ItemsForDate merges the tasks, events, reminders and reminder-bearing notes
// that fall on date's day into one list ordered by time.
func ItemsForDate(date int64, loc *time.Location, tasks []models.Task, events []models.CalendarEvent, reminders []models.Reminder, notes []models.Note) []models.CalendarItem {
	start, end := utils.DayBounds(date, loc)
	items := []models.CalendarItem{}

	for _, t := range tasks {
		if t.DueDate == nil || !utils.InRange(*t.DueDate, start, end) {
			continue
		}
		items = append(items, models.CalendarItem{
			ID:           t.ID,
			Title:        t.Title,
			Description:  t.Description,
			Date:         *t.DueDate,
			Type:         models.CalendarItemTask,
			Color:        t.Priority.Color(),
			IsCompleted:  t.IsCompleted,
			LinkedGoalID: t.LinkedGoalID,
		})
	}

	for _, e := range events {
		if !utils.InRange(e.Date, start, end) {
			continue
		}
		items = append(items, models.CalendarItem{
			ID:           e.ID,
			Title:        e.Title,
			Description:  e.Description,
			Date:         e.Date,
			Type:         models.CalendarItemEvent,
			Color:        e.Color,
			LinkedGoalID: e.LinkedGoalID,
		})
	}

	for _, r := range reminders {
		if !utils.InRange(r.ReminderTime, start, end) {
			continue
		}
		items = append(items, models.CalendarItem{
			ID:           r.ID,
			Title:        r.Title,
			Description:  r.Description,
			Date:         r.ReminderTime,
			Type:         models.CalendarItemReminder,
			Color:        r.Color,
			IsCompleted:  r.IsCompleted,
			LinkedGoalID: r.LinkedGoalID,
		})
	}

	for _, n := range notes {
		if !n.HasReminder() || !utils.InRange(*n.ReminderTime, start, end) {
			continue
		}
		items = append(items, models.CalendarItem{
			ID:           n.ID,
			Title:        n.Title,
			Description:  excerpt(n.Content, noteExcerptLength),
			Date:         *n.ReminderTime,
			Type:         models.CalendarItemNote,
			Color:        n.Color,
			LinkedGoalID: n.LinkedGoalID,
		})
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].Date < items[j].Date })
	return items
}

// UpcomingReminders returns enabled, open reminders due at or after now,
// soonest first.
func UpcomingReminders(reminders []models.Reminder, now time.Time) []models.Reminder {
	nowMs := now.UnixMilli()
	upcoming := []models.Reminder{}
	for _, r := range reminders {
		if r.IsEnabled && !r.IsCompleted && r.ReminderTime >= nowMs {
			upcoming = append(upcoming, r)
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool { return upcoming[i].ReminderTime < upcoming[j].ReminderTime })
	if len(upcoming) > constants.UpcomingLimit {
		upcoming = upcoming[:constants.UpcomingLimit]
	}
	return upcoming
}

// excerpt truncates s to n runes.
func excerpt(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
