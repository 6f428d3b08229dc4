package calendar

import (
	"fmt"
	"time"

	"github.com/julianstephens/planner/internal/cli"
	"github.com/julianstephens/planner/internal/models"
	"github.com/julianstephens/planner/internal/stats"
	"github.com/julianstephens/planner/internal/utils"
)

// NowCmd prints what is happening at the current moment and the next item today.
type NowCmd struct{}

func (c *NowCmd) Run(ctx *cli.Context) error {
	now := ctx.Store.Now()
	items, err := itemsForDay(ctx, now.UnixMilli())
	if err != nil {
		return err
	}

	nowMs := now.UnixMilli()
	events, err := ctx.Store.EventsForDate(nowMs)
	if err != nil {
		return err
	}

	var current *models.CalendarEvent
	for i := range events {
		e := events[i]
		if e.StartTime != nil && e.EndTime != nil && *e.StartTime <= nowMs && nowMs < *e.EndTime {
			current = &events[i]
			break
		}
	}

	if current == nil {
		fmt.Printf("Now (%02d:%02d): Free time\n", now.Hour(), now.Minute())
	} else {
		fmt.Printf("Now (%02d:%02d): You planned to be at:\n\n", now.Hour(), now.Minute())
		fmt.Printf("%s  %s\n", eventSpan(*current, now.Location()), current.Title)
	}

	for _, item := range items {
		if item.Date > nowMs && !item.IsCompleted {
			fmt.Printf("\nNext: %s %s (%s)\n", utils.FromMillis(item.Date, now.Location()).Format("15:04"), item.Title, itemLabel(item.Type))
			break
		}
	}
	return nil
}

// DayCmd is the unified day view.
type DayCmd struct {
	Date string `arg:"" optional:"" help:"Day to show (YYYY-MM-DD, today, tomorrow, yesterday)."`
}

func (c *DayCmd) Run(ctx *cli.Context) error {
	now := ctx.Store.Now()
	day, err := cli.ParseDate(c.Date, now)
	if err != nil {
		return err
	}

	items, err := itemsForDay(ctx, day)
	if err != nil {
		return err
	}

	loc := ctx.Store.Location()
	fmt.Println(cli.TitleStyle.Render(utils.FromMillis(day, loc).Format("Monday, January 2 2006")))
	if len(items) == 0 {
		fmt.Println("Nothing scheduled.")
	}
	for _, item := range items {
		fmt.Printf("  %s %s %-9s %s\n",
			utils.FromMillis(item.Date, loc).Format("15:04"),
			cli.Check(item.IsCompleted),
			cli.MutedStyle.Render(itemLabel(item.Type)),
			cli.ColorStyle(item.Color).Render(item.Title))
	}

	reminders, err := ctx.Store.Reminders.GetAll()
	if err != nil {
		return err
	}
	upcoming := stats.UpcomingReminders(reminders, now)
	if len(upcoming) > 0 {
		fmt.Println()
		fmt.Println(cli.HeaderStyle.Render("Upcoming reminders"))
		for _, r := range upcoming {
			fmt.Printf("  %s  %s\n", cli.FormatDateTime(r.ReminderTime, loc), r.Title)
		}
	}
	return nil
}

func itemsForDay(ctx *cli.Context, day int64) ([]models.CalendarItem, error) {
	tasks, err := ctx.Store.TasksForDate(day)
	if err != nil {
		return nil, err
	}
	events, err := ctx.Store.EventsForDate(day)
	if err != nil {
		return nil, err
	}
	reminders, err := ctx.Store.RemindersForDate(day)
	if err != nil {
		return nil, err
	}
	notes, err := ctx.Store.NotesWithRemindersForDate(day)
	if err != nil {
		return nil, err
	}
	return stats.ItemsForDate(day, ctx.Store.Location(), tasks, events, reminders, notes), nil
}

func itemLabel(t models.CalendarItemType) string {
	switch t {
	case models.CalendarItemTask:
		return "task"
	case models.CalendarItemEvent:
		return "event"
	case models.CalendarItemReminder:
		return "reminder"
	default:
		return "note"
	}
}

func eventSpan(e models.CalendarEvent, loc *time.Location) string {
	if e.IsAllDay || e.StartTime == nil {
		return "all day"
	}
	start := utils.FromMillis(*e.StartTime, loc).Format("15:04")
	if e.EndTime == nil {
		return start
	}
	return start + "–" + utils.FromMillis(*e.EndTime, loc).Format("15:04")
}
