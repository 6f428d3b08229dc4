package reminders

import (
	"fmt"
	"strings"

	"github.com/julianstephens/planner/internal/cli"
	"github.com/julianstephens/planner/internal/models"
	"github.com/julianstephens/planner/internal/stats"
)

type ReminderListCmd struct {
	Date     string `help:"Only reminders on this day (YYYY-MM-DD, today, tomorrow)."`
	Upcoming bool   `help:"Only the next few enabled reminders."`
}

func (c *ReminderListCmd) Run(ctx *cli.Context) error {
	var (
		reminders []models.Reminder
		err       error
	)
	switch {
	case c.Upcoming:
		all, aerr := ctx.Store.Reminders.GetAll()
		if aerr != nil {
			return fmt.Errorf("failed to get reminders: %w", aerr)
		}
		reminders = stats.UpcomingReminders(all, ctx.Store.Now())
	case c.Date != "":
		day, perr := cli.ParseDate(c.Date, ctx.Store.Now())
		if perr != nil {
			return perr
		}
		reminders, err = ctx.Store.RemindersForDate(day)
	default:
		reminders, err = ctx.Store.Reminders.GetAll()
	}
	if err != nil {
		return fmt.Errorf("failed to get reminders: %w", err)
	}

	if len(reminders) == 0 {
		fmt.Println("No reminders configured.")
		return nil
	}

	loc := ctx.Store.Location()
	fmt.Printf("%-8s %-30s %-16s %-8s %-6s\n", "ID", "Title", "When", "Enabled", "Done")
	fmt.Println(strings.Repeat("-", 72))

	for _, r := range reminders {
		title := r.Title
		if len(title) > 28 {
			title = title[:25] + "..."
		}

		enabled := "yes"
		if !r.IsEnabled {
			enabled = "no"
		}

		fmt.Printf("%-8s %-30s %-16s %-8s %-6s\n",
			cli.ShortID(r.ID), title, cli.FormatDateTime(r.ReminderTime, loc), enabled, cli.Check(r.IsCompleted))
	}
	return nil
}
