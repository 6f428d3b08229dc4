package reminders

import (
	"fmt"

	"github.com/julianstephens/planner/internal/cli"
)

type ReminderDeleteCmd struct {
	ID string `arg:"" help:"Reminder ID or prefix to delete."`
}

func (c *ReminderDeleteCmd) Run(ctx *cli.Context) error {
	reminder, err := cli.Resolve(ctx.Store.Reminders, c.ID)
	if err != nil {
		return fmt.Errorf("reminder not found: %w", err)
	}

	if _, err := ctx.Store.Reminders.Delete(reminder.ID); err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}

	fmt.Printf("✓ Reminder deleted: %s at %s\n", reminder.Title, cli.FormatDateTime(reminder.ReminderTime, ctx.Store.Location()))
	return nil
}
