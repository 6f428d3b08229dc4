package reminders

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/planner/internal/cli"
	"github.com/julianstephens/planner/internal/models"
	"github.com/julianstephens/planner/internal/utils"
)

type ReminderCmd struct {
	Add    ReminderAddCmd    `cmd:"" help:"Add a reminder."`
	List   ReminderListCmd   `cmd:"" help:"List reminders."`
	Toggle ReminderToggleCmd `cmd:"" help:"Enable or disable a reminder."`
	Done   ReminderDoneCmd   `cmd:"" help:"Mark a reminder as completed."`
	Delete ReminderDeleteCmd `cmd:"" help:"Delete a reminder."`
}

type ReminderAddCmd struct {
	Title       string `arg:"" help:"Reminder title."`
	Date        string `help:"Date for the reminder (YYYY-MM-DD, today, tomorrow)." default:"today"`
	Time        string `help:"Time for the reminder (HH:MM)." required:""`
	Description string `short:"d" help:"Reminder description."`
	Goal        string `short:"g" help:"Linked goal ID or prefix."`
	Color       int    `help:"Color index into the note palette (0-5)." default:"4"`
}

func (c *ReminderAddCmd) Validate() error {
	if !utils.ValidateTimeFormat(c.Time) {
		return fmt.Errorf("invalid time format (expected HH:MM): %s", c.Time)
	}
	if c.Color < 0 || c.Color >= len(models.NoteColors) {
		return fmt.Errorf("color must be between 0 and %d", len(models.NoteColors)-1)
	}
	return nil
}

func (c *ReminderAddCmd) Run(ctx *cli.Context) error {
	if err := c.Validate(); err != nil {
		return err
	}

	loc := ctx.Store.Location()
	day, err := cli.ParseDate(c.Date, ctx.Store.Now())
	if err != nil {
		return err
	}
	at, err := cli.AtTime(day, c.Time, loc)
	if err != nil {
		return err
	}

	now := ctx.Store.Now().UnixMilli()
	reminder := models.Reminder{
		ID:           uuid.New().String(),
		Title:        strings.TrimSpace(c.Title),
		Description:  c.Description,
		ReminderTime: at,
		IsEnabled:    true,
		Color:        models.NoteColors[c.Color],
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if c.Goal != "" {
		goal, err := cli.Resolve(ctx.Store.Goals, c.Goal)
		if err != nil {
			return err
		}
		reminder.LinkedGoalID = goal.ID
	}

	if err := reminder.Validate(); err != nil {
		return fmt.Errorf("invalid reminder: %w", err)
	}
	if err := ctx.Store.Reminders.Add(reminder); err != nil {
		return fmt.Errorf("failed to add reminder: %w", err)
	}

	fmt.Printf("✓ Reminder added: %s at %s\n", reminder.Title, cli.FormatDateTime(at, loc))
	return nil
}

type ReminderToggleCmd struct {
	ID string `arg:"" help:"Reminder ID or prefix."`
}

func (c *ReminderToggleCmd) Run(ctx *cli.Context) error {
	reminder, err := cli.Resolve(ctx.Store.Reminders, c.ID)
	if err != nil {
		return err
	}
	if _, err := ctx.Store.ToggleReminderEnabled(reminder.ID); err != nil {
		return err
	}

	state := "enabled"
	if reminder.IsEnabled {
		state = "disabled"
	}
	fmt.Printf("✓ Reminder %s: %s\n", state, reminder.Title)
	return nil
}

type ReminderDoneCmd struct {
	ID string `arg:"" help:"Reminder ID or prefix."`
}

func (c *ReminderDoneCmd) Run(ctx *cli.Context) error {
	reminder, err := cli.Resolve(ctx.Store.Reminders, c.ID)
	if err != nil {
		return err
	}

	reminder.IsCompleted = !reminder.IsCompleted
	reminder.UpdatedAt = ctx.Store.Now().UnixMilli()
	if _, err := ctx.Store.Reminders.Update(reminder); err != nil {
		return err
	}
	fmt.Printf("%s %s\n", cli.Check(reminder.IsCompleted), reminder.Title)
	return nil
}
