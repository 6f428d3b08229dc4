package calendar

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/planner/internal/cli"
	"github.com/julianstephens/planner/internal/models"
	"github.com/julianstephens/planner/internal/utils"
)

type EventCmd struct {
	Add    EventAddCmd    `cmd:"" help:"Add a calendar event."`
	List   EventListCmd   `cmd:"" help:"List events in a date range."`
	Delete EventDeleteCmd `cmd:"" help:"Delete an event."`
}

type EventAddCmd struct {
	Title       string `arg:"" help:"Event title."`
	Date        string `help:"Event date (YYYY-MM-DD, today, tomorrow)." default:"today"`
	Start       string `short:"s" help:"Start time (HH:MM). Omit for an all-day event."`
	End         string `short:"e" help:"End time (HH:MM)."`
	Description string `short:"d" help:"Event description."`
	Goal        string `short:"g" help:"Linked goal ID or prefix."`
	Task        string `help:"Linked task ID or prefix."`
}

func (c *EventAddCmd) Validate() error {
	if c.Start != "" && !utils.ValidateTimeFormat(c.Start) {
		return fmt.Errorf("invalid start time format (expected HH:MM): %s", c.Start)
	}
	if c.End != "" && !utils.ValidateTimeFormat(c.End) {
		return fmt.Errorf("invalid end time format (expected HH:MM): %s", c.End)
	}
	if c.End != "" && c.Start == "" {
		return fmt.Errorf("--end requires --start")
	}
	return nil
}

func (c *EventAddCmd) Run(ctx *cli.Context) error {
	if err := c.Validate(); err != nil {
		return err
	}

	loc := ctx.Store.Location()
	day, err := cli.ParseDate(c.Date, ctx.Store.Now())
	if err != nil {
		return err
	}
	day = utils.StartOfDay(day, loc)

	event := models.CalendarEvent{
		ID:          uuid.New().String(),
		Title:       strings.TrimSpace(c.Title),
		Description: c.Description,
		Date:        day,
		Color:       0xFF2196F3,
		IsAllDay:    c.Start == "",
		CreatedAt:   ctx.Store.Now().UnixMilli(),
	}

	if c.Start != "" {
		start, err := cli.AtTime(day, c.Start, loc)
		if err != nil {
			return err
		}
		event.StartTime = &start
		event.Date = start
	}
	if c.End != "" {
		end, err := cli.AtTime(day, c.End, loc)
		if err != nil {
			return err
		}
		event.EndTime = &end
	}

	if c.Goal != "" {
		goal, err := cli.Resolve(ctx.Store.Goals, c.Goal)
		if err != nil {
			return err
		}
		event.LinkedGoalID = goal.ID
	}
	if c.Task != "" {
		task, err := cli.Resolve(ctx.Store.Tasks, c.Task)
		if err != nil {
			return err
		}
		event.LinkedTaskID = task.ID
	}

	if err := event.Validate(); err != nil {
		return fmt.Errorf("invalid event: %w", err)
	}
	if err := ctx.Store.Events.Add(event); err != nil {
		return err
	}

	fmt.Printf("Added event: %s on %s (ID: %s)\n", event.Title, utils.FormatDay(day, loc), cli.ShortID(event.ID))
	return nil
}

type EventListCmd struct {
	From string `help:"First day (YYYY-MM-DD, today)." default:"today"`
	Days int    `help:"Number of days to show." default:"7"`
}

func (c *EventListCmd) Run(ctx *cli.Context) error {
	if c.Days < 1 {
		return fmt.Errorf("days must be at least 1")
	}

	loc := ctx.Store.Location()
	from, err := cli.ParseDate(c.From, ctx.Store.Now())
	if err != nil {
		return err
	}
	start := utils.StartOfDay(from, loc)
	end := utils.AddDays(start, c.Days, loc) - 1

	events, err := ctx.Store.EventsForRange(start, end)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Println("No events found.")
		return nil
	}

	for _, e := range events {
		fmt.Printf("%s  %s  %-16s %s\n",
			cli.MutedStyle.Render(cli.ShortID(e.ID)),
			utils.FormatDay(e.Date, loc),
			eventSpan(e, loc),
			cli.ColorStyle(e.Color).Render(e.Title))
	}
	return nil
}

type EventDeleteCmd struct {
	ID string `arg:"" help:"Event ID or prefix."`
}

func (c *EventDeleteCmd) Run(ctx *cli.Context) error {
	event, err := cli.Resolve(ctx.Store.Events, c.ID)
	if err != nil {
		return err
	}
	if _, err := ctx.Store.Events.Delete(event.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted event: %s\n", event.Title)
	return nil
}
