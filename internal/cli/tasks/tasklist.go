package tasks

import (
	"fmt"
	"strings"

	"github.com/julianstephens/planner/internal/cli"
	"github.com/julianstephens/planner/internal/models"
	"github.com/julianstephens/planner/internal/utils"
)

type TaskListCmd struct {
	Date     string `help:"Only tasks due on this day (YYYY-MM-DD, today, tomorrow)."`
	Goal     string `short:"g" help:"Only tasks linked to this goal."`
	Tag      string `help:"Only tasks carrying this tag."`
	Pending  bool   `help:"Hide completed tasks."`
	Subtasks bool   `help:"Show subtasks."`
	ShowIDs  bool   `help:"Show full task IDs." name:"show-ids"`
}

func (c *TaskListCmd) Run(ctx *cli.Context) error {
	var (
		tasks []models.Task
		err   error
	)
	switch {
	case c.Date != "":
		day, perr := cli.ParseDate(c.Date, ctx.Store.Now())
		if perr != nil {
			return perr
		}
		tasks, err = ctx.Store.TasksForDate(day)
	case c.Goal != "":
		goal, rerr := cli.Resolve(ctx.Store.Goals, c.Goal)
		if rerr != nil {
			return rerr
		}
		tasks, err = ctx.Store.TasksForGoal(goal.ID)
	default:
		tasks, err = ctx.Store.Tasks.GetAll()
	}
	if err != nil {
		return fmt.Errorf("failed to get tasks: %w", err)
	}

	loc := ctx.Store.Location()
	shown := 0
	for _, task := range tasks {
		if c.Pending && task.IsCompleted {
			continue
		}
		if c.Tag != "" && !hasTag(task.Tags, c.Tag) {
			continue
		}
		if shown == 0 {
			fmt.Println("Tasks:")
		}
		shown++

		id := cli.ShortID(task.ID)
		if c.ShowIDs {
			id = task.ID
		}

		due := ""
		if task.DueDate != nil {
			due = " due " + utils.FormatDay(*task.DueDate, loc)
		}
		tags := ""
		if len(task.Tags) > 0 {
			tags = " #" + strings.Join(task.Tags, " #")
		}

		fmt.Printf("  %s %s %s%s%s\n",
			cli.Check(task.IsCompleted),
			cli.MutedStyle.Render(id),
			cli.ColorStyle(task.Priority.Color()).Render(task.Title),
			cli.MutedStyle.Render(fmt.Sprintf(" [%s]%s", strings.ToLower(string(task.Priority)), due)),
			cli.MutedStyle.Render(tags))

		if c.Subtasks {
			for i, sub := range task.Subtasks {
				fmt.Printf("      %d. %s %s\n", i+1, cli.Check(sub.IsCompleted), sub.Title)
			}
		}
	}

	if shown == 0 {
		fmt.Println("No tasks found")
	}
	return nil
}

func hasTag(tags []string, want string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, want) {
			return true
		}
	}
	return false
}
