package tasks

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/planner/internal/cli"
	"github.com/julianstephens/planner/internal/models"
)

type TaskCmd struct {
	Add     TaskAddCmd    `cmd:"" help:"Add a new task."`
	List    TaskListCmd   `cmd:"" help:"List tasks."`
	Edit    TaskEditCmd   `cmd:"" help:"Edit an existing task."`
	Done    TaskDoneCmd   `cmd:"" help:"Toggle a task's completion."`
	Subtask SubtaskCmd    `cmd:"" help:"Manage subtasks."`
	Delete  TaskDeleteCmd `cmd:"" help:"Delete a task."`
}

type TaskAddCmd struct {
	Title       string   `arg:"" help:"Task title."`
	Description string   `short:"d" help:"Task description."`
	Priority    string   `short:"p" help:"Priority (low|medium|high|urgent)." default:"medium"`
	Due         string   `help:"Due date (YYYY-MM-DD, \"YYYY-MM-DD HH:MM\", today, tomorrow)."`
	Goal        string   `short:"g" help:"Linked goal ID or prefix."`
	Tags        string   `short:"t" help:"Comma-separated tags."`
	Repeat      string   `short:"r" help:"Repeat type (none|daily|weekly|monthly|yearly)." default:"none"`
	Subtasks    []string `short:"s" help:"Subtask titles, comma separated." sep:","`
}

func (c *TaskAddCmd) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("task title cannot be empty")
	}
	if _, err := models.ParsePriority(c.Priority); err != nil {
		return err
	}
	if _, err := models.ParseRepeatType(c.Repeat); err != nil {
		return err
	}
	return nil
}

func (c *TaskAddCmd) Run(ctx *cli.Context) error {
	priority, err := models.ParsePriority(c.Priority)
	if err != nil {
		return err
	}
	repeat, err := models.ParseRepeatType(c.Repeat)
	if err != nil {
		return err
	}

	task := models.Task{
		ID:          uuid.New().String(),
		Title:       strings.TrimSpace(c.Title),
		Description: c.Description,
		Priority:    priority,
		Tags:        cli.ParseTags(c.Tags),
		RepeatType:  repeat,
	}

	if c.Due != "" {
		due, err := cli.ParseDate(c.Due, ctx.Store.Now())
		if err != nil {
			return err
		}
		task.DueDate = &due
	}

	if c.Goal != "" {
		goal, err := cli.Resolve(ctx.Store.Goals, c.Goal)
		if err != nil {
			return err
		}
		task.LinkedGoalID = goal.ID
	}

	for _, title := range c.Subtasks {
		if title = strings.TrimSpace(title); title != "" {
			task.Subtasks = append(task.Subtasks, models.Subtask{ID: uuid.New().String(), Title: title})
		}
	}

	if err := task.Validate(); err != nil {
		return fmt.Errorf("invalid task: %w", err)
	}

	if err := ctx.Store.SaveTask(task); err != nil {
		return err
	}

	fmt.Printf("Added task: %s (ID: %s)\n", task.Title, cli.ShortID(task.ID))
	return nil
}
