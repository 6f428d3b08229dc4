package tasks

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/planner/internal/cli"
	"github.com/julianstephens/planner/internal/models"
)

type TaskEditCmd struct {
	ID          string  `arg:"" help:"Task ID or prefix."`
	Title       *string `help:"New task title."`
	Description *string `short:"d" help:"New description."`
	Priority    *string `short:"p" help:"New priority (low|medium|high|urgent)."`
	Due         *string `help:"New due date. Pass \"none\" to clear it."`
	Goal        *string `short:"g" help:"New linked goal ID. Pass \"none\" to unlink."`
	Tags        *string `short:"t" help:"Replace tags with this comma-separated list."`
	Repeat      *string `short:"r" help:"New repeat type (none|daily|weekly|monthly|yearly)."`
}

func (c *TaskEditCmd) Run(ctx *cli.Context) error {
	task, err := cli.Resolve(ctx.Store.Tasks, c.ID)
	if err != nil {
		return err
	}

	if c.Title != nil {
		task.Title = strings.TrimSpace(*c.Title)
	}
	if c.Description != nil {
		task.Description = *c.Description
	}
	if c.Priority != nil {
		p, err := models.ParsePriority(*c.Priority)
		if err != nil {
			return err
		}
		task.Priority = p
	}
	if c.Due != nil {
		if strings.EqualFold(*c.Due, "none") {
			task.DueDate = nil
		} else {
			due, err := cli.ParseDate(*c.Due, ctx.Store.Now())
			if err != nil {
				return err
			}
			task.DueDate = &due
		}
	}
	if c.Goal != nil {
		if strings.EqualFold(*c.Goal, "none") {
			task.LinkedGoalID = ""
		} else {
			goal, err := cli.Resolve(ctx.Store.Goals, *c.Goal)
			if err != nil {
				return err
			}
			task.LinkedGoalID = goal.ID
		}
	}
	if c.Tags != nil {
		task.Tags = cli.ParseTags(*c.Tags)
	}
	if c.Repeat != nil {
		r, err := models.ParseRepeatType(*c.Repeat)
		if err != nil {
			return err
		}
		task.RepeatType = r
	}

	if err := task.Validate(); err != nil {
		return fmt.Errorf("invalid task: %w", err)
	}
	if err := ctx.Store.SaveTask(task); err != nil {
		return err
	}

	fmt.Printf("Updated task: %s (ID: %s)\n", task.Title, cli.ShortID(task.ID))
	return nil
}

type TaskDoneCmd struct {
	ID string `arg:"" help:"Task ID or prefix."`
}

func (c *TaskDoneCmd) Run(ctx *cli.Context) error {
	task, err := cli.Resolve(ctx.Store.Tasks, c.ID)
	if err != nil {
		return err
	}
	if _, err := ctx.Store.ToggleTaskCompletion(task.ID); err != nil {
		return err
	}

	if task.IsCompleted {
		fmt.Printf("Reopened task: %s\n", task.Title)
	} else {
		fmt.Printf("Completed task: %s\n", task.Title)
	}
	return nil
}

type SubtaskCmd struct {
	Add    SubtaskAddCmd    `cmd:"" help:"Add a subtask."`
	Toggle SubtaskToggleCmd `cmd:"" help:"Toggle a subtask's completion."`
}

type SubtaskAddCmd struct {
	TaskID string `arg:"" help:"Task ID or prefix."`
	Title  string `arg:"" help:"Subtask title."`
}

func (c *SubtaskAddCmd) Run(ctx *cli.Context) error {
	task, err := cli.Resolve(ctx.Store.Tasks, c.TaskID)
	if err != nil {
		return err
	}
	title := strings.TrimSpace(c.Title)
	if title == "" {
		return fmt.Errorf("subtask title cannot be empty")
	}

	task.Subtasks = append(task.Subtasks, models.Subtask{ID: uuid.New().String(), Title: title})
	if err := ctx.Store.SaveTask(task); err != nil {
		return err
	}
	fmt.Printf("Added subtask %q to %s\n", title, task.Title)
	return nil
}

type SubtaskToggleCmd struct {
	TaskID string `arg:"" help:"Task ID or prefix."`
	Index  int    `arg:"" help:"Subtask number as shown by 'task list --subtasks' (1-based)."`
}

func (c *SubtaskToggleCmd) Run(ctx *cli.Context) error {
	task, err := cli.Resolve(ctx.Store.Tasks, c.TaskID)
	if err != nil {
		return err
	}
	if c.Index < 1 || c.Index > len(task.Subtasks) {
		return fmt.Errorf("subtask number must be between 1 and %d", len(task.Subtasks))
	}

	now := ctx.Store.Now().UnixMilli()
	sub := &task.Subtasks[c.Index-1]
	sub.IsCompleted = !sub.IsCompleted
	if sub.IsCompleted {
		sub.CompletedAt = &now
	} else {
		sub.CompletedAt = nil
	}

	if err := ctx.Store.SaveTask(task); err != nil {
		return err
	}
	fmt.Printf("%s %s\n", cli.Check(sub.IsCompleted), sub.Title)
	return nil
}
