package tasks

import (
	"fmt"

	"github.com/julianstephens/planner/internal/cli"
)

type TaskDeleteCmd struct {
	ID  string `arg:"" help:"Task ID or prefix to delete."`
	Yes bool   `short:"y" help:"Skip confirmation."`
}

func (c *TaskDeleteCmd) Run(ctx *cli.Context) error {
	task, err := cli.Resolve(ctx.Store.Tasks, c.ID)
	if err != nil {
		return fmt.Errorf("failed to find task with ID %s: %w", c.ID, err)
	}

	ok, err := cli.Confirm(fmt.Sprintf("Delete task %q?", task.Title), "This cannot be undone.", c.Yes)
	if err != nil || !ok {
		return err
	}

	if _, err := ctx.Store.Tasks.Delete(task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	fmt.Printf("Deleted task: %s (ID: %s)\n", task.Title, cli.ShortID(task.ID))
	return nil
}
