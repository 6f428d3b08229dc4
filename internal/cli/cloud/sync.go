package cloud

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julianstephens/planner/internal/cli"
	"github.com/julianstephens/planner/internal/cloudsync"
	"github.com/julianstephens/planner/internal/logger"
)

type SyncCmd struct {
	Push   SyncPushCmd   `cmd:"" help:"Upload a snapshot to the remote."`
	Pull   SyncPullCmd   `cmd:"" help:"Replace local data with the remote snapshot."`
	Status SyncStatusCmd `cmd:"" help:"Show remote and last sync time."`
	Daemon SyncDaemonCmd `cmd:"" help:"Push on an interval until interrupted."`
}

func report(o cloudsync.Outcome) error {
	switch o.Status {
	case cloudsync.Synced:
		fmt.Printf("✓ %s\n", o.Message)
		return nil
	case cloudsync.Skipped:
		fmt.Printf("⊘ SKIPPED: %s\n", o.Message)
		return nil
	default:
		return fmt.Errorf("%s: %w", o.Message, o.Err)
	}
}

type SyncPushCmd struct{}

func (c *SyncPushCmd) Run(ctx *cli.Context) error {
	orch, closeFn, err := ctx.Orchestrator(context.Background())
	if err != nil {
		return err
	}
	defer closeFn()
	return report(orch.SyncToCloud(context.Background()))
}

type SyncPullCmd struct {
	Yes bool `short:"y" help:"Skip the confirmation prompt."`
}

func (c *SyncPullCmd) Run(ctx *cli.Context) error {
	ok, err := cli.Confirm(
		"Pull from the remote?",
		"Local data is replaced by the remote snapshot. A backup is taken first.",
		c.Yes,
	)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Pull cancelled.")
		return nil
	}

	orch, closeFn, err := ctx.Orchestrator(context.Background())
	if err != nil {
		return err
	}
	defer closeFn()

	ctx.PerformAutomaticBackup(context.Background())
	return report(orch.SyncFromCloud(context.Background()))
}

type SyncStatusCmd struct{}

func (c *SyncStatusCmd) Run(ctx *cli.Context) error {
	orch, closeFn, err := ctx.Orchestrator(context.Background())
	if err != nil {
		return err
	}
	defer closeFn()

	r, err := orch.Status(context.Background())
	if err != nil {
		return err
	}

	fmt.Println(cli.TitleStyle.Render("Sync"))
	if r.Remote == "" {
		fmt.Println("Remote:    none configured")
	} else {
		online := cli.ErrorStyle.Render("offline")
		if r.Online {
			online = cli.SuccessStyle.Render("online")
		}
		fmt.Printf("Remote:    %s (%s)\n", r.Remote, online)
		if r.Online {
			fmt.Printf("Snapshot:  %v\n", r.RemoteExists)
		}
	}
	if r.LastSync == 0 {
		fmt.Println("Last sync: never")
	} else {
		fmt.Printf("Last sync: %s\n", cli.FormatDateTime(r.LastSync, ctx.Store.Location()))
	}
	fmt.Printf("State:     %s\n", r.State)
	return nil
}

type SyncDaemonCmd struct {
	Interval time.Duration `help:"Time between pushes. Defaults to sync.auto_sync_interval."`
}

func (c *SyncDaemonCmd) Run(ctx *cli.Context) error {
	interval := c.Interval
	if interval == 0 && ctx.Config != nil {
		interval = ctx.Config.Sync.AutoSyncInterval
	}
	if interval < time.Minute {
		return fmt.Errorf("interval must be at least 1m, got %s", interval)
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	orch, closeFn, err := ctx.Orchestrator(runCtx)
	if err != nil {
		return err
	}
	defer closeFn()

	sched := cloudsync.NewScheduler(orch, interval)
	sched.OnOutcome(func(o cloudsync.Outcome) {
		if o.Status == cloudsync.Failed {
			logger.Warn("Auto-sync failed", "message", o.Message, "error", o.Err)
		}
	})
	if err := sched.Start(runCtx); err != nil {
		return err
	}
	fmt.Printf("Syncing every %s. Press Ctrl+C to stop.\n", interval)

	<-runCtx.Done()
	sched.Stop()
	return nil
}
