package cloudsync

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/julianstephens/planner/internal/logger"
)

// Scheduler runs AutoSync on a fixed interval. A run still in flight when
// the next tick fires causes that tick to be skipped.
type Scheduler struct {
	orchestrator *Orchestrator
	cron         *cron.Cron
	interval     time.Duration
	onOutcome    func(Outcome)
}

func NewScheduler(orchestrator *Orchestrator, interval time.Duration) *Scheduler {
	return &Scheduler{
		orchestrator: orchestrator,
		cron:         cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		interval:     interval,
	}
}

// OnOutcome registers a callback invoked after every scheduled run.
func (s *Scheduler) OnOutcome(fn func(Outcome)) {
	s.onOutcome = fn
}

// Start schedules the job. Runs use ctx, so cancelling it aborts in-flight
// remote calls; Stop still has to be called.
func (s *Scheduler) Start(ctx context.Context) error {
	cronExpr := fmt.Sprintf("@every %s", s.interval.String())

	if _, err := s.cron.AddFunc(cronExpr, func() { s.runOnce(ctx) }); err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	s.cron.Start()
	logger.Info("Auto-sync scheduler started", "interval", s.interval)
	return nil
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	outcome := s.orchestrator.AutoSync(ctx)
	logger.Debug("Auto-sync run finished", "status", outcome.Status, "message", outcome.Message)
	if s.onOutcome != nil {
		s.onOutcome(outcome)
	}
}

// Stop waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	logger.Info("Auto-sync scheduler stopped")
}
