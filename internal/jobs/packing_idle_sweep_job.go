package jobs

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// PackingIdleSweepJob reverts packing orders with no recent pack activity
// back to confirmed so their items return to the floor pool. Runs every
// minute.
type PackingIdleSweepJob struct {
	handler    commands.RevertStalePackingCommandHandler
	idleWindow time.Duration
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewPackingIdleSweepJob creates the sweep job. The idle window is how long
// a packing order may sit without activity before it is reverted.
func NewPackingIdleSweepJob(
	handler commands.RevertStalePackingCommandHandler,
	idleWindow time.Duration,
	logger *slog.Logger,
) *PackingIdleSweepJob {
	return &PackingIdleSweepJob{
		handler:    handler,
		idleWindow: idleWindow,
		cron:       cron.New(),
		logger:     logger.With("component", "packing_idle_sweep_job"),
	}
}

// Start begins the sweep on a one minute schedule.
func (j *PackingIdleSweepJob) Start() error {
	_, err := j.cron.AddFunc("* * * * *", func() {
		ctx := context.Background()

		cmd, err := commands.NewRevertStalePackingCommand(j.idleWindow, "system")
		if err != nil {
			j.logger.ErrorContext(ctx, "Packing idle sweep command invalid", "error", err)
			return
		}

		reverted, err := j.handler.Handle(ctx, cmd)
		if err != nil {
			j.logger.ErrorContext(ctx, "Packing idle sweep failed", "error", err)
			return
		}
		if reverted > 0 {
			j.logger.InfoContext(ctx, "Reverted idle packing orders", "count", reverted)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Packing idle sweep job started (running every minute)")
	return nil
}

// Stop stops the sweep job.
func (j *PackingIdleSweepJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Packing idle sweep job stopped")
}
