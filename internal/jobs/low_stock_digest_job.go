package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// LowStockDigestJob publishes a daily digest of products at or below their
// low stock threshold to the operations queue, before the purchasing day
// starts.
type LowStockDigestJob struct {
	uowFactory commands.FulfillmentUoWFactory
	notifier   ports.NotificationSink
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewLowStockDigestJob creates the digest job.
func NewLowStockDigestJob(
	uowFactory commands.FulfillmentUoWFactory,
	notifier ports.NotificationSink,
	logger *slog.Logger,
) *LowStockDigestJob {
	return &LowStockDigestJob{
		uowFactory: uowFactory,
		notifier:   notifier,
		cron:       cron.New(),
		logger:     logger.With("component", "low_stock_digest_job"),
	}
}

// Start schedules the digest for 06:00 every day.
func (j *LowStockDigestJob) Start() error {
	_, err := j.cron.AddFunc("0 6 * * *", func() {
		j.runOnce(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Low stock digest job started (running daily at 06:00)")
	return nil
}

// Stop stops the digest job.
func (j *LowStockDigestJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Low stock digest job stopped")
}

func (j *LowStockDigestJob) runOnce(ctx context.Context) {
	uow := j.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		j.logger.ErrorContext(ctx, "Low stock digest begin failed", "error", err)
		return
	}
	defer uow.Rollback(ctx)

	products, err := uow.ProductRepository().GetLowStock(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Low stock digest query failed", "error", err)
		return
	}
	if len(products) == 0 {
		return
	}

	lines := make([]string, 0, len(products))
	for _, p := range products {
		lines = append(lines, fmt.Sprintf("%s (%s): %d on hand, threshold %d",
			p.SKU(), p.Name(), p.CurrentStock(), p.LowStockThreshold()))
	}

	digest := ports.Notification{
		Kind:    ports.NotificationLowStockDigest,
		Subject: fmt.Sprintf("%d products at or below low stock threshold", len(products)),
		Body:    strings.Join(lines, "\n"),
		At:      time.Now().UTC(),
	}
	if err := j.notifier.Publish(ctx, digest); err != nil {
		j.logger.ErrorContext(ctx, "Low stock digest publish failed", "error", err)
		return
	}

	j.logger.InfoContext(ctx, "Low stock digest published", "products", len(products))
}
