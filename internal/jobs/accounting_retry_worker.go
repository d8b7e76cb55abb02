package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"fulfillment/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// maxAccountingAttempts bounds invoice retries before the job is escalated
// to the operator queue.
const maxAccountingAttempts = 5

// AccountingRetryWorker decorates an accounting sink with bounded retries.
// A failed enqueue never fails the caller: the job is parked in memory and
// retried every minute. After the attempt budget is spent the job is dropped
// and an operator alert is published instead.
type AccountingRetryWorker struct {
	sink     ports.AccountingJobSink
	notifier ports.NotificationSink
	cron     *cron.Cron
	logger   *slog.Logger

	mu      sync.Mutex
	pending []ports.AccountingJob
}

// NewAccountingRetryWorker creates the retry decorator around the real sink.
func NewAccountingRetryWorker(
	sink ports.AccountingJobSink,
	notifier ports.NotificationSink,
	logger *slog.Logger,
) *AccountingRetryWorker {
	return &AccountingRetryWorker{
		sink:     sink,
		notifier: notifier,
		cron:     cron.New(),
		logger:   logger.With("component", "accounting_retry_worker"),
	}
}

// Enqueue tries the underlying sink once and parks the job for retry on
// failure. Always returns nil so delivery completion never rolls back over
// an accounting outage.
func (w *AccountingRetryWorker) Enqueue(ctx context.Context, job ports.AccountingJob) error {
	if err := w.sink.Enqueue(ctx, job); err != nil {
		w.logger.WarnContext(ctx, "Accounting enqueue failed, parked for retry",
			"orderNumber", job.OrderNumber, "attempt", job.Attempt, "error", err)
		w.park(job)
	}
	return nil
}

// Start begins retrying parked jobs on a one minute schedule.
func (w *AccountingRetryWorker) Start() error {
	_, err := w.cron.AddFunc("* * * * *", func() {
		w.drain(context.Background())
	})
	if err != nil {
		return err
	}

	w.cron.Start()
	w.logger.InfoContext(context.Background(), "Accounting retry worker started (running every minute)")
	return nil
}

// Stop stops the retry schedule. Parked jobs stay in memory until the next
// start.
func (w *AccountingRetryWorker) Stop() {
	w.cron.Stop()
	w.logger.InfoContext(context.Background(), "Accounting retry worker stopped")
}

func (w *AccountingRetryWorker) park(job ports.AccountingJob) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending = append(w.pending, job)
}

// drain retries every parked job once. Jobs that fail again go back to the
// queue with their attempt count bumped; jobs out of budget are escalated.
func (w *AccountingRetryWorker) drain(ctx context.Context) {
	w.mu.Lock()
	batch := w.pending
	w.pending = nil
	w.mu.Unlock()

	for _, job := range batch {
		job.Attempt++

		if err := w.sink.Enqueue(ctx, job); err == nil {
			w.logger.InfoContext(ctx, "Accounting job delivered on retry",
				"orderNumber", job.OrderNumber, "attempt", job.Attempt)
			continue
		} else if job.Attempt < maxAccountingAttempts {
			w.logger.WarnContext(ctx, "Accounting retry failed",
				"orderNumber", job.OrderNumber, "attempt", job.Attempt, "error", err)
			w.park(job)
			continue
		}

		w.escalate(ctx, job)
	}
}

func (w *AccountingRetryWorker) escalate(ctx context.Context, job ports.AccountingJob) {
	w.logger.ErrorContext(ctx, "Accounting job exhausted retries, escalating",
		"orderNumber", job.OrderNumber, "attempt", job.Attempt)

	alert := ports.Notification{
		Kind:        ports.NotificationOperatorAlert,
		OrderID:     job.OrderID,
		OrderNumber: job.OrderNumber,
		CustomerID:  job.CustomerID,
		Subject:     fmt.Sprintf("Invoice for order #%d could not be queued", job.OrderNumber),
		Body: fmt.Sprintf(
			"The accounting pipeline rejected the invoice for order #%d (%d attempts). Manual invoicing required.",
			job.OrderNumber, job.Attempt),
		At: time.Now().UTC(),
	}
	if err := w.notifier.Publish(ctx, alert); err != nil {
		w.logger.ErrorContext(ctx, "Operator escalation publish failed",
			"orderNumber", job.OrderNumber, "error", err)
	}
}
