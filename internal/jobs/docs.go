// Package jobs provides scheduled background tasks for the fulfillment
// engine, implemented with github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. PackingIdleSweepJob - Runs every minute to revert packing orders whose
// last pack activity is older than the idle window back to confirmed.
//
// 2. DeliveryRouteRefreshJob - Runs every minute to compare the ready-set
// against the latest delivery plan and trigger a delivery route
// recalculation when membership changed.
//
// 3. AccountingRetryWorker - Decorates the accounting sink; failed invoice
// enqueues are retried every minute up to a bounded attempt count and then
// escalated to the operator queue.
//
// 4. LowStockDigestJob - Runs daily to publish the low stock digest to the
// operations queue.
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(sweepJob, refreshJob, retryWorker, digestJob)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// Expected business outcomes (nothing stale to revert, membership unchanged,
// empty retry queue) are not errors and are not logged as such.
package jobs
