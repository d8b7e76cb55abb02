package jobs

import (
	"fmt"
)

// startStopper is the lifecycle every scheduled job exposes.
type startStopper interface {
	Start() error
	Stop()
}

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	jobs []startStopper
}

// NewJobManager creates a job manager over the fulfillment background jobs.
func NewJobManager(
	packingSweep *PackingIdleSweepJob,
	routeRefresh *DeliveryRouteRefreshJob,
	accountingRetry *AccountingRetryWorker,
	lowStockDigest *LowStockDigestJob,
) *JobManager {
	return &JobManager{
		jobs: []startStopper{packingSweep, routeRefresh, accountingRetry, lowStockDigest},
	}
}

// StartAll starts all scheduled jobs. If any job fails to start, the already
// started jobs are stopped again.
func (jm *JobManager) StartAll() error {
	for i, job := range jm.jobs {
		if err := job.Start(); err != nil {
			for _, started := range jm.jobs[:i] {
				started.Stop()
			}
			return fmt.Errorf("failed to start job %d: %w", i, err)
		}
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	for _, job := range jm.jobs {
		job.Stop()
	}
}
