package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/route"
	"fulfillment/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

// DeliveryRouteRefreshJob keeps the delivery route aligned with the ready
// set. Every minute it compares the orders on the latest delivery plan with
// the orders currently ready for delivery and triggers a recalculation when
// membership changed. Runs against today's delivery date.
type DeliveryRouteRefreshJob struct {
	uowFactory commands.RoutingUoWFactory
	handler    commands.OptimizeRouteCommandHandler
	now        func() time.Time
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewDeliveryRouteRefreshJob creates the refresh job.
func NewDeliveryRouteRefreshJob(
	uowFactory commands.RoutingUoWFactory,
	handler commands.OptimizeRouteCommandHandler,
	logger *slog.Logger,
) *DeliveryRouteRefreshJob {
	return &DeliveryRouteRefreshJob{
		uowFactory: uowFactory,
		handler:    handler,
		now:        time.Now,
		cron:       cron.New(),
		logger:     logger.With("component", "delivery_route_refresh_job"),
	}
}

// Start begins the refresh on a one minute schedule.
func (j *DeliveryRouteRefreshJob) Start() error {
	_, err := j.cron.AddFunc("* * * * *", func() {
		j.runOnce(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Delivery route refresh job started (running every minute)")
	return nil
}

// Stop stops the refresh job.
func (j *DeliveryRouteRefreshJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Delivery route refresh job stopped")
}

func (j *DeliveryRouteRefreshJob) runOnce(ctx context.Context) {
	date := j.now().UTC().Truncate(24 * time.Hour)

	stale, err := j.membershipChanged(ctx, date)
	if err != nil {
		j.logger.ErrorContext(ctx, "Delivery route membership check failed", "error", err)
		return
	}
	if !stale {
		return
	}

	cmd, err := commands.NewOptimizeRouteCommand(date, route.TypeDelivery, "system")
	if err != nil {
		j.logger.ErrorContext(ctx, "Delivery route refresh command invalid", "error", err)
		return
	}

	if err := j.handler.Handle(ctx, cmd); err != nil {
		// The ready set may have drained between the check and the run.
		if errors.Is(err, commands.ErrNoOrdersToRoute) {
			return
		}
		j.logger.ErrorContext(ctx, "Delivery route refresh failed", "error", err)
		return
	}

	j.logger.InfoContext(ctx, "Delivery route recalculated", "date", date.Format("2006-01-02"))
}

// membershipChanged reports whether the ready set no longer matches the
// latest delivery plan. No plan yet counts as changed as long as at least
// one order is ready.
func (j *DeliveryRouteRefreshJob) membershipChanged(ctx context.Context, date time.Time) (bool, error) {
	uow := j.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}
	defer uow.Rollback(ctx)

	ready, err := uow.OrderRepository().GetForDateInStatuses(ctx, date, order.ReadyForDelivery)
	if err != nil {
		return false, err
	}
	if len(ready) == 0 {
		return false, nil
	}

	ids := make([]kernel.UUID, 0, len(ready))
	for _, o := range ready {
		ids = append(ids, o.ID())
	}

	plan, err := uow.RoutePlanRepository().GetLatest(ctx, date, route.TypeDelivery)
	if err != nil {
		var notFoundErr *errs.ObjectNotFoundError
		if errors.As(err, &notFoundErr) {
			return true, nil
		}
		return false, err
	}

	return !plan.CoversSameOrders(ids), nil
}
