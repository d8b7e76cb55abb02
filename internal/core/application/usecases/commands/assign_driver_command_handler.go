package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
)

// AssignDriverCommandHandler assigns a ready order to a driver and rebuilds
// the per-driver sequences for every ready order on the same date, so each
// driver's positions stay contiguous after the pool changes.
type AssignDriverCommandHandler struct {
	uowFactory OrderUoWFactory
	sequencer  services.Sequencer
}

// NewAssignDriverCommandHandler creates a handler for driver assignment.
func NewAssignDriverCommandHandler(uowFactory OrderUoWFactory, sequencer services.Sequencer) AssignDriverCommandHandler {
	return AssignDriverCommandHandler{
		uowFactory: uowFactory,
		sequencer:  sequencer,
	}
}

// Handle processes the assignment. Assignment is only legal while the order
// is ready for delivery; reassignment before departure is allowed.
func (h AssignDriverCommandHandler) Handle(ctx context.Context, cmd AssignDriverCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	if err = o.AssignDriver(cmd.DriverID()); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	ready, err := orderRepo.GetForDateInStatuses(ctx, o.DeliveryDate(), order.ReadyForDelivery)
	if err != nil {
		return err
	}

	byID := make(map[string]*order.Order, len(ready))
	var stops []services.DriverStop
	for _, ro := range ready {
		byID[ro.ID().String()] = ro
		delivery := ro.Delivery()
		if delivery.DriverID == nil {
			continue
		}
		stops = append(stops, services.DriverStop{
			OrderID:        ro.ID(),
			DriverID:       *delivery.DriverID,
			GlobalSequence: delivery.Sequence,
		})
	}

	for _, ds := range h.sequencer.PerDriverSequences(stops) {
		ro := byID[ds.OrderID.String()]
		if err = ro.SetDriverSequences(ds.Sequence, ds.PackingSequence); err != nil {
			return err
		}
		if err = orderRepo.Update(ctx, ro); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}
