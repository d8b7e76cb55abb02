package commands

import (
	"context"
	"time"
)

// RevertStalePackingCommandHandler reverts idle packing sessions. The
// aggregate re-checks the cutoff against its own last activity, so an order
// that saw a pack tick between the repository read and the revert is left
// alone.
type RevertStalePackingCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewRevertStalePackingCommandHandler creates a handler for the idle sweep.
func NewRevertStalePackingCommandHandler(uowFactory OrderUoWFactory) RevertStalePackingCommandHandler {
	return RevertStalePackingCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes one sweep and returns how many orders were reverted.
func (h RevertStalePackingCommandHandler) Handle(ctx context.Context, cmd RevertStalePackingCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := time.Now().UTC()
	cutoff := now.Add(-cmd.IdleWindow())
	orderRepo := uow.OrderRepository()

	stale, err := orderRepo.GetStalePacking(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	reverted := 0
	for _, o := range stale {
		done, err := o.RevertIdlePacking(cutoff, cmd.Actor(), now)
		if err != nil {
			return 0, err
		}
		if !done {
			continue
		}
		if err = orderRepo.Update(ctx, o); err != nil {
			return 0, err
		}
		reverted++
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}
	return reverted, nil
}
