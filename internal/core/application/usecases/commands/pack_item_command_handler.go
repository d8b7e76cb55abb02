package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// maxPackRetries bounds how often a pack edit retries after losing an
// optimistic write race. Packed-set edits for different SKUs commute, so a
// retry against fresh state preserves both packers' work.
const maxPackRetries = 3

// PackItemCommandHandler applies one pack tick with optimistic concurrency.
// The first attempt honours the version the packer saw; when either the
// aggregate or the conditional update reports a conflict, the edit is
// re-applied against freshly loaded state, a bounded number of times.
type PackItemCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewPackItemCommandHandler creates a handler for pack ticks.
func NewPackItemCommandHandler(uowFactory OrderUoWFactory) PackItemCommandHandler {
	return PackItemCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the pack command. The first pack on a confirmed order
// moves it to packing; ticking the last outstanding line moves it to ready
// for delivery. Both transitions happen inside the aggregate.
func (h PackItemCommandHandler) Handle(ctx context.Context, cmd PackItemCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return retryPackEdit(ctx, h.uowFactory, cmd.OrderID(), cmd.ExpectedVersion(),
		func(o *order.Order, version int64, at time.Time) error {
			return o.MarkItemPacked(cmd.SKU(), version, cmd.Actor(), at)
		})
}

// retryPackEdit runs one packed-set edit in its own transaction per attempt.
// The first attempt uses the client's expected version; conflict retries use
// the stored version instead, since the client's intent (tick this SKU) is
// unaffected by concurrent ticks of other SKUs.
func retryPackEdit(
	ctx context.Context,
	uowFactory OrderUoWFactory,
	orderID kernel.UUID,
	expectedVersion int64,
	edit func(o *order.Order, version int64, at time.Time) error,
) error {
	version := expectedVersion
	var lastErr error

	for attempt := 0; attempt < maxPackRetries; attempt++ {
		err := func() error {
			uow := uowFactory.Create()
			if err := uow.Begin(ctx); err != nil {
				return err
			}

			defer func() {
				_ = uow.Rollback(ctx)
			}()

			orderRepo := uow.OrderRepository()
			o, err := orderRepo.Get(ctx, orderID)
			if err != nil {
				return err
			}

			if attempt > 0 {
				version = o.Packing().Version
			}
			if err = edit(o, version, time.Now().UTC()); err != nil {
				return err
			}
			if err = orderRepo.Update(ctx, o); err != nil {
				return err
			}
			return uow.Commit(ctx)
		}()
		if err == nil {
			return nil
		}
		if !errors.Is(err, errs.ErrVersionConflict) {
			return err
		}
		lastErr = err
	}
	return lastErr
}
