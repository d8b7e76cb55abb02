package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/order"
)

// UnpackItemCommandHandler removes one SKU from the packed set with the same
// bounded conflict retry as packing.
type UnpackItemCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewUnpackItemCommandHandler creates a handler for unpack ticks.
func NewUnpackItemCommandHandler(uowFactory OrderUoWFactory) UnpackItemCommandHandler {
	return UnpackItemCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the unpack command.
func (h UnpackItemCommandHandler) Handle(ctx context.Context, cmd UnpackItemCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return retryPackEdit(ctx, h.uowFactory, cmd.OrderID(), cmd.ExpectedVersion(),
		func(o *order.Order, version int64, at time.Time) error {
			return o.MarkItemUnpacked(cmd.SKU(), version, cmd.Actor(), at)
		})
}
