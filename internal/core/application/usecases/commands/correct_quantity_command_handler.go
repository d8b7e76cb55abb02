package commands

import (
	"context"
	"time"
)

// CorrectQuantityCommandHandler applies a quantity correction and settles the
// stock difference: reducing a line restocks the difference, increasing it
// reserves more and fails if stock cannot cover it.
type CorrectQuantityCommandHandler struct {
	uowFactory FulfillmentUoWFactory
}

// NewCorrectQuantityCommandHandler creates a handler for quantity corrections.
func NewCorrectQuantityCommandHandler(uowFactory FulfillmentUoWFactory) CorrectQuantityCommandHandler {
	return CorrectQuantityCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the correction. Corrections are only legal while the
// order is confirmed or packing; the aggregate rejects anything else.
func (h CorrectQuantityCommandHandler) Handle(ctx context.Context, cmd CorrectQuantityCommand) error {
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

	now := time.Now().UTC()
	orderRepo := uow.OrderRepository()

	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	oldQuantity := 0
	for _, line := range o.Lines() {
		if line.SKU() == cmd.SKU() {
			oldQuantity = line.Quantity()
			break
		}
	}

	if err = o.CorrectLineQuantity(cmd.SKU(), cmd.Quantity(), now); err != nil {
		return err
	}

	// The reservation follows the correction, so stock moves by the delta.
	if delta := oldQuantity - cmd.Quantity(); delta != 0 {
		productRepo := uow.ProductRepository()
		products, err := productRepo.GetBySKUs(ctx, []string{cmd.SKU()})
		if err != nil {
			return err
		}
		p := products[0]
		movement, err := p.Adjust(delta, "quantity correction", cmd.Actor())
		if err != nil {
			return err
		}
		if err = productRepo.RecordMovement(ctx, movement); err != nil {
			return err
		}
		if err = productRepo.Update(ctx, p); err != nil {
			return err
		}
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}
	return uow.Commit(ctx)
}
