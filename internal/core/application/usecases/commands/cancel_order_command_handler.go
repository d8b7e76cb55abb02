package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/ports"
)

// CancelOrderCommandHandler cancels an order and restores exactly the
// quantities the order had reserved, so cancel after a partial approval or a
// quantity correction restocks the corrected amounts, not the originals.
type CancelOrderCommandHandler struct {
	uowFactory FulfillmentUoWFactory
	notifier   ports.NotificationSink
	logger     *slog.Logger
}

// NewCancelOrderCommandHandler creates a handler for order cancellation.
func NewCancelOrderCommandHandler(
	uowFactory FulfillmentUoWFactory,
	notifier ports.NotificationSink,
	logger *slog.Logger,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		logger:     logger.With("component", "cancel_order"),
	}
}

// Handle processes the cancellation. Cancelling a terminal order returns
// InvalidTransitionError from the status machine with nothing written.
func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
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

	released, err := o.Cancel(cmd.Actor(), cmd.Note(), now)
	if err != nil {
		return err
	}

	productRepo := uow.ProductRepository()
	for _, r := range released {
		p, err := productRepo.Get(ctx, r.ProductID)
		if err != nil {
			return err
		}
		movement, err := p.Adjust(r.Quantity, "cancellation restock", cmd.Actor())
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
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	err = h.notifier.Publish(ctx, ports.Notification{
		Kind:        ports.NotificationOrderStatus,
		OrderID:     o.ID().String(),
		OrderNumber: o.Number(),
		CustomerID:  o.CustomerID().String(),
		Subject:     fmt.Sprintf("Order #%d cancelled", o.Number()),
		Body:        fmt.Sprintf("Your order #%d has been cancelled.", o.Number()),
		At:          now,
	})
	if err != nil {
		h.logger.Warn("notification publish failed", "order", o.ID().String(), "error", err)
	}
	return nil
}
