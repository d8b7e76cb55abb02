package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/ports"
)

// CompleteDeliveryCommandHandler marks an order delivered, notifies the
// customer, and hands the invoice to the accounting pipeline. The enqueue is
// fire-and-forget: a sink failure is logged and retried by the accounting
// worker but never rolls back the delivered status.
type CompleteDeliveryCommandHandler struct {
	uowFactory OrderUoWFactory
	accounting ports.AccountingJobSink
	notifier   ports.NotificationSink
	logger     *slog.Logger
}

// NewCompleteDeliveryCommandHandler creates a handler for delivery completion.
func NewCompleteDeliveryCommandHandler(
	uowFactory OrderUoWFactory,
	accounting ports.AccountingJobSink,
	notifier ports.NotificationSink,
	logger *slog.Logger,
) CompleteDeliveryCommandHandler {
	return CompleteDeliveryCommandHandler{
		uowFactory: uowFactory,
		accounting: accounting,
		notifier:   notifier,
		logger:     logger.With("component", "complete_delivery"),
	}
}

// Handle processes the completion.
func (h CompleteDeliveryCommandHandler) Handle(ctx context.Context, cmd CompleteDeliveryCommand) error {
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
	if err = o.CompleteDelivery(cmd.Proof(), cmd.Actor(), now); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	err = h.accounting.Enqueue(ctx, ports.AccountingJob{
		OrderID:     o.ID().String(),
		OrderNumber: o.Number(),
		CustomerID:  o.CustomerID().String(),
		Subtotal:    o.Subtotal().Amount(),
		Tax:         o.Tax().Amount(),
		Total:       o.Total().Amount(),
		DeliveredAt: now,
		Attempt:     1,
	})
	if err != nil {
		h.logger.Warn("accounting enqueue failed", "order", o.ID().String(), "error", err)
	}

	err = h.notifier.Publish(ctx, ports.Notification{
		Kind:        ports.NotificationOrderStatus,
		OrderID:     o.ID().String(),
		OrderNumber: o.Number(),
		CustomerID:  o.CustomerID().String(),
		Subject:     fmt.Sprintf("Order #%d delivered", o.Number()),
		Body:        fmt.Sprintf("Your order #%d was delivered.", o.Number()),
		At:          now,
	})
	if err != nil {
		h.logger.Warn("notification publish failed", "order", o.ID().String(), "error", err)
	}
	return nil
}
