package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/ports"
)

// StartDeliveryCommandHandler moves a ready order out for delivery. The
// order must have a driver assigned.
type StartDeliveryCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   ports.NotificationSink
	logger     *slog.Logger
}

// NewStartDeliveryCommandHandler creates a handler for delivery departure.
func NewStartDeliveryCommandHandler(
	uowFactory OrderUoWFactory,
	notifier ports.NotificationSink,
	logger *slog.Logger,
) StartDeliveryCommandHandler {
	return StartDeliveryCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		logger:     logger.With("component", "start_delivery"),
	}
}

// Handle processes the departure.
func (h StartDeliveryCommandHandler) Handle(ctx context.Context, cmd StartDeliveryCommand) error {
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
	if err = o.StartDelivery(cmd.Actor(), now); err != nil {
		return err
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
		Subject:     fmt.Sprintf("Order #%d out for delivery", o.Number()),
		Body:        fmt.Sprintf("Your order #%d is out for delivery.", o.Number()),
		At:          now,
	})
	if err != nil {
		h.logger.Warn("notification publish failed", "order", o.ID().String(), "error", err)
	}
	return nil
}
