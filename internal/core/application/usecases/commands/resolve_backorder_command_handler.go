package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// ResolveBackorderCommandHandler applies a privileged backorder decision.
// Approval reserves stock for the approved quantities in the same
// transaction; rejection cancels the order and touches no inventory.
type ResolveBackorderCommandHandler struct {
	uowFactory FulfillmentUoWFactory
	notifier   ports.NotificationSink
	logger     *slog.Logger
}

// NewResolveBackorderCommandHandler creates a handler for backorder resolution.
func NewResolveBackorderCommandHandler(
	uowFactory FulfillmentUoWFactory,
	notifier ports.NotificationSink,
	logger *slog.Logger,
) ResolveBackorderCommandHandler {
	return ResolveBackorderCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		logger:     logger.With("component", "resolve_backorder"),
	}
}

// Handle processes the resolution. The order aggregate enforces the one-way
// approval gate: re-resolving a resolved backorder returns
// AlreadyProcessedError with no state change.
func (h ResolveBackorderCommandHandler) Handle(ctx context.Context, cmd ResolveBackorderCommand) error {
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

	switch cmd.Action() {
	case BackorderActionApproveFull:
		if err = o.ApproveBackorderFull(cmd.Actor(), now); err != nil {
			return err
		}
		if err = h.reserveStock(ctx, uow, o, cmd.Actor()); err != nil {
			return err
		}
	case BackorderActionApprovePartial:
		approvals, err := mapApprovalsToLines(o, cmd.Approvals())
		if err != nil {
			return err
		}
		if err = o.ApproveBackorderPartial(approvals, cmd.Actor(), now); err != nil {
			return err
		}
		if err = h.reserveStock(ctx, uow, o, cmd.Actor()); err != nil {
			return err
		}
	case BackorderActionReject:
		if err = o.RejectBackorder(cmd.Note(), cmd.Actor(), now); err != nil {
			return err
		}
	default:
		return errs.NewValueIsInvalidError("action")
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.notifyResolved(ctx, o, now)
	return nil
}

// reserveStock decrements stock for the quantities the aggregate reserved.
// Any line that no longer fits current stock fails the whole transaction.
func (h ResolveBackorderCommandHandler) reserveStock(
	ctx context.Context,
	uow FulfillmentUoW,
	o *order.Order,
	actor string,
) error {
	productRepo := uow.ProductRepository()
	for _, r := range o.ReservedLines() {
		p, err := productRepo.Get(ctx, r.ProductID)
		if err != nil {
			return err
		}
		movement, err := p.Adjust(-r.Quantity, "backorder approval", actor)
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
	return nil
}

func (h ResolveBackorderCommandHandler) notifyResolved(ctx context.Context, o *order.Order, now time.Time) {
	body := fmt.Sprintf("Your order #%d backorder was resolved: %s.", o.Number(), o.Status())
	if o.BackorderStatus() == order.BackorderPartiallyApproved {
		body = fmt.Sprintf("Your order #%d was approved with reduced quantities.", o.Number())
	}
	err := h.notifier.Publish(ctx, ports.Notification{
		Kind:        ports.NotificationBackorderResolved,
		OrderID:     o.ID().String(),
		OrderNumber: o.Number(),
		CustomerID:  o.CustomerID().String(),
		Subject:     fmt.Sprintf("Order #%d backorder resolved", o.Number()),
		Body:        body,
		At:          now,
	})
	if err != nil {
		h.logger.Warn("notification publish failed", "order", o.ID().String(), "error", err)
	}
}

// mapApprovalsToLines resolves approval SKUs against the order's lines.
func mapApprovalsToLines(o *order.Order, approvals []BackorderApproval) ([]order.ReservedLine, error) {
	out := make([]order.ReservedLine, 0, len(approvals))
	for _, a := range approvals {
		found := false
		for _, line := range o.Lines() {
			if line.SKU() == a.SKU {
				out = append(out, order.ReservedLine{ProductID: line.ProductID(), Quantity: a.Quantity})
				found = true
				break
			}
		}
		if !found {
			return nil, errs.NewObjectNotFoundError("sku", a.SKU)
		}
	}
	return out, nil
}
