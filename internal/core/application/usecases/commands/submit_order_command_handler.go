package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/product"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
)

// ErrCustomerCannotOrder is returned when the submitting account is not
// active, credit-approved, and onboarded.
var ErrCustomerCannotOrder = errors.New("customer account is not eligible to order")

// SubmitOrderCommandHandler runs order submission end to end: eligibility,
// the credit gate, then the stock gate. All stock sufficient reserves every
// line and confirms the order; any shortfall reserves nothing and parks the
// order awaiting a privileged decision.
type SubmitOrderCommandHandler struct {
	uowFactory FulfillmentUoWFactory
	ledger     services.CreditLedger
	notifier   ports.NotificationSink
	logger     *slog.Logger
}

// NewSubmitOrderCommandHandler creates a handler for order submission.
func NewSubmitOrderCommandHandler(
	uowFactory FulfillmentUoWFactory,
	ledger services.CreditLedger,
	notifier ports.NotificationSink,
	logger *slog.Logger,
) SubmitOrderCommandHandler {
	return SubmitOrderCommandHandler{
		uowFactory: uowFactory,
		ledger:     ledger,
		notifier:   notifier,
		logger:     logger.With("component", "submit_order"),
	}
}

// Handle processes the submission. Validation and both gates run before any
// write; the order row and stock decrements commit atomically. Notifications
// go out after commit and never fail the command.
func (h SubmitOrderCommandHandler) Handle(ctx context.Context, cmd SubmitOrderCommand) error {
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

	cust, err := uow.CustomerRepository().Get(ctx, cmd.CustomerID())
	if err != nil {
		return err
	}
	if !cust.CanOrder() {
		return fmt.Errorf("%w: customer %s", ErrCustomerCannotOrder, cust.ID())
	}

	productRepo := uow.ProductRepository()
	skus := make([]string, 0, len(cmd.Lines()))
	for _, l := range cmd.Lines() {
		skus = append(skus, l.SKU)
	}
	products, err := productRepo.GetBySKUs(ctx, skus)
	if err != nil {
		return err
	}
	bySKU := make(map[string]*product.Product, len(products))
	for _, p := range products {
		bySKU[p.SKU()] = p
	}

	lines := make([]order.LineItem, 0, len(cmd.Lines()))
	for _, l := range cmd.Lines() {
		p := bySKU[l.SKU]
		line, err := order.NewLineItem(p.ID(), p.SKU(), p.Name(), l.Quantity, kernel.Money(l.UnitPrice), l.TaxRateBps)
		if err != nil {
			return err
		}
		lines = append(lines, line)
	}

	addr, err := buildAddress(cmd.Address())
	if err != nil {
		return err
	}

	orderRepo := uow.OrderRepository()
	number, err := orderRepo.NextNumber(ctx)
	if err != nil {
		return err
	}

	o, err := order.NewOrder(cmd.OrderID(), number, cust.ID(), lines, addr, cmd.DeliveryDate(), cmd.Actor(), now)
	if err != nil {
		return err
	}

	open, err := orderRepo.GetOpenByCustomer(ctx, cust.ID())
	if err != nil {
		return err
	}
	bypassed, err := h.ledger.CheckAndReserve(cust, o.Total(), open, services.CreditBypassRequest{
		Enabled:       cmd.BypassCredit(),
		Justification: cmd.Justification(),
		Actor:         cmd.Actor(),
	})
	if err != nil {
		return err
	}
	if bypassed {
		if err = o.RecordCreditBypass(cmd.Justification(), cmd.Actor()); err != nil {
			return err
		}
	}

	shortfalls := collectShortfalls(o.Lines(), bySKU)
	if len(shortfalls) == 0 {
		for _, line := range o.Lines() {
			p := bySKU[line.SKU()]
			movement, err := p.Adjust(-line.Quantity(), "order reservation", cmd.Actor())
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
		if err = o.Confirm(cmd.Actor(), now); err != nil {
			return err
		}
	} else {
		if err = o.EnterAwaitingApproval(shortfalls, cmd.Actor(), now); err != nil {
			return err
		}
	}

	if err = orderRepo.Add(ctx, o); err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.notifySubmitted(ctx, o, now)
	return nil
}

func (h SubmitOrderCommandHandler) notifySubmitted(ctx context.Context, o *order.Order, now time.Time) {
	n := ports.Notification{
		Kind:        ports.NotificationOrderStatus,
		OrderID:     o.ID().String(),
		OrderNumber: o.Number(),
		CustomerID:  o.CustomerID().String(),
		Subject:     fmt.Sprintf("Order #%d %s", o.Number(), o.Status()),
		Body:        fmt.Sprintf("Your order #%d is %s.", o.Number(), o.Status()),
		At:          now,
	}
	if o.Status() == order.AwaitingApproval {
		n.Kind = ports.NotificationBackorderPending
		n.Subject = fmt.Sprintf("Order #%d awaiting approval", o.Number())
		n.Body = fmt.Sprintf("Your order #%d has stock shortfalls and awaits approval.", o.Number())
	}
	if err := h.notifier.Publish(ctx, n); err != nil {
		h.logger.Warn("notification publish failed", "order", o.ID().String(), "error", err)
	}
}

// collectShortfalls compares each order line against current stock. The
// result is empty only when every line can be reserved in full.
func collectShortfalls(lines []order.LineItem, bySKU map[string]*product.Product) []order.ShortfallLine {
	var shortfalls []order.ShortfallLine
	for _, line := range lines {
		p := bySKU[line.SKU()]
		if p.HasStockFor(line.Quantity()) {
			continue
		}
		shortfalls = append(shortfalls, order.ShortfallLine{
			ProductID: p.ID(),
			SKU:       p.SKU(),
			Requested: line.Quantity(),
			Available: p.CurrentStock(),
			Shortfall: line.Quantity() - p.CurrentStock(),
		})
	}
	return shortfalls
}

func buildAddress(a SubmitOrderAddress) (order.Address, error) {
	var geo *kernel.GeoPoint
	if a.Latitude != nil && a.Longitude != nil {
		point, err := kernel.NewGeoPoint(*a.Latitude, *a.Longitude)
		if err != nil {
			return order.Address{}, err
		}
		geo = &point
	}
	return order.NewAddress(a.Street, a.Suburb, a.State, a.Postcode, a.Zone, geo)
}
