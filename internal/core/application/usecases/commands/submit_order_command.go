package commands

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrSubmitOrderCommandIsNotConstructed = errors.New(
	"SubmitOrderCommand must be created via NewSubmitOrderCommand constructor",
)

// SubmitOrderLine is one requested order line. Unit price and tax rate come
// from the customer's accepted price list and are snapshotted onto the order.
type SubmitOrderLine struct {
	SKU        string
	Quantity   int
	UnitPrice  int64
	TaxRateBps int
}

// SubmitOrderAddress is the delivery address for a submitted order. Latitude
// and longitude are optional until the address has been geocoded.
type SubmitOrderAddress struct {
	Street    string
	Suburb    string
	State     string
	Postcode  string
	Zone      kernel.Zone
	Latitude  *float64
	Longitude *float64
}

// SubmitOrderCommand represents a customer's request to place an order for a
// delivery date. Submission runs the credit gate and the stock gate: the
// order comes out either confirmed with stock reserved or awaiting approval
// with shortfalls recorded.
type SubmitOrderCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	customerID    kernel.UUID
	lines         []SubmitOrderLine
	address       SubmitOrderAddress
	deliveryDate  time.Time
	bypassCredit  bool
	justification string
	actor         string

	guard guard.ConstructorGuard
}

// NewSubmitOrderCommand creates a validated order submission command. The
// credit bypass is only honoured with a non-empty justification, checked
// later against the actor's privileges by the handler's caller.
func NewSubmitOrderCommand(
	orderID kernel.UUID,
	customerID kernel.UUID,
	lines []SubmitOrderLine,
	address SubmitOrderAddress,
	deliveryDate time.Time,
	bypassCredit bool,
	justification string,
	actor string,
) (SubmitOrderCommand, error) {
	cmd := SubmitOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setCustomerID(customerID),
		cmd.setLines(lines),
		cmd.setAddress(address),
		cmd.setDeliveryDate(deliveryDate),
		cmd.setActor(actor),
	); err != nil {
		return SubmitOrderCommand{}, err
	}

	cmd.bypassCredit = bypassCredit
	cmd.justification = justification
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c SubmitOrderCommand) Validate() error {
	return c.guard.Validate(ErrSubmitOrderCommandIsNotConstructed)
}

// OrderID returns the client-generated order identifier.
func (c SubmitOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// CustomerID returns the submitting customer's identifier.
func (c SubmitOrderCommand) CustomerID() kernel.UUID {
	return c.customerID
}

// Lines returns a copy of the requested order lines.
func (c SubmitOrderCommand) Lines() []SubmitOrderLine {
	return append([]SubmitOrderLine(nil), c.lines...)
}

// Address returns the delivery address.
func (c SubmitOrderCommand) Address() SubmitOrderAddress {
	return c.address
}

// DeliveryDate returns the requested delivery date.
func (c SubmitOrderCommand) DeliveryDate() time.Time {
	return c.deliveryDate
}

// BypassCredit reports whether a credit gate override was requested.
func (c SubmitOrderCommand) BypassCredit() bool {
	return c.bypassCredit
}

// Justification returns the override justification, empty unless a bypass
// was requested.
func (c SubmitOrderCommand) Justification() string {
	return c.justification
}

// Actor returns who submitted the order.
func (c SubmitOrderCommand) Actor() string {
	return c.actor
}

func (c *SubmitOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *SubmitOrderCommand) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}

	c.customerID = customerID
	return nil
}

func (c *SubmitOrderCommand) setLines(lines []SubmitOrderLine) error {
	if len(lines) == 0 {
		return errs.NewValueIsRequiredError("lines")
	}
	for i, l := range lines {
		if l.SKU == "" {
			return errs.NewValueIsRequiredError(fmt.Sprintf("lines[%d].sku", i))
		}
		if l.Quantity <= 0 {
			return errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("lines[%d].quantity", i),
				fmt.Errorf("%d is not greater than 0", l.Quantity))
		}
		if l.UnitPrice < 0 {
			return errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("lines[%d].unitPrice", i),
				fmt.Errorf("%d is negative", l.UnitPrice))
		}
		if l.TaxRateBps < 0 || l.TaxRateBps > 10000 {
			return errs.NewValueIsOutOfRangeError(fmt.Sprintf("lines[%d].taxRateBps", i),
				l.TaxRateBps, 0, 10000)
		}
	}

	c.lines = append([]SubmitOrderLine(nil), lines...)
	return nil
}

func (c *SubmitOrderCommand) setAddress(address SubmitOrderAddress) error {
	if address.Street == "" {
		return errs.NewValueIsRequiredError("street")
	}
	if address.Suburb == "" {
		return errs.NewValueIsRequiredError("suburb")
	}
	if address.State == "" {
		return errs.NewValueIsRequiredError("state")
	}
	if address.Postcode == "" {
		return errs.NewValueIsRequiredError("postcode")
	}
	if err := address.Zone.Validate(); err != nil {
		return err
	}
	if (address.Latitude == nil) != (address.Longitude == nil) {
		return errs.NewValueIsInvalidErrorWithCause("coordinates",
			errors.New("latitude and longitude must be provided together"))
	}

	c.address = address
	return nil
}

func (c *SubmitOrderCommand) setDeliveryDate(date time.Time) error {
	if date.IsZero() {
		return errs.NewValueIsRequiredError("deliveryDate")
	}

	c.deliveryDate = date
	return nil
}

func (c *SubmitOrderCommand) setActor(actor string) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}

	c.actor = actor
	return nil
}
