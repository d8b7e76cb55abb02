package commands

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrCorrectQuantityCommandIsNotConstructed = errors.New(
	"CorrectQuantityCommand must be created via NewCorrectQuantityCommand constructor",
)

// CorrectQuantityCommand represents a mid-pack quantity correction, such as
// short-supplying a damaged case. Money recomputes from the corrected
// quantity at the snapshotted unit price; packed flags stay as they are.
type CorrectQuantityCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	sku      string
	quantity int
	actor    string

	guard guard.ConstructorGuard
}

// NewCorrectQuantityCommand creates a validated correction command.
func NewCorrectQuantityCommand(orderID kernel.UUID, sku string, quantity int, actor string) (CorrectQuantityCommand, error) {
	cmd := CorrectQuantityCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setSKU(sku),
		cmd.setQuantity(quantity),
		cmd.setActor(actor),
	); err != nil {
		return CorrectQuantityCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CorrectQuantityCommand) Validate() error {
	return c.guard.Validate(ErrCorrectQuantityCommandIsNotConstructed)
}

// OrderID returns the order being corrected.
func (c CorrectQuantityCommand) OrderID() kernel.UUID {
	return c.orderID
}

// SKU returns the line being corrected.
func (c CorrectQuantityCommand) SKU() string {
	return c.sku
}

// Quantity returns the corrected quantity.
func (c CorrectQuantityCommand) Quantity() int {
	return c.quantity
}

// Actor returns who made the correction.
func (c CorrectQuantityCommand) Actor() string {
	return c.actor
}

func (c *CorrectQuantityCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CorrectQuantityCommand) setSKU(sku string) error {
	if sku == "" {
		return errs.NewValueIsRequiredError("sku")
	}

	c.sku = sku
	return nil
}

func (c *CorrectQuantityCommand) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}

	c.quantity = quantity
	return nil
}

func (c *CorrectQuantityCommand) setActor(actor string) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}

	c.actor = actor
	return nil
}
