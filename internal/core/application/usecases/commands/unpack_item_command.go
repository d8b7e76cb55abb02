package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrUnpackItemCommandIsNotConstructed = errors.New(
	"UnpackItemCommand must be created via NewUnpackItemCommand constructor",
)

// UnpackItemCommand represents a packer unticking a SKU, legal only while
// the order is still in packing.
type UnpackItemCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	sku             string
	expectedVersion int64
	actor           string

	guard guard.ConstructorGuard
}

// NewUnpackItemCommand creates a validated unpack command.
func NewUnpackItemCommand(orderID kernel.UUID, sku string, expectedVersion int64, actor string) (UnpackItemCommand, error) {
	cmd := UnpackItemCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setSKU(sku),
		cmd.setExpectedVersion(expectedVersion),
		cmd.setActor(actor),
	); err != nil {
		return UnpackItemCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UnpackItemCommand) Validate() error {
	return c.guard.Validate(ErrUnpackItemCommandIsNotConstructed)
}

// OrderID returns the order being edited.
func (c UnpackItemCommand) OrderID() kernel.UUID {
	return c.orderID
}

// SKU returns the line being unticked.
func (c UnpackItemCommand) SKU() string {
	return c.sku
}

// ExpectedVersion returns the packing version the packer last saw.
func (c UnpackItemCommand) ExpectedVersion() int64 {
	return c.expectedVersion
}

// Actor returns the packer.
func (c UnpackItemCommand) Actor() string {
	return c.actor
}

func (c *UnpackItemCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *UnpackItemCommand) setSKU(sku string) error {
	if sku == "" {
		return errs.NewValueIsRequiredError("sku")
	}

	c.sku = sku
	return nil
}

func (c *UnpackItemCommand) setExpectedVersion(version int64) error {
	if version < 0 {
		return errs.NewVersionIsInvalidError("expectedVersion")
	}

	c.expectedVersion = version
	return nil
}

func (c *UnpackItemCommand) setActor(actor string) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}

	c.actor = actor
	return nil
}
