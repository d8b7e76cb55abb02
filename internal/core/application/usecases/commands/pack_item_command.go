package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrPackItemCommandIsNotConstructed = errors.New(
	"PackItemCommand must be created via NewPackItemCommand constructor",
)

// PackItemCommand represents a warehouse packer ticking one SKU off an
// order's packing list. The expected version is the packing version the
// packer's screen was rendered from.
type PackItemCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	sku             string
	expectedVersion int64
	actor           string

	guard guard.ConstructorGuard
}

// NewPackItemCommand creates a validated pack command.
func NewPackItemCommand(orderID kernel.UUID, sku string, expectedVersion int64, actor string) (PackItemCommand, error) {
	cmd := PackItemCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setSKU(sku),
		cmd.setExpectedVersion(expectedVersion),
		cmd.setActor(actor),
	); err != nil {
		return PackItemCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c PackItemCommand) Validate() error {
	return c.guard.Validate(ErrPackItemCommandIsNotConstructed)
}

// OrderID returns the order being packed.
func (c PackItemCommand) OrderID() kernel.UUID {
	return c.orderID
}

// SKU returns the line being ticked.
func (c PackItemCommand) SKU() string {
	return c.sku
}

// ExpectedVersion returns the packing version the packer last saw.
func (c PackItemCommand) ExpectedVersion() int64 {
	return c.expectedVersion
}

// Actor returns the packer.
func (c PackItemCommand) Actor() string {
	return c.actor
}

func (c *PackItemCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *PackItemCommand) setSKU(sku string) error {
	if sku == "" {
		return errs.NewValueIsRequiredError("sku")
	}

	c.sku = sku
	return nil
}

func (c *PackItemCommand) setExpectedVersion(version int64) error {
	if version < 0 {
		return errs.NewVersionIsInvalidError("expectedVersion")
	}

	c.expectedVersion = version
	return nil
}

func (c *PackItemCommand) setActor(actor string) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}

	c.actor = actor
	return nil
}
