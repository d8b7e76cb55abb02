package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrSuspendCustomerCommandIsNotConstructed = errors.New(
	"SuspendCustomerCommand must be created via NewSuspendCustomerCommand constructor",
)

// SuspendCustomerCommand represents suspending a customer account, blocking
// new order submissions until reactivation.
type SuspendCustomerCommand struct { //nolint:recvcheck //using for validation
	customerID kernel.UUID
	actor      string

	guard guard.ConstructorGuard
}

// NewSuspendCustomerCommand creates a validated suspension command.
func NewSuspendCustomerCommand(customerID kernel.UUID, actor string) (SuspendCustomerCommand, error) {
	cmd := SuspendCustomerCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setCustomerID(customerID),
		cmd.setActor(actor),
	); err != nil {
		return SuspendCustomerCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c SuspendCustomerCommand) Validate() error {
	return c.guard.Validate(ErrSuspendCustomerCommandIsNotConstructed)
}

// CustomerID returns the account being suspended.
func (c SuspendCustomerCommand) CustomerID() kernel.UUID {
	return c.customerID
}

// Actor returns who suspended the account.
func (c SuspendCustomerCommand) Actor() string {
	return c.actor
}

func (c *SuspendCustomerCommand) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}

	c.customerID = customerID
	return nil
}

func (c *SuspendCustomerCommand) setActor(actor string) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}

	c.actor = actor
	return nil
}
