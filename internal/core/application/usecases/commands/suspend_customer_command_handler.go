package commands

import (
	"context"
)

// SuspendCustomerCommandHandler suspends a customer account. Suspending an
// already suspended account returns AlreadyProcessedError from the aggregate.
type SuspendCustomerCommandHandler struct {
	uowFactory CustomerUoWFactory
}

// NewSuspendCustomerCommandHandler creates a handler for account suspension.
func NewSuspendCustomerCommandHandler(uowFactory CustomerUoWFactory) SuspendCustomerCommandHandler {
	return SuspendCustomerCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the suspension.
func (h SuspendCustomerCommandHandler) Handle(ctx context.Context, cmd SuspendCustomerCommand) error {
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

	customerRepo := uow.CustomerRepository()
	c, err := customerRepo.Get(ctx, cmd.CustomerID())
	if err != nil {
		return err
	}
	if err = c.Suspend(); err != nil {
		return err
	}
	if err = customerRepo.Update(ctx, c); err != nil {
		return err
	}
	return uow.Commit(ctx)
}
