package commands

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrRevertStalePackingCommandIsNotConstructed = errors.New(
	"RevertStalePackingCommand must be created via NewRevertStalePackingCommand constructor",
)

// RevertStalePackingCommand represents one sweep over packing orders whose
// last pack activity is older than the idle window. The sweep releases
// abandoned packing sessions back to confirmed.
type RevertStalePackingCommand struct { //nolint:recvcheck //using for validation
	idleWindow time.Duration
	actor      string

	guard guard.ConstructorGuard
}

// NewRevertStalePackingCommand creates a validated sweep command.
func NewRevertStalePackingCommand(idleWindow time.Duration, actor string) (RevertStalePackingCommand, error) {
	cmd := RevertStalePackingCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setIdleWindow(idleWindow),
		cmd.setActor(actor),
	); err != nil {
		return RevertStalePackingCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RevertStalePackingCommand) Validate() error {
	return c.guard.Validate(ErrRevertStalePackingCommandIsNotConstructed)
}

// IdleWindow returns how long a packing session may sit without activity.
func (c RevertStalePackingCommand) IdleWindow() time.Duration {
	return c.idleWindow
}

// Actor returns the sweep identity recorded in order history.
func (c RevertStalePackingCommand) Actor() string {
	return c.actor
}

func (c *RevertStalePackingCommand) setIdleWindow(window time.Duration) error {
	if window <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("idleWindow",
			fmt.Errorf("%s is not greater than 0", window))
	}

	c.idleWindow = window
	return nil
}

func (c *RevertStalePackingCommand) setActor(actor string) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}

	c.actor = actor
	return nil
}
