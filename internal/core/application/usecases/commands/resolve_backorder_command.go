package commands

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrResolveBackorderCommandIsNotConstructed = errors.New(
	"ResolveBackorderCommand must be created via NewResolveBackorderCommand constructor",
)

// BackorderAction selects how an awaiting-approval order is resolved.
type BackorderAction int

const (
	// BackorderActionUnknown is the invalid zero value.
	BackorderActionUnknown BackorderAction = iota

	// BackorderActionApproveFull reserves the requested quantities.
	BackorderActionApproveFull

	// BackorderActionApprovePartial reserves reduced quantities per line.
	BackorderActionApprovePartial

	// BackorderActionReject cancels the order with a mandatory note.
	BackorderActionReject
)

func backorderActionStrings() map[BackorderAction]string {
	return map[BackorderAction]string{
		BackorderActionApproveFull:    "approve_full",
		BackorderActionApprovePartial: "approve_partial",
		BackorderActionReject:         "reject",
	}
}

// String returns the action name.
func (a BackorderAction) String() string {
	if s, ok := backorderActionStrings()[a]; ok {
		return s
	}
	return "unknown"
}

// Validate checks the action is a declared value.
func (a BackorderAction) Validate() error {
	if _, ok := backorderActionStrings()[a]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("action",
			fmt.Errorf("%d is not a valid backorder action", int(a)))
	}
	return nil
}

// BackorderActionFromString parses an action name.
func BackorderActionFromString(s string) (BackorderAction, error) {
	for a, name := range backorderActionStrings() {
		if s == name {
			return a, nil
		}
	}
	return BackorderActionUnknown, errs.NewValueIsInvalidErrorWithCause("action",
		fmt.Errorf("%q is not a known backorder action", s))
}

// BackorderApproval is one partially approved line, named by SKU.
type BackorderApproval struct {
	SKU      string
	Quantity int
}

// ResolveBackorderCommand represents a privileged decision on an
// awaiting-approval order: approve in full, approve reduced quantities, or
// reject with a note.
type ResolveBackorderCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	action    BackorderAction
	approvals []BackorderApproval
	note      string
	actor     string

	guard guard.ConstructorGuard
}

// NewResolveBackorderCommand creates a validated resolution command.
// Partial approval requires at least one approval line; rejection requires
// a note (minimum length is enforced by the order aggregate).
func NewResolveBackorderCommand(
	orderID kernel.UUID,
	action BackorderAction,
	approvals []BackorderApproval,
	note string,
	actor string,
) (ResolveBackorderCommand, error) {
	cmd := ResolveBackorderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setAction(action),
		cmd.setActor(actor),
	); err != nil {
		return ResolveBackorderCommand{}, err
	}

	if action == BackorderActionApprovePartial && len(approvals) == 0 {
		return ResolveBackorderCommand{}, errs.NewValueIsRequiredError("approvals")
	}
	for i, a := range approvals {
		if a.SKU == "" {
			return ResolveBackorderCommand{}, errs.NewValueIsRequiredError(fmt.Sprintf("approvals[%d].sku", i))
		}
		if a.Quantity <= 0 {
			return ResolveBackorderCommand{}, errs.NewValueIsInvalidErrorWithCause(
				fmt.Sprintf("approvals[%d].quantity", i),
				fmt.Errorf("%d is not greater than 0", a.Quantity))
		}
	}

	cmd.approvals = append([]BackorderApproval(nil), approvals...)
	cmd.note = note
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ResolveBackorderCommand) Validate() error {
	return c.guard.Validate(ErrResolveBackorderCommandIsNotConstructed)
}

// OrderID returns the order being resolved.
func (c ResolveBackorderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Action returns the chosen resolution.
func (c ResolveBackorderCommand) Action() BackorderAction {
	return c.action
}

// Approvals returns a copy of the partial approval lines.
func (c ResolveBackorderCommand) Approvals() []BackorderApproval {
	return append([]BackorderApproval(nil), c.approvals...)
}

// Note returns the resolution note.
func (c ResolveBackorderCommand) Note() string {
	return c.note
}

// Actor returns the privileged user making the decision.
func (c ResolveBackorderCommand) Actor() string {
	return c.actor
}

func (c *ResolveBackorderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *ResolveBackorderCommand) setAction(action BackorderAction) error {
	if err := action.Validate(); err != nil {
		return err
	}

	c.action = action
	return nil
}

func (c *ResolveBackorderCommand) setActor(actor string) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}

	c.actor = actor
	return nil
}
