package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status represents the lifecycle state of an order. It implements a state
// machine with a fixed adjacency table; every status mutation in the system
// goes through TransitionTo so no other component can invent an edge.
//
// State transitions:
//
//	Pending ──┬──> Confirmed ──> Packing ──> ReadyForDelivery ──> OutForDelivery ──> Delivered
//	          │        ^            │
//	          │        └────────────┘ (idle reversion)
//	          └──> AwaitingApproval ──> Confirmed
//
// Cancelled is reachable from every non-terminal state. Delivered and
// Cancelled are terminal.
type Status int

const (
	// StatusUnknown is the invalid zero value.
	StatusUnknown Status = iota

	// Pending is the initial status at checkout, before credit and stock
	// gates have run.
	Pending

	// AwaitingApproval is the alternate initial state entered when one or
	// more lines exceed available stock. No stock is reserved while here.
	AwaitingApproval

	// Confirmed means credit and stock checks passed and stock is reserved.
	Confirmed

	// Packing means a warehouse packer has started marking items packed.
	Packing

	// ReadyForDelivery means every line item has been packed.
	ReadyForDelivery

	// OutForDelivery means a driver has taken the order on route.
	OutForDelivery

	// Delivered is terminal: the order reached the customer.
	Delivered

	// Cancelled is terminal: reserved stock and credit have been released.
	Cancelled
)

func statusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:    "unknown",
		Pending:          "pending",
		AwaitingApproval: "awaiting_approval",
		Confirmed:        "confirmed",
		Packing:          "packing",
		ReadyForDelivery: "ready_for_delivery",
		OutForDelivery:   "out_for_delivery",
		Delivered:        "delivered",
		Cancelled:        "cancelled",
	}
}

// transitions is the canonical adjacency table. An edge absent here is
// illegal no matter which actor requests it.
func transitions() map[Status][]Status {
	return map[Status][]Status{
		Pending:          {Confirmed, AwaitingApproval, Cancelled},
		AwaitingApproval: {Confirmed, Cancelled},
		Confirmed:        {Packing, Cancelled},
		Packing:          {ReadyForDelivery, Confirmed, Cancelled},
		ReadyForDelivery: {OutForDelivery, Cancelled},
		OutForDelivery:   {Delivered, Cancelled},
		Delivered:        {},
		Cancelled:        {},
	}
}

// Validate checks the status is one of the declared values.
func (s Status) Validate() error {
	if _, ok := statusStrings()[s]; !ok || s == StatusUnknown {
		return errsInvalidStatus(s)
	}
	return nil
}

// String returns the snake_case status name used in persistence and logs.
func (s Status) String() string {
	if str, ok := statusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// StatusFromString parses a snake_case status name.
func StatusFromString(s string) (Status, error) {
	for st, name := range statusStrings() {
		if s == name && st != StatusUnknown {
			return st, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a known order status", s))
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// CanTransitionTo reports whether the adjacency table has an edge from s to
// the target status.
func (s Status) CanTransitionTo(to Status) bool {
	for _, next := range transitions()[s] {
		if next == to {
			return true
		}
	}
	return false
}

func errsInvalidStatus(s Status) error {
	return errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%d is not a valid status", int(s)))
}

// BackorderStatus tracks the approval sub-state of an order whose requested
// quantities exceeded available stock. It is BackorderNone unless a shortfall
// exists or has existed.
type BackorderStatus int

const (
	// BackorderNone means the order never had a stock shortfall.
	BackorderNone BackorderStatus = iota

	// BackorderPending means the shortfall awaits a privileged decision.
	BackorderPending

	// BackorderApproved means the originally requested quantities were reserved.
	BackorderApproved

	// BackorderPartiallyApproved means reduced quantities were reserved and
	// the order totals were recomputed from them.
	BackorderPartiallyApproved

	// BackorderRejected means the order was cancelled without reserving stock.
	BackorderRejected
)

func backorderStatusStrings() map[BackorderStatus]string {
	return map[BackorderStatus]string{
		BackorderNone:              "none",
		BackorderPending:           "pending",
		BackorderApproved:          "approved",
		BackorderPartiallyApproved: "partially_approved",
		BackorderRejected:          "rejected",
	}
}

// String returns the snake_case backorder status name.
func (b BackorderStatus) String() string {
	if s, ok := backorderStatusStrings()[b]; ok {
		return s
	}
	return "unknown"
}

// IsResolved reports whether a privileged actor has already decided this
// backorder. Resolution is a one-way gate: a resolved application cannot be
// re-approved or re-rejected.
func (b BackorderStatus) IsResolved() bool {
	return b == BackorderApproved || b == BackorderPartiallyApproved || b == BackorderRejected
}
