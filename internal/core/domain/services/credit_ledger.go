package services

import (
	"fulfillment/internal/core/domain/model/customer"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// CreditBypassRequest is a privileged override of the credit gate. It is only
// honoured with a non-empty justification and actor, and the caller must
// record it on the order for audit.
type CreditBypassRequest struct {
	Enabled       bool
	Justification string
	Actor         string
}

// CreditLedger is the domain service computing a customer's available credit
// and enforcing the credit gate at order submission.
//
// Available credit is the customer's limit minus the sum of totals of all
// orders in a credit-consuming status. Pending backorders in
// awaiting_approval consume no credit until approved, and terminal orders
// consume none, so confirmation and cancellation move available credit by
// exactly the order's total in opposite directions.
type CreditLedger struct{}

// NewCreditLedger creates a CreditLedger service.
func NewCreditLedger() CreditLedger {
	return CreditLedger{}
}

// consumesCredit reports whether an order in the given status counts against
// the customer's limit.
func consumesCredit(s order.Status) bool {
	switch s {
	case order.Pending, order.Confirmed, order.Packing, order.ReadyForDelivery, order.OutForDelivery:
		return true
	default:
		return false
	}
}

// AvailableCredit computes limit minus the sum of open order totals. The
// openOrders slice may contain orders in any status; non-consuming ones are
// skipped. The result can be negative when a bypass pushed exposure past the
// limit.
func (CreditLedger) AvailableCredit(c *customer.Customer, openOrders []*order.Order) kernel.Money {
	available := c.CreditLimit()
	for _, o := range openOrders {
		if consumesCredit(o.Status()) {
			available = available.Sub(o.Total())
		}
	}
	return available
}

// CheckAndReserve enforces the credit gate for a new order total. It returns
// CreditExceededError when the total does not fit the remaining credit,
// unless a valid bypass is supplied. The second return reports whether the
// bypass was used, so the caller can record the audit trail on the order.
func (l CreditLedger) CheckAndReserve(
	c *customer.Customer,
	orderTotal kernel.Money,
	openOrders []*order.Order,
	bypass CreditBypassRequest,
) (bool, error) {
	if bypass.Enabled {
		if bypass.Justification == "" {
			return false, errs.NewValueIsRequiredError("justification")
		}
		if bypass.Actor == "" {
			return false, errs.NewValueIsRequiredError("bypassActor")
		}
		return true, nil
	}

	available := l.AvailableCredit(c, openOrders)
	if orderTotal.Amount() > available.Amount() {
		return false, errs.NewCreditExceededError(c.ID().String(), orderTotal.Amount(), available.Amount())
	}
	return false, nil
}
