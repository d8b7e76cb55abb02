package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetOrdersForDateQueryIsNotConstructed = errors.New(
		"GetOrdersForDateQuery must be created via NewGetOrdersForDateQuery constructor",
	)
)

// GetOrdersForDateQuery lists the orders scheduled for a delivery date,
// optionally filtered to a set of statuses. Dispatch boards and the packing
// floor both drive off this view.
type GetOrdersForDateQuery struct {
	deliveryDate time.Time
	statuses     []order.Status

	guard guard.ConstructorGuard
}

// NewGetOrdersForDateQuery creates a query for the given date. An empty
// status list means all statuses.
func NewGetOrdersForDateQuery(deliveryDate time.Time, statuses ...order.Status) (GetOrdersForDateQuery, error) {
	if deliveryDate.IsZero() {
		return GetOrdersForDateQuery{}, errs.NewValueIsRequiredError("deliveryDate")
	}
	for _, s := range statuses {
		if err := s.Validate(); err != nil {
			return GetOrdersForDateQuery{}, err
		}
	}

	return GetOrdersForDateQuery{
		deliveryDate: deliveryDate,
		statuses:     statuses,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrdersForDateQuery) Validate() error {
	return q.guard.Validate(ErrGetOrdersForDateQueryIsNotConstructed)
}

// DeliveryDate returns the date being listed.
func (q GetOrdersForDateQuery) DeliveryDate() time.Time {
	return q.deliveryDate
}

// Statuses returns the status filter, empty meaning no filter.
func (q GetOrdersForDateQuery) Statuses() []order.Status {
	return q.statuses
}

// GetOrdersForDateQueryResponse is one order row on the day's board. Sequence
// fields are zero until a route optimization pass has assigned them, and
// DriverID is nil until dispatch assigns a driver.
type GetOrdersForDateQueryResponse struct {
	ID               kernel.UUID
	Number           int64
	CustomerID       kernel.UUID
	Status           string
	Zone             string
	Total            int64
	DeliverySequence int
	PackingSequence  int
	DriverID         *kernel.UUID
	DriverSequence   int
}
