// Package queries contains the read side of the fulfillment application.
// Query handlers run raw SQL against the store and return flat response
// structs, bypassing the domain aggregates entirely.
package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetAvailableCreditQueryIsNotConstructed = errors.New(
		"GetAvailableCreditQuery must be created via NewGetAvailableCreditQuery constructor",
	)
)

// GetAvailableCreditQuery computes how much of a customer's credit limit
// remains after subtracting the totals of their open orders.
type GetAvailableCreditQuery struct {
	customerID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetAvailableCreditQuery creates a query for the given customer.
func NewGetAvailableCreditQuery(customerID kernel.UUID) (GetAvailableCreditQuery, error) {
	if err := customerID.Validate(); err != nil {
		return GetAvailableCreditQuery{}, err
	}

	return GetAvailableCreditQuery{
		customerID: customerID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetAvailableCreditQuery) Validate() error {
	return q.guard.Validate(ErrGetAvailableCreditQueryIsNotConstructed)
}

// CustomerID returns the customer whose credit position is requested.
func (q GetAvailableCreditQuery) CustomerID() kernel.UUID {
	return q.customerID
}

// GetAvailableCreditQueryResponse is the customer's credit position. All
// amounts are in cents. Orders awaiting backorder approval hold no credit
// and are excluded from OpenOrdersTotal.
type GetAvailableCreditQueryResponse struct {
	CustomerID      kernel.UUID
	CreditLimit     int64
	OpenOrdersTotal int64
	Available       int64
}
