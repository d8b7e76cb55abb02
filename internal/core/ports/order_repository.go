// Package ports defines repository and outbound gateway interfaces for the
// fulfillment domain. These interfaces establish contracts between the domain
// layer and infrastructure, enabling dependency inversion and testability.
package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate. The update is
	// conditional on the stored packing version matching the version the
	// aggregate was loaded with; a mismatch returns VersionConflictError and
	// writes nothing.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetOpenByCustomer retrieves the customer's orders in credit-consuming
	// statuses, used to compute available credit at submission time.
	GetOpenByCustomer(ctx context.Context, customerID kernel.UUID) ([]*order.Order, error)

	// GetForDateInStatuses retrieves orders for a delivery date filtered to
	// the given statuses, in order number order. Route optimization passes
	// use this to collect the packing and delivery pools.
	GetForDateInStatuses(ctx context.Context, date time.Time, statuses ...order.Status) ([]*order.Order, error)

	// GetStalePacking retrieves orders in packing status whose last pack
	// activity is at or before the cutoff.
	GetStalePacking(ctx context.Context, cutoff time.Time) ([]*order.Order, error)

	// NextNumber reserves the next sequential human-readable order number.
	NextNumber(ctx context.Context) (int64, error)
}
