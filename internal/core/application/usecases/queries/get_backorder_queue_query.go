package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetBackorderQueueQueryIsNotConstructed = errors.New(
		"GetBackorderQueueQuery must be created via NewGetBackorderQueueQuery constructor",
	)
)

// GetBackorderQueueQuery lists the orders parked in awaiting approval with an
// unresolved stock shortfall, for the approval work queue.
type GetBackorderQueueQuery struct {
	guard guard.ConstructorGuard
}

// NewGetBackorderQueueQuery creates a query for the pending backorder queue.
func NewGetBackorderQueueQuery() GetBackorderQueueQuery {
	return GetBackorderQueueQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetBackorderQueueQuery) Validate() error {
	return q.guard.Validate(ErrGetBackorderQueueQueryIsNotConstructed)
}

// BackorderShortfall is one short line on a queued order.
type BackorderShortfall struct {
	SKU       string
	Requested int
	Available int
	Shortfall int
}

// GetBackorderQueueQueryResponse is one order awaiting a backorder decision.
type GetBackorderQueueQueryResponse struct {
	ID           kernel.UUID
	Number       int64
	CustomerID   kernel.UUID
	DeliveryDate time.Time
	Total        int64
	Shortfalls   []BackorderShortfall
}
