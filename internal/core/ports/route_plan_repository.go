package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/route"
)

// RoutePlanRepository defines the persistence contract for route plan
// snapshots. Plans are append-only: a recalculation adds a new snapshot and
// readers fetch the latest for a date and route type.
type RoutePlanRepository interface {
	// Add persists a new route plan snapshot.
	Add(ctx context.Context, plan *route.RoutePlan) error

	// GetLatest retrieves the most recent snapshot for the delivery date and
	// route type. Returns ObjectNotFoundError when no plan exists yet.
	GetLatest(ctx context.Context, date time.Time, routeType route.Type) (*route.RoutePlan, error)
}
