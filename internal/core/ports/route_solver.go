package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/route"
)

// RouteSolver optimizes the visiting order for one coordinate group. The
// engine solves each zone independently; a solver failure aborts the whole
// optimization run with no order side effects.
type RouteSolver interface {
	// Solve returns the optimized visiting order starting from origin, one
	// segment per visited point, and a route geometry polyline.
	Solve(ctx context.Context, origin kernel.GeoPoint, points []route.RoutePoint) (route.SolvedRoute, error)
}
