package route

import (
	"fulfillment/internal/core/domain/model/kernel"
)

// RoutePoint is one destination handed to the external route solver.
type RoutePoint struct {
	OrderID kernel.UUID
	Point   kernel.GeoPoint
}

// Segment is the solver's distance and driving duration from the previous
// waypoint to this one.
type Segment struct {
	DistanceMeters float64
	DurationSecs   float64
}

// SolvedRoute is the solver's answer for one independent coordinate group:
// the visiting order, one segment per visited point, and a route geometry
// polyline.
type SolvedRoute struct {
	OrderedIDs []kernel.UUID
	Segments   []Segment
	Geometry   string
}
