package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/route"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetLatestRouteQueryIsNotConstructed = errors.New(
		"GetLatestRouteQuery must be created via NewGetLatestRouteQuery constructor",
	)
)

// GetLatestRouteQuery fetches the most recent route plan snapshot for a
// delivery date and route type. Drivers read the delivery plan, the packing
// floor reads the packing plan.
type GetLatestRouteQuery struct {
	deliveryDate time.Time
	routeType    route.Type

	guard guard.ConstructorGuard
}

// NewGetLatestRouteQuery creates a query for the given date and route type.
func NewGetLatestRouteQuery(deliveryDate time.Time, routeType route.Type) (GetLatestRouteQuery, error) {
	if deliveryDate.IsZero() {
		return GetLatestRouteQuery{}, errs.NewValueIsRequiredError("deliveryDate")
	}
	if err := routeType.Validate(); err != nil {
		return GetLatestRouteQuery{}, err
	}

	return GetLatestRouteQuery{
		deliveryDate: deliveryDate,
		routeType:    routeType,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetLatestRouteQuery) Validate() error {
	return q.guard.Validate(ErrGetLatestRouteQueryIsNotConstructed)
}

// DeliveryDate returns the date being routed.
func (q GetLatestRouteQuery) DeliveryDate() time.Time {
	return q.deliveryDate
}

// RouteType returns which plan variant is requested.
func (q GetLatestRouteQuery) RouteType() route.Type {
	return q.routeType
}

// RouteStop is one ordered stop on the returned plan.
type RouteStop struct {
	OrderID         kernel.UUID
	OrderNumber     int64
	Zone            string
	Sequence        int
	PackingSequence int
	Latitude        float64
	Longitude       float64
	EstimatedAt     time.Time
	DistanceMeters  float64
	DurationSecs    float64
}

// RouteLeg is one zone's geometry on the returned plan.
type RouteLeg struct {
	Zone     string
	Geometry string
}

// GetLatestRouteQueryResponse is the latest optimization snapshot.
type GetLatestRouteQueryResponse struct {
	PlanID      kernel.UUID
	RouteType   string
	TotalMeters float64
	TotalSecs   float64
	OptimizedAt time.Time
	OptimizedBy string
	Stops       []RouteStop
	Legs        []RouteLeg
}
