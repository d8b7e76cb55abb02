package route

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrRoutePlanIsNotConstructed is returned when a RoutePlan bypassed NewRoutePlan.
var ErrRoutePlanIsNotConstructed = errors.New("RoutePlan must be created via NewRoutePlan constructor")

// Type distinguishes the two route flavours the engine maintains per
// delivery date.
type Type int

const (
	// TypeUnknown is the invalid zero value.
	TypeUnknown Type = iota

	// TypePacking is the wide route computed from confirmed, packing, and
	// ready orders; it drives the warehouse loading order.
	TypePacking

	// TypeDelivery is the narrow route recomputed from only ready orders.
	TypeDelivery
)

func typeStrings() map[Type]string {
	return map[Type]string{
		TypePacking:  "packing",
		TypeDelivery: "delivery",
	}
}

// String returns the route type name.
func (t Type) String() string {
	if s, ok := typeStrings()[t]; ok {
		return s
	}
	return "unknown"
}

// Validate checks the type is a declared value.
func (t Type) Validate() error {
	if _, ok := typeStrings()[t]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("routeType",
			fmt.Errorf("%d is not a valid route type", int(t)))
	}
	return nil
}

// TypeFromString parses a route type name.
func TypeFromString(s string) (Type, error) {
	for t, name := range typeStrings() {
		if s == name {
			return t, nil
		}
	}
	return TypeUnknown, errs.NewValueIsInvalidErrorWithCause("routeType",
		fmt.Errorf("%q is not a known route type", s))
}

// Waypoint is one ordered stop on a route plan. Distance and duration are
// measured from the previous stop (from the warehouse origin for the first
// stop of each zone).
type Waypoint struct {
	OrderID         kernel.UUID
	OrderNumber     int64
	Zone            kernel.Zone
	Sequence        int
	PackingSequence int
	Point           kernel.GeoPoint
	EstimatedAt     time.Time
	DistanceMeters  float64
	DurationSecs    float64
}

// ZoneLeg carries the solver's route geometry for one zone, in canonical
// zone order.
type ZoneLeg struct {
	Zone     kernel.Zone
	Geometry string
}

// RoutePlan is an immutable optimization snapshot for one delivery date and
// route type. Plans are never mutated in place: a recalculation stores a new
// snapshot and readers always fetch the latest for date+type.
type RoutePlan struct {
	id           kernel.UUID
	deliveryDate time.Time
	routeType    Type
	waypoints    []Waypoint
	legs         []ZoneLeg
	totalMeters  float64
	totalSecs    float64
	optimizedAt  time.Time
	optimizedBy  string

	guard guard.ConstructorGuard
}

// NewRoutePlan creates a snapshot from sequenced waypoints. Waypoints must
// already carry strictly increasing sequence numbers starting at 1.
func NewRoutePlan(
	id kernel.UUID,
	deliveryDate time.Time,
	routeType Type,
	waypoints []Waypoint,
	legs []ZoneLeg,
	optimizedBy string,
	optimizedAt time.Time,
) (*RoutePlan, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if deliveryDate.IsZero() {
		return nil, errs.NewValueIsRequiredError("deliveryDate")
	}
	if err := routeType.Validate(); err != nil {
		return nil, err
	}
	if len(waypoints) == 0 {
		return nil, errs.NewValueIsRequiredError("waypoints")
	}
	for i, wp := range waypoints {
		if wp.Sequence != i+1 {
			return nil, errs.NewValueIsInvalidErrorWithCause("waypoints",
				fmt.Errorf("waypoint %d has sequence %d, want %d", i, wp.Sequence, i+1))
		}
	}
	if optimizedBy == "" {
		return nil, errs.NewValueIsRequiredError("optimizedBy")
	}

	var meters, secs float64
	for _, wp := range waypoints {
		meters += wp.DistanceMeters
		secs += wp.DurationSecs
	}

	return &RoutePlan{
		id:           id,
		deliveryDate: deliveryDate,
		routeType:    routeType,
		waypoints:    append([]Waypoint(nil), waypoints...),
		legs:         append([]ZoneLeg(nil), legs...),
		totalMeters:  meters,
		totalSecs:    secs,
		optimizedAt:  optimizedAt,
		optimizedBy:  optimizedBy,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the plan was built through the constructor.
func (p *RoutePlan) Validate() error {
	if p == nil {
		return ErrRoutePlanIsNotConstructed
	}
	return p.guard.Validate(ErrRoutePlanIsNotConstructed)
}

// ID returns the snapshot identifier.
func (p *RoutePlan) ID() kernel.UUID {
	return p.id
}

// DeliveryDate returns the date the plan covers.
func (p *RoutePlan) DeliveryDate() time.Time {
	return p.deliveryDate
}

// RouteType returns whether this is the packing or delivery-only route.
func (p *RoutePlan) RouteType() Type {
	return p.routeType
}

// Waypoints returns a copy of the ordered stops.
func (p *RoutePlan) Waypoints() []Waypoint {
	return append([]Waypoint(nil), p.waypoints...)
}

// Legs returns a copy of the per-zone geometries in canonical zone order.
func (p *RoutePlan) Legs() []ZoneLeg {
	return append([]ZoneLeg(nil), p.legs...)
}

// TotalDistanceMeters returns the aggregate route distance.
func (p *RoutePlan) TotalDistanceMeters() float64 {
	return p.totalMeters
}

// TotalDurationSecs returns the aggregate driving duration, excluding dwell.
func (p *RoutePlan) TotalDurationSecs() float64 {
	return p.totalSecs
}

// OptimizedAt returns when the snapshot was computed.
func (p *RoutePlan) OptimizedAt() time.Time {
	return p.optimizedAt
}

// OptimizedBy returns the actor that triggered the run.
func (p *RoutePlan) OptimizedBy() string {
	return p.optimizedBy
}

// OrderIDSet returns the set of order ids covered by the plan, used to detect
// membership changes in the ready-order pool.
func (p *RoutePlan) OrderIDSet() map[string]struct{} {
	set := make(map[string]struct{}, len(p.waypoints))
	for _, wp := range p.waypoints {
		set[wp.OrderID.String()] = struct{}{}
	}
	return set
}

// CoversSameOrders reports whether the plan's waypoints cover exactly the
// given order ids.
func (p *RoutePlan) CoversSameOrders(orderIDs []kernel.UUID) bool {
	if len(orderIDs) != len(p.waypoints) {
		return false
	}
	set := p.OrderIDSet()
	for _, id := range orderIDs {
		if _, ok := set[id.String()]; !ok {
			return false
		}
	}
	return true
}
