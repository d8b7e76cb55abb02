// Package routerepo provides data transfer objects and mapping functions for
// route plan persistence. Plans are append-only snapshots: waypoints and zone
// legs travel with the plan as jsonb.
package routerepo

import (
	"encoding/json"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/route"

	"github.com/google/uuid"
)

// RoutePlanDTO represents the database structure for persisting route plan
// snapshots.
type RoutePlanDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	DeliveryDate time.Time `gorm:"index:idx_route_plans_lookup"`
	RouteType    int       `gorm:"index:idx_route_plans_lookup"`
	Waypoints    string    `gorm:"type:jsonb"`
	Legs         string    `gorm:"type:jsonb"`
	TotalMeters  float64
	TotalSecs    float64
	OptimizedAt  time.Time `gorm:"index"`
	OptimizedBy  string
}

// TableName specifies the database table name for route plan entities.
func (RoutePlanDTO) TableName() string {
	return "route_plans"
}

// WaypointJSON is the jsonb shape of one ordered stop.
type WaypointJSON struct {
	OrderID         string    `json:"orderId"`
	OrderNumber     int64     `json:"orderNumber"`
	Zone            int       `json:"zone"`
	Sequence        int       `json:"sequence"`
	PackingSequence int       `json:"packingSequence"`
	Latitude        float64   `json:"latitude"`
	Longitude       float64   `json:"longitude"`
	EstimatedAt     time.Time `json:"estimatedAt"`
	DistanceMeters  float64   `json:"distanceMeters"`
	DurationSecs    float64   `json:"durationSecs"`
}

// ZoneLegJSON is the jsonb shape of one zone's route geometry.
type ZoneLegJSON struct {
	Zone     int    `json:"zone"`
	Geometry string `json:"geometry"`
}

func fromDomain(p *route.RoutePlan) (RoutePlanDTO, error) {
	waypoints := make([]WaypointJSON, 0, len(p.Waypoints()))
	for _, wp := range p.Waypoints() {
		waypoints = append(waypoints, WaypointJSON{
			OrderID:         wp.OrderID.String(),
			OrderNumber:     wp.OrderNumber,
			Zone:            int(wp.Zone),
			Sequence:        wp.Sequence,
			PackingSequence: wp.PackingSequence,
			Latitude:        wp.Point.Latitude(),
			Longitude:       wp.Point.Longitude(),
			EstimatedAt:     wp.EstimatedAt,
			DistanceMeters:  wp.DistanceMeters,
			DurationSecs:    wp.DurationSecs,
		})
	}

	legs := make([]ZoneLegJSON, 0, len(p.Legs()))
	for _, leg := range p.Legs() {
		legs = append(legs, ZoneLegJSON{Zone: int(leg.Zone), Geometry: leg.Geometry})
	}

	waypointsRaw, err := json.Marshal(waypoints)
	if err != nil {
		return RoutePlanDTO{}, err
	}
	legsRaw, err := json.Marshal(legs)
	if err != nil {
		return RoutePlanDTO{}, err
	}

	return RoutePlanDTO{
		ID:           p.ID().Bytes(),
		DeliveryDate: p.DeliveryDate(),
		RouteType:    int(p.RouteType()),
		Waypoints:    string(waypointsRaw),
		Legs:         string(legsRaw),
		TotalMeters:  p.TotalDistanceMeters(),
		TotalSecs:    p.TotalDurationSecs(),
		OptimizedAt:  p.OptimizedAt(),
		OptimizedBy:  p.OptimizedBy(),
	}, nil
}

func toDomain(dto RoutePlanDTO) (*route.RoutePlan, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var waypointsJSON []WaypointJSON
	if err = json.Unmarshal([]byte(dto.Waypoints), &waypointsJSON); err != nil {
		return nil, err
	}
	waypoints := make([]route.Waypoint, 0, len(waypointsJSON))
	for _, wj := range waypointsJSON {
		orderID, oErr := kernel.UUIDFromString(wj.OrderID)
		if oErr != nil {
			return nil, oErr
		}
		point, pErr := kernel.NewGeoPoint(wj.Latitude, wj.Longitude)
		if pErr != nil {
			return nil, pErr
		}
		waypoints = append(waypoints, route.Waypoint{
			OrderID:         orderID,
			OrderNumber:     wj.OrderNumber,
			Zone:            kernel.Zone(wj.Zone),
			Sequence:        wj.Sequence,
			PackingSequence: wj.PackingSequence,
			Point:           point,
			EstimatedAt:     wj.EstimatedAt,
			DistanceMeters:  wj.DistanceMeters,
			DurationSecs:    wj.DurationSecs,
		})
	}

	var legsJSON []ZoneLegJSON
	if err = json.Unmarshal([]byte(dto.Legs), &legsJSON); err != nil {
		return nil, err
	}
	legs := make([]route.ZoneLeg, 0, len(legsJSON))
	for _, lj := range legsJSON {
		legs = append(legs, route.ZoneLeg{Zone: kernel.Zone(lj.Zone), Geometry: lj.Geometry})
	}

	return route.NewRoutePlan(
		id,
		dto.DeliveryDate,
		route.Type(dto.RouteType),
		waypoints,
		legs,
		dto.OptimizedBy,
		dto.OptimizedAt,
	)
}
