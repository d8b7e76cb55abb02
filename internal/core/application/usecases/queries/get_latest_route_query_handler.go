package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// waypointRow and legRow mirror the jsonb shapes the route repository stores.
type waypointRow struct {
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

type legRow struct {
	Zone     int    `json:"zone"`
	Geometry string `json:"geometry"`
}

// GetLatestRouteQueryHandler fetches the newest route plan snapshot for a
// date and route type.
type GetLatestRouteQueryHandler struct {
	db *gorm.DB
}

// NewGetLatestRouteQueryHandler creates a handler for route plan queries.
func NewGetLatestRouteQueryHandler(db *gorm.DB) GetLatestRouteQueryHandler {
	return GetLatestRouteQueryHandler{db: db}
}

// Handle executes the query. Returns ObjectNotFoundError when no plan has
// been stored for the date and type yet.
func (h GetLatestRouteQueryHandler) Handle(
	ctx context.Context,
	query GetLatestRouteQuery,
) (GetLatestRouteQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetLatestRouteQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			waypoints,
			legs,
			total_meters,
			total_secs,
			optimized_at,
			optimized_by
		FROM route_plans
		WHERE delivery_date = ? AND route_type = ?
		ORDER BY optimized_at DESC
		LIMIT 1
	`, query.DeliveryDate(), int(query.RouteType())).Row()

	var (
		id            uuid.UUID
		waypointsRaw  string
		legsRaw       string
		resp          GetLatestRouteQueryResponse
	)
	err := row.Scan(&id, &waypointsRaw, &legsRaw, &resp.TotalMeters, &resp.TotalSecs, &resp.OptimizedAt, &resp.OptimizedBy)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetLatestRouteQueryResponse{}, errs.NewObjectNotFoundError("routePlan",
				fmt.Sprintf("%s/%s", query.DeliveryDate().Format("2006-01-02"), query.RouteType()))
		}
		return GetLatestRouteQueryResponse{}, err
	}

	if resp.PlanID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return GetLatestRouteQueryResponse{}, err
	}
	resp.RouteType = query.RouteType().String()

	var waypointRows []waypointRow
	if err = json.Unmarshal([]byte(waypointsRaw), &waypointRows); err != nil {
		return GetLatestRouteQueryResponse{}, err
	}
	resp.Stops = make([]RouteStop, 0, len(waypointRows))
	for _, wr := range waypointRows {
		orderID, oErr := kernel.UUIDFromString(wr.OrderID)
		if oErr != nil {
			return GetLatestRouteQueryResponse{}, oErr
		}
		resp.Stops = append(resp.Stops, RouteStop{
			OrderID:         orderID,
			OrderNumber:     wr.OrderNumber,
			Zone:            kernel.Zone(wr.Zone).String(),
			Sequence:        wr.Sequence,
			PackingSequence: wr.PackingSequence,
			Latitude:        wr.Latitude,
			Longitude:       wr.Longitude,
			EstimatedAt:     wr.EstimatedAt,
			DistanceMeters:  wr.DistanceMeters,
			DurationSecs:    wr.DurationSecs,
		})
	}

	var legRows []legRow
	if err = json.Unmarshal([]byte(legsRaw), &legRows); err != nil {
		return GetLatestRouteQueryResponse{}, err
	}
	resp.Legs = make([]RouteLeg, 0, len(legRows))
	for _, lr := range legRows {
		resp.Legs = append(resp.Legs, RouteLeg{Zone: kernel.Zone(lr.Zone).String(), Geometry: lr.Geometry})
	}

	return resp, nil
}
