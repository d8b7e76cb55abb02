package http

import (
	"time"

	"fulfillment/internal/core/application/usecases/queries"
)

// dateLayout is the wire format for delivery dates.
const dateLayout = "2006-01-02"

// ErrorResponse is the uniform error body returned by every endpoint.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// OrderLineRequest is one requested line on a submitted order.
type OrderLineRequest struct {
	SKU        string `json:"sku"`
	Quantity   int    `json:"quantity"`
	UnitPrice  int64  `json:"unitPrice"`
	TaxRateBps int    `json:"taxRateBps"`
}

// AddressRequest is the delivery address on a submitted order.
type AddressRequest struct {
	Street    string   `json:"street"`
	Suburb    string   `json:"suburb"`
	State     string   `json:"state"`
	Postcode  string   `json:"postcode"`
	Zone      string   `json:"zone"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// SubmitOrderRequest is the body of POST /api/v1/orders. The order ID is
// client-generated so retries of the same submission stay idempotent.
type SubmitOrderRequest struct {
	OrderID       string             `json:"orderId"`
	CustomerID    string             `json:"customerId"`
	DeliveryDate  string             `json:"deliveryDate"`
	Lines         []OrderLineRequest `json:"lines"`
	Address       AddressRequest     `json:"address"`
	BypassCredit  bool               `json:"bypassCredit,omitempty"`
	Justification string             `json:"justification,omitempty"`
}

// BackorderApprovalRequest is one reduced-quantity approval line.
type BackorderApprovalRequest struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

// ResolveBackorderRequest is the body of POST /api/v1/orders/:id/backorder.
type ResolveBackorderRequest struct {
	Action    string                     `json:"action"`
	Approvals []BackorderApprovalRequest `json:"approvals,omitempty"`
	Note      string                     `json:"note,omitempty"`
}

// CancelOrderRequest is the body of POST /api/v1/orders/:id/cancel.
type CancelOrderRequest struct {
	Note string `json:"note"`
}

// PackItemRequest is the body of the pack and unpack endpoints. The expected
// version makes concurrent packer edits detectable.
type PackItemRequest struct {
	SKU             string `json:"sku"`
	ExpectedVersion int64  `json:"expectedVersion"`
}

// CorrectQuantityRequest is the body of POST /api/v1/orders/:id/quantity.
type CorrectQuantityRequest struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

// AssignDriverRequest is the body of POST /api/v1/orders/:id/driver.
type AssignDriverRequest struct {
	DriverID string `json:"driverId"`
}

// CompleteDeliveryRequest is the body of POST /api/v1/orders/:id/complete-delivery.
type CompleteDeliveryRequest struct {
	Proof string `json:"proof"`
}

// OptimizeRouteRequest is the body of POST /api/v1/routes/optimize.
type OptimizeRouteRequest struct {
	DeliveryDate string `json:"deliveryDate"`
	RouteType    string `json:"routeType"`
}

// OrderSummaryResponse is one row of the daily fulfillment board.
type OrderSummaryResponse struct {
	ID               string `json:"id"`
	Number           int64  `json:"number"`
	CustomerID       string `json:"customerId"`
	Status           string `json:"status"`
	Zone             string `json:"zone"`
	Total            int64  `json:"total"`
	DeliverySequence int    `json:"deliverySequence"`
	PackingSequence  int    `json:"packingSequence"`
	DriverID         string `json:"driverId,omitempty"`
	DriverSequence   int    `json:"driverSequence"`
}

// AvailableCreditResponse is the body of GET /api/v1/customers/:id/credit.
type AvailableCreditResponse struct {
	CustomerID      string `json:"customerId"`
	CreditLimit     int64  `json:"creditLimit"`
	OpenOrdersTotal int64  `json:"openOrdersTotal"`
	Available       int64  `json:"available"`
}

// BackorderShortfallResponse is one short line on a queued order.
type BackorderShortfallResponse struct {
	SKU       string `json:"sku"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
	Shortfall int    `json:"shortfall"`
}

// BackorderQueueItemResponse is one order awaiting a backorder decision.
type BackorderQueueItemResponse struct {
	ID           string                       `json:"id"`
	Number       int64                        `json:"number"`
	CustomerID   string                       `json:"customerId"`
	DeliveryDate string                       `json:"deliveryDate"`
	Total        int64                        `json:"total"`
	Shortfalls   []BackorderShortfallResponse `json:"shortfalls"`
}

// RouteStopResponse is one ordered stop on a route plan.
type RouteStopResponse struct {
	OrderID         string    `json:"orderId"`
	OrderNumber     int64     `json:"orderNumber"`
	Zone            string    `json:"zone"`
	Sequence        int       `json:"sequence"`
	PackingSequence int       `json:"packingSequence"`
	Latitude        float64   `json:"latitude"`
	Longitude       float64   `json:"longitude"`
	EstimatedAt     time.Time `json:"estimatedAt"`
	DistanceMeters  float64   `json:"distanceMeters"`
	DurationSecs    float64   `json:"durationSecs"`
}

// RouteLegResponse is one zone's polyline on a route plan.
type RouteLegResponse struct {
	Zone     string `json:"zone"`
	Geometry string `json:"geometry"`
}

// RoutePlanResponse is the body of GET /api/v1/routes/latest.
type RoutePlanResponse struct {
	PlanID      string              `json:"planId"`
	RouteType   string              `json:"routeType"`
	TotalMeters float64             `json:"totalMeters"`
	TotalSecs   float64             `json:"totalSecs"`
	OptimizedAt time.Time           `json:"optimizedAt"`
	OptimizedBy string              `json:"optimizedBy"`
	Stops       []RouteStopResponse `json:"stops"`
	Legs        []RouteLegResponse  `json:"legs"`
}

func orderSummaryFromQuery(row queries.GetOrdersForDateQueryResponse) OrderSummaryResponse {
	resp := OrderSummaryResponse{
		ID:               row.ID.String(),
		Number:           row.Number,
		CustomerID:       row.CustomerID.String(),
		Status:           row.Status,
		Zone:             row.Zone,
		Total:            row.Total,
		DeliverySequence: row.DeliverySequence,
		PackingSequence:  row.PackingSequence,
		DriverSequence:   row.DriverSequence,
	}
	if row.DriverID != nil {
		resp.DriverID = row.DriverID.String()
	}
	return resp
}

func backorderItemFromQuery(row queries.GetBackorderQueueQueryResponse) BackorderQueueItemResponse {
	shortfalls := make([]BackorderShortfallResponse, len(row.Shortfalls))
	for i, s := range row.Shortfalls {
		shortfalls[i] = BackorderShortfallResponse{
			SKU:       s.SKU,
			Requested: s.Requested,
			Available: s.Available,
			Shortfall: s.Shortfall,
		}
	}
	return BackorderQueueItemResponse{
		ID:           row.ID.String(),
		Number:       row.Number,
		CustomerID:   row.CustomerID.String(),
		DeliveryDate: row.DeliveryDate.Format(dateLayout),
		Total:        row.Total,
		Shortfalls:   shortfalls,
	}
}

func routePlanFromQuery(plan queries.GetLatestRouteQueryResponse) RoutePlanResponse {
	stops := make([]RouteStopResponse, len(plan.Stops))
	for i, s := range plan.Stops {
		stops[i] = RouteStopResponse{
			OrderID:         s.OrderID.String(),
			OrderNumber:     s.OrderNumber,
			Zone:            s.Zone,
			Sequence:        s.Sequence,
			PackingSequence: s.PackingSequence,
			Latitude:        s.Latitude,
			Longitude:       s.Longitude,
			EstimatedAt:     s.EstimatedAt,
			DistanceMeters:  s.DistanceMeters,
			DurationSecs:    s.DurationSecs,
		}
	}
	legs := make([]RouteLegResponse, len(plan.Legs))
	for i, l := range plan.Legs {
		legs[i] = RouteLegResponse{Zone: l.Zone, Geometry: l.Geometry}
	}
	return RoutePlanResponse{
		PlanID:      plan.PlanID.String(),
		RouteType:   plan.RouteType,
		TotalMeters: plan.TotalMeters,
		TotalSecs:   plan.TotalSecs,
		OptimizedAt: plan.OptimizedAt,
		OptimizedBy: plan.OptimizedBy,
		Stops:       stops,
		Legs:        legs,
	}
}
