// Package routesolver is the HTTP client for the external route optimization
// service. The service takes a depot origin plus a set of destinations and
// returns the optimized visiting order with per-leg distances and durations.
package routesolver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/route"
	"fulfillment/internal/pkg/errs"
)

// Client implements ports.RouteSolver against the solver's /solve endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a solver client. The timeout bounds one whole solve call
// including the response body read.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	if baseURL == "" {
		return nil, errs.NewValueIsRequiredError("baseURL")
	}
	if timeout <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("timeout", timeout, "1ns", "unbounded")
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

type solveRequestPoint struct {
	ID        string  `json:"id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type solveRequest struct {
	Origin solveRequestPoint   `json:"origin"`
	Points []solveRequestPoint `json:"points"`
}

type solveResponseSegment struct {
	DistanceMeters float64 `json:"distanceMeters"`
	DurationSecs   float64 `json:"durationSecs"`
}

type solveResponse struct {
	OrderedIDs []string               `json:"orderedIds"`
	Segments   []solveResponseSegment `json:"segments"`
	Geometry   string                 `json:"geometry"`
}

// Solve posts the coordinate group to the solver and maps the response. The
// solver must return exactly one segment per visited point; anything else is
// treated as a protocol error.
func (c *Client) Solve(
	ctx context.Context, origin kernel.GeoPoint, points []route.RoutePoint,
) (route.SolvedRoute, error) {
	if len(points) == 0 {
		return route.SolvedRoute{}, errs.NewValueIsRequiredError("points")
	}

	reqBody := solveRequest{
		Origin: solveRequestPoint{Latitude: origin.Latitude(), Longitude: origin.Longitude()},
		Points: make([]solveRequestPoint, 0, len(points)),
	}
	for _, p := range points {
		reqBody.Points = append(reqBody.Points, solveRequestPoint{
			ID:        p.OrderID.String(),
			Latitude:  p.Point.Latitude(),
			Longitude: p.Point.Longitude(),
		})
	}

	raw, err := json.Marshal(reqBody)
	if err != nil {
		return route.SolvedRoute{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/solve", bytes.NewReader(raw))
	if err != nil {
		return route.SolvedRoute{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return route.SolvedRoute{}, fmt.Errorf("call route solver: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return route.SolvedRoute{}, fmt.Errorf("route solver returned %d: %s", resp.StatusCode, body)
	}

	var solved solveResponse
	if err = json.NewDecoder(resp.Body).Decode(&solved); err != nil {
		return route.SolvedRoute{}, fmt.Errorf("decode solver response: %w", err)
	}

	if len(solved.OrderedIDs) != len(points) || len(solved.Segments) != len(points) {
		return route.SolvedRoute{}, fmt.Errorf(
			"route solver answered %d ids and %d segments for %d points",
			len(solved.OrderedIDs), len(solved.Segments), len(points))
	}

	result := route.SolvedRoute{
		OrderedIDs: make([]kernel.UUID, 0, len(solved.OrderedIDs)),
		Segments:   make([]route.Segment, 0, len(solved.Segments)),
		Geometry:   solved.Geometry,
	}
	for _, id := range solved.OrderedIDs {
		orderID, idErr := kernel.UUIDFromString(id)
		if idErr != nil {
			return route.SolvedRoute{}, fmt.Errorf("solver returned bad order id %q: %w", id, idErr)
		}
		result.OrderedIDs = append(result.OrderedIDs, orderID)
	}
	for _, seg := range solved.Segments {
		result.Segments = append(result.Segments, route.Segment{
			DistanceMeters: seg.DistanceMeters,
			DurationSecs:   seg.DurationSecs,
		})
	}

	return result, nil
}
