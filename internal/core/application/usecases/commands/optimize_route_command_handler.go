package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/route"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
)

var (
	// ErrNoOrdersToRoute is returned when the date has no orders in the
	// statuses the route type covers.
	ErrNoOrdersToRoute = errors.New("no orders to route")

	// ErrOrdersMissingCoordinates aborts a run when any order in the pool
	// has no geocoded address. The wrapping error lists every offending
	// order number so they can all be fixed in one pass.
	ErrOrdersMissingCoordinates = errors.New("orders are missing coordinates")
)

// OptimizeRouteCommandHandler recomputes one route snapshot. Each zone is
// solved independently against the external solver, the sequencer stitches
// the zone results into global delivery and packing sequences, and the
// sequence sub-fields are written back to the orders. A solver failure
// aborts the run before anything is written, leaving the previous snapshot
// and sequences in place.
type OptimizeRouteCommandHandler struct {
	uowFactory RoutingUoWFactory
	solver     ports.RouteSolver
	sequencer  services.Sequencer
	origin     kernel.GeoPoint
	routeStart time.Duration
}

// NewOptimizeRouteCommandHandler creates a handler for route optimization.
// origin is the warehouse location every route departs from; routeStart is
// the daily departure time as an offset from midnight of the delivery date.
func NewOptimizeRouteCommandHandler(
	uowFactory RoutingUoWFactory,
	solver ports.RouteSolver,
	sequencer services.Sequencer,
	origin kernel.GeoPoint,
	routeStart time.Duration,
) OptimizeRouteCommandHandler {
	return OptimizeRouteCommandHandler{
		uowFactory: uowFactory,
		solver:     solver,
		sequencer:  sequencer,
		origin:     origin,
		routeStart: routeStart,
	}
}

// Handle processes the optimization run.
func (h OptimizeRouteCommandHandler) Handle(ctx context.Context, cmd OptimizeRouteCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	orders, err := orderRepo.GetForDateInStatuses(ctx, cmd.DeliveryDate(), routePoolStatuses(cmd.RouteType())...)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		return ErrNoOrdersToRoute
	}
	if err = checkCoordinates(orders); err != nil {
		return err
	}

	points := make(map[kernel.Zone][]route.RoutePoint)
	details := make(map[string]services.StopDetail, len(orders))
	for _, o := range orders {
		addr := o.Address()
		geo := *addr.Geo()
		points[addr.Zone()] = append(points[addr.Zone()], route.RoutePoint{OrderID: o.ID(), Point: geo})
		details[o.ID().String()] = services.StopDetail{OrderNumber: o.Number(), Point: geo}
	}

	solved := make(map[kernel.Zone]route.SolvedRoute, len(points))
	for _, zone := range kernel.CanonicalZones() {
		zonePoints, ok := points[zone]
		if !ok {
			continue
		}
		result, err := h.solver.Solve(ctx, h.origin, zonePoints)
		if err != nil {
			return fmt.Errorf("solve zone %s: %w", zone, err)
		}
		solved[zone] = result
	}

	day := cmd.DeliveryDate().Truncate(24 * time.Hour)
	waypoints, legs, err := h.sequencer.BuildSequences(solved, details, day.Add(h.routeStart))
	if err != nil {
		return err
	}

	plan, err := route.NewRoutePlan(
		kernel.NewUUID(), cmd.DeliveryDate(), cmd.RouteType(),
		waypoints, legs, cmd.Actor(), time.Now().UTC(),
	)
	if err != nil {
		return err
	}
	if err = uow.RoutePlanRepository().Add(ctx, plan); err != nil {
		return err
	}

	byID := make(map[string]*order.Order, len(orders))
	for _, o := range orders {
		byID[o.ID().String()] = o
	}
	for _, wp := range waypoints {
		o := byID[wp.OrderID.String()]
		if err = o.SetRouteSequences(wp.Sequence, wp.PackingSequence); err != nil {
			return err
		}
	}

	if cmd.RouteType() == route.TypeDelivery {
		if err = h.resequenceDrivers(orders); err != nil {
			return err
		}
	}

	for _, o := range orders {
		if err = orderRepo.Update(ctx, o); err != nil {
			return err
		}
	}
	return uow.Commit(ctx)
}

// resequenceDrivers refreshes per-driver positions from the new global
// sequence for every stop that already has a driver.
func (h OptimizeRouteCommandHandler) resequenceDrivers(orders []*order.Order) error {
	var stops []services.DriverStop
	byID := make(map[string]*order.Order, len(orders))
	for _, o := range orders {
		byID[o.ID().String()] = o
		delivery := o.Delivery()
		if delivery.DriverID == nil {
			continue
		}
		stops = append(stops, services.DriverStop{
			OrderID:        o.ID(),
			DriverID:       *delivery.DriverID,
			GlobalSequence: delivery.Sequence,
		})
	}

	for _, ds := range h.sequencer.PerDriverSequences(stops) {
		if err := byID[ds.OrderID.String()].SetDriverSequences(ds.Sequence, ds.PackingSequence); err != nil {
			return err
		}
	}
	return nil
}

func routePoolStatuses(t route.Type) []order.Status {
	if t == route.TypeDelivery {
		return []order.Status{order.ReadyForDelivery}
	}
	return []order.Status{order.Confirmed, order.Packing, order.ReadyForDelivery}
}

// checkCoordinates fails fast when any order lacks a geocoded address,
// listing every offending order number.
func checkCoordinates(orders []*order.Order) error {
	var missing []string
	for _, o := range orders {
		if !o.Address().HasGeo() {
			missing = append(missing, fmt.Sprintf("#%d", o.Number()))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrOrdersMissingCoordinates, strings.Join(missing, ", "))
	}
	return nil
}
