package commands

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/route"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrOptimizeRouteCommandIsNotConstructed = errors.New(
	"OptimizeRouteCommand must be created via NewOptimizeRouteCommand constructor",
)

// OptimizeRouteCommand represents a request to recompute a route for one
// delivery date. The packing route covers confirmed, packing, and ready
// orders; the delivery route covers only ready orders.
type OptimizeRouteCommand struct { //nolint:recvcheck //using for validation
	deliveryDate time.Time
	routeType    route.Type
	actor        string

	guard guard.ConstructorGuard
}

// NewOptimizeRouteCommand creates a validated optimization request.
func NewOptimizeRouteCommand(deliveryDate time.Time, routeType route.Type, actor string) (OptimizeRouteCommand, error) {
	cmd := OptimizeRouteCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDeliveryDate(deliveryDate),
		cmd.setRouteType(routeType),
		cmd.setActor(actor),
	); err != nil {
		return OptimizeRouteCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c OptimizeRouteCommand) Validate() error {
	return c.guard.Validate(ErrOptimizeRouteCommandIsNotConstructed)
}

// DeliveryDate returns the date being routed.
func (c OptimizeRouteCommand) DeliveryDate() time.Time {
	return c.deliveryDate
}

// RouteType returns which of the two routes to recompute.
func (c OptimizeRouteCommand) RouteType() route.Type {
	return c.routeType
}

// Actor returns who or what triggered the run.
func (c OptimizeRouteCommand) Actor() string {
	return c.actor
}

func (c *OptimizeRouteCommand) setDeliveryDate(date time.Time) error {
	if date.IsZero() {
		return errs.NewValueIsRequiredError("deliveryDate")
	}

	c.deliveryDate = date
	return nil
}

func (c *OptimizeRouteCommand) setRouteType(routeType route.Type) error {
	if err := routeType.Validate(); err != nil {
		return err
	}

	c.routeType = routeType
	return nil
}

func (c *OptimizeRouteCommand) setActor(actor string) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}

	c.actor = actor
	return nil
}
