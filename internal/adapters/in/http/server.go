package http

import (
	"net/http"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/route"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Request headers identifying the caller. The actor is recorded on every
// status transition; the role gates privileged operations.
const (
	actorHeader = "X-Actor"
	roleHeader  = "X-Actor-Role"

	// supervisorRole is required for backorder resolution, credit bypass
	// and account suspension.
	supervisorRole = "supervisor"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	submitOrderHandler      commands.SubmitOrderCommandHandler
	resolveBackorderHandler commands.ResolveBackorderCommandHandler
	cancelOrderHandler      commands.CancelOrderCommandHandler
	packItemHandler         commands.PackItemCommandHandler
	unpackItemHandler       commands.UnpackItemCommandHandler
	correctQuantityHandler  commands.CorrectQuantityCommandHandler
	optimizeRouteHandler    commands.OptimizeRouteCommandHandler
	assignDriverHandler     commands.AssignDriverCommandHandler
	startDeliveryHandler    commands.StartDeliveryCommandHandler
	completeDeliveryHandler commands.CompleteDeliveryCommandHandler
	suspendCustomerHandler  commands.SuspendCustomerCommandHandler

	// Query handlers
	getOrdersForDateHandler   queries.GetOrdersForDateQueryHandler
	getAvailableCreditHandler queries.GetAvailableCreditQueryHandler
	getBackorderQueueHandler  queries.GetBackorderQueueQueryHandler
	getLatestRouteHandler     queries.GetLatestRouteQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	submitOrderHandler commands.SubmitOrderCommandHandler,
	resolveBackorderHandler commands.ResolveBackorderCommandHandler,
	cancelOrderHandler commands.CancelOrderCommandHandler,
	packItemHandler commands.PackItemCommandHandler,
	unpackItemHandler commands.UnpackItemCommandHandler,
	correctQuantityHandler commands.CorrectQuantityCommandHandler,
	optimizeRouteHandler commands.OptimizeRouteCommandHandler,
	assignDriverHandler commands.AssignDriverCommandHandler,
	startDeliveryHandler commands.StartDeliveryCommandHandler,
	completeDeliveryHandler commands.CompleteDeliveryCommandHandler,
	suspendCustomerHandler commands.SuspendCustomerCommandHandler,
	getOrdersForDateHandler queries.GetOrdersForDateQueryHandler,
	getAvailableCreditHandler queries.GetAvailableCreditQueryHandler,
	getBackorderQueueHandler queries.GetBackorderQueueQueryHandler,
	getLatestRouteHandler queries.GetLatestRouteQueryHandler,
) *Server {
	return &Server{
		submitOrderHandler:        submitOrderHandler,
		resolveBackorderHandler:   resolveBackorderHandler,
		cancelOrderHandler:        cancelOrderHandler,
		packItemHandler:           packItemHandler,
		unpackItemHandler:         unpackItemHandler,
		correctQuantityHandler:    correctQuantityHandler,
		optimizeRouteHandler:      optimizeRouteHandler,
		assignDriverHandler:       assignDriverHandler,
		startDeliveryHandler:      startDeliveryHandler,
		completeDeliveryHandler:   completeDeliveryHandler,
		suspendCustomerHandler:    suspendCustomerHandler,
		getOrdersForDateHandler:   getOrdersForDateHandler,
		getAvailableCreditHandler: getAvailableCreditHandler,
		getBackorderQueueHandler:  getBackorderQueueHandler,
		getLatestRouteHandler:     getLatestRouteHandler,
	}
}

// RegisterRoutes mounts every endpoint on the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)

	api := e.Group("/api/v1")
	api.POST("/orders", s.SubmitOrder)
	api.GET("/orders", s.GetOrdersForDate)
	api.POST("/orders/:id/backorder", s.ResolveBackorder)
	api.POST("/orders/:id/cancel", s.CancelOrder)
	api.POST("/orders/:id/pack", s.PackItem)
	api.POST("/orders/:id/unpack", s.UnpackItem)
	api.POST("/orders/:id/quantity", s.CorrectQuantity)
	api.POST("/orders/:id/driver", s.AssignDriver)
	api.POST("/orders/:id/start-delivery", s.StartDelivery)
	api.POST("/orders/:id/complete-delivery", s.CompleteDelivery)
	api.POST("/routes/optimize", s.OptimizeRoute)
	api.GET("/routes/latest", s.GetLatestRoute)
	api.GET("/backorders", s.GetBackorderQueue)
	api.GET("/customers/:id/credit", s.GetAvailableCredit)
	api.POST("/customers/:id/suspend", s.SuspendCustomer)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// SubmitOrder handles POST /api/v1/orders - runs the credit and stock gates
// and persists the submitted order.
func (s *Server) SubmitOrder(ctx echo.Context) error {
	var req SubmitOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return respondError(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
	}

	if req.BypassCredit && ctx.Request().Header.Get(roleHeader) != supervisorRole {
		return ctx.JSON(http.StatusForbidden, ErrorResponse{
			Code:    http.StatusForbidden,
			Message: "credit bypass requires the supervisor role",
		})
	}

	orderID, err := kernel.UUIDFromString(req.OrderID)
	if err != nil {
		return respondError(ctx, err)
	}
	customerID, err := kernel.UUIDFromString(req.CustomerID)
	if err != nil {
		return respondError(ctx, err)
	}
	deliveryDate, err := parseDate(req.DeliveryDate)
	if err != nil {
		return respondError(ctx, err)
	}
	zone, err := kernel.ZoneFromString(req.Address.Zone)
	if err != nil {
		return respondError(ctx, err)
	}

	lines := make([]commands.SubmitOrderLine, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = commands.SubmitOrderLine{
			SKU:        l.SKU,
			Quantity:   l.Quantity,
			UnitPrice:  l.UnitPrice,
			TaxRateBps: l.TaxRateBps,
		}
	}

	cmd, err := commands.NewSubmitOrderCommand(
		orderID,
		customerID,
		lines,
		commands.SubmitOrderAddress{
			Street:    req.Address.Street,
			Suburb:    req.Address.Suburb,
			State:     req.Address.State,
			Postcode:  req.Address.Postcode,
			Zone:      zone,
			Latitude:  req.Address.Latitude,
			Longitude: req.Address.Longitude,
		},
		deliveryDate,
		req.BypassCredit,
		req.Justification,
		actor(ctx),
	)
	if err != nil {
		return respondError(ctx, err)
	}

	if err := s.submitOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusCreated)
}

// ResolveBackorder handles POST /api/v1/orders/:id/backorder - approves,
// partially approves or rejects an awaiting-approval order.
func (s *Server) ResolveBackorder(ctx echo.Context) error {
	if ctx.Request().Header.Get(roleHeader) != supervisorRole {
		return ctx.JSON(http.StatusForbidden, ErrorResponse{
			Code:    http.StatusForbidden,
			Message: "backorder resolution requires the supervisor role",
		})
	}

	var req ResolveBackorderRequest
	if err := ctx.Bind(&req); err != nil {
		return respondError(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return respondError(ctx, err)
	}
	action, err := commands.BackorderActionFromString(req.Action)
	if err != nil {
		return respondError(ctx, err)
	}

	approvals := make([]commands.BackorderApproval, len(req.Approvals))
	for i, a := range req.Approvals {
		approvals[i] = commands.BackorderApproval{SKU: a.SKU, Quantity: a.Quantity}
	}

	cmd, err := commands.NewResolveBackorderCommand(orderID, action, approvals, req.Note, actor(ctx))
	if err != nil {
		return respondError(ctx, err)
	}

	if err := s.resolveBackorderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// CancelOrder handles POST /api/v1/orders/:id/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	var req CancelOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return respondError(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewCancelOrderCommand(orderID, req.Note, actor(ctx))
	if err != nil {
		return respondError(ctx, err)
	}

	if err := s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// PackItem handles POST /api/v1/orders/:id/pack - marks one SKU as packed.
func (s *Server) PackItem(ctx echo.Context) error {
	var req PackItemRequest
	if err := ctx.Bind(&req); err != nil {
		return respondError(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewPackItemCommand(orderID, req.SKU, req.ExpectedVersion, actor(ctx))
	if err != nil {
		return respondError(ctx, err)
	}

	if err := s.packItemHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// UnpackItem handles POST /api/v1/orders/:id/unpack - reverts one packed SKU.
func (s *Server) UnpackItem(ctx echo.Context) error {
	var req PackItemRequest
	if err := ctx.Bind(&req); err != nil {
		return respondError(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewUnpackItemCommand(orderID, req.SKU, req.ExpectedVersion, actor(ctx))
	if err != nil {
		return respondError(ctx, err)
	}

	if err := s.unpackItemHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// CorrectQuantity handles POST /api/v1/orders/:id/quantity - adjusts one
// line's quantity during packing and moves reserved stock by the delta.
func (s *Server) CorrectQuantity(ctx echo.Context) error {
	var req CorrectQuantityRequest
	if err := ctx.Bind(&req); err != nil {
		return respondError(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewCorrectQuantityCommand(orderID, req.SKU, req.Quantity, actor(ctx))
	if err != nil {
		return respondError(ctx, err)
	}

	if err := s.correctQuantityHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// OptimizeRoute handles POST /api/v1/routes/optimize - recalculates the
// packing or delivery sequence for a date.
func (s *Server) OptimizeRoute(ctx echo.Context) error {
	var req OptimizeRouteRequest
	if err := ctx.Bind(&req); err != nil {
		return respondError(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
	}

	deliveryDate, err := parseDate(req.DeliveryDate)
	if err != nil {
		return respondError(ctx, err)
	}
	routeType, err := route.TypeFromString(req.RouteType)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewOptimizeRouteCommand(deliveryDate, routeType, actor(ctx))
	if err != nil {
		return respondError(ctx, err)
	}

	if err := s.optimizeRouteHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// AssignDriver handles POST /api/v1/orders/:id/driver.
func (s *Server) AssignDriver(ctx echo.Context) error {
	var req AssignDriverRequest
	if err := ctx.Bind(&req); err != nil {
		return respondError(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return respondError(ctx, err)
	}
	driverID, err := kernel.UUIDFromString(req.DriverID)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewAssignDriverCommand(orderID, driverID, actor(ctx))
	if err != nil {
		return respondError(ctx, err)
	}

	if err := s.assignDriverHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// StartDelivery handles POST /api/v1/orders/:id/start-delivery.
func (s *Server) StartDelivery(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewStartDeliveryCommand(orderID, actor(ctx))
	if err != nil {
		return respondError(ctx, err)
	}

	if err := s.startDeliveryHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// CompleteDelivery handles POST /api/v1/orders/:id/complete-delivery -
// records proof of delivery and triggers the accounting handoff.
func (s *Server) CompleteDelivery(ctx echo.Context) error {
	var req CompleteDeliveryRequest
	if err := ctx.Bind(&req); err != nil {
		return respondError(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewCompleteDeliveryCommand(orderID, req.Proof, actor(ctx))
	if err != nil {
		return respondError(ctx, err)
	}

	if err := s.completeDeliveryHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// SuspendCustomer handles POST /api/v1/customers/:id/suspend.
func (s *Server) SuspendCustomer(ctx echo.Context) error {
	if ctx.Request().Header.Get(roleHeader) != supervisorRole {
		return ctx.JSON(http.StatusForbidden, ErrorResponse{
			Code:    http.StatusForbidden,
			Message: "account suspension requires the supervisor role",
		})
	}

	customerID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewSuspendCustomerCommand(customerID, actor(ctx))
	if err != nil {
		return respondError(ctx, err)
	}

	if err := s.suspendCustomerHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// GetOrdersForDate handles GET /api/v1/orders?date=2026-06-12&status=confirmed.
// The status parameter is optional and repeatable.
func (s *Server) GetOrdersForDate(ctx echo.Context) error {
	deliveryDate, err := parseDate(ctx.QueryParam("date"))
	if err != nil {
		return respondError(ctx, err)
	}

	var statuses []order.Status
	for _, raw := range ctx.QueryParams()["status"] {
		status, parseErr := order.StatusFromString(raw)
		if parseErr != nil {
			return respondError(ctx, parseErr)
		}
		statuses = append(statuses, status)
	}

	query, err := queries.NewGetOrdersForDateQuery(deliveryDate, statuses...)
	if err != nil {
		return respondError(ctx, err)
	}

	rows, err := s.getOrdersForDateHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	response := make([]OrderSummaryResponse, len(rows))
	for i, row := range rows {
		response[i] = orderSummaryFromQuery(row)
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetAvailableCredit handles GET /api/v1/customers/:id/credit.
func (s *Server) GetAvailableCredit(ctx echo.Context) error {
	customerID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return respondError(ctx, err)
	}

	query, err := queries.NewGetAvailableCreditQuery(customerID)
	if err != nil {
		return respondError(ctx, err)
	}

	credit, err := s.getAvailableCreditHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, AvailableCreditResponse{
		CustomerID:      credit.CustomerID.String(),
		CreditLimit:     credit.CreditLimit,
		OpenOrdersTotal: credit.OpenOrdersTotal,
		Available:       credit.Available,
	})
}

// GetBackorderQueue handles GET /api/v1/backorders - lists orders awaiting a
// backorder decision, oldest first.
func (s *Server) GetBackorderQueue(ctx echo.Context) error {
	query := queries.NewGetBackorderQueueQuery()

	rows, err := s.getBackorderQueueHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	response := make([]BackorderQueueItemResponse, len(rows))
	for i, row := range rows {
		response[i] = backorderItemFromQuery(row)
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetLatestRoute handles GET /api/v1/routes/latest?date=2026-06-12&type=delivery.
func (s *Server) GetLatestRoute(ctx echo.Context) error {
	deliveryDate, err := parseDate(ctx.QueryParam("date"))
	if err != nil {
		return respondError(ctx, err)
	}
	routeType, err := route.TypeFromString(ctx.QueryParam("type"))
	if err != nil {
		return respondError(ctx, err)
	}

	query, err := queries.NewGetLatestRouteQuery(deliveryDate, routeType)
	if err != nil {
		return respondError(ctx, err)
	}

	plan, err := s.getLatestRouteHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, routePlanFromQuery(plan))
}

func actor(ctx echo.Context) string {
	return ctx.Request().Header.Get(actorHeader)
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, errs.NewValueIsRequiredError("date")
	}
	parsed, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, errs.NewValueIsInvalidErrorWithCause("date", err)
	}
	return parsed, nil
}
