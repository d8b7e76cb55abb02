package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/adapters/out/kafka"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/rabbitmq"
	"fulfillment/internal/adapters/out/routesolver"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/jobs"

	"gorm.io/gorm"
)

// CompositionRoot wires adapters, domain services, and use case handlers.
// Outbound connections (kafka, rabbitmq) are opened once here and shared;
// Close releases them.
type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	logger     *slog.Logger

	ledger    services.CreditLedger
	sequencer services.Sequencer

	solver     *routesolver.Client
	origin     kernel.GeoPoint
	routeStart time.Duration

	kafkaSink  *kafka.AccountingSink
	accounting *jobs.AccountingRetryWorker
	notifier   *rabbitmq.NotificationSink

	idleWindow time.Duration
}

// NewCompositionRoot connects outbound adapters and prepares the shared
// dependency graph. The accounting sink is wrapped in the retry worker so a
// broker outage never fails a delivery completion.
func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	origin, err := kernel.NewGeoPoint(config.WarehouseLatitude, config.WarehouseLongitude)
	if err != nil {
		return nil, fmt.Errorf("warehouse origin: %w", err)
	}

	solver, err := routesolver.NewClient(config.SolverBaseURL, config.SolverTimeout)
	if err != nil {
		return nil, fmt.Errorf("route solver client: %w", err)
	}

	notifier, err := rabbitmq.NewNotificationSink(config.RabbitURL, config.RabbitNotificationQueue)
	if err != nil {
		return nil, fmt.Errorf("notification sink: %w", err)
	}

	kafkaSink := kafka.NewAccountingSink(config.KafkaHost, config.KafkaAccountingTopic)
	accounting := jobs.NewAccountingRetryWorker(kafkaSink, notifier, logger)

	return &CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:     logger,
		ledger:     services.NewCreditLedger(),
		sequencer:  services.NewSequencer(config.StopDwell),
		solver:     solver,
		origin:     origin,
		routeStart: config.RouteStartOffset,
		kafkaSink:  kafkaSink,
		accounting: accounting,
		notifier:   notifier,
		idleWindow: config.PackingIdleWindow,
	}, nil
}

// Close releases the outbound broker connections.
func (c *CompositionRoot) Close() error {
	var errs []error
	if err := c.kafkaSink.Close(); err != nil {
		errs = append(errs, fmt.Errorf("kafka sink: %w", err))
	}
	if err := c.notifier.Close(); err != nil {
		errs = append(errs, fmt.Errorf("notification sink: %w", err))
	}
	return errors.Join(errs...)
}

func (c *CompositionRoot) CreateSubmitOrderCommandHandler() commands.SubmitOrderCommandHandler {
	var f commands.FulfillmentUoWFactory = FuncFulfillmentUoWFactory(func() commands.FulfillmentUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSubmitOrderCommandHandler(f, c.ledger, c.notifier, c.logger)
}

func (c *CompositionRoot) CreateResolveBackorderCommandHandler() commands.ResolveBackorderCommandHandler {
	var f commands.FulfillmentUoWFactory = FuncFulfillmentUoWFactory(func() commands.FulfillmentUoW {
		return c.uowFactory.Create()
	})
	return commands.NewResolveBackorderCommandHandler(f, c.notifier, c.logger)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	var f commands.FulfillmentUoWFactory = FuncFulfillmentUoWFactory(func() commands.FulfillmentUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCancelOrderCommandHandler(f, c.notifier, c.logger)
}

func (c *CompositionRoot) CreateCorrectQuantityCommandHandler() commands.CorrectQuantityCommandHandler {
	var f commands.FulfillmentUoWFactory = FuncFulfillmentUoWFactory(func() commands.FulfillmentUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCorrectQuantityCommandHandler(f)
}

func (c *CompositionRoot) CreatePackItemCommandHandler() commands.PackItemCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewPackItemCommandHandler(f)
}

func (c *CompositionRoot) CreateUnpackItemCommandHandler() commands.UnpackItemCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewUnpackItemCommandHandler(f)
}

func (c *CompositionRoot) CreateOptimizeRouteCommandHandler() commands.OptimizeRouteCommandHandler {
	var f commands.RoutingUoWFactory = FuncRoutingUoWFactory(func() commands.RoutingUoW {
		return c.uowFactory.Create()
	})
	return commands.NewOptimizeRouteCommandHandler(f, c.solver, c.sequencer, c.origin, c.routeStart)
}

func (c *CompositionRoot) CreateAssignDriverCommandHandler() commands.AssignDriverCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewAssignDriverCommandHandler(f, c.sequencer)
}

func (c *CompositionRoot) CreateStartDeliveryCommandHandler() commands.StartDeliveryCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewStartDeliveryCommandHandler(f, c.notifier, c.logger)
}

func (c *CompositionRoot) CreateCompleteDeliveryCommandHandler() commands.CompleteDeliveryCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCompleteDeliveryCommandHandler(f, c.accounting, c.notifier, c.logger)
}

func (c *CompositionRoot) CreateSuspendCustomerCommandHandler() commands.SuspendCustomerCommandHandler {
	var f commands.CustomerUoWFactory = FuncCustomerUoWFactory(func() commands.CustomerUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSuspendCustomerCommandHandler(f)
}

func (c *CompositionRoot) CreateRevertStalePackingCommandHandler() commands.RevertStalePackingCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRevertStalePackingCommandHandler(f)
}

func (c *CompositionRoot) CreateGetOrdersForDateQueryHandler() queries.GetOrdersForDateQueryHandler {
	return queries.NewGetOrdersForDateQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAvailableCreditQueryHandler() queries.GetAvailableCreditQueryHandler {
	return queries.NewGetAvailableCreditQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetBackorderQueueQueryHandler() queries.GetBackorderQueueQueryHandler {
	return queries.NewGetBackorderQueueQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetLatestRouteQueryHandler() queries.GetLatestRouteQueryHandler {
	return queries.NewGetLatestRouteQueryHandler(c.gormDB)
}

// CreateJobManager builds the background job set. The accounting retry
// worker is the same instance handed to the delivery completion handler.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	var routingFactory commands.RoutingUoWFactory = FuncRoutingUoWFactory(func() commands.RoutingUoW {
		return c.uowFactory.Create()
	})
	var fulfillmentFactory commands.FulfillmentUoWFactory = FuncFulfillmentUoWFactory(func() commands.FulfillmentUoW {
		return c.uowFactory.Create()
	})

	sweep := jobs.NewPackingIdleSweepJob(c.CreateRevertStalePackingCommandHandler(), c.idleWindow, c.logger)
	refresh := jobs.NewDeliveryRouteRefreshJob(routingFactory, c.CreateOptimizeRouteCommandHandler(), c.logger)
	digest := jobs.NewLowStockDigestJob(fulfillmentFactory, c.notifier, c.logger)

	return jobs.NewJobManager(sweep, refresh, c.accounting, digest)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncCustomerUoWFactory func() commands.CustomerUoW

func (f FuncCustomerUoWFactory) Create() commands.CustomerUoW {
	return f()
}

type FuncFulfillmentUoWFactory func() commands.FulfillmentUoW

func (f FuncFulfillmentUoWFactory) Create() commands.FulfillmentUoW {
	return f()
}

type FuncRoutingUoWFactory func() commands.RoutingUoW

func (f FuncRoutingUoWFactory) Create() commands.RoutingUoW {
	return f()
}
