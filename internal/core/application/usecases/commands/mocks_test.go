package commands_test

import (
	"context"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/customer"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/product"
	"fulfillment/internal/core/domain/model/route"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetOpenByCustomer(ctx context.Context, customerID kernel.UUID) ([]*order.Order, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetForDateInStatuses(
	ctx context.Context, date time.Time, statuses ...order.Status,
) ([]*order.Order, error) {
	args := m.Called(ctx, date, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetStalePacking(ctx context.Context, cutoff time.Time) ([]*order.Order, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) NextNumber(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockCustomerRepository struct{ mock.Mock }

func (m *MockCustomerRepository) Add(ctx context.Context, c *customer.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCustomerRepository) Update(ctx context.Context, c *customer.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCustomerRepository) Get(ctx context.Context, id kernel.UUID) (*customer.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

type MockProductRepository struct{ mock.Mock }

func (m *MockProductRepository) Add(ctx context.Context, p *product.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, p *product.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepository) Get(ctx context.Context, id kernel.UUID) (*product.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductRepository) GetBySKUs(ctx context.Context, skus []string) ([]*product.Product, error) {
	args := m.Called(ctx, skus)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*product.Product), args.Error(1)
}

func (m *MockProductRepository) GetLowStock(ctx context.Context) ([]*product.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*product.Product), args.Error(1)
}

func (m *MockProductRepository) RecordMovement(ctx context.Context, movement product.StockMovement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

type MockRoutePlanRepository struct{ mock.Mock }

func (m *MockRoutePlanRepository) Add(ctx context.Context, plan *route.RoutePlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockRoutePlanRepository) GetLatest(
	ctx context.Context, date time.Time, routeType route.Type,
) (*route.RoutePlan, error) {
	args := m.Called(ctx, date, routeType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*route.RoutePlan), args.Error(1)
}

// txMock provides the Begin/Commit/Rollback trio shared by all UoW mocks.
// Begin and Rollback default to success unless an expectation is set, which
// keeps the happy-path tests focused on the calls that matter.
type txMock struct{ mock.Mock }

func (m *txMock) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *txMock) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *txMock) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockFulfillmentUoW struct {
	txMock
	orders    *MockOrderRepository
	customers *MockCustomerRepository
	products  *MockProductRepository
}

func (m *MockFulfillmentUoW) OrderRepository() ports.OrderRepository       { return m.orders }
func (m *MockFulfillmentUoW) CustomerRepository() ports.CustomerRepository { return m.customers }
func (m *MockFulfillmentUoW) ProductRepository() ports.ProductRepository   { return m.products }

type MockFulfillmentUoWFactory struct{ uow *MockFulfillmentUoW }

func (m *MockFulfillmentUoWFactory) Create() commands.FulfillmentUoW { return m.uow }

func newFulfillmentUoW() (*MockFulfillmentUoWFactory, *MockFulfillmentUoW) {
	uow := &MockFulfillmentUoW{
		orders:    new(MockOrderRepository),
		customers: new(MockCustomerRepository),
		products:  new(MockProductRepository),
	}
	return &MockFulfillmentUoWFactory{uow: uow}, uow
}

type MockOrderUoW struct {
	txMock
	orders *MockOrderRepository
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository { return m.orders }

type MockOrderUoWFactory struct{ uow *MockOrderUoW }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW { return m.uow }

func newOrderUoW() (*MockOrderUoWFactory, *MockOrderUoW) {
	uow := &MockOrderUoW{orders: new(MockOrderRepository)}
	return &MockOrderUoWFactory{uow: uow}, uow
}

type MockCustomerUoW struct {
	txMock
	customers *MockCustomerRepository
}

func (m *MockCustomerUoW) CustomerRepository() ports.CustomerRepository { return m.customers }

type MockCustomerUoWFactory struct{ uow *MockCustomerUoW }

func (m *MockCustomerUoWFactory) Create() commands.CustomerUoW { return m.uow }

type MockRoutingUoW struct {
	txMock
	orders *MockOrderRepository
	plans  *MockRoutePlanRepository
}

func (m *MockRoutingUoW) OrderRepository() ports.OrderRepository         { return m.orders }
func (m *MockRoutingUoW) RoutePlanRepository() ports.RoutePlanRepository { return m.plans }

type MockRoutingUoWFactory struct{ uow *MockRoutingUoW }

func (m *MockRoutingUoWFactory) Create() commands.RoutingUoW { return m.uow }

func newRoutingUoW() (*MockRoutingUoWFactory, *MockRoutingUoW) {
	uow := &MockRoutingUoW{orders: new(MockOrderRepository), plans: new(MockRoutePlanRepository)}
	return &MockRoutingUoWFactory{uow: uow}, uow
}

type MockNotificationSink struct{ mock.Mock }

func (m *MockNotificationSink) Publish(ctx context.Context, n ports.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

type MockAccountingSink struct{ mock.Mock }

func (m *MockAccountingSink) Enqueue(ctx context.Context, job ports.AccountingJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

type MockRouteSolver struct{ mock.Mock }

func (m *MockRouteSolver) Solve(
	ctx context.Context, origin kernel.GeoPoint, points []route.RoutePoint,
) (route.SolvedRoute, error) {
	args := m.Called(ctx, origin, points)
	return args.Get(0).(route.SolvedRoute), args.Error(1)
}

func expectTx(m *txMock) {
	m.On("Begin", mock.Anything).Return(nil)
	m.On("Commit", mock.Anything).Return(nil)
	m.On("Rollback", mock.Anything).Return(nil)
}
