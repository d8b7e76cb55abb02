package productrepo_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/postgres/productrepo"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/product"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate interface{}) {
	m.Called(id, aggregate)
}

// ProductRepositoryIntegrationTestSuite provides integration tests for
// ProductRepository using PostgreSQL containers.
type ProductRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *productrepo.GormProductRepository
	tracker    *MockAggregateTracker
}

func (suite *ProductRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&productrepo.ProductDTO{}, &productrepo.StockMovementDTO{}))
}

func (suite *ProductRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE products, stock_movements").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = productrepo.NewGormProductRepository(suite.db, suite.tracker)
}

func (suite *ProductRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *ProductRepositoryIntegrationTestSuite) TestAddAndGet_RoundTrips() {
	ctx := context.Background()

	p := suite.newProduct("SKU-APPLE", 20, 5)
	suite.tracker.On("TrackAggregate", p.ID(), p).Once()
	suite.Require().NoError(suite.repository.Add(ctx, p))

	retrieved, err := suite.repository.Get(ctx, p.ID())
	suite.Require().NoError(err)
	suite.Equal("SKU-APPLE", retrieved.SKU())
	suite.Equal(20, retrieved.CurrentStock())
	suite.Equal(5, retrieved.LowStockThreshold())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *ProductRepositoryIntegrationTestSuite) TestGetBySKUs_PreservesRequestOrder() {
	ctx := context.Background()
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)

	suite.Require().NoError(suite.repository.Add(ctx, suite.newProduct("SKU-APPLE", 20, 5)))
	suite.Require().NoError(suite.repository.Add(ctx, suite.newProduct("SKU-CHEESE", 8, 5)))

	products, err := suite.repository.GetBySKUs(ctx, []string{"SKU-CHEESE", "SKU-APPLE"})
	suite.Require().NoError(err)
	suite.Require().Len(products, 2)
	suite.Equal("SKU-CHEESE", products[0].SKU())
	suite.Equal("SKU-APPLE", products[1].SKU())
}

func (suite *ProductRepositoryIntegrationTestSuite) TestGetBySKUs_UnknownSKU_ReturnsNotFoundError() {
	ctx := context.Background()
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)

	suite.Require().NoError(suite.repository.Add(ctx, suite.newProduct("SKU-APPLE", 20, 5)))

	products, err := suite.repository.GetBySKUs(ctx, []string{"SKU-APPLE", "SKU-GHOST"})
	suite.Nil(products)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

func (suite *ProductRepositoryIntegrationTestSuite) TestGetLowStock_ReturnsOnlyProductsAtOrBelowThreshold() {
	ctx := context.Background()
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)

	suite.Require().NoError(suite.repository.Add(ctx, suite.newProduct("SKU-APPLE", 20, 5)))
	suite.Require().NoError(suite.repository.Add(ctx, suite.newProduct("SKU-CHEESE", 5, 5)))
	suite.Require().NoError(suite.repository.Add(ctx, suite.newProduct("SKU-MILK", 2, 5)))

	products, err := suite.repository.GetLowStock(ctx)
	suite.Require().NoError(err)
	suite.Require().Len(products, 2)
	suite.Equal("SKU-CHEESE", products[0].SKU())
	suite.Equal("SKU-MILK", products[1].SKU())
}

func (suite *ProductRepositoryIntegrationTestSuite) TestRecordMovement_AppendsAuditRow() {
	ctx := context.Background()
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)

	p := suite.newProduct("SKU-APPLE", 20, 5)
	suite.Require().NoError(suite.repository.Add(ctx, p))

	movement, err := p.Adjust(-3, "order reservation", "buyer")
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Update(ctx, p))
	suite.Require().NoError(suite.repository.RecordMovement(ctx, movement))

	var rows []productrepo.StockMovementDTO
	suite.Require().NoError(suite.db.Find(&rows).Error)
	suite.Require().Len(rows, 1)
	suite.Equal(-3, rows[0].Delta)
	suite.Equal(20, rows[0].Before)
	suite.Equal(17, rows[0].After)
	suite.Equal("order reservation", rows[0].Reason)
	suite.Equal("buyer", rows[0].Actor)

	retrieved, err := suite.repository.Get(ctx, p.ID())
	suite.Require().NoError(err)
	suite.Equal(17, retrieved.CurrentStock())
}

func (suite *ProductRepositoryIntegrationTestSuite) newProduct(sku string, stock, threshold int) *product.Product {
	p, err := product.NewProduct(kernel.NewUUID(), sku, sku+" carton", stock, threshold)
	suite.Require().NoError(err)
	return p
}

func TestProductRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(ProductRepositoryIntegrationTestSuite))
}
