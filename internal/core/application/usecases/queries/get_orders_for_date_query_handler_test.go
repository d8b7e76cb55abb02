package queries_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type GetOrdersForDateQueryHandlerTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	handler   queries.GetOrdersForDateQueryHandler
	orderRepo *orderrepo.GormOrderRepository
}

func (suite *GetOrdersForDateQueryHandlerTestSuite) SetupSuite() {
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

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}))

	suite.handler = queries.NewGetOrdersForDateQueryHandler(db)
}

func (suite *GetOrdersForDateQueryHandlerTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders").Error)

	tracker := new(trackerStub)
	tracker.On("TrackAggregate", mock.Anything, mock.Anything)
	suite.orderRepo = orderrepo.NewGormOrderRepository(suite.db, tracker)
}

func (suite *GetOrdersForDateQueryHandlerTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *GetOrdersForDateQueryHandlerTestSuite) boardDate() time.Time {
	return time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
}

func (suite *GetOrdersForDateQueryHandlerTestSuite) TestHandle_ListsDayInNumberOrder() {
	ctx := context.Background()

	suite.seedBoardOrder(3002, suite.boardDate(), true)
	suite.seedBoardOrder(3001, suite.boardDate(), false)
	// Different date, never listed.
	suite.seedBoardOrder(3003, suite.boardDate().AddDate(0, 0, 1), false)

	query, err := queries.NewGetOrdersForDateQuery(suite.boardDate())
	suite.Require().NoError(err)

	rows, err := suite.handler.Handle(ctx, query)
	suite.Require().NoError(err)

	suite.Require().Len(rows, 2)
	suite.Equal(int64(3001), rows[0].Number)
	suite.Equal(int64(3002), rows[1].Number)
	suite.Equal("pending", rows[0].Status)
	suite.Equal("confirmed", rows[1].Status)
	suite.Equal("north", rows[0].Zone)
	suite.Equal(int64(10940), rows[0].Total)
	suite.Nil(rows[0].DriverID)
}

func (suite *GetOrdersForDateQueryHandlerTestSuite) TestHandle_StatusFilter() {
	ctx := context.Background()

	suite.seedBoardOrder(3001, suite.boardDate(), false)
	confirmed := suite.seedBoardOrder(3002, suite.boardDate(), true)

	query, err := queries.NewGetOrdersForDateQuery(suite.boardDate(), order.Confirmed)
	suite.Require().NoError(err)

	rows, err := suite.handler.Handle(ctx, query)
	suite.Require().NoError(err)

	suite.Require().Len(rows, 1)
	suite.Equal(confirmed.ID(), rows[0].ID)
}

func (suite *GetOrdersForDateQueryHandlerTestSuite) TestHandle_ExposesSequencesAndDriver() {
	ctx := context.Background()

	o := suite.seedBoardOrder(3001, suite.boardDate(), true)

	suite.Require().NoError(o.MarkItemPacked("SKU-APPLE", 0, "packer-sam", time.Now().UTC()))
	suite.Require().NoError(o.MarkItemPacked("SKU-CHEESE", 1, "packer-sam", time.Now().UTC()))
	suite.Require().NoError(o.SetRouteSequences(2, 5))

	driverID := kernel.NewUUID()
	suite.Require().NoError(o.AssignDriver(driverID))
	suite.Require().NoError(o.SetDriverSequences(1, 3))
	suite.Require().NoError(suite.orderRepo.Update(ctx, o))

	query, err := queries.NewGetOrdersForDateQuery(suite.boardDate())
	suite.Require().NoError(err)

	rows, err := suite.handler.Handle(ctx, query)
	suite.Require().NoError(err)

	suite.Require().Len(rows, 1)
	suite.Equal(2, rows[0].DeliverySequence)
	suite.Equal(5, rows[0].PackingSequence)
	suite.Require().NotNil(rows[0].DriverID)
	suite.Equal(driverID, *rows[0].DriverID)
	suite.Equal(1, rows[0].DriverSequence)
}

func (suite *GetOrdersForDateQueryHandlerTestSuite) seedBoardOrder(
	number int64, date time.Time, confirm bool,
) *order.Order {
	apples, err := order.NewLineItem(kernel.NewUUID(), "SKU-APPLE", "Pink Lady apples", 2, kernel.Money(2500), 0)
	suite.Require().NoError(err)
	cheese, err := order.NewLineItem(kernel.NewUUID(), "SKU-CHEESE", "Cheddar wheel", 3, kernel.Money(1800), 1000)
	suite.Require().NoError(err)

	geo, err := kernel.NewGeoPoint(-33.8, 151.2)
	suite.Require().NoError(err)
	address, err := order.NewAddress("12 Wharf Rd", "Milsons Point", "NSW", "2061", kernel.ZoneNorth, &geo)
	suite.Require().NoError(err)

	o, err := order.NewOrder(
		kernel.NewUUID(), number, kernel.NewUUID(),
		[]order.LineItem{apples, cheese}, address, date,
		"buyer", time.Now().UTC(),
	)
	suite.Require().NoError(err)

	if confirm {
		suite.Require().NoError(o.Confirm("system", time.Now().UTC()))
	}
	suite.Require().NoError(suite.orderRepo.Add(context.Background(), o))
	return o
}

func TestGetOrdersForDateQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GetOrdersForDateQueryHandlerTestSuite))
}
