package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/product"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newSubmitHandler(factory *MockFulfillmentUoWFactory, notifier *MockNotificationSink) commands.SubmitOrderCommandHandler {
	return commands.NewSubmitOrderCommandHandler(factory, services.NewCreditLedger(), notifier, testLogger)
}

func TestSubmitOrderCommandHandler_Handle_ConfirmsWhenStockSuffices(t *testing.T) {
	ctx := t.Context()
	cust := testCustomer(t, 50000)
	cmd := testSubmitCommand(t, cust.ID())
	apples := testProduct(t, "SKU-APPLE", 10)
	cheese := testProduct(t, "SKU-CHEESE", 10)

	factory, uow := newFulfillmentUoW()
	expectTx(&uow.txMock)
	uow.customers.On("Get", mock.Anything, cust.ID()).Return(cust, nil)
	uow.products.On("GetBySKUs", mock.Anything, []string{"SKU-APPLE", "SKU-CHEESE"}).
		Return([]*product.Product{apples, cheese}, nil)
	uow.orders.On("NextNumber", mock.Anything).Return(int64(1001), nil)
	uow.orders.On("GetOpenByCustomer", mock.Anything, cust.ID()).Return([]*order.Order{}, nil)
	uow.products.On("RecordMovement", mock.Anything, mock.AnythingOfType("product.StockMovement")).Return(nil)
	uow.products.On("Update", mock.Anything, mock.AnythingOfType("*product.Product")).Return(nil)

	var added *order.Order
	uow.orders.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).
		Run(func(args mock.Arguments) { added = args.Get(1).(*order.Order) }).
		Return(nil)

	notifier := new(MockNotificationSink)
	notifier.On("Publish", mock.Anything, mock.Anything).Return(nil)

	err := newSubmitHandler(factory, notifier).Handle(ctx, cmd)

	require.NoError(t, err)
	require.NotNil(t, added)
	assert.Equal(t, order.Confirmed, added.Status())
	assert.Equal(t, int64(10940), added.Total().Amount())
	assert.Equal(t, 8, apples.CurrentStock())
	assert.Equal(t, 7, cheese.CurrentStock())
	notifier.AssertCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestSubmitOrderCommandHandler_Handle_ParksShortfallWithoutReserving(t *testing.T) {
	ctx := t.Context()
	cust := testCustomer(t, 50000)
	cmd := testSubmitCommand(t, cust.ID())
	apples := testProduct(t, "SKU-APPLE", 10)
	cheese := testProduct(t, "SKU-CHEESE", 1)

	factory, uow := newFulfillmentUoW()
	expectTx(&uow.txMock)
	uow.customers.On("Get", mock.Anything, cust.ID()).Return(cust, nil)
	uow.products.On("GetBySKUs", mock.Anything, mock.Anything).
		Return([]*product.Product{apples, cheese}, nil)
	uow.orders.On("NextNumber", mock.Anything).Return(int64(1002), nil)
	uow.orders.On("GetOpenByCustomer", mock.Anything, cust.ID()).Return([]*order.Order{}, nil)

	var added *order.Order
	uow.orders.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).
		Run(func(args mock.Arguments) { added = args.Get(1).(*order.Order) }).
		Return(nil)

	notifier := new(MockNotificationSink)
	notifier.On("Publish", mock.Anything, mock.Anything).Return(nil)

	err := newSubmitHandler(factory, notifier).Handle(ctx, cmd)

	require.NoError(t, err)
	require.NotNil(t, added)
	assert.Equal(t, order.AwaitingApproval, added.Status())
	require.Len(t, added.Shortfalls(), 1)
	assert.Equal(t, "SKU-CHEESE", added.Shortfalls()[0].SKU)
	// The sufficient line is not reserved either: all or nothing.
	assert.Equal(t, 10, apples.CurrentStock())
	assert.Equal(t, 1, cheese.CurrentStock())
	uow.products.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestSubmitOrderCommandHandler_Handle_RejectsOverCreditLimit(t *testing.T) {
	ctx := t.Context()
	cust := testCustomer(t, 5000) // $50 limit vs a $109.40 order
	cmd := testSubmitCommand(t, cust.ID())

	factory, uow := newFulfillmentUoW()
	expectTx(&uow.txMock)
	uow.customers.On("Get", mock.Anything, cust.ID()).Return(cust, nil)
	uow.products.On("GetBySKUs", mock.Anything, mock.Anything).
		Return([]*product.Product{testProduct(t, "SKU-APPLE", 10), testProduct(t, "SKU-CHEESE", 10)}, nil)
	uow.orders.On("NextNumber", mock.Anything).Return(int64(1003), nil)
	uow.orders.On("GetOpenByCustomer", mock.Anything, cust.ID()).Return([]*order.Order{}, nil)

	err := newSubmitHandler(factory, new(MockNotificationSink)).Handle(ctx, cmd)

	assert.ErrorIs(t, err, errs.ErrCreditExceeded)
	uow.orders.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	uow.txMock.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestSubmitOrderCommandHandler_Handle_BypassRecordsAudit(t *testing.T) {
	ctx := t.Context()
	cust := testCustomer(t, 5000)
	cmd, err := commands.NewSubmitOrderCommand(
		kernel.NewUUID(), cust.ID(),
		[]commands.SubmitOrderLine{{SKU: "SKU-APPLE", Quantity: 2, UnitPrice: 2500, TaxRateBps: 0}},
		testSubmitAddress(), testDate, true, "trusted account, cheque in transit", "manager-jo",
	)
	require.NoError(t, err)

	apples := testProduct(t, "SKU-APPLE", 10)
	factory, uow := newFulfillmentUoW()
	expectTx(&uow.txMock)
	uow.customers.On("Get", mock.Anything, cust.ID()).Return(cust, nil)
	uow.products.On("GetBySKUs", mock.Anything, mock.Anything).Return([]*product.Product{apples}, nil)
	uow.orders.On("NextNumber", mock.Anything).Return(int64(1004), nil)
	uow.orders.On("GetOpenByCustomer", mock.Anything, cust.ID()).Return([]*order.Order{}, nil)
	uow.products.On("RecordMovement", mock.Anything, mock.Anything).Return(nil)
	uow.products.On("Update", mock.Anything, mock.Anything).Return(nil)

	var added *order.Order
	uow.orders.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).
		Run(func(args mock.Arguments) { added = args.Get(1).(*order.Order) }).
		Return(nil)

	notifier := new(MockNotificationSink)
	notifier.On("Publish", mock.Anything, mock.Anything).Return(nil)

	err = newSubmitHandler(factory, notifier).Handle(ctx, cmd)

	require.NoError(t, err)
	require.NotNil(t, added)
	assert.True(t, added.CreditBypass().Bypassed)
	assert.Equal(t, "manager-jo", added.CreditBypass().Actor)
}

func TestSubmitOrderCommandHandler_Handle_RejectsIneligibleCustomer(t *testing.T) {
	ctx := t.Context()
	cust := testCustomer(t, 50000)
	require.NoError(t, cust.Suspend())
	cmd := testSubmitCommand(t, cust.ID())

	factory, uow := newFulfillmentUoW()
	expectTx(&uow.txMock)
	uow.customers.On("Get", mock.Anything, cust.ID()).Return(cust, nil)

	err := newSubmitHandler(factory, new(MockNotificationSink)).Handle(ctx, cmd)

	assert.ErrorIs(t, err, commands.ErrCustomerCannotOrder)
}
