package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStartDeliveryCommandHandler_Handle_DepartsAndNotifies(t *testing.T) {
	ctx := t.Context()
	o := routableOrder(t, 7001, kernel.ZoneNorth, -33.80)
	require.NoError(t, o.AssignDriver(kernel.NewUUID()))

	cmd, err := commands.NewStartDeliveryCommand(o.ID(), "driver-1")
	require.NoError(t, err)

	factory, uow := newOrderUoW()
	expectTx(&uow.txMock)
	uow.orders.On("Get", mock.Anything, o.ID()).Return(o, nil)
	uow.orders.On("Update", mock.Anything, o).Return(nil)

	notifier := new(MockNotificationSink)
	notifier.On("Publish", mock.Anything, mock.MatchedBy(func(n ports.Notification) bool {
		return n.Kind == ports.NotificationOrderStatus && n.OrderNumber == 7001
	})).Return(nil)

	h := commands.NewStartDeliveryCommandHandler(factory, notifier, testLogger)
	require.NoError(t, h.Handle(ctx, cmd))

	assert.Equal(t, order.OutForDelivery, o.Status())
	notifier.AssertExpectations(t)
}

func TestStartDeliveryCommandHandler_Handle_NoDriverFails(t *testing.T) {
	ctx := t.Context()
	o := routableOrder(t, 7002, kernel.ZoneNorth, -33.80)

	cmd, err := commands.NewStartDeliveryCommand(o.ID(), "dispatcher")
	require.NoError(t, err)

	factory, uow := newOrderUoW()
	uow.txMock.On("Begin", mock.Anything).Return(nil)
	uow.txMock.On("Rollback", mock.Anything).Return(nil)
	uow.orders.On("Get", mock.Anything, o.ID()).Return(o, nil)

	notifier := new(MockNotificationSink)
	h := commands.NewStartDeliveryCommandHandler(factory, notifier, testLogger)
	err = h.Handle(ctx, cmd)

	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	assert.Equal(t, order.ReadyForDelivery, o.Status())
	notifier.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestStartDeliveryCommandHandler_Handle_NotificationFailureDoesNotFail(t *testing.T) {
	ctx := t.Context()
	o := routableOrder(t, 7003, kernel.ZoneNorth, -33.80)
	require.NoError(t, o.AssignDriver(kernel.NewUUID()))

	cmd, err := commands.NewStartDeliveryCommand(o.ID(), "driver-1")
	require.NoError(t, err)

	factory, uow := newOrderUoW()
	expectTx(&uow.txMock)
	uow.orders.On("Get", mock.Anything, o.ID()).Return(o, nil)
	uow.orders.On("Update", mock.Anything, o).Return(nil)

	notifier := new(MockNotificationSink)
	notifier.On("Publish", mock.Anything, mock.Anything).Return(assert.AnError)

	h := commands.NewStartDeliveryCommandHandler(factory, notifier, testLogger)
	require.NoError(t, h.Handle(ctx, cmd))
	assert.Equal(t, order.OutForDelivery, o.Status())
}
