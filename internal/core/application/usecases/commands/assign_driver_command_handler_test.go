package commands_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// readyOrderAt is a fully packed order sitting at the given global delivery
// sequence.
func readyOrderAt(t *testing.T, number int64, seq int) *order.Order {
	t.Helper()
	o := routableOrder(t, number, kernel.ZoneNorth, -33.80)
	require.NoError(t, o.SetRouteSequences(seq, 10-seq))
	return o
}

func TestAssignDriverCommandHandler_Handle_ResequencesDriverLoad(t *testing.T) {
	ctx := t.Context()
	driver := kernel.NewUUID()
	first := readyOrderAt(t, 6001, 1)
	second := readyOrderAt(t, 6002, 4)
	require.NoError(t, first.AssignDriver(driver))

	cmd, err := commands.NewAssignDriverCommand(second.ID(), driver, "dispatcher")
	require.NoError(t, err)

	factory, uow := newOrderUoW()
	expectTx(&uow.txMock)
	uow.orders.On("Get", mock.Anything, second.ID()).Return(second, nil)
	uow.orders.On("GetForDateInStatuses", mock.Anything, second.DeliveryDate(),
		[]order.Status{order.ReadyForDelivery}).
		Return([]*order.Order{first, second}, nil)
	uow.orders.On("Update", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil)

	h := commands.NewAssignDriverCommandHandler(factory, services.NewSequencer(5*time.Minute))
	err = h.Handle(ctx, cmd)

	require.NoError(t, err)
	// Contiguous 1..2 in global route order, packed in reverse.
	assert.Equal(t, 1, first.Delivery().DriverSequence)
	assert.Equal(t, 2, first.Delivery().DriverPacking)
	assert.Equal(t, 2, second.Delivery().DriverSequence)
	assert.Equal(t, 1, second.Delivery().DriverPacking)
}

func TestAssignDriverCommandHandler_Handle_RejectsUnpackedOrder(t *testing.T) {
	ctx := t.Context()
	o := confirmedOrder(t, kernel.NewUUID())
	cmd, err := commands.NewAssignDriverCommand(o.ID(), kernel.NewUUID(), "dispatcher")
	require.NoError(t, err)

	factory, uow := newOrderUoW()
	expectTx(&uow.txMock)
	uow.orders.On("Get", mock.Anything, o.ID()).Return(o, nil)

	h := commands.NewAssignDriverCommandHandler(factory, services.NewSequencer(5*time.Minute))
	err = h.Handle(ctx, cmd)

	assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	uow.txMock.AssertNotCalled(t, "Commit", mock.Anything)
}
