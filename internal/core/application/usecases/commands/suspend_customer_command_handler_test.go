package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/customer"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSuspendCustomerCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()

	t.Run("suspends an active account", func(t *testing.T) {
		cust := testCustomer(t, 50000)
		cmd, err := commands.NewSuspendCustomerCommand(cust.ID(), "accounts-team")
		require.NoError(t, err)

		uow := &MockCustomerUoW{customers: new(MockCustomerRepository)}
		expectTx(&uow.txMock)
		uow.customers.On("Get", mock.Anything, cust.ID()).Return(cust, nil)
		uow.customers.On("Update", mock.Anything, cust).Return(nil)

		h := commands.NewSuspendCustomerCommandHandler(&MockCustomerUoWFactory{uow: uow})
		err = h.Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, customer.AccountSuspended, cust.AccountStatus())
	})

	t.Run("suspending twice is already processed", func(t *testing.T) {
		cust := testCustomer(t, 50000)
		require.NoError(t, cust.Suspend())
		cmd, err := commands.NewSuspendCustomerCommand(cust.ID(), "accounts-team")
		require.NoError(t, err)

		uow := &MockCustomerUoW{customers: new(MockCustomerRepository)}
		expectTx(&uow.txMock)
		uow.customers.On("Get", mock.Anything, cust.ID()).Return(cust, nil)

		h := commands.NewSuspendCustomerCommandHandler(&MockCustomerUoWFactory{uow: uow})
		err = h.Handle(ctx, cmd)

		assert.ErrorIs(t, err, errs.ErrAlreadyProcessed)
		uow.customers.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}
