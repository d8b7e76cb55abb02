package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSubmitOrderCommand(t *testing.T) {
	validLines := []commands.SubmitOrderLine{{SKU: "SKU-APPLE", Quantity: 2, UnitPrice: 2500}}

	t.Run("valid command", func(t *testing.T) {
		cmd, err := commands.NewSubmitOrderCommand(
			kernel.NewUUID(), kernel.NewUUID(), validLines,
			testSubmitAddress(), testDate, false, "", "buyer",
		)

		require.NoError(t, err)
		require.NoError(t, cmd.Validate())
		assert.Len(t, cmd.Lines(), 1)
	})

	t.Run("rejects empty lines", func(t *testing.T) {
		_, err := commands.NewSubmitOrderCommand(
			kernel.NewUUID(), kernel.NewUUID(), nil,
			testSubmitAddress(), testDate, false, "", "buyer",
		)

		require.Error(t, err)
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		_, err := commands.NewSubmitOrderCommand(
			kernel.NewUUID(), kernel.NewUUID(),
			[]commands.SubmitOrderLine{{SKU: "SKU-APPLE", Quantity: 0, UnitPrice: 2500}},
			testSubmitAddress(), testDate, false, "", "buyer",
		)

		require.Error(t, err)
	})

	t.Run("rejects lone latitude", func(t *testing.T) {
		addr := testSubmitAddress()
		addr.Longitude = nil

		_, err := commands.NewSubmitOrderCommand(
			kernel.NewUUID(), kernel.NewUUID(), validLines,
			addr, testDate, false, "", "buyer",
		)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "coordinates")
	})

	t.Run("rejects missing actor", func(t *testing.T) {
		_, err := commands.NewSubmitOrderCommand(
			kernel.NewUUID(), kernel.NewUUID(), validLines,
			testSubmitAddress(), testDate, false, "", "",
		)

		require.Error(t, err)
	})

	t.Run("zero value fails validation", func(t *testing.T) {
		var cmd commands.SubmitOrderCommand

		assert.ErrorIs(t, cmd.Validate(), commands.ErrSubmitOrderCommandIsNotConstructed)
	})
}

func TestBackorderActionFromString(t *testing.T) {
	for _, name := range []string{"approve_full", "approve_partial", "reject"} {
		action, err := commands.BackorderActionFromString(name)
		require.NoError(t, err)
		assert.Equal(t, name, action.String())
	}

	_, err := commands.BackorderActionFromString("defer")
	require.Error(t, err)
}
