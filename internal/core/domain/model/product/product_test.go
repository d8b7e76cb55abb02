package product_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/product"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProduct(t *testing.T, stock int) *product.Product {
	t.Helper()
	p, err := product.NewProduct(kernel.NewUUID(), "SKU-MILK", "Full Cream Milk 2L", stock, 10)
	require.NoError(t, err)
	return p
}

func TestNewProduct(t *testing.T) {
	t.Run("creates product with opening stock", func(t *testing.T) {
		p := newTestProduct(t, 50)

		require.NoError(t, p.Validate())
		assert.Equal(t, 50, p.CurrentStock())
		assert.False(t, p.IsLowStock())
	})

	t.Run("rejects negative opening stock", func(t *testing.T) {
		_, err := product.NewProduct(kernel.NewUUID(), "SKU-X", "X", -1, 0)
		require.Error(t, err)
	})
}

func TestProduct_Adjust(t *testing.T) {
	t.Run("decrement leaves audit trail", func(t *testing.T) {
		p := newTestProduct(t, 50)

		movement, err := p.Adjust(-3, "order reservation", "system")

		require.NoError(t, err)
		assert.Equal(t, 50, movement.Before)
		assert.Equal(t, 47, movement.After)
		assert.Equal(t, -3, movement.Delta)
		assert.Equal(t, 47, p.CurrentStock())
	})

	t.Run("increment and decrement are exact inverses", func(t *testing.T) {
		p := newTestProduct(t, 50)

		_, err := p.Adjust(-7, "order reservation", "system")
		require.NoError(t, err)
		_, err = p.Adjust(7, "order cancelled", "system")
		require.NoError(t, err)

		assert.Equal(t, 50, p.CurrentStock())
	})

	t.Run("stock never goes negative", func(t *testing.T) {
		p := newTestProduct(t, 5)

		_, err := p.Adjust(-6, "order reservation", "system")

		require.ErrorIs(t, err, errs.ErrInsufficientStock)
		assert.Contains(t, err.Error(), "below zero")
		assert.Equal(t, 5, p.CurrentStock())
	})

	t.Run("zero delta is rejected", func(t *testing.T) {
		p := newTestProduct(t, 5)

		_, err := p.Adjust(0, "noop", "system")

		require.Error(t, err)
	})
}

func TestProduct_LowStock(t *testing.T) {
	p := newTestProduct(t, 11)

	_, err := p.Adjust(-1, "order reservation", "system")
	require.NoError(t, err)

	assert.True(t, p.IsLowStock())
	assert.True(t, p.HasStockFor(10))
	assert.False(t, p.HasStockFor(11))
}

func TestInventoryBatch_Consume(t *testing.T) {
	newBatch := func(t *testing.T, qty int) *product.InventoryBatch {
		t.Helper()
		b, err := product.NewInventoryBatch(kernel.NewUUID(), kernel.NewUUID(), qty, kernel.Money(120))
		require.NoError(t, err)
		return b
	}

	t.Run("draws down and flags consumed at zero", func(t *testing.T) {
		b := newBatch(t, 10)

		require.NoError(t, b.Consume(4))
		assert.Equal(t, 6, b.QuantityRemaining())
		assert.False(t, b.IsConsumed())

		require.NoError(t, b.Consume(6))
		assert.True(t, b.IsConsumed())
	})

	t.Run("consuming a consumed batch is an explicit no-op error", func(t *testing.T) {
		b := newBatch(t, 2)
		require.NoError(t, b.Consume(2))

		err := b.Consume(1)

		require.ErrorIs(t, err, errs.ErrAlreadyProcessed)
	})

	t.Run("cannot draw below zero", func(t *testing.T) {
		b := newBatch(t, 3)

		err := b.Consume(4)

		require.ErrorIs(t, err, errs.ErrInsufficientStock)
		assert.Equal(t, 3, b.QuantityRemaining())
	})
}
