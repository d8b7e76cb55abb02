package kernel_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("should create amount from minor units", func(t *testing.T) {
		m, err := kernel.NewMoney(2500)

		require.NoError(t, err)
		assert.Equal(t, int64(2500), m.Amount())
	})

	t.Run("should reject negative amounts", func(t *testing.T) {
		_, err := kernel.NewMoney(-1)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "-1 is negative")
	})
}

func TestMoney_Arithmetic(t *testing.T) {
	t.Run("add and subtract are exact inverses", func(t *testing.T) {
		a := kernel.Money(10940)
		b := kernel.Money(5400)

		assert.Equal(t, a, a.Add(b).Sub(b))
	})

	t.Run("multiply by quantity", func(t *testing.T) {
		unit := kernel.Money(1800)

		assert.Equal(t, kernel.Money(5400), unit.MulQty(3))
	})

	t.Run("negative detection", func(t *testing.T) {
		assert.True(t, kernel.Money(100).Sub(kernel.Money(200)).IsNegative())
		assert.False(t, kernel.Money(200).Sub(kernel.Money(200)).IsNegative())
	})
}

func TestMoney_ApplyTaxRateBps(t *testing.T) {
	t.Run("ten percent GST on a line", func(t *testing.T) {
		line := kernel.Money(1800).MulQty(3)

		assert.Equal(t, kernel.Money(540), line.ApplyTaxRateBps(1000))
	})

	t.Run("zero rate yields zero tax", func(t *testing.T) {
		line := kernel.Money(2500).MulQty(2)

		assert.Equal(t, kernel.Money(0), line.ApplyTaxRateBps(0))
	})

	t.Run("rounds half up on the half cent", func(t *testing.T) {
		// 105 * 10% = 10.5 cents, rounds to 11
		assert.Equal(t, kernel.Money(11), kernel.Money(105).ApplyTaxRateBps(1000))
		// 104 * 10% = 10.4 cents, rounds to 10
		assert.Equal(t, kernel.Money(10), kernel.Money(104).ApplyTaxRateBps(1000))
	})

	t.Run("order scenario totals are exact", func(t *testing.T) {
		// $25.00 x 2 no tax, $18.00 x 3 at 10%
		line1 := kernel.Money(2500).MulQty(2)
		line2 := kernel.Money(1800).MulQty(3)

		subtotal := line1.Add(line2)
		tax := line1.ApplyTaxRateBps(0).Add(line2.ApplyTaxRateBps(1000))

		assert.Equal(t, int64(10400), subtotal.Amount())
		assert.Equal(t, int64(540), tax.Amount())
		assert.Equal(t, int64(10940), subtotal.Add(tax).Amount())
	})
}

func TestMoney_String(t *testing.T) {
	assert.Equal(t, "104.00", kernel.Money(10400).String())
	assert.Equal(t, "0.05", kernel.Money(5).String())
	assert.Equal(t, "-1.50", kernel.Money(-150).String())
}
