package kernel

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Money is an amount in integer minor currency units (cents). All order
// arithmetic is integer-exact; there is no floating point anywhere in the
// money path.
type Money int64

// NewMoney creates a non-negative amount from minor units.
func NewMoney(minorUnits int64) (Money, error) {
	if minorUnits < 0 {
		return 0, errs.NewValueIsInvalidErrorWithCause("money",
			fmt.Errorf("%d is negative", minorUnits))
	}
	return Money(minorUnits), nil
}

// Amount returns the value in minor units.
func (m Money) Amount() int64 {
	return int64(m)
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return m + other
}

// Sub returns the difference of two amounts. The result may be negative;
// callers decide whether that is legal in their context.
func (m Money) Sub(other Money) Money {
	return m - other
}

// MulQty returns the amount multiplied by a unit count.
func (m Money) MulQty(qty int) Money {
	return m * Money(qty)
}

// ApplyTaxRateBps computes the tax on the amount at a rate given in basis
// points (1000 bps = 10%), rounding half up on the half-cent.
func (m Money) ApplyTaxRateBps(rateBps int) Money {
	return Money((int64(m)*int64(rateBps) + 5000) / 10000)
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m < 0
}

// String formats the amount as major.minor units, e.g. "104.00".
func (m Money) String() string {
	units := int64(m)
	sign := ""
	if units < 0 {
		sign = "-"
		units = -units
	}
	return fmt.Sprintf("%s%d.%02d", sign, units/100, units%100)
}
