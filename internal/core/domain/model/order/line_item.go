package order

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrLineItemIsNotConstructed is returned when a LineItem bypassed NewLineItem.
var ErrLineItemIsNotConstructed = errors.New("LineItem must be created via NewLineItem constructor")

// LineItem is one product line on an order. Unit price and tax rate are
// snapshots taken at checkout: later catalogue changes never move an order's
// totals. Quantity is the only mutable field, and only through the Order
// aggregate (partial backorder approval and mid-pack corrections).
type LineItem struct {
	productID  kernel.UUID
	sku        string
	name       string
	quantity   int
	unitPrice  kernel.Money
	taxRateBps int

	guard guard.ConstructorGuard
}

// NewLineItem creates a validated order line.
func NewLineItem(
	productID kernel.UUID,
	sku string,
	name string,
	quantity int,
	unitPrice kernel.Money,
	taxRateBps int,
) (LineItem, error) {
	item := LineItem{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		item.setProductID(productID),
		item.setSKU(sku),
		item.setName(name),
		item.setQuantity(quantity),
		item.setUnitPrice(unitPrice),
		item.setTaxRateBps(taxRateBps),
	); err != nil {
		return LineItem{}, err
	}

	return item, nil
}

// Validate ensures the line was created through the constructor.
func (li LineItem) Validate() error {
	return li.guard.Validate(ErrLineItemIsNotConstructed)
}

// ProductID returns the catalogue product this line refers to.
func (li LineItem) ProductID() kernel.UUID {
	return li.productID
}

// SKU returns the stock-keeping unit code used by packers.
func (li LineItem) SKU() string {
	return li.sku
}

// Name returns the product name snapshot.
func (li LineItem) Name() string {
	return li.name
}

// Quantity returns the current (possibly approval-reduced) quantity.
func (li LineItem) Quantity() int {
	return li.quantity
}

// UnitPrice returns the per-unit price snapshot in minor units.
func (li LineItem) UnitPrice() kernel.Money {
	return li.unitPrice
}

// TaxRateBps returns the snapshot tax rate in basis points.
func (li LineItem) TaxRateBps() int {
	return li.taxRateBps
}

// Subtotal returns unit price times quantity.
func (li LineItem) Subtotal() kernel.Money {
	return li.unitPrice.MulQty(li.quantity)
}

// Tax returns the line's tax, recomputed from the current quantity at the
// snapshot rate.
func (li LineItem) Tax() kernel.Money {
	return li.Subtotal().ApplyTaxRateBps(li.taxRateBps)
}

// Total returns subtotal plus tax for the line.
func (li LineItem) Total() kernel.Money {
	return li.Subtotal().Add(li.Tax())
}

func (li *LineItem) setProductID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	li.productID = id
	return nil
}

func (li *LineItem) setSKU(sku string) error {
	if sku == "" {
		return errs.NewValueIsRequiredError("sku")
	}
	li.sku = sku
	return nil
}

func (li *LineItem) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	li.name = name
	return nil
}

func (li *LineItem) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	li.quantity = quantity
	return nil
}

func (li *LineItem) setUnitPrice(price kernel.Money) error {
	if price.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("unitPrice",
			fmt.Errorf("%d is negative", price.Amount()))
	}
	li.unitPrice = price
	return nil
}

func (li *LineItem) setTaxRateBps(rateBps int) error {
	if rateBps < 0 || rateBps > 10000 {
		return errs.NewValueIsOutOfRangeError("taxRateBps", rateBps, 0, 10000)
	}
	li.taxRateBps = rateBps
	return nil
}
