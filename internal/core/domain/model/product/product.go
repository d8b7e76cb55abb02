package product

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrProductIsNotConstructed is returned when a Product bypassed its constructors.
var ErrProductIsNotConstructed = errors.New("Product must be created via NewProduct constructor")

// Product is the inventory aggregate. CurrentStock is the available pool the
// reservation model draws from: stock leaves it at order confirmation, not at
// delivery. The aggregate forbids any adjustment that would take stock below
// zero, and records before/after figures for audit on every movement.
type Product struct {
	id                kernel.UUID
	sku               string
	name              string
	currentStock      int
	lowStockThreshold int

	guard guard.ConstructorGuard
}

// StockMovement is the audit record emitted by every stock adjustment.
type StockMovement struct {
	ProductID kernel.UUID
	Delta     int
	Before    int
	After     int
	Reason    string
	Actor     string
}

// NewProduct creates a product with an opening stock level.
func NewProduct(id kernel.UUID, sku, name string, openingStock, lowStockThreshold int) (*Product, error) {
	p := &Product{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(id),
		p.setSKU(sku),
		p.setName(name),
		p.setOpeningStock(openingStock),
		p.setLowStockThreshold(lowStockThreshold),
	); err != nil {
		return nil, err
	}

	return p, nil
}

// RestoreProduct reconstructs a product from persistence.
func RestoreProduct(id kernel.UUID, sku, name string, currentStock, lowStockThreshold int) (*Product, error) {
	return NewProduct(id, sku, name, currentStock, lowStockThreshold)
}

// Validate ensures the product was built through a constructor.
func (p *Product) Validate() error {
	if p == nil {
		return ErrProductIsNotConstructed
	}
	return p.guard.Validate(ErrProductIsNotConstructed)
}

// ID returns the product's unique identifier.
func (p *Product) ID() kernel.UUID {
	return p.id
}

// SKU returns the stock-keeping unit code.
func (p *Product) SKU() string {
	return p.sku
}

// Name returns the product name.
func (p *Product) Name() string {
	return p.name
}

// CurrentStock returns the available pool.
func (p *Product) CurrentStock() int {
	return p.currentStock
}

// LowStockThreshold returns the reorder alert level.
func (p *Product) LowStockThreshold() int {
	return p.lowStockThreshold
}

// IsLowStock reports whether the pool has fallen to or below the threshold.
func (p *Product) IsLowStock() bool {
	return p.currentStock <= p.lowStockThreshold
}

// HasStockFor reports whether the pool covers the requested quantity.
func (p *Product) HasStockFor(quantity int) bool {
	return quantity <= p.currentStock
}

// Adjust applies a signed stock movement and returns the audit record.
// A negative delta that would take stock below zero fails with
// InsufficientStockError and leaves stock unchanged.
func (p *Product) Adjust(delta int, reason, actor string) (StockMovement, error) {
	if delta == 0 {
		return StockMovement{}, errs.NewValueIsInvalidErrorWithCause("delta",
			fmt.Errorf("adjustment of 0 has no effect"))
	}
	after := p.currentStock + delta
	if after < 0 {
		return StockMovement{}, errs.NewInsufficientStockError(p.id.String(), -delta, p.currentStock)
	}

	movement := StockMovement{
		ProductID: p.id,
		Delta:     delta,
		Before:    p.currentStock,
		After:     after,
		Reason:    reason,
		Actor:     actor,
	}
	p.currentStock = after
	return movement, nil
}

func (p *Product) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Product) setSKU(sku string) error {
	if sku == "" {
		return errs.NewValueIsRequiredError("sku")
	}
	p.sku = sku
	return nil
}

func (p *Product) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	p.name = name
	return nil
}

func (p *Product) setOpeningStock(stock int) error {
	if stock < 0 {
		return errs.NewValueIsInvalidErrorWithCause("currentStock",
			fmt.Errorf("%d is negative", stock))
	}
	p.currentStock = stock
	return nil
}

func (p *Product) setLowStockThreshold(threshold int) error {
	if threshold < 0 {
		return errs.NewValueIsInvalidErrorWithCause("lowStockThreshold",
			fmt.Errorf("%d is negative", threshold))
	}
	p.lowStockThreshold = threshold
	return nil
}
