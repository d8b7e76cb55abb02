package product

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrBatchIsNotConstructed is returned when an InventoryBatch bypassed NewInventoryBatch.
var ErrBatchIsNotConstructed = errors.New("InventoryBatch must be created via NewInventoryBatch constructor")

// InventoryBatch is a cost layer within a product's stock: a received lot
// with its own per-unit cost. Batches are consumed oldest-first by receiving
// workflows; a batch's consumption can never exceed its remaining quantity,
// and a fully consumed batch rejects further draws as an explicit
// AlreadyProcessedError.
type InventoryBatch struct {
	id          kernel.UUID
	productID   kernel.UUID
	remaining   int
	costPerUnit kernel.Money
	consumed    bool

	guard guard.ConstructorGuard
}

// NewInventoryBatch creates a batch for a received lot.
func NewInventoryBatch(id, productID kernel.UUID, quantity int, costPerUnit kernel.Money) (*InventoryBatch, error) {
	b := &InventoryBatch{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		b.setID(id),
		b.setProductID(productID),
		b.setQuantity(quantity),
		b.setCostPerUnit(costPerUnit),
	); err != nil {
		return nil, err
	}

	return b, nil
}

// RestoreInventoryBatch reconstructs a batch from persistence.
func RestoreInventoryBatch(
	id, productID kernel.UUID,
	remaining int,
	costPerUnit kernel.Money,
	consumed bool,
) (*InventoryBatch, error) {
	b := &InventoryBatch{
		consumed: consumed,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		b.setID(id),
		b.setProductID(productID),
		b.setCostPerUnit(costPerUnit),
	); err != nil {
		return nil, err
	}
	if remaining < 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("quantityRemaining",
			fmt.Errorf("%d is negative", remaining))
	}
	b.remaining = remaining

	return b, nil
}

// Validate ensures the batch was built through a constructor.
func (b *InventoryBatch) Validate() error {
	if b == nil {
		return ErrBatchIsNotConstructed
	}
	return b.guard.Validate(ErrBatchIsNotConstructed)
}

// ID returns the batch identifier.
func (b *InventoryBatch) ID() kernel.UUID {
	return b.id
}

// ProductID returns the product this batch belongs to.
func (b *InventoryBatch) ProductID() kernel.UUID {
	return b.productID
}

// QuantityRemaining returns the unconsumed units left in the batch.
func (b *InventoryBatch) QuantityRemaining() int {
	return b.remaining
}

// CostPerUnit returns the landed cost per unit for the lot.
func (b *InventoryBatch) CostPerUnit() kernel.Money {
	return b.costPerUnit
}

// IsConsumed reports whether the batch has been fully drawn down.
func (b *InventoryBatch) IsConsumed() bool {
	return b.consumed
}

// Consume draws quantity units from the batch. Drawing from a consumed batch
// returns AlreadyProcessedError; drawing below zero returns
// InsufficientStockError with the batch unchanged.
func (b *InventoryBatch) Consume(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	if b.consumed {
		return errs.NewAlreadyProcessedError("batch consumption", b.id.String())
	}
	if quantity > b.remaining {
		return errs.NewInsufficientStockError(b.productID.String(), quantity, b.remaining)
	}

	b.remaining -= quantity
	if b.remaining == 0 {
		b.consumed = true
	}
	return nil
}

func (b *InventoryBatch) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	b.id = id
	return nil
}

func (b *InventoryBatch) setProductID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("productId", err)
	}
	b.productID = id
	return nil
}

func (b *InventoryBatch) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	b.remaining = quantity
	return nil
}

func (b *InventoryBatch) setCostPerUnit(cost kernel.Money) error {
	if cost.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("costPerUnit",
			fmt.Errorf("%d is negative", cost.Amount()))
	}
	b.costPerUnit = cost
	return nil
}
