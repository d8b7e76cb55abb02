package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/product"
)

// ProductRepository defines the persistence contract for product aggregates
// and their stock movement audit trail.
type ProductRepository interface {
	// Add persists a new product aggregate to storage.
	Add(ctx context.Context, aggregate *product.Product) error

	// Update persists changes to an existing product aggregate.
	Update(ctx context.Context, aggregate *product.Product) error

	// Get retrieves a product aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*product.Product, error)

	// GetBySKUs retrieves the products matching the given SKUs. Submission
	// uses this to run the stock gate over all order lines at once. A SKU
	// with no product returns ObjectNotFoundError.
	GetBySKUs(ctx context.Context, skus []string) ([]*product.Product, error)

	// GetLowStock retrieves products at or below their low stock threshold,
	// for the operational digest.
	GetLowStock(ctx context.Context) ([]*product.Product, error)

	// RecordMovement appends an entry to the stock movement audit trail.
	RecordMovement(ctx context.Context, movement product.StockMovement) error
}
