// Package productrepo provides data transfer objects and mapping functions
// for product persistence, including the stock movement audit trail.
package productrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/product"

	"github.com/google/uuid"
)

// ProductDTO represents the database structure for persisting product
// aggregates.
type ProductDTO struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	SKU               string    `gorm:"uniqueIndex"`
	Name              string
	CurrentStock      int
	LowStockThreshold int
}

// TableName specifies the database table name for product entities.
func (ProductDTO) TableName() string {
	return "products"
}

// StockMovementDTO is one append-only row in the stock movement audit trail.
type StockMovementDTO struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	ProductID uuid.UUID `gorm:"type:uuid;index"`
	Delta     int
	Before    int
	After     int
	Reason    string
	Actor     string
	CreatedAt time.Time
}

// TableName specifies the database table name for stock movement entries.
func (StockMovementDTO) TableName() string {
	return "stock_movements"
}

func fromDomain(p *product.Product) ProductDTO {
	return ProductDTO{
		ID:                p.ID().Bytes(),
		SKU:               p.SKU(),
		Name:              p.Name(),
		CurrentStock:      p.CurrentStock(),
		LowStockThreshold: p.LowStockThreshold(),
	}
}

func toDomain(dto ProductDTO) (*product.Product, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return product.RestoreProduct(id, dto.SKU, dto.Name, dto.CurrentStock, dto.LowStockThreshold)
}

func movementFromDomain(m product.StockMovement) StockMovementDTO {
	return StockMovementDTO{
		ProductID: m.ProductID.Bytes(),
		Delta:     m.Delta,
		Before:    m.Before,
		After:     m.After,
		Reason:    m.Reason,
		Actor:     m.Actor,
	}
}
