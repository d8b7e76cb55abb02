package queries

import (
	"context"
	"database/sql"
	"errors"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// creditConsumingStatusInts mirrors the statuses the credit ledger counts
// against the limit: every status from submission acceptance up to delivery.
func creditConsumingStatusInts() []int {
	return []int{
		int(order.Pending),
		int(order.Confirmed),
		int(order.Packing),
		int(order.ReadyForDelivery),
		int(order.OutForDelivery),
	}
}

// GetAvailableCreditQueryHandler computes a customer's remaining credit from
// the denormalized order totals. The same subtraction the submission gate
// performs in the domain, done in SQL for dashboards and pre-checkout checks.
type GetAvailableCreditQueryHandler struct {
	db *gorm.DB
}

// NewGetAvailableCreditQueryHandler creates a handler for credit position
// queries.
func NewGetAvailableCreditQueryHandler(db *gorm.DB) GetAvailableCreditQueryHandler {
	return GetAvailableCreditQueryHandler{db: db}
}

// Handle executes the credit position query. Returns ObjectNotFoundError when
// the customer does not exist.
func (h GetAvailableCreditQueryHandler) Handle(
	ctx context.Context,
	query GetAvailableCreditQuery,
) (GetAvailableCreditQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetAvailableCreditQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			c.credit_limit,
			COALESCE(SUM(o.total), 0) AS open_total
		FROM customers c
		LEFT JOIN orders o
			ON o.customer_id = c.id
			AND o.status IN ?
		WHERE c.id = ?
		GROUP BY c.credit_limit
	`, creditConsumingStatusInts(), query.CustomerID().Bytes()).Row()

	var creditLimit, openTotal int64
	if err := row.Scan(&creditLimit, &openTotal); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetAvailableCreditQueryResponse{},
				errs.NewObjectNotFoundError("customer", query.CustomerID().String())
		}
		return GetAvailableCreditQueryResponse{}, err
	}

	return GetAvailableCreditQueryResponse{
		CustomerID:      query.CustomerID(),
		CreditLimit:     creditLimit,
		OpenOrdersTotal: openTotal,
		Available:       creditLimit - openTotal,
	}, nil
}
