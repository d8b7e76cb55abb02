package queries

import (
	"context"
	"encoding/json"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// shortfallRow is the jsonb shape the order repository stores shortfalls in.
type shortfallRow struct {
	SKU       string `json:"sku"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
	Shortfall int    `json:"shortfall"`
}

// GetBackorderQueueQueryHandler lists orders awaiting a backorder decision,
// oldest order number first.
type GetBackorderQueueQueryHandler struct {
	db *gorm.DB
}

// NewGetBackorderQueueQueryHandler creates a handler for the approval queue.
func NewGetBackorderQueueQueryHandler(db *gorm.DB) GetBackorderQueueQueryHandler {
	return GetBackorderQueueQueryHandler{db: db}
}

// Handle executes the queue query.
func (h GetBackorderQueueQueryHandler) Handle(
	ctx context.Context,
	query GetBackorderQueueQuery,
) ([]GetBackorderQueueQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			number,
			customer_id,
			delivery_date,
			total,
			shortfalls
		FROM orders
		WHERE status = ? AND backorder_status = ?
		ORDER BY number
	`, int(order.AwaitingApproval), int(order.BackorderPending)).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	responses := make([]GetBackorderQueueQueryResponse, 0)
	for rows.Next() {
		var (
			id            uuid.UUID
			customerID    uuid.UUID
			deliveryDate  time.Time
			shortfallsRaw string
			resp          GetBackorderQueueQueryResponse
		)

		err = rows.Scan(&id, &resp.Number, &customerID, &deliveryDate, &resp.Total, &shortfallsRaw)
		if err != nil {
			return nil, err
		}

		if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if resp.CustomerID, err = kernel.UUIDFromBytes(customerID[:]); err != nil {
			return nil, err
		}
		resp.DeliveryDate = deliveryDate

		var shortRows []shortfallRow
		if err = json.Unmarshal([]byte(shortfallsRaw), &shortRows); err != nil {
			return nil, err
		}
		resp.Shortfalls = make([]BackorderShortfall, 0, len(shortRows))
		for _, sr := range shortRows {
			resp.Shortfalls = append(resp.Shortfalls, BackorderShortfall{
				SKU:       sr.SKU,
				Requested: sr.Requested,
				Available: sr.Available,
				Shortfall: sr.Shortfall,
			})
		}

		responses = append(responses, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return responses, nil
}
