package queries

import (
	"context"
	"database/sql"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrdersForDateQueryHandler lists a delivery day's orders straight from
// the orders table.
type GetOrdersForDateQueryHandler struct {
	db *gorm.DB
}

// NewGetOrdersForDateQueryHandler creates a handler for day board queries.
func NewGetOrdersForDateQueryHandler(db *gorm.DB) GetOrdersForDateQueryHandler {
	return GetOrdersForDateQueryHandler{db: db}
}

// Handle executes the query. Rows come back in order number order so the
// board is stable across refreshes regardless of sequencing state.
func (h GetOrdersForDateQueryHandler) Handle(
	ctx context.Context,
	query GetOrdersForDateQuery,
) ([]GetOrdersForDateQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	sqlText := `
		SELECT
			id,
			number,
			customer_id,
			status,
			address_zone,
			total,
			delivery_sequence,
			packing_sequence,
			driver_id,
			driver_sequence
		FROM orders
		WHERE delivery_date = ?
	`
	args := []any{query.DeliveryDate()}

	if len(query.Statuses()) > 0 {
		statusInts := make([]int, 0, len(query.Statuses()))
		for _, s := range query.Statuses() {
			statusInts = append(statusInts, int(s))
		}
		sqlText += " AND status IN ?"
		args = append(args, statusInts)
	}
	sqlText += " ORDER BY number"

	rows, err := h.db.WithContext(ctx).Raw(sqlText, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	responses := make([]GetOrdersForDateQueryResponse, 0)
	for rows.Next() {
		var (
			id         uuid.UUID
			customerID uuid.UUID
			driverID   sql.Null[uuid.UUID]
			status     int
			zone       int
			resp       GetOrdersForDateQueryResponse
		)

		err = rows.Scan(
			&id,
			&resp.Number,
			&customerID,
			&status,
			&zone,
			&resp.Total,
			&resp.DeliverySequence,
			&resp.PackingSequence,
			&driverID,
			&resp.DriverSequence,
		)
		if err != nil {
			return nil, err
		}

		if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if resp.CustomerID, err = kernel.UUIDFromBytes(customerID[:]); err != nil {
			return nil, err
		}
		if driverID.Valid {
			dID, dErr := kernel.UUIDFromBytes(driverID.V[:])
			if dErr != nil {
				return nil, dErr
			}
			resp.DriverID = &dID
		}
		resp.Status = order.Status(status).String()
		resp.Zone = kernel.Zone(zone).String()

		responses = append(responses, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return responses, nil
}
