package orderrepo

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// creditConsumingStatuses are the statuses whose order totals count against
// the customer's credit limit. AwaitingApproval holds no reservation and is
// deliberately absent.
func creditConsumingStatuses() []int {
	return []int{
		int(order.Pending),
		int(order.Confirmed),
		int(order.Packing),
		int(order.ReadyForDelivery),
		int(order.OutForDelivery),
	}
}

// GormOrderRepository implements OrderRepository using GORM. The repository
// remembers the packing version each aggregate was loaded with, and Update
// compares against that stored version so concurrent packers cannot silently
// overwrite each other's edits.
type GormOrderRepository struct {
	db             *gorm.DB
	tracker        aggregateTracker
	loadedVersions map[uuid.UUID]int64
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:             db,
		tracker:        tracker,
		loadedVersions: make(map[uuid.UUID]int64),
	}
}

// Add saves a new order to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.loadedVersions[dto.ID] = dto.PackingVersion
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing order to the database. The write is conditional
// on the stored packing version still matching the version this repository
// loaded the aggregate with; a mismatch means another transaction committed
// in between and the caller must reload and retry.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	tx := r.db.WithContext(ctx).Model(&OrderDTO{}).Select("*")
	loadedVersion, versionKnown := r.loadedVersions[dto.ID]
	if versionKnown {
		tx = tx.Where("id = ? AND packing_version = ?", dto.ID, loadedVersion)
	} else {
		tx = tx.Where("id = ?", dto.ID)
	}

	result := tx.Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		if versionKnown {
			return errs.NewVersionConflictError("packingVersion", loadedVersion)
		}
		return gorm.ErrRecordNotFound
	}

	r.loadedVersions[dto.ID] = dto.PackingVersion
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	r.loadedVersions[dto.ID] = dto.PackingVersion
	return toDomain(dto)
}

// GetOpenByCustomer retrieves the customer's orders in credit-consuming
// statuses.
func (r *GormOrderRepository) GetOpenByCustomer(ctx context.Context, customerID kernel.UUID) ([]*order.Order, error) {
	if err := customerID.Validate(); err != nil {
		return nil, err
	}

	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND status IN ?", customerID.Bytes(), creditConsumingStatuses()).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return r.restoreAll(dtos)
}

// GetForDateInStatuses retrieves orders for a delivery date filtered to the
// given statuses, ordered by order number.
func (r *GormOrderRepository) GetForDateInStatuses(
	ctx context.Context, date time.Time, statuses ...order.Status,
) ([]*order.Order, error) {
	statusInts := make([]int, 0, len(statuses))
	for _, s := range statuses {
		statusInts = append(statusInts, int(s))
	}

	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Where("delivery_date = ? AND status IN ?", date, statusInts).
		Order("number").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return r.restoreAll(dtos)
}

// GetStalePacking retrieves orders in packing status whose last pack activity
// is at or before the cutoff.
func (r *GormOrderRepository) GetStalePacking(ctx context.Context, cutoff time.Time) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Where("status = ? AND last_pack_activity_at <= ?", int(order.Packing), cutoff).
		Order("number").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return r.restoreAll(dtos)
}

// NextNumber reserves the next order number from the database sequence. The
// sequence guarantees uniqueness across concurrent submissions; gaps from
// rolled-back transactions are acceptable.
func (r *GormOrderRepository) NextNumber(ctx context.Context) (int64, error) {
	var number int64
	if err := r.db.WithContext(ctx).Raw("SELECT nextval('order_numbers_seq')").Scan(&number).Error; err != nil {
		return 0, err
	}
	return number, nil
}

func (r *GormOrderRepository) restoreAll(dtos []OrderDTO) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		r.loadedVersions[dto.ID] = dto.PackingVersion
		orders = append(orders, o)
	}
	return orders, nil
}
