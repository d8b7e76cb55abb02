package routerepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/route"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormRoutePlanRepository implements RoutePlanRepository using GORM.
type GormRoutePlanRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormRoutePlanRepository creates a new GORM route plan repository.
func NewGormRoutePlanRepository(db *gorm.DB, tracker aggregateTracker) *GormRoutePlanRepository {
	return &GormRoutePlanRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new route plan snapshot to the database.
func (r *GormRoutePlanRepository) Add(ctx context.Context, plan *route.RoutePlan) error {
	if err := plan.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(plan)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(plan.ID(), plan)
	return nil
}

// GetLatest retrieves the most recent snapshot for the delivery date and
// route type.
func (r *GormRoutePlanRepository) GetLatest(
	ctx context.Context, date time.Time, routeType route.Type,
) (*route.RoutePlan, error) {
	if err := routeType.Validate(); err != nil {
		return nil, err
	}

	var dto RoutePlanDTO
	err := r.db.WithContext(ctx).
		Where("delivery_date = ? AND route_type = ?", date, int(routeType)).
		Order("optimized_at DESC").
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("routePlan",
				fmt.Sprintf("%s/%s", date.Format("2006-01-02"), routeType))
		}
		return nil, err
	}

	return toDomain(dto)
}
