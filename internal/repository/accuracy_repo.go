package repository

import (
	"context"

	"sproutplan/internal/dto"
	"sproutplan/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AccuracyRepository persists forecast accuracy snapshots. Insert-only:
// a snapshot is never updated once written.
type AccuracyRepository interface {
	Create(ctx context.Context, a *model.ForecastAccuracy) error
	ExistsForForecast(ctx context.Context, forecastID uuid.UUID) (bool, error)
	List(ctx context.Context, filter dto.AccuracyFilter) ([]model.ForecastAccuracy, error)
}

type accuracyRepo struct{ db *gorm.DB }

func NewAccuracyRepository(db *gorm.DB) AccuracyRepository { return &accuracyRepo{db: db} }

func (r *accuracyRepo) Create(ctx context.Context, a *model.ForecastAccuracy) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *accuracyRepo) ExistsForForecast(ctx context.Context, forecastID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ForecastAccuracy{}).
		Where("forecast_id = ?", forecastID).
		Count(&count).Error
	return count > 0, err
}

func (r *accuracyRepo) List(ctx context.Context, filter dto.AccuracyFilter) ([]model.ForecastAccuracy, error) {
	q := r.db.WithContext(ctx).Model(&model.ForecastAccuracy{})
	if filter.ProductID != "" {
		q = q.Where("product_id = ?", filter.ProductID)
	}
	var records []model.ForecastAccuracy
	err := q.Order("target_date ASC").Find(&records).Error
	return records, err
}
