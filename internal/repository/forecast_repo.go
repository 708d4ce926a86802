package repository

import (
	"context"
	"time"

	"sproutplan/internal/dto"
	"sproutplan/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ForecastRepository persists forecast rows. Forecasts are append-mostly:
// only the two derived fields (effective quantity, adjustment flag) and the
// automatic fields of not-yet-adjusted rows ever change.
type ForecastRepository interface {
	Create(ctx context.Context, f *model.Forecast) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Forecast, error)
	// FindAggregate looks up the aggregate (customer-less) forecast for one
	// product and target date.
	FindAggregate(ctx context.Context, productID uuid.UUID, targetDate time.Time) (*model.Forecast, error)
	Update(ctx context.Context, f *model.Forecast) error
	// UpdateDerived writes only the recomputed fields, leaving the automatic
	// quantity and bounds untouched.
	UpdateDerived(ctx context.Context, id uuid.UUID, effective decimal.Decimal, hasAdjustment bool) error
	List(ctx context.Context, filter dto.ForecastFilter) ([]model.Forecast, int64, error)
	// ListSchedulable returns aggregate forecasts with positive effective
	// demand in the window — the scheduler's input set.
	ListSchedulable(ctx context.Context, from, until time.Time) ([]model.Forecast, error)
	// ListUnevaluated returns forecasts whose target date lies before the
	// cutoff and which have no accuracy snapshot yet.
	ListUnevaluated(ctx context.Context, before time.Time) ([]model.Forecast, error)
}

type forecastRepo struct{ db *gorm.DB }

func NewForecastRepository(db *gorm.DB) ForecastRepository { return &forecastRepo{db: db} }

func (r *forecastRepo) Create(ctx context.Context, f *model.Forecast) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *forecastRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Forecast, error) {
	var f model.Forecast
	err := r.db.WithContext(ctx).First(&f, id).Error
	return &f, err
}

func (r *forecastRepo) FindAggregate(ctx context.Context, productID uuid.UUID, targetDate time.Time) (*model.Forecast, error) {
	var f model.Forecast
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND target_date = ? AND customer_id IS NULL", productID, targetDate).
		First(&f).Error
	return &f, err
}

func (r *forecastRepo) Update(ctx context.Context, f *model.Forecast) error {
	return r.db.WithContext(ctx).Save(f).Error
}

func (r *forecastRepo) UpdateDerived(ctx context.Context, id uuid.UUID, effective decimal.Decimal, hasAdjustment bool) error {
	return r.db.WithContext(ctx).Model(&model.Forecast{}).Where("id = ?", id).Updates(map[string]interface{}{
		"effective_quantity":    effective,
		"has_manual_adjustment": hasAdjustment,
	}).Error
}

func (r *forecastRepo) List(ctx context.Context, filter dto.ForecastFilter) ([]model.Forecast, int64, error) {
	var forecasts []model.Forecast
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Forecast{})

	if filter.ProductID != "" {
		q = q.Where("product_id = ?", filter.ProductID)
	}
	if filter.From != "" {
		q = q.Where("target_date >= ?", filter.From)
	}
	if filter.Until != "" {
		q = q.Where("target_date <= ?", filter.Until)
	}
	if filter.Adjusted == "true" {
		q = q.Where("has_manual_adjustment = true")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("target_date ASC, created_at ASC").Limit(filter.Limit).Offset(offset).Find(&forecasts).Error
	return forecasts, total, err
}

func (r *forecastRepo) ListSchedulable(ctx context.Context, from, until time.Time) ([]model.Forecast, error) {
	var forecasts []model.Forecast
	err := r.db.WithContext(ctx).
		Where("customer_id IS NULL AND effective_quantity > 0 AND target_date >= ? AND target_date <= ?", from, until).
		Order("target_date ASC").
		Find(&forecasts).Error
	return forecasts, err
}

func (r *forecastRepo) ListUnevaluated(ctx context.Context, before time.Time) ([]model.Forecast, error) {
	var forecasts []model.Forecast
	err := r.db.WithContext(ctx).
		Where("target_date < ? AND id NOT IN (?)", before,
			r.db.Model(&model.ForecastAccuracy{}).Select("forecast_id")).
		Order("target_date ASC").
		Find(&forecasts).Error
	return forecasts, err
}
