package repository

import (
	"context"

	"sproutplan/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdjustmentRepository persists the append-only manual adjustment ledger.
// There is no delete; the only update ever issued is the one-time revert.
type AdjustmentRepository interface {
	Create(ctx context.Context, a *model.ManualAdjustment) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ManualAdjustment, error)
	// ListByForecast returns the full ledger in creation order — the fold
	// ordering key and the audit view are the same ordering.
	ListByForecast(ctx context.Context, forecastID uuid.UUID) ([]model.ManualAdjustment, error)
	// ListActiveByForecast returns only foldable entries, creation order.
	ListActiveByForecast(ctx context.Context, forecastID uuid.UUID) ([]model.ManualAdjustment, error)
	// MarkReverted writes the revert metadata. The WHERE guard on is_active
	// makes a double revert a no-op at the SQL level as well.
	MarkReverted(ctx context.Context, a *model.ManualAdjustment) error
}

type adjustmentRepo struct{ db *gorm.DB }

func NewAdjustmentRepository(db *gorm.DB) AdjustmentRepository { return &adjustmentRepo{db: db} }

func (r *adjustmentRepo) Create(ctx context.Context, a *model.ManualAdjustment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *adjustmentRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ManualAdjustment, error) {
	var a model.ManualAdjustment
	err := r.db.WithContext(ctx).First(&a, id).Error
	return &a, err
}

func (r *adjustmentRepo) ListByForecast(ctx context.Context, forecastID uuid.UUID) ([]model.ManualAdjustment, error) {
	var adjustments []model.ManualAdjustment
	err := r.db.WithContext(ctx).
		Where("forecast_id = ?", forecastID).
		Order("created_at ASC").
		Find(&adjustments).Error
	return adjustments, err
}

func (r *adjustmentRepo) ListActiveByForecast(ctx context.Context, forecastID uuid.UUID) ([]model.ManualAdjustment, error) {
	var adjustments []model.ManualAdjustment
	err := r.db.WithContext(ctx).
		Where("forecast_id = ? AND is_active = true", forecastID).
		Order("created_at ASC").
		Find(&adjustments).Error
	return adjustments, err
}

func (r *adjustmentRepo) MarkReverted(ctx context.Context, a *model.ManualAdjustment) error {
	return r.db.WithContext(ctx).Model(&model.ManualAdjustment{}).
		Where("id = ? AND is_active = true", a.ID).
		Updates(map[string]interface{}{
			"is_active":     false,
			"reverted_at":   a.RevertedAt,
			"reverted_by":   a.RevertedBy,
			"revert_reason": a.RevertReason,
		}).Error
}
