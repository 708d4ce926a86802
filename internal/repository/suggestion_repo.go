package repository

import (
	"context"
	"time"

	"sproutplan/internal/dto"
	"sproutplan/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SuggestionRepository persists production suggestions. Approval runs inside
// a transaction, so the lookup and update used there take an explicit tx; a
// nil tx falls back to the repository's own connection (unit test mode).
type SuggestionRepository interface {
	Create(ctx context.Context, s *model.ProductionSuggestion) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ProductionSuggestion, error)
	FindByForecastID(ctx context.Context, forecastID uuid.UUID) (*model.ProductionSuggestion, error)
	Update(ctx context.Context, s *model.ProductionSuggestion) error
	List(ctx context.Context, filter dto.SuggestionFilter) ([]model.ProductionSuggestion, int64, error)
	// SumProposedTrays totals trays of PROPOSED suggestions sharing a sow
	// date, excluding one suggestion (the one being computed).
	SumProposedTrays(ctx context.Context, sowDate time.Time, exclude uuid.UUID) (int, error)

	// Transactional variants for the approval flow
	FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.ProductionSuggestion, error)
	UpdateTx(tx *gorm.DB, s *model.ProductionSuggestion) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type suggestionRepo struct{ db *gorm.DB }

func NewSuggestionRepository(db *gorm.DB) SuggestionRepository { return &suggestionRepo{db: db} }

func (r *suggestionRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *suggestionRepo) Create(ctx context.Context, s *model.ProductionSuggestion) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *suggestionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ProductionSuggestion, error) {
	var s model.ProductionSuggestion
	err := r.db.WithContext(ctx).First(&s, id).Error
	return &s, err
}

func (r *suggestionRepo) FindByForecastID(ctx context.Context, forecastID uuid.UUID) (*model.ProductionSuggestion, error) {
	var s model.ProductionSuggestion
	err := r.db.WithContext(ctx).Where("forecast_id = ?", forecastID).First(&s).Error
	return &s, err
}

func (r *suggestionRepo) Update(ctx context.Context, s *model.ProductionSuggestion) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *suggestionRepo) List(ctx context.Context, filter dto.SuggestionFilter) ([]model.ProductionSuggestion, int64, error) {
	var suggestions []model.ProductionSuggestion
	var total int64

	q := r.db.WithContext(ctx).Model(&model.ProductionSuggestion{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.ProductID != "" {
		q = q.Where("product_id = ?", filter.ProductID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("sow_date ASC, created_at ASC").Limit(filter.Limit).Offset(offset).Find(&suggestions).Error
	return suggestions, total, err
}

func (r *suggestionRepo) SumProposedTrays(ctx context.Context, sowDate time.Time, exclude uuid.UUID) (int, error) {
	var total *int
	err := r.db.WithContext(ctx).
		Model(&model.ProductionSuggestion{}).
		Where("sow_date = ? AND status = ? AND id <> ?", sowDate, model.SuggestionProposed, exclude).
		Select("SUM(recommended_trays)").
		Scan(&total).Error
	if err != nil || total == nil {
		return 0, err
	}
	return *total, nil
}

func (r *suggestionRepo) FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.ProductionSuggestion, error) {
	var s model.ProductionSuggestion
	err := r.conn(tx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&s, id).Error
	return &s, err
}

func (r *suggestionRepo) UpdateTx(tx *gorm.DB, s *model.ProductionSuggestion) error {
	return r.conn(tx).Save(s).Error
}

func (r *suggestionRepo) DB() *gorm.DB { return r.db }
