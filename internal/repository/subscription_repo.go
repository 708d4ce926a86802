package repository

import (
	"context"

	"sproutplan/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubscriptionRepository reads active recurring commitments for the demand
// projector. Like products, subscriptions are master data owned elsewhere.
type SubscriptionRepository interface {
	Create(ctx context.Context, s *model.Subscription) error
	ListActiveByProduct(ctx context.Context, productID uuid.UUID) ([]model.Subscription, error)
}

type subscriptionRepo struct{ db *gorm.DB }

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepo{db: db}
}

func (r *subscriptionRepo) Create(ctx context.Context, s *model.Subscription) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *subscriptionRepo) ListActiveByProduct(ctx context.Context, productID uuid.UUID) ([]model.Subscription, error) {
	var subs []model.Subscription
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND active = true", productID).
		Order("created_at ASC").
		Find(&subs).Error
	return subs, err
}
