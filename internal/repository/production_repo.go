package repository

import (
	"context"

	"sproutplan/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SeedBatchRepository resolves seed stock for lot provisioning.
type SeedBatchRepository interface {
	Create(ctx context.Context, b *model.SeedBatch) error
	// FindOldestWithStockTx implements the FIFO policy: the batch with the
	// earliest ReceivedAt that still has remaining stock. gorm.ErrRecordNotFound
	// when the product has no stock at all.
	FindOldestWithStockTx(tx *gorm.DB, productID uuid.UUID) (*model.SeedBatch, error)
}

type seedBatchRepo struct{ db *gorm.DB }

func NewSeedBatchRepository(db *gorm.DB) SeedBatchRepository { return &seedBatchRepo{db: db} }

func (r *seedBatchRepo) Create(ctx context.Context, b *model.SeedBatch) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *seedBatchRepo) FindOldestWithStockTx(tx *gorm.DB, productID uuid.UUID) (*model.SeedBatch, error) {
	if tx == nil {
		tx = r.db
	}
	var b model.SeedBatch
	err := tx.Where("product_id = ? AND remaining_grams > 0", productID).
		Order("received_at ASC").
		First(&b).Error
	return &b, err
}

// LotRepository writes the downstream production lot on approval.
type LotRepository interface {
	CreateTx(tx *gorm.DB, lot *model.ProductionLot) error
}

type lotRepo struct{ db *gorm.DB }

func NewLotRepository(db *gorm.DB) LotRepository { return &lotRepo{db: db} }

func (r *lotRepo) CreateTx(tx *gorm.DB, lot *model.ProductionLot) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Create(lot).Error
}

// CapacityRepository reads and increments the shared capacity snapshot.
type CapacityRepository interface {
	Create(ctx context.Context, c *model.CapacityResource) error
	GetByKind(ctx context.Context, kind string) (*model.CapacityResource, error)
	// CommitTraysTx atomically increments the committed counter; the SQL
	// expression keeps concurrent approvals from silently overcommitting.
	CommitTraysTx(tx *gorm.DB, kind string, delta int) error
}

type capacityRepo struct{ db *gorm.DB }

func NewCapacityRepository(db *gorm.DB) CapacityRepository { return &capacityRepo{db: db} }

func (r *capacityRepo) Create(ctx context.Context, c *model.CapacityResource) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *capacityRepo) GetByKind(ctx context.Context, kind string) (*model.CapacityResource, error) {
	var c model.CapacityResource
	err := r.db.WithContext(ctx).Where("kind = ?", kind).First(&c).Error
	return &c, err
}

func (r *capacityRepo) CommitTraysTx(tx *gorm.DB, kind string, delta int) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Model(&model.CapacityResource{}).
		Where("kind = ?", kind).
		Update("committed_trays", gorm.Expr("committed_trays + ?", delta)).Error
}
