package repository

import (
	"context"

	"sproutplan/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductRepository reads microgreens master data. The forecast engine never
// writes products through HTTP — master-data CRUD lives elsewhere; Create is
// only used by the demo seeder.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	ListActive(ctx context.Context) ([]model.Product, error)
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *productRepo) ListActive(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Where("active = true").Order("name ASC").Find(&products).Error
	return products, err
}
