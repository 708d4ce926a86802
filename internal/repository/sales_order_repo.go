package repository

import (
	"context"
	"time"

	"sproutplan/internal/forecast"
	"sproutplan/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SalesOrderRepository is the read side of the order ledger: the demand
// history reader aggregates realized quantities per (product, date), and the
// accuracy evaluator reads the realized total for a single day.
type SalesOrderRepository interface {
	Create(ctx context.Context, o *model.SalesOrder) error
	// AggregateDaily sums realized quantities per delivery date for one
	// product across all customers, ordered by date ascending. Days without
	// orders are absent — callers densify via forecast.DenseSeries.
	AggregateDaily(ctx context.Context, productID uuid.UUID, from, until time.Time) ([]forecast.DailyQuantity, error)
	// RealizedQuantity returns the total delivered on one date, optionally
	// restricted to a customer (nil = all customers).
	RealizedQuantity(ctx context.Context, productID uuid.UUID, customerID *uuid.UUID, date time.Time) (decimal.Decimal, error)
}

type salesOrderRepo struct{ db *gorm.DB }

func NewSalesOrderRepository(db *gorm.DB) SalesOrderRepository { return &salesOrderRepo{db: db} }

func (r *salesOrderRepo) Create(ctx context.Context, o *model.SalesOrder) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *salesOrderRepo) AggregateDaily(ctx context.Context, productID uuid.UUID, from, until time.Time) ([]forecast.DailyQuantity, error) {
	var rows []struct {
		Date  time.Time
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&model.SalesOrder{}).
		Select("delivery_date AS date, SUM(quantity) AS total").
		Where("product_id = ? AND delivery_date >= ? AND delivery_date <= ?", productID, from, until).
		Group("delivery_date").
		Order("delivery_date ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	series := make([]forecast.DailyQuantity, 0, len(rows))
	for _, row := range rows {
		series = append(series, forecast.DailyQuantity{Date: row.Date, Quantity: row.Total})
	}
	return series, nil
}

func (r *salesOrderRepo) RealizedQuantity(ctx context.Context, productID uuid.UUID, customerID *uuid.UUID, date time.Time) (decimal.Decimal, error) {
	q := r.db.WithContext(ctx).
		Model(&model.SalesOrder{}).
		Where("product_id = ? AND delivery_date = ?", productID, date)
	if customerID != nil {
		q = q.Where("customer_id = ?", *customerID)
	}

	var total *decimal.Decimal
	if err := q.Select("SUM(quantity)").Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	if total == nil {
		return decimal.Zero, nil
	}
	return *total, nil
}
