package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesOrder is one realized demand row from the order ledger. The forecast
// engine only reads this table (aggregated per product and delivery date);
// order capture itself lives in another service.
type SalesOrder struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_orders_product_date"`
	CustomerID   *uuid.UUID `gorm:"type:uuid;index"`
	DeliveryDate time.Time  `gorm:"type:date;not null;index:idx_orders_product_date"`
	Quantity     decimal.Decimal `gorm:"type:decimal(10,2);not null"` // grams
	CreatedAt    time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}

func (SalesOrder) TableName() string { return "sales_orders" }
