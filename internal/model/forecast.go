package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Forecast is one demand prediction per (product, target date), or per
// (product, customer, target date) when CustomerID is set. Rows are never
// deleted; AutomaticQuantity and the confidence bounds are immutable after
// creation, while EffectiveQuantity and HasManualAdjustment are recomputed
// by the adjustment ledger and never hand-edited.
type Forecast struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_forecasts_product_date"`
	CustomerID  *uuid.UUID `gorm:"type:uuid;index"` // nil = aggregate forecast
	TargetDate  time.Time  `gorm:"type:date;not null;index:idx_forecasts_product_date"`
	HorizonDays int        `gorm:"not null"`

	AutomaticQuantity decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	ConfidenceLower   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	ConfidenceUpper   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Strategy          string          `gorm:"not null"`

	EffectiveQuantity   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	HasManualAdjustment bool            `gorm:"not null;default:false"`

	// Provenance — which signals fed the automatic quantity
	FromHistory       bool `gorm:"not null;default:false"`
	FromSubscriptions bool `gorm:"not null;default:false"`
	FromSeasonality   bool `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}
