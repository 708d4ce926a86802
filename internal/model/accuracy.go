package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ForecastAccuracy is a historical snapshot scoring one forecast against
// realized demand — once for the effective quantity and once for the
// automatic quantity, so operators can see whether the manual adjustments
// helped. Created once actuals exist, never recomputed.
type ForecastAccuracy struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ForecastID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null;index"`
	TargetDate time.Time `gorm:"type:date;not null"`

	ActualQuantity decimal.Decimal `gorm:"type:decimal(10,2);not null"`

	AbsDeviation decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PctDeviation decimal.Decimal `gorm:"type:decimal(8,2);not null"`
	MAPE         decimal.Decimal `gorm:"type:decimal(8,2);not null"`

	AutoAbsDeviation decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	AutoPctDeviation decimal.Decimal `gorm:"type:decimal(8,2);not null"`
	AutoMAPE         decimal.Decimal `gorm:"type:decimal(8,2);not null"`

	EvaluatedAt time.Time `gorm:"not null"`
}

func (ForecastAccuracy) TableName() string { return "forecast_accuracies" }
