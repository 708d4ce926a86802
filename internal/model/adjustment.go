package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Adjustment kinds. Each one is a step in the fold over the forecast's
// automatic quantity; order of application is CreatedAt ascending.
const (
	AdjustmentAbsolute           = "ABSOLUTE"
	AdjustmentPercentageIncrease = "PERCENTAGE_INCREASE"
	AdjustmentPercentageDecrease = "PERCENTAGE_DECREASE"
	AdjustmentAdd                = "ADD"
	AdjustmentSubtract           = "SUBTRACT"
)

// MinReasonLength is the audit threshold: every adjustment and every revert
// must say why in at least this many characters.
const MinReasonLength = 10

// ManualAdjustment is one append-only entry in a forecast's adjustment ledger.
// IsActive flips to false exactly once (revert) and never back; correcting
// course requires a new adjustment, never reactivation.
type ManualAdjustment struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ForecastID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Kind       string          `gorm:"type:varchar(30);not null"`
	Value      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Reason     string          `gorm:"type:text;not null"`
	// Optional validity window: the adjustment only applies to forecasts
	// whose target date falls inside [ValidFrom, ValidUntil].
	ValidFrom  *time.Time `gorm:"type:date"`
	ValidUntil *time.Time `gorm:"type:date"`

	IsActive  bool      `gorm:"not null;default:true"`
	CreatedBy uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt time.Time `gorm:"index"`

	// Revert metadata — written exactly once
	RevertedAt   *time.Time
	RevertedBy   *uuid.UUID `gorm:"type:uuid"`
	RevertReason *string    `gorm:"type:text"`
}

// AppliesTo reports whether the adjustment's validity window covers the
// forecast target date. A missing bound is open-ended.
func (a *ManualAdjustment) AppliesTo(targetDate time.Time) bool {
	if a.ValidFrom != nil && targetDate.Before(startOfDay(*a.ValidFrom)) {
		return false
	}
	if a.ValidUntil != nil && targetDate.After(startOfDay(*a.ValidUntil)) {
		return false
	}
	return true
}
