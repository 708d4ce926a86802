package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is microgreens master data including the growth parameters the
// scheduler needs to back-compute sow dates and tray counts.
// Harvest window offsets are days relative to the end of the growth phase.
type Product struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name string    `gorm:"uniqueIndex;not null"`
	Unit string    `gorm:"not null;default:'gram'"`

	GerminationDays      int             `gorm:"not null"`
	GrowthDays           int             `gorm:"not null"`
	HarvestWindowStart   int             `gorm:"not null;default:0"`
	HarvestWindowOptimal int             `gorm:"not null;default:1"`
	HarvestWindowEnd     int             `gorm:"not null;default:2"`
	YieldPerTray         decimal.Decimal `gorm:"type:decimal(10,2);not null"` // grams
	ExpectedLossPct      decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`

	Active    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Customer is a minimal reference record; customer-specific forecasts are
// informational only and never scheduled.
type Customer struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"not null"`
	Email     *string
	Active    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
