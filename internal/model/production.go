package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SeedBatch is the seed stock a production lot draws from. Lot provisioning
// resolves the oldest batch with remaining stock (FIFO).
type SeedBatch struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	BatchNumber   string          `gorm:"not null"`
	RemainingGrams decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	ReceivedAt    time.Time       `gorm:"not null;index"`
	CreatedAt     time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}

// ProductionLot is the downstream record provisioned exactly once when a
// suggestion is approved. The grow pipeline takes over from here.
type ProductionLot struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SuggestionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	ProductID    uuid.UUID `gorm:"type:uuid;not null;index"`
	SeedBatchID  uuid.UUID `gorm:"type:uuid;not null"`
	Trays        int       `gorm:"not null"`
	SowDate      time.Time `gorm:"type:date;not null"`
	ExpectedHarvestDate time.Time `gorm:"type:date;not null"`
	Status       string    `gorm:"type:varchar(20);not null;default:'planned'"`
	CreatedAt    time.Time
}

// CapacityResource is the shared capacity snapshot the scheduler reads and
// approval increments. CommittedTrays only ever moves via atomic SQL updates.
type CapacityResource struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Kind           string    `gorm:"uniqueIndex;not null"` // e.g. "tray_slots"
	MaxTrays       int       `gorm:"not null"`
	CommittedTrays int       `gorm:"not null;default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
