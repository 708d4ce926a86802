package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Suggestion statuses. APPROVED and REJECTED are terminal; REALIZED is set by
// downstream production once the lot is harvested.
const (
	SuggestionProposed = "PROPOSED"
	SuggestionApproved = "APPROVED"
	SuggestionRejected = "REJECTED"
	SuggestionRealized = "REALIZED"
)

// Warning kinds attached to suggestions. All warnings are advisory — they
// never block suggestion creation or approval.
const (
	WarningCapacity        = "CAPACITY"
	WarningUnderSupply     = "UNDER_SUPPLY"
	WarningDegenerateYield = "DEGENERATE_YIELD"
)

// Warning is one non-fatal finding from the scheduler's feasibility checks.
type Warning struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// WarningList is stored as a JSONB column, preserving order.
type WarningList []Warning

func (w WarningList) Value() (driver.Value, error) {
	if len(w) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(w)
	return string(data), err
}

func (w *WarningList) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, w)
	case string:
		return json.Unmarshal([]byte(v), w)
	case nil:
		*w = nil
		return nil
	default:
		return errors.New("warnings: unsupported column type")
	}
}

// ProductionSuggestion is the scheduler's proposal for one forecast: how many
// trays to sow, when, and what that should yield. Mutated exactly once by
// approval or rejection.
type ProductionSuggestion struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ForecastID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null;index"`

	RecommendedTrays    int             `gorm:"not null"`
	SowDate             time.Time       `gorm:"type:date;not null;index"`
	ExpectedHarvestDate time.Time       `gorm:"type:date;not null"`
	RequiredQuantity    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	ExpectedYieldQuantity decimal.Decimal `gorm:"type:decimal(10,2);not null"`

	Status   string      `gorm:"type:varchar(20);not null;default:'PROPOSED';index"`
	Warnings WarningList `gorm:"type:jsonb;not null;default:'[]'"`

	ApprovedBy      *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt      *time.Time
	RejectedBy      *uuid.UUID `gorm:"type:uuid"`
	RejectedAt      *time.Time
	RejectionReason *string `gorm:"type:text"`
	GeneratedLotID  *uuid.UUID `gorm:"type:uuid"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}

// IsTerminal reports whether the suggestion can no longer change.
func (s *ProductionSuggestion) IsTerminal() bool {
	return s.Status == SuggestionApproved || s.Status == SuggestionRejected
}
