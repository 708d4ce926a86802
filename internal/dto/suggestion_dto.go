package dto

import "github.com/shopspring/decimal"

type GenerateSuggestionsRequest struct {
	HorizonDays int `json:"horizon_days" validate:"required,min=1,max=90"`
}

type ApproveSuggestionRequest struct {
	// OverrideTrays replaces the recommended tray count before provisioning.
	OverrideTrays *int `json:"override_trays" validate:"omitempty,min=1"`
}

type RejectSuggestionRequest struct {
	Reason string `json:"reason" validate:"required,min=1"`
}

type WarningResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type SuggestionResponse struct {
	ID         string `json:"id"`
	ForecastID string `json:"forecast_id"`
	ProductID  string `json:"product_id"`

	RecommendedTrays      int             `json:"recommended_trays"`
	SowDate               string          `json:"sow_date"`
	ExpectedHarvestDate   string          `json:"expected_harvest_date"`
	RequiredQuantity      decimal.Decimal `json:"required_quantity"`
	ExpectedYieldQuantity decimal.Decimal `json:"expected_yield_quantity"`

	Status   string            `json:"status"`
	Warnings []WarningResponse `json:"warnings"`

	ApprovedBy      *string `json:"approved_by"`
	ApprovedAt      *string `json:"approved_at"`
	RejectedBy      *string `json:"rejected_by"`
	RejectedAt      *string `json:"rejected_at"`
	RejectionReason *string `json:"rejection_reason"`
	GeneratedLotID  *string `json:"generated_lot_id"`

	CreatedAt string `json:"created_at"`
}

type SuggestionListResponse struct {
	Items []SuggestionResponse `json:"items"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

// SuggestionFilter carries the query params of GET /v1/suggestions.
type SuggestionFilter struct {
	Status    string
	ProductID string
	Page      int
	Limit     int
}
