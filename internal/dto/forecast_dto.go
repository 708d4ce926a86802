package dto

import "github.com/shopspring/decimal"

type GenerateForecastsRequest struct {
	ProductIDs  []string `json:"product_ids" validate:"required,min=1,dive,uuid4"`
	HorizonDays int      `json:"horizon_days" validate:"required,min=1,max=90"`
}

type ForecastResponse struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"product_id"`
	CustomerID  *string `json:"customer_id"`
	TargetDate  string  `json:"target_date"`
	HorizonDays int     `json:"horizon_days"`

	AutomaticQuantity decimal.Decimal `json:"automatic_quantity"`
	ConfidenceLower   decimal.Decimal `json:"confidence_lower"`
	ConfidenceUpper   decimal.Decimal `json:"confidence_upper"`
	Strategy          string          `json:"strategy"`

	EffectiveQuantity   decimal.Decimal `json:"effective_quantity"`
	HasManualAdjustment bool            `json:"has_manual_adjustment"`

	FromHistory       bool `json:"from_history"`
	FromSubscriptions bool `json:"from_subscriptions"`
	FromSeasonality   bool `json:"from_seasonality"`

	CreatedAt string `json:"created_at"`
}

// ForecastDetailResponse adds the audit breakdown: the full adjustment ledger
// in fold order and the suggestion derived from this forecast, if any.
type ForecastDetailResponse struct {
	ForecastResponse
	Adjustments []AdjustmentResponse `json:"adjustments"`
	Suggestion  *SuggestionResponse  `json:"suggestion,omitempty"`
}

type ForecastListResponse struct {
	Items []ForecastResponse `json:"items"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// ForecastFilter carries the query params of GET /v1/forecasts.
type ForecastFilter struct {
	ProductID string
	From      string
	Until     string
	Adjusted  string
	Page      int
	Limit     int
}
