package dto

import "github.com/shopspring/decimal"

type AddAdjustmentRequest struct {
	Kind   string          `json:"kind" validate:"required,oneof=ABSOLUTE PERCENTAGE_INCREASE PERCENTAGE_DECREASE ADD SUBTRACT"`
	Value  decimal.Decimal `json:"value" validate:"required"`
	Reason string          `json:"reason" validate:"required,min=10"`
	// Dates in YYYY-MM-DD; both optional, window checked in the service.
	ValidFrom  *string `json:"valid_from"`
	ValidUntil *string `json:"valid_until"`
}

type RevertAdjustmentRequest struct {
	Reason string `json:"reason" validate:"required,min=10"`
}

type AdjustmentResponse struct {
	ID         string          `json:"id"`
	ForecastID string          `json:"forecast_id"`
	Kind       string          `json:"kind"`
	Value      decimal.Decimal `json:"value"`
	Reason     string          `json:"reason"`
	ValidFrom  *string         `json:"valid_from"`
	ValidUntil *string         `json:"valid_until"`
	IsActive   bool            `json:"is_active"`
	CreatedBy  string          `json:"created_by"`
	CreatedAt  string          `json:"created_at"`

	RevertedAt   *string `json:"reverted_at"`
	RevertedBy   *string `json:"reverted_by"`
	RevertReason *string `json:"revert_reason"`
}
