package dto

import "github.com/shopspring/decimal"

type EvaluateAccuracyRequest struct {
	// AsOf (YYYY-MM-DD) bounds the evaluation: forecasts with a target date
	// before it are scored. Defaults to today.
	AsOf *string `json:"as_of"`
}

type AccuracyResponse struct {
	ID         string `json:"id"`
	ForecastID string `json:"forecast_id"`
	ProductID  string `json:"product_id"`
	TargetDate string `json:"target_date"`

	ActualQuantity decimal.Decimal `json:"actual_quantity"`

	AbsDeviation decimal.Decimal `json:"abs_deviation"`
	PctDeviation decimal.Decimal `json:"pct_deviation"`
	MAPE         decimal.Decimal `json:"mape"`

	AutoAbsDeviation decimal.Decimal `json:"auto_abs_deviation"`
	AutoPctDeviation decimal.Decimal `json:"auto_pct_deviation"`
	AutoMAPE         decimal.Decimal `json:"auto_mape"`

	EvaluatedAt string `json:"evaluated_at"`
}

// AccuracyFilter carries the query params of GET /v1/accuracy.
type AccuracyFilter struct {
	ProductID string
}
