package service

import (
	"time"

	"sproutplan/internal/model"

	"github.com/shopspring/decimal"
)

// foldAdjustments applies the active adjustment ledger to the automatic
// quantity, in creation order. Each step operates on the output of the
// previous one, and the running value is clamped to >= 0 after every step.
// Adjustments whose validity window does not cover the forecast target date
// are skipped without consuming a fold step.
func foldAdjustments(automatic decimal.Decimal, adjustments []model.ManualAdjustment, targetDate time.Time) decimal.Decimal {
	hundred := decimal.NewFromInt(100)
	value := automatic

	for i := range adjustments {
		adj := &adjustments[i]
		if !adj.IsActive || !adj.AppliesTo(targetDate) {
			continue
		}

		switch adj.Kind {
		case model.AdjustmentAbsolute:
			value = adj.Value
		case model.AdjustmentPercentageIncrease:
			value = value.Mul(decimal.NewFromInt(1).Add(adj.Value.Div(hundred)))
		case model.AdjustmentPercentageDecrease:
			value = value.Mul(decimal.NewFromInt(1).Sub(adj.Value.Div(hundred)))
		case model.AdjustmentAdd:
			value = value.Add(adj.Value)
		case model.AdjustmentSubtract:
			value = value.Sub(adj.Value)
		}

		if value.IsNegative() {
			value = decimal.Zero
		}
	}

	return value.Round(2)
}
