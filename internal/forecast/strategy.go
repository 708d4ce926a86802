// Package forecast contains the pluggable demand estimators. A Strategy turns
// a dense daily history into per-day quantity predictions with confidence
// bounds; callers stay agnostic to which implementation is active.
package forecast

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyQuantity is one day of realized demand.
type DailyQuantity struct {
	Date     time.Time
	Quantity decimal.Decimal
}

// Point is one predicted day: quantity plus a confidence band. Quantity and
// both bounds are always >= 0.
type Point struct {
	Date     time.Time
	Quantity decimal.Decimal
	Lower    decimal.Decimal
	Upper    decimal.Decimal
}

// Strategy is the estimator contract. Predict receives a dense daily series
// (missing days filled with zero — see DenseSeries) and returns one Point per
// day in [from, from+horizonDays).
type Strategy interface {
	Name() string
	Predict(series []DailyQuantity, from time.Time, horizonDays int) ([]Point, error)
}

// DenseSeries expands a sparse history into one entry per calendar day in
// [from, until], filling missing days with zero. Seasonality features would
// otherwise be corrupted by an artificially short series.
func DenseSeries(raw []DailyQuantity, from, until time.Time) []DailyQuantity {
	byDay := make(map[string]decimal.Decimal, len(raw))
	for _, d := range raw {
		key := d.Date.Format("2006-01-02")
		byDay[key] = byDay[key].Add(d.Quantity)
	}

	var series []DailyQuantity
	for day := truncateDay(from); !day.After(truncateDay(until)); day = day.AddDate(0, 0, 1) {
		series = append(series, DailyQuantity{
			Date:     day,
			Quantity: byDay[day.Format("2006-01-02")],
		})
	}
	return series
}

// NonZeroPoints counts the days with realized demand — the signal density the
// selector uses to decide whether the primary strategy has enough to work with.
func NonZeroPoints(series []DailyQuantity) int {
	n := 0
	for _, d := range series {
		if d.Quantity.IsPositive() {
			n++
		}
	}
	return n
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func clampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
