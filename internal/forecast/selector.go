package forecast

import (
	"time"

	"github.com/rs/zerolog/log"
)

// Result carries the prediction plus the provenance the aggregator records on
// each forecast row.
type Result struct {
	Points      []Point
	Strategy    string
	Seasonal    bool // true when the seasonal strategy produced the points
	FromHistory bool // true when any realized history fed the estimate
}

// Selector wraps a primary strategy with the weekday-average fallback.
// Insufficient history is not an error: it triggers the fallback with a
// logged downgrade, and so does any training failure of the primary.
type Selector struct {
	primary   Strategy
	fallback  Strategy
	minPoints int
}

func NewSelector(primary Strategy, fallback Strategy, minPoints int) *Selector {
	return &Selector{primary: primary, fallback: fallback, minPoints: minPoints}
}

// Predict runs the primary strategy when the series carries enough signal,
// otherwise (or on primary failure) the fallback. It never returns an error:
// the fallback is total.
func (s *Selector) Predict(series []DailyQuantity, from time.Time, horizonDays int) Result {
	points := NonZeroPoints(series)
	fromHistory := points > 0

	if points < s.minPoints {
		log.Debug().
			Int("data_points", points).
			Int("min_points", s.minPoints).
			Str("fallback", s.fallback.Name()).
			Msg("forecast: insufficient history, using fallback strategy")
		return s.runFallback(series, from, horizonDays, fromHistory)
	}

	predicted, err := s.primary.Predict(series, from, horizonDays)
	if err != nil {
		log.Warn().
			Err(err).
			Str("primary", s.primary.Name()).
			Str("fallback", s.fallback.Name()).
			Msg("forecast: primary strategy failed, downgrading to fallback")
		return s.runFallback(series, from, horizonDays, fromHistory)
	}

	return Result{
		Points:      predicted,
		Strategy:    s.primary.Name(),
		Seasonal:    true,
		FromHistory: fromHistory,
	}
}

func (s *Selector) runFallback(series []DailyQuantity, from time.Time, horizonDays int, fromHistory bool) Result {
	// The weekday-average fallback never fails.
	points, _ := s.fallback.Predict(series, from, horizonDays)
	return Result{
		Points:      points,
		Strategy:    s.fallback.Name(),
		FromHistory: fromHistory,
	}
}
