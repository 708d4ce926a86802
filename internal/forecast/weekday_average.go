package forecast

import (
	"time"

	"github.com/shopspring/decimal"
)

// WeekdayAverageStrategy is the fallback estimator: the mean realized
// quantity per day-of-week, with a fixed symmetric confidence margin. It
// cannot fail, which is exactly why it is the fallback.
type WeekdayAverageStrategy struct {
	// MarginPct is the symmetric confidence margin, e.g. 25 for ±25%.
	MarginPct decimal.Decimal
}

func NewWeekdayAverage(marginPct int) *WeekdayAverageStrategy {
	return &WeekdayAverageStrategy{MarginPct: decimal.NewFromInt(int64(marginPct))}
}

func (s *WeekdayAverageStrategy) Name() string { return "weekday_average" }

func (s *WeekdayAverageStrategy) Predict(series []DailyQuantity, from time.Time, horizonDays int) ([]Point, error) {
	sums := make(map[time.Weekday]decimal.Decimal)
	counts := make(map[time.Weekday]int)
	for _, d := range series {
		wd := d.Date.Weekday()
		sums[wd] = sums[wd].Add(d.Quantity)
		counts[wd]++
	}

	means := make(map[time.Weekday]decimal.Decimal)
	for wd, sum := range sums {
		if counts[wd] > 0 {
			means[wd] = sum.DivRound(decimal.NewFromInt(int64(counts[wd])), 2)
		}
	}

	margin := s.MarginPct.Div(decimal.NewFromInt(100))
	points := make([]Point, 0, horizonDays)
	for i := 0; i < horizonDays; i++ {
		day := truncateDay(from).AddDate(0, 0, i)
		q := clampZero(means[day.Weekday()])
		delta := q.Mul(margin).Round(2)
		points = append(points, Point{
			Date:     day,
			Quantity: q,
			Lower:    clampZero(q.Sub(delta)),
			Upper:    q.Add(delta),
		})
	}
	return points, nil
}
