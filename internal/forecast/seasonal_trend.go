package forecast

import (
	"errors"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// SeasonalTrendStrategy fits an ordinary least squares model over a linear
// trend plus weekday indicators, capturing both growth and the weekly
// delivery rhythm that dominates microgreens demand. Training can fail on
// short or degenerate series; the selector handles the downgrade.
type SeasonalTrendStrategy struct{}

func NewSeasonalTrend() *SeasonalTrendStrategy { return &SeasonalTrendStrategy{} }

func (s *SeasonalTrendStrategy) Name() string { return "seasonal_trend" }

// featureCount = intercept + trend + 6 weekday dummies (Sunday is baseline).
const featureCount = 8

var (
	errSeriesTooShort = errors.New("seasonal_trend: series shorter than feature count")
	errSingularSystem = errors.New("seasonal_trend: singular normal equations")
)

func (s *SeasonalTrendStrategy) Predict(series []DailyQuantity, from time.Time, horizonDays int) ([]Point, error) {
	if len(series) < featureCount*2 {
		return nil, errSeriesTooShort
	}

	rows := make([][]float64, len(series))
	targets := make([]float64, len(series))
	for i, d := range series {
		rows[i] = featureRow(i, d.Date)
		targets[i], _ = d.Quantity.Float64()
	}

	coef, err := solveLeastSquares(rows, targets)
	if err != nil {
		return nil, err
	}

	// Residual RMSE is the confidence band width.
	var sse float64
	for i, row := range rows {
		sse += math.Pow(targets[i]-dot(row, coef), 2)
	}
	rmse := math.Sqrt(sse / float64(len(rows)))

	base := truncateDay(from)
	points := make([]Point, 0, horizonDays)
	for i := 0; i < horizonDays; i++ {
		day := base.AddDate(0, 0, i)
		raw := dot(featureRow(len(series)+i, day), coef)
		q := clampZero(decimal.NewFromFloat(raw).Round(2))
		band := decimal.NewFromFloat(rmse).Round(2)
		points = append(points, Point{
			Date:     day,
			Quantity: q,
			Lower:    clampZero(q.Sub(band)),
			Upper:    q.Add(band),
		})
	}
	return points, nil
}

func featureRow(t int, day time.Time) []float64 {
	row := make([]float64, featureCount)
	row[0] = 1
	row[1] = float64(t)
	if wd := int(day.Weekday()); wd > 0 {
		row[1+wd] = 1
	}
	return row
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// solveLeastSquares solves (XᵀX)β = Xᵀy via Gaussian elimination with
// partial pivoting. Returns errSingularSystem when a pivot collapses, e.g.
// when a weekday never occurs in the series.
func solveLeastSquares(rows [][]float64, y []float64) ([]float64, error) {
	n := featureCount
	ata := make([][]float64, n)
	atb := make([]float64, n)
	for i := 0; i < n; i++ {
		ata[i] = make([]float64, n)
	}
	for r, row := range rows {
		for i := 0; i < n; i++ {
			atb[i] += row[i] * y[r]
			for j := 0; j < n; j++ {
				ata[i][j] += row[i] * row[j]
			}
		}
	}

	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(ata[r][col]) > math.Abs(ata[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(ata[pivot][col]) < 1e-9 {
			return nil, errSingularSystem
		}
		ata[col], ata[pivot] = ata[pivot], ata[col]
		atb[col], atb[pivot] = atb[pivot], atb[col]

		for r := col + 1; r < n; r++ {
			factor := ata[r][col] / ata[col][col]
			for c := col; c < n; c++ {
				ata[r][c] -= factor * ata[col][c]
			}
			atb[r] -= factor * atb[col]
		}
	}

	coef := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		sum := atb[i]
		for j := i + 1; j < n; j++ {
			sum -= ata[i][j] * coef[j]
		}
		coef[i] = sum / ata[i][i]
	}
	return coef, nil
}
