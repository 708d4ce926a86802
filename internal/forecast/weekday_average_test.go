package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekdayAveragePredictsPerWeekdayMean(t *testing.T) {
	s := NewWeekdayAverage(25)

	// Two weeks of history: Mondays at 100/200, Tuesdays at 300 flat.
	series := []DailyQuantity{
		{Date: d("2026-01-05"), Quantity: qty("100")}, // Mon
		{Date: d("2026-01-06"), Quantity: qty("300")}, // Tue
		{Date: d("2026-01-12"), Quantity: qty("200")}, // Mon
		{Date: d("2026-01-13"), Quantity: qty("300")}, // Tue
	}

	points, err := s.Predict(series, d("2026-01-19"), 2)
	require.NoError(t, err)
	require.Len(t, points, 2)

	mon, tue := points[0], points[1]
	assert.Equal(t, "150", mon.Quantity.String())
	assert.Equal(t, "112.5", mon.Lower.String())
	assert.Equal(t, "187.5", mon.Upper.String())
	assert.Equal(t, "300", tue.Quantity.String())
}

func TestWeekdayAverageUnseenWeekdayIsZero(t *testing.T) {
	s := NewWeekdayAverage(25)
	series := []DailyQuantity{
		{Date: d("2026-01-05"), Quantity: qty("100")}, // Mon only
	}

	// Predict a Wednesday with no Wednesday history at all.
	points, err := s.Predict(series, d("2026-01-21"), 1)
	require.NoError(t, err)
	require.Len(t, points, 1)

	assert.True(t, points[0].Quantity.IsZero())
	assert.True(t, points[0].Lower.IsZero())
	assert.True(t, points[0].Upper.IsZero())
}

func TestWeekdayAverageNeverFailsOnEmptySeries(t *testing.T) {
	s := NewWeekdayAverage(25)
	points, err := s.Predict(nil, d("2026-01-19"), 7)
	require.NoError(t, err)
	assert.Len(t, points, 7)
	for _, p := range points {
		assert.True(t, p.Quantity.IsZero())
	}
}

func TestWeekdayAverageDatesAreConsecutive(t *testing.T) {
	s := NewWeekdayAverage(25)
	points, err := s.Predict(nil, d("2026-01-19"), 3)
	require.NoError(t, err)
	for i, p := range points {
		assert.True(t, p.Date.Equal(d("2026-01-19").AddDate(0, 0, i)))
		assert.Equal(t, time.Duration(0), p.Date.Sub(truncateDay(p.Date)))
	}
}
