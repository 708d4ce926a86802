package forecast

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStrategy struct {
	name   string
	err    error
	called bool
}

func (f *fakeStrategy) Name() string { return f.name }

func (f *fakeStrategy) Predict(_ []DailyQuantity, from time.Time, horizonDays int) ([]Point, error) {
	f.called = true
	if f.err != nil {
		return nil, f.err
	}
	points := make([]Point, 0, horizonDays)
	for i := 0; i < horizonDays; i++ {
		points = append(points, Point{Date: truncateDay(from).AddDate(0, 0, i), Quantity: qty("42")})
	}
	return points, nil
}

func richSeries() []DailyQuantity {
	series := make([]DailyQuantity, 0, 30)
	for i := 0; i < 30; i++ {
		series = append(series, DailyQuantity{Date: d("2026-01-01").AddDate(0, 0, i), Quantity: qty("100")})
	}
	return series
}

func TestSelectorUsesPrimaryWithEnoughSignal(t *testing.T) {
	primary := &fakeStrategy{name: "primary"}
	fallback := &fakeStrategy{name: "fallback"}
	sel := NewSelector(primary, fallback, 14)

	result := sel.Predict(richSeries(), d("2026-02-01"), 7)

	assert.True(t, primary.called)
	assert.False(t, fallback.called)
	assert.Equal(t, "primary", result.Strategy)
	assert.True(t, result.Seasonal)
	assert.True(t, result.FromHistory)
	assert.Len(t, result.Points, 7)
}

func TestSelectorFallsBackOnSparseHistory(t *testing.T) {
	primary := &fakeStrategy{name: "primary"}
	fallback := &fakeStrategy{name: "fallback"}
	sel := NewSelector(primary, fallback, 14)

	sparse := []DailyQuantity{{Date: d("2026-01-05"), Quantity: qty("100")}}
	result := sel.Predict(sparse, d("2026-02-01"), 7)

	assert.False(t, primary.called)
	assert.True(t, fallback.called)
	assert.Equal(t, "fallback", result.Strategy)
	assert.False(t, result.Seasonal)
	assert.True(t, result.FromHistory)
}

func TestSelectorFallsBackOnPrimaryFailure(t *testing.T) {
	primary := &fakeStrategy{name: "primary", err: errors.New("training failed")}
	fallback := &fakeStrategy{name: "fallback"}
	sel := NewSelector(primary, fallback, 14)

	result := sel.Predict(richSeries(), d("2026-02-01"), 7)

	assert.True(t, primary.called)
	assert.True(t, fallback.called)
	assert.Equal(t, "fallback", result.Strategy)
	assert.False(t, result.Seasonal)
	require.Len(t, result.Points, 7)
}

func TestSelectorEmptyHistoryIsNotFromHistory(t *testing.T) {
	primary := &fakeStrategy{name: "primary"}
	fallback := &fakeStrategy{name: "fallback"}
	sel := NewSelector(primary, fallback, 14)

	result := sel.Predict(nil, d("2026-02-01"), 7)

	assert.Equal(t, "fallback", result.Strategy)
	assert.False(t, result.FromHistory)
}
