package service

import (
	"context"
	"testing"

	"sproutplan/internal/dto"
	"sproutplan/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type accuracyFixture struct {
	svc       AccuracyService
	forecasts *stubForecastRepo
	orders    *stubOrderRepo
	records   *stubAccuracyRepo
}

func newAccuracyFixture(t *testing.T) *accuracyFixture {
	t.Helper()
	forecasts := newStubForecastRepo()
	orders := newStubOrderRepo()
	records := newStubAccuracyRepo()
	return &accuracyFixture{
		svc:       NewAccuracyService(forecasts, orders, records),
		forecasts: forecasts,
		orders:    orders,
		records:   records,
	}
}

func (fx *accuracyFixture) addForecast(t *testing.T, target, automatic, effective string) *model.Forecast {
	t.Helper()
	f := &model.Forecast{
		ID:                uuid.New(),
		ProductID:         uuid.New(),
		TargetDate:        day(target),
		AutomaticQuantity: dec(automatic),
		EffectiveQuantity: dec(effective),
	}
	require.NoError(t, fx.forecasts.Create(context.Background(), f))
	return f
}

func TestEvaluateScoresBothQuantities(t *testing.T) {
	fx := newAccuracyFixture(t)
	fx.addForecast(t, "2026-02-05", "1000", "1200")
	fx.orders.realized["2026-02-05"] = dec("1100")

	responses, err := fx.svc.Evaluate(context.Background(), day("2026-02-10"))
	require.NoError(t, err)
	require.Len(t, responses, 1)

	got := responses[0]
	assert.Equal(t, "1100", got.ActualQuantity.String())
	// vs effective 1200: 1100-1200 = -100, -100/1200*100 = -8.33%
	assert.Equal(t, "-100", got.AbsDeviation.String())
	assert.Equal(t, "-8.33", got.PctDeviation.String())
	assert.Equal(t, "8.33", got.MAPE.String())
	// vs automatic 1000: +100 = +10%
	assert.Equal(t, "100", got.AutoAbsDeviation.String())
	assert.Equal(t, "10", got.AutoPctDeviation.String())
	assert.Equal(t, "10", got.AutoMAPE.String())
}

func TestEvaluateZeroPredictionYieldsZeroPct(t *testing.T) {
	fx := newAccuracyFixture(t)
	fx.addForecast(t, "2026-02-05", "0", "0")
	fx.orders.realized["2026-02-05"] = dec("400")

	responses, err := fx.svc.Evaluate(context.Background(), day("2026-02-10"))
	require.NoError(t, err)
	require.Len(t, responses, 1)

	got := responses[0]
	assert.Equal(t, "400", got.AbsDeviation.String())
	assert.True(t, got.PctDeviation.IsZero())
	assert.True(t, got.MAPE.IsZero())
}

func TestEvaluateNoRealizedDemandScoresZeroActual(t *testing.T) {
	fx := newAccuracyFixture(t)
	fx.addForecast(t, "2026-02-05", "800", "800")
	// No orders on the target date at all.

	responses, err := fx.svc.Evaluate(context.Background(), day("2026-02-10"))
	require.NoError(t, err)
	require.Len(t, responses, 1)

	got := responses[0]
	assert.True(t, got.ActualQuantity.IsZero())
	assert.Equal(t, "-800", got.AbsDeviation.String())
	assert.Equal(t, "-100", got.PctDeviation.String())
}

func TestEvaluateNeverScoresTwice(t *testing.T) {
	fx := newAccuracyFixture(t)
	f := fx.addForecast(t, "2026-02-05", "1000", "1000")
	fx.orders.realized["2026-02-05"] = dec("900")

	first, err := fx.svc.Evaluate(context.Background(), day("2026-02-10"))
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Realized data changing later must not rewrite the snapshot.
	fx.orders.realized["2026-02-05"] = dec("1500")
	second, err := fx.svc.Evaluate(context.Background(), day("2026-02-10"))
	require.NoError(t, err)

	assert.Empty(t, second)
	stored := fx.records.records[f.ID]
	require.NotNil(t, stored)
	assert.Equal(t, "900", stored.ActualQuantity.String())
}

func TestEvaluateSkipsFutureForecasts(t *testing.T) {
	fx := newAccuracyFixture(t)
	fx.addForecast(t, "2026-03-01", "1000", "1000")

	responses, err := fx.svc.Evaluate(context.Background(), day("2026-02-10"))
	require.NoError(t, err)
	assert.Empty(t, responses)
}

func TestListFiltersByProduct(t *testing.T) {
	fx := newAccuracyFixture(t)
	mine := fx.addForecast(t, "2026-02-04", "500", "500")
	fx.addForecast(t, "2026-02-05", "700", "700")
	fx.orders.realized["2026-02-04"] = dec("450")
	fx.orders.realized["2026-02-05"] = dec("650")

	_, err := fx.svc.Evaluate(context.Background(), day("2026-02-10"))
	require.NoError(t, err)

	all, err := fx.svc.List(context.Background(), dto.AccuracyFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := fx.svc.List(context.Background(), dto.AccuracyFilter{ProductID: mine.ProductID.String()})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, mine.ID.String(), filtered[0].ForecastID)
}
