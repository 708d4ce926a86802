package service

import (
	"context"
	"testing"
	"time"

	"sproutplan/internal/dto"
	"sproutplan/internal/forecast"
	"sproutplan/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type forecastFixture struct {
	svc         ForecastService
	orders      *stubOrderRepo
	subs        *stubSubscriptionRepo
	forecasts   *stubForecastRepo
	products    *stubProductRepo
	suggestions *stubSuggestionRepo
	product     *model.Product
}

// newForecastFixture pins "today" to Monday 2026-02-02, so the seven-day
// horizon runs Tuesday 2026-02-03 through Monday 2026-02-09.
func newForecastFixture(t *testing.T) *forecastFixture {
	t.Helper()
	orders := newStubOrderRepo()
	subs := &stubSubscriptionRepo{}
	forecasts := newStubForecastRepo()
	products := newStubProductRepo()
	adjustments := newStubAdjustmentRepo()
	suggestions := newStubSuggestionRepo()

	selector := forecast.NewSelector(forecast.NewSeasonalTrend(), forecast.NewWeekdayAverage(25), 14)
	svc := NewForecastService(orders, subs, forecasts, products, adjustments, suggestions, selector, 90)
	svc.(*forecastService).now = func() time.Time { return day("2026-02-02") }

	return &forecastFixture{
		svc:         svc,
		orders:      orders,
		subs:        subs,
		forecasts:   forecasts,
		products:    products,
		suggestions: suggestions,
		product:     products.add(sunflower()),
	}
}

func (fx *forecastFixture) generate(t *testing.T, horizonDays int) []dto.ForecastResponse {
	t.Helper()
	responses, err := fx.svc.GenerateForecasts(context.Background(), dto.GenerateForecastsRequest{
		ProductIDs:  []string{fx.product.ID.String()},
		HorizonDays: horizonDays,
	})
	require.NoError(t, err)
	return responses
}

func TestGenerateProjectsSubscriptionsWithoutHistory(t *testing.T) {
	fx := newForecastFixture(t)
	// Mon/Wed/Fri, 500 g per delivery, no sales history at all.
	fx.subs.subs = append(fx.subs.subs, model.Subscription{
		ID:         uuid.New(),
		CustomerID: uuid.New(),
		ProductID:  fx.product.ID,
		Quantity:   dec("500"),
		Weekdays:   "1,3,5",
		ValidFrom:  day("2026-01-01"),
		Active:     true,
	})

	responses := fx.generate(t, 7)
	require.Len(t, responses, 7)

	covered := 0
	for _, r := range responses {
		if r.FromSubscriptions {
			covered++
			assert.Equal(t, "500", r.AutomaticQuantity.String())
			assert.Equal(t, r.AutomaticQuantity.String(), r.EffectiveQuantity.String())
		} else {
			assert.True(t, r.AutomaticQuantity.IsZero())
		}
		assert.False(t, r.FromHistory)
		assert.Equal(t, "weekday_average", r.Strategy)
	}
	// Wed 02-04, Fri 02-06, Mon 02-09
	assert.Equal(t, 3, covered)
}

func TestGenerateRespectsIntervalWeeks(t *testing.T) {
	fx := newForecastFixture(t)
	// Every other Friday, anchored at the ValidFrom week of 2026-01-26:
	// 01-30 on, 02-06 off, 02-13 on.
	fx.subs.subs = append(fx.subs.subs, model.Subscription{
		ID:            uuid.New(),
		CustomerID:    uuid.New(),
		ProductID:     fx.product.ID,
		Quantity:      dec("800"),
		Weekdays:      "5",
		IntervalWeeks: 2,
		ValidFrom:     day("2026-01-26"),
		Active:        true,
	})

	responses := fx.generate(t, 14)
	require.Len(t, responses, 14)

	byDate := make(map[string]dto.ForecastResponse, len(responses))
	for _, r := range responses {
		byDate[r.TargetDate] = r
	}
	assert.False(t, byDate["2026-02-06"].FromSubscriptions)
	assert.True(t, byDate["2026-02-13"].FromSubscriptions)
	assert.Equal(t, "800", byDate["2026-02-13"].AutomaticQuantity.String())
}

func TestGenerateUsesWeekdayAverageOnSparseHistory(t *testing.T) {
	fx := newForecastFixture(t)
	// Three Tuesdays of history — far below the minimum for the seasonal fit.
	for _, d := range []string{"2026-01-13", "2026-01-20", "2026-01-27"} {
		fx.orders.daily = append(fx.orders.daily, forecast.DailyQuantity{Date: day(d), Quantity: dec("600")})
	}

	responses := fx.generate(t, 7)
	require.Len(t, responses, 7)

	byDate := make(map[string]dto.ForecastResponse, len(responses))
	for _, r := range responses {
		byDate[r.TargetDate] = r
		assert.Equal(t, "weekday_average", r.Strategy)
		assert.True(t, r.FromHistory)
		assert.False(t, r.FromSeasonality)
	}

	// Tuesday 02-03: mean across the lookback's Tuesdays. The dense series
	// zero-fills the other Tuesdays, so the mean sits well below 600 but
	// stays positive; confidence band is ±25% around it.
	tue := byDate["2026-02-03"]
	assert.True(t, tue.AutomaticQuantity.IsPositive())
	assert.True(t, tue.ConfidenceLower.LessThan(tue.AutomaticQuantity))
	assert.True(t, tue.ConfidenceUpper.GreaterThan(tue.AutomaticQuantity))
}

func TestGenerateUpsertsInsteadOfDuplicating(t *testing.T) {
	fx := newForecastFixture(t)

	first := fx.generate(t, 7)
	require.Len(t, first, 7)
	require.Len(t, fx.forecasts.forecasts, 7)

	second := fx.generate(t, 7)
	assert.Len(t, second, 7)
	assert.Len(t, fx.forecasts.forecasts, 7)
}

func TestGenerateLeavesAdjustedForecastsAlone(t *testing.T) {
	fx := newForecastFixture(t)
	fx.generate(t, 7)

	adjusted, err := fx.forecasts.FindAggregate(context.Background(), fx.product.ID, day("2026-02-04"))
	require.NoError(t, err)
	adjusted.HasManualAdjustment = true
	adjusted.EffectiveQuantity = dec("999")

	second := fx.generate(t, 7)

	// The adjusted row is skipped: six refreshed responses, value untouched.
	assert.Len(t, second, 6)
	stored, err := fx.forecasts.FindAggregate(context.Background(), fx.product.ID, day("2026-02-04"))
	require.NoError(t, err)
	assert.Equal(t, "999", stored.EffectiveQuantity.String())
	assert.True(t, stored.HasManualAdjustment)
}

func TestGenerateRejectsMalformedProductID(t *testing.T) {
	fx := newForecastFixture(t)

	_, err := fx.svc.GenerateForecasts(context.Background(), dto.GenerateForecastsRequest{
		ProductIDs:  []string{"not-a-uuid"},
		HorizonDays: 7,
	})

	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestGenerateSkipsUnknownProducts(t *testing.T) {
	fx := newForecastFixture(t)

	responses, err := fx.svc.GenerateForecasts(context.Background(), dto.GenerateForecastsRequest{
		ProductIDs:  []string{uuid.NewString(), fx.product.ID.String()},
		HorizonDays: 3,
	})
	require.NoError(t, err)

	// The unknown product is logged and skipped; the known one still runs.
	assert.Len(t, responses, 3)
}

func TestGetDetailIncludesLedgerAndSuggestion(t *testing.T) {
	fx := newForecastFixture(t)
	fx.generate(t, 7)

	f, err := fx.forecasts.FindAggregate(context.Background(), fx.product.ID, day("2026-02-04"))
	require.NoError(t, err)

	sug := &model.ProductionSuggestion{
		ForecastID: f.ID,
		ProductID:  f.ProductID,
		Status:     model.SuggestionProposed,
		SowDate:    day("2026-01-25"),
	}
	require.NoError(t, fx.suggestions.Create(context.Background(), sug))

	detail, err := fx.svc.GetDetail(context.Background(), f.ID)
	require.NoError(t, err)

	assert.Equal(t, f.ID.String(), detail.ID)
	assert.NotNil(t, detail.Suggestion)
	assert.Empty(t, detail.Adjustments)
}

func TestGetDetailUnknownForecast(t *testing.T) {
	fx := newForecastFixture(t)
	_, err := fx.svc.GetDetail(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
