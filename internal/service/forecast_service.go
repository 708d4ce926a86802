package service

import (
	"context"
	"fmt"
	"time"

	"sproutplan/internal/dto"
	"sproutplan/internal/forecast"
	"sproutplan/internal/model"
	"sproutplan/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ForecastService generates and serves demand forecasts: baseline estimation
// over aggregated sales history, subscription projection on top, one forecast
// row per (product, future date).
type ForecastService interface {
	GenerateForecasts(ctx context.Context, req dto.GenerateForecastsRequest) ([]dto.ForecastResponse, error)
	GetDetail(ctx context.Context, id uuid.UUID) (*dto.ForecastDetailResponse, error)
	List(ctx context.Context, filter dto.ForecastFilter) (*dto.ForecastListResponse, error)
}

type forecastService struct {
	orders        repository.SalesOrderRepository
	subscriptions repository.SubscriptionRepository
	forecasts     repository.ForecastRepository
	products      repository.ProductRepository
	adjustments   repository.AdjustmentRepository
	suggestions   repository.SuggestionRepository
	selector      *forecast.Selector
	lookbackDays  int
	now           func() time.Time
}

func NewForecastService(
	orders repository.SalesOrderRepository,
	subscriptions repository.SubscriptionRepository,
	forecasts repository.ForecastRepository,
	products repository.ProductRepository,
	adjustments repository.AdjustmentRepository,
	suggestions repository.SuggestionRepository,
	selector *forecast.Selector,
	lookbackDays int,
) ForecastService {
	return &forecastService{
		orders:        orders,
		subscriptions: subscriptions,
		forecasts:     forecasts,
		products:      products,
		adjustments:   adjustments,
		suggestions:   suggestions,
		selector:      selector,
		lookbackDays:  lookbackDays,
		now:           time.Now,
	}
}

// GenerateForecasts runs the full aggregation pipeline per product. A failure
// in one product's pipeline is logged and skipped — it never aborts the batch
// for the remaining products.
func (s *forecastService) GenerateForecasts(ctx context.Context, req dto.GenerateForecastsRequest) ([]dto.ForecastResponse, error) {
	today := truncateDay(s.now())
	var responses []dto.ForecastResponse

	for _, raw := range req.ProductIDs {
		productID, err := uuid.Parse(raw)
		if err != nil {
			return nil, newValidationError("product_ids", fmt.Sprintf("invalid product id %q", raw))
		}

		generated, err := s.generateForProduct(ctx, productID, today, req.HorizonDays)
		if err != nil {
			log.Error().Err(err).Str("product_id", productID.String()).
				Msg("forecast: product generation failed, continuing batch")
			continue
		}
		responses = append(responses, generated...)
	}

	return responses, nil
}

func (s *forecastService) generateForProduct(ctx context.Context, productID uuid.UUID, today time.Time, horizonDays int) ([]dto.ForecastResponse, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("%w: product %s", ErrNotFound, productID)
	}

	// History window ends yesterday: today's orders may still be coming in.
	historyFrom := today.AddDate(0, 0, -s.lookbackDays)
	historyUntil := today.AddDate(0, 0, -1)
	raw, err := s.orders.AggregateDaily(ctx, product.ID, historyFrom, historyUntil)
	if err != nil {
		return nil, fmt.Errorf("aggregate history: %w", err)
	}
	series := forecast.DenseSeries(raw, historyFrom, historyUntil)

	horizonStart := today.AddDate(0, 0, 1)
	result := s.selector.Predict(series, horizonStart, horizonDays)

	subs, err := s.subscriptions.ListActiveByProduct(ctx, product.ID)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}

	var responses []dto.ForecastResponse
	for _, point := range result.Points {
		subQty := projectSubscriptions(subs, point.Date)

		f := &model.Forecast{
			ProductID:         product.ID,
			TargetDate:        point.Date,
			HorizonDays:       horizonDays,
			AutomaticQuantity: point.Quantity.Add(subQty),
			// Bounds shift by the subscription quantity: subscriptions are
			// committed demand, so the band width stays the baseline's.
			ConfidenceLower:   point.Lower.Add(subQty),
			ConfidenceUpper:   point.Upper.Add(subQty),
			Strategy:          result.Strategy,
			FromHistory:       result.FromHistory,
			FromSubscriptions: subQty.IsPositive(),
			FromSeasonality:   result.Seasonal,
		}
		f.EffectiveQuantity = f.AutomaticQuantity

		stored, err := s.upsertForecast(ctx, f)
		if err != nil {
			log.Error().Err(err).
				Str("product_id", product.ID.String()).
				Str("target_date", fmtDate(point.Date)).
				Msg("forecast: persist failed, continuing")
			continue
		}
		if stored != nil {
			responses = append(responses, forecastToResponse(stored))
		}
	}
	return responses, nil
}

// upsertForecast refreshes an existing aggregate forecast for the same
// (product, date) — unless it already carries manual adjustments, in which
// case the operator's numbers win and the row is left untouched (nil return).
func (s *forecastService) upsertForecast(ctx context.Context, f *model.Forecast) (*model.Forecast, error) {
	existing, err := s.forecasts.FindAggregate(ctx, f.ProductID, f.TargetDate)
	if err != nil {
		if createErr := s.forecasts.Create(ctx, f); createErr != nil {
			return nil, createErr
		}
		return f, nil
	}

	if existing.HasManualAdjustment {
		return nil, nil
	}

	existing.HorizonDays = f.HorizonDays
	existing.AutomaticQuantity = f.AutomaticQuantity
	existing.ConfidenceLower = f.ConfidenceLower
	existing.ConfidenceUpper = f.ConfidenceUpper
	existing.Strategy = f.Strategy
	existing.EffectiveQuantity = f.AutomaticQuantity
	existing.FromHistory = f.FromHistory
	existing.FromSubscriptions = f.FromSubscriptions
	existing.FromSeasonality = f.FromSeasonality
	if err := s.forecasts.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// projectSubscriptions sums the committed quantities of all subscriptions
// delivering on the given date.
func projectSubscriptions(subs []model.Subscription, date time.Time) decimal.Decimal {
	total := decimal.Zero
	for i := range subs {
		if subs[i].CoversDate(date) {
			total = total.Add(subs[i].Quantity)
		}
	}
	return total
}

func (s *forecastService) GetDetail(ctx context.Context, id uuid.UUID) (*dto.ForecastDetailResponse, error) {
	f, err := s.forecasts.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: forecast %s", ErrNotFound, id)
	}

	ledger, err := s.adjustments.ListByForecast(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list adjustments: %w", err)
	}

	detail := &dto.ForecastDetailResponse{
		ForecastResponse: forecastToResponse(f),
		Adjustments:      make([]dto.AdjustmentResponse, 0, len(ledger)),
	}
	for i := range ledger {
		detail.Adjustments = append(detail.Adjustments, adjustmentToResponse(&ledger[i]))
	}

	if sug, err := s.suggestions.FindByForecastID(ctx, id); err == nil {
		resp := suggestionToResponse(sug)
		detail.Suggestion = &resp
	}

	return detail, nil
}

func (s *forecastService) List(ctx context.Context, filter dto.ForecastFilter) (*dto.ForecastListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 200 {
		filter.Limit = 50
	}

	forecasts, total, err := s.forecasts.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := &dto.ForecastListResponse{
		Items: make([]dto.ForecastResponse, 0, len(forecasts)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range forecasts {
		resp.Items = append(resp.Items, forecastToResponse(&forecasts[i]))
	}
	return resp, nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
