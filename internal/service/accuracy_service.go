package service

import (
	"context"
	"fmt"
	"time"

	"sproutplan/internal/dto"
	"sproutplan/internal/model"
	"sproutplan/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// AccuracyService scores past forecasts against realized demand — once per
// forecast, never recomputed. Both the effective and the automatic quantity
// are scored so operators can see whether the manual adjustments helped.
type AccuracyService interface {
	Evaluate(ctx context.Context, asOf time.Time) ([]dto.AccuracyResponse, error)
	List(ctx context.Context, filter dto.AccuracyFilter) ([]dto.AccuracyResponse, error)
}

type accuracyService struct {
	forecasts repository.ForecastRepository
	orders    repository.SalesOrderRepository
	accuracy  repository.AccuracyRepository
}

func NewAccuracyService(
	forecasts repository.ForecastRepository,
	orders repository.SalesOrderRepository,
	accuracy repository.AccuracyRepository,
) AccuracyService {
	return &accuracyService{forecasts: forecasts, orders: orders, accuracy: accuracy}
}

func (s *accuracyService) Evaluate(ctx context.Context, asOf time.Time) ([]dto.AccuracyResponse, error) {
	pending, err := s.forecasts.ListUnevaluated(ctx, truncateDay(asOf))
	if err != nil {
		return nil, fmt.Errorf("list unevaluated forecasts: %w", err)
	}

	var responses []dto.AccuracyResponse
	for i := range pending {
		record, err := s.evaluateForecast(ctx, &pending[i])
		if err != nil {
			log.Error().Err(err).
				Str("forecast_id", pending[i].ID.String()).
				Msg("accuracy: evaluation failed, continuing batch")
			continue
		}
		if record != nil {
			responses = append(responses, accuracyToResponse(record))
		}
	}
	return responses, nil
}

func (s *accuracyService) evaluateForecast(ctx context.Context, f *model.Forecast) (*model.ForecastAccuracy, error) {
	// At-least-once safety: the repository query excludes evaluated rows,
	// but a concurrent run may have snuck in between list and insert.
	exists, err := s.accuracy.ExistsForForecast(ctx, f.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, nil
	}

	actual, err := s.orders.RealizedQuantity(ctx, f.ProductID, f.CustomerID, f.TargetDate)
	if err != nil {
		return nil, fmt.Errorf("realized quantity: %w", err)
	}

	absDev, pctDev, mape := deviation(actual, f.EffectiveQuantity)
	autoAbs, autoPct, autoMAPE := deviation(actual, f.AutomaticQuantity)

	record := &model.ForecastAccuracy{
		ForecastID:       f.ID,
		ProductID:        f.ProductID,
		TargetDate:       f.TargetDate,
		ActualQuantity:   actual,
		AbsDeviation:     absDev,
		PctDeviation:     pctDev,
		MAPE:             mape,
		AutoAbsDeviation: autoAbs,
		AutoPctDeviation: autoPct,
		AutoMAPE:         autoMAPE,
		EvaluatedAt:      time.Now(),
	}
	if err := s.accuracy.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("create accuracy record: %w", err)
	}
	return record, nil
}

// deviation returns (actual - predicted), its percentage of the prediction
// (0 when the prediction is 0), and the MAPE contribution |pct|.
func deviation(actual, predicted decimal.Decimal) (abs, pct, mape decimal.Decimal) {
	abs = actual.Sub(predicted)
	if predicted.IsZero() {
		return abs, decimal.Zero, decimal.Zero
	}
	pct = abs.Div(predicted).Mul(decimal.NewFromInt(100)).Round(2)
	return abs, pct, pct.Abs()
}

func (s *accuracyService) List(ctx context.Context, filter dto.AccuracyFilter) ([]dto.AccuracyResponse, error) {
	records, err := s.accuracy.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]dto.AccuracyResponse, 0, len(records))
	for i := range records {
		responses = append(responses, accuracyToResponse(&records[i]))
	}
	return responses, nil
}
