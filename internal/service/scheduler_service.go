package service

import (
	"context"
	"fmt"
	"time"

	"sproutplan/internal/dto"
	"sproutplan/internal/model"
	"sproutplan/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// SchedulerService converts effective demand into production suggestions:
// tray counts from yield and loss parameters, sow dates walked backward
// through the grow cycle, and advisory feasibility warnings against shared
// capacity. Runs are idempotent per forecast.
type SchedulerService interface {
	GenerateSuggestions(ctx context.Context, horizonDays int) ([]dto.SuggestionResponse, error)
	List(ctx context.Context, filter dto.SuggestionFilter) (*dto.SuggestionListResponse, error)
	SuggestionRefresher
}

type schedulerService struct {
	forecasts    repository.ForecastRepository
	products     repository.ProductRepository
	suggestions  repository.SuggestionRepository
	capacity     repository.CapacityRepository
	capacityKind string
	now          func() time.Time
}

func NewSchedulerService(
	forecasts repository.ForecastRepository,
	products repository.ProductRepository,
	suggestions repository.SuggestionRepository,
	capacity repository.CapacityRepository,
	capacityKind string,
) SchedulerService {
	return &schedulerService{
		forecasts:    forecasts,
		products:     products,
		suggestions:  suggestions,
		capacity:     capacity,
		capacityKind: capacityKind,
		now:          time.Now,
	}
}

// GenerateSuggestions schedules every aggregate forecast with positive
// effective demand in the horizon. One forecast's failure never aborts the
// run for the others.
func (s *schedulerService) GenerateSuggestions(ctx context.Context, horizonDays int) ([]dto.SuggestionResponse, error) {
	today := truncateDay(s.now())
	until := today.AddDate(0, 0, horizonDays)

	forecasts, err := s.forecasts.ListSchedulable(ctx, today, until)
	if err != nil {
		return nil, fmt.Errorf("list schedulable forecasts: %w", err)
	}

	var responses []dto.SuggestionResponse
	for i := range forecasts {
		sug, err := s.scheduleForecast(ctx, &forecasts[i])
		if err != nil {
			log.Error().Err(err).
				Str("forecast_id", forecasts[i].ID.String()).
				Msg("scheduler: forecast scheduling failed, continuing batch")
			continue
		}
		if sug != nil {
			responses = append(responses, suggestionToResponse(sug))
		}
	}
	return responses, nil
}

// scheduleForecast upserts the PROPOSED suggestion for one forecast.
// Terminal suggestions are never touched (nil return).
func (s *schedulerService) scheduleForecast(ctx context.Context, f *model.Forecast) (*model.ProductionSuggestion, error) {
	product, err := s.products.FindByID(ctx, f.ProductID)
	if err != nil {
		return nil, fmt.Errorf("%w: product %s", ErrNotFound, f.ProductID)
	}

	existing, err := s.suggestions.FindByForecastID(ctx, f.ID)
	if err != nil {
		// No suggestion yet — compute a fresh one.
		sug := &model.ProductionSuggestion{
			ForecastID: f.ID,
			ProductID:  f.ProductID,
			Status:     model.SuggestionProposed,
		}
		if err := s.computeSuggestion(ctx, f, product, sug); err != nil {
			return nil, err
		}
		if err := s.suggestions.Create(ctx, sug); err != nil {
			return nil, fmt.Errorf("create suggestion: %w", err)
		}
		return sug, nil
	}

	if existing.IsTerminal() {
		return nil, nil
	}
	if err := s.computeSuggestion(ctx, f, product, existing); err != nil {
		return nil, err
	}
	if err := s.suggestions.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("update suggestion: %w", err)
	}
	return existing, nil
}

// computeSuggestion fills the derived fields of sug from the forecast's
// effective demand and the product's growth parameters. Deterministic: the
// same forecast state always produces the same numbers and warnings.
func (s *schedulerService) computeSuggestion(ctx context.Context, f *model.Forecast, product *model.Product, sug *model.ProductionSuggestion) error {
	var warnings model.WarningList

	effectiveYield := effectiveYieldPerTray(product)

	trays := 0
	if effectiveYield.IsPositive() {
		trays = int(f.EffectiveQuantity.Div(effectiveYield).Ceil().IntPart())
	} else {
		warnings = append(warnings, model.Warning{
			Kind: model.WarningDegenerateYield,
			Message: fmt.Sprintf("effective yield per tray is %s — check yield and loss parameters of %s",
				effectiveYield.StringFixed(2), product.Name),
		})
	}

	harvestDate := truncateDay(f.TargetDate)
	sowDate := harvestDate.AddDate(0, 0, -(product.GerminationDays + product.GrowthDays))
	today := truncateDay(s.now())
	if sowDate.Before(today) {
		warnings = append(warnings, model.Warning{
			Kind: model.WarningUnderSupply,
			Message: fmt.Sprintf("sow date in the past (%s), clamped to today — harvest will miss %s",
				sowDate.Format(dateLayout), harvestDate.Format(dateLayout)),
		})
		sowDate = today
	}

	if warning := s.capacityWarning(ctx, sowDate, sug.ID, trays); warning != nil {
		warnings = append(warnings, *warning)
	}

	sug.RecommendedTrays = trays
	sug.SowDate = sowDate
	sug.ExpectedHarvestDate = harvestDate
	sug.RequiredQuantity = f.EffectiveQuantity
	sug.ExpectedYieldQuantity = effectiveYield.Mul(decimalFromInt(trays)).Round(2)
	sug.Warnings = warnings
	return nil
}

// effectiveYieldPerTray = yield_per_tray * (1 - loss_pct/100).
func effectiveYieldPerTray(p *model.Product) decimal.Decimal {
	return p.YieldPerTray.Mul(
		decimal.NewFromInt(1).Sub(p.ExpectedLossPct.Div(decimal.NewFromInt(100))))
}

func decimalFromInt(n int) decimal.Decimal { return decimal.NewFromInt(int64(n)) }

// capacityWarning checks required trays against the shared capacity snapshot
// plus everything already planned for the same sow date. Advisory only —
// capacity pressure never blocks suggestion creation.
func (s *schedulerService) capacityWarning(ctx context.Context, sowDate time.Time, exclude uuid.UUID, trays int) *model.Warning {
	resource, err := s.capacity.GetByKind(ctx, s.capacityKind)
	if err != nil {
		log.Warn().Err(err).Str("kind", s.capacityKind).
			Msg("scheduler: capacity snapshot unavailable, skipping check")
		return nil
	}

	planned, err := s.suggestions.SumProposedTrays(ctx, sowDate, exclude)
	if err != nil {
		log.Warn().Err(err).Msg("scheduler: planned tray sum unavailable, skipping check")
		return nil
	}

	projected := resource.CommittedTrays + planned + trays
	if projected <= resource.MaxTrays {
		return nil
	}
	return &model.Warning{
		Kind:    model.WarningCapacity,
		Message: fmt.Sprintf("capacity %s exceeded on %s: %d/%d trays", resource.Kind, sowDate.Format(dateLayout), projected, resource.MaxTrays),
	}
}

// RefreshForForecast re-derives the open suggestion after the forecast's
// effective demand changed. Terminal or missing suggestions are left alone.
func (s *schedulerService) RefreshForForecast(ctx context.Context, f *model.Forecast) error {
	existing, err := s.suggestions.FindByForecastID(ctx, f.ID)
	if err != nil {
		return nil // nothing generated yet
	}
	if existing.IsTerminal() {
		return nil
	}

	product, err := s.products.FindByID(ctx, f.ProductID)
	if err != nil {
		return fmt.Errorf("%w: product %s", ErrNotFound, f.ProductID)
	}
	if err := s.computeSuggestion(ctx, f, product, existing); err != nil {
		return err
	}
	return s.suggestions.Update(ctx, existing)
}

func (s *schedulerService) List(ctx context.Context, filter dto.SuggestionFilter) (*dto.SuggestionListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 200 {
		filter.Limit = 50
	}

	suggestions, total, err := s.suggestions.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := &dto.SuggestionListResponse{
		Items: make([]dto.SuggestionResponse, 0, len(suggestions)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range suggestions {
		resp.Items = append(resp.Items, suggestionToResponse(&suggestions[i]))
	}
	return resp, nil
}
