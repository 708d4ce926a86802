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
)

// RecomputeQueue enqueues the asynchronous recompute follow-up after an
// add/revert. The forecast id is the idempotency key; delivery is
// at-least-once, so the recompute itself is idempotent.
type RecomputeQueue interface {
	EnqueueRecompute(ctx context.Context, forecastID uuid.UUID) error
}

// SuggestionRefresher updates a not-yet-terminal suggestion after its
// forecast's effective demand changed. Implemented by the scheduler.
type SuggestionRefresher interface {
	RefreshForForecast(ctx context.Context, f *model.Forecast) error
}

// AdjustmentService is the manual adjustment ledger: append-only entries,
// audited revert, and the fold that turns automatic into effective demand.
type AdjustmentService interface {
	Add(ctx context.Context, forecastID, actorID uuid.UUID, req dto.AddAdjustmentRequest) (*dto.AdjustmentResponse, error)
	Revert(ctx context.Context, adjustmentID, actorID uuid.UUID, req dto.RevertAdjustmentRequest) (*dto.AdjustmentResponse, error)
	// Recompute re-derives effective quantity and refreshes the open
	// suggestion. Safe to run any number of times from the same state.
	Recompute(ctx context.Context, forecastID uuid.UUID) error
}

type adjustmentService struct {
	forecasts   repository.ForecastRepository
	adjustments repository.AdjustmentRepository
	refresher   SuggestionRefresher
	queue       RecomputeQueue
	locks       *keyedMutex
}

func NewAdjustmentService(
	forecasts repository.ForecastRepository,
	adjustments repository.AdjustmentRepository,
	refresher SuggestionRefresher,
	queue RecomputeQueue,
) AdjustmentService {
	return &adjustmentService{
		forecasts:   forecasts,
		adjustments: adjustments,
		refresher:   refresher,
		queue:       queue,
		locks:       newKeyedMutex(),
	}
}

func (s *adjustmentService) Add(ctx context.Context, forecastID, actorID uuid.UUID, req dto.AddAdjustmentRequest) (*dto.AdjustmentResponse, error) {
	if len(req.Reason) < model.MinReasonLength {
		return nil, newValidationError("reason", fmt.Sprintf("must be at least %d characters", model.MinReasonLength))
	}

	validFrom, err := parseDatePtr(req.ValidFrom)
	if err != nil {
		return nil, newValidationError("valid_from", "must be YYYY-MM-DD")
	}
	validUntil, err := parseDatePtr(req.ValidUntil)
	if err != nil {
		return nil, newValidationError("valid_until", "must be YYYY-MM-DD")
	}
	if validFrom != nil && validUntil != nil && validFrom.After(*validUntil) {
		return nil, newValidationError("valid_from", "must not be after valid_until")
	}

	unlock := s.locks.Lock(forecastID)
	defer unlock()

	f, err := s.forecasts.FindByID(ctx, forecastID)
	if err != nil {
		return nil, fmt.Errorf("%w: forecast %s", ErrNotFound, forecastID)
	}

	adj := &model.ManualAdjustment{
		ForecastID: forecastID,
		Kind:       req.Kind,
		Value:      req.Value,
		Reason:     req.Reason,
		ValidFrom:  validFrom,
		ValidUntil: validUntil,
		IsActive:   true,
		CreatedBy:  actorID,
		CreatedAt:  time.Now(),
	}
	if err := s.adjustments.Create(ctx, adj); err != nil {
		return nil, fmt.Errorf("create adjustment: %w", err)
	}

	if err := s.recomputeLocked(ctx, f); err != nil {
		return nil, err
	}
	s.enqueueRecompute(ctx, forecastID)

	resp := adjustmentToResponse(adj)
	return &resp, nil
}

func (s *adjustmentService) Revert(ctx context.Context, adjustmentID, actorID uuid.UUID, req dto.RevertAdjustmentRequest) (*dto.AdjustmentResponse, error) {
	if len(req.Reason) < model.MinReasonLength {
		return nil, newValidationError("reason", fmt.Sprintf("must be at least %d characters", model.MinReasonLength))
	}

	adj, err := s.adjustments.FindByID(ctx, adjustmentID)
	if err != nil {
		return nil, fmt.Errorf("%w: adjustment %s", ErrNotFound, adjustmentID)
	}
	if !adj.IsActive {
		return nil, fmt.Errorf("%w: adjustment already reverted", ErrInvalidState)
	}

	unlock := s.locks.Lock(adj.ForecastID)
	defer unlock()

	f, err := s.forecasts.FindByID(ctx, adj.ForecastID)
	if err != nil {
		return nil, fmt.Errorf("%w: forecast %s", ErrNotFound, adj.ForecastID)
	}

	now := time.Now()
	adj.IsActive = false
	adj.RevertedAt = &now
	adj.RevertedBy = &actorID
	adj.RevertReason = &req.Reason
	if err := s.adjustments.MarkReverted(ctx, adj); err != nil {
		return nil, fmt.Errorf("revert adjustment: %w", err)
	}

	if err := s.recomputeLocked(ctx, f); err != nil {
		return nil, err
	}
	s.enqueueRecompute(ctx, adj.ForecastID)

	resp := adjustmentToResponse(adj)
	return &resp, nil
}

func (s *adjustmentService) Recompute(ctx context.Context, forecastID uuid.UUID) error {
	unlock := s.locks.Lock(forecastID)
	defer unlock()

	f, err := s.forecasts.FindByID(ctx, forecastID)
	if err != nil {
		return fmt.Errorf("%w: forecast %s", ErrNotFound, forecastID)
	}
	if err := s.recomputeLocked(ctx, f); err != nil {
		return err
	}

	if s.refresher != nil {
		if err := s.refresher.RefreshForForecast(ctx, f); err != nil {
			return fmt.Errorf("refresh suggestion: %w", err)
		}
	}
	return nil
}

// recomputeLocked folds the active ledger and writes the derived fields.
// Caller must hold the forecast's lock. The forecast struct is updated in
// place so follow-up steps see the fresh effective quantity.
func (s *adjustmentService) recomputeLocked(ctx context.Context, f *model.Forecast) error {
	active, err := s.adjustments.ListActiveByForecast(ctx, f.ID)
	if err != nil {
		return fmt.Errorf("list active adjustments: %w", err)
	}

	f.EffectiveQuantity = foldAdjustments(f.AutomaticQuantity, active, f.TargetDate)
	f.HasManualAdjustment = len(active) > 0

	if err := s.forecasts.UpdateDerived(ctx, f.ID, f.EffectiveQuantity, f.HasManualAdjustment); err != nil {
		return fmt.Errorf("update forecast: %w", err)
	}
	return nil
}

func (s *adjustmentService) enqueueRecompute(ctx context.Context, forecastID uuid.UUID) {
	if s.queue == nil {
		return
	}
	if err := s.queue.EnqueueRecompute(ctx, forecastID); err != nil {
		// The inline recompute already ran; the queue only refreshes the
		// suggestion. Log and move on rather than failing the request.
		log.Error().Err(err).Str("forecast_id", forecastID.String()).
			Msg("adjustment: failed to enqueue recompute job")
	}
}

func parseDatePtr(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
