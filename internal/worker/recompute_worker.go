package worker

// recompute_worker.go
// Processes forecast recompute jobs from QueueRecompute: re-folds the active
// adjustment ledger and refreshes the open production suggestion. Delivery is
// at-least-once; the recompute itself is idempotent, so duplicates are cheap.

import (
	"context"
	"encoding/json"
	"errors"

	"sproutplan/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type RecomputeWorker struct {
	adjustments service.AdjustmentService
}

func NewRecomputeWorker(adjustments service.AdjustmentService) *RecomputeWorker {
	return &RecomputeWorker{adjustments: adjustments}
}

func (w *RecomputeWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload RecomputeJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("recompute_worker: invalid payload")
		return nil // malformed jobs are not retryable
	}

	forecastID, err := uuid.Parse(payload.ForecastID)
	if err != nil {
		log.Error().Str("forecast_id", payload.ForecastID).Msg("recompute_worker: invalid forecast_id")
		return nil
	}

	if err := w.adjustments.Recompute(ctx, forecastID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			// Forecasts are never deleted; a missing id is a stale or
			// foreign job, not a transient failure.
			log.Warn().Str("forecast_id", payload.ForecastID).Msg("recompute_worker: forecast not found, dropping job")
			return nil
		}
		return err
	}

	log.Info().Str("forecast_id", payload.ForecastID).Msg("recompute_worker: forecast recomputed")
	return nil
}
