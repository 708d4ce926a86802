package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// JobHandler processes one job payload. A returned error means the job is
// retried (up to MaxJobAttempts) and then moved to the DLQ.
type JobHandler interface {
	Process(ctx context.Context, raw json.RawMessage) error
}

// WorkerHandlers groups the handlers per job type. Wired at the composition
// root so the pool has access to all infrastructure dependencies.
type WorkerHandlers struct {
	Recompute JobHandler
	Notify    JobHandler
}

// StartWorkerPool launches numWorkers goroutines consuming both queues.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, handlers, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, id int) {
	queues := []string{QueueRecompute, QueueNotify}
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, handlers, result[0], result[1])
		}
	}
}

func processJob(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}

	var handler JobHandler
	switch job.Type {
	case "recompute":
		handler = handlers.Recompute
	case "notify":
		handler = handlers.Notify
	default:
		log.Error().Str("type", job.Type).Str("queue", queue).Msg("unknown job type")
		return
	}

	err := handler.Process(ctx, job.Payload)
	if err == nil {
		return
	}

	job.Attempts++
	if job.Attempts >= MaxJobAttempts {
		SendToDLQ(ctx, rdb, queue, job.Type, job.Payload, err.Error(), job.Attempts)
		return
	}

	log.Warn().
		Err(err).
		Str("type", job.Type).
		Str("idempotency_key", job.IdempotencyKey).
		Int("attempts", job.Attempts).
		Msg("job failed, re-enqueueing")
	encoded, marshalErr := json.Marshal(job)
	if marshalErr != nil {
		log.Error().Err(marshalErr).Msg("failed to re-enqueue job")
		return
	}
	if pushErr := rdb.LPush(ctx, queue, encoded).Err(); pushErr != nil {
		log.Error().Err(pushErr).Msg("failed to re-enqueue job")
	}
}
