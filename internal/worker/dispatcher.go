package worker

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	QueueRecompute = "jobs:recompute"
	QueueNotify    = "jobs:notify"

	// MaxJobAttempts before a job moves to the DLQ.
	MaxJobAttempts = 3
)

// Job is the generic envelope for all async tasks. IdempotencyKey lets
// handlers dedupe under at-least-once delivery; for recompute jobs it is the
// forecast id and the handler itself is idempotent.
type Job struct {
	Type           string          `json:"type"`
	Payload        json.RawMessage `json:"payload"`
	IdempotencyKey string          `json:"idempotency_key"`
	Attempts       int             `json:"attempts"`
}

// RecomputeJobPayload asks for a forecast's derived fields and open
// suggestion to be re-derived.
type RecomputeJobPayload struct {
	ForecastID string `json:"forecast_id"`
}

// NotifyJobPayload is an ops notification email.
type NotifyJobPayload struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueRecompute pushes a forecast recompute job. Implements the
// service-side RecomputeQueue port.
func (d *Dispatcher) EnqueueRecompute(ctx context.Context, forecastID uuid.UUID) error {
	return d.enqueue(ctx, QueueRecompute, "recompute", forecastID.String(),
		RecomputeJobPayload{ForecastID: forecastID.String()})
}

// EnqueueNotification pushes an ops email job. Implements the service-side
// NotifyQueue port.
func (d *Dispatcher) EnqueueNotification(ctx context.Context, subject, body string) error {
	return d.enqueue(ctx, QueueNotify, "notify", "",
		NotifyJobPayload{Subject: subject, Body: body})
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType, idempotencyKey string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data, IdempotencyKey: idempotencyKey}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}
