package worker

// notify_worker.go
// Processes ops notification jobs from QueueNotify via SMTP.

import (
	"context"
	"encoding/json"

	"sproutplan/internal/infra"

	"github.com/rs/zerolog/log"
)

type NotifyWorker struct {
	mailer *infra.Mailer
}

func NewNotifyWorker(mailer *infra.Mailer) *NotifyWorker {
	return &NotifyWorker{mailer: mailer}
}

func (w *NotifyWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload NotifyJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("notify_worker: invalid payload")
		return nil
	}

	if err := w.mailer.SendNotification(payload.Subject, payload.Body); err != nil {
		log.Error().Err(err).Str("subject", payload.Subject).Msg("notify_worker: failed to send email")
		return err
	}
	log.Info().Str("subject", payload.Subject).Msg("notify_worker: notification sent")
	return nil
}
