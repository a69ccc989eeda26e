package worker

// alert_worker.go
// Processes low stock alert jobs from QueueStockAlerts and notifies the
// configured recipient by email. The SMTP relay sits behind a circuit
// breaker so a dead mail server fails fast instead of blocking the pool.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/kyler004/inventory-system/internal/infra"
)

type AlertWorker struct {
	mailer    *infra.Mailer
	cb        *infra.CircuitBreaker
	recipient string
}

func NewAlertWorker(mailer *infra.Mailer, cb *infra.CircuitBreaker, recipient string) *AlertWorker {
	return &AlertWorker{mailer: mailer, cb: cb, recipient: recipient}
}

func (w *AlertWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload StockAlertPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		// Malformed payloads never succeed on retry; drop with a log.
		log.Error().Err(err).Msg("alert_worker: invalid payload")
		return nil
	}
	if w.recipient == "" {
		log.Warn().Msg("alert_worker: no recipient configured, skipping")
		return nil
	}

	subject := fmt.Sprintf("Low stock: %s (%s)", payload.Name, payload.SKU)
	body := fmt.Sprintf(
		"Product %s (%s) is at %d units, at or below its minimum of %d.\nProduct ID: %s\n",
		payload.Name, payload.SKU, payload.CurrentStock, payload.MinimumStock, payload.ProductID,
	)

	err := w.cb.Execute(func() error {
		return w.mailer.Send(w.recipient, subject, body)
	})
	if err != nil {
		return fmt.Errorf("alert_worker: send: %w", err)
	}

	log.Info().Str("sku", payload.SKU).Int("stock", payload.CurrentStock).Msg("alert_worker: low stock alert sent")
	return nil
}
