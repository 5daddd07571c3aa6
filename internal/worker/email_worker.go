package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"rutaventas/internal/infra"

	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	PDFPath string `json:"pdf_path"`
}

// ReceiptSender delivers a receipt email; *infra.Mailer implements it.
type ReceiptSender interface {
	SendComprobante(to, subject, body, pdfPath string) error
}

// EmailWorker sends receipt emails through a circuit breaker so a dead SMTP
// relay fails fast instead of tying up every worker.
type EmailWorker struct {
	sender  ReceiptSender
	breaker *infra.CircuitBreaker
}

func NewEmailWorker(sender ReceiptSender, breaker *infra.CircuitBreaker) *EmailWorker {
	return &EmailWorker{sender: sender, breaker: breaker}
}

func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		// Retrying cannot fix a malformed payload.
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return nil
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email, skipping")
		return nil
	}

	err := w.breaker.Execute(func() error {
		return w.sender.SendComprobante(payload.ToEmail, payload.Subject, payload.Body, payload.PDFPath)
	})
	if err != nil {
		if errors.Is(err, infra.ErrCircuitOpen) {
			return fmt.Errorf("email_worker: smtp unavailable: %w", err)
		}
		return fmt.Errorf("email_worker: send to %s: %w", payload.ToEmail, err)
	}
	log.Info().Str("to", payload.ToEmail).Msg("email_worker: comprobante sent")
	return nil
}
