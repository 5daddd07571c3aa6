package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"rutaventas/internal/infra"
	"rutaventas/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ComprobanteJobPayload asks for the receipt of one public sale. Correo, when
// set, gets the PDF by email.
type ComprobanteJobPayload struct {
	VentaID string `json:"venta_id"`
	Correo  string `json:"correo,omitempty"`
}

type emailEnqueuer interface {
	EnqueueEmail(ctx context.Context, payload EmailJobPayload) error
}

// ComprobanteWorker renders the receipt PDF of a public sale.
type ComprobanteWorker struct {
	ventas      repository.VentaPublicoRepository
	usuarios    repository.UsuarioRepository
	emails      emailEnqueuer
	storagePath string
}

func NewComprobanteWorker(
	ventas repository.VentaPublicoRepository,
	usuarios repository.UsuarioRepository,
	emails emailEnqueuer,
	storagePath string,
) *ComprobanteWorker {
	return &ComprobanteWorker{ventas: ventas, usuarios: usuarios, emails: emails, storagePath: storagePath}
}

func (w *ComprobanteWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ComprobanteJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("comprobante_worker: invalid payload")
		return nil
	}
	ventaID, err := uuid.Parse(payload.VentaID)
	if err != nil {
		log.Error().Str("venta_id", payload.VentaID).Msg("comprobante_worker: invalid venta_id")
		return nil
	}

	venta, err := w.ventas.FindByID(ctx, ventaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error().Str("venta_id", payload.VentaID).Msg("comprobante_worker: venta not found")
			return nil
		}
		return fmt.Errorf("comprobante_worker: load venta: %w", err)
	}

	vendedor := venta.VendedorID.String()
	if u, err := w.usuarios.FindByID(ctx, venta.VendedorID); err == nil {
		vendedor = u.Nombre
	}

	path, err := infra.GenerateVentaPublicoPDF(venta, vendedor, w.storagePath)
	if err != nil {
		return err
	}
	log.Info().Str("venta_id", payload.VentaID).Str("path", path).Msg("comprobante_worker: pdf generated")

	if payload.Correo == "" || w.emails == nil {
		return nil
	}
	return w.emails.EnqueueEmail(ctx, EmailJobPayload{
		ToEmail: payload.Correo,
		Subject: "Comprobante de su compra",
		Body:    fmt.Sprintf("Adjuntamos el comprobante de su compra por $%s.", venta.Total.StringFixed(2)),
		PDFPath: path,
	})
}
