package service

import (
	"context"
	"strings"

	"rutaventas/internal/apierror"
	"rutaventas/internal/dto"
	"rutaventas/internal/model"
	"rutaventas/internal/notify"
	"rutaventas/internal/repository"
	"rutaventas/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ComprobanteEnqueuer schedules the receipt job of a committed sale.
type ComprobanteEnqueuer interface {
	EnqueueComprobante(ctx context.Context, p worker.ComprobanteJobPayload) error
}

type VentaPublicoService interface {
	// VenderPublico commits a walk-in sale against the seller's active load.
	// Either every line is served or nothing is written.
	VenderPublico(ctx context.Context, vendedorID uuid.UUID, req dto.VenderPublicoRequest) (*dto.VentaPublicoResponse, error)
	ListarVentas(ctx context.Context, vendedorID uuid.UUID, filter dto.VentaFilter) ([]dto.VentaListItem, error)
}

type ventaPublicoService struct {
	repo     repository.VentaPublicoRepository
	cargas   repository.CargaRepository
	usuarios repository.UsuarioRepository
	tx       repository.Transactor
	notifier notify.Publisher
	jobs     ComprobanteEnqueuer
}

func NewVentaPublicoService(
	repo repository.VentaPublicoRepository,
	cargas repository.CargaRepository,
	usuarios repository.UsuarioRepository,
	tx repository.Transactor,
	notifier notify.Publisher,
	jobs ComprobanteEnqueuer,
) VentaPublicoService {
	return &ventaPublicoService{repo: repo, cargas: cargas, usuarios: usuarios, tx: tx, notifier: notifier, jobs: jobs}
}

func (s *ventaPublicoService) VenderPublico(ctx context.Context, vendedorID uuid.UUID, req dto.VenderPublicoRequest) (*dto.VentaPublicoResponse, error) {
	metodo := strings.ToLower(strings.TrimSpace(req.TipoPago))
	if metodo != model.MetodoEfectivo && metodo != model.MetodoTransferencia {
		return nil, apierror.Validation("tipoPago debe ser efectivo o transferencia")
	}
	sols, err := parseLineas(req.Productos)
	if err != nil {
		return nil, err
	}

	var venta *model.VentaPublico
	err = s.tx.WithinTx(ctx, func(tx *gorm.DB) error {
		vendedor, err := requireVendedor(s.usuarios.FindByIDTx(tx, vendedorID))
		if err != nil {
			return err
		}
		if vendedor.CargaActivaID == nil {
			return apierror.NoActiveLoad("el vendedor no tiene carga activa")
		}

		carga, err := s.cargas.FindByIDLockedTx(tx, *vendedor.CargaActivaID, repository.LockShare)
		if err != nil {
			if isNotFound(err) {
				return apierror.NoActiveLoad("el vendedor no tiene carga activa")
			}
			return err
		}
		if carga.Procesada {
			return apierror.NoActiveLoad("la carga del vendedor ya fue procesada")
		}

		locked, err := s.cargas.LockLineasTx(tx, carga.ID, filtroLineas(sols))
		if err != nil {
			return err
		}
		lineas, err := resolverLineas(locked, sols)
		if err != nil {
			return err
		}

		venta = &model.VentaPublico{
			VendedorID: vendedor.ID,
			CargaID:    carga.ID,
			MetodoPago: metodo,
			Latitud:    req.Latitud,
			Longitud:   req.Longitud,
			Total:      decimal.Zero,
		}
		for _, r := range lineas {
			disponible := r.linea.Disponible()
			if r.cantidad.GreaterThan(disponible) {
				return apierror.InsufficientStock(
					"stock insuficiente para "+r.linea.NombreProducto,
					dto.StockInsuficiente{
						ProductoID: r.linea.ProductoID.String(),
						Nombre:     r.linea.NombreProducto,
						Solicitado: r.cantidad,
						Disponible: disponible,
					},
				)
			}
			subtotal := r.cantidad.Mul(r.linea.PrecioUnitario).Round(2)
			venta.Total = venta.Total.Add(subtotal)
			venta.Detalles = append(venta.Detalles, model.VentaPublicoDetalle{
				ProductoID:     *r.linea.ProductoID,
				NombreProducto: r.linea.NombreProducto,
				Cantidad:       r.cantidad,
				PrecioUnitario: r.linea.PrecioUnitario,
				Subtotal:       subtotal,
			})
		}

		if err := s.repo.CreateTx(tx, venta); err != nil {
			return err
		}
		for _, r := range lineas {
			if err := s.cargas.IncrementarVendidaTx(tx, r.linea.ID, r.cantidad); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, passthrough("vender publico", err)
	}

	s.afterCommit(ctx, venta, req.Correo)

	return &dto.VentaPublicoResponse{
		VentaID:    venta.ID.String(),
		Total:      venta.Total,
		MetodoPago: venta.MetodoPago,
	}, nil
}

// afterCommit runs the best-effort side effects of a sale. Failures are logged
// and never surface to the seller: the sale is already durable.
func (s *ventaPublicoService) afterCommit(ctx context.Context, v *model.VentaPublico, correo *string) {
	logger := log.With().Str("venta_id", v.ID.String()).Str("vendedor_id", v.VendedorID.String()).Logger()

	if s.notifier != nil {
		data := map[string]interface{}{
			"ventaId": v.ID.String(),
			"cargaId": v.CargaID.String(),
			"total":   v.Total,
		}
		if err := s.notifier.Publish(ctx, v.VendedorID, notify.EventVentaPublicoCreada, data); err != nil {
			logger.Warn().Err(err).Msg("notify venta_publico.creada failed")
		}
	}

	if s.jobs != nil {
		payload := worker.ComprobanteJobPayload{VentaID: v.ID.String()}
		if correo != nil {
			payload.Correo = strings.TrimSpace(*correo)
		}
		if err := s.jobs.EnqueueComprobante(ctx, payload); err != nil {
			logger.Error().Err(err).Msg("enqueue comprobante failed")
		}
	}
}

func (s *ventaPublicoService) ListarVentas(ctx context.Context, vendedorID uuid.UUID, filter dto.VentaFilter) ([]dto.VentaListItem, error) {
	ventas, err := s.repo.ListByVendedor(ctx, vendedorID, filter.Fecha)
	if err != nil {
		return nil, storeErr("listar ventas", err)
	}
	out := make([]dto.VentaListItem, len(ventas))
	for i := range ventas {
		out[i] = ventaToListItem(&ventas[i])
	}
	return out, nil
}

func ventaToListItem(v *model.VentaPublico) dto.VentaListItem {
	item := dto.VentaListItem{
		ID:         v.ID.String(),
		CargaID:    v.CargaID.String(),
		Total:      v.Total,
		MetodoPago: v.MetodoPago,
		Latitud:    v.Latitud,
		Longitud:   v.Longitud,
		Detalles:   make([]dto.VentaDetalleResponse, len(v.Detalles)),
		CreatedAt:  v.CreatedAt.Format(timeLayout),
	}
	for i, d := range v.Detalles {
		item.Detalles[i] = dto.VentaDetalleResponse{
			ProductoID:     d.ProductoID.String(),
			Nombre:         d.NombreProducto,
			Cantidad:       d.Cantidad,
			PrecioUnitario: d.PrecioUnitario,
			Subtotal:       d.Subtotal,
		}
	}
	return item
}
