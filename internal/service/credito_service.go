package service

import (
	"context"
	"strings"

	"rutaventas/internal/apierror"
	"rutaventas/internal/dto"
	"rutaventas/internal/model"
	"rutaventas/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreditoService settles client credit. Every writer locks the client row
// first, so the client's balance cannot move between the check and the write.
type CreditoService interface {
	CrearCredito(ctx context.Context, clienteID uuid.UUID, req dto.CrearCreditoRequest) (*dto.CreditoResponse, error)
	PagarCredito(ctx context.Context, clienteID uuid.UUID, req dto.PagarCreditoRequest) (*dto.PagarCreditoResponse, error)
	ListarPagos(ctx context.Context, creditoID uuid.UUID) ([]dto.PagoResponse, error)
}

type creditoService struct {
	repo     repository.CreditoRepository
	clientes repository.ClienteRepository
	ventas   repository.VentaPublicoRepository
	tx       repository.Transactor
}

func NewCreditoService(
	repo repository.CreditoRepository,
	clientes repository.ClienteRepository,
	ventas repository.VentaPublicoRepository,
	tx repository.Transactor,
) CreditoService {
	return &creditoService{repo: repo, clientes: clientes, ventas: ventas, tx: tx}
}

func validarMonto(monto decimal.Decimal) error {
	if !monto.IsPositive() {
		return apierror.Validation("monto debe ser mayor a 0")
	}
	if !monto.Equal(monto.Round(2)) {
		return apierror.Validation("monto admite como maximo 2 decimales")
	}
	return nil
}

func (s *creditoService) CrearCredito(ctx context.Context, clienteID uuid.UUID, req dto.CrearCreditoRequest) (*dto.CreditoResponse, error) {
	if err := validarMonto(req.Monto); err != nil {
		return nil, err
	}
	var ventaID *uuid.UUID
	if req.VentaID != nil && strings.TrimSpace(*req.VentaID) != "" {
		id, err := parseID("venta_id", *req.VentaID)
		if err != nil {
			return nil, err
		}
		if _, err := s.ventas.FindByID(ctx, id); err != nil {
			if isNotFound(err) {
				return nil, apierror.NotFound("Venta no encontrada")
			}
			return nil, storeErr("crear credito", err)
		}
		ventaID = &id
	}

	credito := &model.Credito{
		ClienteID:   clienteID,
		VentaID:     ventaID,
		Monto:       req.Monto,
		Descripcion: strings.TrimSpace(req.Descripcion),
		Estado:      model.CreditoPendiente,
	}
	err := s.tx.WithinTx(ctx, func(tx *gorm.DB) error {
		cliente, err := s.clientes.FindByIDForUpdateTx(tx, clienteID)
		if err != nil {
			if isNotFound(err) {
				return apierror.NotFound("Cliente no encontrado")
			}
			return err
		}
		if !cliente.Activo {
			return apierror.Conflict("el cliente esta inactivo")
		}
		if cliente.LimiteCredito.IsPositive() {
			saldo, err := s.repo.SaldoClienteTx(tx, clienteID)
			if err != nil {
				return err
			}
			if saldo.Add(req.Monto).GreaterThan(cliente.LimiteCredito) {
				return apierror.Conflict("el credito excede el limite del cliente: saldo " +
					saldo.StringFixed(2) + ", limite " + cliente.LimiteCredito.StringFixed(2))
			}
		}
		return s.repo.CreateTx(tx, credito)
	})
	if err != nil {
		return nil, passthrough("crear credito", err)
	}
	resp := creditoToResponse(credito)
	return &resp, nil
}

func (s *creditoService) PagarCredito(ctx context.Context, clienteID uuid.UUID, req dto.PagarCreditoRequest) (*dto.PagarCreditoResponse, error) {
	if err := validarMonto(req.Monto); err != nil {
		return nil, err
	}
	creditoID, err := parseID("id_credito", req.IDCredito)
	if err != nil {
		return nil, err
	}
	tipo := strings.ToLower(strings.TrimSpace(req.TipoPago))
	switch tipo {
	case model.MetodoEfectivo, model.MetodoTransferencia, model.MetodoDeposito:
	default:
		return nil, apierror.Validation("tipo_pago invalido")
	}

	var resp *dto.PagarCreditoResponse
	err = s.tx.WithinTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.clientes.FindByIDForUpdateTx(tx, clienteID); err != nil {
			if isNotFound(err) {
				return apierror.NotFound("Cliente no encontrado")
			}
			return err
		}
		credito, err := s.repo.FindByIDForUpdateTx(tx, creditoID)
		if err != nil {
			if isNotFound(err) {
				return apierror.NotFound("Credito no encontrado")
			}
			return err
		}
		if credito.ClienteID != clienteID {
			return apierror.NotFound("Credito no encontrado")
		}

		pagado, err := s.repo.PagadoTx(tx, creditoID)
		if err != nil {
			return err
		}
		saldo, err := s.repo.SaldoClienteTx(tx, clienteID)
		if err != nil {
			return err
		}
		antes := dto.SaldoSnapshot{
			PendienteCredito: decimal.Max(credito.Monto.Sub(pagado), decimal.Zero),
			SaldoCliente:     saldo,
		}
		if req.Monto.GreaterThan(antes.PendienteCredito) || req.Monto.GreaterThan(antes.SaldoCliente) {
			return apierror.Overpayment("el monto excede el saldo pendiente", antes)
		}

		pago := &model.PagoCredito{
			CreditoID:     creditoID,
			ClienteID:     clienteID,
			Monto:         req.Monto,
			TipoPago:      tipo,
			Referencia:    req.Referencia,
			Observaciones: req.Observaciones,
		}
		if err := s.repo.CreatePagoTx(tx, pago); err != nil {
			return err
		}

		despues := dto.SaldoSnapshot{
			PendienteCredito: antes.PendienteCredito.Sub(req.Monto),
			SaldoCliente:     antes.SaldoCliente.Sub(req.Monto),
		}
		if despues.PendienteCredito.IsZero() {
			if err := s.repo.UpdateEstadoTx(tx, creditoID, model.CreditoPagado); err != nil {
				return err
			}
		}
		resp = &dto.PagarCreditoResponse{Antes: antes, Despues: despues, Pago: pagoToResponse(pago)}
		return nil
	})
	if err != nil {
		return nil, passthrough("pagar credito", err)
	}
	return resp, nil
}

func (s *creditoService) ListarPagos(ctx context.Context, creditoID uuid.UUID) ([]dto.PagoResponse, error) {
	if _, err := s.repo.FindByID(ctx, creditoID); err != nil {
		if isNotFound(err) {
			return nil, apierror.NotFound("Credito no encontrado")
		}
		return nil, storeErr("listar pagos", err)
	}
	pagos, err := s.repo.ListPagos(ctx, creditoID)
	if err != nil {
		return nil, storeErr("listar pagos", err)
	}
	out := make([]dto.PagoResponse, len(pagos))
	for i := range pagos {
		out[i] = pagoToResponse(&pagos[i])
	}
	return out, nil
}

func creditoToResponse(c *model.Credito) dto.CreditoResponse {
	return dto.CreditoResponse{
		ID:          c.ID.String(),
		ClienteID:   c.ClienteID.String(),
		VentaID:     idPtrString(c.VentaID),
		Monto:       c.Monto,
		Descripcion: c.Descripcion,
		Estado:      c.Estado,
		CreatedAt:   c.CreatedAt.Format(timeLayout),
	}
}

func pagoToResponse(p *model.PagoCredito) dto.PagoResponse {
	return dto.PagoResponse{
		ID:            p.ID.String(),
		CreditoID:     p.CreditoID.String(),
		ClienteID:     p.ClienteID.String(),
		Monto:         p.Monto,
		TipoPago:      p.TipoPago,
		Referencia:    p.Referencia,
		Observaciones: p.Observaciones,
		CreatedAt:     p.CreatedAt.Format(timeLayout),
	}
}
