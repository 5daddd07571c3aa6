package service

import (
	"context"
	"fmt"
	"strings"

	"rutaventas/internal/apierror"
	"rutaventas/internal/dto"
	"rutaventas/internal/model"
	"rutaventas/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DevolucionService interface {
	// RegistrarDevolucion puts returned goods back on the seller's active load.
	// A line can never have more returned than it has sold.
	RegistrarDevolucion(ctx context.Context, vendedorID uuid.UUID, req dto.RegistrarDevolucionRequest) (*dto.DevolucionResponse, error)
	ResumenDevoluciones(ctx context.Context, filter dto.ResumenFilter) ([]dto.ResumenDevolucionItem, error)
}

type devolucionService struct {
	repo     repository.DevolucionRepository
	cargas   repository.CargaRepository
	usuarios repository.UsuarioRepository
	clientes repository.ClienteRepository
	tx       repository.Transactor
}

func NewDevolucionService(
	repo repository.DevolucionRepository,
	cargas repository.CargaRepository,
	usuarios repository.UsuarioRepository,
	clientes repository.ClienteRepository,
	tx repository.Transactor,
) DevolucionService {
	return &devolucionService{repo: repo, cargas: cargas, usuarios: usuarios, clientes: clientes, tx: tx}
}

func (s *devolucionService) RegistrarDevolucion(ctx context.Context, vendedorID uuid.UUID, req dto.RegistrarDevolucionRequest) (*dto.DevolucionResponse, error) {
	motivo := strings.TrimSpace(req.Motivo)
	if motivo == "" {
		return nil, apierror.Validation("motivo es obligatorio")
	}
	sols, err := parseLineas(req.Productos)
	if err != nil {
		return nil, err
	}

	var clienteID *uuid.UUID
	if req.ClienteID != nil && strings.TrimSpace(*req.ClienteID) != "" {
		id, err := parseID("clienteId", *req.ClienteID)
		if err != nil {
			return nil, err
		}
		if _, err := s.clientes.FindByID(ctx, id); err != nil {
			if isNotFound(err) {
				return nil, apierror.NotFound("Cliente no encontrado")
			}
			return nil, storeErr("registrar devolucion", err)
		}
		clienteID = &id
	}

	var dev *model.Devolucion
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

		dev = &model.Devolucion{
			VendedorID: vendedor.ID,
			CargaID:    carga.ID,
			ClienteID:  clienteID,
			Motivo:     motivo,
		}
		for _, r := range lineas {
			devolvible := r.linea.CantidadVendida.Sub(r.linea.CantidadDevuelta)
			if r.cantidad.GreaterThan(devolvible) {
				return apierror.Conflict(fmt.Sprintf(
					"no se puede devolver %s de %s: solo %s vendido sin devolver",
					r.cantidad, r.linea.NombreProducto, devolvible))
			}
			dev.Detalles = append(dev.Detalles, model.DevolucionDetalle{
				ProductoID:     *r.linea.ProductoID,
				NombreProducto: r.linea.NombreProducto,
				Cantidad:       r.cantidad,
			})
		}

		if err := s.repo.CreateTx(tx, dev); err != nil {
			return err
		}
		for _, r := range lineas {
			if err := s.cargas.IncrementarDevueltaTx(tx, r.linea.ID, r.cantidad); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, passthrough("registrar devolucion", err)
	}
	return devolucionToResponse(dev), nil
}

func (s *devolucionService) ResumenDevoluciones(ctx context.Context, filter dto.ResumenFilter) ([]dto.ResumenDevolucionItem, error) {
	if filter.Desde != "" && filter.Hasta != "" && filter.Desde > filter.Hasta {
		return nil, apierror.Validation("desde no puede ser posterior a hasta")
	}
	items, err := s.repo.Resumen(ctx, filter)
	if err != nil {
		return nil, storeErr("resumen devoluciones", err)
	}
	if items == nil {
		items = []dto.ResumenDevolucionItem{}
	}
	return items, nil
}

func devolucionToResponse(d *model.Devolucion) *dto.DevolucionResponse {
	resp := &dto.DevolucionResponse{
		ID:        d.ID.String(),
		CargaID:   d.CargaID.String(),
		Motivo:    d.Motivo,
		Detalles:  make([]dto.VentaDetalleResponse, len(d.Detalles)),
		CreatedAt: d.CreatedAt.Format(timeLayout),
	}
	for i, det := range d.Detalles {
		resp.Detalles[i] = dto.VentaDetalleResponse{
			ProductoID: det.ProductoID.String(),
			Nombre:     det.NombreProducto,
			Cantidad:   det.Cantidad,
		}
	}
	return resp
}
