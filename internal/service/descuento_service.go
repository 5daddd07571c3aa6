package service

import (
	"context"
	"time"

	"rutaventas/internal/apierror"
	"rutaventas/internal/dto"
	"rutaventas/internal/model"
	"rutaventas/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var cien = decimal.NewFromInt(100)

type DescuentoService interface {
	// Crear rejects a window overlapping another active discount of the same
	// product with a Conflict.
	Crear(ctx context.Context, req dto.CrearDescuentoRequest) (*dto.DescuentoResponse, error)
	ListarVigentes(ctx context.Context, at time.Time) ([]dto.DescuentoResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type descuentoService struct {
	repo      repository.DescuentoRepository
	productos repository.ProductoRepository
	tx        repository.Transactor
}

func NewDescuentoService(repo repository.DescuentoRepository, productos repository.ProductoRepository, tx repository.Transactor) DescuentoService {
	return &descuentoService{repo: repo, productos: productos, tx: tx}
}

func (s *descuentoService) Crear(ctx context.Context, req dto.CrearDescuentoRequest) (*dto.DescuentoResponse, error) {
	productoID, err := parseID("producto_id", req.ProductoID)
	if err != nil {
		return nil, err
	}
	if !req.Porcentaje.IsPositive() || req.Porcentaje.GreaterThan(cien) {
		return nil, apierror.Validation("porcentaje debe estar entre 0 y 100")
	}
	if req.FechaFin.Before(req.FechaInicio) {
		return nil, apierror.Validation("fecha_fin anterior a fecha_inicio")
	}

	d := &model.Descuento{
		ProductoID:  productoID,
		Porcentaje:  req.Porcentaje.Round(2),
		FechaInicio: req.FechaInicio,
		FechaFin:    req.FechaFin,
		Activo:      true,
	}
	var producto *model.Producto
	err = s.tx.WithinTx(ctx, func(tx *gorm.DB) error {
		// The product row lock serializes concurrent window checks.
		producto, err = s.productos.FindByIDForUpdateTx(tx, productoID)
		if err != nil {
			if isNotFound(err) {
				return apierror.NotFound("producto no encontrado")
			}
			return err
		}
		existentes, err := s.repo.FindActivosByProductoTx(tx, productoID)
		if err != nil {
			return err
		}
		for _, e := range existentes {
			if e.Solapa(d.FechaInicio, d.FechaFin) {
				return apierror.Conflict("el producto ya tiene un descuento activo en ese periodo")
			}
		}
		return s.repo.CreateTx(tx, d)
	})
	if err != nil {
		return nil, passthrough("crear descuento", err)
	}
	d.Producto = producto
	resp := descuentoToResponse(d)
	return &resp, nil
}

func (s *descuentoService) ListarVigentes(ctx context.Context, at time.Time) ([]dto.DescuentoResponse, error) {
	ds, err := s.repo.ListVigentes(ctx, at)
	if err != nil {
		return nil, storeErr("listar descuentos", err)
	}
	resp := make([]dto.DescuentoResponse, len(ds))
	for i := range ds {
		resp[i] = descuentoToResponse(&ds[i])
	}
	return resp, nil
}

func (s *descuentoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Desactivar(ctx, id); err != nil {
		if isNotFound(err) {
			return apierror.NotFound("descuento no encontrado")
		}
		return storeErr("desactivar descuento", err)
	}
	return nil
}

func descuentoToResponse(d *model.Descuento) dto.DescuentoResponse {
	resp := dto.DescuentoResponse{
		ID:          d.ID.String(),
		ProductoID:  d.ProductoID.String(),
		Porcentaje:  d.Porcentaje,
		FechaInicio: d.FechaInicio.Format(timeLayout),
		FechaFin:    d.FechaFin.Format(timeLayout),
		Activo:      d.Activo,
	}
	if d.Producto != nil {
		resp.NombreProducto = d.Producto.Nombre
	}
	return resp
}
