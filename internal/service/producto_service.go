package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"rutaventas/internal/apierror"
	"rutaventas/internal/dto"
	"rutaventas/internal/model"
	"rutaventas/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	productosActivosKey = "productos:activos"
	productosCacheTTL   = 10 * time.Minute
)

type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	// ListarActivos serves the loader/seller catalog from Redis when possible.
	ListarActivos(ctx context.Context) ([]dto.ProductoResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	// Actualizar never touches load lines; they keep the price captured at
	// stage-in time.
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type productoService struct {
	repo repository.ProductoRepository
	rdb  *redis.Client // nil disables the cache
}

func NewProductoService(repo repository.ProductoRepository, rdb *redis.Client) ProductoService {
	return &productoService{repo: repo, rdb: rdb}
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	if !req.Precio.IsPositive() {
		return nil, apierror.Validation("precio debe ser mayor a 0")
	}
	p := &model.Producto{
		Nombre:    strings.TrimSpace(req.Nombre),
		Precio:    req.Precio.Round(2),
		Categoria: strings.TrimSpace(req.Categoria),
		Activo:    true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, storeErr("crear producto", err)
	}
	s.invalidate(ctx)
	resp := productoToResponse(p)
	return &resp, nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, storeErr("listar productos", err)
	}
	data := make([]dto.ProductoResponse, len(productos))
	for i := range productos {
		data[i] = productoToResponse(&productos[i])
	}
	pages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &dto.ProductoListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: pages,
	}, nil
}

func (s *productoService) ListarActivos(ctx context.Context) ([]dto.ProductoResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, productosActivosKey).Bytes(); err == nil {
			var resp []dto.ProductoResponse
			if json.Unmarshal(cached, &resp) == nil {
				return resp, nil
			}
		}
	}

	productos, err := s.repo.ListActivos(ctx)
	if err != nil {
		return nil, storeErr("listar productos activos", err)
	}
	resp := make([]dto.ProductoResponse, len(productos))
	for i := range productos {
		resp[i] = productoToResponse(&productos[i])
	}

	if s.rdb != nil {
		if b, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, productosActivosKey, b, productosCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("productos cache: set failed")
			}
		}
	}
	return resp, nil
}

func (s *productoService) Obtener(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, apierror.NotFound("producto no encontrado")
		}
		return nil, storeErr("obtener producto", err)
	}
	resp := productoToResponse(p)
	return &resp, nil
}

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, apierror.NotFound("producto no encontrado")
		}
		return nil, storeErr("actualizar producto", err)
	}
	if req.Nombre != nil {
		p.Nombre = strings.TrimSpace(*req.Nombre)
	}
	if req.Precio != nil {
		if !req.Precio.IsPositive() {
			return nil, apierror.Validation("precio debe ser mayor a 0")
		}
		p.Precio = req.Precio.Round(2)
	}
	if req.Categoria != nil {
		p.Categoria = strings.TrimSpace(*req.Categoria)
	}
	if req.Activo != nil {
		p.Activo = *req.Activo
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, storeErr("actualizar producto", err)
	}
	s.invalidate(ctx)
	resp := productoToResponse(p)
	return &resp, nil
}

func (s *productoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		if isNotFound(err) {
			return apierror.NotFound("producto no encontrado")
		}
		return storeErr("eliminar producto", err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *productoService) invalidate(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, productosActivosKey).Err(); err != nil {
		log.Warn().Err(err).Msg("productos cache: invalidate failed")
	}
}

func productoToResponse(p *model.Producto) dto.ProductoResponse {
	return dto.ProductoResponse{
		ID:        p.ID.String(),
		Nombre:    p.Nombre,
		Precio:    p.Precio,
		Categoria: p.Categoria,
		Activo:    p.Activo,
	}
}
