package service

import (
	"context"
	"strings"

	"rutaventas/internal/apierror"
	"rutaventas/internal/dto"
	"rutaventas/internal/model"
	"rutaventas/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CamionService interface {
	Crear(ctx context.Context, req dto.CrearCamionRequest) (*dto.CamionResponse, error)
	Listar(ctx context.Context) ([]dto.CamionResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarCamionRequest) (*dto.CamionResponse, error)
	// AsignarCamion moves the truck to vendedorID, unassigning it from whoever
	// held it, in one transaction.
	AsignarCamion(ctx context.Context, camionID, vendedorID uuid.UUID) (*dto.UsuarioResponse, error)
}

type camionService struct {
	repo     repository.CamionRepository
	usuarios repository.UsuarioRepository
	tx       repository.Transactor
}

func NewCamionService(repo repository.CamionRepository, usuarios repository.UsuarioRepository, tx repository.Transactor) CamionService {
	return &camionService{repo: repo, usuarios: usuarios, tx: tx}
}

func (s *camionService) Crear(ctx context.Context, req dto.CrearCamionRequest) (*dto.CamionResponse, error) {
	c := &model.Camion{
		Placa:       strings.ToUpper(strings.TrimSpace(req.Placa)),
		Descripcion: req.Descripcion,
		Activo:      true,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		if isUniqueViolation(err) {
			return nil, apierror.Conflict("ya existe un camion con placa " + c.Placa)
		}
		return nil, storeErr("crear camion", err)
	}
	resp := camionToResponse(c)
	return &resp, nil
}

func (s *camionService) Listar(ctx context.Context) ([]dto.CamionResponse, error) {
	camiones, err := s.repo.List(ctx)
	if err != nil {
		return nil, storeErr("listar camiones", err)
	}
	resp := make([]dto.CamionResponse, len(camiones))
	for i := range camiones {
		resp[i] = camionToResponse(&camiones[i])
	}
	return resp, nil
}

func (s *camionService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarCamionRequest) (*dto.CamionResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, apierror.NotFound("camion no encontrado")
		}
		return nil, storeErr("actualizar camion", err)
	}
	if req.Placa != nil {
		c.Placa = strings.ToUpper(strings.TrimSpace(*req.Placa))
	}
	if req.Descripcion != nil {
		c.Descripcion = req.Descripcion
	}
	if req.Activo != nil {
		c.Activo = *req.Activo
	}
	if err := s.repo.Update(ctx, c); err != nil {
		if isUniqueViolation(err) {
			return nil, apierror.Conflict("ya existe un camion con placa " + c.Placa)
		}
		return nil, storeErr("actualizar camion", err)
	}
	resp := camionToResponse(c)
	return &resp, nil
}

func (s *camionService) AsignarCamion(ctx context.Context, camionID, vendedorID uuid.UUID) (*dto.UsuarioResponse, error) {
	var vendedor *model.Usuario
	err := s.tx.WithinTx(ctx, func(tx *gorm.DB) error {
		camion, err := s.repo.FindByIDForUpdateTx(tx, camionID)
		if err != nil {
			if isNotFound(err) {
				return apierror.NotFound("camion no encontrado")
			}
			return err
		}
		if !camion.Activo {
			return apierror.Conflict("el camion " + camion.Placa + " esta inactivo")
		}

		vendedor, err = requireVendedor(s.usuarios.FindByIDForUpdateTx(tx, vendedorID))
		if err != nil {
			return err
		}

		holders, err := s.usuarios.FindByCamionTx(tx, camionID)
		if err != nil {
			return err
		}
		for _, h := range holders {
			if h.ID == vendedorID {
				continue
			}
			if err := s.usuarios.SetCamionTx(tx, h.ID, nil); err != nil {
				return err
			}
		}

		if err := s.usuarios.SetCamionTx(tx, vendedorID, &camionID); err != nil {
			return err
		}
		vendedor.CamionID = &camionID
		return nil
	})
	if err != nil {
		return nil, passthrough("asignar camion", err)
	}
	resp := usuarioToResponse(vendedor)
	return &resp, nil
}

func camionToResponse(c *model.Camion) dto.CamionResponse {
	return dto.CamionResponse{
		ID:          c.ID.String(),
		Placa:       c.Placa,
		Descripcion: c.Descripcion,
		Activo:      c.Activo,
	}
}
