package service

import (
	"context"
	"strings"

	"rutaventas/internal/apierror"
	"rutaventas/internal/dto"
	"rutaventas/internal/model"
	"rutaventas/internal/repository"

	"github.com/google/uuid"
)

type VisitaService interface {
	RegistrarVisita(ctx context.Context, vendedorID uuid.UUID, req dto.RegistrarVisitaRequest) (*dto.VisitaResponse, error)
	ListarVisitas(ctx context.Context, vendedorID uuid.UUID, fecha string) ([]dto.VisitaResponse, error)
}

type visitaService struct {
	repo     repository.VisitaRepository
	clientes repository.ClienteRepository
	usuarios repository.UsuarioRepository
}

func NewVisitaService(repo repository.VisitaRepository, clientes repository.ClienteRepository, usuarios repository.UsuarioRepository) VisitaService {
	return &visitaService{repo: repo, clientes: clientes, usuarios: usuarios}
}

func (s *visitaService) RegistrarVisita(ctx context.Context, vendedorID uuid.UUID, req dto.RegistrarVisitaRequest) (*dto.VisitaResponse, error) {
	clienteID, err := parseID("clienteId", req.ClienteID)
	if err != nil {
		return nil, err
	}
	if _, err := requireVendedor(s.usuarios.FindByID(ctx, vendedorID)); err != nil {
		return nil, passthrough("registrar visita", err)
	}
	cliente, err := s.clientes.FindByID(ctx, clienteID)
	if err != nil {
		if isNotFound(err) {
			return nil, apierror.NotFound("Cliente no encontrado")
		}
		return nil, storeErr("registrar visita", err)
	}
	if !cliente.Activo {
		return nil, apierror.Conflict("el cliente esta inactivo")
	}

	v := &model.Visita{
		VendedorID: vendedorID,
		ClienteID:  clienteID,
		Motivo:     strings.TrimSpace(req.Motivo),
		Latitud:    req.Latitud,
		Longitud:   req.Longitud,
	}
	if err := s.repo.Create(ctx, v); err != nil {
		return nil, storeErr("registrar visita", err)
	}
	v.Cliente = cliente
	resp := visitaToResponse(v)
	return &resp, nil
}

func (s *visitaService) ListarVisitas(ctx context.Context, vendedorID uuid.UUID, fecha string) ([]dto.VisitaResponse, error) {
	visitas, err := s.repo.ListByVendedor(ctx, vendedorID, fecha)
	if err != nil {
		return nil, storeErr("listar visitas", err)
	}
	out := make([]dto.VisitaResponse, len(visitas))
	for i := range visitas {
		out[i] = visitaToResponse(&visitas[i])
	}
	return out, nil
}

func visitaToResponse(v *model.Visita) dto.VisitaResponse {
	resp := dto.VisitaResponse{
		ID:        v.ID.String(),
		ClienteID: v.ClienteID.String(),
		Motivo:    v.Motivo,
		Latitud:   v.Latitud,
		Longitud:  v.Longitud,
		CreatedAt: v.CreatedAt.Format(timeLayout),
	}
	if v.Cliente != nil {
		resp.NombreCliente = v.Cliente.Nombre
	}
	return resp
}
