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
)

type ClienteService interface {
	Crear(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteResponse, error)
	Listar(ctx context.Context, filter dto.ClienteFilter) ([]dto.ClienteResponse, int64, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarClienteRequest) (*dto.ClienteResponse, error)
	// BuscarPorQR resolves the token a seller scans from the client's card.
	BuscarPorQR(ctx context.Context, codigo string) (*dto.ClienteResponse, error)
	EstadoCuenta(ctx context.Context, id uuid.UUID) (*dto.EstadoCuentaResponse, error)
}

type clienteService struct {
	repo     repository.ClienteRepository
	creditos repository.CreditoRepository
}

func NewClienteService(repo repository.ClienteRepository, creditos repository.CreditoRepository) ClienteService {
	return &clienteService{repo: repo, creditos: creditos}
}

// nuevoCodigoQR returns a 32-char opaque token.
func nuevoCodigoQR() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (s *clienteService) Crear(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteResponse, error) {
	if req.LimiteCredito.IsNegative() {
		return nil, apierror.Validation("limite_credito no puede ser negativo")
	}
	c := &model.Cliente{
		Nombre:        strings.TrimSpace(req.Nombre),
		Documento:     req.Documento,
		Telefono:      req.Telefono,
		Direccion:     req.Direccion,
		Email:         req.Email,
		CodigoQR:      nuevoCodigoQR(),
		LimiteCredito: req.LimiteCredito.Round(2),
		Activo:        true,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, storeErr("crear cliente", err)
	}
	resp := clienteToResponse(c)
	return &resp, nil
}

func (s *clienteService) Listar(ctx context.Context, filter dto.ClienteFilter) ([]dto.ClienteResponse, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	clientes, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, storeErr("listar clientes", err)
	}
	resp := make([]dto.ClienteResponse, len(clientes))
	for i := range clientes {
		resp[i] = clienteToResponse(&clientes[i])
	}
	return resp, total, nil
}

func (s *clienteService) find(ctx context.Context, id uuid.UUID) (*model.Cliente, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, apierror.NotFound("cliente no encontrado")
		}
		return nil, storeErr("obtener cliente", err)
	}
	return c, nil
}

func (s *clienteService) Obtener(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error) {
	c, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := clienteToResponse(c)
	return &resp, nil
}

func (s *clienteService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarClienteRequest) (*dto.ClienteResponse, error) {
	c, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Nombre != nil {
		c.Nombre = strings.TrimSpace(*req.Nombre)
	}
	if req.Documento != nil {
		c.Documento = req.Documento
	}
	if req.Telefono != nil {
		c.Telefono = req.Telefono
	}
	if req.Direccion != nil {
		c.Direccion = req.Direccion
	}
	if req.Email != nil {
		c.Email = req.Email
	}
	if req.LimiteCredito != nil {
		if req.LimiteCredito.IsNegative() {
			return nil, apierror.Validation("limite_credito no puede ser negativo")
		}
		c.LimiteCredito = req.LimiteCredito.Round(2)
	}
	if req.Activo != nil {
		c.Activo = *req.Activo
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, storeErr("actualizar cliente", err)
	}
	resp := clienteToResponse(c)
	return &resp, nil
}

func (s *clienteService) BuscarPorQR(ctx context.Context, codigo string) (*dto.ClienteResponse, error) {
	codigo = strings.TrimSpace(codigo)
	if codigo == "" {
		return nil, apierror.Validation("codigo QR vacio")
	}
	c, err := s.repo.FindByQR(ctx, codigo)
	if err != nil {
		if isNotFound(err) {
			return nil, apierror.NotFound("cliente no encontrado para el codigo QR")
		}
		return nil, storeErr("buscar cliente por QR", err)
	}
	resp := clienteToResponse(c)
	return &resp, nil
}

func (s *clienteService) EstadoCuenta(ctx context.Context, id uuid.UUID) (*dto.EstadoCuentaResponse, error) {
	c, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	creditos, err := s.creditos.ListByCliente(ctx, id)
	if err != nil {
		return nil, storeErr("estado de cuenta", err)
	}

	total := decimal.Zero
	items := make([]dto.CreditoEstadoResponse, len(creditos))
	for i, cr := range creditos {
		pendiente := cr.Pendiente()
		total = total.Add(pendiente)
		items[i] = dto.CreditoEstadoResponse{
			ID:          cr.ID.String(),
			VentaID:     idPtrString(cr.VentaID),
			Monto:       cr.Monto,
			Pagado:      cr.Pagado,
			Pendiente:   pendiente,
			Estado:      cr.Estado,
			Descripcion: cr.Descripcion,
			CreatedAt:   cr.CreatedAt.Format(timeLayout),
		}
	}
	return &dto.EstadoCuentaResponse{
		Cliente:        clienteToResponse(c),
		Creditos:       items,
		TotalPendiente: total,
	}, nil
}

func clienteToResponse(c *model.Cliente) dto.ClienteResponse {
	return dto.ClienteResponse{
		ID:            c.ID.String(),
		Nombre:        c.Nombre,
		Documento:     c.Documento,
		Telefono:      c.Telefono,
		Direccion:     c.Direccion,
		Email:         c.Email,
		CodigoQR:      c.CodigoQR,
		LimiteCredito: c.LimiteCredito,
		Activo:        c.Activo,
	}
}
