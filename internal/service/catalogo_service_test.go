package service

import (
	"context"
	"sync"
	"testing"

	"rutaventas/internal/apierror"
	"rutaventas/internal/dto"
	"rutaventas/internal/model"
	"rutaventas/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubCamionRepo struct {
	mu       sync.Mutex
	camiones map[uuid.UUID]*model.Camion
}

func (r *stubCamionRepo) Create(_ context.Context, c *model.Camion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.camiones {
		if existing.Placa == c.Placa {
			return gorm.ErrDuplicatedKey
		}
	}
	c.ID = uuid.New()
	cp := *c
	r.camiones[c.ID] = &cp
	return nil
}

func (r *stubCamionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Camion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.camiones[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubCamionRepo) List(_ context.Context) ([]model.Camion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Camion
	for _, c := range r.camiones {
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubCamionRepo) Update(_ context.Context, c *model.Camion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.camiones[c.ID] = &cp
	return nil
}

func (r *stubCamionRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Camion, error) {
	return r.FindByID(context.Background(), id)
}

var _ repository.CamionRepository = (*stubCamionRepo)(nil)

func TestAsignarCamion_MueveElCamion(t *testing.T) {
	usuarios := newStubUsuarioRepo()
	svc := NewCamionService(&stubCamionRepo{camiones: make(map[uuid.UUID]*model.Camion)}, usuarios, &stubTx{})
	ctx := context.Background()

	camion, err := svc.Crear(ctx, dto.CrearCamionRequest{Placa: " ab-123 "})
	require.NoError(t, err)
	assert.Equal(t, "AB-123", camion.Placa)
	_, err = svc.Crear(ctx, dto.CrearCamionRequest{Placa: "AB-123"})
	assert.Equal(t, apierror.CodeConflict, apierror.CodeOf(err))

	camionID := uuid.MustParse(camion.ID)
	a := usuarios.add(model.Usuario{Username: "a", Rol: model.RolVendedor, Activo: true})
	b := usuarios.add(model.Usuario{Username: "b", Rol: model.RolVendedor, Activo: true})
	cargador := usuarios.add(model.Usuario{Username: "c", Rol: model.RolCargador, Activo: true})

	resp, err := svc.AsignarCamion(ctx, camionID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, camion.ID, *resp.CamionID)

	_, err = svc.AsignarCamion(ctx, camionID, b.ID)
	require.NoError(t, err)
	assert.Nil(t, usuarios.get(a.ID).CamionID)
	assert.Equal(t, camionID, *usuarios.get(b.ID).CamionID)

	_, err = svc.AsignarCamion(ctx, camionID, cargador.ID)
	assert.Equal(t, apierror.CodeNotFound, apierror.CodeOf(err))
	_, err = svc.AsignarCamion(ctx, uuid.New(), a.ID)
	assert.Equal(t, apierror.CodeNotFound, apierror.CodeOf(err))

	inactivo := false
	_, err = svc.Actualizar(ctx, camionID, dto.ActualizarCamionRequest{Activo: &inactivo})
	require.NoError(t, err)
	_, err = svc.AsignarCamion(ctx, camionID, a.ID)
	assert.Equal(t, apierror.CodeConflict, apierror.CodeOf(err))
}

func TestCliente_QRYEstadoDeCuenta(t *testing.T) {
	clientes := newStubClienteRepo()
	creditos := newStubCreditoRepo()
	svc := NewClienteService(clientes, creditos)
	pagos := NewCreditoService(creditos, clientes, &stubVentaRepo{}, &stubTx{})
	ctx := context.Background()

	c, err := svc.Crear(ctx, dto.CrearClienteRequest{Nombre: "Almacen Sur", LimiteCredito: dec("500")})
	require.NoError(t, err)
	require.NotEmpty(t, c.CodigoQR)

	found, err := svc.BuscarPorQR(ctx, " "+c.CodigoQR+" ")
	require.NoError(t, err)
	assert.Equal(t, c.ID, found.ID)
	_, err = svc.BuscarPorQR(ctx, "no-existe")
	assert.Equal(t, apierror.CodeNotFound, apierror.CodeOf(err))
	_, err = svc.BuscarPorQR(ctx, " ")
	assert.Equal(t, apierror.CodeValidation, apierror.CodeOf(err))

	_, err = svc.Crear(ctx, dto.CrearClienteRequest{Nombre: "Negativo", LimiteCredito: dec("-1")})
	assert.Equal(t, apierror.CodeValidation, apierror.CodeOf(err))

	clienteID := uuid.MustParse(c.ID)
	cred := creditos.add(clienteID, "100")
	creditos.add(clienteID, "50")
	_, err = pagos.PagarCredito(ctx, clienteID, pago(cred.ID, "30"))
	require.NoError(t, err)

	estado, err := svc.EstadoCuenta(ctx, clienteID)
	require.NoError(t, err)
	assert.Len(t, estado.Creditos, 2)
	assert.True(t, dec("120").Equal(estado.TotalPendiente), estado.TotalPendiente.String())

	_, err = svc.EstadoCuenta(ctx, uuid.New())
	assert.Equal(t, apierror.CodeNotFound, apierror.CodeOf(err))
}
