package service

import (
	"context"
	"testing"

	"rutaventas/internal/dto"
	"rutaventas/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// ruta wires the load, sale and return services over shared in-memory stores.
type ruta struct {
	tx        *stubTx
	usuarios  *stubUsuarioRepo
	productos *stubProductoRepo
	cargas    *stubCargaRepo
	ventas    *stubVentaRepo
	clientes  *stubClienteRepo
	devs      *stubDevolucionRepo
	publisher *recordingPublisher
	jobs      *recordingEnqueuer

	cargaSvc CargaService
	ventaSvc VentaPublicoService
	devSvc   DevolucionService

	vendedor model.Usuario
}

func newRuta(t *testing.T) *ruta {
	t.Helper()
	r := &ruta{
		tx:        &stubTx{},
		usuarios:  newStubUsuarioRepo(),
		productos: newStubProductoRepo(),
		cargas:    newStubCargaRepo(),
		ventas:    &stubVentaRepo{},
		clientes:  newStubClienteRepo(),
		devs:      &stubDevolucionRepo{},
		publisher: &recordingPublisher{},
		jobs:      &recordingEnqueuer{},
	}
	r.cargaSvc = NewCargaService(r.cargas, r.usuarios, r.productos, r.tx, r.publisher)
	r.ventaSvc = NewVentaPublicoService(r.ventas, r.cargas, r.usuarios, r.tx, r.publisher, r.jobs)
	r.devSvc = NewDevolucionService(r.devs, r.cargas, r.usuarios, r.clientes, r.tx)

	camion := uuid.New()
	r.vendedor = *r.usuarios.add(model.Usuario{
		Username: "vendedor1",
		Nombre:   "Vendedor Uno",
		Rol:      model.RolVendedor,
		Activo:   true,
		CamionID: &camion,
	})
	return r
}

// abrir opens the seller's load.
func (r *ruta) abrir(t *testing.T) uuid.UUID {
	t.Helper()
	c, err := r.cargaSvc.AbrirCarga(context.Background(), r.vendedor.ID)
	require.NoError(t, err)
	return uuid.MustParse(c.ID)
}

// cargar stages qty of producto onto cargaID.
func (r *ruta) cargar(t *testing.T, cargaID uuid.UUID, p model.Producto, qty string) {
	t.Helper()
	_, err := r.cargaSvc.AgregarProductos(context.Background(), dto.AgregarProductosRequest{
		CargaID: cargaID.String(),
		Items:   []dto.ItemCarga{itemID(p.ID, qty)},
	})
	require.NoError(t, err)
}

func itemID(id uuid.UUID, qty string) dto.ItemCarga {
	s := id.String()
	return dto.ItemCarga{ProductoID: &s, Cantidad: decimal.RequireFromString(qty)}
}

func itemNombre(nombre, qty string) dto.ItemCarga {
	return dto.ItemCarga{Nombre: &nombre, Cantidad: decimal.RequireFromString(qty)}
}

func lineaID(id uuid.UUID, qty string) dto.LineaVenta {
	s := id.String()
	return dto.LineaVenta{ProductoID: &s, Cantidad: decimal.RequireFromString(qty)}
}

func lineaNombre(nombre, qty string) dto.LineaVenta {
	return dto.LineaVenta{Nombre: &nombre, Cantidad: decimal.RequireFromString(qty)}
}

func venta(lineas ...dto.LineaVenta) dto.VenderPublicoRequest {
	return dto.VenderPublicoRequest{TipoPago: model.MetodoEfectivo, Productos: lineas}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
