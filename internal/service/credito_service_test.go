package service

import (
	"context"
	"testing"

	"rutaventas/internal/apierror"
	"rutaventas/internal/dto"
	"rutaventas/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type creditoFixture struct {
	svc      CreditoService
	creditos *stubCreditoRepo
	clientes *stubClienteRepo
	cliente  model.Cliente
}

func newCreditoFixture() *creditoFixture {
	f := &creditoFixture{creditos: newStubCreditoRepo(), clientes: newStubClienteRepo()}
	f.svc = NewCreditoService(f.creditos, f.clientes, &stubVentaRepo{}, &stubTx{})
	f.cliente = f.clientes.add(model.Cliente{Nombre: "Almacen Don Pepe", CodigoQR: "QR-1", Activo: true})
	return f
}

func pago(creditoID uuid.UUID, monto string) dto.PagarCreditoRequest {
	return dto.PagarCreditoRequest{IDCredito: creditoID.String(), Monto: dec(monto), TipoPago: model.MetodoEfectivo}
}

func TestPagarCredito_SobrepagoDevuelveSaldos(t *testing.T) {
	f := newCreditoFixture()
	cred := f.creditos.add(f.cliente.ID, "100")
	f.creditos.add(f.cliente.ID, "50")

	_, err := f.svc.PagarCredito(context.Background(), f.cliente.ID, pago(cred.ID, "120"))

	de, ok := apierror.As(err)
	require.True(t, ok)
	assert.Equal(t, apierror.CodeOverpayment, de.Code)
	antes, ok := de.Data.(dto.SaldoSnapshot)
	require.True(t, ok)
	assert.True(t, dec("100").Equal(antes.PendienteCredito))
	assert.True(t, dec("150").Equal(antes.SaldoCliente))
	assert.Zero(t, f.creditos.numPagos())
}

func TestPagarCredito_ParcialYTotal(t *testing.T) {
	f := newCreditoFixture()
	cred := f.creditos.add(f.cliente.ID, "100")
	f.creditos.add(f.cliente.ID, "50")
	ctx := context.Background()

	resp, err := f.svc.PagarCredito(ctx, f.cliente.ID, pago(cred.ID, "40"))
	require.NoError(t, err)
	assert.True(t, dec("100").Equal(resp.Antes.PendienteCredito))
	assert.True(t, dec("60").Equal(resp.Despues.PendienteCredito))
	assert.True(t, dec("110").Equal(resp.Despues.SaldoCliente))
	assert.Equal(t, model.CreditoPendiente, f.creditos.creditos[cred.ID].Estado)

	resp, err = f.svc.PagarCredito(ctx, f.cliente.ID, pago(cred.ID, "60"))
	require.NoError(t, err)
	assert.True(t, resp.Despues.PendienteCredito.IsZero())
	assert.True(t, dec("50").Equal(resp.Despues.SaldoCliente))
	assert.Equal(t, model.CreditoPagado, f.creditos.creditos[cred.ID].Estado)

	pagos, err := f.svc.ListarPagos(ctx, cred.ID)
	require.NoError(t, err)
	assert.Len(t, pagos, 2)

	_, err = f.svc.PagarCredito(ctx, f.cliente.ID, pago(cred.ID, "0.01"))
	assert.Equal(t, apierror.CodeOverpayment, apierror.CodeOf(err))
}

func TestPagarCredito_Validaciones(t *testing.T) {
	f := newCreditoFixture()
	cred := f.creditos.add(f.cliente.ID, "100")
	otro := f.clientes.add(model.Cliente{Nombre: "Kiosco", CodigoQR: "QR-2", Activo: true})
	ctx := context.Background()

	cases := []struct {
		name      string
		clienteID uuid.UUID
		req       dto.PagarCreditoRequest
		code      string
	}{
		{"monto cero", f.cliente.ID, pago(cred.ID, "0"), apierror.CodeValidation},
		{"monto negativo", f.cliente.ID, pago(cred.ID, "-5"), apierror.CodeValidation},
		{"tres decimales", f.cliente.ID, pago(cred.ID, "1.005"), apierror.CodeValidation},
		{"tipo de pago", f.cliente.ID, dto.PagarCreditoRequest{IDCredito: cred.ID.String(), Monto: dec("1"), TipoPago: "cheque"}, apierror.CodeValidation},
		{"credito de otro cliente", otro.ID, pago(cred.ID, "10"), apierror.CodeNotFound},
		{"credito inexistente", f.cliente.ID, pago(uuid.New(), "10"), apierror.CodeNotFound},
		{"cliente inexistente", uuid.New(), pago(cred.ID, "10"), apierror.CodeNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.PagarCredito(ctx, tc.clienteID, tc.req)
			assert.Equal(t, tc.code, apierror.CodeOf(err))
		})
	}
	assert.Zero(t, f.creditos.numPagos())
}

func TestCrearCredito_Limite(t *testing.T) {
	f := newCreditoFixture()
	limitado := f.clientes.add(model.Cliente{Nombre: "Limitado", CodigoQR: "QR-3", Activo: true, LimiteCredito: dec("100")})
	inactivo := f.clientes.add(model.Cliente{Nombre: "Inactivo", CodigoQR: "QR-4"})
	ctx := context.Background()

	c, err := f.svc.CrearCredito(ctx, limitado.ID, dto.CrearCreditoRequest{Monto: dec("80")})
	require.NoError(t, err)
	assert.Equal(t, model.CreditoPendiente, c.Estado)

	_, err = f.svc.CrearCredito(ctx, limitado.ID, dto.CrearCreditoRequest{Monto: dec("30")})
	assert.Equal(t, apierror.CodeConflict, apierror.CodeOf(err))

	_, err = f.svc.CrearCredito(ctx, inactivo.ID, dto.CrearCreditoRequest{Monto: dec("1")})
	assert.Equal(t, apierror.CodeConflict, apierror.CodeOf(err))

	_, err = f.svc.CrearCredito(ctx, uuid.New(), dto.CrearCreditoRequest{Monto: dec("1")})
	assert.Equal(t, apierror.CodeNotFound, apierror.CodeOf(err))

	venta := uuid.NewString()
	_, err = f.svc.CrearCredito(ctx, f.cliente.ID, dto.CrearCreditoRequest{Monto: dec("1"), VentaID: &venta})
	assert.Equal(t, apierror.CodeNotFound, apierror.CodeOf(err))

	// No limit configured.
	_, err = f.svc.CrearCredito(ctx, f.cliente.ID, dto.CrearCreditoRequest{Monto: dec("100000")})
	assert.NoError(t, err)
}
