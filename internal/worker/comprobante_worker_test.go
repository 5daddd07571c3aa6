package worker

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"rutaventas/internal/model"
	"rutaventas/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeVentas struct {
	repository.VentaPublicoRepository
	ventas map[uuid.UUID]*model.VentaPublico
}

func (f *fakeVentas) FindByID(_ context.Context, id uuid.UUID) (*model.VentaPublico, error) {
	v, ok := f.ventas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

type fakeUsuarios struct {
	repository.UsuarioRepository
	u *model.Usuario
}

func (f *fakeUsuarios) FindByID(_ context.Context, _ uuid.UUID) (*model.Usuario, error) {
	return f.u, nil
}

type recordingEmails struct{ jobs []EmailJobPayload }

func (r *recordingEmails) EnqueueEmail(_ context.Context, p EmailJobPayload) error {
	r.jobs = append(r.jobs, p)
	return nil
}

func TestComprobanteWorker(t *testing.T) {
	venta := &model.VentaPublico{
		ID:         uuid.New(),
		VendedorID: uuid.New(),
		Total:      decimal.RequireFromString("12"),
		Detalles: []model.VentaPublicoDetalle{
			{NombreProducto: "Widget", Cantidad: decimal.NewFromInt(6), PrecioUnitario: decimal.NewFromInt(2), Subtotal: decimal.NewFromInt(12)},
		},
	}
	emails := &recordingEmails{}
	dir := t.TempDir()
	w := NewComprobanteWorker(
		&fakeVentas{ventas: map[uuid.UUID]*model.VentaPublico{venta.ID: venta}},
		&fakeUsuarios{u: &model.Usuario{Nombre: "Vendedor Uno"}},
		emails, dir,
	)
	ctx := context.Background()

	raw, _ := json.Marshal(ComprobanteJobPayload{VentaID: venta.ID.String(), Correo: "cliente@example.com"})
	require.NoError(t, w.Process(ctx, raw))
	require.Len(t, emails.jobs, 1)
	assert.Equal(t, "cliente@example.com", emails.jobs[0].ToEmail)
	assert.Contains(t, emails.jobs[0].Body, "$12.00")
	_, err := os.Stat(emails.jobs[0].PDFPath)
	assert.NoError(t, err)

	raw, _ = json.Marshal(ComprobanteJobPayload{VentaID: venta.ID.String()})
	require.NoError(t, w.Process(ctx, raw))
	assert.Len(t, emails.jobs, 1, "no email without correo")

	// Jobs that can never succeed are dropped rather than retried.
	raw, _ = json.Marshal(ComprobanteJobPayload{VentaID: uuid.NewString()})
	assert.NoError(t, w.Process(ctx, raw))
	assert.NoError(t, w.Process(ctx, json.RawMessage(`{"venta_id":"x"}`)))
}
