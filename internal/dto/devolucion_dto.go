package dto

import "github.com/shopspring/decimal"

type RegistrarDevolucionRequest struct {
	ClienteID *string      `json:"clienteId" validate:"omitempty,uuid"`
	Motivo    string       `json:"motivo"    validate:"required,min=3,max=255"`
	Productos []LineaVenta `json:"productos" validate:"required,min=1,dive"`
}

type DevolucionResponse struct {
	ID        string                 `json:"id"`
	CargaID   string                 `json:"carga_id"`
	Motivo    string                 `json:"motivo"`
	Detalles  []VentaDetalleResponse `json:"detalles"`
	CreatedAt string                 `json:"created_at"`
}

type ResumenFilter struct {
	Desde string `form:"desde" validate:"omitempty,datetime=2006-01-02"`
	Hasta string `form:"hasta" validate:"omitempty,datetime=2006-01-02"`
}

type ResumenDevolucionItem struct {
	ProductoID    string          `json:"producto_id"`
	Nombre        string          `json:"nombre"`
	TotalDevuelto decimal.Decimal `json:"total_devuelto"`
	Devoluciones  int64           `json:"devoluciones"`
}

// ─── Visitas ─────────────────────────────────────────────────────────────────

type RegistrarVisitaRequest struct {
	ClienteID string   `json:"clienteId" validate:"required,uuid"`
	Motivo    string   `json:"motivo"    validate:"required,min=3,max=255"`
	Latitud   *float64 `json:"latitud"   validate:"omitempty,latitude"`
	Longitud  *float64 `json:"longitud"  validate:"omitempty,longitude"`
}

type VisitaResponse struct {
	ID            string   `json:"id"`
	ClienteID     string   `json:"cliente_id"`
	NombreCliente string   `json:"nombre_cliente"`
	Motivo        string   `json:"motivo"`
	Latitud       *float64 `json:"latitud"`
	Longitud      *float64 `json:"longitud"`
	CreatedAt     string   `json:"created_at"`
}
