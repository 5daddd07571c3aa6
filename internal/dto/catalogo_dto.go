package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Camiones ────────────────────────────────────────────────────────────────

type CrearCamionRequest struct {
	Placa       string  `json:"placa" validate:"required,min=3,max=20"`
	Descripcion *string `json:"descripcion"`
}

type ActualizarCamionRequest struct {
	Placa       *string `json:"placa" validate:"omitempty,min=3,max=20"`
	Descripcion *string `json:"descripcion"`
	Activo      *bool   `json:"activo"`
}

type AsignarCamionRequest struct {
	VendedorID string `json:"vendedor_id" validate:"required,uuid"`
}

type CamionResponse struct {
	ID          string  `json:"id"`
	Placa       string  `json:"placa"`
	Descripcion *string `json:"descripcion"`
	Activo      bool    `json:"activo"`
}

// ─── Clientes ────────────────────────────────────────────────────────────────

type CrearClienteRequest struct {
	Nombre        string          `json:"nombre"    validate:"required,min=2,max=150"`
	Documento     *string         `json:"documento"`
	Telefono      *string         `json:"telefono"`
	Direccion     *string         `json:"direccion"`
	Email         *string         `json:"email"     validate:"omitempty,email"`
	LimiteCredito decimal.Decimal `json:"limite_credito" validate:"min=0"`
}

type ActualizarClienteRequest struct {
	Nombre        *string          `json:"nombre"    validate:"omitempty,min=2,max=150"`
	Documento     *string          `json:"documento"`
	Telefono      *string          `json:"telefono"`
	Direccion     *string          `json:"direccion"`
	Email         *string          `json:"email"     validate:"omitempty,email"`
	LimiteCredito *decimal.Decimal `json:"limite_credito"`
	Activo        *bool            `json:"activo"`
}

type ClienteFilter struct {
	Nombre string `form:"nombre"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type ClienteResponse struct {
	ID            string          `json:"id"`
	Nombre        string          `json:"nombre"`
	Documento     *string         `json:"documento"`
	Telefono      *string         `json:"telefono"`
	Direccion     *string         `json:"direccion"`
	Email         *string         `json:"email"`
	CodigoQR      string          `json:"codigo_qr"`
	LimiteCredito decimal.Decimal `json:"limite_credito"`
	Activo        bool            `json:"activo"`
}

type CreditoEstadoResponse struct {
	ID          string          `json:"id"`
	VentaID     *string         `json:"venta_id"`
	Monto       decimal.Decimal `json:"monto"`
	Pagado      decimal.Decimal `json:"pagado"`
	Pendiente   decimal.Decimal `json:"pendiente"`
	Estado      string          `json:"estado"`
	Descripcion string          `json:"descripcion"`
	CreatedAt   string          `json:"created_at"`
}

type EstadoCuentaResponse struct {
	Cliente        ClienteResponse         `json:"cliente"`
	Creditos       []CreditoEstadoResponse `json:"creditos"`
	TotalPendiente decimal.Decimal         `json:"total_pendiente"`
}

// ─── Descuentos ──────────────────────────────────────────────────────────────

type CrearDescuentoRequest struct {
	ProductoID  string          `json:"producto_id"  validate:"required,uuid"`
	Porcentaje  decimal.Decimal `json:"porcentaje"   validate:"gt=0,lte=100"`
	FechaInicio time.Time       `json:"fecha_inicio" validate:"required"`
	FechaFin    time.Time       `json:"fecha_fin"    validate:"required,gtefield=FechaInicio"`
}

type DescuentoResponse struct {
	ID             string          `json:"id"`
	ProductoID     string          `json:"producto_id"`
	NombreProducto string          `json:"nombre_producto"`
	Porcentaje     decimal.Decimal `json:"porcentaje"`
	FechaInicio    string          `json:"fecha_inicio"`
	FechaFin       string          `json:"fecha_fin"`
	Activo         bool            `json:"activo"`
}
