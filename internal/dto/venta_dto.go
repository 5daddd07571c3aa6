package dto

import "github.com/shopspring/decimal"

// LineaVenta references a load line by catalog product id. Nombre is accepted
// for older seller apps that only send the product name.
type LineaVenta struct {
	ProductoID *string         `json:"productoId" validate:"omitempty,uuid"`
	Nombre     *string         `json:"nombre"`
	Cantidad   decimal.Decimal `json:"cantidad"`
}

type VenderPublicoRequest struct {
	IDVendedor string       `json:"idVendedor" validate:"omitempty,uuid"`
	TipoPago   string       `json:"tipoPago"   validate:"required"` // efectivo | transferencia, any case
	Latitud    *float64     `json:"latitud"    validate:"omitempty,latitude"`
	Longitud   *float64     `json:"longitud"   validate:"omitempty,longitude"`
	Correo     *string      `json:"correo"     validate:"omitempty,email"`
	Productos  []LineaVenta `json:"productos"  validate:"required,min=1,dive"`
}

type VentaPublicoResponse struct {
	VentaID    string          `json:"ventaId"`
	Total      decimal.Decimal `json:"total"`
	MetodoPago string          `json:"metodo_pago"`
}

// StockInsuficiente is the conflict payload for a line that cannot be served.
type StockInsuficiente struct {
	ProductoID string          `json:"productoId"`
	Nombre     string          `json:"nombre"`
	Solicitado decimal.Decimal `json:"solicitado"`
	Disponible decimal.Decimal `json:"disponible"`
}

type VentaFilter struct {
	Fecha string `form:"fecha" validate:"omitempty,datetime=2006-01-02"`
}

type VentaDetalleResponse struct {
	ProductoID     string          `json:"producto_id"`
	Nombre         string          `json:"nombre"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type VentaListItem struct {
	ID         string                 `json:"id"`
	CargaID    string                 `json:"carga_id"`
	Total      decimal.Decimal        `json:"total"`
	MetodoPago string                 `json:"metodo_pago"`
	Latitud    *float64               `json:"latitud"`
	Longitud   *float64               `json:"longitud"`
	Detalles   []VentaDetalleResponse `json:"detalles"`
	CreatedAt  string                 `json:"created_at"`
}
