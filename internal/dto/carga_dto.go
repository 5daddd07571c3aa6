package dto

import "github.com/shopspring/decimal"

type AbrirCargaRequest struct {
	VendedorID string `json:"vendedorId" validate:"required,uuid"`
}

// ItemCarga references a catalog product by id. Nombre alone records an
// uncatalogued product for traceability.
type ItemCarga struct {
	ProductoID *string         `json:"productoId" validate:"omitempty,uuid"`
	Nombre     *string         `json:"nombre"`
	Cantidad   decimal.Decimal `json:"cantidad"`
}

type AgregarProductosRequest struct {
	CargaID string      `json:"cargaId" validate:"required,uuid"`
	Items   []ItemCarga `json:"items"   validate:"required,min=1,dive"`
}

type CargaProductoResponse struct {
	ID               string          `json:"id"`
	ProductoID       *string         `json:"producto_id"`
	Nombre           string          `json:"nombre"`
	PrecioUnitario   decimal.Decimal `json:"precio_unitario"`
	CantidadCargada  decimal.Decimal `json:"cantidad_cargada"`
	CantidadVendida  decimal.Decimal `json:"cantidad_vendida"`
	CantidadDevuelta decimal.Decimal `json:"cantidad_devuelta"`
	Disponible       decimal.Decimal `json:"disponible"`
}

type CargaResponse struct {
	ID                 string  `json:"id"`
	VendedorID         string  `json:"vendedor_id"`
	CamionID           string  `json:"camion_id"`
	Procesada          bool    `json:"procesada"`
	ListaParaConfirmar bool    `json:"lista_para_confirmar"`
	ListaAt            *string `json:"lista_at"`
	ProcesadaAt        *string `json:"procesada_at"`
	CreatedAt          string  `json:"created_at"`
}

// CargaSnapshot is what the seller app renders: sellable lines plus the ones
// staged after the loader marked the load ready.
type CargaSnapshot struct {
	Carga           CargaResponse           `json:"carga"`
	ProductosNuevos []CargaProductoResponse `json:"productosNuevos"`
	Productos       []CargaProductoResponse `json:"productos"`
}
