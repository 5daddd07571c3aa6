package dto

import "github.com/shopspring/decimal"

type CrearCreditoRequest struct {
	Monto       decimal.Decimal `json:"monto"       validate:"gt=0"`
	VentaID     *string         `json:"venta_id"    validate:"omitempty,uuid"`
	Descripcion string          `json:"descripcion" validate:"max=255"`
}

// PagarCreditoRequest keeps monto unvalidated by tags so a non-positive amount
// is reported as a domain validation error rather than a field error.
type PagarCreditoRequest struct {
	IDCredito     string          `json:"id_credito"    validate:"required,uuid"`
	Monto         decimal.Decimal `json:"monto"`
	TipoPago      string          `json:"tipo_pago"     validate:"required,oneof=efectivo transferencia deposito"`
	Referencia    *string         `json:"referencia"    validate:"omitempty,max=100"`
	Observaciones *string         `json:"observaciones" validate:"omitempty,max=255"`
}

type SaldoSnapshot struct {
	PendienteCredito decimal.Decimal `json:"pendiente_credito"`
	SaldoCliente     decimal.Decimal `json:"saldo_cliente"`
}

type PagoResponse struct {
	ID            string          `json:"id"`
	CreditoID     string          `json:"credito_id"`
	ClienteID     string          `json:"cliente_id"`
	Monto         decimal.Decimal `json:"monto"`
	TipoPago      string          `json:"tipo_pago"`
	Referencia    *string         `json:"referencia"`
	Observaciones *string         `json:"observaciones"`
	CreatedAt     string          `json:"created_at"`
}

type PagarCreditoResponse struct {
	Antes   SaldoSnapshot `json:"antes"`
	Despues SaldoSnapshot `json:"despues"`
	Pago    PagoResponse  `json:"pago"`
}

type CreditoResponse struct {
	ID          string          `json:"id"`
	ClienteID   string          `json:"cliente_id"`
	VentaID     *string         `json:"venta_id"`
	Monto       decimal.Decimal `json:"monto"`
	Descripcion string          `json:"descripcion"`
	Estado      string          `json:"estado"`
	CreatedAt   string          `json:"created_at"`
}
