package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	MetodoEfectivo      = "efectivo"
	MetodoTransferencia = "transferencia"
	MetodoDeposito      = "deposito"
)

// VentaPublico is a walk-in sale committed against the seller's active load.
// It is written once together with its details and never modified.
type VentaPublico struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VendedorID uuid.UUID       `gorm:"type:uuid;not null;index"`
	CargaID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Total      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MetodoPago string          `gorm:"type:varchar(20);not null"`
	Latitud    *float64
	Longitud   *float64
	CreatedAt  time.Time

	Detalles []VentaPublicoDetalle `gorm:"foreignKey:VentaID"`
}

func (VentaPublico) TableName() string { return "ventas_publico" }

// VentaPublicoDetalle keeps the unit price at sale time, not a live reference.
type VentaPublicoDetalle struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null"`
	NombreProducto string          `gorm:"not null"`
	Cantidad       decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

func (VentaPublicoDetalle) TableName() string { return "ventas_publico_detalle" }
