package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Carga is the merchandise staged onto a seller's truck for a selling period.
// Procesada is terminal: no stage-in, sale or return is accepted afterwards.
type Carga struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VendedorID         uuid.UUID `gorm:"type:uuid;not null;index"`
	CamionID           uuid.UUID `gorm:"type:uuid;not null"`
	Procesada          bool      `gorm:"not null;default:false"`
	ListaParaConfirmar bool      `gorm:"not null;default:false"`
	ListaAt            *time.Time
	ProcesadaAt        *time.Time
	CreatedAt          time.Time

	Productos []CargaProducto `gorm:"foreignKey:CargaID"`
}

func (Carga) TableName() string { return "cargas" }

// CargaProducto is the per-product bookkeeping row of a load. ProductoID is nil
// for goods staged by name only; those lines are kept for traceability and are
// not sellable.
type CargaProducto struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CargaID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID       *uuid.UUID      `gorm:"type:uuid"`
	NombreProducto   string          `gorm:"not null"`
	PrecioUnitario   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CantidadCargada  decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	CantidadVendida  decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	CantidadDevuelta decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (CargaProducto) TableName() string { return "carga_productos" }

// Disponible is cargada - vendida + devuelta, never below zero.
func (l CargaProducto) Disponible() decimal.Decimal {
	d := l.CantidadCargada.Sub(l.CantidadVendida).Add(l.CantidadDevuelta)
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
