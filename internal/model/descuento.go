package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Descuento is a percentage discount on a product valid in [FechaInicio, FechaFin].
// Active windows of the same product never overlap.
type Descuento struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Porcentaje  decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	FechaInicio time.Time       `gorm:"not null"`
	FechaFin    time.Time       `gorm:"not null"`
	Activo      bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (Descuento) TableName() string { return "descuentos" }

// Solapa reports whether both windows share at least one instant.
func (d Descuento) Solapa(inicio, fin time.Time) bool {
	return !d.FechaInicio.After(fin) && !inicio.After(d.FechaFin)
}
