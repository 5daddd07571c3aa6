package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Devolucion records goods handed back to the seller and returned to the load.
type Devolucion struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VendedorID uuid.UUID  `gorm:"type:uuid;not null;index"`
	CargaID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	ClienteID  *uuid.UUID `gorm:"type:uuid"`
	Motivo     string     `gorm:"not null"`
	CreatedAt  time.Time

	Detalles []DevolucionDetalle `gorm:"foreignKey:DevolucionID"`
}

func (Devolucion) TableName() string { return "devoluciones" }

type DevolucionDetalle struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DevolucionID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null"`
	NombreProducto string          `gorm:"not null"`
	Cantidad       decimal.Decimal `gorm:"type:decimal(12,3);not null"`
}

func (DevolucionDetalle) TableName() string { return "devoluciones_detalle" }
