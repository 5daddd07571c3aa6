package model

import (
	"time"

	"github.com/google/uuid"
)

// Visita is a client visit that ended without a sale.
type Visita struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VendedorID uuid.UUID `gorm:"type:uuid;not null;index"`
	ClienteID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Motivo     string    `gorm:"not null"`
	Latitud    *float64
	Longitud   *float64
	CreatedAt  time.Time

	Cliente *Cliente `gorm:"foreignKey:ClienteID"`
}

func (Visita) TableName() string { return "visitas" }
