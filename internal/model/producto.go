package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto is a catalog entry. Load lines copy its name and price at stage-in
// time, so later price edits never reach an existing load.
type Producto struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string          `gorm:"index;not null"`
	Precio    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Categoria string          `gorm:"not null"`
	Activo    bool            `gorm:"not null;default:true"`
	Eliminado bool            `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Producto) TableName() string { return "productos" }
