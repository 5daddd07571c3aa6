package model

import (
	"time"

	"github.com/google/uuid"
)

// Camion is a delivery truck. A truck is assigned to at most one seller.
type Camion struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Placa       string    `gorm:"uniqueIndex;not null"`
	Descripcion *string
	Activo      bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Camion) TableName() string { return "camiones" }
