package model

import (
	"time"

	"github.com/google/uuid"
)

// Rol is the role partition a user authenticates against.
type Rol string

const (
	RolAdministrador Rol = "administrador"
	RolCargador      Rol = "cargador"
	RolVendedor      Rol = "vendedor"
	RolDevoluciones  Rol = "devoluciones"
)

// ParseRol returns the role for s and whether it is a known partition.
func ParseRol(s string) (Rol, bool) {
	switch r := Rol(s); r {
	case RolAdministrador, RolCargador, RolVendedor, RolDevoluciones:
		return r, true
	}
	return "", false
}

// Usuario stores system users with role-based access.
// CamionID and CargaActivaID are only set for vendedores.
type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Nombre       string    `gorm:"not null"`
	Email        *string
	PasswordHash string `gorm:"not null"`
	Rol          Rol    `gorm:"type:varchar(20);not null"`
	Activo       bool   `gorm:"not null;default:true"`
	// CamionID is the truck currently assigned to the seller.
	CamionID *uuid.UUID `gorm:"type:uuid"`
	// CargaActivaID points at the seller's single open load; nil when none.
	CargaActivaID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Usuario) TableName() string { return "usuarios" }
