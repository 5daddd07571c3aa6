package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cliente is a route client. CodigoQR is the token printed on the client's QR
// card and scanned by sellers in the field.
type Cliente struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre        string    `gorm:"not null"`
	Documento     *string
	Telefono      *string
	Direccion     *string
	Email         *string
	CodigoQR      string          `gorm:"column:codigo_qr;uniqueIndex;not null"`
	LimiteCredito decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Activo        bool            `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Cliente) TableName() string { return "clientes" }
