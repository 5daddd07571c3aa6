package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	CreditoPendiente = "pendiente"
	CreditoPagado    = "pagado"
)

// Credito is an amount owed by a client, optionally tied to one sale.
type Credito struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClienteID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	VentaID     *uuid.UUID      `gorm:"type:uuid"`
	Monto       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descripcion string
	Estado      string `gorm:"type:varchar(20);not null;default:'pendiente'"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Credito) TableName() string { return "creditos" }

// PagoCredito is an immutable payment applied to one credit.
type PagoCredito struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreditoID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ClienteID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Monto         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TipoPago      string          `gorm:"type:varchar(20);not null"`
	Referencia    *string
	Observaciones *string
	CreatedAt     time.Time
}

func (PagoCredito) TableName() string { return "pagos_credito" }
