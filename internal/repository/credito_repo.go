package repository

import (
	"context"

	"rutaventas/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreditoConPagado is a credit with the sum of its payments.
type CreditoConPagado struct {
	model.Credito
	Pagado decimal.Decimal
}

// Pendiente is monto - pagado, never below zero.
func (c CreditoConPagado) Pendiente() decimal.Decimal {
	p := c.Monto.Sub(c.Pagado)
	if p.IsNegative() {
		return decimal.Zero
	}
	return p
}

type CreditoRepository interface {
	CreateTx(tx *gorm.DB, c *model.Credito) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Credito, error)
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Credito, error)
	// PagadoTx is the sum of payments applied to one credit.
	PagadoTx(tx *gorm.DB, creditoID uuid.UUID) (decimal.Decimal, error)
	// SaldoClienteTx is the client's outstanding balance across all credits.
	SaldoClienteTx(tx *gorm.DB, clienteID uuid.UUID) (decimal.Decimal, error)
	UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado string) error
	CreatePagoTx(tx *gorm.DB, p *model.PagoCredito) error
	ListByCliente(ctx context.Context, clienteID uuid.UUID) ([]CreditoConPagado, error)
	ListPagos(ctx context.Context, creditoID uuid.UUID) ([]model.PagoCredito, error)
}

type creditoRepo struct{ db *gorm.DB }

func NewCreditoRepository(db *gorm.DB) CreditoRepository { return &creditoRepo{db: db} }

func (r *creditoRepo) CreateTx(tx *gorm.DB, c *model.Credito) error {
	return tx.Create(c).Error
}

func (r *creditoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Credito, error) {
	var c model.Credito
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *creditoRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Credito, error) {
	var c model.Credito
	err := tx.Clauses(forUpdate()).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *creditoRepo) PagadoTx(tx *gorm.DB, creditoID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := tx.Model(&model.PagoCredito{}).
		Select("COALESCE(SUM(monto), 0)").
		Where("credito_id = ?", creditoID).
		Row().Scan(&total)
	return total, err
}

func (r *creditoRepo) SaldoClienteTx(tx *gorm.DB, clienteID uuid.UUID) (decimal.Decimal, error) {
	var saldo decimal.Decimal
	err := tx.Raw(`
		SELECT COALESCE(SUM(GREATEST(c.monto - COALESCE(p.pagado, 0), 0)), 0)
		FROM creditos c
		LEFT JOIN (
			SELECT credito_id, SUM(monto) AS pagado FROM pagos_credito GROUP BY credito_id
		) p ON p.credito_id = c.id
		WHERE c.cliente_id = ?`, clienteID).
		Row().Scan(&saldo)
	return saldo, err
}

func (r *creditoRepo) UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado string) error {
	return tx.Model(&model.Credito{}).Where("id = ?", id).Update("estado", estado).Error
}

func (r *creditoRepo) CreatePagoTx(tx *gorm.DB, p *model.PagoCredito) error {
	return tx.Create(p).Error
}

func (r *creditoRepo) ListByCliente(ctx context.Context, clienteID uuid.UUID) ([]CreditoConPagado, error) {
	var rows []CreditoConPagado
	err := r.db.WithContext(ctx).
		Table("creditos c").
		Select("c.*, COALESCE((SELECT SUM(p.monto) FROM pagos_credito p WHERE p.credito_id = c.id), 0) AS pagado").
		Where("c.cliente_id = ?", clienteID).
		Order("c.created_at ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *creditoRepo) ListPagos(ctx context.Context, creditoID uuid.UUID) ([]model.PagoCredito, error) {
	var pagos []model.PagoCredito
	err := r.db.WithContext(ctx).Where("credito_id = ?", creditoID).Order("created_at ASC").Find(&pagos).Error
	return pagos, err
}
