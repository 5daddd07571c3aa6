package repository

import (
	"context"

	"rutaventas/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VentaPublicoRepository interface {
	// CreateTx inserts the header and its details in one call.
	CreateTx(tx *gorm.DB, v *model.VentaPublico) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.VentaPublico, error)
	// ListByVendedor returns the seller's sales of one calendar day
	// (YYYY-MM-DD); an empty fecha means today.
	ListByVendedor(ctx context.Context, vendedorID uuid.UUID, fecha string) ([]model.VentaPublico, error)
}

type ventaPublicoRepo struct{ db *gorm.DB }

func NewVentaPublicoRepository(db *gorm.DB) VentaPublicoRepository {
	return &ventaPublicoRepo{db: db}
}

func (r *ventaPublicoRepo) CreateTx(tx *gorm.DB, v *model.VentaPublico) error {
	return tx.Create(v).Error
}

func (r *ventaPublicoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.VentaPublico, error) {
	var v model.VentaPublico
	err := r.db.WithContext(ctx).Preload("Detalles").First(&v, "id = ?", id).Error
	return &v, err
}

func (r *ventaPublicoRepo) ListByVendedor(ctx context.Context, vendedorID uuid.UUID, fecha string) ([]model.VentaPublico, error) {
	var ventas []model.VentaPublico
	q := r.db.WithContext(ctx).Where("vendedor_id = ?", vendedorID)
	if fecha != "" {
		q = q.Where("DATE(created_at) = ?", fecha)
	} else {
		q = q.Where("DATE(created_at) = CURRENT_DATE")
	}
	err := q.Preload("Detalles").Order("created_at DESC").Find(&ventas).Error
	return ventas, err
}
