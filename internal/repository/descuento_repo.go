package repository

import (
	"context"
	"time"

	"rutaventas/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DescuentoRepository interface {
	CreateTx(tx *gorm.DB, d *model.Descuento) error
	FindActivosByProductoTx(tx *gorm.DB, productoID uuid.UUID) ([]model.Descuento, error)
	ListVigentes(ctx context.Context, at time.Time) ([]model.Descuento, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type descuentoRepo struct{ db *gorm.DB }

func NewDescuentoRepository(db *gorm.DB) DescuentoRepository { return &descuentoRepo{db: db} }

func (r *descuentoRepo) CreateTx(tx *gorm.DB, d *model.Descuento) error {
	return tx.Create(d).Error
}

func (r *descuentoRepo) FindActivosByProductoTx(tx *gorm.DB, productoID uuid.UUID) ([]model.Descuento, error) {
	var ds []model.Descuento
	err := tx.Where("producto_id = ? AND activo = true", productoID).Find(&ds).Error
	return ds, err
}

func (r *descuentoRepo) ListVigentes(ctx context.Context, at time.Time) ([]model.Descuento, error) {
	var ds []model.Descuento
	err := r.db.WithContext(ctx).
		Preload("Producto").
		Where("activo = true AND fecha_inicio <= ? AND fecha_fin >= ?", at, at).
		Order("fecha_fin ASC").
		Find(&ds).Error
	return ds, err
}

func (r *descuentoRepo) Desactivar(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&model.Descuento{}).Where("id = ?", id).Update("activo", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
