package repository

import (
	"context"

	"rutaventas/internal/dto"
	"rutaventas/internal/model"

	"gorm.io/gorm"
)

type DevolucionRepository interface {
	CreateTx(tx *gorm.DB, d *model.Devolucion) error
	// Resumen aggregates returned quantities per product between two dates
	// (inclusive, YYYY-MM-DD). Empty bounds are open.
	Resumen(ctx context.Context, filter dto.ResumenFilter) ([]dto.ResumenDevolucionItem, error)
}

type devolucionRepo struct{ db *gorm.DB }

func NewDevolucionRepository(db *gorm.DB) DevolucionRepository { return &devolucionRepo{db: db} }

func (r *devolucionRepo) CreateTx(tx *gorm.DB, d *model.Devolucion) error {
	return tx.Create(d).Error
}

func (r *devolucionRepo) Resumen(ctx context.Context, filter dto.ResumenFilter) ([]dto.ResumenDevolucionItem, error) {
	var rows []dto.ResumenDevolucionItem
	q := r.db.WithContext(ctx).
		Table("devoluciones_detalle dd").
		Select("dd.producto_id::text AS producto_id, MAX(dd.nombre_producto) AS nombre, " +
			"SUM(dd.cantidad) AS total_devuelto, COUNT(DISTINCT dd.devolucion_id) AS devoluciones").
		Joins("JOIN devoluciones d ON d.id = dd.devolucion_id")
	if filter.Desde != "" {
		q = q.Where("DATE(d.created_at) >= ?", filter.Desde)
	}
	if filter.Hasta != "" {
		q = q.Where("DATE(d.created_at) <= ?", filter.Hasta)
	}
	err := q.Group("dd.producto_id").Order("total_devuelto DESC").Scan(&rows).Error
	return rows, err
}
