package repository

import (
	"context"

	"rutaventas/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VisitaRepository interface {
	Create(ctx context.Context, v *model.Visita) error
	ListByVendedor(ctx context.Context, vendedorID uuid.UUID, fecha string) ([]model.Visita, error)
}

type visitaRepo struct{ db *gorm.DB }

func NewVisitaRepository(db *gorm.DB) VisitaRepository { return &visitaRepo{db: db} }

func (r *visitaRepo) Create(ctx context.Context, v *model.Visita) error {
	return r.db.WithContext(ctx).Omit("Cliente").Create(v).Error
}

func (r *visitaRepo) ListByVendedor(ctx context.Context, vendedorID uuid.UUID, fecha string) ([]model.Visita, error) {
	var visitas []model.Visita
	q := r.db.WithContext(ctx).Where("vendedor_id = ?", vendedorID)
	if fecha != "" {
		q = q.Where("DATE(created_at) = ?", fecha)
	} else {
		q = q.Where("DATE(created_at) = CURRENT_DATE")
	}
	err := q.Preload("Cliente").Order("created_at DESC").Find(&visitas).Error
	return visitas, err
}
