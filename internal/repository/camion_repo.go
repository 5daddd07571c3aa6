package repository

import (
	"context"

	"rutaventas/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CamionRepository interface {
	Create(ctx context.Context, c *model.Camion) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Camion, error)
	List(ctx context.Context) ([]model.Camion, error)
	Update(ctx context.Context, c *model.Camion) error
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Camion, error)
}

type camionRepo struct{ db *gorm.DB }

func NewCamionRepository(db *gorm.DB) CamionRepository { return &camionRepo{db: db} }

func (r *camionRepo) Create(ctx context.Context, c *model.Camion) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *camionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Camion, error) {
	var c model.Camion
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *camionRepo) List(ctx context.Context) ([]model.Camion, error) {
	var camiones []model.Camion
	err := r.db.WithContext(ctx).Order("placa ASC").Find(&camiones).Error
	return camiones, err
}

func (r *camionRepo) Update(ctx context.Context, c *model.Camion) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *camionRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Camion, error) {
	var c model.Camion
	err := tx.Clauses(forUpdate()).First(&c, "id = ?", id).Error
	return &c, err
}
