package repository

import (
	"context"

	"rutaventas/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UsuarioRepository interface {
	Create(ctx context.Context, u *model.Usuario) error
	FindByUsername(ctx context.Context, username string) (*model.Usuario, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error)
	List(ctx context.Context, rol string, incluirInactivos bool) ([]model.Usuario, error)
	Update(ctx context.Context, u *model.Usuario) error
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// Used inside transactions; callers must pass the tx instance
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Usuario, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Usuario, error)
	FindByCamionTx(tx *gorm.DB, camionID uuid.UUID) ([]model.Usuario, error)
	SetCamionTx(tx *gorm.DB, id uuid.UUID, camionID *uuid.UUID) error
	SetCargaActivaTx(tx *gorm.DB, id uuid.UUID, cargaID uuid.UUID) error
	// ClearCargaActivaTx unsets the seller's active load only if it still is cargaID.
	ClearCargaActivaTx(tx *gorm.DB, id uuid.UUID, cargaID uuid.UUID) error
}

type usuarioRepo struct{ db *gorm.DB }

func NewUsuarioRepository(db *gorm.DB) UsuarioRepository { return &usuarioRepo{db: db} }

func (r *usuarioRepo) Create(ctx context.Context, u *model.Usuario) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *usuarioRepo) FindByUsername(ctx context.Context, username string) (*model.Usuario, error) {
	var u model.Usuario
	// Accept login by username OR email (case-insensitive email match)
	err := r.db.WithContext(ctx).
		Where("username = ? OR LOWER(email) = LOWER(?)", username, username).
		First(&u).Error
	return &u, err
}

func (r *usuarioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	return &u, err
}

func (r *usuarioRepo) List(ctx context.Context, rol string, incluirInactivos bool) ([]model.Usuario, error) {
	var users []model.Usuario
	q := r.db.WithContext(ctx)
	if rol != "" {
		q = q.Where("rol = ?", rol)
	}
	if !incluirInactivos {
		q = q.Where("activo = true")
	}
	err := q.Order("username ASC").Find(&users).Error
	return users, err
}

func (r *usuarioRepo) Update(ctx context.Context, u *model.Usuario) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *usuarioRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&model.Usuario{}).Where("id = ?", id).Update("activo", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *usuarioRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Usuario, error) {
	var u model.Usuario
	err := tx.Clauses(forUpdate()).First(&u, "id = ?", id).Error
	return &u, err
}

func (r *usuarioRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Usuario, error) {
	var u model.Usuario
	err := tx.First(&u, "id = ?", id).Error
	return &u, err
}

func (r *usuarioRepo) FindByCamionTx(tx *gorm.DB, camionID uuid.UUID) ([]model.Usuario, error) {
	var users []model.Usuario
	err := tx.Clauses(forUpdate()).Where("camion_id = ?", camionID).Order("id").Find(&users).Error
	return users, err
}

func (r *usuarioRepo) SetCamionTx(tx *gorm.DB, id uuid.UUID, camionID *uuid.UUID) error {
	return tx.Model(&model.Usuario{}).Where("id = ?", id).Update("camion_id", camionID).Error
}

func (r *usuarioRepo) SetCargaActivaTx(tx *gorm.DB, id uuid.UUID, cargaID uuid.UUID) error {
	return tx.Model(&model.Usuario{}).Where("id = ?", id).Update("carga_activa_id", cargaID).Error
}

func (r *usuarioRepo) ClearCargaActivaTx(tx *gorm.DB, id uuid.UUID, cargaID uuid.UUID) error {
	return tx.Model(&model.Usuario{}).
		Where("id = ? AND carga_activa_id = ?", id, cargaID).
		Update("carga_activa_id", nil).Error
}
