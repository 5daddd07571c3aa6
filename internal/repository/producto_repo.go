package repository

import (
	"context"

	"rutaventas/internal/dto"
	"rutaventas/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductoRepository defines the data access contract for catalog products.
// Services depend on this interface, not on the concrete GORM implementation,
// so unit tests can swap in stubs.
type ProductoRepository interface {
	Create(ctx context.Context, p *model.Producto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error)
	ListActivos(ctx context.Context) ([]model.Producto, error)
	Update(ctx context.Context, p *model.Producto) error
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// FindByIDsTx returns the non-deleted products among ids, keyed by id.
	FindByIDsTx(tx *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]model.Producto, error)
	// FindActivosByNombresTx matches active products by case-insensitive name.
	// nombres must already be lower-cased.
	FindActivosByNombresTx(tx *gorm.DB, nombres []string) ([]model.Producto, error)
	// FindByIDForUpdateTx serializes writers that depend on a product, such as
	// discount window checks.
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Producto, error)
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) Create(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).Where("eliminado = false").First(&p, "id = ?", id).Error
	return &p, err
}

func (r *productoRepo) List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	var productos []model.Producto
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Producto{}).Where("eliminado = false")

	switch filter.Activo {
	case "false":
		q = q.Where("activo = false")
	case "all":
	default:
		q = q.Where("activo = true")
	}
	if filter.Nombre != "" {
		q = q.Where("nombre ILIKE ?", "%"+filter.Nombre+"%")
	}
	if filter.Categoria != "" {
		q = q.Where("categoria = ?", filter.Categoria)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("nombre ASC").Limit(filter.Limit).Offset(offset).Find(&productos).Error
	return productos, total, err
}

func (r *productoRepo) ListActivos(ctx context.Context) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).
		Where("activo = true AND eliminado = false").
		Order("nombre ASC").
		Find(&productos).Error
	return productos, err
}

func (r *productoRepo) Update(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productoRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&model.Producto{}).
		Where("id = ? AND eliminado = false", id).
		Updates(map[string]interface{}{"eliminado": true, "activo": false})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productoRepo) FindByIDsTx(tx *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]model.Producto, error) {
	out := make(map[uuid.UUID]model.Producto, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var productos []model.Producto
	if err := tx.Where("id IN ? AND eliminado = false", ids).Find(&productos).Error; err != nil {
		return nil, err
	}
	for _, p := range productos {
		out[p.ID] = p
	}
	return out, nil
}

func (r *productoRepo) FindActivosByNombresTx(tx *gorm.DB, nombres []string) ([]model.Producto, error) {
	var productos []model.Producto
	if len(nombres) == 0 {
		return productos, nil
	}
	err := tx.Where("LOWER(nombre) IN ? AND activo = true AND eliminado = false", nombres).
		Order("id ASC").Find(&productos).Error
	return productos, err
}

func (r *productoRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := tx.Clauses(forUpdate()).Where("eliminado = false").First(&p, "id = ?", id).Error
	return &p, err
}
