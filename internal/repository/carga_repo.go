package repository

import (
	"context"
	"time"

	"rutaventas/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LineaFilter selects the catalogued lines of one load by product id or by
// display name. Lines staged without a catalog product are never matched.
type LineaFilter struct {
	ProductoIDs []uuid.UUID
	Nombres     []string // compared case-insensitively
}

type CargaRepository interface {
	CreateTx(tx *gorm.DB, c *model.Carga) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Carga, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Carga, error)
	// FindByIDLockedTx takes a row lock of the given strength on the load.
	// Sales and stage-ins share-lock it; closing the load update-locks it.
	FindByIDLockedTx(tx *gorm.DB, id uuid.UUID, strength string) (*model.Carga, error)
	MarcarListaTx(tx *gorm.DB, id uuid.UUID, at time.Time) error
	MarcarProcesadaTx(tx *gorm.DB, id uuid.UUID, at time.Time) error

	ListLineas(ctx context.Context, cargaID uuid.UUID) ([]model.CargaProducto, error)
	ListLineasTx(tx *gorm.DB, cargaID uuid.UUID) ([]model.CargaProducto, error)
	// UpsertLineaTx adds l.CantidadCargada to the existing line for the same
	// product (or name, when uncatalogued). Price and name of an existing line
	// are left as first captured.
	UpsertLineaTx(tx *gorm.DB, l *model.CargaProducto) error
	// LockLineasTx locks the matching lines FOR UPDATE in producto_id order,
	// the same order stage-ins upsert them in.
	LockLineasTx(tx *gorm.DB, cargaID uuid.UUID, f LineaFilter) ([]model.CargaProducto, error)
	IncrementarVendidaTx(tx *gorm.DB, lineaID uuid.UUID, cantidad decimal.Decimal) error
	IncrementarDevueltaTx(tx *gorm.DB, lineaID uuid.UUID, cantidad decimal.Decimal) error
}

type cargaRepo struct{ db *gorm.DB }

func NewCargaRepository(db *gorm.DB) CargaRepository { return &cargaRepo{db: db} }

func (r *cargaRepo) CreateTx(tx *gorm.DB, c *model.Carga) error {
	return tx.Omit(clause.Associations).Create(c).Error
}

func (r *cargaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Carga, error) {
	return r.FindByIDTx(r.db.WithContext(ctx), id)
}

func (r *cargaRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Carga, error) {
	var c model.Carga
	err := tx.First(&c, "id = ?", id).Error
	return &c, err
}

func (r *cargaRepo) FindByIDLockedTx(tx *gorm.DB, id uuid.UUID, strength string) (*model.Carga, error) {
	var c model.Carga
	err := tx.Clauses(clause.Locking{Strength: strength}).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *cargaRepo) MarcarListaTx(tx *gorm.DB, id uuid.UUID, at time.Time) error {
	return tx.Model(&model.Carga{}).Where("id = ?", id).
		Updates(map[string]interface{}{"lista_para_confirmar": true, "lista_at": at}).Error
}

func (r *cargaRepo) MarcarProcesadaTx(tx *gorm.DB, id uuid.UUID, at time.Time) error {
	return tx.Model(&model.Carga{}).Where("id = ?", id).
		Updates(map[string]interface{}{"procesada": true, "procesada_at": at}).Error
}

func (r *cargaRepo) ListLineas(ctx context.Context, cargaID uuid.UUID) ([]model.CargaProducto, error) {
	return r.ListLineasTx(r.db.WithContext(ctx), cargaID)
}

func (r *cargaRepo) ListLineasTx(tx *gorm.DB, cargaID uuid.UUID) ([]model.CargaProducto, error) {
	var lineas []model.CargaProducto
	err := tx.Where("carga_id = ?", cargaID).Order("nombre_producto ASC, id ASC").Find(&lineas).Error
	return lineas, err
}

func (r *cargaRepo) UpsertLineaTx(tx *gorm.DB, l *model.CargaProducto) error {
	onConflict := clause.OnConflict{
		Columns: []clause.Column{{Name: "carga_id"}, {Name: "producto_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"cantidad_cargada": gorm.Expr("carga_productos.cantidad_cargada + excluded.cantidad_cargada"),
			"updated_at":       gorm.Expr("excluded.updated_at"),
		}),
	}
	if l.ProductoID == nil {
		onConflict.Columns = []clause.Column{{Name: "carga_id"}, {Name: "nombre_producto"}}
		onConflict.TargetWhere = clause.Where{Exprs: []clause.Expression{clause.Expr{SQL: "producto_id IS NULL"}}}
	}
	return tx.Clauses(onConflict).Create(l).Error
}

func (r *cargaRepo) LockLineasTx(tx *gorm.DB, cargaID uuid.UUID, f LineaFilter) ([]model.CargaProducto, error) {
	var lineas []model.CargaProducto
	if len(f.ProductoIDs) == 0 && len(f.Nombres) == 0 {
		return lineas, nil
	}

	q := tx.Clauses(forUpdate()).Where("carga_id = ? AND producto_id IS NOT NULL", cargaID)
	switch {
	case len(f.ProductoIDs) > 0 && len(f.Nombres) > 0:
		q = q.Where("(producto_id IN ? OR LOWER(nombre_producto) IN ?)", f.ProductoIDs, f.Nombres)
	case len(f.ProductoIDs) > 0:
		q = q.Where("producto_id IN ?", f.ProductoIDs)
	default:
		q = q.Where("LOWER(nombre_producto) IN ?", f.Nombres)
	}
	err := q.Order("producto_id ASC").Find(&lineas).Error
	return lineas, err
}

func (r *cargaRepo) IncrementarVendidaTx(tx *gorm.DB, lineaID uuid.UUID, cantidad decimal.Decimal) error {
	return tx.Model(&model.CargaProducto{}).Where("id = ?", lineaID).Updates(map[string]interface{}{
		"cantidad_vendida": gorm.Expr("cantidad_vendida + ?", cantidad),
		"updated_at":       time.Now(),
	}).Error
}

func (r *cargaRepo) IncrementarDevueltaTx(tx *gorm.DB, lineaID uuid.UUID, cantidad decimal.Decimal) error {
	return tx.Model(&model.CargaProducto{}).Where("id = ?", lineaID).Updates(map[string]interface{}{
		"cantidad_devuelta": gorm.Expr("cantidad_devuelta + ?", cantidad),
		"updated_at":        time.Now(),
	}).Error
}
