package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Transactor runs fn inside one database transaction. The transaction commits
// when fn returns nil and rolls back on error or panic; its connection goes
// back to the pool either way.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type gormTransactor struct{ db *gorm.DB }

func NewTransactor(db *gorm.DB) Transactor { return &gormTransactor{db: db} }

func (t *gormTransactor) WithinTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return t.db.WithContext(ctx).Transaction(fn)
}

// Row lock strengths used with clause.Locking.
const (
	LockUpdate = "UPDATE"
	LockShare  = "SHARE"
)

func forUpdate() clause.Locking { return clause.Locking{Strength: LockUpdate} }
