// Package orm is the gateway driver that talks to postgres directly through
// gorm, with users stored in the users table and JWT access tokens.
package orm

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/raids-lab/siteadmin/pkg/gateway"
	"github.com/raids-lab/siteadmin/pkg/util"
)

type Backend struct {
	db      *gorm.DB
	storage gateway.Storage
	auth    *Auth
}

func New(db *gorm.DB, storage gateway.Storage, tokens *util.TokenManager) *Backend {
	return &Backend{db: db, storage: storage, auth: NewAuth(db, tokens)}
}

func (b *Backend) Table(name string) gateway.RawTable { return &table{db: b.db, name: name} }

func (b *Backend) Storage() gateway.Storage { return b.storage }

func (b *Backend) Auth() gateway.Auth { return b.auth }

// Accounts exposes user management for the operator CLI.
func (b *Backend) Accounts() *Auth { return b.auth }

type table struct {
	db   *gorm.DB
	name string
}

func (t *table) query(ctx context.Context) *gorm.DB {
	return t.db.WithContext(ctx).Table(t.name)
}

func (t *table) Select(ctx context.Context, dst any, orders ...gateway.Order) error {
	q := t.query(ctx)
	for _, o := range orders {
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: o.Column}, Desc: o.Desc})
	}
	return q.Find(dst).Error
}

func (t *table) Single(ctx context.Context, dst any) error {
	res := t.query(ctx).Order("id").Limit(1).Find(dst)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gateway.ErrNoRows
	}
	return nil
}

func (t *table) Insert(ctx context.Context, row any) error {
	return t.query(ctx).Create(row).Error
}

func (t *table) Update(ctx context.Context, id int64, patch gateway.Patch) error {
	if len(patch) == 0 {
		return nil
	}
	return t.query(ctx).Where("id = ?", id).Updates(map[string]any(patch)).Error
}

func (t *table) Delete(ctx context.Context, id int64) error {
	return t.db.WithContext(ctx).
		Exec("DELETE FROM ? WHERE id = ?", clause.Table{Name: t.name}, id).Error
}

func (t *table) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := t.query(ctx).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
