// Package storage exposes the capability set the rest of the backend needs
// from a relational store: find, create, update, count and transactions.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")
)

// Store is implemented by every storage backend. Conditions use the ORM's
// placeholder syntax ("floor_id = ? AND code = ?"); an empty condition
// matches every row.
type Store interface {
	First(ctx context.Context, dest any, where string, args ...any) error
	Find(ctx context.Context, dest any, where string, args ...any) error
	Count(ctx context.Context, model any, where string, args ...any) (int64, error)
	Create(ctx context.Context, value any) error
	Update(ctx context.Context, value any) error
	// Transaction runs fn against a Store scoped to one transaction. The
	// transaction commits when fn returns nil and rolls back when fn returns
	// an error or panics. Called on a transaction-scoped Store it opens a
	// savepoint instead, and an error rolls back to it while the outer
	// transaction stays usable.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) scoped(ctx context.Context, where string, args []any) *gorm.DB {
	q := s.db.WithContext(ctx)
	if where != "" {
		q = q.Where(where, args...)
	}
	return q
}

// First loads one matching row into dest. Misses are ordinary during imports,
// so it queries with Find and reports ErrNotFound itself instead of letting
// the ORM log every miss as an error.
func (s *GormStore) First(ctx context.Context, dest any, where string, args ...any) error {
	res := s.scoped(ctx, where, args).Limit(1).Find(dest)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) Find(ctx context.Context, dest any, where string, args ...any) error {
	return translate(s.scoped(ctx, where, args).Find(dest).Error)
}

func (s *GormStore) Count(ctx context.Context, model any, where string, args ...any) (int64, error) {
	var n int64
	err := s.scoped(ctx, where, args).Model(model).Count(&n).Error
	return n, translate(err)
}

func (s *GormStore) Create(ctx context.Context, value any) error {
	return translate(s.db.WithContext(ctx).Create(value).Error)
}

func (s *GormStore) Update(ctx context.Context, value any) error {
	return translate(s.db.WithContext(ctx).Save(value).Error)
}

func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

// translate maps ORM and driver errors onto the package sentinels so callers
// never depend on a particular database dialect.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}

// isUniqueViolation catches drivers that do not implement gorm's error
// translator.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
