package importer

import (
	"context"
	"fmt"
	"testing"

	"seatsync-backend/database"
	"seatsync-backend/models"
	"seatsync-backend/storage"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func init() {
	passwordCost = bcrypt.MinCost
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatal(err)
	}
	// One connection, or each pooled connection sees its own empty database.
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatal(err)
	}
	return db
}

func count(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatal(err)
	}
	return n
}

// failingStore fails the n-th Create it sees with a uniqueness violation,
// both inside and outside transactions.
type failingStore struct {
	storage.Store
	failOn  int
	creates *int
}

func newFailingStore(inner storage.Store, failOn int) failingStore {
	return failingStore{Store: inner, failOn: failOn, creates: new(int)}
}

func (s failingStore) Create(ctx context.Context, value any) error {
	*s.creates++
	if *s.creates == s.failOn {
		return storage.ErrDuplicate
	}
	return s.Store.Create(ctx, value)
}

func (s failingStore) Transaction(ctx context.Context, fn func(tx storage.Store) error) error {
	return s.Store.Transaction(ctx, func(tx storage.Store) error {
		return fn(failingStore{Store: tx, failOn: s.failOn, creates: s.creates})
	})
}

// countingStore counts Create calls per concrete type.
type countingStore struct {
	storage.Store
	creates map[string]int
}

func (s *countingStore) Create(ctx context.Context, value any) error {
	s.creates[fmt.Sprintf("%T", value)]++
	return s.Store.Create(ctx, value)
}

func (s *countingStore) Transaction(ctx context.Context, fn func(tx storage.Store) error) error {
	return s.Store.Transaction(ctx, func(tx storage.Store) error {
		return fn(&countingStore{Store: tx, creates: s.creates})
	})
}

// staleRoomStore answers room lookups as if no room existed yet. That is the
// view a batch has when a concurrent import commits the same room between
// its lookup and its insert.
type staleRoomStore struct {
	storage.Store
}

func (s staleRoomStore) First(ctx context.Context, dest any, where string, args ...any) error {
	if _, ok := dest.(*models.Room); ok {
		return storage.ErrNotFound
	}
	return s.Store.First(ctx, dest, where, args...)
}

func (s staleRoomStore) Transaction(ctx context.Context, fn func(tx storage.Store) error) error {
	return s.Store.Transaction(ctx, func(tx storage.Store) error {
		return fn(staleRoomStore{Store: tx})
	})
}
