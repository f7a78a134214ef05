package importer

import (
	"context"
	"errors"

	"seatsync-backend/storage"
)

var errDryRun = errors.New("dry run")

// Engine scopes the storage phase of a batch to a single transaction.
type Engine struct {
	store storage.Store
}

func NewEngine(store storage.Store) *Engine {
	return &Engine{store: store}
}

// Run executes fn inside one transaction. Any error from fn rolls back every
// write fn made. With dryRun set the transaction is rolled back even when fn
// succeeds.
func (e *Engine) Run(ctx context.Context, dryRun bool, fn func(tx storage.Store) error) error {
	err := e.store.Transaction(ctx, func(tx storage.Store) error {
		if err := fn(tx); err != nil {
			return err
		}
		if dryRun {
			return errDryRun
		}
		return nil
	})
	if errors.Is(err, errDryRun) {
		return nil
	}
	return err
}

// upsert looks up the row matching the natural key and either creates a new
// one or applies the update in place. It reports whether a row was created.
func upsert[T any](
	ctx context.Context,
	tx storage.Store,
	build func() *T,
	apply func(*T),
	where string, args ...any,
) (bool, error) {
	existing := new(T)
	err := tx.First(ctx, existing, where, args...)
	switch {
	case err == nil:
		apply(existing)
		return false, tx.Update(ctx, existing)
	case errors.Is(err, storage.ErrNotFound):
		rec := build()
		apply(rec)
		return true, tx.Create(ctx, rec)
	default:
		return false, err
	}
}
