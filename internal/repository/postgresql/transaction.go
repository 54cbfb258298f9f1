package postgresql

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/attendly/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type txContextKey struct{}

// ContextWithTx stores a transaction in the context for repositories to
// pick up via GetQuerier.
func ContextWithTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txContextKey{}, tx)
}

// GetQuerier returns either the ambient transaction or the pool, so
// repositories work both inside and outside WithTransaction.
func GetQuerier(ctx context.Context, db *database.DB) database.Querier {
	if tx, ok := ctx.Value(txContextKey{}).(pgx.Tx); ok {
		return tx
	}
	return db.Pool
}

// WithTransaction runs fn inside a transaction. Any error from fn rolls the
// transaction back and is returned unchanged so callers can match sentinels.
func WithTransaction(ctx context.Context, db *database.DB, fn func(ctx context.Context) error) error {
	tx, err := db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	done := false
	defer func() {
		if done {
			return
		}
		// Reached on panic out of fn; roll back before re-panicking.
		rollback(ctx, tx)
	}()

	if err := fn(ContextWithTx(ctx, tx)); err != nil {
		done = true
		rollback(ctx, tx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		done = true
		return fmt.Errorf("commit transaction: %w", err)
	}
	done = true
	return nil
}

func rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && err != pgx.ErrTxClosed {
		slog.Error("transaction rollback failed", "error", err)
	}
}
