// Package dbx holds the small database plumbing the repositories share: the
// DBTX interface that lets a repository run against either a *sql.DB or an
// open *sql.Tx, and WithTx for wrapping multi-statement work in a
// transaction.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is the slice of database/sql that repositories need. *sql.DB and
// *sql.Tx both satisfy it, so the same repository code serves plain and
// transactional callers.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx opens a transaction, calls fn with it, and commits if fn returned
// nil. Any error, and any panic, rolls the transaction back; panics are
// re-raised by the runtime after the deferred rollback.
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) error {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(ctx, tx); err != nil {
		return err
	}

	committed = true
	return tx.Commit()
}
