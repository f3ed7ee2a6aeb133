package dbx

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:dbxtest?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(2)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS scans (id INTEGER PRIMARY KEY, vin TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`DELETE FROM scans`)
	require.NoError(t, err)
	return db
}

func scanCount(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM scans`).Scan(&n))
	return n
}

func TestWithTxCommit(t *testing.T) {
	db := openTestDB(t)

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO scans(vin) VALUES ('1M8GDM9AXKP042788')`)
		return err
	})
	require.NoError(t, err)
	require.Equal(t, 1, scanCount(t, db))
}

func TestWithTxRollsBackOnError(t *testing.T) {
	db := openTestDB(t)

	wantErr := errors.New("matcher failed")
	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO scans(vin) VALUES ('x')`); err != nil {
			return err
		}
		return wantErr
	})
	require.ErrorIs(t, err, wantErr)
	require.Equal(t, 0, scanCount(t, db), "insert must not survive the error")
}

func TestWithTxRollsBackOnPanic(t *testing.T) {
	db := openTestDB(t)

	defer func() {
		require.NotNil(t, recover(), "panic should propagate")
		require.Equal(t, 0, scanCount(t, db), "insert must not survive the panic")
	}()

	_ = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO scans(vin) VALUES ('x')`); err != nil {
			return err
		}
		panic("mid-transaction failure")
	})
}

func TestWithTxBeginError(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Close())

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		return nil
	})
	require.Error(t, err)
}
