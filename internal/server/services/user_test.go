package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bmgraphics/fleetops/internal/common"
	"github.com/bmgraphics/fleetops/internal/server/auth"
	"github.com/bmgraphics/fleetops/internal/server/config"
	"github.com/bmgraphics/fleetops/internal/server/repositories/repomanager"
)

func newUserServiceForTest(t *testing.T) (*UserService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cfg := &config.Config{}
	cfg.LoadDefaults()
	return NewUserService(db, repomanager.NewPostgresRepositoryManager(), cfg), mock
}

func profileRow(hash []byte) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "full_name", "email", "role", "password_hash", "created_at"}).
		AddRow("u1", "Pat Miller", "pat@example.com", common.RoleInstaller, hash, time.Now())
}

func TestLogin_IssuesTokenPair(t *testing.T) {
	svc, mock := newUserServiceForTest(t)

	hash, err := auth.HashPassword("s3cret-pass")
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT (.+) FROM profiles WHERE email`).
		WithArgs("pat@example.com").
		WillReturnRows(profileRow(hash))
	mock.ExpectExec(`INSERT INTO refresh_tokens`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	pair, err := svc.Login(context.Background(), "pat@example.com", "s3cret-pass")
	require.NoError(t, err)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := auth.ParseToken(pair.AccessToken, []byte("secretKey"))
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, common.RoleInstaller, claims.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_WrongPasswordIndistinguishable(t *testing.T) {
	svc, mock := newUserServiceForTest(t)

	hash, err := auth.HashPassword("right-pass")
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT (.+) FROM profiles WHERE email`).
		WithArgs("pat@example.com").
		WillReturnRows(profileRow(hash))

	_, err = svc.Login(context.Background(), "pat@example.com", "wrong-pass")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	mock.ExpectQuery(`SELECT (.+) FROM profiles WHERE email`).
		WithArgs("nobody@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err = svc.Login(context.Background(), "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, common.ErrorUnauthorized, "unknown email and wrong password look the same")
}

func TestRefreshToken_RotatesInsideTx(t *testing.T) {
	svc, mock := newUserServiceForTest(t)

	hash, err := auth.HashPassword("x")
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT user_id, expires FROM refresh_tokens`).
		WithArgs("old-token").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires"}).
			AddRow("u1", time.Now().Add(time.Hour)))
	mock.ExpectQuery(`SELECT (.+) FROM profiles WHERE id`).
		WithArgs("u1").
		WillReturnRows(profileRow(hash))
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM refresh_tokens`).
		WithArgs("old-token").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO refresh_tokens`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	pair, err := svc.RefreshToken(context.Background(), "old-token")
	require.NoError(t, err)
	assert.NotEqual(t, "old-token", pair.RefreshToken)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshToken_Expired(t *testing.T) {
	svc, mock := newUserServiceForTest(t)

	mock.ExpectQuery(`SELECT user_id, expires FROM refresh_tokens`).
		WithArgs("stale-token").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires"}).
			AddRow("u1", time.Now().Add(-time.Minute)))

	_, err := svc.RefreshToken(context.Background(), "stale-token")
	assert.ErrorIs(t, err, common.ErrRefreshTokenExpired)
	assert.NoError(t, mock.ExpectationsWereMet())
}
