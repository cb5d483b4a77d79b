package account

import (
	"context"
	"regexp"
	"testing"
	"time"

	accounterrors "github.com/rinov1/WorkWave/internal/account/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return gdb, mock
}

func TestRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("stores lowercased email", func(t *testing.T) {
		gdb, mock := newMockDB(t)
		repo := NewRepository(gdb)

		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "accounts"`)).
			WithArgs("anna@bk.ru", "hash", "salt", false, sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

		a := &Account{Email: "  Anna@BK.ru ", PasswordHash: "hash", PasswordSalt: "salt"}
		require.NoError(t, repo.Create(ctx, a))

		assert.Equal(t, int64(7), a.ID)
		assert.Equal(t, "anna@bk.ru", a.Email)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("case-insensitive duplicate", func(t *testing.T) {
		gdb, mock := newMockDB(t)
		repo := NewRepository(gdb)

		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "accounts"`)).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "uq_accounts_email"})

		err := repo.Create(ctx, &Account{Email: "a@x.com", PasswordHash: "h", PasswordSalt: "s"})

		assert.ErrorIs(t, err, accounterrors.ErrDuplicateEmail)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_FindByEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		gdb, mock := newMockDB(t)
		repo := NewRepository(gdb)

		created := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "accounts" WHERE LOWER(email) = $1`)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "password_salt", "is_hr", "created_at"}).
				AddRow(3, "hr@bk.ru", "h", "s", true, created))

		a, err := repo.FindByEmail(ctx, "HR@bk.ru")
		require.NoError(t, err)
		require.NotNil(t, a)
		assert.Equal(t, int64(3), a.ID)
		assert.True(t, a.IsHR)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("absent returns nil", func(t *testing.T) {
		gdb, mock := newMockDB(t)
		repo := NewRepository(gdb)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "accounts"`)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		a, err := repo.FindByEmail(ctx, "nobody@bk.ru")
		assert.NoError(t, err)
		assert.Nil(t, a)
	})
}

func TestRepository_Delete(t *testing.T) {
	ctx := context.Background()
	gdb, mock := newMockDB(t)
	repo := NewRepository(gdb)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "accounts" WHERE id = $1`)).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "accounts"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.Delete(ctx, 9))
	assert.ErrorIs(t, repo.Delete(ctx, 10), accounterrors.ErrAccountNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListWithoutProfile(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewRepository(gdb)

	mock.ExpectQuery(`NOT EXISTS \(SELECT 1 FROM profiles`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "is_hr"}).
			AddRow(4, "a@bk.ru", false).
			AddRow(5, "b@bk.ru", false))

	rows, err := repo.ListWithoutProfile(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, "b@bk.ru", rows[1].Email)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@x.com", NormalizeEmail(" A@X.com "))
}
