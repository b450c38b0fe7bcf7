package accounts

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/localmart-users/internal/common"
	"github.com/dmitrijs2005/localmart-users/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columns = []string{"id", "name", "email", "password_hash", "is_admin", "created_at", "updated_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewPostgresRepository(db), mock
}

func accountRow(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(columns).AddRow(int64(1), "Ann", "ann@x.io", "$2a$10$hash", false, now, now)
}

func TestFindByEmail(t *testing.T) {
	now := time.Now().UTC()

	t.Run("found", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(`(?s)^SELECT id, name, email, password_hash, is_admin, created_at, updated_at FROM users\s+WHERE email = \$1`).
			WithArgs("ann@x.io").
			WillReturnRows(accountRow(now))

		got, err := repo.FindByEmail(context.Background(), "ann@x.io")
		require.NoError(t, err)
		assert.Equal(t, &models.Account{
			ID: 1, Name: "Ann", Email: "ann@x.io", PasswordHash: "$2a$10$hash", CreatedAt: now, UpdatedAt: now,
		}, got)
	})

	t.Run("absent", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(`FROM users\s+WHERE email = \$1`).
			WithArgs("nobody@x.io").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.FindByEmail(context.Background(), "nobody@x.io")
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("db error", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(`FROM users\s+WHERE email = \$1`).
			WillReturnError(errors.New("conn reset"))

		_, err := repo.FindByEmail(context.Background(), "ann@x.io")
		require.Error(t, err)
		assert.NotErrorIs(t, err, common.ErrNotFound)
		assert.Contains(t, err.Error(), "db error")
	})
}

func TestFindByID(t *testing.T) {
	now := time.Now().UTC()

	t.Run("found", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(`FROM users\s+WHERE id = \$1`).
			WithArgs(int64(1)).
			WillReturnRows(accountRow(now))

		got, err := repo.FindByID(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.ID)
		assert.Equal(t, "ann@x.io", got.Email)
	})

	t.Run("absent", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(`FROM users\s+WHERE id = \$1`).
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows(columns))

		_, err := repo.FindByID(context.Background(), 99)
		assert.ErrorIs(t, err, common.ErrNotFound)
	})
}

func TestExistsByEmail(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`^SELECT EXISTS \(SELECT 1 FROM users WHERE email = \$1\)$`).
		WithArgs("ann@x.io").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(`^SELECT EXISTS`).
		WithArgs("bob@x.io").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	ok, err := repo.ExistsByEmail(context.Background(), "ann@x.io")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.ExistsByEmail(context.Background(), "bob@x.io")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInsert(t *testing.T) {
	now := time.Now().UTC()
	q := `(?s)^INSERT\s+INTO\s+users\s*\(name,\s*email,\s*password_hash\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*RETURNING id`

	t.Run("success", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q).
			WithArgs("Ann", "ann@x.io", "$2a$10$hash").
			WillReturnRows(accountRow(now))

		got, err := repo.Insert(context.Background(), "Ann", "ann@x.io", "$2a$10$hash")
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.ID)
		assert.False(t, got.IsAdmin)
	})

	t.Run("unique violation", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q).
			WithArgs("Ann", "ann@x.io", "$2a$10$hash").
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

		_, err := repo.Insert(context.Background(), "Ann", "ann@x.io", "$2a$10$hash")
		assert.ErrorIs(t, err, common.ErrDuplicateEmail)
	})

	t.Run("other error", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q).WillReturnError(errors.New("boom"))

		_, err := repo.Insert(context.Background(), "Ann", "ann@x.io", "h")
		require.Error(t, err)
		assert.NotErrorIs(t, err, common.ErrDuplicateEmail)
	})
}

func TestUpdate(t *testing.T) {
	now := time.Now().UTC()
	q := `(?s)^UPDATE users\s+SET name = COALESCE\(\$2, name\),\s+email = COALESCE\(\$3, email\),\s+updated_at = NOW\(\)\s+WHERE id = \$1`
	name := "Ann B"
	email := "annb@x.io"

	t.Run("name only", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q).
			WithArgs(int64(1), name, nil).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(int64(1), name, "ann@x.io", "h", false, now, now))

		got, err := repo.Update(context.Background(), 1, models.AccountUpdate{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, name, got.Name)
		assert.Equal(t, "ann@x.io", got.Email)
	})

	t.Run("both fields", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q).
			WithArgs(int64(1), name, email).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(int64(1), name, email, "h", false, now, now))

		got, err := repo.Update(context.Background(), 1, models.AccountUpdate{Name: &name, Email: &email})
		require.NoError(t, err)
		assert.Equal(t, email, got.Email)
	})

	t.Run("absent", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q).
			WithArgs(int64(42), nil, email).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.Update(context.Background(), 42, models.AccountUpdate{Email: &email})
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("email conflict", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q).
			WithArgs(int64(1), nil, email).
			WillReturnError(&pgconn.PgError{Code: "23505"})

		_, err := repo.Update(context.Background(), 1, models.AccountUpdate{Email: &email})
		assert.ErrorIs(t, err, common.ErrDuplicateEmail)
	})
}
