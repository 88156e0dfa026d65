package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/models"
	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/pkg/database"
)

func newMock(t *testing.T) (*database.Client, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return database.NewClient(sqlxdb), mock, func() {
		db.Close()
	}
}

var userColumns = []string{"user_id", "username", "email", "password_hash", "full_name", "role", "is_active", "auth_provider_required", "last_login"}

func TestFindActiveByLogin(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	rows := sqlmock.NewRows(userColumns).
		AddRow(int64(7), "jdoe", "jdoe@example.com", "hash", "J Doe", models.RoleAdmin, true, nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE (username = $1 OR email = $1) AND is_active = TRUE LIMIT 1")).
		WithArgs("jdoe@example.com").
		WillReturnRows(rows)

	user, err := repo.FindActiveByLogin(context.Background(), "jdoe@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.UserID)
	assert.Equal(t, "jdoe", user.Username)
	assert.False(t, user.RequiresProvider(models.AuthProviderGoogle))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindActiveByLoginGoogleAccount(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	rows := sqlmock.NewRows(userColumns).
		AddRow(int64(8), "sso", "sso@example.com", "", "SSO", models.RoleStudent, true, "google", nil)
	mock.ExpectQuery("FROM users").WithArgs("sso").WillReturnRows(rows)

	user, err := repo.FindActiveByLogin(context.Background(), "sso")
	require.NoError(t, err)
	assert.True(t, user.RequiresProvider(models.AuthProviderGoogle))
}

func TestFindActiveByLoginMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery("FROM users").WithArgs("ghost").WillReturnRows(sqlmock.NewRows(userColumns))

	user, err := repo.FindActiveByLogin(context.Background(), "ghost")
	assert.Nil(t, user)
	assert.ErrorIs(t, err, database.ErrNoResult)
}

func TestUpdateLastLogin(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET last_login = NOW() WHERE user_id = $1")).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateLastLogin(context.Background(), 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}
