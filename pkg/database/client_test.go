package database

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

type recordingObserver struct {
	labels []string
}

func (r *recordingObserver) ObserveDBQuery(label string, _ time.Duration) {
	r.labels = append(r.labels, label)
}

func TestQueryReturnsEmptySliceWhenNoRows(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	client := NewClient(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT course_id FROM courses")).
		WillReturnRows(sqlmock.NewRows([]string{"course_id"}))

	rows, err := client.Query(context.Background(), "SELECT course_id FROM courses")
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Len(t, rows, 0)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryConvertsByteColumnsToStrings(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	client := NewClient(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT course_name FROM courses WHERE course_id = $1")).
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"course_name"}).AddRow([]byte("Algebra I")))

	row, err := client.QueryOne(context.Background(), "SELECT course_name FROM courses WHERE course_id = $1", 4)
	require.NoError(t, err)
	assert.Equal(t, "Algebra I", row["course_name"])
}

func TestQueryOneNoRows(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	client := NewClient(db)

	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"course_id"}))

	row, err := client.QueryOne(context.Background(), "SELECT course_id FROM courses WHERE course_id = $1", 99)
	assert.Nil(t, row)
	assert.ErrorIs(t, err, ErrNoResult)
}

func TestInsertThenQueryOneRoundTrip(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	client := NewClient(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO courses (course_name, subject_area) VALUES ($1, $2) RETURNING course_id")).
		WithArgs("Biology", "science").
		WillReturnRows(sqlmock.NewRows([]string{"course_id"}).AddRow(12))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT course_id, course_name, subject_area FROM courses WHERE course_id = $1")).
		WithArgs(int64(12)).
		WillReturnRows(sqlmock.NewRows([]string{"course_id", "course_name", "subject_area"}).AddRow(int64(12), "Biology", "science"))

	id, err := client.Insert(ctx, "INSERT INTO courses (course_name, subject_area) VALUES ($1, $2) RETURNING course_id", "Biology", "science")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	row, err := client.QueryOne(ctx, "SELECT course_id, course_name, subject_area FROM courses WHERE course_id = $1", id)
	require.NoError(t, err)
	assert.Equal(t, int64(12), row["course_id"])
	assert.Equal(t, "Biology", row["course_name"])
	assert.Equal(t, "science", row["subject_area"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertRequiresReturning(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	client := NewClient(db)

	_, err := client.Insert(context.Background(), "INSERT INTO courses (course_name) VALUES ($1)", "Biology")
	assert.ErrorIs(t, err, ErrNoReturning)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteReturnsAffectedRows(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	observer := &recordingObserver{}
	client := NewClient(db, WithObserver(observer))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE courses SET is_active = false WHERE course_id <> $1")).
		WithArgs(9).
		WillReturnResult(sqlmock.NewResult(0, 3))

	affected, err := client.Execute(context.Background(), "UPDATE courses SET is_active = false WHERE course_id <> $1", 9)
	require.NoError(t, err)
	assert.Equal(t, int64(3), affected)
	assert.Equal(t, []string{"update"}, observer.labels)
}

func TestTransactionLifecycle(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	client := NewClient(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM courses").WithArgs(3).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assert.False(t, client.InTransaction())
	require.NoError(t, client.Begin(ctx))
	assert.True(t, client.InTransaction())
	assert.ErrorIs(t, client.Begin(ctx), ErrTxActive)

	_, err := client.Execute(ctx, "DELETE FROM courses WHERE course_id = $1", 3)
	require.NoError(t, err)

	require.NoError(t, client.Commit())
	assert.False(t, client.InTransaction())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommitAndRollbackWithoutTransaction(t *testing.T) {
	db, _, cleanup := newMock(t)
	defer cleanup()
	client := NewClient(db)

	assert.ErrorIs(t, client.Commit(), ErrNoTx)
	assert.ErrorIs(t, client.Rollback(), ErrNoTx)
}

func TestSessionsHaveIndependentTransactions(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	client := NewClient(db)

	mock.ExpectBegin()
	mock.ExpectRollback()

	session := client.Session()
	require.NoError(t, session.Begin(context.Background()))
	assert.True(t, session.InTransaction())
	assert.False(t, client.InTransaction())
	require.NoError(t, session.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxRollsBackOnError(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	client := NewClient(db)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := client.WithTx(context.Background(), func(tx *Client) error {
		assert.True(t, tx.InTransaction())
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMapsNoRows(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	client := NewClient(db)

	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"course_id"}))

	var id int64
	err := client.Get(context.Background(), &id, "SELECT course_id FROM courses WHERE course_id = $1", 5)
	assert.ErrorIs(t, err, ErrNoResult)
}
