package sql

import (
	"context"
	"errors"
	"testing"

	"github.com/formadb/forma/dialect"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func debugRecorder() (*[]string, DebugOption) {
	lines := &[]string{}
	return lines, DebugWithLog(func(_ context.Context, v ...any) {
		for _, e := range v {
			*lines = append(*lines, e.(string))
		}
	})
}

// TestDebugDriverLogsStatements tests that queries and execs are logged.
func TestDebugDriverLogsStatements(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	lines, opt := debugRecorder()
	drv := NewDebugDriver(OpenDB(dialect.Postgres, db), opt)

	mock.ExpectQuery("SELECT id FROM users").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	rows := &Rows{}
	require.NoError(t, drv.Query(context.Background(), "SELECT id FROM users", []any{}, rows))
	require.NoError(t, rows.Close())

	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, drv.Exec(context.Background(), "INSERT INTO users (name) VALUES ('a')", []any{}, nil))
	require.NoError(t, mock.ExpectationsWereMet())

	require.Len(t, *lines, 2)
	assert.Equal(t, "query: SELECT id FROM users args: []", (*lines)[0])
	assert.Equal(t, "exec: INSERT INTO users (name) VALUES ('a') args: []", (*lines)[1])
}

// TestDebugDriverTx tests transaction logging through commit and rollback.
func TestDebugDriverTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	lines, opt := debugRecorder()
	drv := NewDebugDriver(OpenDB(dialect.Postgres, db), opt)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE users").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := drv.Tx(context.Background())
	require.NoError(t, err)
	require.NoError(t, tx.Exec(context.Background(), "UPDATE users SET name = 'b'", []any{1}, nil))
	require.NoError(t, tx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, []string{
		"begin transaction",
		"tx exec: UPDATE users SET name = 'b' args: [1]",
		"commit transaction",
	}, *lines)

	t.Run("rollback", func(t *testing.T) {
		lines, opt := debugRecorder()
		drv := NewDebugDriver(OpenDB(dialect.Postgres, db), opt)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT").WillReturnError(errors.New("boom"))
		mock.ExpectRollback()

		tx, err := drv.Tx(context.Background())
		require.NoError(t, err)
		rows := &Rows{}
		require.Error(t, tx.Query(context.Background(), "SELECT 1", []any{}, rows))
		require.NoError(t, tx.Rollback())
		require.NoError(t, mock.ExpectationsWereMet())

		assert.Equal(t, []string{
			"begin transaction",
			"tx query: SELECT 1 args: []",
			"rollback transaction",
		}, *lines)
	})
}
