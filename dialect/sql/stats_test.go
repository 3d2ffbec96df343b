package sql

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/formadb/forma/dialect"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestStatsDriverCounters tests that queries and execs are counted.
func TestStatsDriverCounters(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	drv := NewStatsDriver(OpenDB(dialect.Postgres, db), WithSlowThreshold(time.Hour))

	mock.ExpectQuery("SELECT id FROM users").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	rows := &Rows{}
	require.NoError(t, drv.Query(context.Background(), "SELECT id FROM users", []any{}, rows))
	require.NoError(t, rows.Close())

	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, drv.Exec(context.Background(), "INSERT INTO users (name) VALUES ('a')", []any{}, nil))
	require.NoError(t, mock.ExpectationsWereMet())

	s := drv.QueryStats().Stats()
	assert.Equal(t, int64(1), s.TotalQueries)
	assert.Equal(t, int64(1), s.TotalExecs)
	assert.Equal(t, int64(0), s.SlowQueries)
	assert.Equal(t, int64(0), s.Errors)
	assert.Greater(t, s.TotalDuration, time.Duration(0))
	assert.Greater(t, s.AvgQueryDuration(), time.Duration(0))
}

// TestStatsDriverErrors tests that failed statements are counted.
func TestStatsDriverErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	drv := NewStatsDriver(OpenDB(dialect.Postgres, db), WithSlowThreshold(time.Hour))

	mock.ExpectExec("DELETE").WillReturnError(errors.New("boom"))
	err = drv.Exec(context.Background(), "DELETE FROM users", []any{}, nil)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	s := drv.QueryStats().Stats()
	assert.Equal(t, int64(1), s.TotalExecs)
	assert.Equal(t, int64(1), s.Errors)
}

// TestStatsDriverSlowHook tests the slow statement callback.
func TestStatsDriverSlowHook(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	var (
		gotQuery    string
		gotArgs     []any
		gotDuration time.Duration
		calls       int
	)
	drv := NewStatsDriver(OpenDB(dialect.Postgres, db),
		WithSlowThreshold(0),
		WithSlowQueryHook(func(_ context.Context, query string, args []any, duration time.Duration) {
			calls++
			gotQuery, gotArgs, gotDuration = query, args, duration
		}),
	)

	mock.ExpectQuery("SELECT name FROM users WHERE id = \\$1").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Alice"))
	rows := &Rows{}
	require.NoError(t, drv.Query(context.Background(), "SELECT name FROM users WHERE id = $1", []any{7}, rows))
	require.NoError(t, rows.Close())
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, 1, calls)
	assert.Equal(t, "SELECT name FROM users WHERE id = $1", gotQuery)
	assert.Equal(t, []any{7}, gotArgs)
	assert.Greater(t, gotDuration, time.Duration(0))
	assert.Equal(t, int64(1), drv.QueryStats().Stats().SlowQueries)
}

// TestStatsDriverSlowLogger tests slow statement reporting through slog.
func TestStatsDriverSlowLogger(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	drv := NewStatsDriver(OpenDB(dialect.Postgres, db),
		WithSlowThreshold(0),
		WithSlowQueryLogger(log),
	)

	mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	rows := &Rows{}
	require.NoError(t, drv.Query(context.Background(), "SELECT 1", []any{}, rows))
	require.NoError(t, rows.Close())

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "slow query")
	assert.Contains(t, out, "SELECT 1")
}

// TestStatsDriverTx tests that statements inside a transaction are recorded.
func TestStatsDriverTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	drv := NewStatsDriver(OpenDB(dialect.Postgres, db), WithSlowThreshold(time.Hour))

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM users").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectExec("UPDATE users").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := drv.Tx(context.Background())
	require.NoError(t, err)
	rows := &Rows{}
	require.NoError(t, tx.Query(context.Background(), "SELECT id FROM users", []any{}, rows))
	require.NoError(t, tx.Exec(context.Background(), "UPDATE users SET name = 'b'", []any{}, nil))
	require.NoError(t, tx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())

	s := drv.QueryStats().Stats()
	assert.Equal(t, int64(1), s.TotalQueries)
	assert.Equal(t, int64(1), s.TotalExecs)
}

// TestStatsDriverThreshold tests reading and updating the slow threshold.
func TestStatsDriverThreshold(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	drv := NewStatsDriver(OpenDB(dialect.Postgres, db))
	assert.Equal(t, 100*time.Millisecond, drv.SlowThreshold())

	drv.SetSlowThreshold(time.Second)
	assert.Equal(t, time.Second, drv.SlowThreshold())
}

// TestStatsReset tests zeroing the counters.
func TestStatsReset(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	drv := NewStatsDriver(OpenDB(dialect.Postgres, db), WithSlowThreshold(time.Hour))
	mock.ExpectExec("INSERT").WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, drv.Exec(context.Background(), "INSERT INTO t VALUES (1)", []any{}, nil))

	require.NotZero(t, drv.QueryStats().Stats().TotalExecs)
	drv.QueryStats().Reset()
	s := drv.QueryStats().Stats()
	assert.Zero(t, s.TotalExecs)
	assert.Zero(t, s.TotalDuration)
}

// TestStatsSnapshot tests snapshot arithmetic and rendering.
func TestStatsSnapshot(t *testing.T) {
	s := StatsSnapshot{
		TotalQueries:  2,
		TotalExecs:    2,
		TotalDuration: 20 * time.Millisecond,
		SlowQueries:   1,
	}
	assert.Equal(t, 5*time.Millisecond, s.AvgQueryDuration())
	assert.Equal(t, "queries=2 execs=2 duration=20ms avg=5ms slow=1 errors=0", s.String())

	assert.Zero(t, StatsSnapshot{}.AvgQueryDuration())
}

// TestOpenWithStats tests opening a connection with collection enabled.
func TestOpenWithStats(t *testing.T) {
	db, mock, err := sqlmock.NewWithDSN("forma_stats_dsn")
	require.NoError(t, err)
	defer db.Close()

	drv, stats, err := OpenWithStats("sqlmock", "forma_stats_dsn", WithSlowThreshold(time.Hour))
	require.NoError(t, err)
	defer drv.Close()
	require.Same(t, drv.QueryStats(), stats)

	mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	rows := &Rows{}
	require.NoError(t, drv.Query(context.Background(), "SELECT 1", []any{}, rows))
	require.NoError(t, rows.Close())
	assert.Equal(t, int64(1), stats.Stats().TotalQueries)
}
