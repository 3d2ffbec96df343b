// Package sql implements dialect-aware SQL building and database access.
//
// It has two halves. The builder half renders statements for Postgres,
// MySQL and SQLite with the right quoting and placeholders. The driver
// half wraps database/sql behind the dialect.Driver interface so the
// rest of the engine stays decoupled from the concrete database.
//
// # Drivers
//
// Open connects and returns a Driver bound to a dialect:
//
//	drv, err := sql.Open(dialect.Postgres, "postgres://localhost/app")
//
// OpenDB wraps an existing *sql.DB instead. Drivers run statements
// through Exec and Query, and start transactions with Tx or BeginTx.
//
// Session variables can be scoped to a context with WithVar. The driver
// pins a connection, sets the variables before the statement and resets
// them afterwards:
//
//	ctx = sql.WithVar(ctx, "app.tenant", "acme")
//	err = drv.Query(ctx, query, args, &rows)
//
// # Building Queries
//
// Dialect starts a builder chain that renders for one dialect:
//
//	query, args := sql.Dialect(dialect.Postgres).
//	    Select("id", "name").
//	    From(sql.Table("users")).
//	    Where(sql.EQ("status", "active")).
//	    Query()
//
// Selector covers SELECT with joins, grouping and pagination.
// InsertBuilder, UpdateBuilder and DeleteBuilder cover the write
// statements, including RETURNING where the dialect supports it.
//
// # Predicates
//
// Predicates compose into WHERE clauses and render with bound
// arguments:
//
//	sql.And(
//	    sql.GT("age", 18),
//	    sql.In("status", "active", "pending"),
//	    sql.NotNull("email"),
//	)
//
// String matching helpers such as Contains and HasPrefix escape LIKE
// metacharacters in their input.
//
// # Pagination and Locking
//
// Deterministic paging combines an order with offset and limit:
//
//	sql.Select("*").From(sql.Table("users")).
//	    OrderBy(sql.Desc("created_at")).
//	    Offset(20).Limit(10)
//
// ForUpdate and ForShare add row locks inside a transaction:
//
//	sql.Select("*").From(sql.Table("users")).
//	    Where(sql.EQ("id", 1)).
//	    ForUpdate()
//
// # Instrumentation
//
// DebugDriver logs every statement before running it:
//
//	client := forma.New(sql.NewDebugDriver(drv))
//
// StatsDriver counts queries, execs and errors, tracks total duration
// and reports statements slower than a threshold:
//
//	sdrv := sql.NewStatsDriver(drv,
//	    sql.WithSlowThreshold(200*time.Millisecond),
//	    sql.WithSlowQueryLog(),
//	)
//	defer func() { log.Info("db", "stats", sdrv.QueryStats().Stats()) }()
//
// Both wrappers implement dialect.Driver and nest freely.
package sql
