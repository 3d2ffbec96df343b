// Package dialect names the supported databases and defines the driver
// contract the engine runs on.
//
// The Postgres, MySQL and SQLite constants identify a dialect wherever
// one is named: opening a connection, building a statement, or keying a
// dialect-specific setting.
//
// # Contracts
//
// ExecQuerier wraps the two statement operations, Exec and Query, and
// is the surface most engine code asks for. Driver adds transaction
// start, Close and the dialect name. Tx is an ExecQuerier with Commit
// and Rollback. NopTx adapts a Driver into a Tx whose Commit and
// Rollback do nothing, for running transactional code without a
// transaction.
//
// The concrete implementation lives in dialect/sql, which wraps
// database/sql:
//
//	drv, err := sql.Open(dialect.Postgres, "postgres://localhost/app")
//	if err != nil {
//	    return err
//	}
//	defer drv.Close()
//	client := forma.New(drv)
//
// Because instrumentation wrappers such as sql.DebugDriver and
// sql.StatsDriver also satisfy Driver, they can stand in anywhere a
// plain driver is expected.
//
// Subpackages:
//
//   - dialect/sql: statement builders and the database/sql driver
//   - dialect/sql/schema: inspection and migration planning
//   - dialect/sqlschema: dialect-level schema annotations
package dialect
