// Package schema contains all schema migration logic for SQL dialects.
package schema

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"ariga.io/atlas/sql/migrate"
	"ariga.io/atlas/sql/schema"
	"ariga.io/atlas/sql/sqltool"

	"github.com/formadb/forma/dialect"
)

type (
	// Creator is the interface that wraps the Create method.
	Creator interface {
		// Create creates the SQL schemas for the given tables.
		Create(context.Context, ...*Table) error
	}

	// CreateFunc allows the use of ordinary functions as schema creators.
	CreateFunc func(context.Context, ...*Table) error

	// Hook defines the "create middleware". A function that gets a Creator
	// and returns a Creator. For example:
	//
	//	hook := func(next schema.Creator) schema.Creator {
	//		return schema.CreateFunc(func(ctx context.Context, tables ...*schema.Table) error {
	//			fmt.Println("Tables:", tables)
	//			return next.Create(ctx, tables...)
	//		})
	//	}
	//
	Hook func(Creator) Creator
)

// Create calls f(ctx, tables...).
func (f CreateFunc) Create(ctx context.Context, tables ...*Table) error {
	return f(ctx, tables...)
}

type (
	// Differ is the interface that wraps the Diff method.
	Differ interface {
		// Diff returns a list of changes that construct a migration plan.
		Diff(current, desired *schema.Schema) ([]schema.Change, error)
	}

	// DiffFunc allows the use of ordinary functions as differs.
	DiffFunc func(current, desired *schema.Schema) ([]schema.Change, error)

	// DiffHook defines the "diff middleware". A function that gets a Differ
	// and returns a Differ.
	DiffHook func(Differ) Differ
)

// Diff calls f(current, desired).
func (f DiffFunc) Diff(current, desired *schema.Schema) ([]schema.Change, error) {
	return f(current, desired)
}

type (
	// Applier is the interface that wraps the Apply method.
	Applier interface {
		// Apply applies the given migrate.Plan on the database.
		Apply(context.Context, dialect.ExecQuerier, *migrate.Plan) error
	}

	// ApplyFunc allows the use of ordinary functions as appliers.
	ApplyFunc func(context.Context, dialect.ExecQuerier, *migrate.Plan) error

	// ApplyHook defines the "migration applying middleware". A function
	// that gets an Applier and returns an Applier.
	ApplyHook func(Applier) Applier
)

// Apply calls f(ctx, conn, plan).
func (f ApplyFunc) Apply(ctx context.Context, conn dialect.ExecQuerier, plan *migrate.Plan) error {
	return f(ctx, conn, plan)
}

// ChangeKind denotes the kind of schema change.
type ChangeKind uint

// List of change types.
const (
	// NoChange holds the zero value of a change.
	NoChange ChangeKind = 0

	// AddSchema describes a schema (named database) creation.
	AddSchema ChangeKind = 1 << (iota - 1)
	// ModifySchema describes a modification of a schema.
	ModifySchema
	// DropSchema describes a schema (named database) removal.
	DropSchema

	// AddTable describes a table creation.
	AddTable
	// ModifyTable describes a modification of a table.
	ModifyTable
	// DropTable describes a table removal.
	DropTable

	// AddColumn describes a column creation.
	AddColumn
	// ModifyColumn describes a modification of a column.
	ModifyColumn
	// DropColumn describes a column removal.
	DropColumn

	// AddIndex describes an index creation.
	AddIndex
	// ModifyIndex describes an index modification.
	ModifyIndex
	// DropIndex describes an index removal.
	DropIndex

	// AddForeignKey describes a foreign-key creation.
	AddForeignKey
	// ModifyForeignKey describes a foreign-key modification.
	ModifyForeignKey
	// DropForeignKey describes a foreign-key removal.
	DropForeignKey

	// AddCheck describes a check-constraint creation.
	AddCheck
	// ModifyCheck describes a check-constraint modification.
	ModifyCheck
	// DropCheck describes a check-constraint removal.
	DropCheck
)

// Is reports whether c is match the given change kind.
func (k ChangeKind) Is(c ChangeKind) bool {
	return k == c || k&c != 0
}

// Mode defines the migration mode.
type Mode uint

const (
	// ModeInspect is the default mode. The current state of the database
	// is inspected and compared with the desired state of the schema.
	ModeInspect Mode = iota
	// ModeReplay replays the migration directory on a clean connected
	// database to compute the current state instead of inspecting it.
	ModeReplay
)

// MigrateOption allows configuring Atlas using functional arguments.
type MigrateOption func(*Atlas)

// WithGlobalUniqueID sets the universal ids options to the migration.
// Defaults to false.
func WithGlobalUniqueID(b bool) MigrateOption {
	return func(a *Atlas) {
		a.universalID = b
	}
}

// WithIndent sets Atlas to generate SQL statements with indentation.
// An empty string indicates no indentation.
func WithIndent(indent string) MigrateOption {
	return func(a *Atlas) {
		a.indent = indent
	}
}

// WithDropColumn sets the columns dropping option to the migration.
// Defaults to false.
func WithDropColumn(b bool) MigrateOption {
	return func(a *Atlas) {
		a.dropColumns = b
	}
}

// WithDropIndex sets the indexes dropping option to the migration.
// Defaults to false.
func WithDropIndex(b bool) MigrateOption {
	return func(a *Atlas) {
		a.dropIndexes = b
	}
}

// WithForeignKeys enables creating foreign-key in DDL. Defaults to true.
func WithForeignKeys(b bool) MigrateOption {
	return func(a *Atlas) {
		a.withForeignKeys = b
	}
}

// WithSchemaName sets the database (named-schema) to work on. Empty
// means the default schema of the connection.
func WithSchemaName(name string) MigrateOption {
	return func(a *Atlas) {
		a.schema = name
	}
}

// WithHooks adds a list of hooks to the schema migration.
func WithHooks(hooks ...Hook) MigrateOption {
	return func(a *Atlas) {
		a.hooks = append(a.hooks, hooks...)
	}
}

// WithDiffHook adds a list of hooks to the schema diffing.
func WithDiffHook(hooks ...DiffHook) MigrateOption {
	return func(a *Atlas) {
		a.diffHooks = append(a.diffHooks, hooks...)
	}
}

// WithDiffOptions adds a list of options to pass to the diff engine.
func WithDiffOptions(opts ...schema.DiffOption) MigrateOption {
	return func(a *Atlas) {
		a.diffOptions = append(a.diffOptions, opts...)
	}
}

// WithSkipChanges allows skipping/filtering list of changes
// returned by the Differ before executing migration planning.
//
//	SkipChanges(schema.DropTable|schema.DropColumn)
func WithSkipChanges(skip ChangeKind) MigrateOption {
	return func(a *Atlas) {
		a.skip = skip
	}
}

// WithApplyHook adds a list of hooks to the applying of the migration.
func WithApplyHook(hooks ...ApplyHook) MigrateOption {
	return func(a *Atlas) {
		a.applyHook = append(a.applyHook, hooks...)
	}
}

// WithDialect configures the dialect to use when the driver dialect
// does not determine it, such as custom drivers with an empty dialect.
func WithDialect(d string) MigrateOption {
	return func(a *Atlas) {
		a.dialect = d
	}
}

// WithDir sets the migration directory to write versioned migration
// files to, instead of applying changes on the connected database.
func WithDir(dir migrate.Dir) MigrateOption {
	return func(a *Atlas) {
		a.dir = dir
	}
}

// WithFormatter sets the formatter to use when writing migration files.
// If not given, it is chosen based on the migration directory type.
func WithFormatter(fmt migrate.Formatter) MigrateOption {
	return func(a *Atlas) {
		a.fmt = fmt
	}
}

// WithMigrationMode instructs how to compute the current state of the
// database before diffing. Defaults to ModeInspect.
func WithMigrationMode(mode Mode) MigrateOption {
	return func(a *Atlas) {
		a.mode = mode
	}
}

// WithErrNoPlan makes diffing return migrate.ErrNoPlan when there is
// no change between the current and desired states.
func WithErrNoPlan(b bool) MigrateOption {
	return func(a *Atlas) {
		a.errNoPlan = b
	}
}

// WithBatchSize sets the base number of rows updated by each backfill
// batch. The effective size may be reduced for large tables.
func WithBatchSize(n int) MigrateOption {
	return func(a *Atlas) {
		a.batchSize = n
	}
}

// WithLockTimeout bounds the execution time of every migration
// statement. Exceeding statements fail with context.DeadlineExceeded
// and can be retried.
func WithLockTimeout(d time.Duration) MigrateOption {
	return func(a *Atlas) {
		a.lockTimeout = d
	}
}

// WithAllowDropColumn marks column removals as acceptable during plan
// validation instead of blocking execution.
func WithAllowDropColumn(b bool) MigrateOption {
	return func(a *Atlas) {
		a.allowDropColumn = b
	}
}

// WithAllowDropIndex marks index removals as acceptable during plan
// validation instead of blocking execution.
func WithAllowDropIndex(b bool) MigrateOption {
	return func(a *Atlas) {
		a.allowDropIndex = b
	}
}

// WithLogger sets the logger used to report migration progress.
func WithLogger(log *slog.Logger) MigrateOption {
	return func(a *Atlas) {
		a.log = log
	}
}

// NewMigrate returns a new Atlas for the given driver.
func NewMigrate(drv dialect.Driver, opts ...MigrateOption) (*Atlas, error) {
	a := &Atlas{
		driver:          drv,
		withForeignKeys: true,
		mode:            ModeInspect,
		batchSize:       defaultBatchSize,
	}
	for _, opt := range opts {
		opt(a)
	}
	// The dialect of the connected driver takes
	// precedence over the configured one.
	if d := a.driver.Dialect(); d != "" {
		a.dialect = d
	}
	if a.log == nil {
		a.log = slog.Default()
	}
	if a.dir != nil && a.fmt == nil {
		a.fmt = formatter(a.dir)
	}
	if a.mode == ModeReplay && a.dir == nil {
		return nil, errors.New("sql/schema: WithMigrationMode(ModeReplay) requires versioned migrations: WithDir()")
	}
	return a, nil
}

// formatter returns the migration file formatter matching
// the given directory layout.
func formatter(dir migrate.Dir) migrate.Formatter {
	switch dir.(type) {
	case *sqltool.GooseDir:
		return sqltool.GooseFormatter
	case *sqltool.DBMateDir:
		return sqltool.DBMateFormatter
	case *sqltool.FlywayDir:
		return sqltool.FlywayFormatter
	case *sqltool.LiquibaseDir:
		return sqltool.LiquibaseFormatter
	default:
		// migrate.LocalDir, sqltool.GolangMigrateDir
		// and unknown directory implementations.
		return sqltool.GolangMigrateFormatter
	}
}

// filterChanges returns a DiffHook that filters
// out the change kinds matching the given mask.
func filterChanges(matches ChangeKind) DiffHook {
	return func(next Differ) Differ {
		return DiffFunc(func(current, desired *schema.Schema) ([]schema.Change, error) {
			var f func([]schema.Change) []schema.Change
			f = func(changes []schema.Change) (filtered []schema.Change) {
				for _, c := range changes {
					switch c := c.(type) {
					case *schema.ModifyTable:
						c.Changes = f(c.Changes)
					}
					if k := changeKind(c); !matches.Is(k) || k == NoChange {
						filtered = append(filtered, c)
					}
				}
				return filtered
			}
			changes, err := next.Diff(current, desired)
			if err != nil {
				return nil, err
			}
			return f(changes), nil
		})
	}
}

// withoutForeignKeys returns a Differ that strips
// foreign-key definitions and changes from the diff.
func withoutForeignKeys(next Differ) Differ {
	return DiffFunc(func(current, desired *schema.Schema) ([]schema.Change, error) {
		changes, err := next.Diff(current, desired)
		if err != nil {
			return nil, err
		}
		for _, c := range changes {
			switch c := c.(type) {
			case *schema.AddTable:
				c.T.ForeignKeys = nil
			case *schema.ModifyTable:
				c.T.ForeignKeys = nil
				filtered := make([]schema.Change, 0, len(c.Changes))
				for _, change := range c.Changes {
					switch change.(type) {
					case *schema.AddForeignKey, *schema.DropForeignKey, *schema.ModifyForeignKey:
						continue
					}
					filtered = append(filtered, change)
				}
				c.Changes = filtered
			}
		}
		return changes, nil
	})
}

// changeKind maps an atlas change to its kind.
func changeKind(c schema.Change) ChangeKind {
	switch c.(type) {
	case *schema.AddSchema:
		return AddSchema
	case *schema.ModifySchema:
		return ModifySchema
	case *schema.DropSchema:
		return DropSchema
	case *schema.AddTable:
		return AddTable
	case *schema.ModifyTable:
		return ModifyTable
	case *schema.DropTable:
		return DropTable
	case *schema.AddColumn:
		return AddColumn
	case *schema.ModifyColumn:
		return ModifyColumn
	case *schema.DropColumn:
		return DropColumn
	case *schema.AddIndex:
		return AddIndex
	case *schema.ModifyIndex:
		return ModifyIndex
	case *schema.DropIndex:
		return DropIndex
	case *schema.AddForeignKey:
		return AddForeignKey
	case *schema.ModifyForeignKey:
		return ModifyForeignKey
	case *schema.DropForeignKey:
		return DropForeignKey
	case *schema.AddCheck:
		return AddCheck
	case *schema.ModifyCheck:
		return ModifyCheck
	case *schema.DropCheck:
		return DropCheck
	default:
		return NoChange
	}
}
