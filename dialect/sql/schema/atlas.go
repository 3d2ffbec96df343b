package schema

import (
	"context"
	stdsql "database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"ariga.io/atlas/sql/migrate"
	"ariga.io/atlas/sql/schema"

	"github.com/formadb/forma/dialect"
	"github.com/formadb/forma/dialect/sql"
	"github.com/formadb/forma/dialect/sqlschema"
)

// Atlas computes the diff between the desired state of the table set
// and the connected database, and applies or writes the migration plan.
type Atlas struct {
	sqlDialect sqlDialect

	driver  dialect.Driver
	dialect string
	schema  string
	mode    Mode
	dir     migrate.Dir
	fmt     migrate.Formatter
	log     *slog.Logger

	universalID     bool
	dropColumns     bool
	dropIndexes     bool
	withForeignKeys bool
	errNoPlan       bool
	indent          string

	allowDropColumn bool
	allowDropIndex  bool
	batchSize       int
	lockTimeout     time.Duration

	skip        ChangeKind
	hooks       []Hook
	diffHooks   []DiffHook
	diffOptions []schema.DiffOption
	applyHook   []ApplyHook
}

type (
	// sqlDialect is the interface implemented by the
	// dialect-specific migration drivers.
	sqlDialect interface {
		dialect.Driver
		atBuilder
		init(context.Context) error
	}

	// atBuilder converts the table definitions to their atlas form.
	atBuilder interface {
		atOpen(dialect.ExecQuerier) (migrate.Driver, error)
		atTable(*Table, *schema.Table)
		atTypeC(*Column, *schema.Column) error
		atUniqueC(*Table, *Column, *schema.Table, *schema.Column)
		atIncrementC(*schema.Table, *schema.Column)
		atIncrementT(*schema.Table, int64)
		atIndex(*Index, *schema.Table, *schema.Index) error
		atTypeRangeSQL(ts ...string) string
		atNotNull(ctx context.Context, drv migrate.Driver, opts []migrate.PlanOption, t *schema.Table, c *schema.Column) ([]*migrate.Change, error)
		atViewExists(ctx context.Context, name string) (bool, error)
		atViewSQL(t *Table, as string) (cmd, reverse string)
	}
)

// Create creates all database resources needed for the given tables.
// The plan is validated before execution and unsafe plans are rejected.
func (a *Atlas) Create(ctx context.Context, tables ...*Table) error {
	var creator Creator = CreateFunc(a.create)
	for i := len(a.hooks) - 1; i >= 0; i-- {
		creator = a.hooks[i](creator)
	}
	return creator.Create(ctx, tables...)
}

func (a *Atlas) create(ctx context.Context, tables ...*Table) error {
	plan, err := a.Plan(ctx, tables...)
	if err != nil {
		return err
	}
	if len(plan.Steps) == 0 {
		return nil
	}
	if report := a.Validate(ctx, plan); !report.IsSafe {
		return fmt.Errorf("sql/schema: unsafe migration plan: %s", report)
	}
	_, err = a.Execute(ctx, plan)
	return err
}

// Diff compares the state read from the connected database with the
// state defined by the tables, and writes a migration plan named
// "changes" to the migration directory.
func (a *Atlas) Diff(ctx context.Context, tables ...*Table) error {
	return a.NamedDiff(ctx, "changes", tables...)
}

// NamedDiff compares the state read from the connected database with
// the state defined by the tables, and writes a migration plan with
// the given name to the migration directory.
func (a *Atlas) NamedDiff(ctx context.Context, name string, tables ...*Table) error {
	if a.dir == nil {
		return fmt.Errorf("sql/schema: diffing requires a migration directory: WithDir()")
	}
	if err := migrate.Validate(a.dir); err != nil {
		return fmt.Errorf("sql/schema: validating migration directory: %w", err)
	}
	if err := a.init(); err != nil {
		return err
	}
	if err := a.sqlDialect.init(ctx); err != nil {
		return err
	}
	plan, info, err := a.plan(ctx, name, tables)
	if err != nil {
		return err
	}
	for _, ft := range info.tasks {
		changes, err := ft.changes(a.dialect)
		if err != nil {
			return fmt.Errorf("sql/schema: writing backfill for column %q: %w", ft.column.Name, err)
		}
		plan.Changes = append(plan.Changes, changes...)
	}
	if len(plan.Changes) == 0 {
		if a.errNoPlan {
			return migrate.ErrNoPlan
		}
		return nil
	}
	return migrate.NewPlanner(nil, a.dir, migrate.PlanFormat(a.fmt)).WritePlan(plan)
}

// StateReader returns a migrate.StateReader that reads the state
// defined by the given tables.
func (a *Atlas) StateReader(tables ...*Table) migrate.StateReaderFunc {
	return func(ctx context.Context) (*schema.Realm, error) {
		if err := a.init(); err != nil {
			return nil, err
		}
		ts, err := a.aTables(tables)
		if err != nil {
			return nil, err
		}
		s := schema.New(a.schema)
		s.AddTables(ts...)
		return schema.NewRealm(s), nil
	}
}

// init binds the dialect-specific migration driver.
func (a *Atlas) init() error {
	if a.sqlDialect != nil {
		return nil
	}
	switch a.dialect {
	case dialect.MySQL:
		a.sqlDialect = &MySQL{Driver: a.driver}
	case dialect.Postgres:
		a.sqlDialect = &Postgres{Driver: a.driver}
	case dialect.SQLite:
		a.sqlDialect = &SQLite{Driver: a.driver}
	default:
		return fmt.Errorf("sql/schema: unsupported dialect %q", a.dialect)
	}
	return nil
}

// plan computes the migration plan for the given tables. Columns that
// require a batched backfill are planned as nullable and returned as
// fill tasks together with their finalizing statements.
func (a *Atlas) plan(ctx context.Context, name string, tables []*Table) (*migrate.Plan, *planInfo, error) {
	base := make([]*Table, 0, len(tables))
	var views []*Table
	for _, t := range tables {
		if t.View {
			views = append(views, t)
		} else {
			base = append(base, t)
		}
	}
	if a.universalID {
		base = append(base, NewTypesTable())
	}
	drv, err := a.sqlDialect.atOpen(a.sqlDialect)
	if err != nil {
		return nil, nil, err
	}
	names := make([]string, len(base))
	for i := range base {
		names[i] = base[i].Name
	}
	var current *schema.Schema
	switch a.mode {
	case ModeInspect:
		if current, err = a.inspect(ctx, drv, names); err != nil {
			return nil, nil, err
		}
	case ModeReplay:
		ex, err := migrate.NewExecutor(drv, a.dir, migrate.NopRevisionReadWriter{})
		if err != nil {
			return nil, nil, fmt.Errorf("sql/schema: creating replay executor: %w", err)
		}
		if err := ex.ExecuteN(ctx, 0); err != nil && !errors.Is(err, migrate.ErrNoPendingFiles) {
			return nil, nil, fmt.Errorf("sql/schema: replaying migration directory: %w", err)
		}
		if current, err = a.inspect(ctx, drv, names); err != nil {
			return nil, nil, err
		}
	default:
		return nil, nil, fmt.Errorf("sql/schema: unknown migration mode: %d", a.mode)
	}
	desired := schema.New(current.Name)
	// Carry the schema attributes (such as charset and
	// collation) to avoid detaching them on diffing.
	desired.Attrs = current.Attrs
	ts, err := a.aTables(base)
	if err != nil {
		return nil, nil, err
	}
	var newTypes []string
	if a.universalID {
		if newTypes, err = a.allocateRanges(ctx, current, base, ts); err != nil {
			return nil, nil, err
		}
	}
	desired.AddTables(ts...)
	changes, err := a.diff(drv, current, desired)
	if err != nil {
		return nil, nil, err
	}
	info := &planInfo{notes: dropNotes(changes)}
	if info.tasks, err = a.interceptFills(ctx, drv, tables, changes); err != nil {
		return nil, nil, err
	}
	viewChanges, err := a.viewChanges(ctx, views)
	if err != nil {
		return nil, nil, err
	}
	if len(changes) == 0 && len(newTypes) == 0 && len(viewChanges) == 0 {
		return &migrate.Plan{Name: name}, info, nil
	}
	plan, err := drv.PlanChanges(ctx, name, changes, a.planOptions()...)
	if err != nil {
		return nil, nil, err
	}
	if len(newTypes) > 0 {
		plan.Changes = append(plan.Changes, &migrate.Change{
			Cmd:     a.sqlDialect.atTypeRangeSQL(newTypes...),
			Comment: fmt.Sprintf("add pk ranges for %s tables", strings.Join(newTypes, ",")),
		})
	}
	plan.Changes = append(plan.Changes, viewChanges...)
	return plan, info, nil
}

// inspect reads the current state of the named tables
// from the connected database.
func (a *Atlas) inspect(ctx context.Context, drv migrate.Driver, names []string) (*schema.Schema, error) {
	current, err := drv.InspectSchema(ctx, a.schema, &schema.InspectOptions{
		Mode:   schema.InspectSchemas | schema.InspectTables,
		Tables: names,
	})
	if err != nil {
		return nil, err
	}
	return current, nil
}

// allocateRanges assigns a 1<<32 identifier range to every table with
// a single auto-increment primary key, keyed by its position in the
// type registry. Existing registry entries are never moved, including
// entries of tables that no longer take part in the migration.
func (a *Atlas) allocateRanges(ctx context.Context, current *schema.Schema, base []*Table, ts []*schema.Table) ([]string, error) {
	var (
		types    []string
		newTypes []string
	)
	if _, ok := current.Table(TypeTable); ok {
		loaded, err := a.loadTypes(ctx)
		if err != nil {
			return nil, err
		}
		types = loaded
	}
	for i, t := range base {
		if t.Name == TypeTable {
			continue
		}
		// Only tables with a single auto-increment primary key
		// allocate a range. Join tables with composite keys and
		// tables with an explicit increment start are skipped.
		if len(t.PrimaryKey) != 1 || !t.PrimaryKey[0].Increment {
			continue
		}
		if t.Annotation != nil && t.Annotation.IncrementStart != nil {
			continue
		}
		r := indexOf(types, t.Name)
		if r < 0 {
			if len(types) >= MaxTypes {
				return nil, fmt.Errorf("sql/schema: too many types in the registry: %d", len(types))
			}
			types = append(types, t.Name)
			newTypes = append(newTypes, t.Name)
			r = len(types) - 1
		}
		if start := int64(r) << 32; start > 0 {
			a.sqlDialect.atIncrementT(ts[i], start)
		}
	}
	return newTypes, nil
}

// loadTypes reads the registered types in insertion order.
func (a *Atlas) loadTypes(ctx context.Context) ([]string, error) {
	rows := &sql.Rows{}
	query, args := sql.Dialect(a.dialect).
		Select("type").From(sql.Table(TypeTable)).OrderBy(sql.Asc("id")).Query()
	if err := a.sqlDialect.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("sql/schema: reading type registry: %w", err)
	}
	defer rows.Close()
	var types []string
	for rows.Next() {
		var typ string
		if err := rows.Scan(&typ); err != nil {
			return nil, err
		}
		types = append(types, typ)
	}
	return types, rows.Err()
}

// diff composes the configured differ and returns the changes that
// move the current state to the desired one.
func (a *Atlas) diff(drv migrate.Driver, current, desired *schema.Schema) ([]schema.Change, error) {
	var differ Differ = DiffFunc(func(current, desired *schema.Schema) ([]schema.Change, error) {
		return drv.SchemaDiff(current, desired, a.diffOptions...)
	})
	skip := a.skip
	if !a.dropColumns {
		skip |= DropColumn
	}
	if !a.dropIndexes {
		skip |= DropIndex
	}
	if skip != NoChange {
		differ = filterChanges(skip)(differ)
	}
	if !a.withForeignKeys {
		differ = withoutForeignKeys(differ)
	}
	// User hooks are applied in reverse order, so the
	// first hook is the outermost one.
	for i := len(a.diffHooks) - 1; i >= 0; i-- {
		differ = a.diffHooks[i](differ)
	}
	return differ.Diff(current, desired)
}

// viewChanges plans creation statements for views that
// do not exist on the connected database. A dialect-specific defining
// query wins over the portable one.
func (a *Atlas) viewChanges(ctx context.Context, views []*Table) ([]*migrate.Change, error) {
	var changes []*migrate.Change
	for _, v := range views {
		var query string
		if ant := v.Annotation; ant != nil {
			query = ant.ViewAs
			if q, ok := ant.ViewFor[a.dialect]; ok {
				query = q
			}
		}
		if query == "" {
			return nil, fmt.Errorf("sql/schema: view %q is missing its defining query", v.Name)
		}
		exists, err := a.sqlDialect.atViewExists(ctx, v.Name)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}
		cmd, reverse := a.sqlDialect.atViewSQL(v, query)
		changes = append(changes, &migrate.Change{
			Cmd:     cmd,
			Reverse: reverse,
			Comment: fmt.Sprintf("create %q view", v.Name),
		})
	}
	return changes, nil
}

func (a *Atlas) planOptions() []migrate.PlanOption {
	opts := make([]migrate.PlanOption, 0, 1)
	if a.indent != "" {
		opts = append(opts, func(o *migrate.PlanOptions) {
			o.Indent = a.indent
		})
	}
	return opts
}

// apply executes the plan changes through the configured apply hooks.
func (a *Atlas) apply(ctx context.Context, plan *migrate.Plan) error {
	var applier Applier = ApplyFunc(func(ctx context.Context, conn dialect.ExecQuerier, plan *migrate.Plan) error {
		for _, c := range plan.Changes {
			if err := a.exec(ctx, conn, c.Cmd, c.Args); err != nil {
				if c.Comment != "" {
					err = fmt.Errorf("%s: %w", c.Comment, err)
				}
				return err
			}
		}
		return nil
	})
	for i := len(a.applyHook) - 1; i >= 0; i-- {
		applier = a.applyHook[i](applier)
	}
	return applier.Apply(ctx, a.sqlDialect, plan)
}

// exec runs a single statement, bounded by the configured
// lock timeout if one was set.
func (a *Atlas) exec(ctx context.Context, conn dialect.ExecQuerier, cmd string, args []any) error {
	if a.lockTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.lockTimeout)
		defer cancel()
		if a.dialect == dialect.Postgres {
			ctx = sql.WithVar(ctx, "lock_timeout", strconv.FormatInt(a.lockTimeout.Milliseconds(), 10))
		}
	}
	return conn.Exec(ctx, cmd, args, nil)
}

// aTables converts the table definitions to their atlas form.
func (a *Atlas) aTables(tables []*Table) ([]*schema.Table, error) {
	ts := make([]*schema.Table, len(tables))
	byName := make(map[string]*schema.Table, len(tables))
	for i, t1 := range tables {
		t2 := schema.NewTable(t1.Name)
		if t1.Schema != "" {
			t2.SetSchema(schema.New(t1.Schema))
		}
		a.sqlDialect.atTable(t1, t2)
		if err := a.aColumns(t1, t2); err != nil {
			return nil, err
		}
		if err := a.aIndexes(t1, t2); err != nil {
			return nil, err
		}
		ts[i] = t2
		byName[t1.Name] = t2
	}
	// Foreign keys are resolved in a second pass since
	// they may reference tables defined after them.
	for i, t1 := range tables {
		t2 := ts[i]
		for _, fk1 := range t1.ForeignKeys {
			if fk1.RefTable == nil {
				return nil, fmt.Errorf("sql/schema: missing reference table for foreign key %q", fk1.Symbol)
			}
			rt2, ok := byName[fk1.RefTable.Name]
			if !ok {
				return nil, fmt.Errorf("sql/schema: table %q referenced by foreign key %q was not found", fk1.RefTable.Name, fk1.Symbol)
			}
			fk2 := schema.NewForeignKey(symbol(fk1.Symbol)).SetRefTable(rt2)
			if fk1.OnDelete != "" {
				fk2.SetOnDelete(schema.ReferenceOption(fk1.OnDelete))
			}
			if fk1.OnUpdate != "" {
				fk2.SetOnUpdate(schema.ReferenceOption(fk1.OnUpdate))
			}
			for _, c1 := range fk1.Columns {
				c2, ok := t2.Column(c1.Name)
				if !ok {
					return nil, fmt.Errorf("sql/schema: column %q of foreign key %q was not found in table %q", c1.Name, fk1.Symbol, t1.Name)
				}
				fk2.AddColumns(c2)
			}
			for _, c1 := range fk1.RefColumns {
				c2, ok := rt2.Column(c1.Name)
				if !ok {
					return nil, fmt.Errorf("sql/schema: referenced column %q of foreign key %q was not found in table %q", c1.Name, fk1.Symbol, fk1.RefTable.Name)
				}
				fk2.AddRefColumns(c2)
			}
			t2.AddForeignKeys(fk2)
		}
	}
	return ts, nil
}

func (a *Atlas) aColumns(t1 *Table, t2 *schema.Table) error {
	for _, c1 := range t1.Columns {
		c2 := &schema.Column{Name: c1.Name}
		if err := a.sqlDialect.atTypeC(c1, c2); err != nil {
			return err
		}
		c2.Type.Null = c1.Nullable
		if c1.Default != nil && c1.supportDefault() {
			atDefault(c1, c2)
		}
		if c1.Increment {
			a.sqlDialect.atIncrementC(t2, c2)
		}
		if c1.Comment != "" {
			c2.AddAttrs(&schema.Comment{Text: c1.Comment})
		}
		t2.AddColumns(c2)
		// A unique column that is not covered by an explicit index
		// is backed by a generated unique index.
		if c1.Unique && (len(t1.PrimaryKey) != 1 || t1.PrimaryKey[0] != c1) {
			a.sqlDialect.atUniqueC(t1, c1, t2, c2)
		}
	}
	if ant := t1.Annotation; ant != nil {
		for _, c1 := range t1.Columns {
			expr, ok := ant.DefaultExprs[c1.Name]
			if !ok {
				continue
			}
			if c2, ok := t2.Column(c1.Name); ok {
				c2.Default = &schema.RawExpr{X: expr}
			}
		}
	}
	return nil
}

func (a *Atlas) aIndexes(t1 *Table, t2 *schema.Table) error {
	if len(t1.PrimaryKey) > 0 {
		pk := make([]*schema.Column, 0, len(t1.PrimaryKey))
		for _, c1 := range t1.PrimaryKey {
			c2, ok := t2.Column(c1.Name)
			if !ok {
				return fmt.Errorf("sql/schema: primary key column %q was not found in table %q", c1.Name, t1.Name)
			}
			pk = append(pk, c2)
		}
		t2.SetPrimaryKey(schema.NewPrimaryKey(pk...))
	}
	for _, idx1 := range t1.Indexes {
		idx2 := schema.NewIndex(symbol(idx1.Name)).SetUnique(idx1.Unique)
		if err := a.sqlDialect.atIndex(idx1, t2, idx2); err != nil {
			return err
		}
		t2.AddIndexes(idx2)
	}
	if ant := t1.Annotation; ant != nil {
		if err := a.aChecks(ant, t2); err != nil {
			return err
		}
		if ant.IncrementStart != nil {
			a.sqlDialect.atIncrementT(t2, int64(*ant.IncrementStart))
		}
	}
	if t1.Comment != "" {
		t2.SetComment(t1.Comment)
	}
	return nil
}

// aChecks attaches the annotation check constraints to
// the table in a deterministic order.
func (a *Atlas) aChecks(ant *sqlschema.Annotation, t2 *schema.Table) error {
	if ant.Check != "" {
		t2.AddChecks(&schema.Check{
			Expr: ant.Check,
		})
	}
	if len(ant.Checks) > 0 {
		names := make([]string, 0, len(ant.Checks))
		for name := range ant.Checks {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			t2.AddChecks(&schema.Check{
				Name: name,
				Expr: ant.Checks[name],
			})
		}
	}
	return nil
}

// atDefault sets the default value of the converted column.
func atDefault(c1 *Column, c2 *schema.Column) {
	if x, ok := c1.Default.(Expr); ok {
		c2.Default = &schema.RawExpr{X: string(x)}
		return
	}
	c2.Default = &schema.Literal{V: literal(c1.Default)}
}

// quoteLiteral returns the given string as an SQL string literal.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// db turns a dialect.ExecQuerier into the 2-argument form
// expected by the atlas drivers.
type db struct {
	dialect.ExecQuerier
}

func (d *db) QueryContext(ctx context.Context, query string, args ...any) (*stdsql.Rows, error) {
	rows := &sql.Rows{}
	if err := d.ExecQuerier.Query(ctx, query, args, rows); err != nil {
		return nil, err
	}
	r, ok := rows.ColumnScanner.(*stdsql.Rows)
	if !ok {
		return nil, fmt.Errorf("sql/schema: converting %T to *sql.Rows", rows.ColumnScanner)
	}
	return r, nil
}

func (d *db) ExecContext(ctx context.Context, query string, args ...any) (stdsql.Result, error) {
	var r stdsql.Result
	if err := d.ExecQuerier.Exec(ctx, query, args, &r); err != nil {
		return nil, err
	}
	return r, nil
}
