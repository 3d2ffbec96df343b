package schema

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"ariga.io/atlas/sql/migrate"
	"ariga.io/atlas/sql/schema"

	"github.com/formadb/forma/dialect"
	"github.com/formadb/forma/dialect/sql"
	"github.com/formadb/forma/schema/field"
)

const (
	// defaultBatchSize is the number of rows written per backfill
	// transaction when no explicit size is configured.
	defaultBatchSize = 1000
	// largeTable and hugeTable are the row counts above which the
	// batch size shrinks to keep per-transaction lock times short.
	largeTable = 1_000_000
	hugeTable  = 10_000_000
)

// PlanState tracks a migration plan through its lifecycle.
type PlanState uint8

// Plan states in order of progression. A failed plan may move to
// StateRolledBack through Rollback.
const (
	StatePlanned PlanState = iota
	StateValidated
	StateExecuting
	StateSucceeded
	StateFailed
	StateRolledBack
)

func (s PlanState) String() string {
	names := [...]string{"planned", "validated", "executing", "succeeded", "failed", "rolled back"}
	if int(s) < len(names) {
		return names[s]
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// ExecutionStrategy determines how a migration step runs.
type ExecutionStrategy uint8

const (
	// StrategySingleStatement executes the step as one statement,
	// atomic by construction.
	StrategySingleStatement ExecutionStrategy = iota
	// StrategyBatchedUpdate populates rows in committed batches,
	// each in its own transaction.
	StrategyBatchedUpdate
)

func (s ExecutionStrategy) String() string {
	if s == StrategyBatchedUpdate {
		return "batched_update"
	}
	return "single_statement"
}

// Step is a single unit of work in a migration plan.
type Step struct {
	// Cmd holds the statement of a single-statement step. Batched
	// steps leave it empty and are driven by the engine.
	Cmd     string
	Args    []any
	Comment string
	// Reverse holds the statements undoing this step, ordered as
	// they should run.
	Reverse  []string
	Strategy ExecutionStrategy
	// Done is set once the step has been fully applied.
	Done bool

	task *fillTask
}

// Plan is an ordered list of steps that migrate the connected
// database to the state described by a set of table definitions.
type Plan struct {
	Name  string
	State PlanState
	Steps []*Step
	// EstimatedRows is the number of existing rows the backfill
	// steps will touch, measured at planning time.
	EstimatedRows int64
	// EstimatedDuration is a rough projection of the execution time.
	EstimatedDuration time.Duration

	notes []planNote
}

// planNote records a destructive or lossy operation found in the
// computed diff, for the plan validator.
type planNote struct {
	kind ChangeKind
	err  *ValidationError
}

// planInfo carries the planning artifacts that have no SQL form.
type planInfo struct {
	tasks []*fillTask
	notes []planNote
}

// Report is the outcome of validating a migration plan. Plans with
// issues are unsafe and cannot be executed.
type Report struct {
	IsSafe   bool
	Issues   []*ValidationError
	Warnings []*ValidationError
}

func (r *Report) String() string {
	if len(r.Issues) == 0 && len(r.Warnings) == 0 {
		return "ok"
	}
	parts := make([]string, 0, len(r.Issues)+1)
	for _, e := range r.Issues {
		parts = append(parts, e.Error())
	}
	if n := len(r.Warnings); n > 0 {
		parts = append(parts, fmt.Sprintf("%d warning(s)", n))
	}
	return strings.Join(parts, "; ")
}

// fillTask tracks the backfill of one column added to a populated
// table. pre changes run before the column addition, post changes
// after the backfill completed.
type fillTask struct {
	table   *Table
	column  *Column
	rows    int64
	batch   int
	batched bool
	pre     []*migrate.Change
	post    []*migrate.Change
}

// changes renders the backfill as migration-file statements. Fills
// whose values are generated by the engine have no SQL form.
func (ft *fillTask) changes(dialect string) ([]*migrate.Change, error) {
	out := make([]*migrate.Change, 0, len(ft.pre)+len(ft.post)+1)
	out = append(out, ft.pre...)
	if ft.batched {
		expr, ok := ft.column.Fill.updateExpr(dialect)
		if !ok {
			return nil, fmt.Errorf("%s values are generated by the engine and have no SQL form", ft.column.Fill.kind)
		}
		c, q := ident(dialect, ft.column.Name), ident(dialect, ft.table.Name)
		out = append(out, &migrate.Change{
			Cmd:     fmt.Sprintf("UPDATE %s SET %s = %s WHERE %s IS NULL", q, c, expr, c),
			Comment: fmt.Sprintf("backfill column %q in table %q", ft.column.Name, ft.table.Name),
		})
	}
	out = append(out, ft.post...)
	return out, nil
}

// Plan computes the steps that bring the connected database to the
// state described by the given tables. The returned plan starts in
// the planned state and must pass Validate before Execute.
func (a *Atlas) Plan(ctx context.Context, tables ...*Table) (*Plan, error) {
	if err := a.init(); err != nil {
		return nil, err
	}
	if err := a.sqlDialect.init(ctx); err != nil {
		return nil, err
	}
	mp, info, err := a.plan(ctx, "changes", tables)
	if err != nil {
		return nil, err
	}
	p := &Plan{Name: mp.Name, State: StatePlanned, notes: info.notes}
	for _, ft := range info.tasks {
		for _, c := range ft.pre {
			p.Steps = append(p.Steps, stepOf(c))
		}
	}
	for _, c := range mp.Changes {
		p.Steps = append(p.Steps, stepOf(c))
	}
	for _, ft := range info.tasks {
		p.EstimatedRows += ft.rows
		if ft.batched {
			p.Steps = append(p.Steps, &Step{
				Comment:  fmt.Sprintf("backfill column %q in table %q", ft.column.Name, ft.table.Name),
				Strategy: StrategyBatchedUpdate,
				task:     ft,
			})
		}
		for _, c := range ft.post {
			p.Steps = append(p.Steps, stepOf(c))
		}
	}
	// A flat cost per statement plus a per-row cost for backfills.
	p.EstimatedDuration = time.Duration(len(p.Steps))*25*time.Millisecond +
		time.Duration(p.EstimatedRows)*100*time.Microsecond
	return p, nil
}

func stepOf(c *migrate.Change) *Step {
	return &Step{
		Cmd:     c.Cmd,
		Args:    c.Args,
		Comment: c.Comment,
		Reverse: reverseCmds(c.Reverse),
	}
}

// reverseCmds normalizes the reverse field of a change, which holds
// either a single statement or an ordered list.
func reverseCmds(v any) []string {
	switch v := v.(type) {
	case string:
		if v != "" {
			return []string{v}
		}
	case []string:
		return v
	}
	return nil
}

// Validate checks that the plan is safe to execute and moves it to
// the validated state if so. Unsafe plans report their issues and
// stay unvalidated, which blocks Execute.
func (a *Atlas) Validate(ctx context.Context, p *Plan) *Report {
	r := &Report{}
	if p.State != StatePlanned && p.State != StateValidated {
		r.Issues = append(r.Issues, &ValidationError{
			Table:   p.Name,
			Message: fmt.Sprintf("plan in state %q cannot be validated", p.State),
		})
		return r
	}
	for _, n := range p.notes {
		switch {
		case n.kind.Is(DropColumn) && a.allowDropColumn, n.kind.Is(DropIndex) && a.allowDropIndex:
			r.Warnings = append(r.Warnings, n.err)
		case n.kind.Is(ModifyColumn):
			r.Warnings = append(r.Warnings, n.err)
		default:
			r.Issues = append(r.Issues, n.err)
		}
	}
	for _, s := range p.Steps {
		if s.task != nil {
			a.validateFill(ctx, s.task, r)
		}
	}
	r.IsSafe = len(r.Issues) == 0
	if r.IsSafe && p.State == StatePlanned {
		p.State = StateValidated
	}
	return r
}

// validateFill vets the backfill of a single column. Probe failures
// are reported as issues rather than errors, as an unverifiable plan
// is equally unsafe to run.
func (a *Atlas) validateFill(ctx context.Context, ft *fillTask, r *Report) {
	t1, c1 := ft.table, ft.column
	fill := c1.Fill
	if err := fill.valid(); err != nil {
		r.Issues = append(r.Issues, &ValidationError{
			Table:   t1.Name,
			Column:  c1.Name,
			Message: err.Error(),
		})
		return
	}
	if fill.kind == fillCases && !fill.hasFallback() {
		r.Warnings = append(r.Warnings, &ValidationError{
			Table:   t1.Name,
			Column:  c1.Name,
			Message: "rows matching no case keep null and fail the final not null change",
		})
	}
	if v, ok := fill.sample(); ok {
		for _, ck := range c1.Checks {
			if !checkValue(ck, v) {
				r.Issues = append(r.Issues, &ValidationError{
					Table:   t1.Name,
					Column:  c1.Name,
					Message: fmt.Sprintf("backfill value %v violates the %s constraint", v, ck.Op),
				})
			}
		}
	} else if len(c1.Checks) > 0 {
		r.Warnings = append(r.Warnings, &ValidationError{
			Table:   t1.Name,
			Column:  c1.Name,
			Message: "backfill values cannot be checked before execution",
		})
	}
	if c1.Unique && ft.rows > 1 && fill.constant() {
		r.Issues = append(r.Issues, &ValidationError{
			Table:   t1.Name,
			Column:  c1.Name,
			Message: fmt.Sprintf("constant backfill duplicates a unique column across %d rows", ft.rows),
		})
	}
	switch fill.kind {
	case fillRef:
		a.probeRef(ctx, ft, fill.refTable, fill.refColumn, fill.value, r)
	case fillRefExpr:
		r.Warnings = append(r.Warnings, &ValidationError{
			Table:   t1.Name,
			Column:  c1.Name,
			Message: "per-row references are checked by the database during the backfill",
		})
	case fillStatic:
		if fk, ok := fkOf(t1, c1.Name); ok && fk.RefTable != nil && len(fk.RefColumns) == 1 {
			a.probeRef(ctx, ft, fk.RefTable.Name, fk.RefColumns[0].Name, fill.value, r)
		}
	}
	if ft.batched {
		if len(t1.PrimaryKey) != 1 {
			r.Issues = append(r.Issues, &ValidationError{
				Table:   t1.Name,
				Column:  c1.Name,
				Message: "batched backfill requires a single-column primary key",
			})
		}
		if a.dialect == dialect.SQLite {
			r.Warnings = append(r.Warnings, &ValidationError{
				Table:    t1.Name,
				Column:   c1.Name,
				Message:  "enforcing not null rebuilds the table and is not fully reversible",
				Breaking: true,
			})
		}
	}
}

func (a *Atlas) probeRef(ctx context.Context, ft *fillTask, table, column string, v any, r *Report) {
	exists, err := a.refExists(ctx, table, column, v)
	switch {
	case err != nil:
		r.Issues = append(r.Issues, &ValidationError{
			Table:   ft.table.Name,
			Column:  ft.column.Name,
			Message: fmt.Sprintf("cannot verify referenced row: %s", err),
		})
	case !exists:
		r.Issues = append(r.Issues, &ValidationError{
			Table:   ft.table.Name,
			Column:  ft.column.Name,
			Message: fmt.Sprintf("referenced row %s.%s = %v does not exist", table, column, v),
		})
	}
}

// checkValue evaluates a structured field constraint against a
// candidate backfill value. Inapplicable combinations pass.
func checkValue(ck field.Check, v any) bool {
	switch ck.Op {
	case field.CheckMin, field.CheckMax:
		bound, ok1 := toFloat(ck.Value)
		x, ok2 := toFloat(v)
		if !ok1 || !ok2 {
			return true
		}
		if ck.Op == field.CheckMin {
			return x >= bound
		}
		return x <= bound
	case field.CheckMinLen, field.CheckMaxLen:
		s, ok1 := v.(string)
		bound, ok2 := toFloat(ck.Value)
		if !ok1 || !ok2 {
			return true
		}
		if ck.Op == field.CheckMinLen {
			return float64(len(s)) >= bound
		}
		return float64(len(s)) <= bound
	case field.CheckMatch:
		s, ok1 := v.(string)
		pattern, ok2 := ck.Value.(string)
		if !ok1 || !ok2 {
			return true
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return true
		}
		return re.MatchString(s)
	}
	return true
}

func toFloat(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// interceptFills rewrites NOT NULL column additions whose definitions
// carry a backfill. Fills the database can apply natively become
// column defaults, anything else is planned as a nullable addition
// followed by a batched backfill and a finalizing constraint change.
func (a *Atlas) interceptFills(ctx context.Context, drv migrate.Driver, tables []*Table, changes []schema.Change) ([]*fillTask, error) {
	var tasks []*fillTask
	byName := make(map[string]*Table, len(tables))
	for _, t := range tables {
		byName[t.Name] = t
	}
	for _, c := range changes {
		mt, ok := c.(*schema.ModifyTable)
		if !ok {
			continue
		}
		t1, ok := byName[mt.T.Name]
		if !ok {
			continue
		}
		for _, mc := range mt.Changes {
			ac, ok := mc.(*schema.AddColumn)
			if !ok || ac.C.Type.Null {
				continue
			}
			c1, ok := t1.Column(ac.C.Name)
			if !ok || c1.Fill == nil {
				continue
			}
			ft, err := a.fillFor(ctx, drv, t1, c1, mt.T, ac.C)
			if err != nil {
				return nil, err
			}
			if ft != nil {
				tasks = append(tasks, ft)
			}
		}
	}
	return tasks, nil
}

// fillFor plans the backfill of one column. It may set a default on
// or lift the NOT NULL constraint of the desired column, which the
// downstream planner turns into the actual DDL.
func (a *Atlas) fillFor(ctx context.Context, drv migrate.Driver, t1 *Table, c1 *Column, t2 *schema.Table, c2 *schema.Column) (*fillTask, error) {
	fill := c1.Fill
	// A static fill matching the declared column default is already
	// covered by the column DDL.
	if fill.kind == fillStatic && c1.Default != nil && literal(c1.Default) == literal(fill.value) {
		return nil, nil
	}
	rows, err := a.countRows(ctx, t1.Name)
	if err != nil {
		return nil, err
	}
	ft := &fillTask{table: t1, column: c1, rows: rows, batch: batchSizeFor(rows, a.batchSize)}
	if c2.Default == nil {
		if x, ok := fill.atDefault(a.dialect); ok {
			c2.Default = x
			// The default exists only to fill previous rows. Drop it
			// once the column is in place. SQLite keeps it, as
			// changing a default there requires a table rebuild.
			if drop, ok := a.dropDefault(t1.Name, c1.Name, x); ok {
				ft.post = append(ft.post, drop)
			}
			return ft, nil
		}
	}
	if fill.kind == fillSequence && a.dialect == dialect.Postgres {
		seq := fill.seq
		if seq == "" {
			seq = fmt.Sprintf("%s_%s_seq", t1.Name, c1.Name)
		}
		ft.pre = append(ft.pre, &migrate.Change{
			Cmd:     fmt.Sprintf(`CREATE SEQUENCE IF NOT EXISTS "%s"`, seq),
			Reverse: fmt.Sprintf(`DROP SEQUENCE IF EXISTS "%s"`, seq),
			Comment: fmt.Sprintf("create sequence %q backing column %q", seq, c1.Name),
		})
		// A volatile default fills existing rows in the addition
		// itself and keeps feeding values to new rows.
		c2.Default = &schema.RawExpr{X: fmt.Sprintf("nextval('%s')", seq)}
		return ft, nil
	}
	ft.batched = true
	post, err := a.sqlDialect.atNotNull(ctx, drv, a.planOptions(), t2, c2)
	if err != nil {
		return nil, err
	}
	ft.post = append(ft.post, post...)
	// The column is added nullable and constrained after the fill.
	c2.Type.Null = true
	return ft, nil
}

// dropDefault returns the statement removing a backfill-only default
// after the column addition.
func (a *Atlas) dropDefault(table, column string, x schema.Expr) (*migrate.Change, bool) {
	var v string
	switch x := x.(type) {
	case *schema.Literal:
		v = x.V
	case *schema.RawExpr:
		v = x.X
	}
	switch a.dialect {
	case dialect.Postgres:
		return &migrate.Change{
			Cmd:     fmt.Sprintf(`ALTER TABLE "%s" ALTER COLUMN "%s" DROP DEFAULT`, table, column),
			Reverse: fmt.Sprintf(`ALTER TABLE "%s" ALTER COLUMN "%s" SET DEFAULT %s`, table, column, v),
			Comment: fmt.Sprintf("drop backfill default of column %q", column),
		}, true
	case dialect.MySQL:
		return &migrate.Change{
			Cmd:     fmt.Sprintf("ALTER TABLE `%s` ALTER COLUMN `%s` DROP DEFAULT", table, column),
			Reverse: fmt.Sprintf("ALTER TABLE `%s` ALTER COLUMN `%s` SET DEFAULT %s", table, column, v),
			Comment: fmt.Sprintf("drop backfill default of column %q", column),
		}, true
	}
	return nil, false
}

// dropNotes records destructive or lossy operations found in the
// computed diff for the plan validator.
func dropNotes(changes []schema.Change) []planNote {
	var notes []planNote
	for _, c := range changes {
		switch c := c.(type) {
		case *schema.DropTable:
			notes = append(notes, planNote{kind: DropTable, err: &ValidationError{
				Table:    c.T.Name,
				Message:  "table will be dropped",
				Breaking: true,
			}})
		case *schema.ModifyTable:
			for _, mc := range c.Changes {
				switch mc := mc.(type) {
				case *schema.DropColumn:
					notes = append(notes, planNote{kind: DropColumn, err: &ValidationError{
						Table:    c.T.Name,
						Column:   mc.C.Name,
						Message:  "column will be dropped",
						Breaking: true,
					}})
				case *schema.DropIndex:
					notes = append(notes, planNote{kind: DropIndex, err: &ValidationError{
						Table:   c.T.Name,
						Message: fmt.Sprintf("index %q will be dropped", mc.I.Name),
					}})
				case *schema.ModifyColumn:
					if mc.Change&schema.ChangeType != 0 {
						notes = append(notes, planNote{kind: ModifyColumn, err: &ValidationError{
							Table:   c.T.Name,
							Column:  mc.To.Name,
							Message: "column type is changing and may lose data",
						}})
					}
					if mc.Change&schema.ChangeNull != 0 && mc.From.Type.Null && !mc.To.Type.Null {
						notes = append(notes, planNote{kind: ModifyColumn, err: &ValidationError{
							Table:   c.T.Name,
							Column:  mc.To.Name,
							Message: "column changes from null to not null and fails on rows holding nulls",
						}})
					}
				}
			}
		}
	}
	return notes
}

// countRows estimates the table size with an exact count at planning
// time.
func (a *Atlas) countRows(ctx context.Context, table string) (int64, error) {
	rows := &sql.Rows{}
	query, args := sql.Dialect(a.dialect).Select().Count().From(sql.Table(table)).Query()
	if err := a.sqlDialect.Query(ctx, query, args, rows); err != nil {
		return 0, fmt.Errorf("sql/schema: counting rows of table %q: %w", table, err)
	}
	defer rows.Close()
	if !rows.Next() {
		return 0, rows.Err()
	}
	var n int64
	if err := rows.Scan(&n); err != nil {
		return 0, fmt.Errorf("sql/schema: scanning row count of table %q: %w", table, err)
	}
	return n, nil
}

// refExists reports whether a row with the given column value exists
// in the referenced table.
func (a *Atlas) refExists(ctx context.Context, table, column string, v any) (bool, error) {
	rows := &sql.Rows{}
	query, args := sql.Dialect(a.dialect).Select().Count().From(sql.Table(table)).Where(sql.EQ(column, v)).Query()
	if err := a.sqlDialect.Query(ctx, query, args, rows); err != nil {
		return false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return false, rows.Err()
	}
	var n int64
	if err := rows.Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// batchSizeFor shrinks the configured batch size on larger tables so
// each backfill transaction holds its locks for a shorter time.
func batchSizeFor(rows int64, base int) int {
	if base <= 0 {
		base = defaultBatchSize
	}
	switch {
	case rows > hugeTable:
		base /= 10
	case rows > largeTable:
		base /= 2
	}
	if base < 1 {
		base = 1
	}
	return base
}

// ident quotes an identifier for the given dialect.
func ident(d, name string) string {
	if d == dialect.Postgres {
		return `"` + name + `"`
	}
	return "`" + name + "`"
}

func fkOf(t *Table, column string) (*ForeignKey, bool) {
	for _, fk := range t.ForeignKeys {
		for _, c := range fk.Columns {
			if c.Name == column {
				return fk, true
			}
		}
	}
	return nil, false
}
