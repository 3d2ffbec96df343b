package schema

import (
	"context"
	"fmt"
	"time"

	"ariga.io/atlas/sql/migrate"
	"golang.org/x/sync/errgroup"

	"github.com/formadb/forma/dialect"
	"github.com/formadb/forma/dialect/sql"
)

// Result summarizes an executed or rolled back migration plan.
type Result struct {
	State PlanState
	// StepsRun counts the steps that completed, or on rollback
	// the steps that were reversed.
	StepsRun int
	// RowsBackfilled counts the rows written by batched steps.
	RowsBackfilled int64
	Duration       time.Duration
}

// StepError reports the position at which plan execution failed.
type StepError struct {
	// Step indexes into Plan.Steps.
	Step int
	// Batch is the failing batch of a batched step, or -1 for
	// single-statement steps.
	Batch int
	Err   error
}

func (e *StepError) Error() string {
	if e.Batch >= 0 {
		return fmt.Sprintf("sql/schema: step %d failed at batch %d: %v", e.Step, e.Batch, e.Err)
	}
	return fmt.Sprintf("sql/schema: step %d failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Execute runs a validated plan against the connected database.
// Consecutive single-statement steps are applied as one change set so
// apply hooks observe them together, and batched steps are driven by
// the engine in per-batch transactions, each committed on its own to
// keep lock windows short. A failed plan keeps its completed steps
// marked and can be handed to Rollback.
func (a *Atlas) Execute(ctx context.Context, p *Plan) (*Result, error) {
	if p.State != StateValidated {
		return nil, fmt.Errorf("sql/schema: executing a %s plan, validate it first", p.State)
	}
	if err := a.init(); err != nil {
		return nil, err
	}
	p.State = StateExecuting
	start := time.Now()
	res := &Result{}
	fail := func(step, batch int, err error) (*Result, error) {
		p.State = StateFailed
		res.State = StateFailed
		res.Duration = time.Since(start)
		return res, &StepError{Step: step, Batch: batch, Err: err}
	}
	for i := 0; i < len(p.Steps); {
		if p.Steps[i].Strategy == StrategyBatchedUpdate {
			rows, batch, err := a.backfill(ctx, p.Steps[i].task)
			res.RowsBackfilled += rows
			if err != nil {
				return fail(i, batch, err)
			}
			p.Steps[i].Done = true
			res.StepsRun++
			i++
			continue
		}
		j := i
		mp := &migrate.Plan{Name: p.Name}
		for ; j < len(p.Steps) && p.Steps[j].Strategy == StrategySingleStatement; j++ {
			mp.Changes = append(mp.Changes, &migrate.Change{
				Cmd:     p.Steps[j].Cmd,
				Args:    p.Steps[j].Args,
				Comment: p.Steps[j].Comment,
			})
		}
		if err := a.apply(ctx, mp); err != nil {
			return fail(i, -1, err)
		}
		for ; i < j; i++ {
			p.Steps[i].Done = true
			res.StepsRun++
		}
	}
	p.State = StateSucceeded
	res.State = StateSucceeded
	res.Duration = time.Since(start)
	return res, nil
}

// Rollback reverses the completed steps of a failed plan, last one
// first. It never runs on its own, as partially backfilled values may
// be worth keeping, so the call is always an explicit decision. Steps
// without reverse statements are skipped with a warning.
func (a *Atlas) Rollback(ctx context.Context, p *Plan) (*Result, error) {
	if p.State != StateFailed {
		return nil, fmt.Errorf("sql/schema: rolling back a %s plan", p.State)
	}
	if err := a.init(); err != nil {
		return nil, err
	}
	start := time.Now()
	res := &Result{}
	for i := len(p.Steps) - 1; i >= 0; i-- {
		s := p.Steps[i]
		if !s.Done {
			continue
		}
		if len(s.Reverse) == 0 {
			a.log.Warn("no reverse statements, skipping step", "step", i, "comment", s.Comment)
			continue
		}
		for _, cmd := range s.Reverse {
			if err := a.exec(ctx, a.sqlDialect, cmd, nil); err != nil {
				res.Duration = time.Since(start)
				return res, &StepError{Step: i, Batch: -1, Err: err}
			}
		}
		s.Done = false
		res.StepsRun++
	}
	p.State = StateRolledBack
	res.State = StateRolledBack
	res.Duration = time.Since(start)
	return res, nil
}

// backfill drives the batched update loop of one fill task. It pages
// through the rows whose column is still null in primary key order and
// fills one page per transaction. SQL-expressible fills write a page
// with a single ranged update, engine-generated fills write row by
// row. The returned batch is the index of the failing page, if any.
func (a *Atlas) backfill(ctx context.Context, ft *fillTask) (int64, int, error) {
	if ft == nil {
		return 0, 0, fmt.Errorf("sql/schema: batched step without a fill task")
	}
	if len(ft.table.PrimaryKey) != 1 {
		return 0, 0, fmt.Errorf("sql/schema: backfilling table %q requires a single-column primary key", ft.table.Name)
	}
	var (
		table  = ft.table.Name
		column = ft.column.Name
		pk     = ft.table.PrimaryKey[0].Name
		fill   = ft.column.Fill
		size   = ft.batch
	)
	if size < 1 {
		size = defaultBatchSize
	}
	expr, exprOK := fill.updateExpr(a.dialect)
	gen, genOK := fill.generator(a.dialect)
	if !exprOK && !genOK {
		return 0, 0, fmt.Errorf("sql/schema: no value source for %s fill of column %q", fill.kind, column)
	}
	var (
		filled int64
		batch  int
		last   any
	)
	for {
		if err := ctx.Err(); err != nil {
			return filled, batch, err
		}
		keys, err := a.nullKeys(ctx, table, column, pk, last, size)
		if err != nil {
			return filled, batch, err
		}
		if len(keys) == 0 {
			return filled, batch, nil
		}
		if exprOK {
			err = a.fillRange(ctx, table, column, pk, expr, keys[0], keys[len(keys)-1])
		} else {
			err = a.fillRows(ctx, table, column, pk, gen, keys)
		}
		if err != nil {
			return filled, batch, err
		}
		filled += int64(len(keys))
		// Paging on the key instead of the null check alone
		// guarantees progress even if a fill writes null back.
		last = keys[len(keys)-1]
		a.log.Debug("backfill progress", "table", table, "column", column, "batch", batch, "rows", filled)
		batch++
	}
}

// nullKeys returns the primary keys of up to limit rows whose column
// is still null, ordered by key and starting after the given one.
func (a *Atlas) nullKeys(ctx context.Context, table, column, pk string, last any, limit int) ([]any, error) {
	sel := sql.Dialect(a.dialect).
		Select(pk).
		From(sql.Table(table)).
		Where(sql.IsNull(column)).
		OrderBy(sql.Asc(pk)).
		Limit(limit)
	if last != nil {
		sel.Where(sql.GT(pk, last))
	}
	query, args := sel.Query()
	rows := &sql.Rows{}
	if err := a.sqlDialect.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("sql/schema: scanning null rows of table %q: %w", table, err)
	}
	defer rows.Close()
	var keys []any
	for rows.Next() {
		var k any
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// fillRange writes a whole page with one ranged update. The keys are
// exactly the null rows inside the range, so rows that already hold a
// value are left untouched.
func (a *Atlas) fillRange(ctx context.Context, table, column, pk, expr string, lo, hi any) error {
	tx, err := a.driver.Tx(ctx)
	if err != nil {
		return err
	}
	query, args := sql.Dialect(a.dialect).
		Update(table).
		Set(column, sql.Expr(expr)).
		Where(sql.And(sql.IsNull(column), sql.GTE(pk, lo), sql.LTE(pk, hi))).
		Query()
	if err := tx.Exec(ctx, query, args, nil); err != nil {
		return rollback(tx, err)
	}
	return tx.Commit()
}

// fillRows writes engine-generated values row by row, one page per
// transaction.
func (a *Atlas) fillRows(ctx context.Context, table, column, pk string, gen func() any, keys []any) error {
	tx, err := a.driver.Tx(ctx)
	if err != nil {
		return err
	}
	for _, k := range keys {
		query, args := sql.Dialect(a.dialect).
			Update(table).
			Set(column, gen()).
			Where(sql.EQ(pk, k)).
			Query()
		if err := tx.Exec(ctx, query, args, nil); err != nil {
			return rollback(tx, err)
		}
	}
	return tx.Commit()
}

// desired concurrency for independent table groups.
const maxConcurrentCreates = 4

// CreateConcurrently creates the given tables like Create, but runs
// foreign-key independent groups in parallel. Tables connected by
// foreign keys stay in one group and are created together. With
// universal ids enabled the id registry imposes a global order, so
// the call degrades to a plain Create.
func (a *Atlas) CreateConcurrently(ctx context.Context, tables ...*Table) error {
	if a.universalID {
		return a.Create(ctx, tables...)
	}
	groups := fkComponents(tables)
	if len(groups) < 2 {
		return a.Create(ctx, tables...)
	}
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(maxConcurrentCreates)
	for _, g := range groups {
		eg.Go(func() error {
			// Each group binds its own dialect wrapper so the
			// version handshakes do not share state.
			ga := *a
			ga.sqlDialect = nil
			return ga.Create(ctx, g...)
		})
	}
	return eg.Wait()
}

// fkComponents partitions tables into connected components over their
// foreign keys. References to tables outside the set are ignored.
func fkComponents(tables []*Table) [][]*Table {
	index := make(map[string]int, len(tables))
	parent := make([]int, len(tables))
	for i, t := range tables {
		index[t.Name] = i
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	for i, t := range tables {
		for _, fk := range t.ForeignKeys {
			if fk.RefTable == nil {
				continue
			}
			if j, ok := index[fk.RefTable.Name]; ok {
				pi, pj := find(i), find(j)
				if pi != pj {
					parent[pi] = pj
				}
			}
		}
	}
	var (
		order  []int
		groups = make(map[int][]*Table, len(tables))
	)
	for i, t := range tables {
		r := find(i)
		if _, ok := groups[r]; !ok {
			order = append(order, r)
		}
		groups[r] = append(groups[r], t)
	}
	out := make([][]*Table, 0, len(order))
	for _, r := range order {
		out = append(out, groups[r])
	}
	return out
}

func rollback(tx dialect.Tx, err error) error {
	if rerr := tx.Rollback(); rerr != nil {
		err = fmt.Errorf("%w: %v", err, rerr)
	}
	return err
}
