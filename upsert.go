package forma

import (
	"context"
	"errors"
	"fmt"

	"github.com/formadb/forma/dialect"
	"github.com/formadb/forma/dialect/sql"
)

// Upsert inserts the row or updates the existing one according to the
// conflict specification, and reports which of the two happened.
func (h *Handler) Upsert(ctx context.Context, in UpsertInput) (*UpsertResult, error) {
	if err := h.bind(OpUpsert); err != nil {
		return nil, err
	}
	ctx, cancel := h.client.opContext(ctx)
	defer cancel()
	v, err := h.runMutation(ctx, in.Fields, func(ctx context.Context) (Value, error) {
		targets, err := h.conflictTargets(in.Conflict)
		if err != nil {
			return nil, err
		}
		// Postgres settles in one round trip. The other dialects pair
		// the statement with a probe or re-read, kept on one
		// transaction so the created flag matches the row returned.
		need := h.entity.Lifecycle.Audit || h.client.driver.Dialect() != dialect.Postgres
		var res *UpsertResult
		err = h.withTx(ctx, need, func(conn dialect.ExecQuerier) error {
			var err error
			res, err = h.upsertOne(ctx, conn, in.Fields, in.Conflict, targets)
			return err
		})
		return res, err
	})
	if err != nil {
		return nil, h.opErr(err)
	}
	return v.(*UpsertResult), nil
}

// UpsertBulk upserts the rows in transactional batches. All rows share
// one conflict specification; per-row resolution uses UpdateColumns,
// since explicit Update values would assign the same values to every
// conflicting row.
func (h *Handler) UpsertBulk(ctx context.Context, in UpsertBulkInput) ([]*UpsertResult, error) {
	if err := h.bind(OpUpsertBulk); err != nil {
		return nil, err
	}
	ctx, cancel := h.client.opContext(ctx)
	defer cancel()
	var first Fieldmap
	if len(in.Rows) > 0 {
		first = in.Rows[0]
	}
	v, err := h.runMutation(ctx, first, func(ctx context.Context) (Value, error) {
		targets, err := h.conflictTargets(in.Conflict)
		if err != nil {
			return nil, err
		}
		out := make([]*UpsertResult, 0, len(in.Rows))
		for batch, start := 0, 0; start < len(in.Rows); batch, start = batch+1, start+h.client.batchSize {
			end := min(start+h.client.batchSize, len(in.Rows))
			err := h.inTx(ctx, batch, func(tx dialect.Tx) error {
				for _, fields := range in.Rows[start:end] {
					res, err := h.upsertOne(ctx, tx, fields, in.Conflict, targets)
					if err != nil {
						return err
					}
					out = append(out, res)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		}
		return out, nil
	})
	if err != nil {
		return nil, h.opErr(err)
	}
	return v.([]*UpsertResult), nil
}

// conflictTargets validates the conflict specification against the
// compiled model and resolves the target fields. The target set must
// equal the identity alone or one declared unique constraint, and the
// resolution must not assign identity, conflict-target or
// engine-managed fields.
func (h *Handler) conflictTargets(spec ConflictSpec) ([]*FieldInfo, error) {
	ent := h.entity
	if len(spec.On) == 0 {
		return nil, NewConflictSpecError(ent.Name, spec.On, "missing conflict target")
	}
	targets := make([]*FieldInfo, len(spec.On))
	target := make(map[string]bool, len(spec.On))
	for i, name := range spec.On {
		f, ok := ent.Field(name)
		if !ok {
			return nil, NewConflictSpecError(ent.Name, spec.On, fmt.Sprintf("unknown field %q", name))
		}
		targets[i] = f
		target[name] = true
	}
	if !ent.HasUnique(spec.On...) {
		return nil, NewConflictSpecError(ent.Name, spec.On, "conflict target must be the identity or one declared unique constraint")
	}
	check := func(name string) error {
		f, ok := ent.Field(name)
		if !ok {
			return NewConflictSpecError(ent.Name, spec.On, fmt.Sprintf("unknown field %q in resolution", name))
		}
		switch {
		case f.Identity:
			return NewConflictSpecError(ent.Name, spec.On, "identity cannot be assigned on conflict")
		case target[name]:
			return NewConflictSpecError(ent.Name, spec.On, fmt.Sprintf("conflict target %q cannot be assigned", name))
		case f.Auto || f.Incremental:
			return NewConflictSpecError(ent.Name, spec.On, fmt.Sprintf("engine-managed field %q cannot be assigned", name))
		case f.Immutable:
			return NewConflictSpecError(ent.Name, spec.On, fmt.Sprintf("field %q is immutable", name))
		}
		return nil
	}
	for _, name := range spec.Update.sortedKeys() {
		if err := check(name); err != nil {
			return nil, err
		}
	}
	for _, name := range spec.UpdateColumns {
		if err := check(name); err != nil {
			return nil, err
		}
	}
	return targets, nil
}

// upsertOne prepares and executes a single upsert on conn.
func (h *Handler) upsertOne(ctx context.Context, conn dialect.ExecQuerier, in Fieldmap, spec ConflictSpec, targets []*FieldInfo) (*UpsertResult, error) {
	ent := h.entity
	fields, advisories, err := h.prepareCreate(ctx, in)
	if err != nil {
		return nil, err
	}
	cols, vals, err := h.insertValues(fields)
	if err != nil {
		return nil, err
	}
	resolve, err := h.conflictResolution(spec, targets, fields)
	if err != nil {
		return nil, err
	}
	targetCols := make([]string, len(targets))
	for i, f := range targets {
		targetCols[i] = f.Column
	}
	d := h.client.driver.Dialect()
	ins := sql.Dialect(d).Insert(ent.Table).Columns(cols...).Values(vals...)
	if ent.schemaName != "" {
		ins.Schema(ent.schemaName)
	}
	ins.OnConflict(sql.ConflictColumns(targetCols...), sql.ResolveWith(resolve))
	var (
		row     *Row
		created bool
	)
	switch d {
	case dialect.Postgres:
		// One round trip: xmax is zero on a freshly inserted row and
		// non-zero on one rewritten by the conflict action.
		ins.Returning(append(ent.Columns(), "(xmax = 0)")...)
		query, args := ins.Query()
		h.logQuery(ctx, query, args)
		var rows sql.Rows
		if err := conn.Query(ctx, query, args, &rows); err != nil {
			return nil, h.dbErr(err)
		}
		if row, created, err = h.scanUpsertRow(&rows); err != nil {
			return nil, err
		}
	case dialect.MySQL:
		query, args := ins.Query()
		h.logQuery(ctx, query, args)
		var res sql.Result
		if err := conn.Exec(ctx, query, args, &res); err != nil {
			return nil, h.dbErr(err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, h.dbErr(err)
		}
		// The driver reports one affected row for an insert and two
		// for a duplicate-key update.
		created = affected == 1
		pred, ok := conflictPred(fields, targets)
		if !ok {
			lid, err := res.LastInsertId()
			if err != nil {
				return nil, h.dbErr(err)
			}
			pred = sql.EQ(ent.ID.Column, lid)
		}
		if row, err = h.fetchOne(ctx, conn, pred); err != nil {
			return nil, err
		}
	default:
		exists := false
		if pred, ok := conflictPred(fields, targets); ok {
			n, err := h.probe(ctx, conn, pred)
			if err != nil {
				return nil, err
			}
			exists = n > 0
		}
		ins.Returning(ent.Columns()...)
		query, args := ins.Query()
		h.logQuery(ctx, query, args)
		var rows sql.Rows
		if err := conn.Query(ctx, query, args, &rows); err != nil {
			return nil, h.dbErr(err)
		}
		scanned, err := h.scanRows(&rows, ent.Fields)
		if err != nil {
			return nil, h.dbErr(err)
		}
		if len(scanned) == 0 {
			return nil, h.dbErr(errors.New("upsert returned no row"))
		}
		row, created = scanned[0], !exists
	}
	for _, a := range advisories {
		row.addAdvisory(a.Field, a.Reason)
	}
	if ent.Lifecycle.Audit {
		if err := h.auditAppend(ctx, conn, "upsert", []any{row.ID()}, fields); err != nil {
			return nil, h.dbErr(err)
		}
	}
	return &UpsertResult{Row: row, Created: created}, nil
}

// conflictResolution builds the DO UPDATE assignments: the explicit
// values, the named columns taking their incoming values, or every
// eligible insert column, plus the engine-managed update fields. An
// upsert with nothing to assign keeps a target column in place so the
// statement still returns the stored row.
func (h *Handler) conflictResolution(spec ConflictSpec, targets []*FieldInfo, fields Fieldmap) (func(*sql.UpdateSet), error) {
	ent := h.entity
	target := make(map[string]bool, len(targets))
	for _, f := range targets {
		target[f.Name] = true
	}
	var actions []func(*sql.UpdateSet)
	switch {
	case len(spec.Update) > 0:
		for _, name := range spec.Update.sortedKeys() {
			f, _ := ent.Field(name)
			if err := h.checkValue(f, spec.Update[name]); err != nil {
				return nil, err
			}
			v, err := storageValue(f, spec.Update[name])
			if err != nil {
				return nil, err
			}
			col := f.Column
			if v == nil {
				actions = append(actions, func(u *sql.UpdateSet) { u.SetNull(col) })
				continue
			}
			actions = append(actions, func(u *sql.UpdateSet) { u.Set(col, v) })
		}
	case len(spec.UpdateColumns) > 0:
		for _, name := range spec.UpdateColumns {
			f, _ := ent.Field(name)
			col := f.Column
			actions = append(actions, func(u *sql.UpdateSet) { u.SetExcluded(col) })
		}
	default:
		for _, f := range ent.Fields {
			if !fields.Has(f.Name) || f.Identity || f.Auto || f.Incremental || f.Immutable || target[f.Name] {
				continue
			}
			col := f.Column
			actions = append(actions, func(u *sql.UpdateSet) { u.SetExcluded(col) })
		}
	}
	for _, f := range ent.Fields {
		if !f.HasUpdateDefault() || f.Identity || target[f.Name] {
			continue
		}
		v, err := storageValue(f, f.UpdateDefaultValue())
		if err != nil {
			return nil, err
		}
		col := f.Column
		actions = append(actions, func(u *sql.UpdateSet) { u.Set(col, v) })
	}
	if vf := ent.VersionField(); vf != nil && !target[vf.Name] {
		col := vf.Column
		actions = append(actions, func(u *sql.UpdateSet) { u.Add(col, 1) })
	}
	if len(actions) == 0 {
		col := targets[0].Column
		actions = append(actions, func(u *sql.UpdateSet) { u.SetIgnore(col) })
	}
	return func(u *sql.UpdateSet) {
		for _, a := range actions {
			a(u)
		}
	}, nil
}

// conflictPred builds the re-read predicate from the conflict key
// values carried by the insert. An incremental-identity target has no
// insert value; callers fall back to the driver-reported id.
func conflictPred(fields Fieldmap, targets []*FieldInfo) (*sql.Predicate, bool) {
	ps := make([]*sql.Predicate, len(targets))
	for i, f := range targets {
		if !fields.Has(f.Name) {
			return nil, false
		}
		ps[i] = sql.EQ(f.Column, fields[f.Name])
	}
	if len(ps) == 1 {
		return ps[0], true
	}
	return sql.And(ps...), true
}

// scanUpsertRow reads one returned row plus the trailing created flag.
func (h *Handler) scanUpsertRow(rows *sql.Rows) (*Row, bool, error) {
	defer rows.Close()
	ent := h.entity
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, false, h.dbErr(err)
		}
		return nil, false, h.dbErr(errors.New("upsert returned no row"))
	}
	n := len(ent.Fields)
	values := make([]any, n+1)
	ptrs := make([]any, n+1)
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, false, h.dbErr(err)
	}
	names := make([]string, n)
	for i, f := range ent.Fields {
		names[i] = f.Name
		values[i] = decodeValue(f, values[i])
	}
	created, _ := values[n].(bool)
	return NewRow(ent.Name, ent.ID.Name, names, values[:n]), created, nil
}

// probe counts the rows matching the predicate on conn.
func (h *Handler) probe(ctx context.Context, conn dialect.ExecQuerier, pred *sql.Predicate) (int, error) {
	b := sql.Dialect(h.client.driver.Dialect())
	t := b.Table(h.tableRef())
	s := b.Select().From(t).Where(pred).Count()
	query, args := s.Query()
	h.logQuery(ctx, query, args)
	var rows sql.Rows
	if err := conn.Query(ctx, query, args, &rows); err != nil {
		return 0, h.dbErr(err)
	}
	defer rows.Close()
	n := 0
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return 0, h.dbErr(err)
		}
	}
	return n, h.dbErr(rows.Err())
}
