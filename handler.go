package forma

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/formadb/forma/dialect"
	"github.com/formadb/forma/dialect/sql"
	"github.com/formadb/forma/filter"
)

// Handler executes one operation for one entity. Handlers are derived
// by the client on first request and cached per entity and operation;
// they hold no per-call state and are safe for concurrent use.
type Handler struct {
	client *Client
	entity *Entity
	op     Op
}

// Entity returns the name of the entity the handler operates on.
func (h *Handler) Entity() string { return h.entity.Name }

// Op returns the operation the handler was derived for.
func (h *Handler) Op() Op { return h.op }

// bind guards a verb method against a handler derived for another
// operation.
func (h *Handler) bind(op Op) error {
	if h.op != op {
		return NewQueryError(h.entity.Name, h.op, fmt.Errorf("handler derived for %s cannot execute %s", h.op, op))
	}
	return nil
}

// opMutation adapts a handler invocation to the Mutation interface
// consumed by hooks and policies.
type opMutation struct {
	op     Op
	entity string
	fields Fieldmap
}

func (m *opMutation) Op() Op           { return m.op }
func (m *opMutation) Type() string     { return m.entity }
func (m *opMutation) Fields() Fieldmap { return m.fields.Clone() }

// opQuery adapts a handler invocation to the Query interface consumed
// by interceptors and policies.
type opQuery struct {
	op     Op
	entity string
}

func (q *opQuery) Op() Op       { return q.op }
func (q *opQuery) Type() string { return q.entity }

// runMutation evaluates the entity's policies, threads exec through
// its hook chain and invalidates cached reads on success.
func (h *Handler) runMutation(ctx context.Context, fields Fieldmap, exec func(context.Context) (Value, error)) (Value, error) {
	m := &opMutation{op: h.op, entity: h.entity.Name, fields: fields}
	for _, p := range h.entity.policies {
		if err := p.EvalMutation(ctx, m); err != nil {
			return nil, err
		}
	}
	var mu Mutator = MutateFunc(func(ctx context.Context, _ Mutation) (Value, error) {
		return exec(ctx)
	})
	for i := len(h.entity.hooks) - 1; i >= 0; i-- {
		mu = h.entity.hooks[i](mu)
	}
	v, err := mu.Mutate(ctx, m)
	if err != nil {
		return nil, err
	}
	h.invalidate(ctx)
	return v, nil
}

// runQuery evaluates the entity's policies and threads exec through
// its interceptor chain.
func (h *Handler) runQuery(ctx context.Context, exec func(context.Context) (Value, error)) (Value, error) {
	q := &opQuery{op: h.op, entity: h.entity.Name}
	for _, p := range h.entity.policies {
		if err := p.EvalQuery(ctx, q); err != nil {
			return nil, err
		}
	}
	var qr Querier = QuerierFunc(func(ctx context.Context, _ Query) (Value, error) {
		return exec(ctx)
	})
	for i := len(h.entity.interceptors) - 1; i >= 0; i-- {
		qr = h.entity.interceptors[i].Intercept(qr)
	}
	return qr.Query(ctx, q)
}

// Create inserts one row and returns it as stored, defaults applied.
func (h *Handler) Create(ctx context.Context, in CreateInput) (*Row, error) {
	if err := h.bind(OpCreate); err != nil {
		return nil, err
	}
	ctx, cancel := h.client.opContext(ctx)
	defer cancel()
	v, err := h.runMutation(ctx, in.Fields, func(ctx context.Context) (Value, error) {
		var row *Row
		err := h.withTx(ctx, h.entity.Lifecycle.Audit, func(conn dialect.ExecQuerier) error {
			var err error
			row, err = h.createOne(ctx, conn, in)
			return err
		})
		return row, err
	})
	if err != nil {
		return nil, h.opErr(err)
	}
	return v.(*Row), nil
}

// createOne prepares, validates and executes a single insert on conn.
// Postgres and SQLite return the stored row in the same round trip;
// MySQL re-reads it by identity.
func (h *Handler) createOne(ctx context.Context, conn dialect.ExecQuerier, in CreateInput) (*Row, error) {
	ent := h.entity
	fields, advisories, err := h.prepareCreate(ctx, in.Fields)
	if err != nil {
		return nil, err
	}
	cols, vals, err := h.insertValues(fields)
	if err != nil {
		return nil, err
	}
	d := h.client.driver.Dialect()
	ins := sql.Dialect(d).Insert(ent.Table).Columns(cols...).Values(vals...)
	if ent.schemaName != "" {
		ins.Schema(ent.schemaName)
	}
	var row *Row
	switch d {
	case dialect.MySQL:
		query, args := ins.Query()
		h.logQuery(ctx, query, args)
		var res sql.Result
		if err := conn.Exec(ctx, query, args, &res); err != nil {
			return nil, h.dbErr(err)
		}
		id := fields[ent.ID.Name]
		if ent.ID.Incremental {
			lid, err := res.LastInsertId()
			if err != nil {
				return nil, h.dbErr(err)
			}
			id = lid
		}
		if row, err = h.fetchOne(ctx, conn, sql.EQ(ent.ID.Column, id)); err != nil {
			return nil, err
		}
	default:
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
			return nil, h.dbErr(errors.New("insert returned no row"))
		}
		row = scanned[0]
	}
	for _, a := range advisories {
		row.addAdvisory(a.Field, a.Reason)
	}
	if ent.Lifecycle.Audit {
		if err := h.auditAppend(ctx, conn, "create", []any{row.ID()}, fields); err != nil {
			return nil, h.dbErr(err)
		}
	}
	return row, nil
}

// Read fetches exactly one row. Zero matches fail with NotFoundError,
// more than one with NotSingularError.
func (h *Handler) Read(ctx context.Context, in ReadInput) (*Row, error) {
	if err := h.bind(OpRead); err != nil {
		return nil, err
	}
	ctx, cancel := h.client.opContext(ctx)
	defer cancel()
	if (in.ID == nil) == (in.Where == nil) {
		return nil, NewQueryError(h.entity.Name, h.op, errors.New("exactly one of ID and Where must be set"))
	}
	v, err := h.runQuery(ctx, func(ctx context.Context) (Value, error) {
		ent := h.entity
		s, fields, err := h.selector(ctx, in.IncludeDeleted, in.Where)
		if err != nil {
			return nil, err
		}
		if in.ID != nil {
			if ent.ID == nil {
				return nil, NewQueryError(ent.Name, h.op, errors.New("entity has no identity"))
			}
			if err := kindCheck(ent.ID, in.ID); err != nil {
				return nil, NewQueryError(ent.Name, h.op, err)
			}
			s.Where(sql.EQ(s.C(ent.ID.Column), in.ID))
		}
		s.Limit(2)
		rows, err := h.queryRows(ctx, s, fields, 2, 0)
		if err != nil {
			return nil, err
		}
		switch len(rows) {
		case 1:
			return rows[0], nil
		case 0:
			if in.ID != nil {
				return nil, NewNotFoundErrorWithID(ent.Name, in.ID)
			}
			return nil, NewNotFoundError(ent.Name)
		default:
			return nil, NewNotSingularError(ent.Name)
		}
	})
	if err != nil {
		return nil, h.opErr(err)
	}
	return v.(*Row), nil
}

// Update applies field assignments to every row in scope and reports
// how many changed.
func (h *Handler) Update(ctx context.Context, in UpdateInput) (*MutationResult, error) {
	if err := h.bind(OpUpdate); err != nil {
		return nil, err
	}
	ctx, cancel := h.client.opContext(ctx)
	defer cancel()
	v, err := h.runMutation(ctx, in.Fields, func(ctx context.Context) (Value, error) {
		var res *MutationResult
		err := h.withTx(ctx, h.entity.Lifecycle.Audit, func(conn dialect.ExecQuerier) error {
			var err error
			res, err = h.updateWith(ctx, conn, in)
			return err
		})
		return res, err
	})
	if err != nil {
		return nil, h.opErr(err)
	}
	return v.(*MutationResult), nil
}

// updateWith executes one update statement on conn.
func (h *Handler) updateWith(ctx context.Context, conn dialect.ExecQuerier, in UpdateInput) (*MutationResult, error) {
	ent := h.entity
	fields, advisories, err := h.prepareUpdate(in.Fields)
	if err != nil {
		return nil, err
	}
	preds, err := h.mutationScope(ctx, in.ID, in.Where, in.IncludeDeleted)
	if err != nil {
		return nil, err
	}
	if in.ExpectedVersion != nil {
		vf := ent.VersionField()
		if vf == nil {
			return nil, NewQueryError(ent.Name, h.op, errors.New("expected version on an entity without version tracking"))
		}
		preds = append(preds, sql.EQ(vf.Column, *in.ExpectedVersion))
	}
	u := sql.Dialect(h.client.driver.Dialect()).Update(ent.Table)
	if ent.schemaName != "" {
		u.Schema(ent.schemaName)
	}
	for _, f := range ent.Fields {
		if !fields.Has(f.Name) {
			continue
		}
		v, err := storageValue(f, fields[f.Name])
		if err != nil {
			return nil, err
		}
		if v == nil {
			u.SetNull(f.Column)
			continue
		}
		u.Set(f.Column, v)
	}
	if vf := ent.VersionField(); vf != nil {
		u.Add(vf.Column, 1)
	}
	if len(preds) > 0 {
		u.Where(sql.And(preds...))
	}
	var ids []any
	if ent.Lifecycle.Audit {
		if ids, err = h.rowIDs(ctx, conn, preds); err != nil {
			return nil, err
		}
	}
	query, args := u.Query()
	affected, err := h.exec(ctx, conn, query, args)
	if err != nil {
		return nil, err
	}
	if ent.Lifecycle.Audit {
		if err := h.auditAppend(ctx, conn, "update", ids, fields); err != nil {
			return nil, h.dbErr(err)
		}
	}
	return &MutationResult{Affected: affected, Advisories: advisories}, nil
}

// Delete removes rows. Soft-deleting entities are marked instead,
// unless the input asks for a hard delete, which also reaches rows
// already marked.
func (h *Handler) Delete(ctx context.Context, in DeleteInput) (*MutationResult, error) {
	if err := h.bind(OpDelete); err != nil {
		return nil, err
	}
	ctx, cancel := h.client.opContext(ctx)
	defer cancel()
	v, err := h.runMutation(ctx, nil, func(ctx context.Context) (Value, error) {
		var res *MutationResult
		err := h.withTx(ctx, h.entity.Lifecycle.Audit, func(conn dialect.ExecQuerier) error {
			var err error
			res, err = h.deleteWith(ctx, conn, in)
			return err
		})
		return res, err
	})
	if err != nil {
		return nil, h.opErr(err)
	}
	return v.(*MutationResult), nil
}

// deleteWith executes one delete on conn.
func (h *Handler) deleteWith(ctx context.Context, conn dialect.ExecQuerier, in DeleteInput) (*MutationResult, error) {
	ent := h.entity
	preds, err := h.mutationScope(ctx, in.ID, in.Where, in.Hard)
	if err != nil {
		return nil, err
	}
	var ids []any
	if ent.Lifecycle.Audit {
		if ids, err = h.rowIDs(ctx, conn, preds); err != nil {
			return nil, err
		}
	}
	d := h.client.driver.Dialect()
	var (
		query string
		args  []any
	)
	if sd := ent.SoftDeleteField(); sd != nil && !in.Hard {
		u := sql.Dialect(d).Update(ent.Table).Set(sd.Column, time.Now())
		if ent.schemaName != "" {
			u.Schema(ent.schemaName)
		}
		if len(preds) > 0 {
			u.Where(sql.And(preds...))
		}
		query, args = u.Query()
	} else {
		del := sql.Dialect(d).Delete(ent.Table)
		if ent.schemaName != "" {
			del.Schema(ent.schemaName)
		}
		if len(preds) > 0 {
			del.Where(sql.And(preds...))
		}
		query, args = del.Query()
	}
	affected, err := h.exec(ctx, conn, query, args)
	if err != nil {
		return nil, err
	}
	if ent.Lifecycle.Audit {
		if err := h.auditAppend(ctx, conn, "delete", ids, nil); err != nil {
			return nil, h.dbErr(err)
		}
	}
	return &MutationResult{Affected: affected}, nil
}

// List fetches the rows in scope, filtered, ordered and paged.
func (h *Handler) List(ctx context.Context, in ListInput) ([]*Row, error) {
	if err := h.bind(OpList); err != nil {
		return nil, err
	}
	ctx, cancel := h.client.opContext(ctx)
	defer cancel()
	v, err := h.runQuery(ctx, func(ctx context.Context) (Value, error) {
		s, fields, err := h.selector(ctx, in.IncludeDeleted, in.Where)
		if err != nil {
			return nil, err
		}
		if err := applySort(h.entity, h.op, s, in.Sort); err != nil {
			return nil, err
		}
		if len(in.Sort) == 0 && h.entity.ID != nil {
			// Stable order for paging when the caller does not sort.
			s.OrderBy(sql.Asc(s.C(h.entity.ID.Column)))
		}
		limit := in.Limit
		if limit == 0 {
			if qc := QueryFromContext(ctx); qc != nil && qc.Limit != nil {
				limit = *qc.Limit
			}
		}
		if limit > 0 {
			s.Limit(limit)
		}
		if in.Offset > 0 {
			s.Offset(in.Offset)
		}
		return h.queryRows(ctx, s, fields, limit, in.Offset)
	})
	if err != nil {
		return nil, h.opErr(err)
	}
	return v.([]*Row), nil
}

// Count returns the number of rows in scope.
func (h *Handler) Count(ctx context.Context, in CountInput) (int, error) {
	if err := h.bind(OpCount); err != nil {
		return 0, err
	}
	ctx, cancel := h.client.opContext(ctx)
	defer cancel()
	v, err := h.runQuery(ctx, func(ctx context.Context) (Value, error) {
		s, _, err := h.selector(ctx, in.IncludeDeleted, in.Where)
		if err != nil {
			return nil, err
		}
		s.Count()
		query, args := s.Query()
		h.logQuery(ctx, query, args)
		key := h.cacheKey(query, args, 0, 0)
		if key != "" {
			if data := h.cacheGet(ctx, key); data != nil {
				var n int
				if err := msgpack.Unmarshal(data, &n); err == nil {
					return n, nil
				}
			}
		}
		var rows sql.Rows
		if err := h.client.driver.Query(ctx, query, args, &rows); err != nil {
			return nil, h.dbErr(err)
		}
		defer rows.Close()
		n := 0
		if rows.Next() {
			if err := rows.Scan(&n); err != nil {
				return nil, h.dbErr(err)
			}
		}
		if err := rows.Err(); err != nil {
			return nil, h.dbErr(err)
		}
		if key != "" {
			if data, err := msgpack.Marshal(n); err == nil {
				h.cacheSet(ctx, key, data)
			}
		}
		return n, nil
	})
	if err != nil {
		return 0, h.opErr(err)
	}
	return v.(int), nil
}

// CreateBulk inserts the inputs in transactional batches and returns
// the created rows in input order. A failing batch is rolled back and
// reported with its index; earlier batches stay committed.
func (h *Handler) CreateBulk(ctx context.Context, inputs []CreateInput) ([]*Row, error) {
	if err := h.bind(OpCreateBulk); err != nil {
		return nil, err
	}
	ctx, cancel := h.client.opContext(ctx)
	defer cancel()
	var first Fieldmap
	if len(inputs) > 0 {
		first = inputs[0].Fields
	}
	v, err := h.runMutation(ctx, first, func(ctx context.Context) (Value, error) {
		out := make([]*Row, 0, len(inputs))
		for batch, start := 0, 0; start < len(inputs); batch, start = batch+1, start+h.client.batchSize {
			end := min(start+h.client.batchSize, len(inputs))
			err := h.inTx(ctx, batch, func(tx dialect.Tx) error {
				for _, in := range inputs[start:end] {
					row, err := h.createOne(ctx, tx, in)
					if err != nil {
						return err
					}
					out = append(out, row)
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
	return v.([]*Row), nil
}

// UpdateBulk applies the inputs in transactional batches, summing the
// affected counts. A failing batch is rolled back and reported with
// its index; earlier batches stay committed.
func (h *Handler) UpdateBulk(ctx context.Context, inputs []UpdateInput) (*MutationResult, error) {
	if err := h.bind(OpUpdateBulk); err != nil {
		return nil, err
	}
	ctx, cancel := h.client.opContext(ctx)
	defer cancel()
	var first Fieldmap
	if len(inputs) > 0 {
		first = inputs[0].Fields
	}
	v, err := h.runMutation(ctx, first, func(ctx context.Context) (Value, error) {
		total := &MutationResult{}
		for batch, start := 0, 0; start < len(inputs); batch, start = batch+1, start+h.client.batchSize {
			end := min(start+h.client.batchSize, len(inputs))
			err := h.inTx(ctx, batch, func(tx dialect.Tx) error {
				for _, in := range inputs[start:end] {
					res, err := h.updateWith(ctx, tx, in)
					if err != nil {
						return err
					}
					total.Affected += res.Affected
					total.Advisories = append(total.Advisories, res.Advisories...)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		}
		return total, nil
	})
	if err != nil {
		return nil, h.opErr(err)
	}
	return v.(*MutationResult), nil
}

// DeleteBulk removes rows for the inputs in transactional batches,
// summing the affected counts.
func (h *Handler) DeleteBulk(ctx context.Context, inputs []DeleteInput) (*MutationResult, error) {
	if err := h.bind(OpDeleteBulk); err != nil {
		return nil, err
	}
	ctx, cancel := h.client.opContext(ctx)
	defer cancel()
	v, err := h.runMutation(ctx, nil, func(ctx context.Context) (Value, error) {
		total := &MutationResult{}
		for batch, start := 0, 0; start < len(inputs); batch, start = batch+1, start+h.client.batchSize {
			end := min(start+h.client.batchSize, len(inputs))
			err := h.inTx(ctx, batch, func(tx dialect.Tx) error {
				for _, in := range inputs[start:end] {
					res, err := h.deleteWith(ctx, tx, in)
					if err != nil {
						return err
					}
					total.Affected += res.Affected
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		}
		return total, nil
	})
	if err != nil {
		return nil, h.opErr(err)
	}
	return v.(*MutationResult), nil
}

// prepareCreate validates the insert input against the compiled model.
// Unknown fields fail, engine-managed fields are stripped with an
// advisory, declared defaults fill the gaps and required fields must
// be present afterwards.
func (h *Handler) prepareCreate(ctx context.Context, in Fieldmap) (Fieldmap, []Advisory, error) {
	ent := h.entity
	fields := in.Clone()
	if fields == nil {
		fields = Fieldmap{}
	}
	var advisories []Advisory
	for _, name := range in.sortedKeys() {
		f, ok := ent.Field(name)
		if !ok {
			return nil, nil, NewQueryError(ent.Name, h.op, fmt.Errorf("unknown field %q", name))
		}
		if f.Auto || f.Incremental {
			delete(fields, name)
			advisories = append(advisories, Advisory{Field: name, Reason: "value is engine-managed; supplied value ignored"})
		}
	}
	// The tenant scope is stamped from the context, never taken from
	// the input.
	if tf := ent.TenantField(); tf != nil {
		tenant, ok := TenantFromContext(ctx)
		if !ok {
			return nil, nil, NewQueryError(ent.Name, h.op, errors.New("operation requires a tenant in the context"))
		}
		fields[tf.Name] = tenant
	}
	for _, f := range ent.Fields {
		if !fields.Has(f.Name) {
			switch {
			case f.Incremental:
				continue
			case f.HasDefault():
				fields[f.Name] = f.DefaultValue()
			case f.Required():
				return nil, nil, NewValidationError(f.Name, errors.New("missing required field"))
			default:
				continue
			}
		}
		if err := h.checkValue(f, fields[f.Name]); err != nil {
			return nil, nil, err
		}
	}
	return fields, advisories, nil
}

// prepareUpdate validates the assignments of an update. Identity and
// immutable fields cannot be assigned, engine-managed fields are
// stripped with an advisory, and declared update defaults are applied.
func (h *Handler) prepareUpdate(in Fieldmap) (Fieldmap, []Advisory, error) {
	ent := h.entity
	fields := in.Clone()
	if fields == nil {
		fields = Fieldmap{}
	}
	var advisories []Advisory
	for _, name := range in.sortedKeys() {
		f, ok := ent.Field(name)
		if !ok {
			return nil, nil, NewQueryError(ent.Name, h.op, fmt.Errorf("unknown field %q", name))
		}
		switch {
		case f.Identity:
			return nil, nil, NewQueryError(ent.Name, h.op, errors.New("identity cannot be assigned"))
		case f.Immutable:
			return nil, nil, NewQueryError(ent.Name, h.op, fmt.Errorf("field %q is immutable", name))
		case f.Auto || f.Incremental:
			delete(fields, name)
			advisories = append(advisories, Advisory{Field: name, Reason: "value is engine-managed; supplied value ignored"})
		}
	}
	if len(fields) == 0 {
		return nil, nil, NewQueryError(ent.Name, h.op, errors.New("no assignable fields in update"))
	}
	for _, f := range ent.Fields {
		if f.HasUpdateDefault() && !fields.Has(f.Name) {
			fields[f.Name] = f.UpdateDefaultValue()
		}
	}
	for _, name := range fields.sortedKeys() {
		f, _ := ent.Field(name)
		if err := h.checkValue(f, fields[name]); err != nil {
			return nil, nil, err
		}
	}
	return fields, advisories, nil
}

// checkValue runs the full validation ladder for one value: kind
// match, declared validators and value checks.
func (h *Handler) checkValue(f *FieldInfo, v any) error {
	if v == nil {
		if f.Nullable {
			return nil
		}
		return NewValidationError(f.Name, errors.New("null value for a non-nullable field"))
	}
	if err := kindCheck(f, v); err != nil {
		return NewValidationError(f.Name, err)
	}
	if err := f.Validate(v); err != nil {
		return NewValidationError(f.Name, err)
	}
	if err := f.EvalChecks(v); err != nil {
		return NewValidationError(f.Name, err)
	}
	return nil
}

// insertValues renders the prepared fieldmap as parallel column and
// value slices in field declaration order.
func (h *Handler) insertValues(fields Fieldmap) ([]string, []any, error) {
	var (
		cols []string
		vals []any
	)
	for _, f := range h.entity.Fields {
		if !fields.Has(f.Name) {
			continue
		}
		v, err := storageValue(f, fields[f.Name])
		if err != nil {
			return nil, nil, err
		}
		cols = append(cols, f.Column)
		vals = append(vals, v)
	}
	return cols, vals, nil
}

// storageValue converts a validated value to its storage form.
// Structured kinds are serialized on write.
func storageValue(f *FieldInfo, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch f.Kind {
	case KindJSON, KindArray:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, NewValidationError(f.Name, fmt.Errorf("encoding value: %w", err))
		}
		return b, nil
	}
	return v, nil
}

// decodeValue normalizes a scanned value for its field: byte slices
// for textual kinds become strings and structured kinds are decoded.
func decodeValue(f *FieldInfo, v any) any {
	switch f.Kind {
	case KindText, KindEnum, KindUUID, KindDecimal:
		if b, ok := v.([]byte); ok {
			return string(b)
		}
	case KindJSON, KindArray:
		var raw []byte
		switch b := v.(type) {
		case []byte:
			raw = b
		case string:
			raw = []byte(b)
		default:
			return v
		}
		var out any
		if err := json.Unmarshal(raw, &out); err != nil {
			return v
		}
		return out
	}
	return v
}

// mutationScope compiles the WHERE predicates of a mutation: the
// lifecycle scope, the identity restriction and the caller predicate,
// all against bare column names.
func (h *Handler) mutationScope(ctx context.Context, id any, where filter.P, includeDeleted bool) ([]*sql.Predicate, error) {
	ent := h.entity
	preds, err := scopePredicates(ctx, ent, h.op, includeDeleted, nil)
	if err != nil {
		return nil, err
	}
	if id != nil {
		if err := kindCheck(ent.ID, id); err != nil {
			return nil, NewQueryError(ent.Name, h.op, err)
		}
		preds = append(preds, sql.EQ(ent.ID.Column, id))
	}
	if where != nil {
		p, err := translatePredicate(ent, h.op, where, nil)
		if err != nil {
			return nil, err
		}
		preds = append(preds, p)
	}
	return preds, nil
}

// projection resolves the fields an operation selects, honoring a
// QueryContext restriction. The identity field always rides along so
// returned rows keep their id.
func (h *Handler) projection(ctx context.Context) ([]*FieldInfo, error) {
	ent := h.entity
	qc := QueryFromContext(ctx)
	if qc == nil || len(qc.Fields) == 0 {
		return ent.Fields, nil
	}
	qc = qc.Clone()
	if ent.ID != nil {
		qc.AppendFieldOnce(ent.ID.Name)
	}
	fields := make([]*FieldInfo, 0, len(qc.Fields))
	for _, name := range qc.Fields {
		f, ok := ent.Field(name)
		if !ok {
			return nil, NewQueryError(ent.Name, h.op, fmt.Errorf("unknown field %q in projection", name))
		}
		fields = append(fields, f)
	}
	return fields, nil
}

// selector builds the base SELECT of a query operation: projected
// columns, lifecycle scope and the caller predicate.
func (h *Handler) selector(ctx context.Context, includeDeleted bool, where filter.P) (*sql.Selector, []*FieldInfo, error) {
	ent := h.entity
	fields, err := h.projection(ctx)
	if err != nil {
		return nil, nil, err
	}
	b := sql.Dialect(h.client.driver.Dialect())
	t := b.Table(h.tableRef())
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = t.C(f.Column)
	}
	s := b.Select(cols...).From(t)
	preds, err := scopePredicates(ctx, ent, h.op, includeDeleted, s.C)
	if err != nil {
		return nil, nil, err
	}
	p, err := translatePredicate(ent, h.op, where, s)
	if err != nil {
		return nil, nil, err
	}
	if p != nil {
		preds = append(preds, p)
	}
	if len(preds) > 0 {
		s.Where(sql.And(preds...))
	}
	return s, fields, nil
}

// tableRef returns the entity's table name, qualified when a schema
// is declared.
func (h *Handler) tableRef() string {
	if h.entity.schemaName != "" {
		return h.entity.schemaName + "." + h.entity.Table
	}
	return h.entity.Table
}

// queryRows compiles the selector, consults the cache and falls back
// to the database, storing what it reads.
func (h *Handler) queryRows(ctx context.Context, s *sql.Selector, fields []*FieldInfo, limit, offset int) ([]*Row, error) {
	query, args := s.Query()
	h.logQuery(ctx, query, args)
	key := h.cacheKey(query, args, limit, offset)
	if key != "" {
		if data := h.cacheGet(ctx, key); data != nil {
			var rows []*Row
			if err := msgpack.Unmarshal(data, &rows); err == nil {
				return rows, nil
			}
			h.client.log.Warn("dropping corrupt cache entry", "entity", h.entity.Name, "key", key)
			_ = h.client.cache.Delete(ctx, key)
		}
	}
	var rows sql.Rows
	if err := h.client.driver.Query(ctx, query, args, &rows); err != nil {
		return nil, h.dbErr(err)
	}
	out, err := h.scanRows(&rows, fields)
	if err != nil {
		return nil, h.dbErr(err)
	}
	if key != "" {
		if data, err := msgpack.Marshal(out); err == nil {
			h.cacheSet(ctx, key, data)
		}
	}
	return out, nil
}

// scanRows drains the result set into row views, one per result row.
// Values are scanned positionally against the projected fields.
func (h *Handler) scanRows(rows *sql.Rows, fields []*FieldInfo) ([]*Row, error) {
	defer rows.Close()
	ent := h.entity
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	idName := ""
	if ent.ID != nil {
		idName = ent.ID.Name
	}
	var out []*Row
	for rows.Next() {
		values := make([]any, len(fields))
		ptrs := make([]any, len(fields))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		for i, f := range fields {
			values[i] = decodeValue(f, values[i])
		}
		out = append(out, NewRow(ent.Name, idName, names, values))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// fetchOne reads a single full row on conn, outside the usual scope
// rules. Used to return freshly written rows.
func (h *Handler) fetchOne(ctx context.Context, conn dialect.ExecQuerier, pred *sql.Predicate) (*Row, error) {
	ent := h.entity
	b := sql.Dialect(h.client.driver.Dialect())
	t := b.Table(h.tableRef())
	s := b.Select(t.Columns(ent.Columns()...)...).From(t).Where(pred).Limit(1)
	query, args := s.Query()
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
		return nil, NewNotFoundError(ent.Name)
	}
	return scanned[0], nil
}

// rowIDs selects the identity values the mutation predicates reach.
// Runs on the mutation's connection so the audit trail matches what
// the statement touches.
func (h *Handler) rowIDs(ctx context.Context, conn dialect.ExecQuerier, preds []*sql.Predicate) ([]any, error) {
	ent := h.entity
	b := sql.Dialect(h.client.driver.Dialect())
	t := b.Table(h.tableRef())
	s := b.Select(t.C(ent.ID.Column)).From(t)
	if len(preds) > 0 {
		s.Where(sql.And(preds...))
	}
	query, args := s.Query()
	h.logQuery(ctx, query, args)
	var rows sql.Rows
	if err := conn.Query(ctx, query, args, &rows); err != nil {
		return nil, h.dbErr(err)
	}
	defer rows.Close()
	var ids []any
	for rows.Next() {
		var id any
		if err := rows.Scan(&id); err != nil {
			return nil, h.dbErr(err)
		}
		ids = append(ids, decodeValue(ent.ID, id))
	}
	if err := rows.Err(); err != nil {
		return nil, h.dbErr(err)
	}
	return ids, nil
}

// auditAppend records one change row per mutated id on the mutation's
// connection. Identity values are stored as text so the shared table
// serves every identity type.
func (h *Handler) auditAppend(ctx context.Context, conn dialect.ExecQuerier, verb string, ids []any, diff Fieldmap) error {
	if len(ids) == 0 {
		return nil
	}
	var payload any
	if len(diff) > 0 {
		b, err := json.Marshal(h.redacted(diff))
		if err != nil {
			return err
		}
		payload = b
	}
	now := time.Now()
	ins := sql.Dialect(h.client.driver.Dialect()).
		Insert(AuditTable).
		Columns("entity", "row_id", "verb", "diff", "at")
	for _, id := range ids {
		ins.Values(h.entity.Name, fmt.Sprint(id), verb, payload, now)
	}
	query, args := ins.Query()
	h.logQuery(ctx, query, args)
	return conn.Exec(ctx, query, args, nil)
}

// redacted returns the diff with sensitive values masked.
func (h *Handler) redacted(diff Fieldmap) Fieldmap {
	out := diff.Clone()
	for name := range out {
		if f, ok := h.entity.Field(name); ok && f.Sensitive {
			out[name] = "<sensitive>"
		}
	}
	return out
}

// exec runs a mutation statement and returns its affected row count.
func (h *Handler) exec(ctx context.Context, conn dialect.ExecQuerier, query string, args []any) (int, error) {
	h.logQuery(ctx, query, args)
	var res sql.Result
	if err := conn.Exec(ctx, query, args, &res); err != nil {
		return 0, h.dbErr(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, h.dbErr(err)
	}
	return int(affected), nil
}

// withTx runs fn inside a transaction when the entity's lifecycle
// needs one, and directly on the driver otherwise.
func (h *Handler) withTx(ctx context.Context, need bool, fn func(dialect.ExecQuerier) error) error {
	if !need {
		return fn(h.client.driver)
	}
	tx, err := h.client.driver.Tx(ctx)
	if err != nil {
		return h.dbErr(err)
	}
	if err := fn(tx); err != nil {
		return rollback(tx, err)
	}
	if err := tx.Commit(); err != nil {
		return h.dbErr(err)
	}
	return nil
}

// inTx runs one bulk batch inside its own transaction. A failure rolls
// the batch back and is stamped with the zero-based batch index, so
// callers can tell which prefix of the inputs was committed.
func (h *Handler) inTx(ctx context.Context, batch int, fn func(dialect.Tx) error) error {
	tx, err := h.client.driver.Tx(ctx)
	if err != nil {
		return h.batchErr(batch, err)
	}
	if err := fn(tx); err != nil {
		return rollback(tx, h.batchErr(batch, err))
	}
	if err := tx.Commit(); err != nil {
		return h.batchErr(batch, err)
	}
	return nil
}

func rollback(tx dialect.Tx, err error) error {
	if rerr := tx.Rollback(); rerr != nil {
		err = fmt.Errorf("%w: %v", err, rerr)
	}
	return err
}

// batchErr stamps the batch index on a bulk failure.
func (h *Handler) batchErr(batch int, err error) error {
	var ee *ExecutionError
	if errors.As(err, &ee) && ee.Batch < 0 {
		ee.Batch = batch
		return err
	}
	return NewExecutionError(h.entity.Name, h.op, batch, err)
}

// opErr maps terminal errors of the verb methods. Context deadline
// hits become TimeoutError; everything else passes through.
func (h *Handler) opErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewTimeoutError(h.op, err)
	}
	return err
}

// dbErr classifies a database failure: constraint violations become
// ConstraintError, the rest is wrapped with the operation context.
func (h *Handler) dbErr(err error) error {
	if err == nil {
		return nil
	}
	err = classifyConstraint(err)
	if IsConstraintError(err) {
		return err
	}
	return NewExecutionError(h.entity.Name, h.op, -1, err)
}

// cacheKey returns the cache key of a compiled statement, or "" when
// caching is disabled.
func (h *Handler) cacheKey(query string, args []any, limit, offset int) string {
	if h.client.cache == nil {
		return ""
	}
	return CacheKey{
		Entity: h.entity.Name,
		Op:     h.op.String(),
		Query:  query,
		Args:   fmt.Sprint(args),
		Limit:  limit,
		Offset: offset,
	}.String()
}

func (h *Handler) cacheGet(ctx context.Context, key string) []byte {
	data, err := h.client.cache.Get(ctx, key)
	if err != nil {
		h.client.log.Warn("cache get failed", "entity", h.entity.Name, "err", err)
		return nil
	}
	return data
}

func (h *Handler) cacheSet(ctx context.Context, key string, data []byte) {
	if err := h.client.cache.Set(ctx, key, data, h.client.cacheTTL); err != nil {
		h.client.log.Warn("cache set failed", "entity", h.entity.Name, "err", err)
	}
}

// invalidate drops every cached read of the entity. Called after a
// successful mutation; failures are logged, never fatal.
func (h *Handler) invalidate(ctx context.Context) {
	if h.client.cache == nil {
		return
	}
	if err := h.client.cache.DeletePrefix(ctx, h.entity.Name+":"); err != nil {
		h.client.log.Warn("cache invalidation failed", "entity", h.entity.Name, "err", err)
	}
}

// logQuery writes the compiled statement to the client logger when
// debug logging is on.
func (h *Handler) logQuery(ctx context.Context, query string, args []any) {
	if !h.client.logQueries {
		return
	}
	h.client.log.DebugContext(ctx, "executing statement",
		"entity", h.entity.Name,
		"op", h.op.String(),
		"query", query,
		"args", args,
	)
}
