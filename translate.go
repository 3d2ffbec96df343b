package forma

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/formadb/forma/dialect/sql"
	"github.com/formadb/forma/filter"
)

// translator compiles portable predicates against one entity's
// compiled model. The column function controls qualification: selects
// qualify with the statement table, mutations keep bare column names.
type translator struct {
	entity *Entity
	col    func(string) string
}

func newTranslator(ent *Entity, s *sql.Selector) *translator {
	t := &translator{entity: ent, col: func(c string) string { return c }}
	if s != nil {
		t.col = s.C
	}
	return t
}

// translatePredicate compiles a filter predicate to a SQL predicate
// for the entity. Unknown fields and type-mismatched values fail with
// a QueryError before anything reaches the database. The selector is
// used for column qualification only; pass nil for statements that
// keep bare columns.
func translatePredicate(ent *Entity, op Op, p filter.P, s *sql.Selector) (*sql.Predicate, error) {
	if p == nil {
		return nil, nil
	}
	pred, err := newTranslator(ent, s).compileP(p)
	if err != nil {
		return nil, NewQueryError(ent.Name, op, err)
	}
	return pred, nil
}

func (t *translator) compileP(p filter.P) (*sql.Predicate, error) {
	switch e := p.(type) {
	case *filter.BinaryExpr:
		return t.compileBinary(e)
	case *filter.NaryExpr:
		return t.compileNary(e)
	case *filter.UnaryExpr:
		if e.Op != filter.OpNot {
			return nil, fmt.Errorf("unsupported unary operator %q", e.Op)
		}
		inner, err := t.compileSub(e.X)
		if err != nil {
			return nil, err
		}
		return sql.Not(inner), nil
	case *filter.CallExpr:
		return t.compileCall(e)
	}
	return nil, fmt.Errorf("unexpected expression %T", p)
}

// compileSub compiles a child expression that must itself be a
// predicate, such as the operand of a negation.
func (t *translator) compileSub(x filter.Expr) (*sql.Predicate, error) {
	p, ok := x.(filter.P)
	if !ok {
		return nil, fmt.Errorf("expression %q is not a predicate", x)
	}
	return t.compileP(p)
}

func (t *translator) compileBinary(e *filter.BinaryExpr) (*sql.Predicate, error) {
	switch e.Op {
	case filter.OpAnd, filter.OpOr:
		x, err := t.compileSub(e.X)
		if err != nil {
			return nil, err
		}
		y, err := t.compileSub(e.Y)
		if err != nil {
			return nil, err
		}
		if e.Op == filter.OpAnd {
			return sql.And(x, y), nil
		}
		return sql.Or(x, y), nil
	case filter.OpEQ, filter.OpNEQ, filter.OpGT, filter.OpGTE, filter.OpLT, filter.OpLTE, filter.OpIn, filter.OpNotIn:
		return t.compileComparison(e)
	}
	return nil, fmt.Errorf("unsupported operator %q", e.Op)
}

func (t *translator) compileComparison(e *filter.BinaryExpr) (*sql.Predicate, error) {
	fld, ok := e.X.(*filter.Field)
	if !ok {
		if _, isEdge := e.X.(*filter.Edge); isEdge {
			return nil, errors.New("edge predicates are not supported; filter on a ref field")
		}
		return nil, fmt.Errorf("left operand of %q must be a field", e.Op)
	}
	f, err := t.field(fld.Name)
	if err != nil {
		return nil, err
	}
	col := t.col(f.Column)
	switch y := e.Y.(type) {
	case *filter.Field:
		other, err := t.field(y.Name)
		if err != nil {
			return nil, err
		}
		if e.Op != filter.OpEQ {
			return nil, fmt.Errorf("field comparison supports %q only", filter.OpEQ)
		}
		return sql.ColumnsEQ(col, t.col(other.Column)), nil
	case *filter.Value:
		return t.compileValue(e.Op, f, col, y.V)
	}
	return nil, fmt.Errorf("unexpected operand %T", e.Y)
}

func (t *translator) compileValue(op filter.Op, f *FieldInfo, col string, v any) (*sql.Predicate, error) {
	if v == nil {
		switch op {
		case filter.OpEQ:
			return sql.IsNull(col), nil
		case filter.OpNEQ:
			return sql.NotNull(col), nil
		}
		return nil, fmt.Errorf("null value cannot be compared with %q", op)
	}
	if op == filter.OpIn || op == filter.OpNotIn {
		vs, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("operator %q expects a list of values, got %T", op, v)
		}
		for _, item := range vs {
			if err := t.typeCheck(f, item); err != nil {
				return nil, err
			}
		}
		if op == filter.OpIn {
			return sql.In(col, vs...), nil
		}
		return sql.NotIn(col, vs...), nil
	}
	if err := t.typeCheck(f, v); err != nil {
		return nil, err
	}
	switch op {
	case filter.OpEQ:
		return sql.EQ(col, v), nil
	case filter.OpNEQ:
		return sql.NEQ(col, v), nil
	case filter.OpGT:
		return sql.GT(col, v), nil
	case filter.OpGTE:
		return sql.GTE(col, v), nil
	case filter.OpLT:
		return sql.LT(col, v), nil
	case filter.OpLTE:
		return sql.LTE(col, v), nil
	}
	return nil, fmt.Errorf("unsupported operator %q", op)
}

func (t *translator) compileNary(e *filter.NaryExpr) (*sql.Predicate, error) {
	if e.Op != filter.OpAnd && e.Op != filter.OpOr {
		return nil, fmt.Errorf("unsupported operator %q", e.Op)
	}
	// An empty conjunction matches every row, an empty disjunction
	// matches none.
	if len(e.Xs) == 0 {
		if e.Op == filter.OpOr {
			return sql.False(), nil
		}
		return matchAll(), nil
	}
	ps := make([]*sql.Predicate, len(e.Xs))
	for i, x := range e.Xs {
		p, err := t.compileSub(x)
		if err != nil {
			return nil, err
		}
		ps[i] = p
	}
	if e.Op == filter.OpAnd {
		return sql.And(ps...), nil
	}
	return sql.Or(ps...), nil
}

func (t *translator) compileCall(e *filter.CallExpr) (*sql.Predicate, error) {
	if e.Func == filter.FuncHasEdge {
		return nil, errors.New("edge predicates are not supported; filter on a ref field")
	}
	if len(e.Args) != 2 {
		return nil, fmt.Errorf("function %q expects a field and a value", e.Func)
	}
	fld, ok := e.Args[0].(*filter.Field)
	if !ok {
		return nil, fmt.Errorf("first argument of %q must be a field", e.Func)
	}
	f, err := t.field(fld.Name)
	if err != nil {
		return nil, err
	}
	if f.Kind != KindText && f.Kind != KindEnum {
		return nil, fmt.Errorf("function %q requires a text field, %s is %s", e.Func, f.Name, f.Kind)
	}
	val, ok := e.Args[1].(*filter.Value)
	if !ok {
		return nil, fmt.Errorf("second argument of %q must be a value", e.Func)
	}
	s, ok := val.V.(string)
	if !ok {
		return nil, fmt.Errorf("function %q expects a string value, got %T", e.Func, val.V)
	}
	col := t.col(f.Column)
	switch e.Func {
	case filter.FuncEqualFold:
		return sql.EqualFold(col, s), nil
	case filter.FuncContains:
		return sql.Contains(col, s), nil
	case filter.FuncContainsFold:
		return sql.ContainsFold(col, s), nil
	case filter.FuncHasPrefix:
		return sql.HasPrefix(col, s), nil
	case filter.FuncHasSuffix:
		return sql.HasSuffix(col, s), nil
	case filter.FuncLike:
		return sql.Like(col, s), nil
	}
	return nil, fmt.Errorf("unsupported function %q", e.Func)
}

func (t *translator) field(name string) (*FieldInfo, error) {
	f, ok := t.entity.Field(name)
	if !ok {
		return nil, fmt.Errorf("unknown field %q", name)
	}
	return f, nil
}

// typeCheck rejects values whose Go type cannot represent the field's
// kind. The check runs before SQL is built, so a mismatch never
// reaches the database. Structured fields cannot be compared at all.
func (t *translator) typeCheck(f *FieldInfo, v any) error {
	kind := f.Kind
	if kind == KindRef {
		kind = f.refKind
	}
	if kind == KindJSON || kind == KindArray {
		return fmt.Errorf("field %q holds structured data and cannot be compared; use null checks", f.Name)
	}
	return kindCheck(f, v)
}

// kindCheck reports whether v is assignable to the field's kind.
// Structured kinds accept any value here; they are serialized on write.
func kindCheck(f *FieldInfo, v any) error {
	kind := f.Kind
	if kind == KindRef {
		kind = f.refKind
		if kind == KindInvalid {
			return nil
		}
	}
	switch kind {
	case KindText:
		if _, ok := v.(string); !ok {
			return fmt.Errorf("field %q expects a string, got %T", f.Name, v)
		}
	case KindEnum:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("field %q expects a string, got %T", f.Name, v)
		}
		if len(f.Enums) > 0 && !slices.Contains(f.Enums, s) {
			return fmt.Errorf("value %q is not a valid enum value for field %q", s, f.Name)
		}
	case KindInt:
		if !isInteger(v) {
			return fmt.Errorf("field %q expects an integer, got %T", f.Name, v)
		}
	case KindFloat:
		if !isInteger(v) && !isFloat(v) {
			return fmt.Errorf("field %q expects a number, got %T", f.Name, v)
		}
	case KindBool:
		if _, ok := v.(bool); !ok {
			return fmt.Errorf("field %q expects a bool, got %T", f.Name, v)
		}
	case KindTime, KindDate:
		if _, ok := v.(time.Time); !ok {
			return fmt.Errorf("field %q expects a time.Time, got %T", f.Name, v)
		}
	case KindDecimal:
		// Exact numerics never pass through binary floating point.
		if !isInteger(v) {
			if _, ok := v.(string); !ok {
				return fmt.Errorf("field %q expects a string or integer decimal, got %T", f.Name, v)
			}
		}
	case KindUUID:
		switch v.(type) {
		case uuid.UUID, string:
		default:
			return fmt.Errorf("field %q expects a uuid, got %T", f.Name, v)
		}
	case KindBytes:
		if _, ok := v.([]byte); !ok {
			return fmt.Errorf("field %q expects bytes, got %T", f.Name, v)
		}
	}
	return nil
}

func isInteger(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	}
	return false
}

func isFloat(v any) bool {
	switch v.(type) {
	case float32, float64:
		return true
	}
	return false
}

// matchAll returns a predicate that matches every row.
func matchAll() *sql.Predicate {
	return sql.P(func(b *sql.Builder) {
		b.WriteString("TRUE")
	})
}

// applySort validates sort entries and appends them to the selector.
// Entries are field names; a leading "-" sorts descending.
func applySort(ent *Entity, op Op, s *sql.Selector, sort []string) error {
	for _, entry := range sort {
		name, desc := strings.CutPrefix(entry, "-")
		f, ok := ent.Field(name)
		if !ok {
			return NewQueryError(ent.Name, op, fmt.Errorf("unknown sort field %q", name))
		}
		if desc {
			s.OrderBy(sql.Desc(s.C(f.Column)))
		} else {
			s.OrderBy(sql.Asc(s.C(f.Column)))
		}
	}
	return nil
}

// scopePredicates returns the implicit predicates the entity's
// lifecycle adds to every operation: soft-deleted rows are excluded
// unless asked for, and tenant-scoped entities are confined to the
// tenant carried by the context.
func scopePredicates(ctx context.Context, ent *Entity, op Op, includeDeleted bool, col func(string) string) ([]*sql.Predicate, error) {
	if col == nil {
		col = func(c string) string { return c }
	}
	var ps []*sql.Predicate
	if sd := ent.SoftDeleteField(); sd != nil && !includeDeleted {
		ps = append(ps, sql.IsNull(col(sd.Column)))
	}
	if tf := ent.TenantField(); tf != nil {
		tenant, ok := TenantFromContext(ctx)
		if !ok {
			return nil, NewQueryError(ent.Name, op, errors.New("operation requires a tenant in the context"))
		}
		ps = append(ps, sql.EQ(col(tf.Column), tenant))
	}
	return ps, nil
}
