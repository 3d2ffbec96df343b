package schema

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"ariga.io/atlas/sql/schema"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/formadb/forma/dialect"
	"github.com/formadb/forma/schema/field"
)

// FillKind identifies the strategy a backfill uses to produce values.
type FillKind uint8

const (
	fillStatic FillKind = iota + 1
	fillFunc
	fillExpr
	fillCases
	fillSequence
	fillRef
	fillRefExpr
)

func (k FillKind) String() string {
	switch k {
	case fillStatic:
		return "static"
	case fillFunc:
		return "function-generated"
	case fillExpr:
		return "computed"
	case fillCases:
		return "conditional"
	case fillSequence:
		return "sequence-backed"
	case fillRef:
		return "reference"
	case fillRefExpr:
		return "reference-expression"
	}
	return fmt.Sprintf("fill(%d)", uint8(k))
}

// Generator names accepted by FillFunc, shared with the field
// declaration surface.
const (
	CurrentTimestamp = field.CurrentTimestamp
	RandomUUID       = field.RandomUUID
	ULID             = field.ULID
)

// A Backfill describes how to populate a newly added NOT NULL column
// for rows that existed before the column was added. The migration
// planner picks the execution strategy from the fill kind and the
// dialect: fills the database can apply in the column definition run
// as a single statement, everything else becomes a batched update.
type Backfill struct {
	kind      FillKind
	value     any
	fn        string
	expr      string
	cases     []FillCase
	seq       string
	refTable  string
	refColumn string
}

// FillCase is one predicate/value pair of a conditional backfill. An
// empty predicate matches any row and acts as the fallback.
type FillCase struct {
	When string
	Then any
}

// FillStatic populates existing rows with a single literal value.
func FillStatic(v any) *Backfill {
	return &Backfill{kind: fillStatic, value: v}
}

// FillFunc populates existing rows with generated values. The name
// must be one of CurrentTimestamp, RandomUUID or ULID. Where the
// dialect has a native generator it runs in the database, otherwise
// the engine generates the values row by row.
func FillFunc(name string) *Backfill {
	return &Backfill{kind: fillFunc, fn: name}
}

// FillExpr populates existing rows by evaluating a SQL expression
// over the columns of each row.
func FillExpr(expr string) *Backfill {
	return &Backfill{kind: fillExpr, expr: expr}
}

// FillCases populates existing rows from an ordered list of cases,
// first match wins.
func FillCases(cases ...FillCase) *Backfill {
	return &Backfill{kind: fillCases, cases: cases}
}

// FillSequence draws values from a monotonic counter. On Postgres the
// counter is a native sequence with the given name, created if needed.
// Other dialects emulate it during the backfill.
func FillSequence(name string) *Backfill {
	return &Backfill{kind: fillSequence, seq: name}
}

// FillRef points existing rows at one row of another table. The
// referenced row must exist when the plan is validated.
func FillRef(table, column string, v any) *Backfill {
	return &Backfill{kind: fillRef, refTable: table, refColumn: column, value: v}
}

// FillRefExpr computes a per-row reference with a correlated
// subquery over the referenced table.
func FillRefExpr(table, expr string) *Backfill {
	return &Backfill{kind: fillRefExpr, refTable: table, expr: expr}
}

// valid reports whether the fill is well-formed.
func (f *Backfill) valid() error {
	switch f.kind {
	case fillFunc:
		switch f.fn {
		case CurrentTimestamp, RandomUUID, ULID:
		default:
			return fmt.Errorf("unknown generator %q", f.fn)
		}
	case fillExpr:
		if f.expr == "" {
			return fmt.Errorf("computed backfill requires an expression")
		}
	case fillCases:
		if len(f.cases) == 0 {
			return fmt.Errorf("conditional backfill requires at least one case")
		}
	case fillRef:
		if f.refTable == "" || f.refColumn == "" {
			return fmt.Errorf("reference backfill requires a table and column")
		}
	case fillRefExpr:
		if f.expr == "" {
			return fmt.Errorf("reference backfill requires an expression")
		}
	}
	return nil
}

// hasFallback reports whether a conditional fill covers rows that
// match none of its predicates.
func (f *Backfill) hasFallback() bool {
	for _, c := range f.cases {
		if c.When == "" {
			return true
		}
	}
	return false
}

// constant reports whether the fill writes the same value to every
// row, which matters when the column carries a unique constraint.
func (f *Backfill) constant() bool {
	switch f.kind {
	case fillStatic, fillRef:
		return true
	case fillFunc:
		// The timestamp is stable within the filling statement.
		return f.fn == CurrentTimestamp
	}
	return false
}

// sample returns a value representative of what the fill writes, for
// constraint checks ahead of execution.
func (f *Backfill) sample() (any, bool) {
	switch f.kind {
	case fillStatic, fillRef:
		return f.value, true
	case fillFunc:
		switch f.fn {
		case CurrentTimestamp:
			return time.Now().UTC(), true
		case RandomUUID:
			return uuid.New().String(), true
		case ULID:
			return ulid.Make().String(), true
		}
	}
	return nil, false
}

// atDefault renders the fill as a column default expression when the
// dialect can apply it natively in the column addition itself.
func (f *Backfill) atDefault(d string) (schema.Expr, bool) {
	switch f.kind {
	case fillStatic, fillRef:
		if x, ok := f.value.(Expr); ok {
			return &schema.RawExpr{X: string(x)}, true
		}
		return &schema.Literal{V: literal(f.value)}, true
	case fillFunc:
		switch {
		// SQLite allows only constant defaults on column addition.
		case f.fn == CurrentTimestamp && d != dialect.SQLite:
			return &schema.RawExpr{X: "CURRENT_TIMESTAMP"}, true
		case f.fn == RandomUUID && d == dialect.Postgres:
			return &schema.RawExpr{X: "gen_random_uuid()"}, true
		case f.fn == RandomUUID && d == dialect.MySQL:
			// MySQL accepts function defaults only in the
			// parenthesized expression form.
			return &schema.RawExpr{X: "(uuid())"}, true
		}
	}
	return nil, false
}

// updateExpr renders the value written by a batched backfill as a SQL
// expression, or reports that the values are generated by the engine.
func (f *Backfill) updateExpr(d string) (string, bool) {
	switch f.kind {
	case fillStatic, fillRef:
		if x, ok := f.value.(Expr); ok {
			return string(x), true
		}
		return literal(f.value), true
	case fillExpr, fillRefExpr:
		return f.expr, true
	case fillCases:
		var b strings.Builder
		b.WriteString("CASE")
		for _, c := range f.cases {
			if c.When == "" {
				b.WriteString(" ELSE ")
				b.WriteString(literal(c.Then))
				break
			}
			b.WriteString(" WHEN ")
			b.WriteString(c.When)
			b.WriteString(" THEN ")
			b.WriteString(literal(c.Then))
		}
		b.WriteString(" END")
		return b.String(), true
	case fillFunc:
		switch {
		case f.fn == CurrentTimestamp:
			return "CURRENT_TIMESTAMP", true
		case f.fn == RandomUUID && d == dialect.Postgres:
			return "gen_random_uuid()", true
		case f.fn == RandomUUID && d == dialect.MySQL:
			return "uuid()", true
		}
	case fillSequence:
		if d == dialect.Postgres {
			return fmt.Sprintf("nextval('%s')", f.seq), true
		}
	}
	return "", false
}

// generator returns a fresh per-row value generator for fills whose
// values cannot be produced by the database.
func (f *Backfill) generator(d string) (func() any, bool) {
	switch f.kind {
	case fillFunc:
		switch {
		case f.fn == RandomUUID && d == dialect.SQLite:
			return func() any { return uuid.New().String() }, true
		case f.fn == ULID:
			entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
			return func() any {
				return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
			}, true
		}
	case fillSequence:
		if d != dialect.Postgres {
			var n int64
			return func() any { n++; return n }, true
		}
	}
	return nil, false
}

// literal renders a Go value as a SQL literal.
func literal(v any) string {
	switch v := v.(type) {
	case string:
		return quoteLiteral(v)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return quoteLiteral(v.UTC().Format("2006-01-02 15:04:05"))
	default:
		return fmt.Sprint(v)
	}
}
