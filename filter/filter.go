// Package filter defines a portable predicate tree for filtering rows.
//
// Predicates are built with field helpers and combinators, carry no SQL,
// and are compiled to dialect-specific WHERE clauses by the engine:
//
//	filter.And(
//	    filter.FieldEQ("name", "a8m"),
//	    filter.FieldIn("org", "fb", "ent"),
//	)
//
// The String method renders a stable, human-readable form of the tree
// that is used for debugging and as a cache-key component.
package filter

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Expr represents a node in the predicate tree.
type Expr interface {
	expr()
	fmt.Stringer
}

// P is a predicate expression. Negate returns the logical
// complement of the predicate, wrapped in a Not node.
type P interface {
	Expr
	Negate() P
}

// An Op represents a predicate operator.
type Op int

// Builtin operators.
const (
	OpAnd Op = iota // logical and.
	OpOr            // logical or.
	OpNot           // logical negation.
	OpEQ            // =
	OpNEQ           // <>
	OpGT            // >
	OpGTE           // >=
	OpLT            // <
	OpLTE           // <=
	OpIn            // within
	OpNotIn         // without
)

var ops = [...]string{
	OpAnd:   "&&",
	OpOr:    "||",
	OpNot:   "!",
	OpEQ:    "==",
	OpNEQ:   "!=",
	OpGT:    ">",
	OpGTE:   ">=",
	OpLT:    "<",
	OpLTE:   "<=",
	OpIn:    "in",
	OpNotIn: "not in",
}

// String returns the text representation of an operator.
func (o Op) String() string {
	if o >= 0 && int(o) < len(ops) {
		return ops[o]
	}
	return "<invalid>"
}

// A Func represents a function expression.
type Func string

// Builtin functions.
const (
	FuncEqualFold    Func = "equal_fold"    // equals case-insensitive
	FuncContains     Func = "contains"      // containing
	FuncContainsFold Func = "contains_fold" // containing case-insensitive
	FuncHasPrefix    Func = "has_prefix"    // startingWith
	FuncHasSuffix    Func = "has_suffix"    // endingWith
	FuncLike         Func = "like"          // SQL LIKE pattern
	FuncHasEdge      Func = "has_edge"      // exists relation row
)

type (
	// Field is an expression that names an entity field.
	Field struct {
		Name string
	}

	// Edge is an expression that names an entity edge.
	Edge struct {
		Name string
	}

	// Value is a literal expression.
	Value struct {
		V any
	}

	// BinaryExpr represents an operator expression with two operands.
	BinaryExpr struct {
		Op   Op
		X, Y Expr
	}

	// NaryExpr represents an operator expression with n operands.
	NaryExpr struct {
		Op Op
		Xs []Expr
	}

	// UnaryExpr represents an operator expression with one operand.
	UnaryExpr struct {
		Op Op
		X  Expr
	}

	// CallExpr represents a function call with its arguments.
	CallExpr struct {
		Func Func
		Args []Expr
	}
)

// F returns a field expression for the given name.
func F(name string) *Field {
	return &Field{Name: name}
}

// String returns the field name.
func (f *Field) String() string { return f.Name }

// String returns the edge name.
func (e *Edge) String() string { return e.Name }

// String returns the literal in its JSON form. Nil values render
// as "nil" and binary values as their base64 encoding.
func (v *Value) String() string {
	if v.V == nil {
		return "nil"
	}
	buf, err := json.Marshal(v.V)
	if err != nil {
		return fmt.Sprintf("%v", v.V)
	}
	return string(buf)
}

// String joins the two operands with the operator.
func (e *BinaryExpr) String() string {
	var b strings.Builder
	b.WriteString(e.X.String())
	b.WriteByte(' ')
	b.WriteString(e.Op.String())
	b.WriteByte(' ')
	b.WriteString(e.Y.String())
	return b.String()
}

// Negate returns the negation of the predicate.
func (e *BinaryExpr) Negate() P {
	return Not(e)
}

// String joins all operands with the operator, wrapped in parens.
// An empty conjunction renders as "true", an empty disjunction
// as "false", matching their match-all and match-none semantics.
func (e *NaryExpr) String() string {
	if len(e.Xs) == 0 {
		if e.Op == OpOr {
			return "false"
		}
		return "true"
	}
	var b strings.Builder
	b.WriteByte('(')
	for i, x := range e.Xs {
		if i > 0 {
			b.WriteByte(' ')
			b.WriteString(e.Op.String())
			b.WriteByte(' ')
		}
		b.WriteString(x.String())
	}
	b.WriteByte(')')
	return b.String()
}

// Negate returns the negation of the predicate.
func (e *NaryExpr) Negate() P {
	return Not(e)
}

// String formats the operand with the (prefix) operator.
func (e *UnaryExpr) String() string {
	return fmt.Sprintf("%s(%s)", e.Op, e.X)
}

// Negate returns the negation of the predicate.
func (e *UnaryExpr) Negate() P {
	return Not(e)
}

// String formats the call with its comma-separated arguments.
func (e *CallExpr) String() string {
	var b strings.Builder
	b.WriteString(string(e.Func))
	b.WriteByte('(')
	for i, a := range e.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.String())
	}
	b.WriteByte(')')
	return b.String()
}

// Negate returns the negation of the predicate.
func (e *CallExpr) Negate() P {
	return Not(e)
}

func (*Field) expr()      {}
func (*Edge) expr()       {}
func (*Value) expr()      {}
func (*BinaryExpr) expr() {}
func (*NaryExpr) expr()   {}
func (*UnaryExpr) expr()  {}
func (*CallExpr) expr()   {}

// And returns a predicate that matches when all child predicates match.
// And with no children matches every row.
func And(ps ...P) P {
	switch len(ps) {
	case 1:
		return ps[0]
	case 2:
		return &BinaryExpr{Op: OpAnd, X: ps[0], Y: ps[1]}
	default:
		return &NaryExpr{Op: OpAnd, Xs: exprs(ps)}
	}
}

// Or returns a predicate that matches when at least one child predicate
// matches. Or with no children matches no rows.
func Or(ps ...P) P {
	switch len(ps) {
	case 1:
		return ps[0]
	case 2:
		return &BinaryExpr{Op: OpOr, X: ps[0], Y: ps[1]}
	default:
		return &NaryExpr{Op: OpOr, Xs: exprs(ps)}
	}
}

// Not returns the negation of the given predicate.
func Not(p P) P {
	return &UnaryExpr{Op: OpNot, X: p}
}

// EQ compares two expressions for equality.
func EQ(x, y Expr) P { return &BinaryExpr{Op: OpEQ, X: x, Y: y} }

// NEQ compares two expressions for inequality.
func NEQ(x, y Expr) P { return &BinaryExpr{Op: OpNEQ, X: x, Y: y} }

// GT returns x > y.
func GT(x, y Expr) P { return &BinaryExpr{Op: OpGT, X: x, Y: y} }

// GTE returns x >= y.
func GTE(x, y Expr) P { return &BinaryExpr{Op: OpGTE, X: x, Y: y} }

// LT returns x < y.
func LT(x, y Expr) P { return &BinaryExpr{Op: OpLT, X: x, Y: y} }

// LTE returns x <= y.
func LTE(x, y Expr) P { return &BinaryExpr{Op: OpLTE, X: x, Y: y} }

// FieldEQ returns a predicate for matching a field with a given value.
func FieldEQ(name string, v any) P {
	return &BinaryExpr{Op: OpEQ, X: F(name), Y: &Value{V: v}}
}

// FieldNEQ returns a predicate for fields that differ from a given value.
func FieldNEQ(name string, v any) P {
	return &BinaryExpr{Op: OpNEQ, X: F(name), Y: &Value{V: v}}
}

// FieldGT returns a predicate for fields greater than a given value.
func FieldGT(name string, v any) P {
	return &BinaryExpr{Op: OpGT, X: F(name), Y: &Value{V: v}}
}

// FieldGTE returns a predicate for fields greater than or equal to a given value.
func FieldGTE(name string, v any) P {
	return &BinaryExpr{Op: OpGTE, X: F(name), Y: &Value{V: v}}
}

// FieldLT returns a predicate for fields less than a given value.
func FieldLT(name string, v any) P {
	return &BinaryExpr{Op: OpLT, X: F(name), Y: &Value{V: v}}
}

// FieldLTE returns a predicate for fields less than or equal to a given value.
func FieldLTE(name string, v any) P {
	return &BinaryExpr{Op: OpLTE, X: F(name), Y: &Value{V: v}}
}

// FieldIn returns a predicate for fields whose value is in the given set.
func FieldIn(name string, vs ...any) P {
	return &BinaryExpr{Op: OpIn, X: F(name), Y: &Value{V: vs}}
}

// FieldNotIn returns a predicate for fields whose value is not in the given set.
func FieldNotIn(name string, vs ...any) P {
	return &BinaryExpr{Op: OpNotIn, X: F(name), Y: &Value{V: vs}}
}

// FieldNil returns a predicate for fields with a null value.
func FieldNil(name string) P {
	return &BinaryExpr{Op: OpEQ, X: F(name), Y: &Value{}}
}

// FieldNotNil returns a predicate for fields with a non-null value.
func FieldNotNil(name string) P {
	return &BinaryExpr{Op: OpNEQ, X: F(name), Y: &Value{}}
}

// FieldContains returns a predicate for string fields containing the substring.
func FieldContains(name, substr string) P {
	return fieldCall(FuncContains, name, substr)
}

// FieldContainsFold returns a case-insensitive variant of FieldContains.
func FieldContainsFold(name, substr string) P {
	return fieldCall(FuncContainsFold, name, substr)
}

// FieldEqualFold returns a predicate for string fields equal under case-folding.
func FieldEqualFold(name, v string) P {
	return fieldCall(FuncEqualFold, name, v)
}

// FieldHasPrefix returns a predicate for string fields starting with the prefix.
func FieldHasPrefix(name, prefix string) P {
	return fieldCall(FuncHasPrefix, name, prefix)
}

// FieldHasSuffix returns a predicate for string fields ending with the suffix.
func FieldHasSuffix(name, suffix string) P {
	return fieldCall(FuncHasSuffix, name, suffix)
}

// FieldLike returns a predicate for string fields matching a SQL LIKE
// pattern. The pattern is passed to the database verbatim.
func FieldLike(name, pattern string) P {
	return fieldCall(FuncLike, name, pattern)
}

// HasEdge returns a predicate for rows with at least one related
// row over the named edge.
func HasEdge(name string) P {
	return &CallExpr{Func: FuncHasEdge, Args: []Expr{&Edge{Name: name}}}
}

// HasEdgeWith returns a predicate for rows whose related rows over
// the named edge match all the given predicates.
func HasEdgeWith(name string, ps ...P) P {
	args := make([]Expr, 0, len(ps)+1)
	args = append(args, &Edge{Name: name})
	for _, p := range ps {
		args = append(args, p)
	}
	return &CallExpr{Func: FuncHasEdge, Args: args}
}

func fieldCall(fn Func, name string, v any) P {
	return &CallExpr{Func: fn, Args: []Expr{F(name), &Value{V: v}}}
}

func exprs(ps []P) []Expr {
	xs := make([]Expr, len(ps))
	for i := range ps {
		xs[i] = ps[i]
	}
	return xs
}
