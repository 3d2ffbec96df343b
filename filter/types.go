package filter

import (
	"database/sql/driver"
	"time"
)

// Fielder is the interface for predicate builders that are not
// bound to a specific field yet. Calling Field binds the builder
// and returns the final predicate.
type Fielder interface {
	Field(name string) P
}

// typedP is the shared implementation behind all typed predicate
// builders. The type parameter exists only to keep the builders of
// different value types from being mixed in And and Or calls.
type typedP[T any] struct {
	fn func(name string) P
}

// Field implements the Fielder interface.
func (p typedP[T]) Field(name string) P {
	return p.fn(name)
}

// Typed predicate builders, one per supported field type.
type (
	StringP  = typedP[string]
	BoolP    = typedP[bool]
	BytesP   = typedP[[]byte]
	TimeP    = typedP[time.Time]
	IntP     = typedP[int]
	Int8P    = typedP[int8]
	Int16P   = typedP[int16]
	Int32P   = typedP[int32]
	Int64P   = typedP[int64]
	UintP    = typedP[uint]
	Uint8P   = typedP[uint8]
	Uint16P  = typedP[uint16]
	Uint32P  = typedP[uint32]
	Uint64P  = typedP[uint64]
	Float32P = typedP[float32]
	Float64P = typedP[float64]
	ValueP   = typedP[driver.Valuer]
	OtherP   = typedP[driver.Valuer]
)

func typedOp[T any](op Op, v any) typedP[T] {
	return typedP[T]{fn: func(name string) P {
		return &BinaryExpr{Op: op, X: F(name), Y: &Value{V: v}}
	}}
}

func typedNil[T any](op Op) typedP[T] {
	return typedP[T]{fn: func(name string) P {
		return &BinaryExpr{Op: op, X: F(name), Y: &Value{}}
	}}
}

func typedIn[T any](op Op, vs []T) typedP[T] {
	args := make([]any, len(vs))
	for i := range vs {
		args[i] = vs[i]
	}
	return typedP[T]{fn: func(name string) P {
		return &BinaryExpr{Op: op, X: F(name), Y: &Value{V: args}}
	}}
}

func typedAnd[T any](op Op, x, y typedP[T], z []typedP[T]) typedP[T] {
	return typedP[T]{fn: func(name string) P {
		ps := make([]P, 0, len(z)+2)
		ps = append(ps, x.fn(name), y.fn(name))
		for i := range z {
			ps = append(ps, z[i].fn(name))
		}
		if op == OpOr {
			return Or(ps...)
		}
		return And(ps...)
	}}
}

func typedNot[T any](x typedP[T]) typedP[T] {
	return typedP[T]{fn: func(name string) P {
		return Not(x.fn(name))
	}}
}

// StringEQ applies the == operation on the given value.
func StringEQ(v string) StringP { return typedOp[string](OpEQ, v) }

// StringNEQ applies the != operation on the given value.
func StringNEQ(v string) StringP { return typedOp[string](OpNEQ, v) }

// StringLT applies the < operation on the given value.
func StringLT(v string) StringP { return typedOp[string](OpLT, v) }

// StringLTE applies the <= operation on the given value.
func StringLTE(v string) StringP { return typedOp[string](OpLTE, v) }

// StringGT applies the > operation on the given value.
func StringGT(v string) StringP { return typedOp[string](OpGT, v) }

// StringGTE applies the >= operation on the given value.
func StringGTE(v string) StringP { return typedOp[string](OpGTE, v) }

// StringIn applies the "in" operation on the given values.
func StringIn(vs ...string) StringP { return typedIn(OpIn, vs) }

// StringNotIn applies the "not in" operation on the given values.
func StringNotIn(vs ...string) StringP { return typedIn(OpNotIn, vs) }

// StringNil applies the "is null" check.
func StringNil() StringP { return typedNil[string](OpEQ) }

// StringNotNil applies the "is not null" check.
func StringNotNil() StringP { return typedNil[string](OpNEQ) }

// StringAnd returns the conjunction of the given predicates.
func StringAnd(x, y StringP, z ...StringP) StringP { return typedAnd(OpAnd, x, y, z) }

// StringOr returns the disjunction of the given predicates.
func StringOr(x, y StringP, z ...StringP) StringP { return typedAnd(OpOr, x, y, z) }

// StringNot negates the given predicate.
func StringNot(x StringP) StringP { return typedNot(x) }

// BoolEQ applies the == operation on the given value.
func BoolEQ(v bool) BoolP { return typedOp[bool](OpEQ, v) }

// BoolNEQ applies the != operation on the given value.
func BoolNEQ(v bool) BoolP { return typedOp[bool](OpNEQ, v) }

// BoolNil applies the "is null" check.
func BoolNil() BoolP { return typedNil[bool](OpEQ) }

// BoolNotNil applies the "is not null" check.
func BoolNotNil() BoolP { return typedNil[bool](OpNEQ) }

// BoolAnd returns the conjunction of the given predicates.
func BoolAnd(x, y BoolP, z ...BoolP) BoolP { return typedAnd(OpAnd, x, y, z) }

// BoolOr returns the disjunction of the given predicates.
func BoolOr(x, y BoolP, z ...BoolP) BoolP { return typedAnd(OpOr, x, y, z) }

// BoolNot negates the given predicate.
func BoolNot(x BoolP) BoolP { return typedNot(x) }

// BytesEQ applies the == operation on the given value.
func BytesEQ(v []byte) BytesP { return typedOp[[]byte](OpEQ, v) }

// BytesNEQ applies the != operation on the given value.
func BytesNEQ(v []byte) BytesP { return typedOp[[]byte](OpNEQ, v) }

// BytesNil applies the "is null" check.
func BytesNil() BytesP { return typedNil[[]byte](OpEQ) }

// BytesNotNil applies the "is not null" check.
func BytesNotNil() BytesP { return typedNil[[]byte](OpNEQ) }

// BytesAnd returns the conjunction of the given predicates.
func BytesAnd(x, y BytesP, z ...BytesP) BytesP { return typedAnd(OpAnd, x, y, z) }

// BytesOr returns the disjunction of the given predicates.
func BytesOr(x, y BytesP, z ...BytesP) BytesP { return typedAnd(OpOr, x, y, z) }

// BytesNot negates the given predicate.
func BytesNot(x BytesP) BytesP { return typedNot(x) }

// TimeEQ applies the == operation on the given value.
func TimeEQ(v time.Time) TimeP { return typedOp[time.Time](OpEQ, v) }

// TimeNEQ applies the != operation on the given value.
func TimeNEQ(v time.Time) TimeP { return typedOp[time.Time](OpNEQ, v) }

// TimeLT applies the < operation on the given value.
func TimeLT(v time.Time) TimeP { return typedOp[time.Time](OpLT, v) }

// TimeLTE applies the <= operation on the given value.
func TimeLTE(v time.Time) TimeP { return typedOp[time.Time](OpLTE, v) }

// TimeGT applies the > operation on the given value.
func TimeGT(v time.Time) TimeP { return typedOp[time.Time](OpGT, v) }

// TimeGTE applies the >= operation on the given value.
func TimeGTE(v time.Time) TimeP { return typedOp[time.Time](OpGTE, v) }

// TimeNil applies the "is null" check.
func TimeNil() TimeP { return typedNil[time.Time](OpEQ) }

// TimeNotNil applies the "is not null" check.
func TimeNotNil() TimeP { return typedNil[time.Time](OpNEQ) }

// TimeAnd returns the conjunction of the given predicates.
func TimeAnd(x, y TimeP, z ...TimeP) TimeP { return typedAnd(OpAnd, x, y, z) }

// TimeOr returns the disjunction of the given predicates.
func TimeOr(x, y TimeP, z ...TimeP) TimeP { return typedAnd(OpOr, x, y, z) }

// TimeNot negates the given predicate.
func TimeNot(x TimeP) TimeP { return typedNot(x) }

// IntEQ applies the == operation on the given value.
func IntEQ(v int) IntP { return typedOp[int](OpEQ, v) }

// IntNEQ applies the != operation on the given value.
func IntNEQ(v int) IntP { return typedOp[int](OpNEQ, v) }

// IntLT applies the < operation on the given value.
func IntLT(v int) IntP { return typedOp[int](OpLT, v) }

// IntLTE applies the <= operation on the given value.
func IntLTE(v int) IntP { return typedOp[int](OpLTE, v) }

// IntGT applies the > operation on the given value.
func IntGT(v int) IntP { return typedOp[int](OpGT, v) }

// IntGTE applies the >= operation on the given value.
func IntGTE(v int) IntP { return typedOp[int](OpGTE, v) }

// IntIn applies the "in" operation on the given values.
func IntIn(vs ...int) IntP { return typedIn(OpIn, vs) }

// IntNotIn applies the "not in" operation on the given values.
func IntNotIn(vs ...int) IntP { return typedIn(OpNotIn, vs) }

// IntNil applies the "is null" check.
func IntNil() IntP { return typedNil[int](OpEQ) }

// IntNotNil applies the "is not null" check.
func IntNotNil() IntP { return typedNil[int](OpNEQ) }

// IntAnd returns the conjunction of the given predicates.
func IntAnd(x, y IntP, z ...IntP) IntP { return typedAnd(OpAnd, x, y, z) }

// IntOr returns the disjunction of the given predicates.
func IntOr(x, y IntP, z ...IntP) IntP { return typedAnd(OpOr, x, y, z) }

// IntNot negates the given predicate.
func IntNot(x IntP) IntP { return typedNot(x) }

// Int8EQ applies the == operation on the given value.
func Int8EQ(v int8) Int8P { return typedOp[int8](OpEQ, v) }

// Int8NEQ applies the != operation on the given value.
func Int8NEQ(v int8) Int8P { return typedOp[int8](OpNEQ, v) }

// Int8LT applies the < operation on the given value.
func Int8LT(v int8) Int8P { return typedOp[int8](OpLT, v) }

// Int8LTE applies the <= operation on the given value.
func Int8LTE(v int8) Int8P { return typedOp[int8](OpLTE, v) }

// Int8GT applies the > operation on the given value.
func Int8GT(v int8) Int8P { return typedOp[int8](OpGT, v) }

// Int8GTE applies the >= operation on the given value.
func Int8GTE(v int8) Int8P { return typedOp[int8](OpGTE, v) }

// Int8In applies the "in" operation on the given values.
func Int8In(vs ...int8) Int8P { return typedIn(OpIn, vs) }

// Int8NotIn applies the "not in" operation on the given values.
func Int8NotIn(vs ...int8) Int8P { return typedIn(OpNotIn, vs) }

// Int8Nil applies the "is null" check.
func Int8Nil() Int8P { return typedNil[int8](OpEQ) }

// Int8NotNil applies the "is not null" check.
func Int8NotNil() Int8P { return typedNil[int8](OpNEQ) }

// Int8And returns the conjunction of the given predicates.
func Int8And(x, y Int8P, z ...Int8P) Int8P { return typedAnd(OpAnd, x, y, z) }

// Int8Or returns the disjunction of the given predicates.
func Int8Or(x, y Int8P, z ...Int8P) Int8P { return typedAnd(OpOr, x, y, z) }

// Int8Not negates the given predicate.
func Int8Not(x Int8P) Int8P { return typedNot(x) }

// Int16EQ applies the == operation on the given value.
func Int16EQ(v int16) Int16P { return typedOp[int16](OpEQ, v) }

// Int16NEQ applies the != operation on the given value.
func Int16NEQ(v int16) Int16P { return typedOp[int16](OpNEQ, v) }

// Int16LT applies the < operation on the given value.
func Int16LT(v int16) Int16P { return typedOp[int16](OpLT, v) }

// Int16LTE applies the <= operation on the given value.
func Int16LTE(v int16) Int16P { return typedOp[int16](OpLTE, v) }

// Int16GT applies the > operation on the given value.
func Int16GT(v int16) Int16P { return typedOp[int16](OpGT, v) }

// Int16GTE applies the >= operation on the given value.
func Int16GTE(v int16) Int16P { return typedOp[int16](OpGTE, v) }

// Int16In applies the "in" operation on the given values.
func Int16In(vs ...int16) Int16P { return typedIn(OpIn, vs) }

// Int16NotIn applies the "not in" operation on the given values.
func Int16NotIn(vs ...int16) Int16P { return typedIn(OpNotIn, vs) }

// Int16Nil applies the "is null" check.
func Int16Nil() Int16P { return typedNil[int16](OpEQ) }

// Int16NotNil applies the "is not null" check.
func Int16NotNil() Int16P { return typedNil[int16](OpNEQ) }

// Int16And returns the conjunction of the given predicates.
func Int16And(x, y Int16P, z ...Int16P) Int16P { return typedAnd(OpAnd, x, y, z) }

// Int16Or returns the disjunction of the given predicates.
func Int16Or(x, y Int16P, z ...Int16P) Int16P { return typedAnd(OpOr, x, y, z) }

// Int16Not negates the given predicate.
func Int16Not(x Int16P) Int16P { return typedNot(x) }

// Int32EQ applies the == operation on the given value.
func Int32EQ(v int32) Int32P { return typedOp[int32](OpEQ, v) }

// Int32NEQ applies the != operation on the given value.
func Int32NEQ(v int32) Int32P { return typedOp[int32](OpNEQ, v) }

// Int32LT applies the < operation on the given value.
func Int32LT(v int32) Int32P { return typedOp[int32](OpLT, v) }

// Int32LTE applies the <= operation on the given value.
func Int32LTE(v int32) Int32P { return typedOp[int32](OpLTE, v) }

// Int32GT applies the > operation on the given value.
func Int32GT(v int32) Int32P { return typedOp[int32](OpGT, v) }

// Int32GTE applies the >= operation on the given value.
func Int32GTE(v int32) Int32P { return typedOp[int32](OpGTE, v) }

// Int32In applies the "in" operation on the given values.
func Int32In(vs ...int32) Int32P { return typedIn(OpIn, vs) }

// Int32NotIn applies the "not in" operation on the given values.
func Int32NotIn(vs ...int32) Int32P { return typedIn(OpNotIn, vs) }

// Int32Nil applies the "is null" check.
func Int32Nil() Int32P { return typedNil[int32](OpEQ) }

// Int32NotNil applies the "is not null" check.
func Int32NotNil() Int32P { return typedNil[int32](OpNEQ) }

// Int32And returns the conjunction of the given predicates.
func Int32And(x, y Int32P, z ...Int32P) Int32P { return typedAnd(OpAnd, x, y, z) }

// Int32Or returns the disjunction of the given predicates.
func Int32Or(x, y Int32P, z ...Int32P) Int32P { return typedAnd(OpOr, x, y, z) }

// Int32Not negates the given predicate.
func Int32Not(x Int32P) Int32P { return typedNot(x) }

// Int64EQ applies the == operation on the given value.
func Int64EQ(v int64) Int64P { return typedOp[int64](OpEQ, v) }

// Int64NEQ applies the != operation on the given value.
func Int64NEQ(v int64) Int64P { return typedOp[int64](OpNEQ, v) }

// Int64LT applies the < operation on the given value.
func Int64LT(v int64) Int64P { return typedOp[int64](OpLT, v) }

// Int64LTE applies the <= operation on the given value.
func Int64LTE(v int64) Int64P { return typedOp[int64](OpLTE, v) }

// Int64GT applies the > operation on the given value.
func Int64GT(v int64) Int64P { return typedOp[int64](OpGT, v) }

// Int64GTE applies the >= operation on the given value.
func Int64GTE(v int64) Int64P { return typedOp[int64](OpGTE, v) }

// Int64In applies the "in" operation on the given values.
func Int64In(vs ...int64) Int64P { return typedIn(OpIn, vs) }

// Int64NotIn applies the "not in" operation on the given values.
func Int64NotIn(vs ...int64) Int64P { return typedIn(OpNotIn, vs) }

// Int64Nil applies the "is null" check.
func Int64Nil() Int64P { return typedNil[int64](OpEQ) }

// Int64NotNil applies the "is not null" check.
func Int64NotNil() Int64P { return typedNil[int64](OpNEQ) }

// Int64And returns the conjunction of the given predicates.
func Int64And(x, y Int64P, z ...Int64P) Int64P { return typedAnd(OpAnd, x, y, z) }

// Int64Or returns the disjunction of the given predicates.
func Int64Or(x, y Int64P, z ...Int64P) Int64P { return typedAnd(OpOr, x, y, z) }

// Int64Not negates the given predicate.
func Int64Not(x Int64P) Int64P { return typedNot(x) }

// UintEQ applies the == operation on the given value.
func UintEQ(v uint) UintP { return typedOp[uint](OpEQ, v) }

// UintNEQ applies the != operation on the given value.
func UintNEQ(v uint) UintP { return typedOp[uint](OpNEQ, v) }

// UintLT applies the < operation on the given value.
func UintLT(v uint) UintP { return typedOp[uint](OpLT, v) }

// UintLTE applies the <= operation on the given value.
func UintLTE(v uint) UintP { return typedOp[uint](OpLTE, v) }

// UintGT applies the > operation on the given value.
func UintGT(v uint) UintP { return typedOp[uint](OpGT, v) }

// UintGTE applies the >= operation on the given value.
func UintGTE(v uint) UintP { return typedOp[uint](OpGTE, v) }

// UintIn applies the "in" operation on the given values.
func UintIn(vs ...uint) UintP { return typedIn(OpIn, vs) }

// UintNotIn applies the "not in" operation on the given values.
func UintNotIn(vs ...uint) UintP { return typedIn(OpNotIn, vs) }

// UintNil applies the "is null" check.
func UintNil() UintP { return typedNil[uint](OpEQ) }

// UintNotNil applies the "is not null" check.
func UintNotNil() UintP { return typedNil[uint](OpNEQ) }

// UintAnd returns the conjunction of the given predicates.
func UintAnd(x, y UintP, z ...UintP) UintP { return typedAnd(OpAnd, x, y, z) }

// UintOr returns the disjunction of the given predicates.
func UintOr(x, y UintP, z ...UintP) UintP { return typedAnd(OpOr, x, y, z) }

// UintNot negates the given predicate.
func UintNot(x UintP) UintP { return typedNot(x) }

// Uint8EQ applies the == operation on the given value.
func Uint8EQ(v uint8) Uint8P { return typedOp[uint8](OpEQ, v) }

// Uint8NEQ applies the != operation on the given value.
func Uint8NEQ(v uint8) Uint8P { return typedOp[uint8](OpNEQ, v) }

// Uint8LT applies the < operation on the given value.
func Uint8LT(v uint8) Uint8P { return typedOp[uint8](OpLT, v) }

// Uint8LTE applies the <= operation on the given value.
func Uint8LTE(v uint8) Uint8P { return typedOp[uint8](OpLTE, v) }

// Uint8GT applies the > operation on the given value.
func Uint8GT(v uint8) Uint8P { return typedOp[uint8](OpGT, v) }

// Uint8GTE applies the >= operation on the given value.
func Uint8GTE(v uint8) Uint8P { return typedOp[uint8](OpGTE, v) }

// Uint8In applies the "in" operation on the given values.
func Uint8In(vs ...uint8) Uint8P { return typedIn(OpIn, vs) }

// Uint8NotIn applies the "not in" operation on the given values.
func Uint8NotIn(vs ...uint8) Uint8P { return typedIn(OpNotIn, vs) }

// Uint8Nil applies the "is null" check.
func Uint8Nil() Uint8P { return typedNil[uint8](OpEQ) }

// Uint8NotNil applies the "is not null" check.
func Uint8NotNil() Uint8P { return typedNil[uint8](OpNEQ) }

// Uint8And returns the conjunction of the given predicates.
func Uint8And(x, y Uint8P, z ...Uint8P) Uint8P { return typedAnd(OpAnd, x, y, z) }

// Uint8Or returns the disjunction of the given predicates.
func Uint8Or(x, y Uint8P, z ...Uint8P) Uint8P { return typedAnd(OpOr, x, y, z) }

// Uint8Not negates the given predicate.
func Uint8Not(x Uint8P) Uint8P { return typedNot(x) }

// Uint16EQ applies the == operation on the given value.
func Uint16EQ(v uint16) Uint16P { return typedOp[uint16](OpEQ, v) }

// Uint16NEQ applies the != operation on the given value.
func Uint16NEQ(v uint16) Uint16P { return typedOp[uint16](OpNEQ, v) }

// Uint16LT applies the < operation on the given value.
func Uint16LT(v uint16) Uint16P { return typedOp[uint16](OpLT, v) }

// Uint16LTE applies the <= operation on the given value.
func Uint16LTE(v uint16) Uint16P { return typedOp[uint16](OpLTE, v) }

// Uint16GT applies the > operation on the given value.
func Uint16GT(v uint16) Uint16P { return typedOp[uint16](OpGT, v) }

// Uint16GTE applies the >= operation on the given value.
func Uint16GTE(v uint16) Uint16P { return typedOp[uint16](OpGTE, v) }

// Uint16In applies the "in" operation on the given values.
func Uint16In(vs ...uint16) Uint16P { return typedIn(OpIn, vs) }

// Uint16NotIn applies the "not in" operation on the given values.
func Uint16NotIn(vs ...uint16) Uint16P { return typedIn(OpNotIn, vs) }

// Uint16Nil applies the "is null" check.
func Uint16Nil() Uint16P { return typedNil[uint16](OpEQ) }

// Uint16NotNil applies the "is not null" check.
func Uint16NotNil() Uint16P { return typedNil[uint16](OpNEQ) }

// Uint16And returns the conjunction of the given predicates.
func Uint16And(x, y Uint16P, z ...Uint16P) Uint16P { return typedAnd(OpAnd, x, y, z) }

// Uint16Or returns the disjunction of the given predicates.
func Uint16Or(x, y Uint16P, z ...Uint16P) Uint16P { return typedAnd(OpOr, x, y, z) }

// Uint16Not negates the given predicate.
func Uint16Not(x Uint16P) Uint16P { return typedNot(x) }

// Uint32EQ applies the == operation on the given value.
func Uint32EQ(v uint32) Uint32P { return typedOp[uint32](OpEQ, v) }

// Uint32NEQ applies the != operation on the given value.
func Uint32NEQ(v uint32) Uint32P { return typedOp[uint32](OpNEQ, v) }

// Uint32LT applies the < operation on the given value.
func Uint32LT(v uint32) Uint32P { return typedOp[uint32](OpLT, v) }

// Uint32LTE applies the <= operation on the given value.
func Uint32LTE(v uint32) Uint32P { return typedOp[uint32](OpLTE, v) }

// Uint32GT applies the > operation on the given value.
func Uint32GT(v uint32) Uint32P { return typedOp[uint32](OpGT, v) }

// Uint32GTE applies the >= operation on the given value.
func Uint32GTE(v uint32) Uint32P { return typedOp[uint32](OpGTE, v) }

// Uint32In applies the "in" operation on the given values.
func Uint32In(vs ...uint32) Uint32P { return typedIn(OpIn, vs) }

// Uint32NotIn applies the "not in" operation on the given values.
func Uint32NotIn(vs ...uint32) Uint32P { return typedIn(OpNotIn, vs) }

// Uint32Nil applies the "is null" check.
func Uint32Nil() Uint32P { return typedNil[uint32](OpEQ) }

// Uint32NotNil applies the "is not null" check.
func Uint32NotNil() Uint32P { return typedNil[uint32](OpNEQ) }

// Uint32And returns the conjunction of the given predicates.
func Uint32And(x, y Uint32P, z ...Uint32P) Uint32P { return typedAnd(OpAnd, x, y, z) }

// Uint32Or returns the disjunction of the given predicates.
func Uint32Or(x, y Uint32P, z ...Uint32P) Uint32P { return typedAnd(OpOr, x, y, z) }

// Uint32Not negates the given predicate.
func Uint32Not(x Uint32P) Uint32P { return typedNot(x) }

// Uint64EQ applies the == operation on the given value.
func Uint64EQ(v uint64) Uint64P { return typedOp[uint64](OpEQ, v) }

// Uint64NEQ applies the != operation on the given value.
func Uint64NEQ(v uint64) Uint64P { return typedOp[uint64](OpNEQ, v) }

// Uint64LT applies the < operation on the given value.
func Uint64LT(v uint64) Uint64P { return typedOp[uint64](OpLT, v) }

// Uint64LTE applies the <= operation on the given value.
func Uint64LTE(v uint64) Uint64P { return typedOp[uint64](OpLTE, v) }

// Uint64GT applies the > operation on the given value.
func Uint64GT(v uint64) Uint64P { return typedOp[uint64](OpGT, v) }

// Uint64GTE applies the >= operation on the given value.
func Uint64GTE(v uint64) Uint64P { return typedOp[uint64](OpGTE, v) }

// Uint64In applies the "in" operation on the given values.
func Uint64In(vs ...uint64) Uint64P { return typedIn(OpIn, vs) }

// Uint64NotIn applies the "not in" operation on the given values.
func Uint64NotIn(vs ...uint64) Uint64P { return typedIn(OpNotIn, vs) }

// Uint64Nil applies the "is null" check.
func Uint64Nil() Uint64P { return typedNil[uint64](OpEQ) }

// Uint64NotNil applies the "is not null" check.
func Uint64NotNil() Uint64P { return typedNil[uint64](OpNEQ) }

// Uint64And returns the conjunction of the given predicates.
func Uint64And(x, y Uint64P, z ...Uint64P) Uint64P { return typedAnd(OpAnd, x, y, z) }

// Uint64Or returns the disjunction of the given predicates.
func Uint64Or(x, y Uint64P, z ...Uint64P) Uint64P { return typedAnd(OpOr, x, y, z) }

// Uint64Not negates the given predicate.
func Uint64Not(x Uint64P) Uint64P { return typedNot(x) }

// Float32EQ applies the == operation on the given value.
func Float32EQ(v float32) Float32P { return typedOp[float32](OpEQ, v) }

// Float32NEQ applies the != operation on the given value.
func Float32NEQ(v float32) Float32P { return typedOp[float32](OpNEQ, v) }

// Float32LT applies the < operation on the given value.
func Float32LT(v float32) Float32P { return typedOp[float32](OpLT, v) }

// Float32LTE applies the <= operation on the given value.
func Float32LTE(v float32) Float32P { return typedOp[float32](OpLTE, v) }

// Float32GT applies the > operation on the given value.
func Float32GT(v float32) Float32P { return typedOp[float32](OpGT, v) }

// Float32GTE applies the >= operation on the given value.
func Float32GTE(v float32) Float32P { return typedOp[float32](OpGTE, v) }

// Float32Nil applies the "is null" check.
func Float32Nil() Float32P { return typedNil[float32](OpEQ) }

// Float32NotNil applies the "is not null" check.
func Float32NotNil() Float32P { return typedNil[float32](OpNEQ) }

// Float32And returns the conjunction of the given predicates.
func Float32And(x, y Float32P, z ...Float32P) Float32P { return typedAnd(OpAnd, x, y, z) }

// Float32Or returns the disjunction of the given predicates.
func Float32Or(x, y Float32P, z ...Float32P) Float32P { return typedAnd(OpOr, x, y, z) }

// Float32Not negates the given predicate.
func Float32Not(x Float32P) Float32P { return typedNot(x) }

// Float64EQ applies the == operation on the given value.
func Float64EQ(v float64) Float64P { return typedOp[float64](OpEQ, v) }

// Float64NEQ applies the != operation on the given value.
func Float64NEQ(v float64) Float64P { return typedOp[float64](OpNEQ, v) }

// Float64LT applies the < operation on the given value.
func Float64LT(v float64) Float64P { return typedOp[float64](OpLT, v) }

// Float64LTE applies the <= operation on the given value.
func Float64LTE(v float64) Float64P { return typedOp[float64](OpLTE, v) }

// Float64GT applies the > operation on the given value.
func Float64GT(v float64) Float64P { return typedOp[float64](OpGT, v) }

// Float64GTE applies the >= operation on the given value.
func Float64GTE(v float64) Float64P { return typedOp[float64](OpGTE, v) }

// Float64Nil applies the "is null" check.
func Float64Nil() Float64P { return typedNil[float64](OpEQ) }

// Float64NotNil applies the "is not null" check.
func Float64NotNil() Float64P { return typedNil[float64](OpNEQ) }

// Float64And returns the conjunction of the given predicates.
func Float64And(x, y Float64P, z ...Float64P) Float64P { return typedAnd(OpAnd, x, y, z) }

// Float64Or returns the disjunction of the given predicates.
func Float64Or(x, y Float64P, z ...Float64P) Float64P { return typedAnd(OpOr, x, y, z) }

// Float64Not negates the given predicate.
func Float64Not(x Float64P) Float64P { return typedNot(x) }

// ValueEQ applies the == operation on the given value.
func ValueEQ(v driver.Valuer) ValueP { return typedOp[driver.Valuer](OpEQ, v) }

// ValueNEQ applies the != operation on the given value.
func ValueNEQ(v driver.Valuer) ValueP { return typedOp[driver.Valuer](OpNEQ, v) }

// ValueNil applies the "is null" check.
func ValueNil() ValueP { return typedNil[driver.Valuer](OpEQ) }

// ValueNotNil applies the "is not null" check.
func ValueNotNil() ValueP { return typedNil[driver.Valuer](OpNEQ) }

// ValueAnd returns the conjunction of the given predicates.
func ValueAnd(x, y ValueP, z ...ValueP) ValueP { return typedAnd(OpAnd, x, y, z) }

// ValueOr returns the disjunction of the given predicates.
func ValueOr(x, y ValueP, z ...ValueP) ValueP { return typedAnd(OpOr, x, y, z) }

// ValueNot negates the given predicate.
func ValueNot(x ValueP) ValueP { return typedNot(x) }

// OtherEQ applies the == operation on the given value.
func OtherEQ(v driver.Valuer) OtherP { return typedOp[driver.Valuer](OpEQ, v) }

// OtherNEQ applies the != operation on the given value.
func OtherNEQ(v driver.Valuer) OtherP { return typedOp[driver.Valuer](OpNEQ, v) }

// OtherNil applies the "is null" check.
func OtherNil() OtherP { return typedNil[driver.Valuer](OpEQ) }

// OtherNotNil applies the "is not null" check.
func OtherNotNil() OtherP { return typedNil[driver.Valuer](OpNEQ) }

// OtherAnd returns the conjunction of the given predicates.
func OtherAnd(x, y OtherP, z ...OtherP) OtherP { return typedAnd(OpAnd, x, y, z) }

// OtherOr returns the disjunction of the given predicates.
func OtherOr(x, y OtherP, z ...OtherP) OtherP { return typedAnd(OpOr, x, y, z) }

// OtherNot negates the given predicate.
func OtherNot(x OtherP) OtherP { return typedNot(x) }
