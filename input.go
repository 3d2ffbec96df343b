package forma

import (
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/formadb/forma/filter"
)

// Fieldmap carries caller-supplied field values keyed by field name.
// A key that is absent is "not provided"; a key that is present with
// a zero value is an explicit assignment. The engine never confuses
// the two.
type Fieldmap map[string]any

// Has reports whether the field was provided.
func (f Fieldmap) Has(name string) bool {
	_, ok := f[name]
	return ok
}

// Clone returns a shallow copy of the fieldmap.
func (f Fieldmap) Clone() Fieldmap {
	if f == nil {
		return nil
	}
	c := make(Fieldmap, len(f))
	for k, v := range f {
		c[k] = v
	}
	return c
}

// sortedKeys returns the field names in lexical order. Statement
// building iterates fieldmaps through this so that identical inputs
// compile to identical SQL.
func (f Fieldmap) sortedKeys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Advisory is a non-fatal note attached to a mutation result, e.g.
// a caller-supplied value for an engine-managed field being ignored.
type Advisory struct {
	Field  string
	Reason string
}

// Row is an ordered field-to-value view of a stored row, returned by
// read and mutation handlers.
type Row struct {
	entity     string
	idColumn   string
	columns    []string
	values     []any
	advisories []Advisory
}

// NewRow constructs a row. Columns and values must be the same length
// and ordered consistently; idColumn names the identity column, or is
// empty when unknown.
func NewRow(entity, idColumn string, columns []string, values []any) *Row {
	return &Row{entity: entity, idColumn: idColumn, columns: columns, values: values}
}

// Entity returns the entity name the row belongs to.
func (r *Row) Entity() string { return r.entity }

// Len returns the number of fields in the row.
func (r *Row) Len() int { return len(r.columns) }

// Columns returns the field names in their stored order.
func (r *Row) Columns() []string { return slices.Clone(r.columns) }

// Get returns the value of the named field and whether it exists.
func (r *Row) Get(name string) (any, bool) {
	for i, c := range r.columns {
		if c == name {
			return r.values[i], true
		}
	}
	return nil, false
}

// ID returns the identity value of the row, or nil when the identity
// column is unknown.
func (r *Row) ID() any {
	if r.idColumn == "" {
		return nil
	}
	v, _ := r.Get(r.idColumn)
	return v
}

// Map returns the row as a fieldmap.
func (r *Row) Map() Fieldmap {
	m := make(Fieldmap, len(r.columns))
	for i, c := range r.columns {
		m[c] = r.values[i]
	}
	return m
}

// Advisories returns the non-fatal notes recorded while producing
// the row.
func (r *Row) Advisories() []Advisory { return r.advisories }

func (r *Row) addAdvisory(field, reason string) {
	r.advisories = append(r.advisories, Advisory{Field: field, Reason: reason})
}

// String returns the named field as a string.
func (r *Row) String(name string) (string, error) {
	v, ok := r.Get(name)
	if !ok {
		return "", fmt.Errorf("forma: row %s has no field %q", r.entity, name)
	}
	switch s := v.(type) {
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	default:
		return "", fmt.Errorf("forma: field %q is %T, not a string", name, v)
	}
}

// Int64 returns the named field as an int64. Any integer width the
// driver or codec produced is accepted.
func (r *Row) Int64(name string) (int64, error) {
	v, ok := r.Get(name)
	if !ok {
		return 0, fmt.Errorf("forma: row %s has no field %q", r.entity, name)
	}
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case uint64:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint8:
		return int64(n), nil
	case uint:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("forma: field %q is %T, not an integer", name, v)
	}
}

// Float64 returns the named field as a float64.
func (r *Row) Float64(name string) (float64, error) {
	v, ok := r.Get(name)
	if !ok {
		return 0, fmt.Errorf("forma: row %s has no field %q", r.entity, name)
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("forma: field %q is %T, not a float", name, v)
	}
}

// Bool returns the named field as a bool. Integer 0/1, which some
// drivers report for boolean columns, is accepted.
func (r *Row) Bool(name string) (bool, error) {
	v, ok := r.Get(name)
	if !ok {
		return false, fmt.Errorf("forma: row %s has no field %q", r.entity, name)
	}
	switch b := v.(type) {
	case bool:
		return b, nil
	case int64:
		return b != 0, nil
	default:
		return false, fmt.Errorf("forma: field %q is %T, not a bool", name, v)
	}
}

// Time returns the named field as a time.Time. String values in
// RFC 3339 or the common SQL datetime layouts are parsed.
func (r *Row) Time(name string) (time.Time, error) {
	v, ok := r.Get(name)
	if !ok {
		return time.Time{}, fmt.Errorf("forma: row %s has no field %q", r.entity, name)
	}
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, nil
			}
		}
		return time.Time{}, fmt.Errorf("forma: field %q holds unparsable time %q", name, t)
	default:
		return time.Time{}, fmt.Errorf("forma: field %q is %T, not a time", name, v)
	}
}

// Bytes returns the named field as a byte slice.
func (r *Row) Bytes(name string) ([]byte, error) {
	v, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("forma: row %s has no field %q", r.entity, name)
	}
	switch b := v.(type) {
	case []byte:
		return b, nil
	default:
		return nil, fmt.Errorf("forma: field %q is %T, not bytes", name, v)
	}
}

var (
	_ msgpack.CustomEncoder = (*Row)(nil)
	_ msgpack.CustomDecoder = (*Row)(nil)
)

// EncodeMsgpack implements msgpack.CustomEncoder. Advisories are
// transient and not encoded.
func (r *Row) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeArrayLen(4); err != nil {
		return err
	}
	if err := enc.EncodeString(r.entity); err != nil {
		return err
	}
	if err := enc.EncodeString(r.idColumn); err != nil {
		return err
	}
	if err := enc.Encode(r.columns); err != nil {
		return err
	}
	return enc.Encode(r.values)
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (r *Row) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return err
	}
	if n != 4 {
		return fmt.Errorf("forma: corrupt row encoding: %d elements", n)
	}
	if r.entity, err = dec.DecodeString(); err != nil {
		return err
	}
	if r.idColumn, err = dec.DecodeString(); err != nil {
		return err
	}
	if err := dec.Decode(&r.columns); err != nil {
		return err
	}
	return dec.Decode(&r.values)
}

// CreateInput is the input for OpCreate.
type CreateInput struct {
	// Fields holds the values of the new row. Declared fields that
	// are absent take their defaults; absent required fields without
	// defaults fail validation.
	Fields Fieldmap
}

// ReadInput is the input for OpRead. Exactly one of ID and Where must
// be set.
type ReadInput struct {
	// ID fetches by identity value.
	ID any
	// Where fetches by predicate. The predicate must match exactly
	// one row, otherwise the read fails with NotSingularError.
	Where filter.P
	// IncludeDeleted lifts the soft-delete scope for this read.
	IncludeDeleted bool
}

// UpdateInput is the input for OpUpdate.
type UpdateInput struct {
	// ID restricts the update to one row by identity value.
	ID any
	// Where restricts the update by predicate. Combined with ID when
	// both are set.
	Where filter.P
	// Fields holds the new values. Absent fields keep their stored
	// values.
	Fields Fieldmap
	// ExpectedVersion enables an optimistic concurrency check on
	// version-tracked entities: the update only applies to rows
	// whose stored version matches.
	ExpectedVersion *int64
	// IncludeDeleted lifts the soft-delete scope for this update.
	IncludeDeleted bool
}

// DeleteInput is the input for OpDelete.
type DeleteInput struct {
	// ID restricts the delete to one row by identity value.
	ID any
	// Where restricts the delete by predicate.
	Where filter.P
	// Hard removes rows physically even on soft-deleting entities.
	Hard bool
}

// ListInput is the input for OpList.
type ListInput struct {
	// Where filters the listed rows. Nil matches all rows in scope.
	Where filter.P
	// Sort lists order columns, leading "-" for descending:
	// []string{"-created_at", "name"}.
	Sort []string
	// Limit caps the number of rows. Zero means no limit.
	Limit int
	// Offset skips rows before collecting.
	Offset int
	// IncludeDeleted lifts the soft-delete scope for this list.
	IncludeDeleted bool
}

// CountInput is the input for OpCount.
type CountInput struct {
	// Where filters the counted rows. Nil matches all rows in scope.
	Where filter.P
	// IncludeDeleted lifts the soft-delete scope for this count.
	IncludeDeleted bool
}

// ConflictSpec describes how an upsert resolves an insert conflict.
type ConflictSpec struct {
	// On is the conflict target: the identity column, or the columns
	// of one declared unique constraint, exactly.
	On []string
	// Update assigns explicit values when the conflict fires.
	// Identity, conflict-target and engine-managed fields cannot be
	// assigned.
	Update Fieldmap
	// UpdateColumns names insert columns whose incoming values
	// replace the stored ones on conflict. Used when Update is
	// empty; empty means all eligible insert columns.
	UpdateColumns []string
}

// UpsertInput is the input for OpUpsert.
type UpsertInput struct {
	// Fields holds the values to insert when no conflict occurs.
	Fields Fieldmap
	// Conflict describes the conflict target and resolution.
	Conflict ConflictSpec
}

// UpsertBulkInput is the input for OpUpsertBulk. All rows share one
// conflict specification.
type UpsertBulkInput struct {
	// Rows holds the per-row insert values.
	Rows []Fieldmap
	// Conflict describes the conflict target and resolution. Explicit
	// Update values would assign the same values to every conflicting
	// row; per-row resolution uses UpdateColumns.
	Conflict ConflictSpec
}

// UpsertResult reports the row an upsert settled on and whether it
// was newly created.
type UpsertResult struct {
	Row *Row
	// Created is true when the row was inserted, false when an
	// existing row was updated.
	Created bool
}

// MutationResult reports the outcome of an update or delete.
type MutationResult struct {
	// Affected is the number of rows changed.
	Affected int
	// Advisories holds non-fatal notes, e.g. ignored engine-managed
	// fields.
	Advisories []Advisory
}
