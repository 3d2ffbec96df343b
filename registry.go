package forma

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strings"
	"sync"
	"unicode"

	"github.com/go-openapi/inflect"

	"github.com/formadb/forma/dialect/sqlschema"
	"github.com/formadb/forma/schema"
	"github.com/formadb/forma/schema/field"
)

// Kind classifies a field by its portable value class. The translator
// type-checks filter values against it, and the migration engine maps
// it to a column type per dialect.
type Kind uint8

// List of field kinds.
const (
	KindInvalid Kind = iota
	KindText
	KindInt
	KindFloat
	KindBool
	KindTime
	KindDate
	KindDecimal
	KindJSON
	KindArray
	KindUUID
	KindEnum
	KindBytes
	KindRef
	KindOther
)

var kindNames = [...]string{
	KindInvalid: "invalid",
	KindText:    "text",
	KindInt:     "integer",
	KindFloat:   "float",
	KindBool:    "boolean",
	KindTime:    "timestamp",
	KindDate:    "date",
	KindDecimal: "decimal",
	KindJSON:    "json",
	KindArray:   "array",
	KindUUID:    "uuid",
	KindEnum:    "enum",
	KindBytes:   "bytes",
	KindRef:     "ref",
	KindOther:   "other",
}

// String returns the string representation of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Numeric reports whether the kind carries a numeric value.
func (k Kind) Numeric() bool {
	return k == KindInt || k == KindFloat
}

// FieldInfo is the compiled form of a field declaration. It is
// immutable once its entity is registered.
type FieldInfo struct {
	Name        string            // declared field name
	Column      string            // column name (storage key or name)
	Kind        Kind              // portable value class
	Nullable    bool              // accepts NULL
	Unique      bool              // single-column unique constraint
	Immutable   bool              // rejects updates after creation
	Identity    bool              // identity column of its entity
	Auto        bool              // engine-managed value
	Sensitive   bool              // redacted from logs
	Incremental bool              // database-assigned auto-increment
	Size        int               // size limit for text/bytes columns
	Comment     string            // column comment
	Ref         string            // target entity of a ref field
	Enums       []string          // permitted values of an enum field
	Checks      []field.Check     // structured validator constraints
	SchemaType  map[string]string // per-dialect column type override

	ftype         field.Type
	refKind       Kind // identity kind of the referenced entity
	refColumn     string
	defaultValue  any
	updateDefault any
	validators    []any
	fill          *field.Fill
	ant           *sqlschema.Annotation
}

// HasDefault reports whether the field carries a creation default,
// static or generated.
func (f *FieldInfo) HasDefault() bool {
	return f.defaultValue != nil
}

// HasUpdateDefault reports whether the field carries an update default.
func (f *FieldInfo) HasUpdateDefault() bool {
	return f.updateDefault != nil
}

// DefaultValue returns the creation default. Generator functions are
// invoked on each call.
func (f *FieldInfo) DefaultValue() any {
	return evalDefault(f.defaultValue)
}

// UpdateDefaultValue returns the update default. Generator functions
// are invoked on each call.
func (f *FieldInfo) UpdateDefaultValue() any {
	return evalDefault(f.updateDefault)
}

func evalDefault(dv any) any {
	if dv == nil {
		return nil
	}
	rv := reflect.ValueOf(dv)
	if rv.Kind() != reflect.Func {
		return dv
	}
	out := rv.Call(nil)
	return out[0].Interface()
}

// Required reports whether a create must supply a value for the field:
// it is non-nullable and neither defaulted nor assigned by the engine
// or the database.
func (f *FieldInfo) Required() bool {
	return !f.Nullable && !f.Auto && !f.Incremental && !f.HasDefault()
}

// RefTarget returns the entity and identity column a ref field points
// at. Both are empty for non-ref fields.
func (f *FieldInfo) RefTarget() (entity, column string) {
	return f.Ref, f.refColumn
}

// Validate runs the field's validators against the value. Enum fields
// additionally check membership. The returned error is the validator's
// own; callers wrap it with field context.
func (f *FieldInfo) Validate(value any) error {
	if f.Kind == KindEnum {
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("enum value must be a string, got %T", value)
		}
		if !slices.Contains(f.Enums, s) {
			return fmt.Errorf("value %q is not a valid enum value", s)
		}
	}
	for _, v := range f.validators {
		fn := reflect.ValueOf(v)
		if fn.Kind() != reflect.Func || fn.Type().NumIn() != 1 || fn.Type().NumOut() != 1 {
			continue
		}
		in := reflect.ValueOf(value)
		argT := fn.Type().In(0)
		if !in.IsValid() {
			return fmt.Errorf("validator for %s rejects nil", f.Name)
		}
		if in.Type() != argT {
			if !in.Type().ConvertibleTo(argT) {
				return fmt.Errorf("value of type %T is not assignable to %s", value, argT)
			}
			in = in.Convert(argT)
		}
		if out := fn.Call([]reflect.Value{in})[0]; !out.IsNil() {
			return out.Interface().(error)
		}
	}
	return nil
}

// EvalChecks evaluates the field's structured checks against a
// candidate value. Unlike Validate it needs no mutation in flight,
// which lets the migration engine vet a backfill default before any
// DDL runs.
func (f *FieldInfo) EvalChecks(value any) error {
	for _, c := range f.Checks {
		if err := evalCheck(c, value); err != nil {
			return err
		}
	}
	return nil
}

func evalCheck(c field.Check, value any) error {
	switch c.Op {
	case field.CheckMin, field.CheckMax:
		v, err := toFloat(value)
		if err != nil {
			return err
		}
		bound, err := toFloat(c.Value)
		if err != nil {
			return err
		}
		if c.Op == field.CheckMin && v < bound {
			return fmt.Errorf("value %v is below the minimum %v", value, c.Value)
		}
		if c.Op == field.CheckMax && v > bound {
			return fmt.Errorf("value %v is above the maximum %v", value, c.Value)
		}
	case field.CheckMinLen, field.CheckMaxLen:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("length check expects a string, got %T", value)
		}
		bound, ok := c.Value.(int)
		if !ok {
			return fmt.Errorf("length bound must be an int, got %T", c.Value)
		}
		if c.Op == field.CheckMinLen && len(s) < bound {
			return fmt.Errorf("value is shorter than the minimum length %d", bound)
		}
		if c.Op == field.CheckMaxLen && len(s) > bound {
			return fmt.Errorf("value is longer than the maximum length %d", bound)
		}
	case field.CheckMatch:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("pattern check expects a string, got %T", value)
		}
		pattern, ok := c.Value.(string)
		if !ok {
			return fmt.Errorf("pattern bound must be a string, got %T", c.Value)
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return fmt.Errorf("invalid check pattern %q: %w", pattern, err)
		}
		if !re.MatchString(s) {
			return fmt.Errorf("value does not match pattern %q", pattern)
		}
	}
	return nil
}

func toFloat(v any) (float64, error) {
	switch v := v.(type) {
	case int:
		return float64(v), nil
	case int8:
		return float64(v), nil
	case int16:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint8:
		return float64(v), nil
	case uint16:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case float32:
		return float64(v), nil
	case float64:
		return v, nil
	}
	return 0, fmt.Errorf("value of type %T is not numeric", v)
}

// EntityIndex is a compiled secondary index.
type EntityIndex struct {
	Name    string   // index name
	Columns []string // indexed columns, in order
	Unique  bool     // unique constraint

	ant *sqlschema.IndexAnnotation
}

// Entity is the compiled snapshot of a registered definition: its
// identity, ordered fields, lifecycle behavior and constraints. It is
// what DescribeEntity exposes and what handlers and the migration
// planner are derived from.
type Entity struct {
	Name      string                     // snake_case entity name
	Table     string                     // table name (pluralized, or overridden)
	Comment   string                     // entity comment
	View      bool                       // read-only definition
	ID        *FieldInfo                 // identity field; nil only for views
	Fields    []*FieldInfo               // all fields in declaration order, mixins first
	Lifecycle schema.LifecycleAnnotation // merged lifecycle behavior
	Uniques   [][]string                 // unique column groups, identity excluded
	Checks    map[string]string          // named CHECK expressions
	Indexes   []EntityIndex              // secondary indexes, unique and not

	fields       map[string]*FieldInfo // by field name
	columns      map[string]*FieldInfo // by column name
	schemaName   string
	hooks        []Hook
	interceptors []Interceptor
	policies     []Policy
	ant          *sqlschema.Annotation
}

// Field returns the field with the given name.
func (e *Entity) Field(name string) (*FieldInfo, bool) {
	f, ok := e.fields[name]
	return f, ok
}

// ColumnField returns the field stored under the given column name.
func (e *Entity) ColumnField(name string) (*FieldInfo, bool) {
	f, ok := e.columns[name]
	return f, ok
}

// Columns returns the column names in field declaration order.
func (e *Entity) Columns() []string {
	cols := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		cols[i] = f.Column
	}
	return cols
}

// FieldNames returns the field names in declaration order.
func (e *Entity) FieldNames() []string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Name
	}
	return names
}

// HasUnique reports whether the given field set matches the identity
// or a declared unique constraint, in any order.
func (e *Entity) HasUnique(fields ...string) bool {
	if len(fields) == 0 {
		return false
	}
	if e.ID != nil && len(fields) == 1 && fields[0] == e.ID.Name {
		return true
	}
	sorted := slices.Clone(fields)
	slices.Sort(sorted)
	for _, u := range e.Uniques {
		if len(u) != len(sorted) {
			continue
		}
		us := slices.Clone(u)
		slices.Sort(us)
		if slices.Equal(us, sorted) {
			return true
		}
	}
	return false
}

// SoftDeleteField returns the compiled field holding the soft-delete
// marker, or nil when the entity deletes rows outright.
func (e *Entity) SoftDeleteField() *FieldInfo {
	if !e.Lifecycle.SoftDelete {
		return nil
	}
	f, _ := e.fields[e.Lifecycle.SoftDeleteField]
	return f
}

// TenantField returns the compiled tenant scope field, or nil when the
// entity is not tenant-scoped.
func (e *Entity) TenantField() *FieldInfo {
	if !e.Lifecycle.Tenant {
		return nil
	}
	f, _ := e.fields[e.Lifecycle.TenantField]
	return f
}

// VersionField returns the compiled optimistic concurrency counter
// field, or nil when the entity is not versioned.
func (e *Entity) VersionField() *FieldInfo {
	if !e.Lifecycle.Version {
		return nil
	}
	f, _ := e.fields[e.Lifecycle.VersionField]
	return f
}

// Managed reports whether the named field is assigned by the engine.
func (e *Entity) Managed(name string) bool {
	f, ok := e.fields[name]
	return ok && f.Auto
}

// Registry compiles and holds entity definitions. A Registry is safe
// for concurrent use; registration and lookup may interleave freely.
type Registry struct {
	mu       sync.RWMutex
	entities map[string]*Entity
	order    []string
	sealed   map[string]bool
}

// NewRegistry returns an empty registry. There is no package-level
// default; every client names its registry explicitly.
func NewRegistry() *Registry {
	return &Registry{
		entities: make(map[string]*Entity),
		sealed:   make(map[string]bool),
	}
}

// Register validates and compiles the given definitions as one batch.
// Ref fields may point at entities registered in the same call or
// earlier ones. A failed validation leaves the registry unchanged.
//
// Registering a name again replaces the earlier entity, unless a
// handler has already been derived from it; from that point the
// compiled form is frozen and re-registration fails with SchemaError.
func (r *Registry) Register(defs ...Definition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	staged := make([]*Entity, 0, len(defs))
	names := make(map[string]bool, len(defs))
	for _, def := range defs {
		ent, err := compile(def)
		if err != nil {
			return err
		}
		if r.sealed[ent.Name] {
			return NewSchemaError(ent.Name, "", "entity is frozen; handlers were already derived from it")
		}
		if names[ent.Name] {
			return NewSchemaError(ent.Name, "", "entity registered twice in one batch")
		}
		names[ent.Name] = true
		staged = append(staged, ent)
	}
	if err := r.resolveRefs(staged); err != nil {
		return err
	}
	for _, ent := range staged {
		if _, ok := r.entities[ent.Name]; !ok {
			r.order = append(r.order, ent.Name)
		}
		r.entities[ent.Name] = ent
	}
	return nil
}

// resolveRefs binds every ref field in the staged batch to its target
// identity. Targets may live in the batch itself or in the registry.
// The caller holds the write lock.
func (r *Registry) resolveRefs(staged []*Entity) error {
	byName := make(map[string]*Entity, len(staged))
	for _, ent := range staged {
		byName[ent.Name] = ent
	}
	for _, ent := range staged {
		for _, f := range ent.Fields {
			if f.Kind != KindRef {
				continue
			}
			target, ok := byName[f.Ref]
			if !ok {
				target, ok = r.entities[f.Ref]
			}
			if !ok {
				return NewSchemaError(ent.Name, f.Name, fmt.Sprintf("ref target %q is not registered", f.Ref))
			}
			if target.View {
				return NewSchemaError(ent.Name, f.Name, fmt.Sprintf("ref target %q is a view", f.Ref))
			}
			if target.ID == nil {
				return NewSchemaError(ent.Name, f.Name, fmt.Sprintf("ref target %q has no identity", f.Ref))
			}
			f.refKind = target.ID.Kind
			f.refColumn = target.ID.Column
		}
	}
	return nil
}

// Entity returns the compiled entity with the given name.
func (r *Registry) Entity(name string) (*Entity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ent, ok := r.entities[name]
	if !ok {
		return nil, NewQueryError(name, 0, errors.New("unknown entity"))
	}
	return ent, nil
}

// Entities returns all compiled entities in registration order.
func (r *Registry) Entities() []*Entity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Entity, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.entities[name])
	}
	return out
}

// seal freezes the named entity. Handler derivation calls it; from
// then on the compiled form is stable for the life of the registry.
func (r *Registry) seal(name string) {
	r.mu.Lock()
	r.sealed[name] = true
	r.mu.Unlock()
}

// compile turns one definition into its immutable Entity snapshot.
func compile(def Definition) (*Entity, error) {
	t := reflect.TypeOf(def)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Name() == "" {
		return nil, NewSchemaError(fmt.Sprintf("%T", def), "", "definition must be a named type")
	}
	name := snake(t.Name())
	ent := &Entity{
		Name:    name,
		Table:   snake(rules.Pluralize(t.Name())),
		Fields:  []*FieldInfo{},
		fields:  make(map[string]*FieldInfo),
		columns: make(map[string]*FieldInfo),
		Checks:  make(map[string]string),
	}
	if _, ok := def.(Viewer); ok {
		ent.View = true
	}

	// Flatten mixins ahead of the definition's own declarations.
	var (
		fields      []Field
		indexes     []Index
		annotations []schema.Annotation
	)
	for _, m := range def.Mixin() {
		fields = append(fields, m.Fields()...)
		indexes = append(indexes, m.Indexes()...)
		annotations = append(annotations, m.Annotations()...)
		ent.hooks = append(ent.hooks, m.Hooks()...)
		ent.interceptors = append(ent.interceptors, m.Interceptors()...)
		if p := m.Policy(); p != nil {
			ent.policies = append(ent.policies, p)
		}
		if edges := m.Edges(); len(edges) > 0 {
			return nil, NewSchemaError(name, "", "edges are not supported; declare relations with field.Ref")
		}
	}
	fields = append(fields, def.Fields()...)
	indexes = append(indexes, def.Indexes()...)
	annotations = append(annotations, def.Annotations()...)
	ent.hooks = append(ent.hooks, def.Hooks()...)
	ent.interceptors = append(ent.interceptors, def.Interceptors()...)
	if p := def.Policy(); p != nil {
		ent.policies = append(ent.policies, p)
	}
	if edges := def.Edges(); len(edges) > 0 {
		return nil, NewSchemaError(name, "", "edges are not supported; declare relations with field.Ref")
	}

	for _, f := range fields {
		info, err := compileField(name, f.Descriptor())
		if err != nil {
			return nil, err
		}
		if _, ok := ent.fields[info.Name]; ok {
			return nil, NewSchemaError(name, info.Name, "field declared twice; lifecycle mixins add their fields implicitly")
		}
		if _, ok := ent.columns[info.Column]; ok {
			return nil, NewSchemaError(name, info.Name, fmt.Sprintf("column %q declared twice", info.Column))
		}
		ent.Fields = append(ent.Fields, info)
		ent.fields[info.Name] = info
		ent.columns[info.Column] = info
	}

	if err := ent.compileIdentity(); err != nil {
		return nil, err
	}
	if err := ent.compileAnnotations(annotations); err != nil {
		return nil, err
	}
	// Config wins over a Table annotation.
	if cfg := def.Config(); cfg.Table != "" {
		ent.Table = cfg.Table
	}
	if err := ent.compileLifecycle(); err != nil {
		return nil, err
	}
	if err := ent.compileIndexes(indexes); err != nil {
		return nil, err
	}
	return ent, nil
}

// compileField validates a descriptor and builds its FieldInfo.
func compileField(entity string, desc *field.Descriptor) (*FieldInfo, error) {
	if desc.Err != nil {
		return nil, NewSchemaError(entity, desc.Name, desc.Err.Error())
	}
	if desc.Name == "" {
		return nil, NewSchemaError(entity, "", "field with empty name")
	}
	if desc.Info == nil || !desc.Info.Type.Valid() {
		return nil, NewSchemaError(entity, desc.Name, "invalid field type")
	}
	info := &FieldInfo{
		Name:          desc.Name,
		Column:        desc.Name,
		Kind:          inferKind(desc.Info),
		Nullable:      desc.Optional,
		Unique:        desc.Unique,
		Immutable:     desc.Immutable,
		Identity:      desc.Identity,
		Auto:          desc.Auto,
		Sensitive:     desc.Sensitive,
		Size:          desc.Size,
		Comment:       desc.Comment,
		Ref:           desc.Ref,
		Checks:        slices.Clone(desc.Checks),
		SchemaType:    desc.SchemaType,
		ftype:         desc.Info.Type,
		defaultValue:  desc.Default,
		updateDefault: desc.UpdateDefault,
		validators:    desc.Validators,
		fill:          desc.Fill,
	}
	if desc.StorageKey != "" {
		info.Column = desc.StorageKey
	}
	if info.Kind == KindInvalid {
		return nil, NewSchemaError(entity, desc.Name, fmt.Sprintf("unsupported field type %s", desc.Info.Type))
	}
	if info.Kind == KindEnum {
		if len(desc.Enums) == 0 {
			return nil, NewSchemaError(entity, desc.Name, "enum field without values")
		}
		info.Enums = make([]string, len(desc.Enums))
		for i, e := range desc.Enums {
			info.Enums[i] = e.V
		}
	}
	if ant := fieldAnnotation(desc.Annotations); ant != nil {
		info.ant = ant
		if inc, ok := ant.GetIncremental(); ok {
			info.Incremental = inc
		}
		if ant.GetPrimary() {
			info.Identity = true
		}
		if size, ok := ant.GetSize(); ok && info.Size == 0 {
			info.Size = int(size)
		}
	}
	if err := checkDefault(entity, desc.Name, info.defaultValue); err != nil {
		return nil, err
	}
	if err := checkDefault(entity, desc.Name, info.updateDefault); err != nil {
		return nil, err
	}
	if err := checkFill(entity, desc.Name, info.Kind, info.fill); err != nil {
		return nil, err
	}
	// Auto-managed fields are written by the engine; a static default
	// would shadow the generated value.
	if info.Auto {
		if dv := info.defaultValue; dv != nil && reflect.TypeOf(dv).Kind() != reflect.Func {
			return nil, NewSchemaError(entity, desc.Name, "auto-managed field accepts only a generator default")
		}
	}
	return info, nil
}

// checkDefault rejects generator functions the engine cannot invoke.
func checkDefault(entity, fieldName string, dv any) error {
	if dv == nil {
		return nil
	}
	rt := reflect.TypeOf(dv)
	if rt.Kind() != reflect.Func {
		return nil
	}
	if rt.NumIn() != 0 || rt.NumOut() != 1 {
		return NewSchemaError(entity, fieldName, "default generator must take no arguments and return one value")
	}
	return nil
}

// checkFill rejects malformed backfill declarations at registration
// time, before the migration planner ever sees them.
func checkFill(entity, fieldName string, kind Kind, f *field.Fill) error {
	if f == nil {
		return nil
	}
	n := 0
	for _, set := range []bool{
		f.Value != nil, f.Fn != "", f.Expr != "", len(f.Cases) > 0,
		f.Sequence != "", f.RefValue != nil, f.RefExpr != "",
	} {
		if set {
			n++
		}
	}
	if n != 1 {
		return NewSchemaError(entity, fieldName, "fill must set exactly one strategy")
	}
	switch {
	case f.Fn != "" && f.Fn != field.CurrentTimestamp && f.Fn != field.RandomUUID && f.Fn != field.ULID:
		return NewSchemaError(entity, fieldName, fmt.Sprintf("unknown fill generator %q", f.Fn))
	case f.Sequence != "" && kind != KindInt:
		return NewSchemaError(entity, fieldName, "sequence fill requires an integer field")
	case (f.RefValue != nil || f.RefExpr != "") && kind != KindRef:
		return NewSchemaError(entity, fieldName, "reference fill requires a ref field")
	}
	return nil
}

// compileIdentity enforces exactly one identity field and normalizes
// it. Views are exempt: they may have no identity at all.
func (e *Entity) compileIdentity() error {
	var ids []*FieldInfo
	for _, f := range e.Fields {
		if f.Identity || f.Name == "id" {
			f.Identity = true
			ids = append(ids, f)
		}
	}
	switch {
	case len(ids) == 0:
		if e.View {
			return nil
		}
		return NewSchemaError(e.Name, "", "no identity field; name one \"id\" or mark it with Identity")
	case len(ids) > 1:
		names := make([]string, len(ids))
		for i, f := range ids {
			names[i] = f.Name
		}
		return NewSchemaError(e.Name, "", fmt.Sprintf("multiple identity fields: %s", strings.Join(names, ", ")))
	}
	id := ids[0]
	switch id.Kind {
	case KindText, KindInt, KindUUID:
	default:
		return NewSchemaError(e.Name, id.Name, fmt.Sprintf("identity must be text, integer or uuid, not %s", id.Kind))
	}
	if id.Nullable {
		return NewSchemaError(e.Name, id.Name, "identity cannot be optional")
	}
	// Stable for the row's lifetime.
	id.Immutable = true
	e.ID = id
	return nil
}

// compileAnnotations folds entity-level annotations into the snapshot:
// table overrides, comments, check constraints and lifecycle flags.
func (e *Entity) compileAnnotations(annotations []schema.Annotation) error {
	var sqlAnts []sqlschema.Annotation
	for _, ant := range annotations {
		switch ant := any(ant).(type) {
		case *schema.CommentAnnotation:
			e.Comment = ant.Text
		case schema.CommentAnnotation:
			e.Comment = ant.Text
		case *schema.LifecycleAnnotation:
			merged := e.Lifecycle
			merged.Merge(ant)
			e.Lifecycle = merged
		case schema.LifecycleAnnotation:
			merged := e.Lifecycle
			merged.Merge(&ant)
			e.Lifecycle = merged
		case sqlschema.Annotation:
			sqlAnts = append(sqlAnts, ant)
		case *sqlschema.Annotation:
			sqlAnts = append(sqlAnts, *ant)
		}
	}
	if len(sqlAnts) == 0 {
		return nil
	}
	merged := sqlschema.Merge(sqlAnts...)
	e.ant = &merged
	if merged.Table != "" {
		e.Table = merged.Table
	}
	e.schemaName = merged.Schema
	if merged.Check != "" {
		e.Checks[e.Name+"_check"] = merged.Check
	}
	for name, expr := range merged.Checks {
		e.Checks[name] = expr
	}
	return nil
}

// compileLifecycle validates the merged lifecycle flags against the
// compiled fields and marks managed fields as engine-assigned.
func (e *Entity) compileLifecycle() error {
	lc := &e.Lifecycle
	if lc.SoftDelete {
		f, ok := e.fields[lc.SoftDeleteField]
		if !ok {
			return NewSchemaError(e.Name, lc.SoftDeleteField, "soft-delete field is not declared")
		}
		if f.Kind != KindTime || !f.Nullable {
			return NewSchemaError(e.Name, f.Name, "soft-delete field must be a nullable timestamp")
		}
	}
	if lc.Tenant {
		f, ok := e.fields[lc.TenantField]
		if !ok {
			return NewSchemaError(e.Name, lc.TenantField, "tenant field is not declared")
		}
		if f.Kind != KindText {
			return NewSchemaError(e.Name, f.Name, "tenant field must be text")
		}
	}
	if lc.Version {
		f, ok := e.fields[lc.VersionField]
		if !ok {
			return NewSchemaError(e.Name, lc.VersionField, "version field is not declared")
		}
		if f.Kind != KindInt {
			return NewSchemaError(e.Name, f.Name, "version field must be an integer")
		}
	}
	for _, name := range lc.Managed {
		f, ok := e.fields[name]
		if !ok {
			return NewSchemaError(e.Name, name, "managed field is not declared")
		}
		f.Auto = true
	}
	return nil
}

// compileIndexes validates index declarations and derives the unique
// column groups, folding in single-field uniques.
func (e *Entity) compileIndexes(indexes []Index) error {
	for _, f := range e.Fields {
		if f.Unique && !f.Identity {
			e.Uniques = append(e.Uniques, []string{f.Name})
		}
	}
	for _, idx := range indexes {
		desc := idx.Descriptor()
		if len(desc.Edges) > 0 {
			return NewSchemaError(e.Name, "", "edge indexes are not supported")
		}
		if len(desc.Fields) == 0 {
			return NewSchemaError(e.Name, "", "index without fields")
		}
		cols := make([]string, len(desc.Fields))
		for i, name := range desc.Fields {
			f, ok := e.fields[name]
			if !ok {
				return NewSchemaError(e.Name, name, "index references an undeclared field")
			}
			cols[i] = f.Column
		}
		name := desc.StorageKey
		if name == "" {
			name = e.Table + "_" + strings.Join(cols, "_")
		}
		e.Indexes = append(e.Indexes, EntityIndex{
			Name:    name,
			Columns: cols,
			Unique:  desc.Unique,
			ant:     indexAnnotation(desc.Annotations),
		})
		if desc.Unique {
			e.Uniques = append(e.Uniques, slices.Clone(desc.Fields))
		}
	}
	return nil
}

// fieldAnnotation merges the sql annotations attached to a field
// descriptor, or returns nil when there are none.
func fieldAnnotation(annotations []schema.Annotation) *sqlschema.Annotation {
	var ants []sqlschema.Annotation
	for _, ant := range annotations {
		switch ant := ant.(type) {
		case sqlschema.Annotation:
			ants = append(ants, ant)
		case *sqlschema.Annotation:
			ants = append(ants, *ant)
		}
	}
	if len(ants) == 0 {
		return nil
	}
	merged := sqlschema.Merge(ants...)
	return &merged
}

// indexAnnotation merges the sql annotations attached to an index
// descriptor, or returns nil when there are none. A plain IndexType
// annotation is folded into the index form.
func indexAnnotation(annotations []schema.Annotation) *sqlschema.IndexAnnotation {
	var merged *sqlschema.IndexAnnotation
	fold := func(a sqlschema.IndexAnnotation) {
		if merged == nil {
			merged = &sqlschema.IndexAnnotation{}
		}
		if a.Type != "" {
			merged.Type = a.Type
		}
		if a.Where != "" {
			merged.Where = a.Where
		}
		if a.Desc {
			merged.Desc = true
		}
		if a.OpClass != "" {
			merged.OpClass = a.OpClass
		}
		if a.Prefix != 0 {
			merged.Prefix = a.Prefix
		}
		if len(a.IncludeColumns) > 0 {
			merged.IncludeColumns = a.IncludeColumns
		}
		for d, t := range a.Types {
			if merged.Types == nil {
				merged.Types = make(map[string]string)
			}
			merged.Types[d] = t
		}
		for c, desc := range a.DescColumns {
			if merged.DescColumns == nil {
				merged.DescColumns = make(map[string]bool)
			}
			merged.DescColumns[c] = desc
		}
		for c, opc := range a.OpClassColumns {
			if merged.OpClassColumns == nil {
				merged.OpClassColumns = make(map[string]string)
			}
			merged.OpClassColumns[c] = opc
		}
		for c, p := range a.PrefixColumns {
			if merged.PrefixColumns == nil {
				merged.PrefixColumns = make(map[string]uint)
			}
			merged.PrefixColumns[c] = p
		}
	}
	for _, ant := range annotations {
		switch ant := ant.(type) {
		case sqlschema.IndexAnnotation:
			fold(ant)
		case *sqlschema.IndexAnnotation:
			fold(*ant)
		case sqlschema.Annotation:
			if ant.IndexType != "" {
				fold(sqlschema.IndexAnnotation{Type: ant.IndexType})
			}
		case *sqlschema.Annotation:
			if ant.IndexType != "" {
				fold(sqlschema.IndexAnnotation{Type: ant.IndexType})
			}
		}
	}
	return merged
}

// inferKind maps a field type to its portable kind.
func inferKind(info *field.TypeInfo) Kind {
	switch t := info.Type; {
	case t == field.TypeBool:
		return KindBool
	case t == field.TypeTime:
		return KindTime
	case t == field.TypeDate:
		return KindDate
	case t == field.TypeDecimal:
		return KindDecimal
	case t == field.TypeJSON:
		if strings.HasPrefix(info.Ident, "[]") {
			return KindArray
		}
		return KindJSON
	case t == field.TypeUUID:
		return KindUUID
	case t == field.TypeBytes:
		return KindBytes
	case t == field.TypeEnum:
		return KindEnum
	case t == field.TypeString:
		return KindText
	case t == field.TypeRef:
		return KindRef
	case t == field.TypeOther:
		return KindOther
	case t.Float():
		return KindFloat
	case t.Integer():
		return KindInt
	}
	return KindInvalid
}

var rules = inflect.NewDefaultRuleset()

// snake converts the given struct or field name into snake_case.
//
//	Username => username
//	FullName => full_name
//	HTTPCode => http_code
func snake(s string) string {
	var (
		j int
		b strings.Builder
	)
	for i := 0; i < len(s); i++ {
		r := rune(s[i])
		// Put '_' if it is not a start or end of a word, current letter is uppercase,
		// and previous letter is lowercase (cases like: "UserInfo"), or next letter is
		// also a lowercase and previous letter is not "_".
		if i > 0 && i < len(s)-1 && unicode.IsUpper(r) {
			if unicode.IsLower(rune(s[i-1])) ||
				j != i-1 && unicode.IsLower(rune(s[i+1])) && unicode.IsLetter(rune(s[i-1])) {
				j = i
				b.WriteString("_")
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
