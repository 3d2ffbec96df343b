package field

import (
	"database/sql"
	"database/sql/driver"
	"encoding"
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/formadb/forma/schema"
)

// String returns a new Field with type string.
func String(name string) *stringBuilder {
	return &stringBuilder{&Descriptor{
		Name: name,
		Info: &TypeInfo{Type: TypeString},
	}}
}

// Text returns a new string field without limitation on the size.
// In MySQL, it is the "longtext" type, but in SQLite and Postgres it
// has no effect.
func Text(name string) *stringBuilder {
	b := String(name)
	b.desc.Size = math.MaxInt32
	return b
}

// Bytes returns a new Field with type bytes/buffer.
// In MySQL and SQLite, it is the "BLOB" type, and it does not support for Gremlin.
func Bytes(name string) *bytesBuilder {
	return &bytesBuilder{&Descriptor{
		Name: name,
		Info: &TypeInfo{Type: TypeBytes, Nillable: true},
	}}
}

// Bool returns a new Field with type bool.
func Bool(name string) *boolBuilder {
	return &boolBuilder{&Descriptor{
		Name: name,
		Info: &TypeInfo{Type: TypeBool},
	}}
}

// Time returns a new Field with type timestamp.
func Time(name string) *timeBuilder {
	return &timeBuilder{&Descriptor{
		Name: name,
		Info: &TypeInfo{Type: TypeTime, Ident: "time.Time", PkgPath: "time"},
	}}
}

// Date returns a new Field with a date column type, without a time
// component. Values travel as time.Time with the clock part ignored.
func Date(name string) *timeBuilder {
	return &timeBuilder{&Descriptor{
		Name: name,
		Info: &TypeInfo{Type: TypeDate, Ident: "time.Time", PkgPath: "time"},
	}}
}

// Decimal returns a new Field mapped to a fixed-point decimal column.
// Values travel as strings on both writes and reads, so that exactness
// is never lost to a float conversion:
//
//	field.Decimal("price").
//		Precision(12, 2)
func Decimal(name string) *decimalBuilder {
	return &decimalBuilder{&Descriptor{
		Name: name,
		Info: &TypeInfo{Type: TypeDecimal, Ident: "string"},
	}}
}

// Ref returns a new identity-reference field pointing at another
// entity. The column type and a foreign key resolve at registration
// time from the referenced entity's identity:
//
//	field.Ref("author_id", "user")
func Ref(name, entity string) *refBuilder {
	b := &refBuilder{&Descriptor{
		Name: name,
		Info: &TypeInfo{Type: TypeRef},
		Ref:  entity,
	}}
	if entity == "" {
		b.desc.Err = fmt.Errorf("missing referenced entity for ref field %q", name)
	}
	return b
}

// JSON returns a new Field with type json that is serialized to the given object.
// For example:
//
//	field.JSON("dirs", []http.Dir{}).
//		Optional()
//
//	field.JSON("info", &Info{}).
//		Optional()
func JSON(name string, typ any) *jsonBuilder {
	b := &jsonBuilder{&Descriptor{
		Name: name,
		Info: &TypeInfo{Type: TypeJSON},
	}}
	t := reflect.TypeOf(typ)
	if t == nil {
		b.desc.Err = errors.New("expect a Go value as JSON type but got nil")
		return b
	}
	b.desc.Info.Ident = t.String()
	b.desc.Info.PkgPath = t.PkgPath()
	b.desc.Info.RType = rtype(t)
	switch t.Kind() {
	case reflect.Slice, reflect.Array, reflect.Ptr, reflect.Map:
		b.desc.Info.Nillable = true
		b.desc.Info.PkgPath = pkgPath(t)
	}
	b.desc.Info.PkgName = pkgName(b.desc.Info.PkgPath)
	return b
}

// Any returns a new JSON field without bounding it to a specific Go type.
func Any(name string) *jsonBuilder {
	return &jsonBuilder{&Descriptor{
		Name: name,
		Info: &TypeInfo{Type: TypeJSON, Ident: "any"},
	}}
}

// Strings returns a new JSON Field with type []string.
func Strings(name string) *sliceBuilder[string] {
	return sliceOf[string](name)
}

// Ints returns a new JSON Field with type []int.
func Ints(name string) *sliceBuilder[int] {
	return sliceOf[int](name)
}

// Floats returns a new JSON Field with type []float64.
func Floats(name string) *sliceBuilder[float64] {
	return sliceOf[float64](name)
}

// Enum returns a new Field with type enum. An example for defining enum is as follows:
//
//	field.Enum("state").
//		Values("on", "off").
//		Default("on")
func Enum(name string) *enumBuilder {
	return &enumBuilder{&Descriptor{
		Name: name,
		Info: &TypeInfo{Type: TypeEnum},
	}}
}

// UUID returns a new Field with type UUID. An example for defining UUID field is as follows:
//
//	field.UUID("id", uuid.UUID{}).
//		Default(uuid.New)
func UUID(name string, typ driver.Valuer) *uuidBuilder {
	b := &uuidBuilder{&Descriptor{
		Name: name,
		Info: &TypeInfo{Type: TypeUUID},
	}}
	t := reflect.TypeOf(typ)
	if t == nil {
		b.desc.Err = errors.New("expect a Go value as UUID type but got nil")
		return b
	}
	tv := indirect(t)
	b.desc.Info.Ident = t.String()
	b.desc.Info.PkgPath = tv.PkgPath()
	b.desc.Info.PkgName = pkgName(tv.PkgPath())
	b.desc.Info.RType = rtype(t)
	return b
}

// Other represents a field that is not a good fit for any of the standard field types.
//
// The second argument defines the Go type, and the SchemaType option
// must be set because the field type cannot be inferred. An example for
// defining such a field is as follows:
//
//	field.Other("link", &Link{}).
//		SchemaType(map[string]string{
//			dialect.MySQL:    "text",
//			dialect.Postgres: "varchar",
//		})
func Other(name string, typ driver.Valuer) *otherBuilder {
	b := &otherBuilder{&Descriptor{
		Name: name,
		Info: &TypeInfo{Type: TypeOther},
	}}
	t := reflect.TypeOf(typ)
	if t == nil {
		b.desc.Err = errors.New("expect a Go value as Other type but got nil")
		return b
	}
	tv := indirect(t)
	b.desc.Info.Ident = t.String()
	b.desc.Info.PkgPath = tv.PkgPath()
	b.desc.Info.PkgName = pkgName(tv.PkgPath())
	b.desc.Info.RType = rtype(t)
	switch t.Kind() {
	case reflect.Slice, reflect.Ptr, reflect.Map:
		b.desc.Info.Nillable = true
	}
	return b
}

// stringBuilder is the builder for string fields.
type stringBuilder struct {
	desc *Descriptor
}

// Unique makes the field unique within all vertices of this type.
func (b *stringBuilder) Unique() *stringBuilder {
	b.desc.Unique = true
	return b
}

// Sensitive fields not printable and not serializable.
func (b *stringBuilder) Sensitive() *stringBuilder {
	b.desc.Sensitive = true
	return b
}

// Match adds a regex matcher for this field. Operation fails if the regex fails.
func (b *stringBuilder) Match(re *regexp.Regexp) *stringBuilder {
	b.desc.Validators = append(b.desc.Validators, func(v string) error {
		if !re.MatchString(v) {
			return fmt.Errorf("value does not match pattern %q", re)
		}
		return nil
	})
	b.desc.Checks = append(b.desc.Checks, Check{Op: CheckMatch, Value: re.String()})
	return b
}

// MinLen adds a length validator for this field.
// Operation fails if the length of the string is less than the given value.
func (b *stringBuilder) MinLen(i int) *stringBuilder {
	b.desc.Validators = append(b.desc.Validators, func(v string) error {
		if len(v) < i {
			return errors.New("value is less than the required length")
		}
		return nil
	})
	b.desc.Checks = append(b.desc.Checks, Check{Op: CheckMinLen, Value: i})
	return b
}

// NotEmpty adds a length validator for this field.
// Operation fails if the length of the string is zero.
func (b *stringBuilder) NotEmpty() *stringBuilder {
	return b.MinLen(1)
}

// MaxLen adds a length validator for this field.
// Operation fails if the length of the string is greater than the given value.
func (b *stringBuilder) MaxLen(i int) *stringBuilder {
	b.desc.Size = i
	b.desc.Validators = append(b.desc.Validators, func(v string) error {
		if len(v) > i {
			return errors.New("value is greater than the required length")
		}
		return nil
	})
	b.desc.Checks = append(b.desc.Checks, Check{Op: CheckMaxLen, Value: i})
	return b
}

// MinRuneLen adds a rune length validator for this field.
// Operation fails if the rune count of the string is less than the given value.
func (b *stringBuilder) MinRuneLen(i int) *stringBuilder {
	b.desc.Validators = append(b.desc.Validators, func(v string) error {
		if n := utf8.RuneCountInString(v); n < i {
			return fmt.Errorf("rune count %d is less than minimum %d", n, i)
		}
		return nil
	})
	return b
}

// MaxRuneLen adds a rune length validator for this field.
// Operation fails if the rune count of the string exceeds the given value.
func (b *stringBuilder) MaxRuneLen(i int) *stringBuilder {
	b.desc.Validators = append(b.desc.Validators, func(v string) error {
		if n := utf8.RuneCountInString(v); n > i {
			return fmt.Errorf("rune count %d exceeds maximum %d", n, i)
		}
		return nil
	})
	return b
}

// Default sets the default value of the field.
func (b *stringBuilder) Default(s string) *stringBuilder {
	b.desc.Default = s
	return b
}

// DefaultFunc sets the function that is applied to set the default value
// of the field on creation. For example:
//
//	field.String("cuid").
//		DefaultFunc(cuid.New)
func (b *stringBuilder) DefaultFunc(fn any) *stringBuilder {
	b.desc.Default = fn
	if t := reflect.TypeOf(fn); t.Kind() != reflect.Func {
		b.desc.Err = fmt.Errorf(`field.String(%q).DefaultFunc expects func but got %s`, b.desc.Name, t.Kind())
	}
	return b
}

// UpdateDefault sets the function that is applied to set default value
// of the field on update.
func (b *stringBuilder) UpdateDefault(fn any) *stringBuilder {
	b.desc.UpdateDefault = fn
	if t := reflect.TypeOf(fn); t.Kind() != reflect.Func {
		b.desc.Err = fmt.Errorf(`field.String(%q).UpdateDefault expects func but got %s`, b.desc.Name, t.Kind())
	}
	return b
}

// Fill sets the backfill strategy used when the field is added as
// NOT NULL to a populated table. For example:
//
//	field.String("region").
//		Fill(field.Fill{Value: "eu"})
func (b *stringBuilder) Fill(f Fill) *stringBuilder {
	b.desc.Fill = &f
	return b
}

// Nillable indicates that this field is a nillable.
// Unlike "Optional" only fields, "Nillable" fields may hold NULL, which reads report as nil.
func (b *stringBuilder) Nillable() *stringBuilder {
	b.desc.Nillable = true
	return b
}

// Optional indicates that this field is optional on create.
// Unlike edges, fields are required by default.
func (b *stringBuilder) Optional() *stringBuilder {
	b.desc.Optional = true
	return b
}

// Immutable indicates that this field cannot be updated.
func (b *stringBuilder) Immutable() *stringBuilder {
	b.desc.Immutable = true
	return b
}

// Identity marks the field as the identity (primary key) of its entity.
// Fields named "id" are the identity by convention and do not need it.
func (b *stringBuilder) Identity() *stringBuilder {
	b.desc.Identity = true
	return b
}

// Comment sets the comment of the field.
func (b *stringBuilder) Comment(c string) *stringBuilder {
	b.desc.Comment = c
	return b
}

// StructTag sets the struct tag of the field.
func (b *stringBuilder) StructTag(s string) *stringBuilder {
	b.desc.Tag = s
	return b
}

// Validate adds a validator for this field. Operation fails if the validation fails.
func (b *stringBuilder) Validate(fn func(string) error) *stringBuilder {
	b.desc.Validators = append(b.desc.Validators, fn)
	return b
}

// ValidateCreate sets validation rules in go-playground/validator syntax
// that are applied to the field value on entity creation. For example:
//
//	field.String("email").
//		ValidateCreate("required,email")
func (b *stringBuilder) ValidateCreate(rules string) *stringBuilder {
	b.desc.CreateRules = rules
	return b
}

// ValidateUpdate sets validation rules in go-playground/validator syntax
// that are applied to the field value on entity updates.
func (b *stringBuilder) ValidateUpdate(rules string) *stringBuilder {
	b.desc.UpdateRules = rules
	return b
}

// StorageKey sets the storage key of the field.
// In SQL dialects is the column name.
func (b *stringBuilder) StorageKey(key string) *stringBuilder {
	b.desc.StorageKey = key
	return b
}

// SchemaType overrides the default database type with a custom
// schema type (per dialect) for string.
//
//	field.String("name").
//		SchemaType(map[string]string{
//			dialect.MySQL:    "text",
//			dialect.Postgres: "varchar",
//		})
func (b *stringBuilder) SchemaType(types map[string]string) *stringBuilder {
	b.desc.SchemaType = types
	return b
}

// GoType overrides the default Go type with a custom one.
//
//	field.String("dir").
//		GoType(http.Dir("dir"))
func (b *stringBuilder) GoType(typ any) *stringBuilder {
	b.desc.goType(typ)
	return b
}

// ValueScanner provides an external value-scanner for the field.
//
//	field.String("encrypted").
//		ValueScanner(ValueScannerFunc[string, *sql.NullString]{...})
func (b *stringBuilder) ValueScanner(vs any) *stringBuilder {
	b.desc.ValueScanner = vs
	return b
}

// Annotations adds a list of annotations to the field object.
//
//	field.String("dir").
//		Annotations(
//			sqlschema.Default("unknown"),
//		)
func (b *stringBuilder) Annotations(annotations ...schema.Annotation) *stringBuilder {
	b.desc.Annotations = append(b.desc.Annotations, annotations...)
	return b
}

// Deprecated marks the field as deprecated with an optional reason.
func (b *stringBuilder) Deprecated(reason ...string) *stringBuilder {
	b.desc.deprecate(reason)
	return b
}

// Descriptor implements the forma.Field interface by returning its descriptor.
func (b *stringBuilder) Descriptor() *Descriptor {
	b.desc.checkGoType(stringType)
	b.desc.checkDefaultFunc(stringType)
	return b.desc
}

// timeBuilder is the builder for time fields.
type timeBuilder struct {
	desc *Descriptor
}

// Unique makes the field unique within all vertices of this type.
func (b *timeBuilder) Unique() *timeBuilder {
	b.desc.Unique = true
	return b
}

// Default sets the function that is applied to set default value
// of the field on creation. For example:
//
//	field.Time("created_at").
//		Default(time.Now)
func (b *timeBuilder) Default(fn any) *timeBuilder {
	b.desc.Default = fn
	if t := reflect.TypeOf(fn); t.Kind() != reflect.Func {
		b.desc.Err = fmt.Errorf(`field.Time(%q).Default expects func but got %s`, b.desc.Name, t.Kind())
	}
	return b
}

// UpdateDefault sets the function that is applied to set default value
// of the field on update. For example:
//
//	field.Time("updated_at").
//		Default(time.Now).
//		UpdateDefault(time.Now)
func (b *timeBuilder) UpdateDefault(fn any) *timeBuilder {
	b.desc.UpdateDefault = fn
	if t := reflect.TypeOf(fn); t.Kind() != reflect.Func {
		b.desc.Err = fmt.Errorf(`field.Time(%q).UpdateDefault expects func but got %s`, b.desc.Name, t.Kind())
	}
	return b
}

// Fill sets the backfill strategy used when the field is added as
// NOT NULL to a populated table. For example:
//
//	field.Time("joined_at").
//		Fill(field.Fill{Fn: field.CurrentTimestamp})
func (b *timeBuilder) Fill(f Fill) *timeBuilder {
	b.desc.Fill = &f
	return b
}

// Nillable indicates that this field is a nillable.
// Unlike "Optional" only fields, "Nillable" fields may hold NULL, which reads report as nil.
func (b *timeBuilder) Nillable() *timeBuilder {
	b.desc.Nillable = true
	return b
}

// Optional indicates that this field is optional on create.
// Unlike edges, fields are required by default.
func (b *timeBuilder) Optional() *timeBuilder {
	b.desc.Optional = true
	return b
}

// Immutable indicates that this field cannot be updated.
func (b *timeBuilder) Immutable() *timeBuilder {
	b.desc.Immutable = true
	return b
}

// Auto marks the field as engine-managed: the engine assigns its value
// on create and update, and caller-supplied values are dropped with an
// advisory.
func (b *timeBuilder) Auto() *timeBuilder {
	b.desc.Auto = true
	return b
}

// Comment sets the comment of the field.
func (b *timeBuilder) Comment(c string) *timeBuilder {
	b.desc.Comment = c
	return b
}

// StructTag sets the struct tag of the field.
func (b *timeBuilder) StructTag(s string) *timeBuilder {
	b.desc.Tag = s
	return b
}

// StorageKey sets the storage key of the field.
// In SQL dialects is the column name.
func (b *timeBuilder) StorageKey(key string) *timeBuilder {
	b.desc.StorageKey = key
	return b
}

// SchemaType overrides the default database type with a custom
// schema type (per dialect) for time.
//
//	field.Time("deleted_at").
//		SchemaType(map[string]string{
//			dialect.MySQL: "datetime",
//		})
func (b *timeBuilder) SchemaType(types map[string]string) *timeBuilder {
	b.desc.SchemaType = types
	return b
}

// GoType overrides the default Go type with a custom one.
//
//	field.Time("deleted_at").
//		GoType(&sql.NullTime{})
func (b *timeBuilder) GoType(typ any) *timeBuilder {
	b.desc.goType(typ)
	return b
}

// ValueScanner provides an external value-scanner for the field.
func (b *timeBuilder) ValueScanner(vs any) *timeBuilder {
	b.desc.ValueScanner = vs
	return b
}

// Annotations adds a list of annotations to the field object.
func (b *timeBuilder) Annotations(annotations ...schema.Annotation) *timeBuilder {
	b.desc.Annotations = append(b.desc.Annotations, annotations...)
	return b
}

// Deprecated marks the field as deprecated with an optional reason.
func (b *timeBuilder) Deprecated(reason ...string) *timeBuilder {
	b.desc.deprecate(reason)
	return b
}

// Descriptor implements the forma.Field interface by returning its descriptor.
func (b *timeBuilder) Descriptor() *Descriptor {
	b.desc.checkGoType(timeType)
	b.desc.checkDefaultFunc(timeType)
	return b.desc
}

// boolBuilder is the builder for boolean fields.
type boolBuilder struct {
	desc *Descriptor
}

// Default sets the default value of the field.
func (b *boolBuilder) Default(v bool) *boolBuilder {
	b.desc.Default = v
	return b
}

// Fill sets the backfill strategy used when the field is added as
// NOT NULL to a populated table.
func (b *boolBuilder) Fill(f Fill) *boolBuilder {
	b.desc.Fill = &f
	return b
}

// Nillable indicates that this field is a nillable.
// Unlike "Optional" only fields, "Nillable" fields may hold NULL, which reads report as nil.
func (b *boolBuilder) Nillable() *boolBuilder {
	b.desc.Nillable = true
	return b
}

// Optional indicates that this field is optional on create.
// Unlike edges, fields are required by default.
func (b *boolBuilder) Optional() *boolBuilder {
	b.desc.Optional = true
	return b
}

// Immutable indicates that this field cannot be updated.
func (b *boolBuilder) Immutable() *boolBuilder {
	b.desc.Immutable = true
	return b
}

// Comment sets the comment of the field.
func (b *boolBuilder) Comment(c string) *boolBuilder {
	b.desc.Comment = c
	return b
}

// StructTag sets the struct tag of the field.
func (b *boolBuilder) StructTag(s string) *boolBuilder {
	b.desc.Tag = s
	return b
}

// StorageKey sets the storage key of the field.
// In SQL dialects is the column name.
func (b *boolBuilder) StorageKey(key string) *boolBuilder {
	b.desc.StorageKey = key
	return b
}

// SchemaType overrides the default database type with a custom
// schema type (per dialect) for boolean.
func (b *boolBuilder) SchemaType(types map[string]string) *boolBuilder {
	b.desc.SchemaType = types
	return b
}

// GoType overrides the default Go type with a custom one.
//
//	field.Bool("deleted").
//		GoType(&sql.NullBool{})
func (b *boolBuilder) GoType(typ any) *boolBuilder {
	b.desc.goType(typ)
	return b
}

// Annotations adds a list of annotations to the field object.
func (b *boolBuilder) Annotations(annotations ...schema.Annotation) *boolBuilder {
	b.desc.Annotations = append(b.desc.Annotations, annotations...)
	return b
}

// Deprecated marks the field as deprecated with an optional reason.
func (b *boolBuilder) Deprecated(reason ...string) *boolBuilder {
	b.desc.deprecate(reason)
	return b
}

// Descriptor implements the forma.Field interface by returning its descriptor.
func (b *boolBuilder) Descriptor() *Descriptor {
	b.desc.checkGoType(boolType)
	return b.desc
}

// bytesBuilder is the builder for bytes fields.
type bytesBuilder struct {
	desc *Descriptor
}

// Unique makes the field unique within all vertices of this type.
func (b *bytesBuilder) Unique() *bytesBuilder {
	b.desc.Unique = true
	return b
}

// Sensitive fields not printable and not serializable.
func (b *bytesBuilder) Sensitive() *bytesBuilder {
	b.desc.Sensitive = true
	return b
}

// Default sets the default value of the field.
func (b *bytesBuilder) Default(v []byte) *bytesBuilder {
	b.desc.Default = v
	return b
}

// DefaultFunc sets the function that is applied to set the default value
// of the field on creation.
func (b *bytesBuilder) DefaultFunc(fn any) *bytesBuilder {
	b.desc.Default = fn
	if t := reflect.TypeOf(fn); t.Kind() != reflect.Func {
		b.desc.Err = fmt.Errorf(`field.Bytes(%q).DefaultFunc expects func but got %s`, b.desc.Name, t.Kind())
	}
	return b
}

// Nillable indicates that this field is a nillable.
// Unlike "Optional" only fields, "Nillable" fields may hold NULL, which reads report as nil.
func (b *bytesBuilder) Nillable() *bytesBuilder {
	b.desc.Nillable = true
	return b
}

// Optional indicates that this field is optional on create.
// Unlike edges, fields are required by default.
func (b *bytesBuilder) Optional() *bytesBuilder {
	b.desc.Optional = true
	return b
}

// Immutable indicates that this field cannot be updated.
func (b *bytesBuilder) Immutable() *bytesBuilder {
	b.desc.Immutable = true
	return b
}

// Comment sets the comment of the field.
func (b *bytesBuilder) Comment(c string) *bytesBuilder {
	b.desc.Comment = c
	return b
}

// StructTag sets the struct tag of the field.
func (b *bytesBuilder) StructTag(s string) *bytesBuilder {
	b.desc.Tag = s
	return b
}

// MaxLen sets the max-length of the bytes type in the database.
// In addition, it limits the length of the binary field.
func (b *bytesBuilder) MaxLen(i int) *bytesBuilder {
	b.desc.Size = i
	b.desc.Validators = append(b.desc.Validators, func(v []byte) error {
		if len(v) > i {
			return errors.New("value is greater than the required length")
		}
		return nil
	})
	return b
}

// MinLen adds a length validator for this field.
// Operation fails if the length of the buffer is less than the given value.
func (b *bytesBuilder) MinLen(i int) *bytesBuilder {
	b.desc.Validators = append(b.desc.Validators, func(v []byte) error {
		if len(v) < i {
			return errors.New("value is less than the required length")
		}
		return nil
	})
	return b
}

// NotEmpty adds a length validator for this field.
// Operation fails if the length of the buffer is zero.
func (b *bytesBuilder) NotEmpty() *bytesBuilder {
	return b.MinLen(1)
}

// Validate adds a validator for this field. Operation fails if the validation fails.
func (b *bytesBuilder) Validate(fn func([]byte) error) *bytesBuilder {
	b.desc.Validators = append(b.desc.Validators, fn)
	return b
}

// StorageKey sets the storage key of the field.
// In SQL dialects is the column name.
func (b *bytesBuilder) StorageKey(key string) *bytesBuilder {
	b.desc.StorageKey = key
	return b
}

// SchemaType overrides the default database type with a custom
// schema type (per dialect) for bytes.
//
//	field.Bytes("blob").
//		SchemaType(map[string]string{
//			dialect.MySQL: "mediumblob",
//		})
func (b *bytesBuilder) SchemaType(types map[string]string) *bytesBuilder {
	b.desc.SchemaType = types
	return b
}

// GoType overrides the default Go type with a custom one.
//
//	field.Bytes("ip").
//		GoType(net.IP("127.0.0.1"))
func (b *bytesBuilder) GoType(typ any) *bytesBuilder {
	b.desc.goType(typ)
	return b
}

// ValueScanner provides an external value-scanner for the field.
func (b *bytesBuilder) ValueScanner(vs any) *bytesBuilder {
	b.desc.ValueScanner = vs
	return b
}

// Annotations adds a list of annotations to the field object.
func (b *bytesBuilder) Annotations(annotations ...schema.Annotation) *bytesBuilder {
	b.desc.Annotations = append(b.desc.Annotations, annotations...)
	return b
}

// Deprecated marks the field as deprecated with an optional reason.
func (b *bytesBuilder) Deprecated(reason ...string) *bytesBuilder {
	b.desc.deprecate(reason)
	return b
}

// Descriptor implements the forma.Field interface by returning its descriptor.
func (b *bytesBuilder) Descriptor() *Descriptor {
	b.desc.checkGoType(bytesType)
	b.desc.checkDefaultFunc(bytesType)
	return b.desc
}

// jsonBuilder is the builder for json fields.
type jsonBuilder struct {
	desc *Descriptor
}

// StorageKey sets the storage key of the field.
// In SQL dialects is the column name.
func (b *jsonBuilder) StorageKey(key string) *jsonBuilder {
	b.desc.StorageKey = key
	return b
}

// Optional indicates that this field is optional on create.
// Unlike edges, fields are required by default.
func (b *jsonBuilder) Optional() *jsonBuilder {
	b.desc.Optional = true
	return b
}

// Immutable indicates that this field cannot be updated.
func (b *jsonBuilder) Immutable() *jsonBuilder {
	b.desc.Immutable = true
	return b
}

// Sensitive fields not printable and not serializable.
func (b *jsonBuilder) Sensitive() *jsonBuilder {
	b.desc.Sensitive = true
	return b
}

// Comment sets the comment of the field.
func (b *jsonBuilder) Comment(c string) *jsonBuilder {
	b.desc.Comment = c
	return b
}

// StructTag sets the struct tag of the field.
func (b *jsonBuilder) StructTag(s string) *jsonBuilder {
	b.desc.Tag = s
	return b
}

// Default sets the default value of the field. For example:
//
//	field.JSON("dirs", []http.Dir{}).
//		Default([]http.Dir{"/tmp"})
//
// Or:
//
//	field.JSON("dirs", []http.Dir{}).
//		Default(func() []http.Dir {
//			return []http.Dir{"/tmp"}
//		})
func (b *jsonBuilder) Default(v any) *jsonBuilder {
	b.desc.Default = v
	if b.desc.Info.RType == nil {
		return b
	}
	switch t, rt := reflect.TypeOf(v), b.desc.Info.RType.rtype; {
	case t == rt:
	case t.Kind() == reflect.Func && t.NumIn() == 0 && t.NumOut() == 1 && t.Out(0) == rt:
	default:
		b.desc.Err = fmt.Errorf("expect type (func() %[1]s) or (%[1]s) for json default value", b.desc.Info.Ident)
	}
	return b
}

// SchemaType overrides the default database type with a custom
// schema type (per dialect) for json.
//
//	field.JSON("json", map[string]any{}).
//		SchemaType(map[string]string{
//			dialect.Postgres: "jsonb",
//		})
func (b *jsonBuilder) SchemaType(types map[string]string) *jsonBuilder {
	b.desc.SchemaType = types
	return b
}

// Annotations adds a list of annotations to the field object.
func (b *jsonBuilder) Annotations(annotations ...schema.Annotation) *jsonBuilder {
	b.desc.Annotations = append(b.desc.Annotations, annotations...)
	return b
}

// Deprecated marks the field as deprecated with an optional reason.
func (b *jsonBuilder) Deprecated(reason ...string) *jsonBuilder {
	b.desc.deprecate(reason)
	return b
}

// Descriptor implements the forma.Field interface by returning its descriptor.
func (b *jsonBuilder) Descriptor() *Descriptor {
	return b.desc
}

// sliceBuilder is the builder for JSON slice fields.
type sliceBuilder[T any] struct {
	desc *Descriptor
}

func sliceOf[T any](name string) *sliceBuilder[T] {
	t := reflect.TypeOf(([]T)(nil))
	return &sliceBuilder[T]{&Descriptor{
		Name: name,
		Info: &TypeInfo{
			Type:     TypeJSON,
			Ident:    t.String(),
			PkgPath:  pkgPath(t),
			PkgName:  pkgName(pkgPath(t)),
			Nillable: true,
			RType:    rtype(t),
		},
	}}
}

// StorageKey sets the storage key of the field.
// In SQL dialects is the column name.
func (b *sliceBuilder[T]) StorageKey(key string) *sliceBuilder[T] {
	b.desc.StorageKey = key
	return b
}

// Optional indicates that this field is optional on create.
// Unlike edges, fields are required by default.
func (b *sliceBuilder[T]) Optional() *sliceBuilder[T] {
	b.desc.Optional = true
	return b
}

// Immutable indicates that this field cannot be updated.
func (b *sliceBuilder[T]) Immutable() *sliceBuilder[T] {
	b.desc.Immutable = true
	return b
}

// Sensitive fields not printable and not serializable.
func (b *sliceBuilder[T]) Sensitive() *sliceBuilder[T] {
	b.desc.Sensitive = true
	return b
}

// Comment sets the comment of the field.
func (b *sliceBuilder[T]) Comment(c string) *sliceBuilder[T] {
	b.desc.Comment = c
	return b
}

// StructTag sets the struct tag of the field.
func (b *sliceBuilder[T]) StructTag(s string) *sliceBuilder[T] {
	b.desc.Tag = s
	return b
}

// Default sets the default value of the field.
func (b *sliceBuilder[T]) Default(v []T) *sliceBuilder[T] {
	b.desc.Default = v
	return b
}

// DefaultFunc sets the function that is applied to set the default value
// of the field on creation.
func (b *sliceBuilder[T]) DefaultFunc(fn func() []T) *sliceBuilder[T] {
	b.desc.Default = fn
	return b
}

// Validate adds a validator for this field. Operation fails if the validation fails.
func (b *sliceBuilder[T]) Validate(fn func([]T) error) *sliceBuilder[T] {
	b.desc.Validators = append(b.desc.Validators, fn)
	return b
}

// SchemaType overrides the default database type with a custom
// schema type (per dialect) for the slice.
func (b *sliceBuilder[T]) SchemaType(types map[string]string) *sliceBuilder[T] {
	b.desc.SchemaType = types
	return b
}

// Annotations adds a list of annotations to the field object.
func (b *sliceBuilder[T]) Annotations(annotations ...schema.Annotation) *sliceBuilder[T] {
	b.desc.Annotations = append(b.desc.Annotations, annotations...)
	return b
}

// Deprecated marks the field as deprecated with an optional reason.
func (b *sliceBuilder[T]) Deprecated(reason ...string) *sliceBuilder[T] {
	b.desc.deprecate(reason)
	return b
}

// Descriptor implements the forma.Field interface by returning its descriptor.
func (b *sliceBuilder[T]) Descriptor() *Descriptor {
	return b.desc
}

// enumBuilder is the builder for enum fields.
type enumBuilder struct {
	desc *Descriptor
}

// Values adds the given values to the enum values, and
// uses the values also as names.
func (b *enumBuilder) Values(values ...string) *enumBuilder {
	for _, v := range values {
		b.desc.Enums = append(b.desc.Enums, struct{ N, V string }{N: v, V: v})
	}
	return b
}

// NamedValues adds the given name, value pairs to the enum values.
// The "name" defines the Go identifier of the enum, and the value
// defines the actual value in the database.
func (b *enumBuilder) NamedValues(namevalue ...string) *enumBuilder {
	if len(namevalue)%2 == 1 {
		b.desc.Err = errors.New("Enum.NamedValues: odd argument count")
		return b
	}
	for i := 0; i < len(namevalue); i += 2 {
		b.desc.Enums = append(b.desc.Enums, struct{ N, V string }{N: namevalue[i], V: namevalue[i+1]})
	}
	return b
}

// Default sets the default value of the field.
func (b *enumBuilder) Default(value string) *enumBuilder {
	b.desc.Default = value
	return b
}

// Fill sets the backfill strategy used when the field is added as
// NOT NULL to a populated table. For example:
//
//	field.Enum("tier").Values("free", "paid").
//		Fill(field.Fill{Cases: []field.FillCase{
//			{When: "credits > 0", Then: "paid"},
//			{Then: "free"},
//		}})
func (b *enumBuilder) Fill(f Fill) *enumBuilder {
	b.desc.Fill = &f
	return b
}

// Nillable indicates that this field is a nillable.
// Unlike "Optional" only fields, "Nillable" fields may hold NULL, which reads report as nil.
func (b *enumBuilder) Nillable() *enumBuilder {
	b.desc.Nillable = true
	return b
}

// Optional indicates that this field is optional on create.
// Unlike edges, fields are required by default.
func (b *enumBuilder) Optional() *enumBuilder {
	b.desc.Optional = true
	return b
}

// Immutable indicates that this field cannot be updated.
func (b *enumBuilder) Immutable() *enumBuilder {
	b.desc.Immutable = true
	return b
}

// Comment sets the comment of the field.
func (b *enumBuilder) Comment(c string) *enumBuilder {
	b.desc.Comment = c
	return b
}

// StructTag sets the struct tag of the field.
func (b *enumBuilder) StructTag(s string) *enumBuilder {
	b.desc.Tag = s
	return b
}

// StorageKey sets the storage key of the field.
// In SQL dialects is the column name.
func (b *enumBuilder) StorageKey(key string) *enumBuilder {
	b.desc.StorageKey = key
	return b
}

// SchemaType overrides the default database type with a custom
// schema type (per dialect) for enum.
func (b *enumBuilder) SchemaType(types map[string]string) *enumBuilder {
	b.desc.SchemaType = types
	return b
}

// EnumValues defines the interface for getting the enum values.
type EnumValues interface {
	Values() []string
}

// GoType overrides the default Go type with a custom one.
// If the provided type implements the Valuer interface, it
// is also used for storing the values in the database.
//
//	field.Enum("enum").
//		GoType(role.Enum("role"))
func (b *enumBuilder) GoType(ev EnumValues) *enumBuilder {
	b.desc.goType(ev)
	b.Values(ev.Values()...)
	return b
}

// ValueScanner provides an external value-scanner for the field.
func (b *enumBuilder) ValueScanner(vs any) *enumBuilder {
	b.desc.ValueScanner = vs
	return b
}

// Annotations adds a list of annotations to the field object.
func (b *enumBuilder) Annotations(annotations ...schema.Annotation) *enumBuilder {
	b.desc.Annotations = append(b.desc.Annotations, annotations...)
	return b
}

// Deprecated marks the field as deprecated with an optional reason.
func (b *enumBuilder) Deprecated(reason ...string) *enumBuilder {
	b.desc.deprecate(reason)
	return b
}

// Descriptor implements the forma.Field interface by returning its descriptor.
func (b *enumBuilder) Descriptor() *Descriptor {
	b.desc.checkGoType(stringType)
	return b.desc
}

// uuidBuilder is the builder for uuid fields.
type uuidBuilder struct {
	desc *Descriptor
}

// Unique makes the field unique within all vertices of this type.
func (b *uuidBuilder) Unique() *uuidBuilder {
	b.desc.Unique = true
	return b
}

// Default sets the function that is applied to set default value
// of the field on creation. For example:
//
//	field.UUID("id", uuid.UUID{}).
//		Default(uuid.New)
func (b *uuidBuilder) Default(fn any) *uuidBuilder {
	typ := reflect.TypeOf(fn)
	if typ == nil || typ.Kind() != reflect.Func || typ.NumIn() != 0 || typ.NumOut() != 1 || typ.Out(0).String() != b.desc.Info.Ident {
		b.desc.Err = fmt.Errorf("expect type (func() %s) for uuid default value", b.desc.Info.Ident)
		return b
	}
	b.desc.Default = fn
	return b
}

// Fill sets the backfill strategy used when the field is added as
// NOT NULL to a populated table.
func (b *uuidBuilder) Fill(f Fill) *uuidBuilder {
	b.desc.Fill = &f
	return b
}

// UpdateDefault sets the function that is applied to set default value
// of the field on update.
func (b *uuidBuilder) UpdateDefault(fn any) *uuidBuilder {
	typ := reflect.TypeOf(fn)
	if typ == nil || typ.Kind() != reflect.Func || typ.NumIn() != 0 || typ.NumOut() != 1 || typ.Out(0).String() != b.desc.Info.Ident {
		b.desc.Err = fmt.Errorf("expect type (func() %s) for uuid update default value", b.desc.Info.Ident)
		return b
	}
	b.desc.UpdateDefault = fn
	return b
}

// Nillable indicates that this field is a nillable.
// Unlike "Optional" only fields, "Nillable" fields may hold NULL, which reads report as nil.
func (b *uuidBuilder) Nillable() *uuidBuilder {
	b.desc.Nillable = true
	return b
}

// Optional indicates that this field is optional on create.
// Unlike edges, fields are required by default.
func (b *uuidBuilder) Optional() *uuidBuilder {
	b.desc.Optional = true
	return b
}

// Immutable indicates that this field cannot be updated.
func (b *uuidBuilder) Immutable() *uuidBuilder {
	b.desc.Immutable = true
	return b
}

// Identity marks the field as the identity (primary key) of its entity.
// Fields named "id" are the identity by convention and do not need it.
func (b *uuidBuilder) Identity() *uuidBuilder {
	b.desc.Identity = true
	return b
}

// Comment sets the comment of the field.
func (b *uuidBuilder) Comment(c string) *uuidBuilder {
	b.desc.Comment = c
	return b
}

// StructTag sets the struct tag of the field.
func (b *uuidBuilder) StructTag(s string) *uuidBuilder {
	b.desc.Tag = s
	return b
}

// StorageKey sets the storage key of the field.
// In SQL dialects is the column name.
func (b *uuidBuilder) StorageKey(key string) *uuidBuilder {
	b.desc.StorageKey = key
	return b
}

// SchemaType overrides the default database type with a custom
// schema type (per dialect) for uuid.
//
//	field.UUID("id", uuid.UUID{}).
//		SchemaType(map[string]string{
//			dialect.Postgres: "uuid",
//		})
func (b *uuidBuilder) SchemaType(types map[string]string) *uuidBuilder {
	b.desc.SchemaType = types
	return b
}

// Annotations adds a list of annotations to the field object.
func (b *uuidBuilder) Annotations(annotations ...schema.Annotation) *uuidBuilder {
	b.desc.Annotations = append(b.desc.Annotations, annotations...)
	return b
}

// Deprecated marks the field as deprecated with an optional reason.
func (b *uuidBuilder) Deprecated(reason ...string) *uuidBuilder {
	b.desc.deprecate(reason)
	return b
}

// Descriptor implements the forma.Field interface by returning its descriptor.
func (b *uuidBuilder) Descriptor() *Descriptor {
	return b.desc
}

// otherBuilder is the builder for other fields.
type otherBuilder struct {
	desc *Descriptor
}

// Unique makes the field unique within all vertices of this type.
func (b *otherBuilder) Unique() *otherBuilder {
	b.desc.Unique = true
	return b
}

// Sensitive fields not printable and not serializable.
func (b *otherBuilder) Sensitive() *otherBuilder {
	b.desc.Sensitive = true
	return b
}

// Default sets the default value of the field. It can be a literal
// of the declared Go type, or a function that returns one.
func (b *otherBuilder) Default(v any) *otherBuilder {
	b.desc.Default = v
	return b
}

// Nillable indicates that this field is a nillable.
// Unlike "Optional" only fields, "Nillable" fields may hold NULL, which reads report as nil.
func (b *otherBuilder) Nillable() *otherBuilder {
	b.desc.Nillable = true
	return b
}

// Optional indicates that this field is optional on create.
// Unlike edges, fields are required by default.
func (b *otherBuilder) Optional() *otherBuilder {
	b.desc.Optional = true
	return b
}

// Immutable indicates that this field cannot be updated.
func (b *otherBuilder) Immutable() *otherBuilder {
	b.desc.Immutable = true
	return b
}

// Comment sets the comment of the field.
func (b *otherBuilder) Comment(c string) *otherBuilder {
	b.desc.Comment = c
	return b
}

// StructTag sets the struct tag of the field.
func (b *otherBuilder) StructTag(s string) *otherBuilder {
	b.desc.Tag = s
	return b
}

// StorageKey sets the storage key of the field.
// In SQL dialects is the column name.
func (b *otherBuilder) StorageKey(key string) *otherBuilder {
	b.desc.StorageKey = key
	return b
}

// SchemaType overrides the default database type with a custom
// schema type (per dialect). This option is mandatory for Other
// fields because their database type cannot be inferred.
func (b *otherBuilder) SchemaType(types map[string]string) *otherBuilder {
	b.desc.SchemaType = types
	return b
}

// Annotations adds a list of annotations to the field object.
func (b *otherBuilder) Annotations(annotations ...schema.Annotation) *otherBuilder {
	b.desc.Annotations = append(b.desc.Annotations, annotations...)
	return b
}

// Deprecated marks the field as deprecated with an optional reason.
func (b *otherBuilder) Deprecated(reason ...string) *otherBuilder {
	b.desc.deprecate(reason)
	return b
}

// Descriptor implements the forma.Field interface by returning its descriptor.
func (b *otherBuilder) Descriptor() *Descriptor {
	if b.desc.Err == nil && len(b.desc.SchemaType) == 0 {
		b.desc.Err = fmt.Errorf("missing SchemaType option for field %q", b.desc.Name)
	}
	if rt := b.desc.Info.RType; rt != nil {
		b.desc.checkDefaultFunc(rt.rtype)
	}
	return b.desc
}

// decimalBuilder is the builder for fixed-point decimal fields.
type decimalBuilder struct {
	desc *Descriptor
}

// Precision sets the total number of digits and the number of digits
// after the decimal point. Without it, the column falls back to the
// dialect's widest decimal type.
func (b *decimalBuilder) Precision(precision, scale int) *decimalBuilder {
	b.desc.SchemaType = map[string]string{
		"mysql":    fmt.Sprintf("decimal(%d,%d)", precision, scale),
		"postgres": fmt.Sprintf("numeric(%d,%d)", precision, scale),
		"sqlite":   fmt.Sprintf("decimal(%d,%d)", precision, scale),
	}
	return b
}

// Unique makes the field unique within all vertices of this type.
func (b *decimalBuilder) Unique() *decimalBuilder {
	b.desc.Unique = true
	return b
}

// Default sets the default value of the field, as a decimal string.
func (b *decimalBuilder) Default(s string) *decimalBuilder {
	b.desc.Default = s
	return b
}

// Fill sets the backfill strategy used when the field is added as
// NOT NULL to a populated table.
func (b *decimalBuilder) Fill(f Fill) *decimalBuilder {
	b.desc.Fill = &f
	return b
}

// Nillable indicates that this field is a nillable.
func (b *decimalBuilder) Nillable() *decimalBuilder {
	b.desc.Nillable = true
	return b
}

// Optional indicates that this field is optional on create.
func (b *decimalBuilder) Optional() *decimalBuilder {
	b.desc.Optional = true
	return b
}

// Immutable indicates that this field cannot be updated.
func (b *decimalBuilder) Immutable() *decimalBuilder {
	b.desc.Immutable = true
	return b
}

// Comment sets the comment of the field.
func (b *decimalBuilder) Comment(c string) *decimalBuilder {
	b.desc.Comment = c
	return b
}

// StorageKey sets the storage key of the field.
// In SQL dialects is the column name.
func (b *decimalBuilder) StorageKey(key string) *decimalBuilder {
	b.desc.StorageKey = key
	return b
}

// Validate adds a validator for this field, applied to the decimal's
// string form.
func (b *decimalBuilder) Validate(fn func(string) error) *decimalBuilder {
	b.desc.Validators = append(b.desc.Validators, fn)
	return b
}

// Annotations adds a list of annotations to the field object.
func (b *decimalBuilder) Annotations(annotations ...schema.Annotation) *decimalBuilder {
	b.desc.Annotations = append(b.desc.Annotations, annotations...)
	return b
}

// Descriptor implements the forma.Field interface by returning its descriptor.
func (b *decimalBuilder) Descriptor() *Descriptor {
	return b.desc
}

// refBuilder is the builder for identity-reference fields.
type refBuilder struct {
	desc *Descriptor
}

// Unique makes the field unique within all vertices of this type.
func (b *refBuilder) Unique() *refBuilder {
	b.desc.Unique = true
	return b
}

// Default sets a static identity of the referenced entity as the
// default value of the field.
func (b *refBuilder) Default(v any) *refBuilder {
	b.desc.Default = v
	return b
}

// Fill sets the backfill strategy used when the field is added as
// NOT NULL to a populated table. Ref fields accept a RefValue
// pointing at an existing row, or a RefExpr computing the reference
// per row:
//
//	field.Ref("team_id", "team").
//		Fill(field.Fill{RefExpr: "SELECT id FROM teams WHERE teams.region = region"})
func (b *refBuilder) Fill(f Fill) *refBuilder {
	b.desc.Fill = &f
	return b
}

// Nillable indicates that this field is a nillable.
func (b *refBuilder) Nillable() *refBuilder {
	b.desc.Nillable = true
	return b
}

// Optional indicates that this field is optional on create.
func (b *refBuilder) Optional() *refBuilder {
	b.desc.Optional = true
	return b
}

// Immutable indicates that this field cannot be updated.
func (b *refBuilder) Immutable() *refBuilder {
	b.desc.Immutable = true
	return b
}

// Comment sets the comment of the field.
func (b *refBuilder) Comment(c string) *refBuilder {
	b.desc.Comment = c
	return b
}

// StorageKey sets the storage key of the field.
// In SQL dialects is the column name.
func (b *refBuilder) StorageKey(key string) *refBuilder {
	b.desc.StorageKey = key
	return b
}

// Annotations adds a list of annotations to the field object.
func (b *refBuilder) Annotations(annotations ...schema.Annotation) *refBuilder {
	b.desc.Annotations = append(b.desc.Annotations, annotations...)
	return b
}

// Descriptor implements the forma.Field interface by returning its descriptor.
func (b *refBuilder) Descriptor() *Descriptor {
	return b.desc
}

// A Descriptor for field configuration.
type Descriptor struct {
	Tag              string                  // struct tag.
	Size             int                     // varchar size.
	Name             string                  // field name.
	Info             *TypeInfo               // field type info.
	ValueScanner     any                     // custom field codec.
	Unique           bool                    // unique index of field.
	Nillable         bool                    // nillable struct field.
	Optional         bool                    // nullable field in database.
	Immutable        bool                    // create only field.
	Identity         bool                    // identity (primary key) field.
	Auto             bool                    // engine-managed value.
	Ref              string                  // referenced entity of a ref field.
	Default          any                     // default value on create.
	UpdateDefault    any                     // default value on update.
	Validators       []any                   // validator functions.
	Checks           []Check                 // structured validator constraints.
	Fill             *Fill                   // backfill for existing rows.
	StorageKey       string                  // sql column name.
	Enums            []struct{ N, V string } // enum values.
	Sensitive        bool                    // sensitive info string field.
	SchemaType       map[string]string       // override the schema type.
	Annotations      []schema.Annotation     // field annotations.
	Comment          string                  // field comment.
	Deprecated       bool                    // field deprecation flag.
	DeprecatedReason string                  // reason for the deprecation.
	CreateRules      string                  // validation rules applied on create.
	UpdateRules      string                  // validation rules applied on update.
	Err              error
}

// CheckOp identifies the constraint class of a structured Check.
type CheckOp string

// Structured check operations.
const (
	CheckMin    CheckOp = "min"     // value >= bound
	CheckMax    CheckOp = "max"     // value <= bound
	CheckMinLen CheckOp = "min_len" // len(value) >= bound
	CheckMaxLen CheckOp = "max_len" // len(value) <= bound
	CheckMatch  CheckOp = "match"   // value matches pattern
)

// A Check is a structured constraint recorded alongside a validator
// function. Unlike the closure validators, checks can be evaluated
// against candidate values outside a mutation, e.g. when the migration
// engine vets a backfill default.
type Check struct {
	Op    CheckOp
	Value any
}

// Generator names accepted by Fill.Fn.
const (
	CurrentTimestamp = "current_timestamp"
	RandomUUID       = "random_uuid"
	ULID             = "ulid"
)

// A Fill describes how existing rows receive their value when the
// field is later added as NOT NULL to a populated table. Exactly one
// strategy must be set; the migration planner rejects ambiguous or
// empty fills.
type Fill struct {
	// Value writes one static literal to every row.
	Value any
	// Fn names a generator: CurrentTimestamp, RandomUUID or ULID.
	// Dialects without a native form fall back to engine-generated
	// values written in batches.
	Fn string
	// Expr computes the value from columns of the same row.
	Expr string
	// Cases hold ordered condition/value pairs evaluated per row,
	// first match wins. A case with an empty condition is the
	// fallback.
	Cases []FillCase
	// Sequence backs the values with the named monotonic counter.
	Sequence string
	// RefValue points every row at one existing row of the
	// referenced entity. Only valid on Ref fields.
	RefValue any
	// RefExpr computes the referenced identity per row with a
	// correlated lookup. Only valid on Ref fields.
	RefExpr string
}

// A FillCase is one conditional branch of a Fill.
type FillCase struct {
	// When is a SQL condition over columns of the row. Empty marks
	// the fallback branch.
	When string
	// Then is the value written when the condition holds.
	Then any
}

var (
	boolType   = reflect.TypeOf(false)
	timeType   = reflect.TypeOf(time.Time{})
	bytesType  = reflect.TypeOf([]byte(nil))
	stringType = reflect.TypeOf("")
)

// goType overrides the type information of the descriptor
// with the reflection of the given Go value.
func (d *Descriptor) goType(typ any) {
	t := reflect.TypeOf(typ)
	if t == nil {
		d.Err = errors.New("expect a Go value as type but got nil")
		return
	}
	tv := indirect(t)
	info := &TypeInfo{
		Type:    d.Info.Type,
		Ident:   t.String(),
		PkgPath: tv.PkgPath(),
		PkgName: pkgName(tv.PkgPath()),
		RType:   rtype(t),
	}
	switch t.Kind() {
	case reflect.Slice, reflect.Ptr, reflect.Map:
		info.Nillable = true
	}
	d.Info = info
}

// checkGoType ensures the custom Go type is compatible with the
// expected type of the field. Types that implement the ValueScanner
// interface, or fields configured with an external ValueScanner, are
// free to use any Go representation.
func (d *Descriptor) checkGoType(expectType reflect.Type) {
	if d.Err != nil || d.Info.RType == nil {
		return
	}
	t := d.Info.RType.rtype
	switch pt := reflect.PointerTo(t); {
	case pt.Implements(valueScannerType), t.Implements(valueScannerType), d.ValueScanner != nil:
	case t.Kind() != expectType.Kind(), t.Kind() == reflect.Struct && !t.ConvertibleTo(expectType):
		d.Err = fmt.Errorf("GoType must be a %q type, ValueScanner or provide an external ValueScanner", expectType)
	}
}

// checkDefaultFunc ensures the default functions return a value
// that is assignable to the field type.
func (d *Descriptor) checkDefaultFunc(expectType reflect.Type) {
	expr := expectType
	if d.Info.RType != nil {
		expr = d.Info.RType.rtype
	}
	for _, fn := range []any{d.Default, d.UpdateDefault} {
		if fn == nil || d.Err != nil {
			continue
		}
		typ := reflect.TypeOf(fn)
		if typ.Kind() != reflect.Func {
			continue
		}
		if typ.NumIn() != 0 || typ.NumOut() != 1 || !typ.Out(0).AssignableTo(expr) {
			d.Err = fmt.Errorf("expect type (func() %s) for default value", expr)
		}
	}
}

func (d *Descriptor) deprecate(reason []string) {
	d.Deprecated = true
	if len(reason) > 0 {
		d.DeprecatedReason = reason[0]
	}
}

// pkgPath returns the package path of the given reflect.Type,
// unwrapping composite types to their element type.
func pkgPath(t reflect.Type) string {
	pkg := t.PkgPath()
	if pkg != "" {
		return pkg
	}
	switch t.Kind() {
	case reflect.Slice, reflect.Array, reflect.Ptr, reflect.Map:
		return pkgPath(t.Elem())
	}
	return pkg
}

// pkgName returns the local package name of an import path.
func pkgName(path string) string {
	if i := strings.LastIndexByte(path, '/'); i != -1 {
		return path[i+1:]
	}
	return path
}

type (
	// TypeValueScanner provides an API for converting a custom Go type
	// to and from a database value. I.e., it allows fields to represent
	// their values differently in the database and in the Go code.
	TypeValueScanner[T any] interface {
		// Value returns the driver.Value of the Go type.
		Value(T) (driver.Value, error)
		// ScanValue returns a new ValueScanner that functions as an
		// intermediate result between database value and Go value.
		// For example, sql.NullString or sql.NullInt.
		ScanValue() ValueScanner
		// FromValue returns the field instance from the ScanValue
		// above after the database returned.
		FromValue(driver.Value) (T, error)
	}

	// ValueScannerFunc implements the TypeValueScanner with functions.
	ValueScannerFunc[T any, S ValueScanner] struct {
		V func(T) (driver.Value, error)
		S func(S) (T, error)
	}
)

// Value implements the TypeValueScanner.Value method.
func (f ValueScannerFunc[T, S]) Value(t T) (driver.Value, error) {
	return f.V(t)
}

// ScanValue implements the TypeValueScanner.ScanValue method.
func (f ValueScannerFunc[T, S]) ScanValue() ValueScanner {
	t := reflect.TypeOf(f.S).In(0)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return reflect.New(t).Interface().(ValueScanner)
}

// FromValue implements the TypeValueScanner.FromValue method.
func (f ValueScannerFunc[T, S]) FromValue(v driver.Value) (t T, err error) {
	s, ok := v.(S)
	if !ok {
		return t, fmt.Errorf("unexpected input for FromValue: %T", v)
	}
	return f.S(s)
}

// TextValueScanner is a pre-defined TypeValueScanner for types that
// implement the encoding.TextMarshaler and encoding.TextUnmarshaler
// interfaces. Values are stored in the database as strings.
type TextValueScanner[T interface {
	encoding.TextMarshaler
	encoding.TextUnmarshaler
}] struct{}

// Value implements the TypeValueScanner.Value method.
func (TextValueScanner[T]) Value(t T) (driver.Value, error) {
	return t.MarshalText()
}

// ScanValue implements the TypeValueScanner.ScanValue method.
func (TextValueScanner[T]) ScanValue() ValueScanner {
	return &sql.NullString{}
}

// FromValue implements the TypeValueScanner.FromValue method.
func (TextValueScanner[T]) FromValue(v driver.Value) (t T, err error) {
	s, ok := v.(*sql.NullString)
	if !ok {
		return t, fmt.Errorf("unexpected input for FromValue: %T", v)
	}
	if rv := reflect.ValueOf(&t).Elem(); rv.Kind() == reflect.Ptr && rv.IsNil() {
		rv.Set(reflect.New(rv.Type().Elem()))
	}
	if !s.Valid {
		return t, nil
	}
	return t, t.UnmarshalText([]byte(s.String))
}

// BinaryValueScanner is a pre-defined TypeValueScanner for types that
// implement the encoding.BinaryMarshaler and encoding.BinaryUnmarshaler
// interfaces.
type BinaryValueScanner[T interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
}] struct{}

// Value implements the TypeValueScanner.Value method.
func (BinaryValueScanner[T]) Value(t T) (driver.Value, error) {
	return t.MarshalBinary()
}

// ScanValue implements the TypeValueScanner.ScanValue method.
func (BinaryValueScanner[T]) ScanValue() ValueScanner {
	return &sql.NullString{}
}

// FromValue implements the TypeValueScanner.FromValue method.
func (BinaryValueScanner[T]) FromValue(v driver.Value) (t T, err error) {
	s, ok := v.(*sql.NullString)
	if !ok {
		return t, fmt.Errorf("unexpected input for FromValue: %T", v)
	}
	if rv := reflect.ValueOf(&t).Elem(); rv.Kind() == reflect.Ptr && rv.IsNil() {
		rv.Set(reflect.New(rv.Type().Elem()))
	}
	if !s.Valid {
		return t, nil
	}
	return t, t.UnmarshalBinary([]byte(s.String))
}
