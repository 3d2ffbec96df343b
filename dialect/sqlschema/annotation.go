// Package sqlschema declares the SQL-level annotations understood by
// the migration engine.
//
// Annotations attach to entity definitions, fields and indexes:
//
//	sqlschema.Table("accounts")
//	field.String("code").Annotations(sqlschema.Size(10))
//	field.Ref("author", "user").Annotations(sqlschema.OnDelete(sqlschema.Cascade))
//	index.Fields("tags").Annotations(sqlschema.IndexType("GIN"))
//
// Settings with a constructor can also be written as struct literals,
// which is the form for the ones that have none:
//
//	sqlschema.Annotation{Options: "ENGINE=InnoDB", IncrementStart: &start}
//
// Cascade actions for OnDelete and OnUpdate are Cascade, SetNull,
// Restrict, SetDefault and NoAction.
package sqlschema

import (
	"github.com/formadb/forma/dialect/sql"
	"github.com/formadb/forma/schema"
)

// AnnotationName is the name under which SQL annotations register.
const AnnotationName = "sql"

// CascadeAction is a referential action for foreign key constraints.
type CascadeAction string

const (
	Cascade    CascadeAction = "CASCADE"
	SetNull    CascadeAction = "SET NULL"
	Restrict   CascadeAction = "RESTRICT"
	SetDefault CascadeAction = "SET DEFAULT"
	NoAction   CascadeAction = "NO ACTION"
)

// Annotation holds the SQL settings of an entity, a field or an edge.
// The zero value carries nothing; Merge folds several into one.
type Annotation struct {
	// Table overrides the table name derived from the entity name.
	Table string

	// Schema places the table in the named database schema.
	Schema string

	// Options appends raw table options to CREATE TABLE. MySQL only.
	Options string

	// ViewAs is the defining query of a view entity.
	ViewAs string

	// ViewFor holds dialect-specific defining queries, keyed by
	// dialect name. An entry here wins over ViewAs.
	ViewFor map[string]string

	// Size overrides the column size, as in VARCHAR(Size).
	Size int64

	// ColumnType sets the column type verbatim for all dialects.
	ColumnType string

	// Collation sets the collation for string columns.
	Collation string

	// Charset sets the character set. MySQL only.
	Charset string

	// OnDelete sets the referential action taken when referenced rows
	// are deleted. Applies to reference fields.
	OnDelete CascadeAction

	// OnUpdate sets the referential action taken when referenced keys
	// change. Applies to reference fields.
	OnUpdate CascadeAction

	// Check adds an unnamed CHECK constraint expression.
	Check string

	// Checks holds named CHECK constraints, keyed by constraint name.
	Checks map[string]string

	// Default is a SQL literal used as the column default.
	Default string

	// DefaultExpr is a SQL expression used as the column default.
	DefaultExpr string

	// DefaultExprs holds per-column default expressions on a table
	// annotation, keyed by column name.
	DefaultExprs map[string]string

	// WithComments controls whether the comment is stored in the
	// database. Comments are stored unless set to false.
	WithComments *bool

	// Primary marks the field as the identity column of its entity.
	// Fields named "id" are the identity by convention; Primary makes
	// a differently named field the identity.
	Primary bool

	// Incremental overrides auto-increment behavior for the column.
	Incremental *bool

	// IncrementStart sets the auto-increment start value.
	IncrementStart *int

	// IndexType sets the index access method when the annotation is
	// attached to an index. Folded into IndexAnnotation.
	IndexType string
}

// IndexAnnotation holds the SQL settings of an index.
type IndexAnnotation struct {
	// Type sets the index access method, such as BTREE, HASH or GIN.
	Type string

	// Types holds dialect-specific access methods, keyed by dialect.
	Types map[string]string

	// Where makes the index partial with the given predicate.
	Where string

	// Desc indexes all columns in descending order.
	Desc bool

	// DescColumns sets the order per column, keyed by column name.
	DescColumns map[string]bool

	// OpClass sets the operator class of all columns. Postgres only.
	OpClass string

	// OpClassColumns sets the operator class per column. Postgres only.
	OpClassColumns map[string]string

	// Prefix indexes the first Prefix bytes of all columns. MySQL only.
	Prefix uint

	// PrefixColumns sets the prefix length per column. MySQL only.
	PrefixColumns map[string]uint

	// IncludeColumns lists non-key columns covered by the index.
	IncludeColumns []string
}

// Name implements schema.Annotation.
func (Annotation) Name() string {
	return AnnotationName
}

// Name implements schema.Annotation.
func (IndexAnnotation) Name() string {
	return AnnotationName
}

var (
	_ schema.Annotation = (*Annotation)(nil)
	_ schema.Annotation = (*IndexAnnotation)(nil)
)

// Table sets the table name of an entity.
//
//	func (User) Annotations() []schema.Annotation {
//	    return []schema.Annotation{
//	        sqlschema.Table("accounts"),
//	    }
//	}
func Table(name string) Annotation {
	return Annotation{Table: name}
}

// Schema places the entity's table in the named database schema.
func Schema(schemaName string) Annotation {
	return Annotation{Schema: schemaName}
}

// Size sets the column size override.
//
//	field.String("code").Annotations(sqlschema.Size(10))
func Size(size int64) Annotation {
	return Annotation{Size: size}
}

// ColumnType sets the column type verbatim.
//
//	field.JSON("payload", Payload{}).Annotations(sqlschema.ColumnType("JSONB"))
func ColumnType(typ string) Annotation {
	return Annotation{ColumnType: typ}
}

// Collation sets the collation for a string column.
func Collation(c string) Annotation {
	return Annotation{Collation: c}
}

// Charset sets the character set for a string column.
func Charset(charset string) Annotation {
	return Annotation{Charset: charset}
}

// Check adds an unnamed CHECK constraint to the column.
//
//	field.Int("age").Annotations(sqlschema.Check("age >= 0"))
func Check(expr string) Annotation {
	return Annotation{Check: expr}
}

// Default sets a SQL literal as the column default in the database.
// The value appears verbatim in the DEFAULT clause, so string literals
// need their own quotes.
//
//	field.String("status").Annotations(sqlschema.Default("'pending'"))
func Default(value string) Annotation {
	return Annotation{Default: value}
}

// DefaultExpr sets a SQL expression as the column default in the
// database.
//
//	field.UUID("id", uuid.UUID{}).Annotations(sqlschema.DefaultExpr("gen_random_uuid()"))
func DefaultExpr(expr string) Annotation {
	return Annotation{DefaultExpr: expr}
}

// WithComments controls whether the comment of a field is stored in
// the database. Comments are stored by default.
//
//	field.String("internal_note").
//	    Comment("not stored").
//	    Annotations(sqlschema.WithComments(false))
func WithComments(enable bool) Annotation {
	return Annotation{WithComments: &enable}
}

// OnDelete sets the ON DELETE action of a reference field's foreign key.
//
//	field.Ref("author", "user").Annotations(sqlschema.OnDelete(sqlschema.Cascade))
func OnDelete(action CascadeAction) Annotation {
	return Annotation{OnDelete: action}
}

// OnUpdate sets the ON UPDATE action of a reference field's foreign key.
func OnUpdate(action CascadeAction) Annotation {
	return Annotation{OnUpdate: action}
}

// Primary marks a field as the identity column of its entity. Fields
// named "id" do not need it.
//
//	field.String("sku").Annotations(sqlschema.Primary())
func Primary() Annotation {
	return Annotation{Primary: true}
}

// IndexType sets the index access method.
//
//	index.Fields("tags").Annotations(sqlschema.IndexType("GIN"))
func IndexType(typ string) Annotation {
	return Annotation{IndexType: typ}
}

// Desc indexes the columns in descending order.
//
//	index.Fields("created_at").Annotations(sqlschema.Desc())
func Desc() *IndexAnnotation {
	return &IndexAnnotation{Desc: true}
}

// View sets the defining query of a view entity.
//
//	func (PetNames) Annotations() []schema.Annotation {
//	    return []schema.Annotation{
//	        sqlschema.View("SELECT name FROM pets"),
//	    }
//	}
func View(query string) *Annotation {
	return &Annotation{ViewAs: query}
}

// ViewFor sets the defining query of a view entity for one dialect.
// The builder runs with that dialect's quoting and placeholders.
//
//	sqlschema.ViewFor(dialect.Postgres, func(s *sql.Selector) {
//	    s.Select("name").From(sql.Table("pets"))
//	})
func ViewFor(d string, fn func(*sql.Selector)) *Annotation {
	s := sql.Dialect(d).Select()
	fn(s)
	query, _ := s.Query()
	return &Annotation{
		ViewFor: map[string]string{
			d: query,
		},
	}
}

// GetSize returns the size override and whether it was set.
func (a Annotation) GetSize() (int64, bool) {
	return a.Size, a.Size != 0
}

// GetOnDelete returns the ON DELETE action and whether it was set.
func (a Annotation) GetOnDelete() (CascadeAction, bool) {
	return a.OnDelete, a.OnDelete != ""
}

// GetOnUpdate returns the ON UPDATE action and whether it was set.
func (a Annotation) GetOnUpdate() (CascadeAction, bool) {
	return a.OnUpdate, a.OnUpdate != ""
}

// GetWithComments returns whether comments are stored and whether the
// setting was made explicit.
func (a Annotation) GetWithComments() (bool, bool) {
	if a.WithComments == nil {
		return true, false
	}
	return *a.WithComments, true
}

// GetColumnType returns the column type override.
func (a Annotation) GetColumnType() string {
	return a.ColumnType
}

// GetCollation returns the collation setting.
func (a Annotation) GetCollation() string {
	return a.Collation
}

// GetCheck returns the unnamed CHECK constraint expression.
func (a Annotation) GetCheck() string {
	return a.Check
}

// GetDefault returns the SQL default literal and whether it was set.
func (a Annotation) GetDefault() (string, bool) {
	return a.Default, a.Default != ""
}

// GetDefaultExpr returns the SQL default expression and whether it was set.
func (a Annotation) GetDefaultExpr() (string, bool) {
	return a.DefaultExpr, a.DefaultExpr != ""
}

// GetIncremental returns the auto-increment override and whether it was set.
func (a Annotation) GetIncremental() (bool, bool) {
	if a.Incremental == nil {
		return false, false
	}
	return *a.Incremental, true
}

// GetPrimary returns whether the field is marked as the identity column.
func (a Annotation) GetPrimary() bool {
	return a.Primary
}

// Merge folds the annotations into one. Scalar settings from later
// annotations override earlier ones; map settings are unioned, with
// later entries winning on key collisions.
func Merge(annotations ...Annotation) Annotation {
	result := Annotation{}
	for _, a := range annotations {
		if a.Table != "" {
			result.Table = a.Table
		}
		if a.Schema != "" {
			result.Schema = a.Schema
		}
		if a.Options != "" {
			result.Options = a.Options
		}
		if a.ViewAs != "" {
			result.ViewAs = a.ViewAs
		}
		for d, q := range a.ViewFor {
			if result.ViewFor == nil {
				result.ViewFor = make(map[string]string)
			}
			result.ViewFor[d] = q
		}
		if a.Size != 0 {
			result.Size = a.Size
		}
		if a.ColumnType != "" {
			result.ColumnType = a.ColumnType
		}
		if a.Collation != "" {
			result.Collation = a.Collation
		}
		if a.Charset != "" {
			result.Charset = a.Charset
		}
		if a.OnDelete != "" {
			result.OnDelete = a.OnDelete
		}
		if a.OnUpdate != "" {
			result.OnUpdate = a.OnUpdate
		}
		if a.Check != "" {
			result.Check = a.Check
		}
		for name, expr := range a.Checks {
			if result.Checks == nil {
				result.Checks = make(map[string]string)
			}
			result.Checks[name] = expr
		}
		if a.Default != "" {
			result.Default = a.Default
		}
		if a.DefaultExpr != "" {
			result.DefaultExpr = a.DefaultExpr
		}
		for column, expr := range a.DefaultExprs {
			if result.DefaultExprs == nil {
				result.DefaultExprs = make(map[string]string)
			}
			result.DefaultExprs[column] = expr
		}
		if a.WithComments != nil {
			result.WithComments = a.WithComments
		}
		if a.Primary {
			result.Primary = a.Primary
		}
		if a.Incremental != nil {
			result.Incremental = a.Incremental
		}
		if a.IncrementStart != nil {
			result.IncrementStart = a.IncrementStart
		}
		if a.IndexType != "" {
			result.IndexType = a.IndexType
		}
	}
	return result
}
