package schema

import (
	"crypto/md5"
	"database/sql"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/formadb/forma/dialect/sqlschema"
	"github.com/formadb/forma/schema/field"
)

const (
	// TypeTable holds the table name of the type registry that backs
	// universal identifier allocation.
	TypeTable = "forma_types"
	// MaxTypes is the maximum number of identifier ranges that can be
	// allocated from the type registry.
	MaxTypes = math.MaxUint16
	// Null is the string representation of a NULL default as reported
	// by database inspection.
	Null = "NULL"
	// PrimaryKey is the column key reported for primary key columns.
	PrimaryKey = "PRI"
	// UniqueKey is the column key reported for unique columns.
	UniqueKey = "UNI"
)

// Expr marks a column default as a raw SQL expression rather than a
// literal value. For example, Expr("CURRENT_TIMESTAMP").
type Expr string

// Table schema definition for SQL dialects.
type Table struct {
	Name        string
	Schema      string
	Comment     string
	Pos         string
	View        bool
	Columns     []*Column
	columns     map[string]*Column
	Indexes     []*Index
	PrimaryKey  []*Column
	ForeignKeys []*ForeignKey
	Annotation  *sqlschema.Annotation
}

// NewTable returns a new table with the given name.
func NewTable(name string) *Table {
	return &Table{
		Name:    name,
		columns: make(map[string]*Column),
	}
}

// NewView returns a new view with the given name.
func NewView(name string) *Table {
	t := NewTable(name)
	t.View = true
	return t
}

// SetComment sets the table comment.
func (t *Table) SetComment(c string) *Table {
	t.Comment = c
	return t
}

// SetSchema sets the database (named-schema) this table belongs to.
func (t *Table) SetSchema(s string) *Table {
	t.Schema = s
	return t
}

// SetPos sets the source position the table was defined at.
func (t *Table) SetPos(p string) *Table {
	t.Pos = p
	return t
}

// SetAnnotation sets the table annotation.
func (t *Table) SetAnnotation(ant *sqlschema.Annotation) *Table {
	t.Annotation = ant
	return t
}

// AddPrimary adds a new primary key to the table.
func (t *Table) AddPrimary(c *Column) *Table {
	c.Key = PrimaryKey
	t.AddColumn(c)
	t.PrimaryKey = append(t.PrimaryKey, c)
	return t
}

// AddForeignKey adds a foreign key to the table.
func (t *Table) AddForeignKey(fk *ForeignKey) *Table {
	t.ForeignKeys = append(t.ForeignKeys, fk)
	return t
}

// AddColumn adds a new column to the table.
func (t *Table) AddColumn(c *Column) *Table {
	t.columns[c.Name] = c
	t.Columns = append(t.Columns, c)
	return t
}

// HasColumn reports if the table contains a column with the given name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.Column(name)
	return ok
}

// Column returns the column with the given name, if it exists.
func (t *Table) Column(name string) (*Column, bool) {
	if c, ok := t.columns[name]; ok {
		return c, true
	}
	// Columns that were appended directly to the slice
	// without going through AddColumn.
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// AddIndex creates and adds a new index to the table from the given
// column names.
func (t *Table) AddIndex(name string, unique bool, columns []string) *Table {
	idx := &Index{
		Name:    name,
		Unique:  unique,
		Columns: make([]*Column, 0, len(columns)),
	}
	for _, name := range columns {
		if c, ok := t.Column(name); ok {
			idx.Columns = append(idx.Columns, c)
		}
	}
	t.Indexes = append(t.Indexes, idx)
	return t
}

// Index returns the index with the given name, if it exists.
func (t *Table) Index(name string) (*Index, bool) {
	for _, idx := range t.Indexes {
		if idx.Name == name {
			return idx, true
		}
	}
	return nil, false
}

// Column schema definition for SQL dialects.
type Column struct {
	Name       string            // column name.
	Type       field.Type        // column type.
	SchemaType map[string]string // optional per-dialect type override.
	Attr       string            // extra attributes.
	Size       int64             // max size parameter for string, blob, etc.
	Key        string            // key definition (PRI or UNI).
	Enums      []string          // enum values.
	Unique     bool              // unique index of column.
	Increment  bool              // auto increment attribute.
	Nullable   bool              // null or not null attribute.
	Default    any               // default value.
	Fill       *Backfill         // backfill for existing rows when added as NOT NULL.
	Checks     []field.Check     // structured constraints vetted before a backfill.
	Comment    string            // column comment.
	Collation  string            // collation type (utf8mb4_unicode_ci, utf8mb4_general_ci).
	typ        string            // row column type (used for Rows.Scan).
}

// UniqueKey returns boolean if the column is a unique key.
// Used by the migration tool when parsing the `DESCRIBE TABLE` output Go objects.
func (c *Column) UniqueKey() bool { return c.Key == UniqueKey }

// PrimaryKey returns boolean if the column is on of the primary keys.
func (c *Column) PrimaryKey() bool { return c.Key == PrimaryKey }

// IntType reports whether the column is an int type.
func (c Column) IntType() bool {
	return c.Type >= field.TypeInt8 && c.Type <= field.TypeInt64
}

// UintType reports whether the column is an uint type.
func (c Column) UintType() bool {
	return c.Type >= field.TypeUint8 && c.Type <= field.TypeUint64
}

// FloatType reports whether the column is a float type.
func (c Column) FloatType() bool {
	return c.Type == field.TypeFloat32 || c.Type == field.TypeFloat64
}

// ScanDefault scans the default value string reported by the database
// into the column Default field.
func (c *Column) ScanDefault(value string) error {
	switch {
	case strings.ToUpper(value) == Null: // ignore.
	case c.IntType():
		v := &sql.NullInt64{}
		if err := v.Scan(value); err != nil {
			return fmt.Errorf("scanning int value for column %q: %w", c.Name, err)
		}
		c.Default = v.Int64
	case c.UintType():
		v := &sql.NullInt64{}
		if err := v.Scan(value); err != nil {
			return fmt.Errorf("scanning uint value for column %q: %w", c.Name, err)
		}
		c.Default = uint64(v.Int64)
	case c.FloatType():
		v := &sql.NullFloat64{}
		if err := v.Scan(value); err != nil {
			return fmt.Errorf("scanning float value for column %q: %w", c.Name, err)
		}
		c.Default = v.Float64
	case c.Type == field.TypeBool:
		v := &sql.NullBool{}
		if err := v.Scan(value); err != nil {
			return fmt.Errorf("scanning bool value for column %q: %w", c.Name, err)
		}
		c.Default = v.Bool
	case c.Type == field.TypeString || c.Type == field.TypeEnum || c.Type == field.TypeJSON:
		v := &sql.NullString{}
		if err := v.Scan(value); err != nil {
			return fmt.Errorf("scanning string value for column %q: %w", c.Name, err)
		}
		c.Default = v.String
	case c.Type == field.TypeBytes:
		c.Default = []byte(value)
	case c.Type == field.TypeUUID:
		// Skip function-generated defaults and keep literals only.
		if !strings.Contains(value, "(") {
			c.Default = value
		}
	default:
		return fmt.Errorf("unsupported default type: %v default to %q", c.Type, value)
	}
	return nil
}

// ConvertibleTo reports whether a column can be converted to the new
// column type without data loss.
func (c *Column) ConvertibleTo(d *Column) bool {
	switch {
	case c.Type == d.Type:
		if c.Size != 0 && d.Size != 0 {
			return c.Size <= d.Size
		}
		return true
	case c.IntType() && d.IntType(), c.UintType() && d.UintType():
		return c.Type <= d.Type
	case c.UintType() && d.IntType():
		// uintX can fit in intY if intY is wider.
		return c.Type-field.TypeUint8 < d.Type-field.TypeInt8
	case c.FloatType() && d.FloatType():
		return c.Type == field.TypeFloat32
	case c.Type == field.TypeString && d.Type == field.TypeEnum,
		c.Type == field.TypeEnum && d.Type == field.TypeString:
		return true
	}
	return c.Type.Numeric() && d.Type == field.TypeString
}

// supportDefault reports if the column type supports default values.
func (c Column) supportDefault() bool {
	switch t := c.Type; t {
	case field.TypeString, field.TypeEnum:
		return c.Size < 1<<16 // not a text type.
	case field.TypeBool, field.TypeTime, field.TypeUUID:
		return true
	default:
		return t.Numeric()
	}
}

// scanTypeOr returns the scanned row type of the column
// in lowercase, or the given default if it was not set.
func (c *Column) scanTypeOr(t string) string {
	if c.typ != "" {
		return strings.ToLower(c.typ)
	}
	return t
}

// Index definition for table index.
type Index struct {
	Name       string                     // index name.
	Unique     bool                       // uniqueness.
	Columns    []*Column                  // actual table columns.
	Annotation *sqlschema.IndexAnnotation // index annotation.
}

// ForeignKey definition for creation.
type ForeignKey struct {
	Symbol     string          // foreign-key name (generated if empty).
	Columns    []*Column       // table columns.
	RefTable   *Table          // referenced table.
	RefColumns []*Column       // referenced columns.
	OnUpdate   ReferenceOption // action on update.
	OnDelete   ReferenceOption // action on delete.
}

// ReferenceOption for constraint actions.
type ReferenceOption string

// Reference options.
const (
	NoAction   ReferenceOption = "NO ACTION"
	Restrict   ReferenceOption = "RESTRICT"
	Cascade    ReferenceOption = "CASCADE"
	SetNull    ReferenceOption = "SET NULL"
	SetDefault ReferenceOption = "SET DEFAULT"
)

// ConstName returns the Go-style constant name of a reference option.
func (r ReferenceOption) ConstName() string {
	parts := strings.Fields(strings.ToLower(string(r)))
	for i, p := range parts {
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, "")
}

// NewTypesTable returns the registry table that records one row per
// entity type for universal identifier allocation.
func NewTypesTable() *Table {
	return NewTable(TypeTable).
		AddPrimary(&Column{Name: "id", Type: field.TypeUint, Increment: true}).
		AddColumn(&Column{Name: "type", Type: field.TypeString, Unique: true})
}

// symbol long names are truncated to the identifier length
// limit shared by MySQL and Postgres.
func symbol(name string) string {
	if len(name) <= 64 {
		return name
	}
	return fmt.Sprintf("%s_%x", name[:31], md5.Sum([]byte(name)))
}

func indexOf(a []string, s string) int {
	return slices.Index(a, s)
}

// noResult is a sql.Result that reports no work.
type noResult struct{}

func (noResult) LastInsertId() (int64, error) { return 0, nil }
func (noResult) RowsAffected() (int64, error) { return 0, nil }

// noRows is a row set holding a single empty row. It is returned by
// dry-run executions in place of results the database never produced.
type noRows struct {
	cols []string
	done bool
}

func (r *noRows) Next() bool {
	if r.done {
		return false
	}
	r.done = true
	return true
}

func (r *noRows) NextResultSet() bool { return false }

func (r *noRows) Columns() ([]string, error) { return r.cols, nil }

func (r *noRows) ColumnTypes() ([]*sql.ColumnType, error) { return nil, nil }

func (r *noRows) Close() error { return nil }

func (r *noRows) Err() error { return nil }

func (r *noRows) Scan(...any) error { return nil }

var _ sql.Result = noResult{}
