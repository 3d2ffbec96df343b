package sql

import (
	"fmt"

	"github.com/formadb/forma/dialect"
)

// Wrapper wraps a given Querier with different format.
// Used to prefix/suffix other queries.
type Wrapper struct {
	format  string
	wrapped Querier
}

// Query returns query representation of a wrapped Querier.
func (w *Wrapper) Query() (string, []any) {
	query, args := w.wrapped.Query()
	return fmt.Sprintf(w.format, query), args
}

// SetDialect calls SetDialect on the wrapped query.
func (w *Wrapper) SetDialect(name string) {
	if s, ok := w.wrapped.(state); ok {
		s.SetDialect(name)
	}
}

// Dialect calls Dialect on the wrapped query.
func (w *Wrapper) Dialect() string {
	if s, ok := w.wrapped.(state); ok {
		return s.Dialect()
	}
	return ""
}

// Total returns the total number of arguments so far.
func (w *Wrapper) Total() int {
	if s, ok := w.wrapped.(state); ok {
		return s.Total()
	}
	return 0
}

// SetTotal sets the value of the total arguments.
// Used to pass this information between sub queries/expressions.
func (w *Wrapper) SetTotal(total int) {
	if s, ok := w.wrapped.(state); ok {
		s.SetTotal(total)
	}
}

// ColumnBuilder is a builder for column definition in table creation.
type ColumnBuilder struct {
	Builder
	typ    string
	name   string
	attr   string
	modify bool
	fk     *ForeignKeyBuilder
	check  func(*Builder)
}

// Column returns a new ColumnBuilder with the given name.
//
//	sql.Column("group_id").Type("int").Attr("UNIQUE")
func Column(name string) *ColumnBuilder { return &ColumnBuilder{name: name} }

// Type sets the column type.
func (c *ColumnBuilder) Type(t string) *ColumnBuilder {
	c.typ = t
	return c
}

// Attr sets an extra attribute for the column, like UNIQUE or AUTO_INCREMENT.
func (c *ColumnBuilder) Attr(attr string) *ColumnBuilder {
	if c.attr != "" && attr != "" {
		c.attr += " "
	}
	c.attr += attr
	return c
}

// Constraint adds the CONSTRAINT clause to the ADD COLUMN statement.
func (c *ColumnBuilder) Constraint(fk *ForeignKeyBuilder) *ColumnBuilder {
	c.fk = fk
	return c
}

// Check adds a CHECK clause to the ADD COLUMN statement.
func (c *ColumnBuilder) Check(check func(*Builder)) *ColumnBuilder {
	c.check = check
	return c
}

// Query returns query representation of a Column.
func (c *ColumnBuilder) Query() (string, []any) {
	b := c.Builder.clone()
	b.Ident(c.name)
	if c.typ != "" {
		if c.modify {
			b.WriteString(" TYPE")
		}
		b.Pad().WriteString(c.typ)
	}
	if c.attr != "" {
		b.Pad().WriteString(c.attr)
	}
	if c.fk != nil {
		b.WriteString(" CONSTRAINT ").Ident(c.fk.symbol)
		b.Pad().Join(c.fk.ref)
		for _, action := range c.fk.actions {
			b.Pad().WriteString(action)
		}
	}
	if c.check != nil {
		b.WriteString(" CHECK ")
		b.Nested(c.check)
	}
	return b.String(), b.args
}

// TableBuilder is a query builder for the `CREATE TABLE` statement.
type TableBuilder struct {
	Builder
	name        string
	schema      string
	exists      bool
	charset     string
	collation   string
	options     string
	columns     []Querier
	primary     []string
	constraints []Querier
	checks      []func(*Builder)
}

// CreateTable returns a query builder for the `CREATE TABLE` statement.
//
//	CreateTable("users").
//		Columns(
//			Column("id").Type("int").Attr("auto_increment"),
//			Column("name").Type("varchar(255)"),
//		).
//		PrimaryKey("id")
func CreateTable(name string) *TableBuilder { return &TableBuilder{name: name} }

// Schema sets the database name for the table.
func (t *TableBuilder) Schema(name string) *TableBuilder {
	t.schema = name
	return t
}

// IfNotExists appends the `IF NOT EXISTS` clause to the `CREATE TABLE` statement.
func (t *TableBuilder) IfNotExists() *TableBuilder {
	t.exists = true
	return t
}

// Column appends the given column to the `CREATE TABLE` statement.
func (t *TableBuilder) Column(c *ColumnBuilder) *TableBuilder {
	t.columns = append(t.columns, c)
	return t
}

// Columns appends a list of columns to the builder.
func (t *TableBuilder) Columns(columns ...*ColumnBuilder) *TableBuilder {
	t.columns = make([]Querier, 0, len(columns))
	for i := range columns {
		t.columns = append(t.columns, columns[i])
	}
	return t
}

// PrimaryKey adds a column to the primary-key constraint in the statement.
func (t *TableBuilder) PrimaryKey(column ...string) *TableBuilder {
	t.primary = append(t.primary, column...)
	return t
}

// ForeignKeys adds a list of foreign-keys to the statement (without constraints).
func (t *TableBuilder) ForeignKeys(fks ...*ForeignKeyBuilder) *TableBuilder {
	queries := make([]Querier, len(fks))
	for i := range fks {
		// Erase the constraint symbol/name.
		fks[i].symbol = ""
		queries[i] = fks[i]
	}
	t.constraints = append(t.constraints, queries...)
	return t
}

// Constraints adds a list of foreign-key constraints to the statement.
func (t *TableBuilder) Constraints(fks ...*ForeignKeyBuilder) *TableBuilder {
	queries := make([]Querier, len(fks))
	for i := range fks {
		queries[i] = &Wrapper{"CONSTRAINT %s", fks[i]}
	}
	t.constraints = append(t.constraints, queries...)
	return t
}

// Checks adds CHECK clauses to the CREATE TABLE statement.
func (t *TableBuilder) Checks(checks ...func(*Builder)) *TableBuilder {
	t.checks = append(t.checks, checks...)
	return t
}

// Charset appends the `CHARACTER SET` clause to the statement. MySQL only.
func (t *TableBuilder) Charset(s string) *TableBuilder {
	t.charset = s
	return t
}

// Collate appends the `COLLATE` clause to the statement. MySQL only.
func (t *TableBuilder) Collate(s string) *TableBuilder {
	t.collation = s
	return t
}

// Options appends additional options to the statement (MySQL only).
func (t *TableBuilder) Options(s string) *TableBuilder {
	t.options = s
	return t
}

// Query returns query representation of a `CREATE TABLE` statement.
func (t *TableBuilder) Query() (string, []any) {
	b := t.Builder.clone()
	b.WriteString("CREATE TABLE ")
	if t.exists {
		b.WriteString("IF NOT EXISTS ")
	}
	if t.schema != "" {
		b.Ident(t.schema).WriteByte('.')
	}
	b.Ident(t.name)
	b.Pad().Nested(func(b *Builder) {
		b.JoinComma(t.columns...)
		if len(t.primary) > 0 {
			b.Comma().WriteString("PRIMARY KEY ")
			b.Nested(func(b *Builder) {
				b.IdentComma(t.primary...)
			})
		}
		if len(t.constraints) > 0 {
			b.Comma().JoinComma(t.constraints...)
		}
		for _, check := range t.checks {
			check(b.Comma())
		}
	})
	if t.charset != "" {
		b.WriteString(" CHARACTER SET " + t.charset)
	}
	if t.collation != "" {
		b.WriteString(" COLLATE " + t.collation)
	}
	if t.options != "" {
		b.WriteString(" " + t.options)
	}
	return b.String(), b.args
}

// ForeignKeyBuilder is the builder for the foreign-key constraint clause.
type ForeignKeyBuilder struct {
	Builder
	symbol  string
	columns []string
	actions []string
	ref     *ReferenceBuilder
}

// ForeignKey returns a builder for the foreign-key constraint clause in create/alter table statements.
//
//	ForeignKey().
//		Columns("group_id").
//		Reference(Reference().Table("groups").Columns("id")).
//		OnDelete("CASCADE")
func ForeignKey(symbol ...string) *ForeignKeyBuilder {
	fk := &ForeignKeyBuilder{}
	if len(symbol) != 0 {
		fk.symbol = symbol[0]
	}
	return fk
}

// Symbol sets the symbol of the foreign key.
func (fk *ForeignKeyBuilder) Symbol(s string) *ForeignKeyBuilder {
	fk.symbol = s
	return fk
}

// Columns sets the columns of the foreign key in the source table.
func (fk *ForeignKeyBuilder) Columns(s ...string) *ForeignKeyBuilder {
	fk.columns = append(fk.columns, s...)
	return fk
}

// Reference sets the reference clause.
func (fk *ForeignKeyBuilder) Reference(r *ReferenceBuilder) *ForeignKeyBuilder {
	fk.ref = r
	return fk
}

// OnDelete sets the on delete action for this constraint.
func (fk *ForeignKeyBuilder) OnDelete(action string) *ForeignKeyBuilder {
	fk.actions = append(fk.actions, "ON DELETE "+action)
	return fk
}

// OnUpdate sets the on update action for this constraint.
func (fk *ForeignKeyBuilder) OnUpdate(action string) *ForeignKeyBuilder {
	fk.actions = append(fk.actions, "ON UPDATE "+action)
	return fk
}

// Query returns query representation of a foreign key constraint.
func (fk *ForeignKeyBuilder) Query() (string, []any) {
	b := fk.Builder.clone()
	if fk.symbol != "" {
		b.Ident(fk.symbol).Pad()
	}
	b.WriteString("FOREIGN KEY ")
	b.Nested(func(b *Builder) {
		b.IdentComma(fk.columns...)
	})
	if fk.ref != nil {
		b.Pad().Join(fk.ref)
	}
	for _, action := range fk.actions {
		b.Pad().WriteString(action)
	}
	return b.String(), b.args
}

// ReferenceBuilder is a builder for the reference clause in constraints.
// For example, in foreign key creation.
type ReferenceBuilder struct {
	Builder
	table   string
	columns []string
}

// Reference creates a reference builder for the reference_option clause.
//
//	Reference().Table("groups").Columns("id")
func Reference() *ReferenceBuilder { return &ReferenceBuilder{} }

// Table sets the referenced table.
func (r *ReferenceBuilder) Table(s string) *ReferenceBuilder {
	r.table = s
	return r
}

// Columns sets the columns of the referenced table.
func (r *ReferenceBuilder) Columns(s ...string) *ReferenceBuilder {
	r.columns = append(r.columns, s...)
	return r
}

// Query returns query representation of a reference clause.
func (r *ReferenceBuilder) Query() (string, []any) {
	b := r.Builder.clone()
	b.WriteString("REFERENCES ")
	b.Ident(r.table)
	b.Pad().Nested(func(b *Builder) {
		b.IdentComma(r.columns...)
	})
	return b.String(), b.args
}

// IndexBuilder is a builder for `CREATE INDEX` statement.
type IndexBuilder struct {
	Builder
	name    string
	unique  bool
	exists  bool
	table   string
	method  string
	columns []string
}

// CreateIndex creates a builder for the `CREATE INDEX` statement.
//
//	CreateIndex("index_name").
//		Unique().
//		Table("users").
//		Column("name")
func CreateIndex(name string) *IndexBuilder {
	return &IndexBuilder{name: name}
}

// IfNotExists appends the `IF NOT EXISTS` clause to the `CREATE INDEX` statement.
func (i *IndexBuilder) IfNotExists() *IndexBuilder {
	i.exists = true
	return i
}

// Unique sets the index to be a unique index.
func (i *IndexBuilder) Unique() *IndexBuilder {
	i.unique = true
	return i
}

// Table defines the table for the index.
func (i *IndexBuilder) Table(table string) *IndexBuilder {
	i.table = table
	return i
}

// Using sets the method for creating the index.
func (i *IndexBuilder) Using(method string) *IndexBuilder {
	i.method = method
	return i
}

// Column appends a column to the column list for the index.
func (i *IndexBuilder) Column(column string) *IndexBuilder {
	i.columns = append(i.columns, column)
	return i
}

// Columns appends the given columns to the column list for the index.
func (i *IndexBuilder) Columns(columns ...string) *IndexBuilder {
	i.columns = append(i.columns, columns...)
	return i
}

// Query returns query representation of a `CREATE INDEX` statement.
func (i *IndexBuilder) Query() (string, []any) {
	b := i.Builder.clone()
	b.WriteString("CREATE ")
	if i.unique {
		b.WriteString("UNIQUE ")
	}
	b.WriteString("INDEX ")
	if i.exists {
		b.WriteString("IF NOT EXISTS ")
	}
	b.Ident(i.name)
	b.WriteString(" ON ")
	b.Ident(i.table)
	switch i.Dialect() {
	case dialect.Postgres:
		if i.method != "" {
			b.WriteString(" USING ").WriteString(i.method)
		}
		b.Pad().Nested(func(b *Builder) {
			b.IdentComma(i.columns...)
		})
	case dialect.MySQL:
		b.Pad().Nested(func(b *Builder) {
			b.IdentComma(i.columns...)
		})
		if i.method != "" {
			b.WriteString(" USING ").WriteString(i.method)
		}
	default:
		b.Pad().Nested(func(b *Builder) {
			b.IdentComma(i.columns...)
		})
	}
	return b.String(), b.args
}

// DropIndexBuilder is a builder for `DROP INDEX` statement.
type DropIndexBuilder struct {
	Builder
	name  string
	table string
}

// DropIndex creates a builder for the `DROP INDEX` statement.
//
//	MySQL:
//
//		DropIndex("index_name").
//			Table("users")
//
//	SQLite/PostgreSQL:
//
//		DropIndex("index_name")
func DropIndex(name string) *DropIndexBuilder {
	return &DropIndexBuilder{name: name}
}

// Table defines the table for the index.
func (d *DropIndexBuilder) Table(table string) *DropIndexBuilder {
	d.table = table
	return d
}

// Query returns query representation of a `DROP INDEX` statement.
//
//	DROP INDEX index_name [ON table_name]
func (d *DropIndexBuilder) Query() (string, []any) {
	b := d.Builder.clone()
	b.WriteString("DROP INDEX ")
	b.Ident(d.name)
	if d.table != "" {
		b.WriteString(" ON ")
		b.Ident(d.table)
	}
	return b.String(), b.args
}

// AlterTableBuilder is a query builder for the `ALTER TABLE` statement.
type AlterTableBuilder struct {
	Builder
	name    string
	Queries []Querier
}

// AlterTable returns a query builder for the `ALTER TABLE` statement.
//
//	AlterTable("users").
//		AddColumn(Column("group_id").Type("int").Attr("UNIQUE")).
//		AddForeignKey(ForeignKey().Columns("group_id").
//			Reference(Reference().Table("groups").Columns("id")).
//			OnDelete("CASCADE"),
//		)
func AlterTable(name string) *AlterTableBuilder { return &AlterTableBuilder{name: name} }

// AddColumn appends the `ADD COLUMN` clause to the `ALTER TABLE` statement.
func (t *AlterTableBuilder) AddColumn(c *ColumnBuilder) *AlterTableBuilder {
	t.Queries = append(t.Queries, &Wrapper{"ADD COLUMN %s", c})
	return t
}

// ModifyColumn appends the `MODIFY/ALTER COLUMN` clause to the `ALTER TABLE` statement.
func (t *AlterTableBuilder) ModifyColumn(c *ColumnBuilder) *AlterTableBuilder {
	switch t.Dialect() {
	case dialect.Postgres:
		c.modify = true
		t.Queries = append(t.Queries, &Wrapper{"ALTER COLUMN %s", c})
	default:
		t.Queries = append(t.Queries, &Wrapper{"MODIFY COLUMN %s", c})
	}
	return t
}

// ModifyColumns calls ModifyColumn with each of the given builders.
func (t *AlterTableBuilder) ModifyColumns(cs ...*ColumnBuilder) *AlterTableBuilder {
	for _, c := range cs {
		t.ModifyColumn(c)
	}
	return t
}

// ChangeColumn appends the `CHANGE COLUMN` clause to the `ALTER TABLE` statement.
func (t *AlterTableBuilder) ChangeColumn(name string, c *ColumnBuilder) *AlterTableBuilder {
	prefix := fmt.Sprintf("CHANGE COLUMN %s ", t.Quote(name))
	t.Queries = append(t.Queries, &Wrapper{prefix + "%s", c})
	return t
}

// RenameColumn appends the `RENAME COLUMN` clause to the `ALTER TABLE` statement.
func (t *AlterTableBuilder) RenameColumn(old, new string) *AlterTableBuilder {
	t.Queries = append(t.Queries, Expr(fmt.Sprintf("RENAME COLUMN %s TO %s", t.Quote(old), t.Quote(new))))
	return t
}

// DropColumn appends the `DROP COLUMN` clause to the `ALTER TABLE` statement.
func (t *AlterTableBuilder) DropColumn(name string) *AlterTableBuilder {
	t.Queries = append(t.Queries, Expr("DROP COLUMN "+t.Quote(name)))
	return t
}

// AddIndex appends the `ADD INDEX` clause to the `ALTER TABLE` statement.
func (t *AlterTableBuilder) AddIndex(idx *IndexBuilder) *AlterTableBuilder {
	b := &Builder{dialect: t.dialect}
	b.WriteString("ADD ")
	if idx.unique {
		b.WriteString("UNIQUE ")
	}
	b.WriteString("INDEX ")
	b.Ident(idx.name)
	b.Pad().Nested(func(b *Builder) {
		b.IdentComma(idx.columns...)
	})
	t.Queries = append(t.Queries, Expr(b.String()))
	return t
}

// AddForeignKey adds a foreign key constraint to the `ALTER TABLE` statement.
func (t *AlterTableBuilder) AddForeignKey(fk *ForeignKeyBuilder) *AlterTableBuilder {
	t.Queries = append(t.Queries, &Wrapper{"ADD CONSTRAINT %s", fk})
	return t
}

// DropConstraint appends the `DROP CONSTRAINT` clause to the `ALTER TABLE` statement.
func (t *AlterTableBuilder) DropConstraint(ident string) *AlterTableBuilder {
	t.Queries = append(t.Queries, Expr("DROP CONSTRAINT "+t.Quote(ident)))
	return t
}

// DropForeignKey appends the `DROP FOREIGN KEY` clause to the `ALTER TABLE` statement.
func (t *AlterTableBuilder) DropForeignKey(ident string) *AlterTableBuilder {
	t.Queries = append(t.Queries, Expr("DROP FOREIGN KEY "+t.Quote(ident)))
	return t
}

// Query returns query representation of the `ALTER TABLE` statement.
func (t *AlterTableBuilder) Query() (string, []any) {
	b := t.Builder.clone()
	b.WriteString("ALTER TABLE ")
	b.Ident(t.name)
	b.Pad()
	b.JoinComma(t.Queries...)
	return b.String(), b.args
}
