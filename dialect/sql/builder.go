package sql

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/formadb/forma/dialect"
)

// Querier wraps the basic Query method that is implemented
// by the different builders in this file.
type Querier interface {
	// Query returns the query representation of the element
	// and its arguments (if any).
	Query() (string, []any)
}

// Builder is the base query builder for the sql dsl.
type Builder struct {
	sb      *strings.Builder
	dialect string
	args    []any
	total   int
	errs    []error
}

// new returns a new builder that shares the dialect
// and the argument counter with its parent.
func (b Builder) new() Builder {
	return Builder{dialect: b.dialect, total: b.total}
}

// Quote quotes the given identifier with the characters based
// on the configured dialect. It defaults to "`".
func (b *Builder) Quote(ident string) string {
	switch {
	case b.postgres():
		// Extra string-quotes are removed to avoid invalid
		// identifiers when callers pass pre-quoted names.
		return strconv.Quote(strings.ReplaceAll(ident, `"`, ""))
	default:
		return fmt.Sprintf("`%s`", ident)
	}
}

// Ident appends the given string as an identifier.
func (b *Builder) Ident(s string) *Builder {
	switch {
	case len(s) == 0:
	case s != "*" && !b.isIdent(s) && !isFunc(s) && !isModifier(s):
		if q := strings.IndexByte(s, '.'); q != -1 {
			b.WriteString(b.Quote(s[:q]) + "." + b.Quote(s[q+1:]))
		} else {
			b.WriteString(b.Quote(s))
		}
	default:
		b.WriteString(s)
	}
	return b
}

// IdentComma calls Ident on all arguments and adds a comma between them.
func (b *Builder) IdentComma(s ...string) *Builder {
	for i := range s {
		if i > 0 {
			b.Comma()
		}
		b.Ident(s[i])
	}
	return b
}

// String returns the accumulated SQL string.
func (b *Builder) String() string {
	if b.sb == nil {
		return ""
	}
	return b.sb.String()
}

// WriteByte appends the given byte to the builder.
func (b *Builder) WriteByte(c byte) *Builder {
	if b.sb == nil {
		b.sb = &strings.Builder{}
	}
	b.sb.WriteByte(c)
	return b
}

// WriteString appends the given string to the builder.
func (b *Builder) WriteString(s string) *Builder {
	if b.sb == nil {
		b.sb = &strings.Builder{}
	}
	b.sb.WriteString(s)
	return b
}

// Len returns the number of accumulated bytes.
func (b *Builder) Len() int {
	if b.sb == nil {
		return 0
	}
	return b.sb.Len()
}

// Comma adds a comma to the query.
func (b *Builder) Comma() *Builder {
	return b.WriteString(", ")
}

// Pad adds a space to the query.
func (b *Builder) Pad() *Builder {
	return b.WriteByte(' ')
}

// Arg appends an input argument to the builder.
func (b *Builder) Arg(a any) *Builder {
	switch v := a.(type) {
	case nil:
		b.WriteString("NULL")
		return b
	case *raw:
		b.WriteString(v.s)
		return b
	case Querier:
		b.Join(v)
		return b
	}
	b.total++
	b.args = append(b.args, a)
	switch {
	case b.postgres():
		b.WriteString("$" + strconv.Itoa(b.total))
	default:
		b.WriteByte('?')
	}
	return b
}

// Args appends a list of input arguments to the builder.
func (b *Builder) Args(a ...any) *Builder {
	for i := range a {
		if i > 0 {
			b.Comma()
		}
		b.Arg(a[i])
	}
	return b
}

// Nested appends the given callback in parenthesis.
func (b *Builder) Nested(f func(*Builder)) *Builder {
	nb := b.new()
	nb.WriteByte('(')
	f(&nb)
	nb.WriteByte(')')
	b.WriteString(nb.String())
	b.args = append(b.args, nb.args...)
	b.total = nb.total
	b.errs = append(b.errs, nb.errs...)
	return b
}

// Join joins a list of Queries to the builder.
func (b *Builder) Join(qs ...Querier) *Builder {
	return b.join(qs, "")
}

// JoinComma joins a list of Queries with comma between them.
func (b *Builder) JoinComma(qs ...Querier) *Builder {
	return b.join(qs, ", ")
}

func (b *Builder) join(qs []Querier, sep string) *Builder {
	for i, q := range qs {
		if i > 0 {
			b.WriteString(sep)
		}
		st, ok := q.(state)
		if ok {
			st.SetDialect(b.dialect)
			st.SetTotal(b.total)
		}
		query, args := q.Query()
		b.WriteString(query)
		b.args = append(b.args, args...)
		b.total += len(args)
		if f, ok := q.(interface{ Err() error }); ok {
			if err := f.Err(); err != nil {
				b.AddError(err)
			}
		}
	}
	return b
}

// AddError appends an error to the builder errors.
func (b *Builder) AddError(err error) *Builder {
	if err != nil {
		b.errs = append(b.errs, err)
	}
	return b
}

// Err returns a concatenated error of all errors encountered during
// the query-building, or were added manually by calling AddError.
func (b *Builder) Err() error {
	if len(b.errs) == 0 {
		return nil
	}
	br := strings.Builder{}
	for i := range b.errs {
		if i > 0 {
			br.WriteString("; ")
		}
		br.WriteString(b.errs[i].Error())
	}
	return fmt.Errorf("%s", br.String())
}

// SetDialect sets the builder dialect. It is used for garnering dialect-aware output.
func (b *Builder) SetDialect(d string) {
	b.dialect = d
}

// Dialect returns the dialect of the builder.
func (b Builder) Dialect() string {
	return b.dialect
}

// Total returns the total number of arguments so far.
func (b Builder) Total() int {
	return b.total
}

// SetTotal sets the value of the total arguments.
// Used to pass this information between sub builders (e.g. predicates).
func (b *Builder) SetTotal(total int) {
	b.total = total
}

func (b Builder) postgres() bool {
	return b.dialect == dialect.Postgres
}

func (b Builder) mysql() bool {
	return b.dialect == dialect.MySQL
}

func (b Builder) isIdent(s string) bool {
	switch {
	case b.postgres():
		return strings.Contains(s, `"`)
	default:
		return strings.Contains(s, "`")
	}
}

// state wraps the dialect/total configuration methods,
// shared between the parent builder and its children.
type state interface {
	Querier
	SetDialect(string)
	Dialect() string
	Total() int
	SetTotal(int)
}

func isFunc(s string) bool {
	return strings.ContainsRune(s, '(') && strings.ContainsRune(s, ')')
}

func isModifier(s string) bool {
	return strings.HasPrefix(s, "DISTINCT ")
}

type (
	// StmtInfo holds an information regarding
	// the statement.
	StmtInfo struct {
		// Dialect of the statement.
		Dialect string
	}
	// ParamFormatter wraps the FormatParam function.
	ParamFormatter interface {
		// FormatParam returns the placeholder of the given parameter.
		FormatParam(placeholder string, info *StmtInfo) string
	}
)

type raw struct{ s string }

// Raw returns a raw SQL element that is written to the
// query as-is, without quoting or parameter binding.
func Raw(s string) any { return &raw{s} }

// Expr is an SQL expression with optional bound arguments.
type expr struct {
	Builder
	s    string
	args []any
}

// Expr returns an SQL expression that implements the Querier interface.
func Expr(s string, args ...any) Querier {
	return &expr{s: s, args: args}
}

// Query implements the Querier interface.
func (e *expr) Query() (string, []any) {
	b := &Builder{dialect: e.dialect, total: e.total}
	param, idx := 0, -1
	for {
		idx = strings.IndexByte(e.s[param:], '?')
		if idx == -1 {
			b.WriteString(e.s[param:])
			break
		}
		b.WriteString(e.s[param : param+idx])
		if pi := len(b.args); pi < len(e.args) {
			b.Arg(e.args[pi])
		}
		param += idx + 1
	}
	return b.String(), b.args
}

// DialectBuilder prefixes all root builders with the `Dialect` constructor.
type DialectBuilder struct {
	dialect string
}

// Dialect creates a new DialectBuilder with the given dialect name.
func Dialect(name string) *DialectBuilder {
	return &DialectBuilder{name}
}

// Select creates a Selector for the configured dialect.
func (d *DialectBuilder) Select(columns ...string) *Selector {
	s := Select(columns...)
	s.SetDialect(d.dialect)
	return s
}

// Insert creates an InsertBuilder for the configured dialect.
func (d *DialectBuilder) Insert(table string) *InsertBuilder {
	b := Insert(table)
	b.SetDialect(d.dialect)
	return b
}

// Update creates an UpdateBuilder for the configured dialect.
func (d *DialectBuilder) Update(table string) *UpdateBuilder {
	b := Update(table)
	b.SetDialect(d.dialect)
	return b
}

// Delete creates a DeleteBuilder for the configured dialect.
func (d *DialectBuilder) Delete(table string) *DeleteBuilder {
	b := Delete(table)
	b.SetDialect(d.dialect)
	return b
}

// Table creates a SelectTable for the configured dialect.
func (d *DialectBuilder) Table(name string) *SelectTable {
	t := Table(name)
	t.SetDialect(d.dialect)
	return t
}

// CreateTable creates a TableBuilder for the configured dialect.
func (d *DialectBuilder) CreateTable(name string) *TableBuilder {
	b := CreateTable(name)
	b.SetDialect(d.dialect)
	return b
}

// AlterTable creates an AlterTableBuilder for the configured dialect.
func (d *DialectBuilder) AlterTable(name string) *AlterTableBuilder {
	b := AlterTable(name)
	b.SetDialect(d.dialect)
	return b
}

// Column creates a ColumnBuilder for the configured dialect.
func (d *DialectBuilder) Column(name string) *ColumnBuilder {
	b := Column(name)
	b.SetDialect(d.dialect)
	return b
}

// CreateIndex creates an IndexBuilder for the configured dialect.
func (d *DialectBuilder) CreateIndex(name string) *IndexBuilder {
	b := CreateIndex(name)
	b.SetDialect(d.dialect)
	return b
}

// DropIndex creates a DropIndexBuilder for the configured dialect.
func (d *DialectBuilder) DropIndex(name string) *DropIndexBuilder {
	b := DropIndex(name)
	b.SetDialect(d.dialect)
	return b
}

// TableView is a view that returns a table view. Can be a Table or a Selector.
type TableView interface {
	view()
	// C returns a formatted string prefixed
	// with the table view qualifier.
	C(string) string
}

// SelectTable is a table selector.
type SelectTable struct {
	Builder
	as     string
	name   string
	quote  bool
}

// Table returns a new table selector.
//
//	t1 := Table("users").As("u")
//	return Select(t1.C("name"))
func Table(name string) *SelectTable {
	return &SelectTable{quote: true, name: name}
}

// As adds the AS clause to the table selector.
func (s *SelectTable) As(alias string) *SelectTable {
	s.as = alias
	return s
}

// C returns a formatted string for the table column.
func (s *SelectTable) C(column string) string {
	name := s.name
	if s.as != "" {
		name = s.as
	}
	b := &Builder{dialect: s.dialect}
	if s.quote {
		b.Ident(name)
	} else {
		b.WriteString(name)
	}
	b.WriteByte('.').Ident(column)
	return b.String()
}

// Columns returns a list of formatted strings for the table columns.
func (s *SelectTable) Columns(columns ...string) []string {
	names := make([]string, 0, len(columns))
	for _, c := range columns {
		names = append(names, s.C(c))
	}
	return names
}

// Unquote makes the table name to not be quoted with the dialect quotes.
func (s *SelectTable) Unquote() *SelectTable {
	s.quote = false
	return s
}

// Name returns the table name.
func (s *SelectTable) Name() string {
	return s.name
}

// ref returns the table reference.
func (s *SelectTable) ref() string {
	b := &Builder{dialect: s.dialect}
	if s.quote {
		b.Ident(s.name)
	} else {
		b.WriteString(s.name)
	}
	if s.as != "" {
		b.WriteString(" AS ")
		b.Ident(s.as)
	}
	return b.String()
}

// implement the table view.
func (*SelectTable) view() {}

// join table types.
const (
	innerJoin = "JOIN"
	leftJoin  = "LEFT JOIN"
	rightJoin = "RIGHT JOIN"
)

type join struct {
	on    *Predicate
	kind  string
	table TableView
}

// Selector is a builder for the `SELECT` statement.
type Selector struct {
	Builder
	as       string
	columns  []string
	from     TableView
	joins    []join
	where    *Predicate
	or       bool
	not      bool
	order    []string
	group    []string
	having   *Predicate
	limit    *int
	offset   *int
	distinct bool
	lock     *LockOptions
}

// Select returns a new selector for the `SELECT` statement.
//
//	t1 := Table("users").As("u")
//	t2 := Select().From(Table("groups")).Where(EQ("user_id", 10)).As("g")
//	return Select(t1.C("id"), t2.C("name")).
//			From(t1).
//			Join(t2).
//			On(t1.C("id"), t2.C("user_id"))
func Select(columns ...string) *Selector {
	return (&Selector{}).Select(columns...)
}

// Select changes the columns selection of the SELECT statement.
// Empty selection means all columns *.
func (s *Selector) Select(columns ...string) *Selector {
	s.columns = columns
	return s
}

// From sets the source of `FROM` clause.
func (s *Selector) From(t TableView) *Selector {
	s.from = t
	if st, ok := t.(state); ok {
		st.SetDialect(s.dialect)
	}
	return s
}

// Distinct adds the DISTINCT keyword to the `SELECT` statement.
func (s *Selector) Distinct() *Selector {
	s.distinct = true
	return s
}

// SetDistinct sets explicitly if the returned rows are distinct or indistinct.
func (s *Selector) SetDistinct(v bool) *Selector {
	s.distinct = v
	return s
}

// Where sets or appends the given predicate to the statement.
func (s *Selector) Where(p *Predicate) *Selector {
	if s.not {
		p = Not(p)
		s.not = false
	}
	switch {
	case s.where == nil:
		s.where = p
	case s.where != nil && s.or:
		s.where = Or(s.where, p)
		s.or = false
	default:
		s.where = And(s.where, p)
	}
	return s
}

// Or sets the next coming predicate with OR (rather than the default AND).
//
//	Select().
//		From(Table("users")).
//		Where(EQ("name", "foo")).
//		Or().
//		Where(EQ("name", "bar"))
func (s *Selector) Or() *Selector {
	s.or = true
	return s
}

// Not sets the next coming predicate with not.
func (s *Selector) Not() *Selector {
	s.not = true
	return s
}

// Join appends a `JOIN` clause to the statement.
func (s *Selector) Join(t TableView) *Selector {
	return s.join(innerJoin, t)
}

// LeftJoin appends a `LEFT JOIN` clause to the statement.
func (s *Selector) LeftJoin(t TableView) *Selector {
	return s.join(leftJoin, t)
}

// RightJoin appends a `RIGHT JOIN` clause to the statement.
func (s *Selector) RightJoin(t TableView) *Selector {
	return s.join(rightJoin, t)
}

func (s *Selector) join(kind string, t TableView) *Selector {
	s.joins = append(s.joins, join{kind: kind, table: t})
	if st, ok := t.(state); ok {
		st.SetDialect(s.dialect)
	}
	return s
}

// On sets the `ON` clause for the last created join.
func (s *Selector) On(c1, c2 string) *Selector {
	if len(s.joins) > 0 {
		j := &s.joins[len(s.joins)-1]
		j.on = And(j.on, ColumnsEQ(c1, c2))
	}
	return s
}

// OnP sets or appends the given predicate for the `ON` clause of the last created join.
func (s *Selector) OnP(p *Predicate) *Selector {
	if len(s.joins) > 0 {
		j := &s.joins[len(s.joins)-1]
		j.on = And(j.on, p)
	}
	return s
}

// C returns a formatted string for a selected column from this statement.
func (s *Selector) C(column string) string {
	if s.as != "" {
		b := &Builder{dialect: s.dialect}
		b.Ident(s.as)
		b.WriteByte('.')
		b.Ident(column)
		return b.String()
	}
	if s.from != nil {
		return s.from.C(column)
	}
	return column
}

// As gives this selection statement an alias.
func (s *Selector) As(alias string) *Selector {
	s.as = alias
	return s
}

// GroupBy appends the `GROUP BY` clause to the `SELECT` statement.
func (s *Selector) GroupBy(columns ...string) *Selector {
	s.group = append(s.group, columns...)
	return s
}

// Having appends a predicate for the `HAVING` clause.
func (s *Selector) Having(p *Predicate) *Selector {
	s.having = p
	return s
}

// OrderBy appends the `ORDER BY` clause to the `SELECT` statement.
func (s *Selector) OrderBy(columns ...string) *Selector {
	s.order = append(s.order, columns...)
	return s
}

// ClearOrder clears the ORDER BY clause.
func (s *Selector) ClearOrder() *Selector {
	s.order = nil
	return s
}

// Limit adds the `LIMIT` clause to the `SELECT` statement.
func (s *Selector) Limit(limit int) *Selector {
	s.limit = &limit
	return s
}

// Offset adds the `OFFSET` clause to the `SELECT` statement.
func (s *Selector) Offset(offset int) *Selector {
	s.offset = &offset
	return s
}

// Count sets the selection to be a count of the given columns.
// An empty list of columns means COUNT(*).
func (s *Selector) Count(columns ...string) *Selector {
	column := "*"
	if len(columns) > 0 {
		b := &Builder{dialect: s.dialect}
		b.IdentComma(columns...)
		column = b.String()
	}
	s.columns = []string{"COUNT(" + column + ")"}
	return s
}

// LockAction tells the transaction what to do in case of
// requesting a row that is locked by other transaction.
type LockAction string

const (
	// NoWait means never wait and return an error.
	NoWait LockAction = "NOWAIT"
	// SkipLocked means never wait and skip.
	SkipLocked LockAction = "SKIP LOCKED"
)

// LockStrength defines the strength of the lock.
type LockStrength string

// A list of all locking clauses.
const (
	LockShare       LockStrength = "SHARE"
	LockUpdate      LockStrength = "UPDATE"
	LockNoKeyUpdate LockStrength = "NO KEY UPDATE"
	LockKeyShare    LockStrength = "KEY SHARE"
)

type (
	// LockOptions defines a SELECT statement
	// lock for protecting concurrent updates.
	LockOptions struct {
		// Strength of the lock.
		Strength LockStrength
		// Action of the lock.
		Action LockAction
		// Tables are optional tables.
		Tables []string
		// custom clause for locking.
		clause string
	}
	// LockOption allows configuring the LockOptions using functional options.
	LockOption func(*LockOptions)
)

// WithLockAction sets the Action of the lock.
func WithLockAction(action LockAction) LockOption {
	return func(c *LockOptions) {
		c.Action = action
	}
}

// WithLockTables sets the Tables of the lock.
func WithLockTables(tables ...string) LockOption {
	return func(c *LockOptions) {
		c.Tables = tables
	}
}

// WithLockClause allows providing a custom clause for
// locking the statement. For example, in MySQL <= 8.22:
//
//	Select().
//		From(Table("users")).
//		ForShare(
//			WithLockClause("LOCK IN SHARE MODE"),
//		)
func WithLockClause(clause string) LockOption {
	return func(c *LockOptions) {
		c.clause = clause
	}
}

// For sets the lock configuration for suffixing the `SELECT`
// statement with the `FOR [SHARE | UPDATE] ...` clause.
func (s *Selector) For(l LockStrength, opts ...LockOption) *Selector {
	if s.Dialect() == dialect.SQLite {
		s.AddError(errors.New("sql: SELECT .. FOR UPDATE/SHARE not supported in SQLite"))
		return s
	}
	s.lock = &LockOptions{Strength: l}
	for _, opt := range opts {
		opt(s.lock)
	}
	return s
}

// ForShare sets the lock configuration for suffixing the
// `SELECT` statement with the `FOR SHARE` clause.
func (s *Selector) ForShare(opts ...LockOption) *Selector {
	return s.For(LockShare, opts...)
}

// ForUpdate sets the lock configuration for suffixing the
// `SELECT` statement with the `FOR UPDATE` clause.
func (s *Selector) ForUpdate(opts ...LockOption) *Selector {
	return s.For(LockUpdate, opts...)
}

// Clone returns a duplicate of the selector, including all associated steps.
func (s *Selector) Clone() *Selector {
	if s == nil {
		return nil
	}
	joins := make([]join, len(s.joins))
	copy(joins, s.joins)
	return &Selector{
		Builder:  s.new(),
		as:       s.as,
		columns:  append([]string{}, s.columns...),
		from:     s.from,
		joins:    joins,
		where:    s.where.clone(),
		order:    append([]string{}, s.order...),
		group:    append([]string{}, s.group...),
		having:   s.having.clone(),
		limit:    s.limit,
		offset:   s.offset,
		distinct: s.distinct,
		lock:     s.lock,
	}
}

// P returns the predicate of the selector.
func (s *Selector) P() *Predicate {
	return s.where
}

// SetP sets explicitly the predicate function for the selector and clears the previous predicate.
func (s *Selector) SetP(p *Predicate) *Selector {
	s.where = p
	return s
}

// Query returns query representation of a `SELECT` statement.
func (s *Selector) Query() (string, []any) {
	b := s.Builder.clone()
	b.WriteString("SELECT ")
	if s.distinct {
		b.WriteString("DISTINCT ")
	}
	if len(s.columns) > 0 {
		b.IdentComma(s.columns...)
	} else {
		b.WriteString("*")
	}
	if s.from != nil {
		b.WriteString(" FROM ")
		switch t := s.from.(type) {
		case *SelectTable:
			t.SetDialect(s.dialect)
			b.WriteString(t.ref())
		case *Selector:
			t.SetDialect(s.dialect)
			b.Nested(func(nb *Builder) {
				nb.Join(t)
			})
			if t.as != "" {
				b.WriteString(" AS ")
				b.Ident(t.as)
			}
		}
	}
	for _, j := range s.joins {
		b.Pad().WriteString(j.kind).Pad()
		switch t := j.table.(type) {
		case *SelectTable:
			t.SetDialect(s.dialect)
			b.WriteString(t.ref())
		case *Selector:
			t.SetDialect(s.dialect)
			b.Nested(func(nb *Builder) {
				nb.Join(t)
			})
			if t.as != "" {
				b.WriteString(" AS ")
				b.Ident(t.as)
			}
		}
		if j.on != nil {
			b.WriteString(" ON ")
			b.Join(j.on)
		}
	}
	if s.where != nil {
		b.WriteString(" WHERE ")
		b.Join(s.where)
	}
	if len(s.group) > 0 {
		b.WriteString(" GROUP BY ")
		b.IdentComma(s.group...)
	}
	if s.having != nil {
		b.WriteString(" HAVING ")
		b.Join(s.having)
	}
	if len(s.order) > 0 {
		b.WriteString(" ORDER BY ")
		for i, o := range s.order {
			if i > 0 {
				b.Comma()
			}
			b.writeOrder(o)
		}
	}
	if s.limit != nil {
		b.WriteString(" LIMIT ")
		b.WriteString(strconv.Itoa(*s.limit))
	}
	if s.offset != nil {
		b.WriteString(" OFFSET ")
		b.WriteString(strconv.Itoa(*s.offset))
	}
	if s.lock != nil {
		s.joinLock(&b)
	}
	return b.String(), b.args
}

func (s *Selector) joinLock(b *Builder) {
	b.Pad()
	switch {
	case s.lock.clause != "":
		b.WriteString(s.lock.clause)
	default:
		b.WriteString("FOR ").WriteString(string(s.lock.Strength))
		if len(s.lock.Tables) > 0 {
			b.WriteString(" OF ").IdentComma(s.lock.Tables...)
		}
		if s.lock.Action != "" {
			b.Pad().WriteString(string(s.lock.Action))
		}
	}
}

// writeOrder writes an ORDER BY term, keeping an explicit
// ASC/DESC suffix attached to the identifier.
func (b *Builder) writeOrder(term string) {
	switch {
	case strings.HasSuffix(term, " ASC"):
		b.Ident(strings.TrimSuffix(term, " ASC"))
		b.WriteString(" ASC")
	case strings.HasSuffix(term, " DESC"):
		b.Ident(strings.TrimSuffix(term, " DESC"))
		b.WriteString(" DESC")
	default:
		b.Ident(term)
	}
}

// clone returns a shallow clone of the inner builder state.
func (b Builder) clone() Builder {
	return Builder{dialect: b.dialect, total: b.total, args: append([]any{}, b.args...)}
}

// view implements the TableView interface.
func (*Selector) view() {}

// Asc adds the ASC suffix for the given column.
func Asc(column string) string {
	return column + " ASC"
}

// Desc adds the DESC suffix for the given column.
func Desc(column string) string {
	return column + " DESC"
}

// InsertBuilder is a builder for the `INSERT INTO` statement.
type InsertBuilder struct {
	Builder
	table     string
	schema    string
	columns   []string
	defaults  bool
	returning []string
	values    [][]any
	conflict  *conflict
}

// Insert creates a builder for the `INSERT INTO` statement.
//
//	Insert("users").
//		Columns("name", "age").
//		Values("a8m", 10).
//		Values("foo", 20)
func Insert(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

// Schema sets the database name for the insert table.
func (i *InsertBuilder) Schema(name string) *InsertBuilder {
	i.schema = name
	return i
}

// Table returns the table the insert statement operates on.
func (i *InsertBuilder) Table() string {
	return i.table
}

// Set is a syntactic sugar API for inserting only one row.
func (i *InsertBuilder) Set(column string, v any) *InsertBuilder {
	i.columns = append(i.columns, column)
	if len(i.values) == 0 {
		i.values = append(i.values, []any{v})
	} else {
		i.values[0] = append(i.values[0], v)
	}
	return i
}

// Columns appends columns to the INSERT statement.
func (i *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	i.columns = append(i.columns, columns...)
	return i
}

// Values append a value tuple for the insert statement.
func (i *InsertBuilder) Values(values ...any) *InsertBuilder {
	i.values = append(i.values, values)
	return i
}

// Default sets the default values clause based on the dialect type.
func (i *InsertBuilder) Default() *InsertBuilder {
	i.defaults = true
	return i
}

// Returning adds the `RETURNING` clause to the insert statement.
// Supported by SQLite and PostgreSQL.
func (i *InsertBuilder) Returning(columns ...string) *InsertBuilder {
	i.returning = columns
	return i
}

// Query returns query representation of an `INSERT INTO` statement.
func (i *InsertBuilder) Query() (string, []any) {
	b := i.Builder.clone()
	b.WriteString("INSERT INTO ")
	i.writeTable(&b)
	if i.defaults && len(i.columns) == 0 {
		i.writeDefault(&b)
	} else {
		b.WriteByte(' ')
		b.Nested(func(nb *Builder) {
			nb.IdentComma(i.columns...)
		})
		b.WriteString(" VALUES ")
		for j, v := range i.values {
			if j > 0 {
				b.Comma()
			}
			b.Nested(func(nb *Builder) {
				nb.Args(v...)
			})
		}
	}
	if i.conflict != nil {
		i.writeConflict(&b)
	}
	joinReturning(i.returning, &b)
	return b.String(), b.args
}

func (i *InsertBuilder) writeDefault(b *Builder) {
	switch i.Dialect() {
	case dialect.MySQL:
		b.WriteString(" VALUES ()")
	default:
		b.WriteString(" DEFAULT VALUES")
	}
}

func (i *InsertBuilder) writeTable(b *Builder) {
	if i.schema != "" {
		b.Ident(i.schema).WriteByte('.')
	}
	b.Ident(i.table)
}

func joinReturning(columns []string, b *Builder) {
	if len(columns) == 0 || b.mysql() {
		return
	}
	b.WriteString(" RETURNING ")
	b.IdentComma(columns...)
}

type (
	// ConflictOption allows configuring the
	// conflict config using functional options.
	ConflictOption func(*conflict)
	conflict       struct {
		target struct {
			constraint string
			columns    []string
		}
		action struct {
			nothing bool
			where   *Predicate
			update  []func(*UpdateSet)
		}
	}
)

// ConflictColumns sets the unique constraint that trigger the conflict
// resolution on insert to perform an upsert operation.
//
//	Insert("users").
//		Columns("id", "name").
//		Values(1, "Mashraki").
//		OnConflict(
//			ConflictColumns("id"),
//			ResolveWithNewValues(),
//		)
func ConflictColumns(names ...string) ConflictOption {
	return func(c *conflict) {
		c.target.columns = names
	}
}

// ConflictConstraint allows setting the constraint
// name (i.e. `ON CONSTRAINT <name>`) for PostgreSQL.
func ConflictConstraint(name string) ConflictOption {
	return func(c *conflict) {
		c.target.constraint = name
	}
}

// DoNothing configures the conflict_action to `DO NOTHING`.
// Supported by SQLite and PostgreSQL.
func DoNothing() ConflictOption {
	return func(c *conflict) {
		c.action.nothing = true
	}
}

// ResolveWithIgnore sets each column to itself to force an update
// and return the old values.
func ResolveWithIgnore() ConflictOption {
	return func(c *conflict) {
		c.action.update = append(c.action.update, func(u *UpdateSet) {
			for _, c := range u.columns {
				u.SetIgnore(c)
			}
		})
	}
}

// ResolveWithNewValues updates columns using the new values proposed
// for insertion using the special EXCLUDED table on PostgreSQL and
// SQLite, and the VALUES() function on MySQL.
func ResolveWithNewValues() ConflictOption {
	return func(c *conflict) {
		c.action.update = append(c.action.update, func(u *UpdateSet) {
			for _, c := range u.columns {
				u.SetExcluded(c)
			}
		})
	}
}

// ResolveWith allows setting a custom function to set the `UPDATE` clause.
//
//	Insert(...).
//		OnConflict(
//			ConflictColumns("id"),
//			ResolveWith(func(u *UpdateSet) {
//				u.SetIgnore("id").
//					SetNull("updated_at").
//					Set("name", Expr(u.Excluded().C("name")))
//			}),
//		)
func ResolveWith(fn func(*UpdateSet)) ConflictOption {
	return func(c *conflict) {
		c.action.update = append(c.action.update, fn)
	}
}

// UpdateWhere allows setting the update condition. Only rows
// for which this expression returns true will be updated.
func UpdateWhere(p *Predicate) ConflictOption {
	return func(c *conflict) {
		c.action.where = p
	}
}

// OnConflict allows configuring the `ON CONFLICT` / `ON DUPLICATE KEY` clause
// of the `INSERT` statement.
func (i *InsertBuilder) OnConflict(opts ...ConflictOption) *InsertBuilder {
	if i.conflict == nil {
		i.conflict = &conflict{}
	}
	for _, opt := range opts {
		opt(i.conflict)
	}
	return i
}

// UpdateSet describes a set of changes of the `DO UPDATE` clause.
type UpdateSet struct {
	columns []string
	update  *UpdateBuilder
}

// Table returns the table the UPSERT statement is executed on.
func (u *UpdateSet) Table() *SelectTable {
	t := Table(u.update.table)
	t.SetDialect(u.update.dialect)
	return t
}

// Excluded returns the table view of the conflicting row
// proposed for insertion.
func (u *UpdateSet) Excluded() *SelectTable {
	t := Table("excluded")
	t.SetDialect(u.update.dialect)
	return t
}

// Columns returns the columns in the insert statement.
func (u *UpdateSet) Columns() []string {
	return u.columns
}

// UpdateColumns returns the columns in the update statement.
func (u *UpdateSet) UpdateColumns() []string {
	return append(u.update.nulls, u.update.columns...)
}

// Set sets a column to a given value.
func (u *UpdateSet) Set(column string, v any) *UpdateSet {
	u.update.Set(column, v)
	return u
}

// Add adds a numeric value to the given column.
func (u *UpdateSet) Add(column string, v any) *UpdateSet {
	u.update.Add(column, v)
	return u
}

// SetNull sets a column as null value.
func (u *UpdateSet) SetNull(column string) *UpdateSet {
	u.update.SetNull(column)
	return u
}

// SetIgnore sets the column to itself, keeping the current value.
func (u *UpdateSet) SetIgnore(name string) *UpdateSet {
	table := u.update.table
	return u.Set(name, ExprFunc(func(b *Builder) {
		b.Ident(table).WriteByte('.').Ident(name)
	}))
}

// SetExcluded sets the column name to its new proposed value.
func (u *UpdateSet) SetExcluded(name string) *UpdateSet {
	switch u.update.Dialect() {
	case dialect.MySQL:
		u.update.Set(name, ExprFunc(func(b *Builder) {
			b.WriteString("VALUES(").Ident(name).WriteByte(')')
		}))
	default:
		u.update.Set(name, ExprFunc(func(b *Builder) {
			b.Ident("excluded").WriteByte('.').Ident(name)
		}))
	}
	return u
}

func (i *InsertBuilder) writeConflict(b *Builder) {
	switch i.Dialect() {
	case dialect.MySQL:
		b.WriteString(" ON DUPLICATE KEY UPDATE ")
		if i.conflict.action.nothing {
			// No "DO NOTHING" on MySQL. Assign the first
			// column to itself to get the same behavior.
			b.Ident(i.columns[0]).WriteOp(OpEQ).Ident(i.columns[0])
			return
		}
	case dialect.SQLite, dialect.Postgres:
		b.WriteString(" ON CONFLICT")
		switch t := i.conflict.target; {
		case t.constraint != "" && len(t.columns) != 0:
			b.AddError(fmt.Errorf("duplicate CONFLICT clauses: %q, %q", t.constraint, t.columns))
		case t.constraint != "":
			b.WriteString(" ON CONSTRAINT ")
			b.Ident(t.constraint)
		case len(t.columns) != 0:
			b.WriteString(" (")
			b.IdentComma(t.columns...)
			b.WriteByte(')')
		}
		if i.conflict.action.nothing {
			b.WriteString(" DO NOTHING")
			return
		}
		b.WriteString(" DO UPDATE SET ")
	}
	if len(i.conflict.action.update) == 0 {
		b.AddError(errors.New("missing action for 'DO UPDATE SET' clause"))
		return
	}
	u := &UpdateSet{columns: i.columns, update: Dialect(i.dialect).Update(i.table)}
	for _, f := range i.conflict.action.update {
		f(u)
	}
	u.update.writeSetter(b)
	if p := i.conflict.action.where; p != nil {
		b.WriteString(" WHERE ")
		b.Join(p)
	}
}

// UpdateBuilder is a builder for the `UPDATE` statement.
type UpdateBuilder struct {
	Builder
	table     string
	schema    string
	where     *Predicate
	nulls     []string
	columns   []string
	returning []string
	values    []any
}

// Update creates a builder for the `UPDATE` statement.
//
//	Update("users").Set("name", "foo").Where(EQ("age", 10))
func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

// Schema sets the database name for the updated table.
func (u *UpdateBuilder) Schema(name string) *UpdateBuilder {
	u.schema = name
	return u
}

// Set sets a column to a given value. If `Set` was called before with
// the same column name, it overrides the value of the previous call.
func (u *UpdateBuilder) Set(column string, v any) *UpdateBuilder {
	for i := range u.columns {
		if column == u.columns[i] {
			u.values[i] = v
			return u
		}
	}
	u.columns = append(u.columns, column)
	u.values = append(u.values, v)
	return u
}

// Add adds a numeric value to the given column.
func (u *UpdateBuilder) Add(column string, v any) *UpdateBuilder {
	u.columns = append(u.columns, column)
	u.values = append(u.values, ExprFunc(func(b *Builder) {
		b.WriteString("COALESCE")
		b.Nested(func(nb *Builder) {
			nb.Ident(column).Comma().WriteByte('0')
		})
		b.WriteString(" + ")
		b.Arg(v)
	}))
	return u
}

// SetNull sets a column as null value.
func (u *UpdateBuilder) SetNull(column string) *UpdateBuilder {
	u.nulls = append(u.nulls, column)
	return u
}

// Where adds a where predicate for update statement.
func (u *UpdateBuilder) Where(p *Predicate) *UpdateBuilder {
	if u.where != nil {
		u.where = And(u.where, p)
	} else {
		u.where = p
	}
	return u
}

// Returning adds the `RETURNING` clause to the update statement.
// Supported by SQLite and PostgreSQL.
func (u *UpdateBuilder) Returning(columns ...string) *UpdateBuilder {
	u.returning = columns
	return u
}

// Empty reports whether this builder does not contain update changes.
func (u *UpdateBuilder) Empty() bool {
	return len(u.columns) == 0 && len(u.nulls) == 0
}

// Query returns query representation of an `UPDATE` statement.
func (u *UpdateBuilder) Query() (string, []any) {
	b := u.Builder.clone()
	b.WriteString("UPDATE ")
	if u.schema != "" {
		b.Ident(u.schema).WriteByte('.')
	}
	b.Ident(u.table).WriteString(" SET ")
	u.writeSetter(&b)
	if u.where != nil {
		b.WriteString(" WHERE ")
		b.Join(u.where)
	}
	joinReturning(u.returning, &b)
	return b.String(), b.args
}

// writeSetter writes the "SET" clause for the UPDATE statement.
func (u *UpdateBuilder) writeSetter(b *Builder) {
	for i, c := range u.nulls {
		if i > 0 {
			b.Comma()
		}
		b.Ident(c).WriteString(" = NULL")
	}
	if len(u.nulls) > 0 && len(u.columns) > 0 {
		b.Comma()
	}
	for i, c := range u.columns {
		if i > 0 {
			b.Comma()
		}
		b.Ident(c).WriteString(" = ")
		b.Arg(u.values[i])
	}
}

// DeleteBuilder is a builder for the `DELETE` statement.
type DeleteBuilder struct {
	Builder
	table  string
	schema string
	where  *Predicate
}

// Delete creates a builder for the `DELETE` statement.
//
//	Delete("users").Where(Or(EQ("name", "foo").And().EQ("age", 10), EQ("name", "bar")))
func Delete(table string) *DeleteBuilder {
	return &DeleteBuilder{table: table}
}

// Schema sets the database name for the table whose row will be deleted.
func (d *DeleteBuilder) Schema(name string) *DeleteBuilder {
	d.schema = name
	return d
}

// Where appends a where predicate to the `DELETE` statement.
func (d *DeleteBuilder) Where(p *Predicate) *DeleteBuilder {
	if d.where != nil {
		d.where = And(d.where, p)
	} else {
		d.where = p
	}
	return d
}

// Query returns query representation of a `DELETE` statement.
func (d *DeleteBuilder) Query() (string, []any) {
	b := d.Builder.clone()
	b.WriteString("DELETE FROM ")
	if d.schema != "" {
		b.Ident(d.schema).WriteByte('.')
	}
	b.Ident(d.table)
	if d.where != nil {
		b.WriteString(" WHERE ")
		b.Join(d.where)
	}
	return b.String(), b.args
}

// Predicate is a where predicate.
type Predicate struct {
	Builder
	depth int
	fns   []func(*Builder)
}

// P creates a new predicate.
//
//	P().EQ("name", "a8m").And().EQ("age", 30)
func P(fns ...func(*Builder)) *Predicate {
	return &Predicate{fns: fns}
}

// ExprP creates a new predicate from the given expression.
//
//	ExprP("A = ? AND B > ?", args...)
func ExprP(exp string, args ...any) *Predicate {
	return P(func(b *Builder) {
		b.Join(Expr(exp, args...))
	})
}

// ExprFunc returns an expression function that implements the Querier interface.
//
//	Update("users").
//		Set("x", ExprFunc(func(b *Builder) {
//			// The sql.Builder config (argc and dialect)
//			// was set before the function was executed.
//			b.Ident("x").WriteOp(OpAdd).Arg(1)
//		}))
func ExprFunc(fn func(*Builder)) Querier {
	return &exprFunc{fn: fn}
}

type exprFunc struct {
	Builder
	fn func(*Builder)
}

func (e *exprFunc) Query() (string, []any) {
	b := &Builder{dialect: e.dialect, total: e.total}
	e.fn(b)
	return b.String(), b.args
}

// Append appends a new function to the predicate callbacks.
// The callback list are executed on call to Query.
func (p *Predicate) Append(f func(*Builder)) *Predicate {
	p.fns = append(p.fns, f)
	return p
}

// And combines all given predicates with AND between them.
func And(preds ...*Predicate) *Predicate {
	preds = nonNil(preds)
	switch len(preds) {
	case 0:
		return nil
	case 1:
		return preds[0]
	}
	p := P()
	return p.Append(func(b *Builder) {
		p.mayWrap(preds, b, "AND")
	})
}

// Or combines all given predicates with OR between them.
// An empty list of predicates matches nothing.
func Or(preds ...*Predicate) *Predicate {
	preds = nonNil(preds)
	switch len(preds) {
	case 0:
		return False()
	case 1:
		return preds[0]
	}
	p := P()
	return p.Append(func(b *Builder) {
		p.mayWrap(preds, b, "OR")
	})
}

// Not wraps the given predicate with the not predicate.
//
//	Not(Or(EQ("name", "foo"), EQ("name", "bar")))
func Not(pred *Predicate) *Predicate {
	p := P()
	return p.Append(func(b *Builder) {
		b.WriteString("NOT ")
		p.append(b, pred)
	})
}

// False appends a predicate that matches no rows.
func False() *Predicate {
	return P(func(b *Builder) {
		b.WriteString("FALSE")
	})
}

func nonNil(preds []*Predicate) []*Predicate {
	ps := preds[:0]
	for _, p := range preds {
		if p != nil {
			ps = append(ps, p)
		}
	}
	return ps
}

// EQ returns a "=" predicate.
func EQ(col string, value any) *Predicate {
	return P(func(b *Builder) {
		b.Ident(col).WriteOp(OpEQ).Arg(value)
	})
}

// NEQ returns a "<>" predicate.
func NEQ(col string, value any) *Predicate {
	return P(func(b *Builder) {
		b.Ident(col).WriteOp(OpNEQ).Arg(value)
	})
}

// LT returns a "<" predicate.
func LT(col string, value any) *Predicate {
	return P(func(b *Builder) {
		b.Ident(col).WriteOp(OpLT).Arg(value)
	})
}

// LTE returns a "<=" predicate.
func LTE(col string, value any) *Predicate {
	return P(func(b *Builder) {
		b.Ident(col).WriteOp(OpLTE).Arg(value)
	})
}

// GT returns a ">" predicate.
func GT(col string, value any) *Predicate {
	return P(func(b *Builder) {
		b.Ident(col).WriteOp(OpGT).Arg(value)
	})
}

// GTE returns a ">=" predicate.
func GTE(col string, value any) *Predicate {
	return P(func(b *Builder) {
		b.Ident(col).WriteOp(OpGTE).Arg(value)
	})
}

// ColumnsEQ appends a "=" predicate between 2 columns.
func ColumnsEQ(col1, col2 string) *Predicate {
	return P(func(b *Builder) {
		b.Ident(col1).WriteOp(OpEQ).Ident(col2)
	})
}

// In returns the `IN` predicate.
// An empty list of values matches no rows.
func In(col string, args ...any) *Predicate {
	return P(func(b *Builder) {
		if len(args) == 0 {
			b.WriteString("FALSE")
			return
		}
		b.Ident(col).WriteOp(OpIn)
		b.Nested(func(nb *Builder) {
			nb.Args(args...)
		})
	})
}

// NotIn returns the `NOT IN` predicate.
// An empty list of values matches all rows.
func NotIn(col string, args ...any) *Predicate {
	return P(func(b *Builder) {
		if len(args) == 0 {
			b.WriteString("TRUE")
			return
		}
		b.Ident(col).WriteOp(OpNotIn)
		b.Nested(func(nb *Builder) {
			nb.Args(args...)
		})
	})
}

// Like returns the `LIKE` predicate.
func Like(col, pattern string) *Predicate {
	return P(func(b *Builder) {
		b.Ident(col).WriteOp(OpLike).Arg(pattern)
	})
}

// HasPrefix is a helper predicate that checks prefix using the LIKE predicate.
func HasPrefix(col, prefix string) *Predicate {
	return Like(col, escapeLike(prefix)+"%")
}

// HasSuffix is a helper predicate that checks suffix using the LIKE predicate.
func HasSuffix(col, suffix string) *Predicate {
	return Like(col, "%"+escapeLike(suffix))
}

// Contains is a helper predicate that checks substring using the LIKE predicate.
func Contains(col, sub string) *Predicate {
	return Like(col, "%"+escapeLike(sub)+"%")
}

// EqualFold is a helper predicate that applies the "=" predicate with case-folding.
func EqualFold(col, sub string) *Predicate {
	return P(func(b *Builder) {
		b.WriteString("LOWER(").Ident(col).WriteString(")")
		b.WriteOp(OpEQ)
		b.Arg(strings.ToLower(sub))
	})
}

// ContainsFold is a helper predicate that checks substring using the LIKE predicate with case-folding.
func ContainsFold(col, sub string) *Predicate {
	return P(func(b *Builder) {
		b.WriteString("LOWER(").Ident(col).WriteString(")")
		b.WriteOp(OpLike)
		b.Arg("%" + strings.ToLower(escapeLike(sub)) + "%")
	})
}

// escapeLike escapes the LIKE meta characters in the pattern chunk.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// IsNull returns the `IS NULL` predicate.
func IsNull(col string) *Predicate {
	return P(func(b *Builder) {
		b.Ident(col).WriteString(" IS NULL")
	})
}

// NotNull returns the `IS NOT NULL` predicate.
func NotNull(col string) *Predicate {
	return P(func(b *Builder) {
		b.Ident(col).WriteString(" IS NOT NULL")
	})
}

// clone returns a shallow clone of p.
func (p *Predicate) clone() *Predicate {
	if p == nil {
		return p
	}
	return &Predicate{fns: append([]func(*Builder){}, p.fns...)}
}

func (p *Predicate) append(b *Builder, pred *Predicate) {
	pred.depth = p.depth + 1
	if len(pred.fns) > 1 {
		b.Nested(func(nb *Builder) {
			nb.Join(pred)
		})
	} else {
		b.Join(pred)
	}
}

func (p *Predicate) mayWrap(preds []*Predicate, b *Builder, op string) {
	switch n := len(preds); {
	case n == 1:
		b.Join(preds[0])
		return
	case n > 1 && p.depth != 0:
		b.WriteByte('(')
		defer b.WriteByte(')')
	}
	for i := range preds {
		preds[i].depth = p.depth + 1
		if i > 0 {
			b.Pad().WriteString(op).Pad()
		}
		if len(preds[i].fns) > 1 {
			b.Nested(func(nb *Builder) {
				nb.Join(preds[i])
			})
		} else {
			b.Join(preds[i])
		}
	}
}

// Query returns query representation of a predicate.
func (p *Predicate) Query() (string, []any) {
	b := &Builder{dialect: p.dialect, total: p.total}
	for _, f := range p.fns {
		f(b)
	}
	p.total = b.total
	return b.String(), b.args
}

// Op represents an operator.
type Op int

// Predicate and arithmetic operators.
const (
	OpEQ    Op = iota // =
	OpNEQ             // <>
	OpGT              // >
	OpGTE             // >=
	OpLT              // <
	OpLTE             // <=
	OpIn              // IN
	OpNotIn           // NOT IN
	OpLike            // LIKE
	OpAdd             // +
	OpSub             // -
)

var ops = [...]string{
	OpEQ:    "=",
	OpNEQ:   "<>",
	OpGT:    ">",
	OpGTE:   ">=",
	OpLT:    "<",
	OpLTE:   "<=",
	OpIn:    "IN",
	OpNotIn: "NOT IN",
	OpLike:  "LIKE",
	OpAdd:   "+",
	OpSub:   "-",
}

// WriteOp writes an operator to the builder.
func (b *Builder) WriteOp(op Op) *Builder {
	switch {
	case op >= OpEQ && op <= OpLike || op == OpAdd || op == OpSub:
		b.Pad().WriteString(ops[op]).Pad()
	default:
		b.AddError(fmt.Errorf("invalid op %d", op))
	}
	return b
}
