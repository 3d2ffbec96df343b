// Package forma is a model-driven relational data engine. Entity shapes
// are declared once as Go schema definitions, and the engine derives
// typed operation handlers (create, read, update, delete, list, count,
// and upsert) plus the DDL needed to keep the database in step with the
// declarations, across PostgreSQL, MySQL and SQLite.
//
// A minimal definition:
//
//	type User struct {
//	    forma.Schema
//	}
//
//	func (User) Mixin() []forma.Mixin {
//	    return []forma.Mixin{mixin.ID{}, mixin.Time{}}
//	}
//
//	func (User) Fields() []forma.Field {
//	    return []forma.Field{
//	        field.String("name").NotEmpty(),
//	        field.String("email").Unique(),
//	    }
//	}
//
// Definitions are registered on a Registry, and handlers are derived
// from a Client bound to a database driver:
//
//	client := forma.New(drv, forma.WithRegistry(r))
//	h, err := client.Handler("user", forma.OpCreate)
package forma

import (
	"context"
	"slices"

	"github.com/formadb/forma/schema"
	"github.com/formadb/forma/schema/edge"
	"github.com/formadb/forma/schema/field"
	"github.com/formadb/forma/schema/index"
)

type (
	// Field is the interface implemented by the fluent builders
	// of the schema/field package.
	Field interface {
		Descriptor() *field.Descriptor
	}

	// Edge is the interface implemented by the builders of the
	// schema/edge package.
	Edge interface {
		Descriptor() *edge.Descriptor
	}

	// Index is the interface implemented by the builders of the
	// schema/index package.
	Index interface {
		Descriptor() *index.Descriptor
	}

	// Mixin is a composable piece of schema shared between entity
	// definitions. The engine flattens mixin fields, edges, indexes,
	// hooks and annotations into the definitions that embed them.
	Mixin interface {
		Fields() []Field
		Edges() []Edge
		Indexes() []Index
		Hooks() []Hook
		Interceptors() []Interceptor
		Policy() Policy
		Annotations() []schema.Annotation
	}

	// Definition is the interface implemented by entity definitions.
	// Embedding Schema provides defaults for every method, so concrete
	// definitions override only what they declare.
	Definition interface {
		Fields() []Field
		Edges() []Edge
		Indexes() []Index
		Mixin() []Mixin
		Hooks() []Hook
		Interceptors() []Interceptor
		Policy() Policy
		Annotations() []schema.Annotation
		Config() Config
	}
)

// Config holds optional per-definition configuration. Most settings
// live in annotations; Config covers the ones predating them.
type Config struct {
	// Table overrides the table name derived from the definition
	// type name.
	Table string
}

// Schema is the default implementation for Definition. Entity
// definitions embed it and override the methods they need.
type Schema struct{}

// Fields of the schema.
func (Schema) Fields() []Field { return nil }

// Edges of the schema.
func (Schema) Edges() []Edge { return nil }

// Indexes of the schema.
func (Schema) Indexes() []Index { return nil }

// Mixin of the schema.
func (Schema) Mixin() []Mixin { return nil }

// Hooks of the schema.
func (Schema) Hooks() []Hook { return nil }

// Interceptors of the schema.
func (Schema) Interceptors() []Interceptor { return nil }

// Policy of the schema.
func (Schema) Policy() Policy { return nil }

// Annotations of the schema.
func (Schema) Annotations() []schema.Annotation { return nil }

// Config of the schema.
func (Schema) Config() Config { return Config{} }

// View is embedded by read-only definitions. Entities defined on a
// View get query handlers only; deriving a mutation handler for them
// fails with a SchemaError.
type View struct {
	Schema
}

// Viewer is implemented by definitions that embed View.
type Viewer interface {
	view()
}

func (View) view() {}

var (
	_ Definition = (*Schema)(nil)
	_ Viewer     = (*View)(nil)
)

// Value is the result of a hooked mutation or an intercepted query.
type Value = any

type (
	// Mutation is the engine's description of a pending mutation,
	// passed through the hook chain before execution.
	Mutation interface {
		// Op returns the operation verb.
		Op() Op
		// Type returns the entity name the mutation operates on.
		Type() string
		// Fields returns the caller-supplied field values. Bulk
		// operations report the fields of the first input.
		Fields() Fieldmap
	}

	// Mutator is the interface hooks wrap. The innermost Mutator
	// executes the mutation against the database.
	Mutator interface {
		Mutate(context.Context, Mutation) (Value, error)
	}

	// MutateFunc is an adapter to allow the use of ordinary functions
	// as mutators.
	MutateFunc func(context.Context, Mutation) (Value, error)

	// Hook wraps a Mutator with additional behavior. Hooks run in
	// declaration order, outermost first.
	Hook func(Mutator) Mutator
)

// Mutate calls f(ctx, m).
func (f MutateFunc) Mutate(ctx context.Context, m Mutation) (Value, error) {
	return f(ctx, m)
}

type (
	// Query is the engine's description of a pending query, passed
	// through the interceptor chain before execution.
	Query interface {
		// Op returns the operation verb.
		Op() Op
		// Type returns the entity name the query operates on.
		Type() string
	}

	// Querier is the interface interceptors wrap. The innermost
	// Querier executes the query against the database.
	Querier interface {
		Query(context.Context, Query) (Value, error)
	}

	// QuerierFunc is an adapter to allow the use of ordinary functions
	// as queriers.
	QuerierFunc func(context.Context, Query) (Value, error)

	// Interceptor wraps a Querier with additional behavior.
	// Interceptors run in declaration order, outermost first.
	Interceptor interface {
		Intercept(Querier) Querier
	}

	// InterceptFunc is an adapter to allow the use of ordinary
	// functions as interceptors.
	InterceptFunc func(Querier) Querier

	// Traverser can inspect a query before it executes, without
	// changing its result.
	Traverser interface {
		Traverse(context.Context, Query) error
	}

	// TraverseFunc is an adapter to allow the use of ordinary
	// functions as traversers. It implements Interceptor as well:
	// the traversal runs first, and the query proceeds unchanged
	// unless it returns an error.
	TraverseFunc func(context.Context, Query) error
)

// Query calls f(ctx, q).
func (f QuerierFunc) Query(ctx context.Context, q Query) (Value, error) {
	return f(ctx, q)
}

// Intercept calls f(next).
func (f InterceptFunc) Intercept(next Querier) Querier {
	return f(next)
}

// Intercept returns a Querier that runs the traversal and then
// delegates to next.
func (f TraverseFunc) Intercept(next Querier) Querier {
	return QuerierFunc(func(ctx context.Context, q Query) (Value, error) {
		if err := f(ctx, q); err != nil {
			return nil, err
		}
		return next.Query(ctx, q)
	})
}

// Traverse calls f(ctx, q).
func (f TraverseFunc) Traverse(ctx context.Context, q Query) error {
	return f(ctx, q)
}

// Policy groups mutation and query authorization rules. The engine
// evaluates a definition's policy, when one is declared, before
// executing any operation on the entity. Rule semantics are entirely
// the caller's concern.
type Policy interface {
	// EvalMutation decides whether the mutation is allowed.
	EvalMutation(context.Context, Mutation) error
	// EvalQuery decides whether the query is allowed.
	EvalQuery(context.Context, Query) error
}

// QueryContext carries per-call query options through the context,
// such as a column projection for list operations.
type QueryContext struct {
	// Fields restricts the selected columns. Empty means all columns.
	Fields []string
	// Limit caps the number of rows when the input does not set one.
	Limit *int
}

type queryCtxKey struct{}

// NewQueryContext returns a copy of the parent context with the given
// QueryContext attached.
func NewQueryContext(parent context.Context, c *QueryContext) context.Context {
	return context.WithValue(parent, queryCtxKey{}, c)
}

// QueryFromContext returns the QueryContext stored in ctx, or nil
// if there is none.
func QueryFromContext(ctx context.Context) *QueryContext {
	c, _ := ctx.Value(queryCtxKey{}).(*QueryContext)
	return c
}

// Clone returns a deep copy of the query context.
func (c *QueryContext) Clone() *QueryContext {
	if c == nil {
		return nil
	}
	clone := *c
	clone.Fields = slices.Clone(c.Fields)
	if c.Limit != nil {
		l := *c.Limit
		clone.Limit = &l
	}
	return &clone
}

// AppendFieldOnce adds the field to the projection unless it is
// already present, and returns the context for chaining.
func (c *QueryContext) AppendFieldOnce(name string) *QueryContext {
	if !slices.Contains(c.Fields, name) {
		c.Fields = append(c.Fields, name)
	}
	return c
}

type tenantCtxKey struct{}

// WithTenant returns a copy of the parent context carrying the tenant
// key. Operations on tenant-scoped entities require it: mutations
// stamp the key into new rows and queries are restricted to it.
func WithTenant(parent context.Context, tenant string) context.Context {
	return context.WithValue(parent, tenantCtxKey{}, tenant)
}

// TenantFromContext returns the tenant key stored in ctx.
func TenantFromContext(ctx context.Context) (string, bool) {
	t, ok := ctx.Value(tenantCtxKey{}).(string)
	return t, ok
}
