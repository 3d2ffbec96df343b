package forma

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/formadb/forma/dialect"
	"github.com/formadb/forma/dialect/sql"
	"github.com/formadb/forma/dialect/sql/schema"
)

// DefaultBatchSize bounds bulk operations when WithBatchSize is not
// given.
const DefaultBatchSize = 100

// Client is the execution facade. It owns the driver, the registry and
// the derived-handler cache, and holds no other mutable state, so one
// client serves any number of goroutines.
type Client struct {
	driver     dialect.Driver
	registry   *Registry
	cache      Cache
	cacheTTL   time.Duration
	log        *slog.Logger
	debug      bool
	logQueries bool
	timeout    time.Duration
	batchSize  int

	mu       sync.Mutex
	handlers map[handlerKey]*Handler
}

type handlerKey struct {
	entity string
	op     Op
}

// Option configures a client.
type Option func(*Client)

// WithRegistry sets the registry the client derives handlers from.
// Without it the client starts an empty one.
func WithRegistry(r *Registry) Option {
	return func(c *Client) { c.registry = r }
}

// WithCache installs a read-result cache. Cached reads are dropped by
// entity prefix after every mutation.
func WithCache(cache Cache) Option {
	return func(c *Client) { c.cache = cache }
}

// WithCacheTTL bounds the lifetime of cached reads. Zero keeps entries
// until the next mutation of their entity.
func WithCacheTTL(d time.Duration) Option {
	return func(c *Client) { c.cacheTTL = d }
}

// WithBatchSize sets the number of rows per bulk transaction.
func WithBatchSize(n int) Option {
	return func(c *Client) { c.batchSize = n }
}

// WithTimeout sets the per-operation deadline. Zero leaves deadlines
// to the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the structured logger. Defaults to slog.Default.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// Debug turns on statement logging. A plain sql driver is wrapped in
// the debug driver; other drivers are logged by the handlers.
func Debug() Option {
	return func(c *Client) { c.debug = true }
}

// New returns a client running on the given driver.
func New(drv dialect.Driver, opts ...Option) *Client {
	c := &Client{
		driver:    drv,
		log:       slog.Default(),
		batchSize: DefaultBatchSize,
		handlers:  make(map[handlerKey]*Handler),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.registry == nil {
		c.registry = NewRegistry()
	}
	if c.batchSize <= 0 {
		c.batchSize = DefaultBatchSize
	}
	if c.debug {
		if drv, ok := c.driver.(*sql.Driver); ok {
			log := c.log
			c.driver = sql.NewDebugDriver(drv, sql.DebugWithLog(func(ctx context.Context, v ...any) {
				log.DebugContext(ctx, fmt.Sprint(v...))
			}))
		} else {
			c.logQueries = true
		}
	}
	return c
}

// Open opens a database connection and returns a client running on it.
func Open(driverName, source string, opts ...Option) (*Client, error) {
	drv, err := sql.Open(driverName, source)
	if err != nil {
		return nil, err
	}
	return New(drv, opts...), nil
}

// Register compiles the given definitions into the client's registry.
func (c *Client) Register(defs ...Definition) error {
	return c.registry.Register(defs...)
}

// Handler returns the handler executing op for the named entity,
// deriving it on first request. Unknown entities and operations fail
// with a QueryError, mutation handlers on views with a SchemaError.
// Deriving a handler freezes the entity's compiled form.
func (c *Client) Handler(entity string, op Op) (*Handler, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := handlerKey{entity: entity, op: op}
	if h, ok := c.handlers[key]; ok {
		return h, nil
	}
	ent, err := c.registry.Entity(entity)
	if err != nil {
		return nil, err
	}
	if !validOp(op) {
		return nil, NewQueryError(entity, op, errors.New("unknown operation"))
	}
	if ent.View && op.Is(OpsMutation) {
		return nil, NewSchemaError(entity, "", fmt.Sprintf("cannot derive %s for a view", op))
	}
	c.registry.seal(entity)
	h := &Handler{client: c, entity: ent, op: op}
	c.handlers[key] = h
	return h, nil
}

// validOp reports whether op names exactly one operation verb.
func validOp(op Op) bool {
	return op.Is(OpsAll) && op&(op-1) == 0
}

// DescribeEntity returns the compiled form of the named entity,
// implicit lifecycle fields included.
func (c *Client) DescribeEntity(name string) (*Entity, error) {
	return c.registry.Entity(name)
}

// Tables derives the schema tables of every registered entity, in
// registration order.
func (c *Client) Tables() ([]*schema.Table, error) {
	return Tables(c.registry.Entities()...)
}

// PlanMigration computes the steps that bring the connected database
// to the state of the registered entities.
func (c *Client) PlanMigration(ctx context.Context, opts ...schema.MigrateOption) (*schema.Plan, error) {
	tables, err := c.Tables()
	if err != nil {
		return nil, err
	}
	m, err := schema.NewMigrate(c.driver, opts...)
	if err != nil {
		return nil, err
	}
	return m.Plan(ctx, tables...)
}

// ValidateMigration vets a plan for destructive or long-running work.
// Only a plan whose report is safe can be executed.
func (c *Client) ValidateMigration(ctx context.Context, p *schema.Plan, opts ...schema.MigrateOption) (*schema.Report, error) {
	m, err := schema.NewMigrate(c.driver, opts...)
	if err != nil {
		return nil, err
	}
	return m.Validate(ctx, p), nil
}

// ExecuteMigration runs a validated plan. A failed plan keeps its
// completed steps marked and can be handed to RollbackMigration.
func (c *Client) ExecuteMigration(ctx context.Context, p *schema.Plan, opts ...schema.MigrateOption) (*schema.Result, error) {
	m, err := schema.NewMigrate(c.driver, opts...)
	if err != nil {
		return nil, err
	}
	return m.Execute(ctx, p)
}

// RollbackMigration reverses the completed steps of a failed plan,
// last one first. Rolling back is always an explicit decision, since
// partially backfilled values may be worth keeping.
func (c *Client) RollbackMigration(ctx context.Context, p *schema.Plan, opts ...schema.MigrateOption) (*schema.Result, error) {
	m, err := schema.NewMigrate(c.driver, opts...)
	if err != nil {
		return nil, err
	}
	return m.Rollback(ctx, p)
}

// CreateSchema plans, validates and executes in one call, refusing to
// run a plan whose validation reports issues. The registered entities
// pass a structural review before any database contact.
func (c *Client) CreateSchema(ctx context.Context, opts ...schema.MigrateOption) error {
	tables, err := c.Tables()
	if err != nil {
		return err
	}
	if vr := schema.ValidateSchema(tables); vr.HasErrors() {
		return fmt.Errorf("forma: invalid schema: %s", vr)
	} else if vr.HasWarnings() {
		for _, w := range vr.Warnings {
			c.log.Warn("schema review", "finding", w.Error())
		}
	}
	m, err := schema.NewMigrate(c.driver, opts...)
	if err != nil {
		return err
	}
	p, err := m.Plan(ctx, tables...)
	if err != nil {
		return err
	}
	if rep := m.Validate(ctx, p); !rep.IsSafe {
		return fmt.Errorf("forma: unsafe migration plan: %s", rep)
	}
	_, err = m.Execute(ctx, p)
	return err
}

// opContext applies the client's per-operation timeout.
func (c *Client) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

// Close releases the underlying driver.
func (c *Client) Close() error {
	return c.driver.Close()
}
