package forma

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

// Standard sentinel errors for common operations.
var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("forma: entity not found")

	// ErrNotSingular is returned when a query that expects exactly one result
	// returns zero or multiple results.
	ErrNotSingular = errors.New("forma: entity not singular")

	// ErrTxStarted is returned when attempting to start a new transaction
	// within an existing transaction.
	ErrTxStarted = errors.New("forma: cannot start a transaction within a transaction")
)

// NotFoundError represents an error when an entity is not found.
type NotFoundError struct {
	label string
	id    any // Optional: the ID that was searched for
}

// Error returns the error string.
func (e *NotFoundError) Error() string {
	if e.id != nil {
		return fmt.Sprintf("forma: %s not found (id=%v)", e.label, e.id)
	}
	return fmt.Sprintf("forma: %s not found", e.label)
}

// Is reports whether the target error matches NotFoundError.
// This allows errors.Is(notFoundErr, ErrNotFound) to return true.
func (e *NotFoundError) Is(err error) bool {
	return err == ErrNotFound
}

// Label returns the entity label.
func (e *NotFoundError) Label() string {
	return e.label
}

// ID returns the ID that was searched for, if available.
func (e *NotFoundError) ID() any {
	return e.id
}

// NewNotFoundError returns a new NotFoundError for the given entity type.
func NewNotFoundError(label string) *NotFoundError {
	return &NotFoundError{label: label}
}

// NewNotFoundErrorWithID returns a new NotFoundError with the ID that was searched for.
func NewNotFoundErrorWithID(label string, id any) *NotFoundError {
	return &NotFoundError{label: label, id: id}
}

// IsNotFound returns true if the error is a NotFoundError.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var e *NotFoundError
	return errors.As(err, &e) || errors.Is(err, ErrNotFound)
}

// NotSingularError represents an error when a query expects a singular result
// but receives zero or multiple results.
type NotSingularError struct {
	label string
	count int // Number of results returned (-1 if unknown)
}

// Error returns the error string.
func (e *NotSingularError) Error() string {
	if e.count >= 0 {
		return fmt.Sprintf("forma: %s not singular (got %d results, expected 1)", e.label, e.count)
	}
	return fmt.Sprintf("forma: %s not singular", e.label)
}

// Is reports whether the target error matches NotSingularError.
// This allows errors.Is(notSingularErr, ErrNotSingular) to return true.
func (e *NotSingularError) Is(err error) bool {
	return err == ErrNotSingular
}

// Label returns the entity label.
func (e *NotSingularError) Label() string {
	return e.label
}

// Count returns the number of results, or -1 if unknown.
func (e *NotSingularError) Count() int {
	return e.count
}

// NewNotSingularError returns a new NotSingularError for the given entity type.
func NewNotSingularError(label string) *NotSingularError {
	return &NotSingularError{label: label, count: -1}
}

// NewNotSingularErrorWithCount returns a new NotSingularError with the result count.
func NewNotSingularErrorWithCount(label string, count int) *NotSingularError {
	return &NotSingularError{label: label, count: count}
}

// IsNotSingular returns true if the error is a NotSingularError.
func IsNotSingular(err error) bool {
	if err == nil {
		return false
	}
	var e *NotSingularError
	return errors.As(err, &e) || errors.Is(err, ErrNotSingular)
}

// SchemaError reports an invalid entity definition: a missing or
// duplicated identity field, colliding field names, a conflicting
// lifecycle flag, or re-registration of a frozen entity.
type SchemaError struct {
	Entity string // Entity name
	Field  string // Offending field, if the error is field-scoped
	Reason string // Human-readable reason
}

// Error returns the error string.
func (e *SchemaError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("forma: schema %s.%s: %s", e.Entity, e.Field, e.Reason)
	}
	return fmt.Sprintf("forma: schema %s: %s", e.Entity, e.Reason)
}

// NewSchemaError returns a new SchemaError. Pass an empty field name
// for entity-scoped errors.
func NewSchemaError(entity, fieldName, reason string) *SchemaError {
	return &SchemaError{Entity: entity, Field: fieldName, Reason: reason}
}

// IsSchemaError returns true if the error is a SchemaError.
func IsSchemaError(err error) bool {
	if err == nil {
		return false
	}
	var e *SchemaError
	return errors.As(err, &e)
}

// ConflictSpecError reports an invalid upsert conflict specification,
// such as a conflict target that is neither the identity nor a declared
// unique constraint, or an update set naming immutable fields.
type ConflictSpecError struct {
	Entity string   // Entity name
	On     []string // The rejected conflict target
	Reason string   // Human-readable reason
}

// Error returns the error string.
func (e *ConflictSpecError) Error() string {
	if len(e.On) > 0 {
		return fmt.Sprintf("forma: upsert %s: conflict target [%s]: %s", e.Entity, strings.Join(e.On, ", "), e.Reason)
	}
	return fmt.Sprintf("forma: upsert %s: %s", e.Entity, e.Reason)
}

// NewConflictSpecError returns a new ConflictSpecError.
func NewConflictSpecError(entity string, on []string, reason string) *ConflictSpecError {
	return &ConflictSpecError{Entity: entity, On: on, Reason: reason}
}

// IsConflictSpecError returns true if the error is a ConflictSpecError.
func IsConflictSpecError(err error) bool {
	if err == nil {
		return false
	}
	var e *ConflictSpecError
	return errors.As(err, &e)
}

// ConstraintError represents a database constraint violation error.
type ConstraintError struct {
	msg  string
	wrap error
}

// Error returns the error string.
func (e ConstraintError) Error() string {
	return fmt.Sprintf("forma: constraint failed: %s", e.msg)
}

// Unwrap returns the underlying error.
func (e ConstraintError) Unwrap() error {
	return e.wrap
}

// NewConstraintError returns a new ConstraintError with the given message.
func NewConstraintError(msg string, wrap error) error {
	return ConstraintError{msg: msg, wrap: wrap}
}

// IsConstraintError returns true if the error is a ConstraintError or
// a database constraint violation reported by the driver.
func IsConstraintError(err error) bool {
	if err == nil {
		return false
	}
	var e ConstraintError
	return errors.As(err, &e) ||
		IsUniqueConstraintError(err) ||
		IsForeignKeyConstraintError(err) ||
		IsCheckConstraintError(err)
}

// ValidationError represents a validation error for field values.
type ValidationError struct {
	Name string // Field or entity name
	Err  error  // Underlying validation error
}

// Error returns the error string.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("forma: validator failed for field %q: %s", e.Name, e.Err)
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError returns a new ValidationError for the given field.
func NewValidationError(name string, err error) *ValidationError {
	return &ValidationError{Name: name, Err: err}
}

// IsValidationError returns true if the error is a ValidationError.
func IsValidationError(err error) bool {
	if err == nil {
		return false
	}
	var e *ValidationError
	return errors.As(err, &e)
}

// RollbackError wraps an error that occurred during a transaction rollback.
type RollbackError struct {
	Err error // Original error that triggered rollback
}

// Error returns the error string.
func (e *RollbackError) Error() string {
	return fmt.Sprintf("forma: rollback failed: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *RollbackError) Unwrap() error {
	return e.Err
}

// AggregateError represents multiple errors collected during an operation.
type AggregateError struct {
	Errors []error
}

// Error returns the error string.
func (e *AggregateError) Error() string {
	if len(e.Errors) == 0 {
		return "forma: no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	sb.WriteString("forma: multiple errors:")
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "\n  [%d] %v", i+1, err)
	}
	return sb.String()
}

// NewAggregateError returns a new AggregateError if there are errors,
// otherwise returns nil.
func NewAggregateError(errs ...error) error {
	var filtered []error
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &AggregateError{Errors: filtered}
}

// QueryError wraps a query error with additional context, such as an
// unknown field in a filter or an undeclared sort column.
type QueryError struct {
	Entity string // Entity type being queried
	Op     Op     // Operation verb, if known
	Err    error  // Underlying error
}

// Error returns the error string.
func (e *QueryError) Error() string {
	if e.Op != 0 {
		return fmt.Sprintf("forma: querying %s (%s): %v", e.Entity, e.Op, e.Err)
	}
	return fmt.Sprintf("forma: querying %s: %v", e.Entity, e.Err)
}

// Unwrap returns the underlying error.
func (e *QueryError) Unwrap() error {
	return e.Err
}

// NewQueryError returns a new QueryError.
func NewQueryError(entity string, op Op, err error) *QueryError {
	return &QueryError{Entity: entity, Op: op, Err: err}
}

// IsQueryError returns true if the error is a QueryError.
func IsQueryError(err error) bool {
	if err == nil {
		return false
	}
	var e *QueryError
	return errors.As(err, &e)
}

// ExecutionError reports a failure while executing a derived handler.
// For bulk operations, Batch is the zero-based index of the failing
// batch; work committed by earlier batches stays in place.
type ExecutionError struct {
	Entity string // Entity being operated on
	Op     Op     // Operation verb
	Batch  int    // Failing batch index, or -1 when not applicable
	Err    error  // Underlying error
}

// Error returns the error string.
func (e *ExecutionError) Error() string {
	if e.Batch >= 0 {
		return fmt.Sprintf("forma: %s %s: batch %d: %v", e.Op, e.Entity, e.Batch, e.Err)
	}
	return fmt.Sprintf("forma: %s %s: %v", e.Op, e.Entity, e.Err)
}

// Unwrap returns the underlying error.
func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// NewExecutionError returns a new ExecutionError. Pass batch -1 for
// non-bulk operations.
func NewExecutionError(entity string, op Op, batch int, err error) *ExecutionError {
	return &ExecutionError{Entity: entity, Op: op, Batch: batch, Err: err}
}

// IsExecutionError returns true if the error is an ExecutionError.
func IsExecutionError(err error) bool {
	if err == nil {
		return false
	}
	var e *ExecutionError
	return errors.As(err, &e)
}

// TimeoutError reports an operation cancelled by its deadline.
type TimeoutError struct {
	Op  Op    // Operation verb
	Err error // Underlying context error
}

// Error returns the error string.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("forma: %s timed out: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// Is reports whether the target error matches TimeoutError.
// This allows errors.Is(timeoutErr, context.DeadlineExceeded) to return true.
func (e *TimeoutError) Is(err error) bool {
	return err == context.DeadlineExceeded
}

// NewTimeoutError returns a new TimeoutError.
func NewTimeoutError(op Op, err error) *TimeoutError {
	return &TimeoutError{Op: op, Err: err}
}

// IsTimeout returns true if the error is a TimeoutError.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	var e *TimeoutError
	return errors.As(err, &e)
}

// errorCoder is an interface for database errors that expose a string
// error code.
type errorCoder interface {
	Code() string
}

// errorNumberer is an interface for database errors that expose a
// numeric error code.
type errorNumberer interface {
	Number() uint16
}

// sqlStateError is an interface for errors that expose a SQLSTATE
// code. Implemented by pq.Error and pgx.
type sqlStateError interface {
	SQLState() string
}

// PostgreSQL SQLSTATE codes for constraint violations (Class 23).
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// MySQL error numbers for constraint violations.
const (
	mysqlDuplicateEntry         = 1062
	mysqlForeignKeyParent       = 1451 // Cannot delete or update a parent row
	mysqlForeignKeyChild        = 1452 // Cannot add or update a child row
	mysqlCheckConstraintViolate = 3819
)

// sqlstate extracts the SQLSTATE code carried by a Postgres error.
func sqlstate(err error) (string, bool) {
	var pqe *pq.Error
	if errors.As(err, &pqe) {
		return string(pqe.Code), true
	}
	if e, ok := asError[sqlStateError](err); ok {
		return e.SQLState(), true
	}
	if e, ok := asError[errorCoder](err); ok {
		return e.Code(), true
	}
	return "", false
}

// mysqlNumber extracts the error number carried by a MySQL error.
// MySQLError exposes the number as a struct field, so the concrete
// type is matched before the interface probe.
func mysqlNumber(err error) (uint16, bool) {
	var mye *mysql.MySQLError
	if errors.As(err, &mye) {
		return mye.Number, true
	}
	if e, ok := asError[errorNumberer](err); ok {
		return e.Number(), true
	}
	return 0, false
}

// IsUniqueConstraintError reports if the error resulted from a DB uniqueness constraint violation.
// e.g. duplicate value in unique index.
func IsUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if state, ok := sqlstate(err); ok && state == pgUniqueViolation {
		return true
	}
	if num, ok := mysqlNumber(err); ok && num == mysqlDuplicateEntry {
		return true
	}

	// Fallback to string matching for drivers that don't implement interfaces
	return containsAny(err.Error(),
		"Error 1062",                 // MySQL (string fallback)
		"violates unique constraint", // Postgres (string fallback)
		"UNIQUE constraint failed",   // SQLite
	)
}

// IsForeignKeyConstraintError reports if the error resulted from a database foreign-key constraint violation.
// e.g. parent row does not exist.
func IsForeignKeyConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if state, ok := sqlstate(err); ok && state == pgForeignKeyViolation {
		return true
	}
	if num, ok := mysqlNumber(err); ok && (num == mysqlForeignKeyParent || num == mysqlForeignKeyChild) {
		return true
	}

	// Fallback to string matching for drivers that don't implement interfaces
	return containsAny(err.Error(),
		"Error 1451",                      // MySQL (Cannot delete or update a parent row)
		"Error 1452",                      // MySQL (Cannot add or update a child row)
		"violates foreign key constraint", // Postgres
		"FOREIGN KEY constraint failed",   // SQLite
	)
}

// IsCheckConstraintError reports if the error resulted from a database check constraint violation.
// e.g. a value does not satisfy a check condition.
func IsCheckConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if state, ok := sqlstate(err); ok && state == pgCheckViolation {
		return true
	}
	if num, ok := mysqlNumber(err); ok && num == mysqlCheckConstraintViolate {
		return true
	}

	// Fallback to string matching for drivers that don't implement interfaces
	return containsAny(err.Error(),
		"Error 3819",                // MySQL
		"violates check constraint", // Postgres
		"CHECK constraint failed",   // SQLite
	)
}

// classifyConstraint wraps driver constraint violations in a
// ConstraintError and returns all other errors unchanged.
func classifyConstraint(err error) error {
	switch {
	case err == nil:
		return nil
	case IsUniqueConstraintError(err):
		return NewConstraintError("unique", err)
	case IsForeignKeyConstraintError(err):
		return NewConstraintError("foreign key", err)
	case IsCheckConstraintError(err):
		return NewConstraintError("check", err)
	default:
		return err
	}
}

// asError attempts to extract an error implementing interface T from the error chain.
func asError[T any](err error) (T, bool) {
	var target T
	for err != nil {
		if e, ok := err.(T); ok {
			return e, true
		}
		err = errors.Unwrap(err)
	}
	return target, false
}

// containsAny returns true if s contains any of the substrings.
func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
