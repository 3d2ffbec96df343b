package forma_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formadb/forma"
)

func TestNotFoundError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := forma.NewNotFoundError("User")
		assert.Equal(t, "forma: User not found", err.Error())
	})

	t.Run("ErrorWithID", func(t *testing.T) {
		err := forma.NewNotFoundErrorWithID("User", 42)
		assert.Equal(t, "forma: User not found (id=42)", err.Error())
		assert.Equal(t, 42, err.ID())
	})

	t.Run("Is", func(t *testing.T) {
		err := forma.NewNotFoundError("Post")
		assert.True(t, errors.Is(err, forma.ErrNotFound))
	})

	t.Run("IsNotFound", func(t *testing.T) {
		err := forma.NewNotFoundError("Comment")
		assert.True(t, forma.IsNotFound(err))

		// Wrapped error
		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, forma.IsNotFound(wrapped))

		// Sentinel error
		assert.True(t, forma.IsNotFound(forma.ErrNotFound))

		// Non-matching error
		assert.False(t, forma.IsNotFound(errors.New("other error")))
		assert.False(t, forma.IsNotFound(nil))
	})
}

func TestNotSingularError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := forma.NewNotSingularError("User")
		assert.Equal(t, "forma: User not singular", err.Error())
	})

	t.Run("ErrorWithCount", func(t *testing.T) {
		err := forma.NewNotSingularErrorWithCount("User", 2)
		assert.Equal(t, "forma: User not singular (got 2 results, expected 1)", err.Error())
	})

	t.Run("Is", func(t *testing.T) {
		err := forma.NewNotSingularError("Post")
		assert.True(t, errors.Is(err, forma.ErrNotSingular))
	})

	t.Run("IsNotSingular", func(t *testing.T) {
		err := forma.NewNotSingularError("Comment")
		assert.True(t, forma.IsNotSingular(err))

		// Wrapped error
		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, forma.IsNotSingular(wrapped))

		// Sentinel error
		assert.True(t, forma.IsNotSingular(forma.ErrNotSingular))

		// Non-matching error
		assert.False(t, forma.IsNotSingular(errors.New("other error")))
		assert.False(t, forma.IsNotSingular(nil))
	})
}

func TestSchemaError(t *testing.T) {
	t.Run("FieldScoped", func(t *testing.T) {
		err := forma.NewSchemaError("users", "email", "duplicate field name")
		assert.Equal(t, "forma: schema users.email: duplicate field name", err.Error())
	})

	t.Run("EntityScoped", func(t *testing.T) {
		err := forma.NewSchemaError("users", "", "no identity field declared")
		assert.Equal(t, "forma: schema users: no identity field declared", err.Error())
	})

	t.Run("IsSchemaError", func(t *testing.T) {
		err := forma.NewSchemaError("users", "", "frozen")
		assert.True(t, forma.IsSchemaError(err))

		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, forma.IsSchemaError(wrapped))

		assert.False(t, forma.IsSchemaError(errors.New("other error")))
		assert.False(t, forma.IsSchemaError(nil))
	})
}

func TestConflictSpecError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := forma.NewConflictSpecError("users", []string{"email"}, "not a unique constraint")
		assert.Equal(t, "forma: upsert users: conflict target [email]: not a unique constraint", err.Error())
	})

	t.Run("NoTarget", func(t *testing.T) {
		err := forma.NewConflictSpecError("users", nil, "empty conflict target")
		assert.Equal(t, "forma: upsert users: empty conflict target", err.Error())
	})

	t.Run("IsConflictSpecError", func(t *testing.T) {
		err := forma.NewConflictSpecError("users", []string{"a", "b"}, "bad")
		assert.True(t, forma.IsConflictSpecError(err))

		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, forma.IsConflictSpecError(wrapped))

		assert.False(t, forma.IsConflictSpecError(errors.New("other error")))
		assert.False(t, forma.IsConflictSpecError(nil))
	})
}

func TestConstraintError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := forma.NewConstraintError("UNIQUE constraint failed", nil)
		assert.Equal(t, "forma: constraint failed: UNIQUE constraint failed", err.Error())
	})

	t.Run("Unwrap", func(t *testing.T) {
		underlying := errors.New("db error")
		err := forma.NewConstraintError("constraint violated", underlying)
		assert.True(t, errors.Is(err, underlying))
	})

	t.Run("IsConstraintError", func(t *testing.T) {
		err := forma.NewConstraintError("check failed", nil)
		assert.True(t, forma.IsConstraintError(err))

		// Wrapped error
		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, forma.IsConstraintError(wrapped))

		// Non-matching error
		assert.False(t, forma.IsConstraintError(errors.New("other error")))
		assert.False(t, forma.IsConstraintError(nil))
	})
}

// pgError mimics lib/pq errors carrying a SQLSTATE code.
type pgError struct {
	state string
}

func (e *pgError) Error() string    { return "pq: violation" }
func (e *pgError) SQLState() string { return e.state }

// mysqlError mimics go-sql-driver/mysql errors carrying an error number.
type mysqlError struct {
	num uint16
}

func (e *mysqlError) Error() string  { return fmt.Sprintf("mysql: error %d", e.num) }
func (e *mysqlError) Number() uint16 { return e.num }

func TestConstraintClassification(t *testing.T) {
	t.Run("Unique", func(t *testing.T) {
		assert.True(t, forma.IsUniqueConstraintError(&pgError{state: "23505"}))
		assert.True(t, forma.IsUniqueConstraintError(&mysqlError{num: 1062}))
		assert.True(t, forma.IsUniqueConstraintError(errors.New("UNIQUE constraint failed: users.email")))
		assert.True(t, forma.IsUniqueConstraintError(fmt.Errorf("exec: %w", &pgError{state: "23505"})))
		assert.False(t, forma.IsUniqueConstraintError(&pgError{state: "23503"}))
		assert.False(t, forma.IsUniqueConstraintError(nil))
	})

	t.Run("ForeignKey", func(t *testing.T) {
		assert.True(t, forma.IsForeignKeyConstraintError(&pgError{state: "23503"}))
		assert.True(t, forma.IsForeignKeyConstraintError(&mysqlError{num: 1451}))
		assert.True(t, forma.IsForeignKeyConstraintError(&mysqlError{num: 1452}))
		assert.True(t, forma.IsForeignKeyConstraintError(errors.New("FOREIGN KEY constraint failed")))
		assert.False(t, forma.IsForeignKeyConstraintError(&mysqlError{num: 1062}))
	})

	t.Run("Check", func(t *testing.T) {
		assert.True(t, forma.IsCheckConstraintError(&pgError{state: "23514"}))
		assert.True(t, forma.IsCheckConstraintError(&mysqlError{num: 3819}))
		assert.True(t, forma.IsCheckConstraintError(errors.New("CHECK constraint failed: age_positive")))
		assert.False(t, forma.IsCheckConstraintError(errors.New("other error")))
	})

	t.Run("IsConstraintError_driver", func(t *testing.T) {
		// Driver errors classify without being wrapped in ConstraintError.
		assert.True(t, forma.IsConstraintError(&pgError{state: "23505"}))
		assert.True(t, forma.IsConstraintError(&mysqlError{num: 1451}))
		assert.False(t, forma.IsConstraintError(errors.New("other error")))
	})

	t.Run("DriverTypes", func(t *testing.T) {
		// pq.Error messages don't repeat the SQLSTATE, so classification
		// must come from the Code field, not the string fallback.
		assert.True(t, forma.IsUniqueConstraintError(&pq.Error{Code: "23505", Message: "duplicate key value"}))
		assert.True(t, forma.IsForeignKeyConstraintError(&pq.Error{Code: "23503", Message: "insert on table posts"}))
		assert.True(t, forma.IsCheckConstraintError(&pq.Error{Code: "23514", Message: "row violates row security"}))
		assert.False(t, forma.IsForeignKeyConstraintError(&pq.Error{Code: "23505"}))

		// MySQLError carries Number as a struct field rather than a method.
		assert.True(t, forma.IsUniqueConstraintError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'a@b.c' for key 'users.email'"}))
		assert.True(t, forma.IsForeignKeyConstraintError(&mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"}))
		assert.True(t, forma.IsCheckConstraintError(&mysql.MySQLError{Number: 3819, Message: "Check constraint 'chk_age' is violated."}))
		assert.False(t, forma.IsUniqueConstraintError(&mysql.MySQLError{Number: 1054, Message: "Unknown column"}))

		// Wrapped driver errors still classify.
		assert.True(t, forma.IsUniqueConstraintError(fmt.Errorf("create user: %w", &pq.Error{Code: "23505"})))
		assert.True(t, forma.IsConstraintError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := forma.NewValidationError("email", errors.New("invalid format"))
		assert.Equal(t, `forma: validator failed for field "email": invalid format`, err.Error())
	})

	t.Run("Unwrap", func(t *testing.T) {
		underlying := errors.New("too short")
		err := forma.NewValidationError("name", underlying)
		assert.True(t, errors.Is(err, underlying))
	})

	t.Run("IsValidationError", func(t *testing.T) {
		err := forma.NewValidationError("age", errors.New("must be positive"))
		assert.True(t, forma.IsValidationError(err))

		// Wrapped error
		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, forma.IsValidationError(wrapped))

		// Non-matching error
		assert.False(t, forma.IsValidationError(errors.New("other error")))
		assert.False(t, forma.IsValidationError(nil))
	})
}

func TestRollbackError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := &forma.RollbackError{Err: errors.New("connection lost")}
		assert.Equal(t, "forma: rollback failed: connection lost", err.Error())
	})

	t.Run("Unwrap", func(t *testing.T) {
		underlying := errors.New("timeout")
		err := &forma.RollbackError{Err: underlying}
		assert.True(t, errors.Is(err, underlying))
	})
}

func TestAggregateError(t *testing.T) {
	t.Run("NoErrors", func(t *testing.T) {
		err := forma.NewAggregateError()
		assert.Nil(t, err)
	})

	t.Run("NilErrors", func(t *testing.T) {
		err := forma.NewAggregateError(nil, nil, nil)
		assert.Nil(t, err)
	})

	t.Run("SingleError", func(t *testing.T) {
		single := errors.New("single error")
		err := forma.NewAggregateError(single)
		assert.Equal(t, single, err)
	})

	t.Run("MultipleErrors", func(t *testing.T) {
		err1 := errors.New("error 1")
		err2 := errors.New("error 2")
		err := forma.NewAggregateError(err1, err2)

		require.NotNil(t, err)
		assert.Contains(t, err.Error(), "multiple errors")
		assert.Contains(t, err.Error(), "error 1")
		assert.Contains(t, err.Error(), "error 2")
	})

	t.Run("MixedNilAndErrors", func(t *testing.T) {
		err1 := errors.New("error 1")
		err := forma.NewAggregateError(nil, err1, nil)

		require.NotNil(t, err)
		assert.Equal(t, err1, err) // Single non-nil error returned directly
	})
}

func TestQueryError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := forma.NewQueryError("users", forma.OpList, errors.New("unknown field"))
		assert.Equal(t, "forma: querying users (OpList): unknown field", err.Error())
	})

	t.Run("NoOp", func(t *testing.T) {
		err := forma.NewQueryError("users", 0, errors.New("boom"))
		assert.Equal(t, "forma: querying users: boom", err.Error())
	})

	t.Run("Unwrap", func(t *testing.T) {
		underlying := errors.New("bad filter")
		err := forma.NewQueryError("users", forma.OpCount, underlying)
		assert.True(t, errors.Is(err, underlying))
		assert.True(t, forma.IsQueryError(err))
		assert.False(t, forma.IsQueryError(nil))
	})
}

func TestExecutionError(t *testing.T) {
	t.Run("WithBatch", func(t *testing.T) {
		err := forma.NewExecutionError("users", forma.OpCreateBulk, 3, errors.New("boom"))
		assert.Equal(t, "forma: OpCreateBulk users: batch 3: boom", err.Error())
	})

	t.Run("NoBatch", func(t *testing.T) {
		err := forma.NewExecutionError("users", forma.OpUpdate, -1, errors.New("boom"))
		assert.Equal(t, "forma: OpUpdate users: boom", err.Error())
	})

	t.Run("Unwrap", func(t *testing.T) {
		underlying := errors.New("disk full")
		err := forma.NewExecutionError("users", forma.OpCreate, -1, underlying)
		assert.True(t, errors.Is(err, underlying))
		assert.True(t, forma.IsExecutionError(err))
		assert.False(t, forma.IsExecutionError(errors.New("other")))
	})
}

func TestTimeoutError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := forma.NewTimeoutError(forma.OpList, context.DeadlineExceeded)
		assert.Equal(t, "forma: OpList timed out: context deadline exceeded", err.Error())
	})

	t.Run("IsDeadlineExceeded", func(t *testing.T) {
		err := forma.NewTimeoutError(forma.OpCount, context.DeadlineExceeded)
		assert.True(t, errors.Is(err, context.DeadlineExceeded))
		assert.True(t, forma.IsTimeout(err))
		assert.False(t, forma.IsTimeout(context.DeadlineExceeded))
	})
}

func TestSentinelErrors(t *testing.T) {
	t.Run("ErrNotFound", func(t *testing.T) {
		assert.Error(t, forma.ErrNotFound)
		assert.Contains(t, forma.ErrNotFound.Error(), "not found")
	})

	t.Run("ErrNotSingular", func(t *testing.T) {
		assert.Error(t, forma.ErrNotSingular)
		assert.Contains(t, forma.ErrNotSingular.Error(), "not singular")
	})

	t.Run("ErrTxStarted", func(t *testing.T) {
		assert.Error(t, forma.ErrTxStarted)
		assert.Contains(t, forma.ErrTxStarted.Error(), "transaction")
	})
}

// BenchmarkErrors benchmarks error creation and checking.
func BenchmarkErrors(b *testing.B) {
	b.Run("NewNotFoundError", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = forma.NewNotFoundError("User")
		}
	})

	b.Run("IsNotFound", func(b *testing.B) {
		err := forma.NewNotFoundError("User")
		for i := 0; i < b.N; i++ {
			_ = forma.IsNotFound(err)
		}
	})

	b.Run("NewConstraintError", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = forma.NewConstraintError("unique", nil)
		}
	})

	b.Run("IsConstraintError", func(b *testing.B) {
		err := forma.NewConstraintError("unique", nil)
		for i := 0; i < b.N; i++ {
			_ = forma.IsConstraintError(err)
		}
	})

	b.Run("NewValidationError", func(b *testing.B) {
		underlying := errors.New("invalid")
		for i := 0; i < b.N; i++ {
			_ = forma.NewValidationError("field", underlying)
		}
	})

	b.Run("NewAggregateError_multiple", func(b *testing.B) {
		err1 := errors.New("err1")
		err2 := errors.New("err2")
		err3 := errors.New("err3")
		for i := 0; i < b.N; i++ {
			_ = forma.NewAggregateError(err1, err2, err3)
		}
	})
}
