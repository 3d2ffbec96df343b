package forma_test

import (
	"context"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formadb/forma"
)

// TestSchemaDefaultMethods tests the default implementations of Schema methods.
func TestSchemaDefaultMethods(t *testing.T) {
	t.Parallel()

	type TestSchema struct {
		forma.Schema
	}

	s := TestSchema{}

	// All default implementations should return nil or empty values
	assert.Nil(t, s.Fields())
	assert.Nil(t, s.Edges())
	assert.Nil(t, s.Indexes())
	assert.Equal(t, forma.Config{}, s.Config())
	assert.Nil(t, s.Mixin())
	assert.Nil(t, s.Hooks())
	assert.Nil(t, s.Interceptors())
	assert.Nil(t, s.Policy())
	assert.Nil(t, s.Annotations())
}

// TestView tests the View struct.
func TestView(t *testing.T) {
	t.Parallel()

	type TestView struct {
		forma.View
	}

	v := TestView{}

	// View embeds Schema, so it should have the same default methods
	assert.Nil(t, v.Fields())
	assert.Nil(t, v.Edges())

	// Test that View implements Viewer interface
	var _ forma.Viewer = v
}

// TestMutateFunc tests the MutateFunc adapter.
func TestMutateFunc(t *testing.T) {
	t.Parallel()

	called := false
	expectedValue := "result"

	f := forma.MutateFunc(func(_ context.Context, _ forma.Mutation) (forma.Value, error) {
		called = true
		return expectedValue, nil
	})

	ctx := context.Background()
	result, err := f.Mutate(ctx, nil)

	assert.True(t, called)
	assert.NoError(t, err)
	assert.Equal(t, expectedValue, result)
}

// TestQuerierFunc tests the QuerierFunc adapter.
func TestQuerierFunc(t *testing.T) {
	t.Parallel()

	called := false
	expectedValue := []string{"a", "b", "c"}

	f := forma.QuerierFunc(func(_ context.Context, _ forma.Query) (forma.Value, error) {
		called = true
		return expectedValue, nil
	})

	ctx := context.Background()
	result, err := f.Query(ctx, nil)

	assert.True(t, called)
	assert.NoError(t, err)
	assert.Equal(t, expectedValue, result)
}

// TestInterceptFunc tests the InterceptFunc adapter.
func TestInterceptFunc(t *testing.T) {
	t.Parallel()

	innerCalled := false

	innerQuerier := forma.QuerierFunc(func(_ context.Context, _ forma.Query) (forma.Value, error) {
		innerCalled = true
		return "inner result", nil
	})

	interceptorCalled := false
	f := forma.InterceptFunc(func(next forma.Querier) forma.Querier {
		interceptorCalled = true
		return next
	})

	wrapped := f.Intercept(innerQuerier)
	assert.True(t, interceptorCalled)

	// Execute the wrapped querier
	ctx := context.Background()
	result, err := wrapped.Query(ctx, nil)

	assert.True(t, innerCalled)
	assert.NoError(t, err)
	assert.Equal(t, "inner result", result)
}

// TestTraverseFunc tests the TraverseFunc adapter.
func TestTraverseFunc(t *testing.T) {
	t.Parallel()

	t.Run("Traverse", func(t *testing.T) {
		t.Parallel()

		called := false

		f := forma.TraverseFunc(func(_ context.Context, _ forma.Query) error {
			called = true
			return nil
		})

		ctx := context.Background()
		err := f.Traverse(ctx, nil)

		assert.True(t, called)
		assert.NoError(t, err)
	})

	t.Run("Intercept", func(t *testing.T) {
		t.Parallel()

		// TraverseFunc.Intercept runs the traversal, then the next querier.
		innerQuerier := forma.QuerierFunc(func(_ context.Context, _ forma.Query) (forma.Value, error) {
			return "result", nil
		})

		traversed := false
		f := forma.TraverseFunc(func(_ context.Context, _ forma.Query) error {
			traversed = true
			return nil
		})

		wrapped := f.Intercept(innerQuerier)
		ctx := context.Background()
		result, err := wrapped.Query(ctx, nil)

		assert.True(t, traversed)
		assert.NoError(t, err)
		assert.Equal(t, "result", result)
	})

	t.Run("InterceptError", func(t *testing.T) {
		t.Parallel()

		// A failing traversal stops the query.
		innerCalled := false
		innerQuerier := forma.QuerierFunc(func(_ context.Context, _ forma.Query) (forma.Value, error) {
			innerCalled = true
			return "result", nil
		})

		f := forma.TraverseFunc(func(_ context.Context, _ forma.Query) error {
			return assert.AnError
		})

		wrapped := f.Intercept(innerQuerier)
		_, err := wrapped.Query(context.Background(), nil)

		assert.False(t, innerCalled)
		assert.ErrorIs(t, err, assert.AnError)
	})
}

// TestOpIs tests the Op.Is method.
// Note: Op.Is uses bitwise AND, so each Op is unique (they're bit flags).
func TestOpIs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		op       forma.Op
		check    forma.Op
		expected bool
	}{
		{"Create is Create", forma.OpCreate, forma.OpCreate, true},
		{"Create is not Update", forma.OpCreate, forma.OpUpdate, false},
		{"Update is Update", forma.OpUpdate, forma.OpUpdate, true},
		{"Upsert is Upsert", forma.OpUpsert, forma.OpUpsert, true},
		{"Upsert is not Update", forma.OpUpsert, forma.OpUpdate, false},
		{"Delete is Delete", forma.OpDelete, forma.OpDelete, true},
		{"List is not Count", forma.OpList, forma.OpCount, false},
		{"CreateBulk is not Create", forma.OpCreateBulk, forma.OpCreate, false},
		{"Create is a mutation", forma.OpCreate, forma.OpsMutation, true},
		{"List is not a mutation", forma.OpList, forma.OpsMutation, false},
		{"Count is a query", forma.OpCount, forma.OpsQuery, true},
		{"Combined Create|Upsert is Create", forma.OpCreate | forma.OpUpsert, forma.OpCreate, true},
		{"Combined Create|Upsert is Upsert", forma.OpCreate | forma.OpUpsert, forma.OpUpsert, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := tt.op.Is(tt.check)
			assert.Equal(t, tt.expected, result)
		})
	}
}

// TestOpString tests the Op.String method.
func TestOpString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		op       forma.Op
		expected string
	}{
		{forma.OpCreate, "OpCreate"},
		{forma.OpCreateBulk, "OpCreateBulk"},
		{forma.OpRead, "OpRead"},
		{forma.OpUpdate, "OpUpdate"},
		{forma.OpUpdateBulk, "OpUpdateBulk"},
		{forma.OpDelete, "OpDelete"},
		{forma.OpDeleteBulk, "OpDeleteBulk"},
		{forma.OpList, "OpList"},
		{forma.OpCount, "OpCount"},
		{forma.OpUpsert, "OpUpsert"},
		{forma.OpUpsertBulk, "OpUpsertBulk"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.op.String())
		})
	}
}

// TestParseOp tests verb lookup by name.
func TestParseOp(t *testing.T) {
	t.Parallel()

	for _, op := range forma.Ops() {
		parsed, err := forma.ParseOp(op.String())
		require.NoError(t, err)
		assert.Equal(t, op, parsed)
	}

	// Bare lowercase verbs resolve too.
	op, err := forma.ParseOp("create_bulk")
	require.NoError(t, err)
	assert.Equal(t, forma.OpCreateBulk, op)

	op, err = forma.ParseOp("upsert")
	require.NoError(t, err)
	assert.Equal(t, forma.OpUpsert, op)

	_, err = forma.ParseOp("replace")
	assert.Error(t, err)
}

// TestQueryContext tests the QueryContext functions.
func TestQueryContext(t *testing.T) {
	t.Parallel()

	t.Run("NewQueryContext and QueryFromContext", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		qc := &forma.QueryContext{
			Fields: []string{"id", "name"},
		}
		withQuery := forma.NewQueryContext(ctx, qc)

		retrieved := forma.QueryFromContext(withQuery)
		require.NotNil(t, retrieved)
		assert.Equal(t, qc.Fields, retrieved.Fields)
	})

	t.Run("QueryFromContext with no query", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		retrieved := forma.QueryFromContext(ctx)
		assert.Nil(t, retrieved)
	})

	t.Run("Clone", func(t *testing.T) {
		t.Parallel()

		original := &forma.QueryContext{
			Fields: []string{"id", "name"},
			Limit:  &[]int{10}[0],
		}

		cloned := original.Clone()
		require.NotNil(t, cloned)
		assert.Equal(t, original.Fields, cloned.Fields)

		// Modifying cloned should not affect original
		cloned.Fields = append(cloned.Fields, "email")
		assert.NotEqual(t, len(original.Fields), len(cloned.Fields))
	})

	t.Run("AppendFieldOnce", func(t *testing.T) {
		t.Parallel()

		t.Run("adds new field", func(t *testing.T) {
			t.Parallel()

			qc := &forma.QueryContext{
				Fields: []string{"a", "b", "c"},
			}
			result := qc.AppendFieldOnce("d")
			assert.True(t, slices.Contains(result.Fields, "d"))
		})

		t.Run("does not duplicate existing field", func(t *testing.T) {
			t.Parallel()

			qc := &forma.QueryContext{
				Fields: []string{"a", "b", "c"},
			}
			result := qc.AppendFieldOnce("b")

			// Count occurrences of "b" - should be exactly 1
			count := 0
			for _, f := range result.Fields {
				if f == "b" {
					count++
				}
			}
			assert.Equal(t, 1, count, "field 'b' should appear exactly once")
		})
	})
}

// TestTenantContext tests the tenant key context carriers.
func TestTenantContext(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	_, ok := forma.TenantFromContext(ctx)
	assert.False(t, ok)

	ctx = forma.WithTenant(ctx, "acme")
	tenant, ok := forma.TenantFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "acme", tenant)
}
