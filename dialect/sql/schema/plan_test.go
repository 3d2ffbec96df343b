package schema

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formadb/forma/dialect"
	"github.com/formadb/forma/dialect/sql"
	"github.com/formadb/forma/schema/field"
)

// memDB opens a named in-memory database shared by all connections of
// one test.
func memDB(t *testing.T, name string) *sql.Driver {
	t.Helper()
	db, err := sql.Open(dialect.SQLite, fmt.Sprintf("file:%s?mode=memory&_pragma=foreign_keys(1)", name))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestPlanStateString(t *testing.T) {
	assert.Equal(t, "planned", StatePlanned.String())
	assert.Equal(t, "validated", StateValidated.String())
	assert.Equal(t, "executing", StateExecuting.String())
	assert.Equal(t, "succeeded", StateSucceeded.String())
	assert.Equal(t, "failed", StateFailed.String())
	assert.Equal(t, "rolled back", StateRolledBack.String())
	assert.Equal(t, "state(42)", PlanState(42).String())
}

func TestExecutionStrategyString(t *testing.T) {
	assert.Equal(t, "single_statement", StrategySingleStatement.String())
	assert.Equal(t, "batched_update", StrategyBatchedUpdate.String())
}

func TestBatchSizeFor(t *testing.T) {
	tests := []struct {
		name string
		rows int64
		base int
		want int
	}{
		{"default", 500, 0, defaultBatchSize},
		{"configured", 500, 200, 200},
		{"large_table_halves", 2_000_000, 1000, 500},
		{"huge_table_tenth", 20_000_000, 1000, 100},
		{"never_below_one", 20_000_000, 5, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, batchSizeFor(tt.rows, tt.base))
		})
	}
}

func TestReverseCmds(t *testing.T) {
	assert.Equal(t, []string{"DROP TABLE t"}, reverseCmds("DROP TABLE t"))
	assert.Nil(t, reverseCmds(""))
	assert.Equal(t, []string{"a", "b"}, reverseCmds([]string{"a", "b"}))
	assert.Nil(t, reverseCmds(nil))
	assert.Nil(t, reverseCmds(42))
}

func TestCheckValue(t *testing.T) {
	tests := []struct {
		name string
		ck   field.Check
		v    any
		want bool
	}{
		{"min_pass", field.Check{Op: field.CheckMin, Value: 10}, 15, true},
		{"min_fail", field.Check{Op: field.CheckMin, Value: 10}, 5, false},
		{"min_boundary", field.Check{Op: field.CheckMin, Value: 10}, 10, true},
		{"min_inapplicable", field.Check{Op: field.CheckMin, Value: 10}, "abc", true},
		{"max_pass", field.Check{Op: field.CheckMax, Value: 10}, 9, true},
		{"max_fail", field.Check{Op: field.CheckMax, Value: 10}, 15, false},
		{"max_float", field.Check{Op: field.CheckMax, Value: 1.5}, 1.4, true},
		{"minlen_pass", field.Check{Op: field.CheckMinLen, Value: 3}, "abcd", true},
		{"minlen_fail", field.Check{Op: field.CheckMinLen, Value: 3}, "ab", false},
		{"minlen_inapplicable", field.Check{Op: field.CheckMinLen, Value: 3}, 42, true},
		{"maxlen_fail", field.Check{Op: field.CheckMaxLen, Value: 3}, "abcd", false},
		{"match_pass", field.Check{Op: field.CheckMatch, Value: "^[a-z]+$"}, "abc", true},
		{"match_fail", field.Check{Op: field.CheckMatch, Value: "^[a-z]+$"}, "ABC", false},
		{"match_bad_pattern", field.Check{Op: field.CheckMatch, Value: "("}, "abc", true},
		{"match_inapplicable", field.Check{Op: field.CheckMatch, Value: "^[a-z]+$"}, 42, true},
		{"unknown_op", field.Check{Op: "ghost", Value: 1}, 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, checkValue(tt.ck, tt.v))
		})
	}
}

func TestReportString(t *testing.T) {
	assert.Equal(t, "ok", (&Report{IsSafe: true}).String())

	r := &Report{
		Issues: []*ValidationError{
			{Table: "users", Column: "email", Message: "column will be dropped"},
		},
		Warnings: []*ValidationError{{Table: "users", Message: "w"}},
	}
	s := r.String()
	assert.Contains(t, s, "column will be dropped")
	assert.Contains(t, s, "1 warning(s)")
}

func TestPlan_CreateAndReplan(t *testing.T) {
	ctx := context.Background()
	db := memDB(t, "plan_create")
	m, err := NewMigrate(db)
	require.NoError(t, err)

	accounts := &Table{
		Name: "accounts",
		Columns: []*Column{
			{Name: "id", Type: field.TypeInt64, Increment: true},
			{Name: "name", Type: field.TypeString},
		},
	}
	accounts.PrimaryKey = []*Column{accounts.Columns[0]}

	p, err := m.Plan(ctx, accounts)
	require.NoError(t, err)
	assert.Equal(t, StatePlanned, p.State)
	require.NotEmpty(t, p.Steps)
	for _, s := range p.Steps {
		assert.Equal(t, StrategySingleStatement, s.Strategy)
		assert.False(t, s.Done)
	}
	assert.Zero(t, p.EstimatedRows)
	assert.Greater(t, p.EstimatedDuration, time.Duration(0))

	rep := m.Validate(ctx, p)
	require.True(t, rep.IsSafe, rep.String())
	assert.Equal(t, StateValidated, p.State)

	res, err := m.Execute(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, StateSucceeded, res.State)
	assert.Equal(t, StateSucceeded, p.State)
	assert.Equal(t, len(p.Steps), res.StepsRun)
	for _, s := range p.Steps {
		assert.True(t, s.Done)
	}

	// Replanning against the migrated database finds nothing to do.
	p2, err := m.Plan(ctx, accounts)
	require.NoError(t, err)
	assert.Empty(t, p2.Steps)
	assert.Zero(t, p2.EstimatedRows)
}

func TestPlan_FillStrategies(t *testing.T) {
	ctx := context.Background()

	t.Run("static_on_empty_table", func(t *testing.T) {
		db := memDB(t, "plan_static")
		m, err := NewMigrate(db)
		require.NoError(t, err)

		cols := []*Column{
			{Name: "id", Type: field.TypeInt64, Increment: true},
			{Name: "label", Type: field.TypeString},
			{Name: "status", Type: field.TypeString, Fill: FillStatic("new")},
		}
		base := &Table{Name: "invoices", Columns: cols[:2], PrimaryKey: cols[:1]}
		require.NoError(t, m.Create(ctx, base))

		desired := &Table{Name: "invoices", Columns: cols, PrimaryKey: cols[:1]}
		p, err := m.Plan(ctx, desired)
		require.NoError(t, err)
		require.NotEmpty(t, p.Steps)
		// The literal travels in the column definition, so no step
		// runs a batched update.
		for _, s := range p.Steps {
			assert.Equal(t, StrategySingleStatement, s.Strategy)
		}
		assert.Zero(t, p.EstimatedRows)

		rep := m.Validate(ctx, p)
		require.True(t, rep.IsSafe, rep.String())
		_, err = m.Execute(ctx, p)
		require.NoError(t, err)

		_, err = db.ExecContext(ctx, "INSERT INTO `invoices` (`label`) VALUES ('a')")
		require.NoError(t, err)
		rows, err := db.QueryContext(ctx, "SELECT `status` FROM `invoices`")
		require.NoError(t, err)
		defer rows.Close()
		require.True(t, rows.Next())
		var status string
		require.NoError(t, rows.Scan(&status))
		assert.Equal(t, "new", status)
		require.NoError(t, rows.Err())
	})

	t.Run("computed_on_populated_table", func(t *testing.T) {
		db := memDB(t, "plan_computed")
		m, err := NewMigrate(db)
		require.NoError(t, err)

		cols := []*Column{
			{Name: "id", Type: field.TypeInt64, Increment: true},
			{Name: "name", Type: field.TypeString},
			{Name: "slug", Type: field.TypeString, Fill: FillExpr("lower(name)")},
		}
		base := &Table{Name: "people", Columns: cols[:2], PrimaryKey: cols[:1]}
		require.NoError(t, m.Create(ctx, base))
		_, err = db.ExecContext(ctx, "INSERT INTO `people` (`name`) VALUES ('Ada'), ('Grace'), ('Edsger')")
		require.NoError(t, err)

		desired := &Table{Name: "people", Columns: cols, PrimaryKey: cols[:1]}
		p, err := m.Plan(ctx, desired)
		require.NoError(t, err)
		var batched []*Step
		for _, s := range p.Steps {
			if s.Strategy == StrategyBatchedUpdate {
				batched = append(batched, s)
			}
		}
		require.Len(t, batched, 1)
		assert.Contains(t, batched[0].Comment, "backfill column")
		assert.Empty(t, batched[0].Cmd, "batched steps are driven by the engine")
		assert.Equal(t, int64(3), p.EstimatedRows)
	})

	t.Run("static_matching_declared_default", func(t *testing.T) {
		db := memDB(t, "plan_covered")
		m, err := NewMigrate(db)
		require.NoError(t, err)

		cols := []*Column{
			{Name: "id", Type: field.TypeInt64, Increment: true},
			{Name: "state", Type: field.TypeString, Default: "open", Fill: FillStatic("open")},
		}
		base := &Table{Name: "tickets", Columns: cols[:1], PrimaryKey: cols[:1]}
		require.NoError(t, m.Create(ctx, base))
		_, err = db.ExecContext(ctx, "INSERT INTO `tickets` DEFAULT VALUES")
		require.NoError(t, err)

		desired := &Table{Name: "tickets", Columns: cols, PrimaryKey: cols[:1]}
		p, err := m.Plan(ctx, desired)
		require.NoError(t, err)
		// The declared default already covers the fill.
		for _, s := range p.Steps {
			assert.Equal(t, StrategySingleStatement, s.Strategy)
			assert.NotContains(t, s.Comment, "backfill")
		}

		rep := m.Validate(ctx, p)
		require.True(t, rep.IsSafe, rep.String())
		_, err = m.Execute(ctx, p)
		require.NoError(t, err)

		rows, err := db.QueryContext(ctx, "SELECT `state` FROM `tickets`")
		require.NoError(t, err)
		defer rows.Close()
		require.True(t, rows.Next())
		var state string
		require.NoError(t, rows.Scan(&state))
		assert.Equal(t, "open", state)
		require.NoError(t, rows.Err())
	})
}

func TestValidate_StateGuards(t *testing.T) {
	ctx := context.Background()
	db := memDB(t, "plan_states")
	m, err := NewMigrate(db)
	require.NoError(t, err)

	for _, state := range []PlanState{StateExecuting, StateFailed, StateSucceeded, StateRolledBack} {
		t.Run(state.String(), func(t *testing.T) {
			p := &Plan{Name: "changes", State: state}
			rep := m.Validate(ctx, p)
			assert.False(t, rep.IsSafe)
			require.Len(t, rep.Issues, 1)
			assert.Contains(t, rep.Issues[0].Message, "cannot be validated")
			assert.Equal(t, state, p.State, "a guard failure must not move the plan")
		})
	}

	t.Run("revalidate", func(t *testing.T) {
		p := &Plan{Name: "changes", State: StateValidated}
		rep := m.Validate(ctx, p)
		assert.True(t, rep.IsSafe)
		assert.Equal(t, StateValidated, p.State)
	})
}

func TestValidate_FillIssues(t *testing.T) {
	ctx := context.Background()
	db := memDB(t, "plan_fills")
	m, err := NewMigrate(db)
	require.NoError(t, err)

	pk := []*Column{{Name: "id", Type: field.TypeInt64}}
	planOf := func(ft *fillTask) *Plan {
		ft.batched = true
		return &Plan{Name: "changes", State: StatePlanned, Steps: []*Step{
			{Strategy: StrategyBatchedUpdate, task: ft},
		}}
	}

	t.Run("unknown_generator", func(t *testing.T) {
		rep := m.Validate(ctx, planOf(&fillTask{
			table:  &Table{Name: "widgets", PrimaryKey: pk},
			column: &Column{Name: "token", Fill: FillFunc("nope")},
		}))
		assert.False(t, rep.IsSafe)
		require.NotEmpty(t, rep.Issues)
		assert.Contains(t, rep.Issues[0].Message, "unknown generator")
	})

	t.Run("constant_fill_on_unique_column", func(t *testing.T) {
		rep := m.Validate(ctx, planOf(&fillTask{
			table:  &Table{Name: "widgets", PrimaryKey: pk},
			column: &Column{Name: "code", Unique: true, Fill: FillStatic("x")},
			rows:   5,
		}))
		assert.False(t, rep.IsSafe)
		require.NotEmpty(t, rep.Issues)
		assert.Contains(t, rep.Issues[0].Message, "duplicates a unique column across 5 rows")
	})

	t.Run("cases_without_fallback", func(t *testing.T) {
		rep := m.Validate(ctx, planOf(&fillTask{
			table:  &Table{Name: "widgets", PrimaryKey: pk},
			column: &Column{Name: "tier", Fill: FillCases(FillCase{When: "id > 0", Then: "a"})},
			rows:   2,
		}))
		assert.True(t, rep.IsSafe)
		var found bool
		for _, w := range rep.Warnings {
			if w.Column == "tier" && w.Message == "rows matching no case keep null and fail the final not null change" {
				found = true
			}
		}
		assert.True(t, found)
	})

	t.Run("sample_violates_check", func(t *testing.T) {
		rep := m.Validate(ctx, planOf(&fillTask{
			table: &Table{Name: "widgets", PrimaryKey: pk},
			column: &Column{
				Name:   "weight",
				Fill:   FillStatic(5),
				Checks: []field.Check{{Op: field.CheckMin, Value: 10}},
			},
		}))
		assert.False(t, rep.IsSafe)
		require.NotEmpty(t, rep.Issues)
		assert.Contains(t, rep.Issues[0].Message, "violates the min constraint")
	})

	t.Run("unverifiable_check", func(t *testing.T) {
		rep := m.Validate(ctx, planOf(&fillTask{
			table: &Table{Name: "widgets", PrimaryKey: pk},
			column: &Column{
				Name:   "weight",
				Fill:   FillExpr("id * 2"),
				Checks: []field.Check{{Op: field.CheckMin, Value: 10}},
			},
		}))
		assert.True(t, rep.IsSafe)
		var found bool
		for _, w := range rep.Warnings {
			if w.Message == "backfill values cannot be checked before execution" {
				found = true
			}
		}
		assert.True(t, found)
	})

	t.Run("composite_primary_key", func(t *testing.T) {
		rep := m.Validate(ctx, planOf(&fillTask{
			table: &Table{Name: "widgets", PrimaryKey: []*Column{
				{Name: "a", Type: field.TypeInt64},
				{Name: "b", Type: field.TypeInt64},
			}},
			column: &Column{Name: "x", Fill: FillExpr("a + b")},
		}))
		assert.False(t, rep.IsSafe)
		require.NotEmpty(t, rep.Issues)
		assert.Contains(t, rep.Issues[0].Message, "single-column primary key")
	})

	t.Run("sqlite_rebuild_warning", func(t *testing.T) {
		rep := m.Validate(ctx, planOf(&fillTask{
			table:  &Table{Name: "widgets", PrimaryKey: pk},
			column: &Column{Name: "x", Fill: FillExpr("id * 2")},
		}))
		assert.True(t, rep.IsSafe)
		var found bool
		for _, w := range rep.Warnings {
			if w.Breaking && w.Message == "enforcing not null rebuilds the table and is not fully reversible" {
				found = true
			}
		}
		assert.True(t, found)
	})
}

func TestValidate_RefProbe(t *testing.T) {
	ctx := context.Background()
	db := memDB(t, "plan_refs")
	m, err := NewMigrate(db)
	require.NoError(t, err)

	catCols := []*Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "name", Type: field.TypeString},
	}
	categories := &Table{Name: "categories", Columns: catCols, PrimaryKey: catCols[:1]}
	require.NoError(t, m.Create(ctx, categories))
	_, err = db.ExecContext(ctx, "INSERT INTO `categories` (`name`) VALUES ('tools')")
	require.NoError(t, err)

	pk := []*Column{{Name: "id", Type: field.TypeInt64}}
	planOf := func(ft *fillTask) *Plan {
		ft.batched = true
		return &Plan{Name: "changes", State: StatePlanned, Steps: []*Step{
			{Strategy: StrategyBatchedUpdate, task: ft},
		}}
	}

	t.Run("existing_row", func(t *testing.T) {
		rep := m.Validate(ctx, planOf(&fillTask{
			table:  &Table{Name: "widgets", PrimaryKey: pk},
			column: &Column{Name: "category_id", Type: field.TypeInt64, Fill: FillRef("categories", "id", 1)},
			rows:   2,
		}))
		assert.True(t, rep.IsSafe, rep.String())
	})

	t.Run("missing_row", func(t *testing.T) {
		rep := m.Validate(ctx, planOf(&fillTask{
			table:  &Table{Name: "widgets", PrimaryKey: pk},
			column: &Column{Name: "category_id", Type: field.TypeInt64, Fill: FillRef("categories", "id", 99)},
			rows:   2,
		}))
		assert.False(t, rep.IsSafe)
		require.NotEmpty(t, rep.Issues)
		assert.Contains(t, rep.Issues[0].Message, "referenced row categories.id = 99 does not exist")
	})

	t.Run("unknown_table", func(t *testing.T) {
		rep := m.Validate(ctx, planOf(&fillTask{
			table:  &Table{Name: "widgets", PrimaryKey: pk},
			column: &Column{Name: "category_id", Type: field.TypeInt64, Fill: FillRef("ghost", "id", 1)},
			rows:   2,
		}))
		assert.False(t, rep.IsSafe)
		require.NotEmpty(t, rep.Issues)
		assert.Contains(t, rep.Issues[0].Message, "cannot verify referenced row")
	})

	t.Run("static_fill_on_foreign_key", func(t *testing.T) {
		refCol := &Column{Name: "category_id", Type: field.TypeInt64, Fill: FillStatic(99)}
		widgets := &Table{Name: "widgets", Columns: []*Column{pk[0], refCol}, PrimaryKey: pk}
		widgets.ForeignKeys = []*ForeignKey{{
			Symbol:     "widgets_category_id",
			Columns:    []*Column{refCol},
			RefTable:   categories,
			RefColumns: catCols[:1],
		}}
		rep := m.Validate(ctx, planOf(&fillTask{table: widgets, column: refCol, rows: 2}))
		assert.False(t, rep.IsSafe)
		require.NotEmpty(t, rep.Issues)
		assert.Contains(t, rep.Issues[0].Message, "does not exist")
	})
}

func TestValidate_DropNotes(t *testing.T) {
	ctx := context.Background()

	wideCols := []*Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "name", Type: field.TypeString},
		{Name: "legacy", Type: field.TypeString},
	}

	t.Run("drop_column_blocked", func(t *testing.T) {
		db := memDB(t, "plan_dropcol")
		m, err := NewMigrate(db, WithDropColumn(true))
		require.NoError(t, err)
		require.NoError(t, m.Create(ctx, &Table{Name: "records", Columns: wideCols, PrimaryKey: wideCols[:1]}))

		p, err := m.Plan(ctx, &Table{Name: "records", Columns: wideCols[:2], PrimaryKey: wideCols[:1]})
		require.NoError(t, err)
		rep := m.Validate(ctx, p)
		assert.False(t, rep.IsSafe)
		require.NotEmpty(t, rep.Issues)
		assert.Equal(t, "column will be dropped", rep.Issues[0].Message)
		assert.Equal(t, "legacy", rep.Issues[0].Column)
		assert.True(t, rep.Issues[0].Breaking)
		assert.Equal(t, StatePlanned, p.State, "unsafe plans stay unvalidated")

		_, err = m.Execute(ctx, p)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "validate it first")
	})

	t.Run("drop_column_allowed", func(t *testing.T) {
		db := memDB(t, "plan_dropcol_ok")
		m, err := NewMigrate(db, WithDropColumn(true), WithAllowDropColumn(true))
		require.NoError(t, err)
		require.NoError(t, m.Create(ctx, &Table{Name: "records", Columns: wideCols, PrimaryKey: wideCols[:1]}))

		p, err := m.Plan(ctx, &Table{Name: "records", Columns: wideCols[:2], PrimaryKey: wideCols[:1]})
		require.NoError(t, err)
		rep := m.Validate(ctx, p)
		assert.True(t, rep.IsSafe)
		require.NotEmpty(t, rep.Warnings)
		assert.Equal(t, "column will be dropped", rep.Warnings[0].Message)
		assert.Equal(t, StateValidated, p.State)
	})

	t.Run("drop_index", func(t *testing.T) {
		db := memDB(t, "plan_dropidx")
		m, err := NewMigrate(db, WithDropIndex(true))
		require.NoError(t, err)
		indexed := &Table{Name: "records", Columns: wideCols[:2], PrimaryKey: wideCols[:1]}
		indexed.Indexes = []*Index{{Name: "records_name", Columns: wideCols[1:2]}}
		require.NoError(t, m.Create(ctx, indexed))

		p, err := m.Plan(ctx, &Table{Name: "records", Columns: wideCols[:2], PrimaryKey: wideCols[:1]})
		require.NoError(t, err)
		rep := m.Validate(ctx, p)
		assert.False(t, rep.IsSafe)
		require.NotEmpty(t, rep.Issues)
		assert.Contains(t, rep.Issues[0].Message, `index "records_name" will be dropped`)
	})

	t.Run("column_type_change_warns", func(t *testing.T) {
		db := memDB(t, "plan_retype")
		m, err := NewMigrate(db)
		require.NoError(t, err)
		before := []*Column{
			{Name: "id", Type: field.TypeInt64, Increment: true},
			{Name: "amount", Type: field.TypeString},
		}
		require.NoError(t, m.Create(ctx, &Table{Name: "records", Columns: before, PrimaryKey: before[:1]}))

		after := []*Column{
			before[0],
			{Name: "amount", Type: field.TypeInt64},
		}
		p, err := m.Plan(ctx, &Table{Name: "records", Columns: after, PrimaryKey: after[:1]})
		require.NoError(t, err)
		rep := m.Validate(ctx, p)
		assert.True(t, rep.IsSafe, rep.String())
		var found bool
		for _, w := range rep.Warnings {
			if w.Column == "amount" && w.Message == "column type is changing and may lose data" {
				found = true
			}
		}
		assert.True(t, found)
	})
}
