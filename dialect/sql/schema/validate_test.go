package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formadb/forma/schema/field"
)

func newUsersTable() *Table {
	t := NewTable("users")
	t.AddPrimary(&Column{Name: "id", Type: field.TypeInt64, Increment: true})
	t.AddColumn(&Column{Name: "email", Type: field.TypeString, Size: 255, Unique: true})
	t.AddColumn(&Column{Name: "name", Type: field.TypeString, Size: 255})
	t.AddIndex("users_name", false, []string{"name"})
	return t
}

func TestValidateDiff_Drops(t *testing.T) {
	current := []*Table{newUsersTable(), NewTable("sessions")}

	t.Run("dropped_table", func(t *testing.T) {
		r := ValidateDiff(current, []*Table{newUsersTable()})
		require.Len(t, r.Errors, 1)
		assert.Equal(t, "sessions: table will be dropped", r.Errors[0].Error())
		assert.True(t, r.Errors[0].Breaking)
		assert.True(t, r.HasBreakingChanges())

		r = ValidateDiff(current, []*Table{newUsersTable()}, Allow(DropTable))
		assert.False(t, r.HasErrors())
		require.Len(t, r.Warnings, 1)
		assert.True(t, r.Warnings[0].Breaking)
	})

	t.Run("dropped_column", func(t *testing.T) {
		// Keeps the name column and its index, drops email only.
		desired := NewTable("users")
		desired.AddPrimary(&Column{Name: "id", Type: field.TypeInt64, Increment: true})
		desired.AddColumn(&Column{Name: "name", Type: field.TypeString, Size: 255})
		desired.AddIndex("users_name", false, []string{"name"})
		r := ValidateDiff([]*Table{newUsersTable()}, []*Table{desired})
		require.Len(t, r.Errors, 1)
		assert.Equal(t, "users.email: column will be dropped", r.Errors[0].Error())

		r = ValidateDiff([]*Table{newUsersTable()}, []*Table{desired}, Allow(DropColumn))
		assert.False(t, r.HasErrors())
		assert.Len(t, r.Warnings, 1)
	})

	t.Run("dropped_index", func(t *testing.T) {
		desired := newUsersTable()
		desired.Indexes = nil
		r := ValidateDiff([]*Table{newUsersTable()}, []*Table{desired})
		require.Len(t, r.Errors, 1)
		assert.Contains(t, r.Errors[0].Error(), `index "users_name" will be dropped`)
		assert.False(t, r.Errors[0].Breaking)

		r = ValidateDiff([]*Table{newUsersTable()}, []*Table{desired}, Allow(DropIndex))
		assert.False(t, r.HasErrors())
		assert.Len(t, r.Warnings, 1)
	})

	t.Run("combined_kinds", func(t *testing.T) {
		// Drops the sessions table, the name column and its index at once.
		desired := NewTable("users")
		desired.AddPrimary(&Column{Name: "id", Type: field.TypeInt64, Increment: true})
		desired.AddColumn(&Column{Name: "email", Type: field.TypeString, Size: 255, Unique: true})
		r := ValidateDiff([]*Table{newUsersTable(), NewTable("sessions")}, []*Table{desired},
			Allow(DropTable|DropColumn|DropIndex))
		assert.False(t, r.HasErrors())
		assert.Len(t, r.Warnings, 3)
	})
}

func TestValidateDiff_ColumnChanges(t *testing.T) {
	t.Run("added_not_null_uncovered", func(t *testing.T) {
		desired := newUsersTable()
		desired.AddColumn(&Column{Name: "tier", Type: field.TypeString})
		r := ValidateDiff([]*Table{newUsersTable()}, []*Table{desired})
		assert.False(t, r.HasErrors())
		require.Len(t, r.Warnings, 1)
		assert.Contains(t, r.Warnings[0].Error(), "no default and no backfill")
	})

	t.Run("added_not_null_with_backfill", func(t *testing.T) {
		desired := newUsersTable()
		desired.AddColumn(&Column{Name: "tier", Type: field.TypeString, Fill: FillStatic("free")})
		r := ValidateDiff([]*Table{newUsersTable()}, []*Table{desired})
		assert.False(t, r.HasErrors())
		assert.False(t, r.HasWarnings())
	})

	t.Run("added_not_null_with_default", func(t *testing.T) {
		desired := newUsersTable()
		desired.AddColumn(&Column{Name: "tier", Type: field.TypeString, Default: "free"})
		r := ValidateDiff([]*Table{newUsersTable()}, []*Table{desired})
		assert.False(t, r.HasWarnings())
	})

	t.Run("added_nullable", func(t *testing.T) {
		desired := newUsersTable()
		desired.AddColumn(&Column{Name: "bio", Type: field.TypeString, Nullable: true})
		r := ValidateDiff([]*Table{newUsersTable()}, []*Table{desired})
		assert.False(t, r.HasErrors())
		assert.False(t, r.HasWarnings())
	})

	t.Run("type_change", func(t *testing.T) {
		desired := newUsersTable()
		c, ok := desired.Column("name")
		require.True(t, ok)
		c.Type = field.TypeInt64
		r := ValidateDiff([]*Table{newUsersTable()}, []*Table{desired})
		require.Len(t, r.Warnings, 1)
		assert.Contains(t, r.Warnings[0].Error(), "column type changes")
		assert.Contains(t, r.Warnings[0].Error(), "may lose data")
	})

	t.Run("null_to_not_null", func(t *testing.T) {
		current := newUsersTable()
		current.AddColumn(&Column{Name: "bio", Type: field.TypeString, Nullable: true})
		desired := newUsersTable()
		desired.AddColumn(&Column{Name: "bio", Type: field.TypeString})
		r := ValidateDiff([]*Table{current}, []*Table{desired})
		require.Len(t, r.Errors, 1)
		assert.Contains(t, r.Errors[0].Error(), "null to not null")
		assert.True(t, r.Errors[0].Breaking)

		r = ValidateDiff([]*Table{current}, []*Table{desired}, Allow(ModifyColumn))
		assert.False(t, r.HasErrors())
		require.Len(t, r.Warnings, 1)
		assert.True(t, r.Warnings[0].Breaking)
	})

	t.Run("size_shrink", func(t *testing.T) {
		desired := newUsersTable()
		c, _ := desired.Column("email")
		c.Size = 100
		r := ValidateDiff([]*Table{newUsersTable()}, []*Table{desired})
		require.Len(t, r.Warnings, 1)
		assert.Contains(t, r.Warnings[0].Error(), "shrinks from 255 to 100")
	})

	t.Run("size_grow_is_fine", func(t *testing.T) {
		desired := newUsersTable()
		c, _ := desired.Column("email")
		c.Size = 512
		r := ValidateDiff([]*Table{newUsersTable()}, []*Table{desired})
		assert.False(t, r.HasWarnings())
	})

	t.Run("unique_added", func(t *testing.T) {
		desired := newUsersTable()
		c, _ := desired.Column("name")
		c.Unique = true
		r := ValidateDiff([]*Table{newUsersTable()}, []*Table{desired})
		require.Len(t, r.Warnings, 1)
		assert.Contains(t, r.Warnings[0].Error(), "unique constraint")
	})

	t.Run("new_table_has_no_findings", func(t *testing.T) {
		posts := NewTable("posts")
		posts.AddColumn(&Column{Name: "title", Type: field.TypeString})
		r := ValidateDiff([]*Table{newUsersTable()}, []*Table{newUsersTable(), posts})
		assert.False(t, r.HasErrors())
		assert.False(t, r.HasWarnings())
	})
}

func TestValidateTable(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		r := ValidateTable(newUsersTable())
		assert.False(t, r.HasErrors())
		assert.False(t, r.HasWarnings())
	})

	t.Run("no_primary_key", func(t *testing.T) {
		tbl := NewTable("logs")
		tbl.AddColumn(&Column{Name: "line", Type: field.TypeString})
		r := ValidateTable(tbl)
		require.Len(t, r.Warnings, 1)
		assert.Contains(t, r.Warnings[0].Error(), "no primary key")
	})

	t.Run("view_without_primary_key", func(t *testing.T) {
		v := NewView("active_users")
		v.AddColumn(&Column{Name: "email", Type: field.TypeString})
		r := ValidateTable(v)
		assert.False(t, r.HasWarnings())
	})

	t.Run("duplicate_column", func(t *testing.T) {
		tbl := newUsersTable()
		tbl.Columns = append(tbl.Columns, &Column{Name: "email", Type: field.TypeString})
		r := ValidateTable(tbl)
		require.Len(t, r.Errors, 1)
		assert.Equal(t, "users.email: duplicate column name", r.Errors[0].Error())
	})

	t.Run("duplicate_index_name", func(t *testing.T) {
		tbl := newUsersTable()
		tbl.AddIndex("users_name", false, []string{"email"})
		r := ValidateTable(tbl)
		require.Len(t, r.Errors, 1)
		assert.Contains(t, r.Errors[0].Error(), `duplicate index name "users_name"`)
	})

	t.Run("index_unknown_column", func(t *testing.T) {
		tbl := newUsersTable()
		tbl.Indexes = append(tbl.Indexes, &Index{Name: "users_ghost", Columns: []*Column{{Name: "ghost"}}})
		r := ValidateTable(tbl)
		require.Len(t, r.Errors, 1)
		assert.Contains(t, r.Errors[0].Error(), `references unknown column "ghost"`)
	})

	t.Run("foreign_key_unknown_column", func(t *testing.T) {
		tbl := newUsersTable()
		tbl.AddForeignKey(&ForeignKey{Symbol: "users_org", Columns: []*Column{{Name: "org_id"}}})
		r := ValidateTable(tbl)
		require.Len(t, r.Errors, 1)
		assert.Contains(t, r.Errors[0].Error(), `references unknown column "org_id"`)
	})
}

func TestValidateTable_Fills(t *testing.T) {
	t.Run("invalid_fill", func(t *testing.T) {
		tbl := newUsersTable()
		tbl.AddColumn(&Column{Name: "token", Type: field.TypeString, Fill: FillFunc("nope")})
		r := ValidateTable(tbl)
		require.Len(t, r.Errors, 1)
		assert.Contains(t, r.Errors[0].Error(), `unknown generator "nope"`)
	})

	t.Run("fill_on_nullable", func(t *testing.T) {
		tbl := newUsersTable()
		tbl.AddColumn(&Column{Name: "bio", Type: field.TypeString, Nullable: true, Fill: FillStatic("")})
		r := ValidateTable(tbl)
		require.Len(t, r.Warnings, 1)
		assert.Contains(t, r.Warnings[0].Error(), "never applied")
	})

	t.Run("constant_fill_on_unique", func(t *testing.T) {
		tbl := newUsersTable()
		tbl.AddColumn(&Column{Name: "slug", Type: field.TypeString, Unique: true, Fill: FillStatic("x")})
		r := ValidateTable(tbl)
		require.Len(t, r.Warnings, 1)
		assert.Contains(t, r.Warnings[0].Error(), "duplicates a unique column")
	})

	t.Run("generated_fill_on_unique", func(t *testing.T) {
		tbl := newUsersTable()
		tbl.AddColumn(&Column{Name: "token", Type: field.TypeUUID, Unique: true, Fill: FillFunc(RandomUUID)})
		r := ValidateTable(tbl)
		assert.False(t, r.HasWarnings())
	})
}

func TestValidateSchema(t *testing.T) {
	t.Run("duplicate_table", func(t *testing.T) {
		r := ValidateSchema([]*Table{newUsersTable(), newUsersTable()})
		require.Len(t, r.Errors, 1)
		assert.Equal(t, "users: duplicate table name", r.Errors[0].Error())
	})

	t.Run("foreign_key_unknown_table", func(t *testing.T) {
		tbl := newUsersTable()
		tbl.AddColumn(&Column{Name: "org_id", Type: field.TypeInt64})
		tbl.AddForeignKey(&ForeignKey{
			Symbol:   "users_org",
			Columns:  []*Column{{Name: "org_id"}},
			RefTable: NewTable("orgs"),
		})
		r := ValidateSchema([]*Table{tbl})
		require.Len(t, r.Errors, 1)
		assert.Contains(t, r.Errors[0].Error(), `references unknown table "orgs"`)
	})

	t.Run("resolved_foreign_key", func(t *testing.T) {
		orgs := NewTable("orgs")
		orgs.AddPrimary(&Column{Name: "id", Type: field.TypeInt64, Increment: true})
		tbl := newUsersTable()
		tbl.AddColumn(&Column{Name: "org_id", Type: field.TypeInt64})
		c, _ := tbl.Column("org_id")
		rc, _ := orgs.Column("id")
		tbl.AddForeignKey(&ForeignKey{
			Symbol:     "users_org",
			Columns:    []*Column{c},
			RefTable:   orgs,
			RefColumns: []*Column{rc},
		})
		r := ValidateSchema([]*Table{tbl, orgs})
		assert.False(t, r.HasErrors())
		assert.False(t, r.HasWarnings())
	})
}

func TestValidationResult(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		r := &ValidationResult{}
		assert.False(t, r.HasErrors())
		assert.False(t, r.HasWarnings())
		assert.False(t, r.HasBreakingChanges())
		assert.Equal(t, "no issues found", r.String())
	})

	t.Run("breaking_warning_counts", func(t *testing.T) {
		r := &ValidationResult{
			Warnings: []*ValidationError{{Table: "users", Message: "table will be dropped", Breaking: true}},
		}
		assert.True(t, r.HasBreakingChanges())
	})

	t.Run("rendering", func(t *testing.T) {
		r := &ValidationResult{
			Errors:   []*ValidationError{{Table: "users", Column: "name", Message: "column will be dropped", Breaking: true}},
			Warnings: []*ValidationError{{Table: "users", Message: "table has no primary key"}},
		}
		s := r.String()
		assert.Contains(t, s, "Errors:\n  - users.name: column will be dropped [BREAKING]")
		assert.Contains(t, s, "Warnings:\n  - users: table has no primary key")
	})
}
