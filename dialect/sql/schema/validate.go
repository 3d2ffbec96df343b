package schema

import (
	"fmt"
	"strings"
)

// ValidationError describes one finding of a schema or diff review.
type ValidationError struct {
	Table   string
	Column  string
	Message string
	// Breaking marks findings that lose data or fail on populated
	// tables.
	Breaking bool
}

func (e *ValidationError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s.%s: %s", e.Table, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Table, e.Message)
}

// ValidationResult collects the findings of a validation pass.
type ValidationResult struct {
	Errors   []*ValidationError
	Warnings []*ValidationError
}

// HasErrors reports whether the pass found any errors.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings reports whether the pass found any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// HasBreakingChanges reports whether any finding, error or warning,
// is marked breaking.
func (r *ValidationResult) HasBreakingChanges() bool {
	for _, e := range r.Errors {
		if e.Breaking {
			return true
		}
	}
	for _, w := range r.Warnings {
		if w.Breaking {
			return true
		}
	}
	return false
}

// String renders the findings one per line, errors first.
func (r *ValidationResult) String() string {
	if !r.HasErrors() && !r.HasWarnings() {
		return "no issues found"
	}
	var sb strings.Builder
	write := func(header string, list []*ValidationError) {
		if len(list) == 0 {
			return
		}
		sb.WriteString(header)
		sb.WriteString(":\n")
		for _, e := range list {
			sb.WriteString("  - ")
			sb.WriteString(e.Error())
			if e.Breaking {
				sb.WriteString(" [BREAKING]")
			}
			sb.WriteString("\n")
		}
	}
	write("Errors", r.Errors)
	write("Warnings", r.Warnings)
	return sb.String()
}

func (r *ValidationResult) errorf(breaking bool, table, column, format string, args ...any) {
	r.Errors = append(r.Errors, &ValidationError{
		Table: table, Column: column, Breaking: breaking,
		Message: fmt.Sprintf(format, args...),
	})
}

func (r *ValidationResult) warnf(breaking bool, table, column, format string, args ...any) {
	r.Warnings = append(r.Warnings, &ValidationError{
		Table: table, Column: column, Breaking: breaking,
		Message: fmt.Sprintf(format, args...),
	})
}

// ValidateOption configures a validation pass.
type ValidateOption func(*validateConfig)

type validateConfig struct {
	allowed ChangeKind
}

// Allow downgrades findings of the given change kinds from errors to
// warnings. Kinds are bit flags and combine:
//
//	schema.ValidateDiff(current, desired, schema.Allow(schema.DropColumn|schema.DropIndex))
//
// DropTable, DropColumn and DropIndex gate the respective removals;
// ModifyColumn gates tightening a nullable column to not null.
func Allow(kinds ChangeKind) ValidateOption {
	return func(c *validateConfig) { c.allowed |= kinds }
}

// ValidateDiff reviews the transition between two table sets without
// touching a database. Destructive operations are errors unless their
// change kind is allowed, lossy ones are warnings. Atlas.Validate is
// the online counterpart: it reviews a computed plan against the
// connected database, including its backfills.
func ValidateDiff(current, desired []*Table, opts ...ValidateOption) *ValidationResult {
	cfg := &validateConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	r := &ValidationResult{}
	desiredByName := make(map[string]*Table, len(desired))
	for _, t := range desired {
		desiredByName[t.Name] = t
	}
	for _, t := range current {
		t2, ok := desiredByName[t.Name]
		if !ok {
			if cfg.allowed.Is(DropTable) {
				r.warnf(true, t.Name, "", "table will be dropped")
			} else {
				r.errorf(true, t.Name, "", "table will be dropped")
			}
			continue
		}
		diffTable(t, t2, cfg, r)
	}
	return r
}

func diffTable(current, desired *Table, cfg *validateConfig, r *ValidationResult) {
	for _, c := range current.Columns {
		if _, ok := desired.Column(c.Name); !ok {
			if cfg.allowed.Is(DropColumn) {
				r.warnf(true, current.Name, c.Name, "column will be dropped")
			} else {
				r.errorf(true, current.Name, c.Name, "column will be dropped")
			}
		}
	}
	for _, c2 := range desired.Columns {
		c1, ok := current.Column(c2.Name)
		if !ok {
			// Added columns fail on populated tables unless a
			// default or a backfill covers the existing rows.
			if !c2.Nullable && c2.Default == nil && c2.Fill == nil {
				r.warnf(false, current.Name, c2.Name,
					"added not null column has no default and no backfill and fails on populated tables")
			}
			continue
		}
		if c1.Type != c2.Type {
			r.warnf(false, current.Name, c2.Name,
				"column type changes from %s to %s and may lose data", c1.Type, c2.Type)
		}
		if c1.Nullable && !c2.Nullable {
			const msg = "column changes from null to not null and fails on rows holding nulls"
			if cfg.allowed.Is(ModifyColumn) {
				r.warnf(true, current.Name, c2.Name, msg)
			} else {
				r.errorf(true, current.Name, c2.Name, msg)
			}
		}
		if c1.Size > 0 && c2.Size > 0 && c2.Size < c1.Size {
			r.warnf(false, current.Name, c2.Name,
				"column size shrinks from %d to %d and may truncate values", c1.Size, c2.Size)
		}
		if !c1.Unique && c2.Unique {
			r.warnf(false, current.Name, c2.Name,
				"unique constraint fails if existing values repeat")
		}
	}
	for _, idx := range current.Indexes {
		if _, ok := desired.Index(idx.Name); !ok {
			if cfg.allowed.Is(DropIndex) {
				r.warnf(false, current.Name, "", "index %q will be dropped", idx.Name)
			} else {
				r.errorf(false, current.Name, "", "index %q will be dropped", idx.Name)
			}
		}
	}
}

// ValidateTable reviews the structure of a single table: key and name
// uniqueness, reference integrity within the table, and declared
// backfills.
func ValidateTable(t *Table) *ValidationResult {
	r := &ValidationResult{}
	if len(t.PrimaryKey) == 0 && !t.View {
		r.warnf(false, t.Name, "", "table has no primary key")
	}
	seen := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		if seen[c.Name] {
			r.errorf(false, t.Name, c.Name, "duplicate column name")
		}
		seen[c.Name] = true
		validateFillDecl(t, c, r)
	}
	idxSeen := make(map[string]bool, len(t.Indexes))
	for _, idx := range t.Indexes {
		if idxSeen[idx.Name] {
			r.errorf(false, t.Name, "", "duplicate index name %q", idx.Name)
		}
		idxSeen[idx.Name] = true
		for _, c := range idx.Columns {
			if c != nil && !seen[c.Name] {
				r.errorf(false, t.Name, "", "index %q references unknown column %q", idx.Name, c.Name)
			}
		}
	}
	for _, fk := range t.ForeignKeys {
		for _, c := range fk.Columns {
			if !seen[c.Name] {
				r.errorf(false, t.Name, "", "foreign key references unknown column %q", c.Name)
			}
		}
	}
	return r
}

// validateFillDecl vets a declared backfill without a database. The
// row-dependent checks run online in Atlas.Validate.
func validateFillDecl(t *Table, c *Column, r *ValidationResult) {
	if c.Fill == nil {
		return
	}
	if err := c.Fill.valid(); err != nil {
		r.errorf(false, t.Name, c.Name, "%s", err)
		return
	}
	// The planner only applies fills when a not null column is added.
	if c.Nullable {
		r.warnf(false, t.Name, c.Name, "backfill on a nullable column is never applied")
	}
	if c.Unique && c.Fill.constant() {
		r.warnf(false, t.Name, c.Name, "constant backfill duplicates a unique column on populated tables")
	}
}

// ValidateSchema reviews a full table set: per-table structure plus
// cross-table foreign-key targets.
func ValidateSchema(tables []*Table) *ValidationResult {
	r := &ValidationResult{}
	names := make(map[string]bool, len(tables))
	for _, t := range tables {
		if names[t.Name] {
			r.errorf(false, t.Name, "", "duplicate table name")
		}
		names[t.Name] = true
		tr := ValidateTable(t)
		r.Errors = append(r.Errors, tr.Errors...)
		r.Warnings = append(r.Warnings, tr.Warnings...)
	}
	for _, t := range tables {
		for _, fk := range t.ForeignKeys {
			if fk.RefTable != nil && !names[fk.RefTable.Name] {
				r.errorf(false, t.Name, "", "foreign key references unknown table %q", fk.RefTable.Name)
			}
		}
	}
	return r
}
