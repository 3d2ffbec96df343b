package forma

import (
	"fmt"
	"reflect"

	"github.com/formadb/forma/dialect"
	"github.com/formadb/forma/dialect/sql/schema"
	"github.com/formadb/forma/dialect/sqlschema"
	"github.com/formadb/forma/schema/field"
)

// AuditTable is the name of the shared change-log table written by
// entities that enable the audit lifecycle.
const AuditTable = "audit_log"

// Tables converts compiled entities to the table definitions the
// migration engine plans against. Reference fields become foreign keys,
// declared fills ride on their columns, and the shared audit table is
// appended once if any entity audits its mutations.
//
// Every ref target must be part of the given set, so callers usually
// pass the full registry (Registry.Entities) rather than a slice of it.
func Tables(entities ...*Entity) ([]*schema.Table, error) {
	byName := make(map[string]*Entity, len(entities))
	for _, e := range entities {
		byName[e.Name] = e
	}
	tables := make([]*schema.Table, 0, len(entities)+1)
	byEntity := make(map[string]*schema.Table, len(entities))
	audit := false
	for _, e := range entities {
		t, err := entityTable(e, byName)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
		byEntity[e.Name] = t
		audit = audit || e.Lifecycle.Audit
	}
	// Foreign keys are resolved once every table exists, since a ref
	// may point at an entity converted later in the set.
	for _, e := range entities {
		if e.View {
			continue
		}
		t := byEntity[e.Name]
		for _, f := range e.Fields {
			if f.Kind != KindRef {
				continue
			}
			ref, ok := byEntity[f.Ref]
			if !ok {
				return nil, NewSchemaError(e.Name, f.Name, fmt.Sprintf("ref target %q is not part of the table set", f.Ref))
			}
			c, _ := t.Column(f.Column)
			rc, ok := ref.Column(f.refColumn)
			if !ok {
				return nil, NewSchemaError(e.Name, f.Name, fmt.Sprintf("ref target %q has no column %q", f.Ref, f.refColumn))
			}
			fk := &schema.ForeignKey{
				Symbol:     t.Name + "_" + f.Column,
				Columns:    []*schema.Column{c},
				RefTable:   ref,
				RefColumns: []*schema.Column{rc},
			}
			if ant := f.ant; ant != nil {
				if action, ok := ant.GetOnDelete(); ok {
					fk.OnDelete = schema.ReferenceOption(action)
				}
				if action, ok := ant.GetOnUpdate(); ok {
					fk.OnUpdate = schema.ReferenceOption(action)
				}
			}
			t.AddForeignKey(fk)
		}
	}
	if audit {
		tables = append(tables, auditTable())
	}
	return tables, nil
}

// entityTable converts a single entity, its columns and its indexes.
func entityTable(e *Entity, ents map[string]*Entity) (*schema.Table, error) {
	t := schema.NewTable(e.Table)
	if e.View {
		t = schema.NewView(e.Table)
	}
	if e.Comment != "" {
		t.SetComment(e.Comment)
	}
	if e.schemaName != "" {
		t.SetSchema(e.schemaName)
	}
	if ant := tableAnnotation(e); ant != nil {
		t.SetAnnotation(ant)
	}
	for _, f := range e.Fields {
		c, err := tableColumn(e, f, ents)
		if err != nil {
			return nil, err
		}
		if f.Identity && !e.View {
			t.AddPrimary(c)
		} else {
			t.AddColumn(c)
		}
	}
	for _, idx := range e.Indexes {
		t.AddIndex(idx.Name, idx.Unique, idx.Columns)
		if idx.ant != nil {
			t.Indexes[len(t.Indexes)-1].Annotation = idx.ant
		}
	}
	return t, nil
}

// tableAnnotation folds the entity annotation with the named check map,
// including checks declared on individual fields. The migration engine
// reads constraints off the table annotation only.
func tableAnnotation(e *Entity) *sqlschema.Annotation {
	checks := make(map[string]string, len(e.Checks))
	for name, expr := range e.Checks {
		checks[name] = expr
	}
	for _, f := range e.Fields {
		if f.ant == nil {
			continue
		}
		if expr := f.ant.GetCheck(); expr != "" {
			checks[e.Table+"_"+f.Column+"_check"] = expr
		}
	}
	if e.ant == nil && len(checks) == 0 {
		return nil
	}
	var ant sqlschema.Annotation
	if e.ant != nil {
		ant = *e.ant
	}
	// Registration folds the unnamed entity check into the named map,
	// so the copy carries the map alone.
	ant.Check = ""
	ant.Checks = nil
	if len(checks) > 0 {
		ant.Checks = checks
	}
	return &ant
}

// tableColumn converts one compiled field. Reference columns take the
// storage type of the identity they point at.
func tableColumn(e *Entity, f *FieldInfo, ents map[string]*Entity) (*schema.Column, error) {
	c := &schema.Column{
		Name:       f.Column,
		Type:       f.ftype,
		Size:       int64(f.Size),
		Unique:     f.Unique,
		Increment:  f.Incremental,
		Nullable:   f.Nullable,
		Enums:      f.Enums,
		Checks:     f.Checks,
		Comment:    f.Comment,
		SchemaType: f.SchemaType,
	}
	if f.Kind == KindRef {
		target, ok := ents[f.Ref]
		if !ok {
			return nil, NewSchemaError(e.Name, f.Name, fmt.Sprintf("ref target %q is not part of the table set", f.Ref))
		}
		id := target.ID
		c.Type = id.ftype
		if c.Size == 0 {
			c.Size = int64(id.Size)
		}
		if c.SchemaType == nil {
			c.SchemaType = id.SchemaType
		}
	}
	// Generator defaults are applied by the engine on insert and never
	// reach the DDL.
	if dv := f.defaultValue; dv != nil && reflect.TypeOf(dv).Kind() != reflect.Func {
		c.Default = dv
	}
	if ant := f.ant; ant != nil {
		if v, ok := ant.GetDefault(); ok {
			c.Default = schema.Expr(v)
		}
		if v, ok := ant.GetDefaultExpr(); ok {
			c.Default = schema.Expr(v)
		}
		if v := ant.GetCollation(); v != "" {
			c.Collation = v
		}
		if v := ant.GetColumnType(); v != "" && c.SchemaType == nil {
			c.SchemaType = map[string]string{
				dialect.MySQL:    v,
				dialect.Postgres: v,
				dialect.SQLite:   v,
			}
		}
		if stored, ok := ant.GetWithComments(); ok && !stored {
			c.Comment = ""
		}
	}
	if f.fill != nil {
		bf, err := columnFill(e, f, ents)
		if err != nil {
			return nil, err
		}
		c.Fill = bf
	}
	return c, nil
}

// columnFill maps a field's declared fill to the migration engine's
// backfill model. Reference fills resolve the target table name here,
// so the engine never sees entity names.
func columnFill(e *Entity, f *FieldInfo, ents map[string]*Entity) (*schema.Backfill, error) {
	fill := f.fill
	switch {
	case fill.Value != nil:
		return schema.FillStatic(fill.Value), nil
	case fill.Fn != "":
		return schema.FillFunc(fill.Fn), nil
	case fill.Expr != "":
		return schema.FillExpr(fill.Expr), nil
	case len(fill.Cases) > 0:
		cases := make([]schema.FillCase, len(fill.Cases))
		for i, fc := range fill.Cases {
			cases[i] = schema.FillCase{When: fc.When, Then: fc.Then}
		}
		return schema.FillCases(cases...), nil
	case fill.Sequence != "":
		return schema.FillSequence(fill.Sequence), nil
	case fill.RefValue != nil, fill.RefExpr != "":
		target, ok := ents[f.Ref]
		if !ok {
			return nil, NewSchemaError(e.Name, f.Name, fmt.Sprintf("ref target %q is not part of the table set", f.Ref))
		}
		if fill.RefValue != nil {
			return schema.FillRef(target.Table, f.refColumn, fill.RefValue), nil
		}
		return schema.FillRefExpr(target.Table, fill.RefExpr), nil
	}
	return nil, NewSchemaError(e.Name, f.Name, "fill without a strategy")
}

// auditTable is the shared change-log table. Row identifiers are stored
// as text so one table serves int, uuid and text identities alike.
func auditTable() *schema.Table {
	t := schema.NewTable(AuditTable)
	t.AddPrimary(&schema.Column{Name: "id", Type: field.TypeInt64, Increment: true})
	t.AddColumn(&schema.Column{Name: "entity", Type: field.TypeString})
	t.AddColumn(&schema.Column{Name: "row_id", Type: field.TypeString})
	t.AddColumn(&schema.Column{Name: "verb", Type: field.TypeString, Size: 16})
	t.AddColumn(&schema.Column{Name: "diff", Type: field.TypeJSON, Nullable: true})
	t.AddColumn(&schema.Column{Name: "at", Type: field.TypeTime})
	t.AddIndex(AuditTable+"_entity_row_id", false, []string{"entity", "row_id"})
	return t
}
