package schema

import (
	"context"
	"fmt"
	"strings"

	"ariga.io/atlas/sql/migrate"
	"ariga.io/atlas/sql/schema"
	"ariga.io/atlas/sql/sqlite"

	"github.com/formadb/forma/dialect"
	"github.com/formadb/forma/dialect/sql"
	"github.com/formadb/forma/schema/field"
)

// SQLite is an SQLite migration driver.
type SQLite struct {
	dialect.Driver
}

// init makes sure the connection has foreign-key checks enabled,
// since table creation relies on them.
func (d *SQLite) init(ctx context.Context) error {
	rows := &sql.Rows{}
	if err := d.Query(ctx, "PRAGMA foreign_keys", []any{}, rows); err != nil {
		return fmt.Errorf("sqlite: check foreign_keys pragma: %w", err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return fmt.Errorf("sqlite: no rows returned from foreign_keys pragma check")
	}
	var on int64
	if err := rows.Scan(&on); err != nil {
		return fmt.Errorf("sqlite: scanning foreign_keys pragma: %w", err)
	}
	if on != 1 {
		return fmt.Errorf(`sqlite: foreign_keys pragma is off: add "_pragma=foreign_keys(1)" to the connection string`)
	}
	return nil
}

func (d *SQLite) atOpen(conn dialect.ExecQuerier) (migrate.Driver, error) {
	return sqlite.Open(&db{conn})
}

func (d *SQLite) atTable(_ *Table, _ *schema.Table) {}

func (d *SQLite) atTypeC(c1 *Column, c2 *schema.Column) error {
	if c1.SchemaType != nil && c1.SchemaType[dialect.SQLite] != "" {
		c2.Type = &schema.ColumnType{Type: sqliteType(c1.SchemaType[dialect.SQLite])}
		return nil
	}
	var t schema.Type
	switch c1.Type {
	case field.TypeBool:
		t = &schema.BoolType{T: "bool"}
	case field.TypeInt8, field.TypeUint8, field.TypeInt16, field.TypeUint16, field.TypeInt32,
		field.TypeUint32, field.TypeInt, field.TypeUint, field.TypeInt64, field.TypeUint64:
		t = &schema.IntegerType{T: "integer"}
	case field.TypeFloat32, field.TypeFloat64:
		t = &schema.FloatType{T: "real"}
	case field.TypeString, field.TypeEnum:
		t = &schema.StringType{T: "text"}
	case field.TypeTime:
		t = &schema.TimeType{T: "datetime"}
	case field.TypeDate:
		t = &schema.TimeType{T: "date"}
	case field.TypeJSON:
		t = &schema.JSONType{T: "json"}
	case field.TypeUUID:
		// Stored as text to keep a stable affinity on inspection.
		t = &schema.StringType{T: "text"}
	case field.TypeBytes:
		t = &schema.BinaryType{T: "blob"}
	case field.TypeDecimal:
		t = &schema.DecimalType{T: "decimal"}
	case field.TypeOther:
		t = sqliteType(c1.typ)
	default:
		return fmt.Errorf("sqlite: unsupported type %q for column %q", c1.Type, c1.Name)
	}
	c2.Type = &schema.ColumnType{Type: t}
	return nil
}

func (d *SQLite) atUniqueC(t1 *Table, c1 *Column, t2 *schema.Table, c2 *schema.Column) {
	// Avoid a duplicate index if the unique column is
	// already covered by one of the table indexes.
	for _, idx := range t1.Indexes {
		if len(idx.Columns) == 1 && idx.Columns[0].Name == c1.Name {
			return
		}
	}
	t2.AddIndexes(schema.NewUniqueIndex(symbol(fmt.Sprintf("%s_%s_key", t2.Name, c1.Name))).AddColumns(c2))
}

func (d *SQLite) atIncrementC(_ *schema.Table, c *schema.Column) {
	c.AddAttrs(&sqlite.AutoIncrement{})
}

func (d *SQLite) atIncrementT(t *schema.Table, v int64) {
	t.AddAttrs(&sqlite.AutoIncrement{Seq: v})
}

func (d *SQLite) atIndex(idx1 *Index, t2 *schema.Table, idx2 *schema.Index) error {
	for _, c1 := range idx1.Columns {
		c2, ok := t2.Column(c1.Name)
		if !ok {
			return fmt.Errorf("sqlite: unexpected index %q column: %q", idx1.Name, c1.Name)
		}
		idx2.AddParts(&schema.IndexPart{C: c2})
	}
	if idx1.Annotation != nil && idx1.Annotation.Where != "" {
		idx2.AddAttrs(&sqlite.IndexPredicate{P: idx1.Annotation.Where})
	}
	return nil
}

func (d *SQLite) atTypeRangeSQL(ts ...string) string {
	for i := range ts {
		ts[i] = fmt.Sprintf("('%s')", ts[i])
	}
	return fmt.Sprintf("INSERT INTO `%s` (`type`) VALUES %s", TypeTable, strings.Join(ts, ", "))
}

// atNotNull promotes a backfilled column to NOT NULL. SQLite does not
// support altering column constraints, so the table is rebuilt: a new
// table with the desired definition is created, rows are copied, and
// the tables are swapped. Indexes are recreated after the swap to
// avoid name collisions.
func (d *SQLite) atNotNull(ctx context.Context, drv migrate.Driver, opts []migrate.PlanOption, t2 *schema.Table, _ *schema.Column) ([]*migrate.Change, error) {
	tmp := *t2
	tmp.Name = "new_" + t2.Name
	tmp.Indexes = nil
	// The sequence attribute stays with the original name. SQLite
	// carries sqlite_sequence entries over on rename.
	tmp.Attrs = nil
	createPlan, err := drv.PlanChanges(ctx, "rebuild", []schema.Change{&schema.AddTable{T: &tmp}}, opts...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: planning rebuild of table %q: %w", t2.Name, err)
	}
	cols := make([]string, len(t2.Columns))
	for i, c := range t2.Columns {
		cols[i] = fmt.Sprintf("`%s`", c.Name)
	}
	list := strings.Join(cols, ", ")
	changes := []*migrate.Change{
		{Cmd: "PRAGMA foreign_keys = off", Reverse: "PRAGMA foreign_keys = on", Comment: "disable the enforcement of foreign-keys constraints"},
	}
	for _, c := range createPlan.Changes {
		changes = append(changes, &migrate.Change{Cmd: c.Cmd, Args: c.Args, Reverse: c.Reverse, Comment: c.Comment})
	}
	changes = append(changes,
		&migrate.Change{
			Cmd:     fmt.Sprintf("INSERT INTO `%s` (%s) SELECT %s FROM `%s`", tmp.Name, list, list, t2.Name),
			Comment: fmt.Sprintf("copy rows from old table %q to new temporary table %q", t2.Name, tmp.Name),
		},
		&migrate.Change{
			Cmd:     fmt.Sprintf("DROP TABLE `%s`", t2.Name),
			Comment: fmt.Sprintf("drop old table %q", t2.Name),
		},
		&migrate.Change{
			Cmd:     fmt.Sprintf("ALTER TABLE `%s` RENAME TO `%s`", tmp.Name, t2.Name),
			Comment: fmt.Sprintf("rename temporary table %q to %q", tmp.Name, t2.Name),
		},
	)
	if len(t2.Indexes) > 0 {
		idxChanges := make([]schema.Change, len(t2.Indexes))
		for i, idx := range t2.Indexes {
			idxChanges[i] = &schema.AddIndex{I: idx}
		}
		idxPlan, err := drv.PlanChanges(ctx, "rebuild_indexes", []schema.Change{&schema.ModifyTable{T: t2, Changes: idxChanges}}, opts...)
		if err != nil {
			return nil, fmt.Errorf("sqlite: planning indexes of table %q: %w", t2.Name, err)
		}
		for _, c := range idxPlan.Changes {
			changes = append(changes, &migrate.Change{Cmd: c.Cmd, Args: c.Args, Reverse: c.Reverse, Comment: c.Comment})
		}
	}
	changes = append(changes, &migrate.Change{Cmd: "PRAGMA foreign_keys = on", Reverse: "PRAGMA foreign_keys = off", Comment: "enable back the enforcement of foreign-keys constraints"})
	return changes, nil
}

func (d *SQLite) atViewExists(ctx context.Context, name string) (bool, error) {
	rows := &sql.Rows{}
	if err := d.Query(ctx, "SELECT `name` FROM `sqlite_master` WHERE `type` = 'view' AND `name` = ?", []any{name}, rows); err != nil {
		return false, err
	}
	defer rows.Close()
	exists := rows.Next()
	return exists, rows.Err()
}

func (d *SQLite) atViewSQL(t *Table, as string) (string, string) {
	return fmt.Sprintf("CREATE VIEW `%s` AS %s", t.Name, as),
		fmt.Sprintf("DROP VIEW IF EXISTS `%s`", t.Name)
}

// sqliteType maps a raw column type to its affinity-compatible
// schema type following the SQLite type affinity rules.
func sqliteType(raw string) schema.Type {
	switch t := strings.ToLower(raw); {
	case t == "bool", t == "boolean":
		return &schema.BoolType{T: raw}
	case t == "datetime", t == "date", t == "timestamp":
		return &schema.TimeType{T: raw}
	case t == "json":
		return &schema.JSONType{T: raw}
	case strings.Contains(t, "int"):
		return &schema.IntegerType{T: raw}
	case strings.Contains(t, "char"), strings.Contains(t, "clob"), strings.Contains(t, "text"):
		return &schema.StringType{T: raw}
	case strings.Contains(t, "blob"):
		return &schema.BinaryType{T: raw}
	case strings.Contains(t, "real"), strings.Contains(t, "floa"), strings.Contains(t, "doub"):
		return &schema.FloatType{T: raw}
	default:
		return &schema.DecimalType{T: raw}
	}
}

var _ sqlDialect = (*SQLite)(nil)
