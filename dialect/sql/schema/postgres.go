package schema

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"ariga.io/atlas/sql/migrate"
	"ariga.io/atlas/sql/postgres"
	"ariga.io/atlas/sql/schema"

	"github.com/formadb/forma/dialect"
	"github.com/formadb/forma/dialect/sql"
	"github.com/formadb/forma/dialect/sqlschema"
	"github.com/formadb/forma/schema/field"
)

// Postgres is a PostgreSQL migration driver.
type Postgres struct {
	dialect.Driver
	version string
}

// init checks the server version and fails on unsupported releases.
func (d *Postgres) init(ctx context.Context) error {
	rows := &sql.Rows{}
	if err := d.Query(ctx, "SHOW server_version_num", []any{}, rows); err != nil {
		return fmt.Errorf("postgres: querying server version: %w", err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return fmt.Errorf("postgres: server_version_num variable was not found")
	}
	var version string
	if err := rows.Scan(&version); err != nil {
		return fmt.Errorf("postgres: scanning version: %w", err)
	}
	v, err := strconv.Atoi(version)
	if err != nil {
		return fmt.Errorf("postgres: malformed version: %s", version)
	}
	if v < 10_0000 {
		return fmt.Errorf("postgres: unsupported version: %s", version)
	}
	d.version = version
	return nil
}

func (d *Postgres) atOpen(conn dialect.ExecQuerier) (migrate.Driver, error) {
	return postgres.Open(&db{conn})
}

func (d *Postgres) atTable(_ *Table, _ *schema.Table) {}

func (d *Postgres) atTypeC(c1 *Column, c2 *schema.Column) error {
	ct := d.cType(c1)
	if ct == "" {
		return fmt.Errorf("postgres: unsupported type %q for column %q", c1.Type, c1.Name)
	}
	ct = strings.ToLower(ct)
	t, err := postgres.ParseType(ct)
	if err != nil {
		return fmt.Errorf("postgres: parsing type %q for column %q: %w", ct, c1.Name, err)
	}
	c2.Type = &schema.ColumnType{Type: t, Raw: ct}
	return nil
}

// maxCharSize is the maximum length that can be stored
// in a variable-length character column.
const maxCharSize = 10_485_760

func (d *Postgres) cType(c *Column) string {
	if c.SchemaType != nil && c.SchemaType[dialect.Postgres] != "" {
		return c.SchemaType[dialect.Postgres]
	}
	switch c.Type {
	case field.TypeBool:
		return "boolean"
	case field.TypeInt8, field.TypeInt16, field.TypeUint8:
		return "smallint"
	case field.TypeInt32, field.TypeUint16:
		return "integer"
	case field.TypeInt, field.TypeInt64, field.TypeUint32, field.TypeUint, field.TypeUint64:
		return "bigint"
	case field.TypeFloat32:
		return "real"
	case field.TypeFloat64:
		return "double precision"
	case field.TypeString, field.TypeEnum:
		switch size := c.Size; {
		case size == 0:
			return "varchar"
		case size <= maxCharSize:
			return fmt.Sprintf("varchar(%d)", size)
		default:
			return "text"
		}
	case field.TypeTime:
		return "timestamptz"
	case field.TypeDate:
		return "date"
	case field.TypeUUID:
		return "uuid"
	case field.TypeJSON:
		return "jsonb"
	case field.TypeBytes:
		return "bytea"
	case field.TypeDecimal:
		return "numeric"
	default:
		return c.typ
	}
}

func (d *Postgres) atUniqueC(t1 *Table, c1 *Column, t2 *schema.Table, c2 *schema.Column) {
	// Avoid a duplicate index if the unique column is
	// already covered by one of the table indexes.
	for _, idx := range t1.Indexes {
		if len(idx.Columns) == 1 && idx.Columns[0].Name == c1.Name {
			return
		}
	}
	t2.AddIndexes(schema.NewUniqueIndex(symbol(fmt.Sprintf("%s_%s_key", t2.Name, c1.Name))).AddColumns(c2))
}

func (d *Postgres) atIncrementC(_ *schema.Table, c *schema.Column) {
	c.AddAttrs(&postgres.Identity{Generation: "BY DEFAULT"})
}

func (d *Postgres) atIncrementT(t *schema.Table, v int64) {
	for _, c := range t.Columns {
		for _, attr := range c.Attrs {
			if id, ok := attr.(*postgres.Identity); ok {
				// The identity sequence yields values strictly
				// above the range base.
				id.Sequence = &postgres.Sequence{Start: v + 1}
				return
			}
		}
	}
}

func (d *Postgres) atIndex(idx1 *Index, t2 *schema.Table, idx2 *schema.Index) error {
	for _, c1 := range idx1.Columns {
		c2, ok := t2.Column(c1.Name)
		if !ok {
			return fmt.Errorf("postgres: unexpected index %q column: %q", idx1.Name, c1.Name)
		}
		part := &schema.IndexPart{C: c2}
		if ant := idx1.Annotation; ant != nil {
			if ant.Desc || ant.DescColumns[c1.Name] {
				part.Desc = true
			}
			if opc, ok := opClass(ant, c1.Name); ok {
				part.Attrs = append(part.Attrs, &postgres.IndexOpClass{Name: opc})
			}
		}
		idx2.AddParts(part)
	}
	ant := idx1.Annotation
	if ant == nil {
		return nil
	}
	if t := ant.Type; t != "" {
		idx2.AddAttrs(&postgres.IndexType{T: t})
	}
	if t, ok := ant.Types[dialect.Postgres]; ok {
		idx2.AddAttrs(&postgres.IndexType{T: t})
	}
	if w := ant.Where; w != "" {
		idx2.AddAttrs(&postgres.IndexPredicate{P: w})
	}
	if len(ant.IncludeColumns) > 0 {
		include := make([]*schema.Column, 0, len(ant.IncludeColumns))
		for _, name := range ant.IncludeColumns {
			c2, ok := t2.Column(name)
			if !ok {
				return fmt.Errorf("postgres: unexpected include column %q for index %q", name, idx1.Name)
			}
			include = append(include, c2)
		}
		idx2.AddAttrs(&postgres.IndexInclude{Columns: include})
	}
	return nil
}

func opClass(ant *sqlschema.IndexAnnotation, column string) (string, bool) {
	if opc, ok := ant.OpClassColumns[column]; ok {
		return opc, true
	}
	if ant.OpClass != "" {
		return ant.OpClass, true
	}
	return "", false
}

func (d *Postgres) atTypeRangeSQL(ts ...string) string {
	for i := range ts {
		ts[i] = fmt.Sprintf("('%s')", ts[i])
	}
	return fmt.Sprintf(`INSERT INTO "%s" ("type") VALUES %s`, TypeTable, strings.Join(ts, ", "))
}

func (d *Postgres) atNotNull(_ context.Context, _ migrate.Driver, _ []migrate.PlanOption, t2 *schema.Table, c2 *schema.Column) ([]*migrate.Change, error) {
	return []*migrate.Change{
		{
			Cmd:     fmt.Sprintf(`ALTER TABLE "%s" ALTER COLUMN "%s" SET NOT NULL`, t2.Name, c2.Name),
			Reverse: fmt.Sprintf(`ALTER TABLE "%s" ALTER COLUMN "%s" DROP NOT NULL`, t2.Name, c2.Name),
			Comment: fmt.Sprintf("enforce not null on column %q after backfill", c2.Name),
		},
	}, nil
}

func (d *Postgres) atViewExists(ctx context.Context, name string) (bool, error) {
	rows := &sql.Rows{}
	if err := d.Query(ctx, `SELECT "viewname" FROM "pg_views" WHERE "schemaname" = CURRENT_SCHEMA() AND "viewname" = $1`, []any{name}, rows); err != nil {
		return false, err
	}
	defer rows.Close()
	exists := rows.Next()
	return exists, rows.Err()
}

func (d *Postgres) atViewSQL(t *Table, as string) (string, string) {
	return fmt.Sprintf(`CREATE VIEW "%s" AS %s`, t.Name, as),
		fmt.Sprintf(`DROP VIEW IF EXISTS "%s"`, t.Name)
}

var _ sqlDialect = (*Postgres)(nil)
