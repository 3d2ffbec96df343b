package schema

import (
	"context"
	"fmt"
	"strings"

	"ariga.io/atlas/sql/migrate"
	"ariga.io/atlas/sql/mysql"
	"ariga.io/atlas/sql/schema"

	"github.com/formadb/forma/dialect"
	"github.com/formadb/forma/dialect/sql"
	"github.com/formadb/forma/dialect/sqlschema"
	"github.com/formadb/forma/schema/field"
)

// MySQL is a MySQL migration driver.
type MySQL struct {
	dialect.Driver
	version string
}

// init loads the MySQL version from the database for later use in
// the migration process. It returns an error if the server version
// cannot be detected.
func (d *MySQL) init(ctx context.Context) error {
	rows := &sql.Rows{}
	if err := d.Query(ctx, "SHOW VARIABLES LIKE 'version'", []any{}, rows); err != nil {
		return fmt.Errorf("mysql: querying mysql version: %w", err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return fmt.Errorf("mysql: version variable was not found")
	}
	version := make([]string, 2)
	if err := rows.Scan(&version[0], &version[1]); err != nil {
		return fmt.Errorf("mysql: scanning mysql version: %w", err)
	}
	d.version = version[1]
	return nil
}

func (d *MySQL) atOpen(conn dialect.ExecQuerier) (migrate.Driver, error) {
	return mysql.Open(&db{conn})
}

func (d *MySQL) atTable(t1 *Table, t2 *schema.Table) {
	var (
		charset   = "utf8mb4"
		collation = "utf8mb4_bin"
	)
	if ant := t1.Annotation; ant != nil {
		if ant.Charset != "" {
			charset = ant.Charset
		}
		if ant.Collation != "" {
			collation = ant.Collation
		}
		if ant.Options != "" {
			t2.AddAttrs(&mysql.CreateOptions{V: ant.Options})
		}
	}
	t2.AddAttrs(&schema.Charset{V: charset}, &schema.Collation{V: collation})
}

func (d *MySQL) atTypeC(c1 *Column, c2 *schema.Column) error {
	ct := d.cType(c1)
	if ct == "" {
		return fmt.Errorf("mysql: unsupported type %q for column %q", c1.Type, c1.Name)
	}
	ct = strings.ToLower(ct)
	t, err := mysql.ParseType(ct)
	if err != nil {
		return fmt.Errorf("mysql: parsing type %q for column %q: %w", ct, c1.Name, err)
	}
	c2.Type = &schema.ColumnType{Type: t, Raw: ct}
	return nil
}

func (d *MySQL) cType(c *Column) string {
	if c.SchemaType != nil && c.SchemaType[dialect.MySQL] != "" {
		return c.SchemaType[dialect.MySQL]
	}
	switch c.Type {
	case field.TypeBool:
		return "bool"
	case field.TypeInt8:
		return "tinyint"
	case field.TypeUint8:
		return "tinyint unsigned"
	case field.TypeInt16:
		return "smallint"
	case field.TypeUint16:
		return "smallint unsigned"
	case field.TypeInt32:
		return "int"
	case field.TypeUint32:
		return "int unsigned"
	case field.TypeInt, field.TypeInt64:
		return "bigint"
	case field.TypeUint, field.TypeUint64:
		return "bigint unsigned"
	case field.TypeFloat32:
		return "float"
	case field.TypeFloat64:
		return "double"
	case field.TypeString:
		switch size := c.Size; {
		case size == 0:
			return "varchar(255)"
		case size < 1<<16:
			return fmt.Sprintf("varchar(%d)", size)
		default:
			return "longtext"
		}
	case field.TypeEnum:
		values := make([]string, len(c.Enums))
		for i, e := range c.Enums {
			values[i] = fmt.Sprintf("'%s'", e)
		}
		return fmt.Sprintf("enum(%s)", strings.Join(values, ", "))
	case field.TypeTime:
		return "datetime"
	case field.TypeDate:
		return "date"
	case field.TypeUUID:
		return "char(36)"
	case field.TypeJSON:
		return "json"
	case field.TypeBytes:
		if c.Size > 0 && c.Size >= 1<<16 {
			return "longblob"
		}
		return "blob"
	case field.TypeDecimal:
		return "decimal"
	default:
		return c.typ
	}
}

func (d *MySQL) atUniqueC(t1 *Table, c1 *Column, t2 *schema.Table, c2 *schema.Column) {
	// Avoid a duplicate index if the unique column is
	// already covered by one of the table indexes.
	for _, idx := range t1.Indexes {
		if len(idx.Columns) == 1 && idx.Columns[0].Name == c1.Name {
			return
		}
	}
	t2.AddIndexes(schema.NewUniqueIndex(symbol(fmt.Sprintf("%s_%s_key", t2.Name, c1.Name))).AddColumns(c2))
}

func (d *MySQL) atIncrementC(_ *schema.Table, c *schema.Column) {
	c.AddAttrs(&mysql.AutoIncrement{})
}

func (d *MySQL) atIncrementT(t *schema.Table, v int64) {
	// The first allocated identifier is strictly above the range base.
	t.AddAttrs(&mysql.AutoIncrement{V: v + 1})
}

func (d *MySQL) atIndex(idx1 *Index, t2 *schema.Table, idx2 *schema.Index) error {
	for _, c1 := range idx1.Columns {
		c2, ok := t2.Column(c1.Name)
		if !ok {
			return fmt.Errorf("mysql: unexpected index %q column: %q", idx1.Name, c1.Name)
		}
		part := &schema.IndexPart{C: c2}
		if ant := idx1.Annotation; ant != nil {
			if ant.Desc || ant.DescColumns[c1.Name] {
				part.Desc = true
			}
			if p, ok := subPart(ant, c1.Name); ok {
				part.Attrs = append(part.Attrs, &mysql.SubPart{Len: int(p)})
			}
		}
		idx2.AddParts(part)
	}
	ant := idx1.Annotation
	if ant == nil {
		return nil
	}
	if t := ant.Type; t != "" {
		idx2.AddAttrs(&mysql.IndexType{T: t})
	}
	if t, ok := ant.Types[dialect.MySQL]; ok {
		idx2.AddAttrs(&mysql.IndexType{T: t})
	}
	return nil
}

func subPart(ant *sqlschema.IndexAnnotation, column string) (uint, bool) {
	if p, ok := ant.PrefixColumns[column]; ok {
		return p, true
	}
	if ant.Prefix > 0 {
		return ant.Prefix, true
	}
	return 0, false
}

func (d *MySQL) atTypeRangeSQL(ts ...string) string {
	for i := range ts {
		ts[i] = fmt.Sprintf("('%s')", ts[i])
	}
	return fmt.Sprintf("INSERT INTO `%s` (`type`) VALUES %s", TypeTable, strings.Join(ts, ", "))
}

func (d *MySQL) atNotNull(_ context.Context, _ migrate.Driver, _ []migrate.PlanOption, t2 *schema.Table, c2 *schema.Column) ([]*migrate.Change, error) {
	ct, err := mysql.FormatType(c2.Type.Type)
	if err != nil {
		return nil, fmt.Errorf("mysql: formatting type for column %q: %w", c2.Name, err)
	}
	var def string
	switch x := c2.Default.(type) {
	case *schema.Literal:
		def = " DEFAULT " + x.V
	case *schema.RawExpr:
		def = " DEFAULT " + x.X
	}
	return []*migrate.Change{
		{
			Cmd:     fmt.Sprintf("ALTER TABLE `%s` MODIFY COLUMN `%s` %s NOT NULL%s", t2.Name, c2.Name, ct, def),
			Reverse: fmt.Sprintf("ALTER TABLE `%s` MODIFY COLUMN `%s` %s NULL%s", t2.Name, c2.Name, ct, def),
			Comment: fmt.Sprintf("enforce not null on column %q after backfill", c2.Name),
		},
	}, nil
}

func (d *MySQL) atViewExists(ctx context.Context, name string) (bool, error) {
	rows := &sql.Rows{}
	if err := d.Query(ctx, "SELECT `table_name` FROM `information_schema`.`views` WHERE `table_schema` = (SELECT DATABASE()) AND `table_name` = ?", []any{name}, rows); err != nil {
		return false, err
	}
	defer rows.Close()
	exists := rows.Next()
	return exists, rows.Err()
}

func (d *MySQL) atViewSQL(t *Table, as string) (string, string) {
	return fmt.Sprintf("CREATE VIEW `%s` AS %s", t.Name, as),
		fmt.Sprintf("DROP VIEW IF EXISTS `%s`", t.Name)
}

var _ sqlDialect = (*MySQL)(nil)
