// Package field provides the builders that declare entity fields.
//
// A field couples a column definition with input validation and Go type
// mapping. Names are snake_case and become the column names as declared:
//
//	field.String("email")
//	field.Int64("user_id")
//
// # Types
//
// Scalar constructors cover the usual column types:
//
//	field.String("name")
//	field.Text("body")
//	field.Bool("active")
//	field.Int("count")
//	field.Int64("total")
//	field.Float("ratio")
//	field.Time("created_at")
//	field.Date("born_on")
//	field.Bytes("payload")
//
//	field.Enum("status").Values("draft", "published")
//	field.UUID("id", uuid.UUID{})
//	field.Decimal("price").Precision(12, 2)
//
// JSON fields bind a column to a Go value. Any leaves the value
// untyped, and Strings, Ints and Floats are shorthands for slices:
//
//	field.JSON("settings", Settings{})
//	field.Any("payload")
//	field.Strings("tags")
//
// Other maps a custom driver.Valuer when nothing above fits:
//
//	field.Other("point", Point{}).
//	    SchemaType(map[string]string{dialect.Postgres: "point"})
//
// # Identity
//
// A field named "id" is the identity of its entity by convention.
// Identity marks a differently named field instead:
//
//	field.String("sku").Identity()
//
// # References
//
// Ref declares a foreign key to another entity's identity. Column type
// and constraint resolve at registration time:
//
//	field.Ref("author_id", "user").
//	    Annotations(sqlschema.OnDelete(sqlschema.Cascade))
//
// # Validation
//
// Builders attach validators that run before writes:
//
//	field.String("name").NotEmpty().MaxLen(100)
//	field.String("slug").Match(slugRe)
//	field.Int64("age").NonNegative().Max(150)
//	field.Int64("rating").Range(1, 5)
//
// MinRuneLen and MaxRuneLen count runes instead of bytes. Validate
// accepts an arbitrary function. ValidateCreate and ValidateUpdate take
// go-playground/validator tag strings applied per operation:
//
//	field.String("email").
//	    ValidateCreate("required,email").
//	    ValidateUpdate("omitempty,email")
//
// # Optional and Nillable
//
// Optional lifts the input requirement on create; the column stays
// NOT NULL. Nillable makes the column nullable and the Go value a
// pointer. The two combine:
//
//	field.String("role").Optional().Default("user")
//	field.String("nickname").Optional().Nillable()
//
// # Defaults
//
// Default takes a literal, DefaultFunc a function evaluated per insert,
// and UpdateDefault a function evaluated per update:
//
//	field.String("status").Default("active")
//	field.Time("created_at").Default(time.Now)
//	field.Time("updated_at").UpdateDefault(time.Now)
//
// # Backfills
//
// Fill tells the migration planner how existing rows receive a value
// when the field is added as NOT NULL to a populated table:
//
//	field.String("region").Fill(field.Fill{Value: "eu"})
//	field.Time("seen_at").Fill(field.Fill{Fn: field.CurrentTimestamp})
//
// See Fill for the full set of strategies.
//
// # Other Settings
//
// Sensitive keeps the value out of logs and serialized output. Comment
// stores a column comment. Annotations attach dialect settings from the
// sqlschema package:
//
//	field.String("data").Annotations(
//	    sqlschema.ColumnType("JSONB"),
//	    sqlschema.Check("length(data) > 0"),
//	)
package field
