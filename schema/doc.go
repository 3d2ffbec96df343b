// Package schema holds the contracts shared by entity definitions and
// the builders in its subpackages:
//
//   - [field]: field builders for entity attributes
//   - [index]: index builders
//   - [mixin]: reusable definition fragments and lifecycle behavior
//   - [edge]: edge declarations, kept for ported definitions
//
// The package itself defines the Annotation interface, the Merger
// interface that controls how same-name annotations fold, and the
// builtin Comment and Lifecycle annotations.
//
// # Defining an Entity
//
// A definition embeds forma.Schema and declares its parts:
//
//	type User struct{ forma.Schema }
//
//	func (User) Mixin() []forma.Mixin {
//	    return []forma.Mixin{
//	        mixin.Time{},
//	    }
//	}
//
//	func (User) Fields() []forma.Field {
//	    return []forma.Field{
//	        field.String("email").Unique().MaxLen(255),
//	        field.String("name").NotEmpty(),
//	        field.Enum("status").Values("active", "suspended"),
//	        field.Ref("team_id", "team").Optional(),
//	    }
//	}
//
//	func (User) Indexes() []forma.Index {
//	    return []forma.Index{
//	        index.Fields("status", "created_at"),
//	    }
//	}
//
// Relations are reference fields. field.Ref points at another entity's
// identity and becomes a foreign key when the schema is migrated.
//
// # Lifecycle Mixins
//
// The mixin package carries behavior along with fields. Embedding
// mixin.SoftDelete turns deletes into timestamp writes, mixin.Version
// maintains an optimistic lock counter, mixin.Tenant scopes every
// operation to an ambient tenant, and mixin.Audit records mutations.
// Each attaches a LifecycleAnnotation that the registry folds with
// Merge.
//
// # Annotations
//
// Anything implementing Annotation can be attached to an entity, field
// or index. Dialect-level settings live in the dialect/sqlschema
// package:
//
//	sqlschema.ColumnType("JSONB")
//	sqlschema.OnDelete(sqlschema.Cascade)
//	sqlschema.Check("age >= 0")
package schema
