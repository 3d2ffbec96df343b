// Package mixin provides the base mixin implementation for Forma schemas.
//
// A mixin is a reusable set of fields, edges, indexes, hooks, and policies
// that can be embedded in multiple schema definitions.
//
// Core Components:
//
//   - Schema: Base mixin struct that all mixins should embed
//   - AnnotateFields: Adds annotations to mixin fields
//   - AnnotateEdges: Adds annotations to mixin edges
//
// Creating Custom Mixins:
//
// To create a custom mixin, embed Schema and override the methods you need:
//
//	type TrackedMixin struct {
//	    mixin.Schema
//	}
//
//	func (TrackedMixin) Fields() []forma.Field {
//	    return []forma.Field{
//	        field.String("created_by").Optional(),
//	        field.String("updated_by").Optional(),
//	    }
//	}
//
//	func (TrackedMixin) Indexes() []forma.Index {
//	    return []forma.Index{
//	        index.Fields("created_by"),
//	    }
//	}
//
// Using Mixins:
//
//	func (User) Mixin() []forma.Mixin {
//	    return []forma.Mixin{
//	        mixin.AutoID{},     // auto-increment id
//	        mixin.Time{},       // created_at, updated_at
//	        mixin.SoftDelete{}, // deleted_at
//	    }
//	}
//
// The lifecycle mixins (Time, SoftDelete, Tenant, Version, Audit) do
// more than contribute fields: they annotate the entity so that the
// engine manages the fields itself. Caller-supplied values for managed
// fields are ignored with an advisory.
package mixin

import (
	"time"

	"github.com/google/uuid"

	"github.com/formadb/forma"
	"github.com/formadb/forma/dialect/sqlschema"
	"github.com/formadb/forma/schema"
	"github.com/formadb/forma/schema/field"
	"github.com/formadb/forma/schema/index"
)

// Schema is the default implementation for the forma.Mixin interface.
// It should be embedded in all custom mixin definitions.
//
// Example:
//
//	type MyMixin struct {
//	    mixin.Schema
//	}
//
//	func (MyMixin) Fields() []forma.Field {
//	    return []forma.Field{
//	        field.String("custom_field"),
//	    }
//	}
type Schema struct{}

// Fields returns the fields of the mixin.
// Override this method to add custom fields.
func (Schema) Fields() []forma.Field { return nil }

// Edges returns the edges of the mixin.
// Override this method to add custom edges/relationships.
func (Schema) Edges() []forma.Edge { return nil }

// Indexes returns the indexes of the mixin.
// Override this method to add custom database indexes.
func (Schema) Indexes() []forma.Index { return nil }

// Hooks returns the hooks of the mixin.
// Override this method to add mutation lifecycle hooks.
func (Schema) Hooks() []forma.Hook { return nil }

// Interceptors returns the query interceptors of the mixin.
// Override this method to add query middleware.
func (Schema) Interceptors() []forma.Interceptor { return nil }

// Policy returns the privacy policy of the mixin.
// Override this method to add authorization rules.
func (Schema) Policy() forma.Policy { return nil }

// Annotations returns the annotations of the mixin.
// Override this method to add custom annotations.
func (Schema) Annotations() []schema.Annotation { return nil }

// schema mixin must implement `Mixin` interface.
var _ forma.Mixin = (*Schema)(nil)

// =============================================================================
// Built-in Mixins
// =============================================================================

// ID adds a UUID identity field named id, generated by the engine on
// creation.
//
// Generated field:
//
//	id UUID NOT NULL PRIMARY KEY
//
// For custom identity types, declare the field yourself and mark it
// with sqlschema.Primary() if it is not named id:
//
//	field.String("sku").
//	    Immutable().
//	    Annotations(sqlschema.Primary())
type ID struct{ Schema }

// Fields returns the id field.
func (ID) Fields() []forma.Field {
	return []forma.Field{
		field.UUID("id", uuid.UUID{}).
			Default(uuid.New).
			Immutable(),
	}
}

// id mixin must implement `Mixin` interface.
var _ forma.Mixin = (*ID)(nil)

// AutoID adds an int64 identity field named id, assigned by the
// database through auto-increment.
//
// Generated field:
//
//	id BIGINT NOT NULL PRIMARY KEY AUTO_INCREMENT
type AutoID struct{ Schema }

// Fields returns the id field.
func (AutoID) Fields() []forma.Field {
	incremental := true
	return []forma.Field{
		field.Int64("id").
			Immutable().
			Annotations(sqlschema.Annotation{Incremental: &incremental}),
	}
}

// auto id mixin must implement `Mixin` interface.
var _ forma.Mixin = (*AutoID)(nil)

// Time adds created_at and updated_at timestamp fields to a schema.
// created_at is set automatically on creation and is immutable.
// updated_at is set on creation and updated automatically on each update.
// Both are engine-managed.
//
// Example:
//
//	func (User) Mixin() []forma.Mixin {
//	    return []forma.Mixin{
//	        mixin.Time{},
//	    }
//	}
type Time struct {
	Schema
}

// Fields returns the time tracking fields.
func (Time) Fields() []forma.Field {
	return append(CreateTime{}.Fields(), UpdateTime{}.Fields()...)
}

// Annotations marks both timestamp fields as engine-managed.
func (Time) Annotations() []schema.Annotation {
	return []schema.Annotation{
		&schema.LifecycleAnnotation{Managed: []string{"created_at", "updated_at"}},
	}
}

// CreateTime adds only created_at timestamp field to a schema.
// Useful when you only need creation tracking without update tracking.
type CreateTime struct {
	Schema
}

// Fields returns the created_at field.
func (CreateTime) Fields() []forma.Field {
	return []forma.Field{
		field.Time("created_at").
			Default(time.Now).
			Auto().
			Immutable().
			Comment("Timestamp when the entity was created"),
	}
}

// Annotations marks created_at as engine-managed.
func (CreateTime) Annotations() []schema.Annotation {
	return []schema.Annotation{
		&schema.LifecycleAnnotation{Managed: []string{"created_at"}},
	}
}

// UpdateTime adds only updated_at timestamp field to a schema.
// Useful when you only need update tracking without creation tracking.
type UpdateTime struct {
	Schema
}

// Fields returns the updated_at field.
func (UpdateTime) Fields() []forma.Field {
	return []forma.Field{
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now).
			Auto().
			Comment("Timestamp when the entity was last updated"),
	}
}

// Annotations marks updated_at as engine-managed.
func (UpdateTime) Annotations() []schema.Annotation {
	return []schema.Annotation{
		&schema.LifecycleAnnotation{Managed: []string{"updated_at"}},
	}
}

// SoftDelete adds a deleted_at field and switches the entity to soft
// deletion: deletes set the timestamp instead of removing the row, and
// reads skip rows where it is set unless asked otherwise.
//
// Example:
//
//	func (User) Mixin() []forma.Mixin {
//	    return []forma.Mixin{
//	        mixin.SoftDelete{},
//	    }
//	}
type SoftDelete struct {
	Schema
}

// Fields returns the soft delete field.
func (SoftDelete) Fields() []forma.Field {
	return []forma.Field{
		field.Time("deleted_at").
			Optional().
			Nillable().
			Comment("Timestamp when the entity was soft deleted (nil means not deleted)"),
	}
}

// Annotations enables engine-level soft deletion.
func (SoftDelete) Annotations() []schema.Annotation {
	return []schema.Annotation{
		&schema.LifecycleAnnotation{
			SoftDelete:      true,
			SoftDeleteField: "deleted_at",
			Managed:         []string{"deleted_at"},
		},
	}
}

// TimeSoftDelete combines Time and SoftDelete mixins.
// Adds created_at, updated_at, and deleted_at fields.
type TimeSoftDelete struct {
	Schema
}

// Fields returns all timestamp and soft delete fields.
func (TimeSoftDelete) Fields() []forma.Field {
	return append(Time{}.Fields(), SoftDelete{}.Fields()...)
}

// Annotations combines the Time and SoftDelete lifecycle settings.
func (TimeSoftDelete) Annotations() []schema.Annotation {
	return append(Time{}.Annotations(), SoftDelete{}.Annotations()...)
}

// Tenant adds a tenant_id field and switches the entity to tenant
// scoping: every operation is confined to the tenant carried by the
// operation context, and creates stamp it automatically.
//
// The field is immutable to prevent accidental tenant data leakage.
type Tenant struct {
	Schema
}

// Fields returns the tenant field.
func (Tenant) Fields() []forma.Field {
	return []forma.Field{
		field.String("tenant_id").
			Immutable().
			NotEmpty(),
	}
}

// Indexes returns an index over the tenant field.
func (Tenant) Indexes() []forma.Index {
	return []forma.Index{
		index.Fields("tenant_id"),
	}
}

// Annotations enables engine-level tenant scoping.
func (Tenant) Annotations() []schema.Annotation {
	return []schema.Annotation{
		&schema.LifecycleAnnotation{
			Tenant:      true,
			TenantField: "tenant_id",
			Managed:     []string{"tenant_id"},
		},
	}
}

// tenant mixin must implement `Mixin` interface.
var _ forma.Mixin = (*Tenant)(nil)

// Version adds a version counter field for optimistic concurrency.
// Rows start at version 1; every update increments the counter, and
// updates carrying an expected version only apply when it matches.
type Version struct {
	Schema
}

// Fields returns the version field.
func (Version) Fields() []forma.Field {
	return []forma.Field{
		field.Int64("version").
			Default(1).
			Comment("Optimistic concurrency counter"),
	}
}

// Annotations enables engine-level version tracking.
func (Version) Annotations() []schema.Annotation {
	return []schema.Annotation{
		&schema.LifecycleAnnotation{
			Version:      true,
			VersionField: "version",
			Managed:      []string{"version"},
		},
	}
}

// version mixin must implement `Mixin` interface.
var _ forma.Mixin = (*Version)(nil)

// Audit records every mutation of the entity in the shared audit log
// table, within the same transaction as the mutation itself.
type Audit struct {
	Schema
}

// Annotations enables audit logging.
func (Audit) Annotations() []schema.Annotation {
	return []schema.Annotation{
		&schema.LifecycleAnnotation{Audit: true},
	}
}

// audit mixin must implement `Mixin` interface.
var _ forma.Mixin = (*Audit)(nil)

// AnnotateFields wraps a mixin and adds annotations to all its fields.
// This is useful for applying cross-cutting annotations like storage
// settings.
//
// Example:
//
//	mixin.AnnotateFields(
//	    MyMixin{},
//	    sqlschema.WithComments(false),
//	)
func AnnotateFields(m forma.Mixin, annotations ...schema.Annotation) forma.Mixin {
	return fieldAnnotator{Mixin: m, annotations: annotations}
}

// AnnotateEdges wraps a mixin and adds annotations to all its edges.
//
// Example:
//
//	mixin.AnnotateEdges(
//	    MyMixin{},
//	    sqlschema.OnDelete(sqlschema.Cascade),
//	)
func AnnotateEdges(m forma.Mixin, annotations ...schema.Annotation) forma.Mixin {
	return edgeAnnotator{Mixin: m, annotations: annotations}
}

type fieldAnnotator struct {
	forma.Mixin
	annotations []schema.Annotation
}

func (a fieldAnnotator) Fields() []forma.Field {
	fields := a.Mixin.Fields()
	for i := range fields {
		desc := fields[i].Descriptor()
		desc.Annotations = append(desc.Annotations, a.annotations...)
	}
	return fields
}

type edgeAnnotator struct {
	forma.Mixin
	annotations []schema.Annotation
}

func (a edgeAnnotator) Edges() []forma.Edge {
	edges := a.Mixin.Edges()
	for i := range edges {
		desc := edges[i].Descriptor()
		desc.Annotations = append(desc.Annotations, a.annotations...)
	}
	return edges
}
