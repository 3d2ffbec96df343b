package schema

// Annotation is used to attach arbitrary metadata to schema objects.
// The implementing type must be serializable to JSON raw value (e.g.
// struct, map or slice). Annotations are collected by name, and types
// that implement the Merger interface control how multiple annotations
// with the same name are combined.
type Annotation interface {
	// Name defines the name of the annotation to be retrieved by.
	Name() string
}

// Merger wraps the single Merge function that allows custom annotation
// types to define how 2 annotations of the same name are merged into one.
type Merger interface {
	Merge(Annotation) Annotation
}

// CommentAnnotation is a builtin schema annotation for
// attaching comments to schema objects, such as entities.
type CommentAnnotation struct {
	Text string // comment text.
}

// Name implements the Annotation interface.
func (*CommentAnnotation) Name() string {
	return "Comment"
}

// Comment is a builtin constructor for the CommentAnnotation:
//
//	func (Group) Annotations() []schema.Annotation {
//		return []schema.Annotation{
//			schema.Comment("Group represents a group of users."),
//		}
//	}
func Comment(text string) *CommentAnnotation {
	return &CommentAnnotation{Text: text}
}

// LifecycleAnnotation is a builtin schema annotation that declares
// engine-managed row lifecycle behavior for an entity. The lifecycle
// mixins attach it; the entity registry merges all copies found on an
// entity into one.
type LifecycleAnnotation struct {
	// SoftDelete marks deletes as timestamp writes to SoftDeleteField
	// instead of row removals.
	SoftDelete      bool   `json:"soft_delete,omitempty"`
	SoftDeleteField string `json:"soft_delete_field,omitempty"`
	// Tenant scopes every operation by an ambient tenant value held
	// in TenantField.
	Tenant      bool   `json:"tenant,omitempty"`
	TenantField string `json:"tenant_field,omitempty"`
	// Version maintains an optimistic concurrency counter in
	// VersionField.
	Version      bool   `json:"version,omitempty"`
	VersionField string `json:"version_field,omitempty"`
	// Audit records every mutation of the entity in the audit log.
	Audit bool `json:"audit,omitempty"`
	// Managed lists fields whose values only the engine assigns.
	// Caller-supplied values for them are dropped with an advisory.
	Managed []string `json:"managed,omitempty"`
}

// Name implements the Annotation interface.
func (*LifecycleAnnotation) Name() string {
	return "Lifecycle"
}

// Merge implements the Merger interface. Boolean flags are OR-ed,
// field names are first-writer-wins, and managed field lists are
// concatenated without duplicates.
func (a *LifecycleAnnotation) Merge(other Annotation) Annotation {
	var o *LifecycleAnnotation
	switch other := any(other).(type) {
	case *LifecycleAnnotation:
		o = other
	case LifecycleAnnotation:
		o = &other
	default:
		return a
	}
	a.SoftDelete = a.SoftDelete || o.SoftDelete
	a.Tenant = a.Tenant || o.Tenant
	a.Version = a.Version || o.Version
	a.Audit = a.Audit || o.Audit
	if a.SoftDeleteField == "" {
		a.SoftDeleteField = o.SoftDeleteField
	}
	if a.TenantField == "" {
		a.TenantField = o.TenantField
	}
	if a.VersionField == "" {
		a.VersionField = o.VersionField
	}
	for _, m := range o.Managed {
		found := false
		for _, existing := range a.Managed {
			if existing == m {
				found = true
				break
			}
		}
		if !found {
			a.Managed = append(a.Managed, m)
		}
	}
	return a
}
