package privacy

import (
	"context"
	"fmt"
	"slices"

	"github.com/formadb/forma"
)

// Viewer describes the principal behind a request. Applications
// implement it on their own user type and attach it to the context
// with WithViewer.
type Viewer interface {
	// GetID returns the viewer's unique identifier.
	GetID() string
	// GetRoles returns the viewer's roles.
	GetRoles() []string
	// GetTenantID returns the viewer's tenant, or "" when
	// multi-tenancy does not apply.
	GetTenantID() string
}

type viewerCtxKey struct{}

// WithViewer returns a copy of the parent context with the viewer
// attached.
func WithViewer(ctx context.Context, viewer Viewer) context.Context {
	return context.WithValue(ctx, viewerCtxKey{}, viewer)
}

// ViewerFromContext returns the viewer stored in ctx, or nil if there
// is none.
func ViewerFromContext(ctx context.Context) Viewer {
	v, _ := ctx.Value(viewerCtxKey{}).(Viewer)
	return v
}

// SimpleViewer is a plain Viewer implementation for tests and simple
// callers.
type SimpleViewer struct {
	UserID   string
	Roles    []string
	TenantID string
}

// GetID returns the user ID.
func (v *SimpleViewer) GetID() string { return v.UserID }

// GetRoles returns the user's roles.
func (v *SimpleViewer) GetRoles() []string { return v.Roles }

// GetTenantID returns the tenant ID.
func (v *SimpleViewer) GetTenantID() string { return v.TenantID }

// DenyIfNoViewer denies when no viewer is attached to the context.
// Typically the first rule of a policy that requires authentication:
//
//	privacy.MutationPolicy{
//	    privacy.DenyIfNoViewer(),
//	    privacy.HasRole("admin"),
//	    privacy.AlwaysDenyRule(),
//	}
func DenyIfNoViewer() QueryMutationRule {
	return ContextQueryMutationRule(func(ctx context.Context) error {
		if ViewerFromContext(ctx) == nil {
			return Denyf("privacy: viewer required")
		}
		return Skip
	})
}

// HasRole allows when the viewer holds the role, and skips otherwise
// so later rules decide.
func HasRole(role string) QueryMutationRule {
	return ContextQueryMutationRule(func(ctx context.Context) error {
		viewer := ViewerFromContext(ctx)
		if viewer == nil {
			return Skip
		}
		if slices.Contains(viewer.GetRoles(), role) {
			return Allow
		}
		return Skip
	})
}

// HasAnyRole allows when the viewer holds any of the roles, and skips
// otherwise.
func HasAnyRole(roles ...string) QueryMutationRule {
	return ContextQueryMutationRule(func(ctx context.Context) error {
		viewer := ViewerFromContext(ctx)
		if viewer == nil {
			return Skip
		}
		held := viewer.GetRoles()
		for _, role := range roles {
			if slices.Contains(held, role) {
				return Allow
			}
		}
		return Skip
	})
}

// IsOwner allows a mutation whose value for the given field matches
// the viewer's ID. Mutations that do not carry the field skip, so
// pair it with a terminal rule.
func IsOwner(field string) MutationRule {
	return MutationRuleFunc(func(ctx context.Context, m forma.Mutation) error {
		viewer := ViewerFromContext(ctx)
		if viewer == nil {
			return Skip
		}
		value, ok := m.Fields()[field]
		if !ok {
			return Skip
		}
		var id string
		switch v := value.(type) {
		case string:
			id = v
		default:
			id = fmt.Sprint(v)
		}
		if id == viewer.GetID() {
			return Allow
		}
		return Skip
	})
}

// OwnerQueryRule denies queries from contexts without a viewer. It
// guards reads that the caller scopes to the viewer, for example with
// filter.FieldEQ("owner_id", viewer.GetID()) in the list input.
func OwnerQueryRule() QueryRule {
	return QueryRuleFunc(func(ctx context.Context, _ forma.Query) error {
		if ViewerFromContext(ctx) == nil {
			return Denyf("privacy: viewer required for owner-filtered query")
		}
		return Skip
	})
}

// TenantRule compares the mutation's value for the given field with
// the viewer's tenant: a match allows, a mismatch denies. Mutations
// without the field and viewers without a tenant skip.
func TenantRule(field string) MutationRule {
	return MutationRuleFunc(func(ctx context.Context, m forma.Mutation) error {
		viewer := ViewerFromContext(ctx)
		if viewer == nil {
			return Skip
		}
		tenant := viewer.GetTenantID()
		if tenant == "" {
			return Skip
		}
		value, ok := m.Fields()[field]
		if !ok {
			return Skip
		}
		var fieldTenant string
		switch v := value.(type) {
		case string:
			fieldTenant = v
		default:
			fieldTenant = fmt.Sprint(v)
		}
		if fieldTenant == tenant {
			return Allow
		}
		return Denyf("privacy: tenant mismatch")
	})
}

// TenantQueryRule denies queries from contexts without a viewer or
// without a tenant. A guard for tenant-scoped reads.
func TenantQueryRule() QueryRule {
	return QueryRuleFunc(func(ctx context.Context, _ forma.Query) error {
		viewer := ViewerFromContext(ctx)
		if viewer == nil {
			return Denyf("privacy: viewer required for tenant-filtered query")
		}
		if viewer.GetTenantID() == "" {
			return Denyf("privacy: tenant required")
		}
		return Skip
	})
}
