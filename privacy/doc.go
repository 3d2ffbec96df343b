// Package privacy provides types and helpers for writing authorization
// rules in entity definitions, and for their evaluation at runtime.
//
// The engine evaluates an entity's policy before any operation on it
// reaches the database, so access control lives next to the schema that
// it protects.
//
// # Defining Policies
//
// A definition declares its policy once through the Policy method:
//
//	func (Document) Policy() forma.Policy {
//	    return privacy.Policy{
//	        Mutation: privacy.MutationPolicy{
//	            privacy.DenyIfNoViewer(),
//	            privacy.HasRole("admin"),
//	            privacy.IsOwner("owner_id"),
//	            privacy.AlwaysDenyRule(),
//	        },
//	        Query: privacy.QueryPolicy{
//	            privacy.DenyIfNoViewer(),
//	            privacy.AlwaysAllowRule(),
//	        },
//	    }
//	}
//
// # Rule Evaluation
//
// Rules run in order and return decision sentinels, plain or wrapped:
//
//   - Allow ends the chain and the operation proceeds.
//   - Deny ends the chain and the operation fails.
//   - Skip abstains and moves on to the next rule.
//
// Any other error ends the chain and fails the operation like Deny. An
// exhausted chain, and an empty one, allows. Policies that want
// deny-by-default close the chain with AlwaysDenyRule.
//
// Check decisions with errors.Is:
//
//	if errors.Is(err, privacy.Deny) {
//	    // the operation was refused by a rule
//	}
//
// Allowf, Denyf, and Skipf wrap a sentinel with a reason that survives
// the errors.Is check.
//
// # Viewers
//
// Rules that depend on the caller identity read a Viewer from the
// context:
//
//	ctx := privacy.WithViewer(ctx, &privacy.SimpleViewer{
//	    UserID: "u_301",
//	    Roles:  []string{"editor"},
//	})
//
// DenyIfNoViewer, HasRole, HasAnyRole, IsOwner, and TenantRule are
// built on this interface.
//
// # Forced Decisions
//
// DecisionContext stamps a decision on the context that overrides
// every policy below it. Privileged internal calls use it to bypass
// checks:
//
//	ctx := privacy.DecisionContext(ctx, privacy.Allow)
package privacy
