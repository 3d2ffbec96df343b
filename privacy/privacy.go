package privacy

import (
	"context"
	"errors"
	"fmt"

	"github.com/formadb/forma"
)

// Decision sentinels. Rules return them, plain or wrapped, to steer
// the evaluation of the enclosing policy. Use errors.Is to check for
// them:
//
//	if errors.Is(err, privacy.Deny) { ... }
var (
	// Allow ends the evaluation with an allow decision.
	Allow = errors.New("forma/privacy: allow rule")

	// Deny ends the evaluation with a deny decision.
	Deny = errors.New("forma/privacy: deny rule")

	// Skip abstains and passes the decision to the next rule in the
	// chain.
	Skip = errors.New("forma/privacy: skip rule")
)

// Allowf returns a formatted wrapped Allow decision.
func Allowf(format string, a ...any) error {
	return fmt.Errorf(format+": %w", append(a, Allow)...)
}

// Denyf returns a formatted wrapped Deny decision.
func Denyf(format string, a ...any) error {
	return fmt.Errorf(format+": %w", append(a, Deny)...)
}

// Skipf returns a formatted wrapped Skip decision.
func Skipf(format string, a ...any) error {
	return fmt.Errorf(format+": %w", append(a, Skip)...)
}

type (
	// QueryRule decides whether a query is allowed.
	QueryRule interface {
		EvalQuery(context.Context, forma.Query) error
	}

	// QueryPolicy chains query rules. Rules run in order: a nil or
	// Skip result moves on to the next rule, anything else ends
	// the chain with that decision. An exhausted chain returns nil.
	QueryPolicy []QueryRule

	// MutationRule decides whether a mutation is allowed.
	MutationRule interface {
		EvalMutation(context.Context, forma.Mutation) error
	}

	// MutationPolicy chains mutation rules with the same semantics
	// as QueryPolicy.
	MutationPolicy []MutationRule

	// QueryMutationRule groups query and mutation rules.
	QueryMutationRule interface {
		QueryRule
		MutationRule
	}
)

// QueryRuleFunc is an adapter to allow the use of ordinary functions
// as query rules.
type QueryRuleFunc func(context.Context, forma.Query) error

// EvalQuery returns f(ctx, q).
func (f QueryRuleFunc) EvalQuery(ctx context.Context, q forma.Query) error {
	return f(ctx, q)
}

// MutationRuleFunc is an adapter to allow the use of ordinary
// functions as mutation rules.
type MutationRuleFunc func(context.Context, forma.Mutation) error

// EvalMutation returns f(ctx, m).
func (f MutationRuleFunc) EvalMutation(ctx context.Context, m forma.Mutation) error {
	return f(ctx, m)
}

// AlwaysAllowRule returns a rule that always allows. It permits both
// queries and mutations unconditionally.
func AlwaysAllowRule() QueryMutationRule {
	return fixedDecision{Allow}
}

// AlwaysDenyRule returns a rule that always denies. Commonly the
// terminal rule of a policy whose earlier rules allow selectively.
func AlwaysDenyRule() QueryMutationRule {
	return fixedDecision{Deny}
}

// ContextQueryMutationRule builds a query/mutation rule from a
// function that decides on the context alone. Returning nil is
// equivalent to Skip.
func ContextQueryMutationRule(eval func(context.Context) error) QueryMutationRule {
	return contextDecision{eval}
}

// OnMutationOperation restricts rule to the given operation verbs.
// Verbs are bit flags, so several can be combined:
//
//	privacy.OnMutationOperation(rule, forma.OpDelete|forma.OpDeleteBulk)
//
// Mutations with other verbs skip.
func OnMutationOperation(rule MutationRule, op forma.Op) MutationRule {
	return MutationRuleFunc(func(ctx context.Context, m forma.Mutation) error {
		if m.Op().Is(op) {
			return rule.EvalMutation(ctx, m)
		}
		return Skip
	})
}

// DenyMutationOperationRule returns a rule denying the given mutation
// verbs.
func DenyMutationOperationRule(op forma.Op) MutationRule {
	rule := MutationRuleFunc(func(_ context.Context, m forma.Mutation) error {
		return Denyf("forma/privacy: operation %s is not allowed", m.Op())
	})
	return OnMutationOperation(rule, op)
}

// AllowMutationOperationRule returns a rule allowing the given
// mutation verbs. Other verbs skip.
func AllowMutationOperationRule(op forma.Op) MutationRule {
	rule := MutationRuleFunc(func(context.Context, forma.Mutation) error {
		return Allow
	})
	return OnMutationOperation(rule, op)
}

// Policy groups a query and a mutation rule chain into a forma.Policy.
// The engine treats any non-nil evaluation result as a refusal, so
// Policy resolves the chain's decision before returning it: a
// terminal Allow becomes nil and the operation proceeds; Deny and
// plain errors abort it. A decision forced with DecisionContext
// overrides both chains.
type Policy struct {
	Query    QueryPolicy
	Mutation MutationPolicy
}

// EvalQuery evaluates the query rule chain.
func (p Policy) EvalQuery(ctx context.Context, q forma.Query) error {
	if decision, ok := DecisionFromContext(ctx); ok {
		return decision
	}
	return resolve(p.Query.EvalQuery(ctx, q))
}

// EvalMutation evaluates the mutation rule chain.
func (p Policy) EvalMutation(ctx context.Context, m forma.Mutation) error {
	if decision, ok := DecisionFromContext(ctx); ok {
		return decision
	}
	return resolve(p.Mutation.EvalMutation(ctx, m))
}

var _ forma.Policy = Policy{}

func resolve(decision error) error {
	if decision == nil || errors.Is(decision, Allow) {
		return nil
	}
	return decision
}

// EvalQuery evaluates q against the chain.
func (policies QueryPolicy) EvalQuery(ctx context.Context, q forma.Query) error {
	for _, policy := range policies {
		switch decision := policy.EvalQuery(ctx, q); {
		case decision == nil || errors.Is(decision, Skip):
		default:
			return decision
		}
	}
	return nil
}

// EvalMutation evaluates m against the chain.
func (policies MutationPolicy) EvalMutation(ctx context.Context, m forma.Mutation) error {
	for _, policy := range policies {
		switch decision := policy.EvalMutation(ctx, m); {
		case decision == nil || errors.Is(decision, Skip):
		default:
			return decision
		}
	}
	return nil
}

type decisionCtxKey struct{}

// DecisionContext returns a copy of the parent context carrying a
// forced policy decision. Policies short-circuit to it without
// running their rules; privileged internal calls use it to bypass
// checks:
//
//	ctx := privacy.DecisionContext(ctx, privacy.Allow)
//
// Skip and nil leave the parent untouched.
func DecisionContext(parent context.Context, decision error) context.Context {
	if decision == nil || errors.Is(decision, Skip) {
		return parent
	}
	return context.WithValue(parent, decisionCtxKey{}, decision)
}

// DecisionFromContext returns the decision forced on ctx, if any.
// A forced Allow is returned as nil.
func DecisionFromContext(ctx context.Context) (error, bool) {
	decision, ok := ctx.Value(decisionCtxKey{}).(error)
	if ok && errors.Is(decision, Allow) {
		decision = nil
	}
	return decision, ok
}

type fixedDecision struct {
	decision error
}

func (f fixedDecision) EvalQuery(context.Context, forma.Query) error {
	return f.decision
}

func (f fixedDecision) EvalMutation(context.Context, forma.Mutation) error {
	return f.decision
}

type contextDecision struct {
	eval func(context.Context) error
}

func (c contextDecision) EvalQuery(ctx context.Context, _ forma.Query) error {
	return c.eval(ctx)
}

func (c contextDecision) EvalMutation(ctx context.Context, _ forma.Mutation) error {
	return c.eval(ctx)
}
