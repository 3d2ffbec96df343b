package privacy_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/formadb/forma"
	"github.com/formadb/forma/privacy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockMutation struct {
	op     forma.Op
	typ    string
	fields forma.Fieldmap
}

func (m *mockMutation) Op() forma.Op           { return m.op }
func (m *mockMutation) Type() string           { return m.typ }
func (m *mockMutation) Fields() forma.Fieldmap { return m.fields }

type mockQuery struct {
	op  forma.Op
	typ string
}

func (q *mockQuery) Op() forma.Op { return q.op }
func (q *mockQuery) Type() string { return q.typ }

func TestDecisionErrors(t *testing.T) {
	tests := []struct {
		name      string
		decision  error
		wantAllow bool
		wantDeny  bool
		wantSkip  bool
	}{
		{
			name:      "allow_decision",
			decision:  privacy.Allow,
			wantAllow: true,
		},
		{
			name:     "deny_decision",
			decision: privacy.Deny,
			wantDeny: true,
		},
		{
			name:     "skip_decision",
			decision: privacy.Skip,
			wantSkip: true,
		},
		{
			name:      "allowf_formatted",
			decision:  privacy.Allowf("user %s allowed", "admin"),
			wantAllow: true,
		},
		{
			name:     "denyf_formatted",
			decision: privacy.Denyf("user %s denied", "guest"),
			wantDeny: true,
		},
		{
			name:     "skipf_formatted",
			decision: privacy.Skipf("rule %d skipped", 1),
			wantSkip: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantAllow, errors.Is(tt.decision, privacy.Allow))
			assert.Equal(t, tt.wantDeny, errors.Is(tt.decision, privacy.Deny))
			assert.Equal(t, tt.wantSkip, errors.Is(tt.decision, privacy.Skip))
		})
	}
}

func TestAlwaysRules(t *testing.T) {
	ctx := context.Background()

	t.Run("AlwaysAllowRule", func(t *testing.T) {
		rule := privacy.AlwaysAllowRule()

		err := rule.EvalQuery(ctx, &mockQuery{})
		assert.True(t, errors.Is(err, privacy.Allow))

		err = rule.EvalMutation(ctx, &mockMutation{})
		assert.True(t, errors.Is(err, privacy.Allow))
	})

	t.Run("AlwaysDenyRule", func(t *testing.T) {
		rule := privacy.AlwaysDenyRule()

		err := rule.EvalQuery(ctx, &mockQuery{})
		assert.True(t, errors.Is(err, privacy.Deny))

		err = rule.EvalMutation(ctx, &mockMutation{})
		assert.True(t, errors.Is(err, privacy.Deny))
	})
}

func TestContextQueryMutationRule(t *testing.T) {
	type userKey struct{}
	tests := []struct {
		name       string
		evalFunc   func(context.Context) error
		wantResult error
	}{
		{
			name:       "returns_allow",
			evalFunc:   func(context.Context) error { return privacy.Allow },
			wantResult: privacy.Allow,
		},
		{
			name:       "returns_deny",
			evalFunc:   func(context.Context) error { return privacy.Deny },
			wantResult: privacy.Deny,
		},
		{
			name:       "returns_skip",
			evalFunc:   func(context.Context) error { return privacy.Skip },
			wantResult: privacy.Skip,
		},
		{
			name:       "returns_nil",
			evalFunc:   func(context.Context) error { return nil },
			wantResult: nil,
		},
		{
			name: "context_value_check",
			evalFunc: func(ctx context.Context) error {
				if v := ctx.Value(userKey{}); v != nil {
					return privacy.Allow
				}
				return privacy.Deny
			},
			wantResult: privacy.Deny,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := privacy.ContextQueryMutationRule(tt.evalFunc)
			ctx := context.Background()

			queryErr := rule.EvalQuery(ctx, &mockQuery{})
			mutationErr := rule.EvalMutation(ctx, &mockMutation{})

			if tt.wantResult == nil {
				assert.NoError(t, queryErr)
				assert.NoError(t, mutationErr)
			} else {
				assert.True(t, errors.Is(queryErr, tt.wantResult))
				assert.True(t, errors.Is(mutationErr, tt.wantResult))
			}
		})
	}
}

func TestOnMutationOperation(t *testing.T) {
	tests := []struct {
		name         string
		ruleOp       forma.Op
		mutationOp   forma.Op
		ruleDecision error
		wantResult   error
	}{
		{
			name:         "matching_create_op",
			ruleOp:       forma.OpCreate,
			mutationOp:   forma.OpCreate,
			ruleDecision: privacy.Deny,
			wantResult:   privacy.Deny,
		},
		{
			name:         "non_matching_op_skips",
			ruleOp:       forma.OpCreate,
			mutationOp:   forma.OpUpdate,
			ruleDecision: privacy.Deny,
			wantResult:   privacy.Skip,
		},
		{
			name:         "matching_update_op",
			ruleOp:       forma.OpUpdate,
			mutationOp:   forma.OpUpdate,
			ruleDecision: privacy.Allow,
			wantResult:   privacy.Allow,
		},
		{
			name:         "combined_verbs_match_either",
			ruleOp:       forma.OpDelete | forma.OpDeleteBulk,
			mutationOp:   forma.OpDeleteBulk,
			ruleDecision: privacy.Deny,
			wantResult:   privacy.Deny,
		},
		{
			name:         "verb_group_matches_member",
			ruleOp:       forma.OpsMutation,
			mutationOp:   forma.OpUpsert,
			ruleDecision: privacy.Allow,
			wantResult:   privacy.Allow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			baseRule := privacy.MutationRuleFunc(func(context.Context, forma.Mutation) error {
				return tt.ruleDecision
			})
			rule := privacy.OnMutationOperation(baseRule, tt.ruleOp)

			err := rule.EvalMutation(context.Background(), &mockMutation{op: tt.mutationOp})
			assert.True(t, errors.Is(err, tt.wantResult))
		})
	}
}

func TestDenyMutationOperationRule(t *testing.T) {
	tests := []struct {
		name       string
		denyOp     forma.Op
		mutationOp forma.Op
		wantDeny   bool
	}{
		{
			name:       "deny_create",
			denyOp:     forma.OpCreate,
			mutationOp: forma.OpCreate,
			wantDeny:   true,
		},
		{
			name:       "allow_update_when_denying_create",
			denyOp:     forma.OpCreate,
			mutationOp: forma.OpUpdate,
			wantDeny:   false,
		},
		{
			name:       "deny_delete",
			denyOp:     forma.OpDelete,
			mutationOp: forma.OpDelete,
			wantDeny:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := privacy.DenyMutationOperationRule(tt.denyOp)
			err := rule.EvalMutation(context.Background(), &mockMutation{op: tt.mutationOp})

			if tt.wantDeny {
				assert.True(t, errors.Is(err, privacy.Deny))
				assert.Contains(t, err.Error(), fmt.Sprintf("operation %s is not allowed", tt.mutationOp))
			} else {
				assert.True(t, errors.Is(err, privacy.Skip))
			}
		})
	}
}

func TestAllowMutationOperationRule(t *testing.T) {
	rule := privacy.AllowMutationOperationRule(forma.OpCreate | forma.OpCreateBulk)

	err := rule.EvalMutation(context.Background(), &mockMutation{op: forma.OpCreateBulk})
	assert.True(t, errors.Is(err, privacy.Allow))

	err = rule.EvalMutation(context.Background(), &mockMutation{op: forma.OpDelete})
	assert.True(t, errors.Is(err, privacy.Skip))
}

func TestDecisionContext(t *testing.T) {
	tests := []struct {
		name         string
		decision     error
		expectStored bool
		expectValue  error
	}{
		{
			name:         "deny_stored_in_context",
			decision:     privacy.Deny,
			expectStored: true,
			expectValue:  privacy.Deny,
		},
		{
			name:         "allow_stored_returns_nil",
			decision:     privacy.Allow,
			expectStored: true,
			expectValue:  nil,
		},
		{
			name:     "skip_not_stored",
			decision: privacy.Skip,
		},
		{
			name:     "nil_not_stored",
			decision: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := privacy.DecisionContext(context.Background(), tt.decision)
			decision, ok := privacy.DecisionFromContext(ctx)

			assert.Equal(t, tt.expectStored, ok)
			if tt.expectStored {
				if tt.expectValue == nil {
					assert.NoError(t, decision)
				} else {
					assert.True(t, errors.Is(decision, tt.expectValue))
				}
			}
		})
	}
}

func TestQueryPolicy(t *testing.T) {
	tests := []struct {
		name       string
		rules      []func(context.Context, forma.Query) error
		wantResult error
	}{
		{
			name:       "empty_policy_allows",
			rules:      nil,
			wantResult: nil,
		},
		{
			name: "first_allow_stops",
			rules: []func(context.Context, forma.Query) error{
				func(context.Context, forma.Query) error { return privacy.Allow },
				func(context.Context, forma.Query) error { panic("should not be called") },
			},
			wantResult: privacy.Allow,
		},
		{
			name: "first_deny_stops",
			rules: []func(context.Context, forma.Query) error{
				func(context.Context, forma.Query) error { return privacy.Deny },
				func(context.Context, forma.Query) error { panic("should not be called") },
			},
			wantResult: privacy.Deny,
		},
		{
			name: "skip_continues_to_next",
			rules: []func(context.Context, forma.Query) error{
				func(context.Context, forma.Query) error { return privacy.Skip },
				func(context.Context, forma.Query) error { return privacy.Allow },
			},
			wantResult: privacy.Allow,
		},
		{
			name: "nil_continues_to_next",
			rules: []func(context.Context, forma.Query) error{
				func(context.Context, forma.Query) error { return nil },
				func(context.Context, forma.Query) error { return privacy.Deny },
			},
			wantResult: privacy.Deny,
		},
		{
			name: "all_skip_allows",
			rules: []func(context.Context, forma.Query) error{
				func(context.Context, forma.Query) error { return privacy.Skip },
				func(context.Context, forma.Query) error { return privacy.Skip },
			},
			wantResult: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var policy privacy.QueryPolicy
			for _, r := range tt.rules {
				policy = append(policy, privacy.QueryRuleFunc(r))
			}

			err := policy.EvalQuery(context.Background(), &mockQuery{})

			if tt.wantResult == nil {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, tt.wantResult))
			}
		})
	}
}

func TestMutationPolicy(t *testing.T) {
	tests := []struct {
		name       string
		rules      []func(context.Context, forma.Mutation) error
		wantResult error
	}{
		{
			name:       "empty_policy_allows",
			rules:      nil,
			wantResult: nil,
		},
		{
			name: "deny_stops_evaluation",
			rules: []func(context.Context, forma.Mutation) error{
				func(context.Context, forma.Mutation) error { return privacy.Deny },
				func(context.Context, forma.Mutation) error { panic("should not be called") },
			},
			wantResult: privacy.Deny,
		},
		{
			name: "allow_stops_evaluation",
			rules: []func(context.Context, forma.Mutation) error{
				func(context.Context, forma.Mutation) error { return privacy.Allow },
				func(context.Context, forma.Mutation) error { panic("should not be called") },
			},
			wantResult: privacy.Allow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var policy privacy.MutationPolicy
			for _, r := range tt.rules {
				policy = append(policy, privacy.MutationRuleFunc(r))
			}

			err := policy.EvalMutation(context.Background(), &mockMutation{})

			if tt.wantResult == nil {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, tt.wantResult))
			}
		})
	}
}

// The engine rejects an operation on any non-nil policy error, so
// Policy must hand terminal Allow decisions back as nil.
func TestPolicy(t *testing.T) {
	ctx := context.Background()

	t.Run("allow_resolves_to_nil", func(t *testing.T) {
		policy := privacy.Policy{
			Query: privacy.QueryPolicy{
				privacy.QueryRuleFunc(func(context.Context, forma.Query) error {
					return privacy.Allow
				}),
			},
		}

		assert.NoError(t, policy.EvalQuery(ctx, &mockQuery{}))
	})

	t.Run("deny_forwards", func(t *testing.T) {
		policy := privacy.Policy{
			Mutation: privacy.MutationPolicy{
				privacy.MutationRuleFunc(func(context.Context, forma.Mutation) error {
					return privacy.Deny
				}),
			},
		}

		err := policy.EvalMutation(ctx, &mockMutation{})
		assert.True(t, errors.Is(err, privacy.Deny))
	})

	t.Run("plain_error_forwards", func(t *testing.T) {
		boom := errors.New("rule exploded")
		policy := privacy.Policy{
			Mutation: privacy.MutationPolicy{
				privacy.MutationRuleFunc(func(context.Context, forma.Mutation) error {
					return boom
				}),
			},
		}

		err := policy.EvalMutation(ctx, &mockMutation{})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("empty_policy_allows", func(t *testing.T) {
		policy := privacy.Policy{}
		assert.NoError(t, policy.EvalQuery(ctx, &mockQuery{}))
		assert.NoError(t, policy.EvalMutation(ctx, &mockMutation{}))
	})

	t.Run("forced_deny_overrides_rules", func(t *testing.T) {
		policy := privacy.Policy{
			Query: privacy.QueryPolicy{privacy.AlwaysAllowRule()},
		}

		forced := privacy.DecisionContext(ctx, privacy.Deny)
		err := policy.EvalQuery(forced, &mockQuery{})
		assert.True(t, errors.Is(err, privacy.Deny))
	})

	t.Run("forced_allow_overrides_rules", func(t *testing.T) {
		policy := privacy.Policy{
			Mutation: privacy.MutationPolicy{privacy.AlwaysDenyRule()},
		}

		forced := privacy.DecisionContext(ctx, privacy.Allow)
		assert.NoError(t, policy.EvalMutation(forced, &mockMutation{}))
	})
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantContain string
	}{
		{
			name:        "allowf_message",
			err:         privacy.Allowf("user %s granted access", "admin"),
			wantContain: "user admin granted access",
		},
		{
			name:        "denyf_message",
			err:         privacy.Denyf("access denied for role %s", "guest"),
			wantContain: "access denied for role guest",
		},
		{
			name:        "skipf_message",
			err:         privacy.Skipf("skipping rule %d", 42),
			wantContain: "skipping rule 42",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Contains(t, tt.err.Error(), tt.wantContain)
		})
	}
}

func TestPolicyContextPropagation(t *testing.T) {
	type ctxKey string
	key := ctxKey("testValue")

	policy := privacy.QueryPolicy{
		privacy.QueryRuleFunc(func(ctx context.Context, _ forma.Query) error {
			if v := ctx.Value(key); v != "expected" {
				return fmt.Errorf("unexpected context value: %v", v)
			}
			return privacy.Allow
		}),
	}

	ctx := context.WithValue(context.Background(), key, "expected")
	err := policy.EvalQuery(ctx, &mockQuery{})
	assert.True(t, errors.Is(err, privacy.Allow))
}

func BenchmarkPrivacy(b *testing.B) {
	ctx := context.Background()
	query := &mockQuery{}
	mutation := &mockMutation{op: forma.OpCreate}

	b.Run("AlwaysAllowRule", func(b *testing.B) {
		rule := privacy.AlwaysAllowRule()
		for i := 0; i < b.N; i++ {
			_ = rule.EvalQuery(ctx, query)
		}
	})

	b.Run("AlwaysDenyRule", func(b *testing.B) {
		rule := privacy.AlwaysDenyRule()
		for i := 0; i < b.N; i++ {
			_ = rule.EvalMutation(ctx, mutation)
		}
	})

	b.Run("PolicyChain_5Rules", func(b *testing.B) {
		skip := privacy.QueryRuleFunc(func(context.Context, forma.Query) error { return privacy.Skip })
		policy := privacy.QueryPolicy{
			skip, skip, skip, skip,
			privacy.QueryRuleFunc(func(context.Context, forma.Query) error { return privacy.Allow }),
		}
		for i := 0; i < b.N; i++ {
			_ = policy.EvalQuery(ctx, query)
		}
	})

	b.Run("DecisionContext", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			dCtx := privacy.DecisionContext(ctx, privacy.Allow)
			_, _ = privacy.DecisionFromContext(dCtx)
		}
	})
}
