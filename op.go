package forma

import "fmt"

// An Op is an operation verb. Every handler is bound to exactly one
// (entity, Op) pair at derivation time.
type Op uint

// Operation verbs. The values are bit flags so hook and interceptor
// conditions can match several verbs at once, e.g.
// OpCreate|OpUpsert.
const (
	// OpCreate inserts a single row.
	OpCreate Op = 1 << iota
	// OpCreateBulk inserts many rows in transactional batches.
	OpCreateBulk
	// OpRead fetches a single row by identity or by a predicate
	// that matches exactly one row.
	OpRead
	// OpUpdate applies field changes to all rows matching a predicate.
	OpUpdate
	// OpUpdateBulk applies a sequence of updates in transactional
	// batches.
	OpUpdateBulk
	// OpDelete removes rows matching a predicate. Soft-deleting
	// entities mark rows instead, unless a hard delete is requested.
	OpDelete
	// OpDeleteBulk applies a sequence of deletes in transactional
	// batches.
	OpDeleteBulk
	// OpList fetches rows matching a predicate with ordering and
	// pagination.
	OpList
	// OpCount counts rows matching a predicate.
	OpCount
	// OpUpsert inserts a row or updates the existing one according
	// to a conflict specification.
	OpUpsert
	// OpUpsertBulk upserts many rows sharing one conflict
	// specification.
	OpUpsertBulk
)

// Verb groups, usable as hook conditions.
const (
	// OpsMutation covers all verbs that modify rows.
	OpsMutation = OpCreate | OpCreateBulk | OpUpdate | OpUpdateBulk | OpDelete | OpDeleteBulk | OpUpsert | OpUpsertBulk
	// OpsQuery covers all read-only verbs.
	OpsQuery = OpRead | OpList | OpCount
	// OpsAll covers every verb.
	OpsAll = OpsMutation | OpsQuery
)

// Is reports whether i is one of the verbs in o.
func (i Op) Is(o Op) bool { return i&o != 0 }

func (i Op) String() string {
	switch i {
	case OpCreate:
		return "OpCreate"
	case OpCreateBulk:
		return "OpCreateBulk"
	case OpRead:
		return "OpRead"
	case OpUpdate:
		return "OpUpdate"
	case OpUpdateBulk:
		return "OpUpdateBulk"
	case OpDelete:
		return "OpDelete"
	case OpDeleteBulk:
		return "OpDeleteBulk"
	case OpList:
		return "OpList"
	case OpCount:
		return "OpCount"
	case OpUpsert:
		return "OpUpsert"
	case OpUpsertBulk:
		return "OpUpsertBulk"
	default:
		return fmt.Sprintf("Op(%d)", uint(i))
	}
}

// Ops returns all operation verbs in a stable order.
func Ops() []Op {
	return []Op{
		OpCreate, OpCreateBulk, OpRead, OpUpdate, OpUpdateBulk,
		OpDelete, OpDeleteBulk, OpList, OpCount, OpUpsert, OpUpsertBulk,
	}
}

// ParseOp resolves a verb from its name. Both the Go constant name
// ("OpCreate") and the bare lowercase verb ("create") are accepted.
func ParseOp(name string) (Op, error) {
	for _, op := range Ops() {
		if s := op.String(); s == name || verb(s) == name {
			return op, nil
		}
	}
	return 0, fmt.Errorf("forma: unknown operation %q", name)
}

// verb lowercases an op name and strips the "Op" prefix:
// "OpCreateBulk" becomes "create_bulk".
func verb(s string) string {
	s = s[len("Op"):]
	out := make([]byte, 0, len(s)+2)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			if i > 0 {
				out = append(out, '_')
			}
			c += 'a' - 'A'
		}
		out = append(out, c)
	}
	return string(out)
}
