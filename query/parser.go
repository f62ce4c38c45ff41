package query

import (
	"strings"

	"github.com/hupe1980/filterq/filter"
)

// Op identifies the comparison a term applies to its field.
type Op uint8

const (
	// OpInvalid represents an unrecognized operator.
	OpInvalid Op = iota
	// OpEq represents the equality operator (":").
	OpEq
	// OpNotEq represents the inequality operator ("!:").
	OpNotEq
	// OpGt represents the greater-than operator (">").
	OpGt
	// OpGte represents the greater-or-equal operator (">=").
	OpGte
	// OpLt represents the less-than operator ("<").
	OpLt
	// OpLte represents the less-or-equal operator ("<=").
	OpLte
)

// Symbol returns the `$`-prefixed key the operator serializes to, or ""
// for equality, which serializes as a bare scalar.
func (o Op) Symbol() string {
	switch o {
	case OpNotEq:
		return filter.OpNe
	case OpGt:
		return filter.OpGt
	case OpGte:
		return filter.OpGte
	case OpLt:
		return filter.OpLt
	case OpLte:
		return filter.OpLte
	default:
		return ""
	}
}

// Term is one parsed field/operator/value triple.
type Term struct {
	Field string
	Op    Op
	Raw   string
}

// opTable is tried in order. Compound operators must precede their
// single-character prefixes (">=" before ">") or they would never match;
// reordering this table changes parsing results.
var opTable = []struct {
	text string
	op   Op
}{
	{">=", OpGte},
	{"<=", OpLte},
	{">", OpGt},
	{"<", OpLt},
	{"!:", OpNotEq},
	{":", OpEq},
}

// ParseTerm splits a token into (field, operator, raw value) at the first
// occurrence of the highest-priority operator substring it contains. Tokens
// without any operator report ok=false and contribute no constraint, as do
// tokens whose operator sits at the very front (field names are non-empty):
// a stray ">" from malformed spacing like "pages > 400" is dropped, not
// parsed.
func ParseTerm(token string) (Term, bool) {
	for _, e := range opTable {
		i := strings.Index(token, e.text)
		if i < 0 {
			continue
		}
		if i == 0 {
			return Term{}, false
		}
		return Term{
			Field: token[:i],
			Op:    e.op,
			Raw:   token[i+len(e.text):],
		}, true
	}
	return Term{}, false
}
