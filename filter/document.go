package filter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hupe1980/filterq/codec"
)

// Comparison operator keys as they appear in the serialized filter document.
const (
	OpGt  = "$gt"
	OpGte = "$gte"
	OpLt  = "$lt"
	OpLte = "$lte"
	OpNe  = "$ne"
)

// ConflictError is returned when a field would end up with contradictory
// constraint forms: a second equality on the same field, or an equality
// meeting an existing operator set (and vice versa).
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicting constraint for field %q", e.Field)
}

// OpEntry is one named comparison inside an OperatorSet.
type OpEntry struct {
	Op    string
	Value Value
}

// Constraint is the accumulated restriction on a single field. It is either
// a Scalar (one equality value) or an OperatorSet (named comparisons).
// The two forms never mix; Document.SetScalar and Document.SetOperator
// encode the full decision table:
//
//	existing \ incoming | equality  | comparison
//	--------------------+-----------+---------------------------
//	absent              | Scalar    | OperatorSet{op}
//	Scalar              | conflict  | conflict
//	OperatorSet         | conflict  | set op key (last wins)
type Constraint struct {
	scalar Value
	ops    []OpEntry
	isSet  bool
}

// IsScalar reports whether the constraint holds a single equality value.
func (c Constraint) IsScalar() bool { return !c.isSet }

// Scalar returns the equality value of a scalar constraint.
func (c Constraint) Scalar() (Value, bool) {
	if c.isSet {
		return Value{}, false
	}
	return c.scalar, true
}

// Operators returns the entries of an operator-set constraint in first-insert
// order. The returned slice is shared; callers must not mutate it.
func (c Constraint) Operators() []OpEntry {
	if !c.isSet {
		return nil
	}
	return c.ops
}

// Document is an insertion-ordered mapping from field name to Constraint.
//
// A Document is built fresh for every compile call and discarded after
// serialization; it holds no cross-call state and is not safe for concurrent
// mutation.
type Document struct {
	names  []string
	cons   []Constraint // parallel to names
	byName map[string]int
}

// NewDocument creates an empty filter document.
func NewDocument() *Document {
	return &Document{byName: make(map[string]int)}
}

// Len returns the number of constrained fields.
func (d *Document) Len() int { return len(d.names) }

// SetScalar inserts an equality constraint. Equality never merges: any
// existing constraint on the field is a conflict.
func (d *Document) SetScalar(name string, v Value) error {
	if _, ok := d.byName[name]; ok {
		return &ConflictError{Field: name}
	}
	d.byName[name] = len(d.names)
	d.names = append(d.names, name)
	d.cons = append(d.cons, Constraint{scalar: v})
	return nil
}

// SetOperator inserts or merges a comparison constraint. A fresh field gets a
// one-entry operator set; an existing operator set gains (or overwrites) the
// operator key; an existing scalar is a conflict.
func (d *Document) SetOperator(name, op string, v Value) error {
	i, ok := d.byName[name]
	if !ok {
		d.byName[name] = len(d.names)
		d.names = append(d.names, name)
		d.cons = append(d.cons, Constraint{isSet: true, ops: []OpEntry{{Op: op, Value: v}}})
		return nil
	}
	c := &d.cons[i]
	if !c.isSet {
		return &ConflictError{Field: name}
	}
	for j := range c.ops {
		if c.ops[j].Op == op {
			c.ops[j].Value = v
			return nil
		}
	}
	c.ops = append(c.ops, OpEntry{Op: op, Value: v})
	return nil
}

// Each calls fn for every field in insertion order.
func (d *Document) Each(fn func(name string, c Constraint)) {
	for i, name := range d.names {
		fn(name, d.cons[i])
	}
}

// MarshalText renders the document as compact, canonical single-line text in
// field insertion order. Numbers always render in floating form (400 -> 400.0)
// because constraint values are 64-bit floats. An empty document renders as {}.
//
// The output is transmitted byte-for-byte as the body of downstream find
// requests, so the exact shape is a wire contract, not a display preference.
func (d *Document) MarshalText() ([]byte, error) {
	buf := make([]byte, 0, 16+32*len(d.names))
	buf = append(buf, '{')
	for i, name := range d.names {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = appendString(buf, name)
		buf = append(buf, ':')
		c := d.cons[i]
		if !c.isSet {
			buf = appendValue(buf, c.scalar)
			continue
		}
		buf = append(buf, '{')
		for j, e := range c.ops {
			if j > 0 {
				buf = append(buf, ',')
			}
			buf = appendString(buf, e.Op)
			buf = append(buf, ':')
			buf = appendValue(buf, e.Value)
		}
		buf = append(buf, '}')
	}
	buf = append(buf, '}')
	return buf, nil
}

// String renders the document like MarshalText.
func (d *Document) String() string {
	b, _ := d.MarshalText()
	return string(b)
}

func appendValue(dst []byte, v Value) []byte {
	switch v.Kind {
	case KindNumber:
		s := strconv.FormatFloat(v.F64, 'f', -1, 64)
		dst = append(dst, s...)
		if !strings.ContainsRune(s, '.') {
			dst = append(dst, ".0"...)
		}
		return dst
	case KindBool:
		return strconv.AppendBool(dst, v.B)
	default:
		return appendString(dst, v.S)
	}
}

// stringEscaper is fixed at compile time. Serialization must not read any
// process-wide mutable setting: the same document renders the same bytes no
// matter what other code reconfigures.
var stringEscaper = codec.GoJSON{}

func appendString(dst []byte, s string) []byte {
	b, err := stringEscaper.Marshal(s)
	if err != nil {
		// Marshaling a plain string cannot fail.
		return append(dst, `""`...)
	}
	return append(dst, b...)
}
