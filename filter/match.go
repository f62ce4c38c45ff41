package filter

// Fields is a stored document: a flat mapping from field name to typed value.
// It is the shape compiled filter documents are evaluated against.
type Fields map[string]Value

// Matches checks whether the stored fields satisfy every constraint in the
// compiled document. An empty document matches everything.
func (d *Document) Matches(doc Fields) bool {
	for i, name := range d.names {
		value, exists := doc[name]
		if !exists {
			return false
		}
		c := d.cons[i]
		if !c.isSet {
			if !compareEqual(value, c.scalar) {
				return false
			}
			continue
		}
		for _, e := range c.ops {
			if !matchOp(value, e.Op, e.Value) {
				return false
			}
		}
	}
	return true
}

func matchOp(a Value, op string, b Value) bool {
	switch op {
	case OpNe:
		return !compareEqual(a, b)
	case OpGt:
		return compareGreater(a, b)
	case OpGte:
		return compareGreater(a, b) || compareEqual(a, b)
	case OpLt:
		return compareLess(a, b)
	case OpLte:
		return compareLess(a, b) || compareEqual(a, b)
	default:
		return false
	}
}

func compareEqual(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}

	switch a.Kind {
	case KindNumber:
		return a.F64 == b.F64
	case KindString:
		return a.S == b.S
	case KindBool:
		return a.B == b.B
	default:
		return false
	}
}

// Range comparisons are defined for numbers only; mismatched kinds never match.

func compareGreater(a, b Value) bool {
	if a.Kind != KindNumber || b.Kind != KindNumber {
		return false
	}
	return a.F64 > b.F64
}

func compareLess(a, b Value) bool {
	if a.Kind != KindNumber || b.Kind != KindNumber {
		return false
	}
	return a.F64 < b.F64
}
