package value

import "time"

// KindOf classifies a single cell. Tuples classify as mixed because a
// tuple cell has no single scalar type.
func KindOf(v interface{}) Kind {
	switch Normalize(v).(type) {
	case int64:
		return KindInteger
	case float64:
		return KindFloating
	case string:
		return KindString
	case bool:
		return KindBoolean
	case time.Time:
		return KindDatetime
	default:
		return KindMixed
	}
}

// Infer determines the kind of a cell slice. Missing cells (nil) do
// not participate. An all-missing or empty slice infers as empty.
func Infer(values []interface{}) Kind {
	kind := KindEmpty
	for _, v := range values {
		if v == nil {
			continue
		}
		kind = MergeKinds(kind, KindOf(v))
		if kind == KindMixed {
			return KindMixed
		}
	}
	return kind
}

// MergeKinds combines two inferred kinds. Integers widen to floating
// when mixed with floats; any other combination is mixed.
func MergeKinds(a, b Kind) Kind {
	switch {
	case a == b:
		return a
	case a == KindEmpty:
		return b
	case b == KindEmpty:
		return a
	case (a == KindInteger && b == KindFloating) || (a == KindFloating && b == KindInteger):
		return KindFloating
	default:
		return KindMixed
	}
}
