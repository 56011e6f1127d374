package value

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

// Kind classifies the runtime type held by index cells
type Kind string

const (
	KindInteger  Kind = "INTEGER"
	KindFloating Kind = "FLOATING"
	KindString   Kind = "STRING"
	KindBoolean  Kind = "BOOLEAN"
	KindDatetime Kind = "DATETIME"
	KindMixed    Kind = "MIXED"
	KindEmpty    Kind = "EMPTY"
)

// InferredName is the lowercase type name exposed through the
// inferred_type attribute surface.
func (k Kind) InferredName() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindFloating:
		return "floating"
	case KindString:
		return "string"
	case KindBoolean:
		return "boolean"
	case KindDatetime:
		return "datetime64"
	case KindEmpty:
		return "empty"
	default:
		return "mixed"
	}
}

// Dtype is the storage dtype name exposed through the dtype attribute
func (k Kind) Dtype() string {
	switch k {
	case KindInteger:
		return "int64"
	case KindFloating:
		return "float64"
	case KindDatetime:
		return "datetime64[ns]"
	default:
		return "object"
	}
}

// Tuple is a fixed group of cells, used for MultiIndex entries and for
// hierarchical column labels. Unlike a plain slice, a Tuple counts as
// hashable when all of its elements are hashable.
type Tuple []interface{}

// Normalize folds the narrow numeric types that arrive from callers
// and JSON decoding into the canonical cell types (int64, float64).
func Normalize(v interface{}) interface{} {
	switch t := v.(type) {
	case int:
		return int64(t)
	case int32:
		return int64(t)
	case int16:
		return int64(t)
	case int8:
		return int64(t)
	case uint:
		return int64(t)
	case uint32:
		return int64(t)
	case float32:
		return float64(t)
	case Tuple:
		out := make(Tuple, len(t))
		for i, e := range t {
			out[i] = Normalize(e)
		}
		return out
	default:
		return v
	}
}

// NormalizeAll normalizes a slice of cells in place and returns it.
func NormalizeAll(values []interface{}) []interface{} {
	for i, v := range values {
		values[i] = Normalize(v)
	}
	return values
}

// IsHashable reports whether v can serve as an index name or label.
// Slices, maps and funcs cannot; Tuples can when their elements can.
func IsHashable(v interface{}) bool {
	if v == nil {
		return true
	}
	if t, ok := v.(Tuple); ok {
		for _, e := range t {
			if !IsHashable(e) {
				return false
			}
		}
		return true
	}
	return reflect.TypeOf(v).Comparable()
}

// Equal compares two cells after normalization. Integers and floats
// holding the same number compare equal.
func Equal(a, b interface{}) bool {
	a, b = Normalize(a), Normalize(b)
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if at, ok := a.(Tuple); ok {
		bt, ok := b.(Tuple)
		if !ok || len(at) != len(bt) {
			return false
		}
		for i := range at {
			if !Equal(at[i], bt[i]) {
				return false
			}
		}
		return true
	}
	if at, ok := a.(time.Time); ok {
		bt, ok := b.(time.Time)
		return ok && at.Equal(bt)
	}
	af, aNum := asFloat(a)
	bf, bNum := asFloat(b)
	if aNum && bNum {
		return af == bf
	}
	return a == b
}

// Key builds a canonical string key for a cell so that unhashable Go
// representations (Tuples) can still key maps, and so 1 and 1.0 land
// in the same bucket.
func Key(v interface{}) string {
	switch t := Normalize(v).(type) {
	case nil:
		return "nil"
	case int64:
		return fmt.Sprintf("i:%d", t)
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("i:%d", int64(t))
		}
		return fmt.Sprintf("f:%g", t)
	case string:
		return "s:" + t
	case bool:
		return fmt.Sprintf("b:%t", t)
	case time.Time:
		return "d:" + t.UTC().Format(time.RFC3339Nano)
	case Tuple:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = Key(e)
		}
		return "(" + strings.Join(parts, ",") + ")"
	default:
		return fmt.Sprintf("v:%v", t)
	}
}

// Less orders two cells for sorted factorization output. Cells of the
// same kind order naturally; mixed kinds fall back to key order so the
// ordering stays total.
func Less(a, b interface{}) bool {
	a, b = Normalize(a), Normalize(b)
	if a == nil || b == nil {
		return a == nil && b != nil
	}
	af, aNum := asFloat(a)
	bf, bNum := asFloat(b)
	if aNum && bNum {
		return af < bf
	}
	switch at := a.(type) {
	case string:
		if bt, ok := b.(string); ok {
			return at < bt
		}
	case bool:
		if bt, ok := b.(bool); ok {
			return !at && bt
		}
	case time.Time:
		if bt, ok := b.(time.Time); ok {
			return at.Before(bt)
		}
	case Tuple:
		if bt, ok := b.(Tuple); ok {
			for i := 0; i < len(at) && i < len(bt); i++ {
				if Equal(at[i], bt[i]) {
					continue
				}
				return Less(at[i], bt[i])
			}
			return len(at) < len(bt)
		}
	}
	return Key(a) < Key(b)
}

// asFloat extracts a numeric cell as float64. Booleans are not numeric.
func asFloat(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case int64:
		return float64(t), true
	case float64:
		return t, true
	}
	return 0, false
}
