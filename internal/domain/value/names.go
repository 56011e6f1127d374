package value

import (
	"reflect"

	"github.com/mokua/distframe/internal/domain/idxerrors"
)

// AsNameList coerces a dynamically typed value (an attribute
// assignment, decoded JSON metadata) into a list of index names.
// Scalars are not list-like; strings count as scalars, not as
// character lists.
func AsNameList(v interface{}) ([]interface{}, error) {
	switch t := v.(type) {
	case nil:
		return nil, &idxerrors.NamesNotListLikeError{Value: v}
	case []interface{}:
		return t, nil
	case Tuple:
		return []interface{}(t), nil
	case []string:
		out := make([]interface{}, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out, nil
	case string:
		return nil, &idxerrors.NamesNotListLikeError{Value: v}
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		out := make([]interface{}, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = rv.Index(i).Interface()
		}
		return out, nil
	}
	return nil, &idxerrors.NamesNotListLikeError{Value: v}
}
