package index

import (
	"github.com/mokua/distframe/internal/domain/idxerrors"
	"github.com/mokua/distframe/internal/domain/value"
)

// numeric extracts a cell as a number, remembering whether it was an
// integer so integer indexes stay integer under integer arithmetic.
func numeric(v interface{}) (f float64, isInt bool, ok bool) {
	switch t := value.Normalize(v).(type) {
	case int64:
		return float64(t), true, true
	case float64:
		return t, false, true
	}
	return 0, false, false
}

func numericResult(f float64, isInt bool) interface{} {
	if isInt {
		return int64(f)
	}
	return f
}

// elementwise applies op to every label, producing a new index that
// keeps the receiver's name.
func (ix *Index) elementwise(op string, fn func(v interface{}) (interface{}, error)) (*Index, error) {
	if ix.kind != value.KindInteger && ix.kind != value.KindFloating && ix.kind != value.KindEmpty {
		return nil, &idxerrors.TypeOpError{Op: op, Kind: ix.InferredType()}
	}
	out := make([]interface{}, len(ix.values))
	for i, v := range ix.values {
		r, err := fn(v)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return New(out, WithName(ix.name))
}

// MulScalar multiplies every label by k, keeping the name
func (ix *Index) MulScalar(k interface{}) (*Index, error) {
	kf, kInt, ok := numeric(k)
	if !ok {
		return nil, &idxerrors.TypeOpError{Op: "mul", Kind: value.KindOf(k).InferredName()}
	}
	return ix.elementwise("mul", func(v interface{}) (interface{}, error) {
		vf, vInt, ok := numeric(v)
		if !ok {
			return nil, &idxerrors.TypeOpError{Op: "mul", Kind: value.KindOf(v).InferredName()}
		}
		return numericResult(vf*kf, vInt && kInt), nil
	})
}

// AddScalar adds k to every label, keeping the name
func (ix *Index) AddScalar(k interface{}) (*Index, error) {
	kf, kInt, ok := numeric(k)
	if !ok {
		return nil, &idxerrors.TypeOpError{Op: "add", Kind: value.KindOf(k).InferredName()}
	}
	return ix.elementwise("add", func(v interface{}) (interface{}, error) {
		vf, vInt, ok := numeric(v)
		if !ok {
			return nil, &idxerrors.TypeOpError{Op: "add", Kind: value.KindOf(v).InferredName()}
		}
		return numericResult(vf+kf, vInt && kInt), nil
	})
}

// Add performs elementwise addition with another index. The result
// keeps the name only when both operands carry the same name.
func (ix *Index) Add(other *Index) (*Index, error) {
	if other == nil || len(ix.values) != len(other.values) {
		n := 0
		if other != nil {
			n = len(other.values)
		}
		return nil, &idxerrors.LengthMismatchError{Left: len(ix.values), Right: n}
	}
	if other.kind != value.KindInteger && other.kind != value.KindFloating && other.kind != value.KindEmpty {
		return nil, &idxerrors.TypeOpError{Op: "add", Kind: other.InferredType()}
	}
	i := 0
	out, err := ix.elementwise("add", func(v interface{}) (interface{}, error) {
		vf, vInt, ok := numeric(v)
		if !ok {
			return nil, &idxerrors.TypeOpError{Op: "add", Kind: value.KindOf(v).InferredName()}
		}
		of, oInt, ok := numeric(other.values[i])
		if !ok {
			return nil, &idxerrors.TypeOpError{Op: "add", Kind: value.KindOf(other.values[i]).InferredName()}
		}
		i++
		return numericResult(vf+of, vInt && oInt), nil
	})
	if err != nil {
		return nil, err
	}
	if !value.Equal(ix.name, other.name) {
		out.name = nil
	}
	return out, nil
}
