package index

import (
	"fmt"

	"github.com/mokua/distframe/internal/domain/idxerrors"
	"github.com/mokua/distframe/internal/domain/value"
)

// MultiIndex is a hierarchical index: several aligned label levels,
// each with an optional name.
type MultiIndex struct {
	levels [][]interface{} // levels[l][row]
	names  []interface{}   // one entry per level, nil = unnamed
	length int
}

// MultiOption configures a MultiIndex under construction
type MultiOption func(*MultiIndex) error

// WithNames sets the per-level names. Length must match the level
// count and every name must be hashable.
func WithNames(names []interface{}) MultiOption {
	return func(mi *MultiIndex) error {
		return mi.SetNames(names)
	}
}

// FromArrays builds a MultiIndex from one label slice per level
func FromArrays(levels [][]interface{}, opts ...MultiOption) (*MultiIndex, error) {
	if len(levels) == 0 {
		return nil, fmt.Errorf("cannot build a MultiIndex from zero levels")
	}
	n := len(levels[0])
	copied := make([][]interface{}, len(levels))
	for l, lv := range levels {
		if len(lv) != n {
			return nil, fmt.Errorf("level %d has length %d, expected %d", l, len(lv), n)
		}
		vs := make([]interface{}, n)
		copy(vs, lv)
		copied[l] = value.NormalizeAll(vs)
	}
	mi := &MultiIndex{
		levels: copied,
		names:  make([]interface{}, len(levels)),
		length: n,
	}
	for _, opt := range opts {
		if err := opt(mi); err != nil {
			return nil, err
		}
	}
	return mi, nil
}

// FromTuples builds a MultiIndex from one tuple per row. All tuples
// must share the same arity.
func FromTuples(tuples []value.Tuple, opts ...MultiOption) (*MultiIndex, error) {
	if len(tuples) == 0 {
		return nil, fmt.Errorf("cannot build a MultiIndex from zero tuples")
	}
	width := len(tuples[0])
	levels := make([][]interface{}, width)
	for l := range levels {
		levels[l] = make([]interface{}, len(tuples))
	}
	for row, tup := range tuples {
		if len(tup) != width {
			return nil, fmt.Errorf("tuple %d has length %d, expected %d", row, len(tup), width)
		}
		for l, cell := range tup {
			levels[l][row] = cell
		}
	}
	return FromArrays(levels, opts...)
}

// Len returns the number of rows
func (mi *MultiIndex) Len() int { return mi.length }

// NLevels returns the number of levels
func (mi *MultiIndex) NLevels() int { return len(mi.levels) }

// Tuples returns the row labels as tuples
func (mi *MultiIndex) Tuples() []value.Tuple {
	out := make([]value.Tuple, mi.length)
	for row := 0; row < mi.length; row++ {
		tup := make(value.Tuple, len(mi.levels))
		for l := range mi.levels {
			tup[l] = mi.levels[l][row]
		}
		out[row] = tup
	}
	return out
}

// Name is not defined for a hierarchical index; use Names
func (mi *MultiIndex) Name() (interface{}, error) {
	return nil, &idxerrors.NotImplementedError{Type: "MultiIndex", What: "property", Op: "Name"}
}

// SetName is not defined for a hierarchical index; use SetNames
func (mi *MultiIndex) SetName(name interface{}) error {
	return &idxerrors.NotImplementedError{Type: "MultiIndex", What: "property", Op: "Name"}
}

// Names returns a copy of the per-level names
func (mi *MultiIndex) Names() []interface{} {
	out := make([]interface{}, len(mi.names))
	copy(out, mi.names)
	return out
}

// SetNames renames every level in place. The list length must match
// the level count and every entry must be hashable.
func (mi *MultiIndex) SetNames(names []interface{}) error {
	if len(names) != len(mi.levels) {
		return &idxerrors.NameLengthError{Want: len(mi.levels), Got: len(names)}
	}
	for _, n := range names {
		if !value.IsHashable(n) {
			return &idxerrors.UnhashableNameError{Type: "MultiIndex", Value: n}
		}
	}
	for i, n := range names {
		mi.names[i] = value.Normalize(n)
	}
	return nil
}

// WithNames returns a renamed copy, leaving the receiver untouched
func (mi *MultiIndex) WithNames(names []interface{}) (*MultiIndex, error) {
	out := mi.Copy()
	if err := out.SetNames(names); err != nil {
		return nil, err
	}
	return out, nil
}

// SetNameAt renames a single level in place
func (mi *MultiIndex) SetNameAt(level int, name interface{}) error {
	if level < 0 || level >= len(mi.levels) {
		return &idxerrors.LevelError{NLevels: len(mi.levels), Level: level}
	}
	if !value.IsHashable(name) {
		return &idxerrors.UnhashableNameError{Type: "MultiIndex", Value: name}
	}
	mi.names[level] = value.Normalize(name)
	return nil
}

// WithNameAt returns a copy with a single level renamed
func (mi *MultiIndex) WithNameAt(level int, name interface{}) (*MultiIndex, error) {
	out := mi.Copy()
	if err := out.SetNameAt(level, name); err != nil {
		return nil, err
	}
	return out, nil
}

// Copy returns a deep copy of the index
func (mi *MultiIndex) Copy() *MultiIndex {
	levels := make([][]interface{}, len(mi.levels))
	for l, lv := range mi.levels {
		vs := make([]interface{}, len(lv))
		copy(vs, lv)
		levels[l] = vs
	}
	names := make([]interface{}, len(mi.names))
	copy(names, mi.names)
	return &MultiIndex{levels: levels, names: names, length: mi.length}
}

// View returns a copy sharing the backing level arrays
func (mi *MultiIndex) View() *MultiIndex {
	names := make([]interface{}, len(mi.names))
	copy(names, mi.names)
	return &MultiIndex{levels: mi.levels, names: names, length: mi.length}
}

// Item extracts the sole row of a single-row index as a tuple
func (mi *MultiIndex) Item() (value.Tuple, error) {
	if mi.length != 1 {
		return nil, &idxerrors.ScalarSizeError{Size: mi.length}
	}
	return mi.Tuples()[0], nil
}

// HoldsInteger is always false: tuple rows have no single scalar type
func (mi *MultiIndex) HoldsInteger() bool { return false }

// InferredType is always mixed for a hierarchical index
func (mi *MultiIndex) InferredType() string { return "mixed" }

// Factorize is not defined for a hierarchical index
func (mi *MultiIndex) Factorize() ([]int64, *Index, error) {
	return nil, nil, &idxerrors.NotImplementedError{Type: "MultiIndex", What: "method", Op: "Factorize"}
}

// GetLevelValues extracts one level as a flat Index carrying that
// level's name.
func (mi *MultiIndex) GetLevelValues(level int) (*Index, error) {
	if level < 0 || level >= len(mi.levels) {
		return nil, &idxerrors.LevelError{NLevels: len(mi.levels), Level: level}
	}
	return New(mi.levels[level], WithName(mi.names[level]))
}

// Equals reports elementwise row equality. Names do not participate.
func (mi *MultiIndex) Equals(other *MultiIndex) bool {
	if other == nil || mi.length != other.length || len(mi.levels) != len(other.levels) {
		return false
	}
	for l := range mi.levels {
		for row := 0; row < mi.length; row++ {
			if !value.Equal(mi.levels[l][row], other.levels[l][row]) {
				return false
			}
		}
	}
	return true
}

// Attr resolves the dynamic attribute surface. The single-name
// attribute deliberately reports not-implemented rather than unknown.
func (mi *MultiIndex) Attr(name string) (interface{}, error) {
	switch name {
	case "name":
		return mi.Name()
	case "names":
		return mi.Names(), nil
	case "dtype":
		return "object", nil
	case "inferred_type":
		return mi.InferredType(), nil
	case "size":
		return mi.length, nil
	case "nlevels":
		return len(mi.levels), nil
	case "values":
		return mi.Tuples(), nil
	}
	return nil, &idxerrors.AttributeError{Type: "MultiIndex", Attr: name}
}

// SetAttr assigns through the dynamic attribute surface
func (mi *MultiIndex) SetAttr(name string, v interface{}) error {
	switch name {
	case "name":
		return mi.SetName(v)
	case "names":
		names, err := value.AsNameList(v)
		if err != nil {
			return err
		}
		return mi.SetNames(names)
	}
	return &idxerrors.AttributeError{Type: "MultiIndex", Attr: name}
}
