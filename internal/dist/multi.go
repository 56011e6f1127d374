package dist

import (
	"context"

	"github.com/mokua/distframe/internal/domain/idxerrors"
	"github.com/mokua/distframe/internal/domain/value"
	"github.com/mokua/distframe/internal/index"
)

// MultiIndex is the partitioned mirror of index.MultiIndex. Rows are
// stored as tuples inside the partitions; per-level names live on the
// struct.
type MultiIndex struct {
	rt      *Runtime
	parts   []*Partition // Values hold value.Tuple cells
	names   []interface{}
	nlevels int
}

// FromMultiIndex mirrors a reference hierarchical index into
// partitioned form.
func FromMultiIndex(rt *Runtime, ref *index.MultiIndex, parts int) *MultiIndex {
	if rt == nil {
		rt = DefaultRuntime()
	}
	tuples := ref.Tuples()
	values := make([]interface{}, len(tuples))
	for i, t := range tuples {
		values[i] = t
	}
	return &MultiIndex{
		rt:      rt,
		parts:   split(values, parts),
		names:   ref.Names(),
		nlevels: ref.NLevels(),
	}
}

// Collect gathers the partitioned rows back into a reference
// hierarchical index.
func (dm *MultiIndex) Collect(ctx context.Context) (*index.MultiIndex, error) {
	offs := offsets(dm.parts)
	tuples := make([]value.Tuple, offs[len(dm.parts)])
	err := dm.rt.forEach(ctx, "collect", dm.parts, func(i int, p *Partition) error {
		for j, v := range p.Values {
			tuples[offs[i]+j] = v.(value.Tuple)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return index.FromTuples(tuples, index.WithNames(dm.Names()))
}

// Len returns the number of rows across all partitions
func (dm *MultiIndex) Len() int {
	n := 0
	for _, p := range dm.parts {
		n += len(p.Values)
	}
	return n
}

// NLevels returns the number of levels
func (dm *MultiIndex) NLevels() int { return dm.nlevels }

// NumPartitions returns how many partitions back the index
func (dm *MultiIndex) NumPartitions() int { return len(dm.parts) }

// Tuples gathers a copy of the row tuples
func (dm *MultiIndex) Tuples() []value.Tuple {
	values := concat(dm.parts)
	out := make([]value.Tuple, len(values))
	for i, v := range values {
		out[i] = v.(value.Tuple)
	}
	return out
}

// Name is not defined for a hierarchical index; use Names
func (dm *MultiIndex) Name() (interface{}, error) {
	return nil, &idxerrors.NotImplementedError{Type: "MultiIndex", What: "property", Op: "Name"}
}

// SetName is not defined for a hierarchical index; use SetNames
func (dm *MultiIndex) SetName(name interface{}) error {
	return &idxerrors.NotImplementedError{Type: "MultiIndex", What: "property", Op: "Name"}
}

// Names returns a copy of the per-level names
func (dm *MultiIndex) Names() []interface{} {
	out := make([]interface{}, len(dm.names))
	copy(out, dm.names)
	return out
}

// SetNames renames every level in place
func (dm *MultiIndex) SetNames(names []interface{}) error {
	if len(names) != dm.nlevels {
		return &idxerrors.NameLengthError{Want: dm.nlevels, Got: len(names)}
	}
	for _, n := range names {
		if !value.IsHashable(n) {
			return &idxerrors.UnhashableNameError{Type: "MultiIndex", Value: n}
		}
	}
	for i, n := range names {
		dm.names[i] = value.Normalize(n)
	}
	return nil
}

// WithNames returns a renamed copy, leaving the receiver untouched
func (dm *MultiIndex) WithNames(names []interface{}) (*MultiIndex, error) {
	out := dm.Copy()
	if err := out.SetNames(names); err != nil {
		return nil, err
	}
	return out, nil
}

// SetNameAt renames a single level in place
func (dm *MultiIndex) SetNameAt(level int, name interface{}) error {
	if level < 0 || level >= dm.nlevels {
		return &idxerrors.LevelError{NLevels: dm.nlevels, Level: level}
	}
	if !value.IsHashable(name) {
		return &idxerrors.UnhashableNameError{Type: "MultiIndex", Value: name}
	}
	dm.names[level] = value.Normalize(name)
	return nil
}

// WithNameAt returns a copy with a single level renamed
func (dm *MultiIndex) WithNameAt(level int, name interface{}) (*MultiIndex, error) {
	out := dm.Copy()
	if err := out.SetNameAt(level, name); err != nil {
		return nil, err
	}
	return out, nil
}

// Copy returns a deep copy with fresh partition IDs
func (dm *MultiIndex) Copy() *MultiIndex {
	return &MultiIndex{rt: dm.rt, parts: copyParts(dm.parts), names: dm.Names(), nlevels: dm.nlevels}
}

// View returns a copy sharing the backing partitions
func (dm *MultiIndex) View() *MultiIndex {
	return &MultiIndex{rt: dm.rt, parts: dm.parts, names: dm.Names(), nlevels: dm.nlevels}
}

// Item extracts the sole row of a single-row index as a tuple
func (dm *MultiIndex) Item() (value.Tuple, error) {
	if dm.Len() != 1 {
		return nil, &idxerrors.ScalarSizeError{Size: dm.Len()}
	}
	for _, p := range dm.parts {
		if len(p.Values) == 1 {
			return p.Values[0].(value.Tuple), nil
		}
	}
	return nil, &idxerrors.ScalarSizeError{Size: dm.Len()}
}

// HoldsInteger is always false: tuple rows have no single scalar type
func (dm *MultiIndex) HoldsInteger() bool { return false }

// InferredType is always mixed for a hierarchical index
func (dm *MultiIndex) InferredType() string { return "mixed" }

// Factorize is not defined for a hierarchical index
func (dm *MultiIndex) Factorize(ctx context.Context) ([]int64, *Index, error) {
	return nil, nil, &idxerrors.NotImplementedError{Type: "MultiIndex", What: "method", Op: "Factorize"}
}

// GetLevelValues extracts one level as a partitioned flat index
// carrying that level's name. Projection fans out per partition and
// keeps the partition boundaries.
func (dm *MultiIndex) GetLevelValues(ctx context.Context, level int) (*Index, error) {
	if level < 0 || level >= dm.nlevels {
		return nil, &idxerrors.LevelError{NLevels: dm.nlevels, Level: level}
	}
	outParts := make([]*Partition, len(dm.parts))
	err := dm.rt.forEach(ctx, "get_level_values", dm.parts, func(i int, p *Partition) error {
		vs := make([]interface{}, len(p.Values))
		for j, v := range p.Values {
			vs[j] = v.(value.Tuple)[level]
		}
		outParts[i] = newPartition(vs)
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := newFromParts(dm.rt, outParts, dm.names[level])
	return out, nil
}

// Equals reports elementwise row equality across the whole index
func (dm *MultiIndex) Equals(other *MultiIndex) bool {
	if other == nil || dm.Len() != other.Len() || dm.nlevels != other.nlevels {
		return false
	}
	a, b := dm.Tuples(), other.Tuples()
	for i := range a {
		if !value.Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Attr resolves the dynamic attribute surface
func (dm *MultiIndex) Attr(name string) (interface{}, error) {
	switch name {
	case "name":
		return dm.Name()
	case "names":
		return dm.Names(), nil
	case "dtype":
		return "object", nil
	case "inferred_type":
		return dm.InferredType(), nil
	case "size":
		return dm.Len(), nil
	case "nlevels":
		return dm.nlevels, nil
	case "values":
		return dm.Tuples(), nil
	}
	return nil, &idxerrors.AttributeError{Type: "MultiIndex", Attr: name}
}

// SetAttr assigns through the dynamic attribute surface
func (dm *MultiIndex) SetAttr(name string, v interface{}) error {
	switch name {
	case "name":
		return dm.SetName(v)
	case "names":
		names, err := value.AsNameList(v)
		if err != nil {
			return err
		}
		return dm.SetNames(names)
	}
	return &idxerrors.AttributeError{Type: "MultiIndex", Attr: name}
}
