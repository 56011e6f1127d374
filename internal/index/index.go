package index

import (
	"fmt"
	"sort"

	"github.com/mokua/distframe/internal/domain/idxerrors"
	"github.com/mokua/distframe/internal/domain/value"
)

// Indexer is the surface shared by Index and MultiIndex, and mirrored
// by their partitioned counterparts. A frame holds its row labels
// through this interface.
type Indexer interface {
	Len() int
	NLevels() int
	Names() []interface{}
	SetNames(names []interface{}) error
	InferredType() string
	HoldsInteger() bool
	Attr(name string) (interface{}, error)
	SetAttr(name string, v interface{}) error
}

// Index is an ordered sequence of row labels with an optional name.
type Index struct {
	values []interface{}
	name   interface{} // nil = unnamed
	kind   value.Kind
}

// Option configures an Index under construction
type Option func(*Index) error

// WithName sets the index name. The name must be hashable.
func WithName(name interface{}) Option {
	return func(ix *Index) error {
		return ix.SetName(name)
	}
}

// New builds an Index over the given cells. Cells are normalized
// (int → int64, float32 → float64) and the kind is inferred once.
func New(values []interface{}, opts ...Option) (*Index, error) {
	vs := make([]interface{}, len(values))
	copy(vs, values)
	ix := &Index{
		values: value.NormalizeAll(vs),
	}
	ix.kind = value.Infer(ix.values)
	for _, opt := range opts {
		if err := opt(ix); err != nil {
			return nil, err
		}
	}
	return ix, nil
}

// Range builds the default integer index 0..n-1 a frame gets when no
// explicit index is supplied.
func Range(n int) *Index {
	values := make([]interface{}, n)
	for i := 0; i < n; i++ {
		values[i] = int64(i)
	}
	return &Index{values: values, kind: value.KindInteger}
}

// Len returns the number of labels
func (ix *Index) Len() int { return len(ix.values) }

// NLevels is always 1 for a flat index
func (ix *Index) NLevels() int { return 1 }

// Kind returns the inferred cell kind
func (ix *Index) Kind() value.Kind { return ix.kind }

// Values returns a copy of the labels
func (ix *Index) Values() []interface{} {
	out := make([]interface{}, len(ix.values))
	copy(out, ix.values)
	return out
}

// At returns the label at position i
func (ix *Index) At(i int) interface{} { return ix.values[i] }

// Name returns the index name, nil when unnamed
func (ix *Index) Name() interface{} { return ix.name }

// SetName renames the index in place. The name must be hashable.
func (ix *Index) SetName(name interface{}) error {
	if !value.IsHashable(name) {
		return &idxerrors.UnhashableNameError{Type: "Index", Value: name}
	}
	ix.name = value.Normalize(name)
	return nil
}

// Rename returns a renamed copy, leaving the receiver untouched
func (ix *Index) Rename(name interface{}) (*Index, error) {
	out := ix.Copy()
	if err := out.SetName(name); err != nil {
		return nil, err
	}
	return out, nil
}

// Names returns the per-level names. A flat index has one level, so
// the result always has length one, holding nil when unnamed.
func (ix *Index) Names() []interface{} {
	return []interface{}{ix.name}
}

// SetNames renames all levels in place. The list must have exactly one
// entry for a flat index.
func (ix *Index) SetNames(names []interface{}) error {
	if len(names) != 1 {
		return &idxerrors.NameLengthError{Want: 1, Got: len(names)}
	}
	return ix.SetName(names[0])
}

// Copy returns a deep copy of the index
func (ix *Index) Copy() *Index {
	values := make([]interface{}, len(ix.values))
	copy(values, ix.values)
	return &Index{values: values, name: ix.name, kind: ix.kind}
}

// View returns a copy sharing the backing label array
func (ix *Index) View() *Index {
	return &Index{values: ix.values, name: ix.name, kind: ix.kind}
}

// Item extracts the sole label of a single-element index
func (ix *Index) Item() (interface{}, error) {
	if len(ix.values) != 1 {
		return nil, &idxerrors.ScalarSizeError{Size: len(ix.values)}
	}
	return ix.values[0], nil
}

// HoldsInteger reports whether every label is an integer
func (ix *Index) HoldsInteger() bool {
	return ix.kind == value.KindInteger
}

// InferredType returns the lowercase inferred type name
func (ix *Index) InferredType() string {
	return ix.kind.InferredName()
}

// Factorize encodes the index as integer codes over its sorted
// distinct labels. Missing cells get code -1 and do not appear in the
// uniques. The second return is the uniques index; the error return
// exists for interface symmetry with MultiIndex and is always nil.
func (ix *Index) Factorize() ([]int64, *Index, error) {
	// 1. Collect distinct labels in first-seen order
	slots := make(map[string]int) // label key → slot in uniques
	var uniques []interface{}
	for _, v := range ix.values {
		if v == nil {
			continue
		}
		k := value.Key(v)
		if _, seen := slots[k]; !seen {
			slots[k] = 0
			uniques = append(uniques, v)
		}
	}

	// 2. Sort uniques and assign final slots
	sort.SliceStable(uniques, func(i, j int) bool {
		return value.Less(uniques[i], uniques[j])
	})
	for i, v := range uniques {
		slots[value.Key(v)] = i
	}

	// 3. Rewrite labels as codes
	codes := make([]int64, len(ix.values))
	for i, v := range ix.values {
		if v == nil {
			codes[i] = -1
			continue
		}
		codes[i] = int64(slots[value.Key(v)])
	}

	out, _ := New(uniques)
	return codes, out, nil
}

// Summary returns a one-line description of the index
func (ix *Index) Summary() string {
	if len(ix.values) == 0 {
		return "Index: 0 entries"
	}
	return fmt.Sprintf("Index: %d entries, %v to %v",
		len(ix.values), ix.values[0], ix.values[len(ix.values)-1])
}

// Equals reports elementwise label equality. Names do not participate.
func (ix *Index) Equals(other *Index) bool {
	if other == nil || len(ix.values) != len(other.values) {
		return false
	}
	for i := range ix.values {
		if !value.Equal(ix.values[i], other.values[i]) {
			return false
		}
	}
	return true
}

// Attr resolves the dynamic attribute surface. Unknown attributes
// yield an AttributeError naming the type and the attribute.
func (ix *Index) Attr(name string) (interface{}, error) {
	switch name {
	case "name":
		return ix.name, nil
	case "names":
		return ix.Names(), nil
	case "dtype":
		return ix.kind.Dtype(), nil
	case "inferred_type":
		return ix.InferredType(), nil
	case "size":
		return len(ix.values), nil
	case "nlevels":
		return 1, nil
	case "values":
		return ix.Values(), nil
	}
	return nil, &idxerrors.AttributeError{Type: "Index", Attr: name}
}

// SetAttr assigns through the dynamic attribute surface. Only name and
// names are assignable; names must be list-like.
func (ix *Index) SetAttr(name string, v interface{}) error {
	switch name {
	case "name":
		return ix.SetName(v)
	case "names":
		names, err := value.AsNameList(v)
		if err != nil {
			return err
		}
		return ix.SetNames(names)
	}
	return &idxerrors.AttributeError{Type: "Index", Attr: name}
}
