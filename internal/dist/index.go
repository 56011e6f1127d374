package dist

import (
	"context"
	"sort"

	"github.com/mokua/distframe/internal/domain/idxerrors"
	"github.com/mokua/distframe/internal/domain/value"
	"github.com/mokua/distframe/internal/index"
)

// Index is the partitioned mirror of index.Index: the same observable
// surface, labels split into contiguous partitions, data operations
// fanned out across them.
type Index struct {
	rt    *Runtime
	parts []*Partition
	name  interface{}
	kind  value.Kind
}

// IndexOption configures a partitioned Index under construction
type IndexOption func(*Index) error

// WithName sets the index name. The name must be hashable.
func WithName(name interface{}) IndexOption {
	return func(dx *Index) error {
		return dx.SetName(name)
	}
}

// NewIndex builds a partitioned index directly from cells, split into
// at most parts partitions.
func NewIndex(rt *Runtime, values []interface{}, parts int, opts ...IndexOption) (*Index, error) {
	if rt == nil {
		rt = DefaultRuntime()
	}
	vs := make([]interface{}, len(values))
	copy(vs, values)
	dx := newFromParts(rt, split(value.NormalizeAll(vs), parts), nil)
	for _, opt := range opts {
		if err := opt(dx); err != nil {
			return nil, err
		}
	}
	return dx, nil
}

// FromIndex mirrors a reference index into partitioned form
func FromIndex(rt *Runtime, ref *index.Index, parts int) *Index {
	if rt == nil {
		rt = DefaultRuntime()
	}
	return newFromParts(rt, split(ref.Values(), parts), ref.Name())
}

func newFromParts(rt *Runtime, parts []*Partition, name interface{}) *Index {
	return &Index{rt: rt, parts: parts, name: name, kind: inferKind(parts)}
}

// Collect gathers the partitioned labels back into a reference index
func (dx *Index) Collect(ctx context.Context) (*index.Index, error) {
	offs := offsets(dx.parts)
	out := make([]interface{}, offs[len(dx.parts)])
	err := dx.rt.forEach(ctx, "collect", dx.parts, func(i int, p *Partition) error {
		copy(out[offs[i]:], p.Values)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return index.New(out, index.WithName(dx.name))
}

// Len returns the number of labels across all partitions
func (dx *Index) Len() int {
	n := 0
	for _, p := range dx.parts {
		n += len(p.Values)
	}
	return n
}

// NLevels is always 1 for a flat index
func (dx *Index) NLevels() int { return 1 }

// NumPartitions returns how many partitions back the index
func (dx *Index) NumPartitions() int { return len(dx.parts) }

// Kind returns the merged inferred cell kind
func (dx *Index) Kind() value.Kind { return dx.kind }

// Values gathers a copy of the labels without tracing overhead
func (dx *Index) Values() []interface{} { return concat(dx.parts) }

// Name returns the index name, nil when unnamed
func (dx *Index) Name() interface{} { return dx.name }

// SetName renames the index in place. The name must be hashable.
func (dx *Index) SetName(name interface{}) error {
	if !value.IsHashable(name) {
		return &idxerrors.UnhashableNameError{Type: "Index", Value: name}
	}
	dx.name = value.Normalize(name)
	return nil
}

// Rename returns a renamed copy, leaving the receiver untouched
func (dx *Index) Rename(name interface{}) (*Index, error) {
	out := dx.Copy()
	if err := out.SetName(name); err != nil {
		return nil, err
	}
	return out, nil
}

// Names returns the per-level names; always length one for a flat index
func (dx *Index) Names() []interface{} {
	return []interface{}{dx.name}
}

// SetNames renames all levels in place
func (dx *Index) SetNames(names []interface{}) error {
	if len(names) != 1 {
		return &idxerrors.NameLengthError{Want: 1, Got: len(names)}
	}
	return dx.SetName(names[0])
}

// Copy returns a deep copy with fresh partition IDs
func (dx *Index) Copy() *Index {
	return &Index{rt: dx.rt, parts: copyParts(dx.parts), name: dx.name, kind: dx.kind}
}

// View returns a copy sharing the backing partitions
func (dx *Index) View() *Index {
	return &Index{rt: dx.rt, parts: dx.parts, name: dx.name, kind: dx.kind}
}

// Item extracts the sole label of a single-element index
func (dx *Index) Item() (interface{}, error) {
	if dx.Len() != 1 {
		return nil, &idxerrors.ScalarSizeError{Size: dx.Len()}
	}
	for _, p := range dx.parts {
		if len(p.Values) == 1 {
			return p.Values[0], nil
		}
	}
	return nil, &idxerrors.ScalarSizeError{Size: dx.Len()}
}

// HoldsInteger reports whether every label is an integer
func (dx *Index) HoldsInteger() bool {
	return dx.kind == value.KindInteger
}

// InferredType returns the lowercase inferred type name
func (dx *Index) InferredType() string {
	return dx.kind.InferredName()
}

// Summary returns a one-line description of the index
func (dx *Index) Summary() string {
	ref, _ := index.New(dx.Values())
	return ref.Summary()
}

// Equals reports elementwise label equality across the whole index
func (dx *Index) Equals(other *Index) bool {
	if other == nil || dx.Len() != other.Len() {
		return false
	}
	a, b := dx.Values(), other.Values()
	for i := range a {
		if !value.Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Attr resolves the dynamic attribute surface
func (dx *Index) Attr(name string) (interface{}, error) {
	switch name {
	case "name":
		return dx.name, nil
	case "names":
		return dx.Names(), nil
	case "dtype":
		return dx.kind.Dtype(), nil
	case "inferred_type":
		return dx.InferredType(), nil
	case "size":
		return dx.Len(), nil
	case "nlevels":
		return 1, nil
	case "values":
		return dx.Values(), nil
	}
	return nil, &idxerrors.AttributeError{Type: "Index", Attr: name}
}

// SetAttr assigns through the dynamic attribute surface
func (dx *Index) SetAttr(name string, v interface{}) error {
	switch name {
	case "name":
		return dx.SetName(v)
	case "names":
		names, err := value.AsNameList(v)
		if err != nil {
			return err
		}
		return dx.SetNames(names)
	}
	return &idxerrors.AttributeError{Type: "Index", Attr: name}
}

// Factorize encodes the index as integer codes over its sorted
// distinct labels: per-partition distinct scans fan out, the local
// dictionaries merge and sort, then code rewriting fans out again.
func (dx *Index) Factorize(ctx context.Context) ([]int64, *Index, error) {
	// 1. Per-partition distinct labels in first-seen order
	locals := make([][]interface{}, len(dx.parts))
	err := dx.rt.forEach(ctx, "factorize.uniques", dx.parts, func(i int, p *Partition) error {
		seen := make(map[string]struct{})
		for _, v := range p.Values {
			if v == nil {
				continue
			}
			k := value.Key(v)
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			locals[i] = append(locals[i], v)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	// 2. Merge local dictionaries and sort
	slots := make(map[string]int)
	var uniques []interface{}
	for _, local := range locals {
		for _, v := range local {
			k := value.Key(v)
			if _, ok := slots[k]; ok {
				continue
			}
			slots[k] = 0
			uniques = append(uniques, v)
		}
	}
	sort.SliceStable(uniques, func(i, j int) bool {
		return value.Less(uniques[i], uniques[j])
	})
	for i, v := range uniques {
		slots[value.Key(v)] = i
	}

	// 3. Rewrite labels as codes, partition-parallel
	offs := offsets(dx.parts)
	codes := make([]int64, offs[len(dx.parts)])
	err = dx.rt.forEach(ctx, "factorize.codes", dx.parts, func(i int, p *Partition) error {
		for j, v := range p.Values {
			if v == nil {
				codes[offs[i]+j] = -1
				continue
			}
			codes[offs[i]+j] = int64(slots[value.Key(v)])
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return codes, newFromParts(dx.rt, split(uniques, 1), nil), nil
}

// mapPartitions applies a reference-index transformation to every
// partition and reassembles the result, so partitioned arithmetic
// reuses the reference semantics exactly.
func (dx *Index) mapPartitions(ctx context.Context, op string, fn func(pos int, p *index.Index) (*index.Index, error)) (*Index, error) {
	outParts := make([]*Partition, len(dx.parts))
	err := dx.rt.forEach(ctx, op, dx.parts, func(i int, p *Partition) error {
		local, err := index.New(p.Values)
		if err != nil {
			return err
		}
		res, err := fn(i, local)
		if err != nil {
			return err
		}
		outParts[i] = newPartition(res.Values())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return newFromParts(dx.rt, outParts, dx.name), nil
}

// MulScalar multiplies every label by k, keeping the name
func (dx *Index) MulScalar(ctx context.Context, k interface{}) (*Index, error) {
	return dx.mapPartitions(ctx, "mul_scalar", func(_ int, p *index.Index) (*index.Index, error) {
		return p.MulScalar(k)
	})
}

// AddScalar adds k to every label, keeping the name
func (dx *Index) AddScalar(ctx context.Context, k interface{}) (*Index, error) {
	return dx.mapPartitions(ctx, "add_scalar", func(_ int, p *index.Index) (*index.Index, error) {
		return p.AddScalar(k)
	})
}

// Add performs elementwise addition with another partitioned index.
// The operand is re-chunked to the receiver's partition boundaries, so
// differently partitioned operands still line up. The result keeps the
// name only when both operands carry the same name.
func (dx *Index) Add(ctx context.Context, other *Index) (*Index, error) {
	if other == nil || dx.Len() != other.Len() {
		n := 0
		if other != nil {
			n = other.Len()
		}
		return nil, &idxerrors.LengthMismatchError{Left: dx.Len(), Right: n}
	}
	otherVals := other.Values()
	offs := offsets(dx.parts)
	out, err := dx.mapPartitions(ctx, "add", func(pos int, p *index.Index) (*index.Index, error) {
		chunk := otherVals[offs[pos]:offs[pos+1]]
		rhs, err := index.New(chunk)
		if err != nil {
			return nil, err
		}
		return p.Add(rhs)
	})
	if err != nil {
		return nil, err
	}
	if !value.Equal(dx.name, other.name) {
		out.name = nil
	}
	return out, nil
}
