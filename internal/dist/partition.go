package dist

import (
	"github.com/google/uuid"

	"github.com/mokua/distframe/internal/domain/value"
)

// Partition is one contiguous chunk of an index's labels
type Partition struct {
	ID     string
	Values []interface{}
}

func newPartition(values []interface{}) *Partition {
	return &Partition{ID: uuid.New().String(), Values: values}
}

// split chops values into at most n contiguous partitions. Empty input
// still yields one (empty) partition so every index owns at least one.
func split(values []interface{}, n int) []*Partition {
	if n < 1 {
		n = 1
	}
	if len(values) == 0 {
		return []*Partition{newPartition(nil)}
	}
	if n > len(values) {
		n = len(values)
	}

	parts := make([]*Partition, 0, n)
	base := len(values) / n
	extra := len(values) % n
	pos := 0
	for i := 0; i < n; i++ {
		size := base
		if i < extra {
			size++
		}
		chunk := make([]interface{}, size)
		copy(chunk, values[pos:pos+size])
		parts = append(parts, newPartition(chunk))
		pos += size
	}
	return parts
}

// offsets returns the starting global position of each partition plus
// the total length as the final entry.
func offsets(parts []*Partition) []int {
	out := make([]int, len(parts)+1)
	for i, p := range parts {
		out[i+1] = out[i] + len(p.Values)
	}
	return out
}

// concat gathers all partition labels into one slice
func concat(parts []*Partition) []interface{} {
	offs := offsets(parts)
	out := make([]interface{}, offs[len(parts)])
	for i, p := range parts {
		copy(out[offs[i]:], p.Values)
	}
	return out
}

// copyParts deep-copies partitions, assigning fresh IDs
func copyParts(parts []*Partition) []*Partition {
	out := make([]*Partition, len(parts))
	for i, p := range parts {
		vs := make([]interface{}, len(p.Values))
		copy(vs, p.Values)
		out[i] = newPartition(vs)
	}
	return out
}

// inferKind merges the per-partition inferred kinds
func inferKind(parts []*Partition) value.Kind {
	kind := value.KindEmpty
	for _, p := range parts {
		kind = value.MergeKinds(kind, value.Infer(p.Values))
	}
	return kind
}
