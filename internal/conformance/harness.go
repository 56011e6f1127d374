// Package conformance verifies that the partitioned index types
// mirror the reference implementation observably: identical results,
// identical error kinds, identical error messages.
package conformance

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/mokua/distframe/internal/dist"
	"github.com/mokua/distframe/internal/index"
)

// cmpOpts makes go-cmp treat timestamps by instant and tolerate the
// interface{} cells the index surface exposes.
var cmpOpts = cmp.Options{
	cmp.Comparer(func(a, b time.Time) bool { return a.Equal(b) }),
}

// Pair couples a reference index with its partitioned mirror
type Pair struct {
	Ref  *index.Index
	Dist *dist.Index
}

// NewPair builds both sides from the same cells and name (nil leaves
// the pair unnamed). The diff reports construction outcomes that
// disagree between the sides; when they agree, the shared construction
// error comes back so callers can assert on it once.
func NewPair(rt *dist.Runtime, values []interface{}, parts int, name interface{}) (*Pair, string, error) {
	ref, refErr := index.New(values, index.WithName(name))
	dx, distErr := dist.NewIndex(rt, values, parts, dist.WithName(name))
	if d := SameError(refErr, distErr); d != "" {
		return nil, d, nil
	}
	if refErr != nil {
		return nil, "", refErr
	}
	return &Pair{Ref: ref, Dist: dx}, "", nil
}

// Mirror partitions an existing reference index
func Mirror(rt *dist.Runtime, ref *index.Index, parts int) *Pair {
	return &Pair{Ref: ref, Dist: dist.FromIndex(rt, ref, parts)}
}

// Diff reports how the two sides disagree, empty when they match.
// Values, names and the inferred type surface all participate.
func (p *Pair) Diff() string {
	collected, err := p.Dist.Collect(context.Background())
	if err != nil {
		return fmt.Sprintf("collect failed: %v", err)
	}
	if d := cmp.Diff(p.Ref.Values(), collected.Values(), cmpOpts...); d != "" {
		return "values: " + d
	}
	if d := cmp.Diff(p.Ref.Names(), p.Dist.Names(), cmpOpts...); d != "" {
		return "names: " + d
	}
	if p.Ref.InferredType() != p.Dist.InferredType() {
		return fmt.Sprintf("inferred type: reference %q, partitioned %q", p.Ref.InferredType(), p.Dist.InferredType())
	}
	if p.Ref.Len() != p.Dist.Len() {
		return fmt.Sprintf("length: reference %d, partitioned %d", p.Ref.Len(), p.Dist.Len())
	}
	return ""
}

// MultiPair couples a reference hierarchical index with its mirror
type MultiPair struct {
	Ref  *index.MultiIndex
	Dist *dist.MultiIndex
}

// MirrorMulti partitions an existing reference hierarchical index
func MirrorMulti(rt *dist.Runtime, ref *index.MultiIndex, parts int) *MultiPair {
	return &MultiPair{Ref: ref, Dist: dist.FromMultiIndex(rt, ref, parts)}
}

// Diff reports how the two sides disagree, empty when they match
func (p *MultiPair) Diff() string {
	collected, err := p.Dist.Collect(context.Background())
	if err != nil {
		return fmt.Sprintf("collect failed: %v", err)
	}
	if d := cmp.Diff(p.Ref.Tuples(), collected.Tuples(), cmpOpts...); d != "" {
		return "tuples: " + d
	}
	if d := cmp.Diff(p.Ref.Names(), p.Dist.Names(), cmpOpts...); d != "" {
		return "names: " + d
	}
	if p.Ref.InferredType() != p.Dist.InferredType() {
		return fmt.Sprintf("inferred type: reference %q, partitioned %q", p.Ref.InferredType(), p.Dist.InferredType())
	}
	return ""
}

// SameError reports how two errors disagree, empty when they match.
// Matching means both nil, or both non-nil with the same concrete type
// and the same message.
func SameError(refErr, distErr error) string {
	if refErr == nil && distErr == nil {
		return ""
	}
	if (refErr == nil) != (distErr == nil) {
		return fmt.Sprintf("error mismatch: reference %v, partitioned %v", refErr, distErr)
	}
	if reflect.TypeOf(refErr) != reflect.TypeOf(distErr) {
		return fmt.Sprintf("error kind mismatch: reference %T, partitioned %T", refErr, distErr)
	}
	if refErr.Error() != distErr.Error() {
		return fmt.Sprintf("error message mismatch: reference %q, partitioned %q", refErr.Error(), distErr.Error())
	}
	return ""
}
