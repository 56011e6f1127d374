package dist

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mokua/distframe/internal/domain/idxerrors"
	"github.com/mokua/distframe/internal/domain/value"
	"github.com/mokua/distframe/internal/index"
)

// recordingObserver collects events for assertions; OnEvent must be
// safe under partition fan-out.
type recordingObserver struct {
	mu     sync.Mutex
	events []Event
}

func (ro *recordingObserver) OnEvent(ev Event) {
	ro.mu.Lock()
	defer ro.mu.Unlock()
	ro.events = append(ro.events, ev)
}

func (ro *recordingObserver) count(t EventType) int {
	ro.mu.Lock()
	defer ro.mu.Unlock()
	n := 0
	for _, ev := range ro.events {
		if ev.Type == t {
			n++
		}
	}
	return n
}

func refIndex(t *testing.T, values []interface{}, opts ...index.Option) *index.Index {
	t.Helper()
	ix, err := index.New(values, opts...)
	require.NoError(t, err)
	return ix
}

func TestSplit(t *testing.T) {
	parts := split([]interface{}{1, 2, 3, 4, 5}, 2)
	require.Len(t, parts, 2)
	require.Len(t, parts[0].Values, 3)
	require.Len(t, parts[1].Values, 2)
	require.NotEmpty(t, parts[0].ID)

	// More partitions than values collapses to one value each
	parts = split([]interface{}{1, 2}, 8)
	require.Len(t, parts, 2)

	// Empty input still yields one partition
	parts = split(nil, 4)
	require.Len(t, parts, 1)
	require.Empty(t, parts[0].Values)
}

func TestFromIndexRoundTrip(t *testing.T) {
	ref := refIndex(t, []interface{}{1, 2, 3, 4, 5, 6, 7}, index.WithName("x"))
	dx := FromIndex(nil, ref, 3)

	require.Equal(t, 3, dx.NumPartitions())
	require.Equal(t, ref.Len(), dx.Len())
	require.Equal(t, "x", dx.Name())
	require.Equal(t, value.KindInteger, dx.Kind())

	got, err := dx.Collect(context.Background())
	require.NoError(t, err)
	require.True(t, got.Equals(ref))
	require.Equal(t, ref.Name(), got.Name())
}

func TestNewIndexValidatesName(t *testing.T) {
	_, err := NewIndex(nil, []interface{}{1, 2, 3}, 2, WithName([]interface{}{value.Tuple{1, 2, 3}}))
	var unhashable *idxerrors.UnhashableNameError
	require.ErrorAs(t, err, &unhashable)
	require.EqualError(t, err, "Index.name must be a hashable type")
}

func TestDistNamesMirrorReference(t *testing.T) {
	dx, err := NewIndex(nil, []interface{}{0, 1, 2}, 2, WithName("x"))
	require.NoError(t, err)

	require.NoError(t, dx.SetName("renamed"))
	require.Equal(t, []interface{}{"renamed"}, dx.Names())

	require.NoError(t, dx.SetName(nil))
	require.Nil(t, dx.Name())

	err = dx.SetNames([]interface{}{"0", "1"})
	require.EqualError(t, err, "Length of new names must be 1, got 2")

	err = dx.SetAttr("names", "hi")
	require.EqualError(t, err, "Names must be a list-like")

	_, err = dx.Attr("databricks")
	require.EqualError(t, err, "'Index' object has no attribute 'databricks'")
}

func TestDistFactorizeMatchesReference(t *testing.T) {
	values := []interface{}{"b", "a", "c", "b", nil, "a", "d", "c", "c"}
	ref := refIndex(t, values)
	dx := FromIndex(nil, ref, 3)

	wantCodes, wantUniques, err := ref.Factorize()
	require.NoError(t, err)

	codes, uniques, err := dx.Factorize(context.Background())
	require.NoError(t, err)
	require.Equal(t, wantCodes, codes)

	got, err := uniques.Collect(context.Background())
	require.NoError(t, err)
	require.True(t, got.Equals(wantUniques))
}

func TestDistArithmeticMatchesReference(t *testing.T) {
	ctx := context.Background()
	ref := refIndex(t, []interface{}{1, 2, 3, 4, 5}, index.WithName("a"))
	dx := FromIndex(nil, ref, 2)

	// idx*100 + idx*10 + idx, on both sides
	r100, err := ref.MulScalar(100)
	require.NoError(t, err)
	r10, err := ref.MulScalar(10)
	require.NoError(t, err)
	want, err := r100.Add(r10)
	require.NoError(t, err)
	want, err = want.Add(ref)
	require.NoError(t, err)

	d100, err := dx.MulScalar(ctx, 100)
	require.NoError(t, err)
	// Different partitioning on the operand exercises re-chunking
	d10, err := dx.MulScalar(ctx, 10)
	require.NoError(t, err)
	d10 = FromIndex(nil, mustCollect(t, d10), 4)
	got, err := d100.Add(ctx, d10)
	require.NoError(t, err)
	got, err = got.Add(ctx, dx)
	require.NoError(t, err)

	collected := mustCollect(t, got)
	require.True(t, collected.Equals(want))
	require.Equal(t, want.Name(), collected.Name())

	// Errors surface identically from inside partitions
	strs, err := NewIndex(nil, []interface{}{"a", "b"}, 2)
	require.NoError(t, err)
	_, err = strs.MulScalar(ctx, 2)
	var typeErr *idxerrors.TypeOpError
	require.ErrorAs(t, err, &typeErr)

	short, err := NewIndex(nil, []interface{}{1, 2}, 1)
	require.NoError(t, err)
	_, err = dx.Add(ctx, short)
	var lenErr *idxerrors.LengthMismatchError
	require.ErrorAs(t, err, &lenErr)
}

func mustCollect(t *testing.T, dx *Index) *index.Index {
	t.Helper()
	ref, err := dx.Collect(context.Background())
	require.NoError(t, err)
	return ref
}

func TestDistItem(t *testing.T) {
	one, err := NewIndex(nil, []interface{}{10}, 1)
	require.NoError(t, err)
	got, err := one.Item()
	require.NoError(t, err)
	require.Equal(t, int64(10), got)

	two, err := NewIndex(nil, []interface{}{10, 20}, 2)
	require.NoError(t, err)
	_, err = two.Item()
	require.EqualError(t, err, "can only convert an array of size 1 to a scalar")
}

func TestDistCopyAndView(t *testing.T) {
	dx, err := NewIndex(nil, []interface{}{1, 2, 3, 4}, 2, WithName("Koalas"))
	require.NoError(t, err)

	cp := dx.Copy()
	require.True(t, cp.Equals(dx))
	require.NoError(t, cp.SetName("other"))
	require.Equal(t, "Koalas", dx.Name())
	// Copies own fresh partitions
	require.NotEqual(t, dx.parts[0].ID, cp.parts[0].ID)

	vw := dx.View()
	require.True(t, vw.Equals(dx))
	require.Equal(t, dx.parts[0].ID, vw.parts[0].ID)
}

func TestDistMultiIndex(t *testing.T) {
	ctx := context.Background()
	ref, err := index.FromTuples([]value.Tuple{{1, 2}, {3, 4}, {5, 6}},
		index.WithNames([]interface{}{"a", "b"}))
	require.NoError(t, err)
	dm := FromMultiIndex(nil, ref, 2)

	require.Equal(t, 3, dm.Len())
	require.Equal(t, 2, dm.NLevels())
	require.Equal(t, []interface{}{"a", "b"}, dm.Names())
	require.False(t, dm.HoldsInteger())
	require.Equal(t, "mixed", dm.InferredType())

	_, err = dm.Name()
	var notImpl *idxerrors.NotImplementedError
	require.ErrorAs(t, err, &notImpl)

	_, _, err = dm.Factorize(ctx)
	require.ErrorAs(t, err, &notImpl)

	lv0, err := dm.GetLevelValues(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, "a", lv0.Name())
	require.Equal(t, []interface{}{int64(1), int64(3), int64(5)}, lv0.Values())

	collected, err := dm.Collect(ctx)
	require.NoError(t, err)
	require.True(t, collected.Equals(ref))
	require.Equal(t, ref.Names(), collected.Names())

	// Level renames follow the reference rules
	require.NoError(t, dm.SetNameAt(1, "renamed"))
	require.Equal(t, []interface{}{"a", "renamed"}, dm.Names())
	err = dm.SetNames([]interface{}{"only"})
	require.EqualError(t, err, "Length of new names must be 2, got 1")
}

func TestObserversSeeLifecycle(t *testing.T) {
	obs := &recordingObserver{}
	rt := NewRuntime(WithParallelism(2), WithObserver(obs))

	dx, err := NewIndex(rt, []interface{}{"b", "a", "b", "c"}, 2)
	require.NoError(t, err)
	_, _, err = dx.Factorize(context.Background())
	require.NoError(t, err)

	// Two fan-out phases over two partitions each
	require.Equal(t, 2, obs.count(EventOpStart))
	require.Equal(t, 2, obs.count(EventOpEnd))
	require.Equal(t, 4, obs.count(EventPartitionStart))
	require.Equal(t, 4, obs.count(EventPartitionEnd))
}

func TestFanoutStopsAfterFailure(t *testing.T) {
	obs := &recordingObserver{}
	rt := NewRuntime(WithParallelism(1), WithObserver(obs))

	// Partition 0 holds strings, so arithmetic fails there first
	dx, err := NewIndex(rt, []interface{}{"a", "b", 1, 2, 3, 4}, 3)
	require.NoError(t, err)
	require.Equal(t, 3, dx.NumPartitions())

	_, err = dx.MulScalar(context.Background(), 2)
	var typeErr *idxerrors.TypeOpError
	require.ErrorAs(t, err, &typeErr)

	// With one worker the failure lands before the siblings start, so
	// only the failing partition ever runs
	require.Equal(t, 1, obs.count(EventPartitionStart))
	require.Equal(t, 1, obs.count(EventPartitionEnd))
	require.Equal(t, 1, obs.count(EventOpEnd))
}
