package index

import (
	"errors"
	"testing"
	"time"

	"github.com/mokua/distframe/internal/domain/idxerrors"
	"github.com/mokua/distframe/internal/domain/value"
	"github.com/mokua/distframe/internal/testutil"
)

func colorsIndex(t *testing.T) *MultiIndex {
	t.Helper()
	mi, err := FromArrays([][]interface{}{
		{1, 1, 2, 2},
		{"red", "blue", "red", "blue"},
	}, WithNames([]interface{}{"number", "color"}))
	if err != nil {
		t.Fatalf("FromArrays: %v", err)
	}
	return mi
}

func TestFromArrays(t *testing.T) {
	mi := colorsIndex(t)
	if mi.Len() != 4 || mi.NLevels() != 2 {
		t.Fatalf("expected 4 rows over 2 levels, got %d rows over %d levels", mi.Len(), mi.NLevels())
	}
	testutil.AssertNames(t, mi.Names(), []interface{}{"number", "color"}, "initial names")

	_, err := FromArrays([][]interface{}{{1, 2}, {"a"}})
	testutil.AssertError(t, err, "ragged levels")

	_, err = FromArrays(nil)
	testutil.AssertError(t, err, "zero levels")
}

func TestFromTuples(t *testing.T) {
	mi, err := FromTuples([]value.Tuple{
		{"a", "x", 1},
		{"b", "y", 2},
		{"c", "z", 3},
	})
	testutil.AssertNoError(t, err, "from tuples")
	if mi.NLevels() != 3 || mi.Len() != 3 {
		t.Fatalf("expected 3 rows over 3 levels")
	}
	tuples := mi.Tuples()
	if !value.Equal(tuples[1], value.Tuple{"b", "y", int64(2)}) {
		t.Fatalf("unexpected row %v", tuples[1])
	}

	_, err = FromTuples([]value.Tuple{{"a", "x"}, {"b"}})
	testutil.AssertError(t, err, "ragged tuples")
}

func TestMultiNames(t *testing.T) {
	mi := colorsIndex(t)

	testutil.AssertNoError(t, mi.SetNames([]interface{}{"renamed_number", "renamed_color"}), "rename all")
	testutil.AssertNames(t, mi.Names(), []interface{}{"renamed_number", "renamed_color"}, "renamed")

	// A level rename back to nil leaves the level unnamed
	testutil.AssertNoError(t, mi.SetNames([]interface{}{"renamed_number", nil}), "partial nil")
	testutil.AssertNames(t, mi.Names(), []interface{}{"renamed_number", nil}, "partial nil names")

	err := mi.SetNames([]interface{}{"only"})
	testutil.AssertErrorMessage(t, err, "Length of new names must be 2, got 1", "wrong length")

	err = mi.SetNames([]interface{}{"ok", []string{"bad"}})
	testutil.AssertErrorMessage(t, err, "MultiIndex.name must be a hashable type", "unhashable level name")
}

func TestMultiSingleNameNotImplemented(t *testing.T) {
	mi := colorsIndex(t)

	_, err := mi.Name()
	var notImpl *idxerrors.NotImplementedError
	if !errors.As(err, &notImpl) {
		t.Fatalf("expected NotImplementedError, got %v", err)
	}

	err = mi.SetName("renamed")
	if !errors.As(err, &notImpl) {
		t.Fatalf("expected NotImplementedError on set, got %v", err)
	}

	// The attribute surface reports the same
	_, err = mi.Attr("name")
	if !errors.As(err, &notImpl) {
		t.Fatalf("expected NotImplementedError through attr, got %v", err)
	}
}

func TestMultiSetNamesVariants(t *testing.T) {
	mi, err := FromTuples([]value.Tuple{{"a", "x", 1}, {"b", "y", 2}, {"c", "z", 3}})
	testutil.AssertNoError(t, err, "from tuples")

	// Copy variant leaves the receiver untouched
	renamed, err := mi.WithNames([]interface{}{"set", "new", "names"})
	testutil.AssertNoError(t, err, "with names")
	testutil.AssertNames(t, renamed.Names(), []interface{}{"set", "new", "names"}, "copy renamed")
	testutil.AssertNames(t, mi.Names(), []interface{}{nil, nil, nil}, "receiver untouched")

	// In-place variant mutates
	testutil.AssertNoError(t, mi.SetNames([]interface{}{"set", "new", "names"}), "set names")
	testutil.AssertNames(t, mi.Names(), []interface{}{"set", "new", "names"}, "in place")

	// Per-level renames, both variants
	lv, err := mi.WithNameAt(0, "first")
	testutil.AssertNoError(t, err, "with name at 0")
	testutil.AssertNames(t, lv.Names(), []interface{}{"first", "new", "names"}, "level 0 copy")

	testutil.AssertNoError(t, mi.SetNameAt(0, "first"), "set level 0")
	testutil.AssertNoError(t, mi.SetNameAt(1, "second"), "set level 1")
	testutil.AssertNoError(t, mi.SetNameAt(2, "third"), "set level 2")
	testutil.AssertNames(t, mi.Names(), []interface{}{"first", "second", "third"}, "all levels")

	err = mi.SetNameAt(3, "nope")
	var levelErr *idxerrors.LevelError
	if !errors.As(err, &levelErr) {
		t.Fatalf("expected LevelError, got %v", err)
	}
}

func TestMultiCopyAndView(t *testing.T) {
	mi := colorsIndex(t)

	cp := mi.Copy()
	if !cp.Equals(mi) {
		t.Fatalf("copy should match")
	}
	testutil.AssertNoError(t, cp.SetNameAt(0, "changed"), "rename copy level")
	testutil.AssertNames(t, mi.Names(), []interface{}{"number", "color"}, "original names untouched")

	vw := mi.View()
	if !vw.Equals(mi) {
		t.Fatalf("view should match")
	}
	if &vw.levels[0][0] != &mi.levels[0][0] {
		t.Fatalf("view should share level arrays")
	}
}

func TestMultiItem(t *testing.T) {
	mi, err := FromTuples([]value.Tuple{{"a", "x"}})
	testutil.AssertNoError(t, err, "single row")
	tup, err := mi.Item()
	testutil.AssertNoError(t, err, "item")
	if !value.Equal(tup, value.Tuple{"a", "x"}) {
		t.Fatalf("unexpected item %v", tup)
	}

	ts1 := time.Date(1990, 3, 9, 0, 0, 0, 0, time.UTC)
	ts2 := time.Date(2019, 8, 15, 0, 0, 0, 0, time.UTC)
	mi, err = FromTuples([]value.Tuple{{ts1, ts2}})
	testutil.AssertNoError(t, err, "timestamp row")
	tup, err = mi.Item()
	testutil.AssertNoError(t, err, "timestamp item")
	if !value.Equal(tup, value.Tuple{ts1, ts2}) {
		t.Fatalf("unexpected timestamp item %v", tup)
	}

	mi, err = FromTuples([]value.Tuple{{"a", "x"}, {"b", "y"}})
	testutil.AssertNoError(t, err, "two rows")
	_, err = mi.Item()
	testutil.AssertErrorMessage(t, err, "can only convert an array of size 1 to a scalar", "two-row item")
}

func TestMultiTypeSurface(t *testing.T) {
	strs := colorsIndex(t)
	if strs.HoldsInteger() {
		t.Fatalf("multi index never holds integers")
	}
	ints, err := FromTuples([]value.Tuple{{10, 1}, {10, 2}, {20, 1}})
	testutil.AssertNoError(t, err, "integer tuples")
	if ints.HoldsInteger() {
		t.Fatalf("even all-integer tuples stay mixed")
	}
	if got := ints.InferredType(); got != "mixed" {
		t.Fatalf("expected mixed, got %q", got)
	}
}

func TestMultiFactorizeNotImplemented(t *testing.T) {
	mi, err := FromTuples([]value.Tuple{{"x", "a"}, {"x", "b"}, {"y", "c"}})
	testutil.AssertNoError(t, err, "from tuples")
	_, _, err = mi.Factorize()
	var notImpl *idxerrors.NotImplementedError
	if !errors.As(err, &notImpl) {
		t.Fatalf("expected NotImplementedError, got %v", err)
	}
}

func TestGetLevelValues(t *testing.T) {
	mi, err := FromTuples([]value.Tuple{{1, 2}, {3, 4}, {5, 6}},
		WithNames([]interface{}{"a", "b"}))
	testutil.AssertNoError(t, err, "from tuples")

	lv0, err := mi.GetLevelValues(0)
	testutil.AssertNoError(t, err, "level 0")
	testutil.AssertValues(t, lv0.Values(), []interface{}{int64(1), int64(3), int64(5)}, "level 0 values")
	testutil.AssertName(t, lv0.Name(), "a", "level 0 name")

	lv1, err := mi.GetLevelValues(1)
	testutil.AssertNoError(t, err, "level 1")
	testutil.AssertValues(t, lv1.Values(), []interface{}{int64(2), int64(4), int64(6)}, "level 1 values")

	_, err = mi.GetLevelValues(2)
	testutil.AssertError(t, err, "level out of range")
}

func TestMultiAttr(t *testing.T) {
	mi := colorsIndex(t)
	got, err := mi.Attr("nlevels")
	testutil.AssertNoError(t, err, "nlevels")
	if got != 2 {
		t.Fatalf("expected 2 levels, got %v", got)
	}
	_, err = mi.Attr("databricks")
	testutil.AssertErrorMessage(t, err, "'MultiIndex' object has no attribute 'databricks'", "unknown attr")
}
