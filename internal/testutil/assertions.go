package testutil

import (
	"testing"

	"github.com/mokua/distframe/internal/domain/value"
)

// AssertValues checks that two cell slices match elementwise
func AssertValues(t *testing.T, actual, expected []interface{}, context string) {
	t.Helper()
	if len(actual) != len(expected) {
		t.Errorf("%s: expected %d cells, got %d", context, len(expected), len(actual))
		return
	}
	for i := range expected {
		if !value.Equal(actual[i], expected[i]) {
			t.Errorf("%s: cell %d: expected %v, got %v", context, i, expected[i], actual[i])
		}
	}
}

// AssertName checks a single index name
func AssertName(t *testing.T, actual, expected interface{}, context string) {
	t.Helper()
	if !value.Equal(actual, expected) {
		t.Errorf("%s: expected name %v, got %v", context, expected, actual)
	}
}

// AssertNames checks a per-level name list
func AssertNames(t *testing.T, actual, expected []interface{}, context string) {
	t.Helper()
	if len(actual) != len(expected) {
		t.Errorf("%s: expected %d names, got %d", context, len(expected), len(actual))
		return
	}
	for i := range expected {
		if !value.Equal(actual[i], expected[i]) {
			t.Errorf("%s: name %d: expected %v, got %v", context, i, expected[i], actual[i])
		}
	}
}

// AssertCodes checks factorization codes
func AssertCodes(t *testing.T, actual, expected []int64, context string) {
	t.Helper()
	if len(actual) != len(expected) {
		t.Errorf("%s: expected %d codes, got %d", context, len(expected), len(actual))
		return
	}
	for i := range expected {
		if actual[i] != expected[i] {
			t.Errorf("%s: code %d: expected %d, got %d", context, i, expected[i], actual[i])
		}
	}
}

// AssertNoError checks that an error is nil
func AssertNoError(t *testing.T, err error, context string) {
	t.Helper()
	if err != nil {
		t.Errorf("%s: expected no error, got: %v", context, err)
	}
}

// AssertError checks that an error is not nil
func AssertError(t *testing.T, err error, context string) {
	t.Helper()
	if err == nil {
		t.Errorf("%s: expected an error, got nil", context)
	}
}

// AssertErrorMessage checks an error's exact message
func AssertErrorMessage(t *testing.T, err error, expected, context string) {
	t.Helper()
	if err == nil {
		t.Errorf("%s: expected error %q, got nil", context, expected)
		return
	}
	if err.Error() != expected {
		t.Errorf("%s: expected error %q, got %q", context, expected, err.Error())
	}
}
