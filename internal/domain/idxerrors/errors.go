package idxerrors

import "fmt"

// UnhashableNameError reports an attempt to use a value that cannot be
// hashed (slices, maps, functions) as an index name.
type UnhashableNameError struct {
	Type  string      // "Index" or "MultiIndex"
	Value interface{} // offending value (kept for logging, not shown in the message)
}

func (e *UnhashableNameError) Error() string {
	return fmt.Sprintf("%s.name must be a hashable type", e.Type)
}

// NamesNotListLikeError reports a scalar where a list of names was
// expected. Strings count as scalars here.
type NamesNotListLikeError struct {
	Value interface{}
}

func (e *NamesNotListLikeError) Error() string {
	return "Names must be a list-like"
}

// NameLengthError reports a name list whose length does not match the
// number of index levels.
type NameLengthError struct {
	Want int // index level count
	Got  int
}

func (e *NameLengthError) Error() string {
	return fmt.Sprintf("Length of new names must be %d, got %d", e.Want, e.Got)
}

// ScalarSizeError reports a scalar extraction from an index whose size
// is not exactly one.
type ScalarSizeError struct {
	Size int
}

func (e *ScalarSizeError) Error() string {
	return "can only convert an array of size 1 to a scalar"
}

// AttributeError reports access to an attribute the index type does
// not expose.
type AttributeError struct {
	Type string // "Index" or "MultiIndex"
	Attr string
}

func (e *AttributeError) Error() string {
	return fmt.Sprintf("'%s' object has no attribute '%s'", e.Type, e.Attr)
}

// NotImplementedError reports an operation the type deliberately does
// not support (e.g. MultiIndex has no single name and no factorize).
type NotImplementedError struct {
	Type string // receiver type name
	What string // "method" or "property"
	Op   string
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("the %s %s.%s is not implemented", e.What, e.Type, e.Op)
}

// LengthMismatchError reports an elementwise operation between indexes
// of different lengths.
type LengthMismatchError struct {
	Left  int
	Right int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("cannot perform elementwise operation on indexes of length %d and %d", e.Left, e.Right)
}

// TypeOpError reports an arithmetic operation on an index whose kind
// does not support it.
type TypeOpError struct {
	Op   string // "add", "mul"
	Kind string // inferred type name of the operand
}

func (e *TypeOpError) Error() string {
	return fmt.Sprintf("cannot perform %s on an index of type %s", e.Op, e.Kind)
}

// LevelError reports a level number outside the index's level range.
type LevelError struct {
	NLevels int
	Level   int
}

func (e *LevelError) Error() string {
	return fmt.Sprintf("too many levels: index has only %d levels, not %d", e.NLevels, e.Level)
}
