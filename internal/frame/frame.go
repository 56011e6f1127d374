package frame

import (
	"fmt"

	"github.com/mokua/distframe/internal/domain/value"
	"github.com/mokua/distframe/internal/index"
)

// Frame is a minimal column-major DataFrame: ordered column labels,
// one cell slice per column, and row labels held behind the Indexer
// surface. Column labels may be strings or tuples (hierarchical
// labels).
type Frame struct {
	labels []interface{}
	data   map[string][]interface{} // keyed by value.Key(label)
	length int
	index  index.Indexer
}

// UnknownColumnError reports access to a column the frame does not have
type UnknownColumnError struct {
	Label interface{}
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("frame has no column %v", e.Label)
}

// Option configures a Frame under construction
type Option func(*Frame) error

// WithIndex sets explicit row labels. Length must match the columns.
func WithIndex(ix index.Indexer) Option {
	return func(f *Frame) error {
		if ix.Len() != f.length {
			return fmt.Errorf("index length %d does not match frame length %d", ix.Len(), f.length)
		}
		f.index = ix
		return nil
	}
}

// New builds a Frame from parallel label and column slices. Labels
// must be hashable and unique; columns must share one length. Without
// an explicit index the frame gets the default integer index 0..n-1.
func New(labels []interface{}, columns [][]interface{}, opts ...Option) (*Frame, error) {
	if len(labels) != len(columns) {
		return nil, fmt.Errorf("got %d labels for %d columns", len(labels), len(columns))
	}
	f := &Frame{
		labels: make([]interface{}, len(labels)),
		data:   make(map[string][]interface{}, len(labels)),
	}
	if len(columns) > 0 {
		f.length = len(columns[0])
	}
	for i, label := range labels {
		label = value.Normalize(label)
		if !value.IsHashable(label) {
			return nil, fmt.Errorf("column label %v is not hashable", label)
		}
		key := value.Key(label)
		if _, dup := f.data[key]; dup {
			return nil, fmt.Errorf("duplicate column label %v", label)
		}
		if len(columns[i]) != f.length {
			return nil, fmt.Errorf("column %v has length %d, expected %d", label, len(columns[i]), f.length)
		}
		cells := make([]interface{}, len(columns[i]))
		copy(cells, columns[i])
		f.labels[i] = label
		f.data[key] = value.NormalizeAll(cells)
	}
	f.index = index.Range(f.length)
	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Len returns the number of rows
func (f *Frame) Len() int { return f.length }

// Labels returns a copy of the ordered column labels
func (f *Frame) Labels() []interface{} {
	out := make([]interface{}, len(f.labels))
	copy(out, f.labels)
	return out
}

// Index returns the frame's row labels. The Indexer is shared, not
// copied: renaming it is visible through the frame and through every
// series taken from it.
func (f *Frame) Index() index.Indexer { return f.index }

// ColumnValues returns a copy of one column's cells
func (f *Frame) ColumnValues(label interface{}) ([]interface{}, error) {
	cells, ok := f.data[value.Key(value.Normalize(label))]
	if !ok {
		return nil, &UnknownColumnError{Label: label}
	}
	out := make([]interface{}, len(cells))
	copy(out, cells)
	return out, nil
}

// Column returns one column as a Series sharing the frame's index
func (f *Frame) Column(label interface{}) (*Series, error) {
	cells, err := f.ColumnValues(label)
	if err != nil {
		return nil, err
	}
	return &Series{name: value.Normalize(label), values: cells, index: f.index}, nil
}

// SetIndex moves a column into the row labels. With appendLevels the
// column joins the existing index as a new deepest level, promoting a
// flat index to a MultiIndex; otherwise it replaces the index
// entirely. The column's label becomes the new level's name.
func (f *Frame) SetIndex(label interface{}, appendLevels bool) error {
	label = value.Normalize(label)
	key := value.Key(label)
	cells, ok := f.data[key]
	if !ok {
		return &UnknownColumnError{Label: label}
	}

	if !appendLevels {
		ix, err := index.New(cells, index.WithName(label))
		if err != nil {
			return err
		}
		f.dropColumn(key)
		f.index = ix
		return nil
	}

	// Collect the existing levels and names, then add the column as
	// the deepest level
	var levels [][]interface{}
	var names []interface{}
	switch cur := f.index.(type) {
	case *index.Index:
		levels = [][]interface{}{cur.Values()}
		names = cur.Names()
	case *index.MultiIndex:
		for l := 0; l < cur.NLevels(); l++ {
			lv, err := cur.GetLevelValues(l)
			if err != nil {
				return err
			}
			levels = append(levels, lv.Values())
		}
		names = cur.Names()
	default:
		return fmt.Errorf("cannot append a level to index type %T", f.index)
	}
	levels = append(levels, cells)
	names = append(names, label)

	mi, err := index.FromArrays(levels, index.WithNames(names))
	if err != nil {
		return err
	}
	f.dropColumn(key)
	f.index = mi
	return nil
}

func (f *Frame) dropColumn(key string) {
	delete(f.data, key)
	labels := f.labels[:0]
	for _, l := range f.labels {
		if value.Key(l) != key {
			labels = append(labels, l)
		}
	}
	f.labels = labels
}
