package frame

import "github.com/mokua/distframe/internal/index"

// Series is one frame column paired with the frame's row labels
type Series struct {
	name   interface{}
	values []interface{}
	index  index.Indexer
}

// Name returns the column label the series was taken from
func (s *Series) Name() interface{} { return s.name }

// Len returns the number of cells
func (s *Series) Len() int { return len(s.values) }

// Values returns a copy of the cells
func (s *Series) Values() []interface{} {
	out := make([]interface{}, len(s.values))
	copy(out, s.values)
	return out
}

// Index returns the row labels shared with the originating frame
func (s *Series) Index() index.Indexer { return s.index }
