package storage

// ColumnMeta describes one persisted frame column
type ColumnMeta struct {
	Label interface{} `json:"label"`
	Kind  string      `json:"kind"`
}

// FrameMeta is the meta.json payload saved next to a frame's data
type FrameMeta struct {
	Name        string       `json:"name"`
	RowCount    int64        `json:"row_count"`
	IndexLevels int          `json:"index_levels"`
	IndexNames  interface{}  `json:"index_names"` // must decode as a list; validated on load
	IndexKinds  []string     `json:"index_kinds"`
	Columns     []ColumnMeta `json:"columns"`
}
