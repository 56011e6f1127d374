package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mokua/distframe/internal/domain/idxerrors"
	"github.com/mokua/distframe/internal/domain/value"
	"github.com/mokua/distframe/internal/frame"
	"github.com/mokua/distframe/internal/index"
)

// Load rebuilds a frame from a directory written by Save. Cell kinds
// recorded in meta.json drive the JSON → cell coercion (JSON has no
// int64 or timestamp of its own), and the persisted index names are
// validated the same way a live rename would be.
func Load(dir string) (*frame.Frame, *FrameMeta, error) {
	var meta FrameMeta
	if err := readJSON(filepath.Join(dir, "meta.json"), &meta); err != nil {
		return nil, nil, err
	}

	var columns [][]interface{}
	if err := readJSON(filepath.Join(dir, "data.json"), &columns); err != nil {
		return nil, nil, err
	}
	if len(columns) != len(meta.Columns) {
		return nil, nil, fmt.Errorf("frame %s: meta lists %d columns, data has %d", meta.Name, len(meta.Columns), len(columns))
	}

	var levels [][]interface{}
	if err := readJSON(filepath.Join(dir, "index.json"), &levels); err != nil {
		return nil, nil, err
	}
	if len(levels) != meta.IndexLevels {
		return nil, nil, fmt.Errorf("frame %s: meta lists %d index levels, index has %d", meta.Name, meta.IndexLevels, len(levels))
	}

	// 1. Coerce column cells per recorded kind
	labels := make([]interface{}, len(meta.Columns))
	for i, cm := range meta.Columns {
		labels[i] = coerceLabel(cm.Label)
		cells, err := coerceCells(columns[i], value.Kind(cm.Kind))
		if err != nil {
			return nil, nil, fmt.Errorf("frame %s column %v: %w", meta.Name, cm.Label, err)
		}
		columns[i] = cells
	}

	// 2. Validate the persisted index names (same rules as a rename)
	names, err := value.AsNameList(meta.IndexNames)
	if err != nil {
		return nil, nil, err
	}
	if len(names) != meta.IndexLevels {
		return nil, nil, &idxerrors.NameLengthError{Want: meta.IndexLevels, Got: len(names)}
	}

	// 3. Coerce index cells and rebuild the Indexer
	for l := range levels {
		kind := value.KindMixed
		if l < len(meta.IndexKinds) {
			kind = value.Kind(meta.IndexKinds[l])
		}
		cells, err := coerceCells(levels[l], kind)
		if err != nil {
			return nil, nil, fmt.Errorf("frame %s index level %d: %w", meta.Name, l, err)
		}
		levels[l] = cells
	}
	var ix index.Indexer
	if len(levels) == 1 {
		flat, err := index.New(levels[0], index.WithName(names[0]))
		if err != nil {
			return nil, nil, err
		}
		ix = flat
	} else {
		mi, err := index.FromArrays(levels, index.WithNames(names))
		if err != nil {
			return nil, nil, err
		}
		ix = mi
	}

	f, err := frame.New(labels, columns, frame.WithIndex(ix))
	if err != nil {
		return nil, nil, err
	}
	return f, &meta, nil
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

// coerceLabel turns decoded JSON labels back into frame labels:
// arrays become tuples, whole floats become integers.
func coerceLabel(v interface{}) interface{} {
	switch t := v.(type) {
	case []interface{}:
		tup := make(value.Tuple, len(t))
		for i, e := range t {
			tup[i] = coerceLabel(e)
		}
		return tup
	case float64:
		if t == float64(int64(t)) {
			return int64(t)
		}
		return t
	default:
		return v
	}
}

// coerceCells rebuilds typed cells from decoded JSON per the recorded
// kind. JSON numbers always arrive as float64 and timestamps as
// strings.
func coerceCells(cells []interface{}, kind value.Kind) ([]interface{}, error) {
	out := make([]interface{}, len(cells))
	for i, v := range cells {
		if v == nil {
			continue
		}
		switch kind {
		case value.KindInteger:
			f, ok := v.(float64)
			if !ok || f != float64(int64(f)) {
				return nil, fmt.Errorf("expected integer cell, got %v (%T)", v, v)
			}
			out[i] = int64(f)
		case value.KindFloating:
			f, ok := v.(float64)
			if !ok {
				return nil, fmt.Errorf("expected floating cell, got %v (%T)", v, v)
			}
			out[i] = f
		case value.KindDatetime:
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("expected timestamp cell, got %v (%T)", v, v)
			}
			ts, err := time.Parse(time.RFC3339Nano, s)
			if err != nil {
				return nil, fmt.Errorf("invalid timestamp %q: %w", s, err)
			}
			out[i] = ts
		default:
			out[i] = coerceLabel(v)
		}
	}
	return out, nil
}
