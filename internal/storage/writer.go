package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mokua/distframe/internal/domain/value"
	"github.com/mokua/distframe/internal/frame"
	"github.com/mokua/distframe/internal/index"
)

// Save persists a frame into dir as meta.json, data.json and
// index.json, each written through a temp file and an atomic rename.
func Save(dir, name string, f *frame.Frame) error {
	if f == nil || dir == "" {
		return fmt.Errorf("cannot save frame: nil or missing directory")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create frame directory %s: %w", dir, err)
	}

	// 1. Column data and metadata in label order
	labels := f.Labels()
	columns := make([][]interface{}, len(labels))
	meta := FrameMeta{
		Name:     name,
		RowCount: int64(f.Len()),
		Columns:  make([]ColumnMeta, len(labels)),
	}
	for i, label := range labels {
		cells, err := f.ColumnValues(label)
		if err != nil {
			return err
		}
		columns[i] = cells
		meta.Columns[i] = ColumnMeta{
			Label: label,
			Kind:  string(value.Infer(cells)),
		}
	}

	// 2. Index levels, names and kinds
	var levels [][]interface{}
	switch ix := f.Index().(type) {
	case *index.Index:
		levels = [][]interface{}{ix.Values()}
	case *index.MultiIndex:
		for l := 0; l < ix.NLevels(); l++ {
			lv, err := ix.GetLevelValues(l)
			if err != nil {
				return err
			}
			levels = append(levels, lv.Values())
		}
	default:
		return fmt.Errorf("cannot persist index type %T", f.Index())
	}
	meta.IndexLevels = len(levels)
	meta.IndexNames = f.Index().Names()
	meta.IndexKinds = make([]string, len(levels))
	for l, lv := range levels {
		meta.IndexKinds[l] = string(value.Infer(lv))
	}

	// 3. Marshal all three payloads
	metaBytes, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal frame meta for %s: %w", name, err)
	}
	dataBytes, err := json.MarshalIndent(columns, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal columns for %s: %w", name, err)
	}
	indexBytes, err := json.MarshalIndent(levels, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal index for %s: %w", name, err)
	}

	// 4. Write each file using temp + atomic rename
	files := []struct {
		path string
		data []byte
		name string
	}{
		{filepath.Join(dir, "meta.json"), metaBytes, "meta.json"},
		{filepath.Join(dir, "data.json"), dataBytes, "data.json"},
		{filepath.Join(dir, "index.json"), indexBytes, "index.json"},
	}
	for _, fl := range files {
		tmpPath := fl.path + ".tmp"
		if err := os.WriteFile(tmpPath, fl.data, 0644); err != nil {
			return fmt.Errorf("failed to write temp file %s for frame %s: %w", fl.name, name, err)
		}
		if err := os.Rename(tmpPath, fl.path); err != nil {
			return fmt.Errorf("failed to rename temp → %s for frame %s: %w", fl.name, name, err)
		}
	}

	slog.Info("Frame saved successfully",
		slog.String("frame", name),
		slog.String("path", dir),
		slog.Int("row_count", f.Len()),
		slog.Int("column_count", len(labels)),
		slog.Int("index_levels", meta.IndexLevels),
	)
	return nil
}
