package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/mokua/distframe/internal/dist"
	"github.com/mokua/distframe/internal/frame"
	"github.com/mokua/distframe/internal/index"
	"github.com/mokua/distframe/internal/logging"
	"github.com/mokua/distframe/internal/storage"
)

func main() {
	dataDir := flag.String("data", "data/users", "Directory to persist the demo frame")
	parallelism := flag.Int("parallelism", 4, "Partition workers per operation")
	partitions := flag.Int("partitions", 3, "Partitions for the mirrored index")
	flag.Parse()

	logger, closeFn, err := logging.Setup()
	if err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}
	defer closeFn()

	slog.SetDefault(logger)
	slog.Info("Starting distframe application...")

	ctx := context.Background()

	// 1. Tracing provider for the partitioned runtime
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	defer tp.Shutdown(ctx)

	// 2. Runtime with both observer sinks
	zl, err := zap.NewProduction()
	if err != nil {
		slog.Error("failed to set up zap", "error", err)
		closeFn()
		os.Exit(1)
	}
	defer zl.Sync()

	rt := dist.NewRuntime(
		dist.WithParallelism(*parallelism),
		dist.WithObserver(dist.NewLoggingObserver()),
		dist.WithObserver(dist.NewZapObserver(zl)),
	)

	// 3. Build the demo frame
	ix, err := index.New([]interface{}{0, 1, 3, 5, 6, 8, 9, 9, 9}, index.WithName("id"))
	if err != nil {
		slog.Error("failed to build index", "error", err)
		closeFn()
		os.Exit(1)
	}
	users, err := frame.New(
		[]interface{}{"a", "b", "score"},
		[][]interface{}{
			{1, 2, 3, 4, 5, 6, 7, 8, 9},
			{4, 5, 6, 3, 2, 1, 0, 0, 0},
			{0.5, 1.5, 2.5, 3.5, 4.5, 5.5, 6.5, 7.5, 8.5},
		},
		frame.WithIndex(ix),
	)
	if err != nil {
		slog.Error("failed to build frame", "error", err)
		closeFn()
		os.Exit(1)
	}

	// 4. Mirror the index into partitions and run a few operations
	dx := dist.FromIndex(rt, ix, *partitions)
	slog.Info("index mirrored",
		"partitions", dx.NumPartitions(),
		"rows", dx.Len(),
		"summary", dx.Summary(),
	)

	codes, uniques, err := dx.Factorize(ctx)
	if err != nil {
		slog.Error("factorize failed", "error", err)
		closeFn()
		os.Exit(1)
	}
	uv, err := uniques.Collect(ctx)
	if err != nil {
		slog.Error("collect failed", "error", err)
		closeFn()
		os.Exit(1)
	}
	slog.Info("factorized", "codes", codes, "uniques", uv.Values())

	scaled, err := dx.MulScalar(ctx, 100)
	if err != nil {
		slog.Error("scalar multiply failed", "error", err)
		closeFn()
		os.Exit(1)
	}
	combined, err := scaled.Add(ctx, dx)
	if err != nil {
		slog.Error("elementwise add failed", "error", err)
		closeFn()
		os.Exit(1)
	}
	cv, err := combined.Collect(ctx)
	if err != nil {
		slog.Error("collect failed", "error", err)
		closeFn()
		os.Exit(1)
	}
	slog.Info("arithmetic chain", "name", cv.Name(), "values", cv.Values())

	// 5. Promote both columns into a hierarchical index and project a level
	if err := users.SetIndex("a", false); err != nil {
		slog.Error("set index failed", "error", err)
		closeFn()
		os.Exit(1)
	}
	if err := users.SetIndex("b", true); err != nil {
		slog.Error("append index level failed", "error", err)
		closeFn()
		os.Exit(1)
	}
	mi, ok := users.Index().(*index.MultiIndex)
	if !ok {
		slog.Error("expected a hierarchical index after append")
		closeFn()
		os.Exit(1)
	}
	dm := dist.FromMultiIndex(rt, mi, *partitions)
	level, err := dm.GetLevelValues(ctx, 1)
	if err != nil {
		slog.Error("level projection failed", "error", err)
		closeFn()
		os.Exit(1)
	}
	lv, err := level.Collect(ctx)
	if err != nil {
		slog.Error("collect failed", "error", err)
		closeFn()
		os.Exit(1)
	}
	slog.Info("level values", "name", lv.Name(), "values", lv.Values())

	// 6. Persist the frame and load it back
	if err := os.MkdirAll(*dataDir, 0755); err != nil {
		slog.Error("failed to create data directory", "error", err)
		closeFn()
		os.Exit(1)
	}
	if err := storage.Save(*dataDir, "users", users); err != nil {
		slog.Error("save failed", "error", err)
		closeFn()
		os.Exit(1)
	}
	loaded, meta, err := storage.Load(*dataDir)
	if err != nil {
		slog.Error("load failed", "error", err)
		closeFn()
		os.Exit(1)
	}
	slog.Info("round trip complete",
		"name", meta.Name,
		"rows", meta.RowCount,
		"index_levels", meta.IndexLevels,
		"index_names", loaded.Index().Names(),
	)

	slog.Info("Application ready - all operations tested!")
}
