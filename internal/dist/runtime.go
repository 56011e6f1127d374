package dist

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// Runtime owns the execution knobs shared by every partitioned index:
// fan-out width, tracing, and operation observers.
type Runtime struct {
	tracer      trace.Tracer
	parallelism int

	mu        sync.RWMutex
	observers []Observer
}

// RuntimeOption configures a Runtime under construction
type RuntimeOption func(*Runtime)

// WithParallelism bounds concurrent partition work. Values below one
// fall back to GOMAXPROCS.
func WithParallelism(n int) RuntimeOption {
	return func(rt *Runtime) {
		if n > 0 {
			rt.parallelism = n
		}
	}
}

// WithObserver registers an operation observer at construction
func WithObserver(o Observer) RuntimeOption {
	return func(rt *Runtime) {
		rt.observers = append(rt.observers, o)
	}
}

// NewRuntime builds a Runtime with default fan-out of GOMAXPROCS
func NewRuntime(opts ...RuntimeOption) *Runtime {
	rt := &Runtime{
		tracer:      otel.Tracer("distframe/dist"),
		parallelism: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

var defaultRuntime = NewRuntime()

// DefaultRuntime returns the process-wide runtime used when an index
// is built without an explicit one.
func DefaultRuntime() *Runtime { return defaultRuntime }

// Register subscribes an observer to operation lifecycle events
func (rt *Runtime) Register(o Observer) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.observers = append(rt.observers, o)
}

func (rt *Runtime) publish(ev Event) {
	rt.mu.RLock()
	observers := rt.observers
	rt.mu.RUnlock()
	for _, o := range observers {
		o.OnEvent(ev)
	}
}

// forEach runs fn over every partition of an operation, fanning out
// when more than one partition is present. Lifecycle events are
// published around the whole operation and each partition.
func (rt *Runtime) forEach(ctx context.Context, op string, parts []*Partition, fn func(i int, p *Partition) error) error {
	ctx, span := rt.tracer.Start(ctx, "dist."+op,
		trace.WithAttributes(attribute.Int("partitions", len(parts))))
	defer span.End()

	opID := uuid.New().String()
	rt.publish(Event{Type: EventOpStart, OpID: opID, Op: op, Timestamp: time.Now(), Data: len(parts)})
	defer func() {
		rt.publish(Event{Type: EventOpEnd, OpID: opID, Op: op, Timestamp: time.Now()})
	}()

	slog.Debug("partitioned operation", "op", op, "op_id", opID, "partitions", len(parts))

	run := func(i int, p *Partition) error {
		rt.publish(Event{Type: EventPartitionStart, OpID: opID, Op: op, Timestamp: time.Now(), Data: p.ID})
		err := fn(i, p)
		rt.publish(Event{Type: EventPartitionEnd, OpID: opID, Op: op, Timestamp: time.Now(), Data: p.ID})
		return err
	}

	// Single partition runs inline; no goroutine churn for small data
	if len(parts) == 1 {
		return run(0, parts[0])
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rt.parallelism)
	for i, p := range parts {
		g.Go(func() error {
			// Once a partition fails, the ones not yet started skip
			if err := gctx.Err(); err != nil {
				return err
			}
			return run(i, p)
		})
	}
	return g.Wait()
}
