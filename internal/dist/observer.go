package dist

import (
	"log/slog"
	"time"

	"go.uber.org/zap"
)

// EventType represents lifecycle phases of a partitioned operation
type EventType string

const (
	EventOpStart        EventType = "op_start"
	EventOpEnd          EventType = "op_end"
	EventPartitionStart EventType = "partition_start"
	EventPartitionEnd   EventType = "partition_end"
	EventMerge          EventType = "merge"
)

// Event represents a lifecycle event of a partitioned operation
type Event struct {
	Type      EventType
	OpID      string      // operation ID for correlating phases
	Op        string      // operation name ("factorize", "collect", ...)
	Timestamp time.Time   // when the event occurred
	Data      interface{} // phase-specific data (partition id, counts, ...)
}

// Observer interface for event subscribers
// Observers receive events at major phases of partitioned operations
type Observer interface {
	OnEvent(event Event)
}

// LoggingObserver logs all events using structured logging
type LoggingObserver struct {
	logger *slog.Logger
}

// NewLoggingObserver creates a logging observer bound to the default
// slog logger.
func NewLoggingObserver() *LoggingObserver {
	return &LoggingObserver{logger: slog.Default()}
}

// OnEvent implements the Observer interface
func (lo *LoggingObserver) OnEvent(event Event) {
	lo.logger.Info("op_lifecycle",
		"event", event.Type,
		"op", event.Op,
		"op_id", event.OpID,
		"timestamp", event.Timestamp,
		"data", event.Data,
	)
}

// ZapObserver logs all events through a zap logger, for callers whose
// surrounding application already runs on zap.
type ZapObserver struct {
	logger *zap.Logger
}

// NewZapObserver creates an observer writing to the given zap logger
func NewZapObserver(logger *zap.Logger) *ZapObserver {
	return &ZapObserver{logger: logger}
}

// OnEvent implements the Observer interface
func (zo *ZapObserver) OnEvent(event Event) {
	zo.logger.Info("op_lifecycle",
		zap.String("event", string(event.Type)),
		zap.String("op", event.Op),
		zap.String("op_id", event.OpID),
		zap.Time("timestamp", event.Timestamp),
		zap.Any("data", event.Data),
	)
}
