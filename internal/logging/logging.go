package logging

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	slogseq "github.com/sokkalf/slog-seq"
	"go.uber.org/multierr"
)

// Config holds the logging knobs, read from the environment
type Config struct {
	SeqURL        string        `env:"DISTFRAME_SEQ_URL" envDefault:"http://localhost:5341"`
	Level         string        `env:"DISTFRAME_LOG_LEVEL" envDefault:"debug"`
	BatchSize     int           `env:"DISTFRAME_SEQ_BATCH" envDefault:"1"`
	FlushInterval time.Duration `env:"DISTFRAME_SEQ_FLUSH" envDefault:"500ms"`
}

func (c Config) slogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// fanoutHandler forwards log records to multiple handlers
type fanoutHandler struct {
	handlers []slog.Handler
}

func (f *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f *fanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var err error
	for _, h := range f.handlers {
		if h.Enabled(ctx, r.Level) {
			err = multierr.Append(err, h.Handle(ctx, r.Clone()))
		}
	}
	return err
}

func (f *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		handlers[i] = h.WithAttrs(attrs)
	}
	return &fanoutHandler{handlers: handlers}
}

func (f *fanoutHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		handlers[i] = h.WithGroup(name)
	}
	return &fanoutHandler{handlers: handlers}
}

// Setup initializes the logger from the environment and returns it
// with a cleanup function. Console output always works; the Seq sink
// joins when reachable.
func Setup() (*slog.Logger, func(), error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, nil, err
	}

	opts := &slog.HandlerOptions{
		Level:     cfg.slogLevel(),
		AddSource: true,
	}
	consoleHandler := slog.NewTextHandler(os.Stdout, opts)

	_, seqHandler := slogseq.NewLogger(
		cfg.SeqURL,
		slogseq.WithBatchSize(cfg.BatchSize),
		slogseq.WithFlushInterval(cfg.FlushInterval),
		slogseq.WithHandlerOptions(opts),
	)

	// If Seq is not available, use console only
	if seqHandler == nil {
		return slog.New(consoleHandler), func() {}, nil
	}

	logger := slog.New(&fanoutHandler{
		handlers: []slog.Handler{consoleHandler, seqHandler},
	})
	return logger, func() { seqHandler.Close() }, nil
}
