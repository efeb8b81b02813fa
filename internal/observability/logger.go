package observability

import (
	"context"
	"os"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the process-wide logger. It is a no-op until InitLogger runs so
// packages can log from tests without setup.
var Logger = zap.NewNop()

// InitLogger builds the production JSON logger. LOG_LEVEL (debug, info, warn,
// error) overrides the default info level.
func InitLogger() error {
	cfg := zap.NewProductionConfig()

	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		level, err := zapcore.ParseLevel(raw)
		if err != nil {
			return err
		}
		cfg.Level = zap.NewAtomicLevelAt(level)
	}

	logger, err := cfg.Build()
	if err != nil {
		return err
	}

	Logger = logger.With(zap.String("service", ServiceName()))
	return nil
}

func SyncLogger() {
	_ = Logger.Sync()
}

// LoggerWithTrace returns a child of the process-wide Logger enriched with
// trace_id and span_id fields from the active OTel span in ctx.
func LoggerWithTrace(ctx context.Context) *zap.Logger {
	return WithTrace(Logger, ctx)
}

// WithTrace is LoggerWithTrace for an arbitrary base logger.
//
// The context itself is attached as a zap.Any field: the otelzap bridge picks
// up any field whose value is a context.Context and emits the OTLP record with
// it, so exported log records carry native trace and span IDs. The string
// fields keep stdout JSON greppable.
func WithTrace(base *zap.Logger, ctx context.Context) *zap.Logger {
	span := trace.SpanContextFromContext(ctx)

	if !span.IsValid() {
		return base
	}

	return base.With(
		zap.Any("context", ctx),
		zap.String("trace_id", span.TraceID().String()),
		zap.String("span_id", span.SpanID().String()),
	)
}
