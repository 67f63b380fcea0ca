package observe

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// structuredLogger implements Logger on top of zerolog.
type structuredLogger struct {
	log zerolog.Logger
}

// NewLogger creates a structured JSON logger with the given level, writing
// to stderr. Unknown levels fall back to info.
func NewLogger(level string) Logger {
	return NewLoggerWithWriter(level, os.Stderr)
}

// NewLoggerWithWriter creates a structured logger with a custom writer.
func NewLoggerWithWriter(level string, w io.Writer) Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	return &structuredLogger{
		log: zerolog.New(w).Level(lvl).With().Timestamp().Logger(),
	}
}

// WithOp returns a logger with operation context attached to every entry.
func (l *structuredLogger) WithOp(meta OpMeta) Logger {
	ctx := l.log.With().
		Str("llm.domain", meta.Domain).
		Str("llm.operation", meta.Operation)

	if meta.Provider != "" {
		ctx = ctx.Str("llm.provider", meta.Provider)
	}
	if meta.Model != "" {
		ctx = ctx.Str("llm.model", meta.Model)
	}

	return &structuredLogger{log: ctx.Logger()}
}

func (l *structuredLogger) Info(_ context.Context, msg string, fields ...Field) {
	emit(l.log.Info(), msg, fields)
}

func (l *structuredLogger) Warn(_ context.Context, msg string, fields ...Field) {
	emit(l.log.Warn(), msg, fields)
}

func (l *structuredLogger) Error(_ context.Context, msg string, fields ...Field) {
	emit(l.log.Error(), msg, fields)
}

func (l *structuredLogger) Debug(_ context.Context, msg string, fields ...Field) {
	emit(l.log.Debug(), msg, fields)
}

func emit(ev *zerolog.Event, msg string, fields []Field) {
	for _, f := range fields {
		if isRedactedField(f.Key) {
			ev = ev.Str(f.Key, "[REDACTED]")
			continue
		}
		ev = ev.Interface(f.Key, f.Value)
	}
	ev.Msg(msg)
}

// isRedactedField returns true if the field should be redacted.
func isRedactedField(key string) bool {
	for _, k := range RedactedFields {
		if k == key {
			return true
		}
	}
	return false
}

// Ensure structuredLogger implements Logger
var _ Logger = (*structuredLogger)(nil)
