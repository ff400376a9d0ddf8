package common

import "context"

// Logger is the structured logging port carried through context by the
// planning pipeline
type Logger interface {
	Log(level, message string, fields map[string]interface{})
}

type contextKey int

const loggerKey contextKey = iota

// WithLogger attaches a logger to the context
func WithLogger(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext extracts the logger from context, falling back to a
// no-op logger so pipeline stages never nil-check
func LoggerFromContext(ctx context.Context) Logger {
	if logger, ok := ctx.Value(loggerKey).(Logger); ok {
		return logger
	}
	return &noOpLogger{}
}

type noOpLogger struct{}

func (l *noOpLogger) Log(level, message string, fields map[string]interface{}) {}
