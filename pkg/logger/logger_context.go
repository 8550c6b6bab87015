package logger

import (
	"context"

	pcontext "github.com/panekit/panekit/pkg/context"
)

// LoggerContext extends the Logger interface with context-aware methods
// so signal tracing fields ride along automatically.
type LoggerContext interface {
	Logger
	InfoContext(ctx context.Context, message string, fields ...Field)
	ErrorContext(ctx context.Context, message string, fields ...Field)
	WarnContext(ctx context.Context, message string, fields ...Field)
	DebugContext(ctx context.Context, message string, fields ...Field)
}

// Ensure SurfaceLogger implements LoggerContext
var _ LoggerContext = (*SurfaceLogger)(nil)

// InfoContext logs an info message with signal tracing
func (l *SurfaceLogger) InfoContext(ctx context.Context, message string, fields ...Field) {
	l.Info(message, append(l.extractContextFields(ctx), fields...)...)
}

// ErrorContext logs an error message with signal tracing
func (l *SurfaceLogger) ErrorContext(ctx context.Context, message string, fields ...Field) {
	l.Error(message, append(l.extractContextFields(ctx), fields...)...)
}

// WarnContext logs a warning message with signal tracing
func (l *SurfaceLogger) WarnContext(ctx context.Context, message string, fields ...Field) {
	l.Warn(message, append(l.extractContextFields(ctx), fields...)...)
}

// DebugContext logs a debug message with signal tracing
func (l *SurfaceLogger) DebugContext(ctx context.Context, message string, fields ...Field) {
	l.Debug(message, append(l.extractContextFields(ctx), fields...)...)
}

// extractContextFields extracts tracing fields from context
func (l *SurfaceLogger) extractContextFields(ctx context.Context) []Field {
	if ctx == nil {
		return nil
	}

	var fields []Field

	if signalID := pcontext.GetSignalID(ctx); signalID != "unknown-signal" {
		fields = append(fields, WithField("signal_id", signalID))
	}

	if operation := pcontext.GetOperation(ctx); operation != "unknown-operation" {
		fields = append(fields, WithField("operation", operation))
	}

	if gen, ok := pcontext.GetGeneration(ctx); ok {
		fields = append(fields, WithField("generation", gen))
	}

	if duration := pcontext.GetDuration(ctx); duration > 0 {
		fields = append(fields, WithField("duration_ms", duration.Milliseconds()))
	}

	return fields
}
