// Package context provides context keys for signal tracing and correlation.
package context

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Context keys for signal tracing and correlation.
// Using unexported struct pointers prevents key collisions.
var (
	signalIDKey   = &struct{}{}
	surfaceKey    = &struct{}{}
	operationKey  = &struct{}{}
	generationKey = &struct{}{}
	startTimeKey  = &struct{}{}
)

// WithSignalID adds a signal ID to the context
func WithSignalID(parent context.Context, signalID string) context.Context {
	if signalID == "" {
		signalID = GenerateSignalID()
	}
	return context.WithValue(parent, signalIDKey, signalID)
}

// GetSignalID retrieves the signal ID from context
func GetSignalID(ctx context.Context) string {
	if id, ok := ctx.Value(signalIDKey).(string); ok && id != "" {
		return id
	}
	return "unknown-signal"
}

// WithSurface adds the workspace surface name to the context
func WithSurface(parent context.Context, surface string) context.Context {
	return context.WithValue(parent, surfaceKey, surface)
}

// GetSurface retrieves the workspace surface name from context
func GetSurface(ctx context.Context) string {
	if s, ok := ctx.Value(surfaceKey).(string); ok && s != "" {
		return s
	}
	return "unknown-surface"
}

// WithOperation adds the engine operation name to the context
func WithOperation(parent context.Context, operation string) context.Context {
	return context.WithValue(parent, operationKey, operation)
}

// GetOperation retrieves the engine operation name from context
func GetOperation(ctx context.Context) string {
	if op, ok := ctx.Value(operationKey).(string); ok && op != "" {
		return op
	}
	return "unknown-operation"
}

// WithGeneration tags the context with the surface generation that
// originated the work, so stale results can be discarded after teardown.
func WithGeneration(parent context.Context, generation uint64) context.Context {
	return context.WithValue(parent, generationKey, generation)
}

// GetGeneration retrieves the surface generation from context.
func GetGeneration(ctx context.Context) (uint64, bool) {
	g, ok := ctx.Value(generationKey).(uint64)
	return g, ok
}

// WithStartTime records when the traced operation began
func WithStartTime(parent context.Context, start time.Time) context.Context {
	return context.WithValue(parent, startTimeKey, start)
}

// GetDuration returns elapsed time since the recorded start, or zero
func GetDuration(ctx context.Context) time.Duration {
	if start, ok := ctx.Value(startTimeKey).(time.Time); ok {
		return time.Since(start)
	}
	return 0
}

// GenerateSignalID creates a unique signal identifier
func GenerateSignalID() string {
	return "sig-" + uuid.New().String()
}
