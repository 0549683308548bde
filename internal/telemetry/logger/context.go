// Package logger provides structured logging for the token store.
package logger

import "context"

type contextKey int

const requestIDKey contextKey = iota

// ContextWithRequestID attaches a request ID to the context so that
// WithContext-derived loggers tag every entry with it.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the request ID from the context.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey).(string)
	return id, ok && id != ""
}
