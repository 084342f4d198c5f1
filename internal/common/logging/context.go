package logging

import "context"

type contextKey int

const requestIDKey contextKey = iota

// ContextWithRequestID returns a copy of ctx carrying the request id that
// WithContext attaches to log lines.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext returns the request id stored by ContextWithRequestID.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey).(string)
	return id, ok && id != ""
}
