package internal

import (
	"context"
	"time"
)

type ctxKey string

const (
	ContextClientKey  ctxKey = "client"
	ContextTraceIDKey ctxKey = "traceID"
)

// ClientFromContext returns the name of the authenticated service client.
func ClientFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if client, ok := ctx.Value(ContextClientKey).(string); ok {
		return client
	}
	return ""
}

func ContextWithClient(ctx context.Context, client string) context.Context {
	return context.WithValue(ctx, ContextClientKey, client)
}

func TraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(ContextTraceIDKey).(string); ok {
		return id
	}
	return ""
}

func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, ContextTraceIDKey, traceID)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
