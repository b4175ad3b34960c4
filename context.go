package authgate

import (
	"context"

	"github.com/google/uuid"
)

// UnknownClient is the sentinel identifier used when no client address can
// be derived from the request.
const UnknownClient = "unknown"

type correlationIDContextKey struct{}
type clientIDContextKey struct{}

// WithCorrelationID attaches the per-request correlation ID to ctx. The
// Engine threads it through every log line, audit event and payload.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDContextKey{}, id)
}

// WithClientID attaches the rate-limit identifier (usually the forwarded
// client IP) to ctx.
func WithClientID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, clientIDContextKey{}, id)
}

// newCorrelationID mints an opaque per-request identifier.
func newCorrelationID() string {
	return uuid.NewString()
}

// CorrelationIDFromContext returns the attached correlation ID, or "" when
// none was set.
func CorrelationIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(correlationIDContextKey{}).(string)
	return id
}

// ClientIDFromContext returns the attached client identifier, falling back
// to the UnknownClient sentinel.
func ClientIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return UnknownClient
	}
	id, _ := ctx.Value(clientIDContextKey{}).(string)
	if id == "" {
		return UnknownClient
	}
	return id
}
