// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// Context keys and getters/setters live here so services can consume values
// set by middleware without importing net/http. Tests inject values directly:
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
//	ctx = requestcontext.WithActor(ctx, actor)
package requestcontext

import (
	"context"
	"time"

	id "github.com/PuntoEntrega/PDE-sub002/pkg/domain"
)

// Actor is the authenticated caller as resolved by the request gate.
type Actor struct {
	AccountID id.AccountID
	RoleLevel int
	Status    string
	FirstName string
	LastName  string
}

// Context key types (unexported for encapsulation).
type (
	actorKey         struct{}
	requestIDKey     struct{}
	requestTimeKey   struct{}
	clientIPKey      struct{}
	deviceSummaryKey struct{}
)

// ActorFrom retrieves the authenticated actor from the context.
// The second return is false on ungated (public) routes.
func ActorFrom(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(Actor)
	return a, ok
}

// WithActor injects the authenticated actor into the context.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(requestIDKey{}).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() for non-HTTP contexts (workers, tests, CLI).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context. All operations within a
// single request share one "now" so history timestamps stay consistent.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}

// ClientIP retrieves the client IP address from the context.
func ClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(clientIPKey{}).(string); ok {
		return ip
	}
	return ""
}

// DeviceSummary retrieves the parsed User-Agent summary from the context.
func DeviceSummary(ctx context.Context) string {
	if ds, ok := ctx.Value(deviceSummaryKey{}).(string); ok {
		return ds
	}
	return ""
}

// WithClientMetadata injects client IP and device summary into a context.
// Useful for service unit tests that don't run the HTTP middleware chain.
func WithClientMetadata(ctx context.Context, clientIP, deviceSummary string) context.Context {
	ctx = context.WithValue(ctx, clientIPKey{}, clientIP)
	ctx = context.WithValue(ctx, deviceSummaryKey{}, deviceSummary)
	return ctx
}
