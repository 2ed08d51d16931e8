package httpx

import (
	"context"
	"net/http"

	"booknav/internal/identity"
)

type contextKey string

const requestIDKey contextKey = "requestID"

// RequestIDFrom retrieves the request ID from the request context.
func RequestIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// UserIDFrom returns the authenticated user id, or "" for anonymous callers.
func UserIDFrom(r *http.Request) string {
	id, _ := identity.UserID(identity.FromContext(r.Context()))
	return id
}

const userIDSinkKey contextKey = "userIDSink"

// withUserIDSink lets an outer middleware observe the user id resolved by
// AuthMiddleware further down the chain.
func withUserIDSink(ctx context.Context, sink *string) context.Context {
	return context.WithValue(ctx, userIDSinkKey, sink)
}

func reportUserID(ctx context.Context, userID string) {
	if sink, ok := ctx.Value(userIDSinkKey).(*string); ok && sink != nil {
		*sink = userID
	}
}
