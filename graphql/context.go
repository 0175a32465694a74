package graphql

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type contextKey string

const (
	CtxKeyRequestID contextKey = "requestID"

	// HeaderRequestID lets callers pick the id their query is logged under.
	HeaderRequestID = "X-Request-ID"
)

// RequestIDFromContext returns the id of the current request, or "".
func RequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyRequestID).(string); ok {
		return v
	}
	return ""
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CtxKeyRequestID, id)
}

// GetRequestID takes the id from the request header or generates one.
func GetRequestID(r *http.Request) string {
	if h := r.Header.Get(HeaderRequestID); h != "" {
		return h
	}
	return uuid.NewString()
}
