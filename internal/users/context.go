package users

import "context"

type ctxKey struct{}

// WithID stamps the authenticated user id onto the request context.
func WithID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the authenticated user id, or false for guests.
func FromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(ctxKey{}).(int64)
	return id, ok
}
