package container

import "context"

// ctxKey is unexported to prevent collisions with other packages.
type ctxKey struct{}

// WithRegistry returns a copy of ctx carrying r. Request-scoped middleware
// uses it to hand each request its own child registry.
func WithRegistry(ctx context.Context, r *Registry) context.Context {
	return context.WithValue(ctx, ctxKey{}, r.root())
}

// FromContext returns the registry stored by WithRegistry.
func FromContext(ctx context.Context) (*Registry, bool) {
	r, ok := ctx.Value(ctxKey{}).(*Registry)
	return r, ok
}
