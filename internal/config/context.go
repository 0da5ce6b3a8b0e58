package config

import "context"

type ctxKey struct{}

// WithManager attaches a Manager to the context.
func WithManager(ctx context.Context, m *Manager) context.Context {
	return context.WithValue(ctx, ctxKey{}, m)
}

// FromContext retrieves the Manager from context, or nil if none is
// attached.
func FromContext(ctx context.Context) *Manager {
	if m, ok := ctx.Value(ctxKey{}).(*Manager); ok {
		return m
	}
	return nil
}
