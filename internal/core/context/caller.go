package context

import (
	"context"
)

// CallerContext identifies the authenticated caller of a request:
// either a user (JWT subject) or a trusted service (API key).
type CallerContext struct {
	Subject   string
	Roles     []string
	IsService bool
}

type callerContextKey struct{}

// WithCaller adds CallerContext to context.
func WithCaller(ctx context.Context, caller *CallerContext) context.Context {
	return context.WithValue(ctx, callerContextKey{}, caller)
}

// GetCaller returns CallerContext from context, or nil.
func GetCaller(ctx context.Context) *CallerContext {
	if v, ok := ctx.Value(callerContextKey{}).(*CallerContext); ok {
		return v
	}
	return nil
}

// GetSubject returns the authenticated subject or empty string.
func GetSubject(ctx context.Context) string {
	if c := GetCaller(ctx); c != nil {
		return c.Subject
	}
	return ""
}
