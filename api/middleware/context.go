package middleware

import "context"

type (
	userIDKey struct{}
	roleKey   struct{}
)

// UserIDFromContext returns the profile id AdminAuth resolved from the bearer
// token, or "" on public routes.
func UserIDFromContext(ctx context.Context) string {
	return stringValue(ctx, userIDKey{})
}

// RoleFromContext returns the caller's profile role, or "" on public routes.
func RoleFromContext(ctx context.Context) string {
	return stringValue(ctx, roleKey{})
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(orBackground(ctx), userIDKey{}, userID)
}

func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(orBackground(ctx), roleKey{}, role)
}

func stringValue(ctx context.Context, key any) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(key).(string)
	return v
}

func orBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
