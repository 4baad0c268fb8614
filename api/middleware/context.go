package middleware

import "context"

type contextKey string

const (
	ctxUserID        contextKey = "user_id"
	ctxRole          contextKey = "actor_role"
	ctxSessionID     contextKey = "session_id"
	ctxUpstreamToken contextKey = "upstream_token"
)

func stringValue(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

func UserIDFromContext(ctx context.Context) string {
	return stringValue(ctx, ctxUserID)
}

func RoleFromContext(ctx context.Context) string {
	return stringValue(ctx, ctxRole)
}

// SessionIDFromContext returns the BFF session id (the JWT jti).
func SessionIDFromContext(ctx context.Context) string {
	return stringValue(ctx, ctxSessionID)
}

// UpstreamTokenFromContext returns the backend access token of the signed-in admin.
func UpstreamTokenFromContext(ctx context.Context) string {
	return stringValue(ctx, ctxUpstreamToken)
}

// WithSession seeds the identity values Auth would set. Used by handlers under test.
func WithSession(ctx context.Context, userID, role, sessionID, upstreamToken string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxUserID, userID)
	ctx = context.WithValue(ctx, ctxRole, role)
	ctx = context.WithValue(ctx, ctxSessionID, sessionID)
	return context.WithValue(ctx, ctxUpstreamToken, upstreamToken)
}
