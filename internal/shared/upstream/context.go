package upstream

import "context"

type contextKey string

const sessionIDKey contextKey = "darshan.session_id"

// ContextWithSessionID tags a request context with the guest session that
// owns the upstream bearer token, so auth-failure hooks can tear it down.
func ContextWithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

// SessionIDFromContext returns the owning session id, if any
func SessionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionIDKey).(string)
	return id, ok && id != ""
}
