package middleware

import (
	"context"

	"connectrpc.com/connect"
)

// Request headers that identify the caller. They are not authenticated.
const (
	MemberIDHeader  = "X-Member-Id"
	SessionIDHeader = "X-Session-Id"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// MemberIDKey is the context key for the acting member ID.
	MemberIDKey contextKey = "member_id"
	// SessionIDKey is the context key for the navigation session ID.
	SessionIDKey contextKey = "session_id"
)

// GetMemberID extracts the acting member ID from the context.
// Returns empty string if not found.
func GetMemberID(ctx context.Context) string {
	memberID, _ := ctx.Value(MemberIDKey).(string)
	return memberID
}

// GetSessionID extracts the navigation session ID from the context.
// Returns empty string if not found.
func GetSessionID(ctx context.Context) string {
	sessionID, _ := ctx.Value(SessionIDKey).(string)
	return sessionID
}

// WithIdentity returns ctx carrying the given member and session IDs.
func WithIdentity(ctx context.Context, memberID, sessionID string) context.Context {
	ctx = context.WithValue(ctx, MemberIDKey, memberID)
	return context.WithValue(ctx, SessionIDKey, sessionID)
}

// Identify returns an interceptor that reads the member and session headers
// into the context. A missing member falls back to defaultMemberID and a
// missing session to the member ID, so each member gets one session unless
// the client asks for more.
func Identify(defaultMemberID string) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			memberID := req.Header().Get(MemberIDHeader)
			if memberID == "" {
				memberID = defaultMemberID
			}
			sessionID := req.Header().Get(SessionIDHeader)
			if sessionID == "" {
				sessionID = memberID
			}
			return next(WithIdentity(ctx, memberID, sessionID), req)
		}
	}
}
