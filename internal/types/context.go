package types

import "context"

type ContextKey string

const (
	CtxRequestID ContextKey = "ctx_request_id"
	CtxUserID    ContextKey = "ctx_user_id"
)

// GetRequestID returns the request ID from the context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(CtxRequestID).(string); ok {
		return id
	}
	return ""
}

// GetUserID returns the acting operator's user ID from the context
func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(CtxUserID).(string); ok {
		return id
	}
	return ""
}

// SetRequestID returns a child context carrying the request ID
func SetRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CtxRequestID, id)
}

// SetUserID returns a child context carrying the operator's user ID
func SetUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CtxUserID, id)
}
