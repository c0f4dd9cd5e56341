package logging

import "context"

type ctxKey string

const requestIDKey ctxKey = "requestID"

// RequestIDKey is the attribute name under which loggers emit the request id.
const RequestIDKey = "request_id"

// WithRequestID stores an outbound request identifier on the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil || requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext retrieves a previously stored request identifier.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// withContextAttrs appends context-carried attributes to args.
func withContextAttrs(ctx context.Context, args []any) []any {
	if id := RequestIDFromContext(ctx); id != "" {
		return append(args[:len(args):len(args)], RequestIDKey, id)
	}
	return args
}
