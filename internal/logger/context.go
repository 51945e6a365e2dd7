package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey string

const opIDKey ctxKey = "op_id"

// WithOpID tags the context with an operation id so every log line of a
// store command can be correlated.
func WithOpID(ctx context.Context, opID string) context.Context {
	return context.WithValue(ctx, opIDKey, opID)
}

func OpIDFrom(ctx context.Context) string {
	if v := ctx.Value(opIDKey); v != nil {
		return v.(string)
	}
	return ""
}

// FromCtx returns the logger with op_id automatically added.
func FromCtx(ctx context.Context) *zap.Logger {
	opID := OpIDFrom(ctx)
	if opID == "" {
		return L()
	}
	return L().With(zap.String("op_id", opID))
}
