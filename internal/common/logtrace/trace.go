package logtrace

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tansive/restadapter/internal/common/uuid"
)

type opIdContextKey string

const opIdKey = opIdContextKey("opId")

// NewOperation returns a context carrying a fresh operation id and a child
// logger annotated with it and with the given string fields.
func NewOperation(ctx context.Context, fields map[string]string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	opId := uuid.New().String()
	ctx = context.WithValue(ctx, opIdKey, opId)

	lc := log.Ctx(ctx).With()
	if log.Ctx(ctx).GetLevel() == zerolog.Disabled {
		lc = log.Logger.With()
	}
	lc = lc.Str("op_id", opId)
	for k, v := range fields {
		lc = lc.Str(k, v)
	}
	logger := lc.Logger()
	return logger.WithContext(ctx)
}

// OpIdFromContext extracts the operation id from the context.
// Returns an empty string if the context is nil or carries no id.
func OpIdFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, ok := ctx.Value(opIdKey).(string)
	if !ok {
		return ""
	}
	return id
}
