package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithOpID(t *testing.T) {
	ctx := WithOpID(context.Background(), "op-123")
	assert.Equal(t, "op-123", OpIDFrom(ctx))
}

func TestOpIDFromEmptyContext(t *testing.T) {
	assert.Equal(t, "", OpIDFrom(context.Background()))
}

func TestFromCtxReturnsLogger(t *testing.T) {
	Init("development")

	assert.NotNil(t, FromCtx(context.Background()))
	assert.NotNil(t, FromCtx(WithOpID(context.Background(), "op-1")))
}
