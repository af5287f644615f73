package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFromContext(t *testing.T) {
	t.Run("returns logger stored on ctx", func(t *testing.T) {
		l := NewWithLevel("warn")
		ctx := WithLogger(context.Background(), l)
		require.Same(t, l, FromContext(ctx))
	})

	t.Run("falls back to global logger", func(t *testing.T) {
		require.Same(t, zap.S(), FromContext(context.Background()))
	})

	t.Run("ignores unknown level", func(t *testing.T) {
		l := NewWithLevel("not-a-level")
		require.NotNil(t, l)
	})
}
