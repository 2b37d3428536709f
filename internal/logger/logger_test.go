package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	t.Run("returns the ctx-carried logger", func(t *testing.T) {
		attached := New()
		ctx := context.WithValue(context.Background(), ContextKey, attached)

		require.Same(t, attached, FromContext(ctx))
	})

	t.Run("falls back to a fresh logger", func(t *testing.T) {
		require.NotNil(t, FromContext(context.Background()))
	})
}
