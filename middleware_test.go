package funcall

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithLogging(t *testing.T) {
	t.Parallel()
	inner := mustTool(t, "add", "adds",
		func(_ context.Context, args addArgs) (int, error) { return args.A, nil })
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	wrapped := WithLogging(logger)(inner)
	assert.Equal(t, "add", wrapped.Name())
	assert.Equal(t, "adds", wrapped.Description())
	assert.Equal(t, inner.Schema(), wrapped.Schema())

	out, err := wrapped.Execute(context.Background(), raw(`{"a": 7}`))
	require.NoError(t, err)
	assert.JSONEq(t, `7`, string(out))

	// Errors pass through the logging layer untouched.
	_, err = wrapped.Execute(context.Background(), raw(`{"a": "x"}`))
	require.ErrorIs(t, err, ErrValidation)
}

func TestWithLogging_NilLogger(t *testing.T) {
	t.Parallel()
	inner := mustTool(t, "add", "adds",
		func(_ context.Context, args addArgs) (int, error) { return args.A, nil })
	require.NotPanics(t, func() {
		_, _ = WithLogging(nil)(inner).Execute(context.Background(), raw(`{"a": 1}`))
	})
}

func TestWithRecovery(t *testing.T) {
	t.Parallel()
	inner := mustTool(t, "explode", "panics",
		func(context.Context, addArgs) (int, error) { panic("blew up") })

	wrapped := WithRecovery()(inner)
	out, err := wrapped.Execute(context.Background(), raw(`{"a": 1}`))
	require.Error(t, err)
	assert.Nil(t, out)
	assert.Contains(t, err.Error(), "blew up")
}
