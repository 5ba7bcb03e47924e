package funcall

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAddRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := NewRegistry()
	_, err := Register(reg, "add", "adds two integers",
		func(_ context.Context, args struct {
			A int `json:"a" description:"first addend"`
			B int `json:"b" description:"second addend"`
		}) (int, error) {
			return args.A + args.B, nil
		})
	require.NoError(t, err)
	return reg
}

func TestDispatcher_Execute(t *testing.T) {
	t.Parallel()
	d := NewDispatcher(newAddRegistry(t))

	res := d.Execute(context.Background(), CallRequest{ID: "c1", Name: "add", Args: raw(`{"a": 2, "b": 3}`)})
	require.False(t, res.Failed(), res.Reason())
	assert.Equal(t, "c1", res.ID)
	assert.JSONEq(t, `5`, string(res.Value))
}

func TestDispatcher_Execute_UnknownTool(t *testing.T) {
	t.Parallel()
	d := NewDispatcher(newAddRegistry(t))

	res := d.Execute(context.Background(), CallRequest{ID: "c1", Name: "subtract", Args: raw(`{}`)})
	require.True(t, res.Failed())
	assert.ErrorIs(t, res.Err, ErrUnknownTool)
	assert.Contains(t, res.Reason(), `"subtract"`)
	assert.Nil(t, res.Value)
}

func TestDispatcher_Execute_MalformedArguments(t *testing.T) {
	t.Parallel()
	d := NewDispatcher(newAddRegistry(t))

	for _, args := range []string{`{"a": `, `[1, 2]`, `"text"`, `42`} {
		res := d.Execute(context.Background(), CallRequest{ID: "c1", Name: "add", Args: raw(args)})
		require.True(t, res.Failed(), args)
		assert.ErrorIs(t, res.Err, ErrMalformedArguments, args)
	}
}

func TestDispatcher_Execute_EmptyArgs(t *testing.T) {
	t.Parallel()
	reg := NewRegistry()
	_, err := Register(reg, "ping", "replies with pong",
		func(context.Context, struct{}) (string, error) { return "pong", nil })
	require.NoError(t, err)

	res := NewDispatcher(reg).Execute(context.Background(), CallRequest{ID: "c1", Name: "ping"})
	require.False(t, res.Failed(), res.Reason())
	assert.JSONEq(t, `"pong"`, string(res.Value))
}

func TestDispatcher_Execute_HandlerError(t *testing.T) {
	t.Parallel()
	reg := NewRegistry()
	_, err := Register(reg, "boom", "always fails",
		func(context.Context, struct{}) (string, error) { return "", errors.New("kaboom") })
	require.NoError(t, err)

	res := NewDispatcher(reg).Execute(context.Background(), CallRequest{ID: "c1", Name: "boom", Args: raw(`{}`)})
	require.True(t, res.Failed())
	// The handler's message travels into the result verbatim.
	assert.Equal(t, "kaboom", res.Reason())
}

func TestDispatcher_Execute_PanicRecovered(t *testing.T) {
	t.Parallel()
	reg := NewRegistry()
	_, err := Register(reg, "explode", "panics",
		func(context.Context, struct{}) (string, error) { panic("blew up") })
	require.NoError(t, err)

	res := NewDispatcher(reg).Execute(context.Background(), CallRequest{ID: "c1", Name: "explode", Args: raw(`{}`)})
	require.True(t, res.Failed())
	assert.Contains(t, res.Reason(), "panic")
	assert.Contains(t, res.Reason(), "blew up")
	assert.Nil(t, res.Value)
}

func TestDispatcher_Execute_PanicPropagatesWhenDisabled(t *testing.T) {
	t.Parallel()
	reg := NewRegistry()
	_, err := Register(reg, "explode", "panics",
		func(context.Context, struct{}) (string, error) { panic("blew up") })
	require.NoError(t, err)

	d := NewDispatcher(reg, WithRecoverPanics(false))
	require.Panics(t, func() {
		d.Execute(context.Background(), CallRequest{ID: "c1", Name: "explode", Args: raw(`{}`)})
	})
}

func TestDispatcher_Execute_Hooks(t *testing.T) {
	t.Parallel()
	var before, after int
	var lastRes CallResult
	d := NewDispatcher(newAddRegistry(t),
		WithOnBeforeExecute(func(_ context.Context, call CallRequest) { before++ }),
		WithOnAfterExecute(func(_ context.Context, _ CallRequest, res CallResult, dur time.Duration) {
			after++
			lastRes = res
			assert.GreaterOrEqual(t, dur, time.Duration(0))
		}))

	d.Execute(context.Background(), CallRequest{ID: "c1", Name: "add", Args: raw(`{"a": 1, "b": 1}`)})
	assert.Equal(t, 1, before)
	assert.Equal(t, 1, after)
	assert.False(t, lastRes.Failed())

	// The after hook fires for failures too; the before hook only fires once
	// the tool is resolved.
	d.Execute(context.Background(), CallRequest{ID: "c2", Name: "missing", Args: raw(`{}`)})
	assert.Equal(t, 1, before)
	assert.Equal(t, 2, after)
	assert.ErrorIs(t, lastRes.Err, ErrUnknownTool)
}

func TestDispatcher_Execute_Timeout(t *testing.T) {
	t.Parallel()
	reg := NewRegistry()
	_, err := Register(reg, "slow", "waits out the deadline",
		func(ctx context.Context, _ struct{}) (string, error) {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(5 * time.Second):
				return "late", nil
			}
		})
	require.NoError(t, err)

	d := NewDispatcher(reg, WithExecTimeout(20*time.Millisecond))
	res := d.Execute(context.Background(), CallRequest{ID: "c1", Name: "slow", Args: raw(`{}`)})
	require.True(t, res.Failed())
	assert.ErrorIs(t, res.Err, context.DeadlineExceeded)
}
