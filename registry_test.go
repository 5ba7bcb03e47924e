package funcall

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTool(t *testing.T, name, desc string, fn func(context.Context, addArgs) (int, error)) Tool {
	t.Helper()
	tool, err := NewTool(name, desc, fn)
	require.NoError(t, err)
	return tool
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	t.Parallel()
	reg := NewRegistry()

	schema := reg.Register(mustTool(t, "add", "adds",
		func(_ context.Context, args addArgs) (int, error) { return args.A, nil }))
	assert.Equal(t, "add", schema.Name)

	tool, ok := reg.Lookup("add")
	require.True(t, ok)
	assert.Equal(t, "add", tool.Name())

	_, ok = reg.Lookup("missing")
	assert.False(t, ok)
}

func TestRegistry_LastRegistrationWins(t *testing.T) {
	t.Parallel()
	reg := NewRegistry()
	reg.Register(mustTool(t, "add", "first version",
		func(_ context.Context, args addArgs) (int, error) { return 1, nil }))
	reg.Register(mustTool(t, "add", "second version",
		func(_ context.Context, args addArgs) (int, error) { return 2, nil }))

	tool, ok := reg.Lookup("add")
	require.True(t, ok)
	assert.Equal(t, "second version", tool.Description())

	// One entry per distinct name, carrying the latest contract.
	schemas := reg.Schemas()
	require.Len(t, schemas, 1)
	assert.Equal(t, "second version", schemas[0].Description)
}

func TestRegistry_SchemasOrderAndUniqueness(t *testing.T) {
	t.Parallel()
	reg := NewRegistry()
	for _, name := range []string{"c", "a", "b"} {
		reg.Register(mustTool(t, name, "tool "+name,
			func(_ context.Context, args addArgs) (int, error) { return 0, nil }))
	}

	schemas := reg.Schemas()
	require.Len(t, schemas, 3)
	assert.Equal(t, "c", schemas[0].Name) // registration order, not sorted
	assert.Equal(t, "a", schemas[1].Name)
	assert.Equal(t, "b", schemas[2].Name)

	seen := map[string]bool{}
	for _, s := range schemas {
		assert.False(t, seen[s.Name], s.Name)
		seen[s.Name] = true
		for _, req := range s.Required() {
			_, ok := s.Parameter(req)
			assert.True(t, ok, req)
		}
	}
}

func TestRegister_FailureLeavesRegistryUnchanged(t *testing.T) {
	t.Parallel()
	reg := NewRegistry()
	_, err := Register(reg, "bad", "returns anything",
		func(_ context.Context, args addArgs) (any, error) { return nil, nil })
	require.ErrorIs(t, err, ErrMissingTypeAnnotation)
	assert.Empty(t, reg.Schemas())

	schema, err := Register(reg, "add", "adds",
		func(_ context.Context, args addArgs) (int, error) { return args.A, nil })
	require.NoError(t, err)
	assert.Equal(t, "add", schema.Name)
	assert.Len(t, reg.Schemas(), 1)
}

func countingMiddleware(n *atomic.Int64) Middleware {
	return func(next Tool) Tool {
		return &countingTool{toolBase: toolBase{next: next}, n: n}
	}
}

type countingTool struct {
	toolBase
	n *atomic.Int64
}

func (c *countingTool) Execute(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
	c.n.Add(1)
	return c.next.Execute(ctx, args)
}

func TestRegistry_Use(t *testing.T) {
	t.Parallel()
	var calls atomic.Int64
	reg := NewRegistry()
	reg.Register(mustTool(t, "add", "adds",
		func(_ context.Context, args addArgs) (int, error) { return args.A, nil }))
	reg.Use(countingMiddleware(&calls))

	// Tools registered after Use get the chain too.
	reg.Register(mustTool(t, "more", "adds more",
		func(_ context.Context, args addArgs) (int, error) { return args.A, nil }))

	for _, name := range []string{"add", "more"} {
		tool, ok := reg.Lookup(name)
		require.True(t, ok)
		_, err := tool.Execute(context.Background(), raw(`{"a": 1}`))
		require.NoError(t, err)
	}
	assert.Equal(t, int64(2), calls.Load())

	// Calling Use again rewraps from the raw tools instead of stacking.
	reg.Use(countingMiddleware(&calls))
	tool, _ := reg.Lookup("add")
	_, err := tool.Execute(context.Background(), raw(`{"a": 1}`))
	require.NoError(t, err)
	assert.Equal(t, int64(3), calls.Load())
}
