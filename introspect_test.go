package funcall

import (
	"context"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doubleArgs struct {
	N int `json:"n" description:"value to double"`
}

func double(_ context.Context, args doubleArgs) (int, error) {
	return args.N * 2, nil
}

type greeter struct{ prefix string }

func (g *greeter) greet(_ context.Context, args doubleArgs) (string, error) {
	return g.prefix, nil
}

func TestIntrospectName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "double", introspectName(double))

	g := &greeter{prefix: "hi"}
	assert.Equal(t, "greet", introspectName(g.greet))

	closure := func(_ context.Context, args doubleArgs) (int, error) { return 0, nil }
	assert.Equal(t, "", introspectName(closure))

	assert.Equal(t, "", introspectName(42))
}

func TestIsAnonymousFunc(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		want bool
	}{
		{"func1", true},
		{"func2.1", true},
		{"func", false},
		{"funcall", false},
		{"double", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isAnonymousFunc(tt.name), tt.name)
	}
}

func TestIntrospectParams(t *testing.T) {
	t.Parallel()

	type args struct {
		Path     string   `json:"path" description:"file path"`
		Count    int      `json:"count,omitempty"`
		Ratio    *float64 `json:"ratio"`
		Verbose  bool
		internal string
		Skipped  string `json:"-"`
	}
	_ = args{internal: ""}

	params, err := introspectParams("t", reflect.TypeOf(args{}))
	require.NoError(t, err)
	require.Len(t, params, 4)

	assert.Equal(t, "path", params[0].Name)
	assert.Equal(t, "file path", params[0].Description)
	assert.Equal(t, KindString, params[0].Schema.Type)
	assert.True(t, params[0].Required)

	assert.Equal(t, "count", params[1].Name)
	assert.Equal(t, "count: integer", params[1].Description) // fallback description
	assert.False(t, params[1].Required)

	assert.Equal(t, "ratio", params[2].Name)
	assert.Equal(t, KindNumber, params[2].Schema.Type)
	assert.False(t, params[2].Required) // pointer fields are optional

	assert.Equal(t, "verbose", params[3].Name) // untagged field lowercased
	assert.Equal(t, KindBoolean, params[3].Schema.Type)
	assert.True(t, params[3].Required)
}

func TestIntrospectParams_InterfaceField(t *testing.T) {
	t.Parallel()
	type args struct {
		Value any `json:"value"`
	}
	_, err := introspectParams("t", reflect.TypeOf(args{}))
	require.ErrorIs(t, err, ErrMissingTypeAnnotation)

	var regErr *RegistrationError
	require.ErrorAs(t, err, &regErr)
	assert.Equal(t, "value", regErr.Param)
}

func TestIntrospectParams_NotAStruct(t *testing.T) {
	t.Parallel()
	_, err := introspectParams("t", reflect.TypeOf(42))
	require.ErrorIs(t, err, ErrUnsupportedType)
}

func TestIntrospectReturn(t *testing.T) {
	t.Parallel()
	require.NoError(t, introspectReturn[string]("t"))
	require.NoError(t, introspectReturn[struct{ X int }]("t"))

	err := introspectReturn[any]("t")
	require.ErrorIs(t, err, ErrMissingTypeAnnotation)

	err = introspectReturn[error]("t")
	require.ErrorIs(t, err, ErrMissingTypeAnnotation)
}
