package info

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/streamgraph/internal/ctxlog"
	"github.com/vk/streamgraph/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

func TestRegister_Valid(t *testing.T) {
	r := registry.NewWithModules(&Module{})
	require.NoError(t, r.Validate(ctxlog.Discard(context.Background())))

	padding, ok := r.Lookup("Padding")
	require.True(t, ok)
	assert.Equal(t, "####", padding.Widget.Initial().AsString())
}

func TestEvaluateVersion(t *testing.T) {
	testCases := []struct {
		in   cty.Value
		want string
	}{
		{in: cty.NumberIntVal(0), want: "v.0000"},
		{in: cty.NumberIntVal(3), want: "v.0003"},
		{in: cty.NumberIntVal(100), want: "v.0100"},
		{in: cty.NullVal(cty.Number), want: "v.0000"},
	}
	for _, tc := range testCases {
		t.Run(tc.want, func(t *testing.T) {
			res := EvaluateVersion(context.Background(), registry.EvalInput{Value: tc.in})
			assert.Equal(t, registry.Succeeded(registry.VersionField, tc.want), res)
		})
	}
}

func TestEvaluatePadding(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want registry.EvalResult
	}{
		{name: "custom", in: "###", want: registry.Succeeded(registry.PaddingField, "###")},
		{name: "empty falls back", in: "", want: registry.Succeeded(registry.PaddingField, "####")},
		{name: "invalid", in: "#%d", want: registry.Failed(registry.PaddingField, `The padding "#%d" may only contain '#' characters`)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res := EvaluatePadding(context.Background(), registry.EvalInput{Value: cty.StringVal(tc.in)})
			assert.Equal(t, tc.want, res)
		})
	}
}
