package node

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/streamgraph/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

var frameKind = &registry.Kind{
	Name:         "FrameEnd",
	Category:     registry.Writing,
	AcceptsInput: true, AcceptsOutput: true,
	Widget: registry.Widget{Type: registry.WidgetInteger, Min: 0, Max: 9999},
}

func TestNew_InitialValue(t *testing.T) {
	n := New(4, frameKind)
	assert.Equal(t, "FrameEnd_4", n.String())
	assert.True(t, n.Value().RawEquals(cty.NumberIntVal(0)))
	assert.Equal(t, registry.Writing, n.Category())
}

func TestSetValue(t *testing.T) {
	n := New(1, frameKind)

	require.NoError(t, n.SetValue(cty.NumberIntVal(1010)))
	assert.True(t, n.Value().RawEquals(cty.NumberIntVal(1010)))

	err := n.SetValue(cty.StringVal("soon"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FrameEnd_1")
	assert.True(t, n.Value().RawEquals(cty.NumberIntVal(1010)), "failed update must keep the old value")
}
