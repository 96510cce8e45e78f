package streamcontrol

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/streamgraph/internal/ctxlog"
	"github.com/vk/streamgraph/internal/registry"
)

func TestRegister(t *testing.T) {
	r := registry.NewWithModules(&Module{})
	require.NoError(t, r.Validate(ctxlog.Discard(context.Background())))

	start, ok := r.Lookup("Start")
	require.True(t, ok)
	assert.True(t, start.IsStart())
	assert.Nil(t, start.Evaluate)

	empty, ok := r.Lookup("Empty")
	require.True(t, ok)
	assert.False(t, empty.IsStart())
	assert.Equal(t,
		registry.Succeeded(registry.NoInfo, "Empty nodes do not return any result!"),
		empty.Evaluate(context.Background(), registry.EvalInput{}))
}
