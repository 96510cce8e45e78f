package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/streamgraph/internal/graph"
	"github.com/vk/streamgraph/internal/node"
	"github.com/vk/streamgraph/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// Step is one node of a chain: a kind name and its widget value.
// Value may be cty.NilVal for kinds without a widget.
type Step struct {
	Kind  string
	Value cty.Value
}

// S is shorthand for a Step with a string widget value.
func S(kind, value string) Step {
	return Step{Kind: kind, Value: cty.StringVal(value)}
}

// N is shorthand for a Step with an integer widget value.
func N(kind string, value int) Step {
	return Step{Kind: kind, Value: cty.NumberIntVal(int64(value))}
}

// K is shorthand for a Step of a kind without a widget.
func K(kind string) Step {
	return Step{Kind: kind}
}

// BuildChain places a Start node followed by steps, linking slot 0 of each
// node to slot 0 of the next. It returns the Start slot.
func BuildChain(t *testing.T, g *graph.Graph, reg *registry.Registry, steps ...Step) node.SlotID {
	t.Helper()

	startKind, ok := reg.Lookup("Start")
	require.True(t, ok, "registry has no Start kind")
	start := g.AddNode(startKind)

	prev := start.Slots[0]
	for _, s := range steps {
		kind, ok := reg.Lookup(s.Kind)
		require.True(t, ok, "unknown kind %s", s.Kind)

		n := g.AddNode(kind)
		require.NoError(t, g.SetWidgetValue(n.ID, s.Value))
		require.NoError(t, g.Connect(prev, n.Slots[0]))
		prev = n.Slots[0]
	}
	return start.Slots[0]
}
