package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/streamgraph/internal/node"
	"github.com/vk/streamgraph/internal/nodeid"
	"github.com/vk/streamgraph/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

var (
	startKind = &registry.Kind{Name: "Start", Category: registry.StreamControl, AcceptsOutput: true}
	flipKind  = &registry.Kind{Name: "Flip", Category: registry.Manipulation, AcceptsInput: true, AcceptsOutput: true}
	sinkKind  = &registry.Kind{Name: "Sink", Category: registry.StreamControl, AcceptsInput: true}
	textKind  = &registry.Kind{Name: "Comment", Category: registry.Writing, AcceptsInput: true, AcceptsOutput: true,
		Widget: registry.Widget{Type: registry.WidgetText}}
)

func TestAddNode_IDsNeverReused(t *testing.T) {
	g := New()
	a := g.AddNode(startKind)
	b := g.AddNode(flipKind)
	require.NoError(t, g.RemoveNode(b.ID))
	c := g.AddNode(flipKind)

	assert.Equal(t, 1, a.ID)
	assert.Equal(t, 3, c.ID)
	assert.Equal(t, 2, g.Len())
	assert.Len(t, a.Slots, 1)
}

func TestRestoreNode(t *testing.T) {
	g := New()
	_, err := g.RestoreNode(flipKind, 7)
	require.NoError(t, err)

	_, err = g.RestoreNode(flipKind, 7)
	assert.ErrorIs(t, err, ErrDuplicateID)

	_, err = g.RestoreNode(flipKind, 0)
	assert.Error(t, err)

	assert.Equal(t, 8, g.AddNode(flipKind).ID, "allocator must skip restored ids")
}

func TestConnect_Rules(t *testing.T) {
	g := New()
	start := g.AddNode(startKind)
	flip := g.AddNode(flipKind)
	other := g.AddNode(flipKind)
	sink := g.AddNode(sinkKind)
	second, err := g.AddStream(flip.ID)
	require.NoError(t, err)

	testCases := []struct {
		name     string
		from, to node.SlotID
		wantErr  error
	}{
		{name: "self link", from: flip.Slots[0], to: second, wantErr: ErrSelfLink},
		{name: "sink has no output", from: sink.Slots[0], to: flip.Slots[0], wantErr: ErrNoOutput},
		{name: "start has no input", from: flip.Slots[0], to: start.Slots[0], wantErr: ErrNoInput},
		{name: "unknown slot", from: 99, to: flip.Slots[0], wantErr: ErrUnknownSlot},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, g.Connect(tc.from, tc.to), tc.wantErr)
		})
	}

	require.NoError(t, g.Connect(start.Slots[0], flip.Slots[0]))
	assert.ErrorIs(t, g.Connect(start.Slots[0], other.Slots[0]), ErrSlotBusy, "output already used")
	assert.ErrorIs(t, g.Connect(other.Slots[0], flip.Slots[0]), ErrSlotBusy, "input already used")

	s, ok := g.Slot(start.Slots[0])
	require.True(t, ok)
	assert.Equal(t, flip.Slots[0], s.Downstream)
	f, _ := g.Slot(flip.Slots[0])
	assert.Equal(t, start.Slots[0], f.Upstream)
	assert.NoError(t, g.CheckIntegrity())
}

func TestDisconnect(t *testing.T) {
	g := New()
	start := g.AddNode(startKind)
	flip := g.AddNode(flipKind)
	require.NoError(t, g.Connect(start.Slots[0], flip.Slots[0]))

	require.NoError(t, g.Disconnect(start.Slots[0]))
	require.NoError(t, g.Disconnect(start.Slots[0]), "disconnecting a free slot is a no-op")

	s, _ := g.Slot(start.Slots[0])
	f, _ := g.Slot(flip.Slots[0])
	assert.Equal(t, node.NoSlot, s.Downstream)
	assert.Equal(t, node.NoSlot, f.Upstream)
}

func TestStreams_Limits(t *testing.T) {
	g := New()
	n := g.AddNode(flipKind)

	assert.ErrorIs(t, g.RemoveStream(n.ID), ErrStreamLimit)
	for n.StreamCount() < node.MaxStreams {
		_, err := g.AddStream(n.ID)
		require.NoError(t, err)
	}
	_, err := g.AddStream(n.ID)
	assert.ErrorIs(t, err, ErrStreamLimit)
	_, err = g.AddStream(42)
	assert.ErrorIs(t, err, ErrUnknownNode)
}

func TestRemoveStream_ClearsLinks(t *testing.T) {
	g := New()
	start := g.AddNode(startKind)
	flip := g.AddNode(flipKind)
	last, err := g.AddStream(start.ID)
	require.NoError(t, err)
	require.NoError(t, g.Connect(last, flip.Slots[0]))

	require.NoError(t, g.RemoveStream(start.ID))

	f, _ := g.Slot(flip.Slots[0])
	assert.Equal(t, node.NoSlot, f.Upstream)
	_, ok := g.Slot(last)
	assert.False(t, ok)
	assert.NoError(t, g.CheckIntegrity())
}

func TestRemoveNode_ClearsNeighbours(t *testing.T) {
	g := New()
	start := g.AddNode(startKind)
	flip := g.AddNode(flipKind)
	sink := g.AddNode(sinkKind)
	require.NoError(t, g.Connect(start.Slots[0], flip.Slots[0]))
	require.NoError(t, g.Connect(flip.Slots[0], sink.Slots[0]))

	require.NoError(t, g.RemoveNode(flip.ID))
	assert.ErrorIs(t, g.RemoveNode(flip.ID), ErrUnknownNode)

	s, _ := g.Slot(start.Slots[0])
	k, _ := g.Slot(sink.Slots[0])
	assert.Equal(t, node.NoSlot, s.Downstream)
	assert.Equal(t, node.NoSlot, k.Upstream)
	assert.NoError(t, g.CheckIntegrity())
}

func TestLookup(t *testing.T) {
	g := New()
	flip := g.AddNode(flipKind)
	second, _ := g.AddStream(flip.ID)

	sid, err := g.Lookup(nodeid.NewSlotAddress("Flip", flip.ID, 1))
	require.NoError(t, err)
	assert.Equal(t, second, sid)

	_, err = g.Lookup(nodeid.NewSlotAddress("Start", flip.ID, 0))
	assert.ErrorIs(t, err, ErrKindMismatch)
	_, err = g.Lookup(nodeid.NewSlotAddress("Flip", flip.ID, 2))
	assert.ErrorIs(t, err, ErrUnknownSlot)
	_, err = g.Lookup(nodeid.NewNodeAddress("Flip", flip.ID))
	assert.ErrorIs(t, err, ErrUnknownSlot)
	_, err = g.Lookup(nodeid.NewSlotAddress("Flip", 9, 0))
	assert.ErrorIs(t, err, ErrUnknownNode)

	addr, ok := g.Address(second)
	require.True(t, ok)
	assert.Equal(t, "Flip_1[1]", addr.String())
}

func TestStartSlots_Ordered(t *testing.T) {
	g := New()
	_, err := g.RestoreNode(startKind, 5)
	require.NoError(t, err)
	_, err = g.RestoreNode(flipKind, 3)
	require.NoError(t, err)
	first, err := g.RestoreNode(startKind, 2)
	require.NoError(t, err)
	extra, err := g.AddStream(first.ID)
	require.NoError(t, err)

	var got []string
	for _, sid := range g.StartSlots() {
		addr, _ := g.Address(sid)
		got = append(got, addr.String())
	}
	assert.Equal(t, []string{"Start_2[0]", "Start_2[1]", "Start_5[0]"}, got)
	assert.Equal(t, first.Slots[1], extra)
}

func TestSetWidgetValue(t *testing.T) {
	g := New()
	n := g.AddNode(textKind)

	require.NoError(t, g.SetWidgetValue(n.ID, cty.StringVal("final")))
	assert.Equal(t, "final", n.Value().AsString())
	assert.ErrorIs(t, g.SetWidgetValue(99, cty.StringVal("x")), ErrUnknownNode)
}

func TestCheckIntegrity_DetectsAsymmetry(t *testing.T) {
	g := New()
	start := g.AddNode(startKind)
	flip := g.AddNode(flipKind)
	require.NoError(t, g.Connect(start.Slots[0], flip.Slots[0]))

	// Corrupt the arena directly.
	g.slots[flip.Slots[0]].Upstream = node.NoSlot

	err := g.CheckIntegrity()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not symmetric")
}
