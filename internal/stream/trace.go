package stream

import (
	"fmt"
	"strings"

	"github.com/vk/streamgraph/internal/graph"
	"github.com/vk/streamgraph/internal/node"
	"github.com/vk/streamgraph/internal/nodeid"
)

// Trace is the chain of slots a traversal from Start would visit.
type Trace struct {
	Start nodeid.Address
	// Chain lists the slots after Start in link order.
	Chain []nodeid.Address
	// Cycle is set when the chain links back to a visited slot. LoopsTo
	// names that slot.
	Cycle   bool
	LoopsTo nodeid.Address
}

// String renders the trace as an arrow chain.
func (t *Trace) String() string {
	var b strings.Builder
	b.WriteString(t.Start.String())
	for _, a := range t.Chain {
		b.WriteString(" -> ")
		b.WriteString(a.String())
	}
	if t.Cycle {
		fmt.Fprintf(&b, " -> %s (cycle)", t.LoopsTo)
	}
	return b.String()
}

// TraceFrom follows downstream links from start without evaluating anything.
func TraceFrom(g Topology, start node.SlotID) (*Trace, error) {
	addr, ok := g.Address(start)
	if !ok {
		return nil, fmt.Errorf("cannot trace stream: %w: %d", graph.ErrUnknownSlot, start)
	}

	t := &Trace{Start: addr}
	seen := map[node.SlotID]struct{}{start: {}}
	slot, _ := g.Slot(start)
	for next := slot.Downstream; next != node.NoSlot; next = slot.Downstream {
		a, _ := g.Address(next)
		if _, dup := seen[next]; dup {
			t.Cycle, t.LoopsTo = true, a
			break
		}
		seen[next] = struct{}{}
		t.Chain = append(t.Chain, a)
		if slot, ok = g.Slot(next); !ok {
			break
		}
	}
	return t, nil
}

// TraceAll traces every start slot of g, including unconnected ones.
func TraceAll(g Topology) ([]*Trace, error) {
	var out []*Trace
	for _, sid := range g.StartSlots() {
		t, err := TraceFrom(g, sid)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
