package graph

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/vk/streamgraph/internal/node"
	"github.com/vk/streamgraph/internal/nodeid"
	"github.com/vk/streamgraph/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

var (
	ErrUnknownNode  = errors.New("unknown node")
	ErrUnknownSlot  = errors.New("unknown slot")
	ErrDuplicateID  = errors.New("duplicate node id")
	ErrSelfLink     = errors.New("cannot link a node to itself")
	ErrSlotBusy     = errors.New("connector already in use")
	ErrNoOutput     = errors.New("node kind does not accept output")
	ErrNoInput      = errors.New("node kind does not accept input")
	ErrStreamLimit  = errors.New("stream count out of range")
	ErrKindMismatch = errors.New("node kind mismatch")
)

// Slot is a single attachment point of a node.
type Slot struct {
	ID node.SlotID
	// Owner is the id of the node owning the slot.
	Owner int
	// Index is the slot's stable position within its owner.
	Index      int
	Upstream   node.SlotID
	Downstream node.SlotID
}

// Graph is a set of nodes and the stream links between their slots.
type Graph struct {
	mu    sync.RWMutex
	ids   *nodeid.Allocator
	nodes map[int]*node.Node
	// slots is the arena; removed slots leave a nil hole so ids stay stable.
	slots []*Slot
}

// New creates an empty graph with its own id allocator.
func New() *Graph {
	return &Graph{
		ids:   nodeid.NewAllocator(),
		nodes: make(map[int]*node.Node),
	}
}

// AddNode places a new node of the given kind with a freshly allocated id
// and a single stream.
func (g *Graph) AddNode(kind *registry.Kind) *node.Node {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := node.New(g.ids.Next(), kind)
	g.nodes[n.ID] = n
	g.addSlotLocked(n)
	return n
}

// RestoreNode places a node under a known id, as when loading a snapshot.
// The allocator is advanced so that later nodes never reuse the id.
func (g *Graph) RestoreNode(kind *registry.Kind, id int) (*node.Node, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if id <= 0 {
		return nil, fmt.Errorf("invalid node id %d", id)
	}
	if existing, ok := g.nodes[id]; ok {
		return nil, fmt.Errorf("%w: %d already used by %s", ErrDuplicateID, id, existing)
	}

	g.ids.Observe(id)
	n := node.New(id, kind)
	g.nodes[id] = n
	g.addSlotLocked(n)
	return n, nil
}

// RemoveNode deletes a node, unlinking every one of its slots first.
func (g *Graph) RemoveNode(id int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	n, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownNode, id)
	}
	for _, sid := range n.Slots {
		g.clearLocked(sid)
		g.slots[sid] = nil
	}
	delete(g.nodes, id)
	return nil
}

// AddStream appends a slot to the node.
func (g *Graph) AddStream(id int) (node.SlotID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	n, ok := g.nodes[id]
	if !ok {
		return node.NoSlot, fmt.Errorf("%w: %d", ErrUnknownNode, id)
	}
	if n.StreamCount() >= node.MaxStreams {
		return node.NoSlot, fmt.Errorf("%w: %s already has %d streams", ErrStreamLimit, n, node.MaxStreams)
	}
	return g.addSlotLocked(n), nil
}

// RemoveStream drops the node's last slot together with its links.
func (g *Graph) RemoveStream(id int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	n, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownNode, id)
	}
	if n.StreamCount() <= node.MinStreams {
		return fmt.Errorf("%w: %s must keep at least %d stream", ErrStreamLimit, n, node.MinStreams)
	}

	last := n.Slots[len(n.Slots)-1]
	g.clearLocked(last)
	g.slots[last] = nil
	n.Slots = n.Slots[:len(n.Slots)-1]
	return nil
}

// Connect links the output of slot from to the input of slot to.
func (g *Graph) Connect(from, to node.SlotID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	src, err := g.slotLocked(from)
	if err != nil {
		return err
	}
	dst, err := g.slotLocked(to)
	if err != nil {
		return err
	}

	srcNode, dstNode := g.nodes[src.Owner], g.nodes[dst.Owner]
	switch {
	case src.Owner == dst.Owner:
		return fmt.Errorf("%w: %s", ErrSelfLink, srcNode)
	case !srcNode.Kind.AcceptsOutput:
		return fmt.Errorf("%w: %s", ErrNoOutput, srcNode)
	case !dstNode.Kind.AcceptsInput:
		return fmt.Errorf("%w: %s", ErrNoInput, dstNode)
	case src.Downstream != node.NoSlot:
		return fmt.Errorf("%w: output of %s", ErrSlotBusy, g.addressLocked(src))
	case dst.Upstream != node.NoSlot:
		return fmt.Errorf("%w: input of %s", ErrSlotBusy, g.addressLocked(dst))
	}

	src.Downstream = dst.ID
	dst.Upstream = src.ID
	return nil
}

// Disconnect removes the downstream link of slot from, if any.
func (g *Graph) Disconnect(from node.SlotID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	src, err := g.slotLocked(from)
	if err != nil {
		return err
	}
	if src.Downstream == node.NoSlot {
		return nil
	}
	if dst := g.slots[src.Downstream]; dst != nil {
		dst.Upstream = node.NoSlot
	}
	src.Downstream = node.NoSlot
	return nil
}

// SetWidgetValue updates a node's widget value.
func (g *Graph) SetWidgetValue(id int, v cty.Value) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	n, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownNode, id)
	}
	return n.SetValue(v)
}

// Node returns the node with the given id.
func (g *Graph) Node(id int) (*node.Node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes ordered by id.
func (g *Graph) Nodes() []*node.Node {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]*node.Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Slot returns a copy of the slot record.
func (g *Graph) Slot(id node.SlotID) (Slot, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	s, err := g.slotLocked(id)
	if err != nil {
		return Slot{}, false
	}
	return *s, true
}

// Owner returns the node owning the slot.
func (g *Graph) Owner(id node.SlotID) (*node.Node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	s, err := g.slotLocked(id)
	if err != nil {
		return nil, false
	}
	return g.nodes[s.Owner], true
}

// Address renders the slot as Kind_ID[index].
func (g *Graph) Address(id node.SlotID) (nodeid.Address, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	s, err := g.slotLocked(id)
	if err != nil {
		return nodeid.Address{}, false
	}
	return g.addressLocked(s), true
}

// Lookup resolves a slot address to its id. The kind in the address must
// match the node's kind.
func (g *Graph) Lookup(addr nodeid.Address) (node.SlotID, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	n, ok := g.nodes[addr.ID]
	if !ok {
		return node.NoSlot, fmt.Errorf("%w: %s", ErrUnknownNode, addr)
	}
	if n.Kind.Name != addr.Kind {
		return node.NoSlot, fmt.Errorf("%w: %s is a %s", ErrKindMismatch, addr, n.Kind.Name)
	}
	if !addr.HasSlot() || addr.Slot < 0 || addr.Slot >= len(n.Slots) {
		return node.NoSlot, fmt.Errorf("%w: %s", ErrUnknownSlot, addr)
	}
	return n.Slots[addr.Slot], nil
}

// StartSlots returns every slot of every stream-origin node, ordered by
// node id and then slot index.
func (g *Graph) StartSlots() []node.SlotID {
	var out []node.SlotID
	for _, n := range g.Nodes() {
		if n.Kind.IsStart() {
			out = append(out, n.Slots...)
		}
	}
	return out
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

func (g *Graph) addSlotLocked(n *node.Node) node.SlotID {
	s := &Slot{
		ID:         node.SlotID(len(g.slots)),
		Owner:      n.ID,
		Index:      len(n.Slots),
		Upstream:   node.NoSlot,
		Downstream: node.NoSlot,
	}
	g.slots = append(g.slots, s)
	n.Slots = append(n.Slots, s.ID)
	return s.ID
}

func (g *Graph) slotLocked(id node.SlotID) (*Slot, error) {
	if id < 0 || int(id) >= len(g.slots) || g.slots[id] == nil {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSlot, id)
	}
	return g.slots[id], nil
}

func (g *Graph) addressLocked(s *Slot) nodeid.Address {
	return nodeid.NewSlotAddress(g.nodes[s.Owner].Kind.Name, s.Owner, s.Index)
}

// clearLocked unlinks both sides of a slot.
func (g *Graph) clearLocked(id node.SlotID) {
	s := g.slots[id]
	if s == nil {
		return
	}
	if s.Upstream != node.NoSlot {
		if up := g.slots[s.Upstream]; up != nil {
			up.Downstream = node.NoSlot
		}
		s.Upstream = node.NoSlot
	}
	if s.Downstream != node.NoSlot {
		if down := g.slots[s.Downstream]; down != nil {
			down.Upstream = node.NoSlot
		}
		s.Downstream = node.NoSlot
	}
}
