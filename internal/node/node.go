// Package node defines a node placed in a stream graph: an instance of a
// catalog kind with its own widget value and the stream slots it owns.
package node

import (
	"fmt"

	"github.com/vk/streamgraph/internal/nodeid"
	"github.com/vk/streamgraph/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// SlotID indexes a stream slot in the graph's slot arena.
type SlotID int

// NoSlot marks an absent upstream or downstream link.
const NoSlot SlotID = -1

const (
	// MinStreams is the number of streams every node keeps.
	MinStreams = 1
	// MaxStreams is the most streams a node can own.
	MaxStreams = 16
)

// Position is where the editor placed the node. The engine never reads it;
// it is carried so that snapshots round-trip.
type Position struct {
	X, Y float64
}

// Node is a single placed node.
type Node struct {
	// ID is unique within the graph and never reused.
	ID       int
	Kind     *registry.Kind
	Position Position
	// Slots are the node's stream slots, ordered by slot index.
	Slots []SlotID

	value cty.Value
}

// New creates a node of the given kind holding the kind's initial widget value.
// Slots are attached by the graph.
func New(id int, kind *registry.Kind) *Node {
	return &Node{
		ID:    id,
		Kind:  kind,
		value: kind.Widget.Initial(),
	}
}

// Address returns the node's structured identifier.
func (n *Node) Address() nodeid.Address {
	return nodeid.NewNodeAddress(n.Kind.Name, n.ID)
}

// String renders the node as `Kind_ID`.
func (n *Node) String() string {
	return n.Address().String()
}

// Category is shorthand for the kind's category.
func (n *Node) Category() registry.Category {
	return n.Kind.Category
}

// Value returns the current widget value.
func (n *Node) Value() cty.Value {
	return n.value
}

// SetValue replaces the widget value after coercing it to the kind's widget.
func (n *Node) SetValue(v cty.Value) error {
	coerced, err := n.Kind.Widget.Coerce(v)
	if err != nil {
		return fmt.Errorf("node %s: %w", n, err)
	}
	n.value = coerced
	return nil
}

// StreamCount returns the number of slots the node owns.
func (n *Node) StreamCount() int {
	return len(n.Slots)
}
