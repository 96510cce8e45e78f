package config

import (
	"github.com/vk/streamgraph/internal/nodeid"
	"github.com/zclconf/go-cty/cty"
)

// Snapshot is a saved stream graph.
type Snapshot struct {
	Nodes []*NodeRecord
}

// NodeRecord is one saved node.
type NodeRecord struct {
	Kind string
	ID   int
	X, Y float64
	// Value is the widget value; cty.NilVal or null for kinds without a widget.
	Value       cty.Value
	StreamCount int
	Links       []LinkRecord
}

// LinkRecord connects one of the node's streams to a slot on another node.
type LinkRecord struct {
	Stream int
	// Target addresses the downstream slot as Kind_ID[slot].
	Target nodeid.Address
}

// Scene describes host entities for offline runs.
type Scene struct {
	Entities []*Entity
}

// Entity is one host scene entity.
type Entity struct {
	Name     string
	Class    string
	HasError bool
	// Dependents counts the entities consuming this one's output.
	Dependents int
}
