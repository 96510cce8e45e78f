package hcl_adapter

import (
	"fmt"

	"github.com/vk/streamgraph/internal/config"
	"github.com/vk/streamgraph/internal/nodeid"
	"github.com/zclconf/go-cty/cty"
)

// nodeBlock is a `node "Kind_ID" { ... }` block.
type nodeBlock struct {
	Address  string       `hcl:"address,label"`
	Position []float64    `hcl:"position,optional"`
	Value    cty.Value    `hcl:"value,optional"`
	Streams  int          `hcl:"streams,optional"`
	Links    []*linkBlock `hcl:"link,block"`
}

// linkBlock connects one of the node's streams to a downstream slot.
type linkBlock struct {
	Stream int    `hcl:"stream,optional"`
	Target string `hcl:"target"`
}

// entityBlock is an `entity "Name" { ... }` block.
type entityBlock struct {
	Name       string `hcl:"name,label"`
	Class      string `hcl:"class"`
	HasError   bool   `hcl:"has_error,optional"`
	Dependents int    `hcl:"dependents,optional"`
}

func translateSnapshot(root *snapshotRoot) (*config.Snapshot, error) {
	snap := &config.Snapshot{}
	for _, b := range root.Nodes {
		rec, err := translateNode(b)
		if err != nil {
			return nil, err
		}
		snap.Nodes = append(snap.Nodes, rec)
	}
	return snap, nil
}

func translateNode(b *nodeBlock) (*config.NodeRecord, error) {
	addr, err := nodeid.Parse(b.Address)
	if err != nil {
		return nil, fmt.Errorf("node %q: %w", b.Address, err)
	}
	if addr.HasSlot() {
		return nil, fmt.Errorf("node %q: label must name a node, not a slot", b.Address)
	}

	rec := &config.NodeRecord{
		Kind:        addr.Kind,
		ID:          addr.ID,
		Value:       b.Value,
		StreamCount: b.Streams,
	}
	switch len(b.Position) {
	case 0:
	case 2:
		rec.X, rec.Y = b.Position[0], b.Position[1]
	default:
		return nil, fmt.Errorf("node %q: position must have two coordinates, got %d", b.Address, len(b.Position))
	}

	for _, l := range b.Links {
		target, err := nodeid.Parse(l.Target)
		if err != nil {
			return nil, fmt.Errorf("node %q: link target: %w", b.Address, err)
		}
		if !target.HasSlot() {
			target.Slot = 0
		}
		rec.Links = append(rec.Links, config.LinkRecord{Stream: l.Stream, Target: target})
	}
	return rec, nil
}

func translateEntity(b *entityBlock) *config.Entity {
	return &config.Entity{
		Name:       b.Name,
		Class:      b.Class,
		HasError:   b.HasError,
		Dependents: b.Dependents,
	}
}
