package graph

import (
	"context"
	"fmt"

	"github.com/vk/streamgraph/internal/config"
	"github.com/vk/streamgraph/internal/ctxlog"
	"github.com/vk/streamgraph/internal/node"
	"github.com/vk/streamgraph/internal/registry"
)

// KindResolver resolves kind names found in a snapshot.
type KindResolver interface {
	Lookup(name string) (*registry.Kind, bool)
}

// FromSnapshot builds a graph from a loaded snapshot. Nodes are restored
// first, then links are applied through Connect so every connection rule
// holds for loaded graphs as well.
func FromSnapshot(ctx context.Context, snap *config.Snapshot, kinds KindResolver) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Graph build started.", "nodes", len(snap.Nodes))

	g := New()
	for _, rec := range snap.Nodes {
		kind, ok := kinds.Lookup(rec.Kind)
		if !ok {
			return nil, fmt.Errorf("node %s_%d: unknown kind '%s'", rec.Kind, rec.ID, rec.Kind)
		}
		n, err := g.RestoreNode(kind, rec.ID)
		if err != nil {
			return nil, err
		}
		n.Position = node.Position{X: rec.X, Y: rec.Y}
		if err := n.SetValue(rec.Value); err != nil {
			return nil, err
		}

		count := max(rec.StreamCount, node.MinStreams)
		for n.StreamCount() < count {
			if _, err := g.AddStream(n.ID); err != nil {
				return nil, err
			}
		}
	}

	for _, rec := range snap.Nodes {
		n, _ := g.Node(rec.ID)
		src := n.Address()
		for _, link := range rec.Links {
			src.Slot = link.Stream
			from, err := g.Lookup(src)
			if err != nil {
				return nil, fmt.Errorf("link %s -> %s: %w", src, link.Target, err)
			}
			target := link.Target
			if k, ok := kinds.Lookup(target.Kind); ok {
				target.Kind = k.Name
			}
			to, err := g.Lookup(target)
			if err != nil {
				return nil, fmt.Errorf("link %s -> %s: %w", src, link.Target, err)
			}
			if err := g.Connect(from, to); err != nil {
				return nil, fmt.Errorf("link %s -> %s: %w", src, link.Target, err)
			}
		}
	}

	logger.Debug("Graph build finished.", "nodes", g.Len())
	return g, nil
}

// Snapshot exports the graph in the format-agnostic snapshot model.
func (g *Graph) Snapshot() *config.Snapshot {
	nodes := g.Nodes()

	g.mu.RLock()
	defer g.mu.RUnlock()

	snap := &config.Snapshot{Nodes: make([]*config.NodeRecord, 0, len(nodes))}
	for _, n := range nodes {
		rec := &config.NodeRecord{
			Kind:        n.Kind.Name,
			ID:          n.ID,
			X:           n.Position.X,
			Y:           n.Position.Y,
			Value:       n.Value(),
			StreamCount: n.StreamCount(),
		}
		for i, sid := range n.Slots {
			s := g.slots[sid]
			if s == nil || s.Downstream == node.NoSlot {
				continue
			}
			rec.Links = append(rec.Links, config.LinkRecord{
				Stream: i,
				Target: g.addressLocked(g.slots[s.Downstream]),
			})
		}
		snap.Nodes = append(snap.Nodes, rec)
	}
	return snap
}
