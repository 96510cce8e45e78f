package graph

import (
	"errors"
	"fmt"

	"github.com/vk/streamgraph/internal/node"
)

// CheckIntegrity verifies the structural invariants of the slot arena:
// symmetric links, no self links, and slots agreeing with their owners.
func (g *Graph) CheckIntegrity() error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var errs []error
	for _, s := range g.slots {
		if s == nil {
			continue
		}
		owner, ok := g.nodes[s.Owner]
		if !ok {
			errs = append(errs, fmt.Errorf("slot %d: owner %d missing", s.ID, s.Owner))
			continue
		}
		if s.Index >= len(owner.Slots) || owner.Slots[s.Index] != s.ID {
			errs = append(errs, fmt.Errorf("slot %s: not listed by its owner at index %d", g.addressLocked(s), s.Index))
		}
		if s.Downstream != node.NoSlot {
			errs = append(errs, g.checkPeerLocked(s, s.Downstream, true)...)
		}
		if s.Upstream != node.NoSlot {
			errs = append(errs, g.checkPeerLocked(s, s.Upstream, false)...)
		}
	}
	return errors.Join(errs...)
}

func (g *Graph) checkPeerLocked(s *Slot, peerID node.SlotID, downstream bool) []error {
	peer, err := g.slotLocked(peerID)
	if err != nil {
		return []error{fmt.Errorf("slot %s: dangling link: %w", g.addressLocked(s), err)}
	}

	var errs []error
	if peer.Owner == s.Owner {
		errs = append(errs, fmt.Errorf("slot %s: %w", g.addressLocked(s), ErrSelfLink))
	}
	back := peer.Upstream
	if !downstream {
		back = peer.Downstream
	}
	if back != s.ID {
		errs = append(errs, fmt.Errorf("slot %s: link to %s is not symmetric", g.addressLocked(s), g.addressLocked(peer)))
	}
	return errs
}
