// internal/nodeid/types.go
package nodeid

// NoSlot marks an Address that names a whole node rather than one of its slots.
const NoSlot = -1

// Address is the structured representation of a node or slot identifier.
type Address struct {
	Kind string
	ID   int
	Slot int // NoSlot when the address names the node itself.
}

// NewNodeAddress creates an address naming a node.
func NewNodeAddress(kind string, id int) Address {
	return Address{Kind: kind, ID: id, Slot: NoSlot}
}

// NewSlotAddress creates an address naming a stream slot of a node.
func NewSlotAddress(kind string, id, slot int) Address {
	return Address{Kind: kind, ID: id, Slot: slot}
}

// HasSlot returns true if the address points at a specific slot.
func (a Address) HasSlot() bool {
	return a.Slot != NoSlot
}

// Node strips the slot index, returning the owning node's address.
func (a Address) Node() Address {
	return NewNodeAddress(a.Kind, a.ID)
}
