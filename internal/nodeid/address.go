// internal/nodeid/address.go
package nodeid

import (
	"strconv"
	"strings"
)

// String serializes the Address into its canonical representation.
func (a Address) String() string {
	var sb strings.Builder
	sb.WriteString(a.Kind)
	sb.WriteRune('_')
	sb.WriteString(strconv.Itoa(a.ID))
	if a.HasSlot() {
		sb.WriteRune('[')
		sb.WriteString(strconv.Itoa(a.Slot))
		sb.WriteRune(']')
	}
	return sb.String()
}

// Equal reports whether both addresses name the same node or slot.
func (a Address) Equal(other Address) bool {
	return a == other
}
