// internal/nodeid/parser.go
package nodeid

import (
	"fmt"
	"regexp"
	"strconv"
)

// addressRegex matches `Kind_ID` with an optional `[slot]` suffix.
var addressRegex = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9]*)_(\d+)(?:\[(\d+)\])?$`)

// Parse creates an Address from its canonical string representation.
func Parse(raw string) (Address, error) {
	if raw == "" {
		return Address{}, fmt.Errorf("identifier cannot be empty")
	}

	matches := addressRegex.FindStringSubmatch(raw)
	if matches == nil {
		return Address{}, fmt.Errorf("invalid identifier format: %q", raw)
	}

	id, err := strconv.Atoi(matches[2])
	if err != nil {
		return Address{}, fmt.Errorf("invalid node id in %q: %w", raw, err)
	}
	if id <= 0 {
		return Address{}, fmt.Errorf("node id must be positive in %q", raw)
	}

	addr := NewNodeAddress(matches[1], id)
	if matches[3] != "" {
		slot, err := strconv.Atoi(matches[3])
		if err != nil {
			return Address{}, fmt.Errorf("invalid slot index in %q: %w", raw, err)
		}
		addr.Slot = slot
	}
	return addr, nil
}
