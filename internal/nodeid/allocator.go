// internal/nodeid/allocator.go
package nodeid

// Allocator hands out node ids for a single graph session. Ids start at 1,
// increase monotonically and are never reused, even after a node is removed.
// An Allocator is not safe for concurrent use; the owning graph serializes
// access to it.
type Allocator struct {
	last int
}

// NewAllocator creates an allocator whose first id will be 1.
func NewAllocator() *Allocator {
	return &Allocator{}
}

// Next returns a fresh id.
func (a *Allocator) Next() int {
	a.last++
	return a.last
}

// Observe records an id that was assigned externally (e.g. restored from a
// snapshot) so that later calls to Next never hand it out again.
func (a *Allocator) Observe(id int) {
	if id > a.last {
		a.last = id
	}
}

// Last returns the highest id handed out or observed so far.
func (a *Allocator) Last() int {
	return a.last
}
