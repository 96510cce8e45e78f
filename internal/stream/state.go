package stream

import "fmt"

// State is the position of a traversal in its lifecycle.
type State int

const (
	Idle State = iota
	Traversing
	Finalizing
	// Dispatched means both gates passed and the host accepted the write.
	Dispatched
	// Skipped means a gate failed; nothing was sent to the host.
	Skipped
	// Failed means both gates passed but the host reported an error.
	Failed
	// Aborted means the walk revisited a slot.
	Aborted
)

var stateNames = [...]string{"idle", "traversing", "finalizing", "dispatched", "skipped", "failed", "aborted"}

func (s State) String() string {
	if int(s) >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Terminal reports whether no further transition can happen.
func (s State) Terminal() bool {
	return s >= Dispatched
}
