// Package stream walks a stream from its Start slot to its last link,
// evaluating each node, accumulating a WriteConfig and deciding whether the
// host should write the result.
//
// # Lifecycle
//
// A traversal moves through these states:
//
//	Idle -> Traversing -> Finalizing -> Dispatched
//	                                 -> Skipped
//	                                 -> Failed
//	        Traversing -> Aborted
//
// Evaluation failures never stop the walk. Every node in the chain is
// evaluated so the feedback log shows the full picture of a broken stream.
// Finalizing applies two gates: every check passed, and every required
// writing field was collected. Only when both hold is the write dispatched.
//
// A link chain that returns to an already visited slot aborts the
// traversal with ErrCycle before anything is dispatched.
//
// # Concurrency
//
// An Executor runs one traversal at a time. RunAll processes start slots
// strictly in sequence.
package stream
