// Package graph holds the structure a stream traversal walks: placed nodes
// and the single-slot links ("streams") between them.
//
// # Arena of slots
//
// Every stream slot lives in an arena owned by the Graph and is addressed by
// a node.SlotID. A slot stores its upstream and downstream neighbours as
// optional slot ids rather than pointers, so the graph never holds dangling
// references and the symmetry invariant can be checked by construction:
//
//	slot(a).Downstream == b  <=>  slot(b).Upstream == a
//
// Each slot has at most one upstream and one downstream neighbour, which
// makes a stream a doubly-linked list of slots rather than a tree.
//
// # Connection rules
//
// Connect enforces what the editor enforces when a user drags a link:
//   - source and target must belong to different nodes
//   - the source node's kind must accept output, the target's must accept input
//   - both connectors must be free
//
// Cycles are not rejected here. A traversal detects them instead.
//
// # Thread-Safety
//
// All Graph methods are safe for concurrent use. Traversals themselves are
// run strictly one at a time by the stream executor.
package graph
