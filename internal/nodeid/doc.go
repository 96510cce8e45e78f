// internal/nodeid/doc.go

/*
Package nodeid provides the identifiers used by the stream graph: a per-graph
allocator for node ids and a structured address naming either a node or one
of its stream slots.

The canonical textual form mirrors what the editor shows and saves:
`Kind_ID` for a node and `Kind_ID[index]` for a slot, e.g. `Origin_3[0]`.
*/
package nodeid
