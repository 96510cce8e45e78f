// Package hostbridge connects to a live host application over socket.io.
//
// Every scene query and every write is one request: the bridge emits an
// event with an acknowledgement callback and waits for the host to call it,
// bounded by the configured timeout. The socket.io ack id ties each reply to
// its request, so a late reply never answers a newer one. Replies are
// objects of the form
//
//	{"ok": true, "data": <payload>}
//	{"ok": false, "error": "<message>"}
//
// Requests are serialized; the host sees at most one in flight.
package hostbridge
