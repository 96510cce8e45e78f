// Package host defines the contracts between the stream engine and the
// compositing application it is embedded in. The engine only ever queries
// the scene and asks for a write; enumerating entities and rendering frames
// live on the other side of these interfaces.
package host
