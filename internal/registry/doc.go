// Package registry is the node catalog: the static set of node kinds a
// stream graph can be built from.
//
// Each Kind is an immutable descriptor carrying its category, its stream
// capabilities, the widget a user edits on it and a pure evaluation
// function. Kinds are contributed by Modules at startup, after which the
// registry is validated once and never mutated. Evaluation never panics and
// never returns an error: a kind that cannot produce valid information
// reports it through EvalResult.Success.
package registry
