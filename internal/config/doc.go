// Package config defines the format-agnostic models the engine consumes
// (graph snapshots and host scene descriptions) along with the loader
// interfaces concrete formats implement.
//
// Concrete implementations live in separate packages: hcl_adapter for HCL
// and jsonsnapshot for the editor's JSON save format.
package config
