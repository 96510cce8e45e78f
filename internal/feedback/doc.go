// Package feedback is the user-facing log of a stream run.
//
// Entries are appended in the order traversals produce them and are never
// reordered or removed; diagnostics depend on reading them top to bottom.
// Each entry carries a Severity that selects its color when rendered.
package feedback
