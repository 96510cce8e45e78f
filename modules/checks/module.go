package checks

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/vk/streamgraph/internal/host"
	"github.com/vk/streamgraph/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// verdict turns a list of offending entities into a check result.
func verdict(found []string, err error, failMsg, okMsg string) registry.EvalResult {
	if err != nil {
		return registry.Failed(registry.NoInfo, fmt.Sprintf("The check could not query the scene: %v", err))
	}
	if len(found) > 0 {
		return registry.Failed(registry.NoInfo, failMsg+strings.Join(found, ", "))
	}
	return registry.Succeeded(registry.NoInfo, okMsg)
}

// EvaluateErrors fails when any scene entity reports an error.
func EvaluateErrors(ctx context.Context, in registry.EvalInput) registry.EvalResult {
	found, err := in.Scene.EntitiesWithErrors(ctx)
	return verdict(found, err,
		"The following nodes contain some kind of error: ",
		"No nodes with errors have been found")
}

// EvaluateRegexNaming fails when any entity name matches the pattern from
// its first character.
func EvaluateRegexNaming(ctx context.Context, in registry.EvalInput) registry.EvalResult {
	pattern := registry.StringValue(in.Value)
	if pattern == "" {
		return registry.Failed(registry.NoInfo, "No Regular Expression was provided")
	}
	if _, err := regexp.Compile(pattern); err != nil {
		return registry.Failed(registry.NoInfo, fmt.Sprintf("The Regular Expression %q is not valid: %v", pattern, err))
	}
	found, err := in.Scene.EntitiesMatching(ctx, pattern)
	return verdict(found, err,
		"The following nodes matched the provided Regular Expression: ",
		"All nodes are properly named")
}

// EvaluateDisconnectedReads fails when a Read entity feeds nothing.
func EvaluateDisconnectedReads(ctx context.Context, in registry.EvalInput) registry.EvalResult {
	found, err := in.Scene.DisconnectedInputs(ctx, host.ReadClass)
	return verdict(found, err,
		"The following Read nodes were not connected to anything: ",
		"All Read nodes have output")
}

// EvaluateClassFilter fails when any entity belongs to the given class.
func EvaluateClassFilter(ctx context.Context, in registry.EvalInput) registry.EvalResult {
	found, err := in.Scene.EntitiesOfClass(ctx, registry.StringValue(in.Value))
	return verdict(found, err,
		"The following nodes belong to the specified class: ",
		"No nodes match the specified class")
}

// Register registers the check kinds.
func (m *Module) Register(r *registry.Registry) {
	check := func(k *registry.Kind) *registry.Kind {
		k.Category = registry.Check
		k.AcceptsInput, k.AcceptsOutput = true, true
		return k
	}

	r.Register(check(&registry.Kind{
		Name:     "Errors",
		NiceName: "Errors",
		Help:     "Checks for errors reported by any node of the scene.",
		Evaluate: EvaluateErrors,
	}))
	r.Register(check(&registry.Kind{
		Name:     "RegexNaming",
		NiceName: "Regex naming",
		Widget:   registry.Widget{Type: registry.WidgetText, Placeholder: "Enter RegEx here"},
		Help:     "Checks that no node has a name matching the Regular Expression provided as input.",
		Evaluate: EvaluateRegexNaming,
	}))
	r.Register(check(&registry.Kind{
		Name:     "DisconnectedReads",
		NiceName: "Disconnected Reads",
		Help:     "Checks that every Read node in the scene has its output connected to another node.",
		Evaluate: EvaluateDisconnectedReads,
	}))
	r.Register(check(&registry.Kind{
		Name:     "ClassFilter",
		NiceName: "Class filter",
		Widget:   registry.Widget{Type: registry.WidgetText, Placeholder: "Enter class to filter"},
		Help:     "Checks that no node belongs to the class provided as input (i.e. NoOp).",
		Evaluate: EvaluateClassFilter,
	}))
}
