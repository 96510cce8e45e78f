package info

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/streamgraph/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// DefaultPadding is reported by a Padding node left empty.
const DefaultPadding = "####"

// EvaluateVersion formats the version number as v.NNNN.
func EvaluateVersion(_ context.Context, in registry.EvalInput) registry.EvalResult {
	n, err := registry.IntValue(in.Value)
	if err != nil {
		return registry.Failed(registry.VersionField, fmt.Sprintf("Invalid version: %v", err))
	}
	return registry.Succeeded(registry.VersionField, fmt.Sprintf("v.%04d", n))
}

// EvaluatePadding returns the frame padding pattern.
func EvaluatePadding(_ context.Context, in registry.EvalInput) registry.EvalResult {
	padding := registry.StringValue(in.Value)
	if padding == "" {
		return registry.Succeeded(registry.PaddingField, DefaultPadding)
	}
	if strings.Trim(padding, "#") != "" {
		return registry.Failed(registry.PaddingField, fmt.Sprintf("The padding %q may only contain '#' characters", padding))
	}
	return registry.Succeeded(registry.PaddingField, padding)
}

// Register registers the information kinds.
func (m *Module) Register(r *registry.Registry) {
	r.Register(&registry.Kind{
		Name:          "Version",
		NiceName:      "Version",
		Category:      registry.Information,
		AcceptsInput:  true,
		AcceptsOutput: true,
		Widget:        registry.Widget{Type: registry.WidgetInteger, Min: 0, Max: 100},
		Help:          "Adds version information to the output name.",
		Evaluate:      EvaluateVersion,
	})
	r.Register(&registry.Kind{
		Name:          "Padding",
		NiceName:      "Padding",
		Category:      registry.Information,
		AcceptsInput:  true,
		AcceptsOutput: true,
		Widget:        registry.Widget{Type: registry.WidgetText, Default: cty.StringVal(DefaultPadding)},
		Help:          "Output frames padding.",
		Evaluate:      EvaluatePadding,
	})
}
