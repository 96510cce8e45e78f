package streamcontrol

import (
	"context"

	"github.com/vk/streamgraph/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// EvaluateEmpty is the handler for the 'Empty' kind.
func EvaluateEmpty(_ context.Context, _ registry.EvalInput) registry.EvalResult {
	return registry.Succeeded(registry.NoInfo, "Empty nodes do not return any result!")
}

// Register registers the stream control kinds.
func (m *Module) Register(r *registry.Registry) {
	r.Register(&registry.Kind{
		Name:          "Start",
		NiceName:      "Start",
		Category:      registry.StreamControl,
		AcceptsOutput: true,
		Help: "Starts the execution of every stream. Only the streams that begin at a Start node " +
			"will be executed or traced.",
	})
	r.Register(&registry.Kind{
		Name:          "Empty",
		NiceName:      "Empty",
		Category:      registry.StreamControl,
		AcceptsInput:  true,
		AcceptsOutput: true,
		Help:          "Empty node for testing purposes.",
		Evaluate:      EvaluateEmpty,
	})
}
