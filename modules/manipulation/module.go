package manipulation

import (
	"context"

	"github.com/vk/streamgraph/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Kind names double as the manipulation names passed to the host.
const (
	Desaturation = "Desaturation"
	Flip         = "Flip"
)

func announce(message string) registry.EvalFunc {
	return func(context.Context, registry.EvalInput) registry.EvalResult {
		return registry.Succeeded(registry.NoInfo, message)
	}
}

// Register registers the manipulation kinds.
func (m *Module) Register(r *registry.Registry) {
	r.Register(&registry.Kind{
		Name:          Desaturation,
		NiceName:      "Desaturation",
		Category:      registry.Manipulation,
		AcceptsInput:  true,
		AcceptsOutput: true,
		Help:          "Desaturates the output image, leaving it in shades of gray.",
		Evaluate:      announce("The output result for this stream will be desaturated"),
	})
	r.Register(&registry.Kind{
		Name:          Flip,
		NiceName:      "Flip",
		Category:      registry.Manipulation,
		AcceptsInput:  true,
		AcceptsOutput: true,
		Help:          "Flips the image horizontally.",
		Evaluate:      announce("The output result for this stream will be flipped"),
	})
}
