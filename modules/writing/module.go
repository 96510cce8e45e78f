package writing

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/vk/streamgraph/internal/host"
	"github.com/vk/streamgraph/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Extensions are the image formats a stream can be written as.
var Extensions = []string{".exr", ".png", ".jpeg", ".tiff"}

var commentRegex = regexp.MustCompile(`^[a-z]+[a-z0-9_]*$`)

// EvaluateOrigin returns the entity picked from the scene list.
func EvaluateOrigin(_ context.Context, in registry.EvalInput) registry.EvalResult {
	return registry.Succeeded(registry.OriginField, registry.StringValue(in.Value))
}

// EvaluateOriginFromName resolves a typed entity name against the scene.
func EvaluateOriginFromName(ctx context.Context, in registry.EvalInput) registry.EvalResult {
	name := registry.StringValue(in.Value)
	exists, err := in.Scene.EntityExists(ctx, name)
	if err != nil {
		return registry.Failed(registry.OriginField, fmt.Sprintf("Could not look up the node %s: %v", name, err))
	}
	if !exists {
		return registry.Failed(registry.OriginField, fmt.Sprintf("The node of name %s does not exist", name))
	}
	return registry.Succeeded(registry.OriginField, name)
}

// EvaluateFilePath validates the output directory. Existence is only
// verified when the host can probe paths.
func EvaluateFilePath(ctx context.Context, in registry.EvalInput) registry.EvalResult {
	path := registry.StringValue(in.Value)
	if path == "" {
		return registry.Failed(registry.FilePathField, "No filepath was provided")
	}
	if prober, ok := in.Scene.(host.PathProber); ok {
		exists, err := prober.PathExists(ctx, path)
		if err != nil {
			return registry.Failed(registry.FilePathField, fmt.Sprintf("The filepath could not be checked: %v", err))
		}
		if !exists {
			return registry.Failed(registry.FilePathField, "The filepath does not exist")
		}
	}
	return registry.Succeeded(registry.FilePathField, path)
}

// EvaluateComment validates the output comment.
func EvaluateComment(_ context.Context, in registry.EvalInput) registry.EvalResult {
	comment := registry.StringValue(in.Value)
	if comment == "" {
		return registry.Failed(registry.CommentField, "No comment was provided")
	}
	if !commentRegex.MatchString(comment) {
		return registry.Failed(registry.CommentField,
			fmt.Sprintf("The comment %q must be lowercase letters, digits and underscores, starting with a letter", comment))
	}
	return registry.Succeeded(registry.CommentField, comment)
}

func frame(field registry.Field) registry.EvalFunc {
	return func(_ context.Context, in registry.EvalInput) registry.EvalResult {
		n, err := registry.IntValue(in.Value)
		if err != nil {
			return registry.Failed(field, fmt.Sprintf("Invalid frame: %v", err))
		}
		return registry.Succeeded(field, strconv.Itoa(n))
	}
}

// EvaluateExtension returns the selected image extension.
func EvaluateExtension(_ context.Context, in registry.EvalInput) registry.EvalResult {
	return registry.Succeeded(registry.ExtensionField, registry.StringValue(in.Value))
}

// Register registers the writing kinds.
func (m *Module) Register(r *registry.Registry) {
	writingKind := func(k *registry.Kind) *registry.Kind {
		k.Category = registry.Writing
		k.AcceptsInput, k.AcceptsOutput = true, true
		return k
	}
	frames := registry.Widget{Type: registry.WidgetInteger, Min: 0, Max: 9999}

	r.Register(writingKind(&registry.Kind{
		Name:     "Origin",
		NiceName: "Origin",
		Widget:   registry.Widget{Type: registry.WidgetChoice, SceneChoices: true},
		Help:     "Defines which scene node is rendered.",
		Evaluate: EvaluateOrigin,
	}))
	r.Register(writingKind(&registry.Kind{
		Name:     "OriginFromName",
		NiceName: "Origin (from name)",
		Widget:   registry.Widget{Type: registry.WidgetText, Placeholder: "Enter node name"},
		Help:     "Chooses any node, by name, as the origin to be rendered.",
		Evaluate: EvaluateOriginFromName,
	}))
	r.Register(writingKind(&registry.Kind{
		Name:     "FilePath",
		NiceName: "File Path",
		Widget:   registry.Widget{Type: registry.WidgetText, Placeholder: "Enter file path"},
		Help:     "Directory the output of the stream is rendered to.",
		Evaluate: EvaluateFilePath,
	}))
	r.Register(writingKind(&registry.Kind{
		Name:     "Comment",
		NiceName: "Comment",
		Widget:   registry.Widget{Type: registry.WidgetText, Placeholder: "only_lowkey_comments"},
		Help:     "Comment for the writing output. Must be written all in lowercase, with the option to add underscores.",
		Evaluate: EvaluateComment,
	}))
	r.Register(writingKind(&registry.Kind{
		Name:     "FrameStart",
		NiceName: "Frame start",
		Widget:   frames,
		Help:     "Frame to start rendering from.",
		Evaluate: frame(registry.FrameStartField),
	}))
	r.Register(writingKind(&registry.Kind{
		Name:     "FrameEnd",
		NiceName: "Frame end",
		Widget:   frames,
		Help:     "Frame at which the rendering will stop.",
		Evaluate: frame(registry.FrameEndField),
	}))
	r.Register(writingKind(&registry.Kind{
		Name:     "Extension",
		NiceName: "Extension",
		Widget:   registry.Widget{Type: registry.WidgetChoice, Choices: Extensions},
		Help:     "Image extension for the output of the stream.",
		Evaluate: EvaluateExtension,
	}))
}
