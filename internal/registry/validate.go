package registry

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/vk/streamgraph/internal/ctxlog"
)

var kindNameRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*$`)

// Validate checks every registered kind for internal consistency. It runs
// once at startup; a failure means the compiled modules are broken.
func (r *Registry) Validate(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	var errs []string
	starts := 0

	for _, k := range r.Kinds() {
		if !kindNameRegex.MatchString(k.Name) {
			errs = append(errs, fmt.Sprintf("kind '%s': name must be alphanumeric and start with a letter", k.Name))
		}
		if !k.Category.Valid() {
			errs = append(errs, fmt.Sprintf("kind '%s': unknown category %d", k.Name, int(k.Category)))
		}
		if !k.AcceptsInput && !k.AcceptsOutput {
			errs = append(errs, fmt.Sprintf("kind '%s': accepts neither input nor output", k.Name))
		}

		if k.IsStart() {
			starts++
			if k.Evaluate != nil {
				errs = append(errs, fmt.Sprintf("kind '%s': stream origins must not evaluate", k.Name))
			}
		} else if k.Evaluate == nil {
			errs = append(errs, fmt.Sprintf("kind '%s': missing evaluate function", k.Name))
		}

		errs = append(errs, validateWidget(k)...)
	}

	if r.Len() > 0 && starts == 0 {
		logger.Warn("No stream origin kind registered; no stream can ever run.")
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	logger.Debug("Registry validation passed.", "kinds", r.Len())
	return nil
}

func validateWidget(k *Kind) []string {
	var errs []string
	w := k.Widget

	switch w.Type {
	case WidgetNone:
		return nil
	case WidgetChoice:
		if len(w.Choices) == 0 && !w.SceneChoices {
			errs = append(errs, fmt.Sprintf("kind '%s': choice widget has no choices", k.Name))
		}
	case WidgetText:
	case WidgetInteger:
		if w.Max < w.Min {
			errs = append(errs, fmt.Sprintf("kind '%s': integer widget bounds inverted (%d > %d)", k.Name, w.Min, w.Max))
		}
	default:
		errs = append(errs, fmt.Sprintf("kind '%s': unknown widget type %d", k.Name, int(w.Type)))
		return errs
	}

	initial := w.Initial()
	if !initial.Type().Equals(w.CtyType()) {
		errs = append(errs, fmt.Sprintf("kind '%s': default value is %s, widget requires %s",
			k.Name, initial.Type().FriendlyName(), w.CtyType().FriendlyName()))
	}
	return errs
}
