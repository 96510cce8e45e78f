package registry

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// WidgetType is the editor control a kind exposes.
type WidgetType int

const (
	WidgetNone WidgetType = iota
	WidgetChoice
	WidgetText
	WidgetInteger
)

func (w WidgetType) String() string {
	switch w {
	case WidgetNone:
		return "none"
	case WidgetChoice:
		return "choice"
	case WidgetText:
		return "text"
	case WidgetInteger:
		return "integer"
	default:
		return fmt.Sprintf("WidgetType(%d)", int(w))
	}
}

// Widget describes the editable value of a kind.
type Widget struct {
	Type    WidgetType
	Default cty.Value
	// Min and Max bound integer widgets; values outside are clamped.
	Min, Max int
	// Choices lists fixed options of a choice widget.
	Choices []string
	// SceneChoices makes a choice widget list the host's scene entities.
	SceneChoices bool
	Placeholder  string
}

// CtyType returns the cty type widget values are stored as.
func (w Widget) CtyType() cty.Type {
	switch w.Type {
	case WidgetChoice, WidgetText:
		return cty.String
	case WidgetInteger:
		return cty.Number
	default:
		return cty.NilType
	}
}

// Initial returns the value a freshly placed node starts with.
func (w Widget) Initial() cty.Value {
	if w.Type == WidgetNone {
		return cty.NilVal
	}
	if w.Default != cty.NilVal && !w.Default.IsNull() {
		return w.Default
	}
	switch w.Type {
	case WidgetInteger:
		return cty.NumberIntVal(int64(w.Min))
	case WidgetChoice:
		if len(w.Choices) > 0 {
			return cty.StringVal(w.Choices[0])
		}
	}
	return cty.StringVal("")
}

// Coerce converts v into the widget's storage type. Null resets to the
// initial value, integers are clamped into [Min, Max].
func (w Widget) Coerce(v cty.Value) (cty.Value, error) {
	if w.Type == WidgetNone {
		if v == cty.NilVal || v.IsNull() {
			return cty.NilVal, nil
		}
		return cty.NilVal, fmt.Errorf("kind has no widget, cannot hold value of type %s", v.Type().FriendlyName())
	}
	if v == cty.NilVal || v.IsNull() {
		return w.Initial(), nil
	}
	if !v.IsKnown() {
		return cty.NilVal, fmt.Errorf("widget value must be known")
	}

	converted, err := convert.Convert(v, w.CtyType())
	if err != nil {
		return cty.NilVal, fmt.Errorf("invalid %s widget value: %w", w.Type, err)
	}
	if w.Type != WidgetInteger {
		return converted, nil
	}

	var n int
	if err := gocty.FromCtyValue(converted, &n); err != nil {
		return cty.NilVal, fmt.Errorf("invalid integer widget value: %w", err)
	}
	if w.Max > w.Min {
		n = min(max(n, w.Min), w.Max)
	}
	return cty.NumberIntVal(int64(n)), nil
}

// StringValue extracts a string widget value, treating null as empty.
func StringValue(v cty.Value) string {
	if v == cty.NilVal || v.IsNull() || !v.IsKnown() {
		return ""
	}
	s, err := convert.Convert(v, cty.String)
	if err != nil {
		return ""
	}
	return s.AsString()
}

// IntValue extracts an integer widget value, treating null as zero.
func IntValue(v cty.Value) (int, error) {
	if v == cty.NilVal || v.IsNull() {
		return 0, nil
	}
	var n int
	if err := gocty.FromCtyValue(v, &n); err != nil {
		return 0, err
	}
	return n, nil
}
