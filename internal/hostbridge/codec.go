package hostbridge

import (
	"errors"
	"fmt"

	"github.com/vk/streamgraph/internal/host"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// encodeWrite renders a write request as the event payload.
func encodeWrite(req host.WriteRequest) map[string]any {
	manipulations := make([]any, len(req.Manipulations))
	for i, m := range req.Manipulations {
		manipulations[i] = m
	}
	return map[string]any{
		"origin":        req.Origin,
		"path":          req.Path,
		"start_frame":   req.StartFrame,
		"end_frame":     req.EndFrame,
		"manipulations": manipulations,
	}
}

// decodeReply unwraps the {"ok", "data", "error"} envelope.
func decodeReply(args []any) (any, error) {
	if len(args) == 0 {
		return nil, errors.New("empty reply")
	}
	envelope, ok := args[0].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("reply must be an object, got %T", args[0])
	}
	if ok, _ := envelope["ok"].(bool); !ok {
		msg, _ := envelope["error"].(string)
		if msg == "" {
			msg = "host reported failure without a message"
		}
		return nil, errors.New(msg)
	}
	return envelope["data"], nil
}

func decodeNames(data any) ([]string, error) {
	if data == nil {
		return nil, nil
	}
	v, err := interfaceToCtyValue(data)
	if err != nil {
		return nil, err
	}
	list, err := convert.Convert(v, cty.List(cty.String))
	if err != nil {
		return nil, fmt.Errorf("expected a list of names: %w", err)
	}
	var out []string
	if err := gocty.FromCtyValue(list, &out); err != nil {
		return nil, fmt.Errorf("expected a list of names: %w", err)
	}
	return out, nil
}

func decodeBool(data any) (bool, error) {
	b, ok := data.(bool)
	if !ok {
		return false, fmt.Errorf("expected a boolean, got %T", data)
	}
	return b, nil
}

// interfaceToCtyValue converts a decoded JSON payload to a cty.Value.
func interfaceToCtyValue(data any) (cty.Value, error) {
	if data == nil {
		return cty.NullVal(cty.DynamicPseudoType), nil
	}
	switch v := data.(type) {
	case string:
		return cty.StringVal(v), nil
	case float64:
		return cty.NumberFloatVal(v), nil
	case bool:
		return cty.BoolVal(v), nil
	case map[string]any:
		attrs := make(map[string]cty.Value)
		for key, val := range v {
			ctyVal, err := interfaceToCtyValue(val)
			if err != nil {
				return cty.NilVal, err
			}
			attrs[key] = ctyVal
		}
		return cty.ObjectVal(attrs), nil
	case []any:
		if len(v) == 0 {
			return cty.EmptyTupleVal, nil
		}
		elems := make([]cty.Value, 0, len(v))
		for _, val := range v {
			ctyVal, err := interfaceToCtyValue(val)
			if err != nil {
				return cty.NilVal, err
			}
			elems = append(elems, ctyVal)
		}
		return cty.TupleVal(elems), nil
	default:
		return cty.NilVal, fmt.Errorf("unsupported type for conversion to cty.Value: %T", v)
	}
}
