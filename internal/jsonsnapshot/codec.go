// Package jsonsnapshot reads and writes graph snapshots in the editor's
// JSON save format: one object per node keyed by "Kind_ID", with stream
// links stored as [kind, id, slot] triples keyed by stream index.
package jsonsnapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/vk/streamgraph/internal/config"
	"github.com/vk/streamgraph/internal/ctxlog"
	"github.com/vk/streamgraph/internal/nodeid"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Codec implements config.SnapshotLoader and config.SnapshotSaver.
type Codec struct{}

// NewCodec creates a JSON snapshot codec.
func NewCodec() *Codec {
	return &Codec{}
}

var (
	_ config.SnapshotLoader = (*Codec)(nil)
	_ config.SnapshotSaver  = (*Codec)(nil)
)

type nodeJSON struct {
	Class       string                     `json:"class"`
	ID          int                        `json:"id"`
	X           float64                    `json:"x_pos"`
	Y           float64                    `json:"y_pos"`
	WidgetValue json.RawMessage            `json:"widget_value"`
	StreamCount int                        `json:"stream_count"`
	Streams     map[string]json.RawMessage `json:"streams"`
}

// LoadSnapshot reads a snapshot file. Nodes are returned ordered by id.
func (c *Codec) LoadSnapshot(ctx context.Context, path string) (*config.Snapshot, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("JSON snapshot loader started.", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}
	snap, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("invalid snapshot %s: %w", path, err)
	}

	logger.Debug("JSON snapshot loading complete.", "nodes", len(snap.Nodes))
	return snap, nil
}

// SaveSnapshot writes snap to path, replacing any existing file.
func (c *Codec) SaveSnapshot(ctx context.Context, path string, snap *config.Snapshot) error {
	data, err := Encode(snap)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", path, err)
	}
	ctxlog.FromContext(ctx).Debug("JSON snapshot saved.", "path", path, "nodes", len(snap.Nodes))
	return nil
}

// Decode parses the editor's JSON format.
func Decode(data []byte) (*config.Snapshot, error) {
	var raw map[string]*nodeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}

	snap := &config.Snapshot{Nodes: make([]*config.NodeRecord, 0, len(raw))}
	for key, n := range raw {
		if n == nil {
			return nil, fmt.Errorf("node %q: empty record", key)
		}
		rec, err := decodeNode(n)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", key, err)
		}
		snap.Nodes = append(snap.Nodes, rec)
	}
	sort.Slice(snap.Nodes, func(i, j int) bool { return snap.Nodes[i].ID < snap.Nodes[j].ID })
	return snap, nil
}

func decodeNode(n *nodeJSON) (*config.NodeRecord, error) {
	value, err := decodeValue(n.WidgetValue)
	if err != nil {
		return nil, fmt.Errorf("widget_value: %w", err)
	}
	rec := &config.NodeRecord{
		Kind:        n.Class,
		ID:          n.ID,
		X:           n.X,
		Y:           n.Y,
		Value:       value,
		StreamCount: n.StreamCount,
	}

	indexes := make([]int, 0, len(n.Streams))
	targets := make(map[int]nodeid.Address, len(n.Streams))
	for key, rawTarget := range n.Streams {
		idx, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("stream index %q is not a number", key)
		}
		target, err := decodeTarget(rawTarget)
		if err != nil {
			return nil, fmt.Errorf("stream %d: %w", idx, err)
		}
		indexes = append(indexes, idx)
		targets[idx] = target
	}
	sort.Ints(indexes)
	for _, idx := range indexes {
		rec.Links = append(rec.Links, config.LinkRecord{Stream: idx, Target: targets[idx]})
	}
	return rec, nil
}

// decodeTarget parses a [kind, id, slot] triple.
func decodeTarget(raw json.RawMessage) (nodeid.Address, error) {
	var triple []json.RawMessage
	if err := json.Unmarshal(raw, &triple); err != nil || len(triple) != 3 {
		return nodeid.Address{}, fmt.Errorf("target must be a [kind, id, slot] triple")
	}
	var (
		kind     string
		id, slot int
	)
	if err := json.Unmarshal(triple[0], &kind); err != nil {
		return nodeid.Address{}, fmt.Errorf("target kind: %w", err)
	}
	if err := json.Unmarshal(triple[1], &id); err != nil {
		return nodeid.Address{}, fmt.Errorf("target id: %w", err)
	}
	if err := json.Unmarshal(triple[2], &slot); err != nil {
		return nodeid.Address{}, fmt.Errorf("target slot: %w", err)
	}
	return nodeid.NewSlotAddress(kind, id, slot), nil
}

// decodeValue converts a JSON scalar into a cty value. Absent and null
// values become cty.NilVal.
func decodeValue(raw json.RawMessage) (cty.Value, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return cty.NilVal, nil
	}
	ty, err := ctyjson.ImpliedType(raw)
	if err != nil {
		return cty.NilVal, err
	}
	if !ty.IsPrimitiveType() {
		return cty.NilVal, fmt.Errorf("unsupported %s value", ty.FriendlyName())
	}
	return ctyjson.Unmarshal(raw, ty)
}

// Encode renders snap in the editor's JSON format.
func Encode(snap *config.Snapshot) ([]byte, error) {
	out := make(map[string]*nodeJSON, len(snap.Nodes))
	for _, rec := range snap.Nodes {
		key := nodeid.NewNodeAddress(rec.Kind, rec.ID).String()
		value := json.RawMessage("null")
		if rec.Value != cty.NilVal && !rec.Value.IsNull() {
			b, err := ctyjson.Marshal(rec.Value, rec.Value.Type())
			if err != nil {
				return nil, fmt.Errorf("node %s: widget_value: %w", key, err)
			}
			value = b
		}

		n := &nodeJSON{
			Class:       rec.Kind,
			ID:          rec.ID,
			X:           rec.X,
			Y:           rec.Y,
			WidgetValue: value,
			StreamCount: rec.StreamCount,
			Streams:     make(map[string]json.RawMessage, len(rec.Links)),
		}
		for _, l := range rec.Links {
			b, err := json.Marshal([]any{l.Target.Kind, l.Target.ID, l.Target.Slot})
			if err != nil {
				return nil, fmt.Errorf("node %s: stream %d: %w", key, l.Stream, err)
			}
			n.Streams[strconv.Itoa(l.Stream)] = b
		}
		out[key] = n
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}
