// Package hcl_adapter loads graph snapshots and scene descriptions written
// in HCL into the format-agnostic config models.
package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/streamgraph/internal/config"
	"github.com/vk/streamgraph/internal/ctxlog"
	"github.com/vk/streamgraph/internal/fsutil"
)

// Loader is the HCL implementation of config.SnapshotLoader and
// config.SceneLoader.
type Loader struct{}

// NewLoader creates a new HCL loader.
func NewLoader() *Loader {
	return &Loader{}
}

var (
	_ config.SnapshotLoader = (*Loader)(nil)
	_ config.SceneLoader    = (*Loader)(nil)
)

// LoadSnapshot parses a single snapshot file.
func (l *Loader) LoadSnapshot(ctx context.Context, path string) (*config.Snapshot, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL snapshot loader started.", "path", path)

	var root snapshotRoot
	if err := decodeFile(hclparse.NewParser(), path, &root); err != nil {
		return nil, err
	}

	snap, err := translateSnapshot(&root)
	if err != nil {
		return nil, fmt.Errorf("invalid snapshot %s: %w", path, err)
	}

	logger.Debug("HCL snapshot loading complete.", "nodes", len(snap.Nodes))
	return snap, nil
}

// LoadScene parses every .hcl file under paths and merges their entities.
// An entity declared twice is an error.
func (l *Loader) LoadScene(ctx context.Context, paths ...string) (*config.Scene, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL scene loader started.", "path_count", len(paths))

	files, err := fsutil.CollectFiles(paths, ".hcl")
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	scene := &config.Scene{}
	declared := make(map[string]string)
	for _, file := range files {
		var root sceneRoot
		if err := decodeFile(parser, file, &root); err != nil {
			return nil, err
		}
		for _, e := range root.Entities {
			if prev, dup := declared[e.Name]; dup {
				return nil, fmt.Errorf("entity '%s' declared in %s and %s", e.Name, prev, file)
			}
			declared[e.Name] = file
			scene.Entities = append(scene.Entities, translateEntity(e))
		}
	}

	logger.Debug("HCL scene loading complete.", "entities", len(scene.Entities))
	return scene, nil
}

func decodeFile(parser *hclparse.Parser, path string, target any) error {
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}
	diags = gohcl.DecodeBody(file.Body, nil, target)
	if diags.HasErrors() {
		return fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}
	return nil
}

// Remain fields keep unknown top-level blocks out of the way, so snapshot
// and scene blocks can share a file.
type snapshotRoot struct {
	Nodes  []*nodeBlock `hcl:"node,block"`
	Remain hcl.Body     `hcl:",remain"`
}

type sceneRoot struct {
	Entities []*entityBlock `hcl:"entity,block"`
	Remain   hcl.Body       `hcl:",remain"`
}
