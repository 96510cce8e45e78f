package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vk/streamgraph/internal/config"
	"github.com/vk/streamgraph/internal/ctxlog"
	"github.com/vk/streamgraph/internal/graph"
	"github.com/vk/streamgraph/internal/hcl_adapter"
	"github.com/vk/streamgraph/internal/host"
	"github.com/vk/streamgraph/internal/hostbridge"
	"github.com/vk/streamgraph/internal/jsonsnapshot"
	"github.com/vk/streamgraph/internal/memhost"
)

// ErrNoSnapshot is returned when a command needs a graph but none was configured.
var ErrNoSnapshot = errors.New("no snapshot path configured")

// snapshotLoader picks the loader for a snapshot by file extension.
func snapshotLoader(path string) (config.SnapshotLoader, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return jsonsnapshot.NewCodec(), nil
	case ".hcl":
		return hcl_adapter.NewLoader(), nil
	default:
		return nil, fmt.Errorf("unsupported snapshot format '%s': expected .json or .hcl", ext)
	}
}

// LoadGraph reads the configured snapshot and rebuilds the stream graph.
func (a *App) LoadGraph(ctx context.Context) (*graph.Graph, error) {
	logger := ctxlog.FromContext(ctx)
	path := a.config.SnapshotPath
	if path == "" {
		return nil, ErrNoSnapshot
	}
	logger.Debug("Loading snapshot...", "path", path)

	loader, err := snapshotLoader(path)
	if err != nil {
		return nil, err
	}
	snap, err := loader.LoadSnapshot(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	g, err := graph.FromSnapshot(ctx, snap, a.registry)
	if err != nil {
		return nil, fmt.Errorf("failed to build graph: %w", err)
	}
	if err := g.CheckIntegrity(); err != nil {
		return nil, fmt.Errorf("loaded graph is inconsistent: %w", err)
	}

	logger.Info("Snapshot loaded.", "path", path, "nodes", g.Len())
	return g, nil
}

// connectHost resolves the host the streams are written to: the one set
// with SetHost, a live host over socket.io, or an offline scene. The
// returned closer releases the connection.
func (a *App) connectHost(ctx context.Context) (host.Host, func() error, error) {
	logger := ctxlog.FromContext(ctx)
	noop := func() error { return nil }

	h := a.host
	closer := noop
	switch {
	case h != nil:
		logger.Debug("Using pre-configured host.")
	case a.config.HostURL != "":
		client, err := hostbridge.Dial(ctx, hostbridge.Options{
			URL:                a.config.HostURL,
			Namespace:          a.config.HostNamespace,
			InsecureSkipVerify: a.config.InsecureSkipVerify,
			Timeout:            a.config.HostTimeout,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to host: %w", err)
		}
		h, closer = client, client.Close
	case len(a.config.ScenePaths) > 0:
		scene, err := hcl_adapter.NewLoader().LoadScene(ctx, a.config.ScenePaths...)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load scene: %w", err)
		}
		logger.Info("Offline scene loaded.", "entities", len(scene.Entities))
		h = memhost.FromScene(scene)
	default:
		logger.Warn("No scene or host configured, streams run against an empty scene.")
		h = memhost.New()
	}

	if a.config.ProbePaths {
		if _, ok := h.(host.PathProber); !ok {
			h = host.WithLocalPaths(h)
		}
	}
	return h, closer, nil
}
