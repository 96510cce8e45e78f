package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vk/streamgraph/internal/ctxlog"
	"github.com/vk/streamgraph/internal/jsonsnapshot"
)

// Export loads the configured snapshot and saves the rebuilt graph to
// outPath in the editor's JSON format. Only .json output is supported.
func (a *App) Export(ctx context.Context, outPath string) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	if ext := strings.ToLower(filepath.Ext(outPath)); ext != ".json" {
		return fmt.Errorf("unsupported export format '%s': expected .json", ext)
	}
	g, err := a.LoadGraph(ctx)
	if err != nil {
		return err
	}
	if err := jsonsnapshot.NewCodec().SaveSnapshot(ctx, outPath, g.Snapshot()); err != nil {
		return fmt.Errorf("failed to export graph: %w", err)
	}
	a.logger.Info("Graph exported.", "path", outPath, "nodes", g.Len())
	return nil
}
