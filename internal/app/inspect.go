package app

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/vk/streamgraph/internal/ctxlog"
	"github.com/vk/streamgraph/internal/stream"
)

// Describe prints the chain every start slot of the snapshot links to,
// without querying a host or evaluating anything.
func (a *App) Describe(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	g, err := a.LoadGraph(ctx)
	if err != nil {
		return err
	}
	traces, err := stream.TraceAll(g)
	if err != nil {
		return fmt.Errorf("failed to trace streams: %w", err)
	}

	if len(traces) == 0 {
		_, err := fmt.Fprintln(a.outW, "No start nodes in this graph.")
		return err
	}
	for _, t := range traces {
		line := t.String()
		if len(t.Chain) == 0 && !t.Cycle {
			line += " (not connected)"
		}
		if _, err := fmt.Fprintln(a.outW, line); err != nil {
			return err
		}
	}
	return nil
}

// Catalog lists every registered node kind grouped by category.
func (a *App) Catalog() error {
	tw := tabwriter.NewWriter(a.outW, 0, 4, 2, ' ', 0)
	for _, group := range a.registry.ByCategory() {
		fmt.Fprintf(tw, "%s\n", group.Category.NiceName())
		for _, k := range group.Kinds {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", k.Name, k.Label(), k.Widget.Type, k.Help)
		}
	}
	return tw.Flush()
}
