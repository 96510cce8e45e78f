package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/streamgraph/internal/ctxlog"
	"github.com/vk/streamgraph/internal/feedback"
	"github.com/vk/streamgraph/internal/stream"
)

// ErrStreamsFailed is returned by Run when a write failed or a stream was aborted.
var ErrStreamsFailed = errors.New("one or more streams failed")

// Summary counts the traversals of one Run by terminal state.
type Summary struct {
	Results []*stream.Result
	ByState map[stream.State]int
}

func summarize(results []*stream.Result) Summary {
	s := Summary{Results: results, ByState: make(map[stream.State]int)}
	for _, r := range results {
		s.ByState[r.State]++
	}
	return s
}

// Failed counts streams that ended in a fault rather than a clean skip.
func (s Summary) Failed() int {
	return s.ByState[stream.Failed] + s.ByState[stream.Aborted]
}

// Run loads the snapshot, connects the host and executes every connected
// stream in order. The feedback of the run is rendered to the app output.
func (a *App) Run(ctx context.Context) (Summary, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	a.healthCheckServer()
	defer func() { _ = a.closeHealthCheckServer() }()

	g, err := a.LoadGraph(ctx)
	if err != nil {
		return Summary{}, err
	}

	h, closeHost, err := a.connectHost(ctx)
	if err != nil {
		return Summary{}, err
	}
	defer func() {
		if err := closeHost(); err != nil {
			a.logger.Warn("Failed to close host connection.", "error", err)
		}
	}()

	mark := a.feedback.Len()
	exec := stream.NewExecutor(g, h, a.feedback, stream.WithMetrics(a.metrics))
	a.logger.Info("🚀 Running streams...", "start_slots", len(g.StartSlots()))
	results, runErr := exec.RunAll(ctx)

	if err := feedback.Render(a.outW, a.feedback.Since(mark), a.config.Color); err != nil {
		return summarize(results), err
	}
	summary := summarize(results)
	if runErr != nil {
		return summary, runErr
	}

	a.logger.Info("🏁 Streams finished.",
		"streams", len(results),
		"dispatched", summary.ByState[stream.Dispatched],
		"skipped", summary.ByState[stream.Skipped],
		"failed", summary.Failed(),
	)
	if n := summary.Failed(); n > 0 {
		return summary, fmt.Errorf("%w: %d of %d", ErrStreamsFailed, n, len(results))
	}

	a.logger.Debug("App.Run method finished.")
	return summary, nil
}
