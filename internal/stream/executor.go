package stream

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vk/streamgraph/internal/ctxlog"
	"github.com/vk/streamgraph/internal/feedback"
	"github.com/vk/streamgraph/internal/graph"
	"github.com/vk/streamgraph/internal/host"
	"github.com/vk/streamgraph/internal/metrics"
	"github.com/vk/streamgraph/internal/node"
	"github.com/vk/streamgraph/internal/nodeid"
	"github.com/vk/streamgraph/internal/registry"
)

var (
	// ErrCycle is reported when a stream links back to a slot it already visited.
	ErrCycle = errors.New("stream contains a cycle")
	// ErrNotStart is returned when a run is requested from a non-origin slot.
	ErrNotStart = errors.New("slot does not belong to a start node")
)

const (
	msgChecksFailed  = "[!] Some of the check nodes in the stream have failed, it will not be rendered"
	msgFieldsMissing = "[!] Some of the elements needed for rendering have not been found. " +
		"Please note that this stream and its checks have been run but it will not have a rendered output"
)

// Result summarizes one traversal.
type Result struct {
	RunID string
	Start nodeid.Address
	State State
	// Config holds every field collected, whether or not the stream was written.
	Config        *WriteConfig
	ChecksPassed  bool
	FieldsPresent bool
	// Request is set when the write was sent to the host.
	Request *host.WriteRequest
	// Visited lists evaluated nodes in visitation order, origin excluded.
	Visited []nodeid.Address
	// Err carries a dispatch failure or ErrCycle.
	Err     error
	Entries []feedback.Entry
}

// Topology is the read side of a graph a traversal walks.
type Topology interface {
	Slot(id node.SlotID) (graph.Slot, bool)
	Owner(id node.SlotID) (*node.Node, bool)
	Address(id node.SlotID) (nodeid.Address, bool)
	StartSlots() []node.SlotID
}

// Option customizes an Executor.
type Option func(*Executor)

// WithMetrics records traversal outcomes on rec.
func WithMetrics(rec *metrics.Recorder) Option {
	return func(e *Executor) { e.metrics = rec }
}

// Executor runs traversals over a graph against a host.
type Executor struct {
	mu      sync.Mutex
	graph   Topology
	host    host.Host
	log     *feedback.Log
	metrics *metrics.Recorder
}

// NewExecutor creates an executor. Feedback of every run is appended to log.
func NewExecutor(g Topology, h host.Host, log *feedback.Log, opts ...Option) *Executor {
	e := &Executor{graph: g, host: h, log: log}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Log returns the feedback log the executor appends to.
func (e *Executor) Log() *feedback.Log {
	return e.log
}

// RunAll traverses every slot of every start node, ordered by node id and
// slot index. Slots with nothing connected are skipped. Cancelling ctx stops
// before the next traversal starts; a traversal in progress always finishes.
func (e *Executor) RunAll(ctx context.Context) ([]*Result, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Run all streams started.")

	var results []*Result
	for _, sid := range e.graph.StartSlots() {
		if err := ctx.Err(); err != nil {
			return results, fmt.Errorf("stream run interrupted: %w", err)
		}
		slot, ok := e.graph.Slot(sid)
		if !ok || slot.Downstream == node.NoSlot {
			continue
		}
		res, err := e.Run(ctx, sid)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}

	logger.Debug("Run all streams finished.", "streams", len(results))
	return results, nil
}

// Run traverses the stream starting at slot start. The returned error is
// only for requests that cannot start a traversal; every outcome of a
// traversal itself, including host faults, is reported in the Result.
func (e *Executor) Run(ctx context.Context, start node.SlotID) (*Result, error) {
	origin, ok := e.graph.Owner(start)
	if !ok {
		return nil, fmt.Errorf("cannot run stream: %w: %d", graph.ErrUnknownSlot, start)
	}
	if !origin.Kind.IsStart() {
		return nil, fmt.Errorf("cannot run stream from %s: %w", origin, ErrNotStart)
	}
	addr, _ := e.graph.Address(start)

	e.mu.Lock()
	defer e.mu.Unlock()

	t := &traversal{
		exec:   e,
		runID:  uuid.NewString(),
		start:  start,
		origin: origin,
		mark:   e.log.Len(),
		config: NewWriteConfig(),
		checks: true,
		state:  Idle,
	}
	ctx, logger := ctxlog.With(ctx, "run_id", t.runID, "stream", addr.String())
	logger.Debug("Stream traversal started.")

	began := time.Now()
	t.walk(ctx)
	if t.state == Finalizing {
		t.finalize(ctx)
	}
	e.log.Add(ctx, feedback.Banner, "Finished execution of stream")
	e.metrics.Traversal(t.state.String(), time.Since(began))

	logger.Debug("Stream traversal finished.", "state", t.state.String())
	return t.result(addr), nil
}

// traversal is the mutable state of one run.
type traversal struct {
	exec    *Executor
	runID   string
	start   node.SlotID
	origin  *node.Node
	mark    int
	state   State
	config  *WriteConfig
	checks  bool
	fields  bool
	request *host.WriteRequest
	visited []nodeid.Address
	err     error
}

// to moves the traversal to next. Leaving a terminal state is a bug in the
// walk and panics.
func (t *traversal) to(ctx context.Context, next State) {
	if t.state.Terminal() {
		panic(fmt.Sprintf("stream: transition from terminal state %s to %s", t.state, next))
	}
	ctxlog.FromContext(ctx).Debug("Stream state changed.", "from", t.state.String(), "to", next.String())
	t.state = next
}

func (t *traversal) walk(ctx context.Context) {
	g, log := t.exec.graph, t.exec.log
	t.to(ctx, Traversing)

	seen := make(map[node.SlotID]struct{})
	current := t.start
	for current != node.NoSlot {
		slot, ok := g.Slot(current)
		if !ok {
			// The slot vanished under us; treat it as the end of the chain.
			break
		}
		if _, dup := seen[current]; dup {
			addr, _ := g.Address(current)
			t.err = fmt.Errorf("%w: %s visited twice", ErrCycle, addr)
			log.Add(ctx, feedback.Failure, "[!] The stream links back into node %s, its execution has been aborted", addr.Node())
			ctxlog.FromContext(ctx).Warn("Stream aborted.", "error", t.err)
			t.to(ctx, Aborted)
			return
		}
		seen[current] = struct{}{}

		owner, _ := g.Owner(current)
		if current == t.start {
			log.Add(ctx, feedback.Banner, "Started execution of Stream (Stream number: %d | From node with ID:%d)", slot.Index, owner.ID)
		} else {
			t.evaluate(ctx, owner)
		}
		current = slot.Downstream
	}
	t.to(ctx, Finalizing)
}

func (t *traversal) evaluate(ctx context.Context, n *node.Node) {
	log := t.exec.log
	kind := n.Kind
	t.visited = append(t.visited, n.Address())

	res := registry.Failed(registry.NoInfo, "This node cannot be evaluated")
	if kind.Evaluate != nil {
		res = kind.Evaluate(ctx, registry.EvalInput{NodeID: n.ID, Value: n.Value(), Scene: t.exec.host})
	}

	if res.Success {
		if err := t.config.Apply(res.Field, res.Message); err != nil {
			res = registry.Failed(res.Field, err.Error())
		}
	}
	t.exec.metrics.Evaluation(kind.Name, res.Success)

	sev := feedback.Success
	if !res.Success {
		sev = feedback.Failure
		if kind.Category == registry.Check {
			t.checks = false
		}
	}
	log.Add(ctx, sev, "Executed node of type: %s (Node ID: %d) Result: %s", kind.Name, n.ID, res.Message)

	if kind.Category == registry.Manipulation {
		t.config.AddManipulation(kind.Name)
	}
}

func (t *traversal) finalize(ctx context.Context) {
	log := t.exec.log
	logger := ctxlog.FromContext(ctx)

	missing := t.config.Missing()
	for _, f := range missing {
		log.Add(ctx, feedback.Warning, "%s", missingMessages[f])
	}
	t.fields = len(missing) == 0

	if !t.checks {
		log.Add(ctx, feedback.Failure, msgChecksFailed)
	}
	if !t.fields {
		log.Add(ctx, feedback.Failure, msgFieldsMissing)
	}
	if !t.checks || !t.fields {
		logger.Info("Stream skipped.", "checks_passed", t.checks, "fields_present", t.fields)
		t.to(ctx, Skipped)
		return
	}

	req := host.WriteRequest{
		Origin:        t.config.Origin,
		Path:          t.config.ComposedPath(),
		StartFrame:    *t.config.StartFrame,
		EndFrame:      *t.config.EndFrame,
		Manipulations: append([]string(nil), t.config.Manipulations...),
	}
	t.request = &req

	log.Add(ctx, feedback.Notice, "Starting to write the output for this stream")
	if err := t.exec.host.Dispatch(ctx, req); err != nil {
		t.err = fmt.Errorf("write of %s failed: %w", req.Path, err)
		t.exec.metrics.Dispatch(false)
		log.Add(ctx, feedback.Failure, "[!] Writing the output for this stream failed: %v", err)
		logger.Error("Stream dispatch failed.", "request", req.String(), "error", err)
		t.to(ctx, Failed)
		return
	}
	t.exec.metrics.Dispatch(true)
	log.Add(ctx, feedback.Notice, "Finished writing the output for this stream")
	logger.Info("Stream dispatched.", "request", req.String())
	t.to(ctx, Dispatched)
}

func (t *traversal) result(addr nodeid.Address) *Result {
	return &Result{
		RunID:         t.runID,
		Start:         addr,
		State:         t.state,
		Config:        t.config,
		ChecksPassed:  t.checks,
		FieldsPresent: t.fields,
		Request:       t.request,
		Visited:       t.visited,
		Err:           t.err,
		Entries:       t.exec.log.Since(t.mark),
	}
}
