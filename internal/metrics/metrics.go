// Package metrics exposes prometheus collectors for stream runs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "streamgraph"

// Recorder counts traversal outcomes, node evaluations and dispatches.
type Recorder struct {
	registry *prometheus.Registry

	traversals  *prometheus.CounterVec
	evaluations *prometheus.CounterVec
	dispatches  *prometheus.CounterVec
	duration    prometheus.Histogram
}

// New creates a recorder on its own registry, so independent app instances
// and tests never collide on registration.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		traversals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "traversals_total",
			Help:      "Stream traversals by terminal state.",
		}, []string{"state"}),
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "node_evaluations_total",
			Help:      "Node evaluations by kind and outcome.",
		}, []string{"kind", "outcome"}),
		dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatches_total",
			Help:      "Write dispatches by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "traversal_duration_seconds",
			Help:      "Wall time of one stream traversal including dispatch.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
	}
	r.registry.MustRegister(
		r.traversals,
		r.evaluations,
		r.dispatches,
		r.duration,
		collectors.NewGoCollector(),
	)
	return r
}

// Traversal records a finished traversal.
func (r *Recorder) Traversal(state string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.traversals.WithLabelValues(state).Inc()
	r.duration.Observe(elapsed.Seconds())
}

// Evaluation records one node evaluation.
func (r *Recorder) Evaluation(kind string, success bool) {
	if r == nil {
		return
	}
	r.evaluations.WithLabelValues(kind, outcome(success)).Inc()
}

// Dispatch records the outcome of a write.
func (r *Recorder) Dispatch(success bool) {
	if r == nil {
		return
	}
	r.dispatches.WithLabelValues(outcome(success)).Inc()
}

// Handler serves the recorder's registry in the prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests and additional collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func outcome(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
