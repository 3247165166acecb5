// Package ringmetrics provides Prometheus instrumentation for a
// disruptor.RingBuffer, implementing disruptor.Recorder so the core
// package never has to import Prometheus itself.
//
// Each Recorder owns its own metrics, built in New and registered through
// a Register method the caller invokes against its own
// *prometheus.Registry, rather than against the global default registry as
// a side effect of import.
package ringmetrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder implements disruptor.Recorder.
type Recorder struct {
	name string

	reserves *prometheus.CounterVec
	commits  prometheus.Counter
	pops     *prometheus.CounterVec
	depth    prometheus.Gauge
}

// New creates a Recorder labeled with name, distinguishing metrics across
// multiple ring buffers registered in the same process.
func New(name string) *Recorder {
	return &Recorder{
		name: name,
		reserves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "disruptor_reserve_total",
			Help: "Reserve/ReserveRange outcomes by ring buffer name and result.",
			ConstLabels: prometheus.Labels{
				"ring": name,
			},
		}, []string{"result"}),
		commits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "disruptor_commit_total",
			Help: "Slots committed, by ring buffer name.",
			ConstLabels: prometheus.Labels{
				"ring": name,
			},
		}),
		pops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "disruptor_pop_total",
			Help: "Pop outcomes by ring buffer name and result.",
			ConstLabels: prometheus.Labels{
				"ring": name,
			},
		}, []string{"result"}),
		depth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "disruptor_depth",
			Help: "Current reserved-but-not-yet-popped slot count.",
			ConstLabels: prometheus.Labels{
				"ring": name,
			},
		}),
	}
}

// Register adds every metric this Recorder owns to registry.
func (r *Recorder) Register(registry *prometheus.Registry) error {
	for _, c := range []prometheus.Collector{r.reserves, r.commits, r.pops, r.depth} {
		if err := registry.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// ObserveReserve implements disruptor.Recorder.
func (r *Recorder) ObserveReserve(ok bool) {
	r.reserves.WithLabelValues(resultLabel(ok, "full")).Inc()
}

// ObserveCommit implements disruptor.Recorder.
func (r *Recorder) ObserveCommit(count int) {
	r.commits.Add(float64(count))
}

// ObservePop implements disruptor.Recorder.
func (r *Recorder) ObservePop(ok bool) {
	r.pops.WithLabelValues(resultLabel(ok, "empty")).Inc()
}

// ObserveDepth implements disruptor.Recorder.
func (r *Recorder) ObserveDepth(depth uint64) {
	r.depth.Set(float64(depth))
}

func resultLabel(ok bool, failureLabel string) string {
	if ok {
		return "ok"
	}
	return failureLabel
}
