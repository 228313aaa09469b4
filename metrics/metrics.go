// Package metrics counts the machines solved during a run.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcomes of a solved machine.
const (
	Feasible   = "feasible"
	Infeasible = "infeasible"
	Cached     = "cached"
	Failed     = "error"
)

// A Recorder holds the metrics of one run, in its own registry.
// A nil *Recorder records nothing.
type Recorder struct {
	Registry *prometheus.Registry
	machines *prometheus.CounterVec
	models   *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New returns a recorder whose metrics are registered in a fresh registry.
func New() *Recorder {
	r := &Recorder{
		Registry: prometheus.NewRegistry(),
		machines: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "joltsat_machines_total",
			Help: "Number of machines processed, by strategy and outcome.",
		}, []string{"strategy", "outcome"}),
		models: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "joltsat_models_total",
			Help: "Number of press assignments found by the solver.",
		}, []string{"strategy"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "joltsat_solve_duration_seconds",
			Help:    "Time spent solving a single machine.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10),
		}, []string{"strategy"}),
	}
	r.Registry.MustRegister(r.machines, r.models, r.duration)
	return r
}

// Observe records a machine processed with the given strategy.
func (r *Recorder) Observe(strategy, outcome string, models int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.machines.WithLabelValues(strategy, outcome).Inc()
	if models > 0 {
		r.models.WithLabelValues(strategy).Add(float64(models))
	}
	if outcome != Cached {
		r.duration.WithLabelValues(strategy).Observe(elapsed.Seconds())
	}
}

// WriteTextfile writes all metrics to path, in the format of the node exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.Registry); err != nil {
		return fmt.Errorf("could not write metrics: %w", err)
	}
	return nil
}
