package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder holds the trial counters of one CLI invocation on its own
// registry, so repeated runs in a process never collide.
type Recorder struct {
	registry *prometheus.Registry

	trialsTotal         *prometheus.CounterVec
	degenerateCrossings *prometheus.CounterVec
	runDurationSeconds  *prometheus.HistogramVec
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		trialsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "slitorbit_trials_total",
				Help: "Total number of simulated trials by outcome.",
			},
			[]string{"scenario", "outcome"},
		),
		degenerateCrossings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "slitorbit_degenerate_crossings_total",
				Help: "Crossings resolved with the fallback fraction because x did not change over the step.",
			},
			[]string{"scenario"},
		),
		runDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "slitorbit_run_duration_seconds",
				Help:    "Wall time of a scenario run in seconds.",
				Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
			},
			[]string{"scenario"},
		),
	}
	r.registry.MustRegister(r.trialsTotal, r.degenerateCrossings, r.runDurationSeconds)
	return r
}

// Registry exposes the underlying registry for gathering.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile dumps every metric in the text exposition format, for the
// node exporter textfile collector.
func (r *Recorder) WriteTextfile(filename string) error {
	return prometheus.WriteToTextfile(filename, r.registry)
}

// Scenario binds the recorder to one scenario label.
func (r *Recorder) Scenario(name string) *ScenarioRecorder {
	return &ScenarioRecorder{recorder: r, scenario: name}
}

type ScenarioRecorder struct {
	recorder *Recorder
	scenario string
}

func (s *ScenarioRecorder) TrialObserved(outcome string, degenerate bool) {
	s.recorder.trialsTotal.WithLabelValues(s.scenario, outcome).Inc()
	if degenerate {
		s.recorder.degenerateCrossings.WithLabelValues(s.scenario).Inc()
	}
}

func (s *ScenarioRecorder) RunObserved(elapsed time.Duration) {
	s.recorder.runDurationSeconds.WithLabelValues(s.scenario).Observe(elapsed.Seconds())
}
