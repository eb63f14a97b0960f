package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus instruments of the collect/train/predict
// paths.
type Metrics struct {
	SamplesCollected *prometheus.CounterVec // labels: dataset
	Predictions      *prometheus.CounterVec // labels: dataset, outcome={ok,error}
	TrainingRuns     *prometheus.CounterVec // labels: dataset, outcome={ok,error}
	ConvergenceEpoch *prometheus.GaugeVec   // labels: dataset
	TrainingDuration prometheus.Histogram
}

// NewMetrics creates and registers all instruments with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.SamplesCollected,
		m.Predictions,
		m.TrainingRuns,
		m.ConvergenceEpoch,
		m.TrainingDuration,
	)
	return m
}

// NewMetricsForTesting creates unregistered instruments so parallel tests
// do not trip duplicate-registration panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		SamplesCollected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "percept",
			Name:      "samples_collected_total",
			Help:      "Labeled samples accepted by the collect endpoint.",
		}, []string{"dataset"}),
		Predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "percept",
			Name:      "predictions_total",
			Help:      "Prediction requests served, by outcome.",
		}, []string{"dataset", "outcome"}),
		TrainingRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "percept",
			Name:      "training_runs_total",
			Help:      "Training runs, by outcome.",
		}, []string{"dataset", "outcome"}),
		ConvergenceEpoch: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "percept",
			Name:      "convergence_epoch",
			Help:      "Epoch the last training run converged at, or the epoch budget when it did not.",
		}, []string{"dataset"}),
		TrainingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "percept",
			Name:      "training_duration_seconds",
			Help:      "Wall time of one training run.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		}),
	}
}
