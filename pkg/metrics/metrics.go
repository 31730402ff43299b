// Package metrics records workbench activity as Prometheus metrics.
//
// The CLI is short-lived, so nothing is served over HTTP; the registry can
// be dumped in text exposition format for a node_exporter textfile collector.
package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const defaultNamespace = "classify"

// ErrNoRegistry is returned when exporting from a Manager without a gatherer.
var ErrNoRegistry = errors.New("metrics registry is not gatherable")

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithRegistry sets a custom Prometheus registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(m *Manager) {
		if reg != nil {
			m.registry = reg
		}
	}
}

// WithHistogramBuckets sets custom buckets for the training duration histogram.
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.buckets = buckets
		}
	}
}

// Manager owns the workbench metrics.
type Manager struct {
	namespace string
	buckets   []float64
	registry  *prometheus.Registry

	datasetsLoaded     prometheus.Counter
	ingestFailures     *prometheus.CounterVec
	trainingsCompleted prometheus.Counter
	trainingsDiscarded prometheus.Counter
	trainingDuration   prometheus.Histogram
	predictions        *prometheus.CounterVec
	reportsWritten     *prometheus.CounterVec
}

// New creates a Manager on a private registry unless one is supplied.
func New(opts ...Option) *Manager {
	m := &Manager{
		namespace: defaultNamespace,
		buckets:   []float64{0.01, 0.1, 0.5, 1, 2, 3, 5},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}
	f := promauto.With(m.registry)

	m.datasetsLoaded = f.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "datasets_loaded_total",
		Help:      "Datasets ingested successfully.",
	})
	m.ingestFailures = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "ingest_failures_total",
		Help:      "Rejected uploads by reason.",
	}, []string{"reason"})
	m.trainingsCompleted = f.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "trainings_completed_total",
		Help:      "Simulated trainings whose metrics were applied.",
	})
	m.trainingsDiscarded = f.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "trainings_discarded_total",
		Help:      "Simulated trainings dropped because a newer dataset replaced theirs.",
	})
	m.trainingDuration = f.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "training_duration_seconds",
		Help:      "Wall time of simulated trainings.",
		Buckets:   m.buckets,
	})
	m.predictions = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "predictions_total",
		Help:      "Playground predictions by predicted class.",
	}, []string{"class"})
	m.reportsWritten = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "reports_written_total",
		Help:      "Reports exported by format.",
	}, []string{"format"})
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

// DatasetLoaded records a successful ingest.
func (m *Manager) DatasetLoaded() {
	if m == nil {
		return
	}
	m.datasetsLoaded.Inc()
}

// IngestFailed records a rejected upload.
func (m *Manager) IngestFailed(reason string) {
	if m == nil {
		return
	}
	m.ingestFailures.WithLabelValues(reason).Inc()
}

// TrainingCompleted records an applied training and its duration.
func (m *Manager) TrainingCompleted(d time.Duration) {
	if m == nil {
		return
	}
	m.trainingsCompleted.Inc()
	m.trainingDuration.Observe(d.Seconds())
}

// TrainingDiscarded records a stale training result.
func (m *Manager) TrainingDiscarded() {
	if m == nil {
		return
	}
	m.trainingsDiscarded.Inc()
}

// PredictionMade records a playground prediction.
func (m *Manager) PredictionMade(class string) {
	if m == nil {
		return
	}
	m.predictions.WithLabelValues(class).Inc()
}

// ReportWritten records an exported report.
func (m *Manager) ReportWritten(format string) {
	if m == nil {
		return
	}
	m.reportsWritten.WithLabelValues(format).Inc()
}

// WriteTextfile writes the registry to path in text exposition format.
func (m *Manager) WriteTextfile(path string) error {
	if m == nil || m.registry == nil {
		return ErrNoRegistry
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
