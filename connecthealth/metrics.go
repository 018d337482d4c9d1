package connecthealth

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Fixed HELP strings.
const (
	upHelp         = "Readiness of the Kafka Connect worker (1 = up, 0 = down)"
	statusHelp     = "Category of the last readiness evaluation (enum pattern: 1 for the active category)"
	durationHelp   = "Duration of a readiness evaluation in seconds"
	connectorsHelp = "Connectors assigned to the local worker by state, from the last evaluation, empty after a failed one"
	tasksHelp      = "Tasks assigned to the local worker by state, from the last evaluation, empty after a failed one"
)

// Histogram buckets for the evaluation duration.
var defaultDurationBuckets = []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0}

// MetricsExporter manages the Prometheus metrics of the readiness check.
type MetricsExporter struct {
	worker string

	up         *prometheus.GaugeVec
	status     *prometheus.GaugeVec
	duration   *prometheus.HistogramVec
	connectors *prometheus.GaugeVec
	tasks      *prometheus.GaugeVec

	// mu serializes state-count updates of concurrent evaluations.
	mu sync.Mutex
}

// MetricsOption is a functional option for MetricsExporter.
type MetricsOption func(*metricsConfig)

type metricsConfig struct {
	registerer prometheus.Registerer
}

// WithMetricsRegisterer sets a custom prometheus.Registerer.
// prometheus.DefaultRegisterer is used by default.
func WithMetricsRegisterer(r prometheus.Registerer) MetricsOption {
	return func(c *metricsConfig) {
		c.registerer = r
	}
}

// NewMetricsExporter creates and registers the metrics for the given worker.
func NewMetricsExporter(workerID string, opts ...MetricsOption) (*MetricsExporter, error) {
	cfg := metricsConfig{
		registerer: prometheus.DefaultRegisterer,
	}
	for _, o := range opts {
		o(&cfg)
	}

	m := &MetricsExporter{
		worker: workerID,
		up: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "kafka_connect_health_up",
			Help: upHelp,
		}, []string{"worker"}),
		status: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "kafka_connect_health_status",
			Help: statusHelp,
		}, []string{"worker", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kafka_connect_health_check_duration_seconds",
			Help:    durationHelp,
			Buckets: defaultDurationBuckets,
		}, []string{"worker"}),
		connectors: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "kafka_connect_worker_connectors",
			Help: connectorsHelp,
		}, []string{"worker", "state"}),
		tasks: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "kafka_connect_worker_tasks",
			Help: tasksHelp,
		}, []string{"worker", "state"}),
	}

	for _, c := range []prometheus.Collector{m.up, m.status, m.duration, m.connectors, m.tasks} {
		if err := cfg.registerer.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Record publishes the outcome of one evaluation.
func (m *MetricsExporter) Record(v Verdict) {
	if v.Up {
		m.up.WithLabelValues(m.worker).Set(1)
	} else {
		m.up.WithLabelValues(m.worker).Set(0)
	}
	for _, c := range AllStatusCategories {
		val := 0.0
		if c == v.Category {
			val = 1
		}
		m.status.WithLabelValues(m.worker, string(c)).Set(val)
	}
	m.duration.WithLabelValues(m.worker).Observe(v.Duration.Seconds())
}

// SetStateCounts replaces the per-state connector and task gauges.
// nil maps clear the series, for evaluations that did not complete.
func (m *MetricsExporter) SetStateCounts(connectors, tasks map[string]int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	match := prometheus.Labels{"worker": m.worker}
	m.connectors.DeletePartialMatch(match)
	m.tasks.DeletePartialMatch(match)

	for state, n := range connectors {
		m.connectors.WithLabelValues(m.worker, state).Set(float64(n))
	}
	for state, n := range tasks {
		m.tasks.WithLabelValues(m.worker, state).Set(float64(n))
	}
}
