package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "finance_copilot"

// Metrics объединяет коллекторы сервиса на собственном реестре.
type Metrics struct {
	registry *prometheus.Registry

	operations       *prometheus.CounterVec
	operationErrors  *prometheus.CounterVec
	riskBands        *prometheus.CounterVec
	narrations       *prometheus.CounterVec
	narrationLatency prometheus.Histogram
}

// New регистрирует коллекторы процесса, Go-рантайма и сервиса.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Finance engine operations by name.",
		}, []string{"operation"}),
		operationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_errors_total",
			Help:      "Failed finance engine operations by name and error kind.",
		}, []string{"operation", "kind"}),
		riskBands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "risk_band_total",
			Help:      "Affordability classifications by risk band.",
		}, []string{"band"}),
		narrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "narrations_total",
			Help:      "Narration results by provider and source.",
		}, []string{"provider", "source"}),
		narrationLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "narration_duration_seconds",
			Help:      "Time spent producing a narration, including fallbacks.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30},
		}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.operations,
		m.operationErrors,
		m.riskBands,
		m.narrations,
		m.narrationLatency,
	)

	return m
}

// Handler отдает метрики в формате Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveOperation(operation string) {
	m.operations.WithLabelValues(operation).Inc()
}

func (m *Metrics) ObserveOperationError(operation, kind string) {
	m.operationErrors.WithLabelValues(operation, kind).Inc()
}

func (m *Metrics) ObserveRiskBand(band string) {
	m.riskBands.WithLabelValues(band).Inc()
}

func (m *Metrics) ObserveNarration(provider, source string, elapsed time.Duration) {
	m.narrations.WithLabelValues(provider, source).Inc()
	m.narrationLatency.Observe(elapsed.Seconds())
}
