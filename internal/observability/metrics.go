package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the API and the wizard engine.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	resolutions      *prometheus.CounterVec
	classifierCalls  *prometheus.CounterVec
	suggestionSource *prometheus.CounterVec
	turnEvents       *prometheus.CounterVec

	llmLatency *prometheus.HistogramVec
}

// NewMetrics registers every collector on a private registry so tests and
// multiple app instances never collide on the default one.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		apiRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bw_http_requests_total",
			Help: "HTTP requests by method/route/status.",
		}, []string{"method", "route", "status"}),
		apiLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bw_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}, []string{"method", "route", "status"}),
		apiInflight: f.NewGauge(prometheus.GaugeOpts{
			Name: "bw_http_inflight_requests",
			Help: "In-flight HTTP requests.",
		}),
		resolutions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bw_wizard_resolutions_total",
			Help: "Wizard turn resolutions by channel/outcome.",
		}, []string{"channel", "outcome"}),
		classifierCalls: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bw_wizard_classifier_calls_total",
			Help: "Intent classifier calls by result.",
		}, []string{"result"}),
		suggestionSource: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bw_wizard_suggestion_source_total",
			Help: "Suggestion lists served by item source.",
		}, []string{"source"}),
		turnEvents: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bw_wizard_turn_events_total",
			Help: "Turn-recorded events published by result.",
		}, []string{"result"}),
		llmLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bw_llm_request_duration_seconds",
			Help:    "LLM request latency in seconds by endpoint/status.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"endpoint", "status"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route, status).Observe(dur.Seconds())
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveResolution(channel, outcome string) {
	if m == nil {
		return
	}
	m.resolutions.WithLabelValues(channel, outcome).Inc()
}

func (m *Metrics) ObserveClassifier(result string) {
	if m == nil {
		return
	}
	m.classifierCalls.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveSuggestionSource(source string) {
	if m == nil {
		return
	}
	m.suggestionSource.WithLabelValues(source).Inc()
}

func (m *Metrics) ObserveTurnEvent(result string) {
	if m == nil {
		return
	}
	m.turnEvents.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveLLMRequest(endpoint, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.llmLatency.WithLabelValues(endpoint, status).Observe(dur.Seconds())
}
