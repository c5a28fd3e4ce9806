// Package telemetry exposes Prometheus metrics for tool calls and condition
// code resolution.
package telemetry

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pec"

// Tool call outcomes used as the status label.
const (
	StatusOK      = "ok"
	StatusInvalid = "invalid"
	StatusError   = "error"
)

// Metrics holds the server's collectors on a private registry. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	registry     *prometheus.Registry
	toolCalls    *prometheus.CounterVec
	toolDuration *prometheus.HistogramVec
	resolutions  *prometheus.CounterVec
}

// NewMetrics registers the collectors on registry, or on a fresh registry
// when registry is nil. Go runtime and process collectors are included.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	m := &Metrics{
		registry: registry,
		toolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_total",
			Help:      "Tool invocations by tool and outcome.",
		}, []string{"tool", "status"}),
		toolDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tool_call_duration_seconds",
			Help:      "Tool invocation latency.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"tool"}),
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "condition_resolutions_total",
			Help:      "Condition code resolutions by source (preset, database, fallback).",
		}, []string{"source"}),
	}
	registry.MustRegister(m.toolCalls, m.toolDuration, m.resolutions)
	return m
}

// ObserveToolCall records one tool invocation.
func (m *Metrics) ObserveToolCall(tool, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.toolCalls.WithLabelValues(tool, status).Inc()
	m.toolDuration.WithLabelValues(tool).Observe(d.Seconds())
}

// ObserveResolution records the source a condition resolved from.
func (m *Metrics) ObserveResolution(source string) {
	if m == nil {
		return
	}
	m.resolutions.WithLabelValues(source).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
}

// RegisterRoutes mounts GET /metrics.
func (m *Metrics) RegisterRoutes(e *echo.Echo) {
	e.GET("/metrics", echo.WrapHandler(m.Handler()))
}
