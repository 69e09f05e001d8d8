package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	CheckIns        *prometheus.CounterVec
	CheckOuts       *prometheus.CounterVec
	Rejections      *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	LiveClients     prometheus.Gauge
}

// NewMetrics creates collectors on a fresh registry, so tests can build as
// many instances as they like.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		CheckIns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "attendance",
			Name:      "check_ins_total",
			Help:      "Successful check-ins by derived status.",
		}, []string{"status"}),
		CheckOuts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "attendance",
			Name:      "check_outs_total",
			Help:      "Successful check-outs by final status.",
		}, []string{"status"}),
		Rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "attendance",
			Name:      "rejected_transitions_total",
			Help:      "Check-in/check-out attempts rejected by a business rule.",
		}, []string{"code"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "attendance",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		LiveClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "attendance",
			Name:      "live_feed_clients",
			Help:      "Connected live dashboard clients.",
		}),
	}

	reg.MustRegister(
		m.CheckIns,
		m.CheckOuts,
		m.Rejections,
		m.RequestDuration,
		m.LiveClients,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.RequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
