package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the service's Prometheus collectors. A nil *Metrics is
// valid and records nothing, which keeps tests free of registries.
type Metrics struct {
	routeRuns        *prometheus.CounterVec
	providerDuration *prometheus.HistogramVec
	providerCache    *prometheus.CounterVec
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	activeSessions   prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		routeRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "carpool_route_runs_total",
				Help: "Route assembler runs by outcome",
			},
			[]string{"outcome"},
		),
		providerDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "carpool_route_provider_duration_seconds",
				Help:    "Latency of directions provider calls",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"status"},
		),
		providerCache: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "carpool_route_cache_lookups_total",
				Help: "Route cache lookups by result",
			},
			[]string{"result"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "carpool_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "carpool_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "carpool_routing_sessions_active",
			Help: "Open routing sessions",
		}),
	}

	reg.MustRegister(
		m.routeRuns,
		m.providerDuration,
		m.providerCache,
		m.httpRequests,
		m.httpDuration,
		m.activeSessions,
	)
	return m
}

func (m *Metrics) RouteRun(outcome string) {
	if m == nil {
		return
	}
	m.routeRuns.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ProviderCall(status string, d time.Duration) {
	if m == nil {
		return
	}
	m.providerDuration.WithLabelValues(status).Observe(d.Seconds())
}

func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.providerCache.WithLabelValues(result).Inc()
}

func (m *Metrics) HTTPRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, statusClass(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.activeSessions.Inc()
}

func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.activeSessions.Dec()
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
