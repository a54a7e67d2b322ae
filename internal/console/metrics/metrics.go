package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	upstreamRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "console_upstream_requests_total",
		Help: "Requests issued to the platform REST API.",
	}, []string{"method", "endpoint", "code"})

	upstreamDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "console_upstream_request_duration_seconds",
		Help:    "Latency of platform REST API requests.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint"})

	gateDecisions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "console_gate_decisions_total",
		Help: "Page permission gate outcomes.",
	}, []string{"role", "decision"})
)

func init() {
	prometheus.MustRegister(upstreamRequests, upstreamDuration, gateDecisions)
}

// ObserveUpstream records one upstream call. code 0 means transport failure.
func ObserveUpstream(method, endpoint string, code int, d time.Duration) {
	upstreamRequests.WithLabelValues(method, endpoint, strconv.Itoa(code)).Inc()
	upstreamDuration.WithLabelValues(method, endpoint).Observe(d.Seconds())
}

func ObserveGate(role, decision string) {
	gateDecisions.WithLabelValues(role, decision).Inc()
}

// Handler returns an http.Handler for Prometheus scraping
func Handler() http.Handler {
	return promhttp.Handler()
}
