package relay

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics are the relay counters.
type Metrics struct {
	Requests     *prometheus.CounterVec   // labels: kind=cmd|tx, result=ok|<error kind>
	Received     *prometheus.CounterVec   // labels: result=ok|<error kind>
	PayloadBytes *prometheus.CounterVec   // labels: direction=tx|rx
	Duration     *prometheus.HistogramVec // labels: kind
}

// NewRegistry creates a registry with the Go and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// MetricsHandler serves the registry.
func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// NewMetrics creates and registers the relay metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hif_relay_requests_total",
			Help: "Requests relayed to the device.",
		}, []string{"kind", "result"}),
		Received: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hif_relay_received_total",
			Help: "Frames received from the device.",
		}, []string{"result"}),
		PayloadBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hif_relay_payload_bytes_total",
			Help: "Payload bytes transferred.",
		}, []string{"direction"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hif_relay_request_duration_seconds",
			Help:    "Time spent on a request.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"kind"}),
	}
	if reg != nil {
		reg.MustRegister(m.Requests, m.Received, m.PayloadBytes, m.Duration)
	}
	return m
}
