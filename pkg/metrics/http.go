package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of every HTTP handler, by route template
	RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Latency of HTTP handlers",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	BuildInfo = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "refrescobot_build_info",
		Help: "Constant 1, labelled with the running version",
	}, []string{"version", "environment"})
)

func Init(version, environment string) {
	prometheus.MustRegister(
		RequestDuration,
		RequestsTotal,
		BuildInfo,
	)
	BuildInfo.WithLabelValues(version, environment).Set(1)
}
