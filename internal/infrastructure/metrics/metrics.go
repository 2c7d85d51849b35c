package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	ChatRequests        *prometheus.CounterVec
	VendorErrors        *prometheus.CounterVec
	FallbackActivations prometheus.Counter
	VendorLatency       *prometheus.HistogramVec
}

var (
	once   sync.Once
	global *Metrics
)

func Global() *Metrics {
	once.Do(func() {
		global = &Metrics{
			ChatRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "chatembed",
				Name:      "chat_requests_total",
				Help:      "Total chat completion attempts by vendor and outcome",
			}, []string{"vendor", "outcome"}),
			VendorErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "chatembed",
				Name:      "vendor_errors_total",
				Help:      "Total vendor API errors by vendor and status",
			}, []string{"vendor", "status"}),
			FallbackActivations: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "chatembed",
				Name:      "fallback_activations_total",
				Help:      "Total completions retried on the fallback vendor",
			}),
			VendorLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "chatembed",
				Name:      "vendor_latency_seconds",
				Help:      "Vendor call latency by vendor",
				Buckets:   prometheus.DefBuckets,
			}, []string{"vendor"}),
		}
		prometheus.MustRegister(
			global.ChatRequests,
			global.VendorErrors,
			global.FallbackActivations,
			global.VendorLatency,
		)
	})
	return global
}
